package trim

import (
	"math"

	"github.com/rs/zerolog"
)

// bandSlack absorbs float error when comparing distances against the band.
const bandSlack = 1e-9

// Handle identifies one of the two trim handles.
type Handle int

const (
	// Left marks the trim start.
	Left Handle = iota
	// Right marks the trim end.
	Right
)

func (h Handle) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

func (h Handle) dragger() Dragger {
	if h == Left {
		return LeftHandle
	}
	return RightHandle
}

// Dragger identifies an independent drag state machine.
type Dragger int

const (
	LeftHandle Dragger = iota
	RightHandle
	Playhead
)

func (d Dragger) String() string {
	switch d {
	case LeftHandle:
		return "left-handle"
	case RightHandle:
		return "right-handle"
	default:
		return "playhead"
	}
}

// Phase is a gesture phase. Idle is both the initial and the terminal state.
type Phase int

const (
	Idle Phase = iota
	Began
	Changed
	Ended
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// active reports whether the phase belongs to a gesture in progress.
func (p Phase) active() bool {
	return p == Began || p == Changed
}

// Positions holds the pixel offsets of both handles and the playhead.
type Positions struct {
	Left     float64
	Right    float64
	Playhead float64
}

// Distance is the gap between the handles in pixels.
func (p Positions) Distance() float64 {
	return p.Right - p.Left
}

// Bounds are the pixel constraints the engine enforces.
type Bounds struct {
	Width          float64
	MinDistance    float64
	MaxDistance    float64
	DraggableWidth float64
	// SnapEpsilon snaps the playhead onto a handle when it is this close.
	SnapEpsilon float64
}

// inBand reports whether distance d is inside [MinDistance, MaxDistance].
func (b Bounds) inBand(d float64) bool {
	return d >= b.MinDistance-bandSlack && d <= b.MaxDistance+bandSlack
}

// bandGap is how far d lies outside the band; 0 when inside.
func (b Bounds) bandGap(d float64) float64 {
	switch {
	case d < b.MinDistance:
		return b.MinDistance - d
	case d > b.MaxDistance:
		return d - b.MaxDistance
	default:
		return 0
	}
}

// DragState is the ephemeral state of one dragger.
type DragState struct {
	Phase        Phase
	LastRawDelta float64
	// Origin is the snapshot taken when the gesture began.
	Origin Positions
}

// Update is the outcome of a single drag event.
type Update struct {
	Dragger Dragger
	Phase   Phase
	// Accepted is false when the event did not fit the dragger's phase order.
	Accepted      bool
	LeftMoved     bool
	RightMoved    bool
	PlayheadMoved bool
	Positions     Positions
}

// Moved reports whether any marker changed position.
func (u Update) Moved() bool {
	return u.LeftMoved || u.RightMoved || u.PlayheadMoved
}

// Engine owns the handle and playhead positions and mutates them only in
// response to drag and seek events. It is not safe for concurrent use.
type Engine struct {
	bounds Bounds
	pos    Positions
	drags  [3]DragState
	log    zerolog.Logger
}

// NewEngine creates an engine with the given bounds and handle positions.
// The playhead starts on the left handle.
func NewEngine(bounds Bounds, left, right float64, logger zerolog.Logger) *Engine {
	e := &Engine{log: logger}
	e.Reset(bounds, Positions{Left: left, Right: right, Playhead: left})
	return e
}

// Reset replaces bounds and positions, clamping them onto the track.
// In-progress drag states are kept.
func (e *Engine) Reset(bounds Bounds, pos Positions) {
	e.bounds = bounds
	pos.Left = clamp(pos.Left, 0, bounds.Width)
	pos.Right = clamp(pos.Right, pos.Left, bounds.Width)
	e.pos = pos
	e.containPlayhead()
}

// Bounds returns the current constraints.
func (e *Engine) Bounds() Bounds {
	return e.bounds
}

// Positions returns the current marker positions.
func (e *Engine) Positions() Positions {
	return e.pos
}

// State returns the drag state of d.
func (e *Engine) State(d Dragger) DragState {
	return e.drags[d]
}

// IsDragging reports whether a gesture is in progress for d.
func (e *Engine) IsDragging(d Dragger) bool {
	return e.drags[d].Phase.active()
}

// DragHandle processes one gesture event for a trim handle.
func (e *Engine) DragHandle(h Handle, phase Phase, delta float64) Update {
	d := h.dragger()
	u := e.transition(d, phase, delta)
	if !u.Accepted || phase != Changed || delta == 0 {
		return u
	}

	before := e.pos
	e.moveHandle(h, delta)
	e.enforceInvariants(before)

	u.LeftMoved = e.pos.Left != before.Left
	u.RightMoved = e.pos.Right != before.Right
	u.PlayheadMoved = e.pos.Playhead != before.Playhead
	u.Positions = e.pos
	return u
}

// DragPlayhead processes one gesture event for the playhead. The playhead is
// clamped between the handles and has no band logic of its own.
func (e *Engine) DragPlayhead(phase Phase, delta float64) Update {
	u := e.transition(Playhead, phase, delta)
	if !u.Accepted || phase != Changed || delta == 0 {
		return u
	}

	before := e.pos.Playhead
	e.pos.Playhead = clamp(e.pos.Playhead+delta, e.pos.Left, e.pos.Right)
	e.snapPlayhead()
	u.PlayheadMoved = e.pos.Playhead != before
	u.Positions = e.pos
	return u
}

// SeekPlayhead moves the playhead to position on behalf of playback. It is
// ignored while the user drags the playhead and reports whether it applied.
func (e *Engine) SeekPlayhead(position float64) bool {
	if e.IsDragging(Playhead) {
		return false
	}
	e.pos.Playhead = clamp(position, e.pos.Left, e.pos.Right)
	e.snapPlayhead()
	return true
}

// ResetPlayhead puts the playhead back on the left handle.
func (e *Engine) ResetPlayhead() {
	e.pos.Playhead = e.pos.Left
}

// transition advances the phase machine of d. Events that do not follow
// began, changed*, ended|cancelled are logged and rejected.
func (e *Engine) transition(d Dragger, phase Phase, delta float64) Update {
	st := &e.drags[d]
	u := Update{Dragger: d, Phase: phase, Positions: e.pos}

	switch phase {
	case Began:
		if st.Phase.active() {
			e.log.Warn().Stringer("dragger", d).Msg("drag began while a gesture was active, restarting")
		}
		*st = DragState{Phase: Began, Origin: e.pos}
	case Changed:
		if !st.Phase.active() {
			e.log.Debug().Stringer("dragger", d).Float64("delta", delta).Msg("changed without began, ignored")
			return u
		}
		st.Phase = Changed
		st.LastRawDelta = delta
	case Ended, Cancelled:
		if !st.Phase.active() {
			e.log.Debug().Stringer("dragger", d).Stringer("phase", phase).Msg("terminal phase without began, ignored")
			return u
		}
		// No rollback on cancel: the last valid position stands.
		*st = DragState{}
	default:
		return u
	}

	u.Accepted = true
	return u
}

// moveHandle applies delta to handle h following the band policy.
//
// The dragged handle moves alone while the gap stays within the band. The part
// of the movement that would push the gap past the band edge it is heading for
// moves the whole window instead.
func (e *Engine) moveHandle(h Handle, delta float64) {
	dir := math.Copysign(1, delta)
	amount := math.Abs(delta)
	growing := (h == Right) == (delta > 0)

	dist := e.pos.Distance()
	var room float64
	if growing {
		room = e.bounds.MaxDistance - dist
	} else {
		room = dist - e.bounds.MinDistance
	}
	solo := math.Min(amount, math.Max(room, 0))

	if solo > 0 {
		moved := e.shift(h, dir*solo)
		if moved < solo-bandSlack {
			// Stopped by a track edge or the other handle.
			return
		}
	}
	if rest := amount - solo; rest > 0 {
		e.pushWindow(dir * rest)
	}
}

// shift moves one handle by delta, stopping at the track edge or at
// DraggableWidth from the other handle. A handle never moves backwards to
// satisfy a bound it already violates. It returns the distance travelled.
func (e *Engine) shift(h Handle, delta float64) float64 {
	dw := e.bounds.DraggableWidth
	if h == Left {
		old := e.pos.Left
		if delta > 0 {
			e.pos.Left = math.Min(old+delta, math.Max(old, e.pos.Right-dw))
		} else {
			e.pos.Left = math.Max(old+delta, math.Min(old, 0))
		}
		return math.Abs(e.pos.Left - old)
	}

	old := e.pos.Right
	if delta > 0 {
		e.pos.Right = math.Min(old+delta, math.Max(old, e.bounds.Width))
	} else {
		e.pos.Right = math.Max(old+delta, math.Min(old, e.pos.Left+dw))
	}
	return math.Abs(e.pos.Right - old)
}

// pushWindow translates both handles by delta. When the leading handle is
// pinned at a track edge, the trailing one keeps moving toward it for as long
// as the gap stays at or above the band minimum, then both stop.
func (e *Engine) pushWindow(delta float64) {
	var t float64
	if delta > 0 {
		t = math.Min(delta, math.Max(0, e.bounds.Width-e.pos.Right))
	} else {
		t = math.Max(delta, math.Min(0, -e.pos.Left))
	}
	e.pos.Left += t
	e.pos.Right += t

	rest := math.Abs(delta) - math.Abs(t)
	if rest <= 0 {
		return
	}
	room := math.Max(0, e.pos.Distance()-e.bounds.MinDistance)
	step := math.Min(rest, room)
	if step <= 0 {
		return
	}
	if delta > 0 {
		e.shift(Left, step)
	} else {
		e.shift(Right, -step)
	}
}

// enforceInvariants repairs a state that should be unreachable. A repair is
// logged as an invariant violation and never surfaces as an error.
func (e *Engine) enforceInvariants(before Positions) {
	p := e.pos
	if p.Left < 0 || p.Right > e.bounds.Width || p.Left > p.Right {
		e.log.Warn().
			Float64("left", p.Left).
			Float64("right", p.Right).
			Float64("width", e.bounds.Width).
			Msg("invariant violation: handles outside track, clamping")
		e.pos.Left = clamp(p.Left, 0, e.bounds.Width)
		e.pos.Right = clamp(p.Right, e.pos.Left, e.bounds.Width)
	}

	prev, cur := before.Distance(), e.pos.Distance()
	leftBand := e.bounds.inBand(prev) && !e.bounds.inBand(cur)
	drifted := !e.bounds.inBand(prev) && e.bounds.bandGap(cur) > e.bounds.bandGap(prev)+bandSlack
	if leftBand || drifted {
		e.log.Warn().
			Float64("before", prev).
			Float64("after", cur).
			Float64("min", e.bounds.MinDistance).
			Float64("max", e.bounds.MaxDistance).
			Msg("invariant violation: handle gap moved away from band, reverting")
		e.pos.Left, e.pos.Right = before.Left, before.Right
	}

	e.containPlayhead()
}

// containPlayhead keeps the playhead between the handles.
func (e *Engine) containPlayhead() {
	e.pos.Playhead = clamp(e.pos.Playhead, e.pos.Left, e.pos.Right)
	e.snapPlayhead()
}

func (e *Engine) snapPlayhead() {
	eps := e.bounds.SnapEpsilon
	if eps <= 0 {
		return
	}
	switch {
	case math.Abs(e.pos.Playhead-e.pos.Left) <= eps:
		e.pos.Playhead = e.pos.Left
	case math.Abs(e.pos.Right-e.pos.Playhead) <= eps:
		e.pos.Playhead = e.pos.Right
	}
}
