package trim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

// scenarioBounds: 100px track, 20px handles, band [20, 50].
var scenarioBounds = Bounds{Width: 100, MinDistance: 20, MaxDistance: 50, DraggableWidth: 20, SnapEpsilon: 0.01}

func drag(e *Engine, h Handle, deltas ...float64) Update {
	var u Update
	e.DragHandle(h, Began, 0)
	for _, d := range deltas {
		u = e.DragHandle(h, Changed, d)
	}
	e.DragHandle(h, Ended, 0)
	return u
}

func assertPositions(t *testing.T, e *Engine, left, right float64) {
	t.Helper()
	p := e.Positions()
	if math.Abs(p.Left-left) > 1e-9 || math.Abs(p.Right-right) > 1e-9 {
		t.Errorf("positions = (%v, %v), want (%v, %v)", p.Left, p.Right, left, right)
	}
}

func TestDragHandleBandPolicy(t *testing.T) {
	tests := []struct {
		name        string
		bounds      Bounds
		left, right float64
		handle      Handle
		deltas      []float64
		wantLeft    float64
		wantRight   float64
	}{
		{
			name:   "growing at max pushes the window",
			bounds: scenarioBounds, left: 0, right: 50,
			handle: Right, deltas: []float64{10},
			wantLeft: 10, wantRight: 60,
		},
		{
			name:   "shrinking from max moves only the dragged handle",
			bounds: scenarioBounds, left: 10, right: 60,
			handle: Left, deltas: []float64{20},
			wantLeft: 30, wantRight: 60,
		},
		{
			name:   "within band moves only the dragged handle",
			bounds: scenarioBounds, left: 10, right: 40,
			handle: Right, deltas: []float64{5},
			wantLeft: 10, wantRight: 45,
		},
		{
			name:   "overshooting max splits into solo move and push",
			bounds: scenarioBounds, left: 10, right: 45,
			handle: Right, deltas: []float64{20},
			wantLeft: 15, wantRight: 65,
		},
		{
			name:   "growing left handle at max pushes the window left",
			bounds: scenarioBounds, left: 40, right: 90,
			handle: Left, deltas: []float64{-15},
			wantLeft: 25, wantRight: 75,
		},
		{
			name:   "shrinking at min pushes the other handle",
			bounds: scenarioBounds, left: 30, right: 50,
			handle: Left, deltas: []float64{10},
			wantLeft: 40, wantRight: 60,
		},
		{
			name:   "shrinking right handle at min pushes left handle",
			bounds: scenarioBounds, left: 30, right: 50,
			handle: Right, deltas: []float64{-10},
			wantLeft: 20, wantRight: 40,
		},
		{
			name:   "push against right edge lets trailing handle follow down to min",
			bounds: scenarioBounds, left: 50, right: 100,
			handle: Right, deltas: []float64{10},
			wantLeft: 60, wantRight: 100,
		},
		{
			name:   "push against left edge lets trailing handle follow down to min",
			bounds: scenarioBounds, left: 0, right: 50,
			handle: Left, deltas: []float64{-40},
			wantLeft: 0, wantRight: 20,
		},
		{
			name:   "pushing a pinned window at min stops both",
			bounds: scenarioBounds, left: 80, right: 100,
			handle: Left, deltas: []float64{10},
			wantLeft: 80, wantRight: 100,
		},
		{
			name:   "within band at the edge stops without moving the other handle",
			bounds: scenarioBounds, left: 0, right: 30,
			handle: Left, deltas: []float64{-10},
			wantLeft: 0, wantRight: 30,
		},
		{
			name:   "right handle within band stops at track end",
			bounds: scenarioBounds, left: 60, right: 95,
			handle: Right, deltas: []float64{10},
			wantLeft: 60, wantRight: 100,
		},
		{
			name:   "handles never cross closer than draggable width",
			bounds: Bounds{Width: 100, MinDistance: 0, MaxDistance: 100, DraggableWidth: 20},
			left:   10, right: 40,
			handle: Left, deltas: []float64{50},
			wantLeft: 20, wantRight: 40,
		},
		{
			name:   "narrow start grows toward band",
			bounds: Bounds{Width: 100, MinDistance: 20, MaxDistance: 50},
			left:   40, right: 45,
			handle: Right, deltas: []float64{5},
			wantLeft: 40, wantRight: 50,
		},
		{
			name:   "narrow start shrinking moves both",
			bounds: Bounds{Width: 100, MinDistance: 20, MaxDistance: 50},
			left:   40, right: 45,
			handle: Left, deltas: []float64{5},
			wantLeft: 45, wantRight: 50,
		},
		{
			name:   "wide start growing moves both",
			bounds: scenarioBounds, left: 0, right: 80,
			handle: Right, deltas: []float64{10},
			wantLeft: 10, wantRight: 90,
		},
		{
			name:   "wide start shrinking enters band",
			bounds: scenarioBounds, left: 10, right: 90,
			handle: Right, deltas: []float64{-50},
			wantLeft: 10, wantRight: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.bounds, tt.left, tt.right, zerolog.Nop())
			drag(e, tt.handle, tt.deltas...)
			assertPositions(t, e, tt.wantLeft, tt.wantRight)
		})
	}
}

func TestDragHandleReportsMovement(t *testing.T) {
	e := NewEngine(scenarioBounds, 0, 50, zerolog.Nop())
	e.DragHandle(Right, Began, 0)

	u := e.DragHandle(Right, Changed, 10)
	if !u.Accepted || !u.LeftMoved || !u.RightMoved {
		t.Errorf("push update = %+v, want both handles moved", u)
	}

	u = e.DragHandle(Right, Changed, 0)
	if !u.Accepted || u.Moved() {
		t.Errorf("zero delta update = %+v, want accepted without movement", u)
	}
	if got := e.State(RightHandle).LastRawDelta; got != 0 {
		t.Errorf("LastRawDelta = %v, want 0", got)
	}
}

func TestPhaseOrder(t *testing.T) {
	e := NewEngine(scenarioBounds, 10, 40, zerolog.Nop())

	if u := e.DragHandle(Left, Changed, 5); u.Accepted || u.Moved() {
		t.Errorf("changed before began = %+v, want rejected", u)
	}
	if u := e.DragHandle(Left, Ended, 0); u.Accepted {
		t.Errorf("ended before began = %+v, want rejected", u)
	}
	assertPositions(t, e, 10, 40)

	e.DragHandle(Left, Began, 0)
	if got := e.State(LeftHandle).Phase; got != Began {
		t.Errorf("phase after began = %v, want began", got)
	}
	if got := e.State(LeftHandle).Origin.Left; got != 10 {
		t.Errorf("origin left = %v, want 10", got)
	}
	e.DragHandle(Left, Changed, 5)
	if !e.IsDragging(LeftHandle) {
		t.Error("left handle should be dragging")
	}
	if e.IsDragging(RightHandle) {
		t.Error("right handle should be idle")
	}

	// A second began restarts the gesture instead of failing.
	if u := e.DragHandle(Left, Began, 0); !u.Accepted {
		t.Error("repeated began should be accepted as a restart")
	}
	e.DragHandle(Left, Cancelled, 0)
	if got := e.State(LeftHandle).Phase; got != Idle {
		t.Errorf("phase after cancel = %v, want idle", got)
	}
	assertPositions(t, e, 15, 40)
}

func TestCancelMatchesEnd(t *testing.T) {
	deltas := []float64{7, -3, 25, -40, 12}

	ended := NewEngine(scenarioBounds, 20, 60, zerolog.Nop())
	cancelled := NewEngine(scenarioBounds, 20, 60, zerolog.Nop())
	for _, e := range []*Engine{ended, cancelled} {
		e.DragHandle(Right, Began, 0)
		for _, d := range deltas {
			e.DragHandle(Right, Changed, d)
		}
	}
	ended.DragHandle(Right, Ended, 0)
	cancelled.DragHandle(Right, Cancelled, 0)

	if ended.Positions() != cancelled.Positions() {
		t.Errorf("cancelled positions %+v differ from ended %+v", cancelled.Positions(), ended.Positions())
	}
	if ended.State(RightHandle) != cancelled.State(RightHandle) {
		t.Errorf("cancelled state %+v differs from ended %+v", cancelled.State(RightHandle), ended.State(RightHandle))
	}
}

func TestPlayheadFollowsHandles(t *testing.T) {
	e := NewEngine(scenarioBounds, 10, 60, zerolog.Nop())
	e.SeekPlayhead(30)

	u := drag(e, Left, 25)
	if got := e.Positions().Playhead; got != 35 {
		t.Errorf("playhead = %v, want 35 (pushed by left handle)", got)
	}
	if !u.PlayheadMoved {
		t.Error("update should report playhead movement")
	}

	e.SeekPlayhead(55)
	drag(e, Right, -15)
	if got := e.Positions().Playhead; got != 45 {
		t.Errorf("playhead = %v, want 45 (pushed by right handle)", got)
	}
}

func TestDragPlayhead(t *testing.T) {
	e := NewEngine(scenarioBounds, 10, 60, zerolog.Nop())

	e.DragPlayhead(Began, 0)
	if u := e.DragPlayhead(Changed, 100); u.Positions.Playhead != 60 {
		t.Errorf("playhead = %v, want clamped to 60", u.Positions.Playhead)
	}
	if u := e.DragPlayhead(Changed, -200); u.Positions.Playhead != 10 {
		t.Errorf("playhead = %v, want clamped to 10", u.Positions.Playhead)
	}
	if u := e.DragPlayhead(Changed, 15); !u.PlayheadMoved || u.Positions.Playhead != 25 {
		t.Errorf("update = %+v, want playhead at 25", u)
	}

	if e.SeekPlayhead(50) {
		t.Error("seek during scrub should be ignored")
	}
	if got := e.Positions().Playhead; got != 25 {
		t.Errorf("playhead = %v after ignored seek, want 25", got)
	}

	e.DragPlayhead(Ended, 0)
	if !e.SeekPlayhead(50) {
		t.Error("seek after scrub should apply")
	}
	if got := e.Positions().Playhead; got != 50 {
		t.Errorf("playhead = %v, want 50", got)
	}
	if u := e.DragPlayhead(Changed, 5); u.Accepted {
		t.Error("changed after ended should be rejected")
	}
}

func TestSeekPlayheadClampsAndSnaps(t *testing.T) {
	e := NewEngine(scenarioBounds, 10, 60, zerolog.Nop())

	tests := []struct {
		seek, want float64
	}{
		{seek: 0, want: 10},
		{seek: 80, want: 60},
		{seek: 30, want: 30},
		{seek: 10.005, want: 10},
		{seek: 59.995, want: 60},
		{seek: 10.5, want: 10.5},
	}
	for _, tt := range tests {
		e.SeekPlayhead(tt.seek)
		if got := e.Positions().Playhead; got != tt.want {
			t.Errorf("SeekPlayhead(%v) -> %v, want %v", tt.seek, got, tt.want)
		}
	}

	e.ResetPlayhead()
	if got := e.Positions().Playhead; got != 10 {
		t.Errorf("ResetPlayhead -> %v, want 10", got)
	}
}

func TestResetClampsOntoTrack(t *testing.T) {
	e := NewEngine(scenarioBounds, -10, 140, zerolog.Nop())
	assertPositions(t, e, 0, 100)

	e.Reset(scenarioBounds, Positions{Left: 70, Right: 30, Playhead: 90})
	p := e.Positions()
	if p.Left != 70 || p.Right != 70 || p.Playhead != 70 {
		t.Errorf("Reset with inverted handles = %+v, want all at 70", p)
	}
}

func TestRandomDragsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := NewEngine(scenarioBounds, 20, 55, zerolog.Nop())
	const slack = 1e-6

	for i := 0; i < 2000; i++ {
		delta := rng.Float64()*60 - 30
		switch rng.Intn(4) {
		case 0:
			drag(e, Left, delta)
		case 1:
			drag(e, Right, delta)
		case 2:
			e.DragPlayhead(Began, 0)
			e.DragPlayhead(Changed, delta)
			e.DragPlayhead(Ended, 0)
		default:
			e.SeekPlayhead(rng.Float64() * 120)
		}

		p := e.Positions()
		d := p.Distance()
		if d < scenarioBounds.MinDistance-slack || d > scenarioBounds.MaxDistance+slack {
			t.Fatalf("step %d: distance %v left band [%v, %v]", i, d, scenarioBounds.MinDistance, scenarioBounds.MaxDistance)
		}
		if p.Left < -slack || p.Right > scenarioBounds.Width+slack {
			t.Fatalf("step %d: handles (%v, %v) left the track", i, p.Left, p.Right)
		}
		if p.Playhead < p.Left || p.Playhead > p.Right {
			t.Fatalf("step %d: playhead %v outside (%v, %v)", i, p.Playhead, p.Left, p.Right)
		}
	}
}

func TestRandomDragsNeverMoveFurtherFromBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bounds := Bounds{Width: 200, MinDistance: 60, MaxDistance: 80}
	e := NewEngine(bounds, 90, 100, zerolog.Nop())
	gap := bounds.bandGap(e.Positions().Distance())

	for i := 0; i < 1000; i++ {
		h := Left
		if rng.Intn(2) == 1 {
			h = Right
		}
		drag(e, h, rng.Float64()*40-20)

		next := bounds.bandGap(e.Positions().Distance())
		if next > gap+1e-6 {
			t.Fatalf("step %d: band gap grew from %v to %v", i, gap, next)
		}
		gap = next
	}
}
