package trim

import (
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultSnapEpsilon is the playhead-to-handle snap distance in pixels.
const DefaultSnapEpsilon = 0.01

// Window is a trimmed interval of the asset.
type Window struct {
	Start TimeValue
	End   TimeValue
}

// DurationSeconds returns the length of the window.
func (w Window) DurationSeconds() float64 {
	return w.End.Seconds() - w.Start.Seconds()
}

// Session binds a Track and a duration band to an Engine, converts between
// pixels and time, and notifies a Listener. It is not safe for concurrent
// use: gesture input and playback seeks must be serialized by the caller.
type Session struct {
	listener       Listener
	log            zerolog.Logger
	draggableWidth float64
	snapEpsilon    float64

	initialized bool
	track       Track
	minSeconds  float64
	maxSeconds  float64
	engine      *Engine

	// Times are authoritative; pixel positions are derived from them on resize.
	start    TimeValue
	end      TimeValue
	playhead TimeValue
}

// Option configures a Session.
type Option func(*Session)

// WithListener sets the notification target.
func WithListener(l Listener) Option {
	return func(s *Session) {
		if l != nil {
			s.listener = l
		}
	}
}

// WithLogger sets the logger used for gesture tracing and invariant reports.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// WithDraggableWidth sets the handle hit width in pixels.
func WithDraggableWidth(px float64) Option {
	return func(s *Session) {
		s.draggableWidth = px
	}
}

// WithSnapEpsilon sets how close the playhead must be to a handle to snap onto it.
func WithSnapEpsilon(px float64) Option {
	return func(s *Session) {
		s.snapEpsilon = px
	}
}

// NewSession creates an uninitialized session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		listener:    NopListener{},
		log:         zerolog.Nop(),
		snapEpsilon: DefaultSnapEpsilon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetListener replaces the notification target.
func (s *Session) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	s.listener = l
}

// Initialize sets up the track, the band and the initial window.
func (s *Session) Initialize(track Track, start, end TimeValue, minSeconds, maxSeconds float64) error {
	if err := track.Validate(); err != nil {
		return err
	}
	if minSeconds < 0 {
		return &ConfigurationError{Field: "min duration", Reason: fmt.Sprintf("must not be negative, got %v", minSeconds)}
	}
	if maxSeconds < minSeconds {
		return &ConfigurationError{Field: "max duration", Reason: fmt.Sprintf("%vs is below min duration %vs", maxSeconds, minSeconds)}
	}
	if s.draggableWidth < 0 || s.draggableWidth >= track.WidthPixels {
		return &ConfigurationError{Field: "draggable width", Reason: fmt.Sprintf("%v does not fit a track of width %v", s.draggableWidth, track.WidthPixels)}
	}
	if !start.Before(end) {
		return &ConfigurationError{Field: "initial window", Reason: fmt.Sprintf("end %s is not after start %s", end, start)}
	}
	cs, ce := s.clampTo(track, start), s.clampTo(track, end)
	if !cs.Before(ce) {
		return &ConfigurationError{Field: "initial window", Reason: fmt.Sprintf("%s-%s lies outside the asset", start, end)}
	}

	s.track = track
	s.minSeconds = minSeconds
	s.maxSeconds = maxSeconds
	s.start = cs
	s.end = ce
	s.playhead = s.start

	pos := s.positionsFromTimes()
	s.engine = NewEngine(s.bounds(), pos.Left, pos.Right, s.log)
	s.initialized = true

	s.log.Debug().
		Float64("width", track.WidthPixels).
		Float64("duration", track.DurationSeconds()).
		Float64("min_px", s.engine.Bounds().MinDistance).
		Float64("max_px", s.engine.Bounds().MaxDistance).
		Stringer("start", s.start).
		Stringer("end", s.end).
		Msg("trim session initialized")
	return nil
}

// Initialized reports whether Initialize succeeded.
func (s *Session) Initialized() bool {
	return s.initialized
}

// OnHandleDrag forwards a gesture event for a trim handle and returns the
// resulting window.
func (s *Session) OnHandleDrag(h Handle, phase Phase, delta float64) Window {
	if !s.initialized {
		return Window{}
	}

	u := s.engine.DragHandle(h, phase, delta)
	if !u.Accepted {
		return s.CurrentWindow()
	}

	switch phase {
	case Began:
		s.listener.DragBegan(h, s.handleTime(h))
	case Changed:
		if !u.Moved() {
			break
		}
		s.syncTimes(u)
		// The dragged handle is reported last so a seeking listener ends on it.
		if h == Left && u.RightMoved {
			s.listener.DragChanged(Right, s.end)
		}
		if h == Right && u.LeftMoved {
			s.listener.DragChanged(Left, s.start)
		}
		if (h == Left && u.LeftMoved) || (h == Right && u.RightMoved) {
			s.listener.DragChanged(h, s.handleTime(h))
		}
	case Ended, Cancelled:
		s.log.Debug().Stringer("handle", h).Stringer("phase", phase).
			Stringer("start", s.start).Stringer("end", s.end).Msg("handle drag finished")
		s.listener.DragEnded(s.start, s.end)
	}
	return s.CurrentWindow()
}

// OnPlayheadDrag forwards a gesture event for the playhead and returns the
// playhead time.
func (s *Session) OnPlayheadDrag(phase Phase, delta float64) TimeValue {
	if !s.initialized {
		return TimeValue{}
	}

	u := s.engine.DragPlayhead(phase, delta)
	if !u.Accepted {
		return s.playhead
	}

	switch phase {
	case Began:
		s.listener.ScrubBegan(s.playhead)
	case Changed:
		if u.PlayheadMoved {
			s.syncTimes(u)
			s.listener.ScrubChanged(s.playhead)
		}
	case Ended, Cancelled:
		s.listener.ScrubEnded(s.playhead)
	}
	return s.playhead
}

// SeekPlayhead moves the playhead to t on behalf of playback, clamped into the
// current window. It is a no-op while the user scrubs, and reports whether the
// seek was applied.
func (s *Session) SeekPlayhead(t TimeValue) bool {
	if !s.initialized {
		return false
	}
	s.checkOvershoot(s.track, "seek", t)
	if s.engine.IsDragging(Playhead) {
		return false
	}

	t = t.ConvertScale(s.track.Timescale)
	switch {
	case t.Before(s.start):
		t = s.start
	case s.end.Before(t):
		t = s.end
	}
	s.engine.SeekPlayhead(TimeToPosition(t, s.track))
	// The engine may have snapped the playhead onto a handle.
	switch pos := s.engine.Positions(); pos.Playhead {
	case pos.Left:
		s.playhead = s.start
	case pos.Right:
		s.playhead = s.end
	default:
		s.playhead = t
	}
	return true
}

// ResetPlayhead puts the playhead back at the window start.
func (s *Session) ResetPlayhead() {
	if !s.initialized {
		return
	}
	s.engine.ResetPlayhead()
	s.playhead = s.start
}

// SetWindow replaces the trim window from an external source, such as a
// stored trim. The playhead returns to the window start.
func (s *Session) SetWindow(start, end TimeValue) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !start.Before(end) {
		return &ConfigurationError{Field: "window", Reason: fmt.Sprintf("end %s is not after start %s", end, start)}
	}
	cs, ce := s.clampTime(start), s.clampTime(end)
	if !cs.Before(ce) {
		return &ConfigurationError{Field: "window", Reason: fmt.Sprintf("%s-%s lies outside the asset", start, end)}
	}
	s.start = cs
	s.end = ce
	s.playhead = s.start
	s.engine.Reset(s.bounds(), s.positionsFromTimes())
	return nil
}

// Resize adopts a track of a new pixel width. Handle and playhead times are
// kept and their pixel offsets re-derived from them, so relayout never drifts.
func (s *Session) Resize(track Track) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if err := track.Validate(); err != nil {
		return err
	}
	if s.draggableWidth >= track.WidthPixels {
		return &ConfigurationError{Field: "draggable width", Reason: fmt.Sprintf("%v does not fit a track of width %v", s.draggableWidth, track.WidthPixels)}
	}
	s.track = track
	s.engine.Reset(s.bounds(), s.positionsFromTimes())
	s.log.Debug().Float64("width", track.WidthPixels).Msg("trim track resized")
	return nil
}

// CurrentWindow returns the trim window.
func (s *Session) CurrentWindow() Window {
	return Window{Start: s.start, End: s.end}
}

// PlayheadTime returns the playhead time.
func (s *Session) PlayheadTime() TimeValue {
	return s.playhead
}

// Track returns the current track.
func (s *Session) Track() Track {
	return s.track
}

// Positions returns the pixel positions of the handles and playhead.
func (s *Session) Positions() Positions {
	if !s.initialized {
		return Positions{}
	}
	return s.engine.Positions()
}

// Bounds returns the pixel constraints in effect.
func (s *Session) Bounds() Bounds {
	if !s.initialized {
		return Bounds{}
	}
	return s.engine.Bounds()
}

// IsScrubbing reports whether the user is dragging the playhead.
func (s *Session) IsScrubbing() bool {
	return s.initialized && s.engine.IsDragging(Playhead)
}

// IsDragging reports whether any dragger has a gesture in progress.
func (s *Session) IsDragging() bool {
	if !s.initialized {
		return false
	}
	return s.engine.IsDragging(LeftHandle) || s.engine.IsDragging(RightHandle) || s.engine.IsDragging(Playhead)
}

func (s *Session) bounds() Bounds {
	return Bounds{
		Width:          s.track.WidthPixels,
		MinDistance:    DistanceForDuration(s.minSeconds, s.track),
		MaxDistance:    DistanceForDuration(s.maxSeconds, s.track),
		DraggableWidth: s.draggableWidth,
		SnapEpsilon:    s.snapEpsilon,
	}
}

func (s *Session) positionsFromTimes() Positions {
	return Positions{
		Left:     TimeToPosition(s.start, s.track),
		Right:    TimeToPosition(s.end, s.track),
		Playhead: TimeToPosition(s.playhead, s.track),
	}
}

func (s *Session) syncTimes(u Update) {
	if u.LeftMoved {
		s.start = PositionToTime(u.Positions.Left, s.track)
	}
	if u.RightMoved {
		s.end = PositionToTime(u.Positions.Right, s.track)
	}
	if u.PlayheadMoved || u.LeftMoved || u.RightMoved {
		p := u.Positions.Playhead
		switch p {
		case u.Positions.Left:
			s.playhead = s.start
		case u.Positions.Right:
			s.playhead = s.end
		default:
			s.playhead = PositionToTime(p, s.track)
		}
	}
}

func (s *Session) handleTime(h Handle) TimeValue {
	if h == Left {
		return s.start
	}
	return s.end
}

// clampTime re-expresses t in the track timescale and clamps it onto the asset.
func (s *Session) clampTime(t TimeValue) TimeValue {
	return s.clampTo(s.track, t)
}

func (s *Session) clampTo(track Track, t TimeValue) TimeValue {
	s.checkOvershoot(track, "window", t)
	t = t.ConvertScale(track.Timescale)
	switch {
	case t.Ticks < 0:
		t.Ticks = 0
	case t.Ticks > track.DurationTicks:
		t.Ticks = track.DurationTicks
	}
	return t
}

func (s *Session) checkOvershoot(track Track, what string, t TimeValue) {
	if r := NormalizedTime(t, track); r > OvershootTolerance {
		s.log.Warn().Str("source", what).Stringer("time", t).Float64("ratio", r).
			Msg("time past end of asset, clamping")
	}
}
