package trim

// Listener receives the notifications a Session emits. Calls happen
// synchronously on the goroutine that feeds the session.
type Listener interface {
	DragBegan(h Handle, t TimeValue)
	DragChanged(h Handle, t TimeValue)
	DragEnded(start, end TimeValue)
	ScrubBegan(t TimeValue)
	ScrubChanged(t TimeValue)
	ScrubEnded(t TimeValue)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) DragBegan(Handle, TimeValue)    {}
func (NopListener) DragChanged(Handle, TimeValue)  {}
func (NopListener) DragEnded(TimeValue, TimeValue) {}
func (NopListener) ScrubBegan(TimeValue)           {}
func (NopListener) ScrubChanged(TimeValue)         {}
func (NopListener) ScrubEnded(TimeValue)           {}

// EventKind names a notification.
type EventKind int

const (
	DragBeganEvent EventKind = iota
	DragChangedEvent
	DragEndedEvent
	ScrubBeganEvent
	ScrubChangedEvent
	ScrubEndedEvent
)

func (k EventKind) String() string {
	switch k {
	case DragBeganEvent:
		return "drag-began"
	case DragChangedEvent:
		return "drag-changed"
	case DragEndedEvent:
		return "drag-ended"
	case ScrubBeganEvent:
		return "scrub-began"
	case ScrubChangedEvent:
		return "scrub-changed"
	default:
		return "scrub-ended"
	}
}

// Event is a notification as a value. Handle is only meaningful for
// DragBegan and DragChanged; Start and End only for DragEnded.
type Event struct {
	Kind   EventKind
	Handle Handle
	Time   TimeValue
	Start  TimeValue
	End    TimeValue
}

// ListenerFunc adapts a function receiving Event values to a Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) DragBegan(h Handle, t TimeValue) {
	f(Event{Kind: DragBeganEvent, Handle: h, Time: t})
}

func (f ListenerFunc) DragChanged(h Handle, t TimeValue) {
	f(Event{Kind: DragChangedEvent, Handle: h, Time: t})
}

func (f ListenerFunc) DragEnded(start, end TimeValue) {
	f(Event{Kind: DragEndedEvent, Start: start, End: end})
}

func (f ListenerFunc) ScrubBegan(t TimeValue)   { f(Event{Kind: ScrubBeganEvent, Time: t}) }
func (f ListenerFunc) ScrubChanged(t TimeValue) { f(Event{Kind: ScrubChangedEvent, Time: t}) }
func (f ListenerFunc) ScrubEnded(t TimeValue)   { f(Event{Kind: ScrubEndedEvent, Time: t}) }

// MultiListener fans notifications out to several listeners in order.
func MultiListener(listeners ...Listener) Listener {
	return multiListener(listeners)
}

type multiListener []Listener

func (m multiListener) DragBegan(h Handle, t TimeValue) {
	for _, l := range m {
		l.DragBegan(h, t)
	}
}

func (m multiListener) DragChanged(h Handle, t TimeValue) {
	for _, l := range m {
		l.DragChanged(h, t)
	}
}

func (m multiListener) DragEnded(start, end TimeValue) {
	for _, l := range m {
		l.DragEnded(start, end)
	}
}

func (m multiListener) ScrubBegan(t TimeValue) {
	for _, l := range m {
		l.ScrubBegan(t)
	}
}

func (m multiListener) ScrubChanged(t TimeValue) {
	for _, l := range m {
		l.ScrubChanged(t)
	}
}

func (m multiListener) ScrubEnded(t TimeValue) {
	for _, l := range m {
		l.ScrubEnded(t)
	}
}
