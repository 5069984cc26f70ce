package vo

import "github.com/1broseidon/vowin/internal/platform"

// EventKind classifies an event reported by Poll.
type EventKind int

const (
	EventResize EventKind = iota + 1
	EventMove
	EventExpose
	EventKey
	EventButton
	EventMotion
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventMove:
		return "move"
	case EventExpose:
		return "expose"
	case EventKey:
		return "key"
	case EventButton:
		return "button"
	case EventMotion:
		return "motion"
	case EventClose:
		return "close"
	}
	return "unknown"
}

// Event is a classified window event.
type Event struct {
	Kind EventKind
	// Key is set for EventKey and EventButton.
	Key Key
	// Down distinguishes button presses from releases.
	Down bool
	// X and Y hold the pointer position of EventMotion.
	X, Y int
	// Geometry is the window geometry after EventResize or EventMove.
	Geometry platform.Rect
}

// Poll drains the pending server events once and returns the ones the
// host needs to act on. Events it does not recognise are dropped.
func (s *Session) Poll() []Event {
	var out []Event

	s.checkAutohide()

	if s.created && !s.owned && s.opts.WID > 0 {
		// embedded windows get no ConfigureNotify
		out = s.appendResize(out)
	}

	for _, ev := range s.backend.PendingEvents() {
		switch ev.Kind {
		case platform.EventExpose:
			out = append(out, Event{Kind: EventExpose, Geometry: s.geom})

		case platform.EventConfigure:
			if !s.created {
				continue
			}
			out = s.appendResize(out)

		case platform.EventKeyPress:
			if key, ok := s.decodeKey(ev.Keycode, ev.State); ok {
				out = append(out, Event{Kind: EventKey, Key: key})
			}

		case platform.EventMotion:
			s.pointerActivity()
			out = append(out, Event{Kind: EventMotion, X: ev.X, Y: ev.Y})

		case platform.EventButtonPress, platform.EventButtonRelease:
			s.pointerActivity()
			out = append(out, Event{
				Kind: EventButton,
				Key:  Key{Name: MouseButton(ev.Button), Mods: modifiersFromState(ev.State)},
				Down: ev.Kind == platform.EventButtonPress,
			})

		case platform.EventMap:
			if s.created && s.owned && ev.Window == s.window {
				s.mapped()
			}

		case platform.EventDestroy:
			if s.created && ev.Window == s.window {
				s.logger.Warn("video window was destroyed")
				out = append(out, Event{Kind: EventClose})
			}

		case platform.EventDeleteRequest:
			out = append(out, Event{Kind: EventClose})

		case platform.EventCompletion:
			if s.completions > 0 {
				s.completions--
			}

		case platform.EventMappingChanged:
			if s.ic != nil {
				s.ic.Refresh()
			}
		}
	}
	return out
}

func (s *Session) appendResize(out []Event) []Event {
	resized, moved := s.checkResize()
	if resized {
		out = append(out, Event{Kind: EventResize, Geometry: s.geom})
	}
	if moved {
		out = append(out, Event{Kind: EventMove, Geometry: s.geom})
	}
	return out
}

// PendingCompletions is the number of shared-memory frames whose
// completion event has not arrived yet.
func (s *Session) PendingCompletions() int { return s.completions }

// AddPendingCompletion records a shared-memory frame awaiting completion.
func (s *Session) AddPendingCompletion() { s.completions++ }
