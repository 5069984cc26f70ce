package vo

import "time"

// Autohide delays with special meaning.
const (
	AutohideNever  = -1
	AutohideAlways = -2
)

// autohide tracks pointer idleness.
type autohide struct {
	delay   int
	waiting bool
	since   time.Time
}

// due reports whether the pointer has been idle long enough to hide it.
func (a *autohide) due(now time.Time) bool {
	if !a.waiting || a.delay == AutohideNever {
		return false
	}
	return now.Sub(a.since) >= time.Duration(a.delay)*time.Millisecond
}

// activity restarts the idle timer. It reports false when the pointer is
// configured to stay hidden.
func (a *autohide) activity(now time.Time) bool {
	if a.delay <= AutohideAlways {
		return false
	}
	a.waiting = true
	a.since = now
	return true
}

// HideCursor blanks the pointer over the window. Drawing into the root
// window leaves the pointer alone.
func (s *Session) HideCursor() {
	if !s.created || s.isRoot() {
		return
	}
	if err := s.backend.HideCursor(s.window); err != nil {
		s.logger.Warn("cursor hiding skipped", "error", err)
	}
}

// ShowCursor restores the pointer over the window.
func (s *Session) ShowCursor() {
	if !s.created || s.isRoot() {
		return
	}
	s.backend.ShowCursor(s.window)
}

func (s *Session) isRoot() bool {
	return !s.owned && s.opts.WID == 0
}

// pointerActivity shows the pointer and restarts the autohide timer.
func (s *Session) pointerActivity() {
	if s.cursor.activity(s.now()) {
		s.ShowCursor()
	}
}

// checkAutohide hides the pointer once the idle delay has passed.
func (s *Session) checkAutohide() {
	if s.cursor.due(s.now()) {
		s.HideCursor()
		s.cursor.waiting = false
	}
}
