package vo

import "github.com/1broseidon/vowin/internal/platform"

// SelectScreen picks the head index for a screen preference. Indexes past
// the end clamp to the last head. -1 picks the head containing the centre
// of window, searching from the last head down and falling back to head 0.
// heads must not be empty.
func SelectScreen(heads []platform.Display, screen int, window platform.Rect) int {
	if screen >= len(heads) {
		screen = len(heads) - 1
	}
	if screen == -1 {
		cx, cy := window.Center()
		for screen = len(heads) - 1; screen > 0; screen-- {
			if heads[screen].Bounds.Contains(cx, cy) {
				break
			}
		}
	}
	if screen < 0 {
		screen = 0
	}
	return screen
}

// UpdateScreenInfo recomputes the fullscreen target from the root size
// and, when enabled, the Xinerama heads.
func (s *Session) UpdateScreenInfo() {
	w, h := s.backend.ScreenSize()
	if s.opts.ScreenWidth > 0 {
		w = s.opts.ScreenWidth
	}
	if s.opts.ScreenHeight > 0 {
		h = s.opts.ScreenHeight
	}
	s.screen = platform.Rect{Width: w, Height: h}
	s.screenIndex = -1

	if s.opts.Screen < -1 {
		return
	}
	heads, err := s.backend.Heads()
	if err != nil {
		s.logger.Warn("failed to query xinerama heads", "error", err)
		return
	}
	if len(heads) == 0 {
		return
	}
	idx := SelectScreen(heads, s.opts.Screen, s.geom)
	s.screen = heads[idx].Bounds
	s.screenIndex = idx
}

// Screen returns the fullscreen target and the head index it came from,
// or -1 when Xinerama was not used.
func (s *Session) Screen() (platform.Rect, int) {
	return s.screen, s.screenIndex
}
