package vo

import (
	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/wm"
)

// fullscreenStrategy is the mechanism used to change the fullscreen state.
// It is chosen once from the capability set.
type fullscreenStrategy interface {
	name() string
	// enter and leave update the session state and return the target
	// geometry of the transition.
	enter(s *Session) platform.Rect
	leave(s *Session) platform.Rect
	// beforeMap runs after the optional withdraw and before the window is
	// mapped again; afterMap runs right after the map.
	beforeMap(s *Session, target platform.Rect)
	afterMap(s *Session, target platform.Rect)
}

func selectStrategy(caps wm.Capabilities) fullscreenStrategy {
	if caps.Has(wm.Fullscreen) {
		return ewmhFullscreen{}
	}
	return manualFullscreen{}
}

// ewmhFullscreen asks the window manager to do the work through
// _NET_WM_STATE_FULLSCREEN.
type ewmhFullscreen struct{}

func (ewmhFullscreen) name() string { return "ewmh" }

func (ewmhFullscreen) enter(s *Session) platform.Rect {
	s.sendFullscreenState(platform.WMStateAdd)
	s.fs = true
	s.old = s.geom
	s.UpdateScreenInfo()
	return s.screen
}

func (ewmhFullscreen) leave(s *Session) platform.Rect {
	s.sendFullscreenState(platform.WMStateRemove)
	s.fs = false
	if s.sizeChangedDuringFS {
		s.nofsSizePos(s.geom.X, s.geom.Y, s.lastW, s.lastH, false)
	}
	s.sizeChangedDuringFS = false
	return s.old
}

func (ewmhFullscreen) beforeMap(*Session, platform.Rect) {}
func (ewmhFullscreen) afterMap(*Session, platform.Rect)  {}

// manualFullscreen resizes, undecorates and restacks the window itself
// because the window manager cannot.
type manualFullscreen struct{}

func (manualFullscreen) name() string { return "manual" }

func (manualFullscreen) enter(s *Session) platform.Rect {
	s.fs = true
	s.old = s.geom
	s.UpdateScreenInfo()
	return s.screen
}

func (manualFullscreen) leave(s *Session) platform.Rect {
	s.fs = false
	s.sizeChangedDuringFS = false
	return s.old
}

func (manualFullscreen) beforeMap(s *Session, target platform.Rect) {
	s.SetDecorated(s.border && !s.fs)
	s.ApplySizeHints(target.X, target.Y, target.Width, target.Height, false)
	s.SetLayer(s.fs)
	s.backend.MoveResize(s.window, target)
	s.geom = target
}

func (manualFullscreen) afterMap(s *Session, target platform.Rect) {
	// some window managers move the window again when it is mapped
	s.backend.MoveResize(s.window, target)
}

// ToggleFullscreen switches between windowed and fullscreen. For a foreign
// window only the flag changes. While a withdraw cycle is pending the call
// is ignored.
func (s *Session) ToggleFullscreen() {
	if !s.owned {
		s.fs = !s.fs
		return
	}
	if !s.created {
		return
	}
	if s.fsFlip {
		s.logger.Debug("fullscreen change already in progress")
		return
	}

	b := s.backend
	win := s.window

	var target platform.Rect
	if s.fs {
		target = s.strategy.leave(s)
	} else {
		target = s.strategy.enter(s)
	}

	if hints, err := b.SizeHints(win); err == nil {
		s.hints = hints
		if hints.Flags&platform.SizePWinGravity == 0 {
			s.oldGravity = platform.GravityNorthWest
		} else {
			s.oldGravity = hints.WinGravity
		}
	} else {
		s.oldGravity = platform.GravityNorthWest
	}

	if s.probed == 0 && !s.opts.Compat.NoWithdraw {
		if err := b.Withdraw(win); err != nil {
			s.logger.Warn("failed to withdraw window", "error", err)
		}
		s.fsFlip = true
	}

	s.strategy.beforeMap(s, target)

	// many window managers drop the on-top state across fullscreen changes
	if !s.fs && s.onTop {
		s.SetLayer(true)
	}

	b.MapRaised(win)
	s.strategy.afterMap(s, target)
	b.Raise(win)
	b.Flush()

	s.logger.Info("fullscreen changed",
		"fullscreen", s.fs,
		"strategy", s.strategy.name(),
		"x", target.X, "y", target.Y,
		"width", target.Width, "height", target.Height)
}

// EnterFullscreen switches to fullscreen if the window is windowed.
func (s *Session) EnterFullscreen() {
	if !s.fs {
		s.ToggleFullscreen()
	}
}

// LeaveFullscreen returns to the windowed geometry if fullscreen.
func (s *Session) LeaveFullscreen() {
	if s.fs {
		s.ToggleFullscreen()
	}
}

// mapped finishes a withdraw cycle once the window is visible again.
func (s *Session) mapped() {
	s.hints.WinGravity = s.oldGravity
	if err := s.backend.SetSizeHints(s.window, s.hints); err != nil {
		s.logger.Warn("failed to restore window gravity", "error", err)
	}
	s.fsFlip = false
}

func (s *Session) sendFullscreenState(action int) {
	if !s.caps.Has(wm.Fullscreen) {
		return
	}
	if err := s.backend.SendWMState(s.window, action, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		s.logger.Warn("failed to send fullscreen request", "action", action, "error", err)
	}
}
