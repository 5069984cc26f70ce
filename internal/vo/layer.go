package vo

import (
	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/wm"
)

// SetLayer asks the window manager to stack the window on top (true) or at
// its normal layer (false). The legacy layer protocol is preferred over
// extended hints. The request may be ignored by the window manager; that is
// not reported.
func (s *Session) SetLayer(onTop bool) {
	if !s.owned || !s.created {
		return
	}
	b := s.backend

	switch {
	case s.caps.Has(wm.Layer):
		if !s.hasOrigLayer {
			s.origLayer = wm.LayerNormal
			if layer, err := b.WindowLayer(s.window); err == nil {
				s.origLayer = layer
				s.logger.Debug("original window layer", "layer", layer)
			}
			s.hasOrigLayer = true
		}
		layer := s.origLayer
		if onTop {
			layer = s.fsLayer
		}
		if err := b.SendLayer(s.window, layer); err != nil {
			s.logger.Warn("failed to send layer request", "layer", layer, "error", err)
			return
		}
		s.logger.Debug("layered stay on top", "layer", layer)

	case s.caps.Any(wm.NetWM):
		state, _ := s.caps.StateAtom()
		action := platform.WMStateRemove
		if onTop {
			action = platform.WMStateAdd
		}
		if err := b.SendWMState(s.window, action, state); err != nil {
			s.logger.Warn("failed to send stacking request", "state", state, "error", err)
			return
		}
		s.logger.Debug("net style stay on top", "on_top", onTop, "state", state)
	}
}

// SetOnTop records the stacking preference and applies it.
func (s *Session) SetOnTop(onTop bool) {
	s.onTop = onTop
	s.SetLayer(onTop)
}

// ToggleOnTop flips the stacking preference.
func (s *Session) ToggleOnTop() {
	s.SetOnTop(!s.onTop)
}
