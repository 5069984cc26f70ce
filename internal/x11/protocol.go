package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// _NET_WM_STATE actions.
const (
	StateRemove = 0
	StateAdd    = 1
	StateToggle = 2
)

// SendWMState asks the window manager to add, remove or toggle one
// _NET_WM_STATE atom on a window.
func (c *Connection) SendWMState(win xproto.Window, action int, state string) error {
	if err := ewmh.WmStateReqExtra(c.XUtil, win, action, state, "", 0); err != nil {
		return fmt.Errorf("failed to send _NET_WM_STATE %s: %w", state, err)
	}
	return nil
}

// SendLayer asks a legacy layer-aware window manager to move the window to
// the given _WIN_LAYER.
func (c *Connection) SendLayer(win xproto.Window, layer int) error {
	layerAtom, err := xprop.Atm(c.XUtil, "_WIN_LAYER")
	if err != nil {
		return fmt.Errorf("failed to intern _WIN_LAYER: %w", err)
	}

	ev, err := xevent.NewClientMessage(32, win, layerAtom, layer, int(xproto.TimeCurrentTime))
	if err != nil {
		return fmt.Errorf("failed to build _WIN_LAYER message: %w", err)
	}
	return xevent.SendRootEvent(c.XUtil, ev, xproto.EventMaskSubstructureNotify)
}
