package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// RootAtoms reads an ATOM[] property from the root window and returns the
// atom names. A missing property is reported as an error.
func (c *Connection) RootAtoms(property string) ([]string, error) {
	reply, err := xprop.GetProperty(c.XUtil, c.Root, property)
	atoms, err := xprop.PropValAtoms(c.XUtil, reply, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", property, err)
	}
	return atoms, nil
}

// WindowLayer returns the legacy _WIN_LAYER value stored on a window.
func (c *Connection) WindowLayer(win xproto.Window) (int, error) {
	layer, err := xprop.PropValNum(xprop.GetProperty(c.XUtil, win, "_WIN_LAYER"))
	if err != nil {
		return 0, fmt.Errorf("failed to read _WIN_LAYER: %w", err)
	}
	return int(layer), nil
}

// Composited reports whether a compositing manager owns the
// _NET_WM_CM_S<screen> selection.
func (c *Connection) Composited() bool {
	name := fmt.Sprintf("_NET_WM_CM_S%d", c.ScreenNumber())
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return false
	}
	reply, err := xproto.GetSelectionOwner(c.XUtil.Conn(), atom).Reply()
	if err != nil {
		return false
	}
	return reply.Owner != xproto.WindowNone
}
