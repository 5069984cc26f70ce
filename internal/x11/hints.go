package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xprop"
)

// MotifHints reads _MOTIF_WM_HINTS. Short four-word records written by
// older clients are accepted.
func (c *Connection) MotifHints(win xproto.Window) (*motif.Hints, error) {
	if mh, err := motif.WmHintsGet(c.XUtil, win); err == nil {
		return mh, nil
	}

	words, err := xprop.PropValNums(xprop.GetProperty(c.XUtil, win, "_MOTIF_WM_HINTS"))
	if err != nil {
		return nil, fmt.Errorf("failed to read _MOTIF_WM_HINTS: %w", err)
	}
	if len(words) < 3 {
		return nil, fmt.Errorf("_MOTIF_WM_HINTS has %d words, want at least 3", len(words))
	}
	mh := &motif.Hints{Flags: words[0], Function: words[1], Decoration: words[2]}
	if len(words) > 3 {
		mh.Input = words[3]
	}
	return mh, nil
}

// SetMotifHints writes _MOTIF_WM_HINTS using either the full five-word
// record or the four-word record some window managers expect.
func (c *Connection) SetMotifHints(win xproto.Window, mh *motif.Hints, words int) error {
	if words == 4 {
		return xprop.ChangeProp32(c.XUtil, win, "_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS",
			mh.Flags, mh.Function, mh.Decoration, mh.Input)
	}
	return motif.WmHintsSet(c.XUtil, win, mh)
}

// NormalHints reads WM_NORMAL_HINTS.
func (c *Connection) NormalHints(win xproto.Window) (*icccm.NormalHints, error) {
	nh, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		return nil, fmt.Errorf("failed to read WM_NORMAL_HINTS: %w", err)
	}
	return nh, nil
}

// SetNormalHints writes WM_NORMAL_HINTS.
func (c *Connection) SetNormalHints(win xproto.Window, nh *icccm.NormalHints) error {
	return icccm.WmNormalHintsSet(c.XUtil, win, nh)
}

// SetTransientForRoot marks the window transient for the root window.
func (c *Connection) SetTransientForRoot(win xproto.Window) error {
	return icccm.WmTransientForSet(c.XUtil, win, c.Root)
}

// SetIdentity writes WM_CLASS, _NET_WM_PID and a WM_PROTOCOLS list
// containing WM_DELETE_WINDOW.
func (c *Connection) SetIdentity(win xproto.Window, instance, class string) error {
	if err := icccm.WmClassSet(c.XUtil, win, &icccm.WmClass{Instance: instance, Class: class}); err != nil {
		return fmt.Errorf("failed to set WM_CLASS: %w", err)
	}
	if err := ewmh.WmPidSet(c.XUtil, win, uint(os.Getpid())); err != nil {
		return fmt.Errorf("failed to set _NET_WM_PID: %w", err)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, win, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	return nil
}

// SetTitle writes the window and icon names in both ICCCM and EWMH form.
func (c *Connection) SetTitle(win xproto.Window, title string) error {
	if err := icccm.WmNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	if err := icccm.WmIconNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("failed to set WM_ICON_NAME: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := ewmh.WmIconNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_ICON_NAME: %w", err)
	}
	return nil
}
