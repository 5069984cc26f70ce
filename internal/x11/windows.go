package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrConnectionClosed is returned when the server goes away while waiting
// for an event.
var ErrConnectionClosed = errors.New("x11 connection closed")

// CreateWindow creates an unmapped top-level window with a black background
// and static bit gravity. A zero visual or colormap inherits from the root.
func (c *Connection) CreateWindow(x, y, width, height int, visual xproto.Visualid, depth byte, colormap xproto.Colormap) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	if depth == 0 {
		depth = screen.RootDepth
	}
	if visual == 0 {
		visual = screen.RootVisual
	}

	// Value list order follows the bit positions of the mask (low to high).
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwBitGravity | xproto.CwBackingStore)
	values := []uint32{0, 0, xproto.GravityStatic, xproto.BackingStoreNotUseful}
	if colormap != 0 {
		mask |= xproto.CwColormap
		values = append(values, uint32(colormap))
	}

	err = xproto.CreateWindowChecked(
		conn,
		depth,
		wid,
		c.Root,
		int16(x), int16(y),
		uint16(max(width, 1)), uint16(max(height, 1)),
		0,
		xproto.WindowClassInputOutput,
		visual,
		mask,
		values,
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	return wid, nil
}

// SetColormap installs a colormap on a window we did not create.
func (c *Connection) SetColormap(win xproto.Window, colormap xproto.Colormap) {
	conn := c.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, win, xproto.CwColormap, []uint32{uint32(colormap)})
	xproto.InstallColormap(conn, colormap)
}

// SelectInput replaces the event mask selected on a window.
func (c *Connection) SelectInput(win xproto.Window, mask int) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwEventMask, []uint32{uint32(mask)}).Check()
}

// Map maps a window.
func (c *Connection) Map(win xproto.Window) {
	xwindow.New(c.XUtil, win).Map()
}

// MapRaised maps a window on top of its siblings.
func (c *Connection) MapRaised(win xproto.Window) {
	w := xwindow.New(c.XUtil, win)
	w.Stack(xproto.StackModeAbove)
	w.Map()
}

// Unmap unmaps a window.
func (c *Connection) Unmap(win xproto.Window) {
	xwindow.New(c.XUtil, win).Unmap()
}

// Withdraw unmaps a window and sends the synthetic UnmapNotify that tells a
// window manager the window is now withdrawn.
func (c *Connection) Withdraw(win xproto.Window) error {
	c.Unmap(win)

	ev := xproto.UnmapNotifyEvent{
		Event:         c.Root,
		Window:        win,
		FromConfigure: false,
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Raise puts a window on top of its siblings.
func (c *Connection) Raise(win xproto.Window) {
	xwindow.New(c.XUtil, win).Stack(xproto.StackModeAbove)
}

// MoveResize moves and resizes a window directly, bypassing EWMH requests.
func (c *Connection) MoveResize(win xproto.Window, x, y, width, height int) {
	xwindow.New(c.XUtil, win).MoveResize(x, y, width, height)
}

// Resize changes a window's size and leaves its position alone.
func (c *Connection) Resize(win xproto.Window, width, height int) {
	xwindow.New(c.XUtil, win).Resize(width, height)
}

// Geometry returns the window size and its origin in root coordinates.
func (c *Connection) Geometry(win xproto.Window) (x, y, width, height int, err error) {
	geom, err := xwindow.RawGeometry(c.XUtil, xproto.Drawable(win))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	return int(translate.DstX), int(translate.DstY), geom.Width(), geom.Height(), nil
}

// Clear repaints the whole window with its background.
func (c *Connection) Clear(win xproto.Window) {
	xwindow.New(c.XUtil, win).ClearAll()
}

// CreateGC allocates a graphics context on a window.
func (c *Connection) CreateGC(win xproto.Window) (xproto.Gcontext, error) {
	conn := c.XUtil.Conn()
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(win), xproto.GcForeground, []uint32{0}).Check(); err != nil {
		return 0, fmt.Errorf("failed to create gc: %w", err)
	}
	return gc, nil
}

// FreeGC releases a graphics context.
func (c *Connection) FreeGC(gc xproto.Gcontext) {
	xproto.FreeGC(c.XUtil.Conn(), gc)
}

// DestroyAndWait unmaps and destroys a window, then blocks until the
// server confirms the destruction. Events read while waiting are dropped.
// There is no timeout: the wait ends only on the DestroyNotify or when the
// connection closes.
func (c *Connection) DestroyAndWait(win xproto.Window) error {
	conn := c.XUtil.Conn()

	xproto.UnmapWindow(conn, win)
	if err := c.SelectInput(win, xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to select structure events: %w", err)
	}
	xproto.DestroyWindow(conn, win)

	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return ErrConnectionClosed
		}
		if xerr != nil {
			c.ReportError(xerr)
			continue
		}
		if destroyed, ok := ev.(xproto.DestroyNotifyEvent); ok && destroyed.Event == win {
			return nil
		}
	}
}
