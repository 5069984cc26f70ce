package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// HideCursor defines an invisible 8x8 bitmap cursor on the window. When the
// "black" colour cannot be allocated nothing is changed.
func (c *Connection) HideCursor(win xproto.Window) error {
	conn := c.XUtil.Conn()
	colormap := c.XUtil.Screen().DefaultColormap

	black, err := xproto.AllocNamedColor(conn, colormap, uint16(len("black")), "black").Reply()
	if err != nil {
		return fmt.Errorf("failed to allocate black: %w", err)
	}
	defer xproto.FreeColors(conn, colormap, 0, []uint32{black.Pixel})

	pixmap, err := xproto.NewPixmapId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pixmap, xproto.Drawable(win), 8, 8).Check(); err != nil {
		return fmt.Errorf("failed to create cursor bitmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pixmap)

	// A fresh pixmap has undefined contents; clear it so the cursor is empty.
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate gc id: %w", err)
	}
	xproto.CreateGC(conn, gc, xproto.Drawable(pixmap), xproto.GcForeground, []uint32{0})
	xproto.PolyFillRectangle(conn, xproto.Drawable(pixmap), gc, []xproto.Rectangle{{X: 0, Y: 0, Width: 8, Height: 8}})
	xproto.FreeGC(conn, gc)

	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate cursor id: %w", err)
	}
	err = xproto.CreateCursorChecked(conn, cursor, pixmap, pixmap,
		black.VisualRed, black.VisualGreen, black.VisualBlue,
		black.VisualRed, black.VisualGreen, black.VisualBlue,
		0, 0).Check()
	if err != nil {
		return fmt.Errorf("failed to create cursor: %w", err)
	}

	xproto.ChangeWindowAttributes(conn, win, xproto.CwCursor, []uint32{uint32(cursor)})
	xproto.FreeCursor(conn, cursor)
	return nil
}

// ShowCursor restores the cursor inherited from the parent window.
func (c *Connection) ShowCursor(win xproto.Window) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwCursor, []uint32{xproto.CursorNone})
}
