package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
)

// PendingEvents drains every event already queued on the connection without
// blocking. Protocol errors are routed to the error handler.
func (c *Connection) PendingEvents() []xgb.Event {
	var events []xgb.Event
	conn := c.XUtil.Conn()
	for {
		ev, xerr := conn.PollForEvent()
		if ev == nil && xerr == nil {
			return events
		}
		if xerr != nil {
			c.ReportError(xerr)
			continue
		}
		events = append(events, ev)
	}
}

// IsDeleteRequest reports whether a client message is the window manager
// asking us to close the window (WM_PROTOCOLS / WM_DELETE_WINDOW).
func (c *Connection) IsDeleteRequest(ev xproto.ClientMessageEvent) bool {
	return icccm.IsDeleteProtocol(c.XUtil, xevent.ClientMessageEvent{ClientMessageEvent: &ev})
}
