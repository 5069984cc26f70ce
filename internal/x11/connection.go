package x11

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil       *xgbutil.XUtil
	Root        xproto.Window
	DisplayName string

	logger *slog.Logger
	shm    bool
}

// NewConnection opens the named display (empty means $DISPLAY) and installs
// an error handler that logs protocol errors instead of aborting.
func NewConnection(display string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to open display %q: %w", display, err)
	}

	// Required for keysym lookups on key events
	keybind.Initialize(xu)

	if display == "" {
		display = os.Getenv("DISPLAY")
	}

	c := &Connection{
		XUtil:       xu,
		Root:        xu.RootWin(),
		DisplayName: display,
		logger:      logger,
	}
	xevent.ErrorHandlerSet(xu, c.handleError)

	setup := xu.Screen()
	logger.Debug("x11 connected",
		"display", display,
		"width", setup.WidthInPixels,
		"height", setup.HeightInPixels,
		"local", IsLocalDisplay(display))

	return c, nil
}

// EnableShm initializes MIT-SHM so its completion events are decoded.
func (c *Connection) EnableShm() bool {
	if err := shm.Init(c.XUtil.Conn()); err != nil {
		c.logger.Warn("MIT-SHM unavailable", "error", err)
		return false
	}
	c.shm = true
	return true
}

// ShmEnabled reports whether EnableShm succeeded.
func (c *Connection) ShmEnabled() bool {
	return c.shm
}

// ScreenSize returns the default screen size in pixels.
func (c *Connection) ScreenSize() (int, int) {
	s := c.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// ScreenNumber is the default screen index of the connection.
func (c *Connection) ScreenNumber() int {
	return c.XUtil.Conn().DefaultScreen
}

// ReportError passes an asynchronous error through the installed handler.
func (c *Connection) ReportError(err error) {
	if xerr, ok := err.(xgb.Error); ok {
		xevent.ErrorHandlerGet(c.XUtil)(xerr)
		return
	}
	c.logger.Error("x11 connection error", "error", err)
}

func (c *Connection) handleError(err xgb.Error) {
	c.logger.Error("x11 protocol error",
		"error", err.Error(),
		"sequence", err.SequenceId(),
		"resource", err.BadId())
}

// Flush forces a round trip so every queued request has been processed.
func (c *Connection) Flush() {
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// IsLocalDisplay reports whether a display name refers to a local server,
// i.e. ":N", "unix:N" or "localhost:N" with N below 10.
func IsLocalDisplay(name string) bool {
	switch {
	case strings.HasPrefix(name, "unix:"):
		name = name[len("unix"):]
	case strings.HasPrefix(name, "localhost:"):
		name = name[len("localhost"):]
	}
	if !strings.HasPrefix(name, ":") {
		return false
	}
	num := name[1:]
	if i := strings.IndexByte(num, '.'); i >= 0 {
		num = num[:i]
	}
	n, err := strconv.Atoi(num)
	return err == nil && n < 10
}
