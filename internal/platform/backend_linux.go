//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/vowin/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// EnableShm turns on decoding of MIT-SHM completion events.
func (b *LinuxBackend) EnableShm() bool {
	return b.conn.EnableShm()
}

// IsLocal reports whether the connected display is on this machine.
func (b *LinuxBackend) IsLocal() bool {
	return x11.IsLocalDisplay(b.conn.DisplayName)
}

// RootAtoms reads an atom list from the root window.
func (b *LinuxBackend) RootAtoms(property string) ([]string, error) {
	return b.conn.RootAtoms(property)
}

// ScreenSize returns the root screen size.
func (b *LinuxBackend) ScreenSize() (int, int) {
	return b.conn.ScreenSize()
}

// Heads returns the Xinerama heads, or nil when Xinerama is inactive.
func (b *LinuxBackend) Heads() ([]Display, error) {
	if !b.conn.XineramaActive() {
		return nil, nil
	}
	monitors, err := b.conn.XineramaScreens()
	if err != nil {
		return nil, err
	}
	return displaysFromMonitors(monitors, false), nil
}

// Displays returns all heads, falling back to RandR and then the root screen.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.Heads()
	if err != nil {
		return nil, err
	}
	return displaysFromMonitors(monitors, true), nil
}

// Composited reports whether a compositing manager is running.
func (b *LinuxBackend) Composited() bool {
	return b.conn.Composited()
}

// DisplayName returns the display the backend is connected to.
func (b *LinuxBackend) DisplayName() string {
	return b.conn.DisplayName
}

// Root returns the root window.
func (b *LinuxBackend) Root() WindowID {
	return WindowID(b.conn.Root)
}

// CreateWindow creates an unmapped top-level window.
func (b *LinuxBackend) CreateWindow(bounds Rect, visual Visual) (WindowID, error) {
	win, err := b.conn.CreateWindow(bounds.X, bounds.Y, bounds.Width, bounds.Height,
		xproto.Visualid(visual.ID), visual.Depth, xproto.Colormap(visual.Colormap))
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// SetColormap installs a colormap on a foreign window.
func (b *LinuxBackend) SetColormap(win WindowID, colormap uint32) {
	b.conn.SetColormap(xproto.Window(win), xproto.Colormap(colormap))
}

// SelectInput selects the given event classes on a window.
func (b *LinuxBackend) SelectInput(win WindowID, mask InputMask) error {
	return b.conn.SelectInput(xproto.Window(win), eventMask(mask))
}

// SetIdentity writes class, pid and protocol properties.
func (b *LinuxBackend) SetIdentity(win WindowID, instance, class string) error {
	return b.conn.SetIdentity(xproto.Window(win), instance, class)
}

// SetTitle writes the window title.
func (b *LinuxBackend) SetTitle(win WindowID, title string) error {
	return b.conn.SetTitle(xproto.Window(win), title)
}

func (b *LinuxBackend) Map(win WindowID)       { b.conn.Map(xproto.Window(win)) }
func (b *LinuxBackend) MapRaised(win WindowID) { b.conn.MapRaised(xproto.Window(win)) }
func (b *LinuxBackend) Unmap(win WindowID)     { b.conn.Unmap(xproto.Window(win)) }
func (b *LinuxBackend) Raise(win WindowID)     { b.conn.Raise(xproto.Window(win)) }
func (b *LinuxBackend) Clear(win WindowID)     { b.conn.Clear(xproto.Window(win)) }

// Withdraw unmaps the window and announces the withdrawal to the root.
func (b *LinuxBackend) Withdraw(win WindowID) error {
	return b.conn.Withdraw(xproto.Window(win))
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(win WindowID, bounds Rect) {
	b.conn.MoveResize(xproto.Window(win), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Resize changes a window's size only.
func (b *LinuxBackend) Resize(win WindowID, width, height int) {
	b.conn.Resize(xproto.Window(win), width, height)
}

// Geometry returns the window bounds in root coordinates.
func (b *LinuxBackend) Geometry(win WindowID) (Rect, error) {
	x, y, w, h, err := b.conn.Geometry(xproto.Window(win))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// CreateGC allocates a graphics context on the window.
func (b *LinuxBackend) CreateGC(win WindowID) (uint32, error) {
	gc, err := b.conn.CreateGC(xproto.Window(win))
	return uint32(gc), err
}

// FreeGC releases a graphics context.
func (b *LinuxBackend) FreeGC(gc uint32) {
	b.conn.FreeGC(xproto.Gcontext(gc))
}

// DestroyAndWait destroys a window and waits for the DestroyNotify.
func (b *LinuxBackend) DestroyAndWait(win WindowID) error {
	return b.conn.DestroyAndWait(xproto.Window(win))
}

// MotifHints reads _MOTIF_WM_HINTS.
func (b *LinuxBackend) MotifHints(win WindowID) (MotifHints, error) {
	mh, err := b.conn.MotifHints(xproto.Window(win))
	if err != nil {
		return MotifHints{}, err
	}
	return MotifHints{
		Flags:       mh.Flags,
		Functions:   mh.Function,
		Decorations: mh.Decoration,
		InputMode:   mh.Input,
		Status:      mh.Status,
	}, nil
}

// SetMotifHints writes _MOTIF_WM_HINTS with four or five words.
func (b *LinuxBackend) SetMotifHints(win WindowID, hints MotifHints, words int) error {
	return b.conn.SetMotifHints(xproto.Window(win), &motif.Hints{
		Flags:      hints.Flags,
		Function:   hints.Functions,
		Decoration: hints.Decorations,
		Input:      hints.InputMode,
		Status:     hints.Status,
	}, words)
}

// SizeHints reads WM_NORMAL_HINTS.
func (b *LinuxBackend) SizeHints(win WindowID) (SizeHints, error) {
	nh, err := b.conn.NormalHints(xproto.Window(win))
	if err != nil {
		return SizeHints{}, err
	}
	return SizeHints{
		Flags:        nh.Flags,
		X:            nh.X,
		Y:            nh.Y,
		Width:        int(nh.Width),
		Height:       int(nh.Height),
		MinWidth:     int(nh.MinWidth),
		MinHeight:    int(nh.MinHeight),
		MaxWidth:     int(nh.MaxWidth),
		MaxHeight:    int(nh.MaxHeight),
		MinAspectNum: int(nh.MinAspectNum),
		MinAspectDen: int(nh.MinAspectDen),
		MaxAspectNum: int(nh.MaxAspectNum),
		MaxAspectDen: int(nh.MaxAspectDen),
		BaseWidth:    int(nh.BaseWidth),
		BaseHeight:   int(nh.BaseHeight),
		WinGravity:   int(nh.WinGravity),
	}, nil
}

// SetSizeHints writes WM_NORMAL_HINTS.
func (b *LinuxBackend) SetSizeHints(win WindowID, hints SizeHints) error {
	return b.conn.SetNormalHints(xproto.Window(win), &icccm.NormalHints{
		Flags:        hints.Flags,
		X:            hints.X,
		Y:            hints.Y,
		Width:        uint(hints.Width),
		Height:       uint(hints.Height),
		MinWidth:     uint(hints.MinWidth),
		MinHeight:    uint(hints.MinHeight),
		MaxWidth:     uint(hints.MaxWidth),
		MaxHeight:    uint(hints.MaxHeight),
		MinAspectNum: uint(hints.MinAspectNum),
		MinAspectDen: uint(hints.MinAspectDen),
		MaxAspectNum: uint(hints.MaxAspectNum),
		MaxAspectDen: uint(hints.MaxAspectDen),
		BaseWidth:    uint(hints.BaseWidth),
		BaseHeight:   uint(hints.BaseHeight),
		WinGravity:   uint(hints.WinGravity),
	})
}

// SetTransientForRoot marks the window transient for the root.
func (b *LinuxBackend) SetTransientForRoot(win WindowID) error {
	return b.conn.SetTransientForRoot(xproto.Window(win))
}

// WindowLayer reads the window's _WIN_LAYER.
func (b *LinuxBackend) WindowLayer(win WindowID) (int, error) {
	return b.conn.WindowLayer(xproto.Window(win))
}

// SendWMState sends a _NET_WM_STATE request.
func (b *LinuxBackend) SendWMState(win WindowID, action int, state string) error {
	return b.conn.SendWMState(xproto.Window(win), action, state)
}

// SendLayer sends a _WIN_LAYER request.
func (b *LinuxBackend) SendLayer(win WindowID, layer int) error {
	return b.conn.SendLayer(xproto.Window(win), layer)
}

// HideCursor installs a blank cursor.
func (b *LinuxBackend) HideCursor(win WindowID) error {
	return b.conn.HideCursor(xproto.Window(win))
}

// ShowCursor restores the default cursor.
func (b *LinuxBackend) ShowCursor(win WindowID) {
	b.conn.ShowCursor(xproto.Window(win))
}

// OpenInputContext returns a key decoder bound to the window.
func (b *LinuxBackend) OpenInputContext(win WindowID) (InputContext, error) {
	if b.conn.XUtil == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return &keyContext{conn: b.conn, win: xproto.Window(win)}, nil
}

// BaseKeysym looks a keycode up without modifier state.
func (b *LinuxBackend) BaseKeysym(keycode uint8) string {
	return b.conn.BaseKeysym(xproto.Keycode(keycode))
}

// PendingEvents drains and translates all queued events.
func (b *LinuxBackend) PendingEvents() []Event {
	raw := b.conn.PendingEvents()
	events := make([]Event, 0, len(raw))
	for _, ev := range raw {
		events = append(events, b.translate(ev))
	}
	return events
}

// Flush waits until the server has processed every request.
func (b *LinuxBackend) Flush() {
	b.conn.Flush()
}

func (b *LinuxBackend) translate(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		return Event{Kind: EventConfigure, Window: WindowID(e.Window),
			X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)}
	case xproto.ExposeEvent:
		return Event{Kind: EventExpose, Window: WindowID(e.Window),
			X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)}
	case xproto.KeyPressEvent:
		return Event{Kind: EventKeyPress, Window: WindowID(e.Event), Keycode: uint8(e.Detail), State: e.State}
	case xproto.MotionNotifyEvent:
		return Event{Kind: EventMotion, Window: WindowID(e.Event), X: int(e.EventX), Y: int(e.EventY), State: e.State}
	case xproto.ButtonPressEvent:
		return Event{Kind: EventButtonPress, Window: WindowID(e.Event),
			X: int(e.EventX), Y: int(e.EventY), Button: int(e.Detail), State: e.State}
	case xproto.ButtonReleaseEvent:
		return Event{Kind: EventButtonRelease, Window: WindowID(e.Event),
			X: int(e.EventX), Y: int(e.EventY), Button: int(e.Detail), State: e.State}
	case xproto.MapNotifyEvent:
		return Event{Kind: EventMap, Window: WindowID(e.Window)}
	case xproto.DestroyNotifyEvent:
		return Event{Kind: EventDestroy, Window: WindowID(e.Window)}
	case xproto.ClientMessageEvent:
		if b.conn.IsDeleteRequest(e) {
			return Event{Kind: EventDeleteRequest, Window: WindowID(e.Window)}
		}
	case xproto.MappingNotifyEvent:
		return Event{Kind: EventMappingChanged}
	case shm.CompletionEvent:
		return Event{Kind: EventCompletion, Window: WindowID(e.Drawable)}
	}
	return Event{Kind: EventOther}
}

func eventMask(mask InputMask) int {
	var m int
	if mask&InputStructure != 0 {
		m |= xproto.EventMaskStructureNotify
	}
	if mask&InputExposure != 0 {
		m |= xproto.EventMaskExposure
	}
	if mask&InputKeys != 0 {
		m |= xproto.EventMaskKeyPress
	}
	if mask&InputMotion != 0 {
		m |= xproto.EventMaskPointerMotion
	}
	if mask&InputButtons != 0 {
		m |= xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease
	}
	return m
}

func displaysFromMonitors(monitors []x11.Monitor, sorted bool) []Display {
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:   m.ID,
			Name: m.Name,
			Bounds: Rect{
				X:      m.X,
				Y:      m.Y,
				Width:  m.Width,
				Height: m.Height,
			},
		})
	}

	if sorted {
		sort.Slice(displays, func(i, j int) bool {
			return displays[i].ID < displays[j].ID
		})
	}
	return displays
}

// keyContext decodes keys for one window using the shared keyboard mapping.
type keyContext struct {
	conn   *x11.Connection
	win    xproto.Window
	closed bool
}

func (k *keyContext) Lookup(keycode uint8, state uint16) (string, string) {
	if k.closed {
		return "", ""
	}
	return k.conn.LookupKey(xproto.Keycode(keycode), state)
}

func (k *keyContext) Refresh() {
	if !k.closed {
		k.conn.RefreshKeyboardMapping()
	}
}

func (k *keyContext) Close() {
	k.closed = true
}
