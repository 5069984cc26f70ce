package platform

import "github.com/1broseidon/vowin/internal/wm"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether a point lies inside the rectangle, edges included.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Display describes one head of the screen.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Visual selects the visual, depth and colormap of a created window. Zero
// values inherit from the root window.
type Visual struct {
	ID       uint32
	Depth    uint8
	Colormap uint32
}

// InputMask selects the event classes delivered for a window.
type InputMask uint32

const (
	InputStructure InputMask = 1 << iota
	InputExposure
	InputKeys
	InputMotion
	InputButtons

	InputFull = InputStructure | InputExposure | InputKeys | InputMotion | InputButtons
)

// Modifier bits carried in Event.State. They follow the core protocol
// layout so backends can pass the server state through unchanged.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod4       uint16 = 1 << 6
)

// EventKind classifies a raw server event.
type EventKind int

const (
	EventOther EventKind = iota
	EventConfigure
	EventExpose
	EventKeyPress
	EventMotion
	EventButtonPress
	EventButtonRelease
	EventMap
	EventDestroy
	EventDeleteRequest
	EventCompletion
	EventMappingChanged
)

// Event is a server event translated into neutral terms. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Window  WindowID
	X       int
	Y       int
	Width   int
	Height  int
	Button  int
	Keycode uint8
	State   uint16
}

// Motif hint flags and bits as stored in _MOTIF_WM_HINTS.
const (
	MotifFlagFunctions   uint = 1 << 0
	MotifFlagDecorations uint = 1 << 1

	MotifFuncAll      uint = 1 << 0
	MotifFuncResize   uint = 1 << 1
	MotifFuncMove     uint = 1 << 2
	MotifFuncMinimize uint = 1 << 3
	MotifFuncMaximize uint = 1 << 4
	MotifFuncClose    uint = 1 << 5

	MotifDecorAll      uint = 1 << 0
	MotifDecorBorder   uint = 1 << 1
	MotifDecorResizeH  uint = 1 << 2
	MotifDecorTitle    uint = 1 << 3
	MotifDecorMenu     uint = 1 << 4
	MotifDecorMinimize uint = 1 << 5
	MotifDecorMaximize uint = 1 << 6
)

// MotifHints is the decoration/function hint record.
type MotifHints struct {
	Flags       uint
	Functions   uint
	Decorations uint
	InputMode   uint
	Status      uint
}

// WM_NORMAL_HINTS flags.
const (
	SizeUSPosition uint = 1 << iota
	SizeUSSize
	SizePPosition
	SizePSize
	SizePMinSize
	SizePMaxSize
	SizePResizeInc
	SizePAspect
	SizePBaseSize
	SizePWinGravity
)

// Window gravities used by the size hints.
const (
	GravityNorthWest = 1
	GravityStatic    = 10
)

// SizeHints is the WM_NORMAL_HINTS record.
type SizeHints struct {
	Flags                      uint
	X, Y                       int
	Width, Height              int
	MinWidth, MinHeight        int
	MaxWidth, MaxHeight        int
	MinAspectNum, MinAspectDen int
	MaxAspectNum, MaxAspectDen int
	BaseWidth, BaseHeight      int
	WinGravity                 int
}

// InputContext decodes key events into keysym names and text for one
// window. It lives no longer than the window it was opened on.
type InputContext interface {
	Lookup(keycode uint8, state uint16) (keysym, text string)
	Refresh()
	Close()
}

// ScreenInfo answers questions about the screen and its heads.
type ScreenInfo interface {
	wm.PropertySource
	ScreenSize() (int, int)
	// Heads returns the Xinerama heads in server order, or nil when
	// Xinerama is inactive.
	Heads() ([]Display, error)
	// Displays returns every head known by any means, for diagnostics.
	Displays() ([]Display, error)
	Composited() bool
	DisplayName() string
}

// WindowOps are the raw window requests.
type WindowOps interface {
	Root() WindowID
	CreateWindow(bounds Rect, visual Visual) (WindowID, error)
	SetColormap(win WindowID, colormap uint32)
	SelectInput(win WindowID, mask InputMask) error
	SetIdentity(win WindowID, instance, class string) error
	SetTitle(win WindowID, title string) error
	Map(win WindowID)
	MapRaised(win WindowID)
	Unmap(win WindowID)
	Withdraw(win WindowID) error
	Raise(win WindowID)
	MoveResize(win WindowID, bounds Rect)
	Resize(win WindowID, width, height int)
	Geometry(win WindowID) (Rect, error)
	Clear(win WindowID)
	CreateGC(win WindowID) (uint32, error)
	FreeGC(gc uint32)
	// DestroyAndWait blocks until the server confirms destruction.
	DestroyAndWait(win WindowID) error
}

// HintOps read and write window-manager hints.
type HintOps interface {
	MotifHints(win WindowID) (MotifHints, error)
	SetMotifHints(win WindowID, hints MotifHints, words int) error
	SizeHints(win WindowID) (SizeHints, error)
	SetSizeHints(win WindowID, hints SizeHints) error
	SetTransientForRoot(win WindowID) error
	WindowLayer(win WindowID) (int, error)
}

// _NET_WM_STATE client message actions.
const (
	WMStateRemove = 0
	WMStateAdd    = 1
	WMStateToggle = 2
)

// WMRequests are client messages addressed to the window manager.
type WMRequests interface {
	SendWMState(win WindowID, action int, state string) error
	SendLayer(win WindowID, layer int) error
}

// Backend abstracts the window-system operations used by a video window.
type Backend interface {
	ScreenInfo
	WindowOps
	HintOps
	WMRequests

	HideCursor(win WindowID) error
	ShowCursor(win WindowID)
	OpenInputContext(win WindowID) (InputContext, error)
	BaseKeysym(keycode uint8) string

	// PendingEvents drains the queue without blocking.
	PendingEvents() []Event
	Flush()
}
