// Package vo manages the video-output window: capability negotiation with
// the window manager, the fullscreen and stacking state machine, window
// lifecycle, decoration and size hints, and event classification.
//
// A Session is not safe for concurrent use. All calls are expected from the
// goroutine that owns the server connection.
package vo

import (
	"log/slog"
	"time"

	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/wm"
)

// Compat holds switches for window managers that need old-style hints.
type Compat struct {
	// MenuDecoration adds the menu bit to every decoration record.
	MenuDecoration bool
	// FourWordMotifHints writes _MOTIF_WM_HINTS with four words instead of five.
	FourWordMotifHints bool
	// TransientForRoot marks the window transient for the root window
	// whenever decorations change.
	TransientForRoot bool
	// NoWithdraw skips the unmap/withdraw cycle used when no window manager
	// is running.
	NoWithdraw bool
}

// Options configure a Session. They are read once by NewSession.
type Options struct {
	Title string
	Class string

	OnTop      bool
	Border     bool
	KeepAspect bool
	FixedSize  bool

	// FSType lists capability override tokens such as "none", "-above",
	// "layer=6".
	FSType []string
	Compat Compat

	// Screen selects the Xinerama head: -1 follows the window, values
	// below -1 ignore Xinerama.
	Screen int
	// ScreenWidth and ScreenHeight replace the root window size when set.
	ScreenWidth  int
	ScreenHeight int

	// CursorAutohideMS is the idle delay before the pointer is hidden.
	// -1 never hides it, -2 hides it once and keeps it hidden.
	CursorAutohideMS int

	// WID is a foreign window to draw into: -1 creates our own window,
	// 0 uses the root window.
	WID int64

	NoMouseInput bool

	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// DefaultOptions returns options matching the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Title:            "vowin",
		Class:            "vowin",
		Border:           true,
		KeepAspect:       true,
		Screen:           -1,
		CursorAutohideMS: 1000,
		WID:              -1,
	}
}

// CreateRequest describes the window to create or reconfigure.
type CreateRequest struct {
	X, Y          int
	Width, Height int
	// ForcePosition is set when the user gave an explicit position.
	ForcePosition bool
	Fullscreen    bool
	Hidden        bool
	Visual        platform.Visual
}

// WindowState is the lifecycle state of the managed window.
type WindowState int

const (
	StateUnmapped WindowState = iota
	StateWindowed
	StateFullscreen
	// StateWithdrawn is held between withdrawing the window for a
	// fullscreen change without a window manager and its MapNotify.
	StateWithdrawn
)

func (s WindowState) String() string {
	switch s {
	case StateUnmapped:
		return "unmapped"
	case StateWindowed:
		return "windowed"
	case StateFullscreen:
		return "fullscreen"
	case StateWithdrawn:
		return "withdrawn"
	}
	return "unknown"
}

// Session is the per-connection video window context.
type Session struct {
	backend platform.Backend
	opts    Options
	logger  *slog.Logger
	now     func() time.Time

	probed   wm.Capabilities
	caps     wm.Capabilities
	fsLayer  int
	strategy fullscreenStrategy

	window  platform.WindowID
	owned   bool
	created bool
	hidden  bool
	gc      uint32
	hasGC   bool
	ic      platform.InputContext
	lastReq CreateRequest

	fs                  bool
	fsFlip              bool
	onTop               bool
	border              bool
	sizeChangedDuringFS bool

	// geom is the current on-screen geometry, old the last windowed one.
	geom         platform.Rect
	old          platform.Rect
	lastW, lastH int
	screen       platform.Rect
	screenIndex  int

	hints      platform.SizeHints
	oldGravity int

	origLayer    int
	hasOrigLayer bool

	decorSaved bool
	oldDecor   uint
	oldFuncs   uint

	cursor      autohide
	completions int
}

// NewSession probes the window manager once and builds the session. With a
// foreign window the probe is skipped and no capabilities are used.
func NewSession(b platform.Backend, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Class == "" {
		opts.Class = "vowin"
	}

	s := &Session{
		backend:     b,
		opts:        opts,
		logger:      logger,
		now:         now,
		owned:       opts.WID < 0,
		onTop:       opts.OnTop,
		border:      opts.Border,
		oldGravity:  platform.GravityNorthWest,
		screenIndex: -1,
		oldDecor:    platform.MotifDecorAll,
		oldFuncs:    defaultMotifFuncs,
		cursor:      autohide{delay: opts.CursorAutohideMS},
	}

	resolved := wm.Resolved{FullscreenLayer: wm.LayerAboveDock}
	if s.owned {
		s.probed = wm.Probe(b, logger)
		resolved = wm.ApplyOverrides(s.probed, opts.FSType)
		for _, token := range resolved.Unknown {
			logger.Warn("unknown fstype token ignored", "token", token)
		}
	} else {
		logger.Debug("foreign window, skipping window manager probe", "wid", opts.WID)
	}
	s.caps = resolved.Caps
	s.fsLayer = resolved.FullscreenLayer
	s.strategy = selectStrategy(s.caps)

	logger.Debug("session ready",
		"probed", s.probed.String(),
		"caps", s.caps.String(),
		"fs_layer", s.fsLayer,
		"strategy", s.strategy.name())

	s.UpdateScreenInfo()
	return s
}

// Capabilities returns the effective capability set after overrides.
func (s *Session) Capabilities() wm.Capabilities { return s.caps }

// ProbedCapabilities returns what the window manager advertised.
func (s *Session) ProbedCapabilities() wm.Capabilities { return s.probed }

// FullscreenLayer is the legacy layer used for on-top requests.
func (s *Session) FullscreenLayer() int { return s.fsLayer }

// Strategy names the fullscreen mechanism in use.
func (s *Session) Strategy() string { return s.strategy.name() }

// Geometry returns the current window geometry in root coordinates.
func (s *Session) Geometry() platform.Rect { return s.geom }

// IsFullscreen reports whether the window is (or is becoming) fullscreen.
func (s *Session) IsFullscreen() bool { return s.fs }

// IsOnTop reports the requested stacking flag.
func (s *Session) IsOnTop() bool { return s.onTop }

// HasBorder reports whether decorations are wanted in windowed mode.
func (s *Session) HasBorder() bool { return s.border }

// Window returns the managed window and whether one exists.
func (s *Session) Window() (platform.WindowID, bool) { return s.window, s.created }

// Owned reports whether the session created its own window.
func (s *Session) Owned() bool { return s.owned }

// State returns the window's lifecycle state.
func (s *Session) State() WindowState {
	switch {
	case !s.created || s.hidden:
		return StateUnmapped
	case s.fsFlip:
		return StateWithdrawn
	case s.fs:
		return StateFullscreen
	}
	return StateWindowed
}
