package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/vowin/internal/hotkeys"
	"github.com/1broseidon/vowin/internal/vo"
	"github.com/1broseidon/vowin/internal/wm"
)

// Compat holds window manager workarounds.
type Compat struct {
	// MenuDecoration keeps the window menu decoration while undecorated.
	MenuDecoration bool `yaml:"menu_decoration"`
	// FourWordMotifHints writes _MOTIF_WM_HINTS without the status word.
	FourWordMotifHints bool `yaml:"four_word_motif_hints"`
	// TransientForRoot marks the window transient for the root window.
	TransientForRoot bool `yaml:"transient_for_root"`
	// NoWithdraw skips the unmap cycle when no window manager is running.
	NoWithdraw bool `yaml:"no_withdraw"`
}

// Config is the effective configuration.
type Config struct {
	Display string `yaml:"display,omitempty"`
	Title   string `yaml:"title"`

	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	X        int  `yaml:"x"`
	Y        int  `yaml:"y"`
	Position bool `yaml:"position"` // Force x/y instead of letting the WM place the window.

	Fullscreen bool     `yaml:"fullscreen"`
	OnTop      bool     `yaml:"ontop"`
	Border     bool     `yaml:"border"`
	KeepAspect bool     `yaml:"keepaspect"`
	FixedSize  bool     `yaml:"fixed_size"`
	FSType     []string `yaml:"fstype,omitempty"`
	Compat     Compat   `yaml:"compat"`

	Screen       int `yaml:"screen"` // Xinerama head; -1 = head under the window centre.
	ScreenWidth  int `yaml:"screen_width,omitempty"`
	ScreenHeight int `yaml:"screen_height,omitempty"`

	CursorAutohideMS int   `yaml:"cursor_autohide_ms"`
	WID              int64 `yaml:"wid"`
	NoMouseInput     bool  `yaml:"nomouse_input"`
	UseShm           bool  `yaml:"use_shm"`

	Bindings       map[string]string `yaml:"bindings"`
	PollIntervalMS int               `yaml:"poll_interval_ms"`
	LogLevel       string            `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:            "vowin",
		Width:            640,
		Height:           480,
		Border:           true,
		KeepAspect:       true,
		Screen:           -1,
		CursorAutohideMS: 1000,
		WID:              -1,
		UseShm:           true,
		Bindings:         hotkeys.DefaultBindings(),
		PollIntervalMS:   10,
		LogLevel:         "info",
	}
}

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Validate checks the effective config.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return &ValidationError{Path: "width", Err: fmt.Errorf("must be > 0")}
	}
	if c.Height <= 0 {
		return &ValidationError{Path: "height", Err: fmt.Errorf("must be > 0")}
	}
	for _, token := range c.FSType {
		if err := wm.ValidateOverride(token); err != nil {
			return &ValidationError{Path: "fstype", Err: err}
		}
	}
	if c.ScreenWidth < 0 {
		return &ValidationError{Path: "screen_width", Err: fmt.Errorf("must be >= 0")}
	}
	if c.ScreenHeight < 0 {
		return &ValidationError{Path: "screen_height", Err: fmt.Errorf("must be >= 0")}
	}
	if c.CursorAutohideMS < vo.AutohideAlways {
		return &ValidationError{Path: "cursor_autohide_ms", Err: fmt.Errorf("must be >= %d", vo.AutohideAlways)}
	}
	if c.WID < -1 {
		return &ValidationError{Path: "wid", Err: fmt.Errorf("must be >= -1")}
	}
	if c.PollIntervalMS < 1 || c.PollIntervalMS > 1000 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("must be between 1 and 1000")}
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of debug, info, warning, error")}
	}
	if _, err := hotkeys.NewTable(c.Bindings); err != nil {
		return &ValidationError{Path: "bindings", Err: err}
	}
	return nil
}

// SlogLevel returns log_level as a slog level.
func (c *Config) SlogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return level
	}
	return slog.LevelInfo
}

// PollInterval returns poll_interval_ms as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// SessionOptions converts the config into window session options.
func (c *Config) SessionOptions() vo.Options {
	opts := vo.DefaultOptions()
	opts.Title = c.Title
	opts.OnTop = c.OnTop
	opts.Border = c.Border
	opts.KeepAspect = c.KeepAspect
	opts.FixedSize = c.FixedSize
	opts.FSType = append([]string(nil), c.FSType...)
	opts.Compat = vo.Compat{
		MenuDecoration:     c.Compat.MenuDecoration,
		FourWordMotifHints: c.Compat.FourWordMotifHints,
		TransientForRoot:   c.Compat.TransientForRoot,
		NoWithdraw:         c.Compat.NoWithdraw,
	}
	opts.Screen = c.Screen
	opts.ScreenWidth = c.ScreenWidth
	opts.ScreenHeight = c.ScreenHeight
	opts.CursorAutohideMS = c.CursorAutohideMS
	opts.WID = c.WID
	opts.NoMouseInput = c.NoMouseInput
	return opts
}

// CreateRequest returns the initial window request.
func (c *Config) CreateRequest() vo.CreateRequest {
	return vo.CreateRequest{
		X:             c.X,
		Y:             c.Y,
		Width:         c.Width,
		Height:        c.Height,
		ForcePosition: c.Position,
		Fullscreen:    c.Fullscreen,
	}
}
