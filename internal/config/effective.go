package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw file values over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.Title != nil {
		cfg.Title = *raw.Title
	}
	if raw.Width != nil {
		cfg.Width = *raw.Width
	}
	if raw.Height != nil {
		cfg.Height = *raw.Height
	}
	if raw.X != nil {
		cfg.X = *raw.X
	}
	if raw.Y != nil {
		cfg.Y = *raw.Y
	}
	if raw.Position != nil {
		cfg.Position = *raw.Position
	}
	if raw.Fullscreen != nil {
		cfg.Fullscreen = *raw.Fullscreen
	}
	if raw.OnTop != nil {
		cfg.OnTop = *raw.OnTop
	}
	if raw.Border != nil {
		cfg.Border = *raw.Border
	}
	if raw.KeepAspect != nil {
		cfg.KeepAspect = *raw.KeepAspect
	}
	if raw.FixedSize != nil {
		cfg.FixedSize = *raw.FixedSize
	}
	if raw.FSType != nil {
		cfg.FSType = make([]string, 0, len(raw.FSType))
		for _, token := range raw.FSType {
			token = strings.TrimSpace(token)
			if token != "" {
				cfg.FSType = append(cfg.FSType, token)
			}
		}
	}
	if c := raw.Compat; c != nil {
		if c.MenuDecoration != nil {
			cfg.Compat.MenuDecoration = *c.MenuDecoration
		}
		if c.FourWordMotifHints != nil {
			cfg.Compat.FourWordMotifHints = *c.FourWordMotifHints
		}
		if c.TransientForRoot != nil {
			cfg.Compat.TransientForRoot = *c.TransientForRoot
		}
		if c.NoWithdraw != nil {
			cfg.Compat.NoWithdraw = *c.NoWithdraw
		}
	}
	if raw.Screen != nil {
		cfg.Screen = *raw.Screen
	}
	if raw.ScreenWidth != nil {
		cfg.ScreenWidth = *raw.ScreenWidth
	}
	if raw.ScreenHeight != nil {
		cfg.ScreenHeight = *raw.ScreenHeight
	}
	if raw.CursorAutohideMS != nil {
		cfg.CursorAutohideMS = *raw.CursorAutohideMS
	}
	if raw.WID != nil {
		cfg.WID = *raw.WID
	}
	if raw.NoMouseInput != nil {
		cfg.NoMouseInput = *raw.NoMouseInput
	}
	if raw.UseShm != nil {
		cfg.UseShm = *raw.UseShm
	}
	for seq, action := range raw.Bindings {
		if strings.TrimSpace(action) == "" || action == "none" {
			delete(cfg.Bindings, seq)
			continue
		}
		cfg.Bindings[seq] = action
	}
	if raw.PollIntervalMS != nil {
		cfg.PollIntervalMS = *raw.PollIntervalMS
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}

	return cfg
}
