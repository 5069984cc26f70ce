package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the top-level keys plus:
//
//	compat.<name>
//	bindings.<key sequence>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	head, rest, nested := strings.Cut(path, ".")

	switch head {
	case "compat":
		if !nested {
			return cfg.Compat, nil
		}
		switch rest {
		case "menu_decoration":
			return cfg.Compat.MenuDecoration, nil
		case "four_word_motif_hints":
			return cfg.Compat.FourWordMotifHints, nil
		case "transient_for_root":
			return cfg.Compat.TransientForRoot, nil
		case "no_withdraw":
			return cfg.Compat.NoWithdraw, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "bindings":
		if !nested {
			return cfg.Bindings, nil
		}
		action, ok := cfg.Bindings[rest]
		if !ok {
			return nil, fmt.Errorf("no binding for %q", rest)
		}
		return action, nil
	}

	if nested {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	value, ok := scalarValues(cfg)[head]
	if !ok {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	return value, nil
}

func scalarValues(cfg *Config) map[string]any {
	return map[string]any{
		"display":            cfg.Display,
		"title":              cfg.Title,
		"width":              cfg.Width,
		"height":             cfg.Height,
		"x":                  cfg.X,
		"y":                  cfg.Y,
		"position":           cfg.Position,
		"fullscreen":         cfg.Fullscreen,
		"ontop":              cfg.OnTop,
		"border":             cfg.Border,
		"keepaspect":         cfg.KeepAspect,
		"fixed_size":         cfg.FixedSize,
		"fstype":             cfg.FSType,
		"screen":             cfg.Screen,
		"screen_width":       cfg.ScreenWidth,
		"screen_height":      cfg.ScreenHeight,
		"cursor_autohide_ms": cfg.CursorAutohideMS,
		"wid":                cfg.WID,
		"nomouse_input":      cfg.NoMouseInput,
		"use_shm":            cfg.UseShm,
		"poll_interval_ms":   cfg.PollIntervalMS,
		"log_level":          cfg.LogLevel,
	}
}
