package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawCompat struct {
	MenuDecoration     *bool `yaml:"menu_decoration"`
	FourWordMotifHints *bool `yaml:"four_word_motif_hints"`
	TransientForRoot   *bool `yaml:"transient_for_root"`
	NoWithdraw         *bool `yaml:"no_withdraw"`
}

// RawConfig mirrors the YAML file. Nil fields were not set by the file.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display *string `yaml:"display"`
	Title   *string `yaml:"title"`

	Width    *int  `yaml:"width"`
	Height   *int  `yaml:"height"`
	X        *int  `yaml:"x"`
	Y        *int  `yaml:"y"`
	Position *bool `yaml:"position"`

	Fullscreen *bool      `yaml:"fullscreen"`
	OnTop      *bool      `yaml:"ontop"`
	Border     *bool      `yaml:"border"`
	KeepAspect *bool      `yaml:"keepaspect"`
	FixedSize  *bool      `yaml:"fixed_size"`
	FSType     []string   `yaml:"fstype"`
	Compat     *RawCompat `yaml:"compat"`

	Screen       *int `yaml:"screen"`
	ScreenWidth  *int `yaml:"screen_width"`
	ScreenHeight *int `yaml:"screen_height"`

	CursorAutohideMS *int   `yaml:"cursor_autohide_ms"`
	WID              *int64 `yaml:"wid"`
	NoMouseInput     *bool  `yaml:"nomouse_input"`
	UseShm           *bool  `yaml:"use_shm"`

	Bindings       map[string]string `yaml:"bindings"`
	PollIntervalMS *int              `yaml:"poll_interval_ms"`
	LogLevel       *string           `yaml:"log_level"`
}

// merge overlays o on r. Bindings merge per key so a file can rebind one
// key without repeating the rest.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil

	setString(&out.Display, o.Display)
	setString(&out.Title, o.Title)
	setInt(&out.Width, o.Width)
	setInt(&out.Height, o.Height)
	setInt(&out.X, o.X)
	setInt(&out.Y, o.Y)
	setBool(&out.Position, o.Position)
	setBool(&out.Fullscreen, o.Fullscreen)
	setBool(&out.OnTop, o.OnTop)
	setBool(&out.Border, o.Border)
	setBool(&out.KeepAspect, o.KeepAspect)
	setBool(&out.FixedSize, o.FixedSize)
	if o.FSType != nil {
		out.FSType = append([]string(nil), o.FSType...)
	}
	if o.Compat != nil {
		c := RawCompat{}
		if out.Compat != nil {
			c = *out.Compat
		}
		setBool(&c.MenuDecoration, o.Compat.MenuDecoration)
		setBool(&c.FourWordMotifHints, o.Compat.FourWordMotifHints)
		setBool(&c.TransientForRoot, o.Compat.TransientForRoot)
		setBool(&c.NoWithdraw, o.Compat.NoWithdraw)
		out.Compat = &c
	}
	setInt(&out.Screen, o.Screen)
	setInt(&out.ScreenWidth, o.ScreenWidth)
	setInt(&out.ScreenHeight, o.ScreenHeight)
	setInt(&out.CursorAutohideMS, o.CursorAutohideMS)
	if o.WID != nil {
		v := *o.WID
		out.WID = &v
	}
	setBool(&out.NoMouseInput, o.NoMouseInput)
	setBool(&out.UseShm, o.UseShm)
	if o.Bindings != nil {
		merged := make(map[string]string, len(out.Bindings)+len(o.Bindings))
		for k, v := range out.Bindings {
			merged[k] = v
		}
		for k, v := range o.Bindings {
			merged[k] = v
		}
		out.Bindings = merged
	}
	setInt(&out.PollIntervalMS, o.PollIntervalMS)
	setString(&out.LogLevel, o.LogLevel)
	return out
}

func setString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setBool(dst **bool, src *bool) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
