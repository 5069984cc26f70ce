package wm

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolved is the capability set after static overrides were applied.
type Resolved struct {
	Caps Capabilities
	// FullscreenLayer is the legacy layer requested when the window is on top.
	FullscreenLayer int
	// Unknown lists tokens that named no feature; they are skipped.
	Unknown []string
}

// OverrideHelp describes the accepted override tokens, in display order.
var OverrideHelp = []struct {
	Token       string
	Description string
}{
	{"none", "don't set fullscreen window layer"},
	{"layer", "use _WIN_LAYER hint with default layer"},
	{"layer=<0..15>", "use _WIN_LAYER hint with a given layer number"},
	{"netwm", "force NETWM style"},
	{"above", "use _NET_WM_STATE_ABOVE hint if available"},
	{"below", "use _NET_WM_STATE_BELOW hint if available"},
	{"fullscreen", "use _NET_WM_STATE_FULLSCREEN hint if available"},
	{"stays_on_top", "use _NET_WM_STATE_STAYS_ON_TOP hint if available"},
}

var overrideFlags = map[string]Capabilities{
	"above":        Above,
	"below":        Below,
	"fullscreen":   Fullscreen,
	"stays_on_top": StaysOnTop,
	"netwm":        NetWM,
}

// ApplyOverrides edits probed left to right. A leading '-' clears the named
// feature instead of setting it, and "none" clears everything before the
// remaining tokens are applied.
func ApplyOverrides(probed Capabilities, tokens []string) Resolved {
	res := Resolved{Caps: probed, FullscreenLayer: LayerAboveDock}

	for _, token := range tokens {
		neg := strings.HasPrefix(token, "-")
		arg := strings.TrimPrefix(token, "-")

		switch {
		case strings.HasPrefix(arg, "layer"):
			if !neg {
				if n, ok := parseLayer(arg); ok {
					res.FullscreenLayer = n
				}
			}
			res.Caps = edit(res.Caps, Layer, neg)
		case arg == "none":
			res.Caps = 0
		default:
			flag, ok := overrideFlags[arg]
			if !ok {
				res.Unknown = append(res.Unknown, token)
				continue
			}
			res.Caps = edit(res.Caps, flag, neg)
		}
	}
	return res
}

// ValidateOverride rejects tokens ApplyOverrides would skip.
func ValidateOverride(token string) error {
	arg := strings.TrimPrefix(token, "-")
	if arg == "none" {
		return nil
	}
	if _, ok := overrideFlags[arg]; ok {
		return nil
	}
	if arg == "layer" {
		return nil
	}
	if strings.HasPrefix(arg, "layer=") {
		if _, ok := parseLayer(arg); !ok {
			return fmt.Errorf("layer must be between 0 and %d: %q", LayerMax, token)
		}
		return nil
	}
	return fmt.Errorf("unknown override %q", token)
}

func parseLayer(arg string) (int, bool) {
	value, found := strings.CutPrefix(arg, "layer=")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > LayerMax {
		return 0, false
	}
	return n, true
}

func edit(caps, flag Capabilities, neg bool) Capabilities {
	if neg {
		return caps.Without(flag)
	}
	return caps.With(flag)
}
