package wm

import "strings"

// Capabilities is the set of window-manager features negotiated for a session.
type Capabilities uint8

const (
	Layer Capabilities = 1 << iota
	Fullscreen
	StaysOnTop
	Above
	Below
)

// NetWM covers every extended-hints feature.
const NetWM = Fullscreen | StaysOnTop | Above | Below

// Legacy _WIN_LAYER stacking layers.
const (
	LayerDesktop   = 0
	LayerBelow     = 2
	LayerNormal    = 4
	LayerOnTop     = 6
	LayerDock      = 8
	LayerAboveDock = 10
	LayerMax       = 15
)

var capabilityNames = []struct {
	flag Capabilities
	name string
}{
	{Layer, "layer"},
	{Fullscreen, "fullscreen"},
	{StaysOnTop, "stays_on_top"},
	{Above, "above"},
	{Below, "below"},
}

// Has reports whether every flag in c is present.
func (caps Capabilities) Has(c Capabilities) bool {
	return caps&c == c
}

// Any reports whether at least one flag in c is present.
func (caps Capabilities) Any(c Capabilities) bool {
	return caps&c != 0
}

func (caps Capabilities) With(c Capabilities) Capabilities {
	return caps | c
}

func (caps Capabilities) Without(c Capabilities) Capabilities {
	return caps &^ c
}

// Names returns the feature names present, in a stable order.
func (caps Capabilities) Names() []string {
	var names []string
	for _, cn := range capabilityNames {
		if caps.Has(cn.flag) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (caps Capabilities) String() string {
	if caps == 0 {
		return "none"
	}
	return strings.Join(caps.Names(), "|")
}

// StateAtom returns the _NET_WM_STATE atom used for stacking requests.
// The first supported of stays-on-top, above, fullscreen and below wins.
func (caps Capabilities) StateAtom() (string, bool) {
	switch {
	case caps.Has(StaysOnTop):
		return "_NET_WM_STATE_STAYS_ON_TOP", true
	case caps.Has(Above):
		return "_NET_WM_STATE_ABOVE", true
	case caps.Has(Fullscreen):
		return "_NET_WM_STATE_FULLSCREEN", true
	case caps.Has(Below):
		return "_NET_WM_STATE_BELOW", true
	}
	return "", false
}
