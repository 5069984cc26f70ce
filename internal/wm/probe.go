package wm

import "log/slog"

// Root property and atom names read while probing.
const (
	AtomWinProtocols = "_WIN_PROTOCOLS"
	AtomWinLayer     = "_WIN_LAYER"
	AtomNetSupported = "_NET_SUPPORTED"
)

var netStateCapabilities = map[string]Capabilities{
	"_NET_WM_STATE_FULLSCREEN":   Fullscreen,
	"_NET_WM_STATE_ABOVE":        Above,
	"_NET_WM_STATE_STAYS_ON_TOP": StaysOnTop,
	"_NET_WM_STATE_BELOW":        Below,
}

// PropertySource reads atom lists stored on the root window.
// A missing property is reported as an error or as an empty list.
type PropertySource interface {
	RootAtoms(property string) ([]string, error)
}

// Probe queries the legacy layer protocol and the extended hints once and
// returns the resulting capability set. It never writes to the server.
func Probe(src PropertySource, logger *slog.Logger) Capabilities {
	if logger == nil {
		logger = slog.Default()
	}

	var caps Capabilities

	if atoms, err := src.RootAtoms(AtomWinProtocols); err == nil && len(atoms) > 0 {
		logger.Debug("wm advertises legacy protocols", "count", len(atoms))
		sawLayer, sawOther := false, false
		for _, name := range atoms {
			if name == AtomWinLayer {
				sawLayer = true
			} else {
				sawOther = true
			}
		}
		if sawLayer {
			if sawOther {
				caps |= Layer
			} else {
				// Metacity lists _WIN_LAYER alone and its support for it is broken.
				logger.Debug("ignoring lone _WIN_LAYER advertisement")
			}
		}
	}

	if atoms, err := src.RootAtoms(AtomNetSupported); err == nil && len(atoms) > 0 {
		logger.Debug("wm advertises extended hints", "count", len(atoms))
		for _, name := range atoms {
			if c, ok := netStateCapabilities[name]; ok {
				caps |= c
			}
		}
	}

	if caps == 0 {
		logger.Info("no window manager capabilities detected")
	} else {
		logger.Info("window manager capabilities detected", "caps", caps.String())
	}
	return caps
}
