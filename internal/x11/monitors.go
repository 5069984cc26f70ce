package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// XineramaActive reports whether the server has Xinerama enabled.
// xgbutil initializes the extension while connecting when it is present.
func (c *Connection) XineramaActive() bool {
	if !c.XUtil.ExtInitialized("XINERAMA") {
		return false
	}
	reply, err := xinerama.IsActive(c.XUtil.Conn()).Reply()
	if err != nil {
		return false
	}
	return reply.State != 0
}

// XineramaScreens returns the Xinerama screens in server order, which is
// the order screen indexes refer to.
func (c *Connection) XineramaScreens() ([]Monitor, error) {
	if !c.XineramaActive() {
		return nil, fmt.Errorf("xinerama is not active")
	}
	reply, err := xinerama.QueryScreens(c.XUtil.Conn()).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query xinerama screens: %w", err)
	}

	monitors := make([]Monitor, 0, len(reply.ScreenInfo))
	for i, info := range reply.ScreenInfo {
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   fmt.Sprintf("xinerama-%d", i),
			X:      int(info.XOrg),
			Y:      int(info.YOrg),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     len(monitors),
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// Heads returns the screens a fullscreen window may cover. Xinerama is
// preferred; RandR CRTCs are used when it is inactive, and the root screen
// is the last resort.
func (c *Connection) Heads() ([]Monitor, error) {
	if heads, err := c.XineramaScreens(); err == nil && len(heads) > 0 {
		return heads, nil
	}

	heads, err := c.GetMonitors()
	if err == nil && len(heads) > 0 {
		return heads, nil
	}
	if err != nil {
		c.logger.Debug("randr monitors unavailable", "error", err)
	}

	w, h := c.ScreenSize()
	return []Monitor{{ID: 0, Name: "root", Width: w, Height: h}}, nil
}
