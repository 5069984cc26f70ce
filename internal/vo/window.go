package vo

import (
	"errors"
	"fmt"

	"github.com/1broseidon/vowin/internal/platform"
)

// ErrNoWindow is returned by operations that need a window before Create.
var ErrNoWindow = errors.New("no video window")

// Create creates the window, or reconfigures it when it already exists.
// A foreign window is adopted instead of created. With req.Hidden the
// window is created unmapped and Show maps it later.
func (s *Session) Create(req CreateRequest) error {
	forceXY := req.ForcePosition || s.opts.Screen >= 0
	b := s.backend

	if !s.owned {
		s.fs = req.Fullscreen
		if s.opts.WID == 0 {
			s.window = b.Root()
		} else {
			s.window = platform.WindowID(s.opts.WID)
		}
		s.created = true
		if req.Visual.Colormap != 0 {
			b.SetColormap(s.window, req.Visual.Colormap)
		}
		mask := platform.InputFull
		if s.opts.WID > 0 {
			// the embedder owns every other event class
			mask = platform.InputExposure
		}
		if err := b.SelectInput(s.window, mask); err != nil {
			s.logger.Warn("failed to select input on foreign window", "error", err)
		}
		s.updateGeometry(true)
		return s.finishCreate()
	}

	s.lastReq = req
	if !s.created {
		s.fs = false
		s.geom = platform.Rect{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
		win, err := b.CreateWindow(s.geom, req.Visual)
		if err != nil {
			return fmt.Errorf("failed to create video window: %w", err)
		}
		s.window = win
		s.created = true
		s.hidden = true
		s.logger.Debug("video window created", "window", win,
			"width", req.Width, "height", req.Height)
	}
	if req.Hidden {
		return s.finishCreate()
	}

	if s.hidden {
		s.show(req, forceXY)
	}

	if err := b.SetTitle(s.window, s.opts.Title); err != nil {
		s.logger.Warn("failed to set window title", "error", err)
	}
	if s.onTop {
		s.SetLayer(true)
	}
	s.updateGeometry(!forceXY)
	s.nofsSizePos(s.geom.X, s.geom.Y, req.Width, req.Height, req.ForcePosition)
	if s.fs != req.Fullscreen {
		s.ToggleFullscreen()
	} else if s.fs {
		s.geom.Width, s.geom.Height = s.screen.Width, s.screen.Height
	}
	return s.finishCreate()
}

// show maps a hidden window for the first time.
func (s *Session) show(req CreateRequest, forceXY bool) {
	b := s.backend
	win := s.window
	s.hidden = false

	if err := b.SetIdentity(win, s.opts.Class, s.opts.Class); err != nil {
		s.logger.Warn("failed to set window identity", "error", err)
	}
	s.HideCursor()
	if err := b.SelectInput(win, platform.InputStructure); err != nil {
		s.logger.Warn("failed to select structure events", "error", err)
	}

	hints := platform.SizeHints{
		Flags:  platform.SizePSize,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	}
	if forceXY {
		hints.Flags |= platform.SizePPosition
	}
	if err := b.SetSizeHints(win, hints); err != nil {
		s.logger.Warn("failed to set initial size hints", "error", err)
	}
	if !s.border {
		s.SetDecorated(false)
	}

	s.selectInput()

	b.Map(win)
	b.Clear(win)

	ic, err := b.OpenInputContext(win)
	if err != nil {
		s.logger.Warn("no input context, using plain key lookup", "error", err)
	} else {
		s.ic = ic
	}
	s.logger.Debug("video window mapped", "window", win)
}

// Show maps a window created with CreateRequest.Hidden. It does nothing
// when the window is already shown.
func (s *Session) Show() error {
	if !s.created {
		return ErrNoWindow
	}
	if !s.owned || !s.hidden {
		return nil
	}
	req := s.lastReq
	req.Hidden = false
	return s.Create(req)
}

// selectInput selects the full input mask, dropping mouse buttons when
// they are disabled or another client already holds them.
func (s *Session) selectInput() {
	mask := platform.InputFull
	if s.opts.NoMouseInput {
		mask &^= platform.InputButtons
	}
	err := s.backend.SelectInput(s.window, mask)
	if err != nil && mask&platform.InputButtons != 0 {
		s.logger.Warn("failed to select mouse input, another client may hold button events", "error", err)
		err = s.backend.SelectInput(s.window, mask&^platform.InputButtons)
	}
	if err != nil {
		s.logger.Error("failed to select window input", "error", err)
	}
}

func (s *Session) finishCreate() error {
	b := s.backend
	if s.hasGC {
		b.FreeGC(s.gc)
		s.hasGC = false
	}
	gc, err := b.CreateGC(s.window)
	if err != nil {
		s.logger.Warn("failed to create graphics context", "error", err)
	} else {
		s.gc, s.hasGC = gc, true
	}
	b.Flush()
	return nil
}

// GC returns the graphics context bound to the window.
func (s *Session) GC() (uint32, bool) { return s.gc, s.hasGC }

// Destroy releases the window. An owned window is destroyed and the call
// blocks until the server confirms it; a foreign window is left alone.
func (s *Session) Destroy() error {
	if !s.created {
		return nil
	}
	b := s.backend
	win := s.window

	s.ShowCursor()
	if s.hasGC {
		b.FreeGC(s.gc)
		s.hasGC = false
	}
	b.Clear(win)

	if s.ic != nil {
		s.ic.Close()
		s.ic = nil
	}

	var err error
	if s.owned {
		err = b.DestroyAndWait(win)
		if err != nil {
			err = fmt.Errorf("failed to destroy video window: %w", err)
		}
	}

	s.window = 0
	s.created = false
	s.hidden = false
	s.fs = false
	s.fsFlip = false
	s.decorSaved = false
	s.hasOrigLayer = false
	s.lastW, s.lastH = 0, 0
	s.sizeChangedDuringFS = false
	s.logger.Debug("video window destroyed", "window", win)
	return err
}

// ResizeOrMove sets the windowed size and position. It is skipped when the
// size did not change, unless forcePosition is set or the size changed
// while fullscreen. In fullscreen only the restore geometry is updated.
func (s *Session) ResizeOrMove(x, y, width, height int, forcePosition bool) {
	if !s.created {
		return
	}
	s.nofsSizePos(x, y, width, height, forcePosition)
}

func (s *Session) nofsSizePos(x, y, width, height int, forcePosition bool) {
	if width == s.lastW && height == s.lastH {
		if !forcePosition && !s.sizeChangedDuringFS {
			return
		}
	} else if s.fs {
		s.sizeChangedDuringFS = true
	}
	s.lastW, s.lastH = width, height

	s.ApplySizeHints(x, y, width, height, s.opts.FixedSize)
	if s.fs {
		s.old = platform.Rect{X: x, Y: y, Width: width, Height: height}
		return
	}

	s.geom.Width, s.geom.Height = width, height
	if forcePosition {
		s.geom.X, s.geom.Y = x, y
		s.backend.MoveResize(s.window, platform.Rect{X: x, Y: y, Width: width, Height: height})
	} else {
		s.backend.Resize(s.window, width, height)
	}
}

// updateGeometry refreshes the cached size, and the position when
// withPosition is set, from the server.
func (s *Session) updateGeometry(withPosition bool) {
	g, err := s.backend.Geometry(s.window)
	if err != nil {
		s.logger.Warn("failed to read window geometry", "error", err)
		return
	}
	s.geom.Width, s.geom.Height = g.Width, g.Height
	if withPosition {
		s.geom.X, s.geom.Y = g.X, g.Y
	}
}

// checkResize re-reads the geometry and reports what changed.
func (s *Session) checkResize() (resized, moved bool) {
	before := s.geom
	s.updateGeometry(true)
	resized = s.geom.Width != before.Width || s.geom.Height != before.Height
	moved = s.geom.X != before.X || s.geom.Y != before.Y
	return resized, moved
}
