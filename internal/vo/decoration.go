package vo

import "github.com/1broseidon/vowin/internal/platform"

const defaultMotifFuncs = platform.MotifFuncMove | platform.MotifFuncClose |
	platform.MotifFuncMinimize | platform.MotifFuncMaximize | platform.MotifFuncResize

// minWindowSize is the smallest size advertised in the size hints.
const minWindowSize = 4

// SetDecorated adds or removes window-manager decorations. The hints in
// place before the first removal are saved and written back on restore.
func (s *Session) SetDecorated(decorated bool) {
	if !s.owned || !s.created {
		return
	}
	b := s.backend

	if s.opts.Compat.TransientForRoot {
		if err := b.SetTransientForRoot(s.window); err != nil {
			s.logger.Warn("failed to set transient hint", "error", err)
		}
	}

	if !decorated && !s.decorSaved {
		if mh, err := b.MotifHints(s.window); err == nil {
			if mh.Flags&platform.MotifFlagDecorations != 0 {
				s.oldDecor = mh.Decorations
			}
			if mh.Flags&platform.MotifFlagFunctions != 0 {
				s.oldFuncs = mh.Functions
			}
		}
		s.decorSaved = true
	}

	hints := motifRecord(decorated, s.oldDecor, s.oldFuncs, s.opts.Compat.MenuDecoration)
	words := 5
	if s.opts.Compat.FourWordMotifHints {
		words = 4
	}
	if err := b.SetMotifHints(s.window, hints, words); err != nil {
		s.logger.Warn("failed to set decoration hints", "decorated", decorated, "error", err)
	}
}

// ToggleBorder flips the decoration preference. Decorations stay off while
// fullscreen.
func (s *Session) ToggleBorder() {
	s.border = !s.border
	s.SetDecorated(s.border && !s.fs)
}

// SavedDecoration returns the decoration and function bits restored by
// SetDecorated(true).
func (s *Session) SavedDecoration() (decorations, functions uint) {
	return s.oldDecor, s.oldFuncs
}

func motifRecord(decorated bool, oldDecor, oldFuncs uint, menu bool) platform.MotifHints {
	hints := platform.MotifHints{
		Flags: platform.MotifFlagFunctions | platform.MotifFlagDecorations,
	}
	if decorated {
		hints.Functions = oldFuncs
		hints.Decorations = oldDecor
	}
	if menu {
		hints.Decorations |= platform.MotifDecorMenu
	}
	return hints
}

// ApplySizeHints writes WM_NORMAL_HINTS for the given geometry. maxFixed
// pins the maximum size to the requested one.
func (s *Session) ApplySizeHints(x, y, width, height int, maxFixed bool) {
	if !s.owned || !s.created {
		return
	}
	s.hints = sizeHints(x, y, width, height, maxFixed, s.opts.KeepAspect)
	if err := s.backend.SetSizeHints(s.window, s.hints); err != nil {
		s.logger.Warn("failed to set size hints", "error", err)
	}
}

func sizeHints(x, y, width, height int, maxFixed, keepAspect bool) platform.SizeHints {
	h := platform.SizeHints{
		Flags:  platform.SizePPosition | platform.SizePSize,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
	if keepAspect {
		h.Flags |= platform.SizePAspect
		h.MinAspectNum, h.MinAspectDen = width, height
		h.MaxAspectNum, h.MaxAspectDen = width, height
	}
	if maxFixed {
		h.Flags |= platform.SizePMaxSize
		h.MaxWidth, h.MaxHeight = width, height
	}

	h.Flags |= platform.SizePMinSize
	h.MinWidth, h.MinHeight = minWindowSize, minWindowSize

	// Some window managers mis-handle a base size equal to the window size.
	h.Flags |= platform.SizePBaseSize
	h.BaseWidth, h.BaseHeight = 0, 0

	h.Flags |= platform.SizePWinGravity
	h.WinGravity = platform.GravityStatic
	return h
}
