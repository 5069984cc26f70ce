package vo

import (
	"errors"
	"io"
	"log/slog"

	"github.com/1broseidon/vowin/internal/platform"
)

type call struct {
	op     string
	win    platform.WindowID
	rect   platform.Rect
	action int
	state  string
	layer  int
	words  int
	motif  platform.MotifHints
	hints  platform.SizeHints
	mask   platform.InputMask
}

// fakeBackend is an in-memory window system. Windows keep the geometry
// last requested for them, and hints read back what was last written.
type fakeBackend struct {
	rootAtoms map[string][]string
	screenW   int
	screenH   int
	heads     []platform.Display
	events    []platform.Event

	root    platform.WindowID
	nextWin platform.WindowID

	geometry  map[platform.WindowID]platform.Rect
	motif     map[platform.WindowID]platform.MotifHints
	sizeHints map[platform.WindowID]platform.SizeHints
	layers    map[platform.WindowID]int

	// buttonsTaken makes selecting button events fail.
	buttonsTaken bool
	hideErr      error
	keysyms      map[uint8]string

	calls      []call
	motifReads int
	layerReads int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		rootAtoms: map[string][]string{},
		screenW:   1920,
		screenH:   1080,
		root:      1,
		nextWin:   100,
		geometry:  map[platform.WindowID]platform.Rect{},
		motif:     map[platform.WindowID]platform.MotifHints{},
		sizeHints: map[platform.WindowID]platform.SizeHints{},
		layers:    map[platform.WindowID]int{},
		keysyms:   map[uint8]string{},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeBackend) record(c call) { f.calls = append(f.calls, c) }

func (f *fakeBackend) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeBackend) last(op string) (call, bool) {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return f.calls[i], true
		}
	}
	return call{}, false
}

func (f *fakeBackend) reset() { f.calls = nil }

func (f *fakeBackend) RootAtoms(property string) ([]string, error) {
	atoms, ok := f.rootAtoms[property]
	if !ok {
		return nil, errors.New("property not set")
	}
	return atoms, nil
}

func (f *fakeBackend) ScreenSize() (int, int) { return f.screenW, f.screenH }

func (f *fakeBackend) Heads() ([]platform.Display, error) { return f.heads, nil }

func (f *fakeBackend) Displays() ([]platform.Display, error) { return f.heads, nil }

func (f *fakeBackend) Composited() bool    { return false }
func (f *fakeBackend) DisplayName() string { return ":0" }

func (f *fakeBackend) Root() platform.WindowID { return f.root }

func (f *fakeBackend) CreateWindow(bounds platform.Rect, _ platform.Visual) (platform.WindowID, error) {
	f.nextWin++
	win := f.nextWin
	f.geometry[win] = bounds
	f.record(call{op: "create", win: win, rect: bounds})
	return win, nil
}

func (f *fakeBackend) SetColormap(win platform.WindowID, _ uint32) {
	f.record(call{op: "colormap", win: win})
}

func (f *fakeBackend) SelectInput(win platform.WindowID, mask platform.InputMask) error {
	f.record(call{op: "select", win: win, mask: mask})
	if f.buttonsTaken && mask&platform.InputButtons != 0 {
		return errors.New("access denied")
	}
	return nil
}

func (f *fakeBackend) SetIdentity(win platform.WindowID, _, _ string) error {
	f.record(call{op: "identity", win: win})
	return nil
}

func (f *fakeBackend) SetTitle(win platform.WindowID, title string) error {
	f.record(call{op: "title", win: win, state: title})
	return nil
}

func (f *fakeBackend) Map(win platform.WindowID)       { f.record(call{op: "map", win: win}) }
func (f *fakeBackend) MapRaised(win platform.WindowID) { f.record(call{op: "mapraised", win: win}) }
func (f *fakeBackend) Unmap(win platform.WindowID)     { f.record(call{op: "unmap", win: win}) }
func (f *fakeBackend) Raise(win platform.WindowID)     { f.record(call{op: "raise", win: win}) }
func (f *fakeBackend) Clear(win platform.WindowID)     { f.record(call{op: "clear", win: win}) }

func (f *fakeBackend) Withdraw(win platform.WindowID) error {
	f.record(call{op: "withdraw", win: win})
	return nil
}

func (f *fakeBackend) MoveResize(win platform.WindowID, bounds platform.Rect) {
	f.geometry[win] = bounds
	f.record(call{op: "moveresize", win: win, rect: bounds})
}

func (f *fakeBackend) Resize(win platform.WindowID, width, height int) {
	g := f.geometry[win]
	g.Width, g.Height = width, height
	f.geometry[win] = g
	f.record(call{op: "resize", win: win, rect: g})
}

func (f *fakeBackend) Geometry(win platform.WindowID) (platform.Rect, error) {
	g, ok := f.geometry[win]
	if !ok {
		return platform.Rect{}, errors.New("bad window")
	}
	return g, nil
}

func (f *fakeBackend) CreateGC(win platform.WindowID) (uint32, error) {
	f.record(call{op: "creategc", win: win})
	return 7, nil
}

func (f *fakeBackend) FreeGC(uint32) { f.record(call{op: "freegc"}) }

func (f *fakeBackend) DestroyAndWait(win platform.WindowID) error {
	delete(f.geometry, win)
	f.record(call{op: "destroy", win: win})
	return nil
}

func (f *fakeBackend) MotifHints(win platform.WindowID) (platform.MotifHints, error) {
	f.motifReads++
	mh, ok := f.motif[win]
	if !ok {
		return platform.MotifHints{}, errors.New("property not set")
	}
	return mh, nil
}

func (f *fakeBackend) SetMotifHints(win platform.WindowID, hints platform.MotifHints, words int) error {
	f.motif[win] = hints
	f.record(call{op: "motif", win: win, motif: hints, words: words})
	return nil
}

func (f *fakeBackend) SizeHints(win platform.WindowID) (platform.SizeHints, error) {
	h, ok := f.sizeHints[win]
	if !ok {
		return platform.SizeHints{}, errors.New("property not set")
	}
	return h, nil
}

func (f *fakeBackend) SetSizeHints(win platform.WindowID, hints platform.SizeHints) error {
	f.sizeHints[win] = hints
	f.record(call{op: "sizehints", win: win, hints: hints})
	return nil
}

func (f *fakeBackend) SetTransientForRoot(win platform.WindowID) error {
	f.record(call{op: "transient", win: win})
	return nil
}

func (f *fakeBackend) WindowLayer(win platform.WindowID) (int, error) {
	f.layerReads++
	layer, ok := f.layers[win]
	if !ok {
		return 0, errors.New("property not set")
	}
	return layer, nil
}

func (f *fakeBackend) SendWMState(win platform.WindowID, action int, state string) error {
	f.record(call{op: "wmstate", win: win, action: action, state: state})
	return nil
}

func (f *fakeBackend) SendLayer(win platform.WindowID, layer int) error {
	f.record(call{op: "layer", win: win, layer: layer})
	return nil
}

func (f *fakeBackend) HideCursor(win platform.WindowID) error {
	if f.hideErr != nil {
		return f.hideErr
	}
	f.record(call{op: "hidecursor", win: win})
	return nil
}

func (f *fakeBackend) ShowCursor(win platform.WindowID) {
	f.record(call{op: "showcursor", win: win})
}

func (f *fakeBackend) OpenInputContext(win platform.WindowID) (platform.InputContext, error) {
	f.record(call{op: "ic-open", win: win})
	return &fakeInputContext{backend: f, keysyms: f.keysyms}, nil
}

func (f *fakeBackend) BaseKeysym(keycode uint8) string { return f.keysyms[keycode] }

func (f *fakeBackend) PendingEvents() []platform.Event {
	events := f.events
	f.events = nil
	return events
}

func (f *fakeBackend) Flush() { f.record(call{op: "flush"}) }

type fakeInputContext struct {
	backend   *fakeBackend
	keysyms   map[uint8]string
	refreshed int
	closed    bool
}

func (c *fakeInputContext) Lookup(keycode uint8, state uint16) (string, string) {
	sym := c.keysyms[keycode]
	if state&platform.ModShift != 0 && len(sym) == 1 && sym[0] >= 'a' && sym[0] <= 'z' {
		sym = string(sym[0] - 'a' + 'A')
	}
	if len([]rune(sym)) == 1 {
		return sym, sym
	}
	return sym, ""
}

func (c *fakeInputContext) Refresh() { c.refreshed++ }

func (c *fakeInputContext) Close() {
	c.closed = true
	c.backend.record(call{op: "ic-close"})
}

var _ platform.Backend = (*fakeBackend)(nil)
