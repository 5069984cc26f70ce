package vo

import (
	"testing"
	"time"

	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/wm"
)

var defaultRequest = CreateRequest{X: 10, Y: 20, Width: 320, Height: 240, ForcePosition: true}

// advertise makes the fake root window announce the given capabilities.
func advertise(f *fakeBackend, caps wm.Capabilities) {
	if caps.Has(wm.Layer) {
		f.rootAtoms[wm.AtomWinProtocols] = []string{wm.AtomWinLayer, "_WIN_WORKSPACE"}
	}
	var net []string
	for flag, name := range map[wm.Capabilities]string{
		wm.Fullscreen: "_NET_WM_STATE_FULLSCREEN",
		wm.StaysOnTop: "_NET_WM_STATE_STAYS_ON_TOP",
		wm.Above:      "_NET_WM_STATE_ABOVE",
		wm.Below:      "_NET_WM_STATE_BELOW",
	} {
		if caps.Has(flag) {
			net = append(net, name)
		}
	}
	if len(net) > 0 {
		f.rootAtoms[wm.AtomNetSupported] = append([]string{"_NET_WM_STATE"}, net...)
	}
}

func newTestSession(t *testing.T, caps wm.Capabilities, mutate func(*Options)) (*Session, *fakeBackend) {
	t.Helper()
	f := newFakeBackend()
	advertise(f, caps)
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	s := NewSession(f, opts, quietLogger())
	if s.ProbedCapabilities() != caps {
		t.Fatalf("expected probed caps %v, got %v", caps, s.ProbedCapabilities())
	}
	return s, f
}

func createWindow(t *testing.T, s *Session) platform.WindowID {
	t.Helper()
	if err := s.Create(defaultRequest); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	win, ok := s.Window()
	if !ok {
		t.Fatalf("expected a window after Create")
	}
	return win
}

func TestNewSession_SelectsStrategyFromCapabilities(t *testing.T) {
	s, _ := newTestSession(t, wm.Fullscreen|wm.Above, nil)
	if s.Strategy() != "ewmh" {
		t.Fatalf("expected ewmh strategy, got %q", s.Strategy())
	}

	s, _ = newTestSession(t, wm.Layer, nil)
	if s.Strategy() != "manual" {
		t.Fatalf("expected manual strategy, got %q", s.Strategy())
	}
}

func TestNewSession_AppliesOverrides(t *testing.T) {
	s, _ := newTestSession(t, wm.Layer|wm.Above|wm.Fullscreen|wm.Below, func(o *Options) {
		o.FSType = []string{"none", "fullscreen", "-above"}
	})
	if s.Capabilities() != wm.Fullscreen {
		t.Fatalf("expected only fullscreen, got %v", s.Capabilities())
	}
}

func TestNewSession_ForeignWindowSkipsProbe(t *testing.T) {
	f := newFakeBackend()
	advertise(f, wm.Fullscreen|wm.Layer)
	opts := DefaultOptions()
	opts.WID = 0x400001
	s := NewSession(f, opts, quietLogger())
	if s.Capabilities() != 0 || s.ProbedCapabilities() != 0 {
		t.Fatalf("expected no capabilities for a foreign window, got %v/%v", s.ProbedCapabilities(), s.Capabilities())
	}
}

func TestCreate_MapsWindowOnce(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	win := createWindow(t, s)

	if got := f.count("create"); got != 1 {
		t.Fatalf("expected one create request, got %d", got)
	}
	if got := f.count("map"); got != 1 {
		t.Fatalf("expected one map request, got %d", got)
	}
	if s.State() != StateWindowed {
		t.Fatalf("expected windowed state, got %v", s.State())
	}
	want := platform.Rect{X: 10, Y: 20, Width: 320, Height: 240}
	if s.Geometry() != want {
		t.Fatalf("expected geometry %+v, got %+v", want, s.Geometry())
	}

	if err := s.Create(CreateRequest{X: 10, Y: 20, Width: 640, Height: 480}); err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	if got := f.count("create"); got != 1 {
		t.Fatalf("expected window to be reused, got %d creates", got)
	}
	if got := f.count("map"); got != 1 {
		t.Fatalf("expected no second map, got %d", got)
	}
	if g := f.geometry[win]; g.Width != 640 || g.Height != 480 {
		t.Fatalf("expected window resized to 640x480, got %+v", g)
	}
}

func TestCreate_HiddenThenShow(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	req := defaultRequest
	req.Hidden = true
	if err := s.Create(req); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if s.State() != StateUnmapped {
		t.Fatalf("expected unmapped state, got %v", s.State())
	}
	if got := f.count("map"); got != 0 {
		t.Fatalf("expected hidden window not to be mapped, got %d maps", got)
	}

	if err := s.Show(); err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	if err := s.Show(); err != nil {
		t.Fatalf("second Show returned error: %v", err)
	}
	if got := f.count("map"); got != 1 {
		t.Fatalf("expected exactly one map, got %d", got)
	}
	if s.State() != StateWindowed {
		t.Fatalf("expected windowed state, got %v", s.State())
	}
}

func TestShow_WithoutWindow(t *testing.T) {
	s, _ := newTestSession(t, 0, nil)
	if err := s.Show(); err != ErrNoWindow {
		t.Fatalf("expected ErrNoWindow, got %v", err)
	}
}

func TestCreate_RetriesInputWithoutMouse(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	f.buttonsTaken = true
	createWindow(t, s)

	c, ok := f.last("select")
	if !ok {
		t.Fatalf("expected input selection")
	}
	if c.mask&platform.InputButtons != 0 {
		t.Fatalf("expected final selection without buttons, got %v", c.mask)
	}
	if c.mask&platform.InputKeys == 0 {
		t.Fatalf("expected key events to stay selected, got %v", c.mask)
	}
}

func TestCreate_SetsIdentityAndTitle(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, func(o *Options) { o.Title = "clip.mkv" })
	win := createWindow(t, s)

	if got := f.count("identity"); got != 1 {
		t.Fatalf("expected identity set once on first map, got %d", got)
	}
	c, ok := f.last("title")
	if !ok || c.win != win || c.state != "clip.mkv" {
		t.Fatalf("expected title clip.mkv on window %d, got %+v", win, c)
	}
}

func TestCreate_NoBorderRemovesDecorations(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, func(o *Options) { o.Border = false })
	createWindow(t, s)

	c, ok := f.last("motif")
	if !ok {
		t.Fatalf("expected motif hints to be written")
	}
	if c.motif.Decorations != 0 || c.motif.Functions != 0 {
		t.Fatalf("expected decorations removed, got %+v", c.motif)
	}
}

func TestCreate_StartFullscreen(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	req := defaultRequest
	req.Fullscreen = true
	if err := s.Create(req); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !s.IsFullscreen() {
		t.Fatalf("expected fullscreen after Create")
	}
	c, ok := f.last("wmstate")
	if !ok || c.action != platform.WMStateAdd || c.state != "_NET_WM_STATE_FULLSCREEN" {
		t.Fatalf("expected fullscreen ADD request, got %+v", c)
	}
}

func TestResizeOrMove_SkipsIdenticalRequests(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	createWindow(t, s)
	f.reset()

	s.ResizeOrMove(0, 0, 800, 600, false)
	s.ResizeOrMove(0, 0, 800, 600, false)

	if got := f.count("resize") + f.count("moveresize"); got != 1 {
		t.Fatalf("expected one geometry request, got %d", got)
	}
}

func TestResizeOrMove_ForcePositionRepeats(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	createWindow(t, s)
	f.reset()

	s.ResizeOrMove(5, 5, 800, 600, true)
	s.ResizeOrMove(5, 5, 800, 600, true)

	if got := f.count("moveresize"); got != 2 {
		t.Fatalf("expected two move/resize requests, got %d", got)
	}
}

func TestResizeOrMove_WhileFullscreenUpdatesRestoreSize(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	createWindow(t, s)
	s.ToggleFullscreen()
	f.reset()

	s.ResizeOrMove(10, 20, 800, 600, false)
	if got := f.count("resize") + f.count("moveresize"); got != 0 {
		t.Fatalf("expected no geometry request while fullscreen, got %d", got)
	}

	s.ToggleFullscreen()
	c, ok := f.last("resize")
	if !ok || c.rect.Width != 800 || c.rect.Height != 600 {
		t.Fatalf("expected resize to the size set while fullscreen, got %+v", c)
	}
}

func TestDestroy_OwnedWindowWaitsForServer(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	win := createWindow(t, s)

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}
	c, ok := f.last("destroy")
	if !ok || c.win != win {
		t.Fatalf("expected destroy of window %d, got %+v", win, c)
	}
	if _, ok := s.Window(); ok {
		t.Fatalf("expected no window after Destroy")
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("second Destroy returned error: %v", err)
	}
	if got := f.count("destroy"); got != 1 {
		t.Fatalf("expected a single destroy, got %d", got)
	}
}

// indexOf returns the position of the first recorded op, or -1.
func indexOf(f *fakeBackend, op string) int {
	for i, c := range f.calls {
		if c.op == op {
			return i
		}
	}
	return -1
}

func TestInputContext_OpenedAfterMapClosedBeforeDestroy(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	createWindow(t, s)
	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}

	mapAt, openAt := indexOf(f, "map"), indexOf(f, "ic-open")
	if mapAt < 0 || openAt < 0 || openAt < mapAt {
		t.Fatalf("expected input context opened after map, got map at %d, ic-open at %d", mapAt, openAt)
	}
	closeAt, destroyAt := indexOf(f, "ic-close"), indexOf(f, "destroy")
	if closeAt < 0 || destroyAt < 0 || closeAt > destroyAt {
		t.Fatalf("expected input context closed before destroy, got ic-close at %d, destroy at %d", closeAt, destroyAt)
	}
}

func TestDestroy_RecreatedWindowGetsSizeHints(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	req := CreateRequest{X: 10, Y: 20, Width: 320, Height: 240}

	floorHints := func(win platform.WindowID) int {
		n := 0
		for _, c := range f.calls {
			if c.op == "sizehints" && c.win == win && c.hints.Flags&platform.SizePMinSize != 0 {
				n++
			}
		}
		return n
	}

	if err := s.Create(req); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	first, _ := s.Window()
	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}
	if err := s.Create(req); err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	second, _ := s.Window()
	if second == first {
		t.Fatalf("expected a new window id after Destroy")
	}

	if got := floorHints(first); got != 1 {
		t.Fatalf("expected normalized size hints on the first window, got %d", got)
	}
	if got := floorHints(second); got != 1 {
		t.Fatalf("expected normalized size hints on the recreated window, got %d", got)
	}
}

func TestDestroy_ForeignWindowIsKept(t *testing.T) {
	f := newFakeBackend()
	opts := DefaultOptions()
	opts.WID = 0x400001
	f.geometry[0x400001] = platform.Rect{Width: 640, Height: 360}
	s := NewSession(f, opts, quietLogger())
	if err := s.Create(defaultRequest); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := f.count("create"); got != 0 {
		t.Fatalf("expected no window creation, got %d", got)
	}
	if c, _ := f.last("select"); c.mask != platform.InputExposure {
		t.Fatalf("expected only exposure events on an embedded window, got %v", c.mask)
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}
	if got := f.count("destroy"); got != 0 {
		t.Fatalf("expected foreign window to survive, got %d destroys", got)
	}
	if got := f.count("freegc"); got != 1 {
		t.Fatalf("expected graphics context to be freed, got %d", got)
	}
}

func TestForeignWindow_IgnoresWindowManagerRequests(t *testing.T) {
	f := newFakeBackend()
	opts := DefaultOptions()
	opts.WID = 0
	s := NewSession(f, opts, quietLogger())
	f.geometry[f.root] = platform.Rect{Width: 1920, Height: 1080}
	if err := s.Create(defaultRequest); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	f.reset()

	s.ToggleFullscreen()
	s.SetLayer(true)
	s.SetDecorated(false)
	s.HideCursor()

	if !s.IsFullscreen() {
		t.Fatalf("expected fullscreen flag to flip")
	}
	if len(f.calls) != 0 {
		t.Fatalf("expected no requests for the root window, got %+v", f.calls)
	}
}

func TestPoll_ClassifiesEvents(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	win := createWindow(t, s)
	f.keysyms[38] = "a"
	f.keysyms[9] = "Escape"
	f.keysyms[50] = "Shift_L"

	f.events = []platform.Event{
		{Kind: platform.EventExpose, Window: win},
		{Kind: platform.EventKeyPress, Window: win, Keycode: 38, State: platform.ModControl},
		{Kind: platform.EventKeyPress, Window: win, Keycode: 9},
		{Kind: platform.EventKeyPress, Window: win, Keycode: 50},
		{Kind: platform.EventButtonPress, Window: win, Button: 1},
		{Kind: platform.EventButtonRelease, Window: win, Button: 3},
		{Kind: platform.EventOther},
		{Kind: platform.EventDeleteRequest, Window: win},
	}
	events := s.Poll()

	want := []struct {
		kind EventKind
		key  string
		down bool
	}{
		{EventExpose, "", false},
		{EventKey, "Ctrl-a", false},
		{EventKey, "ESC", false},
		{EventButton, "MOUSE_BTN0", true},
		{EventButton, "MOUSE_BTN2", false},
		{EventClose, "", false},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		ev := events[i]
		if ev.Kind != w.kind {
			t.Fatalf("event %d: expected %v, got %v", i, w.kind, ev.Kind)
		}
		if w.key != "" && ev.Key.String() != w.key {
			t.Fatalf("event %d: expected key %q, got %q", i, w.key, ev.Key.String())
		}
		if ev.Down != w.down {
			t.Fatalf("event %d: expected down=%v, got %v", i, w.down, ev.Down)
		}
	}
}

func TestPoll_ConfigureReportsResizeAndMove(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	win := createWindow(t, s)

	f.geometry[win] = platform.Rect{X: 50, Y: 60, Width: 400, Height: 300}
	f.events = []platform.Event{{Kind: platform.EventConfigure, Window: win}}
	events := s.Poll()

	if len(events) != 2 || events[0].Kind != EventResize || events[1].Kind != EventMove {
		t.Fatalf("expected resize and move events, got %+v", events)
	}
	if s.Geometry() != f.geometry[win] {
		t.Fatalf("expected cached geometry %+v, got %+v", f.geometry[win], s.Geometry())
	}

	f.events = []platform.Event{{Kind: platform.EventConfigure, Window: win}}
	if events := s.Poll(); len(events) != 0 {
		t.Fatalf("expected no events for an unchanged geometry, got %+v", events)
	}
}

func TestPoll_DestroyOfOurWindowRequestsClose(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	win := createWindow(t, s)

	f.events = []platform.Event{
		{Kind: platform.EventDestroy, Window: win + 1},
		{Kind: platform.EventDestroy, Window: win},
	}
	events := s.Poll()
	if len(events) != 1 || events[0].Kind != EventClose {
		t.Fatalf("expected one close event, got %+v", events)
	}
}

func TestPoll_CompletionCounter(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, nil)
	createWindow(t, s)

	s.AddPendingCompletion()
	f.events = []platform.Event{
		{Kind: platform.EventCompletion},
		{Kind: platform.EventCompletion},
	}
	s.Poll()
	if got := s.PendingCompletions(); got != 0 {
		t.Fatalf("expected counter to stop at 0, got %d", got)
	}
}

func TestPoll_EmbeddedWindowChecksGeometry(t *testing.T) {
	f := newFakeBackend()
	opts := DefaultOptions()
	opts.WID = 0x400001
	f.geometry[0x400001] = platform.Rect{Width: 640, Height: 360}
	s := NewSession(f, opts, quietLogger())
	if err := s.Create(defaultRequest); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	f.geometry[0x400001] = platform.Rect{Width: 800, Height: 450}
	events := s.Poll()
	if len(events) != 1 || events[0].Kind != EventResize {
		t.Fatalf("expected a resize event without any server event, got %+v", events)
	}
}

func TestCursorAutohide(t *testing.T) {
	now := time.Unix(1000, 0)
	s, f := newTestSession(t, wm.Fullscreen, func(o *Options) {
		o.CursorAutohideMS = 500
		o.Now = func() time.Time { return now }
	})
	win := createWindow(t, s)
	f.reset()

	f.events = []platform.Event{{Kind: platform.EventMotion, Window: win, X: 3, Y: 4}}
	events := s.Poll()
	if len(events) != 1 || events[0].Kind != EventMotion || events[0].X != 3 {
		t.Fatalf("expected a motion event, got %+v", events)
	}
	if f.count("showcursor") != 1 {
		t.Fatalf("expected cursor to be shown on motion")
	}

	now = now.Add(400 * time.Millisecond)
	s.Poll()
	if f.count("hidecursor") != 0 {
		t.Fatalf("expected cursor to stay visible before the delay")
	}

	now = now.Add(100 * time.Millisecond)
	s.Poll()
	s.Poll()
	if got := f.count("hidecursor"); got != 1 {
		t.Fatalf("expected cursor hidden once, got %d", got)
	}
}

func TestCursorAutohide_Never(t *testing.T) {
	now := time.Unix(1000, 0)
	s, f := newTestSession(t, wm.Fullscreen, func(o *Options) {
		o.CursorAutohideMS = AutohideNever
		o.Now = func() time.Time { return now }
	})
	win := createWindow(t, s)
	f.reset()

	f.events = []platform.Event{{Kind: platform.EventMotion, Window: win}}
	s.Poll()
	now = now.Add(time.Hour)
	s.Poll()
	if got := f.count("hidecursor"); got != 0 {
		t.Fatalf("expected cursor never hidden, got %d hides", got)
	}
}

func TestCursorAutohide_AlwaysHidden(t *testing.T) {
	s, f := newTestSession(t, wm.Fullscreen, func(o *Options) {
		o.CursorAutohideMS = AutohideAlways
	})
	win := createWindow(t, s)
	f.reset()

	f.events = []platform.Event{{Kind: platform.EventMotion, Window: win}}
	s.Poll()
	if got := f.count("showcursor"); got != 0 {
		t.Fatalf("expected cursor to stay hidden, got %d shows", got)
	}
}
