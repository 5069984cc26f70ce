package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/vowin/internal/hotkeys"
	"github.com/1broseidon/vowin/internal/ipc"
	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/vo"
	"github.com/thejerf/suture/v4"
)

// rootBackend answers the requests made while drawing into the root
// window. Anything else panics through the nil embedded interface.
type rootBackend struct {
	platform.Backend

	mu       sync.Mutex
	events   []platform.Event
	keysyms  map[uint8]string
	freedGCs int
}

func (b *rootBackend) push(ev platform.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *rootBackend) freed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.freedGCs
}

func (b *rootBackend) Root() platform.WindowID { return 1 }

func (b *rootBackend) SelectInput(platform.WindowID, platform.InputMask) error { return nil }

func (b *rootBackend) Geometry(platform.WindowID) (platform.Rect, error) {
	return platform.Rect{Width: 1920, Height: 1080}, nil
}

func (b *rootBackend) CreateGC(platform.WindowID) (uint32, error) { return 7, nil }

func (b *rootBackend) FreeGC(uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.freedGCs++
}

func (b *rootBackend) Clear(platform.WindowID) {}
func (b *rootBackend) Flush()                  {}

func (b *rootBackend) PendingEvents() []platform.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

func (b *rootBackend) BaseKeysym(keycode uint8) string { return b.keysyms[keycode] }

func (b *rootBackend) ScreenSize() (int, int)                { return 1920, 1080 }
func (b *rootBackend) Heads() ([]platform.Display, error)    { return nil, nil }
func (b *rootBackend) DisplayName() string                   { return ":0" }
func (b *rootBackend) Composited() bool                      { return false }
func (b *rootBackend) Displays() ([]platform.Display, error) { return testDisplays, nil }

var testDisplays = []platform.Display{
	{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}},
	{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 1280, Height: 1024}},
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(t *testing.T, b *rootBackend) *Runner {
	t.Helper()
	table, err := hotkeys.NewTable(hotkeys.DefaultBindings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session := vo.NewSession(b, vo.Options{WID: 0, CursorAutohideMS: -1}, testLogger())
	return NewRunner(RunnerConfig{
		Interval: time.Millisecond,
		Bindings: table,
		Logger:   testLogger(),
	}, session, b)
}

// serve runs r until the test ends and returns the channel Serve's result
// is delivered on.
func serve(t *testing.T, r *Runner) (<-chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()
	t.Cleanup(cancel)
	return done, cancel
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not stop")
		return nil
	}
}

func TestRunner_CloseEndsTree(t *testing.T) {
	b := &rootBackend{}
	r := newTestRunner(t, b)
	done, _ := serve(t, r)

	b.push(platform.Event{Kind: platform.EventDeleteRequest})

	err := waitDone(t, done)
	if !errors.Is(err, suture.ErrTerminateSupervisorTree) {
		t.Fatalf("expected tree termination, got %v", err)
	}
	if b.freed() != 1 {
		t.Fatalf("expected graphics context to be freed once, got %d", b.freed())
	}
}

func TestRunner_QuitHotkey(t *testing.T) {
	b := &rootBackend{keysyms: map[uint8]string{24: "q"}}
	r := newTestRunner(t, b)
	done, _ := serve(t, r)

	b.push(platform.Event{Kind: platform.EventKeyPress, Keycode: 24})

	if err := waitDone(t, done); !errors.Is(err, suture.ErrTerminateSupervisorTree) {
		t.Fatalf("expected tree termination, got %v", err)
	}
}

func TestRunner_ContextCancel(t *testing.T) {
	b := &rootBackend{}
	r := newTestRunner(t, b)
	done, cancel := serve(t, r)

	cancel()
	if err := waitDone(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if b.freed() != 1 {
		t.Fatalf("expected window teardown on cancel")
	}
}

func dispatch(t *testing.T, r *Runner, cmd ipc.CommandType, payload any) *ipc.Response {
	t.Helper()
	req := &ipc.Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req.Payload = data
	}
	return r.Dispatch(context.Background(), req)
}

func status(t *testing.T, r *Runner) ipc.StatusData {
	t.Helper()
	resp := dispatch(t, r, ipc.CommandGetStatus, nil)
	if resp.Status != "OK" {
		t.Fatalf("expected OK status response, got %s (%s)", resp.Status, resp.Error)
	}
	var data ipc.StatusData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return data
}

func TestRunner_Dispatch(t *testing.T) {
	b := &rootBackend{}
	r := newTestRunner(t, b)
	done, _ := serve(t, r)

	st := status(t, r)
	if st.Window != 1 || st.Display != ":0" || st.Fullscreen {
		t.Fatalf("unexpected initial status %+v", st)
	}
	if st.Geometry.Width != 1920 || st.Geometry.Height != 1080 {
		t.Fatalf("expected root geometry, got %+v", st.Geometry)
	}
	if st.Screen != -1 {
		t.Fatalf("expected no xinerama head, got %d", st.Screen)
	}

	if resp := dispatch(t, r, ipc.CommandFullscreen, ipc.SwitchPayload{Mode: ipc.SwitchOn}); resp.Status != "OK" {
		t.Fatalf("expected OK, got %s (%s)", resp.Status, resp.Error)
	}
	if !status(t, r).Fullscreen {
		t.Fatalf("expected fullscreen after FULLSCREEN on")
	}
	dispatch(t, r, ipc.CommandFullscreen, ipc.SwitchPayload{Mode: ipc.SwitchOn})
	if !status(t, r).Fullscreen {
		t.Fatalf("expected FULLSCREEN on to be idempotent")
	}
	dispatch(t, r, ipc.CommandFullscreen, nil)
	if status(t, r).Fullscreen {
		t.Fatalf("expected toggle to leave fullscreen")
	}

	resp := dispatch(t, r, ipc.CommandFullscreen, ipc.SwitchPayload{Mode: "sideways"})
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "sideways") {
		t.Fatalf("expected invalid mode error, got %s (%s)", resp.Status, resp.Error)
	}

	resp = dispatch(t, r, ipc.CommandGetScreens, nil)
	var screens ipc.ScreensData
	if err := json.Unmarshal(resp.Data, &screens); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(screens.Screens) != 2 || screens.Screens[1].Name != "HDMI-1" || screens.Screens[1].X != 1920 {
		t.Fatalf("unexpected screens %+v", screens)
	}
	if screens.Selected != -1 {
		t.Fatalf("expected no selected head, got %d", screens.Selected)
	}

	if resp := dispatch(t, r, ipc.CommandQuit, nil); resp.Status != "OK" {
		t.Fatalf("expected OK for QUIT, got %s", resp.Status)
	}
	if err := waitDone(t, done); !errors.Is(err, suture.ErrTerminateSupervisorTree) {
		t.Fatalf("expected tree termination, got %v", err)
	}
}

func TestRunner_DispatchWhileStopped(t *testing.T) {
	r := newTestRunner(t, &rootBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := r.Dispatch(ctx, &ipc.Request{Command: ipc.CommandGetStatus})
	if resp.Status != "ERROR" {
		t.Fatalf("expected error response, got %s", resp.Status)
	}
}

type funcService struct {
	name string
	fn   func(ctx context.Context) error
}

func (s funcService) String() string                  { return s.name }
func (s funcService) Serve(ctx context.Context) error { return s.fn(ctx) }

func TestRun_TerminationIsCleanExit(t *testing.T) {
	svc := funcService{name: "closer", fn: func(context.Context) error {
		return suture.ErrTerminateSupervisorTree
	}}
	if err := Run(context.Background(), testLogger(), svc); err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
}

func TestRun_FatalError(t *testing.T) {
	cause := errors.New("no display")
	svc := funcService{name: "broken", fn: func(context.Context) error {
		return Fatal(cause)
	}}
	err := Run(context.Background(), testLogger(), svc)
	if !errors.Is(err, cause) {
		t.Fatalf("expected %v, got %v", cause, err)
	}
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		t.Fatalf("expected the cause without the termination marker, got %v", err)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	svc := funcService{name: "blocker", fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, testLogger(), svc) }()
	<-started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit on cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("supervisor did not stop")
	}
}

func TestSanitizeError(t *testing.T) {
	ctx := context.Background()
	if sanitizeError(ctx, nil) != nil {
		t.Fatalf("expected nil")
	}
	err := sanitizeError(ctx, context.DeadlineExceeded)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a foreign deadline to lose its identity, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := sanitizeError(cancelled, errors.New("boom")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error once cancelled, got %v", err)
	}
}
