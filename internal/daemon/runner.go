package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/vowin/internal/hotkeys"
	"github.com/1broseidon/vowin/internal/ipc"
	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/vo"
	"github.com/thejerf/suture/v4"
)

// dispatchTimeout bounds how long an IPC request waits for the run loop.
const dispatchTimeout = 3 * time.Second

// RunnerConfig holds configuration for the runner.
type RunnerConfig struct {
	Interval time.Duration
	Request  vo.CreateRequest
	Bindings *hotkeys.Table
	// DisplayLocal is reported in status.
	DisplayLocal bool
	Logger       *slog.Logger
}

type call struct {
	req   *ipc.Request
	reply chan *ipc.Response
}

// Runner owns the video window. Every session call happens on the Serve
// goroutine; IPC requests are handed over through Dispatch.
type Runner struct {
	interval     time.Duration
	request      vo.CreateRequest
	session      *vo.Session
	screens      platform.ScreenInfo
	hotkeys      *hotkeys.Handler
	displayLocal bool
	logger       *slog.Logger

	calls chan call
	start time.Time
	quit  bool
}

// NewRunner creates a runner for session. screens is the display the
// session's backend is connected to.
func NewRunner(cfg RunnerConfig, session *vo.Session, screens platform.ScreenInfo) *Runner {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		interval:     interval,
		request:      cfg.Request,
		session:      session,
		screens:      screens,
		displayLocal: cfg.DisplayLocal,
		logger:       logger,
		calls:        make(chan call),
		start:        time.Now(),
	}

	r.hotkeys = hotkeys.NewHandler(cfg.Bindings, logger)
	r.hotkeys.RegisterFunc(hotkeys.ActionFullscreen, session.ToggleFullscreen)
	r.hotkeys.RegisterFunc(hotkeys.ActionOnTop, session.ToggleOnTop)
	r.hotkeys.RegisterFunc(hotkeys.ActionBorder, session.ToggleBorder)
	r.hotkeys.RegisterFunc(hotkeys.ActionQuit, func() { r.quit = true })
	return r
}

func (r *Runner) String() string { return "vo-runner" }

// Serve creates the window and runs the event loop until the window is
// closed or ctx is cancelled. Closing the window terminates the
// supervisor tree.
func (r *Runner) Serve(ctx context.Context) error {
	if err := r.session.Create(r.request); err != nil {
		return Fatal(fmt.Errorf("failed to create window: %w", err))
	}
	defer func() {
		if err := r.session.Destroy(); err != nil {
			r.logger.Warn("failed to destroy window", "error", err)
		}
	}()

	r.quit = false
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	win, _ := r.session.Window()
	r.logger.Info("runner started", "window", win, "interval", r.interval,
		"strategy", r.session.Strategy())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return ctx.Err()
		case c := <-r.calls:
			c.reply <- r.handleCall(c.req)
		case <-ticker.C:
			r.tick()
		}
		if r.quit {
			r.logger.Info("window closed")
			return suture.ErrTerminateSupervisorTree
		}
	}
}

// tick performs a single poll pass.
func (r *Runner) tick() {
	// Recover from panics to keep the window alive
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("runner panic recovered", "error", err)
		}
	}()

	for _, ev := range r.session.Poll() {
		switch ev.Kind {
		case vo.EventKey:
			r.hotkeys.Handle(ev.Key)
		case vo.EventButton:
			if ev.Down {
				r.hotkeys.Handle(ev.Key)
			}
		case vo.EventClose:
			r.quit = true
		case vo.EventResize, vo.EventMove:
			r.logger.Debug("window geometry changed", "event", ev.Kind.String(),
				"x", ev.Geometry.X, "y", ev.Geometry.Y,
				"width", ev.Geometry.Width, "height", ev.Geometry.Height)
		}
	}
}

// Dispatch implements ipc.Dispatcher by running req on the Serve goroutine.
func (r *Runner) Dispatch(ctx context.Context, req *ipc.Request) *ipc.Response {
	timer := time.NewTimer(dispatchTimeout)
	defer timer.Stop()

	c := call{req: req, reply: make(chan *ipc.Response, 1)}
	select {
	case r.calls <- c:
	case <-ctx.Done():
		return ipc.NewErrorResponse("shutting down")
	case <-timer.C:
		return ipc.NewErrorResponse("window is not running")
	}

	select {
	case resp := <-c.reply:
		return resp
	case <-ctx.Done():
		return ipc.NewErrorResponse("shutting down")
	case <-timer.C:
		return ipc.NewErrorResponse("window did not answer")
	}
}

func (r *Runner) handleCall(req *ipc.Request) *ipc.Response {
	s := r.session

	switch req.Command {
	case ipc.CommandFullscreen:
		mode, err := ipc.DecodeSwitch(req.Payload)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if mode.Apply(s.IsFullscreen()) {
			s.EnterFullscreen()
		} else {
			s.LeaveFullscreen()
		}

	case ipc.CommandOnTop:
		mode, err := ipc.DecodeSwitch(req.Payload)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		s.SetOnTop(mode.Apply(s.IsOnTop()))

	case ipc.CommandBorder:
		mode, err := ipc.DecodeSwitch(req.Payload)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if mode.Apply(s.HasBorder()) != s.HasBorder() {
			s.ToggleBorder()
		}

	case ipc.CommandResize:
		p, err := ipc.DecodeResize(req.Payload)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		s.ResizeOrMove(p.X, p.Y, p.Width, p.Height, p.ForcePosition)

	case ipc.CommandGetStatus:
		resp, err := ipc.NewOKResponse(r.status())
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return resp

	case ipc.CommandGetScreens:
		data, err := r.screensData()
		if err != nil {
			return ipc.NewErrorResponse(fmt.Sprintf("Failed to get screens: %v", err))
		}
		resp, err := ipc.NewOKResponse(data)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return resp

	case ipc.CommandQuit:
		r.logger.Info("quit requested over ipc")
		r.quit = true

	default:
		return ipc.NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	resp, _ := ipc.NewOKResponse(nil)
	return resp
}

func (r *Runner) status() ipc.StatusData {
	s := r.session
	win, _ := s.Window()
	g := s.Geometry()
	_, screen := s.Screen()
	return ipc.StatusData{
		Window:             uint32(win),
		State:              s.State().String(),
		Fullscreen:         s.IsFullscreen(),
		OnTop:              s.IsOnTop(),
		Border:             s.HasBorder(),
		Strategy:           s.Strategy(),
		Capabilities:       s.Capabilities().Names(),
		Probed:             s.ProbedCapabilities().Names(),
		Geometry:           ipc.Geometry{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height},
		Screen:             screen,
		Display:            r.screens.DisplayName(),
		DisplayLocal:       r.displayLocal,
		Composited:         r.screens.Composited(),
		PendingCompletions: s.PendingCompletions(),
		UptimeSeconds:      int64(time.Since(r.start).Seconds()),
	}
}

func (r *Runner) screensData() (ipc.ScreensData, error) {
	heads, err := r.screens.Displays()
	if err != nil {
		return ipc.ScreensData{}, err
	}
	_, selected := r.session.Screen()
	data := ipc.ScreensData{
		Screens:  make([]ipc.ScreenInfo, len(heads)),
		Selected: selected,
	}
	for i, d := range heads {
		data.Screens[i] = ipc.ScreenInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}
	return data, nil
}
