package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/1broseidon/vowin/internal/config"
	"github.com/1broseidon/vowin/internal/daemon"
	"github.com/1broseidon/vowin/internal/hotkeys"
	"github.com/1broseidon/vowin/internal/ipc"
	"github.com/1broseidon/vowin/internal/platform"
	"github.com/1broseidon/vowin/internal/vo"
	"github.com/phsym/console-slog"
	"golang.org/x/term"
)

// newLogger logs to stderr, colourised when stderr is a terminal.
func newLogger(level slog.Level) *slog.Logger {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// windowFlags are the run options that override the config file.
type windowFlags struct {
	fs *flag.FlagSet

	path       string
	display    string
	geometry   string
	fullscreen bool
	onTop      bool
	noBorder   bool
	wid        int64
	screen     int
	fstype     string
	debug      bool
}

func newWindowFlags(name string) *windowFlags {
	f := &windowFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(os.Stderr)
	f.fs.StringVar(&f.path, "config", "", "Config file path (default: ~/.config/vowin/config.yaml)")
	f.fs.StringVar(&f.display, "display", "", "X display (default: $DISPLAY)")
	f.fs.StringVar(&f.geometry, "geometry", "", "Window geometry WxH or WxH+X+Y")
	f.fs.BoolVar(&f.fullscreen, "fullscreen", false, "Start fullscreen")
	f.fs.BoolVar(&f.onTop, "ontop", false, "Keep the window above others")
	f.fs.BoolVar(&f.noBorder, "no-border", false, "Start without decorations")
	f.fs.Int64Var(&f.wid, "wid", -1, "Draw into an existing window (0 = root window)")
	f.fs.IntVar(&f.screen, "screen", -1, "Xinerama screen for fullscreen (-1 = screen under the window)")
	f.fs.StringVar(&f.fstype, "fstype", "", "Comma-separated window manager capability overrides")
	f.fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	return f
}

// apply copies the flags given on the command line over cfg.
func (f *windowFlags) apply(cfg *config.Config) error {
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "display":
			cfg.Display = f.display
		case "geometry":
			p, perr := parseGeometry(f.geometry)
			if perr != nil {
				err = perr
				return
			}
			cfg.Width, cfg.Height = p.Width, p.Height
			if p.ForcePosition {
				cfg.X, cfg.Y, cfg.Position = p.X, p.Y, true
			}
		case "fullscreen":
			cfg.Fullscreen = f.fullscreen
		case "ontop":
			cfg.OnTop = f.onTop
		case "no-border":
			cfg.Border = !f.noBorder
		case "wid":
			cfg.WID = f.wid
		case "screen":
			cfg.Screen = f.screen
		case "fstype":
			cfg.FSType = splitList(f.fstype)
		case "debug":
			if f.debug {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadWindowConfig parses args and returns the effective config.
func loadWindowConfig(name string, args []string, usage func()) (*config.Config, int) {
	f := newWindowFlags(name)
	f.fs.Usage = func() {
		usage()
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		f.fs.PrintDefaults()
	}
	if err := f.fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, 0
		}
		return nil, 2
	}
	if f.fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		f.fs.Usage()
		return nil, 2
	}

	res, err := loadConfig(f.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1
	}
	cfg := res.Config
	if err := f.apply(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 2
	}
	return cfg, 0
}

func runWindow(args []string) int {
	cfg, code := loadWindowConfig("run", args, func() {
		fmt.Fprintln(os.Stderr, "Usage: vowin run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the video window and serve control requests until it is closed.")
	})
	if cfg == nil {
		return code
	}
	logger := newLogger(cfg.SlogLevel())

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, logger)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	if cfg.UseShm && !backend.EnableShm() {
		logger.Info("MIT-SHM unavailable, completion events disabled")
	}

	table, err := hotkeys.NewTable(cfg.Bindings)
	if err != nil {
		logger.Error("invalid key bindings", "error", err)
		return 1
	}
	for _, b := range table.Bindings() {
		logger.Debug("key bound", "key", b.Key.String(), "action", b.Action)
	}

	session := vo.NewSession(backend, cfg.SessionOptions(), logger)
	runner := daemon.NewRunner(daemon.RunnerConfig{
		Interval:     cfg.PollInterval(),
		Request:      cfg.CreateRequest(),
		Bindings:     table,
		DisplayLocal: backend.IsLocal(),
		Logger:       logger,
	}, session, backend)

	server, err := ipc.NewServer(runner, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.Run(ctx, logger, runner, server); err != nil {
		logger.Error("vowin stopped", "error", err)
		return 1
	}
	return 0
}

func runProbe(args []string) int {
	cfg, code := loadWindowConfig("probe", args, func() {
		fmt.Fprintln(os.Stderr, "Usage: vowin probe [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Probe the window manager and show the fullscreen strategy a window would use.")
	})
	if cfg == nil {
		return code
	}
	logger := newLogger(cfg.SlogLevel())

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	// a foreign window skips the probe
	opts := cfg.SessionOptions()
	opts.WID = -1
	session := vo.NewSession(backend, opts, logger)

	screen, index := session.Screen()
	writeProbe(os.Stdout, probeReport{
		Display:      backend.DisplayName(),
		DisplayLocal: backend.IsLocal(),
		Composited:   backend.Composited(),
		Probed:       session.ProbedCapabilities().Names(),
		Effective:    session.Capabilities().Names(),
		Overrides:    cfg.FSType,
		Strategy:     session.Strategy(),
		Layer:        session.FullscreenLayer(),
		Screen:       screen,
		ScreenIndex:  index,
	})
	return 0
}

func runScreens(args []string) int {
	fs := flag.NewFlagSet("screens", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display to query when no window is running")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vowin screens [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List screens. Asks the running window first, then the display.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if data, err := ipc.NewClient().GetScreens(); err == nil {
		writeScreens(os.Stdout, data)
		return 0
	}

	backend, err := platform.NewLinuxBackendFromDisplay(*display, newLogger(slog.LevelWarn))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	displays, err := backend.Displays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeScreens(os.Stdout, screensFromDisplays(displays))
	return 0
}

func screensFromDisplays(displays []platform.Display) *ipc.ScreensData {
	data := &ipc.ScreensData{Selected: -1}
	for _, d := range displays {
		data.Screens = append(data.Screens, ipc.ScreenInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		})
	}
	return data
}
