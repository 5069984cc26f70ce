package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/1broseidon/vowin/internal/config"
	"github.com/1broseidon/vowin/internal/ipc"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWindow(os.Args[2:]))
	case "probe":
		os.Exit(runProbe(os.Args[2:]))
	case "screens":
		os.Exit(runScreens(os.Args[2:]))
	case "fullscreen":
		os.Exit(runSwitch("fullscreen", os.Args[2:], ipc.NewClient().Fullscreen))
	case "ontop":
		os.Exit(runSwitch("ontop", os.Args[2:], ipc.NewClient().OnTop))
	case "border":
		os.Exit(runSwitch("border", os.Args[2:], ipc.NewClient().Border))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "quit":
		os.Exit(runQuit(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vowin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the video window (foreground)")
	fmt.Fprintln(w, "  probe               Show window manager capabilities")
	fmt.Fprintln(w, "  screens             List screens")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  fullscreen [MODE]   Change fullscreen (toggle|on|off)")
	fmt.Fprintln(w, "  ontop [MODE]        Change stay-on-top (toggle|on|off)")
	fmt.Fprintln(w, "  border [MODE]       Change decorations (toggle|on|off)")
	fmt.Fprintln(w, "  resize GEOMETRY     Resize the window (WxH or WxH+X+Y)")
	fmt.Fprintln(w, "  status              Show window status")
	fmt.Fprintln(w, "  quit                Close the window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'vowin <command> --help' for command-specific options.")
}

func runSwitch(name string, args []string, send func(ipc.SwitchMode) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vowin %s [toggle|on|off]\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "%s takes at most one argument\n", name)
		fs.Usage()
		return 2
	}

	mode, err := ipc.ParseSwitchMode(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := send(mode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

var geometryPattern = regexp.MustCompile(`^(\d+)x(\d+)(?:(\+-?\d+|-\d+)(\+-?\d+|-\d+))?$`)

// parseGeometry reads WxH or WxH+X+Y. The position is forced only when
// it is given.
func parseGeometry(s string) (ipc.ResizePayload, error) {
	m := geometryPattern.FindStringSubmatch(s)
	if m == nil {
		return ipc.ResizePayload{}, fmt.Errorf("invalid geometry %q (want WxH or WxH+X+Y)", s)
	}

	var p ipc.ResizePayload
	p.Width, _ = strconv.Atoi(m[1])
	p.Height, _ = strconv.Atoi(m[2])
	if p.Width <= 0 || p.Height <= 0 {
		return ipc.ResizePayload{}, fmt.Errorf("invalid geometry %q: size must be positive", s)
	}
	if m[3] != "" {
		p.X = parseOffset(m[3])
		p.Y = parseOffset(m[4])
		p.ForcePosition = true
	}
	return p, nil
}

// parseOffset reads "+N", "-N" or "+-N".
func parseOffset(s string) int {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	n, _ := strconv.Atoi(s[1:])
	return sign * n
}

func runResize(args []string) int {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vowin resize WxH[+X+Y]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set the windowed size. With +X+Y the position is forced too.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	p, err := parseGeometry(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().Resize(p); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vowin status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the running window's status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeStatus(os.Stdout, status)
	return 0
}

func runQuit(args []string) int {
	fs := flag.NewFlagSet("quit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vowin quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "quit takes no arguments")
		return 2
	}

	if err := ipc.NewClient().Quit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  vowin config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  vowin config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  vowin config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/vowin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/vowin/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, file := range res.Files {
				fmt.Printf("# loaded: %s\n", file)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/vowin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
