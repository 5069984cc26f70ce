package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/1broseidon/vowin/internal/ipc"
	"github.com/1broseidon/vowin/internal/platform"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(20)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func writeField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value)))
}

// formatList joins names, or shows "none" dimmed.
func formatList(names []string) string {
	if len(names) == 0 {
		return dimStyle.Render("none")
	}
	return strings.Join(names, " ")
}

func formatRect(x, y, width, height int) string {
	return fmt.Sprintf("%dx%d%+d%+d", width, height, x, y)
}

type probeReport struct {
	Display      string
	DisplayLocal bool
	Composited   bool
	Probed       []string
	Effective    []string
	Overrides    []string
	Strategy     string
	Layer        int
	Screen       platform.Rect
	ScreenIndex  int
}

func writeProbe(w io.Writer, r probeReport) {
	fmt.Fprintln(w, headerStyle.Render("Window manager"))
	writeField(w, "display", r.Display)
	writeField(w, "display_local", r.DisplayLocal)
	writeField(w, "composited", r.Composited)
	writeField(w, "probed", formatList(r.Probed))
	if len(r.Overrides) > 0 {
		writeField(w, "overrides", strings.Join(r.Overrides, ","))
	}
	writeField(w, "effective", formatList(r.Effective))
	writeField(w, "strategy", r.Strategy)
	writeField(w, "fullscreen_layer", r.Layer)
	writeField(w, "screen", formatScreen(r.ScreenIndex, r.Screen))
}

func formatScreen(index int, bounds platform.Rect) string {
	rect := formatRect(bounds.X, bounds.Y, bounds.Width, bounds.Height)
	if index < 0 {
		return rect + dimStyle.Render(" (root)")
	}
	return fmt.Sprintf("%d %s", index, rect)
}

func writeStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintln(w, headerStyle.Render("Window"))
	writeField(w, "window", fmt.Sprintf("0x%x", s.Window))
	writeField(w, "state", s.State)
	writeField(w, "fullscreen", s.Fullscreen)
	writeField(w, "ontop", s.OnTop)
	writeField(w, "border", s.Border)
	writeField(w, "geometry", formatRect(s.Geometry.X, s.Geometry.Y, s.Geometry.Width, s.Geometry.Height))
	writeField(w, "screen", s.Screen)
	writeField(w, "pending_completions", s.PendingCompletions)
	writeField(w, "uptime_seconds", s.UptimeSeconds)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Window manager"))
	writeField(w, "display", s.Display)
	writeField(w, "display_local", s.DisplayLocal)
	writeField(w, "composited", s.Composited)
	writeField(w, "probed", formatList(s.Probed))
	writeField(w, "effective", formatList(s.Capabilities))
	writeField(w, "strategy", s.Strategy)
}

func writeScreens(w io.Writer, data *ipc.ScreensData) {
	if len(data.Screens) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no screens reported"))
		return
	}
	for _, s := range data.Screens {
		marker := " "
		if s.ID == data.Selected {
			marker = headerStyle.Render("*")
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("screen-%d", s.ID)
		}
		fmt.Fprintf(w, "%s %d  %s  %s\n", marker, s.ID,
			labelStyle.Render(name), formatRect(s.X, s.Y, s.Width, s.Height))
	}
}
