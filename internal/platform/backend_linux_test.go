//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/vowin/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

func TestEventMask(t *testing.T) {
	full := eventMask(InputFull)
	for _, bit := range []int{
		xproto.EventMaskStructureNotify,
		xproto.EventMaskExposure,
		xproto.EventMaskKeyPress,
		xproto.EventMaskPointerMotion,
		xproto.EventMaskButtonPress,
		xproto.EventMaskButtonRelease,
	} {
		if full&bit == 0 {
			t.Fatalf("expected full mask to include 0x%x, got 0x%x", bit, full)
		}
	}

	noButtons := eventMask(InputFull &^ InputButtons)
	if noButtons&(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease) != 0 {
		t.Fatalf("expected button events dropped, got 0x%x", noButtons)
	}
	if got := eventMask(InputExposure); got != xproto.EventMaskExposure {
		t.Fatalf("expected exposure only, got 0x%x", got)
	}
}

func TestTranslate(t *testing.T) {
	b := &LinuxBackend{}

	ev := b.translate(xproto.ConfigureNotifyEvent{Window: 7, X: 10, Y: 20, Width: 640, Height: 480})
	if ev.Kind != EventConfigure || ev.Window != 7 || ev.Width != 640 || ev.Y != 20 {
		t.Fatalf("unexpected configure translation %+v", ev)
	}

	ev = b.translate(xproto.KeyPressEvent{Event: 7, Detail: 41, State: xproto.ModMaskControl})
	if ev.Kind != EventKeyPress || ev.Keycode != 41 || ev.State&ModControl == 0 {
		t.Fatalf("unexpected key translation %+v", ev)
	}

	ev = b.translate(xproto.ButtonReleaseEvent{Event: 7, Detail: 3})
	if ev.Kind != EventButtonRelease || ev.Button != 3 {
		t.Fatalf("unexpected button translation %+v", ev)
	}

	if ev := b.translate(xproto.MappingNotifyEvent{}); ev.Kind != EventMappingChanged {
		t.Fatalf("expected mapping change, got %+v", ev)
	}
	if ev := b.translate(xproto.PropertyNotifyEvent{}); ev.Kind != EventOther {
		t.Fatalf("expected other, got %+v", ev)
	}
}

func TestDisplaysFromMonitors(t *testing.T) {
	monitors := []x11.Monitor{
		{ID: 1, Name: "HDMI-1", X: 1920, Width: 1280, Height: 1024},
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080},
	}

	got := displaysFromMonitors(monitors, true)
	if len(got) != 2 || got[0].Name != "DP-1" || got[1].Bounds.X != 1920 {
		t.Fatalf("unexpected sorted displays %+v", got)
	}

	got = displaysFromMonitors(monitors, false)
	if got[0].Name != "HDMI-1" {
		t.Fatalf("expected server order kept, got %+v", got)
	}
}
