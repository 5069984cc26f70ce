package vo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/1broseidon/vowin/internal/platform"
)

// Modifier is a set of keyboard modifiers held during a key or button event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

var modifierNames = []struct {
	mod  Modifier
	name string
}{
	{ModShift, "Shift"},
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModMeta, "Meta"},
}

// Key is a decoded key or mouse button.
type Key struct {
	// Name is the printable character for text keys, or a symbolic name
	// such as "ESC", "F5" or "MOUSE_BTN0".
	Name string
	Mods Modifier
}

// String formats the key as "Shift-Ctrl-f".
func (k Key) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if k.Mods&mn.mod != 0 {
			parts = append(parts, mn.name)
		}
	}
	parts = append(parts, k.Name)
	return strings.Join(parts, "-")
}

// MouseButton returns the key name of a 1-based server button number.
func MouseButton(button int) string {
	return fmt.Sprintf("MOUSE_BTN%d", button-1)
}

func modifiersFromState(state uint16) Modifier {
	var m Modifier
	if state&platform.ModShift != 0 {
		m |= ModShift
	}
	if state&platform.ModControl != 0 {
		m |= ModCtrl
	}
	if state&platform.Mod1 != 0 {
		m |= ModAlt
	}
	if state&platform.Mod4 != 0 {
		m |= ModMeta
	}
	return m
}

const passthroughKeys = " -+*/<>`~!@#$%^&()_{}:;\"',.?\\|=[]"

// keymap maps keysym names to key names. Aliases that share a keysym
// value are listed separately since lookups may return either.
var keymap = map[string]string{
	"Pause":     "PAUSE",
	"Escape":    "ESC",
	"BackSpace": "BS",
	"Tab":       "TAB",
	"Return":    "ENTER",
	"Menu":      "MENU",
	"Print":     "PRINT",

	"Left":  "LEFT",
	"Right": "RIGHT",
	"Up":    "UP",
	"Down":  "DOWN",

	"Insert":    "INS",
	"Delete":    "DEL",
	"Home":      "HOME",
	"End":       "END",
	"Page_Up":   "PGUP",
	"Prior":     "PGUP",
	"Page_Down": "PGDWN",
	"Next":      "PGDWN",

	"F1":  "F1",
	"F2":  "F2",
	"F3":  "F3",
	"F4":  "F4",
	"F5":  "F5",
	"F6":  "F6",
	"F7":  "F7",
	"F8":  "F8",
	"F9":  "F9",
	"F10": "F10",
	"F11": "F11",
	"F12": "F12",

	// keypad, independent of num lock
	"KP_Subtract": "-",
	"KP_Add":      "+",
	"KP_Multiply": "*",
	"KP_Divide":   "/",
	"KP_Enter":    "KP_ENTER",

	// keypad with num lock
	"KP_0":         "KP0",
	"KP_1":         "KP1",
	"KP_2":         "KP2",
	"KP_3":         "KP3",
	"KP_4":         "KP4",
	"KP_5":         "KP5",
	"KP_6":         "KP6",
	"KP_7":         "KP7",
	"KP_8":         "KP8",
	"KP_9":         "KP9",
	"KP_Decimal":   "KP_DEC",
	"KP_Separator": "KP_DEC",

	// keypad without num lock
	"KP_Insert":    "KP_INS",
	"KP_End":       "KP1",
	"KP_Down":      "KP2",
	"KP_Page_Down": "KP3",
	"KP_Next":      "KP3",
	"KP_Left":      "KP4",
	"KP_Begin":     "KP5",
	"KP_Right":     "KP6",
	"KP_Home":      "KP7",
	"KP_Up":        "KP8",
	"KP_Page_Up":   "KP9",
	"KP_Prior":     "KP9",
	"KP_Delete":    "KP_DEL",

	"XF86MenuKB":           "MENU",
	"XF86AudioPlay":        "PLAY",
	"XF86AudioPause":       "PAUSE",
	"XF86AudioStop":        "STOP",
	"XF86AudioPrev":        "PREV",
	"XF86AudioNext":        "NEXT",
	"XF86AudioMute":        "MUTE",
	"XF86AudioLowerVolume": "VOLUME_DOWN",
	"XF86AudioRaiseVolume": "VOLUME_UP",
}

// lookupKey maps a keysym name to a key name. Letters, digits and the
// common punctuation pass through unchanged.
// KeyName maps a keysym name such as "Escape" or "f" to the key name
// reported in events.
func KeyName(keysym string) (string, bool) { return lookupKey(keysym) }

var keyNames = func() map[string]bool {
	names := make(map[string]bool, len(keymap))
	for _, name := range keymap {
		names[name] = true
	}
	return names
}()

// IsKeyName reports whether name is a symbolic key name events can carry,
// such as "ESC" or "MOUSE_BTN2".
func IsKeyName(name string) bool {
	if n, found := strings.CutPrefix(name, "MOUSE_BTN"); found {
		_, err := strconv.Atoi(n)
		return err == nil
	}
	return keyNames[name]
}

func lookupKey(keysym string) (string, bool) {
	if r, size := utf8.DecodeRuneInString(keysym); size == len(keysym) && size > 0 {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return keysym, true
		case r < 256 && strings.ContainsRune(passthroughKeys, r):
			return keysym, true
		}
	}
	name, ok := keymap[keysym]
	return name, ok
}

// decodeKey turns a key press into a Key. With an input context the
// keysym honours the modifier state and unmapped keys fall back to the
// text they produce; without one only mapped keys are reported.
func (s *Session) decodeKey(keycode uint8, state uint16) (Key, bool) {
	mods := modifiersFromState(state)
	if s.ic != nil {
		keysym, text := s.ic.Lookup(keycode, state)
		if name, ok := lookupKey(keysym); ok {
			return Key{Name: name, Mods: mods}, true
		}
		if text != "" {
			return Key{Name: text, Mods: mods}, true
		}
		return Key{}, false
	}
	if name, ok := lookupKey(s.backend.BaseKeysym(keycode)); ok {
		return Key{Name: name, Mods: mods}, true
	}
	return Key{}, false
}
