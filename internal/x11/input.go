package x11

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// LookupKey resolves a key event to a keysym name using the full modifier
// state, so shifted and caps-locked symbols are honoured. Text is set when
// the key produces a single character.
func (c *Connection) LookupKey(keycode xproto.Keycode, state uint16) (keysym, text string) {
	keysym = keybind.LookupString(c.XUtil, state, keycode)
	if utf8.RuneCountInString(keysym) == 1 {
		text = keysym
	}
	return keysym, text
}

// BaseKeysym returns the unshifted keysym name for a keycode.
func (c *Connection) BaseKeysym(keycode xproto.Keycode) string {
	return keybind.KeysymToStr(keybind.KeysymGet(c.XUtil, keycode, 0))
}

// RefreshKeyboardMapping reloads the keyboard and modifier maps after a
// MappingNotify.
func (c *Connection) RefreshKeyboardMapping() {
	keyMap, modMap := keybind.MapsGet(c.XUtil)
	keybind.KeyMapSet(c.XUtil, keyMap)
	keybind.ModMapSet(c.XUtil, modMap)
}
