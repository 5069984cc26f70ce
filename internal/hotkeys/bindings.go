package hotkeys

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/1broseidon/vowin/internal/vo"
)

// Action is something a key binding can trigger.
type Action string

const (
	ActionFullscreen Action = "fullscreen"
	ActionOnTop      Action = "ontop"
	ActionBorder     Action = "border"
	ActionQuit       Action = "quit"
)

var knownActions = map[Action]struct{}{
	ActionFullscreen: {},
	ActionOnTop:      {},
	ActionBorder:     {},
	ActionQuit:       {},
}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownActions[a]; !ok {
		return "", fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// DefaultBindings returns the bindings used when none are configured.
func DefaultBindings() map[string]string {
	return map[string]string{
		"f":      string(ActionFullscreen),
		"T":      string(ActionOnTop),
		"b":      string(ActionBorder),
		"q":      string(ActionQuit),
		"Escape": string(ActionQuit),
	}
}

var modifierByName = map[string]vo.Modifier{
	"shift":   vo.ModShift,
	"ctrl":    vo.ModCtrl,
	"control": vo.ModCtrl,
	"alt":     vo.ModAlt,
	"mod1":    vo.ModAlt,
	"meta":    vo.ModMeta,
	"super":   vo.ModMeta,
	"mod4":    vo.ModMeta,
}

// ParseKey parses a key sequence such as "Ctrl-f", "shift+Escape" or
// "Ctrl--". The last element is a keysym name ("Escape", "Page_Down") or a
// key name as reported in events ("ESC", "MOUSE_BTN0").
func ParseKey(seq string) (vo.Key, error) {
	rest := strings.TrimSpace(seq)
	if rest == "" {
		return vo.Key{}, fmt.Errorf("key sequence is empty")
	}

	var mods vo.Modifier
	for {
		i := strings.IndexAny(rest, "-+")
		if i <= 0 || i == len(rest)-1 {
			break
		}
		m, ok := modifierByName[strings.ToLower(rest[:i])]
		if !ok {
			return vo.Key{}, fmt.Errorf("unknown modifier %q in %q", rest[:i], seq)
		}
		mods |= m
		rest = rest[i+1:]
	}

	name, ok := vo.KeyName(rest)
	if !ok {
		if !vo.IsKeyName(rest) {
			return vo.Key{}, fmt.Errorf("unknown key %q in %q", rest, seq)
		}
		name = rest
	}
	if mods&vo.ModShift != 0 && len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
		name = strings.ToUpper(name)
	}
	return normalize(vo.Key{Name: name, Mods: mods}), nil
}

// normalize drops Shift from single-character keys, whose character
// already reflects it.
func normalize(k vo.Key) vo.Key {
	if utf8.RuneCountInString(k.Name) == 1 {
		k.Mods &^= vo.ModShift
	}
	return k
}

// Binding is one entry of a Table.
type Binding struct {
	Key    vo.Key
	Action Action
}

// Table maps decoded keys to actions.
type Table struct {
	bindings map[vo.Key]Action
}

// NewTable parses a key sequence to action map. Two sequences that decode
// to the same key are an error.
func NewTable(bindings map[string]string) (*Table, error) {
	seqs := make([]string, 0, len(bindings))
	for seq := range bindings {
		seqs = append(seqs, seq)
	}
	sort.Strings(seqs)

	t := &Table{bindings: make(map[vo.Key]Action, len(bindings))}
	for _, seq := range seqs {
		key, err := ParseKey(seq)
		if err != nil {
			return nil, err
		}
		action, err := ParseAction(bindings[seq])
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", seq, err)
		}
		if _, dup := t.bindings[key]; dup {
			return nil, fmt.Errorf("binding %q: key %s is bound twice", seq, key)
		}
		t.bindings[key] = action
	}
	return t, nil
}

// Lookup returns the action bound to k.
func (t *Table) Lookup(k vo.Key) (Action, bool) {
	if t == nil {
		return "", false
	}
	a, ok := t.bindings[normalize(k)]
	return a, ok
}

// Bindings lists the table sorted by key.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, 0, len(t.bindings))
	for k, a := range t.bindings {
		out = append(out, Binding{Key: k, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}
