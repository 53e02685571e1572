// Package hotkey registers a global key combination that works while the
// terminal is unfocused, so a recording can be triggered from anywhere.
package hotkey

import (
	"fmt"
	"strings"
)

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Combo is a parsed key combination: modifiers plus one terminal key.
type Combo struct {
	Ctrl  bool
	Shift bool
	Key   string
}

// DefaultCombo is used when no -hotkey flag is given.
const DefaultCombo = "ctrl+shift+space"

var comboKeys = map[string]bool{
	"space": true,
	"r":     true,
	"m":     true,
}

// ParseCombo parses strings like "ctrl+shift+space". The last token is the
// key; everything before it must be a modifier. At least one modifier is
// required so a bare key cannot swallow normal typing.
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) < 2 {
		return Combo{}, fmt.Errorf("hotkey %q needs at least one modifier (e.g. %s)", s, DefaultCombo)
	}
	var c Combo
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		default:
			return Combo{}, fmt.Errorf("unknown modifier %q in hotkey %q", mod, s)
		}
	}
	c.Key = parts[len(parts)-1]
	if !comboKeys[c.Key] {
		return Combo{}, fmt.Errorf("unsupported hotkey key %q (supported: space, r, m)", c.Key)
	}
	return c, nil
}

func (c Combo) String() string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteString("ctrl+")
	}
	if c.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}
