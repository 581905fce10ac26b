package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyEvent is a key press. Key is either a named key such as "Enter" or
// "Backspace" or the single character produced by the press.
type KeyEvent struct {
	Key   string
	Mod   bool
	Alt   bool
	Shift bool
}

// ParseKey reads a hotkey string such as "mod+k" or "shift+Enter".
func ParseKey(s string) (KeyEvent, error) {
	var ev KeyEvent
	if s == "" {
		return ev, fmt.Errorf("empty key")
	}
	parts := strings.Split(s, "+")
	for i, p := range parts {
		if i == len(parts)-1 {
			if p == "" {
				return ev, fmt.Errorf("key %q: missing key name", s)
			}
			ev.Key = p
			break
		}
		switch strings.ToLower(p) {
		case "mod", "ctrl", "cmd", "meta":
			ev.Mod = true
		case "alt", "opt":
			ev.Alt = true
		case "shift":
			ev.Shift = true
		default:
			return ev, fmt.Errorf("key %q: unknown modifier %q", s, p)
		}
	}
	return ev, nil
}

// MustParseKey is ParseKey for hotkeys known at compile time.
func MustParseKey(s string) KeyEvent {
	ev, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return ev
}

func (k KeyEvent) String() string {
	var buf strings.Builder
	if k.Mod {
		buf.WriteString("mod+")
	}
	if k.Alt {
		buf.WriteString("alt+")
	}
	if k.Shift {
		buf.WriteString("shift+")
	}
	buf.WriteString(k.Key)
	return buf.String()
}

// Is reports whether k matches hotkey. Single letters compare case
// insensitively.
func (k KeyEvent) Is(hotkey string) bool {
	h, err := ParseKey(hotkey)
	if err != nil {
		return false
	}
	if h.Mod != k.Mod || h.Alt != k.Alt || h.Shift != k.Shift {
		return false
	}
	if utf8.RuneCountInString(h.Key) == 1 {
		return strings.EqualFold(h.Key, k.Key)
	}
	return h.Key == k.Key
}

// Printable reports whether the press inserts its key as text.
func (k KeyEvent) Printable() bool {
	return !k.Mod && !k.Alt && utf8.RuneCountInString(k.Key) == 1
}
