// Package tracking defines the notifications an editor sends for
// semantically meaningful edits.
package tracking

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/signadot/richtext/ir"
)

// Action names a kind of edit.
type Action string

const (
	Insert  Action = "insert"
	Edit    Action = "edit"
	Convert Action = "convert"
	Remove  Action = "remove"
	Mark    Action = "mark"
	Unmark  Action = "unmark"
	Paste   Action = "paste"
)

func (a Action) String() string { return string(a) }

// Payload describes one action. Patch is the JSON merge patch taking the
// document value from before the edit to after it.
type Payload struct {
	EditorID string          `json:"editorId,omitempty"`
	Origin   string          `json:"origin,omitempty"`
	NodeType ir.NodeType     `json:"nodeType,omitempty"`
	From     ir.NodeType     `json:"from,omitempty"`
	Mark     string          `json:"mark,omitempty"`
	Data     map[string]any  `json:"data,omitempty"`
	Patch    json.RawMessage `json:"patch,omitempty"`
}

// Origins of an action.
const (
	OriginShortcut = "shortcut"
	OriginToolbar  = "toolbar"
	OriginViewport = "viewport"
	OriginCommand  = "command"
)

type Handler interface {
	Notify(a Action, p Payload)
}

type HandlerFunc func(a Action, p Payload)

func (f HandlerFunc) Notify(a Action, p Payload) { f(a, p) }

// LogHandler writes every action to a zerolog logger at info level.
type LogHandler struct {
	Log zerolog.Logger
}

func (h *LogHandler) Notify(a Action, p Payload) {
	ev := h.Log.Info().Str("action", a.String())
	if p.EditorID != "" {
		ev = ev.Str("editor", p.EditorID)
	}
	if p.Origin != "" {
		ev = ev.Str("origin", p.Origin)
	}
	if p.NodeType != "" {
		ev = ev.Str("nodeType", p.NodeType.String())
	}
	if p.From != "" {
		ev = ev.Str("from", p.From.String())
	}
	if p.Mark != "" {
		ev = ev.Str("mark", p.Mark)
	}
	if len(p.Patch) != 0 {
		ev = ev.RawJSON("patch", p.Patch)
	}
	ev.Msg("richtext action")
}

// Event is one recorded notification.
type Event struct {
	Action  Action
	Payload Payload
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(a Action, p Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Action: a, Payload: p})
}

// Events returns a copy of what was recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Event, len(r.events))
	copy(res, r.events)
	return res
}

// Actions returns the recorded action kinds in order.
func (r *Recorder) Actions() []Action {
	evs := r.Events()
	res := make([]Action, len(evs))
	for i := range evs {
		res[i] = evs[i].Action
	}
	return res
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi fans a notification out to several handlers in order.
func Multi(hs ...Handler) Handler {
	return HandlerFunc(func(a Action, p Payload) {
		for _, h := range hs {
			if h != nil {
				h.Notify(a, p)
			}
		}
	})
}
