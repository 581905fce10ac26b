package editor

import (
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
)

// Unit is one behaviour of a pipeline. Every field is optional; the
// pipeline only uses the capabilities a unit fills in.
type Unit struct {
	Key      string
	Schema   *schema.Contribution
	Keys     KeyHandler
	Paste    PasteHandler
	Drop     DropHandler
	Rules    []normalize.Rule
	Toolbar  []ToolbarItem
	Commands map[string]Command
	Init     func(e *Editor) error
}

// KeyHandler intercepts key presses. Returning true stops dispatch.
type KeyHandler interface {
	HandleKey(e *Editor, ev KeyEvent) (bool, error)
}

type KeyHandlerFunc func(e *Editor, ev KeyEvent) (bool, error)

func (f KeyHandlerFunc) HandleKey(e *Editor, ev KeyEvent) (bool, error) { return f(e, ev) }

// DataTransfer maps mime types to clipboard contents.
type DataTransfer map[string]string

func (d DataTransfer) Get(mime string) (string, bool) {
	v, ok := d[mime]
	return v, ok
}

// PasteHandler intercepts pasted content. Returning true stops dispatch.
type PasteHandler interface {
	HandlePaste(e *Editor, dt DataTransfer) (bool, error)
}

type PasteHandlerFunc func(e *Editor, dt DataTransfer) (bool, error)

func (f PasteHandlerFunc) HandlePaste(e *Editor, dt DataTransfer) (bool, error) { return f(e, dt) }

// DropEvent moves the node at From so that it ends up at To.
type DropEvent struct {
	From ir.Path
	To   ir.Path
}

// DropHandler intercepts drops. Returning true stops dispatch.
type DropHandler interface {
	HandleDrop(e *Editor, ev DropEvent) (bool, error)
}

type DropHandlerFunc func(e *Editor, ev DropEvent) (bool, error)

func (f DropHandlerFunc) HandleDrop(e *Editor, ev DropEvent) (bool, error) { return f(e, ev) }

// Command is a named editor action, run with Editor.Exec.
type Command func(e *Editor, arg string) error

// ToolbarItem describes a button a host may render for a command.
type ToolbarItem struct {
	Name     string
	Label    string
	Command  string
	Shortcut string
}
