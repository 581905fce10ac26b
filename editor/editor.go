package editor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/libdiff"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
	"github.com/signadot/richtext/tracking"
)

// Editor owns one document and applies edits to it through a pipeline.
// It is not safe for concurrent use: all calls must come from the single
// goroutine driving the editing session.
type Editor struct {
	id       string
	root     *ir.Node
	sel      *selection
	pending  []ir.Mark
	pipeline *Pipeline
	norm     *normalize.Normalizer
	log      zerolog.Logger
	onChange []func(value *ir.Node)
	tracker  tracking.Handler
	inTx     bool
}

type options struct {
	id       string
	log      zerolog.Logger
	onChange []func(*ir.Node)
	perNode  int
	tracker  tracking.Handler
}

type Option func(*options)

func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOnChange registers f to receive the external value after every
// committed change.
func WithOnChange(f func(value *ir.Node)) Option {
	return func(o *options) { o.onChange = append(o.onChange, f) }
}

// WithMaxIterations sets the normalizer's rewrite bound per node.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.perNode = n }
}

// WithTracker installs a tracking handler. Units may replace it from
// their Init.
func WithTracker(h tracking.Handler) Option {
	return func(o *options) { o.tracker = h }
}

// New returns an editor holding value normalized against the pipeline.
// A nil value starts from the empty document. The cursor starts at the
// beginning of the document.
func New(value *ir.Node, p *Pipeline, opts ...Option) (*Editor, error) {
	o := &options{log: zerolog.Nop(), perNode: normalize.DefaultMaxIterationsPerNode}
	for _, f := range opts {
		f(o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if value == nil {
		value = ir.EmptyDocument()
	}
	if value.Type != ir.DocumentType {
		return nil, fmt.Errorf("editor value must be a %s, got %s", ir.DocumentType, value.Type)
	}
	e := &Editor{
		id:       o.id,
		pipeline: p,
		norm:     normalize.New(p.Schema(), p.Rules(), normalize.WithMaxIterationsPerNode(o.perNode)),
		log:      o.log.With().Str("editor", o.id).Logger(),
		onChange: o.onChange,
		tracker:  o.tracker,
		sel:      &selection{},
	}
	root, stats, err := e.norm.Normalize(value)
	if err != nil {
		return nil, fmt.Errorf("normalizing initial value: %w", err)
	}
	e.root = root
	if !stats.Normalized() {
		e.log.Debug().Int("rewrites", stats.Rewrites).Msg("initial value normalized")
	}
	for _, u := range p.units {
		if u.Init == nil {
			continue
		}
		if err := u.Init(e); err != nil {
			return nil, fmt.Errorf("init %s: %w", u.Key, err)
		}
	}
	return e, nil
}

func (e *Editor) ID() string { return e.id }

func (e *Editor) Logger() zerolog.Logger { return e.log }

func (e *Editor) Pipeline() *Pipeline { return e.pipeline }

func (e *Editor) Schema() *schema.Schema { return e.pipeline.Schema() }

func (e *Editor) Normalizer() *normalize.Normalizer { return e.norm }

// SetTracker replaces the tracking handler.
func (e *Editor) SetTracker(h tracking.Handler) { e.tracker = h }

// Root returns a copy of the document tree.
func (e *Editor) Root() *ir.Node { return e.root.Clone() }

// Value returns a copy of the external value: nil for the empty document.
func (e *Editor) Value() *ir.Node { return ir.Value(e.root.Clone()) }

// Selection returns the selection resolved against the document.
func (e *Editor) Selection() (ir.Range, bool) {
	if e.sel == nil {
		return ir.Range{}, false
	}
	return e.sel.resolve(e.root)
}

// SelectionLocs returns the selection anchor and focus as Locs.
func (e *Editor) SelectionLocs() (anchor, focus Loc, ok bool) {
	if e.sel == nil {
		return Loc{}, Loc{}, false
	}
	return e.sel.anchor, e.sel.focus, true
}

// Snapshot returns a transaction over a copy of the document that is never
// committed. It is used to inspect the document with the Tx helpers.
func (e *Editor) Snapshot() *Tx {
	return &Tx{Name: "snapshot", Root: e.root.Clone(), ed: e, sel: e.cloneSel(), pending: e.pending}
}

func (e *Editor) cloneSel() *selection {
	if e.sel == nil {
		return nil
	}
	s := *e.sel
	return &s
}

// Apply runs f on a copy of the document, normalizes the result and
// commits it. If f fails or normalization does not converge nothing is
// committed. It reports whether the external value changed.
func (e *Editor) Apply(name string, f func(tx *Tx) error) (bool, error) {
	if e.inTx {
		return false, fmt.Errorf("%s: %w", name, ErrNestedApply)
	}
	e.inTx = true
	defer func() { e.inTx = false }()

	tx := &Tx{Name: name, Root: e.root.Clone(), ed: e, sel: e.cloneSel(), pending: e.pending}
	if err := f(tx); err != nil {
		return false, err
	}
	stats, err := e.norm.Run(tx.Root)
	if err != nil {
		e.log.Error().Err(err).Str("tx", name).Msg("normalization aborted, change discarded")
		return false, fmt.Errorf("%s: %w", name, err)
	}
	before := e.root
	changed := ir.FingerprintOf(before) != ir.FingerprintOf(tx.Root)
	e.root, e.sel, e.pending = tx.Root, tx.sel, tx.pending
	e.log.Debug().
		Str("tx", name).
		Int("rewrites", stats.Rewrites).
		Bool("changed", changed).
		Msg("apply")
	if debug.Edit() {
		debug.Logf("edit %s: %s\n", name, e.root)
	}
	if !changed {
		return false, nil
	}
	if len(tx.events) != 0 && e.tracker != nil {
		patch, err := libdiff.MergePatch(before, e.root)
		if err != nil {
			e.log.Warn().Err(err).Str("tx", name).Msg("tracking patch")
		}
		for _, ev := range tx.events {
			ev.Payload.EditorID = e.id
			ev.Payload.Patch = patch
			e.tracker.Notify(ev.Action, ev.Payload)
		}
	}
	value := e.Value()
	for _, cb := range e.onChange {
		cb(value)
	}
	return true, nil
}

// Track sends a notification right away, outside any transaction.
func (e *Editor) Track(a tracking.Action, p tracking.Payload) {
	if e.tracker == nil {
		return
	}
	p.EditorID = e.id
	e.tracker.Notify(a, p)
}

// Select sets the selection. Selecting never changes the document.
func (e *Editor) Select(r ir.Range) error {
	s, err := locateRange(e.root, r)
	if err != nil {
		return err
	}
	e.sel, e.pending = s, nil
	return nil
}

// SelectLoc selects between two block offsets.
func (e *Editor) SelectLoc(anchor, focus Loc) {
	e.sel = &selection{anchor: anchor, focus: focus}
	e.sel.orient()
	e.pending = nil
}

func (e *Editor) SelectAll() {
	tx := e.Snapshot()
	tx.SelectAll()
	e.sel, e.pending = tx.sel, nil
}

func (e *Editor) Deselect() {
	e.sel, e.pending = nil, nil
}

// SelectedText returns the text under the selection.
func (e *Editor) SelectedText() string {
	return e.Snapshot().SelectedText()
}

func (e *Editor) InsertText(s string) error {
	_, err := e.Apply("insert_text", func(tx *Tx) error { return tx.InsertText(s) })
	return err
}

func (e *Editor) DeleteBackward() error {
	_, err := e.Apply("delete_backward", func(tx *Tx) error { return tx.DeleteBackward() })
	return err
}

func (e *Editor) DeleteFragment() error {
	_, err := e.Apply("delete_fragment", func(tx *Tx) error { return tx.DeleteFragment() })
	return err
}

func (e *Editor) InsertBreak() error {
	_, err := e.Apply("insert_break", func(tx *Tx) error { return tx.InsertBreak() })
	return err
}

func (e *Editor) InsertFragment(nodes ...*ir.Node) error {
	_, err := e.Apply("insert_fragment", func(tx *Tx) error { return tx.InsertFragment(nodes) })
	return err
}

// ToggleMark toggles mark m on the selection and reports whether it was
// added.
func (e *Editor) ToggleMark(m string) (bool, error) {
	var added bool
	_, err := e.Apply("toggle_mark", func(tx *Tx) error {
		added = tx.ToggleMark(m)
		return nil
	})
	return added, err
}

func (e *Editor) SetBlockType(t ir.NodeType) error {
	_, err := e.Apply("set_block_type", func(tx *Tx) error {
		tx.SetBlockType(t)
		return nil
	})
	return err
}

func (e *Editor) MoveBlock(from, to int) error {
	_, err := e.Apply("move_block", func(tx *Tx) error {
		tx.MoveBlock(from, to)
		return nil
	})
	return err
}

// ActiveMarks returns the marks the next inserted text would carry.
func (e *Editor) ActiveMarks() []string {
	var res []string
	for _, m := range e.Snapshot().ActiveMarks() {
		res = append(res, m.Type)
	}
	return res
}

// Exec runs a registered command.
func (e *Editor) Exec(name, arg string) error {
	c, ok := e.pipeline.Command(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if debug.Pipeline() {
		debug.Logf("exec %s(%q)\n", name, arg)
	}
	return c(e, arg)
}

// Toolbar lists the toolbar items of all units in pipeline order.
func (e *Editor) Toolbar() []ToolbarItem {
	return e.pipeline.Toolbar()
}

// HandleKey offers ev to each unit's key handler in pipeline order, then
// falls back to the default behaviour of the key. It reports whether the
// key was handled.
func (e *Editor) HandleKey(ev KeyEvent) (bool, error) {
	for _, u := range e.pipeline.units {
		if u.Keys == nil {
			continue
		}
		handled, err := u.Keys.HandleKey(e, ev)
		if err != nil {
			return true, fmt.Errorf("%s: key %s: %w", u.Key, ev, err)
		}
		if handled {
			if debug.Pipeline() {
				debug.Logf("key %s handled by %s\n", ev, u.Key)
			}
			return true, nil
		}
	}
	return e.defaultKey(ev)
}

func (e *Editor) defaultKey(ev KeyEvent) (bool, error) {
	switch {
	case ev.Is("Backspace"):
		return true, e.DeleteBackward()
	case ev.Is("Enter"):
		return true, e.InsertBreak()
	case ev.Is("mod+a"):
		e.SelectAll()
		return true, nil
	case ev.Printable():
		return true, e.InsertText(ev.Key)
	}
	return false, nil
}

// Paste offers dt to each unit's paste handler in pipeline order. Without
// a taker, text/plain content is inserted line by line.
func (e *Editor) Paste(dt DataTransfer) (bool, error) {
	for _, u := range e.pipeline.units {
		if u.Paste == nil {
			continue
		}
		handled, err := u.Paste.HandlePaste(e, dt)
		if err != nil {
			return true, fmt.Errorf("%s: paste: %w", u.Key, err)
		}
		if handled {
			return true, nil
		}
	}
	txt, ok := dt.Get("text/plain")
	if !ok {
		return false, nil
	}
	_, err := e.Apply("paste_text", func(tx *Tx) error {
		for i, line := range strings.Split(txt, "\n") {
			if i > 0 {
				if err := tx.InsertBreak(); err != nil {
					return err
				}
			}
			if err := tx.InsertText(line); err != nil {
				return err
			}
		}
		tx.Track(tracking.Paste, tracking.Payload{Data: map[string]any{"mime": "text/plain"}})
		return nil
	})
	return true, err
}

// Drop offers ev to each unit's drop handler in pipeline order. Drops no
// unit takes are ignored.
func (e *Editor) Drop(ev DropEvent) (bool, error) {
	for _, u := range e.pipeline.units {
		if u.Drop == nil {
			continue
		}
		handled, err := u.Drop.HandleDrop(e, ev)
		if err != nil {
			return true, fmt.Errorf("%s: drop: %w", u.Key, err)
		}
		if handled {
			return true, nil
		}
	}
	return false, nil
}

// Units returns the pipeline's unit keys in order.
func (e *Editor) Units() []string {
	return e.pipeline.Keys()
}
