package links

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/tracking"
)

var (
	ErrNoForm       = errors.New("no link form is open")
	ErrCannotSubmit = errors.New("link form is incomplete")
	ErrStaleForm    = errors.New("link form no longer matches the document")
	ErrNotBound     = errors.New("link manager is not bound to an editor")
	ErrEmptyURI     = errors.New("empty uri")
	ErrInvalidLink  = errors.New("invalid link")
	ErrNoPicker     = errors.New("no reference picker configured")
)

// Types are the link inline types in the order they are offered.
var Types = []ir.NodeType{ir.HyperlinkType, ir.EntryHyperlinkType, ir.AssetHyperlinkType}

type Options struct {
	// AllowedTypes restricts the link types; empty means Types.
	AllowedTypes []ir.NodeType
	Picker       Picker
	// ValidateURI checks a non-empty hyperlink uri before submit.
	ValidateURI func(uri string) error
}

// Manager drives the link lifecycle of one editor: opening the link form
// for a selection, submitting it, converting and removing links. Like the
// editor it must only be used from the editing goroutine; only the
// picker runs elsewhere.
type Manager struct {
	ed      *editor.Editor
	allowed []ir.NodeType
	picker  Picker
	uri     func(string) error

	form *Form
	gen  uint64
}

func NewManager(o Options) *Manager {
	allowed := slices.Clone(o.AllowedTypes)
	if len(allowed) == 0 {
		allowed = slices.Clone(Types)
	}
	return &Manager{allowed: allowed, picker: o.Picker, uri: o.ValidateURI}
}

// Bind attaches the manager to e. Plugin does this from the unit's Init.
func (m *Manager) Bind(e *editor.Editor) { m.ed = e }

func (m *Manager) AllowedTypes() []ir.NodeType { return slices.Clone(m.allowed) }

// Form returns the open form, or nil.
func (m *Manager) Form() *Form { return m.form }

// CheckData reports why d is not valid data for a link of type t.
func CheckData(t ir.NodeType, d ir.Data) error {
	switch {
	case !t.IsLink():
		return fmt.Errorf("%w: %s is not a link type", ErrInvalidLink, t)
	case t.IsEntityLink():
		if !d.Target.Valid() {
			return fmt.Errorf("%w: %s without a target", ErrInvalidLink, t)
		}
		if d.Target.Sys.LinkType != ir.LinkTypeOf(t) {
			return fmt.Errorf("%w: %s targets a %s", ErrInvalidLink, t, d.Target.Sys.LinkType)
		}
	case d.URI == "":
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrEmptyURI)
	}
	return nil
}

// linksInRange returns the paths of the link inlines the selection touches.
func linksInRange(tx *editor.Tx) []ir.Path {
	return slices.DeleteFunc(tx.RangeInlines(), func(p ir.Path) bool {
		return !ir.Get(tx.Root, p).Type.IsLink()
	})
}

// coversEmbed reports whether the selection touches an inline that is
// not a link. Links cannot hold those.
func coversEmbed(tx *editor.Tx) bool {
	return slices.ContainsFunc(tx.RangeInlines(), func(p ir.Path) bool {
		return !ir.Get(tx.Root, p).Type.IsLink()
	})
}

func (m *Manager) newForm(mode Mode, origin string) *Form {
	m.gen++
	return &Form{
		Mode:         mode,
		AllowedTypes: slices.Clone(m.allowed),
		origin:       origin,
		gen:          m.gen,
		validURI:     m.uri,
	}
}

// Open opens the form for the current selection. Inside or over a single
// link it edits that link; over plain text within one block it creates a
// link labelled with the selected text. A selection spanning several
// links or blocks, or touching an embedded inline, opens nothing.
func (m *Manager) Open(origin string) *Form {
	if m.ed == nil {
		return nil
	}
	tx := m.ed.Snapshot()
	start, end, ok := tx.Locs()
	if !ok {
		return nil
	}
	if coversEmbed(tx) {
		return nil
	}
	ls := linksInRange(tx)
	switch {
	case len(ls) > 1:
		return nil
	case len(ls) == 1:
		return m.Edit(ls[0], origin)
	case start.Block != end.Block:
		return nil
	}
	f := m.newForm(ModeCreate, origin)
	f.Type = f.AllowedTypes[0]
	f.Text = tx.SelectedText()
	f.ShowText = true
	f.anchor, f.focus, f.hasSel = start, end, true
	m.form = f
	if debug.Links() {
		debug.Logf("links: open create %q at %s-%s\n", f.Text, start, end)
	}
	return f
}

// Edit opens the form for the link at path. The label is not editable.
func (m *Manager) Edit(path ir.Path, origin string) *Form {
	if m.ed == nil {
		return nil
	}
	n := ir.Get(m.ed.Root(), path)
	if n == nil || !n.Type.IsLink() {
		return nil
	}
	f := m.newForm(ModeEdit, origin)
	f.Type = n.Type
	f.from = n.Type
	f.Text = n.Text()
	f.path = path.Clone()
	if n.Type.IsEntityLink() {
		f.Target = n.Data.Target.Clone()
	} else {
		f.URI = n.Data.URI
	}
	m.form = f
	if debug.Links() {
		debug.Logf("links: open edit %s at %s\n", n.Type, path)
	}
	return f
}

// Toggle removes every link the selection touches, or opens the form
// when there are none.
func (m *Manager) Toggle(origin string) (*Form, error) {
	if m.ed == nil {
		return nil, ErrNotBound
	}
	ls := linksInRange(m.ed.Snapshot())
	if len(ls) == 0 {
		return m.Open(origin), nil
	}
	_, err := m.ed.Apply("link_remove", func(tx *editor.Tx) error {
		// deepest and last first so earlier paths stay valid
		slices.SortFunc(ls, func(a, b ir.Path) int { return b.Compare(a) })
		for _, p := range ls {
			t := ir.Get(tx.Root, p).Type
			if tx.UnwrapNode(p) {
				tx.Track(tracking.Remove, tracking.Payload{Origin: origin, NodeType: t})
			}
		}
		return nil
	})
	return nil, err
}

// Cancel closes the form. Picks still in flight are discarded.
func (m *Manager) Cancel() {
	m.form = nil
	m.gen++
}

// Submit applies the open form to the document and closes it. It
// reports ErrCannotSubmit, leaving the form open, when the form is
// incomplete.
func (m *Manager) Submit() error {
	if m.ed == nil {
		return ErrNotBound
	}
	f := m.form
	if f == nil {
		return ErrNoForm
	}
	if !f.CanSubmit() {
		return ErrCannotSubmit
	}
	var err error
	switch f.Mode {
	case ModeCreate:
		_, err = m.ed.Apply("link_insert", func(tx *editor.Tx) error {
			return m.insert(tx, f)
		})
	case ModeEdit:
		_, err = m.ed.Apply("link_edit", func(tx *editor.Tx) error {
			return m.update(tx, f)
		})
	}
	if err != nil && !errors.Is(err, ErrStaleForm) {
		return err
	}
	m.Cancel()
	return err
}

func (m *Manager) insert(tx *editor.Tx, f *Form) error {
	if f.hasSel {
		tx.SelectLoc(f.anchor, f.focus)
	}
	if coversEmbed(tx) {
		return ErrStaleForm
	}
	el := ir.Element(f.Type, f.Data())
	wrapped := false
	if !tx.Collapsed() && tx.SelectedText() == f.Text {
		wrapped = tx.WrapInline(el)
	}
	if !wrapped {
		el.Content = []*ir.Node{ir.Text(f.Text)}
		if err := tx.InsertFragment([]*ir.Node{el}); err != nil {
			return err
		}
	}
	tx.Track(tracking.Insert, tracking.Payload{Origin: f.origin, NodeType: f.Type, Data: payloadData(f.Type, el.Data)})
	return nil
}

func (m *Manager) update(tx *editor.Tx, f *Form) error {
	n := ir.Get(tx.Root, f.path)
	if n == nil || n.Type != f.from || n.Text() != f.Text {
		return ErrStaleForm
	}
	data := f.Data()
	tx.SetNode(f.path, f.Type, data)
	p := tracking.Payload{Origin: f.origin, NodeType: f.Type, Data: payloadData(f.Type, data)}
	if f.Type != f.from {
		p.From = f.from
		tx.Track(tracking.Convert, p)
		return nil
	}
	tx.Track(tracking.Edit, p)
	return nil
}

// Convert changes the link at path to type t with data, keeping its
// label. It reports whether the document changed.
func (m *Manager) Convert(path ir.Path, t ir.NodeType, data ir.Data) (bool, error) {
	if m.ed == nil {
		return false, ErrNotBound
	}
	if !slices.Contains(m.allowed, t) {
		return false, fmt.Errorf("%w: %s is not enabled", ErrInvalidLink, t)
	}
	if err := CheckData(t, data); err != nil {
		return false, err
	}
	if !t.IsEntityLink() && m.uri != nil {
		if err := m.uri(data.URI); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidLink, err)
		}
	}
	return m.ed.Apply("link_convert", func(tx *editor.Tx) error {
		n := ir.Get(tx.Root, path)
		if n == nil || !n.Type.IsLink() {
			return fmt.Errorf("%w: no link at %s", ErrInvalidLink, path)
		}
		p := tracking.Payload{Origin: tracking.OriginCommand, NodeType: t, Data: payloadData(t, data)}
		action := tracking.Edit
		if n.Type != t {
			action, p.From = tracking.Convert, n.Type
		}
		tx.SetNode(path, t, data.Clone())
		tx.Track(action, p)
		return nil
	})
}

// Remove unwraps the link at path, keeping its label as plain text.
func (m *Manager) Remove(path ir.Path) (bool, error) {
	if m.ed == nil {
		return false, ErrNotBound
	}
	return m.ed.Apply("link_remove", func(tx *editor.Tx) error {
		n := ir.Get(tx.Root, path)
		if n == nil || !n.Type.IsLink() {
			return fmt.Errorf("%w: no link at %s", ErrInvalidLink, path)
		}
		tx.UnwrapNode(path)
		tx.Track(tracking.Remove, tracking.Payload{Origin: tracking.OriginCommand, NodeType: n.Type})
		return nil
	})
}

// RequestTarget starts the picker for the open form's entity link type.
// The picker runs on its own goroutine; hand the result to Resolve from
// the editing goroutine.
func (m *Manager) RequestTarget(ctx context.Context) (*Pending, error) {
	f := m.form
	if f == nil {
		return nil, ErrNoForm
	}
	if m.picker == nil {
		return nil, ErrNoPicker
	}
	lt := f.LinkType()
	if lt == "" {
		return nil, fmt.Errorf("%w: %s has no target", ErrInvalidLink, f.Type)
	}
	p := &Pending{gen: f.gen, linkType: lt, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.link, p.err = m.picker.SelectReference(ctx, lt)
	}()
	return p, nil
}

// Resolve waits for p and stores the picked target in the form it was
// requested for. It reports false when the result was discarded: the
// form was closed or reopened, its link type changed, or the user
// cancelled the picker.
func (m *Manager) Resolve(p *Pending) (bool, error) {
	<-p.done
	f := m.form
	if f == nil || f.gen != p.gen || f.LinkType() != p.linkType {
		if debug.Links() {
			debug.Logf("links: discarding stale %s pick\n", p.linkType)
		}
		return false, nil
	}
	switch {
	case errors.Is(p.err, ErrCancelled):
		return false, nil
	case p.err != nil:
		return false, fmt.Errorf("selecting %s: %w", p.linkType, p.err)
	case !p.link.Valid() || p.link.Sys.LinkType != p.linkType:
		return false, fmt.Errorf("selecting %s: %w: picker returned %+v", p.linkType, ErrInvalidLink, p.link)
	}
	f.Target = p.link.Clone()
	return true, nil
}

// PickTarget runs the picker and waits for its result.
func (m *Manager) PickTarget(ctx context.Context) (bool, error) {
	p, err := m.RequestTarget(ctx)
	if err != nil {
		return false, err
	}
	return m.Resolve(p)
}

func payloadData(t ir.NodeType, d ir.Data) map[string]any {
	if t.IsEntityLink() {
		if d.Target == nil {
			return nil
		}
		return map[string]any{"linkType": d.Target.Sys.LinkType, "id": d.Target.Sys.ID}
	}
	return map[string]any{"uri": d.URI}
}
