package links

import (
	"slices"
	"strings"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
)

// Mode says whether a form creates a new link or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Form is the state of the link editor between opening and submitting.
// Setters never fail; CanSubmit reports whether the current state is
// complete.
type Form struct {
	Mode     Mode
	Type     ir.NodeType
	Text     string
	ShowText bool
	URI      string
	Target   *ir.Link

	AllowedTypes []ir.NodeType

	origin   string
	gen      uint64
	path     ir.Path
	from     ir.NodeType
	anchor   editor.Loc
	focus    editor.Loc
	hasSel   bool
	validURI func(string) error
}

// SetType switches the link kind. A target of a different entity link
// type is dropped. Types not allowed are ignored.
func (f *Form) SetType(t ir.NodeType) bool {
	if !slices.Contains(f.AllowedTypes, t) {
		return false
	}
	f.Type = t
	if f.Target != nil && f.Target.Sys.LinkType != ir.LinkTypeOf(t) {
		f.Target = nil
	}
	return true
}

func (f *Form) SetURI(uri string) { f.URI = uri }

// SetText sets the label. The label of an existing link is fixed.
func (f *Form) SetText(s string) {
	if f.Mode == ModeEdit {
		return
	}
	f.Text = s
}

func (f *Form) SetTarget(l *ir.Link) { f.Target = l.Clone() }

func (f *Form) ClearTarget() { f.Target = nil }

// LinkType returns the entity link type the form needs a target of, or ""
// for plain hyperlinks.
func (f *Form) LinkType() string { return ir.LinkTypeOf(f.Type) }

// Path returns the path of the link being edited.
func (f *Form) Path() ir.Path { return f.path }

// URIError explains why the URI is not acceptable, nil when it is.
func (f *Form) URIError() error {
	uri := strings.TrimSpace(f.URI)
	if uri == "" {
		return ErrEmptyURI
	}
	if f.validURI != nil {
		return f.validURI(uri)
	}
	return nil
}

// CanSubmit reports whether Submit would be accepted.
func (f *Form) CanSubmit() bool {
	if !slices.Contains(f.AllowedTypes, f.Type) {
		return false
	}
	if f.Mode == ModeCreate && f.Text == "" {
		return false
	}
	if f.Type.IsEntityLink() {
		return f.Target.Valid() && f.Target.Sys.LinkType == f.LinkType()
	}
	return f.URIError() == nil
}

// Data returns the node data the form describes.
func (f *Form) Data() ir.Data {
	if f.Type.IsEntityLink() {
		return ir.Data{Target: f.Target.Clone()}
	}
	return ir.Data{URI: strings.TrimSpace(f.URI)}
}
