package links

import (
	"slices"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
	"github.com/signadot/richtext/tracking"
)

const (
	UnitKey       = "hyperlink"
	ToggleCommand = "toggle-hyperlink"
	Shortcut      = "mod+k"
)

// Plugin returns the pipeline unit for m: the allowed link types, the
// mod+k shortcut, the toolbar button and the rule dropping links without
// a usable destination.
func Plugin(m *Manager) *editor.Unit {
	return &editor.Unit{
		Key:    UnitKey,
		Schema: &schema.Contribution{Inlines: m.AllowedTypes()},
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			if !ev.Is(Shortcut) {
				return false, nil
			}
			_, err := m.Toggle(tracking.OriginShortcut)
			return true, err
		}),
		Rules: []normalize.Rule{UnwrapInvalid(m.uri)},
		Toolbar: []editor.ToolbarItem{
			{Name: UnitKey, Label: "Link", Command: ToggleCommand, Shortcut: Shortcut},
		},
		Commands: map[string]editor.Command{
			ToggleCommand: func(e *editor.Editor, arg string) error {
				_, err := m.Toggle(tracking.OriginToolbar)
				return err
			},
		},
		Init: func(e *editor.Editor) error {
			m.Bind(e)
			return nil
		},
	}
}

// UnwrapInvalid replaces link inlines whose data does not point anywhere,
// or whose uri validURI rejects, by their label. validURI may be nil.
func UnwrapInvalid(validURI func(string) error) normalize.Rule {
	return normalize.RuleFunc("unwrap-invalid-link", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		i := slices.IndexFunc(n.Content, func(c *ir.Node) bool {
			if !c.Type.IsLink() {
				return false
			}
			if CheckData(c.Type, c.Data) != nil {
				return true
			}
			return validURI != nil && !c.Type.IsEntityLink() && validURI(c.Data.URI) != nil
		})
		if i < 0 {
			return normalize.Pass
		}
		n.Content = slices.Replace(n.Content, i, i+1, n.Content[i].Content...)
		return normalize.Changed
	})
}
