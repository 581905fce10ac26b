package plugins

import (
	"slices"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
	"github.com/signadot/richtext/tracking"
)

var markShortcuts = map[string]string{
	ir.Bold:      "mod+b",
	ir.Italic:    "mod+i",
	ir.Underline: "mod+u",
	ir.Code:      "mod+e",
}

// toggleMark toggles m over the selection and tracks the outcome.
func toggleMark(e *editor.Editor, m, origin string) error {
	_, err := e.Apply("toggle_mark", func(tx *editor.Tx) error {
		if !tx.Schema().MarkAllowed(m) {
			return nil
		}
		a := tracking.Unmark
		if tx.ToggleMark(m) {
			a = tracking.Mark
		}
		tx.Track(a, tracking.Payload{Origin: origin, Mark: m})
		return nil
	})
	return err
}

func Marks(bc *BuildContext) (*editor.Unit, error) {
	marks := bc.Host.Marks()
	if len(marks) == 0 {
		return nil, nil
	}
	u := &editor.Unit{
		Key:    MarksKey,
		Schema: &schema.Contribution{Marks: marks},
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			for _, m := range marks {
				if s, ok := markShortcuts[m]; ok && ev.Is(s) {
					return true, toggleMark(e, m, tracking.OriginShortcut)
				}
			}
			return false, nil
		}),
		Commands: map[string]editor.Command{
			"toggle-mark": func(e *editor.Editor, m string) error {
				return toggleMark(e, m, tracking.OriginToolbar)
			},
		},
	}
	for _, m := range marks {
		if slices.Contains(bc.RestrictedMarks, m) {
			continue
		}
		u.Toolbar = append(u.Toolbar, editor.ToolbarItem{
			Name: m, Label: m, Command: "toggle-mark", Shortcut: markShortcuts[m],
		})
	}
	return u, nil
}

// Text declares the restricted marks and strips every mark the schema
// does not allow from text.
func Text(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key:    TextKey,
		Schema: &schema.Contribution{Restricted: bc.RestrictedMarks},
		Rules:  []normalize.Rule{StripMarks()},
	}, nil
}

// StripMarks removes marks that are not allowed from the text children
// of a node.
func StripMarks() normalize.Rule {
	return normalize.RuleFunc("strip-marks", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		changed := false
		for _, c := range n.Content {
			if !c.IsText() {
				continue
			}
			keep := slices.DeleteFunc(slices.Clone(c.Marks), func(m ir.Mark) bool { return !ctx.Schema.MarkAllowed(m.Type) })
			if len(keep) != len(c.Marks) {
				c.Marks = ir.CanonicalMarks(keep)
				changed = true
			}
		}
		return normalize.Changes(changed)
	})
}

func Voids(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key:   VoidsKey,
		Rules: []normalize.Rule{VoidContent()},
	}, nil
}

// VoidContent keeps the content of a void at exactly one empty unmarked
// text.
func VoidContent() normalize.Rule {
	return normalize.RuleFunc("void-content", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		if !ctx.Schema.IsVoid(n.Type) {
			return normalize.Pass
		}
		if len(n.Content) == 1 && n.Content[0].IsText() && n.Content[0].Value == "" && len(n.Content[0].Marks) == 0 {
			return normalize.Pass
		}
		n.Content = []*ir.Node{ir.Text("")}
		return normalize.Changed
	})
}

func TrailingParagraph(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key:   TrailingParagraphKey,
		Rules: []normalize.Rule{EndWithParagraph()},
	}, nil
}

// EndWithParagraph appends an empty paragraph to a document whose last
// block is not a paragraph.
func EndWithParagraph() normalize.Rule {
	return normalize.RuleFunc("trailing-paragraph", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		if n.Type != ir.DocumentType || len(n.Content) == 0 {
			return normalize.Pass
		}
		if n.Content[len(n.Content)-1].Type == ir.ParagraphType {
			return normalize.Pass
		}
		n.Content = append(n.Content, ir.Paragraph(ir.Text("")))
		return normalize.Changed
	})
}
