package plugins

import (
	"slices"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
)

// atBlockStart reports whether the selection is a cursor at the start of
// its leaf block, returning the block.
func atBlockStart(tx *editor.Tx) (editor.Loc, ir.Path, *ir.Node, bool) {
	if !tx.Collapsed() {
		return editor.Loc{}, nil, nil, false
	}
	l, bp, b := tx.FocusBlock()
	if b == nil || l.Offset != 0 {
		return editor.Loc{}, nil, nil, false
	}
	return l, bp, b, true
}

// SelectOnBackspace makes Backspace after a void select the void instead
// of deleting it. A following Backspace removes it.
func SelectOnBackspace(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: SelectOnBackspaceKey,
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			if !ev.Is("Backspace") {
				return false, nil
			}
			tx := e.Snapshot()
			l, _, b, ok := atBlockStart(tx)
			if !ok || l.Block == 0 || tx.Schema().IsVoid(b.Type) {
				return false, nil
			}
			if _, prev := tx.Block(l.Block - 1); !tx.Schema().IsVoid(prev.Type) {
				return false, nil
			}
			if b.Text() != "" || slices.ContainsFunc(b.Content, (*ir.Node).IsElement) {
				e.SelectLoc(editor.Loc{Block: l.Block - 1}, editor.Loc{Block: l.Block - 1})
				return true, nil
			}
			_, err := e.Apply("select_void", func(tx *editor.Tx) error {
				_, bp, _ := tx.FocusBlock()
				tx.RemoveNode(bp)
				tx.Collapse(editor.Loc{Block: l.Block - 1})
				return nil
			})
			return true, err
		}),
	}, nil
}

// SoftBreak makes shift+Enter insert a line break inside the block.
func SoftBreak(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: SoftBreakKey,
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			if !ev.Is("shift+Enter") {
				return false, nil
			}
			return true, e.InsertText("\n")
		}),
	}, nil
}

// ExitBreak makes mod+Enter start a paragraph after the top level block
// holding the cursor, leaving lists, quotes and tables.
func ExitBreak(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: ExitBreakKey,
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			if !ev.Is("mod+Enter") {
				return false, nil
			}
			_, err := e.Apply("exit_break", func(tx *editor.Tx) error {
				i, top := focusTop(tx)
				if top == nil {
					return editor.ErrNoSelection
				}
				at := ir.Path{i + 1}
				ir.Insert(tx.Root, at, ir.Paragraph(ir.Text("")))
				n := slices.IndexFunc(ir.LeafBlocks(tx.Root), at.Equal)
				tx.Collapse(editor.Loc{Block: n})
				return nil
			})
			return true, err
		}),
	}, nil
}

// ResetNode handles Backspace at the start of a block that is not a
// plain top level paragraph: headings become paragraphs and the first
// block of a quote or of a list is lifted out.
func ResetNode(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: ResetNodeKey,
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			if !ev.Is("Backspace") {
				return false, nil
			}
			if !resetBlock(e.Snapshot()) {
				return false, nil
			}
			_, err := e.Apply("reset_node", func(tx *editor.Tx) error {
				resetBlock(tx)
				return nil
			})
			return true, err
		}),
	}, nil
}

func resetBlock(tx *editor.Tx) bool {
	_, bp, b, ok := atBlockStart(tx)
	if !ok {
		return false
	}
	if b.Type.IsHeading() {
		b.Type = ir.ParagraphType
		return true
	}
	top := tx.Root.Content[bp[0]]
	switch {
	case top.Type == ir.QuoteType && len(bp) == 2 && bp[1] == 0:
		ir.Remove(tx.Root, bp)
		ir.Insert(tx.Root, ir.Path{bp[0]}, b)
		return true
	case top.Type.IsList() && len(bp) == 3 && bp[1] == 0 && bp[2] == 0:
		item := top.Content[0]
		top.Content = top.Content[1:]
		tx.Root.Content = slices.Insert(tx.Root.Content, bp[0], item.Content...)
		return true
	}
	return false
}
