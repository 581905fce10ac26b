package normalize

import (
	"slices"

	"github.com/signadot/richtext/ir"
)

// Core returns the structural rules every document is normalized with, in
// the order the normalizer unit contributes them. The fixpoint they reach
// does not depend on that order.
func Core() []Rule {
	return []Rule{
		UnwrapUnknown(),
		UnwrapNestedInlines(),
		WrapStrayInlines(),
		UnwrapStrayBlocks(),
		RemoveEmptyInlines(),
		PruneEmptyContainers(),
		FlankInlines(),
		MergeText(),
		FillEmpty(),
	}
}

// UnwrapUnknown replaces children of undeclared types by their content.
func UnwrapUnknown() Rule {
	return RuleFunc("unwrap-unknown", func(ctx *Context, n *ir.Node) Result {
		for i, c := range n.Content {
			if c.IsElement() && !ctx.Schema.Known(c.Type) {
				n.Content = slices.Replace(n.Content, i, i+1, c.Content...)
				return Changed
			}
		}
		return Pass
	})
}

// UnwrapNestedInlines keeps inlines flat: an inline inside another inline
// is replaced by its label.
func UnwrapNestedInlines() Rule {
	return RuleFunc("unwrap-nested-inline", func(ctx *Context, n *ir.Node) Result {
		if !ctx.Schema.IsInline(n.Type) {
			return Pass
		}
		for i, c := range n.Content {
			if c.IsElement() && ctx.Schema.IsInline(c.Type) {
				n.Content = slices.Replace(n.Content, i, i+1, c.Content...)
				return Changed
			}
		}
		return Pass
	})
}

// WrapStrayInlines wraps each run of text and inline children of a
// container into a paragraph.
func WrapStrayInlines() Rule {
	return RuleFunc("wrap-stray-inline", func(ctx *Context, n *ir.Node) Result {
		if !ctx.Schema.IsContainer(n.Type) {
			return Pass
		}
		isRun := func(c *ir.Node) bool {
			return c.IsText() || ctx.Schema.IsInline(c.Type)
		}
		i := slices.IndexFunc(n.Content, isRun)
		if i == -1 {
			return Pass
		}
		j := i + 1
		for j < len(n.Content) && isRun(n.Content[j]) {
			j++
		}
		run := slices.Clone(n.Content[i:j])
		n.Content = slices.Replace(n.Content, i, j, ir.Paragraph(run...))
		return Changed
	})
}

// UnwrapStrayBlocks replaces blocks found inside text blocks, voids or
// inlines by their content.
func UnwrapStrayBlocks() Rule {
	return RuleFunc("unwrap-stray-block", func(ctx *Context, n *ir.Node) Result {
		if ctx.Schema.IsContainer(n.Type) {
			return Pass
		}
		for i, c := range n.Content {
			if c.IsElement() && ctx.Schema.IsBlock(c.Type) {
				n.Content = slices.Replace(n.Content, i, i+1, c.Content...)
				return Changed
			}
		}
		return Pass
	})
}

// RemoveEmptyInlines deletes labelled inlines whose label is empty. Void
// inlines have no label and are kept.
func RemoveEmptyInlines() Rule {
	return RuleFunc("remove-empty-inline", func(ctx *Context, n *ir.Node) Result {
		for i, c := range n.Content {
			if !c.IsElement() || !ctx.Schema.IsInline(c.Type) || ctx.Schema.IsVoid(c.Type) {
				continue
			}
			if c.Text() == "" {
				n.Content = slices.Delete(n.Content, i, i+1)
				return Changed
			}
		}
		return Pass
	})
}

// PruneEmptyContainers deletes child containers that hold nothing.
func PruneEmptyContainers() Rule {
	return RuleFunc("prune-empty-container", func(ctx *Context, n *ir.Node) Result {
		for i, c := range n.Content {
			if c.IsElement() && ctx.Schema.IsContainer(c.Type) && len(c.Content) == 0 {
				n.Content = slices.Delete(n.Content, i, i+1)
				return Changed
			}
		}
		return Pass
	})
}

// FlankInlines puts a text node on both sides of every inline so there is
// always a cursor position before and after it.
func FlankInlines() Rule {
	return RuleFunc("flank-inline", func(ctx *Context, n *ir.Node) Result {
		if ctx.Schema.IsContainer(n.Type) || ctx.Schema.IsInline(n.Type) {
			return Pass
		}
		for i, c := range n.Content {
			if !c.IsElement() || !ctx.Schema.IsInline(c.Type) {
				continue
			}
			if i == 0 || !n.Content[i-1].IsText() {
				n.Content = slices.Insert(n.Content, i, ir.Text(""))
				return Changed
			}
			if i == len(n.Content)-1 || !n.Content[i+1].IsText() {
				n.Content = slices.Insert(n.Content, i+1, ir.Text(""))
				return Changed
			}
		}
		return Pass
	})
}

// MergeText joins adjacent text siblings with the same marks and drops an
// empty text that sits next to another text.
func MergeText() Rule {
	return RuleFunc("merge-text", func(ctx *Context, n *ir.Node) Result {
		for i := 1; i < len(n.Content); i++ {
			a, b := n.Content[i-1], n.Content[i]
			if !a.IsText() || !b.IsText() {
				continue
			}
			switch {
			case ir.SameMarks(a.Marks, b.Marks):
				a.Value += b.Value
				n.Content = slices.Delete(n.Content, i, i+1)
			case a.Value == "":
				n.Content = slices.Delete(n.Content, i-1, i)
			case b.Value == "":
				n.Content = slices.Delete(n.Content, i, i+1)
			default:
				continue
			}
			return Changed
		}
		return Pass
	})
}

// FillEmpty gives empty elements their minimal content: the document gets
// an empty paragraph, text blocks and voids an empty text. Empty
// containers and labelled inlines are left to their parent.
func FillEmpty() Rule {
	return RuleFunc("fill-empty", func(ctx *Context, n *ir.Node) Result {
		if len(n.Content) != 0 {
			return Pass
		}
		switch {
		case n.Type == ir.DocumentType:
			n.Content = []*ir.Node{ir.Paragraph(ir.Text(""))}
		case ctx.Schema.IsVoid(n.Type):
			n.Content = []*ir.Node{ir.Text("")}
		case ctx.Schema.IsContainer(n.Type), ctx.Schema.IsInline(n.Type):
			return Pass
		case ctx.Schema.IsBlock(n.Type):
			n.Content = []*ir.Node{ir.Text("")}
		default:
			return Pass
		}
		return Changed
	})
}
