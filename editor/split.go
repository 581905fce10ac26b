package editor

import (
	"slices"

	"github.com/signadot/richtext/ir"
)

// splitContent splits the content of a leaf block at text offset o.
// Texts and inlines straddling o are cut in two; both halves of an inline
// keep its type and a copy of its data. Empty nodes at o go left.
func splitContent(content []*ir.Node, o int) (left, right []*ir.Node) {
	off := 0
	for _, c := range content {
		n := len(c.Text())
		switch {
		case off+n <= o:
			left = append(left, c)
		case off >= o:
			right = append(right, c)
		case c.IsText():
			l, r := c.Clone(), c.Clone()
			l.Value, r.Value = c.Value[:o-off], c.Value[o-off:]
			left, right = append(left, l), append(right, r)
		default:
			cl, cr := splitContent(c.Content, o-off)
			left = append(left, &ir.Node{Type: c.Type, Data: c.Data.Clone(), Content: cl})
			right = append(right, &ir.Node{Type: c.Type, Data: c.Data.Clone(), Content: cr})
		}
		off += n
	}
	return left, right
}

// cutContent splits content into the parts before s, between s and e and
// after e.
func cutContent(content []*ir.Node, s, e int) (left, mid, right []*ir.Node) {
	left, rest := splitContent(content, s)
	mid, right = splitContent(rest, e-s)
	return left, mid, right
}

// trimEmptyTail moves the zero length nodes ending mid to the front of
// right.
func trimEmptyTail(mid, right []*ir.Node) ([]*ir.Node, []*ir.Node) {
	i := len(mid)
	for i > 0 && mid[i-1].Text() == "" {
		i--
	}
	return mid[:i], concat(mid[i:], right)
}

func concat(parts ...[]*ir.Node) []*ir.Node {
	return slices.Concat(parts...)
}

// deleteRange removes the text between s and e. Inline elements the
// range only partly covers stay whole and lose the covered part of their
// label; elements it covers entirely are dropped. Empty elements, voids
// among them, go only when they sit strictly between s and e.
func deleteRange(content []*ir.Node, s, e int) []*ir.Node {
	var res []*ir.Node
	off := 0
	for _, c := range content {
		n := len(c.Text())
		lo, hi := max(s-off, 0), min(e-off, n)
		switch {
		case n == 0 && c.IsElement():
			if off <= s || off >= e {
				res = append(res, c)
			}
		case lo >= hi:
			res = append(res, c)
		case c.IsText():
			t := c.Clone()
			t.Value = c.Value[:lo] + c.Value[hi:]
			res = append(res, t)
		case lo == 0 && hi == n:
		default:
			c.Content = deleteRange(c.Content, s-off, e-off)
			res = append(res, c)
		}
		off += n
	}
	return res
}

// splitRange cuts the text nodes straddling s or e so that the text
// between them sits in nodes of its own, which it returns. Inline
// elements are never split; their children are.
func splitRange(content []*ir.Node, s, e int) (res, mid []*ir.Node) {
	off := 0
	for _, c := range content {
		n := len(c.Text())
		lo, hi := max(s-off, 0), min(e-off, n)
		switch {
		case lo >= hi:
			res = append(res, c)
		case c.IsText():
			if lo > 0 {
				l := c.Clone()
				l.Value = c.Value[:lo]
				res = append(res, l)
			}
			m := c.Clone()
			m.Value = c.Value[lo:hi]
			res, mid = append(res, m), append(mid, m)
			if hi < n {
				r := c.Clone()
				r.Value = c.Value[hi:]
				res = append(res, r)
			}
		default:
			var m []*ir.Node
			c.Content, m = splitRange(c.Content, s-off, e-off)
			res, mid = append(res, c), append(mid, m...)
		}
		off += n
	}
	return res, mid
}

// insertText puts text nodes at offset o. Inside an inline element they
// join its label rather than splitting it.
func insertText(content []*ir.Node, o int, nodes []*ir.Node) []*ir.Node {
	off := 0
	for _, c := range content {
		n := len(c.Text())
		if c.IsElement() && off < o && o < off+n {
			c.Content = insertText(c.Content, o-off, nodes)
			return content
		}
		off += n
	}
	left, right := splitContent(content, o)
	return concat(left, nodes, right)
}

func textLen(content []*ir.Node) int {
	n := 0
	for _, c := range content {
		n += len(c.Text())
	}
	return n
}
