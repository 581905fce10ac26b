package ir

import "slices"

// Get returns the node at p or nil if p does not address a node.
func Get(root *Node, p Path) *Node {
	res := root
	for _, i := range p {
		if res == nil || i < 0 || i >= len(res.Content) {
			return nil
		}
		res = res.Content[i]
	}
	return res
}

// Walk visits the tree in document order. Returning false from f skips the
// node's children.
func Walk(root *Node, f func(n *Node, p Path) bool) {
	walk(root, Path{}, f)
}

func walk(n *Node, p Path, f func(n *Node, p Path) bool) {
	if !f(n, p) {
		return
	}
	for i, c := range n.Content {
		walk(c, p.Child(i), f)
	}
}

// Insert places n at p, shifting later siblings.
func Insert(root *Node, p Path, n *Node) bool {
	parent := Get(root, p.Parent())
	i := p.Last()
	if parent == nil || i < 0 || i > len(parent.Content) {
		return false
	}
	parent.Content = slices.Insert(parent.Content, i, n)
	return true
}

// Remove detaches and returns the node at p.
func Remove(root *Node, p Path) *Node {
	parent := Get(root, p.Parent())
	i := p.Last()
	if parent == nil || i < 0 || i >= len(parent.Content) {
		return nil
	}
	n := parent.Content[i]
	parent.Content = slices.Delete(parent.Content, i, i+1)
	return n
}

// Unwrap replaces the element at p by its children.
func Unwrap(root *Node, p Path) bool {
	parent := Get(root, p.Parent())
	i := p.Last()
	if parent == nil || i < 0 || i >= len(parent.Content) {
		return false
	}
	n := parent.Content[i]
	parent.Content = slices.Replace(parent.Content, i, i+1, n.Content...)
	return true
}

// IsLeafBlock reports whether n is a block that holds text and inlines
// rather than other blocks.
func IsLeafBlock(n *Node) bool {
	return n != nil && n.Type.IsBlock() && !n.Type.IsContainer()
}

// LeafBlocks returns the paths of all leaf blocks in document order.
func LeafBlocks(root *Node) []Path {
	var res []Path
	Walk(root, func(n *Node, p Path) bool {
		if IsLeafBlock(n) {
			res = append(res, p.Clone())
			return false
		}
		return n.Type.IsContainer()
	})
	return res
}

// LeafBlockOf returns the path of the leaf block enclosing p.
func LeafBlockOf(root *Node, p Path) (Path, bool) {
	for i := len(p); i >= 0; i-- {
		if IsLeafBlock(Get(root, p[:i])) {
			return p[:i:i], true
		}
	}
	return nil, false
}

// InlineOf returns the path of the inline element enclosing p, if any.
func InlineOf(root *Node, p Path) (Path, bool) {
	for i := len(p); i > 0; i-- {
		n := Get(root, p[:i])
		if n == nil {
			return nil, false
		}
		if n.Type.IsInline() {
			return p[:i:i], true
		}
		if n.Type.IsBlock() {
			break
		}
	}
	return nil, false
}

// Leaf is a text node inside a leaf block together with its position in
// the block's text.
type Leaf struct {
	Path   Path
	Node   *Node
	Start  int
	Inline Path
}

func (l Leaf) End() int { return l.Start + len(l.Node.Value) }

// Leaves lists the text leaves under the node at block in document order.
func Leaves(root *Node, block Path) []Leaf {
	var (
		res []Leaf
		off int
	)
	b := Get(root, block)
	if b == nil {
		return nil
	}
	var inline Path
	walk(b, block.Clone(), func(n *Node, p Path) bool {
		if n.Type.IsInline() {
			inline = p.Clone()
		}
		if n.Type != TextType {
			return true
		}
		var in Path
		if inline != nil && inline.IsAncestorOf(p) {
			in = inline
		}
		res = append(res, Leaf{Path: p.Clone(), Node: n, Start: off, Inline: in})
		off += len(n.Value)
		return false
	})
	return res
}

// FirstLeaf and LastLeaf return the first and last text leaf of the
// document.
func FirstLeaf(root *Node) (Point, bool) {
	blocks := LeafBlocks(root)
	for _, b := range blocks {
		if ls := Leaves(root, b); len(ls) != 0 {
			return Point{Path: ls[0].Path}, true
		}
	}
	return Point{}, false
}

func LastLeaf(root *Node) (Point, bool) {
	blocks := LeafBlocks(root)
	for i := len(blocks) - 1; i >= 0; i-- {
		if ls := Leaves(root, blocks[i]); len(ls) != 0 {
			l := ls[len(ls)-1]
			return Point{Path: l.Path, Offset: len(l.Node.Value)}, true
		}
	}
	return Point{}, false
}
