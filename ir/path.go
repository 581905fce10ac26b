package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Path addresses a node by child indices from the document root. The root
// itself has the empty path.
type Path []int

func (p Path) String() string {
	var buf strings.Builder
	buf.WriteByte('$')
	for _, i := range p {
		buf.WriteByte('[')
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte(']')
	}
	return buf.String()
}

func (p Path) Clone() Path {
	return slices.Clone(p)
}

func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Child returns the path of the i'th child of p.
func (p Path) Child(i int) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = i
	return res
}

// Last returns the index of p within its parent.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Sibling returns the path of the sibling at index i.
func (p Path) Sibling(i int) Path {
	return p.Parent().Child(i)
}

func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// Compare orders paths in document order; an ancestor sorts before its
// descendants.
func (p Path) Compare(o Path) int {
	return slices.Compare(p, o)
}

// IsAncestorOf reports whether p is a strict ancestor of o.
func (p Path) IsAncestorOf(o Path) bool {
	return len(p) < len(o) && slices.Equal(p, o[:len(p)])
}

// Point is a position inside a text leaf.
type Point struct {
	Path   Path
	Offset int
}

func (p Point) Compare(o Point) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

func (p Point) String() string {
	return p.Path.String() + ":" + strconv.Itoa(p.Offset)
}

// Range is a selection. Anchor is where it started, Focus where it ends;
// Focus may come before Anchor.
type Range struct {
	Anchor Point
	Focus  Point
}

// Collapsed returns the empty range at p.
func Collapsed(p Point) Range {
	return Range{Anchor: p, Focus: p}
}

func (r Range) IsCollapsed() bool {
	return r.Anchor.Compare(r.Focus) == 0
}

// Edges returns the range's points in document order.
func (r Range) Edges() (start, end Point) {
	if r.Anchor.Compare(r.Focus) <= 0 {
		return r.Anchor, r.Focus
	}
	return r.Focus, r.Anchor
}

func (r Range) String() string {
	return r.Anchor.String() + ".." + r.Focus.String()
}
