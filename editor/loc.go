package editor

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/signadot/richtext/ir"
)

// Loc is a selection point expressed as a byte offset into the text of
// the Block'th leaf block of the document. Unlike a Point it stays valid
// while normalization splits, merges or unwraps the nodes of a block.
//
// Where an offset falls on the boundary between two text leaves, Inline
// prefers a leaf inside an inline element (or outside when false) and
// Forward prefers the later leaf.
type Loc struct {
	Block   int
	Offset  int
	Inline  bool
	Forward bool
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.Block, l.Offset)
}

func compareLoc(a, b Loc) int {
	if c := cmp.Compare(a.Block, b.Block); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, b.Offset)
}

// Locate converts a point into a Loc.
func Locate(root *ir.Node, p ir.Point) (Loc, bool) {
	bp, ok := ir.LeafBlockOf(root, p.Path)
	if !ok {
		return Loc{}, false
	}
	bi := slices.IndexFunc(ir.LeafBlocks(root), bp.Equal)
	if bi < 0 {
		return Loc{}, false
	}
	for _, l := range ir.Leaves(root, bp) {
		if l.Path.Equal(p.Path) {
			off := max(0, min(p.Offset, len(l.Node.Value)))
			return Loc{Block: bi, Offset: l.Start + off, Inline: l.Inline != nil}, true
		}
	}
	return Loc{}, false
}

// Resolve converts a Loc into a point on a text leaf. Out of range block
// ordinals and offsets are clamped.
func Resolve(root *ir.Node, l Loc) (ir.Point, bool) {
	blocks := ir.LeafBlocks(root)
	if len(blocks) == 0 {
		return ir.Point{}, false
	}
	bi := max(0, min(l.Block, len(blocks)-1))
	leaves := ir.Leaves(root, blocks[bi])
	if len(leaves) == 0 {
		return ir.Point{}, false
	}
	end := leaves[len(leaves)-1].End()
	off := l.Offset
	switch {
	case l.Block > bi:
		off = end
	case l.Block < bi:
		off = 0
	}
	off = max(0, min(off, end))
	var cands, pref []ir.Leaf
	for _, lf := range leaves {
		if lf.Start <= off && off <= lf.End() {
			cands = append(cands, lf)
			if (lf.Inline != nil) == l.Inline {
				pref = append(pref, lf)
			}
		}
	}
	if len(pref) != 0 {
		cands = pref
	}
	lf := cands[0]
	if l.Forward {
		lf = cands[len(cands)-1]
	}
	o := off - lf.Start
	v := lf.Node.Value
	for o > 0 && o < len(v) && !utf8.RuneStart(v[o]) {
		o--
	}
	return ir.Point{Path: lf.Path, Offset: o}, true
}

type selection struct {
	anchor, focus Loc
}

func (s *selection) edges() (start, end Loc) {
	if compareLoc(s.anchor, s.focus) <= 0 {
		return s.anchor, s.focus
	}
	return s.focus, s.anchor
}

func (s *selection) collapsed() bool {
	return compareLoc(s.anchor, s.focus) == 0
}

func (s *selection) resolve(root *ir.Node) (ir.Range, bool) {
	a, ok := Resolve(root, s.anchor)
	if !ok {
		return ir.Range{}, false
	}
	f, ok := Resolve(root, s.focus)
	if !ok {
		return ir.Range{}, false
	}
	return ir.Range{Anchor: a, Focus: f}, true
}

func locateRange(root *ir.Node, r ir.Range) (*selection, error) {
	a, ok := Locate(root, r.Anchor)
	if !ok {
		return nil, fmt.Errorf("%w: anchor %s is not on a text leaf", ErrBadSelection, r.Anchor)
	}
	f, ok := Locate(root, r.Focus)
	if !ok {
		return nil, fmt.Errorf("%w: focus %s is not on a text leaf", ErrBadSelection, r.Focus)
	}
	s := &selection{anchor: a, focus: f}
	s.orient()
	return s, nil
}

// orient makes the start edge prefer the later leaf at a boundary so that
// an expanded selection does not reach into a neighbouring node.
func (s *selection) orient() {
	s.anchor.Forward, s.focus.Forward = false, false
	if s.collapsed() {
		return
	}
	if compareLoc(s.anchor, s.focus) < 0 {
		s.anchor.Forward = true
	} else {
		s.focus.Forward = true
	}
}
