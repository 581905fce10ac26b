// Package schema merges the node and mark declarations of pipeline units
// into the schema a document is normalized against.
package schema

import (
	"fmt"
	"slices"

	"github.com/signadot/richtext/ir"
)

// Contribution is what a single pipeline unit declares about the tree.
type Contribution struct {
	Blocks     []ir.NodeType
	Inlines    []ir.NodeType
	Voids      []ir.NodeType
	Containers []ir.NodeType
	Marks      []string
	// Restricted marks stay declared but are stripped from text.
	Restricted []string
}

type category int

const (
	blockCat category = iota + 1
	inlineCat
)

// Schema answers structural questions during normalization. The zero
// value knows nothing; use New.
type Schema struct {
	kinds      map[ir.NodeType]category
	voids      map[ir.NodeType]bool
	containers map[ir.NodeType]bool
	marks      map[string]bool
	restricted map[string]bool
}

// New merges contributions in order. A type declared as both block and
// inline is an error.
func New(restrictedMarks []string, cs ...*Contribution) (*Schema, error) {
	s := &Schema{
		kinds:      map[ir.NodeType]category{},
		voids:      map[ir.NodeType]bool{},
		containers: map[ir.NodeType]bool{ir.DocumentType: true},
		marks:      map[string]bool{},
		restricted: map[string]bool{},
	}
	for _, m := range restrictedMarks {
		s.restricted[m] = true
	}
	for _, c := range cs {
		if c == nil {
			continue
		}
		if err := s.add(c.Blocks, blockCat); err != nil {
			return nil, err
		}
		if err := s.add(c.Inlines, inlineCat); err != nil {
			return nil, err
		}
		for _, t := range c.Voids {
			s.voids[t] = true
		}
		for _, t := range c.Containers {
			s.containers[t] = true
		}
		for _, m := range c.Marks {
			s.marks[m] = true
		}
		for _, m := range c.Restricted {
			s.restricted[m] = true
		}
	}
	return s, nil
}

func (s *Schema) add(ts []ir.NodeType, cat category) error {
	for _, t := range ts {
		if have, ok := s.kinds[t]; ok && have != cat {
			return fmt.Errorf("node type %q declared as both block and inline", t)
		}
		s.kinds[t] = cat
	}
	return nil
}

// Known reports whether some unit declared t. Documents and text are
// always known.
func (s *Schema) Known(t ir.NodeType) bool {
	if t == ir.DocumentType || t == ir.TextType {
		return true
	}
	_, ok := s.kinds[t]
	return ok
}

func (s *Schema) IsBlock(t ir.NodeType) bool { return s.kinds[t] == blockCat }

func (s *Schema) IsInline(t ir.NodeType) bool { return s.kinds[t] == inlineCat }

func (s *Schema) IsVoid(t ir.NodeType) bool { return s.voids[t] }

func (s *Schema) IsContainer(t ir.NodeType) bool { return s.containers[t] }

// IsTextBlock reports whether t is a block that holds text and inlines.
func (s *Schema) IsTextBlock(t ir.NodeType) bool {
	return s.IsBlock(t) && !s.voids[t] && !s.containers[t]
}

// MarkAllowed reports whether a mark is declared and not restricted.
func (s *Schema) MarkAllowed(m string) bool {
	return s.marks[m] && !s.restricted[m]
}

func (s *Schema) IsRestricted(m string) bool { return s.restricted[m] }

// Types returns all declared node types, sorted.
func (s *Schema) Types() []ir.NodeType {
	res := make([]ir.NodeType, 0, len(s.kinds))
	for t := range s.kinds {
		res = append(res, t)
	}
	slices.Sort(res)
	return res
}

// Builtin is the contribution covering every built in node type and mark.
func Builtin() *Contribution {
	c := &Contribution{
		Blocks:  ir.BlockTypes(),
		Inlines: ir.InlineTypes(),
		Marks:   ir.MarkTypes(),
	}
	for _, t := range append(ir.BlockTypes(), ir.InlineTypes()...) {
		if t.IsVoid() {
			c.Voids = append(c.Voids, t)
		}
		if t.IsContainer() {
			c.Containers = append(c.Containers, t)
		}
	}
	return c
}

// Default returns the schema of the built in contribution with no
// restricted marks.
func Default() *Schema {
	s, err := New(nil, Builtin())
	if err != nil {
		panic(err)
	}
	return s
}
