package ir

import (
	"maps"
	"slices"
	"strings"
)

// Node is one node of a rich text document. Element nodes use Content;
// text nodes use Value and Marks.
type Node struct {
	Type    NodeType
	Data    Data
	Content []*Node

	Value string
	Marks []Mark
}

// Data is the "data" payload of a node. Keys other than uri and target are
// kept in Raw so they survive a round trip.
type Data struct {
	URI    string
	Target *Link
	Raw    map[string]any
}

// Link is an entity link descriptor, {"sys": {...}} on the wire.
type Link struct {
	Sys LinkSys `json:"sys"`
}

type LinkSys struct {
	ID       string `json:"id,omitempty"`
	URN      string `json:"urn,omitempty"`
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
}

// NewLink returns a well formed entity link of the given link type.
func NewLink(linkType, id string) *Link {
	return &Link{Sys: LinkSys{ID: id, Type: "Link", LinkType: linkType}}
}

// NewResourceLink returns a resource link addressed by urn.
func NewResourceLink(linkType, urn string) *Link {
	return &Link{Sys: LinkSys{URN: urn, Type: "ResourceLink", LinkType: linkType}}
}

// Valid reports whether the link is a committed descriptor: typed and
// pointing at something.
func (l *Link) Valid() bool {
	if l == nil || l.Sys.LinkType == "" {
		return false
	}
	switch l.Sys.Type {
	case "Link":
		return l.Sys.ID != ""
	case "ResourceLink":
		return l.Sys.URN != ""
	}
	return false
}

func (l *Link) Clone() *Link {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func (l *Link) Equal(o *Link) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.Sys == o.Sys
}

// Mark is a text formatting mark such as bold.
type Mark struct {
	Type string `json:"type"`
}

const (
	Bold          = "bold"
	Italic        = "italic"
	Underline     = "underline"
	Code          = "code"
	Superscript   = "superscript"
	Subscript     = "subscript"
	Strikethrough = "strikethrough"
)

// MarkTypes lists the built in mark types.
func MarkTypes() []string {
	return []string{Bold, Italic, Underline, Code, Superscript, Subscript, Strikethrough}
}

// Marks builds a canonical mark set from mark type names.
func Marks(types ...string) []Mark {
	res := make([]Mark, 0, len(types))
	for _, t := range types {
		res = append(res, Mark{Type: t})
	}
	return CanonicalMarks(res)
}

// CanonicalMarks sorts and dedupes marks. The result is never nil.
func CanonicalMarks(marks []Mark) []Mark {
	res := slices.Clone(marks)
	if res == nil {
		res = []Mark{}
	}
	slices.SortFunc(res, func(a, b Mark) int { return strings.Compare(a.Type, b.Type) })
	return slices.Compact(res)
}

// SameMarks compares two mark lists as sets.
func SameMarks(a, b []Mark) bool {
	return slices.Equal(CanonicalMarks(a), CanonicalMarks(b))
}

// HasMark reports whether a text node carries mark t.
func (y *Node) HasMark(t string) bool {
	return slices.Contains(y.Marks, Mark{Type: t})
}

func (y *Node) IsText() bool { return y.Type == TextType }

func (y *Node) IsElement() bool { return y.Type != TextType }

// Text concatenates the values of all text nodes under y.
func (y *Node) Text() string {
	if y.Type == TextType {
		return y.Value
	}
	var buf strings.Builder
	for _, c := range y.Content {
		buf.WriteString(c.Text())
	}
	return buf.String()
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{
		Type:  y.Type,
		Value: y.Value,
		Data:  y.Data.Clone(),
	}
	if y.Marks != nil {
		res.Marks = slices.Clone(y.Marks)
	}
	if y.Content != nil {
		res.Content = make([]*Node, len(y.Content))
		for i, c := range y.Content {
			res.Content[i] = c.Clone()
		}
	}
	return res
}

func (d Data) Clone() Data {
	return Data{
		URI:    d.URI,
		Target: d.Target.Clone(),
		Raw:    deepCopyMap(d.Raw),
	}
}

func (d Data) IsZero() bool {
	return d.URI == "" && d.Target == nil && len(d.Raw) == 0
}

// Equal compares two trees structurally; mark order is ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Value != b.Value {
		return false
	}
	if a.Type == TextType && !SameMarks(a.Marks, b.Marks) {
		return false
	}
	if a.Data.URI != b.Data.URI || !a.Data.Target.Equal(b.Data.Target) {
		return false
	}
	if len(a.Data.Raw) != len(b.Data.Raw) || !maps.EqualFunc(a.Data.Raw, b.Data.Raw, equalAny) {
		return false
	}
	return slices.EqualFunc(a.Content, b.Content, Equal)
}

func equalAny(a, b any) bool {
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		return ok && len(x) == len(y) && maps.EqualFunc(x, y, equalAny)
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, equalAny)
	}
	return a == b
}

// Count returns the number of nodes in the tree rooted at y.
func (y *Node) Count() int {
	n := 1
	for _, c := range y.Content {
		n += c.Count()
	}
	return n
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyAny(v)
	}
	return out
}

func deepCopyAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepCopyAny(x[i])
		}
		return out
	default:
		return x
	}
}
