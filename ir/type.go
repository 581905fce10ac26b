package ir

import (
	"fmt"
	"strings"
)

// NodeType is the wire "nodeType" of a node.
type NodeType string

const (
	DocumentType NodeType = "document"
	TextType     NodeType = "text"

	ParagraphType     NodeType = "paragraph"
	Heading1Type      NodeType = "heading-1"
	Heading2Type      NodeType = "heading-2"
	Heading3Type      NodeType = "heading-3"
	Heading4Type      NodeType = "heading-4"
	Heading5Type      NodeType = "heading-5"
	Heading6Type      NodeType = "heading-6"
	UnorderedListType NodeType = "unordered-list"
	OrderedListType   NodeType = "ordered-list"
	ListItemType      NodeType = "list-item"
	QuoteType         NodeType = "blockquote"
	HRType            NodeType = "hr"

	TableType           NodeType = "table"
	TableRowType        NodeType = "table-row"
	TableCellType       NodeType = "table-cell"
	TableHeaderCellType NodeType = "table-header-cell"

	EmbeddedEntryBlockType    NodeType = "embedded-entry-block"
	EmbeddedAssetBlockType    NodeType = "embedded-asset-block"
	EmbeddedResourceBlockType NodeType = "embedded-resource-block"

	HyperlinkType              NodeType = "hyperlink"
	EntryHyperlinkType         NodeType = "entry-hyperlink"
	AssetHyperlinkType         NodeType = "asset-hyperlink"
	EmbeddedEntryInlineType    NodeType = "embedded-entry-inline"
	EmbeddedResourceInlineType NodeType = "embedded-resource-inline"
)

var headings = [...]NodeType{
	Heading1Type, Heading2Type, Heading3Type,
	Heading4Type, Heading5Type, Heading6Type,
}

func (t NodeType) String() string {
	return string(t)
}

func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

func (t *NodeType) UnmarshalText(d []byte) error {
	if len(d) == 0 {
		return fmt.Errorf("empty node type")
	}
	*t = NodeType(d)
	return nil
}

// BlockTypes lists the built in block node types in schema order.
func BlockTypes() []NodeType {
	return []NodeType{
		ParagraphType,
		Heading1Type, Heading2Type, Heading3Type,
		Heading4Type, Heading5Type, Heading6Type,
		UnorderedListType, OrderedListType, ListItemType,
		QuoteType, HRType,
		TableType, TableRowType, TableCellType, TableHeaderCellType,
		EmbeddedEntryBlockType, EmbeddedAssetBlockType, EmbeddedResourceBlockType,
	}
}

// InlineTypes lists the built in inline node types.
func InlineTypes() []NodeType {
	return []NodeType{
		HyperlinkType, EntryHyperlinkType, AssetHyperlinkType,
		EmbeddedEntryInlineType, EmbeddedResourceInlineType,
	}
}

func (t NodeType) IsText() bool { return t == TextType }

func (t NodeType) IsBlock() bool {
	switch t {
	case DocumentType, TextType:
		return false
	}
	return !t.IsInline()
}

func (t NodeType) IsInline() bool {
	switch t {
	case HyperlinkType, EntryHyperlinkType, AssetHyperlinkType,
		EmbeddedEntryInlineType, EmbeddedResourceInlineType:
		return true
	}
	return false
}

// IsLink reports whether t is one of the three link inlines that carry a
// user visible label.
func (t NodeType) IsLink() bool {
	switch t {
	case HyperlinkType, EntryHyperlinkType, AssetHyperlinkType:
		return true
	}
	return false
}

// IsEntityLink reports whether t links to an entity rather than a URI.
func (t NodeType) IsEntityLink() bool {
	return t == EntryHyperlinkType || t == AssetHyperlinkType
}

func (t NodeType) IsHeading() bool {
	return strings.HasPrefix(string(t), "heading-") && t.HeadingLevel() != 0
}

// HeadingLevel returns 1-6 for heading types and 0 otherwise.
func (t NodeType) HeadingLevel() int {
	for i, h := range headings {
		if h == t {
			return i + 1
		}
	}
	return 0
}

// Heading returns the heading type for level, clamped to 1-6.
func Heading(level int) NodeType {
	level = max(1, min(level, len(headings)))
	return headings[level-1]
}

func (t NodeType) IsList() bool {
	return t == UnorderedListType || t == OrderedListType
}

// IsTextBlock reports whether blocks of type t hold text and inlines
// directly.
func (t NodeType) IsTextBlock() bool {
	return t == ParagraphType || t.IsHeading()
}

// IsContainer reports whether blocks of type t hold other blocks.
func (t NodeType) IsContainer() bool {
	switch t {
	case DocumentType, UnorderedListType, OrderedListType, ListItemType,
		QuoteType, TableType, TableRowType, TableCellType, TableHeaderCellType:
		return true
	}
	return false
}

// IsVoid reports whether t is a built in void type. Pipelines may declare
// more through their schema.
func (t NodeType) IsVoid() bool {
	switch t {
	case HRType, EmbeddedEntryBlockType, EmbeddedAssetBlockType, EmbeddedResourceBlockType,
		EmbeddedEntryInlineType, EmbeddedResourceInlineType:
		return true
	}
	return false
}

// Link types carried in Link.Sys.LinkType.
const (
	EntryLinkType = "Entry"
	AssetLinkType = "Asset"
)

// LinkTypeOf returns the entity link type an entity hyperlink type binds to.
func LinkTypeOf(t NodeType) string {
	switch t {
	case EntryHyperlinkType, EmbeddedEntryBlockType, EmbeddedEntryInlineType:
		return EntryLinkType
	case AssetHyperlinkType, EmbeddedAssetBlockType:
		return AssetLinkType
	}
	return ""
}

// HyperlinkTypeFor maps an entity link type to its hyperlink node type.
func HyperlinkTypeFor(linkType string) (NodeType, bool) {
	switch linkType {
	case EntryLinkType:
		return EntryHyperlinkType, true
	case AssetLinkType:
		return AssetHyperlinkType, true
	}
	return "", false
}
