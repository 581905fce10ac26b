package ir

// Text returns a text node. Marks are stored in canonical order.
func Text(value string, marks ...string) *Node {
	return &Node{Type: TextType, Value: value, Marks: Marks(marks...)}
}

// Element returns an element node of type t holding content.
func Element(t NodeType, data Data, content ...*Node) *Node {
	if content == nil {
		content = []*Node{}
	}
	return &Node{Type: t, Data: data, Content: content}
}

func Document(blocks ...*Node) *Node {
	return Element(DocumentType, Data{}, blocks...)
}

// EmptyDocument is the pristine editor value: one empty paragraph.
func EmptyDocument() *Node {
	return Document(Paragraph(Text("")))
}

func Paragraph(content ...*Node) *Node {
	return Element(ParagraphType, Data{}, content...)
}

func HeadingBlock(level int, content ...*Node) *Node {
	return Element(Heading(level), Data{}, content...)
}

func Quote(blocks ...*Node) *Node {
	return Element(QuoteType, Data{}, blocks...)
}

func List(t NodeType, items ...*Node) *Node {
	return Element(t, Data{}, items...)
}

func ListItem(blocks ...*Node) *Node {
	return Element(ListItemType, Data{}, blocks...)
}

func HR() *Node {
	return Element(HRType, Data{}, Text(""))
}

func Table(rows ...*Node) *Node {
	return Element(TableType, Data{}, rows...)
}

func TableRow(cells ...*Node) *Node {
	return Element(TableRowType, Data{}, cells...)
}

func TableCell(blocks ...*Node) *Node {
	return Element(TableCellType, Data{}, blocks...)
}

func Hyperlink(uri string, label ...*Node) *Node {
	return Element(HyperlinkType, Data{URI: uri}, label...)
}

// EntityHyperlink returns an entry or asset hyperlink depending on
// linkType.
func EntityHyperlink(linkType, id string, label ...*Node) *Node {
	t, ok := HyperlinkTypeFor(linkType)
	if !ok {
		t = EntryHyperlinkType
	}
	return Element(t, Data{Target: NewLink(linkType, id)}, label...)
}

func EmbeddedEntryBlock(id string) *Node {
	return Element(EmbeddedEntryBlockType, Data{Target: NewLink(EntryLinkType, id)}, Text(""))
}

func EmbeddedAssetBlock(id string) *Node {
	return Element(EmbeddedAssetBlockType, Data{Target: NewLink(AssetLinkType, id)}, Text(""))
}

func EmbeddedResourceBlock(urn string) *Node {
	return Element(EmbeddedResourceBlockType, Data{Target: NewResourceLink("Contentful:Entry", urn)}, Text(""))
}

func EmbeddedEntryInline(id string) *Node {
	return Element(EmbeddedEntryInlineType, Data{Target: NewLink(EntryLinkType, id)}, Text(""))
}

func EmbeddedResourceInline(urn string) *Node {
	return Element(EmbeddedResourceInlineType, Data{Target: NewResourceLink("Contentful:Entry", urn)}, Text(""))
}

// Value is the externally visible value of a document: nil when the
// document holds nothing but a single empty paragraph.
func Value(root *Node) *Node {
	if root == nil || IsEmptyDocument(root) {
		return nil
	}
	return root
}

func IsEmptyDocument(root *Node) bool {
	if root.Type != DocumentType || len(root.Content) != 1 {
		return false
	}
	p := root.Content[0]
	if p.Type != ParagraphType {
		return false
	}
	for _, c := range p.Content {
		if c.Type != TextType || c.Value != "" {
			return false
		}
	}
	return true
}
