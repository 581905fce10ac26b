// Package paste turns pasted HTML into document fragments.
package paste

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/schema"
)

const MIMEType = "text/html"

var blocks = map[string]ir.NodeType{
	"p":          ir.ParagraphType,
	"div":        ir.ParagraphType,
	"h1":         ir.Heading1Type,
	"h2":         ir.Heading2Type,
	"h3":         ir.Heading3Type,
	"h4":         ir.Heading4Type,
	"h5":         ir.Heading5Type,
	"h6":         ir.Heading6Type,
	"blockquote": ir.QuoteType,
	"ul":         ir.UnorderedListType,
	"ol":         ir.OrderedListType,
	"li":         ir.ListItemType,
	"hr":         ir.HRType,
	"table":      ir.TableType,
	"tr":         ir.TableRowType,
	"td":         ir.TableCellType,
	"th":         ir.TableHeaderCellType,
}

var marks = map[string]string{
	"b":      ir.Bold,
	"strong": ir.Bold,
	"i":      ir.Italic,
	"em":     ir.Italic,
	"u":      ir.Underline,
	"code":   ir.Code,
	"sup":    ir.Superscript,
	"sub":    ir.Subscript,
	"s":      ir.Strikethrough,
	"del":    ir.Strikethrough,
	"strike": ir.Strikethrough,
}

// elements dropped with their content
var dropped = map[string]bool{"script": true, "style": true, "head": true, "title": true, "meta": true}

var space = regexp.MustCompile(`\s+`)

// voidTags are HTML elements without a closing tag.
var voidTags = []string{"br", "hr", "img", "meta", "link", "input", "col", "wbr"}

// Deserialize parses an HTML fragment into nodes allowed by s. Elements
// s does not know are replaced by their content and unknown marks are
// dropped. The result may mix blocks and inline content; the editor
// wraps and normalizes it on insertion.
func Deserialize(html string, s *schema.Schema) ([]*ir.Node, error) {
	if s == nil {
		s = schema.Default()
	}
	root, err := xmlquery.ParseWithOptions(strings.NewReader("<root>"+html+"</root>"), xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict:    false,
			AutoClose: voidTags,
			Entity:    xml.HTMLEntity,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("parsing pasted html: %w", err)
	}
	top := xmlquery.FindOne(root, "/root")
	if top == nil {
		return nil, fmt.Errorf("parsing pasted html: no content")
	}
	d := &deserializer{schema: s}
	return d.children(top, nil), nil
}

type deserializer struct {
	schema *schema.Schema
}

func (d *deserializer) children(n *xmlquery.Node, ms []string) []*ir.Node {
	var res []*ir.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		res = append(res, d.node(c, ms)...)
	}
	return res
}

func (d *deserializer) node(n *xmlquery.Node, ms []string) []*ir.Node {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		v := space.ReplaceAllString(n.Data, " ")
		if strings.TrimSpace(v) == "" {
			// whitespace between blocks
			if n.PrevSibling == nil || n.NextSibling == nil || isBlock(n.PrevSibling) || isBlock(n.NextSibling) {
				return nil
			}
		}
		return []*ir.Node{ir.Text(v, ms...)}
	case xmlquery.ElementNode:
	default:
		return nil
	}
	tag := strings.ToLower(n.Data)
	switch {
	case dropped[tag]:
		return nil
	case tag == "br":
		return []*ir.Node{ir.Text("\n", ms...)}
	case tag == "a":
		content := d.children(n, ms)
		href := strings.TrimSpace(n.SelectAttr("href"))
		if href == "" || !d.schema.Known(ir.HyperlinkType) {
			return content
		}
		return []*ir.Node{ir.Hyperlink(href, content...)}
	}
	if m, ok := marks[tag]; ok {
		if d.schema.MarkAllowed(m) {
			ms = append(ms[:len(ms):len(ms)], m)
		}
		return d.children(n, ms)
	}
	t, ok := blocks[tag]
	if !ok || !d.schema.Known(t) {
		return d.children(n, ms)
	}
	if d.schema.IsVoid(t) {
		return []*ir.Node{ir.Element(t, ir.Data{}, ir.Text(""))}
	}
	return []*ir.Node{ir.Element(t, ir.Data{}, d.children(n, nil)...)}
}

func isBlock(n *xmlquery.Node) bool {
	if n.Type != xmlquery.ElementNode {
		return false
	}
	_, ok := blocks[strings.ToLower(n.Data)]
	return ok
}
