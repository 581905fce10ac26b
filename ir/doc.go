// Package ir provides the in memory representation of rich text documents.
//
// # Overview
//
// A document is a tree of nodes. The root has type DocumentType and holds
// blocks. Blocks hold either other blocks (containers such as lists, quotes
// and tables) or text and inline nodes (leaf blocks such as paragraphs and
// headings). Inline nodes hold text only and never nest.
//
// The tree is a strict tree: a node has exactly one parent and is never
// shared. Positions are addressed with Path values (child indices from the
// root) and Point values (a path to a text node plus a byte offset).
//
// # Wire format
//
// Nodes encode to the portable rich text JSON shape:
//
//	{"nodeType": "hyperlink", "data": {"uri": "https://example.com"},
//	 "content": [{"nodeType": "text", "value": "label", "marks": [], "data": {}}]}
//
// The field names uri and target.sys.{id,type,linkType} are a wire contract
// with downstream renderers and must not change.
//
// Void nodes (embeds and rules) keep one empty text child in memory so that
// every block has a text position. The child is dropped on encoding and
// restored on decoding.
//
// The external value of a document is nil when it holds only one empty
// paragraph. Encode writes "null" for it and Decode reads "null" back as the
// empty document.
//
// # Creating Nodes
//
//	doc := ir.Document(
//	    ir.Paragraph(
//	        ir.Text("see "),
//	        ir.Hyperlink("https://example.com", ir.Text("here")),
//	        ir.Text(""),
//	    ),
//	)
package ir
