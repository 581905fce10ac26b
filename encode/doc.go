// Package encode renders documents as an indented outline for people to
// read, optionally colored. Use ir.Encode for the wire format.
//
// # Usage
//
//	doc := ir.Document(ir.Paragraph(ir.Text("hi", ir.Bold)))
//	err := encode.Encode(doc, os.Stdout, encode.EncodeColors(encode.NewColors()))
//
// produces
//
//	document
//	  paragraph
//	    text "hi" [bold]
package encode
