package richtext

import (
	"testing"

	"github.com/signadot/richtext/ir"
)

func TestMatch(t *testing.T) {
	doc := ir.Document(
		ir.Paragraph(ir.Text("a "), ir.Hyperlink("https://zombo.com", ir.Text("dog", ir.Bold)), ir.Text("")),
		ir.EmbeddedEntryBlock("e1"),
	)
	tests := []struct {
		name    string
		pattern *ir.Node
		want    bool
	}{
		{name: "nil", want: true},
		{name: "same", pattern: doc.Clone(), want: true},
		{name: "any content", pattern: ir.Element(ir.DocumentType, ir.Data{}), want: true},
		{
			name: "shape only",
			pattern: ir.Document(
				ir.Element(ir.ParagraphType, ir.Data{}),
				ir.Element(ir.EmbeddedEntryBlockType, ir.Data{Target: ir.NewLink(ir.EntryLinkType, "e1")}),
			),
			want: true,
		},
		{
			name: "marks ignored when unset",
			pattern: ir.Document(
				ir.Paragraph(ir.Text("a "), ir.Element(ir.HyperlinkType, ir.Data{}, &ir.Node{Type: ir.TextType, Value: "dog"}), ir.Text("")),
				ir.Element(ir.EmbeddedEntryBlockType, ir.Data{}),
			),
			want: true,
		},
		{
			name:    "wrong uri",
			pattern: ir.Document(ir.Paragraph(ir.Text("a "), ir.Hyperlink("https://x.y"), ir.Text("")), ir.Element(ir.EmbeddedEntryBlockType, ir.Data{})),
			want:    false,
		},
		{
			name:    "wrong target",
			pattern: ir.Document(ir.Element(ir.ParagraphType, ir.Data{}), ir.EmbeddedEntryBlock("e2")),
			want:    false,
		},
		{
			name:    "too few blocks",
			pattern: ir.Document(ir.Element(ir.ParagraphType, ir.Data{})),
			want:    false,
		},
		{
			name:    "wrong type",
			pattern: ir.Element(ir.ParagraphType, ir.Data{}),
			want:    false,
		},
		{
			name: "raw data",
			pattern: ir.Document(
				ir.Element(ir.ParagraphType, ir.Data{Raw: map[string]any{"k": "v"}}),
				ir.Element(ir.EmbeddedEntryBlockType, ir.Data{}),
			),
			want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Match(doc, tc.pattern); got != tc.want {
				t.Errorf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}
