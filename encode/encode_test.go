package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/richtext/ir"
)

func TestEncodeOutline(t *testing.T) {
	doc := ir.Document(
		ir.HeadingBlock(1, ir.Text("Title", ir.Bold, ir.Italic)),
		ir.Paragraph(
			ir.Text("go "),
			ir.Hyperlink("https://zombo.com", ir.Text("here")),
			ir.Text(""),
		),
		ir.EmbeddedEntryBlock("abc"),
	)
	want := strings.Join([]string{
		"document",
		"  heading-1",
		`    text "Title" [bold italic]`,
		"  paragraph",
		`    text "go "`,
		"    hyperlink uri=https://zombo.com",
		`      text "here"`,
		`    text ""`,
		"  embedded-entry-block target=Entry:abc",
	}, "\n")
	if diff := cmp.Diff(want, MustString(doc)); diff != "" {
		t.Errorf("outline (-want +got)\n%s", diff)
	}
}

func TestEncodeOptions(t *testing.T) {
	doc := ir.Document(ir.Paragraph(ir.Text("x")))
	tests := []struct {
		name string
		opts []EncodeOption
		want string
	}{
		{name: "depth", opts: []EncodeOption{Depth(1)}, want: "document"},
		{name: "indent", opts: []EncodeOption{Indent(4)}, want: "document\n    paragraph\n        text \"x\""},
		{name: "paths", opts: []EncodeOption{EncodePaths(true), Depth(2)}, want: "$        document\n$[0]       paragraph"},
		{name: "wire", opts: []EncodeOption{EncodeWire(true)}, want: `{"nodeType":"document","data":{},"content":[{"nodeType":"paragraph","data":{},"content":[{"nodeType":"text","value":"x","marks":[],"data":{}}]}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, MustString(doc, tc.opts...)); diff != "" {
				t.Errorf("(-want +got)\n%s", diff)
			}
		})
	}
}

func TestEncodeNullAndColors(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(nil, buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "null\n" {
		t.Errorf("got %q", got)
	}
	c := NewColors()
	c.Map = map[ColorAttr]func(string, ...any) string{
		TextColor: func(s string, _ ...any) string { return "<" + s + ">" },
	}
	got := MustString(ir.Document(ir.Paragraph(ir.Text("x"))), EncodeColors(c))
	if want := "document\n  paragraph\n    <text \"x\">"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
