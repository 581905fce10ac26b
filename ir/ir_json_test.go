package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarshalWireShape(t *testing.T) {
	doc := Document(Paragraph(
		Text("The quick brown fox jumps over the lazy "),
		Hyperlink("https://zombo.com", Text("dog")),
		Text(""),
	))
	got, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"nodeType":"document","data":{},"content":[` +
		`{"nodeType":"paragraph","data":{},"content":[` +
		`{"nodeType":"text","value":"The quick brown fox jumps over the lazy ","marks":[],"data":{}},` +
		`{"nodeType":"hyperlink","data":{"uri":"https://zombo.com"},"content":[{"nodeType":"text","value":"dog","marks":[],"data":{}}]},` +
		`{"nodeType":"text","value":"","marks":[],"data":{}}]}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestMarshalEntityTarget(t *testing.T) {
	n := EntityHyperlink(EntryLinkType, "example-entity-id", Text("My cool entry"))
	got, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"nodeType":"entry-hyperlink","data":{"target":{"sys":{"id":"example-entity-id","type":"Link","linkType":"Entry"}}},` +
		`"content":[{"nodeType":"text","value":"My cool entry","marks":[],"data":{}}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestVoidRoundTrip(t *testing.T) {
	doc := Document(EmbeddedAssetBlock("a1"), Paragraph(Text("")))
	d, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(d, []byte(`"embedded-asset-block","data":{"target":{"sys":{"id":"a1","type":"Link","linkType":"Asset"}}},"content":[]`)) {
		t.Fatalf("void content not empty on the wire: %s", d)
	}
	back, err := DecodeBytes(d)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(doc, back) {
		t.Errorf("round trip changed the tree:\n%s\n%s", MustString(doc), MustString(back))
	}
}

func TestRawDataSurvives(t *testing.T) {
	in := `{"nodeType":"document","data":{},"content":[{"nodeType":"paragraph","data":{"align":"left","n":3},` +
		`"content":[{"nodeType":"text","value":"x","marks":[{"type":"italic"},{"type":"bold"}],"data":{}}]}]}`
	doc, err := DecodeBytes([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Content[0]
	if p.Data.Raw["align"] != "left" {
		t.Errorf("raw data lost: %v", p.Data.Raw)
	}
	if diff := cmp.Diff(Marks(Bold, Italic), p.Content[0].Marks); diff != "" {
		t.Errorf("marks not canonical: %s", diff)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(doc, again) {
		t.Errorf("encode/decode changed the tree")
	}
}

func TestEmptyValue(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, EmptyDocument()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "null\n" {
		t.Errorf("empty document encoded as %q", buf.String())
	}
	for _, in := range []string{"", "null", "  null\n"} {
		doc, err := DecodeBytes([]byte(in))
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !IsEmptyDocument(doc) {
			t.Errorf("%q did not decode to the empty document", in)
		}
	}
	if Value(Document(Paragraph(Text("x")))) == nil {
		t.Errorf("non empty document has nil value")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
		path Path
	}{
		{"not a document", `{"nodeType":"paragraph","data":{},"content":[]}`, ErrBadShape, nil},
		{"missing type", `{"nodeType":"document","data":{},"content":[{"data":{},"content":[]}]}`, ErrMissingType, Path{0}},
		{"missing value", `{"nodeType":"document","content":[{"nodeType":"paragraph","content":[{"nodeType":"text","marks":[]}]}]}`, ErrMissingValue, Path{0, 0}},
		{"garbage", `{`, ErrBadShape, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tc.in))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("not a DecodeError: %T", err)
			}
			if !de.Path.Equal(tc.path) {
				t.Errorf("path %s, want %s", de.Path, tc.path)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Document(Paragraph(Text("x", Bold, Italic)))
	b := Document(Paragraph(&Node{Type: TextType, Value: "x", Marks: []Mark{{Type: Italic}, {Type: Bold}}}))
	if FingerprintOf(a) != FingerprintOf(b) {
		t.Errorf("mark order changed the fingerprint")
	}
	if FingerprintOf(a) == FingerprintOf(Document(Paragraph(Text("y")))) {
		t.Errorf("different documents share a fingerprint")
	}
	if FingerprintOf(EmptyDocument()) != FingerprintOf(Document(Paragraph(Text("")))) {
		t.Errorf("empty documents differ")
	}
}
