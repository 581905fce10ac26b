package normalize

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/richtext/ir"
)

func run(t *testing.T, rules []Rule, in *ir.Node) *ir.Node {
	t.Helper()
	out, _, err := New(nil, rules).Normalize(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return out
}

func TestCore(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		want *ir.Node
	}{
		{
			name: "empty document",
			in:   ir.Document(),
			want: ir.EmptyDocument(),
		},
		{
			name: "empty paragraph",
			in:   ir.Document(ir.Paragraph()),
			want: ir.EmptyDocument(),
		},
		{
			name: "merge equal marks",
			in: ir.Document(ir.Paragraph(
				ir.Text("a", ir.Bold), ir.Text("b", ir.Bold), ir.Text("c"),
			)),
			want: ir.Document(ir.Paragraph(ir.Text("ab", ir.Bold), ir.Text("c"))),
		},
		{
			name: "drop empty text next to text",
			in: ir.Document(ir.Paragraph(
				ir.Text("", ir.Italic), ir.Text("x", ir.Bold),
			)),
			want: ir.Document(ir.Paragraph(ir.Text("x", ir.Bold))),
		},
		{
			name: "flank inline",
			in: ir.Document(ir.Paragraph(
				ir.Hyperlink("https://zombo.com", ir.Text("dog")),
			)),
			want: ir.Document(ir.Paragraph(
				ir.Text(""),
				ir.Hyperlink("https://zombo.com", ir.Text("dog")),
				ir.Text(""),
			)),
		},
		{
			name: "flank between inlines",
			in: ir.Document(ir.Paragraph(
				ir.Hyperlink("u", ir.Text("a")),
				ir.Hyperlink("v", ir.Text("b")),
			)),
			want: ir.Document(ir.Paragraph(
				ir.Text(""),
				ir.Hyperlink("u", ir.Text("a")),
				ir.Text(""),
				ir.Hyperlink("v", ir.Text("b")),
				ir.Text(""),
			)),
		},
		{
			name: "empty link removed and text merged",
			in: ir.Document(ir.Paragraph(
				ir.Text("a"), ir.Hyperlink("u", ir.Text("")), ir.Text("b"),
			)),
			want: ir.Document(ir.Paragraph(ir.Text("ab"))),
		},
		{
			name: "empty link alone collapses",
			in: ir.Document(ir.Paragraph(
				ir.Text(""), ir.Hyperlink("u"), ir.Text(""),
			)),
			want: ir.EmptyDocument(),
		},
		{
			name: "nested inline unwrapped",
			in: ir.Document(ir.Paragraph(
				ir.Text("x "),
				ir.Hyperlink("u", ir.Text("a"), ir.EntityHyperlink(ir.EntryLinkType, "e", ir.Text("b"))),
				ir.Text(""),
			)),
			want: ir.Document(ir.Paragraph(
				ir.Text("x "),
				ir.Hyperlink("u", ir.Text("ab")),
				ir.Text(""),
			)),
		},
		{
			name: "stray text wrapped",
			in:   ir.Document(ir.Text("loose"), ir.HR()),
			want: ir.Document(ir.Paragraph(ir.Text("loose")), ir.HR()),
		},
		{
			name: "stray block unwrapped",
			in:   ir.Document(ir.Paragraph(ir.Text("a"), ir.Paragraph(ir.Text("b")))),
			want: ir.Document(ir.Paragraph(ir.Text("ab"))),
		},
		{
			name: "unknown type unwrapped",
			in: ir.Document(ir.Paragraph(
				ir.Element("spoiler", ir.Data{}, ir.Text("hidden")),
			)),
			want: ir.Document(ir.Paragraph(ir.Text("hidden"))),
		},
		{
			name: "empty containers pruned",
			in: ir.Document(
				ir.List(ir.UnorderedListType, ir.ListItem()),
				ir.Paragraph(ir.Text("x")),
			),
			want: ir.Document(ir.Paragraph(ir.Text("x"))),
		},
		{
			name: "void inline kept",
			in: ir.Document(ir.Paragraph(
				ir.Text("a"), ir.EmbeddedEntryInline("e"),
			)),
			want: ir.Document(ir.Paragraph(
				ir.Text("a"), ir.EmbeddedEntryInline("e"), ir.Text(""),
			)),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, Core(), tc.in)
			if !ir.Equal(got, tc.want) {
				t.Errorf("got\n%s\nwant\n%s", ir.MustString(got), ir.MustString(tc.want))
			}
		})
	}
}

func messy() *ir.Node {
	return ir.Document(
		ir.Text("stray"),
		ir.Paragraph(
			ir.Text("a", ir.Bold), ir.Text("b", ir.Bold),
			ir.Hyperlink("u", ir.Text(""), ir.Hyperlink("v", ir.Text("in"))),
			ir.Hyperlink("w"),
			ir.Text(""), ir.Text("", ir.Code),
			ir.Element("unknown", ir.Data{}, ir.Text("k")),
		),
		ir.Quote(),
		ir.List(ir.OrderedListType, ir.ListItem(ir.Paragraph())),
		ir.Paragraph(ir.EntityHyperlink(ir.AssetLinkType, "a1", ir.Text("asset"))),
	)
}

func TestIdempotent(t *testing.T) {
	once := run(t, Core(), messy())
	stats, err := New(nil, Core()).Check(once)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Normalized() {
		t.Fatalf("second run rewrote: %v", stats.Fired)
	}
}

func TestOrderIndependent(t *testing.T) {
	want := run(t, Core(), messy())
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		rules := Core()
		r.Shuffle(len(rules), func(i, j int) { rules[i], rules[j] = rules[j], rules[i] })
		got := run(t, rules, messy())
		if !ir.Equal(got, want) {
			names := make([]string, len(rules))
			for i := range rules {
				names[i] = rules[i].Name()
			}
			t.Fatalf("order %v:\n%s", names, cmp.Diff(ir.MustString(want), ir.MustString(got)))
		}
	}
}

func TestNonConvergent(t *testing.T) {
	flip := RuleFunc("flip", func(ctx *Context, n *ir.Node) Result {
		if n.Type != ir.ParagraphType {
			return Pass
		}
		n.Content[0].Value += "x"
		return Changed
	})
	in := ir.Document(ir.Paragraph(ir.Text("a")))
	out, stats, err := New(nil, []Rule{flip}, WithMaxIterationsPerNode(3)).Normalize(in)
	if !errors.Is(err, ErrNonConvergent) {
		t.Fatalf("expected ErrNonConvergent, got %v", err)
	}
	var nce *NonConvergentError
	if !errors.As(err, &nce) || nce.Rule != "flip" {
		t.Fatalf("expected flip to be blamed, got %v", err)
	}
	if out != nil {
		t.Errorf("expected no result, got %s", ir.MustString(out))
	}
	if stats.Rewrites != 3*3+1 {
		t.Errorf("rewrites %d", stats.Rewrites)
	}
	if in.Content[0].Content[0].Value != "a" {
		t.Errorf("input was modified")
	}
}

func TestSettledVetoes(t *testing.T) {
	keep := RuleFunc("keep-empty-quote", func(ctx *Context, n *ir.Node) Result {
		if n.Type == ir.DocumentType {
			return Settled
		}
		return Pass
	})
	in := ir.Document(ir.Quote(), ir.Paragraph(ir.Text("x")))
	got := run(t, append([]Rule{keep}, Core()...), in)
	if !ir.Equal(got, in) {
		t.Errorf("settled node was rewritten: %s", ir.MustString(got))
	}
}
