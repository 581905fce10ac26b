package plugins

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/signadot/richtext/config"
	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/tracking"
	"github.com/stretchr/testify/require"
)

var boldCalls = map[string]int{}

func boldCounter(key string) Factory {
	return func(bc *BuildContext) (*editor.Unit, error) {
		return &editor.Unit{
			Key: key,
			Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
				if !ev.Is("mod+b") {
					return false, nil
				}
				boldCalls[key]++
				return true, nil
			}),
		}, nil
	}
}

func init() {
	MustRegister("test-early-bold", boldCounter("test-early-bold"))
	MustRegister("test-late-bold", boldCounter("test-late-bold"))
}

func open(t *testing.T, value *ir.Node, o Options) (*editor.Editor, *Set, *tracking.Recorder) {
	t.Helper()
	rec := &tracking.Recorder{}
	if o.Tracker == nil {
		o.Tracker = rec
	}
	set, err := Compose(o)
	require.NoError(t, err)
	e, err := editor.New(value, set.Pipeline)
	require.NoError(t, err)
	return e, set, rec
}

func requireDoc(t *testing.T, want, got *ir.Node) {
	t.Helper()
	if !ir.Equal(want, got) {
		t.Fatalf("want\n%s\ngot\n%s", ir.MustString(want), ir.MustString(got))
	}
}

func key(t *testing.T, e *editor.Editor, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, err := e.HandleKey(editor.MustParseKey(k))
		require.NoError(t, err)
	}
}

func TestComposeOrder(t *testing.T) {
	host := &config.Host{Palette: []string{string(ir.EmbeddedEntryBlockType)}}
	set, err := Compose(Options{Host: host, PreLoad: []string{"test-early-bold"}, PostLoad: []string{"test-late-bold"}})
	require.NoError(t, err)
	want := []string{
		"tracking", "test-early-bold", "drag-and-drop", "command-palette",
		"paragraph", "list", "hr", "heading", "quote", "table",
		"embedded-entry-block", "embedded-asset-block", "embedded-resource-block",
		"hyperlink", "embedded-entity-inline", "embedded-resource-inline",
		"marks", "trailing-paragraph", "text", "voids", "select-on-backspace",
		"paste-html", "soft-break", "exit-break", "reset-node", "normalizer",
		"test-late-bold",
	}
	if diff := cmp.Diff(want, set.Pipeline.Keys()); diff != "" {
		t.Errorf("order (-want +got)\n%s", diff)
	}
	require.NotNil(t, set.Palette)
	require.NotNil(t, set.Links)

	set, err = Compose(Options{})
	require.NoError(t, err)
	require.Nil(t, set.Palette)
	require.Nil(t, set.Pipeline.Unit(PaletteKey))
}

func TestComposeErrors(t *testing.T) {
	_, err := Compose(Options{PreLoad: []string{"nope"}})
	require.ErrorIs(t, err, ErrUnknownFactory)
	_, err = Compose(Options{Host: &config.Host{EnabledNodeTypes: []string{"bogus"}}})
	require.ErrorIs(t, err, config.ErrInvalid)
	require.ErrorIs(t, Register(ParagraphKey, Paragraph), ErrFactoryExists)
}

func TestComposeRespectsHost(t *testing.T) {
	host := &config.Host{
		EnabledNodeTypes: []string{string(ir.ParagraphType), string(ir.HyperlinkType)},
		EnabledMarks:     []string{ir.Bold},
	}
	set, err := Compose(Options{Host: host})
	require.NoError(t, err)
	for _, k := range []string{ListKey, HRKey, HeadingKey, QuoteKey, TableKey, EmbeddedEntryBlockKey} {
		require.Nil(t, set.Pipeline.Unit(k), k)
	}
	require.Equal(t, []ir.NodeType{ir.HyperlinkType}, set.Links.AllowedTypes())

	e, err := editor.New(ir.Document(
		ir.HeadingBlock(1, ir.Text("t", ir.Bold, ir.Italic)),
		ir.Quote(ir.Paragraph(ir.Text("q"))),
	), set.Pipeline)
	require.NoError(t, err)
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("t", ir.Bold), ir.Text("q"))), e.Value())
}

func TestPreLoadVetoes(t *testing.T) {
	doc := ir.Document(ir.Paragraph(ir.Text("ab")))
	clear(boldCalls)
	e, _, _ := open(t, doc, Options{PreLoad: []string{"test-early-bold"}})
	e.SelectAll()
	key(t, e, "mod+b")
	requireDoc(t, doc, e.Value())
	require.Equal(t, 1, boldCalls["test-early-bold"])

	clear(boldCalls)
	e, _, rec := open(t, doc, Options{PostLoad: []string{"test-late-bold"}})
	e.SelectAll()
	key(t, e, "mod+b")
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("ab", ir.Bold))), e.Value())
	require.Zero(t, boldCalls["test-late-bold"])
	require.Equal(t, []tracking.Action{tracking.Mark}, rec.Actions())
}

func TestStructuralRules(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		want *ir.Node
	}{
		{
			name: "trailing paragraph",
			in:   ir.Document(ir.Paragraph(ir.Text("a")), ir.HR()),
			want: ir.Document(ir.Paragraph(ir.Text("a")), ir.HR(), ir.Paragraph(ir.Text(""))),
		},
		{
			name: "table cells",
			in:   ir.Document(ir.Table(ir.Paragraph(ir.Text("x"))), ir.Paragraph(ir.Text(""))),
			want: ir.Document(
				ir.Table(ir.TableRow(ir.TableCell(ir.Paragraph(ir.Text("x"))))),
				ir.Paragraph(ir.Text("")),
			),
		},
		{
			name: "list items",
			in:   ir.Document(ir.List(ir.OrderedListType, ir.Paragraph(ir.Text("x"))), ir.ListItem(ir.Paragraph(ir.Text("y")))),
			want: ir.Document(
				ir.List(ir.OrderedListType, ir.ListItem(ir.Paragraph(ir.Text("x")))),
				ir.Paragraph(ir.Text("y")),
			),
		},
		{
			name: "quote holds paragraphs",
			in:   ir.Document(ir.Quote(ir.HeadingBlock(2, ir.Text("h")), ir.Quote(ir.Paragraph(ir.Text("p"))))),
			want: ir.Document(
				ir.Quote(ir.Paragraph(ir.Text("h")), ir.Paragraph(ir.Text("p"))),
				ir.Paragraph(ir.Text("")),
			),
		},
		{
			name: "invalid embeds",
			in: ir.Document(
				ir.Element(ir.EmbeddedEntryBlockType, ir.Data{}, ir.Text("")),
				ir.Element(ir.EmbeddedAssetBlockType, ir.Data{Target: ir.NewLink(ir.EntryLinkType, "e1")}, ir.Text("")),
				ir.EmbeddedEntryBlock("e2"),
				ir.Paragraph(ir.Text("a")),
			),
			want: ir.Document(ir.EmbeddedEntryBlock("e2"), ir.Paragraph(ir.Text("a"))),
		},
		{
			name: "void content",
			in:   ir.Document(ir.Element(ir.HRType, ir.Data{}, ir.Text("junk", ir.Bold)), ir.Paragraph(ir.Text(""))),
			want: ir.Document(ir.HR(), ir.Paragraph(ir.Text(""))),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, _, _ := open(t, tc.in, Options{})
			requireDoc(t, tc.want, e.Root())
		})
	}
}

func TestRestrictedMarks(t *testing.T) {
	e, _, rec := open(t, ir.Document(ir.Paragraph(ir.Text("x", ir.Bold, ir.Code))), Options{RestrictedMarks: []string{ir.Code}})
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("x", ir.Bold))), e.Value())
	e.SelectAll()
	key(t, e, "mod+e")
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("x", ir.Bold))), e.Value())
	require.Empty(t, rec.Events())
	for _, it := range e.Toolbar() {
		require.NotEqual(t, ir.Code, it.Name)
	}
}

func TestPasteHTML(t *testing.T) {
	e, _, rec := open(t, nil, Options{})
	handled, err := e.Paste(editor.DataTransfer{"text/html": `<p>see <a href="https://example.com">docs</a></p>`})
	require.NoError(t, err)
	require.True(t, handled)
	requireDoc(t, ir.Document(ir.Paragraph(
		ir.Text("see "), ir.Hyperlink("https://example.com", ir.Text("docs")), ir.Text(""),
	)), e.Value())
	require.Equal(t, []tracking.Action{tracking.Paste}, rec.Actions())
}

func TestPasteHTMLRespectsURIRule(t *testing.T) {
	host := &config.Host{URIRule: `scheme == "https"`}
	e, _, _ := open(t, nil, Options{Host: host})
	html := `<p>see <a href="http://example.com">old</a> and <a href="https://example.com">new</a></p>`
	handled, err := e.Paste(editor.DataTransfer{"text/html": html})
	require.NoError(t, err)
	require.True(t, handled)
	requireDoc(t, ir.Document(ir.Paragraph(
		ir.Text("see old and "), ir.Hyperlink("https://example.com", ir.Text("new")), ir.Text(""),
	)), e.Value())
}

func TestDragAndDrop(t *testing.T) {
	table := ir.Table(ir.TableRow(ir.TableCell(ir.Paragraph(ir.Text("a")))))
	e, _, _ := open(t, ir.Document(ir.EmbeddedEntryBlock("e1"), table, ir.Paragraph(ir.Text("b"))), Options{})

	handled, err := e.Drop(editor.DropEvent{From: ir.Path{0}, To: ir.Path{1, 0, 0}})
	require.NoError(t, err)
	require.True(t, handled)
	requireDoc(t, ir.Document(ir.EmbeddedEntryBlock("e1"), table, ir.Paragraph(ir.Text("b"))), e.Value())

	handled, err = e.Drop(editor.DropEvent{From: ir.Path{2}, To: ir.Path{0}})
	require.NoError(t, err)
	require.False(t, handled)

	handled, err = e.Drop(editor.DropEvent{From: ir.Path{0}, To: ir.Path{2}})
	require.NoError(t, err)
	require.True(t, handled)
	requireDoc(t, ir.Document(table, ir.Paragraph(ir.Text("b")), ir.EmbeddedEntryBlock("e1"), ir.Paragraph(ir.Text(""))), e.Value())
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		keys []string
		want *ir.Node
	}{
		{
			name: "heading",
			in:   ir.Document(ir.Paragraph(ir.Text("t"))),
			keys: []string{"mod+alt+2"},
			want: ir.Document(ir.HeadingBlock(2, ir.Text("t")), ir.Paragraph(ir.Text(""))),
		},
		{
			name: "heading toggles back",
			in:   ir.Document(ir.Paragraph(ir.Text("t"))),
			keys: []string{"mod+alt+2", "mod+alt+2"},
			want: ir.Document(ir.Paragraph(ir.Text("t")), ir.Paragraph(ir.Text(""))),
		},
		{
			name: "soft break",
			keys: []string{"a", "shift+Enter", "b"},
			want: ir.Document(ir.Paragraph(ir.Text("a\nb"))),
		},
		{
			name: "exit break",
			in:   ir.Document(ir.Quote(ir.Paragraph(ir.Text("q")))),
			keys: []string{"mod+Enter", "x"},
			want: ir.Document(ir.Quote(ir.Paragraph(ir.Text("q"))), ir.Paragraph(ir.Text("x")), ir.Paragraph(ir.Text(""))),
		},
		{
			name: "reset heading",
			in:   ir.Document(ir.HeadingBlock(1, ir.Text("h"))),
			keys: []string{"Backspace"},
			want: ir.Document(ir.Paragraph(ir.Text("h")), ir.Paragraph(ir.Text(""))),
		},
		{
			name: "reset quote",
			in:   ir.Document(ir.Quote(ir.Paragraph(ir.Text("a")), ir.Paragraph(ir.Text("b")))),
			keys: []string{"Backspace"},
			want: ir.Document(ir.Paragraph(ir.Text("a")), ir.Quote(ir.Paragraph(ir.Text("b"))), ir.Paragraph(ir.Text(""))),
		},
		{
			name: "reset list",
			in: ir.Document(ir.List(ir.UnorderedListType,
				ir.ListItem(ir.Paragraph(ir.Text("a"))),
				ir.ListItem(ir.Paragraph(ir.Text("b"))),
			)),
			keys: []string{"Backspace"},
			want: ir.Document(
				ir.Paragraph(ir.Text("a")),
				ir.List(ir.UnorderedListType, ir.ListItem(ir.Paragraph(ir.Text("b")))),
				ir.Paragraph(ir.Text("")),
			),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, _, _ := open(t, tc.in, Options{})
			key(t, e, tc.keys...)
			requireDoc(t, tc.want, e.Value())
		})
	}
}

func TestSelectOnBackspace(t *testing.T) {
	e, _, _ := open(t, ir.Document(ir.HR(), ir.Paragraph(ir.Text("x"))), Options{})
	e.SelectLoc(editor.Loc{Block: 1}, editor.Loc{Block: 1})
	key(t, e, "Backspace")
	requireDoc(t, ir.Document(ir.HR(), ir.Paragraph(ir.Text("x"))), e.Value())
	_, focus, ok := e.SelectionLocs()
	require.True(t, ok)
	require.Equal(t, 0, focus.Block)
	key(t, e, "Backspace")
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("x"))), e.Value())
}

func TestResetNodeOnlyAppliesAtResettableStart(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		at   editor.Loc
		want *ir.Node
		tx   bool
	}{
		{
			name: "inside a paragraph",
			in:   ir.Document(ir.Paragraph(ir.Text("ab"))),
			at:   editor.Loc{Offset: 1},
			want: ir.Document(ir.Paragraph(ir.Text("b"))),
		},
		{
			name: "start of a heading",
			in:   ir.Document(ir.HeadingBlock(1, ir.Text("h"))),
			want: ir.Document(ir.Paragraph(ir.Text("h")), ir.Paragraph(ir.Text(""))),
			tx:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set, err := Compose(Options{})
			require.NoError(t, err)
			var buf bytes.Buffer
			e, err := editor.New(tc.in, set.Pipeline, editor.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
			require.NoError(t, err)
			e.SelectLoc(tc.at, tc.at)
			key(t, e, "Backspace")
			requireDoc(t, tc.want, e.Value())
			require.Equal(t, tc.tx, bytes.Contains(buf.Bytes(), []byte(`"tx":"reset_node"`)))
		})
	}
}

func TestToggleCommands(t *testing.T) {
	doc := ir.Document(ir.Paragraph(ir.Text("a")), ir.Paragraph(ir.Text("b")))
	e, _, _ := open(t, doc, Options{})
	e.SelectAll()
	require.NoError(t, e.Exec("toggle-list", "ul"))
	requireDoc(t, ir.Document(
		ir.List(ir.UnorderedListType, ir.ListItem(ir.Paragraph(ir.Text("a"))), ir.ListItem(ir.Paragraph(ir.Text("b")))),
		ir.Paragraph(ir.Text("")),
	), e.Value())
	require.NoError(t, e.Exec("toggle-list", "ul"))
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("a")), ir.Paragraph(ir.Text("b")), ir.Paragraph(ir.Text(""))), e.Value())

	e, _, _ = open(t, doc, Options{})
	e.SelectAll()
	require.NoError(t, e.Exec("toggle-quote", ""))
	requireDoc(t, ir.Document(ir.Quote(ir.Paragraph(ir.Text("a")), ir.Paragraph(ir.Text("b"))), ir.Paragraph(ir.Text(""))), e.Value())
	require.NoError(t, e.Exec("toggle-quote", ""))
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("a")), ir.Paragraph(ir.Text("b")), ir.Paragraph(ir.Text(""))), e.Value())

	require.Error(t, e.Exec("toggle-heading", "7"))
}

func TestInsertCommands(t *testing.T) {
	e, _, rec := open(t, nil, Options{})
	require.NoError(t, e.Exec("insert-embedded-asset-block", "a1"))
	requireDoc(t, ir.Document(ir.EmbeddedAssetBlock("a1"), ir.Paragraph(ir.Text(""))), e.Value())
	require.Equal(t, []tracking.Action{tracking.Insert}, rec.Actions())
	require.Error(t, e.Exec("insert-embedded-asset-block", ""))

	e, _, _ = open(t, nil, Options{})
	require.NoError(t, e.Exec("insert-table", ""))
	cell := ir.TableCell(ir.Paragraph(ir.Text("")))
	requireDoc(t, ir.Document(
		ir.Table(ir.TableRow(cell, cell.Clone()), ir.TableRow(cell.Clone(), cell.Clone())),
		ir.Paragraph(ir.Text("")),
	), e.Value())
}

func TestCommandPalette(t *testing.T) {
	host := &config.Host{Palette: []string{string(ir.EmbeddedEntryBlockType)}}
	e, set, rec := open(t, nil, Options{Host: host, Picker: links.StaticPicker("e1")})
	require.Equal(t, []ir.NodeType{ir.EmbeddedEntryBlockType}, set.Palette.Actions())

	key(t, e, "/")
	require.True(t, set.Palette.IsOpen())
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("/"))), e.Value())
	key(t, e, "Escape")
	require.False(t, set.Palette.IsOpen())

	require.ErrorIs(t, e.Exec(PaletteCommand, string(ir.HRType)), ErrNoPaletteAction)
	require.NoError(t, e.Exec(PaletteCommand, string(ir.EmbeddedEntryBlockType)))
	requireDoc(t, ir.Document(ir.EmbeddedEntryBlock("e1"), ir.Paragraph(ir.Text(""))), e.Value())
	require.Equal(t, []tracking.Action{tracking.Insert}, rec.Actions())

	cancelled := links.PickerFunc(func(ctx context.Context, linkType string) (*ir.Link, error) {
		return nil, links.ErrCancelled
	})
	e, set, _ = open(t, nil, Options{Host: host, Picker: cancelled})
	key(t, e, "/")
	require.NoError(t, set.Palette.Run(context.Background(), e, ir.EmbeddedEntryBlockType))
	require.False(t, set.Palette.IsOpen())
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("/"))), e.Value())

	e, _, _ = open(t, nil, Options{})
	key(t, e, "/")
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("/"))), e.Value())
}
