package editor

import (
	"errors"
	"testing"

	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
	"github.com/signadot/richtext/tracking"
	"github.com/stretchr/testify/require"
)

func coreUnit() *Unit {
	return &Unit{Key: "normalizer", Schema: schema.Builtin(), Rules: normalize.Core()}
}

func newEditor(t *testing.T, value *ir.Node, units ...*Unit) *Editor {
	t.Helper()
	p, err := NewPipeline(append(units, coreUnit())...)
	require.NoError(t, err)
	e, err := New(value, p)
	require.NoError(t, err)
	return e
}

func requireDoc(t *testing.T, want, got *ir.Node) {
	t.Helper()
	if !ir.Equal(want, got) {
		t.Fatalf("want\n%s\ngot\n%s", ir.MustString(want), ir.MustString(got))
	}
}

func TestTypeAndDelete(t *testing.T) {
	e := newEditor(t, nil)
	require.Nil(t, e.Value())
	require.NoError(t, e.InsertText("héllo"))
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("héllo"))), e.Value())
	for range 5 {
		require.NoError(t, e.DeleteBackward())
	}
	require.Nil(t, e.Value())
	// at the start of the document backspace does nothing
	require.NoError(t, e.DeleteBackward())
	require.Nil(t, e.Value())
}

func TestBreakAndMerge(t *testing.T) {
	e := newEditor(t, nil)
	require.NoError(t, e.InsertText("abcd"))
	e.SelectLoc(Loc{Offset: 2}, Loc{Offset: 2})
	require.NoError(t, e.InsertBreak())
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("ab")), ir.Paragraph(ir.Text("cd"))), e.Value())
	sel, ok := e.Selection()
	require.True(t, ok)
	require.Equal(t, ir.Point{Path: ir.Path{1, 0}}, sel.Focus)

	require.NoError(t, e.DeleteBackward())
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("abcd"))), e.Value())
	sel, _ = e.Selection()
	require.Equal(t, ir.Point{Path: ir.Path{0, 0}, Offset: 2}, sel.Focus)
}

func TestDeleteFragmentAcrossBlocks(t *testing.T) {
	doc := ir.Document(
		ir.Paragraph(ir.Text("one")),
		ir.HeadingBlock(2, ir.Text("two")),
		ir.Paragraph(ir.Text("three")),
	)
	e := newEditor(t, doc)
	e.SelectLoc(Loc{Block: 0, Offset: 1}, Loc{Block: 2, Offset: 2})
	require.NoError(t, e.DeleteFragment())
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("oree"))), e.Value())

	e.SelectAll()
	require.NoError(t, e.DeleteBackward())
	require.Nil(t, e.Value())
}

func TestToggleMark(t *testing.T) {
	e := newEditor(t, ir.Document(ir.Paragraph(ir.Text("plain bold"))))
	e.SelectLoc(Loc{Offset: 6}, Loc{Offset: 10})
	added, err := e.ToggleMark(ir.Bold)
	require.NoError(t, err)
	require.True(t, added)
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("plain "), ir.Text("bold", ir.Bold))), e.Value())

	added, err = e.ToggleMark(ir.Bold)
	require.NoError(t, err)
	require.False(t, added)
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("plain bold"))), e.Value())

	// collapsed: the mark applies to the next typed text
	e.SelectLoc(Loc{Offset: 10}, Loc{Offset: 10})
	_, err = e.ToggleMark(ir.Italic)
	require.NoError(t, err)
	require.Equal(t, []string{ir.Italic}, e.ActiveMarks())
	require.NoError(t, e.InsertText("!"))
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("plain bold"), ir.Text("!", ir.Italic))), e.Value())
}

func TestSelectionSurvivesNormalization(t *testing.T) {
	e := newEditor(t, ir.Document(ir.Paragraph(ir.Text("see here"))))
	e.SelectLoc(Loc{Offset: 4}, Loc{Offset: 8})
	_, err := e.Apply("wrap", func(tx *Tx) error {
		require.True(t, tx.WrapInline(ir.Hyperlink("https://example.com")))
		return nil
	})
	require.NoError(t, err)
	requireDoc(t, ir.Document(ir.Paragraph(
		ir.Text("see "), ir.Hyperlink("https://example.com", ir.Text("here")), ir.Text(""),
	)), e.Value())
	// the cursor sits after the link, in the trailing text
	sel, ok := e.Selection()
	require.True(t, ok)
	require.Equal(t, ir.Point{Path: ir.Path{0, 2}}, sel.Focus)
	require.NoError(t, e.InsertText("!"))
	requireDoc(t, ir.Document(ir.Paragraph(
		ir.Text("see "), ir.Hyperlink("https://example.com", ir.Text("here")), ir.Text("!"),
	)), e.Value())
}

func TestFailedApplyCommitsNothing(t *testing.T) {
	e := newEditor(t, ir.Document(ir.Paragraph(ir.Text("x"))))
	boom := errors.New("boom")
	changed, err := e.Apply("fail", func(tx *Tx) error {
		tx.Root.Content[0].Content[0].Value = "changed"
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, changed)
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("x"))), e.Value())
}

func TestNonConvergentUnit(t *testing.T) {
	grow := normalize.RuleFunc("grow", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		if n.Type != ir.ParagraphType || n.Text() == "x" {
			return normalize.Pass
		}
		n.Content = append(n.Content, ir.Text("", ir.Bold))
		return normalize.Changed
	})
	e := newEditor(t, ir.Document(ir.Paragraph(ir.Text("x"))), &Unit{Key: "grow", Rules: []normalize.Rule{grow}})
	before := e.Root()
	err := e.InsertText("y")
	require.ErrorIs(t, err, normalize.ErrNonConvergent)
	requireDoc(t, before, e.Root())
}

func TestTrackingOnlyOnNetChange(t *testing.T) {
	rec := &tracking.Recorder{}
	e := newEditor(t, ir.Document(ir.Paragraph(ir.Text("x"))))
	e.SetTracker(rec)
	_, err := e.Apply("noop", func(tx *Tx) error {
		// normalization undoes this
		tx.Root.Content[0].Content = append(tx.Root.Content[0].Content, ir.Text(""))
		tx.Track(tracking.Edit, tracking.Payload{})
		return nil
	})
	require.NoError(t, err)
	require.Empty(t, rec.Events())

	_, err = e.Apply("real", func(tx *Tx) error {
		tx.Track(tracking.Edit, tracking.Payload{NodeType: ir.ParagraphType})
		return tx.InsertText("y")
	})
	require.NoError(t, err)
	evs := rec.Events()
	require.Len(t, evs, 1)
	require.Equal(t, e.ID(), evs[0].Payload.EditorID)
	require.NotEmpty(t, evs[0].Payload.Patch)
}

func TestPasteText(t *testing.T) {
	e := newEditor(t, nil)
	handled, err := e.Paste(DataTransfer{"text/plain": "one\ntwo"})
	require.NoError(t, err)
	require.True(t, handled)
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("one")), ir.Paragraph(ir.Text("two"))), e.Value())
}

func TestInsertBlockFragment(t *testing.T) {
	e := newEditor(t, ir.Document(ir.Paragraph(ir.Text("abcd"))))
	e.SelectLoc(Loc{Offset: 2}, Loc{Offset: 2})
	require.NoError(t, e.InsertFragment(ir.HR()))
	requireDoc(t, ir.Document(
		ir.Paragraph(ir.Text("ab")), ir.HR(), ir.Paragraph(ir.Text("cd")),
	), e.Value())

	// backspace at the start of the block after a void removes the void
	e.SelectLoc(Loc{Block: 2}, Loc{Block: 2})
	require.NoError(t, e.DeleteBackward())
	requireDoc(t, ir.Document(ir.Paragraph(ir.Text("ab")), ir.Paragraph(ir.Text("cd"))), e.Value())
}

func TestMoveBlock(t *testing.T) {
	e := newEditor(t, ir.Document(
		ir.Paragraph(ir.Text("a")), ir.Paragraph(ir.Text("b")), ir.Paragraph(ir.Text("c")),
	))
	require.NoError(t, e.MoveBlock(0, 2))
	requireDoc(t, ir.Document(
		ir.Paragraph(ir.Text("b")), ir.Paragraph(ir.Text("c")), ir.Paragraph(ir.Text("a")),
	), e.Value())
}

func TestRangeEditsKeepInlinesWhole(t *testing.T) {
	const uri = "https://zombo.com"
	link := ir.Document(ir.Paragraph(ir.Text("x "), ir.Hyperlink(uri, ir.Text("abcd")), ir.Text(" y")))
	bold := func(e *Editor) error {
		_, err := e.ToggleMark(ir.Bold)
		return err
	}
	tests := []struct {
		name string
		init *ir.Node
		span [2]int
		edit func(e *Editor) error
		want *ir.Node
	}{
		{
			name: "retype part of a label",
			init: link,
			span: [2]int{3, 5},
			edit: func(e *Editor) error { return e.InsertText("Z") },
			want: ir.Document(ir.Paragraph(ir.Text("x "), ir.Hyperlink(uri, ir.Text("aZd")), ir.Text(" y"))),
		},
		{
			name: "mark part of a label",
			init: link,
			span: [2]int{3, 5},
			edit: bold,
			want: ir.Document(ir.Paragraph(
				ir.Text("x "),
				ir.Hyperlink(uri, ir.Text("a"), ir.Text("bc", ir.Bold), ir.Text("d")),
				ir.Text(" y"),
			)),
		},
		{
			name: "delete into a label",
			init: link,
			span: [2]int{1, 4},
			edit: (*Editor).DeleteFragment,
			want: ir.Document(ir.Paragraph(ir.Text("x"), ir.Hyperlink(uri, ir.Text("cd")), ir.Text(" y"))),
		},
		{
			name: "delete a whole label",
			init: link,
			span: [2]int{2, 6},
			edit: (*Editor).DeleteFragment,
			want: ir.Document(ir.Paragraph(ir.Text("x  y"))),
		},
		{
			name: "paste text inside a label",
			init: link,
			span: [2]int{4, 4},
			edit: func(e *Editor) error { return e.InsertFragment(ir.Text("Q")) },
			want: ir.Document(ir.Paragraph(ir.Text("x "), ir.Hyperlink(uri, ir.Text("abQcd")), ir.Text(" y"))),
		},
		{
			name: "void at the end of a deleted range stays",
			init: ir.Document(ir.Paragraph(ir.Text("ab"), ir.EmbeddedEntryInline("e"), ir.Text("cd"))),
			span: [2]int{0, 2},
			edit: (*Editor).DeleteFragment,
			want: ir.Document(ir.Paragraph(ir.Text(""), ir.EmbeddedEntryInline("e"), ir.Text("cd"))),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEditor(t, tc.init)
			e.SelectLoc(Loc{Offset: tc.span[0]}, Loc{Offset: tc.span[1]})
			require.NoError(t, tc.edit(e))
			requireDoc(t, tc.want, e.Value())
		})
	}
}
