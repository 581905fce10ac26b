package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/richtext/ir"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	s, err := New([]string{"code"},
		&Contribution{Blocks: []ir.NodeType{ir.ParagraphType}, Marks: []string{"bold"}},
		nil,
		&Contribution{
			Blocks:     []ir.NodeType{ir.QuoteType, ir.HRType},
			Voids:      []ir.NodeType{ir.HRType},
			Containers: []ir.NodeType{ir.QuoteType},
			Marks:      []string{"code"},
		},
		&Contribution{Inlines: []ir.NodeType{ir.HyperlinkType}},
	)
	require.NoError(t, err)

	want := []ir.NodeType{ir.QuoteType, ir.HRType, ir.HyperlinkType, ir.ParagraphType}
	if diff := cmp.Diff(want, s.Types()); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
	require.True(t, s.Known(ir.DocumentType))
	require.True(t, s.Known(ir.TextType))
	require.False(t, s.Known(ir.TableType))
	require.True(t, s.IsTextBlock(ir.ParagraphType))
	require.False(t, s.IsTextBlock(ir.HRType))
	require.False(t, s.IsTextBlock(ir.QuoteType))
	require.True(t, s.IsContainer(ir.DocumentType))
	require.True(t, s.IsInline(ir.HyperlinkType))
	require.False(t, s.IsBlock(ir.HyperlinkType))
	require.True(t, s.MarkAllowed("bold"))
	require.False(t, s.MarkAllowed("code"))
	require.True(t, s.IsRestricted("code"))
	require.False(t, s.MarkAllowed("italic"))
}

func TestConflict(t *testing.T) {
	_, err := New(nil,
		&Contribution{Blocks: []ir.NodeType{ir.HyperlinkType}},
		&Contribution{Inlines: []ir.NodeType{ir.HyperlinkType}},
	)
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	s := Default()
	for _, tc := range []struct {
		t         ir.NodeType
		void      bool
		container bool
	}{
		{ir.ParagraphType, false, false},
		{ir.HRType, true, false},
		{ir.EmbeddedEntryInlineType, true, false},
		{ir.ListItemType, false, true},
		{ir.TableCellType, false, true},
	} {
		t.Run(string(tc.t), func(t *testing.T) {
			require.True(t, s.Known(tc.t))
			require.Equal(t, tc.void, s.IsVoid(tc.t))
			require.Equal(t, tc.container, s.IsContainer(tc.t))
		})
	}
	for _, m := range ir.MarkTypes() {
		require.True(t, s.MarkAllowed(m), m)
	}
}
