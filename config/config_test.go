package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/richtext/ir"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	h, err := Parse([]byte(`
enabledNodeTypes: [paragraph, hyperlink, embedded-entry-block, embedded-asset-block]
enabledMarks: [bold, italic]
restrictedMarks: [code]
palette: [embedded-entry-block, embedded-asset-block, embedded-entry-block]
uriRule: scheme == "https"
maxIterationsPerNode: 10
`))
	require.NoError(t, err)
	require.True(t, h.NodeTypeEnabled(ir.HyperlinkType))
	require.False(t, h.NodeTypeEnabled(ir.QuoteType))
	require.Equal(t, []string{ir.Bold, ir.Italic}, h.Marks())
	require.Equal(t, []ir.NodeType{ir.EmbeddedEntryBlockType, ir.EmbeddedAssetBlockType}, h.PaletteActions())
	require.True(t, h.PaletteEnabled())
	require.Equal(t, 10, h.MaxIterationsPerNode)

	valid, err := h.URIValidator()
	require.NoError(t, err)
	require.NoError(t, valid("https://zombo.com"))
	require.ErrorIs(t, valid("http://zombo.com"), ErrURIRejected)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "unknown field", in: "colour: red"},
		{name: "unknown type", in: "enabledNodeTypes: [marquee]"},
		{name: "unknown mark", in: "restrictedMarks: [blink]"},
		{name: "palette type", in: "palette: [paragraph]"},
		{name: "palette disabled", in: "enabledNodeTypes: [paragraph]\npalette: [embedded-entry-block]"},
		{name: "bad rule", in: `uriRule: "scheme =="`},
		{name: "non bool rule", in: `uriRule: "host"`},
		{name: "negative bound", in: "maxIterationsPerNode: -1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDefaults(t *testing.T) {
	h := Default()
	require.NoError(t, h.Validate())
	require.True(t, h.NodeTypeEnabled(ir.TableType))
	require.Equal(t, ir.MarkTypes(), h.Marks())
	require.False(t, h.PaletteEnabled())
	v, err := h.URIValidator()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	h, err := Find(dir)
	require.NoError(t, err)
	require.Equal(t, "", h.Path)

	p := filepath.Join(dir, "richtext.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"palette": ["embedded-entry-inline"]}`), 0o644))
	h, err = Find(dir)
	require.NoError(t, err)
	require.Equal(t, p, h.Path)
	require.Equal(t, []ir.NodeType{ir.EmbeddedEntryInlineType}, h.PaletteActions())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	h, err := FromEnv()
	require.NoError(t, err)
	require.Nil(t, h)

	t.Setenv(EnvConfig, "restrictedMarks: [code]")
	h, err = FromEnv()
	require.NoError(t, err)
	require.Equal(t, []string{ir.Code}, h.RestrictedMarks)
}

func TestURIRuleFunctions(t *testing.T) {
	v, err := CompileURIRule(`domainOf(host) == "zombo.com" && path != "/forbidden"`)
	require.NoError(t, err)
	require.NoError(t, v("https://www.zombo.com/anything"))
	require.Error(t, v("https://zombo.com/forbidden"))
	require.Error(t, v("https://example.com"))
}
