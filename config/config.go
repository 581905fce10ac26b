// Package config holds the host configuration of an editor: which node
// types and marks are enabled, which embeds the command palette offers,
// and the rule hyperlink uris must satisfy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/ir"
)

const (
	// DefaultBase is the base name Find looks for.
	DefaultBase = "richtext"
	// EnvConfig holds an inline YAML host configuration.
	EnvConfig = "RT_CONFIG"
)

var ErrInvalid = errors.New("invalid host configuration")

// Host is the host configuration. Empty lists mean everything built in is
// enabled; an empty palette disables the command palette.
type Host struct {
	EnabledNodeTypes     []string `yaml:"enabledNodeTypes,omitempty"`
	EnabledMarks         []string `yaml:"enabledMarks,omitempty"`
	RestrictedMarks      []string `yaml:"restrictedMarks,omitempty"`
	Palette              []string `yaml:"palette,omitempty"`
	URIRule              string   `yaml:"uriRule,omitempty"`
	MaxIterationsPerNode int      `yaml:"maxIterationsPerNode,omitempty"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// Default returns the configuration with everything enabled and no
// palette.
func Default() *Host { return &Host{} }

// Parse decodes and validates a YAML (or JSON) host configuration.
// Unknown fields are errors.
func Parse(d []byte) (*Host, error) {
	h := &Host{}
	if err := yaml.UnmarshalWithOptions(d, h, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func Load(path string) (*Host, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	h, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	h.Path = path
	if debug.Pipeline() {
		debug.Logf("loaded host config %s\n", path)
	}
	return h, nil
}

// Find loads richtext.{yaml,yml,json} from dir, trying the suffixes in
// that order. It returns the default configuration when none exists.
func Find(dir string) (*Host, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		p := filepath.Join(dir, DefaultBase+ext)
		_, err := os.Stat(p)
		if err == nil {
			return Load(p)
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not stat %q: %w", p, err)
		}
	}
	return Default(), nil
}

// FromEnv parses $RT_CONFIG. It returns nil when the variable is unset.
func FromEnv() (*Host, error) {
	v := os.Getenv(EnvConfig)
	if v == "" {
		return nil, nil
	}
	h, err := Parse([]byte(v))
	if err != nil {
		return nil, fmt.Errorf("error decoding $%s: %w", EnvConfig, err)
	}
	return h, nil
}

// PaletteTypes are the embeds the command palette can insert.
var PaletteTypes = []ir.NodeType{
	ir.EmbeddedEntryBlockType,
	ir.EmbeddedAssetBlockType,
	ir.EmbeddedResourceBlockType,
	ir.EmbeddedEntryInlineType,
	ir.EmbeddedResourceInlineType,
}

func (h *Host) Validate() error {
	known := append(ir.BlockTypes(), ir.InlineTypes()...)
	for _, t := range h.EnabledNodeTypes {
		if !slices.Contains(known, ir.NodeType(t)) {
			return fmt.Errorf("%w: unknown node type %q", ErrInvalid, t)
		}
	}
	for _, m := range slices.Concat(h.EnabledMarks, h.RestrictedMarks) {
		if !slices.Contains(ir.MarkTypes(), m) {
			return fmt.Errorf("%w: unknown mark %q", ErrInvalid, m)
		}
	}
	for _, p := range h.Palette {
		t := ir.NodeType(p)
		if !slices.Contains(PaletteTypes, t) {
			return fmt.Errorf("%w: %q cannot be inserted from the palette", ErrInvalid, p)
		}
		if !h.NodeTypeEnabled(t) {
			return fmt.Errorf("%w: palette action %q is not an enabled node type", ErrInvalid, p)
		}
	}
	if h.MaxIterationsPerNode < 0 {
		return fmt.Errorf("%w: negative maxIterationsPerNode", ErrInvalid)
	}
	if h.URIRule != "" {
		if _, err := CompileURIRule(h.URIRule); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

func (h *Host) NodeTypeEnabled(t ir.NodeType) bool {
	return len(h.EnabledNodeTypes) == 0 || slices.Contains(h.EnabledNodeTypes, string(t))
}

func (h *Host) MarkEnabled(m string) bool {
	return len(h.EnabledMarks) == 0 || slices.Contains(h.EnabledMarks, m)
}

// Marks returns the enabled marks.
func (h *Host) Marks() []string {
	return slices.DeleteFunc(ir.MarkTypes(), func(m string) bool { return !h.MarkEnabled(m) })
}

// PaletteActions returns the enabled palette actions in palette order.
func (h *Host) PaletteActions() []ir.NodeType {
	var res []ir.NodeType
	for _, p := range h.Palette {
		if t := ir.NodeType(p); h.NodeTypeEnabled(t) && !slices.Contains(res, t) {
			res = append(res, t)
		}
	}
	return res
}

// PaletteEnabled reports whether the host enables at least one palette
// action.
func (h *Host) PaletteEnabled() bool { return len(h.PaletteActions()) != 0 }

// URIValidator returns the compiled uri rule, or nil when there is none.
func (h *Host) URIValidator() (func(string) error, error) {
	if h.URIRule == "" {
		return nil, nil
	}
	return CompileURIRule(h.URIRule)
}
