package plugins

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/signadot/richtext/config"
	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/tracking"
)

const (
	TrackingKey               = "tracking"
	DragAndDropKey            = "drag-and-drop"
	PaletteKey                = "command-palette"
	ParagraphKey              = "paragraph"
	ListKey                   = "list"
	HRKey                     = "hr"
	HeadingKey                = "heading"
	QuoteKey                  = "quote"
	TableKey                  = "table"
	EmbeddedEntryBlockKey     = "embedded-entry-block"
	EmbeddedAssetBlockKey     = "embedded-asset-block"
	EmbeddedResourceBlockKey  = "embedded-resource-block"
	EmbeddedEntityInlineKey   = "embedded-entity-inline"
	EmbeddedResourceInlineKey = "embedded-resource-inline"
	MarksKey                  = "marks"
	TrailingParagraphKey      = "trailing-paragraph"
	TextKey                   = "text"
	VoidsKey                  = "voids"
	SelectOnBackspaceKey      = "select-on-backspace"
	PasteHTMLKey              = "paste-html"
	SoftBreakKey              = "soft-break"
	ExitBreakKey              = "exit-break"
	ResetNodeKey              = "reset-node"
	NormalizerKey             = "normalizer"

	preLoad  = "<pre-load>"
	postLoad = "<post-load>"
)

// order is the fixed composition order. Host units go in at the pre-load
// and post-load marks.
var order = []string{
	TrackingKey,
	preLoad,
	DragAndDropKey,
	PaletteKey,
	ParagraphKey,
	ListKey,
	HRKey,
	HeadingKey,
	QuoteKey,
	TableKey,
	EmbeddedEntryBlockKey,
	EmbeddedAssetBlockKey,
	EmbeddedResourceBlockKey,
	links.UnitKey,
	EmbeddedEntityInlineKey,
	EmbeddedResourceInlineKey,
	MarksKey,
	TrailingParagraphKey,
	TextKey,
	VoidsKey,
	SelectOnBackspaceKey,
	PasteHTMLKey,
	SoftBreakKey,
	ExitBreakKey,
	ResetNodeKey,
	NormalizerKey,
	postLoad,
}

// Order returns the built in unit keys in composition order.
func Order() []string {
	return slices.DeleteFunc(slices.Clone(order), func(k string) bool { return k == preLoad || k == postLoad })
}

type Options struct {
	Host            *config.Host
	RestrictedMarks []string
	Picker          links.Picker
	// Links is the link manager to wire in; one is created when nil.
	Links   *links.Manager
	Tracker tracking.Handler
	Log     zerolog.Logger
	// PreLoad and PostLoad name registered factories.
	PreLoad  []string
	PostLoad []string
}

// Set is a composed pipeline with the stateful units hosts drive
// directly.
type Set struct {
	Pipeline *editor.Pipeline
	Links    *links.Manager
	// Palette is nil unless the host enables a palette action.
	Palette *Palette
}

// Compose builds the pipeline for o in the fixed order.
func Compose(o Options) (*Set, error) {
	host := o.Host
	if host == nil {
		host = config.Default()
	}
	if err := host.Validate(); err != nil {
		return nil, err
	}
	m := o.Links
	if m == nil {
		uri, err := host.URIValidator()
		if err != nil {
			return nil, err
		}
		var allowed []ir.NodeType
		for _, t := range links.Types {
			if host.NodeTypeEnabled(t) {
				allowed = append(allowed, t)
			}
		}
		if len(allowed) != 0 {
			m = links.NewManager(links.Options{AllowedTypes: allowed, Picker: o.Picker, ValidateURI: uri})
		}
	}
	bc := &BuildContext{
		Host:            host,
		RestrictedMarks: slices.Concat(host.RestrictedMarks, o.RestrictedMarks),
		Picker:          o.Picker,
		Links:           m,
		Tracker:         o.Tracker,
		Log:             o.Log,
	}
	var units []*editor.Unit
	add := func(name string) error {
		f := Lookup(name)
		if f == nil {
			return fmt.Errorf("%w: %s", ErrUnknownFactory, name)
		}
		u, err := f(bc)
		if err != nil {
			return fmt.Errorf("building %s: %w", name, err)
		}
		if u == nil {
			if debug.Pipeline() {
				debug.Logf("compose: %s disabled\n", name)
			}
			return nil
		}
		units = append(units, u)
		return nil
	}
	for _, k := range order {
		var names []string
		switch k {
		case preLoad:
			names = o.PreLoad
		case postLoad:
			names = o.PostLoad
		default:
			names = []string{k}
		}
		for _, n := range names {
			if err := add(n); err != nil {
				return nil, err
			}
		}
	}
	p, err := editor.NewPipeline(units...)
	if err != nil {
		return nil, err
	}
	if debug.Pipeline() {
		debug.Logf("compose: %v\n", p.Keys())
	}
	return &Set{Pipeline: p, Links: m, Palette: bc.palette}, nil
}
