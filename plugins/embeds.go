package plugins

import (
	"fmt"
	"slices"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
	"github.com/signadot/richtext/tracking"
)

// newEmbed returns an embed of type t pointing at ref, an entity id or a
// resource urn.
func newEmbed(t ir.NodeType, ref string) (*ir.Node, error) {
	if ref == "" {
		return nil, fmt.Errorf("%s: empty reference", t)
	}
	switch t {
	case ir.EmbeddedEntryBlockType:
		return ir.EmbeddedEntryBlock(ref), nil
	case ir.EmbeddedAssetBlockType:
		return ir.EmbeddedAssetBlock(ref), nil
	case ir.EmbeddedResourceBlockType:
		return ir.EmbeddedResourceBlock(ref), nil
	case ir.EmbeddedEntryInlineType:
		return ir.EmbeddedEntryInline(ref), nil
	case ir.EmbeddedResourceInlineType:
		return ir.EmbeddedResourceInline(ref), nil
	}
	return nil, fmt.Errorf("%s is not an embed", t)
}

// validEmbed reports whether n carries a target matching its type.
func validEmbed(n *ir.Node) bool {
	l := n.Data.Target
	if !l.Valid() {
		return false
	}
	switch n.Type {
	case ir.EmbeddedResourceBlockType, ir.EmbeddedResourceInlineType:
		return l.Sys.Type == "ResourceLink"
	}
	return l.Sys.Type == "Link" && l.Sys.LinkType == ir.LinkTypeOf(n.Type)
}

// insertEmbed inserts an embed of type t at the cursor as one tracked
// transaction.
func insertEmbed(e *editor.Editor, t ir.NodeType, ref, origin string) error {
	n, err := newEmbed(t, ref)
	if err != nil {
		return err
	}
	_, err = e.Apply("insert_embed", func(tx *editor.Tx) error {
		if err := tx.InsertFragment([]*ir.Node{n}); err != nil {
			return err
		}
		tx.Track(tracking.Insert, tracking.Payload{Origin: origin, NodeType: t})
		return nil
	})
	return err
}

func insertCommand(t ir.NodeType) string { return "insert-" + string(t) }

// embedUnit builds the unit for the enabled embed types among ts.
func embedUnit(bc *BuildContext, key string, block bool, ts ...ir.NodeType) *editor.Unit {
	ts = slices.DeleteFunc(ts, func(t ir.NodeType) bool { return !bc.Host.NodeTypeEnabled(t) })
	if len(ts) == 0 {
		return nil
	}
	c := &schema.Contribution{Voids: ts}
	if block {
		c.Blocks = ts
	} else {
		c.Inlines = ts
	}
	u := &editor.Unit{
		Key:      key,
		Schema:   c,
		Rules:    []normalize.Rule{RemoveInvalidEmbeds(ts...)},
		Commands: map[string]editor.Command{},
	}
	for _, t := range ts {
		u.Commands[insertCommand(t)] = func(e *editor.Editor, ref string) error {
			return insertEmbed(e, t, ref, tracking.OriginToolbar)
		}
		u.Toolbar = append(u.Toolbar, editor.ToolbarItem{Name: string(t), Label: string(t), Command: insertCommand(t)})
	}
	return u
}

func EmbeddedEntryBlock(bc *BuildContext) (*editor.Unit, error) {
	return embedUnit(bc, EmbeddedEntryBlockKey, true, ir.EmbeddedEntryBlockType), nil
}

func EmbeddedAssetBlock(bc *BuildContext) (*editor.Unit, error) {
	return embedUnit(bc, EmbeddedAssetBlockKey, true, ir.EmbeddedAssetBlockType), nil
}

func EmbeddedResourceBlock(bc *BuildContext) (*editor.Unit, error) {
	return embedUnit(bc, EmbeddedResourceBlockKey, true, ir.EmbeddedResourceBlockType), nil
}

func EmbeddedEntityInline(bc *BuildContext) (*editor.Unit, error) {
	return embedUnit(bc, EmbeddedEntityInlineKey, false, ir.EmbeddedEntryInlineType), nil
}

func EmbeddedResourceInline(bc *BuildContext) (*editor.Unit, error) {
	return embedUnit(bc, EmbeddedResourceInlineKey, false, ir.EmbeddedResourceInlineType), nil
}

// Hyperlink wires the link manager in. It is disabled when no link type
// is enabled.
func Hyperlink(bc *BuildContext) (*editor.Unit, error) {
	if bc.Links == nil {
		return nil, nil
	}
	return links.Plugin(bc.Links), nil
}

// RemoveInvalidEmbeds drops embeds of the given types that do not point
// at an entity of the right kind.
func RemoveInvalidEmbeds(ts ...ir.NodeType) normalize.Rule {
	return normalize.RuleFunc("remove-invalid-embed", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		i := slices.IndexFunc(n.Content, func(c *ir.Node) bool {
			return slices.Contains(ts, c.Type) && !validEmbed(c)
		})
		if i < 0 {
			return normalize.Pass
		}
		n.Content = slices.Delete(n.Content, i, i+1)
		return normalize.Changed
	})
}
