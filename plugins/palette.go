package plugins

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/tracking"
)

const (
	PaletteTrigger = "/"
	PaletteCommand = "palette"
)

var ErrNoPaletteAction = errors.New("not a palette action")

// Palette is the command palette: typing "/" in an empty paragraph opens
// it and an action inserts an embed whose reference the user picks.
type Palette struct {
	actions []ir.NodeType
	picker  links.Picker
	open    bool
}

// Actions returns the embed types the palette offers.
func (p *Palette) Actions() []ir.NodeType { return slices.Clone(p.actions) }

func (p *Palette) IsOpen() bool { return p.open }

func (p *Palette) Close() { p.open = false }

func linkTypeFor(t ir.NodeType) string {
	switch t {
	case ir.EmbeddedResourceBlockType, ir.EmbeddedResourceInlineType:
		return "Contentful:Entry"
	}
	return ir.LinkTypeOf(t)
}

// Run picks a reference and inserts an embed of type t in place of the
// trigger. A cancelled pick closes the palette and changes nothing.
func (p *Palette) Run(ctx context.Context, e *editor.Editor, t ir.NodeType) error {
	if !slices.Contains(p.actions, t) {
		return fmt.Errorf("%w: %s", ErrNoPaletteAction, t)
	}
	if p.picker == nil {
		return links.ErrNoPicker
	}
	defer p.Close()
	l, err := p.picker.SelectReference(ctx, linkTypeFor(t))
	switch {
	case errors.Is(err, links.ErrCancelled):
		return nil
	case err != nil:
		return fmt.Errorf("selecting %s: %w", t, err)
	}
	n := ir.Element(t, ir.Data{Target: l.Clone()}, ir.Text(""))
	if !validEmbed(n) {
		return fmt.Errorf("selecting %s: %w: picker returned %+v", t, links.ErrInvalidLink, l)
	}
	_, err = e.Apply("palette_insert", func(tx *editor.Tx) error {
		if _, _, b := tx.FocusBlock(); b != nil && b.Text() == PaletteTrigger {
			b.Content = []*ir.Node{ir.Text("")}
			loc, _, _ := tx.FocusBlock()
			loc.Offset = 0
			tx.Collapse(loc)
		}
		if err := tx.InsertFragment([]*ir.Node{n}); err != nil {
			return err
		}
		tx.Track(tracking.Insert, tracking.Payload{Origin: tracking.OriginCommand, NodeType: t})
		return nil
	})
	return err
}

func (p *Palette) handleKey(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
	switch {
	case ev.Is("Escape") && p.open:
		p.Close()
		return true, nil
	case ev.Is(PaletteTrigger):
		tx := e.Snapshot()
		_, _, b := tx.FocusBlock()
		if !tx.Collapsed() || b == nil || b.Type != ir.ParagraphType || b.Text() != "" {
			return false, nil
		}
		if err := e.InsertText(PaletteTrigger); err != nil {
			return true, err
		}
		p.open = true
		return true, nil
	}
	return false, nil
}

// CommandPalette is disabled unless the host enables a palette action.
func CommandPalette(bc *BuildContext) (*editor.Unit, error) {
	if !bc.Host.PaletteEnabled() {
		return nil, nil
	}
	p := &Palette{actions: bc.Host.PaletteActions(), picker: bc.Picker}
	bc.palette = p
	return &editor.Unit{
		Key:  PaletteKey,
		Keys: editor.KeyHandlerFunc(p.handleKey),
		Commands: map[string]editor.Command{
			PaletteCommand: func(e *editor.Editor, arg string) error {
				return p.Run(context.Background(), e, ir.NodeType(arg))
			},
		},
	}, nil
}
