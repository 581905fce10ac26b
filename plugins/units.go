package plugins

import (
	"slices"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/paste"
	"github.com/signadot/richtext/tracking"
)

// Tracking installs the tracking handler: Options.Tracker when given,
// and otherwise one logging every action to the editor's logger.
func Tracking(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: TrackingKey,
		Init: func(e *editor.Editor) error {
			h := bc.Tracker
			if h == nil {
				h = &tracking.LogHandler{Log: e.Logger()}
			}
			e.SetTracker(h)
			return nil
		},
	}, nil
}

// Normalizer contributes the core structural rules. It runs after every
// other unit so host rules see a document before it is tidied up.
func Normalizer(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key:   NormalizerKey,
		Rules: normalize.Core(),
	}, nil
}

// PasteHTML inserts text/html clipboard content. Content that cannot be
// parsed is left to later handlers.
func PasteHTML(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: PasteHTMLKey,
		Paste: editor.PasteHandlerFunc(func(e *editor.Editor, dt editor.DataTransfer) (bool, error) {
			html, ok := dt.Get(paste.MIMEType)
			if !ok {
				return false, nil
			}
			nodes, err := paste.Deserialize(html, e.Schema())
			if err != nil {
				e.Logger().Warn().Err(err).Msg("ignoring unparsable html paste")
				return false, nil
			}
			if len(nodes) == 0 {
				return true, nil
			}
			_, err = e.Apply("paste_html", func(tx *editor.Tx) error {
				if err := tx.InsertFragment(nodes); err != nil {
					return err
				}
				tx.Track(tracking.Paste, tracking.Payload{Data: map[string]any{"mime": paste.MIMEType}})
				return nil
			})
			return true, err
		}),
	}, nil
}

// DragAndDrop moves top level void blocks. Drops landing inside a table
// are taken and ignored.
func DragAndDrop(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key: DragAndDropKey,
		Drop: editor.DropHandlerFunc(func(e *editor.Editor, ev editor.DropEvent) (bool, error) {
			root := e.Root()
			if len(ev.From) != 1 || len(ev.To) == 0 {
				return false, nil
			}
			n := ir.Get(root, ev.From)
			if n == nil || !e.Schema().IsVoid(n.Type) {
				return false, nil
			}
			for i := 1; i <= len(ev.To); i++ {
				if a := ir.Get(root, ev.To[:i]); a != nil && slices.Contains(tableTypes, a.Type) {
					return true, nil
				}
			}
			return true, e.MoveBlock(ev.From[0], ev.To[0])
		}),
	}, nil
}
