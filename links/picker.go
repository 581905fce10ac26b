package links

import (
	"context"
	"errors"

	"github.com/signadot/richtext/ir"
)

// ErrCancelled is returned by a Picker when the user closed it without
// choosing. It is not a failure.
var ErrCancelled = errors.New("reference selection cancelled")

// Picker lets the user choose an entity of the given link type ("Entry"
// or "Asset").
type Picker interface {
	SelectReference(ctx context.Context, linkType string) (*ir.Link, error)
}

type PickerFunc func(ctx context.Context, linkType string) (*ir.Link, error)

func (f PickerFunc) SelectReference(ctx context.Context, linkType string) (*ir.Link, error) {
	return f(ctx, linkType)
}

// StaticPicker always picks the entity with the given id.
func StaticPicker(id string) Picker {
	return PickerFunc(func(ctx context.Context, linkType string) (*ir.Link, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ir.NewLink(linkType, id), nil
	})
}

// Pending is an entity pick running in the background. It is applied to
// the form on the editing goroutine with Manager.Resolve.
type Pending struct {
	gen      uint64
	linkType string
	done     chan struct{}
	link     *ir.Link
	err      error
}

// Done is closed once the picker returned.
func (p *Pending) Done() <-chan struct{} { return p.done }

func (p *Pending) LinkType() string { return p.linkType }
