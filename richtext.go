// Package richtext opens editing sessions over rich text documents.
//
// A Session bundles an editor with the pipeline composed for a host
// configuration and the link manager that pipeline uses. The packages
// underneath can be used directly; Open wires them the way a host
// usually wants them.
package richtext

import (
	"github.com/rs/zerolog"
	"github.com/signadot/richtext/config"
	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/plugins"
	"github.com/signadot/richtext/tracking"
)

type Options struct {
	// Host is the host configuration, config.Default when nil.
	Host            *config.Host
	RestrictedMarks []string
	Picker          links.Picker
	Tracker         tracking.Handler
	Log             zerolog.Logger
	// ID identifies the editor in tracking payloads; a uuid when empty.
	ID       string
	OnChange func(value *ir.Node)
	PreLoad  []string
	PostLoad []string
}

type Session struct {
	Host    *config.Host
	Editor  *editor.Editor
	Links   *links.Manager
	Palette *plugins.Palette
}

// Open starts a session on value, which may be nil for an empty
// document.
func Open(value *ir.Node, o Options) (*Session, error) {
	host := o.Host
	if host == nil {
		host = config.Default()
	}
	set, err := plugins.Compose(plugins.Options{
		Host:            host,
		RestrictedMarks: o.RestrictedMarks,
		Picker:          o.Picker,
		Tracker:         o.Tracker,
		Log:             o.Log,
		PreLoad:         o.PreLoad,
		PostLoad:        o.PostLoad,
	})
	if err != nil {
		return nil, err
	}
	opts := []editor.Option{editor.WithLogger(o.Log), editor.WithID(o.ID)}
	if o.OnChange != nil {
		opts = append(opts, editor.WithOnChange(o.OnChange))
	}
	if host.MaxIterationsPerNode != 0 {
		opts = append(opts, editor.WithMaxIterations(host.MaxIterationsPerNode))
	}
	e, err := editor.New(value, set.Pipeline, opts...)
	if err != nil {
		return nil, err
	}
	return &Session{Host: host, Editor: e, Links: set.Links, Palette: set.Palette}, nil
}

// Value returns the session document's external value.
func (s *Session) Value() *ir.Node { return s.Editor.Value() }

// Normalizer returns a normalizer with the schema and rules of the
// pipeline composed for host.
func Normalizer(host *config.Host) (*normalize.Normalizer, error) {
	if host == nil {
		host = config.Default()
	}
	set, err := plugins.Compose(plugins.Options{Host: host})
	if err != nil {
		return nil, err
	}
	var opts []normalize.Option
	if host.MaxIterationsPerNode != 0 {
		opts = append(opts, normalize.WithMaxIterationsPerNode(host.MaxIterationsPerNode))
	}
	p := set.Pipeline
	return normalize.New(p.Schema(), p.Rules(), opts...), nil
}

// Normalize returns value normalized for host, nil when it normalizes to
// the empty document.
func Normalize(value *ir.Node, host *config.Host) (*ir.Node, *normalize.Stats, error) {
	if value == nil {
		return nil, &normalize.Stats{}, nil
	}
	z, err := Normalizer(host)
	if err != nil {
		return nil, nil, err
	}
	res, stats, err := z.Normalize(value)
	if err != nil {
		return nil, stats, err
	}
	return ir.Value(res), stats, nil
}
