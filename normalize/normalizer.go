package normalize

import (
	"errors"
	"fmt"

	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/schema"
)

// DefaultMaxIterationsPerNode bounds the number of rewrites per node of
// the input tree.
const DefaultMaxIterationsPerNode = 42

var ErrNonConvergent = errors.New("normalization did not converge")

// NonConvergentError reports the rule that fired last when the rewrite
// bound was exceeded.
type NonConvergentError struct {
	Rule  string
	Path  ir.Path
	Limit int
}

func (e *NonConvergentError) Error() string {
	return fmt.Sprintf("%s: %d rewrites, last by %q at %s", ErrNonConvergent, e.Limit, e.Rule, e.Path)
}

func (e *NonConvergentError) Unwrap() error {
	return ErrNonConvergent
}

// Stats describes a normalization run.
type Stats struct {
	Rewrites int
	Fired    map[string]int
}

// Normalized reports whether the input was already normalized.
func (s *Stats) Normalized() bool {
	return s.Rewrites == 0
}

func (s *Stats) add(rule string) {
	if s.Fired == nil {
		s.Fired = map[string]int{}
	}
	s.Fired[rule]++
	s.Rewrites++
}

// Normalizer rewrites a tree with an ordered rule set until no rule
// applies.
type Normalizer struct {
	schema  *schema.Schema
	rules   []Rule
	perNode int
}

type Option func(*Normalizer)

// WithMaxIterationsPerNode overrides DefaultMaxIterationsPerNode. Values
// below 1 are ignored.
func WithMaxIterationsPerNode(n int) Option {
	return func(z *Normalizer) {
		if n > 0 {
			z.perNode = n
		}
	}
}

// New returns a normalizer applying rules in order. A nil schema means
// schema.Default().
func New(s *schema.Schema, rules []Rule, opts ...Option) *Normalizer {
	if s == nil {
		s = schema.Default()
	}
	z := &Normalizer{
		schema:  s,
		rules:   rules,
		perNode: DefaultMaxIterationsPerNode,
	}
	for _, o := range opts {
		o(z)
	}
	return z
}

func (z *Normalizer) Schema() *schema.Schema { return z.schema }

func (z *Normalizer) Rules() []Rule { return z.rules }

// Run normalizes root in place. Each pass visits elements bottom up and
// stops at the first rewrite; passes repeat until one completes without
// a rewrite. On error root is left partially rewritten, so callers that
// must not observe that run on a clone.
func (z *Normalizer) Run(root *ir.Node) (*Stats, error) {
	stats := &Stats{}
	limit := z.perNode * root.Count()
	ctx := &Context{Schema: z.schema, Root: root}
	for {
		rule, at, ok := z.visit(ctx, root, ir.Path{})
		if !ok {
			return stats, nil
		}
		stats.add(rule)
		if debug.Normalize() {
			debug.Logf("normalize: %s rewrote %s\n", rule, at)
		}
		if debug.Rules() {
			debug.Logf("normalize: %s\n", root)
		}
		if stats.Rewrites > limit {
			return stats, &NonConvergentError{Rule: rule, Path: at, Limit: limit}
		}
	}
}

func (z *Normalizer) visit(ctx *Context, n *ir.Node, p ir.Path) (string, ir.Path, bool) {
	if n.IsText() {
		return "", nil, false
	}
	for i := 0; i < len(n.Content); i++ {
		if rule, at, ok := z.visit(ctx, n.Content[i], p.Child(i)); ok {
			return rule, at, true
		}
	}
	ctx.Path = p
	for _, r := range z.rules {
		switch r.Apply(ctx, n) {
		case Changed:
			return r.Name(), p, true
		case Settled:
			return "", nil, false
		}
	}
	return "", nil, false
}

// Normalize returns a normalized clone of root, leaving root untouched.
func (z *Normalizer) Normalize(root *ir.Node) (*ir.Node, *Stats, error) {
	res := root.Clone()
	stats, err := z.Run(res)
	if err != nil {
		return nil, stats, err
	}
	return res, stats, nil
}

// Check reports what normalizing root would do without changing it.
func (z *Normalizer) Check(root *ir.Node) (*Stats, error) {
	_, stats, err := z.Normalize(root)
	return stats, err
}
