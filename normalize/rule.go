package normalize

import (
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/schema"
)

// Result is what a rule reports after looking at a node.
type Result int

const (
	// Pass means the rule did not apply.
	Pass Result = iota
	// Changed means the rule rewrote the node or its children.
	Changed
	// Settled means the node is acceptable as is and later rules must not
	// look at it during this pass.
	Settled
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "pass"
	case Changed:
		return "changed"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// Context is handed to every rule application.
type Context struct {
	Schema *schema.Schema
	Root   *ir.Node
	// Path of the node being normalized.
	Path ir.Path
}

// Parent returns the parent of the node being normalized, nil for the
// root.
func (c *Context) Parent() *ir.Node {
	if len(c.Path) == 0 {
		return nil
	}
	return ir.Get(c.Root, c.Path.Parent())
}

// Rule rewrites a single element node, usually by editing its children.
// A rule must only touch the node it is given and that node's subtree.
type Rule interface {
	Name() string
	Apply(ctx *Context, n *ir.Node) Result
}

type ruleFunc struct {
	name string
	f    func(*Context, *ir.Node) Result
}

func (r *ruleFunc) Name() string { return r.name }

func (r *ruleFunc) Apply(ctx *Context, n *ir.Node) Result { return r.f(ctx, n) }

// RuleFunc adapts a function into a named Rule.
func RuleFunc(name string, f func(*Context, *ir.Node) Result) Rule {
	return &ruleFunc{name: name, f: f}
}

// Changes reports Changed when b is true and Pass otherwise.
func Changes(b bool) Result {
	if b {
		return Changed
	}
	return Pass
}
