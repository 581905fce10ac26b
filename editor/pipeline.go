package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
)

var ErrDuplicateUnit = errors.New("duplicate pipeline unit")

// Pipeline is a fixed, ordered list of units. Dispatch follows the order
// units were given in and stops at the first unit that handles an event.
type Pipeline struct {
	units    []*Unit
	index    map[string]int
	schema   *schema.Schema
	rules    []normalize.Rule
	commands map[string]Command
	toolbar  []ToolbarItem
}

// NewPipeline composes units in order. Nil units are skipped. A command
// name registered by an earlier unit cannot be taken over by a later one.
func NewPipeline(units ...*Unit) (*Pipeline, error) {
	p := &Pipeline{
		index:    map[string]int{},
		commands: map[string]Command{},
	}
	var cs []*schema.Contribution
	for _, u := range units {
		if u == nil {
			continue
		}
		if u.Key == "" {
			return nil, fmt.Errorf("pipeline unit %d has no key", len(p.units))
		}
		if _, ok := p.index[u.Key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUnit, u.Key)
		}
		p.index[u.Key] = len(p.units)
		p.units = append(p.units, u)
		cs = append(cs, u.Schema)
		p.rules = append(p.rules, u.Rules...)
		p.toolbar = append(p.toolbar, u.Toolbar...)
		for name, c := range u.Commands {
			if _, ok := p.commands[name]; ok {
				if debug.Pipeline() {
					debug.Logf("pipeline: %s: command %q already registered, ignored\n", u.Key, name)
				}
				continue
			}
			p.commands[name] = c
		}
	}
	s, err := schema.New(nil, cs...)
	if err != nil {
		return nil, err
	}
	p.schema = s
	if debug.Pipeline() {
		debug.Logf("pipeline: %v\n", p.Keys())
	}
	return p, nil
}

func (p *Pipeline) Units() []*Unit { return slices.Clone(p.units) }

// Keys lists unit keys in dispatch order.
func (p *Pipeline) Keys() []string {
	res := make([]string, len(p.units))
	for i, u := range p.units {
		res[i] = u.Key
	}
	return res
}

// Unit returns the unit with the given key or nil.
func (p *Pipeline) Unit(key string) *Unit {
	i, ok := p.index[key]
	if !ok {
		return nil
	}
	return p.units[i]
}

func (p *Pipeline) Schema() *schema.Schema { return p.schema }

func (p *Pipeline) Rules() []normalize.Rule { return p.rules }

func (p *Pipeline) Toolbar() []ToolbarItem { return slices.Clone(p.toolbar) }

func (p *Pipeline) Command(name string) (Command, bool) {
	c, ok := p.commands[name]
	return c, ok
}

// Commands lists the registered command names, sorted.
func (p *Pipeline) Commands() []string {
	res := make([]string, 0, len(p.commands))
	for name := range p.commands {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}
