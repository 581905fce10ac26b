package plugins

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
	"github.com/signadot/richtext/schema"
)

func Paragraph(bc *BuildContext) (*editor.Unit, error) {
	return &editor.Unit{
		Key:    ParagraphKey,
		Schema: &schema.Contribution{Blocks: []ir.NodeType{ir.ParagraphType}},
	}, nil
}

// topLevel returns the indices of the top level blocks the selection
// touches, in order.
func topLevel(tx *editor.Tx) []int {
	var res []int
	for _, p := range tx.RangeBlocks() {
		if len(p) != 0 && !slices.Contains(res, p[0]) {
			res = append(res, p[0])
		}
	}
	return res
}

// wrapTopLevel replaces the top level blocks the selection touches by
// wrap of them. Leaf block order is unchanged so the selection stays put.
func wrapTopLevel(tx *editor.Tx, wrap func(blocks []*ir.Node) *ir.Node) bool {
	idx := topLevel(tx)
	if len(idx) == 0 {
		return false
	}
	first, last := idx[0], idx[len(idx)-1]
	blocks := slices.Clone(tx.Root.Content[first : last+1])
	tx.Root.Content = slices.Replace(tx.Root.Content, first, last+1, wrap(blocks))
	return true
}

// focusTop returns the top level block holding the focus.
func focusTop(tx *editor.Tx) (int, *ir.Node) {
	_, bp, _ := tx.FocusBlock()
	if len(bp) == 0 {
		return -1, nil
	}
	return bp[0], tx.Root.Content[bp[0]]
}

var listTypes = []ir.NodeType{ir.UnorderedListType, ir.OrderedListType}

func List(bc *BuildContext) (*editor.Unit, error) {
	var ts []ir.NodeType
	for _, t := range listTypes {
		if bc.Host.NodeTypeEnabled(t) {
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return nil, nil
	}
	all := append(slices.Clone(ts), ir.ListItemType)
	u := &editor.Unit{
		Key:    ListKey,
		Schema: &schema.Contribution{Blocks: all, Containers: all},
		Rules:  []normalize.Rule{ListItemsInLists(), UnwrapStrayListItems()},
		Commands: map[string]editor.Command{
			"toggle-list": func(e *editor.Editor, arg string) error {
				t := ir.UnorderedListType
				if arg == "ol" || arg == string(ir.OrderedListType) {
					t = ir.OrderedListType
				}
				if !slices.Contains(ts, t) {
					return fmt.Errorf("%s is not enabled", t)
				}
				_, err := e.Apply("toggle_list", func(tx *editor.Tx) error {
					toggleList(tx, t)
					return nil
				})
				return err
			},
		},
	}
	for _, t := range ts {
		arg := "ul"
		if t == ir.OrderedListType {
			arg = "ol"
		}
		u.Toolbar = append(u.Toolbar, editor.ToolbarItem{Name: string(t), Label: arg, Command: "toggle-list"})
	}
	return u, nil
}

// toggleList lifts the focus list out when it has type t, and otherwise
// puts the selected top level blocks into a new list of type t.
func toggleList(tx *editor.Tx, t ir.NodeType) {
	i, top := focusTop(tx)
	if top == nil {
		return
	}
	if top.Type == t {
		var blocks []*ir.Node
		for _, item := range top.Content {
			blocks = append(blocks, item.Content...)
		}
		tx.Root.Content = slices.Replace(tx.Root.Content, i, i+1, blocks...)
		return
	}
	if slices.Contains(listTypes, top.Type) {
		top.Type = t
		return
	}
	wrapTopLevel(tx, func(blocks []*ir.Node) *ir.Node {
		items := make([]*ir.Node, len(blocks))
		for j, b := range blocks {
			items[j] = ir.ListItem(b)
		}
		return ir.List(t, items...)
	})
}

// ListItemsInLists wraps every child of a list that is not a list item
// into one.
func ListItemsInLists() normalize.Rule {
	return normalize.RuleFunc("list-items-in-lists", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		if !slices.Contains(listTypes, n.Type) {
			return normalize.Pass
		}
		for i, c := range n.Content {
			if c.Type != ir.ListItemType {
				n.Content[i] = ir.ListItem(c)
				return normalize.Changed
			}
		}
		return normalize.Pass
	})
}

// UnwrapStrayListItems replaces list items outside lists by their
// content.
func UnwrapStrayListItems() normalize.Rule {
	return normalize.RuleFunc("unwrap-stray-list-item", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		if slices.Contains(listTypes, n.Type) {
			return normalize.Pass
		}
		for i, c := range n.Content {
			if c.Type == ir.ListItemType {
				n.Content = slices.Replace(n.Content, i, i+1, c.Content...)
				return normalize.Changed
			}
		}
		return normalize.Pass
	})
}

func HR(bc *BuildContext) (*editor.Unit, error) {
	if !bc.Host.NodeTypeEnabled(ir.HRType) {
		return nil, nil
	}
	return &editor.Unit{
		Key:     HRKey,
		Schema:  &schema.Contribution{Blocks: []ir.NodeType{ir.HRType}, Voids: []ir.NodeType{ir.HRType}},
		Toolbar: []editor.ToolbarItem{{Name: string(ir.HRType), Label: "Divider", Command: "insert-hr"}},
		Commands: map[string]editor.Command{
			"insert-hr": func(e *editor.Editor, _ string) error {
				return e.InsertFragment(ir.HR())
			},
		},
	}, nil
}

func Heading(bc *BuildContext) (*editor.Unit, error) {
	var levels []int
	var ts []ir.NodeType
	for l := 1; l <= 6; l++ {
		if t := ir.Heading(l); bc.Host.NodeTypeEnabled(t) {
			levels = append(levels, l)
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return nil, nil
	}
	toggle := func(e *editor.Editor, level int) error {
		_, err := e.Apply("toggle_heading", func(tx *editor.Tx) error {
			_, _, b := tx.FocusBlock()
			t := ir.Heading(level)
			if b != nil && b.Type == t {
				t = ir.ParagraphType
			}
			tx.SetBlockType(t)
			return nil
		})
		return err
	}
	u := &editor.Unit{
		Key:    HeadingKey,
		Schema: &schema.Contribution{Blocks: ts},
		Keys: editor.KeyHandlerFunc(func(e *editor.Editor, ev editor.KeyEvent) (bool, error) {
			for _, l := range levels {
				if ev.Is("mod+alt+" + strconv.Itoa(l)) {
					return true, toggle(e, l)
				}
			}
			return false, nil
		}),
		Commands: map[string]editor.Command{
			"toggle-heading": func(e *editor.Editor, arg string) error {
				l, err := strconv.Atoi(arg)
				if err != nil || !slices.Contains(levels, l) {
					return fmt.Errorf("heading level %q is not enabled", arg)
				}
				return toggle(e, l)
			},
		},
	}
	for _, l := range levels {
		s := strconv.Itoa(l)
		u.Toolbar = append(u.Toolbar, editor.ToolbarItem{
			Name: string(ir.Heading(l)), Label: "H" + s, Command: "toggle-heading", Shortcut: "mod+alt+" + s,
		})
	}
	return u, nil
}

func Quote(bc *BuildContext) (*editor.Unit, error) {
	if !bc.Host.NodeTypeEnabled(ir.QuoteType) {
		return nil, nil
	}
	return &editor.Unit{
		Key: QuoteKey,
		Schema: &schema.Contribution{
			Blocks:     []ir.NodeType{ir.QuoteType},
			Containers: []ir.NodeType{ir.QuoteType},
		},
		Rules:   []normalize.Rule{QuoteHoldsParagraphs()},
		Toolbar: []editor.ToolbarItem{{Name: string(ir.QuoteType), Label: "Quote", Command: "toggle-quote"}},
		Commands: map[string]editor.Command{
			"toggle-quote": func(e *editor.Editor, _ string) error {
				_, err := e.Apply("toggle_quote", func(tx *editor.Tx) error {
					i, top := focusTop(tx)
					if top == nil {
						return nil
					}
					if top.Type == ir.QuoteType {
						tx.UnwrapNode(ir.Path{i})
						return nil
					}
					wrapTopLevel(tx, func(blocks []*ir.Node) *ir.Node { return ir.Quote(blocks...) })
					return nil
				})
				return err
			},
		},
	}, nil
}

// QuoteHoldsParagraphs flattens containers inside a quote and turns its
// other text blocks into paragraphs.
func QuoteHoldsParagraphs() normalize.Rule {
	return normalize.RuleFunc("quote-holds-paragraphs", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		if n.Type != ir.QuoteType {
			return normalize.Pass
		}
		for i, c := range n.Content {
			switch {
			case ctx.Schema.IsContainer(c.Type):
				n.Content = slices.Replace(n.Content, i, i+1, c.Content...)
				return normalize.Changed
			case ctx.Schema.IsTextBlock(c.Type) && c.Type != ir.ParagraphType:
				c.Type, c.Data = ir.ParagraphType, ir.Data{}
				return normalize.Changed
			}
		}
		return normalize.Pass
	})
}

var (
	tableTypes = []ir.NodeType{ir.TableType, ir.TableRowType, ir.TableCellType, ir.TableHeaderCellType}
	cellTypes  = []ir.NodeType{ir.TableCellType, ir.TableHeaderCellType}
)

func Table(bc *BuildContext) (*editor.Unit, error) {
	if !bc.Host.NodeTypeEnabled(ir.TableType) {
		return nil, nil
	}
	return &editor.Unit{
		Key:     TableKey,
		Schema:  &schema.Contribution{Blocks: tableTypes, Containers: tableTypes},
		Rules:   []normalize.Rule{TableStructure()},
		Toolbar: []editor.ToolbarItem{{Name: string(ir.TableType), Label: "Table", Command: "insert-table"}},
		Commands: map[string]editor.Command{
			"insert-table": func(e *editor.Editor, _ string) error {
				cell := func() *ir.Node { return ir.TableCell(ir.Paragraph(ir.Text(""))) }
				return e.InsertFragment(ir.Table(
					ir.TableRow(cell(), cell()),
					ir.TableRow(cell(), cell()),
				))
			},
		},
	}, nil
}

// TableStructure keeps rows in tables and cells in rows: other children
// are wrapped, and rows or cells found elsewhere are unwrapped.
func TableStructure() normalize.Rule {
	return normalize.RuleFunc("table-structure", func(ctx *normalize.Context, n *ir.Node) normalize.Result {
		for i, c := range n.Content {
			switch {
			case n.Type == ir.TableType && c.Type != ir.TableRowType:
				if !slices.Contains(cellTypes, c.Type) {
					c = ir.TableCell(c)
				}
				n.Content[i] = ir.TableRow(c)
			case n.Type == ir.TableRowType && !slices.Contains(cellTypes, c.Type):
				n.Content[i] = ir.TableCell(c)
			case n.Type != ir.TableType && c.Type == ir.TableRowType,
				n.Type != ir.TableRowType && slices.Contains(cellTypes, c.Type):
				n.Content = slices.Replace(n.Content, i, i+1, c.Content...)
			default:
				continue
			}
			return normalize.Changed
		}
		return normalize.Pass
	})
}
