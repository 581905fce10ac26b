package editor

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/schema"
	"github.com/signadot/richtext/tracking"
)

// Tx is a pending change to an editor's document. Root is a private copy
// of the document; nothing a Tx does is visible until Editor.Apply
// commits it.
type Tx struct {
	Name string
	Root *ir.Node

	ed      *Editor
	sel     *selection
	pending []ir.Mark
	events  []tracking.Event
}

func (tx *Tx) Editor() *Editor { return tx.ed }

func (tx *Tx) Schema() *schema.Schema { return tx.ed.pipeline.Schema() }

// Track queues a notification that is sent once the transaction commits
// with a net change.
func (tx *Tx) Track(a tracking.Action, p tracking.Payload) {
	tx.events = append(tx.events, tracking.Event{Action: a, Payload: p})
}

// Selection returns the current selection resolved against Root.
func (tx *Tx) Selection() (ir.Range, bool) {
	if tx.sel == nil {
		return ir.Range{}, false
	}
	return tx.sel.resolve(tx.Root)
}

// Locs returns the selection edges in document order.
func (tx *Tx) Locs() (start, end Loc, ok bool) {
	if tx.sel == nil {
		return Loc{}, Loc{}, false
	}
	start, end = tx.sel.edges()
	return start, end, true
}

func (tx *Tx) Collapsed() bool {
	return tx.sel != nil && tx.sel.collapsed()
}

func (tx *Tx) Select(r ir.Range) error {
	s, err := locateRange(tx.Root, r)
	if err != nil {
		return err
	}
	tx.sel = s
	tx.pending = nil
	return nil
}

// SelectLoc selects from anchor to focus.
func (tx *Tx) SelectLoc(anchor, focus Loc) {
	tx.sel = &selection{anchor: anchor, focus: focus}
	tx.sel.orient()
	tx.pending = nil
}

// Collapse places the cursor at l.
func (tx *Tx) Collapse(l Loc) {
	tx.sel = &selection{anchor: l, focus: l}
}

func (tx *Tx) Deselect() {
	tx.sel = nil
}

// SelectAll selects from the first to the last text position.
func (tx *Tx) SelectAll() {
	first, ok := ir.FirstLeaf(tx.Root)
	if !ok {
		return
	}
	last, _ := ir.LastLeaf(tx.Root)
	a, _ := Locate(tx.Root, first)
	f, _ := Locate(tx.Root, last)
	tx.SelectLoc(a, f)
}

// Block returns the path and node of the n'th leaf block.
func (tx *Tx) Block(n int) (ir.Path, *ir.Node) {
	blocks := ir.LeafBlocks(tx.Root)
	if n < 0 || n >= len(blocks) {
		return nil, nil
	}
	return blocks[n], ir.Get(tx.Root, blocks[n])
}

// FocusBlock returns the leaf block holding the selection focus.
func (tx *Tx) FocusBlock() (Loc, ir.Path, *ir.Node) {
	if tx.sel == nil {
		return Loc{}, nil, nil
	}
	l := tx.sel.focus
	blocks := ir.LeafBlocks(tx.Root)
	if len(blocks) == 0 {
		return l, nil, nil
	}
	l.Block = max(0, min(l.Block, len(blocks)-1))
	return l, blocks[l.Block], ir.Get(tx.Root, blocks[l.Block])
}

// point resolves l, giving its block a text leaf first when it has none.
func (tx *Tx) point(l Loc) (ir.Point, Loc, bool) {
	blocks := ir.LeafBlocks(tx.Root)
	if len(blocks) == 0 {
		return ir.Point{}, l, false
	}
	l.Block = max(0, min(l.Block, len(blocks)-1))
	if b := ir.Get(tx.Root, blocks[l.Block]); len(ir.Leaves(tx.Root, blocks[l.Block])) == 0 {
		b.Content = append(b.Content, ir.Text(""))
	}
	p, ok := Resolve(tx.Root, l)
	if !ok {
		return ir.Point{}, l, false
	}
	nl, ok := Locate(tx.Root, p)
	return p, nl, ok
}

func (tx *Tx) isVoid(n *ir.Node) bool {
	return tx.Schema().IsVoid(n.Type)
}

// SelectedText returns the text covered by the selection. Text from
// different blocks is joined with newlines.
func (tx *Tx) SelectedText() string {
	start, end, ok := tx.Locs()
	if !ok {
		return ""
	}
	var parts []string
	for bi := start.Block; bi <= end.Block; bi++ {
		_, b := tx.Block(bi)
		if b == nil {
			break
		}
		txt := b.Text()
		s, e := 0, len(txt)
		if bi == start.Block {
			s = min(start.Offset, e)
		}
		if bi == end.Block {
			e = min(end.Offset, e)
		}
		parts = append(parts, txt[s:max(s, e)])
	}
	return strings.Join(parts, "\n")
}

// RangeBlocks returns the paths of the leaf blocks the selection touches.
func (tx *Tx) RangeBlocks() []ir.Path {
	start, end, ok := tx.Locs()
	if !ok {
		return nil
	}
	blocks := ir.LeafBlocks(tx.Root)
	if len(blocks) == 0 {
		return nil
	}
	s := max(0, min(start.Block, len(blocks)-1))
	e := max(0, min(end.Block, len(blocks)-1))
	return blocks[s : e+1]
}

// RangeInlines returns the inline elements the selection touches. A
// collapsed selection touches the inline holding its focus leaf.
func (tx *Tx) RangeInlines() []ir.Path {
	start, end, ok := tx.Locs()
	if !ok {
		return nil
	}
	if tx.sel.collapsed() {
		p, ok := Resolve(tx.Root, tx.sel.focus)
		if !ok {
			return nil
		}
		if in, ok := ir.InlineOf(tx.Root, p.Path); ok {
			return []ir.Path{in}
		}
		return nil
	}
	var res []ir.Path
	for bi, bp := range tx.RangeBlocks() {
		bi += start.Block
		b := ir.Get(tx.Root, bp)
		s, e := 0, len(b.Text())
		if bi == start.Block {
			s = start.Offset
		}
		if bi == end.Block {
			e = end.Offset
		}
		for _, lf := range ir.Leaves(tx.Root, bp) {
			if lf.Inline == nil || !(lf.Start < e && s < lf.End()) {
				continue
			}
			if !slices.ContainsFunc(res, lf.Inline.Equal) {
				res = append(res, lf.Inline)
			}
		}
	}
	return res
}

// InsertText inserts s at the cursor, replacing any selected content.
func (tx *Tx) InsertText(s string) error {
	if tx.sel == nil {
		return ErrNoSelection
	}
	if !tx.sel.collapsed() {
		if err := tx.DeleteFragment(); err != nil {
			return err
		}
	}
	p, l, ok := tx.point(tx.sel.focus)
	if !ok {
		return ErrNoSelection
	}
	bp, _ := ir.LeafBlockOf(tx.Root, p.Path)
	if b := ir.Get(tx.Root, bp); tx.isVoid(b) {
		para := ir.Paragraph(&ir.Node{Type: ir.TextType, Value: s, Marks: ir.CanonicalMarks(tx.pending)})
		ir.Insert(tx.Root, bp.Sibling(bp.Last()+1), para)
		tx.pending = nil
		tx.Collapse(Loc{Block: l.Block + 1, Offset: len(s)})
		return nil
	}
	leaf := ir.Get(tx.Root, p.Path)
	if tx.pending != nil && !ir.SameMarks(tx.pending, leaf.Marks) {
		parent := ir.Get(tx.Root, p.Path.Parent())
		i := p.Path.Last()
		before, after := leaf.Clone(), leaf.Clone()
		before.Value, after.Value = leaf.Value[:p.Offset], leaf.Value[p.Offset:]
		t := &ir.Node{Type: ir.TextType, Value: s, Marks: ir.CanonicalMarks(tx.pending)}
		parent.Content = slices.Replace(parent.Content, i, i+1, before, t, after)
	} else {
		leaf.Value = leaf.Value[:p.Offset] + s + leaf.Value[p.Offset:]
	}
	tx.pending = nil
	tx.Collapse(Loc{Block: l.Block, Offset: l.Offset + len(s), Inline: l.Inline})
	return nil
}

// DeleteBackward deletes the selection, or the character before a
// collapsed cursor. At the start of a block the block is merged into the
// previous one; a void on either side of the boundary is removed instead.
func (tx *Tx) DeleteBackward() error {
	if tx.sel == nil {
		return ErrNoSelection
	}
	if !tx.sel.collapsed() {
		return tx.DeleteFragment()
	}
	_, l, ok := tx.point(tx.sel.focus)
	if !ok {
		return ErrNoSelection
	}
	blocks := ir.LeafBlocks(tx.Root)
	bp := blocks[l.Block]
	cur := ir.Get(tx.Root, bp)
	if l.Offset > 0 {
		for _, lf := range ir.Leaves(tx.Root, bp) {
			if lf.Start < l.Offset && l.Offset <= lf.End() {
				o := l.Offset - lf.Start
				_, size := utf8.DecodeLastRuneInString(lf.Node.Value[:o])
				lf.Node.Value = lf.Node.Value[:o-size] + lf.Node.Value[o:]
				tx.Collapse(Loc{Block: l.Block, Offset: l.Offset - size, Inline: lf.Inline != nil})
				return nil
			}
		}
		return nil
	}
	if tx.isVoid(cur) {
		ir.Remove(tx.Root, bp)
		if l.Block == 0 {
			tx.Collapse(Loc{})
			return nil
		}
		prev := ir.Get(tx.Root, blocks[l.Block-1])
		tx.Collapse(Loc{Block: l.Block - 1, Offset: len(prev.Text())})
		return nil
	}
	if l.Block == 0 {
		return nil
	}
	pp := blocks[l.Block-1]
	prev := ir.Get(tx.Root, pp)
	if tx.isVoid(prev) {
		ir.Remove(tx.Root, pp)
		tx.Collapse(Loc{Block: l.Block - 1})
		return nil
	}
	end := len(prev.Text())
	prev.Content = append(prev.Content, cur.Content...)
	ir.Remove(tx.Root, bp)
	tx.Collapse(Loc{Block: l.Block - 1, Offset: end})
	return nil
}

// DeleteFragment deletes the selected content and collapses the cursor to
// where it started. Blocks fully inside the selection are removed and the
// remainder of the last block is joined to the first.
func (tx *Tx) DeleteFragment() error {
	if tx.sel == nil {
		return ErrNoSelection
	}
	if tx.sel.collapsed() {
		return nil
	}
	start, end := tx.sel.edges()
	blocks := ir.LeafBlocks(tx.Root)
	if len(blocks) == 0 {
		return ErrNoSelection
	}
	start.Block = max(0, min(start.Block, len(blocks)-1))
	end.Block = max(0, min(end.Block, len(blocks)-1))
	first := ir.Get(tx.Root, blocks[start.Block])
	if start.Block == end.Block {
		first.Content = deleteRange(first.Content, start.Offset, end.Offset)
		tx.Collapse(Loc{Block: start.Block, Offset: start.Offset})
		return nil
	}
	last := ir.Get(tx.Root, blocks[end.Block])
	head, _ := splitContent(first.Content, start.Offset)
	_, tail := splitContent(last.Content, end.Offset)
	if tx.isVoid(first) {
		first.Type, first.Data, head = ir.ParagraphType, ir.Data{}, nil
	}
	if tx.isVoid(last) {
		tail = nil
	}
	first.Content = concat(head, tail)
	for i := end.Block; i > start.Block; i-- {
		ir.Remove(tx.Root, blocks[i])
	}
	tx.Collapse(Loc{Block: start.Block, Offset: start.Offset})
	return nil
}

// InsertBreak splits the focus block at the cursor. On a void a new
// paragraph is started after it.
func (tx *Tx) InsertBreak() error {
	if tx.sel == nil {
		return ErrNoSelection
	}
	if !tx.sel.collapsed() {
		if err := tx.DeleteFragment(); err != nil {
			return err
		}
	}
	_, l, ok := tx.point(tx.sel.focus)
	if !ok {
		return ErrNoSelection
	}
	bp, b := tx.Block(l.Block)
	next := bp.Sibling(bp.Last() + 1)
	if tx.isVoid(b) {
		ir.Insert(tx.Root, next, ir.Paragraph(ir.Text("")))
		tx.Collapse(Loc{Block: l.Block + 1})
		return nil
	}
	left, right := splitContent(b.Content, l.Offset)
	nb := &ir.Node{Type: b.Type, Data: b.Data.Clone(), Content: right}
	b.Content = left
	ir.Insert(tx.Root, next, nb)
	tx.Collapse(Loc{Block: l.Block + 1})
	return nil
}

// InsertFragment inserts nodes at the cursor. Text and inline fragments
// go into the focus block; block fragments are placed after the part of
// the focus block before the cursor, or replace the block when it is an
// empty text block. The cursor ends after the inserted content.
func (tx *Tx) InsertFragment(nodes []*ir.Node) error {
	if tx.sel == nil {
		return ErrNoSelection
	}
	if len(nodes) == 0 {
		return nil
	}
	if !tx.sel.collapsed() {
		if err := tx.DeleteFragment(); err != nil {
			return err
		}
	}
	_, l, ok := tx.point(tx.sel.focus)
	if !ok {
		return ErrNoSelection
	}
	bp, b := tx.Block(l.Block)
	inline := !slices.ContainsFunc(nodes, func(n *ir.Node) bool {
		return !n.IsText() && !tx.Schema().IsInline(n.Type)
	})
	if inline && !tx.isVoid(b) {
		if hasElement(nodes) {
			left, right := splitContent(b.Content, l.Offset)
			b.Content = concat(left, nodes, right)
		} else {
			b.Content = insertText(b.Content, l.Offset, nodes)
		}
		tx.Collapse(Loc{Block: l.Block, Offset: l.Offset + textLen(nodes)})
		return nil
	}
	blocks := wrapInlineRuns(nodes, func(n *ir.Node) bool {
		return n.IsText() || tx.Schema().IsInline(n.Type)
	})
	parent := ir.Get(tx.Root, bp.Parent())
	i := bp.Last()
	switch {
	case tx.Schema().IsTextBlock(b.Type) && b.Text() == "" && !hasElement(b.Content):
		parent.Content = slices.Replace(parent.Content, i, i+1, blocks...)
	case tx.isVoid(b):
		parent.Content = slices.Insert(parent.Content, i+1, blocks...)
	default:
		left, right := splitContent(b.Content, l.Offset)
		b.Content = left
		ins := blocks
		if textLen(right) != 0 || hasElement(right) {
			ins = append(slices.Clone(blocks), &ir.Node{Type: b.Type, Data: b.Data.Clone(), Content: right})
		}
		parent.Content = slices.Insert(parent.Content, i+1, ins...)
	}
	tx.collapseAfter(blocks)
	return nil
}

func hasElement(content []*ir.Node) bool {
	return slices.ContainsFunc(content, (*ir.Node).IsElement)
}

// wrapInlineRuns puts runs of inline content into paragraphs.
func wrapInlineRuns(nodes []*ir.Node, isInline func(*ir.Node) bool) []*ir.Node {
	var (
		res []*ir.Node
		run []*ir.Node
	)
	flush := func() {
		if len(run) != 0 {
			res = append(res, ir.Paragraph(run...))
			run = nil
		}
	}
	for _, n := range nodes {
		if isInline(n) {
			run = append(run, n)
			continue
		}
		flush()
		res = append(res, n)
	}
	flush()
	return res
}

// collapseAfter moves the cursor to the end of the last leaf block inside
// nodes.
func (tx *Tx) collapseAfter(nodes []*ir.Node) {
	mine := map[*ir.Node]bool{}
	for _, n := range nodes {
		ir.Walk(n, func(c *ir.Node, _ ir.Path) bool {
			mine[c] = true
			return true
		})
	}
	blocks := ir.LeafBlocks(tx.Root)
	for i := len(blocks) - 1; i >= 0; i-- {
		if b := ir.Get(tx.Root, blocks[i]); mine[b] {
			tx.Collapse(Loc{Block: i, Offset: len(b.Text())})
			return
		}
	}
}

// WrapInline moves the selected text of a single block into el, which
// replaces it. It reports false when the selection is collapsed, spans
// blocks or covers any inline element.
func (tx *Tx) WrapInline(el *ir.Node) bool {
	if tx.sel == nil || tx.sel.collapsed() {
		return false
	}
	start, end := tx.sel.edges()
	if start.Block != end.Block {
		return false
	}
	_, b := tx.Block(start.Block)
	if b == nil || tx.isVoid(b) {
		return false
	}
	left, mid, right := cutContent(b.Content, start.Offset, end.Offset)
	mid, right = trimEmptyTail(mid, right)
	if hasElement(mid) {
		return false
	}
	el.Content = mid
	b.Content = concat(left, []*ir.Node{el}, right)
	tx.Collapse(Loc{Block: start.Block, Offset: end.Offset})
	return true
}

// SetNode changes the type and data of the element at p in place.
func (tx *Tx) SetNode(p ir.Path, t ir.NodeType, data ir.Data) bool {
	n := ir.Get(tx.Root, p)
	if n == nil || n.IsText() {
		return false
	}
	n.Type, n.Data = t, data
	return true
}

// UnwrapNode replaces the element at p by its children.
func (tx *Tx) UnwrapNode(p ir.Path) bool {
	if len(p) == 0 {
		return false
	}
	return ir.Unwrap(tx.Root, p)
}

// RemoveNode deletes the node at p.
func (tx *Tx) RemoveNode(p ir.Path) bool {
	return ir.Remove(tx.Root, p) != nil
}

// SetBlockType changes the type of every text block in the selection.
func (tx *Tx) SetBlockType(t ir.NodeType) bool {
	changed := false
	for _, bp := range tx.RangeBlocks() {
		b := ir.Get(tx.Root, bp)
		if !tx.Schema().IsTextBlock(b.Type) || b.Type == t {
			continue
		}
		b.Type = t
		changed = true
	}
	return changed
}

// ActiveMarks returns the marks the next inserted text would carry.
func (tx *Tx) ActiveMarks() []ir.Mark {
	if tx.pending != nil {
		return tx.pending
	}
	if tx.sel == nil {
		return nil
	}
	p, ok := Resolve(tx.Root, tx.sel.focus)
	if !ok {
		return nil
	}
	return ir.CanonicalMarks(ir.Get(tx.Root, p.Path).Marks)
}

// ToggleMark adds mark m to the selected text, or removes it when every
// selected character already has it. On a collapsed selection it toggles
// the marks of the next inserted text. It reports whether the mark was
// added. Marks the schema does not allow are ignored.
func (tx *Tx) ToggleMark(m string) bool {
	if tx.sel == nil || !tx.Schema().MarkAllowed(m) {
		return false
	}
	if tx.sel.collapsed() {
		marks := tx.ActiveMarks()
		i := slices.Index(marks, ir.Mark{Type: m})
		if i >= 0 {
			tx.pending = slices.Delete(slices.Clone(marks), i, i+1)
			return false
		}
		tx.pending = ir.CanonicalMarks(append(slices.Clone(marks), ir.Mark{Type: m}))
		return true
	}
	start, end := tx.sel.edges()
	var mid []*ir.Node
	for bi, bp := range tx.RangeBlocks() {
		bi += start.Block
		b := ir.Get(tx.Root, bp)
		if tx.isVoid(b) {
			continue
		}
		s, e := 0, len(b.Text())
		if bi == start.Block {
			s = start.Offset
		}
		if bi == end.Block {
			e = end.Offset
		}
		var part []*ir.Node
		b.Content, part = splitRange(b.Content, s, e)
		mid = append(mid, part...)
	}
	has := !slices.ContainsFunc(mid, func(t *ir.Node) bool {
		return t.Value != "" && !t.HasMark(m)
	})
	for _, t := range mid {
		if has {
			t.Marks = slices.DeleteFunc(slices.Clone(t.Marks), func(x ir.Mark) bool { return x.Type == m })
		} else if !t.HasMark(m) {
			t.Marks = ir.CanonicalMarks(append(slices.Clone(t.Marks), ir.Mark{Type: m}))
		}
	}
	return !has
}

// MoveBlock moves the top level block at from so that it ends up at index
// to. The cursor follows the moved block.
func (tx *Tx) MoveBlock(from, to int) bool {
	n := len(tx.Root.Content)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	b := ir.Remove(tx.Root, ir.Path{from})
	ir.Insert(tx.Root, ir.Path{to}, b)
	tx.collapseAfter([]*ir.Node{b})
	return true
}
