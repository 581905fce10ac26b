package script

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/rs/zerolog"
	"github.com/signadot/richtext"
	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/encode"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/libdiff"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/tracking"
)

var (
	ErrExpectation = errors.New("expectation failed")
	ErrSyntax      = errors.New("bad argument")
)

// Error locates a failed step.
type Error struct {
	Pos lexer.Position
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Pos, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Runner executes scripts against a session.
type Runner struct {
	Session *richtext.Session
	// Events, when set, must be a tracking handler of the session; it
	// backs "expect events".
	Events *tracking.Recorder
	Log    zerolog.Logger

	seen int
}

// Run executes the steps of s in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	for _, st := range s.Stmts {
		if err := r.step(ctx, st); err != nil {
			return &Error{Pos: st.Pos, Err: err}
		}
	}
	return nil
}

func (r *Runner) step(ctx context.Context, st *Stmt) error {
	e := r.Session.Editor
	switch {
	case st.Type != nil:
		return e.InsertText(*st.Type)
	case st.Keys != nil:
		for _, k := range st.Keys {
			ev, err := editor.ParseKey(k)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSyntax, err)
			}
			handled, err := e.HandleKey(ev)
			if err != nil {
				return err
			}
			if !handled {
				r.Log.Debug().Str("key", k).Msg("key not handled")
			}
		}
		return nil
	case st.Select != nil:
		return r.selectStep(st.Select)
	case st.Paste != nil:
		_, err := e.Paste(editor.DataTransfer{st.Paste.MIME: st.Paste.Data})
		return err
	case st.Exec != nil:
		var arg string
		if st.Exec.Arg != nil {
			arg = *st.Exec.Arg
		}
		return e.Exec(st.Exec.Command, arg)
	case st.Link != nil:
		return r.linkStep(ctx, st.Link)
	case st.Drop != nil:
		from, err := ParsePath(st.Drop.From)
		if err != nil {
			return err
		}
		to, err := ParsePath(st.Drop.To)
		if err != nil {
			return err
		}
		_, err = e.Drop(editor.DropEvent{From: from, To: to})
		return err
	case st.Expect != nil:
		return r.expect(st.Expect)
	}
	return fmt.Errorf("%w: empty statement", ErrSyntax)
}

func (r *Runner) selectStep(s *Select) error {
	e := r.Session.Editor
	if s.All {
		e.SelectAll()
		return nil
	}
	a, err := ParseLoc(s.Anchor)
	if err != nil {
		return err
	}
	f := a
	if s.Focus != "" {
		if f, err = ParseLoc(s.Focus); err != nil {
			return err
		}
	}
	e.SelectLoc(a, f)
	return nil
}

func (r *Runner) linkStep(ctx context.Context, l *Link) error {
	m := r.Session.Links
	if m == nil {
		return fmt.Errorf("links are disabled")
	}
	arg := func(i int) (string, error) {
		if i >= len(l.Args) {
			return "", fmt.Errorf("%w: link %s needs %d arguments", ErrSyntax, l.Op, i+1)
		}
		return l.Args[i], nil
	}
	form := func() (*links.Form, error) {
		if f := m.Form(); f != nil {
			return f, nil
		}
		return nil, links.ErrNoForm
	}
	switch l.Op {
	case "open":
		if m.Open(tracking.OriginCommand) == nil {
			return fmt.Errorf("no link form for the selection")
		}
		return nil
	case "toggle":
		_, err := m.Toggle(tracking.OriginCommand)
		return err
	case "submit":
		return m.Submit()
	case "cancel":
		m.Cancel()
		return nil
	case "pick":
		_, err := m.PickTarget(ctx)
		return err
	case "type", "text", "uri":
		v, err := arg(0)
		if err != nil {
			return err
		}
		f, err := form()
		if err != nil {
			return err
		}
		switch l.Op {
		case "type":
			if !f.SetType(ir.NodeType(v)) {
				return fmt.Errorf("link type %q is not allowed", v)
			}
		case "text":
			f.SetText(v)
		default:
			f.SetURI(v)
		}
		return nil
	case "edit", "remove", "convert":
		v, err := arg(0)
		if err != nil {
			return err
		}
		p, err := ParsePath(v)
		if err != nil {
			return err
		}
		switch l.Op {
		case "edit":
			if m.Edit(p, tracking.OriginCommand) == nil {
				return fmt.Errorf("no link at %s", p)
			}
			return nil
		case "remove":
			_, err := m.Remove(p)
			return err
		}
		t, err := arg(1)
		if err != nil {
			return err
		}
		ref, err := arg(2)
		if err != nil {
			return err
		}
		_, err = m.Convert(p, ir.NodeType(t), linkData(ir.NodeType(t), ref))
		return err
	}
	return fmt.Errorf("%w: link %s", ErrSyntax, l.Op)
}

func linkData(t ir.NodeType, ref string) ir.Data {
	if t.IsEntityLink() {
		return ir.Data{Target: ir.NewLink(ir.LinkTypeOf(t), ref)}
	}
	return ir.Data{URI: ref}
}

func (r *Runner) expect(x *Expect) error {
	e := r.Session.Editor
	switch x.What {
	case "value", "match":
		var want *ir.Node
		if strings.TrimSpace(x.Want) != "null" {
			n, err := ir.DecodeBytes([]byte(x.Want))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSyntax, err)
			}
			want = ir.Value(n)
		}
		got := e.Value()
		ok := ir.Equal(want, got)
		if x.What == "match" {
			ok = (want == nil && got == nil) || (want != nil && richtext.Match(got, want))
		}
		if !ok {
			return mismatch("value", encode.MustString(want), encode.MustString(got))
		}
	case "text":
		if got := Text(e.Root()); got != x.Want {
			return mismatch("text", x.Want, got)
		}
	case "events":
		if r.Events == nil {
			return fmt.Errorf("no event recorder")
		}
		evs := r.Events.Events()[r.seen:]
		r.seen += len(evs)
		var got []string
		for _, ev := range evs {
			got = append(got, ev.Action.String())
		}
		want := strings.FieldsFunc(x.Want, func(c rune) bool { return c == ',' || c == ' ' })
		if !slices.Equal(want, got) {
			return mismatch("events", strings.Join(want, ","), strings.Join(got, ","))
		}
	case "selection":
		a, f, ok := e.SelectionLocs()
		got := "none"
		if ok {
			got = fmt.Sprintf("%d:%d %d:%d", a.Block, a.Offset, f.Block, f.Offset)
			if a.Block == f.Block && a.Offset == f.Offset {
				got = fmt.Sprintf("%d:%d", a.Block, a.Offset)
			}
		}
		if got != x.Want {
			return mismatch("selection", x.Want, got)
		}
	}
	return nil
}

func mismatch(what, want, got string) error {
	var edits []string
	for _, ed := range libdiff.DiffText(want, got) {
		edits = append(edits, ed.String())
	}
	return fmt.Errorf("%w: %s\nwant:\n%s\ngot:\n%s\nedits: %s", ErrExpectation, what, want, got, strings.Join(edits, " "))
}

// Text returns the texts of the leaf blocks of root joined by newlines.
func Text(root *ir.Node) string {
	var parts []string
	for _, p := range ir.LeafBlocks(root) {
		parts = append(parts, ir.Get(root, p).Text())
	}
	return strings.Join(parts, "\n")
}

// ParseLoc reads block:offset.
func ParseLoc(s string) (editor.Loc, error) {
	b, o, ok := strings.Cut(s, ":")
	if !ok {
		return editor.Loc{}, fmt.Errorf("%w: location %q", ErrSyntax, s)
	}
	bi, err := strconv.Atoi(b)
	if err != nil {
		return editor.Loc{}, fmt.Errorf("%w: location %q", ErrSyntax, s)
	}
	oi, err := strconv.Atoi(o)
	if err != nil {
		return editor.Loc{}, fmt.Errorf("%w: location %q", ErrSyntax, s)
	}
	return editor.Loc{Block: bi, Offset: oi}, nil
}

// ParsePath reads a path written like $[0][1].
func ParsePath(s string) (ir.Path, error) {
	rest, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, fmt.Errorf("%w: path %q", ErrSyntax, s)
	}
	p := ir.Path{}
	for rest != "" {
		var idx string
		if !strings.HasPrefix(rest, "[") {
			return nil, fmt.Errorf("%w: path %q", ErrSyntax, s)
		}
		idx, rest, ok = strings.Cut(rest[1:], "]")
		if !ok {
			return nil, fmt.Errorf("%w: path %q", ErrSyntax, s)
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: path %q", ErrSyntax, s)
		}
		p = append(p, i)
	}
	return p, nil
}
