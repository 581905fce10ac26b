package encode

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/richtext/ir"
)

// Encode writes node to w as an outline, one node per line.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2, Color: func(_ ColorAttr, s string) string { return s }}
	for _, opt := range opts {
		opt(es)
	}
	if es.wire {
		return ir.Encode(w, node)
	}
	if node == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	bw := bufio.NewWriter(w)
	if err := es.encode(bw, node, ir.Path{}); err != nil {
		return err
	}
	return bw.Flush()
}

func (es *EncState) encode(w *bufio.Writer, node *ir.Node, p ir.Path) error {
	if es.depth > 0 && len(p) >= es.depth {
		return nil
	}
	if es.paths {
		w.WriteString(es.Color(PathColor, fmt.Sprintf("%-8s", p.String())))
		w.WriteByte(' ')
	}
	w.WriteString(strings.Repeat(" ", len(p)*es.indent))
	if node.IsText() {
		w.WriteString(es.Color(TextColor, "text "+strconv.Quote(node.Value)))
		if len(node.Marks) != 0 {
			ms := make([]string, len(node.Marks))
			for i, m := range node.Marks {
				ms[i] = m.Type
			}
			w.WriteString(" " + es.Color(MarkColor, "["+strings.Join(ms, " ")+"]"))
		}
		_, err := w.WriteString("\n")
		return err
	}
	w.WriteString(es.Color(attrOf(node.Type), node.Type.String()))
	if attrs, err := dataAttrs(node.Data); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	} else if attrs != "" {
		w.WriteString(" " + es.Color(DataColor, attrs))
	}
	if _, err := w.WriteString("\n"); err != nil {
		return err
	}
	if node.Type.IsVoid() {
		return nil
	}
	for i, c := range node.Content {
		if err := es.encode(w, c, p.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

func attrOf(t ir.NodeType) ColorAttr {
	switch {
	case t.IsVoid():
		return VoidColor
	case t.IsInline():
		return InlineColor
	}
	return BlockColor
}

func dataAttrs(d ir.Data) (string, error) {
	var parts []string
	if d.URI != "" {
		parts = append(parts, "uri="+d.URI)
	}
	if l := d.Target; l != nil {
		ref := l.Sys.ID
		if ref == "" {
			ref = l.Sys.URN
		}
		parts = append(parts, "target="+l.Sys.LinkType+":"+ref)
	}
	for _, k := range slices.Sorted(maps.Keys(d.Raw)) {
		v, err := json.Marshal(d.Raw[k])
		if err != nil {
			return "", fmt.Errorf("data %s: %w", k, err)
		}
		parts = append(parts, k+"="+string(v))
	}
	return strings.Join(parts, " "), nil
}
