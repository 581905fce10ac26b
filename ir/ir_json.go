package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type wireNode struct {
	NodeType NodeType        `json:"nodeType"`
	Value    *string         `json:"value,omitempty"`
	Marks    []Mark          `json:"marks,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Content  []wireNode      `json:"content,omitempty"`
}

type wireText struct {
	NodeType NodeType `json:"nodeType"`
	Value    string   `json:"value"`
	Marks    []Mark   `json:"marks"`
	Data     Data     `json:"data"`
}

type wireElement struct {
	NodeType NodeType `json:"nodeType"`
	Data     Data     `json:"data"`
	Content  []*Node  `json:"content"`
}

func (y *Node) MarshalJSON() ([]byte, error) {
	if y.Type == TextType {
		return json.Marshal(wireText{
			NodeType: y.Type,
			Value:    y.Value,
			Marks:    CanonicalMarks(y.Marks),
			Data:     y.Data,
		})
	}
	content := y.Content
	if y.Type.IsVoid() || content == nil {
		content = []*Node{}
	}
	return json.Marshal(wireElement{NodeType: y.Type, Data: y.Data, Content: content})
}

func (y *Node) UnmarshalJSON(d []byte) error {
	var w wireNode
	if err := json.Unmarshal(d, &w); err != nil {
		return err
	}
	n, err := fromWire(&w, Path{})
	if err != nil {
		return err
	}
	*y = *n
	return nil
}

func fromWire(w *wireNode, p Path) (*Node, error) {
	if w.NodeType == "" {
		return nil, &DecodeError{Path: p, Err: ErrMissingType}
	}
	n := &Node{Type: w.NodeType}
	if len(w.Data) != 0 {
		if err := json.Unmarshal(w.Data, &n.Data); err != nil {
			return nil, &DecodeError{Path: p, Err: err}
		}
	}
	if w.NodeType == TextType {
		if w.Value == nil {
			return nil, &DecodeError{Path: p, Err: ErrMissingValue}
		}
		if len(w.Content) != 0 {
			return nil, &DecodeError{Path: p, Err: fmt.Errorf("%w: text with content", ErrBadShape)}
		}
		n.Value = *w.Value
		n.Marks = CanonicalMarks(w.Marks)
		return n, nil
	}
	n.Content = make([]*Node, 0, len(w.Content))
	for i := range w.Content {
		c, err := fromWire(&w.Content[i], p.Child(i))
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, c)
	}
	if n.Type.IsVoid() && len(n.Content) == 0 {
		n.Content = append(n.Content, Text(""))
	}
	return n, nil
}

func (d Data) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Raw)+2)
	for k, v := range d.Raw {
		m[k] = v
	}
	if d.URI != "" {
		m["uri"] = d.URI
	}
	if d.Target != nil {
		m["target"] = d.Target
	}
	return json.Marshal(m)
}

func (d *Data) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]json.RawMessage
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*d = Data{}
	for k, v := range m {
		switch k {
		case "uri":
			if err := json.Unmarshal(v, &d.URI); err != nil {
				return fmt.Errorf("data.uri: %w", err)
			}
		case "target":
			var l Link
			if err := json.Unmarshal(v, &l); err != nil {
				return fmt.Errorf("data.target: %w", err)
			}
			d.Target = &l
		default:
			vd := json.NewDecoder(bytes.NewReader(v))
			vd.UseNumber()
			var x any
			if err := vd.Decode(&x); err != nil {
				return fmt.Errorf("data.%s: %w", k, err)
			}
			if d.Raw == nil {
				d.Raw = map[string]any{}
			}
			d.Raw[k] = x
		}
	}
	return nil
}

// Decode reads a document value. "null" and empty input decode to the
// empty document.
func Decode(r io.Reader) (*Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(d)
}

func DecodeBytes(d []byte) (*Node, error) {
	d = bytes.TrimSpace(d)
	if len(d) == 0 || bytes.Equal(d, []byte("null")) {
		return EmptyDocument(), nil
	}
	var w wireNode
	if err := json.Unmarshal(d, &w); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrBadShape, err)}
	}
	if w.NodeType != DocumentType {
		return nil, &DecodeError{Err: fmt.Errorf("%w: root is %q", ErrBadShape, w.NodeType)}
	}
	return fromWire(&w, Path{})
}

// Encode writes the external value of root: "null" when the document is
// empty.
func Encode(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(Value(root))
}

// EncodeIndent is Encode with indentation.
func EncodeIndent(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(Value(root))
}

// MustString encodes the tree for diagnostics.
func MustString(root *Node) string {
	if root == nil {
		return "null"
	}
	d, err := json.Marshal(root)
	if err != nil {
		panic(err)
	}
	return string(d)
}
