package libdiff

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/richtext/ir"
)

// MergePatch returns the RFC 7386 merge patch taking the encoding of from
// to the encoding of to. Content arrays are replaced wholesale.
func MergePatch(from, to *ir.Node) (json.RawMessage, error) {
	a, err := json.Marshal(from)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(to)
	if err != nil {
		return nil, err
	}
	d, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return d, nil
}

// ApplyMergePatch applies an RFC 7386 merge patch to doc and decodes the
// result.
func ApplyMergePatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	d, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return ir.DecodeBytes(out)
}

// ApplyPatch applies an RFC 6902 JSON patch to doc and decodes the
// result.
func ApplyPatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	d, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("json patch: %w", err)
	}
	return ir.DecodeBytes(out)
}
