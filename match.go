package richtext

import (
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/richtext/debug"
	"github.com/signadot/richtext/ir"
)

// Match reports whether doc has the shape of pattern. A nil pattern
// matches anything. Node types must agree; text values must be equal and
// marks too when the pattern lists any. Data set in the pattern must be
// present in doc, and a pattern element without content matches any
// content.
func Match(doc, pattern *ir.Node) bool {
	if pattern == nil {
		return true
	}
	if doc == nil {
		return false
	}
	if debug.Edit() {
		debug.Logf("match %s against %s\n", pattern.Type, doc.Type)
	}
	if doc.Type != pattern.Type {
		return false
	}
	if pattern.IsText() {
		if doc.Value != pattern.Value {
			return false
		}
		return len(pattern.Marks) == 0 || ir.SameMarks(doc.Marks, pattern.Marks)
	}
	if !matchData(doc.Data, pattern.Data) {
		return false
	}
	if len(pattern.Content) == 0 {
		return true
	}
	if len(doc.Content) != len(pattern.Content) {
		return false
	}
	for i := range doc.Content {
		if !Match(doc.Content[i], pattern.Content[i]) {
			return false
		}
	}
	return true
}

func matchData(doc, pattern ir.Data) bool {
	if pattern.URI != "" && doc.URI != pattern.URI {
		return false
	}
	if pattern.Target != nil && !pattern.Target.Equal(doc.Target) {
		return false
	}
	for k, v := range pattern.Raw {
		dv, ok := doc.Raw[k]
		if !ok || !cmp.Equal(dv, v) {
			return false
		}
	}
	return true
}
