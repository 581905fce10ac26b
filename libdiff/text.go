package libdiff

import (
	"fmt"
	"strings"
	"unicode/utf8"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// TextEdit is one change to a string. At is a rune offset into the
// original string. From holds the removed text for Delete and Replace,
// Text the added text for Insert and Replace.
type TextEdit struct {
	Op   Op     `json:"op"`
	At   int    `json:"at"`
	From string `json:"from,omitempty"`
	Text string `json:"text,omitempty"`
}

func (e TextEdit) String() string {
	switch e.Op {
	case Delete:
		return fmt.Sprintf("@%d -%q", e.At, e.From)
	case Insert:
		return fmt.Sprintf("@%d +%q", e.At, e.Text)
	}
	return fmt.Sprintf("@%d %q->%q", e.At, e.From, e.Text)
}

// DiffText returns the edits taking from to to, nil when they are equal.
// When the edits touch more than half of the shorter string a single
// Replace of the whole string is returned instead.
func DiffText(from, to string) []TextEdit {
	if from == to {
		return nil
	}
	dmp := diffpatch.New()
	multiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := dmp.DiffMain(from, to, multiLine)
	var (
		res  []TextEdit
		fi   int
		size int
	)
	for i := range diffs {
		diff := &diffs[i]
		n := utf8.RuneCountInString(diff.Text)
		switch diff.Type {
		case diffpatch.DiffInsert:
			if k := len(res) - 1; k >= 0 && res[k].Op == Delete && res[k].At+utf8.RuneCountInString(res[k].From) == fi {
				// insert after delete -> replace
				res[k].Op = Replace
				res[k].Text = diff.Text
				if extra := n - utf8.RuneCountInString(res[k].From); extra > 0 {
					size += extra
				}
				continue
			}
			res = append(res, TextEdit{Op: Insert, At: fi, Text: diff.Text})
			size += n
		case diffpatch.DiffDelete:
			res = append(res, TextEdit{Op: Delete, At: fi, From: diff.Text})
			fi += n
			size += n
		case diffpatch.DiffEqual:
			fi += n
		}
	}
	if size > min(utf8.RuneCountInString(from), utf8.RuneCountInString(to))/2 {
		return []TextEdit{{Op: Replace, At: 0, From: from, Text: to}}
	}
	return res
}

// PatchText applies edits produced by DiffText to doc.
func PatchText(doc string, edits []TextEdit) (string, error) {
	txt := []rune(doc)
	res := make([]rune, 0, len(txt))
	fi := 0
	for _, e := range edits {
		if e.At < fi || e.At > len(txt) {
			return "", fmt.Errorf("edit %s out of order or range", e)
		}
		res = append(res, txt[fi:e.At]...)
		fi = e.At
		switch e.Op {
		case Delete, Replace:
			from := []rune(e.From)
			if !runesHasPrefix(txt[fi:], from) {
				return "", fmt.Errorf("cannot patch, unexpected text %q at %d, expected %q", string(txt[fi:]), fi, e.From)
			}
			fi += len(from)
			if e.Op == Replace {
				res = append(res, []rune(e.Text)...)
			}
		case Insert:
			res = append(res, []rune(e.Text)...)
		default:
			return "", fmt.Errorf("unexpected text edit op %q", e.Op)
		}
	}
	res = append(res, txt[fi:]...)
	return string(res), nil
}

func runesHasPrefix(txt, prefix []rune) bool {
	if len(prefix) > len(txt) {
		return false
	}
	for i := range prefix {
		if txt[i] != prefix[i] {
			return false
		}
	}
	return true
}
