package markup

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a one-line character diff from want to got, marking removed
// text as [-text-] and added text as {+text+}. Equal inputs yield "".
func Diff(want, got string) string {
	return DiffFunc(want, got,
		func(s string) string { return "[-" + s + "-]" },
		func(s string) string { return "{+" + s + "+}" },
	)
}

// DiffFunc is Diff with the removed and added text passed through the given
// functions instead of bracketed.
func DiffFunc(want, got string, removed, added func(string) string) string {
	if want == got {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString(removed(d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(added(d.Text))
		}
	}
	return b.String()
}
