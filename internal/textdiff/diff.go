// File path: internal/textdiff/diff.go

// Package textdiff produces and applies unified line diffs between
// in-memory text blobs. Output is deterministic: the same input pair
// always renders byte-identical diff text, so diffs are safe to embed
// in audit records.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each
// hunk, matching the unified-diff default.
const contextLines = 3

// Unified returns a headerless unified diff (hunks only, no ---/+++
// file lines) between two texts. Identical inputs yield the empty
// string; an empty input yields a diff that is wholly additions or
// wholly deletions.
func Unified(oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	a := splitLines(oldText)
	b := splitLines(newText)
	matcher := difflib.NewMatcher(a, b)

	var buf strings.Builder
	for _, group := range matcher.GetGroupedOpCodes(contextLines) {
		first, last := group[0], group[len(group)-1]
		fmt.Fprintf(&buf, "@@ -%s +%s @@\n",
			formatRange(first.I1, last.I2),
			formatRange(first.J1, last.J2))
		for _, op := range group {
			switch op.Tag {
			case 'e':
				writeLines(&buf, " ", a[op.I1:op.I2])
			case 'd':
				writeLines(&buf, "-", a[op.I1:op.I2])
			case 'i':
				writeLines(&buf, "+", b[op.J1:op.J2])
			case 'r':
				writeLines(&buf, "-", a[op.I1:op.I2])
				writeLines(&buf, "+", b[op.J1:op.J2])
			}
		}
	}
	return buf.String()
}

func writeLines(buf *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		buf.WriteString(prefix)
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

// formatRange renders a hunk range the way unified diffs do: a bare
// line number for single-line ranges, start,length otherwise, with
// empty ranges anchored on the preceding line.
func formatRange(start, stop int) string {
	length := stop - start
	beginning := start + 1
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

// splitLines maps text onto the line sequence diffed by this package.
// strings.Join(splitLines(t), "\n") == t for every non-empty t, and
// empty text maps to no lines at all so that diffs against it are
// pure insertions or deletions.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
