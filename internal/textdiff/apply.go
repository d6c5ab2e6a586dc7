// File path: internal/textdiff/apply.go
package textdiff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrCorruptDiff is returned when a diff does not apply cleanly to
// the given base text.
var ErrCorruptDiff = errors.New("textdiff: diff does not apply to base text")

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Apply reconstructs the new text from the old text and a diff
// produced by Unified. For every pair of texts a, b:
// Apply(a, Unified(a, b)) == b.
func Apply(oldText, diff string) (string, error) {
	if diff == "" {
		return oldText, nil
	}
	src := splitLines(oldText)
	lines := strings.Split(diff, "\n")

	var out []string
	pos := 0
	inHunk := false
	for i, line := range lines {
		if line == "" && i == len(lines)-1 {
			break
		}
		if m := hunkRe.FindStringSubmatch(line); m != nil {
			start, err := hunkStart(m[1], m[2])
			if err != nil {
				return "", err
			}
			if start < pos || start > len(src) {
				return "", fmt.Errorf("%w: hunk starts at line %d", ErrCorruptDiff, start+1)
			}
			out = append(out, src[pos:start]...)
			pos = start
			inHunk = true
			continue
		}
		if !inHunk {
			return "", fmt.Errorf("%w: content before first hunk header", ErrCorruptDiff)
		}
		switch {
		case strings.HasPrefix(line, " "):
			if pos >= len(src) || src[pos] != line[1:] {
				return "", fmt.Errorf("%w: context mismatch at line %d", ErrCorruptDiff, pos+1)
			}
			out = append(out, src[pos])
			pos++
		case strings.HasPrefix(line, "-"):
			if pos >= len(src) || src[pos] != line[1:] {
				return "", fmt.Errorf("%w: deletion mismatch at line %d", ErrCorruptDiff, pos+1)
			}
			pos++
		case strings.HasPrefix(line, "+"):
			out = append(out, line[1:])
		default:
			return "", fmt.Errorf("%w: unrecognized diff line %q", ErrCorruptDiff, line)
		}
	}
	out = append(out, src[pos:]...)
	return strings.Join(out, "\n"), nil
}

// hunkStart converts a printed old-range into the 0-based index of
// the first affected source line, undoing the unified-range encoding
// from formatRange.
func hunkStart(startField, lenField string) (int, error) {
	start, err := strconv.Atoi(startField)
	if err != nil {
		return 0, fmt.Errorf("%w: bad hunk range", ErrCorruptDiff)
	}
	length := 1
	if lenField != "" {
		length, err = strconv.Atoi(lenField)
		if err != nil {
			return 0, fmt.Errorf("%w: bad hunk range", ErrCorruptDiff)
		}
	}
	if length == 0 {
		// Zero-length ranges print the line before the insertion
		// point, so the printed number is already the 0-based index.
		return start, nil
	}
	return start - 1, nil
}
