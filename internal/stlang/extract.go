// File path: internal/stlang/extract.go
package stlang

import (
	"regexp"
	"strings"
)

// declRe captures `name : type [:= value] [;] [// comment]`. The value
// runs to the terminating semicolon or, failing that, to the comment
// marker or end of line.
var declRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*:\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?::=\s*([^;]*?))?\s*;?\s*(?://\s*(.*?)\s*)?$`)

// Result bundles an extraction pass: the parsed program plus the
// declaration-section lines that did not match the grammar and were
// dropped. A dropped line is reported, never an error.
type Result struct {
	Program ParsedProgram
	Skipped []Diagnostic
}

// Extract parses VAR_GLOBAL/VAR declaration blocks out of raw ST
// source and separates the residual program body. No input is ever
// rejected: malformed declaration lines are skipped (and reported as
// diagnostics), and an unterminated section falls back to treating
// everything after the last observed END_VAR as the body. Label-free
// input yields the whole text as body.
func Extract(source string) Result {
	var result Result
	sc := NewScanner(source)

	var bodyLines []string
	lastClose := -1 // 0-based index of the last END_VAR line
	firstOpen := -1
	for line, ok := sc.Next(); ok; line, ok = sc.Next() {
		switch line.Kind {
		case LineGlobalOpen, LineLocalOpen:
			if firstOpen < 0 {
				firstOpen = line.Number - 1
			}
		case LineSectionClose:
			lastClose = line.Number - 1
		case LineDeclaration:
			label, ok := parseDeclaration(line.Text)
			if !ok {
				if strings.TrimSpace(line.Text) != "" {
					result.Skipped = append(result.Skipped, Diagnostic{
						Line:   line.Number,
						Text:   line.Text,
						Reason: "line does not match declaration grammar",
					})
				}
				continue
			}
			if line.Section == SectionGlobal {
				label.Class = ClassGlobal
				label.Device, label.Comment = MatchDevice(label.Comment, label.Name)
				result.Program.Globals = append(result.Program.Globals, label)
			} else {
				label.Class = ClassLocal
				result.Program.Locals = append(result.Program.Locals, label)
			}
		case LineBody:
			bodyLines = append(bodyLines, line.Text)
		}
	}

	if sc.Section() != SectionNone {
		// Unterminated section: the body restarts after the last
		// END_VAR. When no section ever closed, fall back to the
		// lines collected before the first open header.
		lines := strings.Split(source, "\n")
		if lastClose >= 0 {
			bodyLines = lines[lastClose+1:]
		} else if firstOpen >= 0 {
			bodyLines = lines[:firstOpen]
		}
	}
	result.Program.Body = trimBlankLines(bodyLines)
	return result
}

func parseDeclaration(line string) (Label, bool) {
	m := declRe.FindStringSubmatch(line)
	if m == nil || strings.TrimSpace(line) == "" {
		return Label{}, false
	}
	return Label{
		Name:         m[1],
		DataType:     m[2],
		InitialValue: strings.TrimSpace(m[3]),
		Comment:      strings.TrimSpace(m[4]),
	}, true
}

// trimBlankLines joins lines with their original separators and
// strips leading and trailing blank lines, leaving interior blanks
// and indentation intact.
func trimBlankLines(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
