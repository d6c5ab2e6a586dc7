// File path: internal/stlang/scanner.go
package stlang

import "strings"

// Section is the single-slot scanner state: which declaration block
// the scanner is currently inside.
type Section int

const (
	SectionNone Section = iota
	SectionGlobal
	SectionLocal
)

// LineKind classifies one line of raw ST source.
type LineKind int

const (
	// LineBody is any line outside a declaration section.
	LineBody LineKind = iota
	// LineGlobalOpen is a VAR_GLOBAL header opening a global section.
	LineGlobalOpen
	// LineLocalOpen is a VAR / VAR_INPUT / VAR_OUTPUT / ... header
	// opening a local section.
	LineLocalOpen
	// LineSectionClose is an END_VAR closing the current section.
	LineSectionClose
	// LineDeclaration is any line observed inside an open section.
	LineDeclaration
)

// Line is one classified source line. Number is 1-based. Section is
// the section the line was scanned in (for declaration lines).
type Line struct {
	Number  int
	Text    string
	Kind    LineKind
	Section Section
}

// Scanner walks raw ST source line by line, classifying each line
// against the section state machine:
//
//	none --VAR_GLOBAL--> global
//	none --VAR*-------> local
//	global/local --END_VAR--> none
//
// A VAR or VAR_GLOBAL header seen while already inside a section does
// not re-enter: the line is classified as a declaration line, which
// the extractor will skip as non-matching. No line is ever rejected.
// Scanners are cheap and stateless across calls; construct a new one
// per pass.
type Scanner struct {
	lines   []string
	pos     int
	section Section
}

func NewScanner(source string) *Scanner {
	return &Scanner{lines: strings.Split(source, "\n")}
}

// Section reports the scanner state after the most recent Next call.
func (s *Scanner) Section() Section {
	return s.section
}

// Next returns the next classified line; ok is false once the input
// is exhausted.
func (s *Scanner) Next() (Line, bool) {
	if s.pos >= len(s.lines) {
		return Line{}, false
	}
	raw := s.lines[s.pos]
	s.pos++

	line := Line{Number: s.pos, Text: raw, Section: s.section}
	token := firstToken(raw)
	switch {
	case token == "END_VAR" && s.section != SectionNone:
		line.Kind = LineSectionClose
		s.section = SectionNone
	case isGlobalHeader(token):
		if s.section == SectionNone {
			line.Kind = LineGlobalOpen
			s.section = SectionGlobal
			line.Section = SectionGlobal
		} else {
			line.Kind = LineDeclaration
		}
	case isLocalHeader(token):
		if s.section == SectionNone {
			line.Kind = LineLocalOpen
			s.section = SectionLocal
			line.Section = SectionLocal
		} else {
			line.Kind = LineDeclaration
		}
	case s.section != SectionNone:
		line.Kind = LineDeclaration
	default:
		line.Kind = LineBody
	}
	return line, true
}

func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func isGlobalHeader(token string) bool {
	return token == "VAR_GLOBAL" || strings.HasPrefix(token, "VAR_GLOBAL_")
}

func isLocalHeader(token string) bool {
	if token == "VAR" {
		return true
	}
	return strings.HasPrefix(token, "VAR_") && !isGlobalHeader(token)
}
