// File path: internal/stlang/format.go
package stlang

import "strings"

const declIndent = "    "

// Format renders a parsed program back into ST source text: a
// VAR_GLOBAL block, a VAR block, then the program body, each block
// followed by one blank line. Blocks with zero labels are omitted
// entirely. Format is the designated normalizer: for any
// ParsedProgram produced by Extract from well-formed source,
// Extract(Format(p)) yields p again.
func Format(p ParsedProgram) string {
	var b strings.Builder
	if len(p.Globals) > 0 {
		b.WriteString("VAR_GLOBAL\n")
		for _, label := range p.Globals {
			writeDeclaration(&b, label, true)
		}
		b.WriteString("END_VAR\n\n")
	}
	if len(p.Locals) > 0 {
		b.WriteString("VAR\n")
		for _, label := range p.Locals {
			writeDeclaration(&b, label, false)
		}
		b.WriteString("END_VAR\n\n")
	}
	b.WriteString(p.Body)
	return b.String()
}

func writeDeclaration(b *strings.Builder, label Label, withDevice bool) {
	b.WriteString(declIndent)
	b.WriteString(label.Name)
	b.WriteString(" : ")
	b.WriteString(label.DataType)
	if label.InitialValue != "" {
		b.WriteString(" := ")
		b.WriteString(label.InitialValue)
	}
	b.WriteString(";")
	trailer := label.Comment
	if withDevice && label.Device != "" {
		trailer = strings.TrimSpace(label.Device + " " + label.Comment)
	}
	if trailer != "" {
		b.WriteString(" // ")
		b.WriteString(trailer)
	}
	b.WriteString("\n")
}
