// File path: internal/labels/export.go
package labels

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf16"

	"github.com/controlforge/stlab/internal/stlang"
)

// ExportCSV renders the stage's global and local labels as a
// sectioned CSV document suitable for import into PLC engineering
// tools. Global rows carry the device column; local rows do not.
func ExportCSV(stageName string, globals, locals []stlang.Label) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Global Labels - %s\n\n", stageName)
	if len(globals) > 0 {
		w := csv.NewWriter(&buf)
		w.Write([]string{"Label Name", "Data Type", "Class", "Device", "Initial Value", "Comment"})
		for _, label := range globals {
			w.Write([]string{label.Name, label.DataType, string(label.Class), label.Device, label.InitialValue, label.Comment})
		}
		w.Flush()
	} else {
		buf.WriteString("No global labels\n")
	}

	fmt.Fprintf(&buf, "\n\n# Local Labels - %s\n\n", stageName)
	if len(locals) > 0 {
		w := csv.NewWriter(&buf)
		w.Write([]string{"Label Name", "Data Type", "Class", "Initial Value", "Comment"})
		for _, label := range locals {
			w.Write([]string{label.Name, label.DataType, string(label.Class), label.InitialValue, label.Comment})
		}
		w.Flush()
	} else {
		buf.WriteString("No local labels\n")
	}
	return buf.String()
}

// EncodeUTF16LE converts the CSV text to UTF-16 little-endian with a
// byte-order mark, the encoding GX Works expects for label imports.
func EncodeUTF16LE(text string) []byte {
	units := utf16.Encode([]rune(text))
	out := make([]byte, 0, 2+len(units)*2)
	out = append(out, 0xff, 0xfe)
	for _, unit := range units {
		out = append(out, byte(unit), byte(unit>>8))
	}
	return out
}
