// File path: internal/stlang/label.go
package stlang

// Class identifies the declaration scope a label was found in. It is
// derived from the surrounding block and never read back from source.
type Class string

const (
	ClassGlobal Class = "Global"
	ClassLocal  Class = "Local"
)

// Label is a single variable declaration extracted from ST source.
type Label struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	Class        Class  `json:"class"`
	InitialValue string `json:"initial_value,omitempty"`
	Comment      string `json:"comment,omitempty"`
	// Device is a hardware address token (X0, Y10, M100, D200, T5)
	// heuristically bound to global labels only.
	Device string `json:"device,omitempty"`
}

// ParsedProgram is the result of extracting label blocks from ST
// source: ordered global and local declarations plus the residual
// program body.
type ParsedProgram struct {
	Globals []Label `json:"global_labels"`
	Locals  []Label `json:"local_labels"`
	Body    string  `json:"program_body"`
}

// Diagnostic records a line inside a declaration section that did not
// match the declaration grammar and was dropped from the label list.
type Diagnostic struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}
