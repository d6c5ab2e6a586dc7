// File path: internal/stlang/extract_test.go
package stlang

import (
	"reflect"
	"testing"
)

func TestExtractStartButtonScenario(t *testing.T) {
	source := "VAR_GLOBAL\n    START : BOOL := FALSE; // X0 Start button\nEND_VAR\n\nIF START THEN Q:=TRUE; END_IF;"
	result := Extract(source)
	if len(result.Program.Globals) != 1 {
		t.Fatalf("expected one global label, got %d", len(result.Program.Globals))
	}
	got := result.Program.Globals[0]
	want := Label{
		Name:         "START",
		DataType:     "BOOL",
		Class:        ClassGlobal,
		InitialValue: "FALSE",
		Comment:      "Start button",
		Device:       "X0",
	}
	if got != want {
		t.Fatalf("label mismatch:\n got %+v\nwant %+v", got, want)
	}
	if len(result.Program.Locals) != 0 {
		t.Fatalf("expected no local labels")
	}
	if result.Program.Body != "IF START THEN Q:=TRUE; END_IF;" {
		t.Fatalf("unexpected body: %q", result.Program.Body)
	}
}

func TestExtractLocalLabels(t *testing.T) {
	source := "VAR\n    counter : INT := 0;\n    done : BOOL; // finished flag\nEND_VAR\ncounter := counter + 1;"
	result := Extract(source)
	if len(result.Program.Locals) != 2 {
		t.Fatalf("expected two local labels, got %d", len(result.Program.Locals))
	}
	first := result.Program.Locals[0]
	if first.Name != "counter" || first.DataType != "INT" || first.InitialValue != "0" || first.Class != ClassLocal {
		t.Fatalf("unexpected first local: %+v", first)
	}
	second := result.Program.Locals[1]
	if second.Comment != "finished flag" || second.Device != "" {
		t.Fatalf("local labels must not carry devices: %+v", second)
	}
}

func TestExtractSkipsMalformedLines(t *testing.T) {
	source := "VAR_GLOBAL\n    (* stray *)\n    OK : BOOL;\n    broken line without colon\nEND_VAR\nbody;"
	result := Extract(source)
	if len(result.Program.Globals) != 1 || result.Program.Globals[0].Name != "OK" {
		t.Fatalf("expected only the well-formed label, got %+v", result.Program.Globals)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected two diagnostics, got %d: %+v", len(result.Skipped), result.Skipped)
	}
	if result.Skipped[0].Line != 2 {
		t.Fatalf("expected diagnostic for line 2, got %d", result.Skipped[0].Line)
	}
}

func TestExtractBlankLinesInsideSectionNotReported(t *testing.T) {
	result := Extract("VAR\n\n    x : INT;\n\nEND_VAR")
	if len(result.Skipped) != 0 {
		t.Fatalf("blank lines should not produce diagnostics: %+v", result.Skipped)
	}
	if len(result.Program.Locals) != 1 {
		t.Fatalf("expected one label")
	}
}

func TestExtractNoSectionsYieldsWholeBody(t *testing.T) {
	source := "IF A THEN\n    B := 1;\nEND_IF;"
	result := Extract(source)
	if len(result.Program.Globals) != 0 || len(result.Program.Locals) != 0 {
		t.Fatalf("expected no labels")
	}
	if result.Program.Body != source {
		t.Fatalf("expected full input as body, got %q", result.Program.Body)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	result := Extract("")
	if len(result.Program.Globals) != 0 || len(result.Program.Locals) != 0 || result.Program.Body != "" {
		t.Fatalf("unexpected result for empty input: %+v", result.Program)
	}
}

func TestExtractUnterminatedSectionFallsBackToLastClose(t *testing.T) {
	source := "VAR_GLOBAL\n    A : BOOL;\nEND_VAR\nQ := A;\nVAR\n    B : INT;"
	result := Extract(source)
	if len(result.Program.Globals) != 1 {
		t.Fatalf("expected the closed section's label, got %+v", result.Program.Globals)
	}
	// The dangling declaration is still collected tolerantly.
	if len(result.Program.Locals) != 1 || result.Program.Locals[0].Name != "B" {
		t.Fatalf("expected tolerant local label, got %+v", result.Program.Locals)
	}
	want := "Q := A;\nVAR\n    B : INT;"
	if result.Program.Body != want {
		t.Fatalf("body should restart after the last END_VAR:\n got %q\nwant %q", result.Program.Body, want)
	}
}

func TestExtractUnterminatedWithoutAnyCloseKeepsLeadingBody(t *testing.T) {
	source := "Q := 1;\nVAR\n    B : INT;"
	result := Extract(source)
	if result.Program.Body != "Q := 1;" {
		t.Fatalf("expected body before the open header, got %q", result.Program.Body)
	}
	if len(result.Program.Locals) != 1 {
		t.Fatalf("expected tolerant local label")
	}
}

func TestExtractDeclarationWithoutSemicolon(t *testing.T) {
	result := Extract("VAR\n    x : INT := 5\nEND_VAR")
	if len(result.Program.Locals) != 1 {
		t.Fatalf("expected label despite missing semicolon")
	}
	if result.Program.Locals[0].InitialValue != "5" {
		t.Fatalf("unexpected initial value %q", result.Program.Locals[0].InitialValue)
	}
}

func TestMatchDevice(t *testing.T) {
	cases := []struct {
		comment, name string
		wantDevice    string
		wantComment   string
	}{
		{"X0 Start button", "START", "X0", "Start button"},
		{"Start button", "START", "", "Start button"},
		{"", "MOTOR_M100", "M100", ""},
		{"", "START", "", ""},
		{"y10 output coil", "COIL", "y10", "output coil"},
		{"uses D200 units", "REG", "", "uses D200 units"},
		{"", "D200", "D200", ""},
	}
	for _, tc := range cases {
		device, comment := MatchDevice(tc.comment, tc.name)
		if device != tc.wantDevice || comment != tc.wantComment {
			t.Fatalf("MatchDevice(%q, %q) = (%q, %q), want (%q, %q)",
				tc.comment, tc.name, device, comment, tc.wantDevice, tc.wantComment)
		}
	}
}

func TestExtractPreservesDeclarationOrder(t *testing.T) {
	source := "VAR_GLOBAL\n    C : BOOL;\n    A : BOOL;\n    B : BOOL;\nEND_VAR"
	result := Extract(source)
	var names []string
	for _, label := range result.Program.Globals {
		names = append(names, label.Name)
	}
	if !reflect.DeepEqual(names, []string{"C", "A", "B"}) {
		t.Fatalf("declaration order not preserved: %v", names)
	}
}
