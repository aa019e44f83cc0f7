package cmd

import "testing"

func TestReadInputPrefersEvalOverArgs(t *testing.T) {
	text, name, err := readInput(nil, "our int x;")
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if text != "our int x;" || name != "<eval>" {
		t.Fatalf("readInput = (%q, %q), want eval text and <eval> name", text, name)
	}
}

func TestFormatSourceRoundTripsSimpleGlobal(t *testing.T) {
	out, err := formatSource("t.q", "our int x;")
	if err != nil {
		t.Fatalf("formatSource: %v", err)
	}
	if out == "" {
		t.Fatalf("formatSource produced empty output")
	}
}

func TestFormatSourceReportsParseErrors(t *testing.T) {
	if _, err := formatSource("t.q", "our int ;"); err == nil {
		t.Fatalf("formatSource: want error for malformed input")
	}
}
