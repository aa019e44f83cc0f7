package diagfmt

import (
	"strings"
	"testing"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/source"
)

func TestFormatIncludesLocationAndCaret(t *testing.T) {
	info := &source.Info{ShortName: "t.q"}
	records := []diag.Record{{
		ID:       1,
		Code:     "E0001",
		Level:    diag.Error,
		Message:  "undeclared identifier \"x\"",
		Location: source.Location{Info: info, Line: 2, Column: 5},
	}}
	src := "our int y;\nx = 1;\n"

	out := Format(records, src, false)
	if !strings.Contains(out, "t.q:2:5") {
		t.Fatalf("output missing location header:\n%s", out)
	}
	if !strings.Contains(out, "x = 1;") {
		t.Fatalf("output missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("output missing caret:\n%s", out)
	}
	if !strings.Contains(out, "undeclared identifier") {
		t.Fatalf("output missing message:\n%s", out)
	}
}

func TestFormatMultipleRecordsAreSeparated(t *testing.T) {
	info := &source.Info{ShortName: "t.q"}
	records := []diag.Record{
		{Code: "E0001", Level: diag.Error, Message: "first", Location: source.Location{Info: info, Line: 1, Column: 1}},
		{Code: "E0002", Level: diag.Error, Message: "second", Location: source.Location{Info: info, Line: 1, Column: 1}},
	}
	out := Format(records, "a;\n", false)
	if strings.Count(out, "first") != 1 || strings.Count(out, "second") != 1 {
		t.Fatalf("expected both messages exactly once:\n%s", out)
	}
}

func TestCaretPadAccountsForFullWidthRunes(t *testing.T) {
	pad := caretPad("aＡb", 3)
	if len(pad) != 3 {
		t.Fatalf("caretPad before a full-width rune = %q (len %d), want len 3", pad, len(pad))
	}
}
