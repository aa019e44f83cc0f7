package diag

import (
	"testing"

	"github.com/scriptcore/scriptcore/internal/source"
)

func testLoc() source.Location {
	return source.Location{Info: &source.Info{ShortName: "t.src"}, Line: 3, Column: 7}
}

func TestReportFillsTemplateArgsInOrder(t *testing.T) {
	sink := NewSink()
	var got []Record
	sink.AddProcessor(ProcessorFunc(func(r Record) { got = append(got, r) }))

	sink.Report(SemaCannotConvert, testLoc()).Arg("int").Arg("string").Emit()

	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	want := "cannot convert from int to string"
	if got[0].Message != want {
		t.Fatalf("Message = %q, want %q", got[0].Message, want)
	}
	if got[0].Level != Error {
		t.Fatalf("Level = %v, want Error", got[0].Level)
	}
	if got[0].Code != "S0010" {
		t.Fatalf("Code = %q, want S0010", got[0].Code)
	}
}

func TestEmitNotifiesAllRegisteredProcessorsInOrder(t *testing.T) {
	sink := NewSink()
	var order []int
	sink.AddProcessor(ProcessorFunc(func(Record) { order = append(order, 1) }))
	sink.AddProcessor(ProcessorFunc(func(Record) { order = append(order, 2) }))

	sink.Report(ParserExpectedName, testLoc()).Arg("';'").Emit()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("processor call order = %v, want [1 2]", order)
	}
}

func TestSuppressIsNestable(t *testing.T) {
	sink := NewSink()
	count := 0
	sink.AddProcessor(ProcessorFunc(func(Record) { count++ }))

	sink.Suppress()
	sink.Suppress()
	sink.Report(ParserExpectedName, testLoc()).Emit()
	sink.Unsuppress()
	sink.Report(ParserExpectedName, testLoc()).Emit()
	sink.Unsuppress()
	sink.Report(ParserExpectedName, testLoc()).Emit()

	if count != 1 {
		t.Fatalf("processor called %d times, want 1 (only after both Unsuppress calls)", count)
	}
}

func TestSuppressedDiagnosticsAreNotRecorded(t *testing.T) {
	sink := NewSink()
	sink.Suppress()
	sink.Report(SemaUnresolvedClass, testLoc()).Arg("Foo").Emit()
	sink.Unsuppress()

	if len(sink.Records()) != 0 {
		t.Fatalf("Records() = %v, want empty while suppressed", sink.Records())
	}
	if sink.HasErrors() {
		t.Fatal("HasErrors() true for a suppressed Error diagnostic")
	}
}

func TestHasErrorsOnlyCountsErrorLevel(t *testing.T) {
	sink := NewSink()
	sink.Report(ParserModifierGivenTwice, testLoc()).Arg("static").Emit() // Warning
	if sink.HasErrors() {
		t.Fatal("HasErrors() true after only a Warning was emitted")
	}
	sink.Report(ParserExpectedName, testLoc()).Arg("'x'").Emit() // Error
	if !sink.HasErrors() {
		t.Fatal("HasErrors() false after an Error was emitted")
	}
	if sink.ErrorCount() != 1 {
		t.Fatalf("ErrorCount() = %d, want 1", sink.ErrorCount())
	}
}

func TestPanickingProcessorIsSwallowed(t *testing.T) {
	sink := NewSink()
	calledNext := false
	sink.AddProcessor(ProcessorFunc(func(Record) { panic("boom") }))
	sink.AddProcessor(ProcessorFunc(func(Record) { calledNext = true }))

	sink.Report(ParserExpectedName, testLoc()).Arg("'x'").Emit()

	if !calledNext {
		t.Fatal("a panicking processor must not prevent later processors from running")
	}
	if !sink.HasErrors() {
		t.Fatal("a panicking processor must not prevent the diagnostic from being recorded")
	}
}

func TestUnknownIDStillEmitsAnInternalRecord(t *testing.T) {
	sink := NewSink()
	sink.Report(ID(99999), testLoc()).Emit()
	if len(sink.Records()) != 1 {
		t.Fatalf("Records() len = %d, want 1", len(sink.Records()))
	}
	if sink.Records()[0].Code != "INTERNAL" {
		t.Fatalf("Code = %q, want INTERNAL", sink.Records()[0].Code)
	}
}
