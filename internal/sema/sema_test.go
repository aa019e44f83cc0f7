package sema

import (
	"testing"

	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/parser"
	"github.com/scriptcore/scriptcore/internal/source"
	"github.com/scriptcore/scriptcore/internal/symbols"
	"github.com/scriptcore/scriptcore/internal/types"
)

// analyze runs the full front end over text (parse, build the symbol
// graph, then run the Expression/Statement Analyzer) and returns the
// resulting Script alongside the diagnostic sink, so a test can assert on
// both the typed tree and any diagnostics raised.
func analyze(t *testing.T, text string) (*Script, *diag.Sink) {
	t.Helper()
	src, err := source.New(&source.Info{ShortName: "t.q"}, []byte(text))
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	sink := diag.NewSink()
	interner := intern.New()
	decls := parser.New(src, sink, interner).ParseScript()

	registry := types.NewRegistry()
	graph := symbols.NewGraph(sink, registry)
	graph.Build(decls)

	a := NewAnalyzer(sink, registry, graph, interner)
	return a.AnalyzeScript(decls), sink
}

func TestConvertToIdentityNeedsNoWrapper(t *testing.T) {
	r := types.NewRegistry()
	intType, _ := r.Builtin("int")
	conv, ok := convertTo(intType, intType)
	if !ok || conv != ConvIdentity {
		t.Fatalf("convertTo(int, int) = (%v, %v), want (ConvIdentity, true)", conv, ok)
	}
}

func TestConvertToTable(t *testing.T) {
	r := types.NewRegistry()
	get := func(name string) *types.Type {
		typ, ok := r.Builtin(name)
		if !ok {
			t.Fatalf("missing builtin %s", name)
		}
		return typ
	}

	cases := []struct {
		from, to string
		want     Conversion
	}{
		{"any", "string", ConvAnyToString},
		{"any", "softstring", ConvAnyToString},
		{"int", "softstring", ConvIntToString},
		{"int", "softbool", ConvIntToBool},
		{"string", "softint", ConvStringToInt},
		{"int", "any", ConvIntToAny},
	}
	for _, c := range cases {
		conv, ok := convertTo(get(c.from), get(c.to))
		if !ok || conv != c.want {
			t.Errorf("convertTo(%s, %s) = (%v, %v), want (%v, true)", c.from, c.to, conv, ok, c.want)
		}
	}
}

func TestConvertToRejectsUnrelatedTypes(t *testing.T) {
	r := types.NewRegistry()
	boolType, _ := r.Builtin("bool")
	stringType, _ := r.Builtin("string")
	if _, ok := convertTo(boolType, stringType); ok {
		t.Fatal("convertTo(bool, string) should have no conversion")
	}
}

func newTestAnalyzer() *Analyzer {
	sink := diag.NewSink()
	registry := types.NewRegistry()
	graph := symbols.NewGraph(sink, registry)
	return NewAnalyzer(sink, registry, graph, intern.New())
}

func TestDispatchBinaryPlusWidensToAnyWhenEitherSideIsAny(t *testing.T) {
	a := newTestAnalyzer()
	anyType := a.builtin("any")
	intType := a.builtin("int")
	d := a.dispatchBinary("+", anyType, intType)
	if !d.ok || d.opID != "AnyPlusAny" {
		t.Fatalf("dispatchBinary(+, any, int) = %+v, want AnyPlusAny", d)
	}
	if d.convLeft != ConvIdentity || d.convRight != ConvIntToAny {
		t.Fatalf("dispatchBinary(+, any, int) conversions = (%v, %v), want (Identity, IntToAny)", d.convLeft, d.convRight)
	}
}

func TestDispatchBinaryPlusWidensToSoftStringWhenEitherSideIsStringLike(t *testing.T) {
	a := newTestAnalyzer()
	stringType := a.builtin("string")
	intType := a.builtin("int")
	d := a.dispatchBinary("+", stringType, intType)
	if !d.ok || d.opID != "SoftStringPlusSoftString" {
		t.Fatalf("dispatchBinary(+, string, int) = %+v, want SoftStringPlusSoftString", d)
	}
}

func TestDispatchBinaryPlusWidensToSoftIntWhenBothAreIntLike(t *testing.T) {
	a := newTestAnalyzer()
	intType := a.builtin("int")
	d := a.dispatchBinary("+", intType, intType)
	if !d.ok || d.opID != "SoftIntPlusSoftInt" {
		t.Fatalf("dispatchBinary(+, int, int) = %+v, want SoftIntPlusSoftInt", d)
	}
}

func TestDispatchBinaryComparisonAlwaysResultsInBool(t *testing.T) {
	a := newTestAnalyzer()
	intType := a.builtin("int")
	d := a.dispatchBinary("<", intType, intType)
	if !d.ok || d.resultType != a.builtin("bool") {
		t.Fatalf("dispatchBinary(<, int, int).resultType = %v, want bool", d.resultType)
	}
}

func TestDispatchCompoundLeftSideAlonePicksTheScheme(t *testing.T) {
	a := newTestAnalyzer()
	anyType := a.builtin("any")
	intType := a.builtin("int")
	d := a.dispatchCompound("+=", anyType, intType)
	if !d.ok || d.opID != "AnyPlusEqualsAny" {
		t.Fatalf("dispatchCompound(+=, any, int) = %+v, want AnyPlusEqualsAny", d)
	}
	if d.convRight != ConvIntToAny {
		t.Fatalf("dispatchCompound(+=, any, int).convRight = %v, want IntToAny", d.convRight)
	}
}

func TestDispatchCompoundBitwiseRequiresIntLikeLeftOperand(t *testing.T) {
	a := newTestAnalyzer()
	stringType := a.builtin("string")
	intType := a.builtin("int")
	if d := a.dispatchCompound("&=", stringType, intType); d.ok {
		t.Fatalf("dispatchCompound(&=, string, int) should be rejected, got %+v", d)
	}
}

func TestAnalyzeScriptResolvesFunctionBodyAndBinaryPlus(t *testing.T) {
	script, sink := analyze(t, `
		class Calc {
			int add(int a, int b) {
				return a + b;
			}
		}
	`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
	if len(script.Functions) != 1 {
		t.Fatalf("Functions = %d, want 1", len(script.Functions))
	}
	fn := script.Functions[0]
	block, ok := fn.Body.(*Block)
	if !ok || len(block.Stmts) != 1 {
		t.Fatalf("fn.Body = %#v, want a single-statement Block", fn.Body)
	}
	ret, ok := block.Stmts[0].(*Return)
	if !ok {
		t.Fatalf("Stmts[0] = %#v, want *Return", block.Stmts[0])
	}
	bin, ok := ret.Value.(*Binary)
	if !ok {
		t.Fatalf("Return.Value = %#v, want *Binary", ret.Value)
	}
	if bin.OpID != "SoftIntPlusSoftInt" {
		t.Fatalf("Binary.OpID = %s, want SoftIntPlusSoftInt", bin.OpID)
	}
}

func TestAnalyzeReturnWithNoValueRequiresNothingReturnType(t *testing.T) {
	_, sink := analyze(t, `
		function int f() {
			return;
		}
	`)
	if !sink.HasErrors() {
		t.Fatalf("expected SemaReturnValueMismatch for bare return in a function returning int")
	}
	found := false
	for _, rec := range sink.Records() {
		if rec.ID == diag.SemaReturnValueMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v, want a SemaReturnValueMismatch", sink.Records())
	}
}

func TestAnalyzeReturnWithNoValueAllowedForNothingReturnType(t *testing.T) {
	_, sink := analyze(t, `
		function nothing f() {
			return;
		}
	`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
}

// A global declared only inside a descendant namespace must still resolve
// unqualified from an unrelated scope, the same "root, then lexical, then
// all-descendant-search" rule resolveFunctionGroup and symbols.ResolveClass
// already apply.
func TestAnalyzeScriptResolvesGlobalByDescendantSearch(t *testing.T) {
	_, sink := analyze(t, `
		namespace A {
			our int v;
		}
		function f() {
			my int x = v;
		}
	`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
}

func TestAnalyzeScriptGlobalInitializationConvertsInitializer(t *testing.T) {
	script, sink := analyze(t, `softstring label = 42;`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
	if len(script.GlobalInits) != 1 {
		t.Fatalf("GlobalInits = %d, want 1", len(script.GlobalInits))
	}
	conv, ok := script.GlobalInits[0].Init.(*Convert)
	if !ok || conv.Conv != ConvIntToString {
		t.Fatalf("GlobalInits[0].Init = %#v, want *Convert(IntToString)", script.GlobalInits[0].Init)
	}
}

func TestAnalyzeScriptRejectsAssignmentThroughIndex(t *testing.T) {
	_, sink := analyze(t, `
		function f() {
			my any x = 1;
			x[0] = 2;
		}
	`)
	found := false
	for _, rec := range sink.Records() {
		if rec.ID == diag.SemaInvalidLValue {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaInvalidLValue, got %v", sink.Records())
	}
}

func TestAnalyzeScriptRedeclaredLocalIsDiagnosed(t *testing.T) {
	_, sink := analyze(t, `
		function f() {
			my int x = 1;
			my int x = 2;
		}
	`)
	found := false
	for _, rec := range sink.Records() {
		if rec.ID == diag.SemaRedeclaredLocal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaRedeclaredLocal, got %v", sink.Records())
	}
}

func TestAnalyzeScriptBreakOutsideLoopIsDiagnosed(t *testing.T) {
	_, sink := analyze(t, `
		function f() {
			break;
		}
	`)
	found := false
	for _, rec := range sink.Records() {
		if rec.ID == diag.SemaBreakOutsideLoop {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaBreakOutsideLoop, got %v", sink.Records())
	}
}

func TestAnalyzeScriptBreakInsideLoopIsNotDiagnosed(t *testing.T) {
	_, sink := analyze(t, `
		function f() {
			while (true) {
				break;
			}
		}
	`)
	for _, rec := range sink.Records() {
		if rec.ID == diag.SemaBreakOutsideLoop {
			t.Fatalf("unexpected SemaBreakOutsideLoop inside a loop: %v", sink.Records())
		}
	}
}

func TestAnalyzeScriptUndeclaredIdentifierIsDiagnosed(t *testing.T) {
	_, sink := analyze(t, `
		function f() {
			my any x = y;
		}
	`)
	found := false
	for _, rec := range sink.Records() {
		if rec.ID == diag.SemaUndeclaredIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaUndeclaredIdentifier, got %v", sink.Records())
	}
}

func TestAnalyzeScriptParametersOccupyTheFirstLocalIndices(t *testing.T) {
	script, sink := analyze(t, `
		class Calc {
			int add(int a, int b) {
				my int c = a + b;
				return c;
			}
		}
	`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
	fn := script.Functions[0]
	if fn.Params[0].Index != 0 || fn.Params[1].Index != 1 {
		t.Fatalf("param indices = %d, %d, want 0, 1", fn.Params[0].Index, fn.Params[1].Index)
	}
}

func TestAnalyzeScriptTopLevelStatementsCollectIntoOneFunction(t *testing.T) {
	script, sink := analyze(t, `
		doSomething();
		doSomethingElse();
	`)
	_ = sink
	block, ok := script.TopLevel.Body.(*Block)
	if !ok || len(block.Stmts) != 2 {
		t.Fatalf("TopLevel.Body = %#v, want a 2-statement Block", script.TopLevel.Body)
	}
}

var _ ast.Expr = (*ast.Literal)(nil) // sanity: ast package imported for the test helper's decl type
