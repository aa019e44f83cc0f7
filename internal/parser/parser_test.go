package parser

import (
	"testing"

	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/lexer"
	"github.com/scriptcore/scriptcore/internal/source"
)

func newTestParser(t *testing.T, text string) (*Parser, *diag.Sink) {
	t.Helper()
	src, err := source.New(&source.Info{ShortName: "t.q"}, []byte(text))
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	sink := diag.NewSink()
	return New(src, sink, intern.New()), sink
}

func parseExprString(t *testing.T, text string) (ast.Expr, *diag.Sink) {
	t.Helper()
	p, sink := newTestParser(t, text)
	return p.ParseExpr(), sink
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expr, _ := parseExprString(t, "a = b = c")
	asn, ok := expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("top-level node is %T, want *ast.Assignment", expr)
	}
	if asn.Op != "=" || asn.Compound {
		t.Fatalf("Op = %q Compound = %v, want \"=\" false", asn.Op, asn.Compound)
	}
	inner, ok := asn.Value.(*ast.Assignment)
	if !ok {
		t.Fatalf("rhs is %T, want *ast.Assignment (right-associativity)", asn.Value)
	}
	if inner.Op != "=" {
		t.Fatalf("inner Op = %q, want \"=\"", inner.Op)
	}
}

func TestCompoundAssignmentSetsCompoundFlag(t *testing.T) {
	expr, _ := parseExprString(t, "x += 1")
	asn, ok := expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("top-level node is %T, want *ast.Assignment", expr)
	}
	if asn.Op != "+=" || !asn.Compound {
		t.Fatalf("Op = %q Compound = %v, want \"+=\" true", asn.Op, asn.Compound)
	}
}

func TestPrecedenceMultiplicationBindsTighterThanAdditive(t *testing.T) {
	expr, _ := parseExprString(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("top node = %#v, want Binary(+)", expr)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != "*" {
		t.Fatalf("rhs = %#v, want Binary(*)", bin.Right)
	}
}

func TestPrecedenceLogicalAndBindsTighterThanLogicalOr(t *testing.T) {
	expr, _ := parseExprString(t, "a || b && c")
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != "||" {
		t.Fatalf("top node = %#v, want Binary(||)", expr)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != "&&" {
		t.Fatalf("rhs = %#v, want Binary(&&)", bin.Right)
	}
}

func TestConditionalIsLowerPrecedenceThanCoalescing(t *testing.T) {
	expr, _ := parseExprString(t, "a ?? b ? c : d")
	cond, ok := expr.(*ast.Conditional)
	if !ok {
		t.Fatalf("top node = %#v, want Conditional", expr)
	}
	if _, ok := cond.Cond.(*ast.Binary); !ok {
		t.Fatalf("cond = %#v, want Binary(??)", cond.Cond)
	}
}

func TestRelationalRecognizesRegexMatchOperators(t *testing.T) {
	expr, _ := parseExprString(t, `a =~ b`)
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != "=~" {
		t.Fatalf("top node = %#v, want Binary(=~)", expr)
	}
}

func TestInstanceofBindsBetweenRelationalAndShift(t *testing.T) {
	expr, _ := parseExprString(t, "a instanceof Foo")
	iof, ok := expr.(*ast.Instanceof)
	if !ok {
		t.Fatalf("top node = %#v, want Instanceof", expr)
	}
	if iof.ClassName.Text() != "Foo" {
		t.Fatalf("ClassName = %q, want Foo", iof.ClassName.Text())
	}
}

func TestPrefixReferenceAndIncrementOperators(t *testing.T) {
	expr, _ := parseExprString(t, "\\x")
	un, ok := expr.(*ast.Unary)
	if !ok || un.Op != "\\" || un.Postfix {
		t.Fatalf("top node = %#v, want prefix Unary(\\)", expr)
	}
}

func TestPostfixIncrementSetsPostfixFlag(t *testing.T) {
	expr, _ := parseExprString(t, "x++")
	un, ok := expr.(*ast.Unary)
	if !ok || un.Op != "++" || !un.Postfix {
		t.Fatalf("top node = %#v, want postfix Unary(++)", expr)
	}
}

func TestKeywordOperatorShiftWrapsSingleOperand(t *testing.T) {
	expr, _ := parseExprString(t, "shift myList")
	op, ok := expr.(*ast.ListOperation)
	if !ok || op.Kind != ast.OpShift || len(op.Args) != 1 {
		t.Fatalf("top node = %#v, want ListOperation(OpShift, 1 arg)", expr)
	}
}

func TestListFormOperatorMapCollectsCommaArgs(t *testing.T) {
	expr, _ := parseExprString(t, "map x * 2, myList")
	op, ok := expr.(*ast.ListOperation)
	if !ok || op.Kind != ast.OpMap || len(op.Args) != 2 {
		t.Fatalf("top node = %#v, want ListOperation(OpMap, 2 args)", expr)
	}
}

func TestCallIndexAndAccessChainLeftToRight(t *testing.T) {
	expr, _ := parseExprString(t, "a.b(1)[2]")
	idx, ok := expr.(*ast.Index)
	if !ok {
		t.Fatalf("top node = %#v, want Index", expr)
	}
	call, ok := idx.Operand.(*ast.Call)
	if !ok {
		t.Fatalf("idx.Operand = %#v, want Call", idx.Operand)
	}
	access, ok := call.Callee.(*ast.Access)
	if !ok || access.Member != "b" {
		t.Fatalf("call.Callee = %#v, want Access(b)", call.Callee)
	}
}

func TestCastExpression(t *testing.T) {
	expr, _ := parseExprString(t, "cast<int>(x)")
	c, ok := expr.(*ast.Cast)
	if !ok {
		t.Fatalf("top node = %#v, want Cast", expr)
	}
	if _, ok := c.Type.(*ast.Basic); !ok {
		t.Fatalf("Type = %#v, want Basic", c.Type)
	}
}

func TestNewExpressionWithArgs(t *testing.T) {
	expr, _ := parseExprString(t, "new Foo(1, 2)")
	n, ok := expr.(*ast.New)
	if !ok || len(n.Args) != 2 {
		t.Fatalf("top node = %#v, want New with 2 args", expr)
	}
	if n.ClassName.Text() != "Foo" {
		t.Fatalf("ClassName = %q, want Foo", n.ClassName.Text())
	}
}

func TestParenthesizedSingleExprIsNotAList(t *testing.T) {
	expr, _ := parseExprString(t, "(1 + 2) * 3")
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != "*" {
		t.Fatalf("top node = %#v, want Binary(*)", expr)
	}
	if _, ok := bin.Left.(*ast.List); ok {
		t.Fatal("parenthesized single expression was wrapped in a List")
	}
}

func TestParenthesizedCommaFormIsAList(t *testing.T) {
	expr, _ := parseExprString(t, "(1, 2, 3)")
	list, ok := expr.(*ast.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("top node = %#v, want List with 3 elements", expr)
	}
}

func TestHashLiteralPreservesKeyValueOrder(t *testing.T) {
	expr, _ := parseExprString(t, `{"a": 1, "b": 2}`)
	h, ok := expr.(*ast.Hash)
	if !ok || len(h.Keys) != 2 || len(h.Values) != 2 {
		t.Fatalf("top node = %#v, want Hash with 2 pairs", expr)
	}
}

func TestVarDeclWithMyAndInitializer(t *testing.T) {
	expr, _ := parseExprString(t, "my int x = 5")
	vd, ok := expr.(*ast.VarDecl)
	if !ok || !vd.My || vd.Name != "x" || vd.Init == nil {
		t.Fatalf("top node = %#v, want VarDecl(my, x, init)", expr)
	}
}

func TestAsteriskTypePrefixMeansOptional(t *testing.T) {
	p, _ := newTestParser(t, "*Foo")
	typ := p.parseTypeExpr()
	asterisk, ok := typ.(*ast.Asterisk)
	if !ok {
		t.Fatalf("typ = %#v, want *ast.Asterisk", typ)
	}
	if asterisk.Name.Text() != "Foo" {
		t.Fatalf("Name = %q, want Foo", asterisk.Name.Text())
	}
}

func TestRecorderMarkAndResetRewindsTokenPositionNotDiagnostics(t *testing.T) {
	p, sink := newTestParser(t, "1 + foo")
	p.advance(lexer.Normal) // consume '1'
	p.advance(lexer.Normal) // consume '+', cur is now 'foo'
	mark := p.Mark()
	_, ok := p.expect(lexer.IntLiteral) // cur is Identifier, mismatch
	if ok {
		t.Fatal("expect matched unexpectedly")
	}
	errCountAfterFailedExpect := sink.ErrorCount()
	if errCountAfterFailedExpect == 0 {
		t.Fatal("expected at least one diagnostic from the failed expect")
	}
	p.Reset(mark)
	if p.cur.Type != lexer.Identifier || p.cur.Text != "foo" {
		t.Fatalf("token after Reset = %#v, want to be rewound back to 'foo'", p.cur)
	}
	// Diagnostics already emitted survive the rewind (§4.5: "partially
	// observed syntax still yields useful errors").
	if sink.ErrorCount() != errCountAfterFailedExpect {
		t.Fatalf("ErrorCount changed across Reset: before=%d after=%d", errCountAfterFailedExpect, sink.ErrorCount())
	}
}

func TestGlobalVariableDeclDisambiguatesFromFunctionCall(t *testing.T) {
	p, _ := newTestParser(t, "int counter = 0;")
	decl := p.parseNamespaceMember()
	gv, ok := decl.(*ast.GlobalVariable)
	if !ok {
		t.Fatalf("decl = %#v, want *ast.GlobalVariable", decl)
	}
	if gv.Name != "counter" || gv.Init == nil {
		t.Fatalf("GlobalVariable = %#v, want Name=counter with Init", gv)
	}
}

func TestBareCallAtTopLevelIsStatementNotGlobalDecl(t *testing.T) {
	p, _ := newTestParser(t, "doSomething();")
	decl := p.parseNamespaceMember()
	top, ok := decl.(*ast.TopLevelStmt)
	if !ok {
		t.Fatalf("decl = %#v, want *ast.TopLevelStmt", decl)
	}
	exprStmt, ok := top.Stmt.(*ast.Expression)
	if !ok {
		t.Fatalf("top.Stmt = %#v, want *ast.Expression", top.Stmt)
	}
	if _, ok := exprStmt.X.(*ast.Call); !ok {
		t.Fatalf("exprStmt.X = %#v, want *ast.Call", exprStmt.X)
	}
}

func TestFunctionDeclarationParsesParamsAndBody(t *testing.T) {
	p, _ := newTestParser(t, "int add(int a, int b) { return a + b; }")
	decl := p.parseNamespaceMember()
	fn, ok := decl.(*ast.Function)
	if !ok {
		t.Fatalf("decl = %#v, want *ast.Function", decl)
	}
	if len(fn.Params) != 2 || fn.Body == nil {
		t.Fatalf("Function = %#v, want 2 params and a body", fn)
	}
}

func TestClassDeclarationWithInheritsAndMembers(t *testing.T) {
	p, _ := newTestParser(t, `class Dog inherits Animal {
		private int age;
		int getAge() { return age; }
	}`)
	decl := p.parseNamespaceMember()
	cls, ok := decl.(*ast.Class)
	if !ok {
		t.Fatalf("decl = %#v, want *ast.Class", decl)
	}
	if len(cls.Superclasses) != 1 || cls.Superclasses[0].Name.Text() != "Animal" {
		t.Fatalf("Superclasses = %#v, want [Animal]", cls.Superclasses)
	}
	if len(cls.Members) != 2 {
		t.Fatalf("Members = %d, want 2", len(cls.Members))
	}
	if _, ok := cls.Members[0].(*ast.Field); !ok {
		t.Fatalf("Members[0] = %#v, want *ast.Field", cls.Members[0])
	}
	if _, ok := cls.Members[1].(*ast.Method); !ok {
		t.Fatalf("Members[1] = %#v, want *ast.Method", cls.Members[1])
	}
}

func TestDuplicateModifierIsDiagnosedButParsingContinues(t *testing.T) {
	p, sink := newTestParser(t, "public public int x;")
	_ = p.parseNamespaceMember()
	if len(sink.Records()) == 0 || sink.Records()[0].ID != diag.ParserModifierGivenTwice {
		t.Fatal("expected ParserModifierGivenTwice diagnostic")
	}
}

func TestSwitchStatementWithCaseAndDefault(t *testing.T) {
	p, _ := newTestParser(t, `switch (x) {
		case 1: y = 1; break;
		default: y = 0; break;
	}`)
	stmt := p.parseStmt()
	sw, ok := stmt.(*ast.Switch)
	if !ok {
		t.Fatalf("stmt = %#v, want *ast.Switch", stmt)
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("Cases = %d, want 2", len(sw.Cases))
	}
	if sw.Cases[0].Keyword != "case" || sw.Cases[1].Keyword != "default" {
		t.Fatalf("Cases keywords = %q, %q", sw.Cases[0].Keyword, sw.Cases[1].Keyword)
	}
}

func TestTryCatchWithBoundVariable(t *testing.T) {
	p, _ := newTestParser(t, `try { throw 1; } catch (ex) { rethrow; }`)
	stmt := p.parseStmt()
	tr, ok := stmt.(*ast.Try)
	if !ok || !tr.HasCatchVar || tr.CatchVar != "ex" {
		t.Fatalf("stmt = %#v, want Try with catch var ex", stmt)
	}
}

func TestForeachWithByRefAndTypedVariable(t *testing.T) {
	p, _ := newTestParser(t, `foreach (Animal \a in (animals)) { a.speak(); }`)
	stmt := p.parseStmt()
	fe, ok := stmt.(*ast.Foreach)
	if !ok || !fe.ByRef || fe.VarName != "a" || fe.VarType == nil {
		t.Fatalf("stmt = %#v, want Foreach(ByRef, a, typed)", stmt)
	}
}

func TestScopeGuardStatements(t *testing.T) {
	for _, kw := range []string{"on_exit", "on_error", "on_success"} {
		p, _ := newTestParser(t, kw+" { x = 1; }")
		stmt := p.parseStmt()
		sg, ok := stmt.(*ast.ScopeGuard)
		if !ok || sg.Keyword != kw {
			t.Fatalf("kw=%s stmt = %#v, want ScopeGuard(%s)", kw, stmt, kw)
		}
	}
}

func TestRecoverToSemicolonSkipsToAndPastNextSemicolon(t *testing.T) {
	p, _ := newTestParser(t, "garbage tokens here ; x")
	p.recover(recoverToSemicolon)
	if p.cur.Type != lexer.Identifier || p.cur.Text != "x" {
		t.Fatalf("cur after recover = %#v, want identifier 'x'", p.cur)
	}
}

func TestRecoverToClosingBraceTracksNestingDepth(t *testing.T) {
	p, _ := newTestParser(t, "garbage { nested } more } x")
	p.recover(recoverToClosingBrace)
	if p.cur.Type != lexer.Identifier || p.cur.Text != "x" {
		t.Fatalf("cur after recover = %#v, want identifier 'x'", p.cur)
	}
}

func TestMalformedStatementStillParsesAndRecovers(t *testing.T) {
	p, sink := newTestParser(t, "(1 + ; x = 2;")
	stmt := p.parseStmt()
	if sink.ErrorCount() == 0 {
		t.Fatal("expected a diagnostic from the unclosed parenthesis")
	}
	if stmt == nil {
		t.Fatal("parseStmt returned nil; the parser must never abort")
	}
}
