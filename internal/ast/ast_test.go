package ast

import "testing"

func TestNameTextJoinsPartsWithQualification(t *testing.T) {
	cases := []struct {
		n    *Name
		want string
	}{
		{&Name{Parts: []string{"Foo", "Bar"}}, "Foo::Bar"},
		{&Name{Qualified: true, Parts: []string{"Foo", "Bar"}}, "::Foo::Bar"},
		{&Name{Parts: []string{"baz"}}, "baz"},
		{&Name{}, ""},
	}
	for _, c := range cases {
		if got := c.n.Text(); got != c.want {
			t.Errorf("Text() = %q, want %q", got, c.want)
		}
	}
}

func TestModifiersAddReportsDuplicate(t *testing.T) {
	var m Modifiers
	if dup := m.Add(Static); dup {
		t.Fatal("first Add(Static) reported a duplicate")
	}
	if dup := m.Add(Static); !dup {
		t.Fatal("second Add(Static) did not report a duplicate")
	}
	if !m.Has(Static) {
		t.Fatal("Has(Static) false after Add")
	}
	if m.Has(Final) {
		t.Fatal("Has(Final) true without Add(Final)")
	}
}

func TestNodeVariantsSatisfyTheirMarkerInterfaces(t *testing.T) {
	var _ Expr = (*Literal)(nil)
	var _ Expr = (*Name)(nil)
	var _ Expr = (*List)(nil)
	var _ Expr = (*Hash)(nil)
	var _ Expr = (*VarDecl)(nil)
	var _ Expr = (*Cast)(nil)
	var _ Expr = (*Call)(nil)
	var _ Expr = (*Unary)(nil)
	var _ Expr = (*Index)(nil)
	var _ Expr = (*Access)(nil)
	var _ Expr = (*New)(nil)
	var _ Expr = (*Binary)(nil)
	var _ Expr = (*Instanceof)(nil)
	var _ Expr = (*Conditional)(nil)
	var _ Expr = (*Assignment)(nil)
	var _ Expr = (*ListOperation)(nil)
	var _ Expr = (*Regex)(nil)
	var _ Expr = (*Closure)(nil)
	var _ Expr = (*Error)(nil)

	var _ Stmt = (*Empty)(nil)
	var _ Stmt = (*Expression)(nil)
	var _ Stmt = (*Compound)(nil)
	var _ Stmt = (*Return)(nil)
	var _ Stmt = (*If)(nil)
	var _ Stmt = (*Try)(nil)
	var _ Stmt = (*Foreach)(nil)
	var _ Stmt = (*Throw)(nil)
	var _ Stmt = (*Simple)(nil)
	var _ Stmt = (*ScopeGuard)(nil)
	var _ Stmt = (*While)(nil)
	var _ Stmt = (*DoWhile)(nil)
	var _ Stmt = (*For)(nil)
	var _ Stmt = (*Switch)(nil)

	var _ Decl = (*Namespace)(nil)
	var _ Decl = (*Class)(nil)
	var _ Decl = (*GlobalVariable)(nil)
	var _ Decl = (*Function)(nil)
	var _ Decl = (*Constant)(nil)
	var _ Decl = (*Method)(nil)
	var _ Decl = (*Field)(nil)
	var _ Decl = (*MemberGroup)(nil)
	var _ Decl = (*TopLevelStmt)(nil)

	var _ TypeExpr = (*Basic)(nil)
	var _ TypeExpr = (*Asterisk)(nil)
	var _ TypeExpr = (*Implicit)(nil)
	var _ TypeExpr = (*Invalid)(nil)
}
