package symbols

import (
	"testing"

	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/types"
)

func relName(parts ...string) *ast.Name {
	return &ast.Name{Parts: parts}
}

func qualName(parts ...string) *ast.Name {
	return &ast.Name{Qualified: true, Parts: parts}
}

func newGraph() (*Graph, *diag.Sink) {
	sink := diag.NewSink()
	g := NewGraph(sink, types.NewRegistry())
	return g, sink
}

// S4: "namespace A { class C {} }" and a second top-level
// "namespace A { our int v; }" merge into a single namespace A containing
// both C and v.
func TestReopenedNamespaceMergesMembers(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.Namespace{Name: relName("A"), Members: []ast.Decl{
			&ast.Class{Name: relName("C")},
		}},
		&ast.Namespace{Name: relName("A"), Members: []ast.Decl{
			&ast.GlobalVariable{Name: "v", Type: &ast.Basic{Name: relName("int")}},
		}},
	}
	g.Build(decls)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
	a, ok := g.Root.Child("A")
	if !ok {
		t.Fatal("namespace A not found")
	}
	if len(g.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1 (A declared twice must merge)", len(g.Root.Children))
	}
	if _, ok := a.Classes["C"]; !ok {
		t.Fatal("class C missing from merged namespace A")
	}
	if _, ok := a.Globals["v"]; !ok {
		t.Fatal("global v missing from merged namespace A")
	}
}

// S5: two classes named C in different namespaces; resolving "C" from an
// unrelated scope with no qualifier is ambiguous.
func TestResolveClassAmbiguousAcrossSiblingNamespaces(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.Namespace{Name: relName("A"), Members: []ast.Decl{&ast.Class{Name: relName("C")}}},
		&ast.Namespace{Name: relName("B"), Members: []ast.Decl{&ast.Class{Name: relName("C")}}},
		&ast.Namespace{Name: relName("Unrelated")},
	}
	g.Build(decls)

	unrelated, _ := g.Root.Child("Unrelated")
	before := sink.ErrorCount()
	_, ok := g.ResolveClass(unrelated, relName("C"))
	if ok {
		t.Fatal("expected resolution of ambiguous C to fail")
	}
	if sink.ErrorCount() != before+1 {
		t.Fatalf("expected exactly one new diagnostic, got %d new", sink.ErrorCount()-before)
	}
	last := sink.Records()[len(sink.Records())-1]
	if last.ID != diag.SemaAmbiguousClass {
		t.Fatalf("ID = %v, want SemaAmbiguousClass", last.ID)
	}
}

func TestResolveClassUnresolvedWhenNoMatchExists(t *testing.T) {
	g, sink := newGraph()
	g.Build(nil)
	_, ok := g.ResolveClass(g.Root, relName("Missing"))
	if ok {
		t.Fatal("expected resolution to fail")
	}
	if sink.Records()[0].ID != diag.SemaUnresolvedClass {
		t.Fatalf("ID = %v, want SemaUnresolvedClass", sink.Records()[0].ID)
	}
}

// I7: if a resolved class exists via the root-path walk (here, the
// lexical exact-path walk from an enclosing scope), no descendant search
// runs — so an ambiguous sibling elsewhere must NOT cause a failure.
func TestExactLexicalMatchShortCircuitsDescendantSearch(t *testing.T) {
	g, _ := newGraph()
	decls := []ast.Decl{
		&ast.Namespace{Name: relName("A"), Members: []ast.Decl{
			&ast.Class{Name: relName("C")},
			&ast.Namespace{Name: relName("Inner")},
		}},
		// an ambiguous-if-reached sibling: another "C" outside A
		&ast.Namespace{Name: relName("B"), Members: []ast.Decl{&ast.Class{Name: relName("C")}}},
	}
	g.Build(decls)

	a, _ := g.Root.Child("A")
	inner, _ := a.Child("Inner")

	cls, ok := g.ResolveClass(inner, relName("C"))
	if !ok {
		t.Fatal("expected C to resolve via the enclosing-scope exact walk")
	}
	if cls.ClassName() != "A::C" {
		t.Fatalf("resolved %s, want A::C", cls.ClassName())
	}
}

func TestResolveClassRootQualified(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.Namespace{Name: relName("A"), Members: []ast.Decl{&ast.Class{Name: relName("C")}}},
	}
	g.Build(decls)

	cls, ok := g.ResolveClass(g.Root, qualName("A", "C"))
	if !ok {
		t.Fatalf("expected ::A::C to resolve, diagnostics: %v", sink.Records())
	}
	if cls.ClassName() != "A::C" {
		t.Fatalf("resolved %s, want A::C", cls.ClassName())
	}
}

func TestDuplicateClassNameInSameNamespaceIsDiagnosed(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.Class{Name: relName("Dup")},
		&ast.Class{Name: relName("Dup")},
	}
	g.Build(decls)
	if !sink.HasErrors() || sink.Records()[0].ID != diag.SemaDuplicateClassName {
		t.Fatalf("expected SemaDuplicateClassName, got %v", sink.Records())
	}
}

func TestNamespaceFullNameOfRootIsEmpty(t *testing.T) {
	g, _ := newGraph()
	if got := g.Root.FullName(); got != "" {
		t.Fatalf("root FullName() = %q, want empty", got)
	}
}

func TestDuplicateGlobalVariableNameIsDiagnosed(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.GlobalVariable{Name: "x", Type: &ast.Basic{Name: relName("int")}},
		&ast.GlobalVariable{Name: "x", Type: &ast.Basic{Name: relName("string")}},
	}
	g.Build(decls)
	if !sink.HasErrors() || sink.Records()[0].ID != diag.SemaDuplicateGlobalVariableName {
		t.Fatalf("expected SemaDuplicateGlobalVariableName, got %v", sink.Records())
	}
	if g.Root.Globals["x"].Id != 1 {
		t.Fatalf("first-declared global should keep Id 1, got %d", g.Root.Globals["x"].Id)
	}
}

// spec.md:61: a global-variable name is unique against other globals,
// constants, and functions in the same namespace, not just against other
// globals. "our int x;" followed by "const x = 1;" must collide even
// though they live in the graph's two separate Globals/Constants maps.
func TestGlobalAndConstantNameCollideAcrossMaps(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.GlobalVariable{Name: "x", Type: &ast.Basic{Name: relName("int")}},
		&ast.Constant{Name: "x", Value: &ast.Literal{}},
	}
	g.Build(decls)
	if !sink.HasErrors() || sink.Records()[0].ID != diag.SemaDuplicateGlobalVariableName {
		t.Fatalf("expected SemaDuplicateGlobalVariableName, got %v", sink.Records())
	}
	if _, ok := g.Root.Constants["x"]; ok {
		t.Fatalf("the colliding constant must not be inserted once a global already owns the name")
	}
}

// The same cross-map check applies against a function of the same name.
func TestGlobalAndFunctionNameCollideAcrossMaps(t *testing.T) {
	g, sink := newGraph()
	decls := []ast.Decl{
		&ast.GlobalVariable{Name: "x", Type: &ast.Basic{Name: relName("int")}},
		&ast.Function{Name: relName("x"), ReturnType: &ast.Implicit{}},
	}
	g.Build(decls)
	if !sink.HasErrors() || sink.Records()[0].ID != diag.SemaDuplicateGlobalVariableName {
		t.Fatalf("expected SemaDuplicateGlobalVariableName, got %v", sink.Records())
	}
	if _, ok := g.Root.Functions["x"]; ok {
		t.Fatalf("the colliding function must not be inserted once a global already owns the name")
	}
}
