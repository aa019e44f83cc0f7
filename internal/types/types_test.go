package types

import (
	"testing"

	"github.com/scriptcore/scriptcore/internal/ast"
)

type fakeClass string

func (c fakeClass) ClassName() string { return string(c) }

type fakeResolver map[string]ClassSymbol

func (f fakeResolver) ResolveClass(_ Scope, name *ast.Name) (ClassSymbol, bool) {
	c, ok := f[name.Text()]
	return c, ok
}

func basicName(parts ...string) *ast.Name {
	return &ast.Name{Parts: parts}
}

func TestBuiltinTypesAreSingletons(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Builtin("int")
	b, _ := r.Builtin("int")
	if a != b {
		t.Fatal("Builtin(\"int\") returned two different pointers")
	}
}

func TestResolveBasicBuiltin(t *testing.T) {
	r := NewRegistry()
	got := r.Resolve(nil, &ast.Basic{Name: basicName("string")}, fakeResolver{})
	want, _ := r.Builtin("string")
	if got != want {
		t.Fatalf("Resolve(Basic(string)) = %v, want the cached string builtin", got)
	}
}

func TestResolveImplicitAndInvalid(t *testing.T) {
	r := NewRegistry()
	if got := r.Resolve(nil, &ast.Implicit{}, fakeResolver{}); got != r.ImplicitType() {
		t.Fatalf("Resolve(Implicit) = %v, want ImplicitType sentinel", got)
	}
	if got := r.Resolve(nil, &ast.Invalid{}, fakeResolver{}); got != r.ErrorType() {
		t.Fatalf("Resolve(Invalid) = %v, want ErrorType sentinel", got)
	}
}

func TestResolveClassCachesByIdentity(t *testing.T) {
	r := NewRegistry()
	resolver := fakeResolver{"MyClass": fakeClass("MyClass")}
	name := basicName("MyClass")

	t1 := r.Resolve(nil, &ast.Basic{Name: name}, resolver)
	t2 := r.Resolve(nil, &ast.Basic{Name: name}, resolver)
	if t1 != t2 {
		t.Fatal("two resolutions of the same class produced different Type pointers")
	}
	if t1.Kind() != ClassKind {
		t.Fatalf("Kind() = %v, want ClassKind", t1.Kind())
	}
	if !t1.IsRefCounted() {
		t.Fatal("a class type must be refcounted")
	}
}

func TestResolveUnresolvedClassYieldsErrorType(t *testing.T) {
	r := NewRegistry()
	got := r.Resolve(nil, &ast.Basic{Name: basicName("Missing")}, fakeResolver{})
	if got != r.ErrorType() {
		t.Fatalf("Resolve(unresolved class) = %v, want ErrorType", got)
	}
}

func TestResolveAsteriskWrapsInOptionalAndCaches(t *testing.T) {
	r := NewRegistry()
	intType, _ := r.Builtin("int")

	o1 := r.Resolve(nil, &ast.Asterisk{Name: basicName("int")}, fakeResolver{})
	o2 := r.OptionalType(intType)
	if o1 != o2 {
		t.Fatal("Asterisk(int) did not produce the same cached Optional(int) instance")
	}
	if o1.Kind() != OptionalKind || o1.Elem() != intType {
		t.Fatalf("got Kind=%v Elem=%v, want OptionalKind wrapping int", o1.Kind(), o1.Elem())
	}
	if !o1.AcceptsNothing() {
		t.Fatal("an Optional type must accept nothing")
	}
}

func TestOptionalInheritsElemRefCounted(t *testing.T) {
	r := NewRegistry()
	stringType, _ := r.Builtin("string")
	opt := r.OptionalType(stringType)
	if !opt.IsRefCounted() {
		t.Fatal("Optional(string) must be refcounted since string is")
	}

	intType, _ := r.Builtin("int")
	optInt := r.OptionalType(intType)
	if optInt.IsRefCounted() {
		t.Fatal("Optional(int) must not be refcounted")
	}
}

func TestIdentityEqualsIsPointerEquality(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Builtin("bool")
	b, _ := r.Builtin("bool")
	c, _ := r.Builtin("int")
	if !IdentityEquals(a, b) {
		t.Fatal("IdentityEquals(bool, bool) = false")
	}
	if IdentityEquals(a, c) {
		t.Fatal("IdentityEquals(bool, int) = true")
	}
}
