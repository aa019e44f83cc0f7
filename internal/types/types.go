// Package types implements the semantic Type Registry: a closed set of
// primitive types plus Class(c) and Optional(t), hash-consed so that
// structurally equal types share one pointer (invariant I3).
package types

import (
	"fmt"

	"github.com/scriptcore/scriptcore/internal/ast"
)

// Kind tags which shape a Type has. Optional(Int) and Optional(String) are
// not given their own Kind: they are simply the Registry's cached
// Optional-of-Int and Optional-of-String instances, same as any other
// Optional(t) — structural hash-consing already gives them a single
// canonical pointer each.
type Kind int

const (
	Error Kind = iota
	Implicit
	Any
	Nothing
	Bool
	SoftBool
	Int
	SoftInt
	String
	SoftString
	ClassKind
	OptionalKind
)

// ClassSymbol is the identity of a user class, as seen from the Type
// Registry. The symbol graph (package symbols) implements this; types does
// not import symbols, avoiding a cycle.
type ClassSymbol interface {
	ClassName() string
}

// Type is a canonical, hash-consed semantic type.
type Type struct {
	kind           Kind
	class          ClassSymbol // set when kind == ClassKind
	elem           *Type       // set when kind == OptionalKind
	acceptsNothing bool
	isRefCounted   bool
}

func (t *Type) Kind() Kind           { return t.kind }
func (t *Type) Class() ClassSymbol   { return t.class }
func (t *Type) Elem() *Type          { return t.elem }
func (t *Type) AcceptsNothing() bool { return t.acceptsNothing }
func (t *Type) IsRefCounted() bool   { return t.isRefCounted }

func (t *Type) String() string {
	switch t.kind {
	case ClassKind:
		return t.class.ClassName()
	case OptionalKind:
		return "*" + t.elem.String()
	default:
		return kindNames[t.kind]
	}
}

var kindNames = map[Kind]string{
	Error: "error", Implicit: "implicit", Any: "any", Nothing: "nothing",
	Bool: "bool", SoftBool: "softbool", Int: "int", SoftInt: "softint",
	String: "string", SoftString: "softstring",
}

// Registry owns the canonical instance of every Type reachable from this
// compilation: the built-ins are constructed once at NewRegistry, and
// Class(c)/Optional(t) instances are cached on first resolution.
type Registry struct {
	errorType     *Type
	implicitType  *Type
	builtins      map[string]*Type
	classTypes    map[ClassSymbol]*Type
	optionalTypes map[*Type]*Type
}

// NewRegistry constructs and caches the built-in types.
func NewRegistry() *Registry {
	r := &Registry{
		builtins:      make(map[string]*Type),
		classTypes:    make(map[ClassSymbol]*Type),
		optionalTypes: make(map[*Type]*Type),
	}
	r.errorType = &Type{kind: Error}
	r.implicitType = &Type{kind: Implicit}

	r.register("any", &Type{kind: Any, acceptsNothing: true, isRefCounted: true})
	r.register("nothing", &Type{kind: Nothing, acceptsNothing: true})
	r.register("bool", &Type{kind: Bool})
	r.register("softbool", &Type{kind: SoftBool})
	r.register("int", &Type{kind: Int})
	r.register("softint", &Type{kind: SoftInt})
	r.register("string", &Type{kind: String, isRefCounted: true})
	r.register("softstring", &Type{kind: SoftString, isRefCounted: true})
	return r
}

func (r *Registry) register(name string, t *Type) {
	r.builtins[name] = t
}

// ErrorType is the canonical error-type sentinel, returned whenever
// resolution fails (a missing conversion, an unresolved class, etc.).
func (r *Registry) ErrorType() *Type { return r.errorType }

// ImplicitType is the canonical sentinel for "no syntactic type
// annotation".
func (r *Registry) ImplicitType() *Type { return r.implicitType }

// Builtin looks up a built-in type by its lower-cased keyword spelling.
func (r *Registry) Builtin(name string) (*Type, bool) {
	t, ok := r.builtins[name]
	return t, ok
}

// ClassType returns (creating and caching on first use) the canonical
// Class(c) type for c.
func (r *Registry) ClassType(c ClassSymbol) *Type {
	if t, ok := r.classTypes[c]; ok {
		return t
	}
	t := &Type{kind: ClassKind, class: c, isRefCounted: true}
	r.classTypes[c] = t
	return t
}

// OptionalType returns (creating and caching on first use) the canonical
// Optional(elem) type.
func (r *Registry) OptionalType(elem *Type) *Type {
	if t, ok := r.optionalTypes[elem]; ok {
		return t
	}
	t := &Type{kind: OptionalKind, elem: elem, acceptsNothing: true, isRefCounted: elem.isRefCounted}
	r.optionalTypes[elem] = t
	return t
}

// Scope is whatever the caller's symbol graph uses to resolve a class
// Name from a lexical position; Resolve never inspects it itself, only
// threads it through to ClassResolver.
type Scope any

// ClassResolver resolves a (possibly qualified) class Name from scope. ok
// is false when resolution failed; the resolver itself reports the
// specific diagnostic (unresolved vs. ambiguous), since only it has the
// name-resolution detail to distinguish them.
type ClassResolver interface {
	ResolveClass(scope Scope, name *ast.Name) (ClassSymbol, bool)
}

// Resolve implements §4.6: turn a syntactic TypeExpr into its canonical
// semantic Type.
func (r *Registry) Resolve(scope Scope, t ast.TypeExpr, resolver ClassResolver) *Type {
	switch n := t.(type) {
	case *ast.Implicit:
		return r.implicitType
	case *ast.Invalid:
		return r.errorType
	case nil:
		return r.errorType
	case *ast.Basic:
		return r.resolveBasic(scope, n.Name, resolver)
	case *ast.Asterisk:
		underlying := r.resolveBasic(scope, n.Name, resolver)
		return r.OptionalType(underlying)
	default:
		panic(fmt.Sprintf("types.Resolve: unhandled ast.TypeExpr %T", t))
	}
}

func (r *Registry) resolveBasic(scope Scope, name *ast.Name, resolver ClassResolver) *Type {
	if name == nil || name.Invalid {
		return r.errorType
	}
	if !name.Qualified && len(name.Parts) == 1 {
		if builtin, ok := r.builtins[name.Parts[0]]; ok {
			return builtin
		}
	}
	class, ok := resolver.ResolveClass(scope, name)
	if !ok {
		return r.errorType
	}
	return r.ClassType(class)
}

// IdentityEquals reports whether a and b are the same canonical Type
// pointer — the hash-consing invariant (I3) makes this equivalent to
// structural equality.
func IdentityEquals(a, b *Type) bool {
	return a == b
}
