package ast

// Param is one formal parameter of a Function, Method, or Closure.
type Param struct {
	Name    string
	Type    TypeExpr
	Default Expr // nil if not given
	ByRef   bool
}

// Namespace groups sub-namespaces and other members under a possibly
// multi-part name. A namespace may be re-opened; the symbol graph merges
// same-named namespaces declared under the same parent (§4.7 pass 1).
type Namespace struct {
	Span
	Name    *Name
	Members []Decl
}

func (*Namespace) declNode() {}

// SuperclassRef is one entry of a Class's "inherits" clause: an access
// modifier paired with the qualified name of the superclass.
type SuperclassRef struct {
	Modifiers Modifiers
	Name      *Name
}

// Class declares a class, its superclass list, and its body.
type Class struct {
	Span
	Modifiers    Modifiers
	Name         *Name
	Superclasses []SuperclassRef
	Members      []Decl
}

func (*Class) declNode() {}

// GlobalVariable declares a namespace-level global.
type GlobalVariable struct {
	Span
	Modifiers Modifiers
	Type      TypeExpr
	Name      string
	Init      Expr // nil if not initialized at declaration
}

func (*GlobalVariable) declNode() {}

// Function declares a namespace-level function. One overload; multiple
// Functions may share a Name (an overload group) provided their resolved
// signatures differ (§3).
type Function struct {
	Span
	Modifiers  Modifiers
	ReturnType TypeExpr
	Name       *Name
	Params     []*Param
	Body       Stmt // nil for a forward declaration
}

func (*Function) declNode() {}

// Constant declares a named compile-time constant.
type Constant struct {
	Span
	Modifiers Modifiers
	Name      string
	Value     Expr
}

func (*Constant) declNode() {}

// Method declares one class method.
type Method struct {
	Span
	Modifiers  Modifiers
	ReturnType TypeExpr
	Name       string
	Params     []*Param
	Body       Stmt
}

func (*Method) declNode() {}

// Field declares one instance field of a class, with an optional
// initializer expression or constructor-style argument list.
type Field struct {
	Span
	Modifiers Modifiers
	Type      TypeExpr
	Name      string
	Init      Expr
	InitArgs  []Expr
}

func (*Field) declNode() {}

// MemberGroup is a modifier-prefixed brace group applying one modifier set
// to every member it contains, e.g. "private { int a; int b; }".
type MemberGroup struct {
	Span
	Modifiers Modifiers
	Members   []Decl
}

func (*MemberGroup) declNode() {}

// TopLevelStmt wraps a free-floating statement appearing at namespace-member
// position, so a Script's member list (namespaces, classes, functions,
// globals, constants, and loose statements, per §3) stays one []Decl slice.
type TopLevelStmt struct {
	Span
	Stmt Stmt
}

func (*TopLevelStmt) declNode() {}
