package ast

// Basic is a named type reference, e.g. "int" or "MyNamespace::MyClass".
type Basic struct {
	Span
	Name *Name
}

func (*Basic) typeNode() {}

// Asterisk is "*T", meaning "the named type, or nothing".
type Asterisk struct {
	Span
	Name *Name
}

func (*Asterisk) typeNode() {}

// Implicit marks a declaration with no syntactic type annotation at all
// (its type must be inferred from an initializer).
type Implicit struct {
	Span
}

func (*Implicit) typeNode() {}

// Invalid marks a type position the parser could not parse.
type Invalid struct {
	Span
}

func (*Invalid) typeNode() {}
