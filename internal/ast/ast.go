// Package ast defines the untyped syntax tree produced by the parser.
//
// Node variants are closed: every kind of declaration, statement,
// expression, and type annotation is its own concrete struct, and callers
// dispatch on kind with a Go type switch rather than a virtual accept/visit
// method. This keeps the tree plain data — the semantic analyzer and
// printer each own their own traversal instead of the tree carrying one.
package ast

import "github.com/scriptcore/scriptcore/internal/source"

// Span is embedded in every node and gives its extent in the source.
type Span struct {
	Start source.Location
	End   source.Location
}

// Decl is a namespace member: Namespace, Class, GlobalVariable, Function,
// Constant, Method, Field, or MemberGroup.
type Decl interface {
	declNode()
}

// Stmt is a statement.
type Stmt interface {
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	exprNode()
}

// TypeExpr is a syntactic type annotation: Basic, Asterisk, Implicit, or
// Invalid.
type TypeExpr interface {
	typeNode()
}
