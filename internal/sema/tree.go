package sema

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/scope"
	"github.com/scriptcore/scriptcore/internal/symbols"
	"github.com/scriptcore/scriptcore/internal/types"
)

// Expr is a typed expression produced by the Expression Analyzer (§4.9):
// every AST expression lowers to exactly one of these variants, each
// already carrying its resolved Type so the IR Emitter never re-resolves
// one. Node variants are closed, dispatched with a Go type switch, the
// same discipline package ast uses for the untyped tree.
type Expr interface {
	exprNode()
	Type() *types.Type
}

type typed struct{ Typ *types.Type }

func (t typed) Type() *types.Type { return t.Typ }

// IntLiteral is a constant int value.
type IntLiteral struct {
	typed
	Value int64
}

func (*IntLiteral) exprNode() {}

// StringLiteral references an interned string; Handle is the same handle
// the IR string pool keys its entries by (R2: handles survive unchanged).
type StringLiteral struct {
	typed
	Handle intern.Handle
}

func (*StringLiteral) exprNode() {}

// BoolLiteral is a constant true/false value.
type BoolLiteral struct {
	typed
	Value bool
}

func (*BoolLiteral) exprNode() {}

// NothingLiteral is the single "nothing" value.
type NothingLiteral struct{ typed }

func (*NothingLiteral) exprNode() {}

// SelfRef is "self" inside a method body, typed Class(currentClass).
type SelfRef struct{ typed }

func (*SelfRef) exprNode() {}

// LocalVariableRef is an lvalue reading/writing a routine-local slot.
type LocalVariableRef struct {
	typed
	Local *scope.Local
}

func (*LocalVariableRef) exprNode() {}

// GlobalVariableRef is an lvalue reading/writing a namespace global.
type GlobalVariableRef struct {
	typed
	Global *symbols.GlobalVariable
}

func (*GlobalVariableRef) exprNode() {}

// LocalDeclaration models "T x = e" at expression granularity (§4.9:
// "LifetimeStart as an expression"): a LifetimeStart(x) immediately
// followed by Assignment(LocalVariableRef(x), e), kept as one node so a
// declaration nested inside a larger expression still lowers in the right
// order. Init is nil for a declaration with no initializer — the IR
// Emitter then only emits the LifetimeStart.
type LocalDeclaration struct {
	typed
	Local *scope.Local
	Init  Expr
}

func (*LocalDeclaration) exprNode() {}

// Call is a resolved function/method/value invocation. Target is the
// chosen overload when the callee resolved to a known function group (nil
// for a dynamically-typed callee, e.g. invoking a closure value).
type Call struct {
	typed
	Callee Expr // receiver of a member call (also when unresolved), or the callee value of any other dynamic call; nil for a bare-name call
	Target *symbols.Function
	Args   []Expr
}

func (*Call) exprNode() {}

// Unary is a prefix or postfix unary operator application. Op is the
// operator's source spelling ("-", "!", "++", ...).
type Unary struct {
	typed
	Op      string
	Operand Expr
	Postfix bool
}

func (*Unary) exprNode() {}

// Index is operand[index]. Not an lvalue in this core (§4.9).
type Index struct {
	typed
	Operand Expr
	Index   Expr
}

func (*Index) exprNode() {}

// Access is operand.member. Not an lvalue in this core (§4.9).
type Access struct {
	typed
	Operand Expr
	Member  string
}

func (*Access) exprNode() {}

// New is "new ClassName(args)".
type New struct {
	typed
	Class *symbols.Class
	Args  []Expr
}

func (*New) exprNode() {}

// Binary is a resolved binary-operator application: OpID names the chosen
// overload (e.g. "SoftIntPlusSoftInt"), ConvLeft/ConvRight are the
// conversions inserted to reach the widened operand type.
type Binary struct {
	typed
	OpID      string
	ConvLeft  Conversion
	ConvRight Conversion
	Left      Expr
	Right     Expr
}

func (*Binary) exprNode() {}

// Instanceof is "operand instanceof ClassName".
type Instanceof struct {
	typed
	Operand Expr
	Class   *symbols.Class
}

func (*Instanceof) exprNode() {}

// Conditional is "cond ? then : else".
type Conditional struct {
	typed
	Cond Expr
	Then Expr
	Else Expr
}

func (*Conditional) exprNode() {}

// Assignment is "target = value"; Value has already been converted to
// Target's static type.
type Assignment struct {
	typed
	Target Expr
	Value  Expr
}

func (*Assignment) exprNode() {}

// CompoundAssignment is "target op= value", kept unexpanded rather than
// lowered to "target = target op value" because the target must be
// evaluated exactly once (§4.9).
type CompoundAssignment struct {
	typed
	OpID      string
	ConvRight Conversion
	Target    Expr
	Value     Expr
}

func (*CompoundAssignment) exprNode() {}

// ListOperation is one of the keyword-operator / list-form expressions
// (shift, pop, map, ...). The core does not specialise its element type;
// every operand is analysed and carried as Any.
type ListOperation struct {
	typed
	Kind ast.ListOperationKind
	Args []Expr
}

func (*ListOperation) exprNode() {}

// Regex is a /pattern/flags literal, typed Any (the core does not execute
// regex matching, only names the operator — §1 "Deliberately out of
// scope").
type Regex struct {
	typed
	Pattern string
	Flags   string
}

func (*Regex) exprNode() {}

// Closure is an inline anonymous function; Fn is analysed exactly like a
// top-level Function, with its own local-variable table.
type Closure struct {
	typed
	Fn *Function
}

func (*Closure) exprNode() {}

// Convert wraps Operand to bring its type from Operand.Type() to Typ via
// Conv, emitted as InvokeConversion by the IR Emitter. Conv == ConvIdentity
// never appears wrapped — the analyzer omits the wrapper entirely (§4.9:
// "S = D: identity (no wrapper)").
type Convert struct {
	typed
	Conv    Conversion
	Operand Expr
}

func (*Convert) exprNode() {}

// Error is a placeholder for an expression that failed to type-check; a
// diagnostic was already reported. Typed Error so it converts to anything
// without cascading further diagnostics.
type Error struct{ typed }

func (*Error) exprNode() {}

// Stmt is a typed statement produced by the Statement Analyzer (§4.10).
type Stmt interface {
	stmtNode()
}

type Empty struct{}

func (*Empty) stmtNode() {}

// ExprStmt evaluates X and discards the result.
type ExprStmt struct{ X Expr }

func (*ExprStmt) stmtNode() {}

// Block is a brace-delimited statement list; its own locals (declared
// inside Stmts) are torn down, in reverse declaration order, by the IR
// Emitter when it closes the scope (§4.8).
type Block struct {
	Locals []*scope.Local
	Stmts  []Stmt
}

func (*Block) stmtNode() {}

// Return is "return expr;"; Value is nil for bare "return;" (the enclosing
// routine's return type must be Nothing, or Implicit when unannotated — checked at
// analysis time, not re-checked by IR).
type Return struct{ Value Expr }

func (*Return) stmtNode() {}

type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

func (*If) stmtNode() {}

// Try is "try Body catch (CatchLocal) CatchBody". CatchLocal is nil for a
// bare "catch { ... }" with no bound exception variable.
type Try struct {
	Body      Stmt
	CatchLocal *scope.Local
	CatchBody Stmt
}

func (*Try) stmtNode() {}

// Foreach is "foreach (Local) in (Collection) Body".
type Foreach struct {
	Local      *scope.Local
	ByRef      bool
	Collection Expr
	Body       Stmt
}

func (*Foreach) stmtNode() {}

type Throw struct{ Value Expr }

func (*Throw) stmtNode() {}

// Simple is break/continue/rethrow/thread_exit, carried through unchanged
// from the AST (ast.SimpleKind).
type Simple struct{ Kind ast.SimpleKind }

func (*Simple) stmtNode() {}

// ScopeGuard is an on_exit/on_error/on_success block.
type ScopeGuard struct {
	Keyword string
	Body    Stmt
}

func (*ScopeGuard) stmtNode() {}

type While struct {
	Cond Expr
	Body Stmt
}

func (*While) stmtNode() {}

type DoWhile struct {
	Body Stmt
	Cond Expr
}

func (*DoWhile) stmtNode() {}

// For is "for (Init; Cond; Post) Body"; each clause may be nil.
type For struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

func (*For) stmtNode() {}

type SwitchCase struct {
	Values []Expr // empty for the default arm
	Body   []Stmt
}

type Switch struct {
	Subject Expr
	Cases   []SwitchCase
}

func (*Switch) stmtNode() {}

// GlobalVariableInitialization lowers to IR's GlobalInit(gv, expr), which
// runs exactly once during script startup (§4.10, §5).
type GlobalVariableInitialization struct {
	Global *symbols.GlobalVariable
	Init   Expr
}

func (*GlobalVariableInitialization) stmtNode() {}

// Function is one analysed routine body: a namespace-level function, a
// method, or a closure, with its own dense local-variable table. Symbol
// back-references the symbols.Function this body was analysed from (nil
// for the synthetic top-level function and for closures, neither of which
// the Symbol Graph declares), letting the IR Emitter resolve a Call's
// Target to the emitted Function it calls.
type Function struct {
	Name       string
	Symbol     *symbols.Function
	Params     []*scope.Local
	ReturnType *types.Type
	LocalCount int
	Body       Stmt
}

// Script is the complete analysed program, ready for IR emission (§6): the
// global-initializer prologue, the free-floating top-level statements, and
// every analysed user function/method.
type Script struct {
	Globals     []*symbols.GlobalVariable
	GlobalInits []*GlobalVariableInitialization
	TopLevel    *Function
	Functions   []*Function
}
