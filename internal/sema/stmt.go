package sema

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/scope"
	"github.com/scriptcore/scriptcore/internal/types"
)

// analyzeStmt implements the §4.10 Statement Analyzer's mapping table: each
// ast.Stmt variant lowers to exactly one typed Stmt. Scope bracketing
// (scope.Stack.Push/Pop) happens here, not in the Expression Analyzer,
// since only a statement can open or close a lexical block (§4.8).
func (a *Analyzer) analyzeStmt(s ast.Stmt) Stmt {
	switch n := s.(type) {
	case *ast.Empty:
		return &Empty{}
	case *ast.Expression:
		return &ExprStmt{a.analyzeExpr(n.X)}
	case *ast.Compound:
		return a.analyzeCompound(n)
	case *ast.Return:
		return a.analyzeReturn(n)
	case *ast.If:
		return a.analyzeIf(n)
	case *ast.Try:
		return a.analyzeTry(n)
	case *ast.Foreach:
		return a.analyzeForeach(n)
	case *ast.Throw:
		return &Throw{a.analyzeExpr(n.Value)}
	case *ast.Simple:
		return a.analyzeSimple(n)
	case *ast.ScopeGuard:
		return &ScopeGuard{n.Keyword, a.analyzeStmt(n.Body)}
	case *ast.While:
		return a.analyzeWhile(n)
	case *ast.DoWhile:
		return a.analyzeDoWhile(n)
	case *ast.For:
		return a.analyzeFor(n)
	case *ast.Switch:
		return a.analyzeSwitch(n)
	default:
		return &Empty{}
	}
}

func (a *Analyzer) analyzeCompound(n *ast.Compound) Stmt {
	a.locals.Push()
	stmts := make([]Stmt, len(n.Stmts))
	for i, s := range n.Stmts {
		stmts[i] = a.analyzeStmt(s)
	}
	locals := a.locals.Pop()
	return &Block{Locals: locals, Stmts: stmts}
}

// analyzeReturn reports a value/void mismatch against the enclosing
// routine's declared return type (§4.10); the value itself is still
// converted the normal way when both sides are value-returning.
func (a *Analyzer) analyzeReturn(n *ast.Return) Stmt {
	if n.Value == nil {
		// An Implicit (unannotated) return type has nothing pinned down to
		// mismatch against, the same leniency convertTo gives it for a
		// value-carrying return (see convert.go).
		if a.retType != nil && a.retType.Kind() != types.Nothing && a.retType.Kind() != types.Implicit {
			a.diags.Report(diag.SemaReturnValueMismatch, n.Start).Arg("nothing").Arg(a.retType.String()).Emit()
		}
		return &Return{nil}
	}
	value := a.analyzeExpr(n.Value)
	if a.retType != nil {
		value = a.convertOrReport(value, a.retType, n.Start)
	}
	return &Return{value}
}

func (a *Analyzer) analyzeIf(n *ast.If) Stmt {
	cond := a.analyzeExpr(n.Cond)
	then := a.analyzeStmt(n.Then)
	var els Stmt
	if n.Else != nil {
		els = a.analyzeStmt(n.Else)
	}
	return &If{cond, then, els}
}

// analyzeTry models catch's landing pad as a typed statement only; actual
// landing-pad block construction and the unwind edges into it are the IR
// Emitter's job (§4.11), not this analyzer's.
func (a *Analyzer) analyzeTry(n *ast.Try) Stmt {
	body := a.analyzeStmt(n.Body)

	a.locals.Push()
	var catchVar *scope.Local
	if n.HasCatchVar {
		catchVar = a.locals.Declare(n.CatchVar, a.builtin("any"), n.Start)
	}
	catchBody := a.analyzeStmt(n.CatchBody)
	a.locals.Pop()

	return &Try{Body: body, CatchLocal: catchVar, CatchBody: catchBody}
}

func (a *Analyzer) analyzeForeach(n *ast.Foreach) Stmt {
	collection := a.analyzeExpr(n.Collection)

	a.locals.Push()
	varType := a.registry.Resolve(a.ns, n.VarType, a.graph)
	if n.VarType == nil {
		// No syntactic type annotation on the loop variable: its type
		// tracks whatever the collection yields, which this core does not
		// model per-element, so it falls back to Any.
		varType = a.builtin("any")
	} else if varType.Kind() == types.Error {
		varType = a.builtin("any")
	}
	local := a.locals.Declare(n.VarName, varType, n.Start)

	a.loops++
	body := a.analyzeStmt(n.Body)
	a.loops--

	a.locals.Pop()
	return &Foreach{Local: local, ByRef: n.ByRef, Collection: collection, Body: body}
}

func (a *Analyzer) analyzeSimple(n *ast.Simple) Stmt {
	if (n.Kind == ast.Break || n.Kind == ast.Continue) && a.loops == 0 {
		id := diag.SemaBreakOutsideLoop
		if n.Kind == ast.Continue {
			id = diag.SemaContinueOutsideLoop
		}
		a.diags.Report(id, n.Start).Emit()
	}
	return &Simple{Kind: n.Kind}
}

func (a *Analyzer) analyzeWhile(n *ast.While) Stmt {
	cond := a.analyzeExpr(n.Cond)
	a.loops++
	body := a.analyzeStmt(n.Body)
	a.loops--
	return &While{cond, body}
}

func (a *Analyzer) analyzeDoWhile(n *ast.DoWhile) Stmt {
	a.loops++
	body := a.analyzeStmt(n.Body)
	a.loops--
	cond := a.analyzeExpr(n.Cond)
	return &DoWhile{body, cond}
}

func (a *Analyzer) analyzeFor(n *ast.For) Stmt {
	a.locals.Push()
	var init Stmt
	if n.Init != nil {
		init = a.analyzeStmt(n.Init)
	}
	var cond Expr
	if n.Cond != nil {
		cond = a.analyzeExpr(n.Cond)
	}
	var post Expr
	if n.Post != nil {
		post = a.analyzeExpr(n.Post)
	}

	a.loops++
	body := a.analyzeStmt(n.Body)
	a.loops--
	a.locals.Pop()

	return &For{Init: init, Cond: cond, Post: post, Body: body}
}

// analyzeSwitch analyzes every case arm under one shared lexical scope, so
// a "my" declaration in one arm's body is visible to a later arm — the same
// fallthrough-friendly scoping C's switch gives its cases.
func (a *Analyzer) analyzeSwitch(n *ast.Switch) Stmt {
	subject := a.analyzeExpr(n.Subject)

	a.locals.Push()
	cases := make([]SwitchCase, len(n.Cases))
	for i, c := range n.Cases {
		values := make([]Expr, len(c.Values))
		for j, v := range c.Values {
			values[j] = a.analyzeExpr(v)
		}
		body := make([]Stmt, len(c.Body))
		for j, s := range c.Body {
			body[j] = a.analyzeStmt(s)
		}
		cases[i] = SwitchCase{Values: values, Body: body}
	}
	a.locals.Pop()

	return &Switch{Subject: subject, Cases: cases}
}
