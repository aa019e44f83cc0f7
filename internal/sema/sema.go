// Package sema implements the Expression Analyzer and Statement Analyzer
// (§4.9, §4.10): it walks the untyped ast tree alongside the symbols.Graph
// already built from it, and produces a fully type-checked typed tree
// (this package's own Expr/Stmt) with every conversion and operator
// overload already resolved. It does not itself construct basic blocks or
// landing pads — that assembly into a stack-machine instruction stream is
// the IR Emitter's job (package ir), kept a separate pass so this package's
// output is plain, block-free data a verifier or a future interpreter can
// walk without knowing anything about control-flow graphs.
package sema

import (
	"sort"

	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/scope"
	"github.com/scriptcore/scriptcore/internal/source"
	"github.com/scriptcore/scriptcore/internal/symbols"
	"github.com/scriptcore/scriptcore/internal/types"
)

// Analyzer carries everything needed to resolve one script: the diagnostic
// sink shared with the lexer/parser/symbol-graph passes, the canonical
// Type Registry, the already-built Symbol Graph, and the string-interning
// table the IR string pool will key its entries by.
type Analyzer struct {
	diags    *diag.Sink
	registry *types.Registry
	graph    *symbols.Graph
	strings  *intern.Table

	ns      *symbols.Namespace // current namespace while walking decls
	class   *symbols.Class     // non-nil while analyzing a method body
	locals  *scope.Stack       // non-nil while analyzing a routine body
	retType *types.Type        // enclosing routine's declared return type
	loops   int                // nesting depth of while/do/for/foreach
}

// NewAnalyzer creates an Analyzer for one compilation. registry and graph
// must already be populated (registry's built-ins registered by
// types.NewRegistry, graph built by symbols.Graph.Build over the same
// decls this Analyzer will walk).
func NewAnalyzer(diags *diag.Sink, registry *types.Registry, graph *symbols.Graph, strings *intern.Table) *Analyzer {
	return &Analyzer{diags: diags, registry: registry, graph: graph, strings: strings}
}

// builtin looks up a mandatory built-in type by its registry name. Every
// name passed here ("bool", "softbool", "int", "softint", "string",
// "softstring", "any", "nothing") is registered unconditionally by
// types.NewRegistry, so a miss is an internal wiring bug, not a user error.
func (a *Analyzer) builtin(name string) *types.Type {
	t, ok := a.registry.Builtin(name)
	if !ok {
		panic("sema: missing built-in type " + name)
	}
	return t
}

// AnalyzeScript walks decls — the same top-level declaration list the
// Symbol Graph was built from — and produces the complete typed Script.
// Globals are initialized in declaration order (§5); user functions and
// methods are analyzed in declaration order; free-floating statements at
// namespace-member position (ast.TopLevelStmt) are collected into one
// synthetic top-level routine.
func (a *Analyzer) AnalyzeScript(decls []ast.Decl) *Script {
	script := &Script{}
	a.ns = a.graph.Root

	a.locals = scope.NewStack(a.diags)
	a.locals.Push()
	var topLevel []Stmt

	a.walkDecls(decls, script, &topLevel)

	locals := a.locals.Pop()
	script.TopLevel = &Function{
		Name:       "",
		ReturnType: a.builtin("nothing"),
		LocalCount: a.locals.LocalCount(),
		Body:       &Block{Locals: locals, Stmts: topLevel},
	}

	for _, g := range a.collectGlobalsInOrder(a.graph.Root) {
		script.Globals = append(script.Globals, g)
	}

	return script
}

// walkDecls is pass 2/3's counterpart for sema: it re-enters the namespace
// tree the Symbol Graph already built (by simple name, mirroring
// symbols.Graph.lookupDeclared) and analyzes every routine body found.
func (a *Analyzer) walkDecls(decls []ast.Decl, script *Script, topLevel *[]Stmt) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.Namespace:
			child, ok := descendNamespace(a.graph.Root, a.ns, n.Name)
			if !ok {
				continue
			}
			saved := a.ns
			a.ns = child
			a.walkDecls(n.Members, script, topLevel)
			a.ns = saved

		case *ast.GlobalVariable:
			gv, ok := a.ns.Globals[n.Name]
			if !ok || n.Init == nil {
				continue
			}
			init := a.analyzeExpr(n.Init)
			init = a.convertOrReport(init, gv.Type, n.Start)
			script.GlobalInits = append(script.GlobalInits, &GlobalVariableInitialization{Global: gv, Init: init})

		case *ast.Function:
			name := n.Name.Text()
			group, ok := a.ns.Functions[name]
			if !ok {
				continue
			}
			sym := findByDecl(group, n)
			if sym == nil || n.Body == nil {
				continue
			}
			script.Functions = append(script.Functions, a.analyzeFunction(name, sym, n.Params, sym.ReturnType, n.Body))

		case *ast.Class:
			cls, ok := a.ns.Classes[lastSimpleName(n.Name)]
			if !ok {
				continue
			}
			saved := a.class
			a.class = cls
			a.walkClassMembers(cls, n.Members, script)
			a.class = saved

		case *ast.TopLevelStmt:
			*topLevel = append(*topLevel, a.analyzeStmt(n.Stmt))
		}
	}
}

func (a *Analyzer) walkClassMembers(cls *symbols.Class, members []ast.Decl, script *Script) {
	for _, d := range members {
		switch n := d.(type) {
		case *ast.Method:
			group, ok := cls.Methods[n.Name]
			if !ok {
				continue
			}
			sym := findMethodByDecl(group, n)
			if sym == nil || n.Body == nil {
				continue
			}
			script.Functions = append(script.Functions, a.analyzeFunction(cls.ClassName()+"::"+n.Name, sym, n.Params, sym.ReturnType, n.Body))
		case *ast.MemberGroup:
			a.walkClassMembers(cls, n.Members, script)
		}
	}
}

func findByDecl(group *symbols.FunctionGroup, decl *ast.Function) *symbols.Function {
	for _, o := range group.Overloads {
		if o.Decl == decl {
			return o
		}
	}
	return nil
}

func findMethodByDecl(group *symbols.FunctionGroup, decl *ast.Method) *symbols.Function {
	for _, o := range group.Overloads {
		if o.MethodDecl == decl {
			return o
		}
	}
	return nil
}

func lastSimpleName(n *ast.Name) string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

// analyzeFunction analyzes one routine body with a fresh local-variable
// table: parameters are declared first, at dense indices 0..len(params)-1,
// exactly as §4.8 requires ("parameters occupy the first indices").
func (a *Analyzer) analyzeFunction(name string, sym *symbols.Function, params []*ast.Param, retType *types.Type, body ast.Stmt) *Function {
	savedLocals, savedRet, savedLoops := a.locals, a.retType, a.loops
	a.locals = scope.NewStack(a.diags)
	a.retType = retType
	a.loops = 0

	a.locals.Push()
	paramLocals := make([]*scope.Local, len(params))
	for i, p := range params {
		ptyp := a.registry.Resolve(a.ns, p.Type, a.graph)
		paramLocals[i] = a.locals.Declare(p.Name, ptyp, source.NoLocation)
	}

	bodyStmt := a.analyzeStmt(body)
	locals := a.locals.Pop()

	// A braced body shares one Block with the parameters: its locals follow
	// them, so reverse-order cleanup is unchanged.
	fnBody := &Block{Locals: locals, Stmts: []Stmt{bodyStmt}}
	if inner, ok := bodyStmt.(*Block); ok {
		fnBody = &Block{Locals: append(locals, inner.Locals...), Stmts: inner.Stmts}
	}

	fn := &Function{
		Name:       name,
		Symbol:     sym,
		Params:     paramLocals,
		ReturnType: retType,
		LocalCount: a.locals.LocalCount(),
		Body:       fnBody,
	}

	a.locals, a.retType, a.loops = savedLocals, savedRet, savedLoops
	return fn
}

// collectGlobalsInOrder walks the namespace tree (Globals is a map, so
// traversal order within one namespace is not declaration order) and sorts
// the result by Id, which symbols.Graph assigns densely and monotonically
// in declaration order (declareGlobal's g.nextGlob++) — the order the IR
// Emitter lays out the global table in.
func (a *Analyzer) collectGlobalsInOrder(ns *symbols.Namespace) []*symbols.GlobalVariable {
	var out []*symbols.GlobalVariable
	a.collectGlobals(ns, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (a *Analyzer) collectGlobals(ns *symbols.Namespace, out *[]*symbols.GlobalVariable) {
	for _, g := range ns.Globals {
		*out = append(*out, g)
	}
	for _, child := range ns.ChildrenInOrder() {
		a.collectGlobals(child, out)
	}
}

// convertOrReport converts e to dest, reporting SemaCannotConvert and
// returning an Error node when no such conversion exists.
func (a *Analyzer) convertOrReport(e Expr, dest *types.Type, loc source.Location) Expr {
	conv, ok := convertTo(e.Type(), dest)
	if !ok {
		a.diags.Report(diag.SemaCannotConvert, loc).Arg(e.Type().String()).Arg(dest.String()).Emit()
		return &Error{typed{a.registry.ErrorType()}}
	}
	if conv == ConvIdentity {
		return e
	}
	return &Convert{typed{dest}, conv, e}
}
