package sema

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/symbols"
	"github.com/scriptcore/scriptcore/internal/types"
)

// analyzeExpr dispatches on the concrete ast.Expr variant and returns its
// typed counterpart (§4.9). Every branch that cannot type-check reports a
// diagnostic and returns an Error node typed Error, so the caller can keep
// walking without a nil check at every call site.
func (a *Analyzer) analyzeExpr(e ast.Expr) Expr {
	switch n := e.(type) {
	case *ast.Literal:
		return a.analyzeLiteral(n)
	case *ast.Name:
		return a.analyzeName(n)
	case *ast.VarDecl:
		return a.analyzeVarDecl(n)
	case *ast.Cast:
		return a.analyzeCast(n)
	case *ast.Call:
		return a.analyzeCall(n)
	case *ast.Unary:
		return a.analyzeUnary(n)
	case *ast.Index:
		return a.analyzeIndex(n)
	case *ast.Access:
		return a.analyzeAccess(n)
	case *ast.New:
		return a.analyzeNew(n)
	case *ast.Binary:
		return a.analyzeBinary(n)
	case *ast.Instanceof:
		return a.analyzeInstanceof(n)
	case *ast.Conditional:
		return a.analyzeConditional(n)
	case *ast.Assignment:
		return a.analyzeAssignment(n)
	case *ast.ListOperation:
		return a.analyzeListOperation(n)
	case *ast.Regex:
		return &Regex{typed{a.builtin("any")}, n.Pattern, n.Flags}
	case *ast.Closure:
		return a.analyzeClosure(n)
	case *ast.List, *ast.Hash:
		// The core type system has no collection type (§1 scope): a list
		// or hash literal's elements are still checked for their own
		// well-formedness, but the literal itself is carried as Any.
		a.analyzeCollectionElements(n)
		return &typedAny{typed{a.builtin("any")}}
	case *ast.Error:
		return &Error{typed{a.registry.ErrorType()}}
	default:
		return &Error{typed{a.registry.ErrorType()}}
	}
}

// typedAny is the analyzed form of a list/hash literal: every element was
// checked for its own errors, but the core has no element-typed collection
// to report, so only the Any-typed sentinel survives into the typed tree.
type typedAny struct{ typed }

func (*typedAny) exprNode() {}

func (a *Analyzer) analyzeCollectionElements(e ast.Expr) {
	switch n := e.(type) {
	case *ast.List:
		for _, el := range n.Elements {
			a.analyzeExpr(el)
		}
	case *ast.Hash:
		for i := range n.Keys {
			a.analyzeExpr(n.Keys[i])
			a.analyzeExpr(n.Values[i])
		}
	}
}

func (a *Analyzer) analyzeLiteral(n *ast.Literal) Expr {
	switch n.Kind {
	case ast.IntLit:
		return &IntLiteral{typed{a.builtin("int")}, n.IntValue}
	case ast.FloatLit:
		// The core type system has no float kind (§1, §3): a float literal
		// truncates to its integer part, the same simplification the core
		// applies to every non-enumerated primitive.
		return &IntLiteral{typed{a.builtin("int")}, int64(n.FloatValue)}
	case ast.StringLit, ast.BackquoteLit:
		h := a.strings.Put(n.StringValue)
		return &StringLiteral{typed{a.builtin("string")}, h}
	case ast.DateLit, ast.BinaryLit:
		h := a.strings.Put(n.Raw)
		return &StringLiteral{typed{a.builtin("string")}, h}
	case ast.BoolLit:
		return &BoolLiteral{typed{a.builtin("bool")}, n.BoolValue}
	case ast.NothingLit:
		return &NothingLiteral{typed{a.builtin("nothing")}}
	default:
		return &Error{typed{a.registry.ErrorType()}}
	}
}

func (a *Analyzer) analyzeName(n *ast.Name) Expr {
	if n.Invalid {
		return &Error{typed{a.registry.ErrorType()}}
	}
	if !n.Qualified && len(n.Parts) == 1 && n.Parts[0] == "self" {
		if a.class == nil {
			a.diags.Report(diag.SemaUndeclaredIdentifier, n.Start).Arg("self").Emit()
			return &Error{typed{a.registry.ErrorType()}}
		}
		return &SelfRef{typed{a.registry.ClassType(a.class)}}
	}
	if !n.Qualified && len(n.Parts) == 1 {
		if local, ok := a.locals.Lookup(n.Parts[0]); ok {
			return &LocalVariableRef{typed{local.Type}, local}
		}
	}
	if global, constant, ok := a.resolveGlobalOrConstant(a.ns, n); ok {
		if global != nil {
			return &GlobalVariableRef{typed{global.Type}, global}
		}
		return a.analyzeExpr(constant.Value)
	}
	a.diags.Report(diag.SemaUndeclaredIdentifier, n.Start).Arg(n.Text()).Emit()
	return &Error{typed{a.registry.ErrorType()}}
}

// analyzeVarDecl implements "LifetimeStart as an expression" (§4.9): "T x =
// e" (or bare "T x;") declares a fresh local in the innermost open scope
// and, if there is an initializer, converts it to the declared type. A
// declaration written with "our" rather than "my" (My == false) is treated
// identically — this core has no mechanism to register a new namespace
// global from mid-routine statement position, since the Symbol Graph's
// three-pass construction (§4.7) is already closed by the time routine
// bodies are analyzed.
func (a *Analyzer) analyzeVarDecl(n *ast.VarDecl) Expr {
	declType := a.registry.Resolve(a.ns, n.Type, a.graph)

	var init Expr
	if n.Init != nil {
		init = a.analyzeExpr(n.Init)
		if declType.Kind() == types.Implicit {
			declType = init.Type()
		} else {
			init = a.convertOrReport(init, declType, n.Start)
		}
	}

	local := a.locals.Declare(n.Name, declType, n.Start)
	return &LocalDeclaration{typed{declType}, local, init}
}

func (a *Analyzer) analyzeCast(n *ast.Cast) Expr {
	dest := a.registry.Resolve(a.ns, n.Type, a.graph)
	operand := a.analyzeExpr(n.Operand)
	return a.convertOrReport(operand, dest, n.Start)
}

// analyzeCall resolves a call's target, when possible, to a known
// overload, picking the first whose parameter count matches the supplied
// argument count (§4.9 does not specify overload resolution beyond the
// binary-operator table, so this core applies the simplest rule that can
// disambiguate a fixed-arity overload set; see DESIGN.md). A callee this
// core cannot resolve to a function name — an arbitrary expression, or a
// name that resolution failed on — is still fully analyzed: its arguments
// are checked, and the call itself is carried through typed Any.
func (a *Analyzer) analyzeCall(n *ast.Call) Expr {
	if name, ok := n.Callee.(*ast.Name); ok {
		if group, ok := a.resolveFunctionGroup(a.ns, name); ok {
			return a.buildCall(nil, group, n)
		}
		args := a.analyzeArgs(n.Args)
		return &Call{typed{a.builtin("any")}, nil, nil, args}
	}
	if access, ok := n.Callee.(*ast.Access); ok {
		operand := a.analyzeExpr(access.Operand)
		if operand.Type().Kind() == types.ClassKind {
			if cls, ok := operand.Type().Class().(*symbols.Class); ok {
				if group, ok := cls.Methods[access.Member]; ok {
					return a.buildCall(operand, group, n)
				}
			}
		}
		args := a.analyzeArgs(n.Args)
		return &Call{typed{a.builtin("any")}, operand, nil, args}
	}

	callee := a.analyzeExpr(n.Callee)
	args := a.analyzeArgs(n.Args)
	return &Call{typed{a.builtin("any")}, callee, nil, args}
}

func (a *Analyzer) analyzeArgs(exprs []ast.Expr) []Expr {
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = a.analyzeExpr(e)
	}
	return out
}

func (a *Analyzer) buildCall(receiver Expr, group *symbols.FunctionGroup, n *ast.Call) Expr {
	var target *symbols.Function
	for _, o := range group.Overloads {
		if len(o.Params) == len(n.Args) {
			target = o
			break
		}
	}
	if target == nil {
		a.diags.Report(diag.SemaWrongArgumentCount, n.Start).Arg(group.Name).Arg(len(n.Args)).Emit()
		args := a.analyzeArgs(n.Args)
		return &Call{typed{a.registry.ErrorType()}, receiver, nil, args}
	}

	args := make([]Expr, len(n.Args))
	for i, argExpr := range n.Args {
		arg := a.analyzeExpr(argExpr)
		args[i] = a.convertOrReport(arg, target.Params[i], n.Start)
	}
	return &Call{typed{target.ReturnType}, receiver, target, args}
}

// analyzeUnary carries the operand's own type through as the result type:
// the spec gives a complete dispatch table only for binary "+"/"+=" (§4.9);
// unary operators (negation, logical/bitwise not, pre/post increment and
// decrement) are left to the implementation, and the only rule every use
// in the corpus agrees on is that they do not change the operand's static
// type. This is recorded as a simplification in DESIGN.md.
func (a *Analyzer) analyzeUnary(n *ast.Unary) Expr {
	operand := a.analyzeExpr(n.Operand)
	if (n.Op == "++" || n.Op == "--") && !isLValue(operand) {
		a.diags.Report(diag.SemaInvalidLValue, n.Start).Emit()
		return &Error{typed{a.registry.ErrorType()}}
	}
	return &Unary{typed{operand.Type()}, n.Op, operand, n.Postfix}
}

// analyzeIndex and analyzeAccess are not lvalues in this core (§4.9): an
// assignment through either is rejected by analyzeAssignment's isLValue
// check, not by failing to produce an Index/Access node here.
func (a *Analyzer) analyzeIndex(n *ast.Index) Expr {
	operand := a.analyzeExpr(n.Operand)
	index := a.analyzeExpr(n.Index)
	return &Index{typed{a.builtin("any")}, operand, index}
}

func (a *Analyzer) analyzeAccess(n *ast.Access) Expr {
	operand := a.analyzeExpr(n.Operand)
	resultType := a.builtin("any")
	if operand.Type().Kind() == types.ClassKind {
		if cls, ok := operand.Type().Class().(*symbols.Class); ok {
			if field, ok := cls.Fields[n.Member]; ok {
				resultType = field.Type
			}
		}
	}
	return &Access{typed{resultType}, operand, n.Member}
}

// analyzeNew resolves the class being instantiated but does not validate
// the argument list against a constructor signature: the spec does not
// detail constructor-overload semantics beyond the general function-call
// case (same simplification as analyzeCall; see DESIGN.md).
func (a *Analyzer) analyzeNew(n *ast.New) Expr {
	classSym, ok := a.graph.ResolveClass(a.ns, n.ClassName)
	args := a.analyzeArgs(n.Args)
	if !ok {
		return &Error{typed{a.registry.ErrorType()}}
	}
	cls := classSym.(*symbols.Class)
	return &New{typed{a.registry.ClassType(cls)}, cls, args}
}

func (a *Analyzer) analyzeBinary(n *ast.Binary) Expr {
	left := a.analyzeExpr(n.Left)
	right := a.analyzeExpr(n.Right)

	d := a.dispatchBinary(n.Op, left.Type(), right.Type())
	if !d.ok {
		a.diags.Report(diag.SemaInvalidOperandTypes, n.Start).Arg(left.Type().String()).Arg(right.Type().String()).Arg(n.Op).Emit()
		return &Error{typed{a.registry.ErrorType()}}
	}
	return &Binary{typed{d.resultType}, d.opID, d.convLeft, d.convRight, wrapConv(left, d.convLeft, d.operandType), wrapConv(right, d.convRight, d.operandType)}
}

func wrapConv(e Expr, conv Conversion, dest *types.Type) Expr {
	if conv == ConvIdentity {
		return e
	}
	return &Convert{typed{dest}, conv, e}
}

func (a *Analyzer) analyzeInstanceof(n *ast.Instanceof) Expr {
	operand := a.analyzeExpr(n.Operand)
	classSym, ok := a.graph.ResolveClass(a.ns, n.ClassName)
	if !ok {
		return &Error{typed{a.registry.ErrorType()}}
	}
	return &Instanceof{typed{a.builtin("bool")}, operand, classSym.(*symbols.Class)}
}

// analyzeConditional widens to Any when the two arms disagree, the same
// widen-or-fall-back-to-Any posture the binary-operator table uses for a
// mismatch it cannot otherwise resolve.
func (a *Analyzer) analyzeConditional(n *ast.Conditional) Expr {
	cond := a.analyzeExpr(n.Cond)
	then := a.analyzeExpr(n.Then)
	els := a.analyzeExpr(n.Else)

	result := then.Type()
	if !types.IdentityEquals(then.Type(), els.Type()) {
		result = a.builtin("any")
	}
	return &Conditional{typed{result}, cond, then, els}
}

func isLValue(e Expr) bool {
	switch e.(type) {
	case *LocalVariableRef, *GlobalVariableRef:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeAssignment(n *ast.Assignment) Expr {
	target := a.analyzeExpr(n.Target)
	if !isLValue(target) {
		a.diags.Report(diag.SemaInvalidLValue, n.Start).Emit()
		a.analyzeExpr(n.Value) // still checked for its own errors
		return &Error{typed{a.registry.ErrorType()}}
	}

	if !n.Compound {
		value := a.analyzeExpr(n.Value)
		value = a.convertOrReport(value, target.Type(), n.Start)
		return &Assignment{typed{target.Type()}, target, value}
	}

	value := a.analyzeExpr(n.Value)
	d := a.dispatchCompound(n.Op, target.Type(), value.Type())
	if !d.ok {
		a.diags.Report(diag.SemaInvalidOperandTypes, n.Start).Arg(target.Type().String()).Arg(value.Type().String()).Arg(n.Op).Emit()
		return &Error{typed{a.registry.ErrorType()}}
	}
	return &CompoundAssignment{typed{target.Type()}, d.opID, d.convRight, target, wrapConv(value, d.convRight, d.schemeType)}
}

func (a *Analyzer) analyzeListOperation(n *ast.ListOperation) Expr {
	args := a.analyzeArgs(n.Args)
	return &ListOperation{typed{a.builtin("any")}, n.Kind, args}
}

func (a *Analyzer) analyzeClosure(n *ast.Closure) Expr {
	retType := a.registry.Resolve(a.ns, n.ReturnType, a.graph)
	fn := a.analyzeFunction("<closure>", nil, n.Params, retType, n.Body)
	return &Closure{typed{a.builtin("any")}, fn}
}
