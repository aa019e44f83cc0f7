// Emitter lowers a type-checked sema.Script into an ir.Script: every
// sema.Expr/sema.Stmt becomes a run of instructions appended to the
// current basic block, closing blocks exactly where §4.11 requires.
package ir

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/scope"
	"github.com/scriptcore/scriptcore/internal/sema"
	"github.com/scriptcore/scriptcore/internal/symbols"
	"github.com/scriptcore/scriptcore/internal/types"
)

// loopCtx records the two targets a break/continue inside a loop body can
// jump to; emitSimple consults the innermost one.
type loopCtx struct {
	breakTarget    BlockID
	continueTarget BlockID
}

// emitter holds everything needed to lower one Script. A fresh builder is
// installed per function by emitFunction/emitTopLevel; lpads and loops are
// stacks scoped to the function currently being lowered.
type emitter struct {
	funcIndex map[*symbols.Function]int

	b        *builder
	lpads    []BlockID
	loops    []loopCtx
	tempNext int
}

// Emit lowers script into a Script ready for disassembly or verification.
// strings is the same intern.Table used throughout the pipeline; its
// handles are copied into the string table unchanged (R2).
func Emit(script *sema.Script, strings *intern.Table) *Script {
	e := &emitter{funcIndex: make(map[*symbols.Function]int)}
	for i, fn := range script.Functions {
		if fn.Symbol != nil {
			e.funcIndex[fn.Symbol] = i
		}
	}

	out := &Script{}
	for h := 1; h <= strings.Size(); h++ {
		out.Strings = append(out.Strings, StringEntry{ID: h, Bytes: strings.Get(intern.Handle(h))})
	}
	for _, g := range script.Globals {
		out.Globals = append(out.Globals, GlobalEntry{ID: g.Id, Name: g.Name, TypeName: g.Type.String()})
	}

	for _, fn := range script.Functions {
		out.UserFunctions = append(out.UserFunctions, e.emitFunction(fn))
	}
	out.TopLevel = e.emitTopLevel(script)
	return out
}

// emitTopLevel lowers the synthesized entry routine: string literals are
// already interned by the time Emit runs (they need no separate pool
// bootstrap instruction), so the entry body is simply the GlobalInit
// prologue, in global declaration order, followed by the free-floating
// top-level statements (SPEC_FULL.md: string-literal pool registration
// precedes the GlobalInit prologue, which precedes top-level statements —
// here the pool is static data built above, so only the latter ordering
// needs to be expressed in instructions).
func (e *emitter) emitTopLevel(script *sema.Script) *Function {
	e.b = newBuilder("", 0)
	e.lpads = nil
	e.loops = nil
	e.tempNext = script.TopLevel.LocalCount

	for _, gi := range script.GlobalInits {
		e.emitExpr(gi.Init)
		if gi.Global.Type.IsRefCounted() {
			e.b.emit(RefInc{})
		}
		e.b.emit(GlobalWriteLock{Global: gi.Global.Id})
		e.b.emit(GlobalInit{Global: gi.Global.Id, Lpad: e.currentLpad()})
		e.b.emit(GlobalWriteUnlock{Global: gi.Global.Id})
	}

	e.emitStmt(script.TopLevel.Body)
	if e.b.isOpen() {
		e.b.terminate(RetVoid{})
	}
	return e.b.finish(e.tempNext)
}

func (e *emitter) emitFunction(fn *sema.Function) *Function {
	e.b = newBuilder(fn.Name, len(fn.Params))
	e.lpads = nil
	e.loops = nil
	e.tempNext = fn.LocalCount

	for _, p := range fn.Params {
		e.b.emit(LifetimeStart{Local: p.Index})
	}

	e.emitStmt(fn.Body)
	if e.b.isOpen() {
		// A routine body that falls off its end without an explicit return
		// is already accounted for at analysis time (Nothing-returning
		// routines need no trailing return; non-Nothing ones that fall
		// through are a user error sema itself would have diagnosed
		// elsewhere). Closing defensively here keeps I4 structurally true
		// regardless.
		e.b.terminate(RetVoid{})
	}
	return e.b.finish(e.tempNext)
}

func (e *emitter) currentLpad() *BlockID {
	if len(e.lpads) == 0 {
		return nil
	}
	lp := e.lpads[len(e.lpads)-1]
	return &lp
}

func (e *emitter) allocTemp() int {
	idx := e.tempNext
	e.tempNext++
	return idx
}

// --- statements ---------------------------------------------------------

func (e *emitter) emitStmt(s sema.Stmt) {
	switch n := s.(type) {
	case *sema.Empty:

	case *sema.ExprStmt:
		if ld, ok := n.X.(*sema.LocalDeclaration); ok {
			e.emitLocalDeclStmt(ld)
		} else {
			e.emitExprDiscard(n.X)
		}

	case *sema.Block:
		for _, st := range n.Stmts {
			if !e.b.isOpen() {
				break
			}
			e.emitStmt(st)
		}
		if e.b.isOpen() {
			e.emitScopeCleanup(n.Locals)
		}

	case *sema.Return:
		if n.Value == nil {
			e.b.terminate(RetVoid{})
		} else {
			e.emitExpr(n.Value)
			e.b.terminate(Ret{})
		}

	case *sema.If:
		e.emitIf(n)

	case *sema.Try:
		e.emitTry(n)

	case *sema.Foreach:
		e.emitForeach(n)

	case *sema.Throw:
		e.emitThrow(n)

	case *sema.Simple:
		e.emitSimple(n)

	case *sema.ScopeGuard:
		// on_exit/on_error/on_success's conditional-on-unwind-state firing
		// has no runtime model in this closed instruction set (§5 scopes
		// compilation, not a running VM); the guarded body is still
		// lowered inline so its own side effects and diagnostics are
		// represented, the same scope sema itself stops at.
		e.emitStmt(n.Body)

	case *sema.While:
		e.emitWhile(n)

	case *sema.DoWhile:
		e.emitDoWhile(n)

	case *sema.For:
		e.emitFor(n)

	case *sema.Switch:
		e.emitSwitch(n)
	}
}

// emitLocalDeclStmt lowers "T x = e;" used directly as a statement: unlike
// the general LocalDeclaration-as-expression path (emitExpr), this never
// produces a trailing value to discard — discarding here would RefDec the
// local's one owned reference a second time, on top of the RefDecNoexcept
// its eventual LifetimeEnd cleanup already performs.
func (e *emitter) emitLocalDeclStmt(ld *sema.LocalDeclaration) {
	e.b.emit(LifetimeStart{Local: ld.Local.Index})
	if ld.Init != nil {
		e.emitExpr(ld.Init)
		if ld.Local.Type.IsRefCounted() {
			e.b.emit(RefInc{})
		}
		e.b.emit(LocalSet{Local: ld.Local.Index})
	}
}

// emitScopeCleanup tears down locals in the reverse of their declaration
// order — the same order scope.Stack.Pop() already returns them in — the
// single code path shared by normal fall-through exit and (via the
// landing-pad machinery in emitTry) the unwind path (§4.8, I5).
func (e *emitter) emitScopeCleanup(locals []*scope.Local) {
	for _, l := range locals {
		if l.Type.IsRefCounted() {
			e.b.emit(LocalGet{Local: l.Index})
			e.b.emit(RefDecNoexcept{})
		}
		e.b.emit(LifetimeEnd{Local: l.Index})
	}
}

func (e *emitter) emitIf(n *sema.If) {
	e.emitExpr(n.Cond)
	thenBlk := e.b.newBlock()
	elseBlk := e.b.newBlock()
	joinBlk := e.b.newBlock()
	e.b.terminate(Branch{Then: thenBlk.ID, Else: elseBlk.ID})

	e.b.switchTo(thenBlk)
	e.emitStmt(n.Then)
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: joinBlk.ID})
	}

	e.b.switchTo(elseBlk)
	if n.Else != nil {
		e.emitStmt(n.Else)
	}
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: joinBlk.ID})
	}

	e.b.switchTo(joinBlk)
}

func (e *emitter) emitWhile(n *sema.While) {
	headBlk := e.b.newBlock()
	bodyBlk := e.b.newBlock()
	exitBlk := e.b.newBlock()

	e.b.terminate(Jump{Target: headBlk.ID})
	e.b.switchTo(headBlk)
	e.emitExpr(n.Cond)
	e.b.terminate(Branch{Then: bodyBlk.ID, Else: exitBlk.ID})

	e.b.switchTo(bodyBlk)
	e.loops = append(e.loops, loopCtx{breakTarget: exitBlk.ID, continueTarget: headBlk.ID})
	e.emitStmt(n.Body)
	e.loops = e.loops[:len(e.loops)-1]
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: headBlk.ID})
	}

	e.b.switchTo(exitBlk)
}

func (e *emitter) emitDoWhile(n *sema.DoWhile) {
	bodyBlk := e.b.newBlock()
	condBlk := e.b.newBlock()
	exitBlk := e.b.newBlock()

	e.b.terminate(Jump{Target: bodyBlk.ID})
	e.b.switchTo(bodyBlk)
	e.loops = append(e.loops, loopCtx{breakTarget: exitBlk.ID, continueTarget: condBlk.ID})
	e.emitStmt(n.Body)
	e.loops = e.loops[:len(e.loops)-1]
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: condBlk.ID})
	}

	e.b.switchTo(condBlk)
	e.emitExpr(n.Cond)
	e.b.terminate(Branch{Then: bodyBlk.ID, Else: exitBlk.ID})

	e.b.switchTo(exitBlk)
}

func (e *emitter) emitFor(n *sema.For) {
	if n.Init != nil {
		e.emitStmt(n.Init)
	}
	headBlk := e.b.newBlock()
	bodyBlk := e.b.newBlock()
	postBlk := e.b.newBlock()
	exitBlk := e.b.newBlock()

	e.b.terminate(Jump{Target: headBlk.ID})
	e.b.switchTo(headBlk)
	if n.Cond != nil {
		e.emitExpr(n.Cond)
		e.b.terminate(Branch{Then: bodyBlk.ID, Else: exitBlk.ID})
	} else {
		e.b.terminate(Jump{Target: bodyBlk.ID})
	}

	e.b.switchTo(bodyBlk)
	e.loops = append(e.loops, loopCtx{breakTarget: exitBlk.ID, continueTarget: postBlk.ID})
	e.emitStmt(n.Body)
	e.loops = e.loops[:len(e.loops)-1]
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: postBlk.ID})
	}

	e.b.switchTo(postBlk)
	if n.Post != nil {
		e.emitExprDiscard(n.Post)
	}
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: headBlk.ID})
	}

	e.b.switchTo(exitBlk)
}

// emitForeach lowers "foreach (local) in (collection) body" as a counted
// walk over the collection's element stream: since this core never typed
// collection elements beyond Any (sema.Index is always Any), the per-
// iteration fetch is an IndexGet against a synthetic cursor temp rather
// than any iterator-protocol opcode (§6 names no such opcode either).
func (e *emitter) emitForeach(n *sema.Foreach) {
	cursor := e.allocTemp()
	e.b.emit(ConstInt{Value: 0})
	e.b.emit(LocalSet{Local: cursor})

	headBlk := e.b.newBlock()
	bodyBlk := e.b.newBlock()
	exitBlk := e.b.newBlock()

	e.b.terminate(Jump{Target: headBlk.ID})
	e.b.switchTo(headBlk)
	e.emitExpr(n.Collection)
	e.b.emit(LocalGet{Local: cursor})
	e.b.emit(InvokeBinaryOperator{OpID: "AnySizeGreaterThanAny", Lpad: e.currentLpad()})
	e.b.terminate(Branch{Then: bodyBlk.ID, Else: exitBlk.ID})

	e.b.switchTo(bodyBlk)
	e.b.emit(LifetimeStart{Local: n.Local.Index})
	e.emitExpr(n.Collection)
	e.b.emit(LocalGet{Local: cursor})
	e.b.emit(IndexGet{})
	if n.Local.Type.IsRefCounted() {
		e.b.emit(RefInc{})
	}
	e.b.emit(LocalSet{Local: n.Local.Index})

	e.loops = append(e.loops, loopCtx{breakTarget: exitBlk.ID, continueTarget: headBlk.ID})
	e.emitStmt(n.Body)
	e.loops = e.loops[:len(e.loops)-1]

	if e.b.isOpen() {
		if n.Local.Type.IsRefCounted() {
			e.b.emit(LocalGet{Local: n.Local.Index})
			e.b.emit(RefDecNoexcept{})
		}
		e.b.emit(LifetimeEnd{Local: n.Local.Index})
		e.b.emit(LocalGet{Local: cursor})
		e.b.emit(ConstInt{Value: 1})
		e.b.emit(InvokeBinaryOperator{OpID: "SoftIntPlusSoftInt", Lpad: e.currentLpad()})
		e.b.emit(LocalSet{Local: cursor})
		e.b.terminate(Jump{Target: headBlk.ID})
	}

	e.b.switchTo(exitBlk)
}

// emitTry lowers "try Body catch (CatchLocal) CatchBody" per S6: Body is
// lowered with the fresh landing-pad block pushed as the active unwind
// target, so every throwing instruction inside Body (directly, or via a
// nested call) carries it as Lpad; normal completion of Body jumps past
// the pad to the join block, matching Body to CatchBody.
func (e *emitter) emitTry(n *sema.Try) {
	padBlk := e.b.newBlock()
	joinBlk := e.b.newBlock()

	e.lpads = append(e.lpads, padBlk.ID)
	e.emitStmt(n.Body)
	e.lpads = e.lpads[:len(e.lpads)-1]
	if e.b.isOpen() {
		e.b.terminate(Jump{Target: joinBlk.ID})
	}

	e.b.switchTo(padBlk)
	hasBinding := n.CatchLocal != nil
	local := -1
	if hasBinding {
		local = n.CatchLocal.Index
	}
	padBlk.Instrs = append(padBlk.Instrs, LandingPad{HasBinding: hasBinding, Local: local})
	if hasBinding {
		padBlk.Instrs = append(padBlk.Instrs, LifetimeStart{Local: n.CatchLocal.Index})
	}
	e.emitStmt(n.CatchBody)
	if e.b.isOpen() {
		if hasBinding {
			if n.CatchLocal.Type.IsRefCounted() {
				e.b.emit(LocalGet{Local: n.CatchLocal.Index})
				e.b.emit(RefDecNoexcept{})
			}
			e.b.emit(LifetimeEnd{Local: n.CatchLocal.Index})
		}
		e.b.terminate(Jump{Target: joinBlk.ID})
	}

	e.b.switchTo(joinBlk)
}

// emitThrow lowers "throw value;": the thrown value is evaluated and
// discarded like an expression statement (a RefDec carrying the current
// landing pad releases it) — this core models no exception-object runtime
// (§1 scope), so the value itself is not propagated, only the unwind
// transfer (ResumeUnwind) it triggers, exactly as S6 shows.
func (e *emitter) emitThrow(n *sema.Throw) {
	e.emitExprDiscard(n.Value)
	e.b.terminate(ResumeUnwind{})
}

func (e *emitter) emitSimple(n *sema.Simple) {
	switch n.Kind {
	case ast.Break:
		if len(e.loops) > 0 {
			e.b.terminate(Jump{Target: e.loops[len(e.loops)-1].breakTarget})
		}
	case ast.Continue:
		if len(e.loops) > 0 {
			e.b.terminate(Jump{Target: e.loops[len(e.loops)-1].continueTarget})
		}
	default:
		// Rethrow re-raises the in-flight exception, exactly what
		// ResumeUnwind already does; thread_exit has no runtime model in
		// this single-threaded compiler core (§5), so it terminates the
		// block the same way rather than inventing a dedicated opcode.
		e.b.terminate(ResumeUnwind{})
	}
}

// emitSwitch lowers a switch as a linear chain of equality tests against
// the subject (no jump-table opcode exists in §6): each case's body is its
// own block, cases fall through to the next only via an explicit Jump
// (this core's switch bodies do not fall through the way a C switch's
// do — sema treats each case's Body as self-contained), and the test
// chain's final miss target is the default arm if one exists, else exit.
func (e *emitter) emitSwitch(n *sema.Switch) {
	subjTemp := e.allocTemp()
	e.emitExpr(n.Subject)
	e.b.emit(LocalSet{Local: subjTemp})

	exitBlk := e.b.newBlock()
	caseBlocks := make([]*BasicBlock, len(n.Cases))
	defaultIdx := -1
	for i, c := range n.Cases {
		caseBlocks[i] = e.b.newBlock()
		if len(c.Values) == 0 {
			defaultIdx = i
		}
	}
	missTarget := exitBlk.ID
	if defaultIdx >= 0 {
		missTarget = caseBlocks[defaultIdx].ID
	}

	testBlk := e.b.cur
	for i, c := range n.Cases {
		if len(c.Values) == 0 {
			continue
		}
		for _, v := range c.Values {
			e.b.switchTo(testBlk)
			e.b.emit(LocalGet{Local: subjTemp})
			e.emitExpr(v)
			e.b.emit(InvokeBinaryOperator{OpID: "AnyEqualsAny", Lpad: e.currentLpad()})
			nextBlk := e.b.newBlock()
			e.b.terminate(Branch{Then: caseBlocks[i].ID, Else: nextBlk.ID})
			testBlk = nextBlk
		}
	}
	e.b.switchTo(testBlk)
	e.b.terminate(Jump{Target: missTarget})

	for i, c := range n.Cases {
		e.b.switchTo(caseBlocks[i])
		for _, st := range c.Body {
			if !e.b.isOpen() {
				break
			}
			e.emitStmt(st)
		}
		if e.b.isOpen() {
			e.b.terminate(Jump{Target: exitBlk.ID})
		}
	}

	e.b.switchTo(exitBlk)
}

// --- expressions ---------------------------------------------------------

// emitExprDiscard lowers e for its side effects only, matching ExprStmt's
// "evaluate X and discard the result" (§4.10). §6's table has no pop/
// discard opcode, so a refcounted result is released with a (possibly
// throwing) RefDec — a real destructor invoked at a normal statement
// boundary can legitimately throw; a non-refcounted result is simply left
// unconsumed at the statement boundary.
func (e *emitter) emitExprDiscard(x sema.Expr) {
	e.emitExpr(x)
	if x.Type().IsRefCounted() {
		e.b.emit(RefDec{Lpad: e.currentLpad()})
	}
}

func (e *emitter) emitExpr(x sema.Expr) {
	switch n := x.(type) {
	case *sema.IntLiteral:
		e.b.emit(ConstInt{Value: n.Value})

	case *sema.StringLiteral:
		e.b.emit(ConstString{StringID: int(n.Handle)})

	case *sema.BoolLiteral:
		// No ConstBool opcode exists in §6's table; approximated with the
		// nearest modeled shape, the same way sema approximates float
		// literals by truncation.
		v := int64(0)
		if n.Value {
			v = 1
		}
		e.b.emit(ConstInt{Value: v})

	case *sema.NothingLiteral:
		e.b.emit(ConstInt{Value: 0})

	case *sema.SelfRef:
		// §6 has no dedicated opcode for "self"; LocalGet with the
		// sentinel index -1 (never a real local) stands in for it — the
		// disassembler special-cases -1 and prints "self".
		e.b.emit(LocalGet{Local: -1})

	case *sema.LocalVariableRef:
		e.b.emit(LocalGet{Local: n.Local.Index})

	case *sema.GlobalVariableRef:
		e.b.emit(GlobalReadLock{Global: n.Global.Id})
		e.b.emit(GlobalGet{Global: n.Global.Id})
		e.b.emit(GlobalReadUnlock{Global: n.Global.Id})

	case *sema.LocalDeclaration:
		// A LocalDeclaration used inside a larger expression (not directly
		// as a statement) must still produce the stored value for its
		// consumer: unlike emitLocalDeclStmt, this path always ends with a
		// LocalGet, with no double-decrement risk since the enclosing
		// expression — not a discard rule — consumes that value.
		e.b.emit(LifetimeStart{Local: n.Local.Index})
		if n.Init != nil {
			e.emitExpr(n.Init)
			if n.Local.Type.IsRefCounted() {
				e.b.emit(RefInc{})
			}
			e.b.emit(LocalSet{Local: n.Local.Index})
		}
		e.b.emit(LocalGet{Local: n.Local.Index})

	case *sema.Call:
		argCount := len(n.Args)
		if n.Target != nil && n.Callee != nil {
			e.emitExpr(n.Callee) // method receiver
			argCount++
		}
		for _, a := range n.Args {
			e.emitExpr(a)
		}
		idx := -1
		if n.Target != nil {
			idx = e.funcIndex[n.Target]
		} else if n.Callee != nil {
			e.emitExpr(n.Callee)
		}
		e.b.emit(Call{
			FuncIndex: idx,
			ArgCount:  argCount,
			HasResult: n.Type().Kind() != types.Nothing,
			Lpad:      e.currentLpad(),
		})

	case *sema.Unary:
		e.emitUnary(n)

	case *sema.Index:
		e.emitExpr(n.Operand)
		e.emitExpr(n.Index)
		e.b.emit(IndexGet{})

	case *sema.Access:
		e.emitExpr(n.Operand)
		e.b.emit(FieldGet{Member: n.Member})

	case *sema.New:
		for _, a := range n.Args {
			e.emitExpr(a)
		}
		e.b.emit(NewObject{ClassName: n.Class.Name, ArgCount: len(n.Args), Lpad: e.currentLpad()})

	case *sema.Binary:
		e.emitExpr(n.Left)
		if n.ConvLeft != sema.ConvIdentity {
			e.b.emit(InvokeConversion{ConvID: n.ConvLeft.String(), Lpad: e.currentLpad()})
		}
		e.emitExpr(n.Right)
		if n.ConvRight != sema.ConvIdentity {
			e.b.emit(InvokeConversion{ConvID: n.ConvRight.String(), Lpad: e.currentLpad()})
		}
		e.b.emit(InvokeBinaryOperator{OpID: n.OpID, Lpad: e.currentLpad()})

	case *sema.Instanceof:
		e.emitExpr(n.Operand)
		e.b.emit(InstanceOf{ClassName: n.Class.Name})

	case *sema.Conditional:
		e.emitConditional(n)

	case *sema.Assignment:
		e.emitAssignment(n)

	case *sema.CompoundAssignment:
		e.emitCompoundAssignment(n)

	case *sema.ListOperation:
		for _, a := range n.Args {
			e.emitExpr(a)
		}
		e.b.emit(Call{FuncIndex: -1, ArgCount: len(n.Args), HasResult: true, Lpad: e.currentLpad()})

	case *sema.Regex:
		e.b.emit(ConstInt{Value: 0})

	case *sema.Closure:
		// Closures carry their own Function but are not registered in
		// UserFunctions (they are never called through funcIndex, only
		// through a dynamically-typed Callee); a placeholder value stands
		// in for the closure object this core does not model the runtime
		// representation of.
		e.b.emit(ConstInt{Value: 0})

	case *sema.Convert:
		e.emitExpr(n.Operand)
		e.b.emit(InvokeConversion{ConvID: n.Conv.String(), Lpad: e.currentLpad()})

	case *sema.Error:
		e.b.emit(ConstInt{Value: 0})
	}
}

// emitUnary lowers prefix/postfix operators. ++/-- need to preserve either
// the old or the new value across the store (§6 has no Dup opcode), so
// they stash the needed value in a synthetic temp local (allocTemp);
// every other unary operator simply evaluates its operand and invokes the
// operator.
func (e *emitter) emitUnary(n *sema.Unary) {
	if n.Op != "++" && n.Op != "--" {
		e.emitExpr(n.Operand)
		e.b.emit(InvokeUnaryOperator{OpID: unaryOpID(n.Op), Lpad: e.currentLpad()})
		return
	}

	target, isLocal := n.Operand.(*sema.LocalVariableRef)
	temp := e.allocTemp()
	refcounted := n.Type().IsRefCounted()

	if n.Postfix {
		e.emitExpr(n.Operand)
		e.b.emit(LocalSet{Local: temp})
		e.b.emit(LocalGet{Local: temp})
		e.b.emit(InvokeUnaryOperator{OpID: unaryOpID(n.Op), Lpad: e.currentLpad()})
		if refcounted {
			e.b.emit(RefInc{})
		}
		e.storeTarget(n.Operand, isLocal, target)
		e.b.emit(LocalGet{Local: temp})
		return
	}

	e.emitExpr(n.Operand)
	e.b.emit(InvokeUnaryOperator{OpID: unaryOpID(n.Op), Lpad: e.currentLpad()})
	e.b.emit(LocalSet{Local: temp})
	e.b.emit(LocalGet{Local: temp})
	if refcounted {
		e.b.emit(RefInc{})
	}
	e.storeTarget(n.Operand, isLocal, target)
	e.b.emit(LocalGet{Local: temp})
}

// storeTarget stores the top-of-stack value back into operand, the only
// two lvalue shapes §4.9 allows a unary increment/decrement target to be.
func (e *emitter) storeTarget(operand sema.Expr, isLocal bool, local *sema.LocalVariableRef) {
	if isLocal {
		e.b.emit(LocalSet{Local: local.Local.Index})
		return
	}
	if g, ok := operand.(*sema.GlobalVariableRef); ok {
		e.b.emit(GlobalWriteLock{Global: g.Global.Id})
		e.b.emit(GlobalSet{Global: g.Global.Id})
		e.b.emit(GlobalWriteUnlock{Global: g.Global.Id})
	}
}

func unaryOpID(op string) string {
	switch op {
	case "-":
		return "Neg"
	case "+":
		return "Pos"
	case "!":
		return "Not"
	case "~":
		return "BitNot"
	case "++":
		return "Inc"
	case "--":
		return "Dec"
	default:
		return "Unknown"
	}
}

// emitConditional lowers "cond ? then : else" via a merge-point temp local
// standing in for the phi node this non-SSA instruction set has no
// opcode for.
func (e *emitter) emitConditional(n *sema.Conditional) {
	temp := e.allocTemp()
	e.emitExpr(n.Cond)
	thenBlk := e.b.newBlock()
	elseBlk := e.b.newBlock()
	joinBlk := e.b.newBlock()
	e.b.terminate(Branch{Then: thenBlk.ID, Else: elseBlk.ID})

	e.b.switchTo(thenBlk)
	e.emitExpr(n.Then)
	e.b.emit(LocalSet{Local: temp})
	e.b.terminate(Jump{Target: joinBlk.ID})

	e.b.switchTo(elseBlk)
	e.emitExpr(n.Else)
	e.b.emit(LocalSet{Local: temp})
	e.b.terminate(Jump{Target: joinBlk.ID})

	e.b.switchTo(joinBlk)
	e.b.emit(LocalGet{Local: temp})
}

func (e *emitter) emitAssignment(n *sema.Assignment) {
	e.emitExpr(n.Value)
	refCounted := n.Target.Type().IsRefCounted()
	if refCounted {
		e.b.emit(RefInc{})
	}
	switch t := n.Target.(type) {
	case *sema.LocalVariableRef:
		// The local's own reference to its previous value is released here,
		// before the slot is overwritten — otherwise every "x = y;" over a
		// ref-counted type would leak the old value's reference.
		if refCounted {
			e.b.emit(LocalGet{Local: t.Local.Index})
			e.b.emit(RefDec{Lpad: e.currentLpad()})
		}
		e.b.emit(LocalSet{Local: t.Local.Index})
		e.b.emit(LocalGet{Local: t.Local.Index})
	case *sema.GlobalVariableRef:
		e.b.emit(GlobalWriteLock{Global: t.Global.Id})
		if refCounted {
			e.b.emit(GlobalGet{Global: t.Global.Id})
			e.b.emit(RefDec{Lpad: e.currentLpad()})
		}
		e.b.emit(GlobalSet{Global: t.Global.Id})
		e.b.emit(GlobalWriteUnlock{Global: t.Global.Id})
		e.b.emit(GlobalReadLock{Global: t.Global.Id})
		e.b.emit(GlobalGet{Global: t.Global.Id})
		e.b.emit(GlobalReadUnlock{Global: t.Global.Id})
	}
}

func (e *emitter) emitCompoundAssignment(n *sema.CompoundAssignment) {
	// Target is evaluated exactly once (§4.9): its value is read, combined
	// with Value, and written back without re-evaluating Target's own
	// sub-expressions a second time. Since this core's only lvalue shapes
	// are locals and globals (never an Index or Access target), the
	// "evaluate once" requirement is satisfied for free — there is no
	// side-effecting receiver expression to share.
	refCounted := n.Target.Type().IsRefCounted()
	switch t := n.Target.(type) {
	case *sema.LocalVariableRef:
		e.b.emit(LocalGet{Local: t.Local.Index})
		e.emitExpr(n.Value)
		if n.ConvRight != sema.ConvIdentity {
			e.b.emit(InvokeConversion{ConvID: n.ConvRight.String(), Lpad: e.currentLpad()})
		}
		e.b.emit(InvokeBinaryOperator{OpID: n.OpID, Lpad: e.currentLpad()})
		if refCounted {
			e.b.emit(RefInc{})
			// The local's previous value was already consumed as the
			// operator's left operand above; re-read it once more, purely
			// to release the slot's own reference before it is overwritten.
			e.b.emit(LocalGet{Local: t.Local.Index})
			e.b.emit(RefDec{Lpad: e.currentLpad()})
		}
		e.b.emit(LocalSet{Local: t.Local.Index})
		e.b.emit(LocalGet{Local: t.Local.Index})
	case *sema.GlobalVariableRef:
		e.b.emit(GlobalReadLock{Global: t.Global.Id})
		e.b.emit(GlobalGet{Global: t.Global.Id})
		e.b.emit(GlobalReadUnlock{Global: t.Global.Id})
		e.emitExpr(n.Value)
		if n.ConvRight != sema.ConvIdentity {
			e.b.emit(InvokeConversion{ConvID: n.ConvRight.String(), Lpad: e.currentLpad()})
		}
		e.b.emit(InvokeBinaryOperator{OpID: n.OpID, Lpad: e.currentLpad()})
		if refCounted {
			e.b.emit(RefInc{})
		}
		e.b.emit(GlobalWriteLock{Global: t.Global.Id})
		if refCounted {
			e.b.emit(GlobalGet{Global: t.Global.Id})
			e.b.emit(RefDec{Lpad: e.currentLpad()})
		}
		e.b.emit(GlobalSet{Global: t.Global.Id})
		e.b.emit(GlobalWriteUnlock{Global: t.Global.Id})
		e.b.emit(GlobalReadLock{Global: t.Global.Id})
		e.b.emit(GlobalGet{Global: t.Global.Id})
		e.b.emit(GlobalReadUnlock{Global: t.Global.Id})
	}
}
