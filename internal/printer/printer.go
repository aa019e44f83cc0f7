// Package printer renders the untyped ast tree back to source text. It
// exists so a parse -> print -> re-parse round trip can be tested (R1):
// the printer does not need to reproduce the original formatting, only to
// produce text that re-parses to a structurally equivalent tree.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scriptcore/scriptcore/internal/ast"
)

// Print renders a whole script's declaration list.
func Print(decls []ast.Decl) string {
	var p printer
	for _, d := range decls {
		p.decl(d)
	}
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.sb.WriteString(strings.Repeat("\t", p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteString("\n")
}

func modifierPrefix(m ast.Modifiers) string {
	var parts []string
	for _, bit := range []ast.Modifier{ast.Public, ast.Private, ast.Static, ast.Final, ast.Abstract, ast.Synchronized, ast.Deprecated} {
		if m.Has(bit) {
			parts = append(parts, bit.String())
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func typeExpr(t ast.TypeExpr) string {
	switch n := t.(type) {
	case *ast.Basic:
		return n.Name.Text()
	case *ast.Asterisk:
		return "*" + n.Name.Text()
	case *ast.Implicit:
		return "my"
	case *ast.Invalid:
		return "<invalid>"
	default:
		return "<invalid>"
	}
}

func (p *printer) decl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Namespace:
		p.line("namespace %s {", n.Name.Text())
		p.indent++
		for _, m := range n.Members {
			p.decl(m)
		}
		p.indent--
		p.line("}")

	case *ast.Class:
		suffix := ""
		if len(n.Superclasses) > 0 {
			var names []string
			for _, s := range n.Superclasses {
				names = append(names, modifierPrefix(s.Modifiers)+s.Name.Text())
			}
			suffix = " inherits " + strings.Join(names, ", ")
		}
		p.line("%sclass %s%s {", modifierPrefix(n.Modifiers), n.Name.Text(), suffix)
		p.indent++
		for _, m := range n.Members {
			p.decl(m)
		}
		p.indent--
		p.line("}")

	case *ast.GlobalVariable:
		kw := "our"
		init := ""
		if n.Init != nil {
			init = " = " + expr(n.Init)
		}
		p.line("%s%s %s %s%s;", modifierPrefix(n.Modifiers), kw, typeExpr(n.Type), n.Name, init)

	case *ast.Function:
		p.printRoutine(modifierPrefix(n.Modifiers)+"function", n.ReturnType, n.Name.Text(), n.Params, n.Body)

	case *ast.Constant:
		p.line("%sconst %s = %s;", modifierPrefix(n.Modifiers), n.Name, expr(n.Value))

	case *ast.Method:
		p.printRoutine(modifierPrefix(n.Modifiers)+"sub", n.ReturnType, n.Name, n.Params, n.Body)

	case *ast.Field:
		init := ""
		if n.Init != nil {
			init = " = " + expr(n.Init)
		} else if len(n.InitArgs) > 0 {
			init = "(" + exprList(n.InitArgs) + ")"
		}
		p.line("%s%s %s%s;", modifierPrefix(n.Modifiers), typeExpr(n.Type), n.Name, init)

	case *ast.MemberGroup:
		p.line("%s{", modifierPrefix(n.Modifiers))
		p.indent++
		for _, m := range n.Members {
			p.decl(m)
		}
		p.indent--
		p.line("}")

	case *ast.TopLevelStmt:
		p.stmt(n.Stmt)
	}
}

func (p *printer) printRoutine(kw string, ret ast.TypeExpr, name string, params []*ast.Param, body ast.Stmt) {
	var ps []string
	for _, pm := range params {
		def := ""
		if pm.Default != nil {
			def = " = " + expr(pm.Default)
		}
		byref := ""
		if pm.ByRef {
			byref = "\\"
		}
		ps = append(ps, fmt.Sprintf("%s%s %s%s", byref, typeExpr(pm.Type), pm.Name, def))
	}
	retPrefix := ""
	if _, implicit := ret.(*ast.Implicit); !implicit {
		retPrefix = typeExpr(ret) + " "
	}
	if body == nil {
		p.line("%s %s%s(%s);", kw, retPrefix, name, strings.Join(ps, ", "))
		return
	}
	p.line("%s %s%s(%s) {", kw, retPrefix, name, strings.Join(ps, ", "))
	p.indent++
	p.stmtBody(body)
	p.indent--
	p.line("}")
}

// stmtBody prints a routine/block body's contents without the enclosing
// braces the caller already printed (Compound's own braces are skipped at
// this one call site; a Compound used elsewhere still gets its own).
func (p *printer) stmtBody(body ast.Stmt) {
	if c, ok := body.(*ast.Compound); ok {
		for _, s := range c.Stmts {
			p.stmt(s)
		}
		return
	}
	p.stmt(body)
}

func (p *printer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Empty:
		p.line(";")

	case *ast.Expression:
		p.line("%s;", expr(n.X))

	case *ast.Compound:
		p.line("{")
		p.indent++
		for _, st := range n.Stmts {
			p.stmt(st)
		}
		p.indent--
		p.line("}")

	case *ast.Return:
		if n.Value == nil {
			p.line("return;")
		} else {
			p.line("return %s;", expr(n.Value))
		}

	case *ast.If:
		p.line("if (%s) {", expr(n.Cond))
		p.indent++
		p.stmtBody(n.Then)
		p.indent--
		if n.Else != nil {
			p.line("} else {")
			p.indent++
			p.stmtBody(n.Else)
			p.indent--
		}
		p.line("}")

	case *ast.Try:
		p.line("try {")
		p.indent++
		p.stmtBody(n.Body)
		p.indent--
		if n.HasCatchVar {
			p.line("} catch (%s) {", n.CatchVar)
		} else {
			p.line("} catch {")
		}
		p.indent++
		p.stmtBody(n.CatchBody)
		p.indent--
		p.line("}")

	case *ast.Foreach:
		byref := ""
		if n.ByRef {
			byref = "\\"
		}
		p.line("foreach (%s%s) in (%s) {", byref, n.VarName, expr(n.Collection))
		p.indent++
		p.stmtBody(n.Body)
		p.indent--
		p.line("}")

	case *ast.Throw:
		p.line("throw %s;", expr(n.Value))

	case *ast.Simple:
		switch n.Kind {
		case ast.Break:
			p.line("break;")
		case ast.Continue:
			p.line("continue;")
		case ast.Rethrow:
			p.line("rethrow;")
		case ast.ThreadExit:
			p.line("thread_exit;")
		}

	case *ast.ScopeGuard:
		p.line("%s {", n.Keyword)
		p.indent++
		p.stmtBody(n.Body)
		p.indent--
		p.line("}")

	case *ast.While:
		p.line("while (%s) {", expr(n.Cond))
		p.indent++
		p.stmtBody(n.Body)
		p.indent--
		p.line("}")

	case *ast.DoWhile:
		p.line("do {")
		p.indent++
		p.stmtBody(n.Body)
		p.indent--
		p.line("} while (%s);", expr(n.Cond))

	case *ast.For:
		p.line("for (%s; %s; %s) {", stmtInline(n.Init), exprOrEmpty(n.Cond), exprOrEmpty(n.Post))
		p.indent++
		p.stmtBody(n.Body)
		p.indent--
		p.line("}")

	case *ast.Switch:
		p.line("switch (%s) {", expr(n.Subject))
		p.indent++
		for _, c := range n.Cases {
			if len(c.Values) == 0 {
				p.line("default:")
			} else {
				p.line("case %s:", exprList(c.Values))
			}
			p.indent++
			for _, st := range c.Body {
				p.stmt(st)
			}
			p.indent--
		}
		p.indent--
		p.line("}")
	}
}

// closureBody renders a closure's body with a fresh sub-printer so an
// embedded expression string can still carry a multi-statement block.
func closureBody(body ast.Stmt) string {
	var sub printer
	sub.indent = 1
	sub.stmtBody(body)
	return sub.sb.String()
}

func stmtInline(s ast.Stmt) string {
	if s == nil {
		return ""
	}
	if ex, ok := s.(*ast.Expression); ok {
		return expr(ex.X)
	}
	return ""
}

func exprOrEmpty(e ast.Expr) string {
	if e == nil {
		return ""
	}
	return expr(e)
}

func exprList(es []ast.Expr) string {
	var parts []string
	for _, e := range es {
		parts = append(parts, expr(e))
	}
	return strings.Join(parts, ", ")
}

func expr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Literal:
		return literal(n)
	case *ast.Name:
		return n.Text()
	case *ast.List:
		return "(" + exprList(n.Elements) + ")"
	case *ast.Hash:
		var parts []string
		for i := range n.Keys {
			parts = append(parts, expr(n.Keys[i])+": "+expr(n.Values[i]))
		}
		return "hash(" + strings.Join(parts, ", ") + ")"
	case *ast.VarDecl:
		kw := "my"
		if !n.My {
			kw = "our"
		}
		init := ""
		if n.Init != nil {
			init = " = " + expr(n.Init)
		}
		return fmt.Sprintf("%s %s %s%s", kw, typeExpr(n.Type), n.Name, init)
	case *ast.Cast:
		return fmt.Sprintf("cast<%s>(%s)", typeExpr(n.Type), expr(n.Operand))
	case *ast.Call:
		return fmt.Sprintf("%s(%s)", expr(n.Callee), exprList(n.Args))
	case *ast.Unary:
		if n.Postfix {
			return expr(n.Operand) + n.Op
		}
		return n.Op + expr(n.Operand)
	case *ast.Index:
		return fmt.Sprintf("%s[%s]", expr(n.Operand), expr(n.Index))
	case *ast.Access:
		return fmt.Sprintf("%s.%s", expr(n.Operand), n.Member)
	case *ast.New:
		return fmt.Sprintf("new %s(%s)", n.ClassName.Text(), exprList(n.Args))
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", expr(n.Left), n.Op, expr(n.Right))
	case *ast.Instanceof:
		return fmt.Sprintf("(%s instanceof %s)", expr(n.Operand), n.ClassName.Text())
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", expr(n.Cond), expr(n.Then), expr(n.Else))
	case *ast.Assignment:
		op := n.Op
		return fmt.Sprintf("%s %s %s", expr(n.Target), op, expr(n.Value))
	case *ast.ListOperation:
		return fmt.Sprintf("%s(%s)", listOpKeyword(n.Kind), exprList(n.Args))
	case *ast.Regex:
		return "/" + n.Pattern + "/" + n.Flags
	case *ast.Closure:
		var ps []string
		for _, pm := range n.Params {
			ps = append(ps, typeExpr(pm.Type)+" "+pm.Name)
		}
		return fmt.Sprintf("sub(%s) {\n%s}", strings.Join(ps, ", "), closureBody(n.Body))
	case *ast.Error:
		return "<error>"
	default:
		return "<?>"
	}
}

func literal(n *ast.Literal) string {
	switch n.Kind {
	case ast.IntLit:
		return strconv.FormatInt(n.IntValue, 10)
	case ast.FloatLit:
		return strconv.FormatFloat(n.FloatValue, 'g', -1, 64)
	case ast.StringLit:
		return strconv.Quote(n.StringValue)
	case ast.BackquoteLit:
		return "`" + n.StringValue + "`"
	case ast.BoolLit:
		if n.BoolValue {
			return "true"
		}
		return "false"
	case ast.NothingLit:
		return "NOTHING"
	case ast.DateLit, ast.BinaryLit:
		return n.Raw
	default:
		return "<?>"
	}
}

func listOpKeyword(k ast.ListOperationKind) string {
	names := map[ast.ListOperationKind]string{
		ast.OpElements: "elements", ast.OpKeys: "keys", ast.OpShift: "shift",
		ast.OpPop: "pop", ast.OpChomp: "chomp", ast.OpTrim: "trim",
		ast.OpBackground: "background", ast.OpDelete: "delete", ast.OpRemove: "remove",
		ast.OpExists: "exists", ast.OpUnshift: "unshift", ast.OpPush: "push",
		ast.OpSplice: "splice", ast.OpExtract: "extract", ast.OpMap: "map",
		ast.OpFoldr: "foldr", ast.OpFoldl: "foldl", ast.OpSelect: "select",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "?"
}
