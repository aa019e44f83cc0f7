package parser

import (
	"strconv"
	"strings"

	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/lexer"
	"github.com/scriptcore/scriptcore/internal/source"
)

var assignOps = map[lexer.TokenType]string{
	lexer.Assign: "=", lexer.PlusAssign: "+=", lexer.MinusAssign: "-=",
	lexer.AsteriskAssign: "*=", lexer.SlashAssign: "/=", lexer.PercentAssign: "%=",
	lexer.AmpAssign: "&=", lexer.CaretAssign: "^=", lexer.PipeAssign: "|=",
	lexer.ShlAssign: "<<=", lexer.ShrAssign: ">>=",
}

var relOps = map[lexer.TokenType]string{
	lexer.Eq: "==", lexer.Ne: "!=", lexer.Lt: "<", lexer.Le: "<=",
	lexer.Gt: ">", lexer.Ge: ">=", lexer.RegexMatch: "=~", lexer.RegexNoMatch: "!~",
}

var additiveOps = map[lexer.TokenType]string{lexer.Plus: "+", lexer.Minus: "-"}
var multiplicativeOps = map[lexer.TokenType]string{lexer.Asterisk: "*", lexer.Slash: "/", lexer.Percent: "%"}
var shiftOps = map[lexer.TokenType]string{lexer.Shl: "<<", lexer.Shr: ">>"}

var keywordOperatorKinds = map[lexer.TokenType]ast.ListOperationKind{
	lexer.KwElements: ast.OpElements, lexer.KwKeys: ast.OpKeys,
	lexer.KwShift: ast.OpShift, lexer.KwPop: ast.OpPop,
	lexer.KwChomp: ast.OpChomp, lexer.KwTrim: ast.OpTrim,
	lexer.KwBackground: ast.OpBackground, lexer.KwDelete: ast.OpDelete,
	lexer.KwRemove: ast.OpRemove, lexer.KwExists: ast.OpExists,
}

var listFormOperatorKinds = map[lexer.TokenType]ast.ListOperationKind{
	lexer.KwUnshift: ast.OpUnshift, lexer.KwPush: ast.OpPush,
	lexer.KwSplice: ast.OpSplice, lexer.KwExtract: ast.OpExtract,
	lexer.KwMap: ast.OpMap, lexer.KwFoldr: ast.OpFoldr,
	lexer.KwFoldl: ast.OpFoldl, lexer.KwSelect: ast.OpSelect,
}

// ParseExpr parses one expression at the lowest (assignment) precedence.
func (p *Parser) ParseExpr() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment is right-associative, per §4.5.
func (p *Parser) parseAssignment() ast.Expr {
	lhs := p.parseConditional()
	if op, ok := assignOps[p.cur.Type]; ok {
		p.advance(lexer.Normal)
		rhs := p.parseAssignment()
		return &ast.Assignment{
			Span:     ast.Span{Start: spanStart(lhs), End: spanEnd(rhs)},
			Op:       op,
			Target:   lhs,
			Value:    rhs,
			Compound: op != "=",
		}
	}
	return lhs
}

func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseCoalescing()
	if p.at(lexer.Question) {
		p.advance(lexer.Normal)
		then := p.ParseExpr()
		if _, ok := p.expect(lexer.Colon); !ok {
			return &ast.Error{Span: ast.Span{Start: spanStart(cond), End: p.cur.Location}}
		}
		els := p.parseConditional()
		return &ast.Conditional{Span: ast.Span{Start: spanStart(cond), End: spanEnd(els)}, Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) parseCoalescing() ast.Expr {
	left := p.parseLogOr()
	for p.atAny(lexer.QuestionQuestion, lexer.QuestionStar) {
		op := "??"
		if p.at(lexer.QuestionStar) {
			op = "?*"
		}
		p.advance(lexer.Normal)
		right := p.parseLogOr()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogOr() ast.Expr {
	left := p.parseLogAnd()
	for p.at(lexer.LogOr) {
		p.advance(lexer.Normal)
		right := p.parseLogAnd()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogAnd() ast.Expr {
	left := p.parseBitOr()
	for p.at(lexer.LogAnd) {
		p.advance(lexer.Normal)
		right := p.parseBitOr()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: "&&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.at(lexer.Pipe) {
		p.advance(lexer.Normal)
		right := p.parseBitXor()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: "|", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.at(lexer.Caret) {
		p.advance(lexer.Normal)
		right := p.parseBitAnd()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: "^", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseRelational()
	for p.at(lexer.Amp) {
		p.advance(lexer.Normal)
		right := p.parseRelational()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: "&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseInstanceof()
	for {
		op, ok := relOps[p.cur.Type]
		if !ok {
			return left
		}
		p.advance(lexer.Normal)
		right := p.parseInstanceof()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseInstanceof() ast.Expr {
	left := p.parseShift()
	for p.at(lexer.KwInstanceof) {
		p.advance(lexer.Normal)
		name := p.parseQualifiedName()
		left = &ast.Instanceof{Span: ast.Span{Start: spanStart(left), End: name.End}, Operand: left, ClassName: name}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAdditive()
	for {
		op, ok := shiftOps[p.cur.Type]
		if !ok {
			return left
		}
		p.advance(lexer.Normal)
		right := p.parseAdditive()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		op, ok := additiveOps[p.cur.Type]
		if !ok {
			return left
		}
		p.advance(lexer.Normal)
		right := p.parseMultiplicative()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePrefix()
	for {
		op, ok := multiplicativeOps[p.cur.Type]
		if !ok {
			return left
		}
		p.advance(lexer.Normal)
		right := p.parsePrefix()
		left = &ast.Binary{Span: ast.Span{Start: spanStart(left), End: spanEnd(right)}, Op: op, Left: left, Right: right}
	}
}

var prefixOps = map[lexer.TokenType]string{
	lexer.Plus: "+", lexer.Minus: "-", lexer.LogNot: "!", lexer.Tilde: "~",
	lexer.Backslash: "\\", lexer.PlusPlus: "++", lexer.MinusMinus: "--",
}

func (p *Parser) parsePrefix() ast.Expr {
	start := p.cur.Location
	if op, ok := prefixOps[p.cur.Type]; ok {
		p.advance(lexer.Normal)
		operand := p.parsePrefix()
		return &ast.Unary{Span: ast.Span{Start: start, End: spanEnd(operand)}, Op: op, Operand: operand}
	}
	if kind, ok := keywordOperatorKinds[p.cur.Type]; ok {
		p.advance(lexer.Normal)
		operand := p.parsePrefix()
		return &ast.ListOperation{Span: ast.Span{Start: start, End: spanEnd(operand)}, Kind: kind, Args: []ast.Expr{operand}}
	}
	if kind, ok := listFormOperatorKinds[p.cur.Type]; ok {
		p.advance(lexer.Normal)
		args := p.parseCallArgsUntilStatementEnd()
		end := start
		if len(args) > 0 {
			end = spanEnd(args[len(args)-1])
		}
		return &ast.ListOperation{Span: ast.Span{Start: start, End: end}, Kind: kind, Args: args}
	}
	return p.parsePostfix()
}

// parseCallArgsUntilStatementEnd parses a comma-separated argument list for
// a list-form keyword operator, which (unlike a call) is not
// parenthesis-delimited: "map $1 * 2, myList".
func (p *Parser) parseCallArgsUntilStatementEnd() []ast.Expr {
	var args []ast.Expr
	args = append(args, p.parseConditional())
	for p.at(lexer.Comma) {
		p.advance(lexer.Normal)
		args = append(args, p.parseConditional())
	}
	return args
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.LParen:
			p.advance(lexer.Normal)
			args := p.parseArgList()
			end := p.cur.Location
			p.expect(lexer.RParen)
			expr = &ast.Call{Span: ast.Span{Start: spanStart(expr), End: end}, Callee: expr, Args: args}
		case lexer.LBracket:
			p.advance(lexer.Normal)
			idx := p.ParseExpr()
			end := p.cur.Location
			p.expect(lexer.RBracket)
			expr = &ast.Index{Span: ast.Span{Start: spanStart(expr), End: end}, Operand: expr, Index: idx}
		case lexer.Dot:
			p.advance(lexer.Normal)
			name, ok := p.expect(lexer.Identifier)
			member := ""
			if ok {
				member = name.Text
			} else {
				p.diags.Report(diag.ParserInvalidMemberAccess, p.cur.Location).Arg(p.cur.String()).Emit()
			}
			expr = &ast.Access{Span: ast.Span{Start: spanStart(expr), End: name.Location}, Operand: expr, Member: member}
		case lexer.PlusPlus, lexer.MinusMinus:
			op := prefixOps[p.cur.Type]
			end := p.cur.Location
			p.advance(lexer.Normal)
			expr = &ast.Unary{Span: ast.Span{Start: spanStart(expr), End: end}, Op: op, Operand: expr, Postfix: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []ast.Expr {
	var args []ast.Expr
	if p.at(lexer.RParen) {
		return args
	}
	args = append(args, p.ParseExpr())
	for p.at(lexer.Comma) {
		p.advance(lexer.Normal)
		args = append(args, p.ParseExpr())
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur.Location
	switch p.cur.Type {
	case lexer.IntLiteral:
		v := parseIntLiteral(p.cur.Text)
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.IntLit, IntValue: v}
	case lexer.FloatLiteral:
		v := parseFloatLiteral(p.cur.Text)
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.FloatLit, FloatValue: v}
	case lexer.DateLiteral:
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.DateLit, Raw: tok.Text}
	case lexer.BinaryLiteral:
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.BinaryLit, Raw: tok.Text}
	case lexer.StringLiteral:
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.StringLit, StringValue: tok.Text}
	case lexer.BackquoteLiteral:
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.BackquoteLit, StringValue: tok.Text}
	case lexer.RegexLiteral:
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Regex{Span: ast.Span{Start: start, End: tok.Location}, Pattern: tok.Text}
	case lexer.KwTrue, lexer.KwFalse:
		v := p.at(lexer.KwTrue)
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.BoolLit, BoolValue: v}
	case lexer.KwNothing:
		tok := p.cur
		p.advance(lexer.Normal)
		return &ast.Literal{Span: ast.Span{Start: start, End: tok.Location}, Kind: ast.NothingLit}
	case lexer.KwSelf:
		tok := p.cur
		p.advance(lexer.Normal)
		return nameFromParts(start, tok.Location, false, []string{"self"})
	case lexer.KwCast:
		return p.parseCast(start)
	case lexer.KwNew:
		return p.parseNew(start)
	case lexer.KwMy, lexer.KwOur:
		return p.parseVarDecl(start)
	case lexer.KwSub, lexer.KwFunction:
		return p.parseClosure(start)
	case lexer.LParen:
		return p.parseParenthesized(start)
	case lexer.LBrace:
		return p.parseHash(start)
	case lexer.Identifier, lexer.ColonColon:
		return p.parseQualifiedName()
	case lexer.Asterisk:
		// '*' reached in expression position with nothing before it is a
		// malformed multiplication; treated as a parse error.
	}
	p.diags.Report(diag.ParserExpectedPrimaryExpression, p.cur.Location).Arg(p.cur.String()).Emit()
	errExpr := &ast.Error{Span: ast.Span{Start: start, End: start}}
	p.advance(lexer.Normal)
	return errExpr
}

func (p *Parser) parseCast(start source.Location) ast.Expr {
	p.advance(lexer.Normal) // 'cast'
	p.expect(lexer.Lt)
	typ := p.parseTypeExpr()
	p.expect(lexer.Gt)
	p.expect(lexer.LParen)
	operand := p.ParseExpr()
	end := p.cur.Location
	p.expect(lexer.RParen)
	return &ast.Cast{Span: ast.Span{Start: start, End: end}, Type: typ, Operand: operand}
}

func (p *Parser) parseNew(start source.Location) ast.Expr {
	p.advance(lexer.Normal) // 'new'
	name := p.parseQualifiedName()
	var args []ast.Expr
	end := name.End
	if p.at(lexer.LParen) {
		p.advance(lexer.Normal)
		args = p.parseArgList()
		end = p.cur.Location
		p.expect(lexer.RParen)
	}
	return &ast.New{Span: ast.Span{Start: start, End: end}, ClassName: name, Args: args}
}

func (p *Parser) parseVarDecl(start source.Location) ast.Expr {
	my := p.at(lexer.KwMy)
	p.advance(lexer.Normal) // 'my' or 'our'
	typ := p.parseTypeExpr()
	name, _ := p.expect(lexer.Identifier)
	var init ast.Expr
	end := name.Location
	if p.at(lexer.Assign) {
		p.advance(lexer.Normal)
		init = p.ParseExpr()
		end = spanEnd(init)
	}
	return &ast.VarDecl{Span: ast.Span{Start: start, End: end}, Name: name.Text, Type: typ, Init: init, My: my}
}

func (p *Parser) parseParenthesized(start source.Location) ast.Expr {
	p.advance(lexer.Normal) // '('
	if p.at(lexer.RParen) {
		end := p.cur.Location
		p.advance(lexer.Normal)
		return &ast.List{Span: ast.Span{Start: start, End: end}}
	}
	first := p.ParseExpr()
	if !p.at(lexer.Comma) {
		p.expect(lexer.RParen)
		// A single parenthesised expression is not itself a List; return it
		// directly so precedence grouping doesn't change its shape.
		return first
	}
	elems := []ast.Expr{first}
	for p.at(lexer.Comma) {
		p.advance(lexer.Normal)
		elems = append(elems, p.ParseExpr())
	}
	end := p.cur.Location
	p.expect(lexer.RParen)
	return &ast.List{Span: ast.Span{Start: start, End: end}, Elements: elems}
}

func (p *Parser) parseHash(start source.Location) ast.Expr {
	p.advance(lexer.Normal) // '{'
	var keys, values []ast.Expr
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		k := p.ParseExpr()
		p.expect(lexer.Colon)
		v := p.ParseExpr()
		keys = append(keys, k)
		values = append(values, v)
		if p.at(lexer.Comma) {
			p.advance(lexer.Normal)
		} else {
			break
		}
	}
	end := p.cur.Location
	p.expect(lexer.RBrace)
	return &ast.Hash{Span: ast.Span{Start: start, End: end}, Keys: keys, Values: values}
}

func (p *Parser) parseClosure(start source.Location) ast.Expr {
	p.advance(lexer.Normal) // 'sub' or 'function'
	p.expect(lexer.LParen)
	params := p.parseParamList()
	p.expect(lexer.RParen)
	var returnType ast.TypeExpr
	if p.at(lexer.Colon) {
		p.advance(lexer.Normal)
		returnType = p.parseTypeExpr()
	}
	body := p.parseCompoundStmt()
	return &ast.Closure{Span: ast.Span{Start: start, End: spanStmtEnd(body)}, Params: params, ReturnType: returnType, Body: body}
}

// parseParamList parses a comma-separated parameter list, shared by
// function, method, and closure declarations.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.at(lexer.RParen) {
		return params
	}
	for {
		params = append(params, p.parseParam())
		if !p.at(lexer.Comma) {
			break
		}
		p.advance(lexer.Normal)
	}
	return params
}

func (p *Parser) parseParam() *ast.Param {
	byRef := false
	if p.at(lexer.Backslash) {
		byRef = true
		p.advance(lexer.Normal)
	}
	typ := p.parseTypeExpr()
	name, _ := p.expect(lexer.Identifier)
	var def ast.Expr
	if p.at(lexer.Assign) {
		p.advance(lexer.Normal)
		def = p.parseConditional()
	}
	return &ast.Param{Name: name.Text, Type: typ, Default: def, ByRef: byRef}
}

// parseIntLiteral decodes an integer literal's spelling (decimal, 0x hex, or
// 0b binary) into its value.
func parseIntLiteral(text string) int64 {
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "0x"):
		v, _ := strconv.ParseInt(lower[2:], 16, 64)
		return v
	case strings.HasPrefix(lower, "0b"):
		v, _ := strconv.ParseInt(lower[2:], 2, 64)
		return v
	default:
		v, _ := strconv.ParseInt(text, 10, 64)
		return v
	}
}

func parseFloatLiteral(text string) float64 {
	v, _ := strconv.ParseFloat(text, 64)
	return v
}

func spanStart(e ast.Expr) source.Location { return spanOf(e).Start }
func spanEnd(e ast.Expr) source.Location   { return spanOf(e).End }

func spanOf(e ast.Expr) ast.Span {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Span
	case *ast.Name:
		return n.Span
	case *ast.List:
		return n.Span
	case *ast.Hash:
		return n.Span
	case *ast.VarDecl:
		return n.Span
	case *ast.Cast:
		return n.Span
	case *ast.Call:
		return n.Span
	case *ast.Unary:
		return n.Span
	case *ast.Index:
		return n.Span
	case *ast.Access:
		return n.Span
	case *ast.New:
		return n.Span
	case *ast.Binary:
		return n.Span
	case *ast.Instanceof:
		return n.Span
	case *ast.Conditional:
		return n.Span
	case *ast.Assignment:
		return n.Span
	case *ast.ListOperation:
		return n.Span
	case *ast.Regex:
		return n.Span
	case *ast.Closure:
		return n.Span
	case *ast.Error:
		return n.Span
	default:
		return ast.Span{}
	}
}
