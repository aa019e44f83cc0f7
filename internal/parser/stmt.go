package parser

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/lexer"
	"github.com/scriptcore/scriptcore/internal/source"
)

// parseStmt parses one statement, recovering with skip-to-semicolon on
// malformed simple statements and skip-to-closing-brace on malformed blocks.
func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur.Location
	switch p.cur.Type {
	case lexer.Semicolon:
		p.advance(lexer.Normal)
		return &ast.Empty{Span: ast.Span{Start: start, End: start}}
	case lexer.LBrace:
		return p.parseCompoundStmt()
	case lexer.KwReturn:
		return p.parseReturnStmt(start)
	case lexer.KwIf:
		return p.parseIfStmt(start)
	case lexer.KwTry:
		return p.parseTryStmt(start)
	case lexer.KwForeach:
		return p.parseForeachStmt(start)
	case lexer.KwThrow:
		return p.parseThrowStmt(start)
	case lexer.KwBreak:
		return p.parseSimpleStmt(start, ast.Break)
	case lexer.KwContinue:
		return p.parseSimpleStmt(start, ast.Continue)
	case lexer.KwRethrow:
		return p.parseSimpleStmt(start, ast.Rethrow)
	case lexer.KwThreadExit:
		return p.parseSimpleStmt(start, ast.ThreadExit)
	case lexer.KwOnExit, lexer.KwOnError, lexer.KwOnSuccess:
		return p.parseScopeGuardStmt(start)
	case lexer.KwWhile:
		return p.parseWhileStmt(start)
	case lexer.KwDo:
		return p.parseDoWhileStmt(start)
	case lexer.KwFor:
		return p.parseForStmt(start)
	case lexer.KwSwitch:
		return p.parseSwitchStmt(start)
	default:
		return p.parseExpressionOrDeclStmt(start)
	}
}

func (p *Parser) parseCompoundStmt() ast.Stmt {
	start := p.cur.Location
	p.expect(lexer.LBrace)
	var stmts []ast.Stmt
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.cur.Location
	if _, ok := p.expect(lexer.RBrace); !ok {
		p.recover(recoverToClosingBrace)
	}
	return &ast.Compound{Span: ast.Span{Start: start, End: end}, Stmts: stmts}
}

func (p *Parser) parseReturnStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'return'
	var value ast.Expr
	end := start
	if !p.at(lexer.Semicolon) {
		value = p.ParseExpr()
		end = spanEnd(value)
	}
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.Return{Span: ast.Span{Start: start, End: end}, Value: value}
}

func (p *Parser) parseIfStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'if'
	p.expect(lexer.LParen)
	cond := p.ParseExpr()
	p.expect(lexer.RParen)
	then := p.parseStmt()
	end := stmtSpan(then).End
	var els ast.Stmt
	if p.at(lexer.KwElse) {
		p.advance(lexer.Normal)
		els = p.parseStmt()
		end = stmtSpan(els).End
	}
	return &ast.If{Span: ast.Span{Start: start, End: end}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseTryStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'try'
	body := p.parseStmt()
	p.expect(lexer.KwCatch)
	hasVar := false
	var catchVar string
	if p.at(lexer.LParen) {
		p.advance(lexer.Normal)
		if p.at(lexer.Identifier) {
			hasVar = true
			catchVar = p.cur.Text
			p.advance(lexer.Normal)
		}
		p.expect(lexer.RParen)
	}
	catchBody := p.parseStmt()
	return &ast.Try{
		Span:        ast.Span{Start: start, End: stmtSpan(catchBody).End},
		Body:        body,
		HasCatchVar: hasVar,
		CatchVar:    catchVar,
		CatchBody:   catchBody,
	}
}

func (p *Parser) parseForeachStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'foreach'
	p.expect(lexer.LParen)
	var varType ast.TypeExpr
	if p.atTypeStart() && !p.at(lexer.Identifier) {
		varType = p.parseTypeExpr()
	} else if p.at(lexer.Identifier) {
		// Could be "Type name" or bare "name" (optionally "\ref"-qualified);
		// a type annotation is present only when a second name (possibly
		// after a '\') follows immediately, which here means the first
		// identifier names a class type.
		mark := p.Mark()
		first := p.cur.Text
		p.advance(lexer.Normal)
		if p.at(lexer.Backslash) {
			p.advance(lexer.Normal)
		}
		if p.at(lexer.Identifier) {
			varType = &ast.Basic{Span: ast.Span{Start: start, End: start}, Name: nameFromParts(start, start, false, []string{first})}
			p.Reset(mark)
			p.advance(lexer.Normal) // re-consume the type name identifier
		} else {
			p.Reset(mark)
		}
	}
	byRef := false
	if p.at(lexer.Backslash) {
		byRef = true
		p.advance(lexer.Normal)
	}
	varName, _ := p.expect(lexer.Identifier)
	p.expect(lexer.KwIn)
	p.expect(lexer.LParen)
	collection := p.ParseExpr()
	p.expect(lexer.RParen)
	p.expect(lexer.RParen)
	body := p.parseStmt()
	return &ast.Foreach{
		Span:       ast.Span{Start: start, End: stmtSpan(body).End},
		VarName:    varName.Text,
		VarType:    varType,
		ByRef:      byRef,
		Collection: collection,
		Body:       body,
	}
}

func (p *Parser) parseThrowStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'throw'
	value := p.ParseExpr()
	end := spanEnd(value)
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.Throw{Span: ast.Span{Start: start, End: end}, Value: value}
}

func (p *Parser) parseSimpleStmt(start source.Location, kind ast.SimpleKind) ast.Stmt {
	p.advance(lexer.Normal)
	end := start
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.Simple{Span: ast.Span{Start: start, End: end}, Kind: kind}
}

var scopeGuardKeywords = map[lexer.TokenType]string{
	lexer.KwOnExit: "on_exit", lexer.KwOnError: "on_error", lexer.KwOnSuccess: "on_success",
}

func (p *Parser) parseScopeGuardStmt(start source.Location) ast.Stmt {
	keyword := scopeGuardKeywords[p.cur.Type]
	p.advance(lexer.Normal)
	body := p.parseStmt()
	return &ast.ScopeGuard{Span: ast.Span{Start: start, End: stmtSpan(body).End}, Keyword: keyword, Body: body}
}

func (p *Parser) parseWhileStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'while'
	p.expect(lexer.LParen)
	cond := p.ParseExpr()
	p.expect(lexer.RParen)
	body := p.parseStmt()
	return &ast.While{Span: ast.Span{Start: start, End: stmtSpan(body).End}, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'do'
	body := p.parseStmt()
	p.expect(lexer.KwWhile)
	p.expect(lexer.LParen)
	cond := p.ParseExpr()
	end := p.cur.Location
	p.expect(lexer.RParen)
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.DoWhile{Span: ast.Span{Start: start, End: end}, Body: body, Cond: cond}
}

func (p *Parser) parseForStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'for'
	p.expect(lexer.LParen)
	var init ast.Stmt
	if !p.at(lexer.Semicolon) {
		init = p.parseExpressionOrDeclStmt(p.cur.Location)
	} else {
		p.advance(lexer.Normal)
	}
	var cond ast.Expr
	if !p.at(lexer.Semicolon) {
		cond = p.ParseExpr()
	}
	p.expect(lexer.Semicolon)
	var post ast.Expr
	if !p.at(lexer.RParen) {
		post = p.ParseExpr()
	}
	p.expect(lexer.RParen)
	body := p.parseStmt()
	return &ast.For{Span: ast.Span{Start: start, End: stmtSpan(body).End}, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseSwitchStmt(start source.Location) ast.Stmt {
	p.advance(lexer.Normal) // 'switch'
	p.expect(lexer.LParen)
	subject := p.ParseExpr()
	p.expect(lexer.RParen)
	p.expect(lexer.LBrace)
	var cases []ast.SwitchCase
	for p.atAny(lexer.KwCase, lexer.KwDefault) {
		keyword := "case"
		var values []ast.Expr
		if p.at(lexer.KwCase) {
			p.advance(lexer.Normal)
			values = append(values, p.ParseExpr())
			for p.at(lexer.Comma) {
				p.advance(lexer.Normal)
				values = append(values, p.ParseExpr())
			}
		} else {
			keyword = "default"
			p.advance(lexer.Normal)
		}
		p.expect(lexer.Colon)
		var body []ast.Stmt
		for !p.atAny(lexer.KwCase, lexer.KwDefault, lexer.RBrace, lexer.EOF) {
			body = append(body, p.parseStmt())
		}
		cases = append(cases, ast.SwitchCase{Keyword: keyword, Values: values, Body: body})
	}
	end := p.cur.Location
	if _, ok := p.expect(lexer.RBrace); !ok {
		p.recover(recoverToClosingBrace)
	}
	return &ast.Switch{Span: ast.Span{Start: start, End: end}, Subject: subject, Cases: cases}
}

// parseExpressionOrDeclStmt handles the shared-prefix ambiguity at
// statement position: a leading type-looking token could start a VarDecl
// expression statement ("int x = 1;") or a plain expression statement.
// ast.VarDecl is itself an Expr (§3), so both shapes reduce to Expression.
func (p *Parser) parseExpressionOrDeclStmt(start source.Location) ast.Stmt {
	var x ast.Expr
	if p.atTypeStart() {
		mark := p.Mark()
		if typ := p.parseTypeExpr(); p.at(lexer.Identifier) {
			name := p.cur
			p.advance(lexer.Normal)
			decl := &ast.VarDecl{Span: ast.Span{Start: start, End: name.Location}, Name: name.Text, Type: typ, My: true}
			if p.at(lexer.Assign) {
				p.advance(lexer.Normal)
				decl.Init = p.ParseExpr()
				decl.Span.End = spanEnd(decl.Init)
			}
			x = decl
		} else {
			p.Reset(mark)
		}
	}
	if x == nil {
		x = p.ParseExpr()
	}
	end := spanEnd(x)
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.Expression{Span: ast.Span{Start: start, End: end}, X: x}
}

// stmtSpan extracts the Span of any Stmt variant, used to compute an
// enclosing construct's end location from its last sub-statement.
func stmtSpan(s ast.Stmt) ast.Span {
	switch n := s.(type) {
	case *ast.Empty:
		return n.Span
	case *ast.Expression:
		return n.Span
	case *ast.Compound:
		return n.Span
	case *ast.Return:
		return n.Span
	case *ast.If:
		return n.Span
	case *ast.Try:
		return n.Span
	case *ast.Foreach:
		return n.Span
	case *ast.Throw:
		return n.Span
	case *ast.Simple:
		return n.Span
	case *ast.ScopeGuard:
		return n.Span
	case *ast.While:
		return n.Span
	case *ast.DoWhile:
		return n.Span
	case *ast.For:
		return n.Span
	case *ast.Switch:
		return n.Span
	default:
		return ast.Span{}
	}
}

func spanStmtEnd(s ast.Stmt) source.Location { return stmtSpan(s).End }
