package parser

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/lexer"
	"github.com/scriptcore/scriptcore/internal/source"
)

var modifierKeywords = map[lexer.TokenType]ast.Modifier{
	lexer.KwAbstract:     ast.Abstract,
	lexer.KwDeprecated:   ast.Deprecated,
	lexer.KwFinal:        ast.Final,
	lexer.KwPrivate:      ast.Private,
	lexer.KwPublic:       ast.Public,
	lexer.KwStatic:       ast.Static,
	lexer.KwSynchronized: ast.Synchronized,
}

// parseModifiers parses a leading modifier-keyword list, reporting
// ParserModifierGivenTwice on a repeat but keeping both its token and
// continuing to parse (§4.5 "Modifiers").
func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		m, ok := modifierKeywords[p.cur.Type]
		if !ok {
			return mods
		}
		if mods.Add(m) {
			p.diags.Report(diag.ParserModifierGivenTwice, p.cur.Location).Arg(p.cur.String()).Emit()
		}
		p.advance(lexer.Normal)
	}
}

// parseNamespaceMember parses one top-level or namespace-body member:
// namespace, class, function, constant, global variable, or (when none of
// those shapes match) a free-floating statement.
func (p *Parser) parseNamespaceMember() ast.Decl {
	start := p.cur.Location

	if p.at(lexer.KwNamespace) {
		return p.parseNamespaceDecl(start)
	}

	mods := p.parseModifiers()

	if p.at(lexer.KwClass) {
		return p.parseClassDecl(start, mods)
	}
	if p.at(lexer.KwConst) {
		return p.parseConstantDecl(start, mods)
	}

	// Remaining shapes share a "[sub] Type? Name" prefix that the grammar
	// cannot tell apart without a trial parse: a global variable
	// declaration, a function declaration, or (when none of that is
	// present) a bare statement wrapped to satisfy the Decl contract.
	if p.at(lexer.KwSub) || p.at(lexer.KwFunction) {
		return p.parseFunctionDecl(start, mods)
	}

	if decl, ok := p.tryParseGlobalVariableDecl(start, mods); ok {
		return decl
	}

	// Per §4.5: "At the top level a typeless, sub-less function
	// declaration is not permitted... the parser chooses the statement
	// interpretation." Wrap the statement so ParseScript's []ast.Decl
	// list can still carry it.
	stmt := p.parseStmt()
	return &ast.TopLevelStmt{Span: stmtSpan(stmt), Stmt: stmt}
}

func (p *Parser) parseNamespaceDecl(start source.Location) ast.Decl {
	p.advance(lexer.Normal) // 'namespace'
	name := p.parseQualifiedName()
	if p.at(lexer.Semicolon) {
		end := p.cur.Location
		p.advance(lexer.Normal)
		return &ast.Namespace{Span: ast.Span{Start: start, End: end}, Name: name}
	}
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.diags.Report(diag.ParserUnendedNamespaceDecl, p.cur.Location).Arg(name.Text()).Emit()
		p.recover(recoverToClosingBrace)
		return &ast.Namespace{Span: ast.Span{Start: start, End: p.cur.Location}, Name: name}
	}
	var members []ast.Decl
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		members = append(members, p.parseNamespaceMember())
	}
	end := p.cur.Location
	if _, ok := p.expect(lexer.RBrace); !ok {
		p.recover(recoverToClosingBrace)
	}
	return &ast.Namespace{Span: ast.Span{Start: start, End: end}, Name: name, Members: members}
}

func (p *Parser) parseClassDecl(start source.Location, mods ast.Modifiers) ast.Decl {
	p.advance(lexer.Normal) // 'class'
	name := p.parseQualifiedName()
	var supers []ast.SuperclassRef
	if p.at(lexer.KwInherits) {
		p.advance(lexer.Normal)
		supers = append(supers, p.parseSuperclassRef())
		for p.at(lexer.Comma) {
			p.advance(lexer.Normal)
			supers = append(supers, p.parseSuperclassRef())
		}
	}
	if p.at(lexer.Semicolon) {
		end := p.cur.Location
		p.advance(lexer.Normal)
		return &ast.Class{Span: ast.Span{Start: start, End: end}, Modifiers: mods, Name: name, Superclasses: supers}
	}
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.recover(recoverToClosingBrace)
		return &ast.Class{Span: ast.Span{Start: start, End: p.cur.Location}, Modifiers: mods, Name: name, Superclasses: supers}
	}
	var members []ast.Decl
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		members = append(members, p.parseClassMember())
	}
	end := p.cur.Location
	if _, ok := p.expect(lexer.RBrace); !ok {
		p.recover(recoverToClosingBrace)
	}
	return &ast.Class{Span: ast.Span{Start: start, End: end}, Modifiers: mods, Name: name, Superclasses: supers, Members: members}
}

func (p *Parser) parseSuperclassRef() ast.SuperclassRef {
	mods := p.parseModifiers()
	name := p.parseQualifiedName()
	return ast.SuperclassRef{Modifiers: mods, Name: name}
}

// parseClassMember parses one class-body member: a field, method, constant,
// or modifier-prefixed member group.
func (p *Parser) parseClassMember() ast.Decl {
	start := p.cur.Location
	mods := p.parseModifiers()

	if p.at(lexer.KwConst) {
		return p.parseConstantDecl(start, mods)
	}
	if p.at(lexer.LBrace) {
		return p.parseMemberGroup(start, mods)
	}
	if p.at(lexer.KwSub) || p.at(lexer.KwFunction) {
		return p.parseMethodDecl(start, mods)
	}

	// Otherwise this is "Type name" for a field, or "Type name(args)" for a
	// method with an implicit-sub return type omitted; try a type then a
	// name, then look for '(' to disambiguate field vs. method.
	typ := p.parseTypeExpr()
	mark := p.Mark()
	nameTok, ok := p.expect(lexer.Identifier)
	if !ok {
		p.diags.Report(diag.ParserExpectedClassMember, p.cur.Location).Arg(p.cur.String()).Emit()
		p.recover(recoverToSemicolon)
		return &ast.Field{Span: ast.Span{Start: start, End: p.cur.Location}, Modifiers: mods, Type: typ}
	}
	if p.at(lexer.LParen) {
		p.Reset(mark)
		return p.parseMethodDeclWithReturnType(start, mods, typ)
	}

	var init ast.Expr
	var initArgs []ast.Expr
	end := nameTok.Location
	if p.at(lexer.Assign) {
		p.advance(lexer.Normal)
		init = p.ParseExpr()
		end = spanEnd(init)
	} else if p.at(lexer.LParen) {
		p.advance(lexer.Normal)
		initArgs = p.parseArgList()
		end = p.cur.Location
		p.expect(lexer.RParen)
	}
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.Field{Span: ast.Span{Start: start, End: end}, Modifiers: mods, Type: typ, Name: nameTok.Text, Init: init, InitArgs: initArgs}
}

func (p *Parser) parseMemberGroup(start source.Location, mods ast.Modifiers) ast.Decl {
	p.advance(lexer.Normal) // '{'
	var members []ast.Decl
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		members = append(members, p.parseClassMember())
	}
	end := p.cur.Location
	if _, ok := p.expect(lexer.RBrace); !ok {
		p.recover(recoverToClosingBrace)
	}
	return &ast.MemberGroup{Span: ast.Span{Start: start, End: end}, Modifiers: mods, Members: members}
}

func (p *Parser) parseMethodDecl(start source.Location, mods ast.Modifiers) ast.Decl {
	p.advance(lexer.Normal) // 'sub' or 'function'
	var retType ast.TypeExpr = &ast.Implicit{Span: ast.Span{Start: start, End: start}}
	mark := p.Mark()
	if typ := p.parseTypeExpr(); p.at(lexer.Identifier) {
		retType = typ
	} else {
		p.Reset(mark)
	}
	return p.parseMethodTail(start, mods, retType)
}

func (p *Parser) parseMethodDeclWithReturnType(start source.Location, mods ast.Modifiers, retType ast.TypeExpr) ast.Decl {
	return p.parseMethodTail(start, mods, retType)
}

func (p *Parser) parseMethodTail(start source.Location, mods ast.Modifiers, retType ast.TypeExpr) ast.Decl {
	nameTok, _ := p.expect(lexer.Identifier)
	p.expect(lexer.LParen)
	params := p.parseParamList()
	p.expect(lexer.RParen)
	var body ast.Stmt
	end := p.cur.Location
	if p.at(lexer.Semicolon) {
		end = p.cur.Location
		p.advance(lexer.Normal)
	} else {
		body = p.parseCompoundStmt()
		end = stmtSpan(body).End
	}
	return &ast.Method{Span: ast.Span{Start: start, End: end}, Modifiers: mods, ReturnType: retType, Name: nameTok.Text, Params: params, Body: body}
}

func (p *Parser) parseFunctionDecl(start source.Location, mods ast.Modifiers) ast.Decl {
	p.advance(lexer.Normal) // 'sub' or 'function'
	var retType ast.TypeExpr = &ast.Implicit{Span: ast.Span{Start: start, End: start}}
	mark := p.Mark()
	if typ := p.parseTypeExpr(); p.at(lexer.Identifier) {
		retType = typ
	} else {
		p.Reset(mark)
	}
	return p.parseFunctionTail(start, mods, retType)
}

func (p *Parser) parseFunctionTail(start source.Location, mods ast.Modifiers, retType ast.TypeExpr) ast.Decl {
	name := p.parseQualifiedName()
	p.expect(lexer.LParen)
	params := p.parseParamList()
	p.expect(lexer.RParen)
	var body ast.Stmt
	end := p.cur.Location
	if p.at(lexer.Semicolon) {
		end = p.cur.Location
		p.advance(lexer.Normal)
	} else {
		body = p.parseCompoundStmt()
		end = stmtSpan(body).End
	}
	return &ast.Function{Span: ast.Span{Start: start, End: end}, Modifiers: mods, ReturnType: retType, Name: name, Params: params, Body: body}
}

func (p *Parser) parseConstantDecl(start source.Location, mods ast.Modifiers) ast.Decl {
	p.advance(lexer.Normal) // 'const'
	nameTok, _ := p.expect(lexer.Identifier)
	p.expect(lexer.Assign)
	value := p.ParseExpr()
	end := spanEnd(value)
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.recover(recoverToSemicolon)
	}
	return &ast.Constant{Span: ast.Span{Start: start, End: end}, Modifiers: mods, Name: nameTok.Text, Value: value}
}

// tryParseGlobalVariableDecl attempts the "[our] Type name [= expr];" shape
// (or, when "Type name" is followed by '(', a typed function declaration)
// using a Recorder so the caller can fall back to the statement
// interpretation when it doesn't pan out (§4.5 "Disambiguating shared
// prefixes").
func (p *Parser) tryParseGlobalVariableDecl(start source.Location, mods ast.Modifiers) (ast.Decl, bool) {
	mark := p.Mark()
	if p.at(lexer.KwOur) {
		p.advance(lexer.Normal)
	}
	if !p.atTypeStart() {
		p.Reset(mark)
		return nil, false
	}
	typ := p.parseTypeExpr()
	if !p.at(lexer.Identifier) {
		p.Reset(mark)
		return nil, false
	}
	nameMark := p.Mark()
	nameTok := p.cur
	p.advance(lexer.Normal)
	if p.at(lexer.LParen) {
		// "Type Name(" is a typed function declaration: a call has no type
		// in front of its name.
		p.Reset(nameMark)
		return p.parseFunctionTail(start, mods, typ), true
	}
	var init ast.Expr
	end := nameTok.Location
	if p.at(lexer.Assign) {
		p.advance(lexer.Normal)
		init = p.ParseExpr()
		end = spanEnd(init)
	}
	if !p.at(lexer.Semicolon) {
		p.Reset(mark)
		return nil, false
	}
	p.advance(lexer.Normal)
	return &ast.GlobalVariable{Span: ast.Span{Start: start, End: end}, Modifiers: mods, Type: typ, Name: nameTok.Text, Init: init}, true
}
