package parser

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/lexer"
)

var builtinTypeKeywordNames = map[lexer.TokenType]string{
	lexer.KwAny:        "any",
	lexer.KwBool:       "bool",
	lexer.KwInt:        "int",
	lexer.KwSoftbool:   "softbool",
	lexer.KwSoftint:    "softint",
	lexer.KwSoftstring: "softstring",
	lexer.KwString:     "string",
	lexer.KwNothing:    "nothing",
}

func (p *Parser) atTypeStart() bool {
	if _, ok := builtinTypeKeywordNames[p.cur.Type]; ok {
		return true
	}
	return p.atAny(lexer.Identifier, lexer.ColonColon, lexer.Asterisk)
}

// parseTypeExpr parses a type annotation: a builtin keyword, a possibly
// qualified class name, an Asterisk-prefixed optional form, or (if no
// annotation is present at all) Implicit.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	if p.at(lexer.Asterisk) {
		start := p.cur.Location
		p.advance(lexer.Normal)
		name := p.parseTypeName()
		return &ast.Asterisk{Span: ast.Span{Start: start, End: name.End}, Name: name}
	}
	if p.atTypeStart() {
		name := p.parseTypeName()
		return &ast.Basic{Span: name.Span, Name: name}
	}
	return &ast.Implicit{Span: ast.Span{Start: p.cur.Location, End: p.cur.Location}}
}

// parseTypeName parses a type's name: either a single builtin keyword, or
// a (possibly "::"-qualified) dotted class-name path.
func (p *Parser) parseTypeName() *ast.Name {
	if builtin, ok := builtinTypeKeywordNames[p.cur.Type]; ok {
		loc := p.cur.Location
		p.advance(lexer.Normal)
		return nameFromParts(loc, loc, false, []string{builtin})
	}
	return p.parseQualifiedName()
}
