// Package parser implements the recursive-descent parser: it always
// produces an AST, never aborts, and reports a diagnostic plus attempts
// recovery on unexpected input.
package parser

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/lexer"
	"github.com/scriptcore/scriptcore/internal/source"
)

// Parser drives a Lexer over one Source and produces a Script.
type Parser struct {
	src   *source.Source
	lex   *lexer.Lexer
	diags *diag.Sink

	cur    lexer.Token
	curCkp source.Checkpoint // src.Checkpoint() taken immediately before cur was scanned
}

// New creates a Parser over src, reporting to diags and interning
// identifier/string spellings into interner.
func New(src *source.Source, diags *diag.Sink, interner *intern.Table) *Parser {
	p := &Parser{
		src:   src,
		lex:   lexer.New(src, diags, interner),
		diags: diags,
	}
	p.advance(lexer.Normal)
	return p
}

// advance scans the next token in the given mode, recording the source
// checkpoint from immediately before it so a later Mark can rewind here.
func (p *Parser) advance(mode lexer.Mode) {
	p.curCkp = p.src.Checkpoint()
	p.cur = p.lex.Next(mode)
}

// Recorder is a checkpoint a speculative parse can rewind to. Rewinding
// restores the token position but does not roll back diagnostics already
// emitted (§5: "this is intentional — partially-observed syntax still
// yields useful errors").
type Recorder struct {
	ckp source.Checkpoint
}

// Mark captures the position of the current token.
func (p *Parser) Mark() Recorder {
	return Recorder{ckp: p.curCkp}
}

// Reset rewinds to a previously captured Recorder.
func (p *Parser) Reset(r Recorder) {
	p.src.Restore(r.ckp)
	p.advance(lexer.Normal)
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur.Type == tt
}

func (p *Parser) atAny(tts ...lexer.TokenType) bool {
	for _, tt := range tts {
		if p.cur.Type == tt {
			return true
		}
	}
	return false
}

// expect consumes the current token if it has type tt, else reports
// ParserExpectedToken and leaves the cursor in place for recovery to
// handle.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.cur.Type == tt {
		tok := p.cur
		p.advance(lexer.Normal)
		return tok, true
	}
	p.diags.Report(diag.ParserExpectedToken, p.cur.Location).Arg(lexer.Token{Type: tt}.String()).Arg(p.cur.String()).Emit()
	return lexer.Token{}, false
}

// recoveryStrategy names one of the three recovery strategies from §4.5.
type recoveryStrategy int

const (
	recoverNothing recoveryStrategy = iota
	recoverToSemicolon
	recoverToClosingBrace
)

// recover advances the cursor per strategy after a diagnostic has already
// been reported, so the next construct can be attempted.
func (p *Parser) recover(strategy recoveryStrategy) {
	switch strategy {
	case recoverNothing:
		return
	case recoverToSemicolon:
		for !p.at(lexer.EOF) && !p.at(lexer.Semicolon) {
			p.advance(lexer.Normal)
		}
		if p.at(lexer.Semicolon) {
			p.advance(lexer.Normal)
		}
	case recoverToClosingBrace:
		depth := 0
		for !p.at(lexer.EOF) {
			switch p.cur.Type {
			case lexer.LBrace:
				depth++
			case lexer.RBrace:
				if depth == 0 {
					p.advance(lexer.Normal)
					return
				}
				depth--
			}
			p.advance(lexer.Normal)
		}
	}
}

// ParseScript parses the whole input into a flat top-level declaration and
// statement list ("the external interface's top_level is synthesized from
// this list plus GlobalInit").
func (p *Parser) ParseScript() []ast.Decl {
	var decls []ast.Decl
	for !p.at(lexer.EOF) {
		decls = append(decls, p.parseNamespaceMember())
	}
	return decls
}

func nameFromParts(start, end source.Location, qualified bool, parts []string) *ast.Name {
	return &ast.Name{
		Span:      ast.Span{Start: start, End: end},
		Qualified: qualified,
		Parts:     parts,
		Invalid:   len(parts) == 0,
	}
}

// parseQualifiedName parses an (optionally "::"-qualified) dotted
// identifier path. An empty result (no identifier at all) is Invalid and
// carries only its start location (§3).
func (p *Parser) parseQualifiedName() *ast.Name {
	start := p.cur.Location
	qualified := false
	if p.at(lexer.ColonColon) {
		qualified = true
		p.advance(lexer.Normal)
	}

	var parts []string
	if p.at(lexer.Identifier) {
		parts = append(parts, p.cur.Text)
		end := p.cur.Location
		p.advance(lexer.Normal)
		for p.at(lexer.ColonColon) {
			p.advance(lexer.Normal)
			if !p.at(lexer.Identifier) {
				p.diags.Report(diag.ParserExpectedName, p.cur.Location).Arg(p.cur.String()).Emit()
				break
			}
			parts = append(parts, p.cur.Text)
			end = p.cur.Location
			p.advance(lexer.Normal)
		}
		return nameFromParts(start, end, qualified, parts)
	}

	if len(parts) == 0 {
		p.diags.Report(diag.ParserExpectedName, p.cur.Location).Arg(p.cur.String()).Emit()
	}
	return nameFromParts(start, start, qualified, nil)
}
