package lexer

import (
	"strings"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/source"
)

// Mode selects how a leading '/' is tokenized. The parser passes the mode
// appropriate to its current grammar position; the lexer never infers it.
type Mode int

const (
	Normal Mode = iota
	Regex
)

// Lexer scans one Source into Tokens on demand.
type Lexer struct {
	src      *source.Source
	diags    *diag.Sink
	interner *intern.Table
}

// New creates a Lexer reading from src, reporting illegal input to diags and
// interning identifier/string spellings into interner.
func New(src *source.Source, diags *diag.Sink, interner *intern.Table) *Lexer {
	return &Lexer{src: src, diags: diags, interner: interner}
}

// tokenHandler scans one token whose first byte has already been
// identified by the dispatch table in Next.
type tokenHandler func(*Lexer, source.Location) Token

var tokenHandlers = map[byte]tokenHandler{
	'+': (*Lexer).handlePlus,
	'-': (*Lexer).handleMinus,
	'*': (*Lexer).handleAsterisk,
	'%': (*Lexer).handlePercent,
	'=': (*Lexer).handleEquals,
	'<': (*Lexer).handleLess,
	'>': (*Lexer).handleGreater,
	'!': (*Lexer).handleExclamation,
	'?': (*Lexer).handleQuestion,
	'&': (*Lexer).handleAmpersand,
	'|': (*Lexer).handlePipe,
	'^': (*Lexer).handleCaret,
	'~': (*Lexer).handleTilde,
	'\\': (*Lexer).handleBackslash,
	':': (*Lexer).handleColon,
	'"': (*Lexer).handleString,
	'`': (*Lexer).handleBackquote,
}

var simpleTokens = map[byte]TokenType{
	'(': LParen, ')': RParen,
	'{': LBrace, '}': RBrace,
	'[': LBracket, ']': RBracket,
	',': Comma, ';': Semicolon, '.': Dot,
}

// Next scans and returns the next Token. At end of input it returns EOF
// tokens forever.
func (l *Lexer) Next(mode Mode) Token {
	l.skipWhitespaceAndComments()

	loc := l.src.CurrentLocation()
	if l.src.AtEnd() {
		return Token{Type: EOF, Location: loc}
	}

	b := l.src.Peek()

	if b == '/' {
		if mode == Regex {
			return l.handleRegex(loc)
		}
		return l.handleSlash(loc)
	}

	if isDigit(b) {
		return l.handleNumber(loc)
	}
	if isIdentStart(b) {
		return l.handleIdentifier(loc)
	}
	if tt, ok := simpleTokens[b]; ok {
		l.src.Read()
		return Token{Type: tt, Location: loc, Length: 1}
	}
	if h, ok := tokenHandlers[b]; ok {
		return h(l, loc)
	}

	l.src.Read()
	l.diags.Report(diag.LexerIllegalCharacter, loc).Arg(string(b)).Emit()
	return Token{Type: None, Location: loc, Length: 1}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.src.Peek() == ' ' || l.src.Peek() == '\t' || l.src.Peek() == '\n' || l.src.Peek() == '\r':
			l.src.Read()
		case l.src.Peek() == '#':
			for !l.src.AtEnd() && l.src.Peek() != '\n' {
				l.src.Read()
			}
		case l.src.Peek() == '/' && l.src.PeekAt(1) == '/':
			for !l.src.AtEnd() && l.src.Peek() != '\n' {
				l.src.Read()
			}
		case l.src.Peek() == '/' && l.src.PeekAt(1) == '*':
			startLoc := l.src.CurrentLocation()
			l.src.Read()
			l.src.Read()
			closed := false
			for !l.src.AtEnd() {
				if l.src.Peek() == '*' && l.src.PeekAt(1) == '/' {
					l.src.Read()
					l.src.Read()
					closed = true
					break
				}
				l.src.Read()
			}
			if !closed {
				l.diags.Report(diag.LexerUnterminatedComment, startLoc).Emit()
			}
		default:
			return
		}
	}
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentCont(b byte) bool  { return isIdentStart(b) || isDigit(b) }

func (l *Lexer) handleIdentifier(loc source.Location) Token {
	l.src.SetMark()
	for isIdentCont(l.src.Peek()) {
		l.src.Read()
	}
	text := l.src.GetMarkedString()
	lowered := strings.ToLower(text)
	tt := LookupIdentifier(lowered)
	l.interner.Put(text)
	return Token{Type: tt, Location: loc, Length: len(text), Text: text}
}

func (l *Lexer) handleNumber(loc source.Location) Token {
	l.src.SetMark()

	if l.src.Peek() == '0' && (l.src.PeekAt(1) == 'x' || l.src.PeekAt(1) == 'X') {
		l.src.Read()
		l.src.Read()
		for isHexDigit(l.src.Peek()) {
			l.src.Read()
		}
		text := l.src.GetMarkedString()
		return Token{Type: IntLiteral, Location: loc, Length: len(text), Text: text}
	}
	if l.src.Peek() == '0' && (l.src.PeekAt(1) == 'b' || l.src.PeekAt(1) == 'B') {
		l.src.Read()
		l.src.Read()
		for l.src.Peek() == '0' || l.src.Peek() == '1' {
			l.src.Read()
		}
		text := l.src.GetMarkedString()
		return Token{Type: BinaryLiteral, Location: loc, Length: len(text), Text: text}
	}

	tt := IntLiteral
	for isDigit(l.src.Peek()) {
		l.src.Read()
	}
	if l.src.Peek() == '.' && isDigit(l.src.PeekAt(1)) {
		tt = FloatLiteral
		l.src.Read()
		for isDigit(l.src.Peek()) {
			l.src.Read()
		}
	}
	if l.src.Peek() == 'e' || l.src.Peek() == 'E' {
		tt = FloatLiteral
		l.src.Read()
		if l.src.Peek() == '+' || l.src.Peek() == '-' {
			l.src.Read()
		}
		for isDigit(l.src.Peek()) {
			l.src.Read()
		}
	}
	// A trailing 'D' marks a date/time literal (e.g. 2024-01-01D).
	if l.src.Peek() == 'D' || l.src.Peek() == 'd' {
		l.src.Read()
		text := l.src.GetMarkedString()
		return Token{Type: DateLiteral, Location: loc, Length: len(text), Text: text}
	}

	text := l.src.GetMarkedString()
	if len(text) == 0 {
		l.diags.Report(diag.LexerInvalidNumericLiteral, loc).Arg(text).Emit()
	}
	return Token{Type: tt, Location: loc, Length: len(text), Text: text}
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) handleString(loc source.Location) Token {
	l.src.Read() // opening quote
	var sb strings.Builder
	for {
		if l.src.AtEnd() {
			l.diags.Report(diag.LexerUnterminatedString, loc).Emit()
			break
		}
		b := l.src.Peek()
		if b == '"' {
			l.src.Read()
			break
		}
		if b == '\\' {
			l.src.Read()
			esc := l.src.Read()
			decoded, ok := decodeEscape(esc)
			if !ok {
				l.diags.Report(diag.LexerInvalidEscapeSequence, loc).Arg(string(esc)).Emit()
				continue
			}
			sb.WriteByte(decoded)
			continue
		}
		sb.WriteByte(l.src.Read())
	}
	text := sb.String()
	l.interner.Put(text)
	return Token{Type: StringLiteral, Location: loc, Length: len(text) + 2, Text: text}
}

func decodeEscape(esc byte) (byte, bool) {
	switch esc {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '0':
		return 0, true
	default:
		return esc, false
	}
}

// handleBackquote scans a backquoted string, passed through unescaped
// (used as shell-command literals in the source language; this core does
// not execute them, only preserves the raw text).
func (l *Lexer) handleBackquote(loc source.Location) Token {
	l.src.Read()
	l.src.SetMark()
	for !l.src.AtEnd() && l.src.Peek() != '`' {
		l.src.Read()
	}
	text := l.src.GetMarkedString()
	if l.src.AtEnd() {
		l.diags.Report(diag.LexerUnterminatedString, loc).Emit()
	} else {
		l.src.Read()
	}
	l.interner.Put(text)
	return Token{Type: BackquoteLiteral, Location: loc, Length: len(text) + 2, Text: text}
}

// handleRegex scans a '/pattern/flags' regex literal in Regex mode.
func (l *Lexer) handleRegex(loc source.Location) Token {
	l.src.Read() // opening '/'
	l.src.SetMark()
	for !l.src.AtEnd() && l.src.Peek() != '/' {
		if l.src.Peek() == '\\' {
			l.src.Read()
		}
		l.src.Read()
	}
	pattern := l.src.GetMarkedString()
	if l.src.AtEnd() {
		l.diags.Report(diag.LexerUnterminatedString, loc).Emit()
		return Token{Type: None, Location: loc}
	}
	l.src.Read() // closing '/'
	for isIdentCont(l.src.Peek()) {
		l.src.Read()
	}
	return Token{Type: RegexLiteral, Location: loc, Length: len(pattern) + 2, Text: pattern}
}

func (l *Lexer) matchAndConsume(expected byte) bool {
	if l.src.Peek() == expected {
		l.src.Read()
		return true
	}
	return false
}

func (l *Lexer) handlePlus(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('+'):
		return Token{Type: PlusPlus, Location: loc, Length: 2}
	case l.matchAndConsume('='):
		return Token{Type: PlusAssign, Location: loc, Length: 2}
	}
	return Token{Type: Plus, Location: loc, Length: 1}
}

func (l *Lexer) handleMinus(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('-'):
		return Token{Type: MinusMinus, Location: loc, Length: 2}
	case l.matchAndConsume('='):
		return Token{Type: MinusAssign, Location: loc, Length: 2}
	}
	return Token{Type: Minus, Location: loc, Length: 1}
}

func (l *Lexer) handleAsterisk(loc source.Location) Token {
	l.src.Read()
	if l.matchAndConsume('=') {
		return Token{Type: AsteriskAssign, Location: loc, Length: 2}
	}
	return Token{Type: Asterisk, Location: loc, Length: 1}
}

func (l *Lexer) handleSlash(loc source.Location) Token {
	l.src.Read()
	if l.matchAndConsume('=') {
		return Token{Type: SlashAssign, Location: loc, Length: 2}
	}
	return Token{Type: Slash, Location: loc, Length: 1}
}

func (l *Lexer) handlePercent(loc source.Location) Token {
	l.src.Read()
	if l.matchAndConsume('=') {
		return Token{Type: PercentAssign, Location: loc, Length: 2}
	}
	return Token{Type: Percent, Location: loc, Length: 1}
}

func (l *Lexer) handleEquals(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('='):
		return Token{Type: Eq, Location: loc, Length: 2}
	case l.matchAndConsume('~'):
		return Token{Type: RegexMatch, Location: loc, Length: 2}
	}
	return Token{Type: Assign, Location: loc, Length: 1}
}

func (l *Lexer) handleLess(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('='):
		return Token{Type: Le, Location: loc, Length: 2}
	case l.matchAndConsume('<'):
		if l.matchAndConsume('=') {
			return Token{Type: ShlAssign, Location: loc, Length: 3}
		}
		return Token{Type: Shl, Location: loc, Length: 2}
	}
	return Token{Type: Lt, Location: loc, Length: 1}
}

func (l *Lexer) handleGreater(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('='):
		return Token{Type: Ge, Location: loc, Length: 2}
	case l.matchAndConsume('>'):
		if l.matchAndConsume('=') {
			return Token{Type: ShrAssign, Location: loc, Length: 3}
		}
		return Token{Type: Shr, Location: loc, Length: 2}
	}
	return Token{Type: Gt, Location: loc, Length: 1}
}

func (l *Lexer) handleExclamation(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('='):
		return Token{Type: Ne, Location: loc, Length: 2}
	case l.matchAndConsume('~'):
		return Token{Type: RegexNoMatch, Location: loc, Length: 2}
	}
	return Token{Type: LogNot, Location: loc, Length: 1}
}

func (l *Lexer) handleQuestion(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('?'):
		return Token{Type: QuestionQuestion, Location: loc, Length: 2}
	case l.matchAndConsume('*'):
		return Token{Type: QuestionStar, Location: loc, Length: 2}
	}
	return Token{Type: Question, Location: loc, Length: 1}
}

func (l *Lexer) handleAmpersand(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('&'):
		return Token{Type: LogAnd, Location: loc, Length: 2}
	case l.matchAndConsume('='):
		return Token{Type: AmpAssign, Location: loc, Length: 2}
	}
	return Token{Type: Amp, Location: loc, Length: 1}
}

func (l *Lexer) handlePipe(loc source.Location) Token {
	l.src.Read()
	switch {
	case l.matchAndConsume('|'):
		return Token{Type: LogOr, Location: loc, Length: 2}
	case l.matchAndConsume('='):
		return Token{Type: PipeAssign, Location: loc, Length: 2}
	}
	return Token{Type: Pipe, Location: loc, Length: 1}
}

func (l *Lexer) handleCaret(loc source.Location) Token {
	l.src.Read()
	if l.matchAndConsume('=') {
		return Token{Type: CaretAssign, Location: loc, Length: 2}
	}
	return Token{Type: Caret, Location: loc, Length: 1}
}

func (l *Lexer) handleTilde(loc source.Location) Token {
	l.src.Read()
	return Token{Type: Tilde, Location: loc, Length: 1}
}

func (l *Lexer) handleBackslash(loc source.Location) Token {
	l.src.Read()
	return Token{Type: Backslash, Location: loc, Length: 1}
}

func (l *Lexer) handleColon(loc source.Location) Token {
	l.src.Read()
	if l.matchAndConsume(':') {
		return Token{Type: ColonColon, Location: loc, Length: 2}
	}
	return Token{Type: Colon, Location: loc, Length: 1}
}
