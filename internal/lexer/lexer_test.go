package lexer

import (
	"testing"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/source"
)

func newTestLexer(t *testing.T, text string) (*Lexer, *diag.Sink) {
	t.Helper()
	src, err := source.New(&source.Info{ShortName: "t.q"}, []byte(text))
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	sink := diag.NewSink()
	return New(src, sink, intern.New()), sink
}

func allTokens(l *Lexer, mode Mode) []Token {
	var toks []Token
	for {
		tok := l.Next(mode)
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestIdentifiersAndKeywordsAreCaseInsensitive(t *testing.T) {
	cases := []struct {
		text string
		want TokenType
	}{
		{"class", KwClass},
		{"CLASS", KwClass},
		{"Class", KwClass},
		{"myVar", Identifier},
		{"namespace", KwNamespace},
		{"Namespace", KwNamespace},
	}
	for _, c := range cases {
		l, _ := newTestLexer(t, c.text)
		tok := l.Next(Normal)
		if tok.Type != c.want {
			t.Errorf("Next(%q).Type = %v, want %v", c.text, tok, tokenNames[c.want])
		}
	}
}

func TestCompoundOperators(t *testing.T) {
	cases := []struct {
		text string
		want TokenType
	}{
		{"+", Plus}, {"++", PlusPlus}, {"+=", PlusAssign},
		{"-", Minus}, {"--", MinusMinus}, {"-=", MinusAssign},
		{"<<", Shl}, {"<<=", ShlAssign}, {">>", Shr}, {">>=", ShrAssign},
		{"??", QuestionQuestion}, {"?*", QuestionStar}, {"?", Question},
		{"::", ColonColon}, {":", Colon},
		{"&&", LogAnd}, {"&=", AmpAssign}, {"&", Amp},
		{"||", LogOr}, {"|=", PipeAssign}, {"|", Pipe},
		{"==", Eq}, {"!=", Ne}, {"=", Assign},
		{"\\", Backslash},
	}
	for _, c := range cases {
		l, _ := newTestLexer(t, c.text)
		tok := l.Next(Normal)
		if tok.Type != c.want {
			t.Errorf("Next(%q).Type = %v, want %v", c.text, tok, tokenNames[c.want])
		}
		if tok.Length != len(c.text) {
			t.Errorf("Next(%q).Length = %d, want %d", c.text, tok.Length, len(c.text))
		}
	}
}

func TestStringLiteralDecodesEscapes(t *testing.T) {
	l, sink := newTestLexer(t, `"a\nb\tc"`)
	tok := l.Next(Normal)
	if tok.Type != StringLiteral {
		t.Fatalf("Type = %v, want StringLiteral", tok)
	}
	if tok.Text != "a\nb\tc" {
		t.Fatalf("Text = %q, want %q", tok.Text, "a\nb\tc")
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Records())
	}
}

func TestUnterminatedStringReportsDiagnostic(t *testing.T) {
	l, sink := newTestLexer(t, `"abc`)
	l.Next(Normal)
	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for an unterminated string")
	}
	if sink.Records()[0].ID != diag.LexerUnterminatedString {
		t.Fatalf("ID = %v, want LexerUnterminatedString", sink.Records()[0].ID)
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := []struct {
		text string
		want TokenType
	}{
		{"123", IntLiteral},
		{"0x1F", IntLiteral},
		{"0b101", BinaryLiteral},
		{"3.14", FloatLiteral},
		{"1e10", FloatLiteral},
		{"2024D", DateLiteral},
	}
	for _, c := range cases {
		l, sink := newTestLexer(t, c.text)
		tok := l.Next(Normal)
		if tok.Type != c.want {
			t.Errorf("Next(%q).Type = %v, want %v", c.text, tok, tokenNames[c.want])
		}
		if sink.HasErrors() {
			t.Errorf("Next(%q) reported unexpected diagnostics: %v", c.text, sink.Records())
		}
	}
}

func TestLineCommentIsSkipped(t *testing.T) {
	l, _ := newTestLexer(t, "# a comment\nclass")
	tok := l.Next(Normal)
	if tok.Type != KwClass {
		t.Fatalf("Type = %v, want KwClass", tok)
	}
}

func TestBlockCommentIsSkipped(t *testing.T) {
	l, _ := newTestLexer(t, "/* hi */ class")
	tok := l.Next(Normal)
	if tok.Type != KwClass {
		t.Fatalf("Type = %v, want KwClass", tok)
	}
}

func TestSlashIsDivisionInNormalModeAndRegexInRegexMode(t *testing.T) {
	l, _ := newTestLexer(t, "/abc/")
	tok := l.Next(Regex)
	if tok.Type != RegexLiteral || tok.Text != "abc" {
		t.Fatalf("Regex mode: got %v %q, want RegexLiteral %q", tok, tok.Text, "abc")
	}

	l2, _ := newTestLexer(t, "/")
	tok2 := l2.Next(Normal)
	if tok2.Type != Slash {
		t.Fatalf("Normal mode: got %v, want Slash", tok2)
	}
}

func TestEOFIsReturnedForever(t *testing.T) {
	l, _ := newTestLexer(t, "")
	for i := 0; i < 3; i++ {
		if tok := l.Next(Normal); tok.Type != EOF {
			t.Fatalf("Next() #%d = %v, want EOF", i, tok)
		}
	}
}

func TestIllegalCharacterReportsDiagnosticAndNoneToken(t *testing.T) {
	l, sink := newTestLexer(t, "$")
	tok := l.Next(Normal)
	if tok.Type != None {
		t.Fatalf("Type = %v, want None", tok)
	}
	if !sink.HasErrors() || sink.Records()[0].ID != diag.LexerIllegalCharacter {
		t.Fatalf("expected LexerIllegalCharacter diagnostic, got %v", sink.Records())
	}
}

func TestBackquoteLiteralIsPassedThroughRaw(t *testing.T) {
	l, _ := newTestLexer(t, "`ls -l`")
	tok := l.Next(Normal)
	if tok.Type != BackquoteLiteral || tok.Text != "ls -l" {
		t.Fatalf("got %v %q, want BackquoteLiteral %q", tok, tok.Text, "ls -l")
	}
}

func TestNamespaceQualifiedNameTokenizesAsColonColon(t *testing.T) {
	l, _ := newTestLexer(t, "Foo::Bar::baz")
	toks := allTokens(l, Normal)
	wantTypes := []TokenType{Identifier, ColonColon, Identifier, ColonColon, Identifier, EOF}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantTypes), toks)
	}
	for i, want := range wantTypes {
		if toks[i].Type != want {
			t.Fatalf("token %d = %v, want %v", i, toks[i], tokenNames[want])
		}
	}
}
