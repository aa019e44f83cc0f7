package source

import "testing"

func newTestSource(t *testing.T, text string) *Source {
	t.Helper()
	s, err := New(&Info{ShortName: "t.src"}, []byte(text))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestReadAdvancesLineColumn(t *testing.T) {
	s := newTestSource(t, "ab\ncd")

	cases := []struct {
		b    byte
		line int
		col  int
	}{
		{'a', 1, 2},
		{'b', 1, 3},
		{'\n', 2, 1},
		{'c', 2, 2},
		{'d', 2, 3},
	}
	for _, c := range cases {
		got := s.Read()
		if got != c.b {
			t.Fatalf("Read() = %q, want %q", got, c.b)
		}
		if s.line != c.line || s.column != c.col {
			t.Fatalf("after reading %q: line/col = %d/%d, want %d/%d", got, s.line, s.column, c.line, c.col)
		}
	}
}

func TestCRLFCountsAsOneLineBreak(t *testing.T) {
	s := newTestSource(t, "a\r\nb")
	s.Read() // a
	s.Read() // \r -> column bump only
	if s.line != 1 {
		t.Fatalf("after \\r: line = %d, want 1", s.line)
	}
	s.Read() // \n -> line bump
	if s.line != 2 || s.column != 1 {
		t.Fatalf("after \\r\\n: line/col = %d/%d, want 2/1", s.line, s.column)
	}
}

func TestLoneCRAdvancesLine(t *testing.T) {
	s := newTestSource(t, "a\rb")
	s.Read()
	s.Read()
	if s.line != 2 || s.column != 1 {
		t.Fatalf("after lone \\r: line/col = %d/%d, want 2/1", s.line, s.column)
	}
}

func TestTabAdvancesToNextMultipleOfFour(t *testing.T) {
	s := newTestSource(t, "a\tb")
	s.Read() // a -> column 2
	if s.column != 2 {
		t.Fatalf("column after 'a' = %d, want 2", s.column)
	}
	s.Read() // tab -> column should become 5 (next multiple-of-4 boundary)
	if s.column != 5 {
		t.Fatalf("column after tab = %d, want 5", s.column)
	}
}

func TestDecodeLocationAgreesWithRead(t *testing.T) {
	text := "foo\nbar\tbaz\r\nqux"
	s := newTestSource(t, text)

	for offset := 0; offset <= len(text); offset++ {
		decoded := s.DecodeLocation(offset)
		if decoded.Line != s.line || decoded.Column != capColumn(s.column) {
			t.Fatalf("DecodeLocation(%d) = %d:%d, want %d:%d (read-based)", offset, decoded.Line, decoded.Column, s.line, s.column)
		}
		if offset < len(text) {
			s.Read()
		}
	}
}

func TestMarkAndGetMarkedString(t *testing.T) {
	s := newTestSource(t, "hello world")
	s.Read()
	s.Read()
	s.SetMark()
	s.Read()
	s.Read()
	s.Read()
	if got := s.GetMarkedString(); got != "llo" {
		t.Fatalf("GetMarkedString() = %q, want %q", got, "llo")
	}
}

func TestAppendInsertsBeforeTerminatorAndCursorSurvives(t *testing.T) {
	s := newTestSource(t, "ab")
	s.Read()
	if err := s.Append([]byte("cd")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// Cursor was after 'a'; next bytes are 'b', 'c', 'd', then terminator.
	if got := s.Read(); got != 'b' {
		t.Fatalf("Read() after append = %q, want 'b'", got)
	}
	if got := s.Read(); got != 'c' {
		t.Fatalf("Read() after append = %q, want 'c'", got)
	}
	if got := s.Read(); got != 'd' {
		t.Fatalf("Read() after append = %q, want 'd'", got)
	}
	if !s.AtEnd() {
		t.Fatalf("expected AtEnd() after consuming appended text")
	}
}

func TestNewRejectsTerminatorByte(t *testing.T) {
	_, err := New(&Info{ShortName: "bad"}, []byte{'a', 0x00, 'b'})
	if err == nil {
		t.Fatal("expected error for embedded NUL byte")
	}
}

func TestWasFirstOnLine(t *testing.T) {
	s := newTestSource(t, "  x\ny")
	s.Read() // space
	s.Read() // space
	s.Read() // x
	if !s.WasFirstOnLine() {
		t.Fatal("'x' should be first non-whitespace byte on its line")
	}
	s.Read() // \n
	s.Read() // y
	if !s.WasFirstOnLine() {
		t.Fatal("'y' should be first non-whitespace byte on its line")
	}
}

func TestInvalidLocationSentinel(t *testing.T) {
	var loc Location
	if loc.Info != nil {
		t.Fatalf("zero Location.Info should be nil, not set")
	}
	if NoLocation.Info != Invalid {
		t.Fatalf("NoLocation should point at Invalid")
	}
}
