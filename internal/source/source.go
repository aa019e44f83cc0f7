// Package source provides the byte-level input buffer shared by the lexer
// and parser: source identity, line/column tracked locations, and a cursor
// that can be marked, read, unread, and appended to.
package source

import "fmt"

// terminator is appended to every Source's byte buffer so the lexer never
// has to range-check before peeking one byte past the last real byte.
const terminator byte = 0x00

// Info is an immutable descriptor of one source blob. Two locations refer
// to the same blob exactly when they share the same *Info pointer.
type Info struct {
	ShortName string
	FullPath  string
}

// Invalid is the sentinel SourceInfo used by a default-constructed Location.
var Invalid = &Info{ShortName: "<invalid>"}

// Location is a single point in a source blob.
type Location struct {
	Info   *Info
	Line   int
	Column int // capped at 255
}

// NoLocation is the zero value of Location, pointing at the Invalid source.
var NoLocation = Location{Info: Invalid, Line: 0, Column: 0}

func (l Location) String() string {
	if l.Info == nil || l.Info == Invalid {
		return "<invalid>"
	}
	return fmt.Sprintf("%s:%d:%d", l.Info.ShortName, l.Line, l.Column)
}

// capColumn enforces the 255 column cap from the data model.
func capColumn(col int) int {
	if col > 255 {
		return 255
	}
	return col
}

// Source owns the byte buffer for one blob plus a read cursor and a mark.
// No byte in the buffer may equal the terminator; New rejects input that
// contains one.
type Source struct {
	info   *Info
	buf    []byte // always ends in terminator, and contains no other terminator byte
	pos    int    // read cursor, byte offset into buf
	line   int
	column int
	firstOnLine bool // true if no non-whitespace byte has been read() since the last newline

	markPos  int
	markLoc  Location
}

// ErrTerminatorInSource is returned by New/Append when the input contains
// the reserved terminator byte.
type ErrTerminatorInSource struct{}

func (ErrTerminatorInSource) Error() string {
	return "source text may not contain a NUL byte"
}

// New creates a Source over the given bytes, tagged with info.
func New(info *Info, data []byte) (*Source, error) {
	for _, b := range data {
		if b == terminator {
			return nil, ErrTerminatorInSource{}
		}
	}
	buf := make([]byte, len(data)+1)
	copy(buf, data)
	buf[len(data)] = terminator

	s := &Source{
		info:        info,
		buf:         buf,
		line:        1,
		column:      1,
		firstOnLine: true,
	}
	s.markPos = 0
	s.markLoc = Location{Info: info, Line: 1, Column: 1}
	return s, nil
}

// Info returns the SourceInfo this buffer was created with.
func (s *Source) Info() *Info { return s.info }

// Len returns the number of real (non-terminator) bytes.
func (s *Source) Len() int { return len(s.buf) - 1 }

// AtEnd reports whether the cursor is positioned at the terminator.
func (s *Source) AtEnd() bool { return s.buf[s.pos] == terminator }

// Peek returns the byte under the cursor without advancing it. At end of
// input this returns the terminator byte.
func (s *Source) Peek() byte { return s.buf[s.pos] }

// PeekAt returns the byte n positions ahead of the cursor (0 == Peek()),
// clamped to the terminator once past the end.
func (s *Source) PeekAt(n int) byte {
	idx := s.pos + n
	if idx >= len(s.buf) {
		return terminator
	}
	return s.buf[idx]
}

// Read advances the cursor by one byte and returns the byte that was under
// it, updating line/column per the newline and tab rules in the data model:
//
//   - "\n", and "\r" not immediately followed by "\n", advance to line+1 col 1
//   - "\r\n" counts as a single line break (the \r only advances the column)
//   - "\t" advances column to the next multiple-of-4 boundary
func (s *Source) Read() byte {
	b := s.buf[s.pos]
	if b == terminator {
		return b
	}
	s.pos++

	switch b {
	case '\n':
		s.line++
		s.column = 1
		s.firstOnLine = true
	case '\r':
		if s.buf[s.pos] == '\n' {
			// \r\n: the \r only moves the column; \n below does the line bump.
			s.column++
		} else {
			s.line++
			s.column = 1
			s.firstOnLine = true
		}
	case '\t', ' ':
		if b == '\t' {
			s.column = s.column + 4 - ((s.column - 1) % 4)
		} else {
			s.column++
		}
	default:
		s.column++
		s.firstOnLine = false
	}
	return b
}

// Unread moves the cursor back one byte. Valid only after at least one
// successful Read() of a non-newline, non-tab byte; unreading whitespace
// is undefined per the data model and will desynchronize line/column.
func (s *Source) Unread() {
	if s.pos == 0 {
		return
	}
	s.pos--
	if s.column > 1 {
		s.column--
	}
}

// CurrentLocation returns the Location of the byte currently under the
// cursor.
func (s *Source) CurrentLocation() Location {
	return Location{Info: s.info, Line: s.line, Column: capColumn(s.column)}
}

// WasFirstOnLine reports whether the byte just read (the one preceding the
// current cursor position) was the first non-whitespace byte on its line.
func (s *Source) WasFirstOnLine() bool {
	if s.pos == 0 {
		return false
	}
	if b := s.buf[s.pos-1]; b == ' ' || b == '\t' || b == '\n' || b == '\r' {
		return false
	}
	for i := s.pos - 2; i >= 0 && s.buf[i] != '\n' && s.buf[i] != '\r'; i-- {
		if s.buf[i] != ' ' && s.buf[i] != '\t' {
			return false
		}
	}
	return true
}

// SetMark records the current cursor position as the mark.
func (s *Source) SetMark() {
	s.markPos = s.pos
	s.markLoc = s.CurrentLocation()
}

// GetMarkedString returns the bytes from the mark (inclusive) to the
// current cursor position (exclusive).
func (s *Source) GetMarkedString() string {
	if s.markPos > s.pos {
		return ""
	}
	return string(s.buf[s.markPos:s.pos])
}

// GetMarkLocation returns the Location recorded by the most recent SetMark.
func (s *Source) GetMarkLocation() Location {
	return s.markLoc
}

// Append inserts text immediately before the terminator. The read and mark
// cursors keep their byte offsets (they still point at the same bytes they
// did before, since the insertion happens strictly after the current
// position... when called mid-stream the new text becomes the next bytes
// the cursor will read). Used by in-source directives that splice
// additional text into the stream.
func (s *Source) Append(text []byte) error {
	for _, b := range text {
		if b == terminator {
			return ErrTerminatorInSource{}
		}
	}
	grown := make([]byte, 0, len(s.buf)+len(text))
	grown = append(grown, s.buf[:len(s.buf)-1]...)
	grown = append(grown, text...)
	grown = append(grown, terminator)
	s.buf = grown
	return nil
}

// Checkpoint is an opaque snapshot of the read cursor, usable with Restore
// to rewind a speculative parse. It is cheaper than the mark/append
// machinery above since it never touches the buffer.
type Checkpoint struct {
	pos         int
	line        int
	column      int
	firstOnLine bool
}

// Checkpoint snapshots the current cursor position.
func (s *Source) Checkpoint() Checkpoint {
	return Checkpoint{pos: s.pos, line: s.line, column: s.column, firstOnLine: s.firstOnLine}
}

// Restore rewinds the cursor to a previously taken Checkpoint.
func (s *Source) Restore(c Checkpoint) {
	s.pos = c.pos
	s.line = c.line
	s.column = c.column
	s.firstOnLine = c.firstOnLine
}

// DecodeLocation walks the buffer from the start to recover the (line,
// column) at byte offset. This must agree with what a Read()-based
// traversal to the same offset would produce (invariant I1).
func (s *Source) DecodeLocation(offset int) Location {
	if offset > len(s.buf)-1 {
		offset = len(s.buf) - 1
	}
	line, col := 1, 1
	i := 0
	for i < offset {
		b := s.buf[i]
		switch b {
		case '\n':
			line++
			col = 1
		case '\r':
			if i+1 < len(s.buf) && s.buf[i+1] == '\n' {
				col++
			} else {
				line++
				col = 1
			}
		case '\t':
			col = col + 4 - ((col - 1) % 4)
		default:
			col++
		}
		i++
	}
	return Location{Info: s.info, Line: line, Column: capColumn(col)}
}
