package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking over an in-memory
// UTF-8 buffer.
type source struct {
	buf      []byte
	filename string

	line uint32 // line of ch (1-based)
	col  uint32 // column of ch (1-based, byte offset)

	ch    rune // current character, -1 for EOF
	chOff int  // byte offset of ch
	offs  int  // byte offset just past ch

	errh func(pos Pos, msg string)
}

// newSource reads all of src into memory and positions the reader on the
// first character. errh is called for each error; if nil, errors are ignored.
func newSource(filename string, src io.Reader, errh func(pos Pos, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0,
		ch:       -1,
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		s.ch = -1
		return s
	}

	s.nextch()
	return s
}

// nextch advances to the next character.
// (line, col, chOff) always describe s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.chOff = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.chOff, s.line, s.col)
}

// text returns the source bytes in [from, to) as a string.
func (s *source) text(from, to int) string {
	return string(s.buf[from:to])
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.pos(), msg)
	}
}

// isLetter reports whether r is a letter (a-z, A-Z, or _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// lower returns the lowercase version of r if r is an ASCII letter.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace reports whether r is a space, tab, or carriage return.
// Newline is handled separately because it may end a statement.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// isOperatorStart reports whether r can start an operator or delimiter.
func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '^', '=', '!', ':',
		'(', ')', '[', ']', '{', '}', ',', ';':
		return true
	}
	return false
}
