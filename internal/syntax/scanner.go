package syntax

import (
	"fmt"
	"io"
)

// Scanner performs lexical analysis on RL source code.
type Scanner struct {
	source

	tok    Token
	lit    string // raw token text
	tokPos Pos    // token start
	tokEnd Pos    // position just past the token

	// nlsemi reports whether a newline after the current token ends a
	// statement.
	nlsemi bool
}

// NewScanner creates a new Scanner for the given source.
// errh is called for each lexical error; if nil, errors are ignored.
func NewScanner(filename string, src io.Reader, errh func(pos Pos, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

redo:
	s.skipWhitespace()

	if nlsemi && (s.ch == '\n' || s.ch < 0) {
		s.tokPos = s.pos()
		s.tok = _Semi
		if s.ch == '\n' {
			s.lit = "newline"
			s.nextch()
		} else {
			s.lit = "EOF"
		}
		s.tokEnd = s.tokPos
		return
	}

	if s.ch == '\n' {
		s.nextch()
		goto redo
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}

	s.tokEnd = s.pos()
	s.nlsemi = s.shouldInsertSemi()
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's raw text.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// End returns the position just past the current token.
func (s *Scanner) End() Pos {
	return s.tokEnd
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

func (s *Scanner) shouldInsertSemi() bool {
	switch s.tok {
	case _Name, _Number, _String:
		return true
	case _Break:
		return true
	case _Rparen, _Rbrack, _Rbrace:
		return true
	}
	return false
}

func (s *Scanner) scanIdent() {
	start := s.chOff
	s.nextch()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
	s.lit = s.text(start, s.chOff)
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans an unsigned decimal magnitude with an optional
// fraction and exponent. Signs are separate tokens.
func (s *Scanner) scanNumber() {
	start := s.chOff
	s.scanDecimalDigits()

	if s.ch == '.' {
		s.nextch()
		if !isDigit(s.ch) {
			s.error("fraction has no digits")
		}
		s.scanDecimalDigits()
	}

	if lower(s.ch) == 'e' {
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.scanDecimalDigits()
	}

	s.lit = s.text(start, s.chOff)
	s.tok = _Number
}

func (s *Scanner) scanDecimalDigits() {
	for isDigit(s.ch) {
		s.nextch()
	}
}

// scanString scans a string literal. The literal keeps its quotes and
// escape sequences; Unquote decodes it.
func (s *Scanner) scanString() {
	start := s.chOff
	s.nextch() // opening "

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = s.text(start, s.chOff)
			s.tok = _String
			return

		case s.ch == '\\':
			s.nextch()
			if s.ch == '\n' || s.ch < 0 {
				continue
			}
			s.nextch()

		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = s.text(start, s.chOff)
			s.tok = _String
			return

		default:
			s.nextch()
		}
	}
}

// scanOperator scans an operator or delimiter.
// It returns true if a comment was skipped and the caller should rescan.
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok, s.lit = _Add, "+"
	case '-':
		s.tok, s.lit = _Sub, "-"
	case '*':
		s.tok, s.lit = _Mul, "*"
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.tok, s.lit = _Div, "/"
	case '^':
		s.tok, s.lit = _Xor, "^"
	case '=':
		if s.ch == '=' {
			s.nextch()
			s.tok, s.lit = _Eql, "=="
		} else {
			s.tok, s.lit = _Assign, "="
		}
	case '!':
		if s.ch != '=' {
			s.error("unexpected character '!' (did you mean !=?)")
			return true
		}
		s.nextch()
		s.tok, s.lit = _Neq, "!="
	case ':':
		s.tok, s.lit = _Colon, ":"
	case '(':
		s.tok, s.lit = _Lparen, "("
	case ')':
		s.tok, s.lit = _Rparen, ")"
	case '[':
		s.tok, s.lit = _Lbrack, "["
	case ']':
		s.tok, s.lit = _Rbrack, "]"
	case '{':
		s.tok, s.lit = _Lbrace, "{"
	case '}':
		s.tok, s.lit = _Rbrace, "}"
	case ',':
		s.tok, s.lit = _Comma, ","
	case ';':
		s.tok, s.lit = _Semi, ";"
	}

	return false
}

// skipLineComment skips from the second '/' to the end of the line.
func (s *Scanner) skipLineComment() {
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
