// Package syntax turns RL source text into a tree of syntax pairs.
//
// A pair is a grammar rule applied to a span of the source; it is the only
// thing the AST builder consumes. The scanner and the grammar engine in this
// package exist to produce pairs and never build AST nodes themselves.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	_EOF Token = iota // end of file

	// Literals
	_Name   // identifier: foo, bar
	_Number // unsigned numeric magnitude: 12, 3.5, 1e9
	_String // quoted string, kept raw: "a\n"

	// Operators
	_Assign // =
	_Eql    // ==
	_Neq    // !=
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Xor    // ^

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :

	// Keywords
	_Break
	_Catch
	_Class
	_Else
	_Func
	_If
	_Import
	_Loop
	_Module
	_Return
	_Throw
	_Try
	_Var

	tokenCount
)

var tokenNames = [...]string{
	_EOF: "EOF",

	_Name:   "NAME",
	_Number: "NUMBER",
	_String: "STRING",

	_Assign: "=",
	_Eql:    "==",
	_Neq:    "!=",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Xor:    "^",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",

	_Break:  "break",
	_Catch:  "catch",
	_Class:  "class",
	_Else:   "else",
	_Func:   "func",
	_If:     "if",
	_Import: "import",
	_Loop:   "loop",
	_Module: "module",
	_Return: "return",
	_Throw:  "throw",
	_Try:    "try",
	_Var:    "var",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsEOF reports whether t marks the end of input.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Break && t <= _Var
}

// isMathOp reports whether t is an arithmetic operator.
func (t Token) isMathOp() bool {
	switch t {
	case _Add, _Sub, _Mul, _Div, _Xor:
		return true
	}
	return false
}

// isCondOp reports whether t is a comparison operator.
func (t Token) isCondOp() bool {
	return t == _Eql || t == _Neq
}

// keywords maps keyword strings to their token type.
// Modifiers (debug, bar) are not keywords; they are scanned as names.
var keywords = map[string]Token{
	"break":  _Break,
	"catch":  _Catch,
	"class":  _Class,
	"else":   _Else,
	"func":   _Func,
	"if":     _If,
	"import": _Import,
	"loop":   _Loop,
	"module": _Module,
	"return": _Return,
	"throw":  _Throw,
	"try":    _Try,
	"var":    _Var,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
