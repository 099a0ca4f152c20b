// Package diag defines the compiler's error taxonomy and renders errors
// against their source text.
package diag

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/redditlang/internal/syntax"
)

// Kind classifies an Error.
type Kind uint8

const (
	// Syntax is malformed user input: grammar errors and builder-enforced
	// invariants such as duplicate arguments or unknown modifiers.
	Syntax Kind = iota
	// Bug is an internal defect: the builder or compiler met a shape it
	// has no case for. Never caused by user input on a correct grammar.
	Bug
	// Compile is a lowering error in user code: break outside a loop,
	// an unbound identifier, or mismatched operand types.
	Compile
	// Unsupported is valid AST that has no lowering rule yet.
	Unsupported
	// Verify is a failed structural check of an emitted function.
	Verify
)

var kindNames = [...]string{
	Syntax:      "syntax error",
	Bug:         "internal compiler error",
	Compile:     "compile error",
	Unsupported: "unsupported",
	Verify:      "verification failed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Error is a fatal compiler diagnostic.
type Error struct {
	Kind Kind
	Span syntax.Span // zero for Verify errors
	Func string      // function name for Verify errors
	Msg  string
	Err  error // underlying error, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Span.IsValid() {
		b.WriteString(e.Span.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Kind == Verify && e.Func != "" {
		fmt.Fprintf(&b, " for function %s", e.Func)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Kind == Bug {
		b.WriteString(" (this is a compiler bug, please report it)")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns an Error of the given kind at span.
func Errorf(kind Kind, span syntax.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// Verifyf returns a Verify error attributed to the function fn.
func Verifyf(fn string, err error) *Error {
	return &Error{Kind: Verify, Func: fn, Msg: err.Error(), Err: err}
}

// FromSyntax converts a grammar error into a Syntax Error. Other errors are
// returned unchanged.
func FromSyntax(err error) error {
	var serr *syntax.Error
	if errors.As(err, &serr) {
		return &Error{
			Kind: Syntax,
			Span: syntax.Span{Start: serr.Pos, End: serr.Pos},
			Msg:  serr.Msg,
			Err:  err,
		}
	}
	return err
}

// KindOf reports the Kind of the first Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var d *Error
	if errors.As(err, &d) {
		return d.Kind, true
	}
	return 0, false
}

// Is reports whether err carries a diagnostic of kind k.
func Is(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// Fprint writes err to w. If err is an Error with a valid span and src is
// the text it refers to, the offending line is shown with a caret under
// the span.
func Fprint(w io.Writer, src []byte, err error) {
	fmt.Fprintln(w, err)

	var d *Error
	if !errors.As(err, &d) || !d.Span.IsValid() || src == nil {
		return
	}
	line, ok := sourceLine(src, int(d.Span.Start.Line()))
	if !ok {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	col := int(d.Span.Start.Col()) - 1
	if col > len(line) {
		col = len(line)
	}
	width := d.Span.Len()
	if width < 1 || col+width > len(line) {
		width = 1
	}
	var pad strings.Builder
	for _, c := range line[:col] {
		if c == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	fmt.Fprintf(w, "    %s%s\n", pad.String(), strings.Repeat("^", width))
}

// sourceLine returns the n'th (1-based) line of src without its newline.
func sourceLine(src []byte, n int) (string, bool) {
	for i := 1; i < n; i++ {
		j := bytes.IndexByte(src, '\n')
		if j < 0 {
			return "", false
		}
		src = src[j+1:]
	}
	if j := bytes.IndexByte(src, '\n'); j >= 0 {
		src = src[:j]
	}
	return strings.TrimRight(string(src), "\r"), true
}
