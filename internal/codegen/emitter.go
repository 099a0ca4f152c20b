package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/redditlang/internal/ssa"
)

// emitter writes LLVM IR text. After the first write error every call is a
// no-op and err holds the failure.
type emitter struct {
	w   io.Writer
	err error
	tmp int
}

func (e *emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *emitter) emit(format string, args ...any) {
	e.printf(format+"\n", args...)
}

func (e *emitter) blank() { e.printf("\n") }

// header starts a module named id.
func (e *emitter) header(id string) {
	e.emit("; ModuleID = '%s'", id)
	e.emit("source_filename = %q", id)
	e.blank()
}

// constant defines a private string global.
func (e *emitter) constant(name, init string) {
	e.emit("%s = private unnamed_addr constant %s", name, init)
}

// declare writes a function declaration; attrs follow the parameter list.
func (e *emitter) declare(ret, name string, params []string, attrs ...string) {
	decl := fmt.Sprintf("declare %s @%s(%s)", ret, name, strings.Join(params, ", "))
	if len(attrs) > 0 {
		decl += " " + strings.Join(attrs, " ")
	}
	e.emit("%s", decl)
}

// label opens block b, carrying its comment over as an IR comment.
func (e *emitter) label(b *ssa.Block) {
	if b.Comment == "" {
		e.emit("%s:", blockName(b))
		return
	}
	e.emit("%s: ; %s", blockName(b), b.Comment)
}

// inst writes one indented instruction.
func (e *emitter) inst(format string, args ...any) {
	e.printf("  "+format+"\n", args...)
}

func (e *emitter) temp() string {
	e.tmp++
	return fmt.Sprintf("%%t%d", e.tmp-1)
}

func valueName(v *ssa.Value) string {
	return fmt.Sprintf("%%v%d", v.ID)
}

// blockName returns the label of b. The entry block is "entry".
func blockName(b *ssa.Block) string {
	if b.ID == 0 {
		return "entry"
	}
	return fmt.Sprintf("b%d", b.ID)
}

func stringGlobal(i int) string {
	return fmt.Sprintf("@.str.%d", i)
}
