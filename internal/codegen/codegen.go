// Package codegen lowers ssa.Funcs to textual LLVM IR that clang compiles
// and links against libstd.
package codegen

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/ssa"
)

// ModuleID names the generated module in its header.
const ModuleID = "walter"

// generator holds module-wide state while function bodies are lowered.
type generator struct {
	e *emitter

	strings   []string
	stringMap map[string]int

	defined map[string]bool
	externs map[string]extern
	err     error
}

// extern is a call target outside libstd and the module, declared from
// the types seen at its first call site.
type extern struct {
	ret    string
	params []string
}

// Generate writes one LLVM IR module defining funcs to w. Every libstd
// function is declared. Any other callee that funcs does not define is
// declared from its call site; two call sites that disagree on the
// signature are an error.
func Generate(w io.Writer, funcs []*ssa.Func) error {
	var body bytes.Buffer
	g := &generator{
		e:         &emitter{w: &body},
		stringMap: make(map[string]int),
		defined:   make(map[string]bool),
		externs:   make(map[string]extern),
	}
	for _, fn := range funcs {
		g.defined[fn.Name] = true
	}
	for i, fn := range funcs {
		if i > 0 {
			g.e.blank()
		}
		g.lowerFunc(fn)
	}
	if g.err != nil {
		return g.err
	}
	if g.e.err != nil {
		return g.e.err
	}

	out := &emitter{w: w}
	out.header(ModuleID)
	for i, s := range g.strings {
		out.constant(stringGlobal(i), stringInit(s))
	}
	if len(g.strings) > 0 {
		out.blank()
	}

	out.emit("; libstd")
	for _, f := range rtabi.RuntimeFunctions() {
		declareRuntime(out, f)
	}
	if len(g.externs) > 0 {
		names := make([]string, 0, len(g.externs))
		for name := range g.externs {
			names = append(names, name)
		}
		sort.Strings(names)
		out.blank()
		for _, name := range names {
			x := g.externs[name]
			out.declare(x.ret, name, x.params)
		}
	}
	out.blank()
	if out.err != nil {
		return out.err
	}
	_, err := body.WriteTo(w)
	return err
}

// declareRuntime declares a libstd function. C bool crosses the boundary
// as a zero-extended i1.
func declareRuntime(e *emitter, f rtabi.FuncSignature) {
	params := make([]string, len(f.ParamTypes))
	for i, p := range f.ParamTypes {
		params[i] = paramExt(p)
	}
	if f.NoReturn {
		e.declare(resultExt(f.ReturnType), f.Name, params, "noreturn")
		return
	}
	e.declare(resultExt(f.ReturnType), f.Name, params)
}

func paramExt(ty string) string {
	if ty == rtabi.LLVMTypeBoolI1 {
		return ty + " zeroext"
	}
	return ty
}

func resultExt(ty string) string {
	if ty == rtabi.LLVMTypeBoolI1 {
		return "zeroext " + ty
	}
	return ty
}

func (g *generator) errorf(format string, args ...any) {
	if g.err == nil {
		g.err = fmt.Errorf("codegen: "+format, args...)
	}
}

// declareExtern records the signature of a call to a symbol outside the
// module and libstd.
func (g *generator) declareExtern(v *ssa.Value, name string) {
	x := extern{ret: llvmReturnType(v.Type)}
	for _, a := range v.Args {
		x.params = append(x.params, llvmType(a.Type))
	}
	prev, ok := g.externs[name]
	if !ok {
		g.externs[name] = x
		return
	}
	if prev.ret != x.ret || strings.Join(prev.params, ",") != strings.Join(x.params, ",") {
		g.errorf("conflicting calls to %s: %s(%s) and %s(%s)", name,
			prev.ret, strings.Join(prev.params, ", "), x.ret, strings.Join(x.params, ", "))
	}
}
