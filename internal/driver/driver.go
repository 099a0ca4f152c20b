// Package driver runs the compilation pipeline: source to pairs, AST,
// CFG, verified (and in release mode optimized) CFG, LLVM IR and finally
// an executable built with the C toolchain.
package driver

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/codegen"
	"github.com/you-not-fish/redditlang/internal/compiler"
	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/ssa/passes"
	"github.com/you-not-fish/redditlang/internal/syntax"
)

var log = commonlog.GetLogger("walter.driver")

// Mode selects the debug or release pipeline.
type Mode uint8

const (
	Debug Mode = iota
	Release
)

func (m Mode) String() string {
	if m == Release {
		return "release"
	}
	return "debug"
}

// Options configures Compile.
type Options struct {
	Mode Mode

	// Env declares external functions callable besides libstd.
	Env *compiler.Env

	// Passes controls dumps in release mode. Verification is always on.
	Passes passes.Config
}

// Unit is one source file and everything derived from it so far.
type Unit struct {
	File  string
	Src   []byte
	Pairs *syntax.Pair
	Tree  ast.Tree
	Func  *ssa.Func
}

// Parse runs the grammar and the AST builder.
func Parse(file string, src []byte) (*Unit, error) {
	u := &Unit{File: file, Src: src}

	log.Info("parsing", "file", file)
	pairs, err := syntax.Parse(file, bytes.NewReader(src))
	if err != nil {
		return u, diag.FromSyntax(err)
	}
	u.Pairs = pairs

	tree, err := ast.Build(pairs)
	if err != nil {
		return u, err
	}
	u.Tree = tree
	return u, nil
}

// Compile parses src and lowers it to a verified CFG. A failed Unit is
// returned with every stage that succeeded filled in.
func Compile(file string, src []byte, opts Options) (*Unit, error) {
	u, err := Parse(file, src)
	if err != nil {
		return u, err
	}

	log.Info("compiling", "file", file, "mode", opts.Mode.String())
	fn, err := compiler.Compile(u.Tree, opts.Env)
	if err != nil {
		return u, err
	}

	log.Info("verifying", "function", fn.Name, "blocks", fn.NumBlocks())
	if err := ssa.Verify(fn); err != nil {
		return u, diag.Verifyf(fn.Name, err)
	}

	if opts.Mode == Release {
		cfg := opts.Passes
		cfg.Verify = true
		if err := passes.Run(fn, passes.Release, cfg); err != nil {
			return u, diag.Verifyf(fn.Name, err)
		}
		log.Debug("optimized", "function", fn.Name, "blocks", fn.NumBlocks(), "values", fn.NumValues())
	}
	u.Func = fn
	return u, nil
}

// EmitIR writes the LLVM IR module of a compiled unit to w.
func EmitIR(w io.Writer, u *Unit) error {
	if u.Func == nil {
		return fmt.Errorf("driver: %s has not been compiled", u.File)
	}
	log.Info("emitting", "file", u.File)
	if err := codegen.Generate(w, []*ssa.Func{u.Func}); err != nil {
		return diag.Errorf(diag.Bug, syntax.Span{}, "%v", err)
	}
	return nil
}
