package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/driver"
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/ssa/passes"
	"github.com/you-not-fish/redditlang/internal/syntax"
	"github.com/you-not-fish/redditlang/internal/wire"
)

type emitFlags struct {
	tokens     bool
	pairs      bool
	ast        bool
	json       bool
	cfg        bool
	cfgWire    bool
	ll         bool
	release    bool
	output     string
	dumpBefore string
	dumpAfter  string
	dumpFunc   string
}

func runEmit(args []string) int {
	var ef emitFlags
	fs := flag.NewFlagSet("emit", flag.ContinueOnError)
	fs.BoolVar(&ef.tokens, "tokens", false, "Output token stream")
	fs.BoolVar(&ef.pairs, "pairs", false, "Output syntax pairs")
	fs.BoolVar(&ef.ast, "ast", false, "Output AST")
	fs.BoolVar(&ef.json, "json", false, "Output the AST as JSON")
	fs.BoolVar(&ef.cfg, "cfg", false, "Output the control flow graph")
	fs.BoolVar(&ef.cfgWire, "cfg-wire", false, "Output the control flow graph as CBOR")
	fs.BoolVar(&ef.ll, "ll", false, "Output LLVM IR (default)")
	fs.BoolVar(&ef.release, "release", false, "Run release passes before -cfg, -cfg-wire and -ll")
	fs.StringVar(&ef.output, "o", "", "Output file")
	fs.StringVar(&ef.dumpBefore, "dump-before", "", "Dump the CFG before pass (name or \"*\")")
	fs.StringVar(&ef.dumpAfter, "dump-after", "", "Dump the CFG after pass (name or \"*\")")
	fs.StringVar(&ef.dumpFunc, "dump-func", "", "Only dump specific function")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: walter emit [options] <file.rl>")
		return 2
	}

	filename := resolve(fs.Arg(0))
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var out bytes.Buffer
	if code := emit(&out, filename, src, ef); code != 0 {
		return code
	}

	if ef.output == "" {
		os.Stdout.Write(out.Bytes())
		return 0
	}
	if err := os.WriteFile(resolve(ef.output), out.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func emit(w io.Writer, filename string, src []byte, ef emitFlags) int {
	switch {
	case ef.tokens:
		return emitTokens(w, filename, src)
	case ef.pairs:
		pairs, err := syntax.Parse(filename, bytes.NewReader(src))
		if err != nil {
			report(diag.FromSyntax(err), src)
			return 1
		}
		syntax.Fprint(w, pairs)
		return 0
	case ef.ast:
		u, err := driver.Parse(filename, src)
		if err != nil {
			report(err, src)
			return 1
		}
		if ef.json {
			if err := ast.FprintJSON(w, u.Tree); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
			return 0
		}
		ast.Fprint(w, u.Tree)
		return 0
	}

	opts := driver.Options{
		Passes: passes.Config{
			Dump:       os.Stderr,
			DumpBefore: ef.dumpBefore,
			DumpAfter:  ef.dumpAfter,
			DumpFunc:   ef.dumpFunc,
		},
	}
	if ef.release {
		opts.Mode = driver.Release
	}
	u, err := driver.Compile(filename, src, opts)
	if err != nil {
		report(err, src)
		return 1
	}

	switch {
	case ef.cfg:
		ssa.Fprint(w, u.Func)
	case ef.cfgWire:
		data, err := wire.Encode(filename, []*ssa.Func{u.Func})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if sum, err := wire.Hash(wire.FromSSA(u.Func)); err == nil {
			log.Infof("%s: %s", u.Func.Name, hex.EncodeToString(sum[:]))
		}
		w.Write(data)
	default:
		if err := driver.EmitIR(w, u); err != nil {
			report(err, src)
			return 1
		}
	}
	return 0
}

// emitTokens scans src and prints all tokens with positions.
func emitTokens(w io.Writer, filename string, src []byte) int {
	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}
	s := syntax.NewScanner(filename, bytes.NewReader(src), errh)

	fmt.Fprintf(w, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(w, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for {
		s.Next()
		tok := s.Token()
		fmt.Fprintf(w, "%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return 1
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return `""`
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
