// Package passes runs transformations over ssa.Funcs.
package passes

import (
	"fmt"
	"io"

	"github.com/you-not-fish/redditlang/internal/ssa"
)

// Pass is a named transformation of one function.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func)
}

// Release is the pipeline used for release builds.
var Release = []Pass{
	{Name: "deadblocks", Fn: func(f *ssa.Func) { ssa.RemoveUnreachable(f) }},
	{Name: "mem2reg", Fn: Mem2Reg},
}

// Config controls how Run executes passes.
type Config struct {
	Verify     bool      // run ssa.Verify before and after each pass
	Dump       io.Writer // destination for dumps; nil disables them
	DumpBefore string    // pass name, or "*" for all
	DumpAfter  string    // pass name, or "*" for all
	DumpFunc   string    // restrict dumps to this function
}

// Run applies passes to f in order. With cfg.Verify set, the first
// verification failure stops the pipeline.
func Run(f *ssa.Func, passes []Pass, cfg Config) error {
	for _, p := range passes {
		cfg.dump("before", cfg.DumpBefore, p.Name, f)
		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		p.Fn(f)

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}
		cfg.dump("after", cfg.DumpAfter, p.Name, f)
	}
	return nil
}

func (cfg Config) dump(when, pattern, pass string, f *ssa.Func) {
	if cfg.Dump == nil || (pattern != "*" && pattern != pass) {
		return
	}
	if cfg.DumpFunc != "" && cfg.DumpFunc != f.Name {
		return
	}
	fmt.Fprintf(cfg.Dump, "--- %s %s (%s) ---\n", when, pass, f.Name)
	ssa.Fprint(cfg.Dump, f)
	fmt.Fprintln(cfg.Dump)
}
