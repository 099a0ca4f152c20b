package passes

import (
	"strings"
	"testing"

	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/types"
)

func voidFunc() *ssa.Func {
	f := ssa.NewFunc("f", types.NewFunc(nil, nil, false))
	f.Entry.Kind = ssa.BlockReturn
	return f
}

func TestRunEmpty(t *testing.T) {
	if err := Run(voidFunc(), nil, Config{}); err != nil {
		t.Fatalf("Run with no passes: %v", err)
	}
}

func TestRunSinglePass(t *testing.T) {
	called := false
	passes := []Pass{
		{Name: "test", Fn: func(fn *ssa.Func) { called = true }},
	}

	if err := Run(voidFunc(), passes, Config{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("pass was not called")
	}
}

func TestRunWithVerify(t *testing.T) {
	passes := []Pass{
		{Name: "noop", Fn: func(fn *ssa.Func) {}},
	}
	if err := Run(voidFunc(), passes, Config{Verify: true}); err != nil {
		t.Fatalf("Run with verify: %v", err)
	}
}

func TestRunMultiplePasses(t *testing.T) {
	var order []string
	passes := []Pass{
		{Name: "first", Fn: func(fn *ssa.Func) { order = append(order, "first") }},
		{Name: "second", Fn: func(fn *ssa.Func) { order = append(order, "second") }},
	}

	if err := Run(voidFunc(), passes, Config{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("pass order = %v, want [first second]", order)
	}
}

func TestRunStopsOnVerifyFailure(t *testing.T) {
	ran := false
	passes := []Pass{
		{Name: "breaker", Fn: func(fn *ssa.Func) { fn.Entry.Kind = ssa.BlockPlain }},
		{Name: "later", Fn: func(fn *ssa.Func) { ran = true }},
	}

	err := Run(voidFunc(), passes, Config{Verify: true})
	if err == nil || !strings.HasPrefix(err.Error(), "verify after breaker:") {
		t.Fatalf("err = %v, want verify after breaker", err)
	}
	if ran {
		t.Error("pass after the failure ran")
	}
}

func TestRunDump(t *testing.T) {
	passes := []Pass{
		{Name: "a", Fn: func(fn *ssa.Func) {}},
		{Name: "b", Fn: func(fn *ssa.Func) {}},
	}

	tests := []struct {
		name string
		cfg  Config
		want []string
		not  []string
	}{
		{
			name: "after all",
			cfg:  Config{DumpAfter: "*"},
			want: []string{"--- after a (f) ---", "--- after b (f) ---", "func f():"},
			not:  []string{"before"},
		},
		{
			name: "before one",
			cfg:  Config{DumpBefore: "b"},
			want: []string{"--- before b (f) ---"},
			not:  []string{"before a", "after"},
		},
		{
			name: "other function",
			cfg:  Config{DumpAfter: "*", DumpFunc: "main"},
			not:  []string{"---"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			tt.cfg.Dump = &buf
			if err := Run(voidFunc(), passes, tt.cfg); err != nil {
				t.Fatal(err)
			}
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("dump missing %q:\n%s", w, got)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("dump contains %q:\n%s", n, got)
				}
			}
		})
	}
}
