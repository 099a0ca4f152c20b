package compiler

import (
	"fmt"
	"sort"

	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/types"
)

// builtin lowers a call to a libstd function.
type builtin func(c *compiler, call *ast.Call)

var builtins = map[string]builtin{
	"print": lowerPrint,
	"write": lowerWrite,
	"exit":  lowerExit,
}

// Builtins returns the names of the libstd functions, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Env is the set of functions a program may call besides libstd: external
// symbols resolved at link time. It is read-only during compilation.
type Env struct {
	externs map[string]*types.Func
}

// NewEnv returns an Env with no external symbols.
func NewEnv() *Env {
	return &Env{externs: make(map[string]*types.Func)}
}

// Declare adds the external function name with signature sig.
func (e *Env) Declare(name string, sig *types.Func) error {
	if _, ok := builtins[name]; ok {
		return fmt.Errorf("cannot redeclare libstd function %s", name)
	}
	if _, ok := e.externs[name]; ok {
		return fmt.Errorf("%s already declared", name)
	}
	e.externs[name] = sig
	return nil
}

// Lookup returns the signature of the external function name.
func (e *Env) Lookup(name string) (*types.Func, bool) {
	sig, ok := e.externs[name]
	return sig, ok
}

func (c *compiler) call(call *ast.Call) {
	name := call.Ident.Name
	if lower, ok := builtins[name]; ok {
		lower(c, call)
		return
	}
	if sig, ok := c.env.Lookup(name); ok {
		c.externCall(call, sig)
		return
	}
	c.errorf(diag.Compile, call.Ident.Span, "undefined function %q", name)
}

func (c *compiler) args(call *ast.Call) []*ssa.Value {
	vals := make([]*ssa.Value, len(call.Args))
	for i, arg := range call.Args {
		vals[i] = c.term(arg)
	}
	return vals
}

func lowerPrint(c *compiler, call *ast.Call) {
	lowerWrite(c, call)
	c.runtime(rtabi.FnPrintln, nil, call.Span())
}

// lowerWrite prints the arguments separated by single spaces.
func lowerWrite(c *compiler, call *ast.Call) {
	for i, v := range c.args(call) {
		if i > 0 {
			c.runtime(rtabi.FnPrintSpace, nil, call.Span())
		}
		var fn string
		switch {
		case types.IsNumber(v.Type):
			fn = rtabi.FnPrintF64
		case types.IsString(v.Type):
			fn = rtabi.FnPrintString
		case types.IsBool(v.Type):
			fn = rtabi.FnPrintBool
		default:
			c.errorf(diag.Compile, call.Args[i].Span(), "cannot print value of type %s", v.Type)
		}
		c.runtime(fn, nil, call.Args[i].Span(), v)
	}
}

// lowerExit ends the process. Nothing after it in the same tree runs.
func lowerExit(c *compiler, call *ast.Call) {
	if len(call.Args) != 1 {
		c.errorf(diag.Compile, call.Span(), "exit takes exactly one argument, got %d", len(call.Args))
	}
	status := c.args(call)[0]
	if !types.IsNumber(status.Type) {
		c.errorf(diag.Compile, call.Args[0].Span(), "exit status must be a number, got %s", status.Type)
	}
	c.runtime(rtabi.FnExit, nil, call.Span(), status)
	c.cur.Exit()
}

func (c *compiler) externCall(call *ast.Call, sig *types.Func) {
	params := sig.Params()
	n := len(call.Args)
	if n < len(params) || (n > len(params) && !sig.Variadic()) {
		c.errorf(diag.Compile, call.Span(), "%s takes %d arguments, got %d", call.Ident.Name, len(params), n)
	}
	vals := c.args(call)
	for i, p := range params {
		if !types.Identical(p, vals[i].Type) {
			c.errorf(diag.Compile, call.Args[i].Span(), "cannot use %s value as %s argument to %s",
				vals[i].Type, p, call.Ident.Name)
		}
	}
	v := c.cur.Value(ssa.OpStaticCall, sig.Result(), call.Span(), vals...)
	v.Aux = call.Ident.Name
}
