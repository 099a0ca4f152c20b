// Package interp executes ssa.Funcs in process. The REPL uses it to run
// entries without a C toolchain; tests use it to check lowered control flow.
package interp

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/ssa"
)

// ErrStepLimit is returned when a run executes more values than allowed.
var ErrStepLimit = errors.New("interp: step limit exceeded")

// DefaultMaxSteps bounds a run when Machine.MaxSteps is zero.
const DefaultMaxSteps = 1 << 20

// Machine runs functions, sending libstd output to Out.
type Machine struct {
	Out      io.Writer
	MaxSteps int

	// Externs implements calls to symbols outside libstd.
	Externs map[string]func(args []any) any
}

// slot is the memory behind one Alloca.
type slot struct{ v any }

// Run executes fn from its entry block and returns its exit status: the
// value main returns, or the argument passed to exit.
func (m *Machine) Run(fn *ssa.Func) (status int, err error) {
	limit := m.MaxSteps
	if limit == 0 {
		limit = DefaultMaxSteps
	}
	vals := make(map[*ssa.Value]any)
	var prev *ssa.Block
	b := fn.Entry
	steps := 0

	for {
		for _, v := range b.Values {
			if steps++; steps > limit {
				return 0, ErrStepLimit
			}
			if v.Op == ssa.OpPhi {
				continue
			}
			r, exited, err := m.eval(v, vals)
			if err != nil {
				return 0, fmt.Errorf("%s %s: %w", b, v, err)
			}
			if exited {
				return int(r.(float64)), nil
			}
			vals[v] = r
		}

		switch b.Kind {
		case ssa.BlockPlain:
			if len(b.Succs) != 1 {
				return 0, fmt.Errorf("interp: %s has no terminator", b)
			}
			prev, b = b, b.Succs[0]
		case ssa.BlockIf:
			next := b.Succs[1]
			if vals[b.Controls[0]].(bool) {
				next = b.Succs[0]
			}
			prev, b = b, next
		case ssa.BlockReturn:
			if len(b.Controls) == 0 || b.Controls[0] == nil {
				return 0, nil
			}
			return int(toInt(vals[b.Controls[0]])), nil
		case ssa.BlockExit:
			return 0, fmt.Errorf("interp: %s exits without calling %s", b, rtabi.FnExit)
		default:
			return 0, fmt.Errorf("interp: %s has kind %v", b, b.Kind)
		}

		// Phis read their inputs on entry, all at once.
		idx := -1
		for i, p := range b.Preds {
			if p == prev {
				idx = i
				break
			}
		}
		incoming := make(map[*ssa.Value]any)
		for _, v := range b.Values {
			if v.Op == ssa.OpPhi {
				incoming[v] = vals[v.Args[idx]]
			}
		}
		for v, x := range incoming {
			vals[v] = x
		}
	}
}

func (m *Machine) eval(v *ssa.Value, vals map[*ssa.Value]any) (result any, exited bool, err error) {
	arg := func(i int) any { return vals[v.Args[i]] }
	num := func(i int) float64 { return arg(i).(float64) }

	switch v.Op {
	case ssa.OpConstFloat:
		return v.AuxFloat, false, nil
	case ssa.OpConst64:
		return v.AuxInt, false, nil
	case ssa.OpConstBool:
		return v.AuxInt != 0, false, nil
	case ssa.OpConstString:
		return v.Aux.(string), false, nil

	case ssa.OpAddF64:
		return num(0) + num(1), false, nil
	case ssa.OpSubF64:
		return num(0) - num(1), false, nil
	case ssa.OpMulF64:
		return num(0) * num(1), false, nil
	case ssa.OpDivF64:
		return num(0) / num(1), false, nil
	case ssa.OpXor64:
		return arg(0).(int64) ^ arg(1).(int64), false, nil
	case ssa.OpEqF64:
		return num(0) == num(1), false, nil
	case ssa.OpNeqF64:
		return num(0) != num(1), false, nil
	case ssa.OpNot:
		return !arg(0).(bool), false, nil
	case ssa.OpFloatToInt:
		return int64(num(0)), false, nil
	case ssa.OpIntToFloat:
		return float64(arg(0).(int64)), false, nil
	case ssa.OpCopy:
		return arg(0), false, nil

	case ssa.OpAlloca:
		return &slot{}, false, nil
	case ssa.OpZero:
		arg(0).(*slot).v = nil
		return nil, false, nil
	case ssa.OpStore:
		arg(0).(*slot).v = arg(1)
		return nil, false, nil
	case ssa.OpLoad:
		x := arg(0).(*slot).v
		if x == nil {
			x = zeroOf(v)
		}
		return x, false, nil

	case ssa.OpStaticCall:
		args := make([]any, len(v.Args))
		for i := range v.Args {
			args[i] = arg(i)
		}
		return m.call(v.Aux.(string), args)
	}
	return nil, false, fmt.Errorf("interp: cannot execute %s", v.Op)
}

func (m *Machine) call(name string, args []any) (any, bool, error) {
	out := m.Out
	if out == nil {
		out = io.Discard
	}
	switch name {
	case rtabi.FnPrintF64:
		_, err := io.WriteString(out, FormatNumber(args[0].(float64)))
		return nil, false, err
	case rtabi.FnPrintBool:
		_, err := io.WriteString(out, strconv.FormatBool(args[0].(bool)))
		return nil, false, err
	case rtabi.FnPrintString:
		_, err := io.WriteString(out, args[0].(string))
		return nil, false, err
	case rtabi.FnPrintSpace:
		_, err := io.WriteString(out, " ")
		return nil, false, err
	case rtabi.FnPrintln:
		_, err := io.WriteString(out, "\n")
		return nil, false, err
	case rtabi.FnStrConcat:
		return args[0].(string) + args[1].(string), false, nil
	case rtabi.FnStrEq:
		return args[0].(string) == args[1].(string), false, nil
	case rtabi.FnExit:
		return args[0], true, nil
	}
	if f, ok := m.Externs[name]; ok {
		return f(args), false, nil
	}
	return nil, false, fmt.Errorf("interp: call to unknown function %s", name)
}

// FormatNumber formats x the way libstd's rt_print_f64 does (printf %.15g).
func FormatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', 15, 64)
}

func zeroOf(load *ssa.Value) any {
	switch load.Type.String() {
	case "number":
		return 0.0
	case "string":
		return ""
	case "bool":
		return false
	}
	return int64(0)
}

func toInt(x any) int64 {
	switch x := x.(type) {
	case int64:
		return x
	case float64:
		return int64(x)
	}
	return 0
}
