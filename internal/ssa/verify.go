package ssa

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/redditlang/internal/types"
)

// Verify checks the structural integrity of f and the operand types of its
// values. It returns an error listing every violation, or nil.
func Verify(f *Func) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no entry block", f.Name)
		return combineErrors(errs)
	}
	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	valueSet := make(map[*Value]bool)
	for _, b := range f.Blocks {
		blockSet[b] = true
		for _, v := range b.Values {
			valueSet[v] = true
		}
	}

	for _, b := range f.Blocks {
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		for _, v := range b.Values {
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %v, want %s",
					f.Name, b, v, v.Block, b)
			}
			if !v.Op.IsVoid() && v.Type == nil && v.Op != OpStaticCall {
				add("func %s, %s, %s (%s): non-void value has nil Type",
					f.Name, b, v, v.Op)
			}
			for i, arg := range v.Args {
				switch {
				case arg == nil:
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				case !valueSet[arg]:
					add("func %s, %s, %s: arg[%d] (%s) not found in function",
						f.Name, b, v, i, arg)
				}
			}
			if v.Op == OpPhi && len(v.Args) != len(b.Preds) {
				add("func %s, %s, %s: phi has %d args but block has %d preds",
					f.Name, b, v, len(v.Args), len(b.Preds))
			}
			if msg := checkValue(v); msg != "" {
				add("func %s, %s, %s (%s): %s", f.Name, b, v, v.Op, msg)
			}
		}

		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: block has no terminator", f.Name, b)
			}
		case BlockIf:
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2",
					f.Name, b, len(b.Succs))
			}
			if len(b.Controls) != 1 || b.Controls[0] == nil {
				add("func %s, %s: if block needs exactly one control", f.Name, b)
			} else if !types.IsBool(b.Controls[0].Type) {
				add("func %s, %s: branch condition %s has type %v, want bool",
					f.Name, b, b.Controls[0], b.Controls[0].Type)
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
			checkReturn(f, b, add)
		case BlockExit:
			if len(b.Succs) != 0 {
				add("func %s, %s: exit block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
		default:
			add("func %s, %s: block has invalid kind", f.Name, b)
		}

		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
			} else if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor",
					f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
			} else if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}
		for i, c := range b.Controls {
			if c != nil && !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function",
					f.Name, b, i, c)
			}
		}
	}

	return combineErrors(errs)
}

func checkReturn(f *Func, b *Block, add func(string, ...any)) {
	var want types.Type
	if f.Sig != nil {
		want = f.Sig.Result()
	}
	var got *Value
	if len(b.Controls) > 0 {
		got = b.Controls[0]
	}
	switch {
	case want == nil && got != nil:
		add("func %s, %s: returns %s from a function without a result", f.Name, b, got)
	case want != nil && got == nil:
		add("func %s, %s: missing return value of type %s", f.Name, b, want)
	case want != nil && !types.Identical(want, got.Type):
		add("func %s, %s: returns %v, want %s", f.Name, b, got.Type, want)
	}
}

// checkValue returns a description of the first operand type error in v.
func checkValue(v *Value) string {
	argsAre := func(pred func(types.Type) bool, what string) string {
		for i, a := range v.Args {
			if a != nil && !pred(a.Type) {
				return fmt.Sprintf("arg[%d] %s has type %v, want %s", i, a, a.Type, what)
			}
		}
		return ""
	}
	arity := func(n int) string {
		if len(v.Args) != n {
			return fmt.Sprintf("has %d args, want %d", len(v.Args), n)
		}
		return ""
	}
	result := func(pred func(types.Type) bool, what string) string {
		if !pred(v.Type) {
			return fmt.Sprintf("result type %v, want %s", v.Type, what)
		}
		return ""
	}
	first := func(msgs ...string) string {
		for _, m := range msgs {
			if m != "" {
				return m
			}
		}
		return ""
	}

	switch v.Op {
	case OpConstFloat:
		return result(types.IsNumber, "number")
	case OpConst64:
		return result(types.IsInteger, "an integer type")
	case OpConstBool:
		return result(types.IsBool, "bool")
	case OpConstString:
		if _, ok := v.Aux.(string); !ok {
			return "string constant without a string Aux"
		}
		return result(types.IsString, "string")
	case OpAddF64, OpSubF64, OpMulF64, OpDivF64:
		return first(arity(2), argsAre(types.IsNumber, "number"), result(types.IsNumber, "number"))
	case OpXor64:
		return first(arity(2), argsAre(types.IsInteger, "int"), result(types.IsInteger, "int"))
	case OpEqF64, OpNeqF64:
		return first(arity(2), argsAre(types.IsNumber, "number"), result(types.IsBool, "bool"))
	case OpNot:
		return first(arity(1), argsAre(types.IsBool, "bool"), result(types.IsBool, "bool"))
	case OpFloatToInt:
		return first(arity(1), argsAre(types.IsNumber, "number"), result(types.IsInteger, "int"))
	case OpIntToFloat:
		return first(arity(1), argsAre(types.IsInteger, "int"), result(types.IsNumber, "number"))
	case OpAlloca:
		if _, ok := v.Type.(*types.Pointer); !ok {
			return fmt.Sprintf("alloca type %v is not a pointer", v.Type)
		}
	case OpLoad:
		if m := arity(1); m != "" {
			return m
		}
		p, ok := slotType(v.Args[0])
		if !ok {
			return fmt.Sprintf("loads from non-pointer %s", v.Args[0])
		}
		if !types.Identical(p.Elem(), v.Type) {
			return fmt.Sprintf("loads %v from slot of %s", v.Type, p.Elem())
		}
	case OpStore:
		if m := arity(2); m != "" {
			return m
		}
		p, ok := slotType(v.Args[0])
		if !ok {
			return fmt.Sprintf("stores to non-pointer %s", v.Args[0])
		}
		if val := v.Args[1]; val != nil && !types.Identical(p.Elem(), val.Type) {
			return fmt.Sprintf("stores %v into slot of %s", val.Type, p.Elem())
		}
	case OpZero:
		if m := arity(1); m != "" {
			return m
		}
		if _, ok := slotType(v.Args[0]); !ok {
			return fmt.Sprintf("zeroes non-pointer %s", v.Args[0])
		}
	case OpStaticCall:
		if _, ok := v.Aux.(string); !ok {
			return "call without a callee symbol"
		}
	case OpPhi, OpCopy:
		for i, a := range v.Args {
			if a != nil && !types.Identical(a.Type, v.Type) {
				return fmt.Sprintf("arg[%d] %s has type %v, want %v", i, a, a.Type, v.Type)
			}
		}
	case OpInvalid:
		return "invalid op"
	}
	return ""
}

func slotType(v *Value) (*types.Pointer, bool) {
	if v == nil {
		return nil, false
	}
	p, ok := v.Type.(*types.Pointer)
	return p, ok
}

func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom runs Verify and then checks that every use is dominated by its
// definition. ComputeDom must have run.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}

	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	reachable := make(map[*Block]bool)
	for _, b := range ReversePostOrder(f) {
		reachable[b] = true
	}
	if f.Entry.Idom != nil {
		add("func %s: entry %s has non-nil Idom %s", f.Name, f.Entry, f.Entry.Idom)
	}

	index := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			index[v] = i
		}
	}

	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		if b != f.Entry && b.Idom == nil {
			add("func %s, %s: reachable block has nil Idom", f.Name, b)
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == nil {
					continue
				}
				if v.Op == OpPhi {
					if i < len(b.Preds) && !Dominates(arg.Block, b.Preds[i]) {
						add("func %s, %s, %s: phi arg[%d] %s defined in %s which does not dominate pred %s",
							f.Name, b, v, i, arg, arg.Block, b.Preds[i])
					}
					continue
				}
				if arg.Block == b {
					if index[arg] >= index[v] {
						add("func %s, %s, %s: arg[%d] %s used before its definition",
							f.Name, b, v, i, arg)
					}
				} else if !Dominates(arg.Block, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, v, i, arg, arg.Block, b)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && c.Block != b && !Dominates(c.Block, b) {
				add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}

	return combineErrors(errs)
}

func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
