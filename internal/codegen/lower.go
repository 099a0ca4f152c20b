package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/ssa"
)

// lowerFunc emits the definition of fn.
func (g *generator) lowerFunc(fn *ssa.Func) {
	retType := "void"
	var params []string
	if fn.Sig != nil {
		retType = llvmReturnType(fn.Sig.Result())
		for i, p := range fn.Sig.Params() {
			params = append(params, fmt.Sprintf("%s %%arg%d", llvmType(p), i))
		}
	}

	g.e.emit("define %s @%s(%s) {", retType, fn.Name, strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		g.lowerBlock(b)
	}
	g.e.emit("}")
}

func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.label(b)
	for _, v := range b.Values {
		g.lowerValue(v)
	}
	g.lowerTerminator(b)
}

func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Scalar constants are inlined at their uses.
	case ssa.OpConst64, ssa.OpConstFloat, ssa.OpConstBool, ssa.OpArg:
		return
	case ssa.OpConstString:
		g.lowerConstString(v)

	case ssa.OpAddF64:
		g.emitBinOp("fadd", "double", v)
	case ssa.OpSubF64:
		g.emitBinOp("fsub", "double", v)
	case ssa.OpMulF64:
		g.emitBinOp("fmul", "double", v)
	case ssa.OpDivF64:
		g.emitBinOp("fdiv", "double", v)
	case ssa.OpXor64:
		g.emitBinOp("xor", llvmType(v.Type), v)

	case ssa.OpEqF64:
		g.emitFCmp("oeq", v)
	case ssa.OpNeqF64:
		g.emitFCmp("une", v)
	case ssa.OpNot:
		g.e.inst("%s = xor i1 %s, true", valueName(v), g.operand(v.Args[0]))

	case ssa.OpFloatToInt:
		g.e.inst("%s = fptosi double %s to %s", valueName(v), g.operand(v.Args[0]), llvmType(v.Type))
	case ssa.OpIntToFloat:
		g.e.inst("%s = sitofp %s %s to double", valueName(v), llvmType(v.Args[0].Type), g.operand(v.Args[0]))

	case ssa.OpAlloca:
		g.e.inst("%s = alloca %s", valueName(v), allocaElemType(v.Type))
	case ssa.OpLoad:
		g.e.inst("%s = load %s, ptr %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))
	case ssa.OpStore:
		g.e.inst("store %s %s, ptr %s", llvmType(v.Args[1].Type), g.operand(v.Args[1]), g.operand(v.Args[0]))
	case ssa.OpZero:
		g.e.inst("store %s zeroinitializer, ptr %s", allocaElemType(v.Args[0].Type), g.operand(v.Args[0]))

	case ssa.OpPhi:
		g.lowerPhi(v)
	case ssa.OpCopy:
		ty := llvmType(v.Type)
		g.e.inst("%s = select i1 true, %s %s, %s %s", valueName(v), ty, g.operand(v.Args[0]), ty, g.operand(v.Args[0]))

	case ssa.OpStaticCall:
		g.lowerStaticCall(v)

	default:
		g.errorf("%s: no lowering for %s", v, v.Op)
	}
}

func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockPlain:
		if len(b.Succs) > 0 {
			g.e.inst("br label %%%s", blockName(b.Succs[0]))
		} else {
			g.e.inst("unreachable")
		}
	case ssa.BlockIf:
		g.e.inst("br i1 %s, label %%%s, label %%%s",
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			ret := b.Controls[0]
			g.e.inst("ret %s %s", llvmType(ret.Type), g.operand(ret))
		} else {
			g.e.inst("ret void")
		}
	case ssa.BlockExit:
		g.e.inst("unreachable")
	default:
		g.errorf("%s: no lowering for block kind %v", b, b.Kind)
	}
}

// operand returns v as an instruction operand. Scalar constants are
// inlined; everything else is referenced by name.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConst64:
		return strconv.FormatInt(v.AuxInt, 10)
	case ssa.OpConstFloat:
		return formatFloat(v.AuxFloat)
	case ssa.OpConstBool:
		if v.AuxInt != 0 {
			return "true"
		}
		return "false"
	case ssa.OpArg:
		return fmt.Sprintf("%%arg%d", v.AuxInt)
	}
	return valueName(v)
}

func (g *generator) emitBinOp(inst, ty string, v *ssa.Value) {
	g.e.inst("%s = %s %s %s, %s", valueName(v), inst, ty, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) emitFCmp(cond string, v *ssa.Value) {
	g.e.inst("%s = fcmp %s double %s, %s", valueName(v), cond, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) lowerPhi(v *ssa.Value) {
	parts := make([]string, len(v.Args))
	for i, arg := range v.Args {
		parts[i] = fmt.Sprintf("[ %s, %%%s ]", g.operand(arg), blockName(v.Block.Preds[i]))
	}
	g.e.inst("%s = phi %s %s", valueName(v), llvmType(v.Type), strings.Join(parts, ", "))
}

// lowerConstString builds the { ptr, i64 } value of a string literal.
func (g *generator) lowerConstString(v *ssa.Value) {
	s := v.Aux.(string)
	t0 := g.e.temp()
	g.e.inst("%s = insertvalue { ptr, i64 } undef, ptr %s, 0", t0, stringGlobal(g.stringIndex(s)))
	g.e.inst("%s = insertvalue { ptr, i64 } %s, i64 %d, 1", valueName(v), t0, len(s))
}

// lowerStaticCall emits a direct call. libstd callees use their ABI
// signature; anything the module does not define becomes an extern.
func (g *generator) lowerStaticCall(v *ssa.Value) {
	name := v.Aux.(string)
	args := make([]string, len(v.Args))
	retType := llvmReturnType(v.Type)

	if sig, ok := rtabi.Lookup(name); ok {
		if len(sig.ParamTypes) != len(v.Args) {
			g.errorf("%s: %s takes %d arguments, got %d", v, name, len(sig.ParamTypes), len(v.Args))
			return
		}
		for i, a := range v.Args {
			args[i] = fmt.Sprintf("%s %s", paramExt(sig.ParamTypes[i]), g.operand(a))
		}
		retType = sig.ReturnType
	} else {
		for i, a := range v.Args {
			args[i] = fmt.Sprintf("%s %s", llvmType(a.Type), g.operand(a))
		}
		if !g.defined[name] {
			g.declareExtern(v, name)
		}
	}

	if retType == "void" {
		g.e.inst("call void @%s(%s)", name, strings.Join(args, ", "))
		return
	}
	g.e.inst("%s = call %s @%s(%s)", valueName(v), retType, name, strings.Join(args, ", "))
}

// formatFloat formats f as an LLVM double literal. The hex form is exact
// for every value, including NaN and the infinities.
func formatFloat(f float64) string {
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}

// stringIndex returns the global holding s, adding it on first use.
func (g *generator) stringIndex(s string) int {
	if idx, ok := g.stringMap[s]; ok {
		return idx
	}
	idx := len(g.strings)
	g.strings = append(g.strings, s)
	g.stringMap[s] = idx
	return idx
}

// stringInit returns the type and initializer of a string global. String
// values carry their length, so no terminator is stored.
func stringInit(s string) string {
	if s == "" {
		return "[0 x i8] zeroinitializer"
	}
	return fmt.Sprintf("[%d x i8] c\"%s\"", len(s), llvmEscapeString(s))
}

// llvmEscapeString escapes s for a c"..." literal: quotes, backslashes and
// non-printable bytes become \HH.
func llvmEscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&b, "\\%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
