// Package ssa holds the control-flow graph the compiler lowers RL into:
// functions made of basic blocks, blocks made of values, and a terminator
// per block. The graph starts in memory form (every variable lives in an
// alloca slot) and may be promoted to SSA form by passes.
package ssa

// Op represents an operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst64     // integer constant; AuxInt = value; Type = int or i32
	OpConstFloat  // number constant; AuxFloat = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value

	// Number arithmetic
	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64

	// Integer bit operations
	OpXor64

	// Number comparison
	OpEqF64
	OpNeqF64

	// Boolean
	OpNot

	// Conversion
	OpFloatToInt // number → int, truncating
	OpIntToFloat // int → number

	// Memory
	OpAlloca // stack slot; Type = *T; Aux = variable name
	OpLoad   // Args[0] = slot
	OpStore  // Args[0] = slot, Args[1] = value; void
	OpZero   // zero-fill; Args[0] = slot; void

	// Calls
	OpStaticCall // direct call; Aux = symbol name; Args = arguments

	// SSA-specific
	OpPhi  // one argument per predecessor, in Preds order
	OpCopy // identity
	OpArg  // function argument; AuxInt = index; Aux = name

	opCount
)

// OpInfo holds metadata about an operation.
type OpInfo struct {
	Name   string
	IsPure bool // no side effects
	IsVoid bool // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst64:     {Name: "Const64", IsPure: true},
	OpConstFloat:  {Name: "ConstFloat", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},
	OpConstString: {Name: "ConstString", IsPure: true},

	OpAddF64: {Name: "AddF64", IsPure: true},
	OpSubF64: {Name: "SubF64", IsPure: true},
	OpMulF64: {Name: "MulF64", IsPure: true},
	OpDivF64: {Name: "DivF64", IsPure: true},

	OpXor64: {Name: "Xor64", IsPure: true},

	OpEqF64:  {Name: "EqF64", IsPure: true},
	OpNeqF64: {Name: "NeqF64", IsPure: true},

	OpNot: {Name: "Not", IsPure: true},

	OpFloatToInt: {Name: "FloatToInt", IsPure: true},
	OpIntToFloat: {Name: "IntToFloat", IsPure: true},

	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load"},
	OpStore:  {Name: "Store", IsVoid: true},
	OpZero:   {Name: "Zero", IsVoid: true},

	OpStaticCall: {Name: "StaticCall"},

	OpPhi:  {Name: "Phi", IsPure: true},
	OpCopy: {Name: "Copy", IsPure: true},
	OpArg:  {Name: "Arg", IsPure: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure reports whether this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid reports whether this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}
