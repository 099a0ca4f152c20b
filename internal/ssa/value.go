package ssa

import (
	"fmt"

	"github.com/you-not-fish/redditlang/internal/syntax"
	"github.com/you-not-fish/redditlang/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value is a single computation. It is defined once, in Block, and may be
// used by other values and by block controls.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type, nil for void operations.
	Type types.Type

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	AuxInt   int64   // integer constant, argument index
	AuxFloat float64 // number constant
	Aux      any     // string constant, callee symbol, slot name

	// Uses counts references from values and block controls.
	Uses int32

	// Pos is the source span that produced this value, if any.
	Pos syntax.Span
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	s := fmt.Sprintf("v%d = %s", v.ID, v.Op)
	if v.Type != nil {
		s += fmt.Sprintf(" <%s>", v.Type)
	}
	if v.AuxInt != 0 || v.Op == OpConst64 || v.Op == OpConstBool {
		s += fmt.Sprintf(" [%d]", v.AuxInt)
	}
	if v.AuxFloat != 0 || v.Op == OpConstFloat {
		s += fmt.Sprintf(" [%g]", v.AuxFloat)
	}
	switch aux := v.Aux.(type) {
	case nil:
	case string:
		if v.Op == OpConstString {
			s += fmt.Sprintf(" {%q}", aux)
		} else {
			s += " {" + aux + "}"
		}
	default:
		s += fmt.Sprintf(" {%v}", aux)
	}
	for _, arg := range v.Args {
		s += " " + arg.String()
	}
	return s
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// SetArgs replaces the argument list, adjusting use counts.
func (v *Value) SetArgs(args []*Value) {
	for _, old := range v.Args {
		old.Uses--
	}
	v.Args = args
	for _, arg := range args {
		arg.Uses++
	}
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	old := v.Args[i]
	old.Uses--
	v.Args[i] = new
	new.Uses++
}

// IsPure reports whether this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}
