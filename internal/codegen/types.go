package codegen

import (
	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/types"
)

// llvmType maps a CFG value type to its LLVM IR type.
func llvmType(t types.Type) string {
	switch u := t.(type) {
	case nil:
		return "void"
	case *types.Basic:
		return llvmBasicType(u)
	case *types.Pointer, *types.Array, *types.Func:
		return rtabi.LLVMTypePtr
	}
	return "void"
}

func llvmBasicType(b *types.Basic) string {
	switch b.Kind() {
	case types.Number:
		return rtabi.LLVMTypeFloat
	case types.Int:
		return rtabi.LLVMTypeInt
	case types.Int32:
		return rtabi.LLVMTypeInt32
	case types.Bool:
		return rtabi.LLVMTypeBoolI1
	case types.String:
		return rtabi.LLVMTypeString
	}
	return "void"
}

// llvmReturnType is llvmType, with no result mapped to void.
func llvmReturnType(t types.Type) string {
	if t == nil {
		return "void"
	}
	return llvmType(t)
}

// allocaElemType returns the type stored in the slot an Alloca creates.
func allocaElemType(t types.Type) string {
	if p, ok := t.(*types.Pointer); ok {
		return llvmType(p.Elem())
	}
	return "i8"
}
