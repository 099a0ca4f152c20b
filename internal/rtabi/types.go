package rtabi

// EntryPoint is the symbol the top-level program is compiled into.
const EntryPoint = "main"

// Value sizes in bytes.
const (
	SizeNumber = 8  // double
	SizeBool   = 1  // i1, stored as a byte
	SizePtr    = 8  // pointer
	SizeString = 16 // { ptr, i64 }
)

// LLVM type names for code generation.
const (
	LLVMTypeInt    = "i64"
	LLVMTypeInt32  = "i32"
	LLVMTypeFloat  = "double"
	LLVMTypeBoolI1 = "i1"
	LLVMTypePtr    = "ptr"
	LLVMTypeString = "{ ptr, i64 }"
)
