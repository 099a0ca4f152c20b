// Package rtabi defines the ABI shared between generated code and libstd,
// the C runtime linked into every executable.
package rtabi

// libstd function names. They must match libstd/csrc/libstd.c.
const (
	FnPrintF64    = "rt_print_f64"
	FnPrintBool   = "rt_print_bool"
	FnPrintString = "rt_print_string"
	FnPrintSpace  = "rt_print_space"
	FnPrintln     = "rt_println"

	FnStrConcat = "rt_str_concat"
	FnStrEq     = "rt_str_eq"

	FnExit = "rt_exit"
)

// FuncSignature describes a libstd function for code generation.
type FuncSignature struct {
	Name       string
	ReturnType string   // LLVM return type
	ParamTypes []string // LLVM parameter types
	NoReturn   bool
}

var functions = []FuncSignature{
	{Name: FnPrintF64, ReturnType: "void", ParamTypes: []string{LLVMTypeFloat}},
	{Name: FnPrintBool, ReturnType: "void", ParamTypes: []string{LLVMTypeBoolI1}},
	{Name: FnPrintString, ReturnType: "void", ParamTypes: []string{LLVMTypeString}},
	{Name: FnPrintSpace, ReturnType: "void"},
	{Name: FnPrintln, ReturnType: "void"},
	{Name: FnStrConcat, ReturnType: LLVMTypeString, ParamTypes: []string{LLVMTypeString, LLVMTypeString}},
	{Name: FnStrEq, ReturnType: LLVMTypeBoolI1, ParamTypes: []string{LLVMTypeString, LLVMTypeString}},
	{Name: FnExit, ReturnType: "void", ParamTypes: []string{LLVMTypeFloat}, NoReturn: true},
}

// RuntimeFunctions returns the signatures of all libstd functions.
func RuntimeFunctions() []FuncSignature {
	return append([]FuncSignature(nil), functions...)
}

// Lookup returns the signature of the libstd function name.
func Lookup(name string) (FuncSignature, bool) {
	for _, f := range functions {
		if f.Name == name {
			return f, true
		}
	}
	return FuncSignature{}, false
}
