package rtabi

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		ret      string
		params   int
		noReturn bool
	}{
		{FnPrintF64, "void", 1, false},
		{FnPrintln, "void", 0, false},
		{FnStrConcat, LLVMTypeString, 2, false},
		{FnStrEq, LLVMTypeBoolI1, 2, false},
		{FnExit, "void", 1, true},
	}
	for _, tt := range tests {
		sig, ok := Lookup(tt.name)
		if !ok {
			t.Errorf("Lookup(%q) failed", tt.name)
			continue
		}
		if sig.ReturnType != tt.ret || len(sig.ParamTypes) != tt.params || sig.NoReturn != tt.noReturn {
			t.Errorf("Lookup(%q) = %+v", tt.name, sig)
		}
	}
	if _, ok := Lookup("printf"); ok {
		t.Error("Lookup(printf) succeeded")
	}
}

func TestRuntimeFunctionsIsACopy(t *testing.T) {
	fns := RuntimeFunctions()
	fns[0].Name = "clobbered"
	if _, ok := Lookup(FnPrintF64); !ok {
		t.Error("RuntimeFunctions exposes the internal table")
	}
}
