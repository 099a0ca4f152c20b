package types

import (
	"fmt"
	"strings"
)

// Array represents an array type Elem[]. RL arrays carry no static length.
type Array struct {
	typ
	elem Type
}

// NewArray creates a new array type with the given element type.
func NewArray(elem Type) *Array {
	return &Array{elem: elem}
}

// Elem returns the array element type.
func (a *Array) Elem() Type {
	return a.elem
}

// String implements Type.
func (a *Array) String() string {
	return a.elem.String() + "[]"
}

// Pointer represents the address of a storage slot holding Base.
type Pointer struct {
	typ
	base Type
}

// NewPointer creates a new pointer type.
func NewPointer(base Type) *Pointer {
	return &Pointer{base: base}
}

// Elem returns the pointed-to type.
func (p *Pointer) Elem() Type {
	return p.base
}

// String implements Type.
func (p *Pointer) String() string {
	return fmt.Sprintf("*%s", p.base)
}

// Func is a function signature. A nil result means no value is returned.
type Func struct {
	typ
	params   []Type
	result   Type
	variadic bool
}

// NewFunc creates a new function signature.
func NewFunc(params []Type, result Type, variadic bool) *Func {
	return &Func{params: params, result: result, variadic: variadic}
}

// Params returns the parameter types.
func (f *Func) Params() []Type {
	return f.params
}

// Result returns the result type, or nil.
func (f *Func) Result() Type {
	return f.result
}

// Variadic reports whether the last parameter may repeat.
func (f *Func) Variadic() bool {
	return f.variadic
}

// String implements Type.
func (f *Func) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range f.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	if f.variadic {
		b.WriteString("...")
	}
	b.WriteString(")")
	if f.result != nil {
		b.WriteString(" ")
		b.WriteString(f.result.String())
	}
	return b.String()
}
