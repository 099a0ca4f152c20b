package types

// universe maps the type names usable in declarations to their types.
var universe = map[string]Type{
	"number": Typ[Number],
	"string": Typ[String],
	"bool":   Typ[Bool],
}

// Lookup resolves a declared type name. isArray wraps the result in an
// Array. It reports false for unknown names.
func Lookup(name string, isArray bool) (Type, bool) {
	t, ok := universe[name]
	if !ok {
		return nil, false
	}
	if isArray {
		return NewArray(t), true
	}
	return t, true
}
