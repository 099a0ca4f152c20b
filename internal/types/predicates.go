package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Array:
		if y, ok := y.(*Array); ok {
			return Identical(x.elem, y.elem)
		}
	case *Pointer:
		if y, ok := y.(*Pointer); ok {
			return Identical(x.base, y.base)
		}
	case *Func:
		if y, ok := y.(*Func); ok {
			return identicalFuncs(x, y)
		}
	}
	return false
}

func identicalFuncs(x, y *Func) bool {
	if len(x.params) != len(y.params) || x.variadic != y.variadic {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i], y.params[i]) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

// IsKind reports whether t is the basic type of kind k.
func IsKind(t Type, k BasicKind) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == k
}

// IsNumber reports whether t is the RL number type.
func IsNumber(t Type) bool { return IsKind(t, Number) }

// IsString reports whether t is the string type.
func IsString(t Type) bool { return IsKind(t, String) }

// IsBool reports whether t is the bool type.
func IsBool(t Type) bool { return IsKind(t, Bool) }

// IsInteger reports whether t is an integer type.
func IsInteger(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&InfoInteger != 0
}
