// Package types describes the value types that flow through the CFG.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns a human-readable representation of the type.
	String() string

	aType()
}

type typ struct{}

func (typ) aType() {}
