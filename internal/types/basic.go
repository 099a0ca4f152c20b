package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota

	Bool   // comparison results, i1
	Number // RL numbers, IEEE double
	String // {ptr, len}
	Int    // 64-bit integer, used for bit operations
	Int32  // C int, the return type of main
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	InfoBoolean BasicInfo = 1 << iota
	InfoInteger
	InfoFloat
	InfoString
	InfoNumeric = InfoInteger | InfoFloat
)

// Basic represents a basic type.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the basic types, indexed by BasicKind.
// Typ[Invalid] is nil.
var Typ = []*Basic{
	Invalid: nil,
	Bool:    {kind: Bool, info: InfoBoolean, name: "bool"},
	Number:  {kind: Number, info: InfoFloat, name: "number"},
	String:  {kind: String, info: InfoString, name: "string"},
	Int:     {kind: Int, info: InfoInteger, name: "int"},
	Int32:   {kind: Int32, info: InfoInteger, name: "i32"},
}
