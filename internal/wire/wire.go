// Package wire encodes ssa.Funcs as canonical CBOR for backends that run
// out of process. Values and blocks refer to each other by ID.
package wire

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/you-not-fish/redditlang/internal/ssa"
)

// Version is bumped when the encoding changes incompatibly.
const Version = 1

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Module is a unit of encoded functions.
type Module struct {
	Version uint8  `cbor:"1,keyasint"`
	Source  string `cbor:"2,keyasint,omitempty"` // source file name
	Funcs   []Func `cbor:"3,keyasint"`
}

// Func describes one function.
type Func struct {
	Name   string   `cbor:"1,keyasint"`
	Params []string `cbor:"2,keyasint,omitempty"`
	Result string   `cbor:"3,keyasint,omitempty"` // empty for no result
	Blocks []Block  `cbor:"4,keyasint"`
}

// Block describes one basic block. Blocks[0] of a Func is its entry.
type Block struct {
	ID       int32   `cbor:"1,keyasint"`
	Kind     string  `cbor:"2,keyasint"`
	Comment  string  `cbor:"3,keyasint,omitempty"`
	Values   []Value `cbor:"4,keyasint,omitempty"`
	Controls []int32 `cbor:"5,keyasint,omitempty"`
	Succs    []int32 `cbor:"6,keyasint,omitempty"`
	Preds    []int32 `cbor:"7,keyasint,omitempty"`
}

// Value describes one value. Aux holds a string constant, a callee symbol
// or a slot name.
type Value struct {
	ID       int32   `cbor:"1,keyasint"`
	Op       string  `cbor:"2,keyasint"`
	Type     string  `cbor:"3,keyasint,omitempty"` // empty for void
	Args     []int32 `cbor:"4,keyasint,omitempty"`
	AuxInt   int64   `cbor:"5,keyasint,omitempty"`
	AuxFloat float64 `cbor:"6,keyasint,omitempty"`
	Aux      string  `cbor:"7,keyasint,omitempty"`
	Line     uint32  `cbor:"8,keyasint,omitempty"`
	Col      uint32  `cbor:"9,keyasint,omitempty"`
}

// FromSSA describes fn.
func FromSSA(fn *ssa.Func) Func {
	out := Func{Name: fn.Name}
	if fn.Sig != nil {
		for _, p := range fn.Sig.Params() {
			out.Params = append(out.Params, p.String())
		}
		if r := fn.Sig.Result(); r != nil {
			out.Result = r.String()
		}
	}
	for _, b := range fn.Blocks {
		wb := Block{
			ID:       int32(b.ID),
			Kind:     b.Kind.String(),
			Comment:  b.Comment,
			Controls: valueIDs(b.Controls),
			Succs:    blockIDs(b.Succs),
			Preds:    blockIDs(b.Preds),
		}
		for _, v := range b.Values {
			wv := Value{
				ID:       int32(v.ID),
				Op:       v.Op.String(),
				Args:     valueIDs(v.Args),
				AuxInt:   v.AuxInt,
				AuxFloat: v.AuxFloat,
			}
			if v.Type != nil {
				wv.Type = v.Type.String()
			}
			if s, ok := v.Aux.(string); ok {
				wv.Aux = s
			}
			if v.Pos.IsValid() {
				wv.Line = v.Pos.Start.Line()
				wv.Col = v.Pos.Start.Col()
			}
			wb.Values = append(wb.Values, wv)
		}
		out.Blocks = append(out.Blocks, wb)
	}
	return out
}

func valueIDs(vs []*ssa.Value) []int32 {
	if len(vs) == 0 {
		return nil
	}
	ids := make([]int32, len(vs))
	for i, v := range vs {
		ids[i] = int32(v.ID)
	}
	return ids
}

func blockIDs(bs []*ssa.Block) []int32 {
	if len(bs) == 0 {
		return nil
	}
	ids := make([]int32, len(bs))
	for i, b := range bs {
		ids[i] = int32(b.ID)
	}
	return ids
}

// Encode serializes funcs as a Module. Equal inputs encode to equal bytes.
func Encode(source string, funcs []*ssa.Func) ([]byte, error) {
	m := Module{Version: Version, Source: source}
	for _, fn := range funcs {
		m.Funcs = append(m.Funcs, FromSSA(fn))
	}
	return Marshal(&m)
}

// Marshal serializes m in canonical CBOR.
func Marshal(m *Module) ([]byte, error) {
	return encMode.Marshal(m)
}

// Unmarshal deserializes a Module and checks its version.
func Unmarshal(data []byte) (*Module, error) {
	var m Module
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("wire: unmarshal module: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("wire: module version %d, want %d", m.Version, Version)
	}
	return &m, nil
}

// Hash returns the SHA-256 of f's canonical encoding.
func Hash(f Func) ([32]byte, error) {
	data, err := encMode.Marshal(f)
	if err != nil {
		return [32]byte{}, fmt.Errorf("wire: hash %s: %w", f.Name, err)
	}
	return sha256.Sum256(data), nil
}
