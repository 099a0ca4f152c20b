package ssa

import (
	"github.com/you-not-fish/redditlang/internal/syntax"
	"github.com/you-not-fish/redditlang/internal/types"
)

// Func is a function body: a control flow graph of Blocks.
type Func struct {
	Name string
	Sig  *types.Func

	// Blocks lists the basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block
	Entry  *Block

	nextValueID ID
	nextBlockID ID
}

// NewFunc creates a function with an empty entry block.
func NewFunc(name string, sig *types.Func) *Func {
	f := &Func{Name: name, Sig: sig}
	f.Entry = f.NewBlock(BlockPlain)
	return f
}

// NewBlock creates a new basic block and appends it to the function.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Func) newValue(b *Block, op Op, typ types.Type, args []*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	return v
}

// NewValue creates a new Value at the end of b.
func (f *Func) NewValue(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos creates a new Value with a source span at the end of b.
func (f *Func) NewValuePos(b *Block, op Op, typ types.Type, pos syntax.Span, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NewValueAtFront creates a new Value at the start of b. Passes use it to
// place phis.
func (f *Func) NewValueAtFront(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append([]*Value{v}, b.Values...)
	return v
}

// ReplaceUses rewrites every use of old, in values and block controls,
// to new.
func (f *Func) ReplaceUses(old, new *Value) {
	if old == new {
		return
	}
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, a := range v.Args {
				if a == old {
					v.ReplaceArg(i, new)
				}
			}
		}
		for i, c := range b.Controls {
			if c == old {
				old.Uses--
				b.Controls[i] = new
				new.Uses++
			}
		}
	}
}

// RemoveValue deletes v from its block and drops its argument uses.
func (f *Func) RemoveValue(v *Value) {
	b := v.Block
	for i, w := range b.Values {
		if w == v {
			b.Values = append(b.Values[:i], b.Values[i+1:]...)
			break
		}
	}
	v.SetArgs(nil)
	v.Block = nil
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}
