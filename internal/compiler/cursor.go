package compiler

import (
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/syntax"
	"github.com/you-not-fish/redditlang/internal/types"
)

// Cursor is the insertion point of one function under construction. New
// values go to the end of the current block. After a terminator the cursor
// is unreachable until MoveTo points it at another block. The function's
// block list is not reachable through a Cursor.
type Cursor struct {
	fn *ssa.Func
	b  *ssa.Block
}

// NewCursor returns a cursor positioned at fn's entry block.
func NewCursor(fn *ssa.Func) *Cursor {
	return &Cursor{fn: fn, b: fn.Entry}
}

// block returns the current block, or nil when the cursor is unreachable.
func (c *Cursor) block() *ssa.Block { return c.b }

// Reachable reports whether lowered code would execute.
func (c *Cursor) Reachable() bool { return c.b != nil }

// NewBlock creates an empty block without moving the cursor.
func (c *Cursor) NewBlock(comment string) *ssa.Block {
	b := c.fn.NewBlock(ssa.BlockPlain)
	b.Comment = comment
	return b
}

// MoveTo continues insertion at the end of b, which must be open.
func (c *Cursor) MoveTo(b *ssa.Block) {
	if b.Terminated() {
		panic("compiler: cursor moved to terminated block " + b.String())
	}
	c.b = b
}

// Value appends a value at the cursor.
func (c *Cursor) Value(op ssa.Op, typ types.Type, pos syntax.Span, args ...*ssa.Value) *ssa.Value {
	return c.fn.NewValuePos(c.open(), op, typ, pos, args...)
}

// Slot allocates a zeroed variable slot of type typ in the entry block.
func (c *Cursor) Slot(typ types.Type, name string, pos syntax.Span) *ssa.Value {
	slot := c.fn.NewValuePos(c.fn.Entry, ssa.OpAlloca, types.NewPointer(typ), pos)
	slot.Aux = name
	c.fn.NewValuePos(c.fn.Entry, ssa.OpZero, nil, pos, slot)
	return slot
}

// Jump ends the current block with an edge to target.
func (c *Cursor) Jump(target *ssa.Block) {
	c.open().AddSucc(target)
	c.b = nil
}

// Branch ends the current block with a two-way branch on cond.
func (c *Cursor) Branch(cond *ssa.Value, yes, no *ssa.Block) {
	b := c.open()
	b.Kind = ssa.BlockIf
	b.SetControl(cond)
	b.AddSucc(yes)
	b.AddSucc(no)
	c.b = nil
}

// Return ends the current block by returning v.
func (c *Cursor) Return(v *ssa.Value) {
	b := c.open()
	b.Kind = ssa.BlockReturn
	b.SetControl(v)
	c.b = nil
}

// Exit ends the current block after a call that does not return.
func (c *Cursor) Exit() {
	c.open().Kind = ssa.BlockExit
	c.b = nil
}

func (c *Cursor) open() *ssa.Block {
	if c.b == nil {
		panic("compiler: insertion at unreachable cursor")
	}
	return c.b
}
