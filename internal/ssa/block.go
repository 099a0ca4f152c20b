package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockPlain             // jump to Succs[0]; with no Succs the block is still open
	BlockIf                // if Controls[0] then Succs[0] else Succs[1]
	BlockReturn            // return Controls[0], or nothing when Controls is empty
	BlockExit              // the process has exited; nothing follows
)

var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockIf:      "if",
	BlockReturn:  "ret",
	BlockExit:    "exit",
}

func (k BlockKind) String() string {
	if k >= 0 && int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a basic block: straight-line Values followed by a terminator
// described by Kind, Controls and Succs.
type Block struct {
	ID   ID
	Kind BlockKind

	// Controls holds the terminator operands.
	// BlockIf: Controls[0] is the bool condition.
	// BlockReturn: Controls[0] is the result, if the function has one.
	Controls []*Value

	// Succs and Preds are the CFG edges. For BlockIf, Succs[0] is the
	// true target and Succs[1] the false target.
	Succs []*Block
	Preds []*Block

	Values []*Value
	Func   *Func

	// Comment is a short label shown by Fprint ("loop.header", "if.merge").
	Comment string

	// Filled in by ComputeDom.
	Idom     *Block
	Dominees []*Block
}

// String returns the short block name (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// AddSucc adds an edge b -> succ, keeping succ.Preds in sync.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl replaces the control values with v.
func (b *Block) SetControl(v *Value) {
	for _, c := range b.Controls {
		if c != nil {
			c.Uses--
		}
	}
	b.Controls = []*Value{v}
	if v != nil {
		v.Uses++
	}
}

// Terminated reports whether b already has a terminator.
func (b *Block) Terminated() bool {
	return b.Kind != BlockPlain || len(b.Succs) > 0
}

// removePred drops p from b.Preds along with the matching phi arguments.
func (b *Block) removePred(p *Block) {
	for i, q := range b.Preds {
		if q != p {
			continue
		}
		b.Preds = append(b.Preds[:i], b.Preds[i+1:]...)
		for _, v := range b.Values {
			if v.Op == OpPhi && i < len(v.Args) {
				v.Args[i].Uses--
				v.Args = append(v.Args[:i], v.Args[i+1:]...)
			}
		}
		return
	}
}

func (b *Block) NumSuccs() int  { return len(b.Succs) }
func (b *Block) NumPreds() int  { return len(b.Preds) }
func (b *Block) NumValues() int { return len(b.Values) }
