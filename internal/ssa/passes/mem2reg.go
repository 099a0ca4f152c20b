package passes

import (
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/types"
)

// Mem2Reg promotes variable slots to SSA values, inserting phis at the
// iterated dominance frontier of each slot's definitions. A slot is
// promoted only when its sole uses are as the address operand of Load,
// Store and Zero. Unreachable blocks are removed first.
func Mem2Reg(f *ssa.Func) {
	ssa.RemoveUnreachable(f)
	ssa.ComputeDom(f)

	slots := findPromotable(f)
	if len(slots) == 0 {
		return
	}

	df := ssa.ComputeDomFrontier(f)
	phis := make(map[*ssa.Block]map[*ssa.Value]*ssa.Value)
	for _, s := range slots {
		elem := s.Type.(*types.Pointer).Elem()
		for _, b := range iteratedDF(defBlocks(f, s), df) {
			phi := f.NewValueAtFront(b, ssa.OpPhi, elem)
			phi.Args = make([]*ssa.Value, len(b.Preds))
			if phis[b] == nil {
				phis[b] = make(map[*ssa.Value]*ssa.Value)
			}
			phis[b][s] = phi
		}
	}

	rename(f, slots, phis)
	removeTrivialPhis(f)
}

// findPromotable returns the allocas whose address never escapes.
func findPromotable(f *ssa.Func) []*ssa.Value {
	var all []*ssa.Value
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpAlloca {
				all = append(all, v)
			}
		}
	}

	isSlot := make(map[*ssa.Value]bool, len(all))
	for _, a := range all {
		isSlot[a] = true
	}

	escapes := make(map[*ssa.Value]bool)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if !isSlot[arg] {
					continue
				}
				switch v.Op {
				case ssa.OpLoad, ssa.OpStore, ssa.OpZero:
					if i != 0 {
						escapes[arg] = true
					}
				default:
					escapes[arg] = true
				}
			}
		}
		for _, c := range b.Controls {
			if isSlot[c] {
				escapes[c] = true
			}
		}
	}

	var out []*ssa.Value
	for _, a := range all {
		if !escapes[a] {
			out = append(out, a)
		}
	}
	return out
}

// defBlocks returns the blocks that store to or zero slot.
func defBlocks(f *ssa.Func, slot *ssa.Value) []*ssa.Block {
	var out []*ssa.Block
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if (v.Op == ssa.OpStore || v.Op == ssa.OpZero) && v.Args[0] == slot {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

func iteratedDF(defs []*ssa.Block, df map[*ssa.Block][]*ssa.Block) []*ssa.Block {
	var out []*ssa.Block
	placed := make(map[*ssa.Block]bool)
	queued := make(map[*ssa.Block]bool, len(defs))
	work := append([]*ssa.Block(nil), defs...)
	for _, b := range defs {
		queued[b] = true
	}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, d := range df[b] {
			if placed[d] {
				continue
			}
			placed[d] = true
			out = append(out, d)
			if !queued[d] {
				queued[d] = true
				work = append(work, d)
			}
		}
	}
	return out
}

// rename walks the dominator tree in preorder keeping a stack of reaching
// definitions per slot. Loads are replaced by the reaching definition; the
// slot's loads, stores, zeros and the alloca itself are then deleted.
func rename(f *ssa.Func, slots []*ssa.Value, phis map[*ssa.Block]map[*ssa.Value]*ssa.Value) {
	stacks := make(map[*ssa.Value][]*ssa.Value, len(slots))
	zero := make(map[*ssa.Value]*ssa.Value, len(slots))
	for _, s := range slots {
		zero[s] = makeZero(f, s.Type.(*types.Pointer).Elem())
		stacks[s] = []*ssa.Value{zero[s]}
	}
	isSlot := make(map[*ssa.Value]bool, len(slots))
	for _, s := range slots {
		isSlot[s] = true
	}
	dead := make(map[*ssa.Value]bool)

	top := func(s *ssa.Value) *ssa.Value {
		st := stacks[s]
		return st[len(st)-1]
	}

	var visit func(b *ssa.Block)
	visit = func(b *ssa.Block) {
		pushed := make(map[*ssa.Value]int)
		push := func(s, v *ssa.Value) {
			stacks[s] = append(stacks[s], v)
			pushed[s]++
		}

		for s, phi := range phis[b] {
			push(s, phi)
		}
		for _, v := range b.Values {
			if len(v.Args) == 0 || !isSlot[v.Args[0]] {
				continue
			}
			s := v.Args[0]
			switch v.Op {
			case ssa.OpLoad:
				f.ReplaceUses(v, top(s))
				dead[v] = true
			case ssa.OpStore:
				push(s, v.Args[1])
				dead[v] = true
			case ssa.OpZero:
				push(s, zero[s])
				dead[v] = true
			}
		}

		for _, succ := range b.Succs {
			pm := phis[succ]
			if pm == nil {
				continue
			}
			for i, p := range succ.Preds {
				if p != b {
					continue
				}
				for s, phi := range pm {
					if phi.Args[i] == nil {
						val := top(s)
						phi.Args[i] = val
						val.Uses++
					}
				}
			}
		}

		for _, child := range b.Dominees {
			visit(child)
		}
		for s, n := range pushed {
			stacks[s] = stacks[s][:len(stacks[s])-n]
		}
	}
	visit(f.Entry)

	for _, b := range f.Blocks {
		live := b.Values[:0]
		for _, v := range b.Values {
			if dead[v] {
				v.SetArgs(nil)
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
	for _, b := range f.Blocks {
		live := b.Values[:0]
		for _, v := range b.Values {
			if isSlot[v] && v.Uses == 0 {
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
}

// makeZero places the zero value of t at the top of the entry block.
func makeZero(f *ssa.Func, t types.Type) *ssa.Value {
	b, _ := t.(*types.Basic)
	if b == nil {
		panic("mem2reg: no zero value for " + t.String())
	}
	switch b.Kind() {
	case types.Number:
		return f.NewValueAtFront(f.Entry, ssa.OpConstFloat, t)
	case types.Int, types.Int32:
		return f.NewValueAtFront(f.Entry, ssa.OpConst64, t)
	case types.Bool:
		return f.NewValueAtFront(f.Entry, ssa.OpConstBool, t)
	case types.String:
		v := f.NewValueAtFront(f.Entry, ssa.OpConstString, t)
		v.Aux = ""
		return v
	}
	panic("mem2reg: no zero value for " + t.String())
}

// removeTrivialPhis replaces phis whose arguments are all one value (or the
// phi itself) with that value, until none are left.
func removeTrivialPhis(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			var live []*ssa.Value
			for _, v := range b.Values {
				if v.Op == ssa.OpPhi {
					if same := trivialPhi(v); same != nil {
						f.ReplaceUses(v, same)
					}
					if v.Uses == 0 {
						v.SetArgs(nil)
						changed = true
						continue
					}
				}
				live = append(live, v)
			}
			b.Values = live
		}
	}
}

// trivialPhi returns the only distinct non-self argument of phi, or nil.
func trivialPhi(phi *ssa.Value) *ssa.Value {
	var same *ssa.Value
	for _, arg := range phi.Args {
		if arg == nil || arg == phi {
			continue
		}
		if same != nil && arg != same {
			return nil
		}
		same = arg
	}
	return same
}
