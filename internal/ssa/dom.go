package ssa

// ReversePostOrder returns the blocks reachable from f.Entry in reverse
// post-order.
func ReversePostOrder(f *Func) []*Block {
	visited := make(map[*Block]bool, len(f.Blocks))
	var order []*Block

	var dfs func(b *Block)
	dfs = func(b *Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			dfs(s)
		}
		order = append(order, b)
	}
	dfs(f.Entry)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// RemoveUnreachable deletes every block that cannot be reached from the
// entry block and returns how many were removed. Edges from removed blocks
// into live ones are dropped as well.
func RemoveUnreachable(f *Func) int {
	live := make(map[*Block]bool, len(f.Blocks))
	for _, b := range ReversePostOrder(f) {
		live[b] = true
	}
	kept := f.Blocks[:0]
	removed := 0
	for _, b := range f.Blocks {
		if live[b] {
			kept = append(kept, b)
			continue
		}
		for _, s := range b.Succs {
			if live[s] {
				s.removePred(b)
			}
		}
		for _, c := range b.Controls {
			if c != nil {
				c.Uses--
			}
		}
		for _, v := range b.Values {
			v.SetArgs(nil)
		}
		removed++
	}
	for i := len(kept); i < len(f.Blocks); i++ {
		f.Blocks[i] = nil
	}
	f.Blocks = kept
	return removed
}

// ComputeDom fills in Block.Idom and Block.Dominees for every reachable
// block, using Cooper, Harvey and Kennedy's "A Simple, Fast Dominance
// Algorithm". Unreachable blocks are left with a nil Idom.
func ComputeDom(f *Func) {
	rpo := ReversePostOrder(f)
	if len(rpo) == 0 {
		return
	}

	// Number blocks in RPO; intersect walks up by these numbers.
	rpoNum := make(map[*Block]int, len(rpo))
	for i, b := range rpo {
		rpoNum[b] = i
	}

	// intersect finds the closest common dominator of b1 and b2.
	intersect := func(b1, b2 *Block) *Block {
		for b1 != b2 {
			for rpoNum[b1] > rpoNum[b2] {
				b1 = b1.Idom
			}
			for rpoNum[b2] > rpoNum[b1] {
				b2 = b2.Idom
			}
		}
		return b1
	}

	// Clear old domtree data.
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	entry := rpo[0]
	entry.Idom = entry // sentinel until the fixpoint is reached

	// Iterate until convergence. A predecessor with a nil Idom has not been
	// processed yet and is skipped.
	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var idom *Block
			for _, p := range b.Preds {
				if p.Idom == nil {
					continue
				}
				if idom == nil {
					idom = p
				} else {
					idom = intersect(p, idom)
				}
			}
			if idom != nil && b.Idom != idom {
				b.Idom = idom
				changed = true
			}
		}
	}

	// Drop the sentinel, then build Dominees from the Idom links.
	entry.Idom = nil
	for _, b := range rpo {
		if b.Idom != nil {
			b.Idom.Dominees = append(b.Idom.Dominees, b)
		}
	}
}

// Dominates reports whether a dominates b. ComputeDom must have run.
func Dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}

// ComputeDomFrontier returns the dominance frontier of every block: for
// each join point, every block on the path from a predecessor up to (but
// not including) the join's Idom has the join in its frontier.
// ComputeDom must have run.
func ComputeDomFrontier(f *Func) map[*Block][]*Block {
	df := make(map[*Block][]*Block)
	for _, b := range f.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			for runner := p; runner != nil && runner != b.Idom; runner = runner.Idom {
				df[runner] = appendUnique(df[runner], b)
			}
		}
	}
	return df
}

// appendUnique appends b to list if not already present.
func appendUnique(list []*Block, b *Block) []*Block {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
