package compiler

import "github.com/you-not-fish/redditlang/internal/ssa"

// Scope maps identifiers to the slots holding their current values. RL
// scopes are function wide: a binding made inside a loop or if body stays
// visible after it.
type Scope struct {
	slots map[string]*ssa.Value
	order []string
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{slots: make(map[string]*ssa.Value)}
}

// Bind makes name refer to slot from now on, shadowing any earlier
// binding. Code already lowered keeps the slot it resolved.
func (s *Scope) Bind(name string, slot *ssa.Value) {
	if _, ok := s.slots[name]; !ok {
		s.order = append(s.order, name)
	}
	s.slots[name] = slot
}

// Lookup returns the slot bound to name.
func (s *Scope) Lookup(name string) (*ssa.Value, bool) {
	slot, ok := s.slots[name]
	return slot, ok
}

// Names returns the bound names in first-binding order.
func (s *Scope) Names() []string {
	return append([]string(nil), s.order...)
}
