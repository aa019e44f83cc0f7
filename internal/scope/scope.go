// Package scope implements the lexical local-variable scope stack used
// while analyzing one routine body (§4.8): entering a scope pushes a
// fresh name -> Local mapping plus its declaration-order list; leaving a
// scope returns that list in reverse order so the caller can emit a
// LifetimeEnd for each variable in the order §4.8 requires.
package scope

import (
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/source"
	"github.com/scriptcore/scriptcore/internal/types"
)

// Local is one local variable: a dense index into its routine's
// activation-frame slot table, its name, and its type.
type Local struct {
	Index    int
	Name     string
	Type     *types.Type
	Location source.Location
}

// block is one pushed lexical scope.
type block struct {
	vars  map[string]*Local
	order []*Local
}

// Stack tracks the scopes open while analyzing a single routine body. The
// dense index counter belongs to the Stack, not to any one block, so
// indices never reset between nested scopes within the same routine
// (§3: "Index is dense per containing routine").
type Stack struct {
	diags     *diag.Sink
	blocks    []*block
	nextIndex int
}

// NewStack creates a Stack for analyzing one routine body.
func NewStack(diags *diag.Sink) *Stack {
	return &Stack{diags: diags}
}

// Push opens a new lexical scope.
func (s *Stack) Push() {
	s.blocks = append(s.blocks, &block{vars: make(map[string]*Local)})
}

// Pop closes the innermost scope and returns its variables in reverse
// declaration order — the order the caller must emit LifetimeEnd in.
func (s *Stack) Pop() []*Local {
	n := len(s.blocks)
	top := s.blocks[n-1]
	s.blocks = s.blocks[:n-1]

	reversed := make([]*Local, len(top.order))
	for i, v := range top.order {
		reversed[len(top.order)-1-i] = v
	}
	return reversed
}

// Declare allocates a dense index for a new local named name and adds it
// to the innermost open scope. A redeclaration of the same name within the
// same scope is diagnosed (SemaRedeclaredLocal) but the new declaration
// still shadows the old one, per §4.8.
func (s *Stack) Declare(name string, typ *types.Type, loc source.Location) *Local {
	top := s.blocks[len(s.blocks)-1]
	if existing, ok := top.vars[name]; ok {
		s.diags.Report(diag.SemaRedeclaredLocal, loc).Arg(name).Emit()
		s.diags.Report(diag.SemaPreviousDeclaration, existing.Location).Emit()
	}

	local := &Local{Index: s.nextIndex, Name: name, Type: typ, Location: loc}
	s.nextIndex++
	top.vars[name] = local
	top.order = append(top.order, local)
	return local
}

// Lookup searches from the innermost open scope outward.
func (s *Stack) Lookup(name string) (*Local, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if local, ok := s.blocks[i].vars[name]; ok {
			return local, true
		}
	}
	return nil, false
}

// Depth returns the number of currently open scopes.
func (s *Stack) Depth() int {
	return len(s.blocks)
}

// LocalCount returns the number of local slots allocated so far in this
// routine — the size its activation frame needs.
func (s *Stack) LocalCount() int {
	return s.nextIndex
}
