package sema

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/symbols"
)

// descendNamespace walks name's path under ns (or from the root, when name
// is root-qualified), the same traversal symbols.Graph uses internally to
// re-enter a namespace it already declared in pass 1.
func descendNamespace(root, ns *symbols.Namespace, name *ast.Name) (*symbols.Namespace, bool) {
	cur := ns
	if name.Qualified {
		cur = root
	}
	for _, part := range name.Parts {
		child, ok := cur.Child(part)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// resolveFunctionGroup implements the §4.7 name-resolution algorithm —
// root-qualified walk, then lexical walk upward, then whole-tree descendant
// search — generalised from symbols.Graph.ResolveClass to the Functions
// table instead of Classes, since the spec does not special-case function
// lookup beyond "the same resolution order applies to every namespace-owned
// name" (§4.7).
func (a *Analyzer) resolveFunctionGroup(from *symbols.Namespace, name *ast.Name) (*symbols.FunctionGroup, bool) {
	root := a.graph.Root

	if name.Qualified {
		group, ok := walkExactFunction(root, name.Parts)
		if !ok {
			a.diags.Report(diag.SemaUnresolvedFunction, name.Start).Arg(name.Text()).Emit()
			return nil, false
		}
		return group, true
	}

	for ns := from; ns != nil; ns = ns.Parent {
		if group, ok := walkExactFunction(ns, name.Parts); ok {
			return group, true
		}
	}

	matches := a.collectDescendantFunctionMatches(name.Parts)
	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		a.diags.Report(diag.SemaUnresolvedFunction, name.Start).Arg(name.Text()).Emit()
		return nil, false
	default:
		a.diags.Report(diag.SemaAmbiguousClass, name.Start).Arg(name.Text()).Emit()
		return nil, false
	}
}

func walkExactFunction(ns *symbols.Namespace, parts []string) (*symbols.FunctionGroup, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	cur := ns
	for _, part := range parts[:len(parts)-1] {
		child, ok := cur.Child(part)
		if !ok {
			return nil, false
		}
		cur = child
	}
	group, ok := cur.Functions[parts[len(parts)-1]]
	return group, ok
}

func (a *Analyzer) collectDescendantFunctionMatches(parts []string) []*symbols.FunctionGroup {
	var matches []*symbols.FunctionGroup
	seen := make(map[*symbols.FunctionGroup]bool)

	var walk func(ns *symbols.Namespace)
	walk = func(ns *symbols.Namespace) {
		if group, ok := walkExactFunction(ns, parts); ok && !seen[group] {
			seen[group] = true
			matches = append(matches, group)
		}
		for _, child := range ns.ChildrenInOrder() {
			walk(child)
		}
	}
	walk(a.graph.Root)
	return matches
}

// walkExactGlobalOrConstant looks up parts as a global or constant name
// starting exactly at ns (no lexical walk, no descendant search) — the same
// shape of single-namespace lookup walkExactFunction performs for
// FunctionGroups.
func walkExactGlobalOrConstant(ns *symbols.Namespace, parts []string) (*symbols.GlobalVariable, *symbols.Constant, bool) {
	if len(parts) == 0 {
		return nil, nil, false
	}
	cur := ns
	for _, part := range parts[:len(parts)-1] {
		child, ok := cur.Child(part)
		if !ok {
			return nil, nil, false
		}
		cur = child
	}
	last := parts[len(parts)-1]
	if g, ok := cur.Globals[last]; ok {
		return g, nil, true
	}
	if c, ok := cur.Constants[last]; ok {
		return nil, c, true
	}
	return nil, nil, false
}

// globalOrConstantMatch pairs one descendant-search hit's global/constant,
// mirroring the FunctionGroup shape collectDescendantFunctionMatches
// collects for functions.
type globalOrConstantMatch struct {
	global   *symbols.GlobalVariable
	constant *symbols.Constant
}

func (a *Analyzer) collectDescendantGlobalOrConstantMatches(parts []string) []globalOrConstantMatch {
	var matches []globalOrConstantMatch
	seen := make(map[any]bool)

	var walk func(ns *symbols.Namespace)
	walk = func(ns *symbols.Namespace) {
		if g, c, ok := walkExactGlobalOrConstant(ns, parts); ok {
			var key any = g
			if g == nil {
				key = c
			}
			if !seen[key] {
				seen[key] = true
				matches = append(matches, globalOrConstantMatch{global: g, constant: c})
			}
		}
		for _, child := range ns.ChildrenInOrder() {
			walk(child)
		}
	}
	walk(a.graph.Root)
	return matches
}

// resolveGlobalOrConstant looks up name as a global variable or a constant,
// applying the same three-step §4.7 resolution order as
// resolveFunctionGroup: a root-qualified exact walk, then a lexical walk
// through enclosing namespaces, then (for an unqualified name the lexical
// walk didn't find) a whole-tree descendant search. Constants resolve to
// the namespace/class that lexically owns them; globals resolve to the
// symbols.GlobalVariable the Symbol Graph already allocated a dense Id for.
func (a *Analyzer) resolveGlobalOrConstant(from *symbols.Namespace, name *ast.Name) (global *symbols.GlobalVariable, constant *symbols.Constant, ok bool) {
	root := a.graph.Root

	if name.Qualified {
		return walkExactGlobalOrConstant(root, name.Parts)
	}

	for ns := from; ns != nil; ns = ns.Parent {
		if g, c, ok := walkExactGlobalOrConstant(ns, name.Parts); ok {
			return g, c, true
		}
	}

	matches := a.collectDescendantGlobalOrConstantMatches(name.Parts)
	switch len(matches) {
	case 1:
		return matches[0].global, matches[0].constant, true
	case 0:
		return nil, nil, false
	default:
		a.diags.Report(diag.SemaAmbiguousClass, name.Start).Arg(name.Text()).Emit()
		return matches[0].global, matches[0].constant, true
	}
}
