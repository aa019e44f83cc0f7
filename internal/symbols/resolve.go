package symbols

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/types"
)

// ResolveClass implements the §4.7 class-name resolution algorithm:
//
//  1. root-qualified ("::Foo::Bar"): walk it from the root; failure is a
//     semantic error.
//  2. otherwise, from scope upward: at each enclosing namespace attempt an
//     exact path walk; the first success wins (I7: exact lexical match
//     short-circuits the descendant search below).
//  3. if still unresolved, a descendant search over the whole tree:
//     exactly one match resolves, zero is "unresolved", more than one is
//     "ambiguous".
//
// scope must be a *Namespace (or nil, meaning the root). It implements
// types.ClassResolver so the Type Registry can call it directly.
func (g *Graph) ResolveClass(scope types.Scope, name *ast.Name) (types.ClassSymbol, bool) {
	from, _ := scope.(*Namespace)
	if from == nil {
		from = g.Root
	}

	if name.Qualified {
		cls, ok := walkExactClass(g.Root, name.Parts)
		if !ok {
			g.diags.Report(diag.SemaUnresolvedClass, name.Start).Arg(name.Text()).Emit()
			return nil, false
		}
		return cls, true
	}

	for scope := from; scope != nil; scope = scope.Parent {
		if cls, ok := walkExactClass(scope, name.Parts); ok {
			return cls, true
		}
	}

	matches := g.collectDescendantMatches(name.Parts)
	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		g.diags.Report(diag.SemaUnresolvedClass, name.Start).Arg(name.Text()).Arg(from.FullName()).Emit()
		return nil, false
	default:
		g.diags.Report(diag.SemaAmbiguousClass, name.Start).Arg(name.Text()).Emit()
		return nil, false
	}
}

// walkExactClass matches parts[0:len-1] as a namespace path under ns and
// parts[len-1] as a class directly owned by the namespace reached; the
// whole path must exist ("A::B::C matches only if the entire path
// exists").
func walkExactClass(ns *Namespace, parts []string) (*Class, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	cur := ns
	for _, part := range parts[:len(parts)-1] {
		child, ok := cur.Children[part]
		if !ok {
			return nil, false
		}
		cur = child
	}
	cls, ok := cur.Classes[parts[len(parts)-1]]
	return cls, ok
}

// collectDescendantMatches walks every namespace in the tree and collects
// the distinct classes reachable from it by an exact walk of parts.
func (g *Graph) collectDescendantMatches(parts []string) []*Class {
	var matches []*Class
	seen := make(map[*Class]bool)

	var walk func(ns *Namespace)
	walk = func(ns *Namespace) {
		if cls, ok := walkExactClass(ns, parts); ok && !seen[cls] {
			seen[cls] = true
			matches = append(matches, cls)
		}
		for _, child := range ns.ChildrenInOrder() {
			walk(child)
		}
	}
	walk(g.Root)
	return matches
}

var _ types.ClassResolver = (*Graph)(nil)
