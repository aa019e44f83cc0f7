package symbols

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/source"
	"github.com/scriptcore/scriptcore/internal/types"
)

// Graph is the symbol graph rooted at the anonymous root namespace, built
// in the three passes described by §4.7.
type Graph struct {
	Root     *Namespace
	diags    *diag.Sink
	registry *types.Registry
	nextGlob int
}

// NewGraph creates an empty Graph with only the root namespace.
func NewGraph(diags *diag.Sink, registry *types.Registry) *Graph {
	return &Graph{
		Root:     newNamespace("", nil),
		diags:    diags,
		registry: registry,
	}
}

// Build runs all three construction passes over a script's top-level
// declarations.
func (g *Graph) Build(decls []ast.Decl) {
	g.collectNamespacesAndClasses(decls, g.Root)
	g.declareMembers(decls, g.Root)
	g.processClassBodies(decls, g.Root)
}

// --- pass 1: namespaces and classes -----------------------------------

func (g *Graph) collectNamespacesAndClasses(decls []ast.Decl, ns *Namespace) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.Namespace:
			target := g.descendInto(ns, n.Name)
			if target != nil {
				g.collectNamespacesAndClasses(n.Members, target)
			}
		case *ast.Class:
			g.declareClass(ns, n)
		}
	}
}

// descendInto walks/creates the namespace path named by name under ns,
// diagnosing a collision if an intermediate path segment is already in
// use by a class of the same simple name.
func (g *Graph) descendInto(ns *Namespace, name *ast.Name) *Namespace {
	cur := ns
	if name.Qualified {
		cur = g.Root
	}
	for _, part := range name.Parts {
		if existingClass, ok := cur.Classes[part]; ok {
			g.diags.Report(diag.SemaDuplicateClassName, name.Start).Arg(part).Emit()
			g.diags.Report(diag.SemaPreviousDeclaration, existingClass.Location).Emit()
			return nil
		}
		cur = cur.addChild(part)
	}
	return cur
}

func (g *Graph) declareClass(ns *Namespace, n *ast.Class) {
	name := n.Name.Text()
	if len(n.Name.Parts) != 1 {
		// Classes are declared with a simple name at their containing
		// namespace; a qualified class name in this position is itself a
		// parse-level irregularity surfaced by the grammar, not re-checked
		// here.
		name = n.Name.Parts[len(n.Name.Parts)-1]
	}
	if existing, ok := ns.Classes[name]; ok {
		g.diags.Report(diag.SemaDuplicateClassName, n.Start).Arg(name).Emit()
		g.diags.Report(diag.SemaPreviousDeclaration, existing.Location).Emit()
		return
	}
	if _, ok := ns.Children[name]; ok {
		g.diags.Report(diag.SemaDuplicateClassName, n.Start).Arg(name).Emit()
		return
	}
	ns.Classes[name] = &Class{
		Name:      name,
		Namespace: ns,
		Modifiers: n.Modifiers,
		Location:  n.Start,
		Fields:    make(map[string]*Field),
		Methods:   make(map[string]*FunctionGroup),
		Constants: make(map[string]*Constant),
		Decl:      n,
	}
}

// --- pass 2: globals, constants, functions ----------------------------

func (g *Graph) declareMembers(decls []ast.Decl, ns *Namespace) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.Namespace:
			if child, ok := g.lookupDeclared(ns, n.Name); ok {
				g.declareMembers(n.Members, child)
			}
		case *ast.GlobalVariable:
			g.declareGlobal(ns, n)
		case *ast.Constant:
			g.declareConstant(ns, n, ns.Constants, true)
		case *ast.Function:
			g.declareFunction(ns, n)
		}
	}
}

func (g *Graph) lookupDeclared(ns *Namespace, name *ast.Name) (*Namespace, bool) {
	cur := ns
	if name.Qualified {
		cur = g.Root
	}
	for _, part := range name.Parts {
		child, ok := cur.Children[part]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// memberLocation reports the location of an existing namespace-scoped
// global, constant, or function sharing name, across all three member
// maps (spec.md:61: a global-variable name must be unique against other
// globals/constants/functions in the same namespace).
func memberLocation(ns *Namespace, name string) (source.Location, bool) {
	if existing, ok := ns.Globals[name]; ok {
		return existing.Location, true
	}
	if existing, ok := ns.Constants[name]; ok {
		return existing.Location, true
	}
	if group, ok := ns.Functions[name]; ok && len(group.Overloads) > 0 {
		return group.Overloads[0].Location, true
	}
	return source.Location{}, false
}

func (g *Graph) declareGlobal(ns *Namespace, n *ast.GlobalVariable) {
	if loc, ok := memberLocation(ns, n.Name); ok {
		g.diags.Report(diag.SemaDuplicateGlobalVariableName, n.Start).Arg(n.Name).Emit()
		g.diags.Report(diag.SemaPreviousDeclaration, loc).Emit()
		return
	}
	typ := g.registry.Resolve(ns, n.Type, g)
	g.nextGlob++
	ns.Globals[n.Name] = &GlobalVariable{
		Id:        g.nextGlob,
		Name:      n.Name,
		Namespace: ns,
		Type:      typ,
		Location:  n.Start,
		Decl:      n,
	}
}

// declareConstant declares n into into, which is either ns's own Constants
// map (namespaceScoped, cross-checked against ns's globals/functions too)
// or a class's own Constants map (not namespace-scoped: a class's members
// live in their own name space, separate from their containing namespace).
func (g *Graph) declareConstant(ns *Namespace, n *ast.Constant, into map[string]*Constant, namespaceScoped bool) {
	if namespaceScoped {
		if loc, ok := memberLocation(ns, n.Name); ok {
			g.diags.Report(diag.SemaDuplicateGlobalVariableName, n.Start).Arg(n.Name).Emit()
			g.diags.Report(diag.SemaPreviousDeclaration, loc).Emit()
			return
		}
	} else if existing, ok := into[n.Name]; ok {
		g.diags.Report(diag.SemaDuplicateGlobalVariableName, n.Start).Arg(n.Name).Emit()
		g.diags.Report(diag.SemaPreviousDeclaration, existing.Location).Emit()
		return
	}
	into[n.Name] = &Constant{Name: n.Name, Value: n.Value, Location: n.Start, Decl: n}
}

func (g *Graph) declareFunction(ns *Namespace, n *ast.Function) {
	name := n.Name.Text()
	if existing, ok := ns.Globals[name]; ok {
		g.diags.Report(diag.SemaDuplicateGlobalVariableName, n.Start).Arg(name).Emit()
		g.diags.Report(diag.SemaPreviousDeclaration, existing.Location).Emit()
		return
	}
	if existing, ok := ns.Constants[name]; ok {
		g.diags.Report(diag.SemaDuplicateGlobalVariableName, n.Start).Arg(name).Emit()
		g.diags.Report(diag.SemaPreviousDeclaration, existing.Location).Emit()
		return
	}
	fn := &Function{
		Params:     g.resolveParamTypes(ns, n.Params),
		ReturnType: g.registry.Resolve(ns, n.ReturnType, g),
		Location:   n.Start,
		Decl:       n,
	}
	group, ok := ns.Functions[name]
	if !ok {
		group = &FunctionGroup{Name: name}
		ns.Functions[name] = group
	}
	if sig := findSignature(group.Overloads, fn.Params); sig != nil {
		g.diags.Report(diag.SemaDuplicateFunctionSignature, n.Start).Arg(name).Emit()
		g.diags.Report(diag.SemaPreviousDeclaration, sig.Location).Emit()
		return
	}
	group.Overloads = append(group.Overloads, fn)
}

func (g *Graph) resolveParamTypes(scope *Namespace, params []*ast.Param) []*types.Type {
	out := make([]*types.Type, len(params))
	for i, p := range params {
		out[i] = g.registry.Resolve(scope, p.Type, g)
	}
	return out
}

func findSignature(overloads []*Function, params []*types.Type) *Function {
	for _, o := range overloads {
		if sameSignature(o.Params, params) {
			return o
		}
	}
	return nil
}

func sameSignature(a, b []*types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !types.IdentityEquals(a[i], b[i]) {
			return false
		}
	}
	return true
}

// --- pass 3: class bodies ----------------------------------------------

func (g *Graph) processClassBodies(decls []ast.Decl, ns *Namespace) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.Namespace:
			if child, ok := g.lookupDeclared(ns, n.Name); ok {
				g.processClassBodies(n.Members, child)
			}
		case *ast.Class:
			cls, ok := ns.Classes[lastPart(n.Name)]
			if ok {
				g.processClass(cls, n)
			}
		}
	}
}

func lastPart(n *ast.Name) string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

func (g *Graph) processClass(cls *Class, decl *ast.Class) {
	for _, sc := range decl.Superclasses {
		symbol, ok := g.ResolveClass(cls.Namespace, sc.Name)
		if !ok {
			continue
		}
		cls.Superclasses = append(cls.Superclasses, &SuperclassLink{Modifiers: sc.Modifiers, Class: symbol.(*Class)})
	}
	g.processClassMembers(cls, decl.Members, 0)
}

func (g *Graph) processClassMembers(cls *Class, members []ast.Decl, inherited ast.Modifiers) {
	for _, d := range members {
		switch n := d.(type) {
		case *ast.Field:
			mods := n.Modifiers | inherited
			if existing, ok := cls.Fields[n.Name]; ok {
				g.diags.Report(diag.SemaInvalidNamespaceMemberName, n.Start).Arg(n.Name).Emit()
				g.diags.Report(diag.SemaPreviousDeclaration, existing.Location).Emit()
				continue
			}
			cls.Fields[n.Name] = &Field{
				Name: n.Name, Class: cls, Modifiers: mods,
				Type: g.registry.Resolve(cls.Namespace, n.Type, g), Location: n.Start, Decl: n,
			}
		case *ast.Method:
			mods := n.Modifiers | inherited
			fn := &Function{
				Params:     g.resolveParamTypes(cls.Namespace, n.Params),
				ReturnType: g.registry.Resolve(cls.Namespace, n.ReturnType, g),
				Modifiers:  mods,
				Location:   n.Start,
				MethodDecl: n,
			}
			group, ok := cls.Methods[n.Name]
			if !ok {
				group = &FunctionGroup{Name: n.Name}
				cls.Methods[n.Name] = group
			}
			if sig := findSignature(group.Overloads, fn.Params); sig != nil {
				g.diags.Report(diag.SemaDuplicateFunctionSignature, n.Start).Arg(n.Name).Emit()
				g.diags.Report(diag.SemaPreviousDeclaration, sig.Location).Emit()
				continue
			}
			group.Overloads = append(group.Overloads, fn)
		case *ast.Constant:
			g.declareConstant(cls.Namespace, n, cls.Constants, false)
		case *ast.MemberGroup:
			g.processClassMembers(cls, n.Members, inherited|n.Modifiers)
		}
	}
}
