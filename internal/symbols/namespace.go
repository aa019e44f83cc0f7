// Package symbols builds and queries the symbol graph: the namespace tree
// rooted at the anonymous root namespace, and the classes, globals,
// constants, and function groups it owns.
package symbols

import (
	"github.com/scriptcore/scriptcore/internal/ast"
	"github.com/scriptcore/scriptcore/internal/source"
	"github.com/scriptcore/scriptcore/internal/types"
)

// Namespace is a node of the symbol tree. It owns its members; a
// namespace/class name collision within one parent is a fatal semantic
// error (§4.7 pass 1), so the maps below are keyed by simple name.
type Namespace struct {
	Name      string
	Parent    *Namespace
	Children  map[string]*Namespace
	Classes   map[string]*Class
	Globals   map[string]*GlobalVariable
	Constants map[string]*Constant
	Functions map[string]*FunctionGroup

	// childOrder records child-namespace declaration order for
	// deterministic traversal; the maps above are for lookup only.
	childOrder []string
}

func newNamespace(name string, parent *Namespace) *Namespace {
	return &Namespace{
		Name:      name,
		Parent:    parent,
		Children:  make(map[string]*Namespace),
		Classes:   make(map[string]*Class),
		Globals:   make(map[string]*GlobalVariable),
		Constants: make(map[string]*Constant),
		Functions: make(map[string]*FunctionGroup),
	}
}

// FullName builds the "::"-joined path from the root. The root namespace's
// full name is the empty string (confirmed against
// qore-llvm's Namespace::getFullName — see SPEC_FULL.md).
func (ns *Namespace) FullName() string {
	if ns.Parent == nil {
		return ns.Name
	}
	parent := ns.Parent.FullName()
	if parent == "" {
		return ns.Name
	}
	return parent + "::" + ns.Name
}

// Child returns the direct child namespace named name, if any.
func (ns *Namespace) Child(name string) (*Namespace, bool) {
	c, ok := ns.Children[name]
	return c, ok
}

// ChildrenInOrder returns direct child namespaces in declaration order.
func (ns *Namespace) ChildrenInOrder() []*Namespace {
	out := make([]*Namespace, 0, len(ns.childOrder))
	for _, name := range ns.childOrder {
		out = append(out, ns.Children[name])
	}
	return out
}

func (ns *Namespace) addChild(name string) *Namespace {
	if existing, ok := ns.Children[name]; ok {
		return existing
	}
	child := newNamespace(name, ns)
	ns.Children[name] = child
	ns.childOrder = append(ns.childOrder, name)
	return child
}

// Class is a declared class: its superclass links, fields, methods, and
// own constants.
type Class struct {
	Name         string
	Namespace    *Namespace
	Modifiers    ast.Modifiers
	Location     source.Location
	Superclasses []*SuperclassLink
	Fields       map[string]*Field
	Methods      map[string]*FunctionGroup
	Constants    map[string]*Constant
	Decl         *ast.Class
}

// ClassName implements types.ClassSymbol.
func (c *Class) ClassName() string {
	prefix := c.Namespace.FullName()
	if prefix == "" {
		return c.Name
	}
	return prefix + "::" + c.Name
}

var _ types.ClassSymbol = (*Class)(nil)

// SuperclassLink pairs a resolved superclass with the access modifiers its
// "inherits" clause entry carried.
type SuperclassLink struct {
	Modifiers ast.Modifiers
	Class     *Class
}

// Field is one instance field of a Class.
type Field struct {
	Name      string
	Class     *Class
	Modifiers ast.Modifiers
	Type      *types.Type
	Location  source.Location
	Decl      *ast.Field
}

// GlobalVariable is a namespace-level global; Id is dense per compilation
// and assigned by the Graph that owns it.
type GlobalVariable struct {
	Id        int
	Name      string
	Namespace *Namespace
	Type      *types.Type
	Location  source.Location
	Decl      *ast.GlobalVariable
}

// Constant is a named compile-time constant, at namespace or class scope.
type Constant struct {
	Name     string
	Value    ast.Expr
	Location source.Location
	Decl     *ast.Constant
}

// Function is one overload of a FunctionGroup.
type Function struct {
	Params     []*types.Type
	ReturnType *types.Type
	Modifiers  ast.Modifiers
	Location   source.Location
	Decl       *ast.Function
	MethodDecl *ast.Method
}

// FunctionGroup holds every overload sharing one name; names may collide
// only if their resolved signatures differ (§3).
type FunctionGroup struct {
	Name      string
	Overloads []*Function
}
