package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
// Expressions, patterns, declarators and type expressions are all visited.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Children returns the direct, non-nil children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}
	switch n := node.(type) {
	// Expressions
	case *Unary:
		add(n.X)
	case *Binary:
		add(n.X, n.Y)
	case *Ternary:
		add(n.Cond, n.IfTrue, n.IfFalse)
	case *Ellipsis:
		add(n.X)
	case *ArrayTemplate:
		for _, item := range n.Items {
			add(item)
		}
	case *ObjectTemplate:
		for _, item := range n.Items {
			add(item)
		}
	case *Property:
		add(n.Value)
	case *Indexer:
		add(n.Index, n.Value)
	case *Call:
		add(n.Func)
		for _, a := range n.Args {
			add(a)
		}
	case *Lambda:
		for _, d := range n.Args {
			add(d)
		}
		if n.Rest != nil {
			add(n.Rest)
		}
		if n.RestType != nil {
			add(n.RestType)
		}
		if n.RestValue != nil {
			add(n.RestValue)
		}
		if n.ResultType != nil {
			add(n.ResultType)
		}
		add(n.Body)
	case *TypeAnnotation:
		add(n.X, n.Type)
	case *Definition:
		for _, d := range n.Decls {
			add(d)
		}
	case *TypeDefinition:
		for _, d := range n.Decls {
			add(d.Value)
		}
	case *Import:
		if n.Default != nil {
			add(n.Default)
		}
		for _, s := range n.Specifiers {
			add(s)
		}
	case *Export:
		add(n.Def)
	case *Declarator:
		add(n.Pattern)
		if n.Type != nil {
			add(n.Type)
		}

	// Patterns
	case *VarDef:
		if n.Default != nil {
			add(n.Default)
		}
	case *RenamedProp:
		add(n.Pattern)
	case *ObjectDestruct:
		for _, p := range n.Props {
			add(p)
		}
		if n.Rest != nil {
			add(n.Rest)
		}
		if n.Default != nil {
			add(n.Default)
		}
	case *ArrayDestruct:
		for _, item := range n.Items {
			add(item)
		}
		if n.Rest != nil {
			add(n.Rest)
		}
		if n.Default != nil {
			add(n.Default)
		}

	// Types
	case *ObjectType:
		for _, p := range n.Props {
			add(p.Type)
		}
		if n.Indexer != nil {
			add(n.Indexer.IndexType, n.Indexer.Type)
		}
	case *ArrayType:
		add(n.Items)
	case *TupleType:
		for _, item := range n.Items {
			add(item)
		}
		if n.Rest != nil {
			add(n.Rest)
		}
	case *FunctionalType:
		for _, a := range n.Args {
			add(a.Type)
		}
		if n.Rest != nil {
			add(n.Rest.Type)
		}
		add(n.Result)
	case *UnionType:
		for _, a := range n.Args {
			add(a)
		}
	case *IntersectionType:
		for _, a := range n.Args {
			add(a)
		}
	case *GenericType:
		for _, p := range n.Params {
			if p.UpperBound != nil {
				add(p.UpperBound)
			}
			if p.Default != nil {
				add(p.Default)
			}
		}
		add(n.Body)
	case *GenericCallType:
		for _, a := range n.Args {
			add(a)
		}
	}
	return out
}

// isNilNode catches typed nil pointers stored in interfaces.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *Declarator:
		return n == nil
	case *ImportSpecifier:
		return n == nil
	}
	return false
}
