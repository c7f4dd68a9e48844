// Package ast defines the abstract syntax tree of the language: literal
// values, destructuring patterns, type expressions and value expressions.
//
// Nodes are immutable once constructed. The checker reads them but never
// mutates them, so a tree may be shared between concurrent checks.
package ast

// Node represents a portion of the syntax tree.
type Node interface {
	// String returns a human friendly representation of the Node. This is
	// similar to TypeScript source, but not necessarily identical.
	String() string
}

// Expr represents a value expression. Expressions evaluate to a value and
// may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Type represents a type expression.
type Type interface {
	Node
	typeNode()
}

// Pattern represents a destructuring pattern used in bindings: a plain
// variable, an object destructure or an array destructure.
type Pattern interface {
	Node
	patternNode()

	// DefaultValue returns the default value (or initializer) expression
	// attached to the pattern, or nil.
	DefaultValue() Expr

	// Names returns all variable names introduced by the pattern, in
	// binding order.
	Names() []string
}
