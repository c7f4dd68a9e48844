package checker

import (
	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// FrameKind discriminates scope frames.
type FrameKind uint8

const (
	RootFrame       FrameKind = iota // empty scope
	VarFrame                         // binds a variable
	TypeFrame                        // binds a type identifier
	RefinementFrame                  // records a condition known to hold
)

func (k FrameKind) String() string {
	switch k {
	case RootFrame:
		return "root"
	case VarFrame:
		return "var"
	case TypeFrame:
		return "type"
	case RefinementFrame:
		return "refinement"
	}
	return "invalid"
}

// Scope is one frame of a lexical scope chain. Frames are immutable and
// never shared between chains; creating a binding returns a new child
// frame. The frame's bounds live in the Checker that created it.
type Scope struct {
	kind       FrameKind
	parent     *Scope
	name       string
	refinement ast.Expr
	bounds     BoundsID
	owner      *Checker
}

// EmptyScope returns a root scope with no bindings.
func EmptyScope() *Scope {
	return &Scope{kind: RootFrame}
}

// Kind returns the frame kind.
func (s *Scope) Kind() FrameKind { return s.kind }

// Parent returns the enclosing frame, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Name returns the variable or type name bound by the frame.
func (s *Scope) Name() string { return s.name }

// Refinement returns the condition recorded by a refinement frame.
func (s *Scope) Refinement() ast.Expr { return s.refinement }

// AllNames returns the names bound by frames of the given kind, nearest
// first. Shadowed names appear once.
func (s *Scope) AllNames(kind FrameKind) []string {
	seen := map[string]bool{}
	var names []string
	for f := s; f != nil; f = f.parent {
		if f.kind == kind && !seen[f.name] {
			seen[f.name] = true
			names = append(names, f.name)
		}
	}
	return names
}

// WithVar returns a child of parent binding the variable name.
func (c *Checker) WithVar(parent *Scope, name string, b Bounds) *Scope {
	return c.newFrame(parent, VarFrame, name, b)
}

// WithTypeVar returns a child of parent binding the type identifier name.
func (c *Checker) WithTypeVar(parent *Scope, name string, b Bounds) *Scope {
	return c.newFrame(parent, TypeFrame, name, b)
}

// WithRefinement returns a child of parent recording that cond holds.
func (c *Checker) WithRefinement(parent *Scope, cond ast.Expr) *Scope {
	s := c.newFrame(parent, RefinementFrame, "", TypeBounds(nil, nil))
	s.refinement = cond
	return s
}

func (c *Checker) newFrame(parent *Scope, kind FrameKind, name string, b Bounds) *Scope {
	if parent == nil {
		parent = EmptyScope()
	}
	return &Scope{
		kind:   kind,
		parent: parent,
		name:   name,
		bounds: c.arena.alloc(b.normalize()),
		owner:  c,
	}
}

// LookupVar returns the nearest frame binding the variable name.
func LookupVar(scope *Scope, name string) (*Scope, error) {
	if f := lookup(scope, VarFrame, name); f != nil {
		return f, nil
	}
	return nil, errors.UnknownIdentifier(name, scope.AllNames(VarFrame))
}

// LookupType returns the nearest frame binding the type identifier name.
func LookupType(scope *Scope, name string) (*Scope, error) {
	if f := lookup(scope, TypeFrame, name); f != nil {
		return f, nil
	}
	return nil, errors.UnknownTypeIdentifier(name, scope.AllNames(TypeFrame))
}

func lookup(scope *Scope, kind FrameKind, name string) *Scope {
	for f := scope; f != nil; f = f.parent {
		if f.kind == kind && f.name == name {
			return f
		}
	}
	return nil
}
