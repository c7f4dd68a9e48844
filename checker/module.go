package checker

import (
	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// BindingKind tells value bindings from type bindings.
type BindingKind uint8

const (
	ValueBinding BindingKind = iota
	TypeBinding
)

func (k BindingKind) String() string {
	if k == TypeBinding {
		return "type"
	}
	return "value"
}

// Binding is a name introduced at the top level of a module.
type Binding struct {
	Name    string
	Kind    BindingKind
	Type    ast.Type
	Mutable bool
}

// Module is the result of checking a sequence of top-level items.
type Module struct {
	// Scope is the scope after the last item, for checking code that
	// follows the module.
	Scope *Scope
	// Bindings lists every top-level binding in definition order.
	Bindings []Binding
	// Exports lists the exported bindings in definition order.
	Exports []Binding
}

// Lookup returns the binding of the given kind with the given name. A
// later definition shadows an earlier one.
func (m *Module) Lookup(name string, kind BindingKind) (Binding, bool) {
	for i := len(m.Bindings) - 1; i >= 0; i-- {
		if b := m.Bindings[i]; b.Name == name && b.Kind == kind {
			return b, true
		}
	}
	return Binding{}, false
}

// ExportTable returns the exports in the form a MapImporter serves.
func (m *Module) ExportTable() Exports {
	ex := Exports{Values: map[string]ast.Type{}, Types: map[string]ast.Type{}}
	for _, b := range m.Exports {
		if b.Kind == TypeBinding {
			ex.Types[b.Name] = b.Type
		} else {
			ex.Values[b.Name] = b.Type
		}
	}
	return ex
}

// CheckModule checks items left to right, each in the scope produced by
// the ones before it. By default it stops at the first error. With
// WithAllErrors it carries on, binding the names of a failed item to
// never, and returns every error as a batch. The returned Module is never
// nil and holds the bindings checked so far.
func (c *Checker) CheckModule(items []ast.Expr, scope *Scope) (*Module, error) {
	mod := &Module{Scope: c.scopeOrEmpty(scope)}
	var result error
	for i, item := range items {
		bindings, next, err := c.checkItem(item, mod.Scope)
		if err != nil {
			err = attribute(err, item)
			c.log.Debug().Int("item", i).Err(err).Msg("module item failed")
			if !c.cfg.allErrors {
				return mod, err
			}
			result = errors.Append(result, err)
			bindings, next = c.poison(item, mod.Scope)
		} else {
			c.log.Debug().Int("item", i).Int("bindings", len(bindings)).Msg("module item checked")
		}
		mod.Scope = next
		mod.Bindings = append(mod.Bindings, bindings...)
		if _, ok := item.(*ast.Export); ok {
			mod.Exports = append(mod.Exports, bindings...)
		}
	}
	return mod, result
}

func (c *Checker) checkItem(item ast.Expr, scope *Scope) ([]Binding, *Scope, error) {
	switch x := item.(type) {
	case *ast.Definition:
		return c.checkDefinition(x, scope)
	case *ast.TypeDefinition:
		return c.checkTypeDefinition(x, scope)
	case *ast.Import:
		return c.checkImport(x, scope)
	case *ast.Export:
		switch def := x.Def.(type) {
		case *ast.Definition:
			return c.checkDefinition(def, scope)
		case *ast.TypeDefinition:
			return c.checkTypeDefinition(def, scope)
		}
		return nil, nil, errors.Unsupported("exporting anything but a definition")
	}
	// Expression statement.
	if _, err := c.infer(item, scope); err != nil {
		return nil, nil, err
	}
	return nil, scope, nil
}

// checkDefinition binds each declarator in turn. The initializer is the
// default value of the declarator's pattern.
func (c *Checker) checkDefinition(def *ast.Definition, scope *Scope) ([]Binding, *Scope, error) {
	var bindings []Binding
	for _, decl := range def.Decls {
		slot, err := c.slotType(decl.Pattern.DefaultValue(), decl.Type, scope)
		if err != nil {
			return nil, nil, err
		}
		if def.Mutable && decl.Type == nil {
			slot = widen(slot)
		}
		if scope, err = c.bindPattern(decl.Pattern, slot, scope); err != nil {
			return nil, nil, err
		}
		for _, name := range decl.Pattern.Names() {
			t, err := c.varType(scope, name)
			if err != nil {
				return nil, nil, err
			}
			bindings = append(bindings, Binding{Name: name, Kind: ValueBinding, Type: t, Mutable: def.Mutable})
		}
	}
	return bindings, scope, nil
}

func (c *Checker) varType(scope *Scope, name string) (ast.Type, error) {
	frame, err := LookupVar(scope, name)
	if err != nil {
		return nil, err
	}
	b, err := c.Bounds(frame)
	if err != nil {
		return nil, err
	}
	return b.Lower, nil
}

// checkTypeDefinition binds each type name to exactly its value. Later
// declarators may refer to earlier ones.
func (c *Checker) checkTypeDefinition(def *ast.TypeDefinition, scope *Scope) ([]Binding, *Scope, error) {
	bindings := make([]Binding, 0, len(def.Decls))
	for _, decl := range def.Decls {
		if decl.Value == nil {
			return nil, nil, errors.Internal("type %q has no value", decl.Name)
		}
		scope = c.WithTypeVar(scope, decl.Name, TypeBounds(decl.Value, decl.Value))
		bindings = append(bindings, Binding{Name: decl.Name, Kind: TypeBinding, Type: decl.Value})
	}
	return bindings, scope, nil
}

func (c *Checker) checkImport(imp *ast.Import, scope *Scope) ([]Binding, *Scope, error) {
	if c.cfg.importer == nil {
		c.log.Debug().Str("source", imp.Source).Msg("no importer configured, skipping import")
		return nil, scope, nil
	}
	var specs []*ast.ImportSpecifier
	var names []string
	if imp.Default != nil {
		specs = append(specs, imp.Default)
		names = append(names, "default")
	}
	for _, spec := range imp.Specifiers {
		specs = append(specs, spec)
		names = append(names, spec.SourceName.Name)
	}

	var bindings []Binding
	for i, spec := range specs {
		t, err := c.cfg.importer.Import(imp.Source, names[i], spec.IsType)
		if err != nil {
			return nil, nil, err
		}
		kind := ValueBinding
		if spec.IsType {
			kind = TypeBinding
			scope = c.WithTypeVar(scope, spec.LocalName(), TypeBounds(t, t))
		} else {
			scope = c.WithVar(scope, spec.LocalName(), TypeBounds(t, t))
		}
		bindings = append(bindings, Binding{Name: spec.LocalName(), Kind: kind, Type: t})
	}
	return bindings, scope, nil
}

// poison binds the values a failed item would have introduced to never,
// and its types to unconstrained identifiers, so later items referring to
// them do not report further errors.
func (c *Checker) poison(item ast.Expr, scope *Scope) ([]Binding, *Scope) {
	var bindings []Binding
	bindValue := func(name string) {
		scope = c.WithVar(scope, name, TypeBounds(ast.Never(), ast.Never()))
		bindings = append(bindings, Binding{Name: name, Kind: ValueBinding, Type: ast.Never()})
	}
	// An unconstrained type identifier unifies with anything from either side.
	bindType := func(name string) {
		scope = c.WithTypeVar(scope, name, TypeBounds(nil, nil))
		bindings = append(bindings, Binding{Name: name, Kind: TypeBinding, Type: ast.Never()})
	}
	if exp, ok := item.(*ast.Export); ok {
		item = exp.Def
	}
	switch x := item.(type) {
	case *ast.Definition:
		for _, name := range x.Names() {
			bindValue(name)
		}
	case *ast.TypeDefinition:
		for _, name := range x.Names() {
			bindType(name)
		}
	case *ast.Import:
		specs := x.Specifiers
		if x.Default != nil {
			specs = append([]*ast.ImportSpecifier{x.Default}, specs...)
		}
		for _, spec := range specs {
			if spec.IsType {
				bindType(spec.LocalName())
			} else {
				bindValue(spec.LocalName())
			}
		}
	}
	return bindings, scope
}
