package checker

import (
	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// Bounds constrains the type of a binding. Lower must always be
// assignable to Upper.
type Bounds struct {
	Upper ast.Type
	Lower ast.Type
}

// TypeBounds returns bounds with the given upper and lower types. A nil
// upper bound means unknown and a nil lower bound means never.
func TypeBounds(upper, lower ast.Type) Bounds {
	return Bounds{Upper: upper, Lower: lower}.normalize()
}

func (b Bounds) normalize() Bounds {
	if b.Upper == nil {
		b.Upper = ast.Unknown()
	}
	if b.Lower == nil {
		b.Lower = ast.Never()
	}
	return b
}

// BoundsID addresses a bounds record in a Checker's arena.
type BoundsID int

// arena stores the bounds of the frames created by a Checker. While a
// snapshot is open every overwritten record is journaled so the snapshot
// can be restored without copying the arena.
type arena struct {
	records []Bounds
	journal []undo
	open    int
}

type undo struct {
	id  BoundsID
	old Bounds
}

func (a *arena) alloc(b Bounds) BoundsID {
	a.records = append(a.records, b)
	return BoundsID(len(a.records) - 1)
}

func (a *arena) get(id BoundsID) (Bounds, bool) {
	if id < 0 || int(id) >= len(a.records) {
		return Bounds{}, false
	}
	return a.records[id], true
}

func (a *arena) set(id BoundsID, b Bounds) {
	if a.open > 0 {
		a.journal = append(a.journal, undo{id: id, old: a.records[id]})
	}
	a.records[id] = b
}

func (a *arena) size() int { return len(a.records) }

// truncate frees the records allocated at or after mark.
func (a *arena) truncate(mark int) {
	if mark < len(a.records) {
		clear(a.records[mark:])
		a.records = a.records[:mark]
	}
}

// arenaSnapshot marks the arena state a failed attempt returns to.
type arenaSnapshot struct {
	records int
	journal int
}

func (a *arena) snapshot() arenaSnapshot {
	a.open++
	return arenaSnapshot{records: len(a.records), journal: len(a.journal)}
}

// restore reverts the changes made since s, dropping records allocated
// after it was taken.
func (a *arena) restore(s arenaSnapshot) {
	for i := len(a.journal) - 1; i >= s.journal; i-- {
		if u := a.journal[i]; int(u.id) < s.records {
			a.records[u.id] = u.old
		}
	}
	a.journal = a.journal[:s.journal]
	a.truncate(s.records)
	a.close()
}

// commit keeps the changes made since s. An enclosing snapshot can still
// undo them.
func (a *arena) commit(arenaSnapshot) {
	a.close()
}

func (a *arena) close() {
	a.open--
	if a.open == 0 {
		a.journal = a.journal[:0]
	}
}

// Bounds returns the current bounds of a var, type or refinement frame.
func (c *Checker) Bounds(frame *Scope) (Bounds, error) {
	if frame == nil || frame.kind == RootFrame {
		return Bounds{}, errors.Internal("root scope has no bounds")
	}
	if frame.owner != c {
		return Bounds{}, errors.Internal("scope frame %q belongs to another checker", frame.name)
	}
	b, ok := c.arena.get(frame.bounds)
	if !ok {
		return Bounds{}, errors.Internal("scope frame %q has no bounds record %d", frame.name, frame.bounds)
	}
	return b, nil
}

func (c *Checker) narrow(frame *Scope, b Bounds) {
	if old, ok := c.arena.get(frame.bounds); ok {
		c.log.Trace().
			Str("frame", frame.name).
			Str("old_upper", old.Upper.String()).
			Str("old_lower", old.Lower.String()).
			Str("upper", b.Upper.String()).
			Str("lower", b.Lower.String()).
			Msg("narrow bounds")
	}
	c.arena.set(frame.bounds, b)
}

// probe runs f and then undoes every bounds change it made.
func (c *Checker) probe(f func() error) error {
	snap := c.arena.snapshot()
	err := f()
	c.arena.restore(snap)
	if err != nil {
		c.log.Debug().Err(err).Msg("probe failed")
	}
	return err
}

// attempt runs f and undoes its bounds changes only if it fails.
func (c *Checker) attempt(f func() error) error {
	snap := c.arena.snapshot()
	err := f()
	if err != nil {
		c.arena.restore(snap)
	} else {
		c.arena.commit(snap)
	}
	return err
}

// assignable reports whether inferred is assignable to expected without
// leaving any trace in the arena.
func (c *Checker) assignable(expected, inferred ast.Type, scope *Scope) bool {
	return c.probe(func() error { return c.unify(expected, inferred, scope) }) == nil
}

// join returns the least type both a and b are assignable to. When neither
// subsumes the other the result is their union.
func (c *Checker) join(a, b ast.Type, scope *Scope) ast.Type {
	switch {
	case ast.IsBuiltin(a, ast.TagNever):
		return b
	case ast.IsBuiltin(b, ast.TagNever):
		return a
	case c.assignable(b, a, scope):
		return b
	case c.assignable(a, b, scope):
		return a
	}
	return unionOf(a, b)
}

// meet returns the greatest type assignable to both a and b. When neither
// subsumes the other the result is their intersection.
func (c *Checker) meet(a, b ast.Type, scope *Scope) ast.Type {
	switch {
	case ast.IsBuiltin(a, ast.TagUnknown):
		return b
	case ast.IsBuiltin(b, ast.TagUnknown):
		return a
	case c.assignable(a, b, scope):
		return b
	case c.assignable(b, a, scope):
		return a
	}
	return intersectionOf(a, b)
}

func unionOf(a, b ast.Type) ast.Type {
	return ast.NewUnionType(mergeArgs(a, b, func(t ast.Type) ([]ast.Type, bool) {
		u, ok := t.(*ast.UnionType)
		if !ok {
			return nil, false
		}
		return u.Args, true
	}))
}

func intersectionOf(a, b ast.Type) ast.Type {
	return ast.NewIntersectionType(mergeArgs(a, b, func(t ast.Type) ([]ast.Type, bool) {
		i, ok := t.(*ast.IntersectionType)
		if !ok {
			return nil, false
		}
		return i.Args, true
	}))
}

// mergeArgs flattens a and b into one argument list, dropping members
// that render identically.
func mergeArgs(a, b ast.Type, members func(ast.Type) ([]ast.Type, bool)) []ast.Type {
	var out []ast.Type
	seen := map[string]bool{}
	add := func(t ast.Type) {
		if args, ok := members(t); ok {
			for _, arg := range args {
				if s := arg.String(); !seen[s] {
					seen[s] = true
					out = append(out, arg)
				}
			}
			return
		}
		if s := t.String(); !seen[s] {
			seen[s] = true
			out = append(out, t)
		}
	}
	add(a)
	add(b)
	return out
}

// checkInvariant verifies that the lower bound of frame is still
// assignable to its upper bound. Bounds built from unions or intersections
// have no subtyping rule and are not checked.
func (c *Checker) checkInvariant(frame *Scope, scope *Scope) error {
	b, err := c.Bounds(frame)
	if err != nil {
		return err
	}
	err = c.probe(func() error { return c.unify(b.Upper, b.Lower, scope) })
	if err == nil {
		return nil
	}
	ce, ok := errors.AsCheckError(err)
	if !ok {
		return err
	}
	switch ce.Code {
	case errors.TypeMismatchCode, errors.PropertyMissingCode, errors.PropertyReadonlyCode,
		errors.PropertyOptionalCode, errors.ArgumentCountCode:
		return errors.Internal("bounds of %q violated: lower bound '%s' is not assignable to upper bound '%s'",
			frame.name, b.Lower, b.Upper)
	}
	return nil
}

// activeKey identifies a bounds record being expanded on one side of a
// unification. Meeting it again means the type refers to itself.
type activeKey struct {
	id    BoundsID
	lower bool
}

// guard marks key active for the duration of the returned release func.
func (c *Checker) guard(frame *Scope, lower bool) (func(), error) {
	key := activeKey{id: frame.bounds, lower: lower}
	if c.active[key] {
		return nil, errors.RecursiveType(frame.name)
	}
	c.active[key] = true
	return func() { delete(c.active, key) }, nil
}
