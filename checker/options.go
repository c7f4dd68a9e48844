package checker

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// DefaultMaxDepth is the default bound on nested infer and unify calls.
const DefaultMaxDepth = 256

// TupleOverflow selects how array patterns that are longer than the tuple
// they destructure are typed.
type TupleOverflow int

const (
	// TupleOverflowUndefined types excess positions as the literal type
	// undefined.
	TupleOverflowUndefined TupleOverflow = iota
	// TupleOverflowReject fails the pattern with a type mismatch.
	TupleOverflowReject
)

func (p TupleOverflow) String() string {
	switch p {
	case TupleOverflowUndefined:
		return "undefined"
	case TupleOverflowReject:
		return "reject"
	default:
		return fmt.Sprintf("TupleOverflow(%d)", int(p))
	}
}

// ParseTupleOverflow parses "undefined" or "reject".
func ParseTupleOverflow(s string) (TupleOverflow, error) {
	switch s {
	case "", "undefined":
		return TupleOverflowUndefined, nil
	case "reject":
		return TupleOverflowReject, nil
	}
	return 0, fmt.Errorf("invalid tuple overflow policy %q (want undefined or reject)", s)
}

// Importer resolves the bindings named by import declarations. Name is the
// exported name, or "default" for a default import. IsType selects the
// module's type namespace rather than its value namespace.
type Importer interface {
	Import(source, name string, isType bool) (ast.Type, error)
}

// Exports is the public surface of a module: its exported value and type
// bindings.
type Exports struct {
	Values map[string]ast.Type
	Types  map[string]ast.Type
}

// MapImporter is an Importer backed by a fixed set of modules, keyed by
// import source.
type MapImporter map[string]Exports

// Import implements Importer.
func (m MapImporter) Import(source, name string, isType bool) (ast.Type, error) {
	mod, ok := m[source]
	if !ok {
		return nil, errors.UnknownModule(source)
	}
	table := mod.Values
	if isType {
		table = mod.Types
	}
	if t, ok := table[name]; ok {
		return t, nil
	}
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	if isType {
		return nil, errors.UnknownTypeIdentifier(name, names)
	}
	return nil, errors.UnknownIdentifier(name, names)
}

// Option describes a function used to configure a Checker.
type Option func(*config)

type config struct {
	logger        zerolog.Logger
	maxDepth      int
	tupleOverflow TupleOverflow
	allErrors     bool
	importer      Importer
}

func defaultConfig() config {
	return config{
		logger:   zerolog.Nop(),
		maxDepth: DefaultMaxDepth,
	}
}

// WithLogger sets the logger used for trace and debug events. By default
// nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxDepth bounds the nesting of infer and unify calls. Checks that go
// deeper fail with a depth exceeded error. Non-positive values restore the
// default.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}
		cfg.maxDepth = depth
	}
}

// WithTupleOverflow sets the policy for array patterns longer than the
// tuple they destructure.
func WithTupleOverflow(policy TupleOverflow) Option {
	return func(cfg *config) {
		cfg.tupleOverflow = policy
	}
}

// WithAllErrors makes CheckModule keep going after a failed item and
// report every error as a batch. The default stops at the first error.
func WithAllErrors() Option {
	return func(cfg *config) {
		cfg.allErrors = true
	}
}

// WithImporter supplies the Importer used to resolve import declarations.
// Without one, imports are skipped.
func WithImporter(i Importer) Option {
	return func(cfg *config) {
		cfg.importer = i
	}
}
