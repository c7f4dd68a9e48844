// Package errors defines the classified errors reported by the type checker.
//
// Every failure is a *CheckError carrying an ErrorCode plus whatever
// structured context is needed to render a diagnostic: the expected and
// inferred types, the property or identifier name, and the expression
// being checked.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/declaratypel/typecheck/ast"
)

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, notes, hints).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// CheckError is a single type checking failure.
type CheckError struct {
	Code        ErrorCode
	Message     string
	Expected    ast.Type // nil when not applicable
	Inferred    ast.Type // nil when not applicable
	Name        string   // property or identifier name, if any
	Expr        ast.Expr // expression being checked, if known
	Suggestions []Suggestion
	Note        string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	var b strings.Builder
	if e.Code.Category() == "internal" {
		b.WriteString("internal error: ")
	} else {
		b.WriteString("type error: ")
	}
	b.WriteString(e.Message)
	if e.Expr != nil {
		b.WriteString(" (in ")
		b.WriteString(e.Expr.String())
		b.WriteString(")")
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CheckError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CheckError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:    e.Code,
		Kind:    "error",
		Message: e.Message,
		Note:    e.Note,
	}
	if e.Code.Category() == "internal" {
		fe.Kind = "internal error"
	}
	if e.Expr != nil {
		fe.Context = e.Expr.String()
	}
	if e.Expected != nil {
		fe.Expected = e.Expected.String()
	}
	if e.Inferred != nil {
		fe.Found = e.Inferred.String()
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// WithExpr returns a copy of the error attributed to expr. An error that
// already names an expression keeps it, so the innermost expression wins.
func (e *CheckError) WithExpr(expr ast.Expr) *CheckError {
	if e.Expr != nil || expr == nil {
		return e
	}
	cp := *e
	cp.Expr = expr
	return &cp
}

// AsCheckError finds the first *CheckError in err's chain.
func AsCheckError(err error) (*CheckError, bool) {
	var ce *CheckError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsCode reports whether err (or any error it wraps) is a *CheckError
// with the given code. Batches match if any member matches.
func IsCode(err error, code ErrorCode) bool {
	for _, ce := range Flatten(err) {
		if ce.Code == code {
			return true
		}
	}
	return false
}

// UnknownIdentifier reports a variable missing from the scope chain.
func UnknownIdentifier(name string, candidates []string) *CheckError {
	return &CheckError{
		Code:        E4001,
		Message:     fmt.Sprintf("unknown identifier %q", name),
		Name:        name,
		Suggestions: SuggestSimilar(name, candidates),
	}
}

// UnknownTypeIdentifier reports a type name missing from the scope chain.
func UnknownTypeIdentifier(name string, candidates []string) *CheckError {
	return &CheckError{
		Code:        E4002,
		Message:     fmt.Sprintf("unknown type identifier %q", name),
		Name:        name,
		Suggestions: SuggestSimilar(name, candidates),
	}
}

// TypeMismatch reports that inferred is not assignable to expected.
func TypeMismatch(expected, inferred ast.Type) *CheckError {
	return &CheckError{
		Code:     E4003,
		Message:  fmt.Sprintf("type '%s' is not assignable to type '%s'", inferred, expected),
		Expected: expected,
		Inferred: inferred,
	}
}

// PropertyMissing reports a property required by expected that inferred lacks.
func PropertyMissing(expected, inferred ast.Type, name string) *CheckError {
	return &CheckError{
		Code: E4004,
		Message: fmt.Sprintf("property '%s' is missing in type '%s' but required in type '%s'",
			name, inferred, expected),
		Expected: expected,
		Inferred: inferred,
		Name:     name,
	}
}

// PropertyReadonly reports a property readonly in inferred but writable in expected.
func PropertyReadonly(expected, inferred ast.Type, name string) *CheckError {
	return &CheckError{
		Code: E4005,
		Message: fmt.Sprintf("property '%s' is readonly in type '%s' but writable in type '%s'",
			name, inferred, expected),
		Expected: expected,
		Inferred: inferred,
		Name:     name,
	}
}

// PropertyOptional reports a property optional in inferred but required in expected.
func PropertyOptional(expected, inferred ast.Type, name string) *CheckError {
	return &CheckError{
		Code: E4006,
		Message: fmt.Sprintf("property '%s' is optional in type '%s' but required in type '%s'",
			name, inferred, expected),
		Expected: expected,
		Inferred: inferred,
		Name:     name,
	}
}

// IndexTypeMismatch reports an object template key whose type is not
// string, number or a literal of either.
func IndexTypeMismatch(index ast.Expr, indexType ast.Type) *CheckError {
	return &CheckError{
		Code: E4007,
		Message: fmt.Sprintf("type of index expression '%s' must be assignable to 'string | number'",
			index),
		Inferred: indexType,
		Expr:     index,
	}
}

// Unsupported reports a recognized construct the checker does not handle yet.
func Unsupported(what string) *CheckError {
	return &CheckError{
		Code:    E4008,
		Message: what + " is not supported",
	}
}

// UnsupportedType reports a type constructor that has no subtyping rule
// in the given position.
func UnsupportedType(expected, inferred ast.Type, what string) *CheckError {
	return &CheckError{
		Code:     E4008,
		Message:  fmt.Sprintf("%s is not supported (checking '%s' against '%s')", what, inferred, expected),
		Expected: expected,
		Inferred: inferred,
	}
}

// ArgumentCount reports a call or function assignment with the wrong arity.
func ArgumentCount(fn ast.Type, want, got int) *CheckError {
	return &CheckError{
		Code:     E4009,
		Message:  fmt.Sprintf("expected %d arguments, but got %d", want, got),
		Expected: fn,
	}
}

// RecursiveType reports a type identifier whose bounds refer back to itself.
func RecursiveType(name string) *CheckError {
	return &CheckError{
		Code:    E4010,
		Message: fmt.Sprintf("type identifier %q refers to itself", name),
		Name:    name,
	}
}

// DepthExceeded reports that checking nested deeper than limit.
func DepthExceeded(limit int) *CheckError {
	return &CheckError{
		Code:    E4011,
		Message: fmt.Sprintf("maximum check depth of %d exceeded", limit),
	}
}

// UnknownModule reports an import whose source the importer cannot find.
func UnknownModule(source string) *CheckError {
	return &CheckError{
		Code:    E4012,
		Message: fmt.Sprintf("cannot find module %q", source),
		Name:    source,
	}
}

// Internal reports a defect in the checker itself.
func Internal(format string, args ...any) *CheckError {
	return &CheckError{
		Code:    E9001,
		Message: fmt.Sprintf(format, args...),
		Note:    "this is a bug in the type checker",
	}
}
