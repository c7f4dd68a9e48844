package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Append adds errs to the batch err and returns the combined error, or nil
// if there is nothing to report. err may be nil or an existing batch.
func Append(err error, errs ...error) error {
	var nonNil []error
	for _, e := range errs {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}
	if err == nil && len(nonNil) == 0 {
		return nil
	}
	merr := multierror.Append(err, nonNil...)
	merr.ErrorFormat = formatBatch
	return merr.ErrorOrNil()
}

// Flatten returns every *CheckError contained in err, in report order.
// A lone *CheckError yields a single element slice.
func Flatten(err error) []*CheckError {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		var out []*CheckError
		for _, e := range merr.Errors {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	if ce, ok := AsCheckError(err); ok {
		return []*CheckError{ce}
	}
	return nil
}

// Count returns how many errors err holds.
func Count(err error) int {
	if err == nil {
		return 0
	}
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		return merr.Len()
	}
	return 1
}

func formatBatch(errs []error) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
}

// FriendlyBatchMessage renders every error in err with the plain formatter.
func FriendlyBatchMessage(err error) string {
	checkErrs := Flatten(err)
	formatted := make([]*FormattedError, 0, len(checkErrs))
	for _, ce := range checkErrs {
		formatted = append(formatted, ce.ToFormatted())
	}
	return NewFormatter(false).FormatMultiple(formatted)
}
