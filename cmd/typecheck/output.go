package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/hokaccha/go-prettyjson"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/checker"
	"github.com/declaratypel/typecheck/errors"
	"github.com/declaratypel/typecheck/internal/astjson"
)

type errorReport struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Context  string `json:"context,omitempty"`
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
	Hint     string `json:"hint,omitempty"`
	Note     string `json:"note,omitempty"`
}

type bindingReport struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Type     any    `json:"type"`
	Display  string `json:"display"`
	Mutable  bool   `json:"mutable,omitempty"`
	Exported bool   `json:"exported,omitempty"`
}

type moduleReport struct {
	OK       bool            `json:"ok"`
	Bindings []bindingReport `json:"bindings"`
	Errors   []errorReport   `json:"errors,omitempty"`

	formatted []*errors.FormattedError
}

type inferReport struct {
	OK      bool          `json:"ok"`
	Type    any           `json:"type,omitempty"`
	Display string        `json:"display,omitempty"`
	Errors  []errorReport `json:"errors,omitempty"`

	formatted []*errors.FormattedError
}

// collectErrors splits err into its check errors. An error that holds no
// check error is not a type error and is returned as is.
func collectErrors(err error) ([]errorReport, []*errors.FormattedError, error) {
	if err == nil {
		return nil, nil, nil
	}
	checkErrs := errors.Flatten(err)
	if len(checkErrs) == 0 {
		return nil, nil, err
	}
	reports := make([]errorReport, 0, len(checkErrs))
	formatted := make([]*errors.FormattedError, 0, len(checkErrs))
	for _, ce := range checkErrs {
		fe := ce.ToFormatted()
		formatted = append(formatted, fe)
		reports = append(reports, errorReport{
			Code:     string(ce.Code),
			Category: ce.Code.Category(),
			Message:  fe.Message,
			Context:  fe.Context,
			Expected: fe.Expected,
			Found:    fe.Found,
			Hint:     fe.Hint,
			Note:     fe.Note,
		})
	}
	return reports, formatted, nil
}

func newModuleReport(mod *checker.Module, checkErr error) (*moduleReport, error) {
	errs, formatted, err := collectErrors(checkErr)
	if err != nil {
		return nil, err
	}
	report := &moduleReport{
		OK:        len(errs) == 0,
		Bindings:  make([]bindingReport, 0, len(mod.Bindings)),
		Errors:    errs,
		formatted: formatted,
	}
	for _, b := range mod.Bindings {
		report.Bindings = append(report.Bindings, bindingReport{
			Name:     b.Name,
			Kind:     b.Kind.String(),
			Type:     astjson.EncodeType(b.Type),
			Display:  b.Type.String(),
			Mutable:  b.Mutable,
			Exported: slices.Contains(mod.Exports, b),
		})
	}
	return report, nil
}

func newInferReport(typ ast.Type, checkErr error) (*inferReport, error) {
	errs, formatted, err := collectErrors(checkErr)
	if err != nil {
		return nil, err
	}
	report := &inferReport{OK: len(errs) == 0, Errors: errs, formatted: formatted}
	if typ != nil && report.OK {
		report.Type = astjson.EncodeType(typ)
		report.Display = typ.String()
	}
	return report, nil
}

func (r *moduleReport) writeText(w io.Writer) {
	for _, b := range r.Bindings {
		prefix := ""
		if b.Exported {
			prefix = "export "
		}
		switch {
		case b.Kind == checker.TypeBinding.String():
			fmt.Fprintf(w, "%stype %s = %s\n", prefix, b.Name, b.Display)
		case b.Mutable:
			fmt.Fprintf(w, "%slet %s: %s\n", prefix, b.Name, b.Display)
		default:
			fmt.Fprintf(w, "%sconst %s: %s\n", prefix, b.Name, b.Display)
		}
	}
}

func (r *inferReport) writeText(w io.Writer) {
	if r.OK {
		fmt.Fprintln(w, r.Display)
	}
}

// emit writes a report in the configured format. Diagnostics go to stderr
// in text mode and into the report in json mode. It returns errTypeErrors
// if the report holds errors.
func (a *app) emit(report interface{ writeText(io.Writer) }, formatted []*errors.FormattedError) error {
	if a.jsonOutput() {
		data, err := a.marshalJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
	} else {
		report.writeText(a.stdout)
		if len(formatted) > 0 {
			f := errors.NewFormatter(a.colorEnabled(a.stderr))
			fmt.Fprint(a.stderr, f.FormatMultiple(formatted))
		}
	}
	if len(formatted) > 0 {
		return errTypeErrors
	}
	return nil
}

func (a *app) marshalJSON(v any) ([]byte, error) {
	if a.colorEnabled(a.stdout) {
		return prettyjson.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
