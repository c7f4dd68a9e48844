package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/declaratypel/typecheck/checker"
	"github.com/declaratypel/typecheck/internal/astjson"
)

func (a *app) inferCommand() *cobra.Command {
	var modulePath string
	cmd := &cobra.Command{
		Use:   "infer [file]",
		Short: "Infer the type of an expression",
		Long: `Infer the type of a single expression and print it. With --in, the
expression sees the bindings of the given module.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(cmd, args)
			if err != nil {
				return err
			}
			expr, err := astjson.DecodeExpr(data)
			if err != nil {
				return err
			}
			c, err := a.newChecker()
			if err != nil {
				return err
			}
			scope := checker.EmptyScope()
			if modulePath != "" {
				mod, err := a.loadScope(c, modulePath)
				if err != nil {
					return err
				}
				scope = mod.Scope
			}
			typ, checkErr := c.InferType(expr, scope)
			report, err := newInferReport(typ, checkErr)
			if err != nil {
				return err
			}
			return a.emit(report, report.formatted)
		},
	}
	cmd.Flags().StringVar(&modulePath, "in", "", "Module whose bindings are in scope")
	return cmd
}

// loadScope checks the module at path. Type errors in it are reported and
// abort the command.
func (a *app) loadScope(c *checker.Checker, path string) (*checker.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML([]string{path}, data) {
		if data, err = astjson.FromYAML(data); err != nil {
			return nil, err
		}
	}
	items, err := astjson.DecodeModule(data)
	if err != nil {
		return nil, err
	}
	mod, checkErr := c.CheckModule(items, nil)
	if checkErr != nil {
		report, err := newInferReport(nil, checkErr)
		if err != nil {
			return nil, err
		}
		return nil, a.emit(report, report.formatted)
	}
	return mod, nil
}
