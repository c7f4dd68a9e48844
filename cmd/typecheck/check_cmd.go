package main

import (
	"github.com/spf13/cobra"

	"github.com/declaratypel/typecheck/internal/astjson"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Check a module",
		Long: `Check the items of a module left to right and print the bindings it
introduces. Exits with status 1 if the module has type errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(cmd, args)
			if err != nil {
				return err
			}
			items, err := astjson.DecodeModule(data)
			if err != nil {
				return err
			}
			c, err := a.newChecker()
			if err != nil {
				return err
			}
			a.log.Debug().Str("session", c.ID()).Int("items", len(items)).Msg("checking module")
			mod, checkErr := c.CheckModule(items, nil)
			report, err := newModuleReport(mod, checkErr)
			if err != nil {
				return err
			}
			return a.emit(report, report.formatted)
		},
	}
}
