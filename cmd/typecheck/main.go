package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status: 0 on success,
// 1 when the input has type errors and 2 for any other failure.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, errTypeErrors):
		return 1
	}
	printError(stderr, err.Error(), a.colorEnabled(stderr))
	return 2
}

func printError(w io.Writer, msg string, useColor bool) {
	if useColor {
		c := color.New(color.FgRed)
		c.EnableColor()
		msg = c.Sprint(msg)
	}
	fmt.Fprintln(w, msg)
}
