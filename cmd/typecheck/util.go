package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/declaratypel/typecheck/internal/astjson"
)

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// readInput returns the JSON document named by the command line. The
// input is either the file at args[0] or stdin (with --stdin or "-").
// YAML input, recognized by extension or by not starting like JSON, is
// converted to JSON first.
func (a *app) readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	stdinSet := a.v.GetBool("stdin")
	pathSupplied := len(args) > 0 && args[0] != "-"
	if pathSupplied && stdinSet {
		return nil, errors.New("multiple input sources specified")
	}
	if !pathSupplied && !stdinSet && len(args) == 0 {
		return nil, errors.New("no input specified (pass a file or --stdin)")
	}

	var data []byte
	var err error
	if pathSupplied {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, err
	}
	if isYAML(args, data) {
		return astjson.FromYAML(data)
	}
	return data, nil
}

func isYAML(args []string, data []byte) bool {
	if len(args) > 0 && args[0] != "-" {
		ext := strings.ToLower(filepath.Ext(args[0]))
		return ext == ".yaml" || ext == ".yml"
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '['
}
