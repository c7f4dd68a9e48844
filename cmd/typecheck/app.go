package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/declaratypel/typecheck/checker"
)

// errTypeErrors is returned by commands whose input failed to check. The
// diagnostics have already been written when it is returned.
var errTypeErrors = stderrors.New("type errors")

var outputFormats = []string{"text", "json"}

// app holds the state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		v:      viper.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    zerolog.Nop(),
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "typecheck",
		Short: "Structural type checker for JSON-encoded syntax trees",
		Long: `typecheck infers and checks types of programs handed over as JSON (or
YAML) syntax trees, reporting rustc-style diagnostics.

Settings are read from flags, TYPECHECK_* environment variables and an
optional .typecheck.yaml file in the working or home directory.

Examples:
  typecheck check module.json          # Check a module
  typecheck infer expr.json -o json    # Print the inferred type as JSON
  typecheck ast module.yaml            # Outline a syntax tree`,
		Version:           fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.configure(cmd) },
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default .typecheck.yaml)")
	flags.Int("max-depth", checker.DefaultMaxDepth, "Maximum nesting of checks")
	flags.String("tuple-overflow", checker.TupleOverflowUndefined.String(), "Typing of patterns longer than their tuple: undefined or reject")
	flags.Bool("all-errors", false, "Report every error of a module instead of the first")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	flags.StringP("output", "o", "text", "Output format: text or json")
	flags.String("modules", "", "Directory searched for imported modules")
	flags.Bool("stdin", false, "Read input from stdin")
	_ = root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	if err := a.v.BindPFlags(flags); err != nil {
		panic(err)
	}
	a.v.SetEnvPrefix("TYPECHECK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(a.checkCommand(), a.inferCommand(), a.astCommand())
	return root
}

// configure loads the config file and applies the global settings.
func (a *app) configure(cmd *cobra.Command) error {
	if err := a.readConfig(); err != nil {
		return err
	}
	format := strings.ToLower(a.v.GetString("output"))
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format: %s", format)
	}
	level, err := zerolog.ParseLevel(strings.ToLower(a.v.GetString("log-level")))
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.v.GetString("log-level"))
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:     a.stderr,
		NoColor: !a.colorEnabled(a.stderr),
	}).Level(level).With().Timestamp().Str("command", cmd.Name()).Logger()
	return nil
}

func (a *app) readConfig() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName(".typecheck")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// checkerOptions translates the settings into checker options.
func (a *app) checkerOptions() ([]checker.Option, error) {
	overflow, err := checker.ParseTupleOverflow(a.v.GetString("tuple-overflow"))
	if err != nil {
		return nil, err
	}
	opts := []checker.Option{
		checker.WithLogger(a.log),
		checker.WithMaxDepth(a.v.GetInt("max-depth")),
		checker.WithTupleOverflow(overflow),
	}
	if a.v.GetBool("all-errors") {
		opts = append(opts, checker.WithAllErrors())
	}
	return opts, nil
}

// newChecker returns a checker configured from the settings, resolving
// imports from the modules directory when one is set.
func (a *app) newChecker() (*checker.Checker, error) {
	opts, err := a.checkerOptions()
	if err != nil {
		return nil, err
	}
	if dir := a.v.GetString("modules"); dir != "" {
		dir, err = homedir.Expand(dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, checker.WithImporter(newDirImporter(dir, opts, a.log)))
	}
	return checker.New(opts...), nil
}

func (a *app) jsonOutput() bool {
	return strings.EqualFold(a.v.GetString("output"), "json")
}

// colorEnabled reports whether output written to w should be colored.
func (a *app) colorEnabled(w io.Writer) bool {
	if a.v.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
