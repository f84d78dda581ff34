// Package cli implements the zerocurve command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meenmo/zerocurve/config"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // calibration or pricing failed
	ExitCommandError = 2 // bad flags, unreadable files
)

// ValidFormats are the accepted --format values.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and the state built from them before a subcommand runs.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string

	App    *config.App
	Logger *zap.Logger
}

// ExitError carries a process exit code through cobra.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func commandError(format string, args ...any) error {
	return &ExitError{Code: ExitCommandError, Err: fmt.Errorf(format, args...)}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "zerocurve",
		Short: "Bootstrap and price off a zero-coupon swap curve",
		Long: `zerocurve bootstraps a continuously compounded zero curve from a money-market
deposit and semi-annual par swap quotes, then prices swaps off it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error); overrides log.level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewBootstrapCommand(opts))
	cmd.AddCommand(NewPriceCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return commandError("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	app, err := config.Load(o.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Err: err}
	}
	o.App = app
	config.SetConfig(app.SolverConfig())

	level := app.Log.Level
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	logger, err := newLogger(level, app.App.Env, cmd.ErrOrStderr())
	if err != nil {
		return &ExitError{Code: ExitCommandError, Err: err}
	}
	o.Logger = logger
	return nil
}

// newLogger writes JSON logs in production and console logs elsewhere, always to w so
// stdout stays clean for command output.
func newLogger(level, env string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var enc zapcore.Encoder
	if env == "prod" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "error: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}
