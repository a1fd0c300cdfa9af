package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/logging"
	"todoctl/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry    *commands.Registry
	factory     ServiceFactory
	interactive func() bool
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		factory:     factory,
		interactive: func() bool { return false },
	}
}

// SetInteractive sets the check that decides whether a bare invocation opens
// the UI (true) or prints the list (false).
func (d *Dispatcher) SetInteractive(fn func() bool) {
	d.interactive = fn
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> the UI on a terminal, the plain list otherwise
	if len(args) == 0 {
		name := "list"
		if d.interactive() {
			name = "ui"
		}
		return d.dispatch(ctx, name, nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir, apiURL string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api-url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger, closeLog, err := d.newLogger(cmd, cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer closeLog()
	log.SetDefault(logger)

	var svc service.Service
	if cmd.NeedsBackend() && d.factory != nil {
		if err := cfg.ResolveToken(); err != nil {
			fmt.Fprintf(errOut, "error: config error: %s\n", err)
			return exitcode.AuthError
		}
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: config error: %s\n", err)
			return exitcode.AuthError
		}
	}

	logger.Debug("dispatch", "command", cmd.Name(), "api", cfg.APIURL)
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// newLogger logs to errOut, or to the log file for commands that own the terminal.
func (d *Dispatcher) newLogger(cmd commands.Command, cfg *config.Config, errOut io.Writer) (*log.Logger, func(), error) {
	opts := logging.OptionsFromConfig(cfg)
	if !commands.OwnsTerminal(cmd) {
		return logging.New(errOut, opts), func() {}, nil
	}

	// Failed requests are logged at info; keep them in the file.
	if opts.Level > log.InfoLevel {
		opts.Level = log.InfoLevel
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	logger, closer, err := logging.OpenFile(cfg.LogPath(), opts)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { closer.Close() }, nil
}

// flagErrorMessage rewrites flag package errors into the CLI's wording.
func flagErrorMessage(err error) string {
	errStr := err.Error()

	// flag needs an argument: -list
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	}

	// flag provided but not defined: -x
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
