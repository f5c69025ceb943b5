package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sigbind/internal/config"
	"github.com/roach88/sigbind/internal/native"
	"github.com/roach88/sigbind/internal/native/builtin"
	"github.com/roach88/sigbind/internal/registry"
	"github.com/roach88/sigbind/internal/store"
)

// RootOptions holds global flags and the resolved configuration for all
// commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"

	// Config is resolved before any subcommand runs.
	Config *config.Config

	// NewBackend overrides the algorithm backend (for testing).
	// If nil, defaults to the builtin backend.
	NewBackend func() native.Backend

	// RunIDs overrides the archive's run ID generator (for testing).
	// If nil, the store's UUIDv7 default is used.
	RunIDs store.RunIDGenerator
}

// NewRootCommand creates the root command for the sigbind CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// Execute runs the CLI with os.Args and returns the process exit code.
// Errors already reported as a JSON response are not printed again.
func Execute() int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if opts.Format != "json" || !errors.As(err, &exitErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return GetExitCode(err)
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigbind",
		Short: "sigbind - typed bindings for signal-processing algorithms",
		Long: `Configure, feed and run signal-processing algorithms through a typed
value boundary, archive their outputs and check them against scenarios.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeConfig, "failed to load configuration", err)
			}
			opts.Config = cfg
			opts.Format = cfg.Format
			opts.Verbose = cfg.Verbose

			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel,
			})
			slog.SetDefault(slog.New(handler))
			if cfg.File != "" {
				slog.Debug("configuration loaded", "file", cfg.File)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default $HOME/.config/sigbind/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewPresetCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// openRegistry initializes the backend for the duration of one command. The
// caller must close the registry.
func (o *RootOptions) openRegistry() (*registry.Registry, error) {
	var backend native.Backend
	if o.NewBackend != nil {
		backend = o.NewBackend()
	} else {
		backend = builtin.New()
	}
	reg, err := registry.Open(backend, registry.WithLogger(slog.Default()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeGeneric, "failed to initialize algorithms", err)
	}
	return reg, nil
}

// openStore opens the configured run archive. required reports whether a
// missing --db is an error; otherwise a nil store is returned.
func (o *RootOptions) openStore(required bool) (*store.Store, error) {
	path := ""
	if o.Config != nil {
		path = o.Config.DB
	}
	if path == "" {
		if required {
			return nil, NewExitError(ExitCommandError, ErrCodeStore, "no run archive: set --db or db in the config file")
		}
		return nil, nil
	}
	var opts []store.Option
	if o.RunIDs != nil {
		opts = append(opts, store.WithRunIDs(o.RunIDs))
	}
	st, err := store.Open(path, opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open database %s", path), err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func closeRegistry(reg *registry.Registry) {
	if err := reg.Close(); err != nil {
		slog.Error("error shutting down algorithms", "error", err)
	}
}
