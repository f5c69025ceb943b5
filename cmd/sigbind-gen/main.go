// Command sigbind-gen writes the typed algorithm bindings under
// internal/algorithms. It runs from go generate.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sigbind/internal/codegen"
	"github.com/roach88/sigbind/internal/native/builtin"
	"github.com/roach88/sigbind/internal/registry"
)

func main() {
	cmd := newCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		out     string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "sigbind-gen",
		Short:         "Generate typed bindings for every registered algorithm",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return generate(out, logger, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func generate(out string, logger *slog.Logger, w io.Writer) (err error) {
	reg, err := registry.Open(builtin.New(), registry.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reg.Close(); err == nil {
			err = cerr
		}
	}()

	ins, err := codegen.Describe(reg)
	if err != nil {
		return err
	}
	files, err := codegen.Generate(ins)
	if err != nil {
		return err
	}
	if err := codegen.Write(out, files); err != nil {
		return err
	}
	logger.Info("bindings generated", "algorithms", len(ins), "files", len(files), "out", out)
	fmt.Fprintf(w, "wrote %d files to %s\n", len(files), out)
	return nil
}
