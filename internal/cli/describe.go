package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sigbind/internal/algorithm"
	"github.com/roach88/sigbind/internal/registry"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <algorithm>",
		Short: "Show an algorithm's parameters, inputs and outputs",
		Long: `Show the introspection record of one algorithm: its declared parameters
with types, defaults and constraints, and its typed inputs and outputs.

Example:
  sigbind describe FrameCutter
  sigbind describe Scale --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], cmd)
		},
	}
}

func runDescribe(opts *RootOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	reg, err := opts.openRegistry()
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeRegistry(reg)

	in, err := reg.Describe(name)
	if err != nil {
		return f.Fail(algorithmError(name, err), nil)
	}
	return f.Success(in, func(w io.Writer) error {
		return writeIntrospection(w, in)
	})
}

// algorithmError maps registry lookups onto exit codes.
func algorithmError(name string, err error) error {
	if registry.IsAlgorithmNotFound(err) {
		return WrapExitError(ExitCommandError, ErrCodeUnknownAlgorithm, fmt.Sprintf("unknown algorithm %q", name), err)
	}
	return WrapExitError(ExitFailure, ErrCodeGeneric, fmt.Sprintf("failed to create %s", name), err)
}

func writeIntrospection(w io.Writer, in *algorithm.Introspection) error {
	fmt.Fprintf(w, "%s (%s)\n", in.Name, in.Category)
	if in.Description != "" {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(strings.TrimSpace(in.Description), "\n", "\n  "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameters:")
	if len(in.Parameters) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, p := range in.Parameters {
		fmt.Fprintf(w, "  %s: %s", p.Name, p.Type)
		if p.Default != "" {
			fmt.Fprintf(w, " = %s", p.Default)
		}
		if p.Constraint != "" {
			fmt.Fprintf(w, " %s", p.Constraint)
		}
		fmt.Fprintln(w)
		if p.Description != "" {
			fmt.Fprintf(w, "      %s\n", p.Description)
		}
	}

	writeIO(w, "Inputs:", in.Inputs)
	writeIO(w, "Outputs:", in.Outputs)
	return nil
}

func writeIO(w io.Writer, title string, infos []algorithm.IOInfo) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	if len(infos) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, info := range infos {
		fmt.Fprintf(w, "  %s: %s\n", info.Name, info.Type)
		if info.Description != "" {
			fmt.Fprintf(w, "      %s\n", info.Description)
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
