package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/sigbind/internal/registry"
)

// AlgorithmSummary is one row of the list command.
type AlgorithmSummary struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available algorithms",
		Long: `List every algorithm the backend provides, sorted by name, with its
category and the first line of its description.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	reg, err := opts.openRegistry()
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeRegistry(reg)

	rows, err := listAlgorithms(reg)
	if err != nil {
		return f.Fail(err, nil)
	}
	return f.Success(rows, func(w io.Writer) error {
		width := 0
		for _, r := range rows {
			width = max(width, len(r.Name))
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%-*s  %-10s  %s\n", width, r.Name, r.Category, firstLine(r.Description))
		}
		return nil
	})
}

func listAlgorithms(reg *registry.Registry) ([]AlgorithmSummary, error) {
	names, err := reg.Names()
	if err != nil {
		return nil, err
	}
	rows := make([]AlgorithmSummary, 0, len(names))
	for _, name := range names {
		in, err := reg.Describe(name)
		if err != nil {
			return nil, WrapExitError(ExitFailure, ErrCodeGeneric, "failed to describe "+name, err)
		}
		rows = append(rows, AlgorithmSummary{Name: in.Name, Category: in.Category, Description: in.Description})
	}
	return rows, nil
}
