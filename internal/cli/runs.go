package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sigbind/internal/store"
	"github.com/roach88/sigbind/internal/value"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Algorithm string
	Database  string
}

// RunSummary is one row of the runs command.
type RunSummary struct {
	ID        string   `json:"id"`
	Seq       int64    `json:"seq"`
	Algorithm string   `json:"algorithm"`
	Outputs   []string `json:"outputs"`
}

// RunDetail is the archived record printed by the show command.
type RunDetail struct {
	ID         string        `json:"id"`
	Seq        int64         `json:"seq"`
	Algorithm  string        `json:"algorithm"`
	Parameters []store.Named `json:"parameters"`
	Outputs    []store.Named `json:"outputs"`
	Pool       *value.Value  `json:"pool,omitempty"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		Long: `List the runs archived by "sigbind run --db", oldest first.

Example:
  sigbind runs --db ./runs.db
  sigbind runs --db ./runs.db --algorithm Summary --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "only list runs of this algorithm")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run archive")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one archived run",
		Long: `Show an archived run: its parameters, its outputs in canonical form and the
descriptor pool it produced, if any.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to SQLite run archive")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	st, err := opts.openStore(true)
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeStore(st)

	runs, err := st.ListRuns(commandContext(cmd), opts.Algorithm)
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, ErrCodeStore, "failed to list runs", err), nil)
	}

	rows := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		names := make([]string, 0, len(r.Outputs))
		for _, o := range r.Outputs {
			names = append(names, o.Name)
		}
		rows = append(rows, RunSummary{ID: r.ID, Seq: r.Seq, Algorithm: r.Algorithm, Outputs: names})
	}
	return f.Success(rows, func(w io.Writer) error {
		if len(rows) == 0 {
			fmt.Fprintln(w, "No runs found.")
			return nil
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%4d  %s  %s  %s\n", r.Seq, r.ID, r.Algorithm, strings.Join(r.Outputs, ","))
		}
		return nil
	})
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	st, err := opts.openStore(true)
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		return f.Fail(WrapExitError(ExitCommandError, ErrCodeNotFound, "no such run", err), nil)
	}
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, ErrCodeStore, "failed to read run", err), nil)
	}
	pool, err := st.ReadPool(ctx, id)
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, ErrCodeStore, "failed to read pool", err), nil)
	}

	detail := RunDetail{
		ID:         run.ID,
		Seq:        run.Seq,
		Algorithm:  run.Algorithm,
		Parameters: run.Parameters,
		Outputs:    run.Outputs,
	}
	var tree bytes.Buffer
	if pool.Len() > 0 {
		enc := yaml.NewEncoder(&tree)
		enc.SetIndent(2)
		if err := enc.Encode(pool); err != nil {
			return f.Fail(WrapExitError(ExitFailure, ErrCodeStore, "failed to render pool", err), nil)
		}
		if err := enc.Close(); err != nil {
			return f.Fail(WrapExitError(ExitFailure, ErrCodeStore, "failed to render pool", err), nil)
		}
		detail.Pool = value.NewPool(pool)
	}

	return f.Success(detail, func(w io.Writer) error {
		fmt.Fprintf(w, "run: %s\n", detail.ID)
		fmt.Fprintf(w, "seq: %d\n", detail.Seq)
		fmt.Fprintf(w, "algorithm: %s\n", detail.Algorithm)
		fmt.Fprintln(w, "parameters:")
		if err := writeNamed(indent(w), detail.Parameters); err != nil {
			return err
		}
		fmt.Fprintln(w, "outputs:")
		if err := writeNamed(indent(w), detail.Outputs); err != nil {
			return err
		}
		if tree.Len() > 0 {
			fmt.Fprintln(w, "pool:")
			_, err := indent(w).Write(tree.Bytes())
			return err
		}
		return nil
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// indentWriter prefixes every line written through it with two spaces.
type indentWriter struct {
	w       io.Writer
	midLine bool
}

func indent(w io.Writer) io.Writer {
	return &indentWriter{w: w}
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	var b strings.Builder
	for _, c := range string(p) {
		if !iw.midLine {
			b.WriteString("  ")
		}
		b.WriteRune(c)
		iw.midLine = c != '\n'
	}
	if _, err := io.WriteString(iw.w, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}
