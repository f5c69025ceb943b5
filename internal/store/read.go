package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sigbind/internal/value"
)

// ErrRunNotFound is returned by ReadRun for unknown run IDs.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, algorithm, parameters, outputs
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns archived runs ordered by seq. An empty algorithm lists
// every run.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, algorithm string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, algorithm, parameters, outputs
		FROM runs
		WHERE ? = '' OR algorithm = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, algorithm, algorithm)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadPool rebuilds the pool written for runID as an owning store. A run with
// no pool yields an empty store.
func (s *Store) ReadPool(ctx context.Context, runID string) (*value.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value
		FROM pool_descriptors
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query pool: %w", err)
	}
	defer rows.Close()

	pool := value.NewStore()
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan descriptor: %w", err)
		}
		v, err := value.UnmarshalCanonical([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", key, err)
		}
		if err := pool.Restore(key, v); err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool: %w", err)
	}
	return pool, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                     Run
		paramsJSON, outputsJSON string
	)
	if err := row.Scan(&run.ID, &run.Seq, &run.Algorithm, &paramsJSON, &outputsJSON); err != nil {
		return Run{}, err
	}
	var err error
	if run.Parameters, err = unmarshalNamed(paramsJSON); err != nil {
		return Run{}, fmt.Errorf("run %s: parameters: %w", run.ID, err)
	}
	if run.Outputs, err = unmarshalNamed(outputsJSON); err != nil {
		return Run{}, fmt.Errorf("run %s: outputs: %w", run.ID, err)
	}
	return run, nil
}
