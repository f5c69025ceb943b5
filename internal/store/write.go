package store

import (
	"context"
	"fmt"

	"github.com/roach88/sigbind/internal/value"
)

// Run is one archived algorithm execution.
type Run struct {
	ID         string
	Seq        int64
	Algorithm  string
	Parameters []Named
	Outputs    []Named
}

// WriteRun archives run. An empty ID is filled from the store's generator and
// Seq is always assigned as one past the highest seq in the archive. The
// stored run is returned.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	paramsJSON, err := marshalNamed(run.Parameters)
	if err != nil {
		return Run{}, fmt.Errorf("write run: parameters: %w", err)
	}
	outputsJSON, err := marshalNamed(run.Outputs)
	if err != nil {
		return Run{}, fmt.Errorf("write run: outputs: %w", err)
	}
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, algorithm, parameters, outputs)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.Algorithm, paramsJSON, outputsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// WritePool stores every descriptor of pool under runID, replacing any pool
// previously written for that run. The run must exist.
func (s *Store) WritePool(ctx context.Context, runID string, pool *value.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write pool: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM pool_descriptors WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("write pool: clear: %w", err)
	}

	for i, key := range pool.Keys() {
		v, err := pool.Get(key)
		if err != nil {
			return fmt.Errorf("write pool: %q: %w", key, err)
		}
		data, err := value.MarshalCanonical(v)
		if err != nil {
			return fmt.Errorf("write pool: %q: %w", key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pool_descriptors (run_id, ordinal, key, value)
			VALUES (?, ?, ?, ?)
		`, runID, i, key, string(data))
		if err != nil {
			return fmt.Errorf("write pool: %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write pool: commit: %w", err)
	}
	return nil
}
