package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/sigbind/internal/value"
)

// createTestStore opens a fresh archive with sequential run IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithRunIDs(&SequenceGenerator{}))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"runs", "pool_descriptors"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	for name, want := range map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"user_version": "1",
	} {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestWriteRun_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteRun(ctx, Run{Algorithm: "Mean"})
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	second, err := s.WriteRun(ctx, Run{ID: "explicit", Algorithm: "Scale"})
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	if first.ID != "run-1" || first.Seq != 1 {
		t.Errorf("first = (%q, %d), want (run-1, 1)", first.ID, first.Seq)
	}
	if second.ID != "explicit" || second.Seq != 2 {
		t.Errorf("second = (%q, %d), want (explicit, 2)", second.ID, second.Seq)
	}

	if _, err := s.WriteRun(ctx, Run{ID: "explicit", Algorithm: "Scale"}); err == nil {
		t.Error("duplicate run ID was accepted")
	}
}

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	written, err := s.WriteRun(ctx, Run{
		Algorithm: "Scale",
		Parameters: []Named{
			{Name: "factor", Value: value.NewFloat(0.5)},
			{Name: "clipping", Value: value.NewBool(false)},
		},
		Outputs: []Named{
			{Name: "signal", Value: value.NewVectorFloat([]float32{0.25, -0.5})},
		},
	})
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, written.ID)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}

	if got.Algorithm != "Scale" || got.Seq != written.Seq {
		t.Errorf("got (%q, %d), want (Scale, %d)", got.Algorithm, got.Seq, written.Seq)
	}
	if len(got.Parameters) != 2 || got.Parameters[0].Name != "factor" || got.Parameters[1].Name != "clipping" {
		t.Fatalf("parameters = %+v, want factor then clipping", got.Parameters)
	}
	factor, err := got.Parameters[0].Value.AsFloat()
	if err != nil || factor != 0.5 {
		t.Errorf("factor = %v (%v), want 0.5", factor, err)
	}
	signal, err := got.Outputs[0].Value.AsVectorFloat()
	if err != nil {
		t.Fatalf("AsVectorFloat() failed: %v", err)
	}
	if len(signal) != 2 || signal[0] != 0.25 || signal[1] != -0.5 {
		t.Errorf("signal = %v, want [0.25 -0.5]", signal)
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_FilterAndOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, algo := range []string{"Mean", "Scale", "Mean"} {
		if _, err := s.WriteRun(ctx, Run{Algorithm: algo}); err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", algo, err)
		}
	}

	all, err := s.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	for i, run := range all {
		if run.Seq != int64(i+1) {
			t.Errorf("all[%d].Seq = %d, want %d", i, run.Seq, i+1)
		}
	}

	means, err := s.ListRuns(ctx, "Mean")
	if err != nil {
		t.Fatalf("ListRuns(Mean) failed: %v", err)
	}
	if len(means) != 2 || means[0].ID != "run-1" || means[1].ID != "run-3" {
		t.Errorf("means = %+v, want run-1 and run-3", means)
	}

	none, err := s.ListRuns(ctx, "RMS")
	if err != nil {
		t.Fatalf("ListRuns(RMS) failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("none = %#v, want empty non-nil slice", none)
	}
}

func TestPool_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.WriteRun(ctx, Run{Algorithm: "Summary"})
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	pool := value.NewStore()
	mustStore(t, pool.Set("summary.mean", value.NewFloat(3)))
	mustStore(t, pool.Set("summary.algorithm", value.NewString("Summary")))
	mustStore(t, pool.Set("summary.range", value.NewVectorFloat([]float32{2, 4})))
	mustStore(t, pool.Add("summary.frames", value.NewVectorFloat([]float32{1, 2})))
	mustStore(t, pool.Add("summary.frames", value.NewVectorFloat([]float32{3})))

	if err := s.WritePool(ctx, run.ID, pool); err != nil {
		t.Fatalf("WritePool() failed: %v", err)
	}

	got, err := s.ReadPool(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadPool() failed: %v", err)
	}
	if !got.Owning() {
		t.Error("ReadPool() returned a view")
	}

	wantKeys := pool.Keys()
	gotKeys := got.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("keys = %v, want %v", gotKeys, wantKeys)
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("keys[%d] = %q, want %q", i, gotKeys[i], wantKeys[i])
		}
		want, _ := pool.Get(wantKeys[i])
		have, err := got.Get(wantKeys[i])
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", wantKeys[i], err)
		}
		if have.String() != want.String() {
			t.Errorf("%s = %s, want %s", wantKeys[i], have, want)
		}
	}
}

func TestWritePool_Replaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.WriteRun(ctx, Run{Algorithm: "Summary"})
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	first := value.NewStore()
	mustStore(t, first.Set("a", value.NewFloat(1)))
	mustStore(t, first.Set("b", value.NewFloat(2)))
	second := value.NewStore()
	mustStore(t, second.Set("c", value.NewFloat(3)))

	if err := s.WritePool(ctx, run.ID, first); err != nil {
		t.Fatalf("WritePool(first) failed: %v", err)
	}
	if err := s.WritePool(ctx, run.ID, second); err != nil {
		t.Fatalf("WritePool(second) failed: %v", err)
	}

	got, err := s.ReadPool(ctx, run.ID)
	if err != nil {
		t.Fatalf("ReadPool() failed: %v", err)
	}
	if keys := got.Keys(); len(keys) != 1 || keys[0] != "c" {
		t.Errorf("keys = %v, want [c]", keys)
	}
}

func TestWritePool_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	pool := value.NewStore()
	mustStore(t, pool.Set("a", value.NewFloat(1)))
	if err := s.WritePool(context.Background(), "missing", pool); err == nil {
		t.Error("WritePool() for an unknown run succeeded")
	}
}

func mustStore(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("store write failed: %v", err)
	}
}
