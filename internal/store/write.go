package store

import (
	"context"
	"fmt"
)

// Artifact actions recorded in the ledger.
const (
	ActionWritten   = "written"
	ActionUnchanged = "unchanged"
	ActionPruned    = "pruned"
)

// Run is one recorded emit run.
type Run struct {
	ID               string
	Seq              int64
	Root             string
	ModelHash        string
	GeneratorVersion string
	ModelVersion     string
}

// ArtifactRecord is one artifact of a run.
type ArtifactRecord struct {
	Name      string
	Hash      string
	Generator string
	Action    string
}

// RecordRun writes a run and its artifacts in one transaction. The run's
// seq is assigned here, one past the highest recorded seq, and returned.
func (s *Store) RecordRun(ctx context.Context, run Run, artifacts []ArtifactRecord) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, root, model_hash, generator_version, model_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Root,
		run.ModelHash,
		run.GeneratorVersion,
		run.ModelVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	for _, a := range artifacts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO artifacts (run_id, name, hash, generator, action)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, a.Name, a.Hash, a.Generator, a.Action)
		if err != nil {
			return Run{}, fmt.Errorf("record artifact %s: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}
