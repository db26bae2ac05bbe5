package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, root, model_hash, generator_version, model_version`

// LastRun returns the most recent run recorded for root, or nil if there is
// none.
func (s *Store) LastRun(ctx context.Context, root string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE root = ?
		ORDER BY seq DESC
		LIMIT 1
	`, root)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	return &run, nil
}

// Runs returns every run recorded for root in seq order.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) Runs(ctx context.Context, root string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE root = ?
		ORDER BY seq ASC
	`, root)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Artifacts returns the artifacts of a run ordered by name.
//
// Returns an empty slice (not nil) if the run has none.
func (s *Store) Artifacts(ctx context.Context, runID string) ([]ArtifactRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, hash, generator, action
		FROM artifacts
		WHERE run_id = ?
		ORDER BY name COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	arts := []ArtifactRecord{}
	for rows.Next() {
		var a ArtifactRecord
		if err := rows.Scan(&a.Name, &a.Hash, &a.Generator, &a.Action); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		arts = append(arts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return arts, nil
}

// Live returns the artifacts the latest run of root left on disk: everything
// it wrote or kept, but not what it pruned. It returns nil without a run.
func (s *Store) Live(ctx context.Context, root string) ([]ArtifactRecord, error) {
	run, err := s.LastRun(ctx, root)
	if err != nil || run == nil {
		return nil, err
	}
	arts, err := s.Artifacts(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	live := arts[:0]
	for _, a := range arts {
		if a.Action != ActionPruned {
			live = append(live, a)
		}
	}
	return live, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Seq, &r.Root, &r.ModelHash, &r.GeneratorVersion, &r.ModelVersion)
	return r, err
}
