package store

import (
	"path/filepath"
	"testing"
)

// createTestStore opens a fresh ledger in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testRun returns a run with minimal required fields.
func testRun(id, root string) Run {
	return Run{
		ID:               id,
		Root:             root,
		ModelHash:        "model-" + id,
		GeneratorVersion: "0.1.0",
		ModelVersion:     "1",
	}
}
