package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs hands out predictable run IDs: "<prefix>-1", "<prefix>-2", ...
//
// It satisfies store.RunIDGenerator and makes ledger contents comparable
// across test runs.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDs creates a generator. An empty prefix becomes "run".
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next run ID.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
