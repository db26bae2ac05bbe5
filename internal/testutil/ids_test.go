package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialRunIDs_Increments(t *testing.T) {
	gen := NewSequentialRunIDs("gen")
	assert.Equal(t, "gen-1", gen.Generate())
	assert.Equal(t, "gen-2", gen.Generate())
}

func TestSequentialRunIDs_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "run-1", NewSequentialRunIDs("").Generate())
}

func TestSequentialRunIDs_ThreadSafe(t *testing.T) {
	gen := NewSequentialRunIDs("t")
	seen := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 500)
}
