package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modgen/internal/ir"
)

// AssertGolden compares data against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// AssertGoldenCanonical serializes v as canonical JSON and compares it
// against a golden file.
func AssertGoldenCanonical(t *testing.T, name string, v any) {
	t.Helper()
	data, err := ir.MarshalCanonical(v)
	require.NoError(t, err)
	AssertGolden(t, name, data)
}
