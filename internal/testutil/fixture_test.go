package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTreeCreatesNestedFiles(t *testing.T) {
	root := WriteTree(t, map[string]string{
		"go.mod":         "module example.com/shop\n",
		"catalog/cat.go": "package catalog\n",
	})

	_, err := os.Stat(filepath.Join(root, "catalog", "cat.go"))
	require.NoError(t, err)
	assert.Equal(t, "module example.com/shop\n", ReadFile(t, root, "go.mod"))
}
