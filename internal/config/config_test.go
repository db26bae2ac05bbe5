package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.ImplicitUpgrade)
	assert.True(t, cfg.DumpLang)
	assert.True(t, cfg.ConfigStubs)
	assert.Equal(t, "*modrt.Texture", cfg.TypeHints[".png"])
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	doc := `
unique_id: acme.shop
enable_patching: true
runtime_import: example.com/rt
implicit_upgrade: false
type_hints:
  .json: modrt.AssetData
  .tbin: ""
properties:
  author: acme
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(doc), 0o644))

	cfg, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, "acme.shop", cfg.UniqueID)
	assert.True(t, cfg.EnablePatching)
	assert.Equal(t, "example.com/rt", cfg.RuntimeImport)
	assert.False(t, cfg.ImplicitUpgrade)
	assert.True(t, cfg.DumpLang, "unset fields keep their defaults")
	assert.Equal(t, map[string]string{
		".png":  "*modrt.Texture",
		".tmx":  "*modrt.Map",
		".json": "modrt.AssetData",
	}, cfg.TypeHints)
	assert.Equal(t, map[string]string{"author": "acme"}, cfg.Properties)
}

func TestLoadExplicitPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(p, []byte("out_dir: gen\n"), 0o644))
	cfg, err := Load("/nonexistent", p)
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.OutDir)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("uniqe_id: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uniqe_id")
}

func TestLoadMalformedIsConfigError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("unique_id: [\n"), 0o644))

	_, err := Load(root, "")
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, filepath.Join(root, FileName), cerr.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad unique id", `unique_id: "has space"`, "unique_id"},
		{"bad import", `runtime_import: "a b"`, "runtime_import"},
		{"escaping root", `root_package: ../elsewhere`, "root_package"},
		{"hint without dot", "type_hints:\n  png: x", "must start with a dot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.Resolve("example.com/shop")
	assert.Equal(t, "example.com/shop", cfg.UniqueID)
	assert.Equal(t, "example.com/shop/modrt", cfg.RuntimeImport)
	assert.Equal(t, "example.com/shop/modrt", cfg.EventsImport)
	assert.Equal(t, ".", cfg.RootPackage)

	cfg = &Config{UniqueID: "x", RuntimeImport: "rt", RootPackage: "./cmd/"}
	cfg.Resolve("example.com/shop")
	assert.Equal(t, "x", cfg.UniqueID)
	assert.Equal(t, "rt", cfg.EventsImport)
	assert.Equal(t, "cmd", cfg.RootPackage)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "", Path("/root", ""))
	assert.Equal(t, "/abs", Path("/root", "/abs"))
	assert.Equal(t, filepath.Join("/root", "rel"), Path("/root", "rel"))
}
