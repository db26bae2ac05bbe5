package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modgen/internal/testutil"
)

var shopModule = map[string]string{
	"go.mod": "module example.com/shop\n\ngo 1.22\n",
	"modrt/modrt.go": `package modrt

type AssetData struct{}
`,
	"shop.go": `package shop

import "example.com/shop/modrt"

type Item struct{ Price int }

//modgen:entry
type Shop struct {
	//modgen:asset "/Catalog"
	Catalog map[string]Item

	//modgen:asset "Portraits/Shopkeeper"
	portrait *modrt.AssetData
}

//modgen:load "/Bad"
func (s *Shop) Bad(n int) {}

//modgen:event
func Orphan(sender any, i *Item) {}
`,
	"manifest/assets.cue": `files: {
	"assets/portrait.png": load: "Portraits/Shopkeeper"
	"assets/readme.txt": priority: 1
}
`,
}

// execute runs the root command and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(diag)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func decode(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func TestGenerateWritesArtifacts(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)

	out, err := execute(t, "generate", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Generated")
	assert.Contains(t, out, "shop_assets.gen.go")
	assert.Contains(t, out, "1 marker(s) skipped")
	assert.FileExists(t, filepath.Join(root, "shop_assets.gen.go"))
	assert.FileExists(t, filepath.Join(root, "constants.gen.go"))

	out, err = execute(t, "generate", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, ": 0 written,")
	assert.Contains(t, out, "0 pruned")
}

func TestGenerateJSON(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)

	out, err := execute(t, "--format", "json", "generate", root)
	require.NoError(t, err, out)

	resp := decode(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["model_hash"])
	assert.Equal(t, false, data["dry_run"])
	assert.Equal(t, float64(1), data["skipped"])
	assert.Greater(t, data["written"], float64(0))
}

func TestGenerateDryRun(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)

	out, err := execute(t, "generate", "--dry-run", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Would generate")
	assert.NoFileExists(t, filepath.Join(root, "shop_assets.gen.go"))
}

func TestGenerateOutDir(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)
	outDir := filepath.Join(t.TempDir(), "gen")

	_, err := execute(t, "generate", "--out", outDir, root)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "shop_assets.gen.go"))
	assert.NoFileExists(t, filepath.Join(root, "shop_assets.gen.go"))
}

func TestGenerateConfiguredOutDirAndLedger(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)
	testutil.WriteFiles(t, root, map[string]string{
		"modgen.yaml": "unique_id: Author.Shop\nout_dir: gen\nledger: .modgen/ledger.db\n",
	})

	out, err := execute(t, "generate", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Recorded run ")
	assert.FileExists(t, filepath.Join(root, ".modgen", "ledger.db"))

	constants := testutil.ReadFile(t, root, "gen/constants.gen.go")
	assert.Contains(t, constants, `"Author.Shop"`)
}

func TestGeneratePrunesStaleArtifacts(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)
	_, err := execute(t, "generate", root)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "shop_assets.gen.go"))

	// Dropping the entry marker removes the asset model.
	src := testutil.ReadFile(t, root, "shop.go")
	src = string(bytes.Replace([]byte(src), []byte("//modgen:entry\n"), nil, 1))
	testutil.WriteFiles(t, root, map[string]string{"shop.go": src})

	out, err := execute(t, "generate", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "pruned")
	assert.NoFileExists(t, filepath.Join(root, "shop_assets.gen.go"))
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  string
	}{
		{"bad config", map[string]string{"modgen.yaml": "bogus: 1\n"}, ErrCodeConfig},
		{"bad manifest", map[string]string{"manifest/assets.cue": "files: x: priority: 1.5\n"}, ErrCodeManifest},
		{"bad template", map[string]string{
			"modgen.yaml":         "templates_dir: tmpl\n",
			"tmpl/constants.tmpl": "{{.Nope",
		}, ErrCodeTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.WriteTree(t, shopModule)
			testutil.WriteFiles(t, root, tt.files)

			out, err := execute(t, "--format", "json", "generate", root)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decode(t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code, resp.Error.Message)
		})
	}
}

func TestGenerateManifestErrorMessage(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)
	testutil.WriteFiles(t, root, map[string]string{"manifest/assets.cue": "files: x: priority: 1.5\n"})

	out, err := execute(t, "--format", "json", "generate", root)
	require.Error(t, err)

	resp := decode(t, out)
	require.NotNil(t, resp.Error)
	assert.True(t, strings.HasPrefix(resp.Error.Message, "loading asset manifest: "), resp.Error.Message)
	assert.Equal(t, 1, strings.Count(resp.Error.Message, "loading asset manifest"), resp.Error.Message)
}

func TestGenerateMissingDir(t *testing.T) {
	out, err := execute(t, "generate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestInspect(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)

	first, err := execute(t, "inspect", root)
	require.NoError(t, err)
	assert.Contains(t, first, `"unique_id": "example.com/shop"`)
	assert.True(t, json.Valid([]byte(first)))

	second, err := execute(t, "inspect", root)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	out, err := execute(t, "--format", "json", "inspect", root)
	require.NoError(t, err)
	data := decode(t, out).Data.(map[string]any)
	assert.NotEmpty(t, data["model_hash"])
	assert.Contains(t, data, "model")

	hash, err := execute(t, "inspect", "--hash", root)
	require.NoError(t, err)
	assert.Equal(t, data["model_hash"].(string)+"\n", hash)
}

func TestValidate(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)

	out, err := execute(t, "validate", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "E101: handler shop.Orphan")
	assert.Contains(t, out, "shop.go:")
	assert.Contains(t, out, "E102: load marker on")
	assert.Contains(t, out, `E103: manifest entry "assets/readme.txt"`)
	assert.Contains(t, out, "✓ Valid with 3 issue(s)")
	assert.NoFileExists(t, filepath.Join(root, "shop_assets.gen.go"))
}

func TestValidateStrict(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)

	out, err := execute(t, "--format", "json", "validate", "--strict", root)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decode(t, out)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["valid"])
	assert.Len(t, data["issues"], 3)
}

func TestValidateClean(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"go.mod": "module example.com/clean\n\ngo 1.22\n",
		"clean.go": `package clean

//modgen:entry
type Mod struct {
	//modgen:asset "/Data"
	Data map[string]string
}
`,
	})

	out, err := execute(t, "validate", "--strict", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ No issues found")
}

func TestWatchRunsInitialPass(t *testing.T) {
	root := testutil.WriteTree(t, shopModule)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := executeContext(t, ctx, "watch", "--debounce", "10ms", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Generated")
	assert.FileExists(t, filepath.Join(root, "shop_assets.gen.go"))
}

func TestWatchMissingDir(t *testing.T) {
	_, err := execute(t, "watch", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWatchedDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "modgen.yaml"),
		[]byte("manifest_dir: ../assets\ntemplates_dir: tmpl\n"), 0o644))

	dirs := watchedDirs(root, "")
	assert.Equal(t, []string{
		filepath.Join(root, "..", "assets"),
		filepath.Join(root, "tmpl"),
	}, dirs)
}
