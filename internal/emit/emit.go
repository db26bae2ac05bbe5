// Package emit writes rendered artifacts to disk.
//
// Unchanged artifacts are never rewritten, so file modification times only
// move when content does. Artifacts produced by the previous run but not by
// this one are pruned. The previous run is read from the ledger when one is
// configured, otherwise it is discovered from generated files on disk.
package emit

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/generate"
	"github.com/roach88/modgen/internal/ir"
	"github.com/roach88/modgen/internal/scan"
	"github.com/roach88/modgen/internal/store"
)

// GeneratedHeader is the first line of every built-in artifact. Only files
// starting with it are ever pruned.
const GeneratedHeader = "// Code generated by modgen. DO NOT EDIT."

// Action is what happened to one artifact.
type Action string

const (
	Written   Action = store.ActionWritten
	Unchanged Action = store.ActionUnchanged
	Pruned    Action = store.ActionPruned
)

// Change is the outcome for one artifact.
type Change struct {
	Name      string `json:"name"`
	Action    Action `json:"action"`
	Hash      string `json:"hash"`
	Generator string `json:"generator,omitempty"`
}

// Report summarizes an emit.
type Report struct {
	RunID   string   `json:"run_id,omitempty"`
	Root    string   `json:"root"`
	DryRun  bool     `json:"dry_run"`
	Changes []Change `json:"changes"`
}

// Count returns the number of changes with the given action.
func (r *Report) Count(a Action) int {
	n := 0
	for _, c := range r.Changes {
		if c.Action == a {
			n++
		}
	}
	return n
}

// Emitter writes an Output below Root.
type Emitter struct {
	Root string

	// Ledger records each run when set.
	Ledger *store.Store
	IDs    store.RunIDGenerator

	// DryRun computes the report without touching disk or ledger.
	DryRun bool
	Logger *zap.Logger
}

// Emit writes every artifact of out in name order and prunes stale ones.
func (e *Emitter) Emit(ctx context.Context, out *generate.Output) (*Report, error) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	root, err := filepath.Abs(e.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving output root: %w", err)
	}

	previous, err := e.previous(ctx, root)
	if err != nil {
		return nil, err
	}

	report := &Report{Root: root, DryRun: e.DryRun}
	produced := make(map[string]bool, len(out.Artifacts))
	for _, a := range out.Artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		produced[a.Name] = true
		c := Change{Name: a.Name, Hash: a.Hash(), Generator: a.Generator}

		p := filepath.Join(root, filepath.FromSlash(a.Name))
		existing, err := os.ReadFile(p)
		switch {
		case err == nil && bytes.Equal(existing, a.Content):
			c.Action = Unchanged
		case err == nil || errors.Is(err, fs.ErrNotExist):
			c.Action = Written
			if !e.DryRun {
				if err := writeFile(p, a.Content); err != nil {
					return nil, fmt.Errorf("writing %s: %w", a.Name, err)
				}
			}
		default:
			return nil, fmt.Errorf("reading %s: %w", a.Name, err)
		}
		log.Debug("artifact", zap.String("name", a.Name), zap.String("action", string(c.Action)))
		report.Changes = append(report.Changes, c)
	}

	var stale []string
	for name := range previous {
		if !produced[name] {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	for _, name := range stale {
		p := filepath.Join(root, filepath.FromSlash(name))
		ok, err := isGenerated(p)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", name, err)
		}
		if !ok {
			log.Warn("not pruning file without the generated header", zap.String("name", name))
			continue
		}
		if !e.DryRun {
			if err := os.Remove(p); err != nil {
				return nil, fmt.Errorf("pruning %s: %w", name, err)
			}
		}
		report.Changes = append(report.Changes, Change{Name: name, Action: Pruned, Hash: previous[name]})
	}

	if e.Ledger != nil && !e.DryRun {
		if err := e.record(ctx, report, out.ModelHash); err != nil {
			return nil, err
		}
	}
	log.Info("emit finished",
		zap.String("root", root),
		zap.Bool("dry_run", e.DryRun),
		zap.Int("written", report.Count(Written)),
		zap.Int("unchanged", report.Count(Unchanged)),
		zap.Int("pruned", report.Count(Pruned)))
	return report, nil
}

// previous returns the artifacts of the last run, name -> hash.
func (e *Emitter) previous(ctx context.Context, root string) (map[string]string, error) {
	if e.Ledger != nil {
		live, err := e.Ledger.Live(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("reading ledger: %w", err)
		}
		prev := make(map[string]string, len(live))
		for _, a := range live {
			prev[a.Name] = a.Hash
		}
		return prev, nil
	}
	return Discover(root)
}

func (e *Emitter) record(ctx context.Context, report *Report, modelHash string) error {
	ids := e.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	run := store.Run{
		ID:               ids.Generate(),
		Root:             report.Root,
		ModelHash:        modelHash,
		GeneratorVersion: ir.GeneratorVersion,
		ModelVersion:     ir.ModelVersion,
	}
	arts := make([]store.ArtifactRecord, len(report.Changes))
	for i, c := range report.Changes {
		arts[i] = store.ArtifactRecord{Name: c.Name, Hash: c.Hash, Generator: c.Generator, Action: string(c.Action)}
	}
	if _, err := e.Ledger.RecordRun(ctx, run, arts); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	report.RunID = run.ID
	return nil
}

// Discover finds generated artifacts below root: files with the generated
// suffix whose first line is GeneratedHeader. Skipped directories are not
// searched. Hashes are computed from current content.
func Discover(root string) (map[string]string, error) {
	found := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) && p == root {
			return filepath.SkipAll
		}
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && scan.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), scan.GeneratedSuffix) {
			return nil
		}
		ok, err := isGenerated(p)
		if err != nil || !ok {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		found[name] = ir.ArtifactHash(name, data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering artifacts: %w", err)
	}
	return found, nil
}

// isGenerated reports whether p exists and starts with GeneratedHeader.
func isGenerated(p string) (bool, error) {
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.TrimRight(line, "\r\n") == GeneratedHeader, nil
}

// writeFile replaces p atomically, creating parent directories.
func writeFile(p string, data []byte) error {
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".modgen-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}
