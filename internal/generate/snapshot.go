package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/config"
	"github.com/roach88/modgen/internal/extract"
	"github.com/roach88/modgen/internal/ir"
	"github.com/roach88/modgen/internal/manifest"
	"github.com/roach88/modgen/internal/scan"
)

// Snapshot is the full fact set of a module at one point in time. Every run
// starts from a fresh snapshot.
type Snapshot struct {
	Root          string
	Module        string
	Packages      []scan.PackageInfo
	Facts         *ir.FactSet
	Skips         []extract.Skip
	Dropped       []string // manifest entries without a target
	SourceFiles   int
	ManifestFiles int
}

// Package returns the package in dir.
func (s *Snapshot) Package(dir string) (scan.PackageInfo, bool) {
	for _, p := range s.Packages {
		if p.Dir == dir {
			return p, true
		}
	}
	return scan.PackageInfo{}, false
}

// Load scans the module at root, reads its asset manifest and extracts every
// fact. Defaults of cfg that depend on the module path are resolved in place.
func Load(ctx context.Context, root string, cfg *config.Config, log *zap.Logger) (*Snapshot, error) {
	if log == nil {
		log = zap.NewNop()
	}

	res, err := scan.Dir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	cfg.Resolve(res.Module)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	man, err := manifest.Load(config.Path(root, cfg.ManifestDir), cfg.TypeHints)
	if err != nil {
		return nil, fmt.Errorf("loading asset manifest: %w", err)
	}

	facts, skips := extract.Default().Extract(res.Declarations)
	for _, d := range man.Directs {
		facts.Add(d)
	}

	log.Debug("snapshot loaded",
		zap.String("module", res.Module),
		zap.Int("source_files", res.FileCount),
		zap.Int("manifest_files", man.FileCount),
		zap.Int("declarations", len(res.Declarations)),
		zap.Int("facts", facts.Len()),
		zap.Int("skips", len(skips)))

	return &Snapshot{
		Root:          root,
		Module:        res.Module,
		Packages:      res.Packages,
		Facts:         facts,
		Skips:         skips,
		Dropped:       man.Dropped,
		SourceFiles:   res.FileCount,
		ManifestFiles: man.FileCount,
	}, nil
}
