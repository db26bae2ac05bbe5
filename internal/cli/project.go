package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/roach88/modgen/internal/config"
	"github.com/roach88/modgen/internal/emit"
	"github.com/roach88/modgen/internal/generate"
	"github.com/roach88/modgen/internal/manifest"
	"github.com/roach88/modgen/internal/render"
	"github.com/roach88/modgen/internal/store"
)

// project is a module loaded for one pipeline pass.
type project struct {
	Root    string
	Config  *config.Config
	Context *generate.Context
}

// loadProject reads the configuration, snapshot and templates of the module
// in dir. Every failure is a *LoadError.
func loadProject(ctx context.Context, opts *RootOptions, dir string) (*project, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, loadError(ErrCodeNotFound, nil, "module directory not found: %s", dir)
	}
	if err != nil {
		return nil, loadError(ErrCodeNotFound, err, "accessing module directory")
	}
	if !info.IsDir() {
		return nil, loadError(ErrCodeNotFound, nil, "not a directory: %s", dir)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, loadError(ErrCodeNotFound, err, "resolving %s", dir)
	}

	cfg, err := config.Load(root, opts.Config)
	if err != nil {
		return nil, loadError(ErrCodeConfig, err, "loading build configuration")
	}

	log := opts.logger()
	snap, err := generate.Load(ctx, root, cfg, log)
	if err != nil {
		var compileErr *manifest.CompileError
		if errors.As(err, &compileErr) {
			return nil, &LoadError{Code: ErrCodeManifest, Message: err.Error(), Err: err}
		}
		return nil, loadError(ErrCodeScanError, err, "loading module")
	}

	renderer, err := render.FromDir(config.Path(root, cfg.TemplatesDir))
	if err != nil {
		return nil, loadError(ErrCodeTemplate, err, "loading templates")
	}

	return &project{
		Root:   root,
		Config: cfg,
		Context: &generate.Context{
			Snapshot: snap,
			Config:   cfg,
			Renderer: renderer,
			Logger:   log,
		},
	}, nil
}

// run renders every artifact in memory.
func (p *project) run(ctx context.Context) (*generate.Output, error) {
	out, err := generate.Run(ctx, p.Context, generate.Default()...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, loadError(ErrCodeTemplate, err, "generating")
	}
	return out, nil
}

// outRoot is the directory artifact names are relative to. override wins
// over the configured out_dir; both default to the module root.
func (p *project) outRoot(override string) string {
	if override != "" {
		return override
	}
	if p.Config.OutDir != "" {
		return config.Path(p.Root, p.Config.OutDir)
	}
	return p.Root
}

// emitter returns an emitter for root, with the ledger opened when one is
// configured. The returned close func is never nil.
func (p *project) emitter(opts *RootOptions, root string, dryRun bool) (*emit.Emitter, func(), error) {
	e := &emit.Emitter{
		Root:   root,
		IDs:    store.UUIDv7Generator{},
		DryRun: dryRun,
		Logger: opts.logger(),
	}
	if p.Config.Ledger == "" {
		return e, func() {}, nil
	}
	path := config.Path(p.Root, p.Config.Ledger)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, loadError(ErrCodeLedger, err, "creating ledger directory")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, loadError(ErrCodeLedger, err, "opening ledger %s", path)
	}
	e.Ledger = st
	return e, func() { _ = st.Close() }, nil
}
