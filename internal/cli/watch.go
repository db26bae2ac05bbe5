package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/config"
	"github.com/roach88/modgen/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	GenerateOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{GenerateOptions: GenerateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "watch <module-dir>",
		Short: "Regenerate whenever sources change",
		Long: `Run generate once, then again every time a Go source, manifest file,
template or the build configuration changes. Each pass starts from a fresh
scan of the whole module. Stop with Ctrl-C.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output root (default out_dir, else the module root)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "delay for changes to settle before a pass")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	root, err := filepath.Abs(dir)
	if err != nil {
		return formatter.Fail(loadError(ErrCodeNotFound, err, "resolving %s", dir))
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return formatter.Fail(loadError(ErrCodeNotFound, nil, "module directory not found: %s", dir))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pass := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			formatter.VerboseLog("%d file(s) changed", len(changed))
		}
		result, err := generateOnce(ctx, &opts.GenerateOptions, root)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			_ = formatter.Fail(err)
			return err
		}
		for _, w := range result.Warnings {
			formatter.Warn("%s", w)
		}
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		printGenerateResult(formatter, result)
		return nil
	}

	// A failed first pass is reported like any later one; the fix is
	// usually an edit away.
	_ = pass(ctx, nil)

	w, err := watch.New(root, pass,
		watch.WithDebounce(opts.Debounce),
		watch.WithLogger(log),
		watch.WithDirs(watchedDirs(root, opts.Config)...))
	if err != nil {
		return formatter.Fail(err)
	}

	formatter.VerboseLog("Watching %s", root)
	if err := w.Run(ctx); err != nil {
		log.Error("watcher stopped", zap.Error(err))
		return formatter.Fail(err)
	}
	return nil
}

// watchedDirs returns the configured directories that may live outside the
// module tree. The configuration is read again on every pass, so a failure
// to read it here only narrows the watch set.
func watchedDirs(root, configPath string) []string {
	cfg, err := config.Load(root, configPath)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, d := range []string{cfg.ManifestDir, cfg.TemplatesDir} {
		if d != "" {
			dirs = append(dirs, config.Path(root, d))
		}
	}
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			dirs = append(dirs, filepath.Dir(abs))
		}
	}
	return dirs
}

