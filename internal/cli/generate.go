package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/emit"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	DryRun bool
	Out    string
}

// GenerateResult is the payload of a generate response.
type GenerateResult struct {
	RunID     string        `json:"run_id,omitempty"`
	Root      string        `json:"root"`
	DryRun    bool          `json:"dry_run"`
	ModelHash string        `json:"model_hash"`
	Written   int           `json:"written"`
	Unchanged int           `json:"unchanged"`
	Pruned    int           `json:"pruned"`
	Skipped   int           `json:"skipped"`
	Changes   []emit.Change `json:"changes"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <module-dir>",
		Short: "Render and write every generated file",
		Long: `Scan the module, aggregate its markers and manifest entries, render every
artifact and write the ones whose content changed. Artifacts produced by a
previous run and no longer produced are removed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "report changes without writing")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output root (default out_dir, else the module root)")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, err := generateOnce(ctx, opts, dir)
	if err != nil {
		return formatter.Fail(err)
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

// generateOnce runs one full pipeline pass: load, render, emit.
func generateOnce(ctx context.Context, opts *GenerateOptions, dir string) (*GenerateResult, error) {
	log := opts.logger()

	p, err := loadProject(ctx, opts.RootOptions, dir)
	if err != nil {
		return nil, err
	}
	for _, s := range p.Context.Snapshot.Skips {
		log.Debug("marker skipped", zap.Stringer("skip", s))
	}

	out, err := p.run(ctx)
	if err != nil {
		return nil, err
	}

	em, closeLedger, err := p.emitter(opts.RootOptions, p.outRoot(opts.Out), opts.DryRun)
	if err != nil {
		return nil, err
	}
	defer closeLedger()

	report, err := em.Emit(ctx, out)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, loadError(ErrCodeWriteFailed, err, "writing artifacts")
	}

	return &GenerateResult{
		RunID:     report.RunID,
		Root:      report.Root,
		DryRun:    report.DryRun,
		ModelHash: out.ModelHash,
		Written:   report.Count(emit.Written),
		Unchanged: report.Count(emit.Unchanged),
		Pruned:    report.Count(emit.Pruned),
		Skipped:   len(p.Context.Snapshot.Skips),
		Changes:   report.Changes,
		Warnings:  out.Warnings,
	}, nil
}

func printGenerateResult(f *OutputFormatter, r *GenerateResult) {
	w := f.Writer
	verb := "Generated"
	if r.DryRun {
		verb = "Would generate"
	}
	fmt.Fprintf(w, "✓ %s %d artifact(s): %d written, %d unchanged, %d pruned\n",
		verb, r.Written+r.Unchanged, r.Written, r.Unchanged, r.Pruned)

	for _, c := range r.Changes {
		if c.Action == emit.Unchanged && !f.Verbose {
			continue
		}
		fmt.Fprintf(w, "  %-9s %s\n", c.Action, c.Name)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(w, "%d marker(s) skipped; run validate for details\n", r.Skipped)
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "Recorded run %s\n", r.RunID)
	}
}
