package cli

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool
}

// Issue is one finding of validate.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <module-dir>",
		Short: "Report skipped markers and unresolved handlers",
		Long: `Run the pipeline in memory without writing anything and report what the
generated code will silently leave out: markers skipped during extraction,
event handlers no event delivers, manifest entries with neither load nor
merge, and artifacts that could not be formatted.

With --strict, unresolved handlers fail the command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when a handler is unresolved")

	return cmd
}

func runValidate(ctx context.Context, opts *ValidateOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, err := validate(ctx, opts, dir)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printValidationResult(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

func validate(ctx context.Context, opts *ValidateOptions, dir string) (*ValidationResult, error) {
	p, err := loadProject(ctx, opts.RootOptions, dir)
	if err != nil {
		return nil, err
	}
	out, err := p.run(ctx)
	if err != nil {
		return nil, err
	}

	snap := p.Context.Snapshot
	result := &ValidationResult{Valid: true}
	for _, s := range snap.Skips {
		result.Issues = append(result.Issues, Issue{
			Code:     ErrCodeSkipped,
			Message:  fmt.Sprintf("%s marker on %s skipped: %s", s.Kind, s.Decl, s.Reason),
			Position: relPosition(p.Root, s.Pos),
		})
	}
	for _, t := range p.Context.Routing().Unresolved() {
		result.Issues = append(result.Issues, Issue{
			Code:    ErrCodeUnresolved,
			Message: fmt.Sprintf("handler %s.%s: no event delivers %s", t.Package, t.Func, t.PayloadType),
		})
		if opts.Strict {
			result.Valid = false
		}
	}
	for _, name := range snap.Dropped {
		result.Issues = append(result.Issues, Issue{
			Code:    ErrCodeDropped,
			Message: fmt.Sprintf("manifest entry %q has neither load nor merge", name),
		})
	}
	for _, w := range out.Warnings {
		result.Issues = append(result.Issues, Issue{Code: ErrCodeUnformatted, Message: w})
	}
	return result, nil
}

// relPosition prints pos with its file relative to root when possible.
func relPosition(root string, pos token.Position) string {
	if !pos.IsValid() {
		return ""
	}
	if rel, err := filepath.Rel(root, pos.Filename); err == nil && filepath.IsLocal(rel) {
		pos.Filename = filepath.ToSlash(rel)
	}
	return pos.String()
}

func printValidationResult(f *OutputFormatter, r *ValidationResult) {
	w := f.Writer
	for _, issue := range r.Issues {
		if issue.Position != "" {
			fmt.Fprintf(w, "%s: ", issue.Position)
		}
		fmt.Fprintf(w, "%s: %s\n", issue.Code, issue.Message)
	}
	switch {
	case !r.Valid:
		fmt.Fprintf(w, "✗ Validation failed with %d issue(s)\n", len(r.Issues))
	case len(r.Issues) > 0:
		fmt.Fprintf(w, "✓ Valid with %d issue(s)\n", len(r.Issues))
	default:
		fmt.Fprintln(w, "✓ No issues found")
	}
}
