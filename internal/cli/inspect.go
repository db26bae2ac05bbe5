package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/modgen/internal/ir"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	HashOnly bool
}

// InspectResult is the payload of an inspect response.
type InspectResult struct {
	ModelHash string          `json:"model_hash"`
	Model     json.RawMessage `json:"model,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <module-dir>",
		Short: "Print the aggregated model as canonical JSON",
		Long: `Print the model every generator renders from: asset models, config models,
manifest entries, event routing and extraction skips. The dump is canonical
JSON, so identical sources always print identical bytes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.HashOnly, "hash", false, "print only the model hash")

	return cmd
}

func runInspect(ctx context.Context, opts *InspectOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, err := inspect(ctx, opts.RootOptions, dir)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		if opts.HashOnly {
			result.Model = nil
		}
		return formatter.Success(result)
	}

	if opts.HashOnly {
		fmt.Fprintln(formatter.Writer, result.ModelHash)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, result.Model, "", "  "); err != nil {
		return formatter.Fail(err)
	}
	buf.WriteByte('\n')
	_, err = formatter.Writer.Write(buf.Bytes())
	return err
}

func inspect(ctx context.Context, opts *RootOptions, dir string) (*InspectResult, error) {
	p, err := loadProject(ctx, opts, dir)
	if err != nil {
		return nil, err
	}
	model, err := ir.MarshalCanonical(p.Context)
	if err != nil {
		return nil, loadError(ErrCodeGeneric, err, "encoding model")
	}
	hash, err := ir.ModelHash(p.Context)
	if err != nil {
		return nil, loadError(ErrCodeGeneric, err, "hashing model")
	}
	return &InspectResult{ModelHash: hash, Model: model}, nil
}
