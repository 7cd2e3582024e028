package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

func newExportCmd(a *App) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "export <id> [id...]",
		Short: "Download presentations (.pptx) and documents (.docx)",
		Long: "Download one or more artifacts into the download directory. " +
			"Existing files are never overwritten; a numbered name is used instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]models.ID, len(args))
			for i, s := range args {
				ids[i] = models.ID(s)
			}
			return a.Export(cmd.Context(), cmd.OutOrStdout(), ids, models.Kind(kind))
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "presentation or document for every id (looked up when empty)")
	return cmd
}

// Export downloads ids in parallel and prints the files written.
func (a *App) Export(ctx context.Context, w io.Writer, ids []models.ID, kind models.Kind) error {
	targets, err := a.resolveTargets(ctx, ids, kind)
	if err != nil {
		return err
	}
	paths, err := a.artifacts.ExportMany(ctx, targets)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(w, "Saved %s\n", p)
	}
	return nil
}
