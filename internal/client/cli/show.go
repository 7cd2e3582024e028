package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/client/dashboard"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/services"
	"github.com/slidesmith/slidesmith/internal/common"
)

const previewWidth = 100

func newShowCmd(a *App) *cobra.Command {
	var kind string
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Preview a presentation or document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Show(cmd.Context(), cmd.OutOrStdout(), models.ID(args[0]), models.Kind(kind), raw)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "presentation or document (looked up when empty)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print plain text instead of rendered markdown")
	return cmd
}

// Show prints the flattened content of one artifact.
func (a *App) Show(ctx context.Context, w io.Writer, id models.ID, kind models.Kind, raw bool) error {
	targets, err := a.resolveTargets(ctx, []models.ID{id}, kind)
	if err != nil {
		return err
	}

	p := a.previewer.Open(ctx, targets[0].ID, targets[0].Kind)
	if p.Err != nil {
		return fmt.Errorf("%s: %w", dashboard.PreviewErrorTitle, p.Err)
	}

	fmt.Fprintln(w, a.styles.Title.Render(p.Title))
	if raw {
		fmt.Fprintln(w, p.Body)
		return nil
	}
	out, err := renderMarkdown(markdownBody(p.Body), previewWidth)
	if err != nil {
		a.log.Warn(ctx, "render preview failed", "error", err)
		fmt.Fprintln(w, p.Body)
		return nil
	}
	fmt.Fprint(w, out)
	return nil
}

// markdownBody keeps the line structure of a preview when it is rendered as
// markdown, where single newlines would otherwise be folded.
func markdownBody(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" && l != "---" {
			lines[i] = l + "  "
		}
	}
	return strings.Join(lines, "\n")
}

// resolveTargets maps ids to export targets. With an explicit kind no
// request is made; otherwise the dashboard listing supplies kind, title and
// download URL.
func (a *App) resolveTargets(ctx context.Context, ids []models.ID, kind models.Kind) ([]services.ExportTarget, error) {
	targets := make([]services.ExportTarget, 0, len(ids))
	if kind != "" {
		if kind != models.KindPresentation && kind != models.KindDocument {
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		for _, id := range ids {
			targets = append(targets, services.ExportTarget{ID: id, Kind: kind})
		}
		return targets, nil
	}

	view := a.loader.Load(ctx, a.session)
	switch view.State {
	case dashboard.StateGuest:
		return nil, common.ErrNoSession
	case dashboard.StateError:
		return nil, errors.New(view.Message)
	}

	byID := make(map[models.ID]models.Item, len(view.Items))
	for _, it := range view.Items {
		byID[it.ID] = it
	}
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("no project with id %s", id)
		}
		targets = append(targets, services.TargetFromItem(it))
	}
	return targets, nil
}
