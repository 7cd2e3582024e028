package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/slidesmith/slidesmith/internal/client/dashboard"
	"github.com/slidesmith/slidesmith/internal/client/models"
)

const (
	guestMessage = "You are browsing as a guest. Log in to see your projects."
	emptyMessage = "No projects yet. Create one with new-deck or new-doc."

	tablePreviewLimit = 60
	createdLayout     = "2006-01-02 15:04"
)

func newListCmd(a *App) *cobra.Command {
	var output string
	q := dashboard.Query{Type: dashboard.TypeAll}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "l"},
		Short:   "List your presentations and documents, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.List(cmd.Context(), cmd.OutOrStdout(), q, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or yaml")
	cmd.Flags().StringVar(&q.Type, "type", dashboard.TypeAll, "all, presentation, document or other")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "case-insensitive text to look for in titles and previews")
	return cmd
}

// List loads the dashboard, applies q and prints the result.
func (a *App) List(ctx context.Context, w io.Writer, q dashboard.Query, output string) error {
	if !dashboard.ValidType(q.Type) {
		return fmt.Errorf("unknown type %q", q.Type)
	}
	switch strings.ToLower(output) {
	case "", "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}

	view := a.loader.Load(ctx, a.session)
	switch view.State {
	case dashboard.StateGuest:
		fmt.Fprintln(w, guestMessage)
		return nil
	case dashboard.StateError:
		return errors.New(view.Message)
	}

	items := dashboard.Filter(view.Items, q)
	if view.State == dashboard.StateEmpty && isTable(output) {
		fmt.Fprintln(w, emptyMessage)
		return nil
	}
	return printItems(w, output, items)
}

func isTable(output string) bool {
	output = strings.ToLower(output)
	return output == "" || output == "table"
}

func printItems(w io.Writer, output string, items []models.Item) error {
	switch strings.ToLower(output) {
	case "", "table":
		if len(items) == 0 {
			fmt.Fprintln(w, "No projects match.")
			return nil
		}
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		tw.AppendHeader(table.Row{"ID", "TYPE", "TITLE", "CREATED", "PREVIEW"})
		for _, it := range items {
			created := "-"
			if !it.CreatedAt.IsZero() {
				created = it.CreatedAt.Local().Format(createdLayout)
			}
			tw.AppendRow(table.Row{
				it.ID,
				it.Kind,
				it.Title,
				created,
				dashboard.Truncate(it.Preview, tablePreviewLimit),
			})
		}
		fmt.Fprintln(w, tw.Render())
	case "json":
		if items == nil {
			items = []models.Item{}
		}
		out, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(out))
	case "yaml":
		out, err := yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(out))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
	return nil
}
