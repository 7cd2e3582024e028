package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

const defaultSlides = 5

func newDeckCmd(a *App) *cobra.Command {
	req := models.CreatePresentationRequest{NumSlides: defaultSlides}
	cmd := &cobra.Command{
		Use:   "new-deck",
		Short: "Generate a presentation from a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.NewDeck(cmd.Context(), cmd.OutOrStdout(), req)
		},
	}
	cmd.Flags().StringVar(&req.Topic, "topic", "", "what the deck is about (prompted when empty)")
	cmd.Flags().IntVarP(&req.NumSlides, "slides", "n", defaultSlides, "number of slides, 1 to 20")
	return cmd
}

// NewDeck asks the backend to generate a presentation and lists its slides.
func (a *App) NewDeck(ctx context.Context, w io.Writer, req models.CreatePresentationRequest) error {
	if req.Topic == "" {
		topic, err := getSimpleText(a.reader, "What should the presentation be about?", w)
		if err != nil {
			return err
		}
		req.Topic = topic
	}

	fmt.Fprintln(w, "Generating presentation…")
	p, err := a.artifacts.CreatePresentation(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Created presentation %s: %s\n", p.ID, p.Topic)
	for i, s := range p.Content {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, s.Title)
	}
	return nil
}

func newDocCmd(a *App) *cobra.Command {
	var (
		req      models.CreateDocumentRequest
		sections []string
	)
	cmd := &cobra.Command{
		Use:   "new-doc",
		Short: "Generate a Word document from a title, topic and section headings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.NewDoc(cmd.Context(), cmd.OutOrStdout(), req, sections)
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "document title (prompted when empty)")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "document topic (prompted when empty)")
	cmd.Flags().StringVar(&req.DocType, "format", "docx", "output format; only docx is supported")
	cmd.Flags().StringArrayVar(&sections, "section", nil, "section heading, repeat for more (prompted when none)")
	return cmd
}

// NewDoc asks the backend to generate a document and lists its sections.
func (a *App) NewDoc(ctx context.Context, w io.Writer, req models.CreateDocumentRequest, sections []string) error {
	var err error
	if req.Title == "" {
		if req.Title, err = getSimpleText(a.reader, "Document title", w); err != nil {
			return err
		}
	}
	if req.Topic == "" {
		if req.Topic, err = getSimpleText(a.reader, "Document topic", w); err != nil {
			return err
		}
	}
	if len(sections) == 0 {
		if sections, err = GetLines(a.reader, "Section headings, one per line", w); err != nil {
			return err
		}
	}
	req.Sections = make([]models.SectionHeading, 0, len(sections))
	for _, s := range sections {
		req.Sections = append(req.Sections, models.SectionHeading{Title: s})
	}

	fmt.Fprintln(w, "Generating document…")
	d, err := a.artifacts.CreateDocument(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Created document %s: %s\n", d.ID, d.Title)
	for i, s := range d.Sections {
		fmt.Fprintf(w, "  %2d. %s (section %s)\n", i+1, s.Title, s.ID)
	}
	return nil
}

func newThemeCmd(a *App) *cobra.Command {
	var req models.ThemeRequest
	cmd := &cobra.Command{
		Use:   "theme <presentation-id>",
		Short: "Change the theme, font and colors of a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.artifacts.ConfigureTheme(cmd.Context(), models.ID(args[0]), req)
			if err != nil {
				return err
			}
			cmd.Printf("Theme updated for %s\n", p.Topic)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.ThemeID, "theme", "", "theme id")
	cmd.Flags().StringVar(&req.FontName, "font", "", "Arial, Calibri, Times New Roman, Segoe UI or Poppins")
	cmd.Flags().StringVar(&req.FontColor, "font-color", "", "text color like #1A2B3C")
	cmd.Flags().StringVar(&req.BackgroundColor, "background", "", "background color like #FFFFFF")
	cmd.Flags().StringVar(&req.AccentColor, "accent", "", "accent color like #FF5F87")
	return cmd
}
