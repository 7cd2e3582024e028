package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/client/editor"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/tui"
)

func newEditDeckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit-deck <presentation-id>",
		Short: "Edit slide titles, bullets and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.EditDeck(cmd.Context(), cmd.OutOrStdout(), models.ID(args[0]))
		},
	}
}

// EditDeck opens the slide editor. Slides are saved one at a time with
// ctrl+s; unsaved drafts are reported when the editor closes.
func (a *App) EditDeck(ctx context.Context, w io.Writer, id models.ID) error {
	deck, err := a.artifacts.GetPresentation(ctx, id)
	if err != nil {
		return err
	}

	m := tui.NewDeckModel(ctx, deck, a.artifacts.DeckSaver(deck.ID), a.styles)
	final, err := runProgram(ctx, m)
	if err != nil {
		return fmt.Errorf("run slide editor: %w", err)
	}
	if dm, ok := final.(tui.DeckModel); ok {
		if n := dm.Unsaved(); n > 0 {
			fmt.Fprintf(w, "%d slide(s) left with unsaved changes.\n", n)
		}
	}
	return nil
}

func newEditDocCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit-doc <document-id>",
		Short: "Edit document sections with autosave and AI refine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.EditDoc(cmd.Context(), cmd.OutOrStdout(), models.ID(args[0]))
		},
	}
}

// EditDoc opens the section editor. Edits autosave after a quiet period
// and every pending edit is flushed on exit.
func (a *App) EditDoc(ctx context.Context, w io.Writer, id models.ID) error {
	doc, err := a.artifacts.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	m := tui.NewDocumentModel(ctx, doc, a.sectionBuilder(ctx, doc.ID), a.styles)
	defer func() {
		for _, e := range m.Editors() {
			e.Close()
		}
	}()

	if _, err := runProgram(ctx, m); err != nil {
		return fmt.Errorf("run document editor: %w", err)
	}
	for i, e := range m.Editors() {
		if st := e.Status(); st.Kind == editor.StatusFailed {
			fmt.Fprintf(w, "Section %d: %s\n", i+1, st)
		}
	}
	return nil
}

func (a *App) sectionBuilder(ctx context.Context, docID models.ID) tui.SectionBuilder {
	return func(sec models.Section, notify func()) *editor.SectionEditor {
		return a.sectionEditor(ctx, docID, sec, notify)
	}
}

func (a *App) sectionEditor(ctx context.Context, docID models.ID, sec models.Section, notify func()) *editor.SectionEditor {
	return editor.NewSectionEditor(sec,
		editor.WithSaver(a.artifacts.SectionSaver(docID, sec.ID)),
		editor.WithRefiner(a.artifacts.SectionRefiner(docID, sec.ID)),
		editor.WithFeedbackSender(a.artifacts.SectionFeedback(docID, sec.ID)),
		editor.WithDelay(a.config.AutosaveDelay),
		editor.WithContext(ctx),
		editor.WithNotify(notify),
		editor.WithSectionLogger(a.log),
	)
}

func newRefineCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refine <document-id> <section-id>",
		Short: "Ask the AI to polish one section and save the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Refine(cmd.Context(), cmd.OutOrStdout(), models.ID(args[0]), models.ID(args[1]))
		},
	}
}

// Refine runs one refine on a section outside the editor and prints the
// new text.
func (a *App) Refine(ctx context.Context, w io.Writer, docID, sectionID models.ID) error {
	doc, err := a.artifacts.GetDocument(ctx, docID)
	if err != nil {
		return err
	}

	var sec *models.Section
	for i := range doc.Sections {
		if doc.Sections[i].ID == sectionID {
			sec = &doc.Sections[i]
			break
		}
	}
	if sec == nil {
		return fmt.Errorf("document %s has no section %s", docID, sectionID)
	}

	e := a.sectionEditor(ctx, docID, *sec, nil)
	defer e.Close()

	if err := e.Refine(ctx); err != nil {
		return err
	}
	if st := e.Status(); st.Kind != editor.StatusSaved {
		return errors.New(st.String())
	}
	fmt.Fprintf(w, "%s\n\n%s\n", sec.Title, e.Draft())
	return nil
}
