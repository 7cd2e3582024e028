package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/client/client/clienttest"
)

func TestEditDeck_SavesSlide(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, err := env.run(t, "new-deck", "--topic", "Go", "-n", "2")
	require.NoError(t, err)
	p := env.onlyPresentation(t)

	stubProgram(t, func(m tea.Model) tea.Model {
		m = typeText(m, "!")
		m = command(m, tea.KeyMsg{Type: tea.KeyCtrlS})
		return command(m, tea.KeyMsg{Type: tea.KeyEsc})
	})

	out, err := env.run(t, "edit-deck", p.ID.String())
	require.NoError(t, err)
	assert.Empty(t, out)

	saved := env.backend.Presentation(p.ID)
	assert.Equal(t, "Go 1!", saved.Content[0].Title)
	assert.Equal(t, "Go 2", saved.Content[1].Title)
	assert.Equal(t, []string{"Point A", "Point B"}, saved.Content[0].Bullets)
	assert.Equal(t, 1, env.backend.Hits(clienttest.RouteUpdateSlide))
	assert.Zero(t, env.backend.Hits(clienttest.RouteUpdatePres))
}

func TestEditDeck_ReportsUnsaved(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, err := env.run(t, "new-deck", "--topic", "Go", "-n", "1")
	require.NoError(t, err)
	p := env.onlyPresentation(t)

	stubProgram(t, func(m tea.Model) tea.Model {
		m = typeText(m, "?")
		return command(m, tea.KeyMsg{Type: tea.KeyEsc})
	})

	out, err := env.run(t, "edit-deck", p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "1 slide(s) left with unsaved changes.\n", out)
	assert.Zero(t, env.backend.Hits(clienttest.RouteUpdateSlide))
}

func TestEditDeck_UnknownPresentation(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	stubProgram(t, func(m tea.Model) tea.Model {
		t.Fatal("editor must not open")
		return m
	})

	_, err := env.run(t, "edit-deck", "12345")
	require.Error(t, err)
}

func TestEditDoc_FlushesOnQuit(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, err := env.run(t, "new-doc", "--title", "Report", "--topic", "Sales", "--section", "Intro", "--section", "Body")
	require.NoError(t, err)
	d := env.onlyDocument(t)

	stubProgram(t, func(m tea.Model) tea.Model {
		m = typeText(m, "!")
		return command(m, tea.KeyMsg{Type: tea.KeyEsc})
	})

	_, err = env.run(t, "edit-doc", d.ID.String())
	require.NoError(t, err)

	got := env.backend.Document(d.ID)
	assert.Equal(t, "Generated text for Intro!", got.Sections[0].Content)
	assert.Equal(t, "Generated text for Body", got.Sections[1].Content)
	assert.Equal(t, 1, env.backend.Hits(clienttest.RouteSaveSection))
}

func TestEditDoc_RefineShortcut(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, err := env.run(t, "new-doc", "--title", "Report", "--topic", "Sales", "--section", "Intro")
	require.NoError(t, err)
	d := env.onlyDocument(t)

	stubProgram(t, func(m tea.Model) tea.Model {
		m = command(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
		return command(m, tea.KeyMsg{Type: tea.KeyEsc})
	})

	_, err = env.run(t, "edit-doc", d.ID.String())
	require.NoError(t, err)
	assert.Equal(t, env.backend.RefinedText, env.backend.Document(d.ID).Sections[0].Content)
	assert.Equal(t, 1, env.backend.Hits(clienttest.RouteRefineSection))
}

func TestEditDoc_ReportsFailedSaves(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	_, err := env.run(t, "new-doc", "--title", "Report", "--topic", "Sales", "--section", "Intro")
	require.NoError(t, err)
	d := env.onlyDocument(t)
	env.backend.Fail(clienttest.RouteSaveSection, 500, `{"detail":"disk full"}`)

	stubProgram(t, func(m tea.Model) tea.Model {
		m = typeText(m, "!")
		return command(m, tea.KeyMsg{Type: tea.KeyEsc})
	})

	out, err := env.run(t, "edit-doc", d.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Section 1: Save failed:")
	assert.Equal(t, "Generated text for Intro", env.backend.Document(d.ID).Sections[0].Content)
}
