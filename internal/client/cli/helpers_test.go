package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/client/clienttest"
	"github.com/slidesmith/slidesmith/internal/client/config"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/session"
	"github.com/slidesmith/slidesmith/internal/logging"
)

type testEnv struct {
	app     *App
	backend *clienttest.Backend
	store   *session.Store
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := clienttest.NewBackend(t)

	api, err := client.NewHTTPClient(b.URL(), 5*time.Second, logging.Nop())
	require.NoError(t, err)

	db, err := session.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := session.NewStore(db, logging.Nop())
	require.NoError(t, store.Init(context.Background()))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadDir = t.TempDir()
	cfg.AutosaveDelay = time.Hour

	app := NewApp(cfg, api, store, logging.Nop())
	app.reader = rdr("")
	return &testEnv{app: app, backend: b, store: store, cfg: cfg}
}

// run executes one command line and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := e.app.ExecuteWith(context.Background(), args, &out)
	return out.String(), err
}

// login registers Ada on the fake backend and stores her session directly.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	token := e.backend.AddUser("ada@example.com", "secret1", "Ada")
	require.NoError(t, e.store.Save(context.Background(), token, models.User{
		ID: "user-1", Email: "ada@example.com", Name: "Ada",
	}))
}

func (e *testEnv) onlyPresentation(t *testing.T) models.Presentation {
	t.Helper()
	require.Len(t, e.backend.Presentations, 1)
	for _, p := range e.backend.Presentations {
		return p
	}
	return models.Presentation{}
}

func (e *testEnv) onlyDocument(t *testing.T) models.Document {
	t.Helper()
	require.Len(t, e.backend.Documents, 1)
	for _, d := range e.backend.Documents {
		return d
	}
	return models.Document{}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

// stubProgram replaces the terminal program with drive.
func stubProgram(t *testing.T, drive func(m tea.Model) tea.Model) {
	t.Helper()
	orig := runProgram
	runProgram = func(_ context.Context, m tea.Model) (tea.Model, error) {
		return drive(m), nil
	}
	t.Cleanup(func() { runProgram = orig })
}

// typeText delivers runes to m without running the cursor blink command.
func typeText(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// command delivers msg and feeds the result of its command back once.
func command(m tea.Model, msg tea.Msg) tea.Model {
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		if _, quit := out.(tea.QuitMsg); !quit {
			m, _ = m.Update(out)
		}
	}
	return m
}
