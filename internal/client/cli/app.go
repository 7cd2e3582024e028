package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/config"
	"github.com/slidesmith/slidesmith/internal/client/dashboard"
	"github.com/slidesmith/slidesmith/internal/client/services"
	"github.com/slidesmith/slidesmith/internal/client/session"
	"github.com/slidesmith/slidesmith/internal/client/tui"
	"github.com/slidesmith/slidesmith/internal/logging"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// runProgram runs a full-screen bubbletea program. Tests replace it to drive
// the models without a terminal.
var runProgram = func(ctx context.Context, m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
}

// renderMarkdown formats preview text for the terminal.
var renderMarkdown = func(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// App holds the services the commands run against.
type App struct {
	config    *config.Config
	log       logging.Logger
	session   *session.Store
	auth      services.AuthService
	artifacts services.ArtifactService
	loader    *dashboard.Loader
	previewer *dashboard.Previewer
	styles    tui.Styles
	reader    *bufio.Reader
}

// NewApp builds an App on top of an initialized session store.
func NewApp(cfg *config.Config, api client.Client, store *session.Store, log logging.Logger) *App {
	return &App{
		config:    cfg,
		log:       log,
		session:   store,
		auth:      services.NewAuthService(api, store, log),
		artifacts: services.NewArtifactService(api, store, cfg.DownloadDir, log),
		loader:    dashboard.NewLoader(api, log),
		previewer: dashboard.NewPreviewer(api, store, log),
		styles:    tui.DefaultStyles(),
		reader:    bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

// getStatus is shown in the REPL prompt.
func (a *App) getStatus() string {
	u, ok := a.session.User()
	switch {
	case ok && u.Name != "":
		return fmt.Sprintf(" (%s)", u.Name)
	case ok:
		return fmt.Sprintf(" (%s)", u.Email)
	case a.isLoggedIn():
		return " (logged in)"
	}
	return ""
}

// Execute runs one command line against a fresh command tree, so flag
// values never leak from one REPL line into the next.
func (a *App) Execute(ctx context.Context, args []string) error {
	return a.ExecuteWith(ctx, args, os.Stdout)
}

// ExecuteWith is Execute with command output sent to out.
func (a *App) ExecuteWith(ctx context.Context, args []string, out io.Writer) error {
	if args == nil {
		args = []string{}
	}
	root := NewRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}
