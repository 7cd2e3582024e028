package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slidesmith/slidesmith/internal/client/editor"
	"github.com/slidesmith/slidesmith/internal/client/models"
)

// SectionBuilder creates the editor for one section. notify must be passed
// to editor.WithNotify so background saves refresh the screen.
type SectionBuilder func(sec models.Section, notify func()) *editor.SectionEditor

type statusMsg struct{}

type flushedMsg struct{ err error }

type refinedMsg struct{ err error }

type revertedMsg struct{ err error }

type feedbackMsg struct{ err error }

// DocumentModel edits the sections of one document, one at a time.
type DocumentModel struct {
	ctx     context.Context
	doc     models.Document
	editors []*editor.SectionEditor
	idx     int
	area    textarea.Model
	styles  Styles
	message string
	isErr   bool
	width   int
	height  int
	done    bool

	updates  chan struct{}
	stop     chan struct{}
	stopOnce *sync.Once
}

func NewDocumentModel(ctx context.Context, doc models.Document, build SectionBuilder, styles Styles) DocumentModel {
	m := DocumentModel{
		ctx:      ctx,
		doc:      doc,
		styles:   styles,
		updates:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		stopOnce: &sync.Once{},
	}
	notify := func() {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	}
	for _, sec := range doc.Sections {
		m.editors = append(m.editors, build(sec, notify))
	}

	m.area = textarea.New()
	m.area.ShowLineNumbers = false
	m.area.CharLimit = 0
	m.area.SetWidth(80)
	m.area.SetHeight(12)
	m.area.Focus()
	m.load()
	return m
}

func (m *DocumentModel) current() *editor.SectionEditor {
	if len(m.editors) == 0 {
		return nil
	}
	return m.editors[m.idx]
}

func (m *DocumentModel) load() {
	if e := m.current(); e != nil {
		m.area.SetValue(e.Draft())
	}
}

func (m DocumentModel) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.updates:
			return statusMsg{}
		case <-m.stop:
			return nil
		}
	}
}

func (m DocumentModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForStatus())
}

// Done reports whether the user left the screen.
func (m DocumentModel) Done() bool { return m.done }

// Editors exposes the section editors, mainly for tests.
func (m DocumentModel) Editors() []*editor.SectionEditor { return m.editors }

func (m DocumentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width > 4 {
			m.area.SetWidth(msg.Width - 4)
		}
		if msg.Height > 10 {
			m.area.SetHeight(msg.Height - 8)
		}
		return m, nil

	case statusMsg:
		return m, m.waitForStatus()

	case flushedMsg:
		m.report(msg.err, "")
		return m, nil

	case refinedMsg:
		m.report(msg.err, "")
		m.load()
		return m, nil

	case revertedMsg:
		m.report(msg.err, "Reverted to the original text")
		m.load()
		return m, nil

	case feedbackMsg:
		m.report(msg.err, "")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *DocumentModel) report(err error, ok string) {
	if err != nil {
		m.message, m.isErr = err.Error(), true
		return
	}
	m.message, m.isErr = ok, false
}

func (m DocumentModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.current()
	key := msg.String()

	switch key {
	case keyQuit, keyInterrupt:
		m.done = true
		return m, m.quit()
	}
	if e == nil {
		return m, nil
	}

	switch key {
	case editor.RefineKey:
		if !e.CanRefine() {
			return m, nil
		}
		return m, func() tea.Msg {
			_, err := e.Shortcut(m.ctx, key)
			return refinedMsg{err: err}
		}
	case keySave:
		return m, func() tea.Msg { return flushedMsg{err: e.Flush(m.ctx)} }
	case keyRevert:
		return m, func() tea.Msg { return revertedMsg{err: e.Revert(m.ctx)} }
	case keyLike, keyDislike:
		r := models.ReactionLike
		if key == keyDislike {
			r = models.ReactionDislike
		}
		return m, func() tea.Msg {
			_, err := e.React(m.ctx, r)
			return feedbackMsg{err: err}
		}
	case keyNext, keyPrev:
		if key == keyNext && m.idx < len(m.editors)-1 {
			m.idx++
		} else if key == keyPrev && m.idx > 0 {
			m.idx--
		} else {
			return m, nil
		}
		m.message = ""
		m.load()
		return m, func() tea.Msg { return flushedMsg{err: e.Flush(m.ctx)} }
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if v := m.area.Value(); v != e.Draft() {
		e.Edit(v)
	}
	return m, cmd
}

// quit flushes pending edits, closes every editor and exits.
func (m DocumentModel) quit() tea.Cmd {
	editors, ctx := m.editors, m.ctx
	m.stopOnce.Do(func() { close(m.stop) })
	return func() tea.Msg {
		for _, e := range editors {
			_ = e.Flush(ctx)
			e.Close()
		}
		return tea.Quit()
	}
}

func (m DocumentModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.doc.Title))
	b.WriteString("\n")

	e := m.current()
	if e == nil {
		b.WriteString(m.styles.Muted.Render("This document has no sections."))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("esc quit"))
		return b.String()
	}

	sec := m.doc.Sections[m.idx]
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("Section %d/%d: %s", m.idx+1, len(m.editors), sec.Title)))
	b.WriteString("\n\n")
	b.WriteString(m.area.View())
	b.WriteString("\n")

	status := e.Status().String()
	if fb := e.Feedback(); fb.Reaction != models.ReactionNone {
		status = strings.TrimSpace(status + "  feedback: " + string(fb.Reaction))
	}
	b.WriteString(m.styles.Status.Render(status))
	b.WriteString("\n")
	if m.message != "" {
		style := m.styles.Status
		if m.isErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("alt+enter refine • ctrl+s save • ctrl+r revert • ctrl+l/ctrl+d like/dislike • ctrl+n/ctrl+p section • esc quit"))
	return b.String()
}
