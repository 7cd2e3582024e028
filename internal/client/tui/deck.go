package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slidesmith/slidesmith/internal/client/editor"
	"github.com/slidesmith/slidesmith/internal/client/models"
)

type slideSavedMsg struct {
	index int
	err   error
}

// DeckModel edits the slides of one presentation. Slides keep their drafts
// while the user moves between them; nothing is saved until ctrl+s.
type DeckModel struct {
	ctx     context.Context
	deck    models.Presentation
	editors []*editor.SlideEditor
	idx     int
	focus   editor.Field

	title   textinput.Model
	bullets textarea.Model
	comment textinput.Model

	styles  Styles
	message string
	isErr   bool
	done    bool
}

func NewDeckModel(ctx context.Context, deck models.Presentation, saver editor.SlideSaver, styles Styles) DeckModel {
	m := DeckModel{ctx: ctx, deck: deck, styles: styles, focus: editor.FieldTitle}
	for i, s := range deck.Content {
		m.editors = append(m.editors, editor.NewSlideEditor(i, s, saver))
	}

	m.title = textinput.New()
	m.title.Placeholder = "Slide title"
	m.title.CharLimit = 200

	m.bullets = textarea.New()
	m.bullets.ShowLineNumbers = false
	m.bullets.Placeholder = "One bullet per line"
	m.bullets.SetWidth(80)
	m.bullets.SetHeight(8)

	m.comment = textinput.New()
	m.comment.Placeholder = "Optional feedback comment"

	m.load()
	m.applyFocus()
	return m
}

func (m *DeckModel) current() *editor.SlideEditor {
	if len(m.editors) == 0 {
		return nil
	}
	return m.editors[m.idx]
}

func (m *DeckModel) load() {
	e := m.current()
	if e == nil {
		return
	}
	m.title.SetValue(e.Title())
	m.bullets.SetValue(e.BulletsText())
	m.comment.SetValue(e.Feedback().Comment)
}

func (m *DeckModel) applyFocus() {
	m.title.Blur()
	m.bullets.Blur()
	m.comment.Blur()
	switch m.focus {
	case editor.FieldTitle:
		m.title.Focus()
	case editor.FieldBullets:
		m.bullets.Focus()
	case editor.FieldComment:
		m.comment.Focus()
	}
}

func (m *DeckModel) moveFocus(delta int) {
	m.focus = editor.Field((int(m.focus) + delta + 3) % 3)
	m.applyFocus()
}

func (m DeckModel) Init() tea.Cmd { return textinput.Blink }

// Done reports whether the user left the screen.
func (m DeckModel) Done() bool { return m.done }

// Focus returns the focused field.
func (m DeckModel) Focus() editor.Field { return m.focus }

// Editors exposes the slide editors, mainly for tests.
func (m DeckModel) Editors() []*editor.SlideEditor { return m.editors }

// Unsaved counts slides with local edits.
func (m DeckModel) Unsaved() int {
	n := 0
	for _, e := range m.editors {
		if e.Dirty() {
			n++
		}
	}
	return n
}

func (m DeckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.bullets.SetWidth(msg.Width - 4)
			m.title.Width = msg.Width - 4
			m.comment.Width = msg.Width - 4
		}
		return m, nil

	case slideSavedMsg:
		if msg.err != nil {
			m.message, m.isErr = fmt.Sprintf("Slide %d not saved: %v", msg.index+1, msg.err), true
			return m, nil
		}
		m.message, m.isErr = fmt.Sprintf("Slide %d saved", msg.index+1), false
		if msg.index == m.idx {
			m.load()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DeckModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyQuit || key == keyInterrupt {
		m.done = true
		return m, tea.Quit
	}

	e := m.current()
	if e == nil {
		return m, nil
	}

	switch key {
	case keySave:
		ctx, idx := m.ctx, m.idx
		return m, func() tea.Msg {
			_, err := e.Save(ctx)
			return slideSavedMsg{index: idx, err: err}
		}
	case keyRevert:
		e.Revert()
		m.load()
		m.message, m.isErr = "Changes discarded", false
		return m, nil
	case keyLike:
		e.Toggle(models.ReactionLike)
		return m, nil
	case keyDislike:
		e.Toggle(models.ReactionDislike)
		return m, nil
	case keyNext, keyPrev:
		if key == keyNext && m.idx < len(m.editors)-1 {
			m.idx++
		} else if key == keyPrev && m.idx > 0 {
			m.idx--
		}
		m.message = ""
		m.load()
		return m, nil
	case keyBackFocus:
		m.moveFocus(-1)
		return m, nil
	}

	if editor.Indents(m.focus, key) {
		m.bullets.InsertString(editor.Indent)
		e.SetBullets(m.bullets.Value())
		return m, nil
	}
	if key == editor.IndentKey {
		m.moveFocus(1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case editor.FieldTitle:
		m.title, cmd = m.title.Update(msg)
		if v := m.title.Value(); v != e.Title() {
			e.SetTitle(v)
		}
	case editor.FieldBullets:
		m.bullets, cmd = m.bullets.Update(msg)
		if v := m.bullets.Value(); v != e.BulletsText() {
			e.SetBullets(v)
		}
	case editor.FieldComment:
		m.comment, cmd = m.comment.Update(msg)
		if v := m.comment.Value(); v != e.Feedback().Comment {
			e.SetComment(v)
		}
	}
	return m, cmd
}

func (m DeckModel) label(f editor.Field, text string) string {
	if m.focus == f {
		return m.styles.Focused.Render("› " + text)
	}
	return m.styles.Label.Render("  " + text)
}

func (m DeckModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.deck.Topic))
	b.WriteString("\n")

	e := m.current()
	if e == nil {
		b.WriteString(m.styles.Muted.Render("This presentation has no slides."))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("esc quit"))
		return b.String()
	}

	header := fmt.Sprintf("Slide %d/%d", m.idx+1, len(m.editors))
	if e.Dirty() {
		header += " (modified)"
	}
	b.WriteString(m.styles.Label.Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.label(editor.FieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.label(editor.FieldBullets, "Bullets"))
	b.WriteString("\n")
	b.WriteString(m.bullets.View())
	b.WriteString("\n\n")

	fb := e.Feedback()
	reaction := "none"
	if fb.Reaction != models.ReactionNone {
		reaction = string(fb.Reaction)
	}
	b.WriteString(m.label(editor.FieldComment, "Feedback: "+reaction))
	b.WriteString("\n")
	b.WriteString(m.comment.View())
	b.WriteString("\n\n")

	if m.message != "" {
		style := m.styles.Status
		if m.isErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("ctrl+s save • ctrl+r revert • ctrl+l/ctrl+d like/dislike • ctrl+n/ctrl+p slide • tab next field • esc quit"))
	return b.String()
}
