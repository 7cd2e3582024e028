package editor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

// ErrNoSaveHandler is returned by Save when the editor has nowhere to
// persist to.
var ErrNoSaveHandler = errors.New("no save handler")

// Field names an input of the slide editor.
type Field int

const (
	FieldTitle Field = iota
	FieldBullets
	FieldComment
)

// IndentKey is the key that indents inside the bullets field.
const IndentKey = "tab"

// Indent is what IndentKey inserts.
const Indent = "  "

// SlideSaver persists one slide of a deck and returns the stored version.
type SlideSaver interface {
	SaveSlide(ctx context.Context, index int, slide models.Slide) (models.Slide, error)
}

type SlideSaverFunc func(ctx context.Context, index int, slide models.Slide) (models.Slide, error)

func (f SlideSaverFunc) SaveSlide(ctx context.Context, index int, slide models.Slide) (models.Slide, error) {
	return f(ctx, index, slide)
}

// Indents reports whether key inserts an indent in field.
func Indents(field Field, key string) bool {
	return field == FieldBullets && key == IndentKey
}

// HandleKey applies the editor's custom key rules. Inside the bullets field
// the indent key inserts two spaces at cursor (a rune offset) instead of
// moving focus. It returns the new text and cursor and whether the key was
// consumed.
func HandleKey(field Field, key, text string, cursor int) (string, int, bool) {
	if !Indents(field, key) {
		return text, cursor, false
	}
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	out := string(runes[:cursor]) + Indent + string(runes[cursor:])
	return out, cursor + len([]rune(Indent)), true
}

// SlideEditor keeps an uncommitted copy of one slide. Title and bullet text
// are stored exactly as typed; trimming only happens in Save.
type SlideEditor struct {
	mu       sync.Mutex
	index    int
	server   models.Slide
	title    string
	bullets  string
	feedback Feedback
	rev      uint64
	saver    SlideSaver
}

func NewSlideEditor(index int, slide models.Slide, saver SlideSaver) *SlideEditor {
	e := &SlideEditor{index: index, saver: saver}
	e.reset(slide)
	return e
}

func (e *SlideEditor) reset(slide models.Slide) {
	e.server = slide.Clone()
	e.title = slide.Title
	e.bullets = strings.Join(slide.Bullets, "\n")
	e.feedback = Feedback{Reaction: slide.Feedback, Comment: slide.Comment}
	e.rev++
}

func (e *SlideEditor) Index() int { return e.index }

func (e *SlideEditor) SetTitle(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = s
	e.rev++
}

func (e *SlideEditor) SetBullets(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bullets = s
	e.rev++
}

func (e *SlideEditor) SetComment(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feedback.Comment = s
	e.rev++
}

// Toggle flips the reaction and returns the resulting feedback.
func (e *SlideEditor) Toggle(r models.Reaction) Feedback {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feedback = e.feedback.Toggle(r)
	e.rev++
	return e.feedback
}

func (e *SlideEditor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

func (e *SlideEditor) BulletsText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bullets
}

func (e *SlideEditor) Feedback() Feedback {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback
}

// Server returns the last slide the backend confirmed.
func (e *SlideEditor) Server() models.Slide {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.server.Clone()
}

// Draft is the slide Save would send.
func (e *SlideEditor) Draft() models.Slide {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draftLocked()
}

func (e *SlideEditor) draftLocked() models.Slide {
	out := e.server.Clone()
	out.Title = strings.TrimSpace(e.title)
	out.Bullets = splitBullets(e.bullets)
	out.Feedback = e.feedback.Reaction
	out.Comment = strings.TrimSpace(e.feedback.Comment)
	return out
}

func splitBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Dirty reports whether the draft differs from the server copy.
func (e *SlideEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title != e.server.Title ||
		e.bullets != strings.Join(e.server.Bullets, "\n") ||
		e.feedback != Feedback{Reaction: e.server.Feedback, Comment: e.server.Comment}
}

// Revert drops local edits and restores the server copy.
func (e *SlideEditor) Revert() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset(e.server)
}

// Save persists the cleaned-up draft. On success the stored slide becomes
// the server copy and, unless the user kept typing meanwhile, the draft is
// rebuilt from it. On failure the draft is left untouched.
func (e *SlideEditor) Save(ctx context.Context) (models.Slide, error) {
	e.mu.Lock()
	if e.saver == nil {
		e.mu.Unlock()
		return models.Slide{}, ErrNoSaveHandler
	}
	slide := e.draftLocked()
	rev := e.rev
	e.mu.Unlock()

	saved, err := e.saver.SaveSlide(ctx, e.index, slide)
	if err != nil {
		return models.Slide{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if rev == e.rev {
		e.reset(saved)
	} else {
		e.server = saved.Clone()
	}
	return saved.Clone(), nil
}
