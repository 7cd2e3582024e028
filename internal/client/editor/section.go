package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/common"
	"github.com/slidesmith/slidesmith/internal/logging"
)

const (
	// DefaultAutosaveDelay is the quiet period after the last edit before
	// the draft is saved.
	DefaultAutosaveDelay = 1200 * time.Millisecond

	// RefinePrompt is the instruction sent with every refine request.
	RefinePrompt = "Improve clarity, grammar and flow while keeping the meaning."

	// RefineKey triggers refine from the keyboard.
	RefineKey = "alt+enter"
)

var ErrNoRefiner = errors.New("refine is not available")

// SectionSaver persists the body text of one section.
type SectionSaver interface {
	SaveSection(ctx context.Context, content string) error
}

type SectionSaverFunc func(ctx context.Context, content string) error

func (f SectionSaverFunc) SaveSection(ctx context.Context, content string) error {
	return f(ctx, content)
}

// Refiner rewrites content following prompt.
type Refiner interface {
	Refine(ctx context.Context, content, prompt string) (string, error)
}

type RefinerFunc func(ctx context.Context, content, prompt string) (string, error)

func (f RefinerFunc) Refine(ctx context.Context, content, prompt string) (string, error) {
	return f(ctx, content, prompt)
}

// FeedbackSender delivers section feedback to the backend.
type FeedbackSender interface {
	SendFeedback(ctx context.Context, fb Feedback) error
}

type FeedbackSenderFunc func(ctx context.Context, fb Feedback) error

func (f FeedbackSenderFunc) SendFeedback(ctx context.Context, fb Feedback) error {
	return f(ctx, fb)
}

type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusSaving
	StatusSaved
	StatusFailed
	StatusNotPersisted
	StatusRefining
	StatusRefineFailed
	StatusRefineDiscarded
	StatusRefineEmpty
)

// Status is the human readable persistence state of a section.
type Status struct {
	Kind StatusKind
	At   time.Time
	Err  error
}

func (s Status) String() string {
	switch s.Kind {
	case StatusSaving:
		return "Saving…"
	case StatusSaved:
		return "Saved at " + s.At.Format("15:04:05")
	case StatusFailed:
		return fmt.Sprintf("Save failed: %v", s.Err)
	case StatusNotPersisted:
		return "Not persisted (no save handler)"
	case StatusRefining:
		return "Refining…"
	case StatusRefineFailed:
		return fmt.Sprintf("Refine failed: %v", s.Err)
	case StatusRefineDiscarded:
		return "Draft changed while refining; suggestion discarded"
	case StatusRefineEmpty:
		return "Refine returned no text"
	default:
		return ""
	}
}

type SectionOption func(*SectionEditor)

func WithSaver(s SectionSaver) SectionOption {
	return func(e *SectionEditor) { e.saver = s }
}

func WithRefiner(r Refiner) SectionOption {
	return func(e *SectionEditor) { e.refiner = r }
}

func WithFeedbackSender(f FeedbackSender) SectionOption {
	return func(e *SectionEditor) { e.feedbackSender = f }
}

func WithDelay(d time.Duration) SectionOption {
	return func(e *SectionEditor) { e.delay = d }
}

func WithClock(now func() time.Time) SectionOption {
	return func(e *SectionEditor) { e.now = now }
}

// WithContext sets the context debounced saves run under.
func WithContext(ctx context.Context) SectionOption {
	return func(e *SectionEditor) { e.ctx = ctx }
}

// WithNotify registers a callback invoked after every asynchronous state
// change, from whichever goroutine caused it.
func WithNotify(fn func()) SectionOption {
	return func(e *SectionEditor) { e.notify = fn }
}

func WithSectionLogger(l logging.Logger) SectionOption {
	return func(e *SectionEditor) { e.log = l }
}

// SectionEditor holds the draft of one document section. The original text
// captured at construction is what Revert goes back to.
type SectionEditor struct {
	saver          SectionSaver
	refiner        Refiner
	feedbackSender FeedbackSender
	delay          time.Duration
	now            func() time.Time
	ctx            context.Context
	notify         func()
	log            logging.Logger

	debounce *Debouncer
	seq      Sequencer

	mu        sync.Mutex
	original  string
	draft     string
	persisted string
	rev       uint64
	refining  bool
	closed    bool
	status    Status
	feedback  Feedback
}

const saveKey = "save"

func NewSectionEditor(section models.Section, opts ...SectionOption) *SectionEditor {
	e := &SectionEditor{
		delay:     DefaultAutosaveDelay,
		now:       time.Now,
		ctx:       context.Background(),
		log:       logging.Nop(),
		original:  section.Content,
		draft:     section.Content,
		persisted: section.Content,
		feedback:  Feedback{Reaction: section.Feedback, Comment: section.Comment},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.debounce = NewDebouncer(e.delay)
	return e
}

func (e *SectionEditor) changed() {
	if e.notify != nil {
		e.notify()
	}
}

func (e *SectionEditor) Draft() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

func (e *SectionEditor) Original() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.original
}

func (e *SectionEditor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *SectionEditor) Refining() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refining
}

// Dirty reports whether the draft differs from the last persisted text or
// a save is still pending.
func (e *SectionEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft != e.persisted || e.debounce.Pending()
}

func (e *SectionEditor) Feedback() Feedback {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback
}

// Edit replaces the draft and restarts the autosave timer.
func (e *SectionEditor) Edit(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || text == e.draft {
		return
	}
	e.draft = text
	e.rev++
	e.debounce.Trigger(func() {
		_ = e.persist(e.ctx)
	})
}

// Flush saves immediately when there is a pending or unsaved change.
func (e *SectionEditor) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrEditorClosed
	}
	pending := e.debounce.Cancel()
	dirty := e.draft != e.persisted
	e.mu.Unlock()

	if !pending && !dirty {
		return nil
	}
	return e.persist(ctx)
}

// persist sends the current draft to the saver. Results of a save that was
// superseded by a newer one, or that finish after Close, are dropped.
func (e *SectionEditor) persist(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrEditorClosed
	}
	if e.saver == nil {
		e.status = Status{Kind: StatusNotPersisted}
		e.mu.Unlock()
		e.changed()
		return nil
	}
	content := e.draft
	ticket := e.seq.Next(saveKey)
	e.status = Status{Kind: StatusSaving}
	e.mu.Unlock()
	e.changed()

	err := e.saver.SaveSection(ctx, content)

	e.mu.Lock()
	if e.closed || !e.seq.Current(ticket) {
		e.mu.Unlock()
		return err
	}
	if err != nil {
		e.status = Status{Kind: StatusFailed, Err: err}
		e.log.Warn(ctx, "section save failed", "error", err)
	} else {
		e.persisted = content
		e.status = Status{Kind: StatusSaved, At: e.now()}
	}
	e.mu.Unlock()
	e.changed()
	return err
}

// CanRefine reports whether a refine may start now.
func (e *SectionEditor) CanRefine() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && !e.refining && e.refiner != nil && strings.TrimSpace(e.draft) != ""
}

// Refine asks the refiner to rewrite the draft. A non-empty result replaces
// the draft and is saved. Typing does not cancel a refine; if the draft
// changed while the request was in flight the result is discarded so no
// input is lost.
func (e *SectionEditor) Refine(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.closed:
		e.mu.Unlock()
		return common.ErrEditorClosed
	case e.refiner == nil:
		e.mu.Unlock()
		return ErrNoRefiner
	case e.refining:
		e.mu.Unlock()
		return common.ErrRefineRunning
	case strings.TrimSpace(e.draft) == "":
		e.mu.Unlock()
		return common.ErrEmptyDraft
	}
	e.refining = true
	content, rev := e.draft, e.rev
	e.status = Status{Kind: StatusRefining}
	e.mu.Unlock()
	e.changed()

	text, err := e.refiner.Refine(ctx, content, RefinePrompt)

	e.mu.Lock()
	e.refining = false
	if e.closed {
		e.mu.Unlock()
		return common.ErrEditorClosed
	}
	switch {
	case err != nil:
		e.status = Status{Kind: StatusRefineFailed, Err: err}
		e.log.Warn(ctx, "section refine failed", "error", err)
	case strings.TrimSpace(text) == "":
		e.status = Status{Kind: StatusRefineEmpty}
	case rev != e.rev:
		e.status = Status{Kind: StatusRefineDiscarded}
	default:
		e.draft = text
		e.rev++
		e.debounce.Cancel()
		e.mu.Unlock()
		return e.persist(ctx)
	}
	e.mu.Unlock()
	e.changed()
	return err
}

// Shortcut runs refine when key is the refine shortcut and refine is
// possible. It reports whether the key was consumed.
func (e *SectionEditor) Shortcut(ctx context.Context, key string) (bool, error) {
	if key != RefineKey || !e.CanRefine() {
		return false, nil
	}
	return true, e.Refine(ctx)
}

// Revert restores the text captured at construction and saves it.
func (e *SectionEditor) Revert(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrEditorClosed
	}
	e.draft = e.original
	e.rev++
	e.debounce.Cancel()
	e.mu.Unlock()
	return e.persist(ctx)
}

// React toggles the reaction and sends the result with the current comment.
// The local state is rolled back when sending fails.
func (e *SectionEditor) React(ctx context.Context, r models.Reaction) (Feedback, error) {
	e.mu.Lock()
	prev := e.feedback
	e.feedback = e.feedback.Toggle(r)
	fb := e.feedback
	e.mu.Unlock()

	return fb, e.sendFeedback(ctx, prev, fb)
}

// Comment stores the feedback comment and sends it.
func (e *SectionEditor) Comment(ctx context.Context, text string) (Feedback, error) {
	e.mu.Lock()
	prev := e.feedback
	e.feedback.Comment = strings.TrimSpace(text)
	fb := e.feedback
	e.mu.Unlock()

	return fb, e.sendFeedback(ctx, prev, fb)
}

func (e *SectionEditor) sendFeedback(ctx context.Context, prev, fb Feedback) error {
	if e.feedbackSender == nil {
		return nil
	}
	if err := e.feedbackSender.SendFeedback(ctx, fb); err != nil {
		e.mu.Lock()
		if e.feedback == fb {
			e.feedback = prev
		}
		e.mu.Unlock()
		return fmt.Errorf("send feedback: %w", err)
	}
	return nil
}

// Close deactivates the editor. Pending autosaves are dropped and results
// that arrive later are ignored.
func (e *SectionEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.debounce.Stop()
	e.seq.Invalidate(saveKey)
}
