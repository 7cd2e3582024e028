package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slidesmith/slidesmith/internal/client/editor"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/session"
	"github.com/slidesmith/slidesmith/internal/common"
	"github.com/slidesmith/slidesmith/internal/logging"
)

// PreviewErrorTitle is the title of a preview that could not be loaded.
const PreviewErrorTitle = "Could not load preview"

const sectionSeparator = "\n\n---\n\n"

// Preview is the flattened text of one artifact.
type Preview struct {
	ID    models.ID
	Kind  models.Kind
	Title string
	Body  string
	Err   error
	Stale bool
}

// Fetcher is the part of the API client the previewer needs.
type Fetcher interface {
	GetRaw(ctx context.Context, token string, kind models.Kind, id models.ID) (json.RawMessage, error)
}

type Previewer struct {
	api  Fetcher
	sess session.Source
	log  logging.Logger
	seq  editor.Sequencer
}

func NewPreviewer(api Fetcher, sess session.Source, log logging.Logger) *Previewer {
	return &Previewer{api: api, sess: sess, log: log.With("component", "preview")}
}

// Open fetches the artifact and renders it as text. It never fails: errors
// are reported inside the returned Preview.
func (p *Previewer) Open(ctx context.Context, id models.ID, kind models.Kind) Preview {
	ticket := p.seq.Next("preview")
	out := p.open(ctx, id, kind)
	out.Stale = !p.seq.Current(ticket)
	return out
}

func (p *Previewer) open(ctx context.Context, id models.ID, kind models.Kind) Preview {
	fail := func(err error) Preview {
		p.log.Warn(ctx, "preview failed", "id", id.String(), "kind", string(kind), "error", err)
		return Preview{ID: id, Kind: kind, Title: PreviewErrorTitle, Body: err.Error(), Err: err}
	}

	snap := p.sess.Snapshot()
	if !snap.Authenticated() {
		return fail(common.ErrNoSession)
	}

	raw, err := p.api.GetRaw(ctx, snap.Token, kind, id)
	if err != nil {
		return fail(err)
	}

	title, body := Render(kind, raw)
	if title == "" {
		title = fmt.Sprintf("%s %s", kindLabel(kind), id)
	}
	return Preview{ID: id, Kind: kind, Title: title, Body: body}
}

func kindLabel(k models.Kind) string {
	switch k {
	case models.KindPresentation:
		return "Presentation"
	case models.KindDocument:
		return "Document"
	default:
		return "Item"
	}
}

// Render flattens a raw artifact payload into a title and body text.
func Render(kind models.Kind, raw json.RawMessage) (string, string) {
	var head struct {
		Title    string          `json:"title"`
		Topic    string          `json:"topic"`
		Content  json.RawMessage `json:"content"`
		Slides   json.RawMessage `json:"slides"`
		Sections json.RawMessage `json:"sections"`
		Body     json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", dump(raw)
	}
	title := firstNonBlank(head.Title, head.Topic)

	if kind == models.KindPresentation {
		for _, candidate := range []json.RawMessage{head.Content, head.Slides} {
			var slides []models.Slide
			if len(candidate) > 0 && json.Unmarshal(candidate, &slides) == nil {
				return title, RenderSlides(slides)
			}
		}
	}

	var sections []models.Section
	if len(head.Sections) > 0 && json.Unmarshal(head.Sections, &sections) == nil && len(sections) > 0 {
		return title, RenderSections(sections)
	}

	for _, candidate := range []json.RawMessage{head.Content, head.Body} {
		var s string
		if len(candidate) > 0 && json.Unmarshal(candidate, &s) == nil && strings.TrimSpace(s) != "" {
			return title, s
		}
	}

	return title, dump(raw)
}

// RenderSlides renders each slide as a labeled block.
func RenderSlides(slides []models.Slide) string {
	if len(slides) == 0 {
		return "(no slides)"
	}
	blocks := make([]string, 0, len(slides))
	for i, s := range slides {
		var b strings.Builder
		fmt.Fprintf(&b, "Slide %d: %s", i+1, s.Title)
		for _, bullet := range s.Bullets {
			fmt.Fprintf(&b, "\n• %s", bullet)
		}
		if s.Left != "" {
			fmt.Fprintf(&b, "\nLeft: %s", s.Left)
		}
		if s.Right != "" {
			fmt.Fprintf(&b, "\nRight: %s", s.Right)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// RenderSections renders each section as a labeled block.
func RenderSections(sections []models.Section) string {
	blocks := make([]string, 0, len(sections))
	for i, s := range sections {
		blocks = append(blocks, fmt.Sprintf("Section %d: %s\n%s", i+1, s.Title, s.Content))
	}
	return strings.Join(blocks, sectionSeparator)
}

func dump(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
