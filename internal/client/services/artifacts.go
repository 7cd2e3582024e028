package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/dashboard"
	"github.com/slidesmith/slidesmith/internal/client/editor"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/filex"
	"github.com/slidesmith/slidesmith/internal/logging"
)

// MaxParallelExports bounds concurrent downloads in ExportMany.
const MaxParallelExports = 4

// TokenSource yields the bearer token of the active session.
type TokenSource interface {
	RequireToken() (string, error)
}

// ExportTarget describes one artifact to download.
type ExportTarget struct {
	ID    models.ID
	Kind  models.Kind
	Title string
	// URL overrides the derived download path when set.
	URL string
}

// TargetFromItem builds an ExportTarget from a dashboard item.
func TargetFromItem(it models.Item) ExportTarget {
	return ExportTarget{ID: it.ID, Kind: it.Kind, Title: it.Title, URL: it.DownloadURL}
}

// ArtifactService defines operations on presentations and documents.
//
// Every method needs an active session and returns common.ErrNoSession
// otherwise. Requests are validated before anything is sent.
type ArtifactService interface {
	CreatePresentation(ctx context.Context, req models.CreatePresentationRequest) (models.Presentation, error)
	CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (models.Document, error)
	ConfigureTheme(ctx context.Context, id models.ID, req models.ThemeRequest) (models.Presentation, error)
	GetPresentation(ctx context.Context, id models.ID) (models.Presentation, error)
	GetDocument(ctx context.Context, id models.ID) (models.Document, error)

	// Export downloads one artifact into the download directory and returns
	// the path written. Existing files are never overwritten.
	Export(ctx context.Context, t ExportTarget) (string, error)
	// ExportMany downloads targets in parallel. Paths are returned in the
	// order of targets; the first failure cancels the rest.
	ExportMany(ctx context.Context, targets []ExportTarget) ([]string, error)

	DeckSaver(id models.ID) editor.SlideSaver
	SectionSaver(docID, sectionID models.ID) editor.SectionSaver
	SectionRefiner(docID, sectionID models.ID) editor.Refiner
	SectionFeedback(docID, sectionID models.ID) editor.FeedbackSender
}

type artifactService struct {
	client      client.Client
	tokens      TokenSource
	downloadDir string
	log         logging.Logger

	// serializes picking a free file name and creating the file
	writeMu sync.Mutex
}

func NewArtifactService(c client.Client, tokens TokenSource, downloadDir string, log logging.Logger) ArtifactService {
	return &artifactService{
		client:      c,
		tokens:      tokens,
		downloadDir: downloadDir,
		log:         log.With("component", "artifacts"),
	}
}

func (s *artifactService) CreatePresentation(ctx context.Context, req models.CreatePresentationRequest) (models.Presentation, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := ValidateRequest(req); err != nil {
		return models.Presentation{}, err
	}
	token, err := s.tokens.RequireToken()
	if err != nil {
		return models.Presentation{}, err
	}
	p, err := s.client.CreatePresentation(ctx, token, req)
	if err != nil {
		return models.Presentation{}, fmt.Errorf("create presentation: %w", err)
	}
	s.log.Info(ctx, "presentation created", "id", p.ID.String(), "slides", len(p.Content))
	return p, nil
}

func (s *artifactService) CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (models.Document, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Topic = strings.TrimSpace(req.Topic)
	if req.DocType == "" {
		req.DocType = "docx"
	}
	for i := range req.Sections {
		req.Sections[i].Title = strings.TrimSpace(req.Sections[i].Title)
		req.Sections[i].OrderIndex = i
	}
	if err := ValidateRequest(req); err != nil {
		return models.Document{}, err
	}
	token, err := s.tokens.RequireToken()
	if err != nil {
		return models.Document{}, err
	}
	d, err := s.client.CreateDocument(ctx, token, req)
	if err != nil {
		return models.Document{}, fmt.Errorf("create document: %w", err)
	}
	s.log.Info(ctx, "document created", "id", d.ID.String(), "sections", len(d.Sections))
	return d, nil
}

func (s *artifactService) ConfigureTheme(ctx context.Context, id models.ID, req models.ThemeRequest) (models.Presentation, error) {
	if err := ValidateRequest(req); err != nil {
		return models.Presentation{}, err
	}
	if req == (models.ThemeRequest{}) {
		return models.Presentation{}, &ValidationError{Field: "theme", Message: "nothing to configure"}
	}
	token, err := s.tokens.RequireToken()
	if err != nil {
		return models.Presentation{}, err
	}
	p, err := s.client.ConfigurePresentation(ctx, token, id, req)
	if err != nil {
		return models.Presentation{}, fmt.Errorf("configure presentation %s: %w", id, err)
	}
	return p, nil
}

func (s *artifactService) GetPresentation(ctx context.Context, id models.ID) (models.Presentation, error) {
	token, err := s.tokens.RequireToken()
	if err != nil {
		return models.Presentation{}, err
	}
	return s.client.GetPresentation(ctx, token, id)
}

func (s *artifactService) GetDocument(ctx context.Context, id models.ID) (models.Document, error) {
	token, err := s.tokens.RequireToken()
	if err != nil {
		return models.Document{}, err
	}
	return s.client.GetDocument(ctx, token, id)
}

// fileBase is the sanitized title, or <kind>_<id> when nothing usable is
// left of it.
func fileBase(t ExportTarget) string {
	if base := filex.SanitizeFilename(t.Title); base != "" {
		return base
	}
	return filex.SanitizeFilename(fmt.Sprintf("%s_%s", t.Kind, t.ID))
}

// fileExt is the extension of kind. Kinds without a fixed format take the
// extension of the file name the server suggested, if it has one.
func fileExt(kind models.Kind, suggested string) string {
	switch kind {
	case models.KindPresentation, models.KindDocument:
		return kind.Extension()
	}
	if ext := filex.SanitizeFilename(strings.TrimPrefix(filepath.Ext(suggested), ".")); ext != "" {
		return "." + strings.ToLower(ext)
	}
	return kind.Extension()
}

func (s *artifactService) Export(ctx context.Context, t ExportTarget) (string, error) {
	token, err := s.tokens.RequireToken()
	if err != nil {
		return "", err
	}

	url := dashboard.DownloadURL(t.URL, t.Kind, t.ID)
	if url == "" {
		return "", fmt.Errorf("export %s: no download available for kind %q", t.ID, t.Kind)
	}

	data, suggested, err := s.client.Download(ctx, token, url)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", t.ID, err)
	}

	dir, err := filex.EnsureDir(s.downloadDir)
	if err != nil {
		return "", err
	}

	path, err := s.writeUnique(dir, fileBase(t), fileExt(t.Kind, suggested), data)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", t.ID, err)
	}
	s.log.Info(ctx, "artifact exported", "id", t.ID.String(), "path", path, "bytes", len(data))
	return path, nil
}

func (s *artifactService) writeUnique(dir, base, ext string, data []byte) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for attempt := 0; attempt < 3; attempt++ {
		path, err := filex.UniquePath(dir, base, ext)
		if err != nil {
			return "", err
		}
		err = filex.WriteNew(path, data)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free file name for %s%s", base, ext)
}

func (s *artifactService) ExportMany(ctx context.Context, targets []ExportTarget) ([]string, error) {
	paths := make([]string, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallelExports)

	for i, t := range targets {
		g.Go(func() error {
			p, err := s.Export(ctx, t)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return paths, err
	}
	return paths, nil
}

// deckSaver persists one slide at a time through the per-slide endpoint.
// The reaction and comment are not part of that endpoint; when they change
// they are merged into the deck the server just returned and written back.
type deckSaver struct {
	svc *artifactService
	id  models.ID
}

func (s *artifactService) DeckSaver(id models.ID) editor.SlideSaver {
	return &deckSaver{svc: s, id: id}
}

func (d *deckSaver) SaveSlide(ctx context.Context, index int, slide models.Slide) (models.Slide, error) {
	token, err := d.svc.tokens.RequireToken()
	if err != nil {
		return models.Slide{}, err
	}

	p, err := d.svc.client.UpdateSlide(ctx, token, d.id, index, models.NewSlideUpdate(slide))
	if err != nil {
		return models.Slide{}, fmt.Errorf("save slide %d: %w", index+1, err)
	}
	if index < 0 || index >= len(p.Content) {
		return models.Slide{}, fmt.Errorf("save slide %d: deck has %d slides", index+1, len(p.Content))
	}

	saved := p.Content[index]
	if saved.Feedback == slide.Feedback && saved.Comment == slide.Comment {
		return saved.Clone(), nil
	}

	content := make([]models.Slide, len(p.Content))
	copy(content, p.Content)
	saved.Feedback, saved.Comment = slide.Feedback, slide.Comment
	content[index] = saved

	p, err = d.svc.client.UpdatePresentation(ctx, token, d.id, models.UpdatePresentationRequest{Content: content})
	if err != nil {
		return models.Slide{}, fmt.Errorf("save feedback on slide %d: %w", index+1, err)
	}
	if index < len(p.Content) {
		saved = p.Content[index]
	}
	return saved.Clone(), nil
}

func (s *artifactService) SectionSaver(docID, sectionID models.ID) editor.SectionSaver {
	return editor.SectionSaverFunc(func(ctx context.Context, content string) error {
		token, err := s.tokens.RequireToken()
		if err != nil {
			return err
		}
		_, err = s.client.SaveSection(ctx, token, docID, sectionID, content)
		return err
	})
}

func (s *artifactService) SectionRefiner(docID, sectionID models.ID) editor.Refiner {
	return editor.RefinerFunc(func(ctx context.Context, content, prompt string) (string, error) {
		token, err := s.tokens.RequireToken()
		if err != nil {
			return "", err
		}
		sec, err := s.client.RefineSection(ctx, token, docID, sectionID, models.RefineRequest{Prompt: prompt, Content: content})
		if err != nil {
			return "", err
		}
		return sec.Content, nil
	})
}

func (s *artifactService) SectionFeedback(docID, sectionID models.ID) editor.FeedbackSender {
	return editor.FeedbackSenderFunc(func(ctx context.Context, fb editor.Feedback) error {
		token, err := s.tokens.RequireToken()
		if err != nil {
			return err
		}
		return s.client.SectionFeedback(ctx, token, docID, sectionID, models.FeedbackRequest{
			Feedback: fb.Reaction,
			Comment:  fb.Comment,
		})
	})
}
