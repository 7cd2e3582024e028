package client

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

// Client is the backend API surface used by services, the dashboard and
// the editors. Every authenticated call takes the bearer token explicitly.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Token, error)
	CurrentUser(ctx context.Context, token string) (models.User, error)

	ListItems(ctx context.Context, token string) (models.Listing, error)
	GetRaw(ctx context.Context, token string, kind models.Kind, id models.ID) (json.RawMessage, error)

	GetPresentation(ctx context.Context, token string, id models.ID) (models.Presentation, error)
	CreatePresentation(ctx context.Context, token string, req models.CreatePresentationRequest) (models.Presentation, error)
	UpdatePresentation(ctx context.Context, token string, id models.ID, req models.UpdatePresentationRequest) (models.Presentation, error)
	// UpdateSlide edits one slide in place and returns the whole deck as
	// stored after the change.
	UpdateSlide(ctx context.Context, token string, id models.ID, index int, req models.SlideUpdateRequest) (models.Presentation, error)
	ConfigurePresentation(ctx context.Context, token string, id models.ID, req models.ThemeRequest) (models.Presentation, error)

	GetDocument(ctx context.Context, token string, id models.ID) (models.Document, error)
	CreateDocument(ctx context.Context, token string, req models.CreateDocumentRequest) (models.Document, error)
	SaveSection(ctx context.Context, token string, docID, sectionID models.ID, content string) (models.Section, error)
	RefineSection(ctx context.Context, token string, docID, sectionID models.ID, req models.RefineRequest) (models.Section, error)
	SectionFeedback(ctx context.Context, token string, docID, sectionID models.ID, req models.FeedbackRequest) error

	// Download fetches a binary export. path is either an absolute URL or a
	// path relative to the base URL. The second result is the file name
	// suggested by the server, if any.
	Download(ctx context.Context, token string, path string) ([]byte, string, error)
}
