package models

// CreatePresentationRequest is the body of POST /api/v1/presentations/.
type CreatePresentationRequest struct {
	Topic     string `json:"topic" validate:"required"`
	NumSlides int    `json:"num_slides" validate:"min=1,max=20"`
}

// SectionHeading is one requested section of a new document.
type SectionHeading struct {
	Title      string `json:"title" validate:"required"`
	OrderIndex int    `json:"order_index"`
}

// CreateDocumentRequest is the body of POST /api/v1/documents/.
type CreateDocumentRequest struct {
	Title    string           `json:"title" validate:"required"`
	Topic    string           `json:"topic" validate:"required"`
	DocType  string           `json:"doc_type" validate:"eq=docx"`
	Sections []SectionHeading `json:"sections" validate:"min=1,dive"`
}

// ThemeRequest is the body of POST /api/v1/presentations/{id}/configure.
type ThemeRequest struct {
	ThemeID         string `json:"theme_id,omitempty"`
	FontName        string `json:"font_name,omitempty" validate:"omitempty,oneof='Arial' 'Calibri' 'Times New Roman' 'Segoe UI' 'Poppins'"`
	FontColor       string `json:"font_color,omitempty" validate:"omitempty,hexcolor"`
	BackgroundColor string `json:"background_color,omitempty" validate:"omitempty,hexcolor"`
	AccentColor     string `json:"accent_color,omitempty" validate:"omitempty,hexcolor"`
}

// UpdatePresentationRequest is the body of PUT /api/v1/presentations/{id}.
type UpdatePresentationRequest struct {
	Topic   string  `json:"topic,omitempty"`
	Content []Slide `json:"content,omitempty"`
}

// SlideUpdateRequest is the body of PUT /api/v1/presentations/{id}/slides/{index}.
// Omitted fields keep their server value.
type SlideUpdateRequest struct {
	Title    string   `json:"title"`
	Bullets  []string `json:"bullets"`
	Left     string   `json:"left,omitempty"`
	Right    string   `json:"right,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// NewSlideUpdate builds the update for s. Bullets are always sent so that
// clearing them reaches the server.
func NewSlideUpdate(s Slide) SlideUpdateRequest {
	bullets := s.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	return SlideUpdateRequest{Title: s.Title, Bullets: bullets, Left: s.Left, Right: s.Right, ImageURL: s.ImageURL}
}

// RefineRequest is the body of the section refine call.
type RefineRequest struct {
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

// FeedbackRequest is the body of the section feedback call.
type FeedbackRequest struct {
	Feedback Reaction `json:"feedback"`
	Comment  string   `json:"comment,omitempty"`
}

// SectionUpdateRequest is the body of the section save call.
type SectionUpdateRequest struct {
	Content string `json:"content"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}
