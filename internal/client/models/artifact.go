package models

import "encoding/json"

// Kind classifies a dashboard item.
type Kind string

const (
	KindPresentation Kind = "presentation"
	KindDocument     Kind = "document"
	KindOther        Kind = "other"
)

// Extension is the file extension used when saving an export of this kind.
func (k Kind) Extension() string {
	switch k {
	case KindPresentation:
		return ".pptx"
	case KindDocument:
		return ".docx"
	default:
		return ".bin"
	}
}

// Reaction is the like/dislike feedback on a slide or section.
// The zero value means no reaction.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// SlideLayout mirrors the backend layout tags.
type SlideLayout string

const (
	LayoutTitle     SlideLayout = "title"
	LayoutBullet    SlideLayout = "bullet"
	LayoutTwoColumn SlideLayout = "two_column"
	LayoutImage     SlideLayout = "image"
)

type Slide struct {
	Layout   SlideLayout `json:"layout,omitempty"`
	Title    string      `json:"title"`
	Bullets  []string    `json:"bullets,omitempty"`
	Left     string      `json:"left,omitempty"`
	Right    string      `json:"right,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
	Feedback Reaction    `json:"feedback,omitempty"`
	Comment  string      `json:"comment,omitempty"`
}

// Clone returns a deep copy so drafts never share the bullet slice with the
// server copy.
func (s Slide) Clone() Slide {
	out := s
	if s.Bullets != nil {
		out.Bullets = append([]string(nil), s.Bullets...)
	}
	return out
}

type Presentation struct {
	ID            ID              `json:"presentation_id"`
	Topic         string          `json:"topic"`
	Content       []Slide         `json:"content"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

type Section struct {
	ID         ID       `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	OrderIndex int      `json:"order_index"`
	PageNumber int      `json:"page_number,omitempty"`
	Feedback   Reaction `json:"feedback,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

type Document struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic"`
	DocType     string    `json:"doc_type"`
	NumPages    int       `json:"num_pages,omitempty"`
	Sections    []Section `json:"sections"`
	DownloadURL string    `json:"download_url,omitempty"`
}
