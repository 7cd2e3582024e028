package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		field string
		msg   string
	}{
		{"topic required", models.CreatePresentationRequest{NumSlides: 3}, "topic", "topic is required"},
		{"too few slides", models.CreatePresentationRequest{Topic: "Go", NumSlides: 0}, "num_slides", "num_slides must be at least 1"},
		{"too many slides", models.CreatePresentationRequest{Topic: "Go", NumSlides: 21}, "num_slides", "num_slides must be at most 20"},
		{"docx only", models.CreateDocumentRequest{Title: "T", Topic: "T", DocType: "pdf", Sections: []models.SectionHeading{{Title: "a"}}}, "doc_type", "doc_type must be docx"},
		{"sections needed", models.CreateDocumentRequest{Title: "T", Topic: "T", DocType: "docx"}, "sections", "sections needs at least 1 entries"},
		{"section title", models.CreateDocumentRequest{Title: "T", Topic: "T", DocType: "docx", Sections: []models.SectionHeading{{}}}, "title", "title is required"},
		{"font", models.ThemeRequest{FontName: "Comic Sans"}, "font_name", "font_name must be one of Arial Calibri Times New Roman Segoe UI Poppins"},
		{"color", models.ThemeRequest{FontColor: "blue"}, "font_color", "font_color must be a hex color like #1A2B3C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.msg, verr.Message)
		})
	}
}

func TestValidateRequest_Accepts(t *testing.T) {
	require.NoError(t, ValidateRequest(models.CreatePresentationRequest{Topic: "Go", NumSlides: 20}))
	require.NoError(t, ValidateRequest(models.ThemeRequest{FontName: "Times New Roman", FontColor: "#FFF", AccentColor: "#12ab34"}))
	require.NoError(t, ValidateRequest(models.ThemeRequest{ThemeID: "dark"}))
}
