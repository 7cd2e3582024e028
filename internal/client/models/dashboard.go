package models

import (
	"encoding/json"
	"time"
)

// Listing is the body of GET /api/v1/dashboard/items.
type Listing struct {
	Presentations []RawItem `json:"presentations"`
	Projects      []RawItem `json:"projects"`
}

// RawItem is one listing entry as sent. Optional text fields vary between
// backend versions, so all of them are kept for the preview fallback chain.
type RawItem struct {
	ID               ID              `json:"id"`
	Title            string          `json:"title"`
	Summary          string          `json:"summary"`
	Preview          string          `json:"preview"`
	Topic            string          `json:"topic"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	CreatedAt        string          `json:"created_at"`
	DownloadEndpoint string          `json:"download_endpoint"`
	Content          json.RawMessage `json:"content"`
}

// Item is the normalized shape every dashboard row is rendered from.
type Item struct {
	ID          ID        `json:"id" yaml:"id"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	Title       string    `json:"title" yaml:"title"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Preview     string    `json:"preview" yaml:"preview"`
	DownloadURL string    `json:"download_url" yaml:"download_url"`
}
