// Package dashboard turns the backend listing into one sorted, filterable
// list of items and loads on-demand previews of single artifacts.
package dashboard

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

// PreviewLimit is the preview budget in runes, not counting the ellipsis.
const PreviewLimit = 140

const ellipsis = "…"

// TypeAll disables the type filter.
const TypeAll = "all"

// Query narrows a list of items. Both conditions must hold.
type Query struct {
	Type   string
	Search string
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime accepts RFC 3339 and Python isoformat timestamps. Values
// without a zone are taken as UTC. The zero time means missing or invalid.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// KindOf maps a raw type tag to a Kind. An empty tag falls back to the list
// the item came from.
func KindOf(rawType string, fallback models.Kind) models.Kind {
	switch strings.ToLower(strings.TrimSpace(rawType)) {
	case "":
		return fallback
	case "pptx", "presentation", "slides":
		return models.KindPresentation
	case "docx", "document", "project":
		return models.KindDocument
	default:
		return models.KindOther
	}
}

// Normalize concatenates presentations and projects into common items.
func Normalize(l models.Listing) []models.Item {
	items := make([]models.Item, 0, len(l.Presentations)+len(l.Projects))
	for _, raw := range l.Presentations {
		items = append(items, normalizeOne(raw, models.KindPresentation))
	}
	for _, raw := range l.Projects {
		items = append(items, normalizeOne(raw, models.KindDocument))
	}
	return items
}

func normalizeOne(raw models.RawItem, from models.Kind) models.Item {
	kind := KindOf(raw.Type, from)
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = firstNonBlank(raw.Topic, raw.Name)
	}
	if title == "" {
		title = fmt.Sprintf("Untitled %s", kind)
	}
	return models.Item{
		ID:          raw.ID,
		Kind:        kind,
		Title:       title,
		CreatedAt:   ParseTime(raw.CreatedAt),
		Preview:     Truncate(PreviewText(raw), PreviewLimit),
		DownloadURL: DownloadURL(raw.DownloadEndpoint, kind, raw.ID),
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// PreviewText picks the first non-blank of summary, preview, the first content
// item's title, title, topic and name.
func PreviewText(raw models.RawItem) string {
	return firstNonBlank(raw.Summary, raw.Preview, firstContentTitle(raw.Content), raw.Title, raw.Topic, raw.Name)
}

// firstContentTitle reads content as a list of objects or strings, either
// inline or JSON encoded inside a string.
func firstContentTitle(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var encoded string
	if err := json.Unmarshal(content, &encoded); err == nil {
		return firstContentTitle(json.RawMessage(encoded))
	}

	var list []json.RawMessage
	if err := json.Unmarshal(content, &list); err != nil || len(list) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(list[0], &s); err == nil {
		return s
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(list[0], &obj); err == nil {
		return obj.Title
	}
	return ""
}

// Truncate shortens s to limit runes plus an ellipsis when it is longer
// than limit.
func Truncate(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " \t\n") + ellipsis
}

// DownloadURL returns endpoint when set, else the export path for kind.
func DownloadURL(endpoint string, kind models.Kind, id models.ID) string {
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		return endpoint
	}
	if id == "" {
		return ""
	}
	switch kind {
	case models.KindPresentation:
		return "/api/v1/presentations/" + url.PathEscape(id.String()) + "/download"
	case models.KindDocument:
		return "/api/v1/documents/" + url.PathEscape(id.String()) + "/export"
	default:
		return ""
	}
}

// Sort orders items newest first. Items without a timestamp follow every
// dated item, whatever its date; ties keep their order.
func Sort(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].CreatedAt, items[j].CreatedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

// Filter returns the items matching q, in order.
func Filter(items []models.Item, q Query) []models.Item {
	typ := strings.ToLower(strings.TrimSpace(q.Type))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if typ != "" && typ != TypeAll && string(it.Kind) != typ {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Title+" "+it.Preview), search) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// ValidType reports whether t is accepted by Filter.
func ValidType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", TypeAll, string(models.KindPresentation), string(models.KindDocument), string(models.KindOther):
		return true
	}
	return false
}

// Aggregate normalizes and sorts a listing.
func Aggregate(l models.Listing) []models.Item {
	items := Normalize(l)
	Sort(items)
	return items
}
