package dashboard

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T12:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00.123456", time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01 10:00:00.5", time.Date(2024, 5, 1, 10, 0, 0, 500000000, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseTime(tt.in)), "got %v", ParseTime(tt.in))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, models.KindPresentation, KindOf("pptx", models.KindDocument))
	assert.Equal(t, models.KindDocument, KindOf("DOCX", models.KindPresentation))
	assert.Equal(t, models.KindOther, KindOf("xlsx", models.KindPresentation))
	assert.Equal(t, models.KindDocument, KindOf("", models.KindDocument))
}

func TestPreviewFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawItem
		want string
	}{
		{"summary first", models.RawItem{Summary: " S ", Preview: "P", Title: "T"}, "S"},
		{"blank summary skipped", models.RawItem{Summary: "  ", Preview: "P"}, "P"},
		{"content objects", models.RawItem{Content: json.RawMessage(`[{"title":"First slide"},{"title":"x"}]`), Title: "T"}, "First slide"},
		{"content strings", models.RawItem{Content: json.RawMessage(`["Opening", "Next"]`), Title: "T"}, "Opening"},
		{"content encoded as string", models.RawItem{Content: json.RawMessage(`"[{\"title\":\"Encoded\"}]"`), Title: "T"}, "Encoded"},
		{"content unusable", models.RawItem{Content: json.RawMessage(`{"a":1}`), Title: "T"}, "T"},
		{"topic", models.RawItem{Topic: "Topic"}, "Topic"},
		{"name", models.RawItem{Name: "Name"}, "Name"},
		{"nothing", models.RawItem{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviewText(tt.raw))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "hello…", Truncate("hello world", 6))
	assert.Equal(t, "héllo…", Truncate("héllo wörld", 5))
}

func TestTruncate_NeverExceedsBudgetPlusEllipsis(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	alphabet := []rune("ab cdé 漢字\t\n")
	for i := 0; i < 500; i++ {
		n := r.Intn(400)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[r.Intn(len(alphabet))])
		}
		got := Truncate(b.String(), PreviewLimit)
		require.LessOrEqual(t, utf8.RuneCountInString(got), PreviewLimit+1)
		if utf8.RuneCountInString(b.String()) > PreviewLimit {
			require.True(t, strings.HasSuffix(got, "…"))
		}
	}
}

func TestDownloadURL(t *testing.T) {
	assert.Equal(t, "/custom", DownloadURL(" /custom ", models.KindDocument, "1"))
	assert.Equal(t, "/api/v1/presentations/3/download", DownloadURL("", models.KindPresentation, "3"))
	assert.Equal(t, "/api/v1/documents/4/export", DownloadURL("", models.KindDocument, "4"))
	assert.Equal(t, "", DownloadURL("", models.KindOther, "5"))
	assert.Equal(t, "", DownloadURL("", models.KindDocument, ""))
}

func TestNormalize(t *testing.T) {
	items := Normalize(models.Listing{
		Presentations: []models.RawItem{{ID: "1", Title: "Deck", Type: "pptx", CreatedAt: "2024-01-02T00:00:00"}},
		Projects: []models.RawItem{
			{ID: "2", Topic: "Essay topic", CreatedAt: "bad", Summary: strings.Repeat("x", 300)},
			{ID: "3", Title: "Sheet", Type: "xlsx"},
		},
	})
	require.Len(t, items, 3)

	assert.Equal(t, models.KindPresentation, items[0].Kind)
	assert.Equal(t, "/api/v1/presentations/1/download", items[0].DownloadURL)
	assert.Equal(t, "Deck", items[0].Preview)

	assert.Equal(t, models.KindDocument, items[1].Kind)
	assert.Equal(t, "Essay topic", items[1].Title)
	assert.True(t, items[1].CreatedAt.IsZero())
	assert.Equal(t, PreviewLimit+1, utf8.RuneCountInString(items[1].Preview))

	assert.Equal(t, models.KindOther, items[2].Kind)
	assert.Empty(t, items[2].DownloadURL)
}

func TestSort_StableDescendingMissingLast(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	items := []models.Item{
		{ID: "a"},
		{ID: "b", CreatedAt: day(1)},
		{ID: "c", CreatedAt: day(3)},
		{ID: "d"},
		{ID: "e", CreatedAt: day(3)},
		{ID: "f", CreatedAt: day(2)},
	}
	Sort(items)

	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID.String())
	}
	assert.Equal(t, []string{"c", "e", "f", "b", "a", "d"}, ids)
}

func TestSort_MissingAfterPre1970(t *testing.T) {
	items := []models.Item{
		{ID: "missing"},
		{ID: "old", CreatedAt: time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "epoch", CreatedAt: time.Unix(0, 0).UTC()},
	}
	Sort(items)

	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID.String())
	}
	assert.Equal(t, []string{"epoch", "old", "missing"}, ids)
}

func TestSort_Property(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		items := make([]models.Item, r.Intn(30))
		for i := range items {
			items[i].ID = models.ID(fmt.Sprint(i))
			if r.Intn(3) > 0 {
				items[i].CreatedAt = time.Unix(int64(r.Intn(5))*86400+1, 0)
			}
		}
		orig := append([]models.Item(nil), items...)
		Sort(items)

		seenMissing := false
		for i, it := range items {
			if it.CreatedAt.IsZero() {
				seenMissing = true
				continue
			}
			require.False(t, seenMissing, "dated item after a missing one")
			if i > 0 && !items[i-1].CreatedAt.IsZero() {
				require.False(t, it.CreatedAt.After(items[i-1].CreatedAt))
			}
		}

		// stability: equal keys keep their input order
		pos := make(map[models.ID]int, len(orig))
		for i, it := range orig {
			pos[it.ID] = i
		}
		for i := 1; i < len(items); i++ {
			if items[i].CreatedAt.Equal(items[i-1].CreatedAt) {
				require.Less(t, pos[items[i-1].ID], pos[items[i].ID])
			}
		}
	}
}

func TestFilter(t *testing.T) {
	items := []models.Item{
		{ID: "1", Kind: models.KindPresentation, Title: "Quarterly Report", Preview: "Revenue"},
		{ID: "2", Kind: models.KindDocument, Title: "Essay", Preview: "about REVENUE growth"},
		{ID: "3", Kind: models.KindOther, Title: "Misc", Preview: ""},
	}

	ids := func(in []models.Item) []string {
		out := []string{}
		for _, it := range in {
			out = append(out, it.ID.String())
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(items, Query{})))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(items, Query{Type: "all"})))
	assert.Equal(t, []string{"2"}, ids(Filter(items, Query{Type: "document"})))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(items, Query{Search: "revenue"})))
	assert.Equal(t, []string{"2"}, ids(Filter(items, Query{Type: "document", Search: "Revenue"})))
	assert.Equal(t, []string{}, ids(Filter(items, Query{Type: "presentation", Search: "essay"})))
	assert.Equal(t, []string{"1"}, ids(Filter(items, Query{Search: "report revenue"})))
}

func TestValidType(t *testing.T) {
	for _, ok := range []string{"", "all", "presentation", "Document", "other"} {
		assert.True(t, ValidType(ok), ok)
	}
	assert.False(t, ValidType("pptx"))
}
