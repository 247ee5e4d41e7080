package content

import (
	"testing"

	"github.com/starford/guru-sync/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Onboarding   Guide  ", "onboarding-guide"},
		{"Q&A: What's new?", "qa-whats-new"},
		{"already-a-slug", "already-a-slug"},
		{"--dashes -- everywhere--", "dashes-everywhere"},
		{"snake_case_title", "snakecasetitle"},
		{"Café Menü", "caf-men"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	titles := []string{
		"Hello World", "  a  b  ", "Q&A: What's new?", "x--y", "-lead", "trail-",
		"Tabs\tand\nnewlines", "ÜBER alles", "123 456", "", "---", "a - b - c",
	}
	for _, title := range titles {
		once := Slugify(title)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", title, once, twice)
		}
	}
}

func TestCardPath(t *testing.T) {
	tests := []struct {
		name string
		card models.Card
		want string
	}{
		{"preferred phrase wins", models.Card{ID: "c1", Title: "Title", PreferredPhrase: "Preferred Phrase"}, "/pages/preferred-phrase/"},
		{"title fallback", models.Card{ID: "c1", Title: "Just A Title"}, "/pages/just-a-title/"},
		{"id when untitled", models.Card{ID: "abc-123"}, "/pages/abc-123/"},
		{"id when title is all symbols", models.Card{ID: "xyz", Title: "@#$%"}, "/pages/xyz/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardPath(tt.card); got != tt.want {
				t.Errorf("CardPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildReferenceMap_SkipsMissingIDs(t *testing.T) {
	corpus := []models.Card{
		{ID: "a", Title: "Alpha"},
		{Title: "No ID"},
		{ID: "b", Title: "Beta"},
		{ID: "", Title: "Empty ID"},
	}
	refs := BuildReferenceMap(corpus)
	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2", len(refs))
	}
	if _, ok := refs[""]; ok {
		t.Error("map contains empty id")
	}
	if refs["a"] != "/pages/alpha/" || refs["b"] != "/pages/beta/" {
		t.Errorf("refs = %v", refs)
	}
}
