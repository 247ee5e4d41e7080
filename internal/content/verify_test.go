package content

import (
	"testing"

	"github.com/starford/guru-sync/internal/models"
)

func ids(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestFilterByVerification_Disabled(t *testing.T) {
	cards := []models.Card{
		{ID: "1", Title: "Same", VerificationState: "TRUSTED"},
		{ID: "2", Title: "Same", VerificationState: "NEEDS_VERIFICATION"},
	}
	got := FilterByVerification(cards, false)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("got %v, want identity", ids(got))
	}
}

func TestFilterByVerification_PrefersTrusted(t *testing.T) {
	cards := []models.Card{
		{ID: "unverified", Title: "  Expense Policy ", VerificationState: "NEEDS_VERIFICATION"},
		{ID: "trusted", Title: "expense policy", VerificationState: "TRUSTED"},
	}
	got := FilterByVerification(cards, true)
	if len(got) != 1 || got[0].ID != "trusted" {
		t.Errorf("got %v, want [trusted]", ids(got))
	}
}

func TestFilterByVerification_NoCollisionKeepsBoth(t *testing.T) {
	cards := []models.Card{
		{ID: "a", Title: "Alpha", VerificationState: "NEEDS_VERIFICATION"},
		{ID: "b", Title: "Beta", VerificationState: "TRUSTED"},
	}
	got := FilterByVerification(cards, true)
	want := []string{"b", "a"}
	if g := ids(got); len(g) != 2 || g[0] != want[0] || g[1] != want[1] {
		t.Errorf("got %v, want %v", g, want)
	}
}

func TestFilterByVerification_CaseSensitiveState(t *testing.T) {
	cards := []models.Card{
		{ID: "lower", Title: "Doc", VerificationState: "trusted"},
		{ID: "upper", Title: "Doc", VerificationState: "TRUSTED"},
	}
	got := FilterByVerification(cards, true)
	if len(got) != 1 || got[0].ID != "upper" {
		t.Errorf("got %v, want [upper]", ids(got))
	}
}

func TestFilterByVerification_UntitledBucket(t *testing.T) {
	cards := []models.Card{
		{ID: "t", VerificationState: "TRUSTED"},
		{ID: "o1"},
		{ID: "o2", PreferredPhrase: "untitled"},
		{ID: "o3", Title: "Real"},
	}
	got := FilterByVerification(cards, true)
	want := []string{"t", "o3"}
	if g := ids(got); len(g) != 2 || g[0] != want[0] || g[1] != want[1] {
		t.Errorf("got %v, want %v", g, want)
	}
}

func TestFormatUserName(t *testing.T) {
	tests := []struct {
		name string
		in   *models.User
		want string
	}{
		{"nil", nil, "Unknown"},
		{"full", &models.User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", &models.User{FirstName: "Ada"}, "Ada"},
		{"last only", &models.User{LastName: "Lovelace"}, "Lovelace"},
		{"plain string", &models.User{Name: "ada@example.com"}, "ada@example.com"},
		{"empty", &models.User{}, "Unknown"},
	}
	for _, tt := range tests {
		if got := FormatUserName(tt.in); got != tt.want {
			t.Errorf("%s: FormatUserName = %q, want %q", tt.name, got, tt.want)
		}
	}
}
