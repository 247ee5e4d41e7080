package content

import (
	"strings"

	"github.com/starford/guru-sync/internal/models"
)

// UntitledTitle groups cards that have no title at all.
const UntitledTitle = "Untitled"

func normalizedTitle(c models.Card) string {
	return strings.ToLower(strings.TrimSpace(c.DisplayTitle(UntitledTitle)))
}

// FilterByVerification drops unverified cards that share a normalized
// title with a verified one. With onlyVerified false the input is returned
// as is. Trusted cards come first, then the surviving others, each group in
// input order.
func FilterByVerification(cards []models.Card, onlyVerified bool) []models.Card {
	if !onlyVerified {
		return cards
	}

	var trusted, other []models.Card
	for _, c := range cards {
		if c.VerificationState == models.VerificationTrusted {
			trusted = append(trusted, c)
		} else {
			other = append(other, c)
		}
	}

	titles := make(map[string]struct{}, len(trusted))
	for _, c := range trusted {
		titles[normalizedTitle(c)] = struct{}{}
	}

	out := make([]models.Card, 0, len(cards))
	out = append(out, trusted...)
	for _, c := range other {
		if _, dup := titles[normalizedTitle(c)]; !dup {
			out = append(out, c)
		}
	}
	return out
}
