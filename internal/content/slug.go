// Package content holds the pure card-content transforms: slugs and the
// reference map, content-type detection, file URL extraction, internal
// link resolution and the verification filter.
package content

import (
	"regexp"
	"strings"

	"github.com/starford/guru-sync/internal/models"
)

// PagesPrefix is the local path prefix of rendered cards.
const PagesPrefix = "/pages/"

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace   = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// Slugify lowercases title, strips everything except ASCII letters, digits,
// whitespace and hyphens, turns whitespace runs into single hyphens and
// trims hyphens from both ends. The result may be empty.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CardSlug returns the slug of the card's display title, falling back to
// the raw id when the slug comes out empty.
func CardSlug(card models.Card) string {
	if s := Slugify(card.DisplayTitle(card.ID)); s != "" {
		return s
	}
	return card.ID
}

// CardPath returns the canonical local path of a card.
func CardPath(card models.Card) string {
	return PagesPrefix + CardSlug(card) + "/"
}

// BuildReferenceMap maps every card id in corpus to its local path. Cards
// without an id are skipped.
func BuildReferenceMap(corpus []models.Card) map[string]string {
	refs := make(map[string]string, len(corpus))
	for _, c := range corpus {
		if c.ID == "" {
			continue
		}
		refs[c.ID] = CardPath(c)
	}
	return refs
}
