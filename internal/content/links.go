package content

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/starford/guru-sync/internal/models"
)

// CardIDAttr is the anchor attribute that carries a referenced card id.
const CardIDAttr = "data-ghq-guru-card-id"

var (
	cardAnchorPattern = regexp.MustCompile(`(?i)<a\b[^>]*?\s` + CardIDAttr + `\s*=\s*["']([^"']*)["'][^>]*>`)
	hrefPattern       = regexp.MustCompile(`(?i)(\shref\s*=\s*)("[^"]*"|'[^']*'|[^\s"'>]+)`)

	// A path after the id belongs to the remote card URL and is replaced
	// along with it.
	bareCardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)https://app\.getguru\.com/card/([a-f0-9-]+)(?:/[^"'\s<>]*)?`),
		regexp.MustCompile(`(?i)https://getguru\.com/card/([a-f0-9-]+)(?:/[^"'\s<>]*)?`),
		regexp.MustCompile(`(?i)guru://card/([a-f0-9-]+)(?:/[^"'\s<>]*)?`),
	}
)

// LinkResolver rewrites references to other cards into local page paths.
type LinkResolver struct {
	logger *slog.Logger
}

// NewLinkResolver creates a LinkResolver. A nil logger uses slog.Default().
func NewLinkResolver(logger *slog.Logger) *LinkResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkResolver{logger: logger}
}

// ResolveInternalLinks is LinkResolver.Resolve with the default logger.
func ResolveInternalLinks(body *string, card models.Card, corpus []models.Card) *string {
	return NewLinkResolver(nil).Resolve(body, card, corpus)
}

// Resolve rewrites card anchors and bare card URLs in body that point at a
// card of corpus. References to unknown cards are left as they are. A nil
// or empty body and an empty corpus are returned unchanged.
func (r *LinkResolver) Resolve(body *string, card models.Card, corpus []models.Card) *string {
	if body == nil || *body == "" || len(corpus) == 0 {
		return body
	}
	refs := BuildReferenceMap(corpus)

	anchors := 0
	out := cardAnchorPattern.ReplaceAllStringFunc(*body, func(tag string) string {
		m := cardAnchorPattern.FindStringSubmatch(tag)
		id := m[1]
		if strings.TrimSpace(id) == "" {
			return tag
		}
		path, ok := refs[id]
		if !ok {
			return tag
		}
		anchors++
		return setHref(tag, path)
	})

	bare := 0
	for _, p := range bareCardPatterns {
		out = p.ReplaceAllStringFunc(out, func(match string) string {
			id := p.FindStringSubmatch(match)[1]
			path, ok := refs[id]
			if !ok {
				return match
			}
			bare++
			return path
		})
	}

	if anchors+bare > 0 {
		r.logger.Debug("internal links resolved",
			slog.String("card_id", card.ID),
			slog.Int("anchors", anchors),
			slog.Int("bare_urls", bare),
		)
	}
	return &out
}

// setHref replaces the first href value of an opening tag, or inserts one
// when the tag has none. Every other byte of the tag is kept.
func setHref(tag, path string) string {
	if loc := hrefPattern.FindStringSubmatchIndex(tag); loc != nil {
		return tag[:loc[4]] + `"` + path + `"` + tag[loc[5]:]
	}
	end := len(tag) - 1
	if strings.HasSuffix(tag, "/>") {
		end--
	}
	return tag[:end] + ` href="` + path + `"` + tag[end:]
}
