package usecase

import (
	"strings"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// LinkResolver maps a catalog name to a detail page URL. It never returns "".
type LinkResolver struct {
	matcher     FuzzyMatcher
	fallbackURL string
}

func NewLinkResolver(fallbackURL string) *LinkResolver {
	if strings.TrimSpace(fallbackURL) == "" {
		fallbackURL = constants.DefaultFallbackURL
	}
	return &LinkResolver{fallbackURL: strings.TrimSpace(fallbackURL)}
}

// Resolve: exact key, then the best fuzzy key scoring at least LinkThreshold,
// then the fallback URL.
func (r *LinkResolver) Resolve(catalog *entity.Catalog, name string) string {
	links := catalog.Links()
	if url, ok := links.URL(name); ok {
		return url
	}
	if best, ok := r.matcher.ExtractOne(name, catalog.LinkNames()); ok && best.Score >= constants.LinkThreshold {
		if url, ok := links.URL(best.Name); ok {
			return url
		}
	}
	return r.fallbackURL
}

// FallbackURL kanal manzili
func (r *LinkResolver) FallbackURL() string {
	return r.fallbackURL
}
