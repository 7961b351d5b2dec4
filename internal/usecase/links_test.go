package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

func TestLinkResolver_Tiers(t *testing.T) {
	r := NewLinkResolver("https://t.me/fallback")
	catalog := testCatalog()

	assert.Equal(t, "https://example.com/s23-ultra", r.Resolve(catalog, "Galaxy S23 Ultra"))
	assert.Equal(t, "https://example.com/s23-ultra", r.Resolve(catalog, "  Galaxy S23 Ultra "))
	assert.Equal(t, "https://example.com/iphone-15-pro-max", r.Resolve(catalog, "iPhone 15 Pro Max 5G"))
	// sentinel value counts as missing
	assert.Equal(t, "https://t.me/fallback", r.Resolve(catalog, "Redmi Note 13 Pro"))
	assert.Equal(t, "https://t.me/fallback", r.Resolve(catalog, "Nokia 3310"))
}

func TestLinkResolver_NeverEmpty(t *testing.T) {
	r := NewLinkResolver("")
	assert.Equal(t, constants.DefaultFallbackURL, r.FallbackURL())

	catalogs := []*entity.Catalog{nil, entity.NewCatalog(nil, nil, 1), testCatalog()}
	inputs := []string{"", " ", "Galaxy S23", "x", "٢٣", "iPhone 15"}
	for _, c := range catalogs {
		for _, in := range inputs {
			assert.NotEmpty(t, r.Resolve(c, in), "input=%q", in)
		}
	}
}

func TestLinkResolver_CaseSensitiveExactTier(t *testing.T) {
	catalog := entity.NewCatalog(nil, entity.LinkTable{"Galaxy S23 Ultra": "https://example.com/exact"}, 1)
	r := NewLinkResolver("https://t.me/fallback")
	// not an exact key, but the fuzzy tier still finds it
	assert.Equal(t, "https://example.com/exact", r.Resolve(catalog, "galaxy s23 ultra"))
}
