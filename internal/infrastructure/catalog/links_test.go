package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

func TestLoadLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phones_urls.json")
	data := `{
  "samsung": [
    {"name": "Galaxy S23 Ultra", "url": "https://example.com/s23-ultra"},
    {"name": "Galaxy A54"},
    {"url": "https://example.com/orphan"}
  ],
  "apple": [
    {"name": " iPhone 15 ", "url": " https://example.com/iphone-15 "}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	links, err := NewLinkSource(path).LoadLinks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.LinkTable{
		"Galaxy S23 Ultra": "https://example.com/s23-ultra",
		"Galaxy A54":       entity.LinkUnavailable,
		"iPhone 15":        "https://example.com/iphone-15",
	}, links)
}

func TestParseLinks_DuplicateNameLastBrandWins(t *testing.T) {
	data := []byte(`{"b": [{"name": "X", "url": "https://b"}], "a": [{"name": "X", "url": "https://a"}]}`)
	links, err := parseLinks("mem", data)
	require.NoError(t, err)
	assert.Equal(t, "https://b", links["X"])
}

func TestParseLinks_BadShape(t *testing.T) {
	for _, data := range []string{`[]`, `{"samsung": {"name": "x"}}`, `not json`} {
		_, err := parseLinks("mem", []byte(data))
		var formatErr *entity.SourceFormatError
		assert.ErrorAs(t, err, &formatErr, "data=%s", data)
	}
}

func TestLoadLinks_MissingFile(t *testing.T) {
	_, err := NewLinkSource(filepath.Join(t.TempDir(), "missing.json")).LoadLinks(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
