package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/domain/repository"
)

// linkRecord phones_urls.json dagi bitta qurilma
type linkRecord struct {
	Name string  `json:"name"`
	URL  *string `json:"url"`
}

type jsonLinkSource struct {
	path string
}

// NewLinkSource {"brand": [{"name": ..., "url": ...}]} ko'rinishidagi JSON fayl
func NewLinkSource(path string) repository.LinkSource {
	return &jsonLinkSource{path: path}
}

func (s *jsonLinkSource) LoadLinks(ctx context.Context) (entity.LinkTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return parseLinks(s.path, data)
}

// parseLinks brendlar alifbo tartibida o'qiladi; bir nom takrorlansa oxirgisi qoladi.
// url maydoni yo'q yozuv LinkUnavailable oladi.
func parseLinks(source string, data []byte) (entity.LinkTable, error) {
	var brands map[string][]linkRecord
	if err := json.Unmarshal(data, &brands); err != nil {
		return nil, &entity.SourceFormatError{Source: source, Reason: "expected {brand: [{name, url}]}", Err: err}
	}

	keys := make([]string, 0, len(brands))
	for k := range brands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := make(entity.LinkTable)
	for _, brand := range keys {
		for _, rec := range brands[brand] {
			name := strings.TrimSpace(rec.Name)
			if name == "" {
				continue
			}
			url := entity.LinkUnavailable
			if rec.URL != nil {
				url = strings.TrimSpace(*rec.URL)
			}
			table[name] = url
		}
	}
	return table, nil
}
