package main

import (
	"context"
	"fmt"

	"github.com/mitech808/phone-price-bot/config"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/infrastructure/catalog"
	"github.com/mitech808/phone-price-bot/internal/usecase"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// engine katalog va uning ustidagi usecaselar
type engine struct {
	store       *usecase.CatalogStore
	links       *usecase.LinkResolver
	queries     usecase.QueryUseCase
	comparisons *usecase.ComparisonUseCase
}

// buildEngine manbalarni ulaydi va birinchi snapshotni yuklaydi.
// Birinchi yuklash muvaffaqiyatsiz bo'lsa xatolik qaytadi.
func buildEngine(ctx context.Context, cfg *config.Config, log *logger.Logger) (*engine, error) {
	store := usecase.NewCatalogStore(
		catalog.NewPriceSource(cfg.PricesPath, cfg.PricesSheet),
		catalog.NewLinkSource(cfg.LinksPath),
		log,
	)
	links := usecase.NewLinkResolver(cfg.FallbackURL)
	queries := usecase.NewQueryUseCase(store, links, cfg.CacheSize, log)
	comparisons := usecase.NewComparisonUseCase(store, links, cfg.MaxSessions, cfg.SessionTTL, log)

	store.OnSwap(func(*entity.Catalog) {
		queries.Purge()
	})

	if _, err := store.Reload(ctx); err != nil {
		return nil, fmt.Errorf("katalog yuklanmadi (%s, %s): %w", cfg.PricesPath, cfg.LinksPath, err)
	}
	return &engine{
		store:       store,
		links:       links,
		queries:     queries,
		comparisons: comparisons,
	}, nil
}
