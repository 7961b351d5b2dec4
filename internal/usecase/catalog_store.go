package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/domain/repository"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// SnapshotProvider joriy katalog snapshotini beradi
type SnapshotProvider interface {
	Snapshot() *entity.Catalog
}

// CatalogStore o'zgarmas katalog snapshotini ushlab turadi.
// Qayta yuklash yangi snapshot yaratib, uni atomik almashtiradi.
type CatalogStore struct {
	current atomic.Pointer[entity.Catalog]
	version atomic.Uint64

	reloadMu sync.Mutex
	prices   repository.PriceSource
	links    repository.LinkSource
	log      *logger.Logger

	listenersMu sync.RWMutex
	listeners   []func(*entity.Catalog)
}

// NewCatalogStore manbalar bilan store yaratish (hali yuklamaydi)
func NewCatalogStore(prices repository.PriceSource, links repository.LinkSource, log *logger.Logger) *CatalogStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogStore{prices: prices, links: links, log: log}
}

// Snapshot joriy snapshot (yuklanmagan bo'lsa nil)
func (s *CatalogStore) Snapshot() *entity.Catalog {
	return s.current.Load()
}

// OnSwap har bir yangi snapshotdan keyin chaqiriladigan funksiya qo'shish
func (s *CatalogStore) OnSwap(fn func(*entity.Catalog)) {
	if fn == nil {
		return
	}
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

// Reload manbalarni o'qib yangi snapshot yaratadi.
// Xatolik bo'lsa eski snapshot o'z joyida qoladi va xatolik qaytariladi.
func (s *CatalogStore) Reload(ctx context.Context) (*entity.Catalog, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.prices == nil || s.links == nil {
		return nil, fmt.Errorf("catalog sources not configured")
	}
	rows, err := s.prices.LoadPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	links, err := s.links.LoadLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	catalog := entity.NewCatalog(rows, links, s.version.Load()+1)
	if catalog.Len() == 0 {
		return nil, &entity.SourceFormatError{Source: "prices", Reason: "no usable rows"}
	}
	catalog = s.Swap(catalog)
	s.log.Info("catalog loaded",
		"version", catalog.Version,
		"devices", catalog.Len(),
		"variants", catalog.VariantCount(),
		"links", len(catalog.Links()),
	)
	return catalog, nil
}

// Swap tayyor snapshotni o'rnatadi va e'lon qilingan snapshotni qaytaradi.
// Berilgan snapshot o'zgartirilmaydi: versiyasi eskirgan bo'lsa yangi versiyali nusxasi o'rnatiladi.
func (s *CatalogStore) Swap(catalog *entity.Catalog) *entity.Catalog {
	if catalog == nil {
		return nil
	}
	var published *entity.Catalog
	for {
		v := s.version.Load()
		published = catalog
		if catalog.Version <= v {
			published = catalog.WithVersion(v + 1)
		}
		if s.version.CompareAndSwap(v, published.Version) {
			break
		}
	}
	s.current.Store(published)

	s.listenersMu.RLock()
	listeners := append([]func(*entity.Catalog){}, s.listeners...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(published)
	}
	return published
}
