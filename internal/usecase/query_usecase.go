package usecase

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// QueryKind so'rov turi
type QueryKind int

const (
	NameQuery QueryKind = iota
	PriceQuery
)

// Query klassifikatsiya qilingan kiruvchi matn
type Query struct {
	Kind QueryKind
	Text string
	// Target PriceQuery uchun; Overflow bo'lsa oraliq hisoblanmaydi
	Target   int64
	Overflow bool
}

// ClassifyQuery matn faqat raqamlardan iborat bo'lsa narx so'rovi, aks holda nom so'rovi
func ClassifyQuery(text string) Query {
	text = strings.TrimSpace(text)
	q := Query{Kind: NameQuery, Text: text}
	if text == "" {
		return q
	}
	var b strings.Builder
	for _, r := range text {
		d, ok := digitValue(r)
		if !ok {
			return q
		}
		b.WriteByte(byte('0' + d))
	}
	q.Kind = PriceQuery
	target, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		q.Overflow = true
		return q
	}
	q.Target = target
	return q
}

// QueryUseCase foydalanuvchi so'rovini hal qilish
// Qaytarilgan natija keshdan kelishi mumkin, uni o'zgartirmang.
type QueryUseCase interface {
	Resolve(text string) (entity.QueryResult, error)
	Purge()
}

type queryUseCase struct {
	catalogs SnapshotProvider
	matcher  FuzzyMatcher
	links    *LinkResolver
	cache    *lru.Cache[string, entity.QueryResult]
	log      *logger.Logger
}

// NewQueryUseCase resolver yaratish. cacheSize <= 0 bo'lsa kesh o'chiriladi.
func NewQueryUseCase(catalogs SnapshotProvider, links *LinkResolver, cacheSize int, log *logger.Logger) QueryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if links == nil {
		links = NewLinkResolver("")
	}
	u := &queryUseCase{catalogs: catalogs, links: links, log: log}
	if cacheSize > 0 {
		if cache, err := lru.New[string, entity.QueryResult](cacheSize); err == nil {
			u.cache = cache
		}
	}
	return u
}

// Resolve returns ErrCatalogNotLoaded when no snapshot is live; every other
// outcome, including no match, is a value.
func (u *queryUseCase) Resolve(text string) (entity.QueryResult, error) {
	catalog := u.catalogs.Snapshot()
	if catalog == nil {
		return entity.QueryResult{}, entity.ErrCatalogNotLoaded
	}

	q := ClassifyQuery(text)
	key := fmt.Sprintf("%d|%s", catalog.Version, q.Text)
	if u.cache != nil {
		if res, ok := u.cache.Get(key); ok {
			return res, nil
		}
	}

	var res entity.QueryResult
	if q.Kind == PriceQuery {
		res = u.resolvePrice(catalog, q)
	} else {
		res = u.resolveName(catalog, q)
	}
	if u.cache != nil {
		u.cache.Add(key, res)
	}
	return res, nil
}

// Purge keshni tozalash (yangi snapshotdan keyin)
func (u *queryUseCase) Purge() {
	if u.cache != nil {
		u.cache.Purge()
	}
}

func (u *queryUseCase) resolvePrice(catalog *entity.Catalog, q Query) entity.QueryResult {
	res := entity.QueryResult{Kind: entity.ResultPrice, Query: q.Text}
	if q.Overflow {
		res.Scan = &entity.PriceScan{}
		return res
	}
	low, high, ok := PriceBand(q.Target)
	if !ok {
		res.Scan = &entity.PriceScan{}
		return res
	}
	matches, scan := scanPrices(catalog, low, high)
	for i := range matches {
		matches[i].Link = u.links.Resolve(catalog, matches[i].Name)
	}
	if scan.Skipped > 0 {
		u.log.Debug("price scan skipped unparsable prices", "skipped", scan.Skipped, "version", catalog.Version)
	}
	res.Prices = matches
	res.Scan = &scan
	return res
}

func (u *queryUseCase) resolveName(catalog *entity.Catalog, q Query) entity.QueryResult {
	res := entity.QueryResult{Kind: entity.ResultNoMatch, Query: q.Text}
	candidates := u.matcher.Extract(q.Text, catalog.Names(), constants.NameQueryLimit)

	for _, c := range candidates {
		if c.Score < constants.ExactThreshold {
			continue
		}
		entry, ok := catalog.Entry(c.Name)
		if !ok {
			continue
		}
		res.Matches = append(res.Matches, entity.ResolvedEntry{
			Entry: entry,
			Score: c.Score,
			Link:  u.links.Resolve(catalog, c.Name),
		})
	}
	if len(res.Matches) > 0 {
		res.Kind = entity.ResultExact
		return res
	}

	for _, c := range candidates {
		if c.Score >= constants.SuggestionThreshold {
			res.Suggestions = append(res.Suggestions, c)
		}
	}
	if len(res.Suggestions) > 0 {
		res.Kind = entity.ResultSuggestions
	}
	return res
}
