package constants

import "time"

// Moslik chegaralari
const (
	// ExactThreshold nom so'rovida aniq moslik uchun minimal ball
	ExactThreshold = 95

	// SuggestionThreshold "shuni nazarda tutdingizmi" takliflari uchun minimal ball
	SuggestionThreshold = 70

	// ComparisonThreshold taqqoslashda har bir tomon uchun yagona eng yaxshi nomzod balli
	ComparisonThreshold = 95

	// LinkThreshold link jadvalidan fuzzy qidiruv uchun minimal ball
	LinkThreshold = 80

	// NameQueryLimit nom so'rovida ko'riladigan nomzodlar soni
	NameQueryLimit = 5

	// MaxQueryRunes fuzzy moslashdan oldin so'rov shu uzunlikkacha qisqartiriladi
	MaxQueryRunes = 128
)

// Narx oralig'i: [target*9/10, target*11/10]
const (
	PriceBandLowNum  = 9
	PriceBandHighNum = 11
	PriceBandDen     = 10
)

// Kanal va default qiymatlar
const (
	DefaultChannelUsername = "@mitech808"
	DefaultFallbackURL     = "https://t.me/mitech808"
	DefaultInstagramURL    = "https://www.instagram.com/mitech808"
	DefaultPricesPath      = "prices.xlsx"
	DefaultLinksPath       = "phones_urls.json"
)

// Sessiya konstantalari
const (
	// DefaultSessionTTL tashlab ketilgan taqqoslash sessiyasining umri
	DefaultSessionTTL = 30 * time.Minute

	// DefaultMaxSessions bir vaqtdagi taqqoslash sessiyalari chegarasi
	DefaultMaxSessions = 10000

	// DefaultResolveCacheSize hal qilingan so'rovlar keshi hajmi
	DefaultResolveCacheSize = 2048
)
