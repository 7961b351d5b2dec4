package entity

// Candidate fuzzy matcher natijasi (nom, 0-100 ball)
type Candidate struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ResolvedEntry aniq topilgan qurilma: yozuv, ball va batafsil link
type ResolvedEntry struct {
	Entry CatalogEntry `json:"entry"`
	Score int          `json:"score"`
	Link  string       `json:"link"`
}

// PriceMatch narx oralig'iga tushgan bitta variant
type PriceMatch struct {
	Name    string  `json:"name"`
	Variant Variant `json:"variant"`
	Value   float64 `json:"value"`
	Link    string  `json:"link"`
}

// PriceScan narx bo'yicha skanerlash hisoblagichlari
type PriceScan struct {
	Low       int64 `json:"low"`
	High      int64 `json:"high"`
	Scanned   int   `json:"scanned"`
	InBand    int   `json:"in_band"`
	OutOfBand int   `json:"out_of_band"`
	Skipped   int   `json:"skipped"`
}

// ResultKind QueryResult variantining tegi
type ResultKind int

const (
	ResultNoMatch ResultKind = iota
	ResultExact
	ResultSuggestions
	ResultPrice
)

func (k ResultKind) String() string {
	switch k {
	case ResultExact:
		return "exact"
	case ResultSuggestions:
		return "suggestions"
	case ResultPrice:
		return "price"
	default:
		return "no_match"
	}
}

// QueryResult so'rovni hal qilish natijasi (tegli variant).
// Kind ga qarab faqat bitta maydon to'ldiriladi.
type QueryResult struct {
	Kind        ResultKind      `json:"kind"`
	Query       string          `json:"query"`
	Matches     []ResolvedEntry `json:"matches,omitempty"`
	Suggestions []Candidate     `json:"suggestions,omitempty"`
	Prices      []PriceMatch    `json:"prices,omitempty"`
	Scan        *PriceScan      `json:"scan,omitempty"`
}
