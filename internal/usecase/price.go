package usecase

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// PriceParse is the outcome of parsing one catalog price string.
// OK is false for a parse skip; the scan counts it and moves on.
type PriceParse struct {
	Raw   string
	Value float64
	OK    bool
}

// thousands separators dropped before parsing; U+066C is the Arabic one
var priceSeparators = strings.NewReplacer(
	",", "",
	"\u066c", "",
	"'", "",
	"\u2019", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
)

// ParsePrice parses a price such as "1,200,000", "1٬200٬000" or "١٢٠٠٠٠٠".
// After separators are removed only digits and a single '.' are accepted;
// two or more dots in groups of three ("1.200.000") are thousands grouping.
func ParsePrice(raw string) PriceParse {
	res := PriceParse{Raw: raw}
	s := priceSeparators.Replace(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "\u066b", ".")
	if s == "" {
		return res
	}
	if strings.Count(s, ".") > 1 {
		if !dotGrouped(s) {
			return res
		}
		s = strings.ReplaceAll(s, ".", "")
	}

	var b strings.Builder
	b.Grow(len(s))
	dots, digits := 0, 0
	for _, r := range s {
		if d, ok := digitValue(r); ok {
			b.WriteByte(byte('0' + d))
			digits++
			continue
		}
		if r == '.' {
			dots++
			if dots > 1 {
				return res
			}
			b.WriteByte('.')
			continue
		}
		return res
	}
	if digits == 0 {
		return res
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return res
	}
	res.Value = v
	res.OK = true
	return res
}

// dotGrouped reports whether s is written with dots as thousands
// separators: "1.200.000" yes, "1.2.3" no.
func dotGrouped(s string) bool {
	groups := strings.Split(s, ".")
	for i, g := range groups {
		n := utf8.RuneCountInString(g)
		if n == 0 || n > 3 || (i > 0 && n != 3) {
			return false
		}
	}
	return true
}

// digitValue accepts ASCII, Arabic-Indic and Extended Arabic-Indic digits.
func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= '٠' && r <= '٩':
		return int(r - '٠'), true
	case r >= '۰' && r <= '۹':
		return int(r - '۰'), true
	}
	return 0, false
}

// PriceBand returns the inclusive band [floor(0.9*target), ceil(1.1*target)]
// in exact integer arithmetic. ok is false when the band would overflow.
func PriceBand(target int64) (low, high int64, ok bool) {
	if target < 0 || target > math.MaxInt64/constants.PriceBandHighNum {
		return 0, 0, false
	}
	low = target * constants.PriceBandLowNum / constants.PriceBandDen
	high = (target*constants.PriceBandHighNum + constants.PriceBandDen - 1) / constants.PriceBandDen
	return low, high, true
}

// scanPrices walks every variant in catalog order and keeps those whose
// parsed price lies in [low, high].
func scanPrices(catalog *entity.Catalog, low, high int64) ([]entity.PriceMatch, entity.PriceScan) {
	scan := entity.PriceScan{Low: low, High: high}
	var matches []entity.PriceMatch
	for _, entry := range catalog.Entries() {
		for _, v := range entry.Variants {
			scan.Scanned++
			p := ParsePrice(v.Price)
			if !p.OK {
				scan.Skipped++
				continue
			}
			if p.Value < float64(low) || p.Value > float64(high) {
				scan.OutOfBand++
				continue
			}
			scan.InBand++
			matches = append(matches, entity.PriceMatch{
				Name:    entry.Name,
				Variant: v,
				Value:   p.Value,
			})
		}
	}
	return matches, scan
}
