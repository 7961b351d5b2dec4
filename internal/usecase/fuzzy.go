package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// FuzzyMatcher scores strings against a candidate set on a 0-100 scale.
// The zero value is ready to use and safe for concurrent use.
type FuzzyMatcher struct{}

// Score returns the weighted similarity of a and b. The query side a is
// capped at constants.MaxQueryRunes after normalisation.
func (FuzzyMatcher) Score(a, b string) int {
	return weightedRatio(capQuery(normalizeForMatch(a)), normalizeForMatch(b))
}

// Extract returns the top limit candidates ordered by descending score.
// Equal scores keep the order of names. limit <= 0 means no limit.
func (FuzzyMatcher) Extract(query string, names []string, limit int) []entity.Candidate {
	q := capQuery(normalizeForMatch(query))
	if q == "" || len(names) == 0 {
		return nil
	}
	scored := make([]entity.Candidate, 0, len(names))
	for _, name := range names {
		scored = append(scored, entity.Candidate{
			Name:  name,
			Score: weightedRatio(q, normalizeForMatch(name)),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ExtractOne returns the single best candidate.
func (m FuzzyMatcher) ExtractOne(query string, names []string) (entity.Candidate, bool) {
	best := m.Extract(query, names, 1)
	if len(best) == 0 {
		return entity.Candidate{}, false
	}
	return best[0], true
}

// normalizeForMatch folds case, applies NFKC and turns every run of
// non letter/digit runes into a single space.
func normalizeForMatch(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// capQuery keeps the first constants.MaxQueryRunes runes.
func capQuery(q string) string {
	n := 0
	for i := range q {
		if n == constants.MaxQueryRunes {
			return strings.TrimRight(q[:i], " ")
		}
		n++
	}
	return q
}

func weightedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	base := ratio(ra, rb)

	la, lb := float64(len(ra)), float64(len(rb))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	if lenRatio < 1.5 {
		tsor := tokenSortRatio(a, b, ratio) * 0.95
		tser := tokenSetRatio(a, b, ratio) * 0.95
		return roundScore(math.Max(base, math.Max(tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := partialRatio(ra, rb) * partialScale
	ptsor := tokenSortRatio(a, b, partialRatio) * 0.95 * partialScale
	ptser := tokenSetRatio(a, b, partialRatio) * 0.95 * partialScale
	return roundScore(math.Max(math.Max(base, partial), math.Max(ptsor, ptser)))
}

func roundScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ratio is the normalized indel similarity: 100*(|a|+|b|-indel)/(|a|+|b|).
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 || len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 100 * float64(2*edlib.LCS(string(a), string(b))) / float64(total)
}

// partialRatio is the best ratio of the shorter string against every
// equally long window of the longer one.
func partialRatio(a, b []rune) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return 0
	}
	best := 0.0
	for i := 0; i+len(a) <= len(b); i++ {
		r := ratio(a, b[i:i+len(a)])
		if r > best {
			best = r
			if best >= 100 {
				break
			}
		}
	}
	return best
}

type runeScorer func(a, b []rune) float64

func tokenSortRatio(a, b string, scorer runeScorer) float64 {
	return scorer([]rune(sortedTokens(a)), []rune(sortedTokens(b)))
}

func tokenSetRatio(a, b string, scorer runeScorer) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var inter, diffAB, diffBA []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter = append(inter, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	sect := strings.Join(inter, " ")
	combinedAB := strings.TrimSpace(sect + " " + strings.Join(diffAB, " "))
	combinedBA := strings.TrimSpace(sect + " " + strings.Join(diffBA, " "))

	rs, rab, rba := []rune(sect), []rune(combinedAB), []rune(combinedBA)
	best := scorer(rab, rba)
	if len(rs) > 0 {
		best = math.Max(best, math.Max(scorer(rs, rab), scorer(rs, rba)))
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	tokens := strings.Fields(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
