package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
)

var fuzzyNames = []string{
	"Galaxy S23",
	"Galaxy S23 Ultra",
	"Galaxy S23 FE",
	"iPhone 15 Pro Max",
	"iPhone 15",
	"Redmi Note 13 Pro",
	"Galaxy A54",
}

func TestFuzzyScore(t *testing.T) {
	var m FuzzyMatcher
	tests := []struct {
		a, b string
		want int
	}{
		{"Galaxy S23", "galaxy s23", 100},
		{"S23 Galaxy", "Galaxy S23", 95},
		{"glaxy s23 ultra", "Galaxy S23 Ultra", 97},
		{"S23", "Galaxy S23", 90},
		{"Galaxy S23", "Galaxy S23 Ultra", 90},
		// uzunlik nisbati 8 da hali 0.9, 8 dan katta bo'lsa 0.6
		{"a", "abcdefgh", 90},
		{"a", "abcdefghi", 60},
		{"", "Galaxy S23", 0},
		{"!!!", "Galaxy S23", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Score(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestFuzzyExtract_OrderAndLimit(t *testing.T) {
	var m FuzzyMatcher
	got := m.Extract("glaxy s23 ultra", fuzzyNames, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Galaxy S23 Ultra", got[0].Name)
	assert.Equal(t, 97, got[0].Score)
	assert.Equal(t, "Galaxy S23", got[1].Name)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestFuzzyExtract_TiesKeepCandidateOrder(t *testing.T) {
	var m FuzzyMatcher
	got := m.Extract("S23", fuzzyNames, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Galaxy S23", "Galaxy S23 Ultra", "Galaxy S23 FE"},
		[]string{got[0].Name, got[1].Name, got[2].Name})
	for _, c := range got {
		assert.Equal(t, 90, c.Score)
	}
}

func TestFuzzyExtract_Deterministic(t *testing.T) {
	var m FuzzyMatcher
	first := m.Extract("galaxy", fuzzyNames, 0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, m.Extract("galaxy", fuzzyNames, 0))
	}
}

func TestFuzzyExtract_EmptyInputs(t *testing.T) {
	var m FuzzyMatcher
	assert.Empty(t, m.Extract("galaxy", nil, 5))
	assert.Empty(t, m.Extract("", fuzzyNames, 5))
	assert.Empty(t, m.Extract("   ", fuzzyNames, 5))

	got := m.Extract("a", fuzzyNames, 5)
	require.NotEmpty(t, got)
	assert.Less(t, got[0].Score, 70)

	_, ok := m.ExtractOne("x", nil)
	assert.False(t, ok)
}

func TestNormalizeForMatch(t *testing.T) {
	assert.Equal(t, "galaxy s23 ultra", normalizeForMatch("  Galaxy   S23-Ultra!! "))
	assert.Equal(t, "iphone 15", normalizeForMatch("ＩＰＨＯＮＥ　１５"))
	assert.Equal(t, "", normalizeForMatch("--"))
}

func TestCapQuery(t *testing.T) {
	short := "galaxy s23 ultra"
	assert.Equal(t, short, capQuery(short))

	long := strings.Repeat("ultra ", 100)
	capped := capQuery(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(capped), constants.MaxQueryRunes)
	assert.False(t, strings.HasSuffix(capped, " "))
	assert.True(t, strings.HasPrefix(long, capped))

	arabic := strings.Repeat("جالكسي", 40)
	assert.Equal(t, constants.MaxQueryRunes, utf8.RuneCountInString(capQuery(arabic)))
}

func TestFuzzyExtract_LongQueryScoresLikeItsPrefix(t *testing.T) {
	var m FuzzyMatcher
	prefix := strings.Repeat("x", constants.MaxQueryRunes)
	long := prefix + " galaxy s23 ultra"

	assert.Equal(t, m.Extract(prefix, fuzzyNames, 3), m.Extract(long, fuzzyNames, 3))
}
