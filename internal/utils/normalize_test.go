package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	assert.Equal(t, "pietro buo", FoldName("  Pietro   Buò "))
	assert.Equal(t, "jose garcia", FoldName("José García"))
	assert.Equal(t, "", FoldName("   "))
}

func TestSearchTokens(t *testing.T) {
	tokens := SearchTokens("Pietro Buò", "pietro.buo@example.com")

	assert.Contains(t, tokens, "pietro buo")
	assert.Contains(t, tokens, "pietro")
	assert.Contains(t, tokens, "buo")
	assert.Contains(t, tokens, "pietro.buo@example.com")

	// no duplicates
	seen := map[string]bool{}
	for _, tok := range tokens {
		assert.False(t, seen[tok], "duplicate token %q", tok)
		seen[tok] = true
	}
}

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	// 00:30 local on the 15th is still the 14th in UTC.
	ts := time.Date(2025, 9, 15, 0, 30, 0, 0, loc)
	assert.Equal(t, "2025-09-14", DayKey(ts))

	assert.Equal(t, "2025-09-15", DayKey(time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)))
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2025-09-15T10:00:00Z",
		"2025-09-15T10:00:00",
		"2025-09-15 10:00:00",
		"2025-09-15",
	} {
		_, err := ParseTime(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseTime("15/09/2025")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTrimMax(t *testing.T) {
	assert.Equal(t, "abc", TrimMax("  abc  ", 10))
	assert.Equal(t, "abcde", TrimMax("abcdefgh", 5))
}
