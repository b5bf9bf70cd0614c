package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seasonal(id string, purchaseFrom, purchaseTo, validFrom, validTo string) Offering {
	return Offering{
		ID:           id,
		Name:         "Stagionale " + id,
		Type:         TypeSeasonal,
		PurchaseFrom: day(purchaseFrom),
		PurchaseTo:   day(purchaseTo),
		ValidFrom:    day(validFrom),
		ValidTo:      day(validTo),
	}
}

func monthly(id string, validFrom, validTo string) Offering {
	return Offering{
		ID:        id,
		Name:      "Mensile " + id,
		Type:      TypeMonthly,
		ValidFrom: day(validFrom),
		ValidTo:   day(validTo),
	}
}

func threeSeasons() []Offering {
	return []Offering{
		seasonal("s1", "2025-08-01", "2025-10-31", "2025-09-01", "2025-12-31"),
		seasonal("s2", "2025-11-01", "2026-01-31", "2026-01-01", "2026-04-30"),
		seasonal("s3", "2026-02-01", "2026-04-30", "2026-05-01", "2026-08-31"),
	}
}

func TestSelectSeasonalInsideWindow(t *testing.T) {
	got := SelectSeasonal(threeSeasons(), day("2025-12-15"))
	if assert.NotNil(t, got) {
		assert.Equal(t, "s2", got.ID)
	}
}

func TestSelectSeasonalBeforeAllWindows(t *testing.T) {
	got := SelectSeasonal(threeSeasons(), day("2025-06-01"))
	if assert.NotNil(t, got) {
		assert.Equal(t, "s1", got.ID)
	}
}

func TestSelectSeasonalBetweenWindowsPicksNearestFuture(t *testing.T) {
	offerings := []Offering{
		seasonal("s1", "2025-08-01", "2025-09-30", "2025-09-01", "2025-12-31"),
		seasonal("s2", "2025-11-01", "2026-01-31", "2026-01-01", "2026-04-30"),
	}
	got := SelectSeasonal(offerings, day("2025-10-15"))
	if assert.NotNil(t, got) {
		assert.Equal(t, "s2", got.ID)
	}
}

func TestSelectSeasonalAfterAllWindowsFallsBack(t *testing.T) {
	got := SelectSeasonal(threeSeasons(), day("2026-06-01"))
	if assert.NotNil(t, got) {
		assert.Equal(t, "s1", got.ID) // earliest validity
	}
}

func TestSelectSeasonalIgnoresMonthly(t *testing.T) {
	got := SelectSeasonal([]Offering{monthly("m1", "2025-09-01", "2025-09-30")}, day("2025-09-10"))
	assert.Nil(t, got)
}

func TestSelectMonthlySkipsOwnedAndExpired(t *testing.T) {
	offerings := []Offering{
		monthly("m1", "2025-09-01", "2025-09-30"),
		monthly("m2", "2025-10-01", "2025-10-31"),
		monthly("m3", "2025-11-01", "2025-11-30"),
	}
	now := day("2025-10-15")

	// m1 expired, m2 owned: m3 is next.
	got := SelectMonthly(offerings, []string{"m2"}, now)
	if assert.NotNil(t, got) {
		assert.Equal(t, "m3", got.ID)
	}

	// nothing owned: m2 still valid and earliest.
	got = SelectMonthly(offerings, nil, now)
	if assert.NotNil(t, got) {
		assert.Equal(t, "m2", got.ID)
	}

	// everything owned or expired.
	got = SelectMonthly(offerings, []string{"m2", "m3"}, now)
	assert.Nil(t, got)
}

func TestChooseDispatches(t *testing.T) {
	offerings := append(threeSeasons(), monthly("m1", "2025-12-01", "2025-12-31"))
	now := day("2025-12-15")

	got := Choose(offerings, TypeMonthly, nil, now)
	if assert.NotNil(t, got) {
		assert.Equal(t, "m1", got.ID)
	}

	got = Choose(offerings, TypeSeasonal, nil, now)
	if assert.NotNil(t, got) {
		assert.Equal(t, "s2", got.ID)
	}
}
