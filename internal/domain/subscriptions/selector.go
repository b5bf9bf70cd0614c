package subscriptions

import (
	"sort"
	"time"
)

// Deterministic choice of which offering to present for purchase. No side
// effects; the service feeds it the catalog and the caller's owned ids.

// SelectSeasonal prefers the offering whose purchase window contains now,
// else the nearest future-purchasable one, else any (earliest validity).
func SelectSeasonal(offerings []Offering, now time.Time) *Offering {
	var candidates []Offering
	for _, o := range offerings {
		if o.Type == TypeSeasonal {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	for i := range candidates {
		if candidates[i].PurchasableAt(now) {
			return &candidates[i]
		}
	}

	var future []Offering
	for _, o := range candidates {
		if o.PurchaseFrom.After(now) {
			future = append(future, o)
		}
	}
	if len(future) > 0 {
		sort.Slice(future, func(i, j int) bool {
			return future[i].PurchaseFrom.Before(future[j].PurchaseFrom)
		})
		return &future[0]
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ValidFrom.Before(candidates[j].ValidFrom)
	})
	return &candidates[0]
}

// SelectMonthly picks the earliest-starting monthly offering the member does
// not already own and whose validity is not entirely past.
func SelectMonthly(offerings []Offering, ownedIDs []string, now time.Time) *Offering {
	owned := make(map[string]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}

	var candidates []Offering
	for _, o := range offerings {
		if o.Type != TypeMonthly || owned[o.ID] || o.Expired(now) {
			continue
		}
		candidates = append(candidates, o)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ValidFrom.Before(candidates[j].ValidFrom)
	})
	return &candidates[0]
}

// Choose dispatches on the requested offering type.
func Choose(offerings []Offering, typ string, ownedIDs []string, now time.Time) *Offering {
	if typ == TypeMonthly {
		return SelectMonthly(offerings, ownedIDs, now)
	}
	return SelectSeasonal(offerings, now)
}
