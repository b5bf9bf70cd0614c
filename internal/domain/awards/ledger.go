package awards

import "time"

// Ledger arithmetic for bonus application and refund. These functions are
// pure: the repo applies their results inside a Firestore transaction.

// Consumption records how much of one user award a payment consumed.
type Consumption struct {
	UserAwardID string `firestore:"userAwardId" json:"userAwardId"`
	Amount      int64  `firestore:"amount" json:"amount"`
}

// Residuo recomputes the remaining spendable value, clamped at zero.
func Residuo(value, usedValue int64) int64 {
	if r := value - usedValue; r > 0 {
		return r
	}
	return 0
}

// SpendableTotal sums the residuals of every spendable award instance.
func SpendableTotal(list []UserAward) int64 {
	var total int64
	for _, a := range list {
		if !a.Spendable() {
			continue
		}
		total += Residuo(a.Value, a.UsedValue)
	}
	return total
}

// PlanApply greedily consumes awards in listing order until price is covered
// or the spendable bonus is exhausted. It returns the per-award consumptions,
// the total bonus used (capped at the spendable total) and the residual price.
func PlanApply(list []UserAward, price int64) (cons []Consumption, bonusUsed, finalPrice int64) {
	remaining := price
	for _, a := range list {
		if remaining <= 0 {
			break
		}
		if !a.Spendable() {
			continue
		}
		residuo := Residuo(a.Value, a.UsedValue)
		if residuo <= 0 {
			continue
		}
		take := residuo
		if take > remaining {
			take = remaining
		}
		cons = append(cons, Consumption{UserAwardID: a.ID, Amount: take})
		bonusUsed += take
		remaining -= take
	}
	return cons, bonusUsed, remaining
}

// Apply consumes amount from an award instance.
func Apply(a UserAward, amount int64, now time.Time) UserAward {
	a.UsedValue += amount
	a.Residuo = Residuo(a.Value, a.UsedValue)
	a.Used = a.Residuo == 0
	a.UpdatedAt = now
	return a
}

// Refund restores amount to an award instance, reversing a prior Apply.
func Refund(a UserAward, amount int64, now time.Time) UserAward {
	a.UsedValue -= amount
	if a.UsedValue < 0 {
		a.UsedValue = 0
	}
	a.Residuo = Residuo(a.Value, a.UsedValue)
	a.Used = a.Residuo == 0
	a.UpdatedAt = now
	return a
}

// SplitEvenly divides total across n entries, assigning the remainder one
// cent at a time from the front. Only used to refund legacy payments that
// recorded an aggregate bonus against a list of award ids.
func SplitEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	out := make([]int64, n)
	base := total / int64(n)
	rest := total % int64(n)
	for i := range out {
		out[i] = base
		if int64(i) < rest {
			out[i]++
		}
	}
	return out
}
