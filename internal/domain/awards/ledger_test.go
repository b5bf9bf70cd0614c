package awards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func award(id, name string, value, used int64) UserAward {
	return UserAward{
		ID:        id,
		Name:      name,
		Value:     value,
		UsedValue: used,
		Residuo:   Residuo(value, used),
		Used:      Residuo(value, used) == 0,
	}
}

func TestResiduoClampsAtZero(t *testing.T) {
	assert.Equal(t, int64(3000), Residuo(5000, 2000))
	assert.Equal(t, int64(0), Residuo(5000, 5000))
	assert.Equal(t, int64(0), Residuo(5000, 9000))
}

func TestSpendableTotalExcludesAttendancePrize(t *testing.T) {
	list := []UserAward{
		award("a", "Premio Natale", 5000, 1000),
		award("b", AttendancePrizeName, 10000, 0),
		award("c", "premio presenze", 2000, 0), // case-insensitive match
		award("d", "Premio Torneo", 3000, 3000),
	}
	assert.Equal(t, int64(4000), SpendableTotal(list))
}

func TestPlanApplyConsumesInListingOrder(t *testing.T) {
	list := []UserAward{
		award("a", "Premio Uno", 3000, 0),
		award("b", "Premio Due", 5000, 0),
	}

	cons, used, final := PlanApply(list, 7000)

	assert.Equal(t, int64(7000), used)
	assert.Equal(t, int64(0), final)
	if assert.Len(t, cons, 2) {
		assert.Equal(t, Consumption{UserAwardID: "a", Amount: 3000}, cons[0])
		assert.Equal(t, Consumption{UserAwardID: "b", Amount: 4000}, cons[1])
	}
}

func TestPlanApplyCapsAtSpendable(t *testing.T) {
	list := []UserAward{
		award("a", "Premio Uno", 2000, 500),
		award("b", AttendancePrizeName, 100000, 0),
	}

	cons, used, final := PlanApply(list, 10000)

	assert.Equal(t, int64(1500), used)
	assert.Equal(t, int64(8500), final)
	assert.Len(t, cons, 1)
}

func TestPlanApplyPartialConsumption(t *testing.T) {
	list := []UserAward{
		award("a", "Premio Uno", 10000, 3000), // residuo 7000
	}

	cons, used, final := PlanApply(list, 1000)

	assert.Equal(t, int64(1000), used)
	assert.Equal(t, int64(0), final)
	if assert.Len(t, cons, 1) {
		assert.Equal(t, int64(1000), cons[0].Amount)
	}
}

func TestPlanApplyZeroPrice(t *testing.T) {
	list := []UserAward{award("a", "Premio Uno", 5000, 0)}
	cons, used, final := PlanApply(list, 0)
	assert.Empty(t, cons)
	assert.Zero(t, used)
	assert.Zero(t, final)
}

func TestApplyRefundRoundTrip(t *testing.T) {
	now := time.Now()
	a := award("a", "Premio Uno", 5000, 1000)

	applied := Apply(a, 2500, now)
	assert.Equal(t, int64(3500), applied.UsedValue)
	assert.Equal(t, int64(1500), applied.Residuo)
	assert.False(t, applied.Used)

	back := Refund(applied, 2500, now)
	assert.Equal(t, a.UsedValue, back.UsedValue)
	assert.Equal(t, a.Residuo, back.Residuo)
	assert.Equal(t, a.Used, back.Used)
}

func TestApplyExhaustsAward(t *testing.T) {
	now := time.Now()
	a := award("a", "Premio Uno", 5000, 0)

	applied := Apply(a, 5000, now)
	assert.Equal(t, int64(0), applied.Residuo)
	assert.True(t, applied.Used)
}

func TestRefundNeverGoesNegative(t *testing.T) {
	now := time.Now()
	a := award("a", "Premio Uno", 5000, 1000)

	back := Refund(a, 4000, now)
	assert.Equal(t, int64(0), back.UsedValue)
	assert.Equal(t, int64(5000), back.Residuo)
}

func TestSplitEvenly(t *testing.T) {
	assert.Equal(t, []int64{4, 3, 3}, SplitEvenly(10, 3))
	assert.Equal(t, []int64{5, 5}, SplitEvenly(10, 2))
	assert.Nil(t, SplitEvenly(10, 0))

	var sum int64
	for _, v := range SplitEvenly(9999, 7) {
		sum += v
	}
	assert.Equal(t, int64(9999), sum)
}

// A 100 euro award against a 70 euro purchase, then a refund, restores the
// full residual.
func TestApplyThenRefundScenario(t *testing.T) {
	now := time.Now()
	list := []UserAward{award("a", "Premio Uno", 10000, 0)}

	cons, used, final := PlanApply(list, 7000)
	assert.Equal(t, int64(7000), used)
	assert.Equal(t, int64(0), final)

	applied := Apply(list[0], cons[0].Amount, now)
	assert.Equal(t, int64(3000), applied.Residuo)

	refunded := Refund(applied, cons[0].Amount, now)
	assert.Equal(t, int64(10000), refunded.Residuo)
	assert.False(t, refunded.Used)
}
