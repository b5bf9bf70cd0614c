package payments

import (
	"testing"
	"time"

	"club-manager/backend/internal/domain/awards"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCancelled, false},
		{StatusPending, StatusPending, false},
		{StatusCompleted, StatusCancelled, true},
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusFailed, StatusCompleted, false},
		{StatusFailed, StatusCancelled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCompletionEffectsAssociation(t *testing.T) {
	now := time.Now()
	eff := CompletionEffects(Payment{Type: TypeAssociation}, now)

	assert.Equal(t, AssociationActive, eff["associationStatus"])
	assert.Equal(t, true, eff["insured"])
	assert.Equal(t, false, eff["associationPaymentFailed"])
}

func TestCompletionEffectsSubscriptionCopiesSnapshot(t *testing.T) {
	now := time.Now()
	expires := now.AddDate(0, 1, 0)
	p := Payment{
		Type: TypeSubscription,
		Subscription: &SubscriptionSnapshot{
			SubscriptionID: "sub-1",
			Name:           "Mensile Settembre",
			Type:           "monthly",
			PurchasedAt:    now,
			ExpiresAt:      expires,
		},
	}

	eff := CompletionEffects(p, now)

	assert.Equal(t, SubscriptionAccessActive, eff["subscriptionAccessStatus"])
	assert.Equal(t, false, eff["subscriptionPaymentFailed"])
	active, ok := eff["activeSubscription"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, "sub-1", active["subscriptionId"])
		assert.Equal(t, expires, active["expiresAt"])
	}
}

func TestFailureEffects(t *testing.T) {
	now := time.Now()

	eff := FailureEffects(Payment{Type: TypeSubscription}, now)
	assert.Equal(t, SubscriptionAccessExpired, eff["subscriptionAccessStatus"])
	assert.Equal(t, true, eff["subscriptionPaymentFailed"])

	eff = FailureEffects(Payment{Type: TypeTrial}, now)
	assert.Equal(t, TrialNotApplicable, eff["trialStatus"])
	assert.Equal(t, true, eff["trialPaymentFailed"])

	eff = FailureEffects(Payment{Type: TypeAssociation}, now)
	assert.Equal(t, AssociationNotAssociated, eff["associationStatus"])
	assert.Equal(t, true, eff["associationPaymentFailed"])
}

func TestCancellationEffectsSubscriptionDeletesFields(t *testing.T) {
	now := time.Now()
	eff := CancellationEffects(Payment{Type: TypeSubscription}, now)

	assert.Equal(t, SubscriptionAccessExpired, eff["subscriptionAccessStatus"])
	v, present := eff["activeSubscription"]
	assert.True(t, present)
	assert.Nil(t, v)
	v, present = eff["subscriptionActivatedAt"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestCancellationEffectsAssociationRevokesInsurance(t *testing.T) {
	eff := CancellationEffects(Payment{Type: TypeAssociation}, time.Now())
	assert.Equal(t, AssociationNotAssociated, eff["associationStatus"])
	assert.Equal(t, false, eff["insured"])
}

func TestRefundConsumptionsPrefersPerAwardRecords(t *testing.T) {
	p := Payment{
		BonusUsed: 5000,
		AwardIDs:  []string{"a", "b"},
		Consumptions: []awards.Consumption{
			{UserAwardID: "a", Amount: 4000},
			{UserAwardID: "b", Amount: 1000},
		},
	}
	assert.Equal(t, p.Consumptions, p.RefundConsumptions())
}

func TestRefundConsumptionsLegacyEvenSplit(t *testing.T) {
	p := Payment{BonusUsed: 1001, AwardIDs: []string{"a", "b"}}

	cons := p.RefundConsumptions()

	if assert.Len(t, cons, 2) {
		assert.Equal(t, awards.Consumption{UserAwardID: "a", Amount: 501}, cons[0])
		assert.Equal(t, awards.Consumption{UserAwardID: "b", Amount: 500}, cons[1])
	}
}

func TestRefundConsumptionsNoBonus(t *testing.T) {
	assert.Nil(t, Payment{BonusUsed: 0, AwardIDs: []string{"a"}}.RefundConsumptions())
	assert.Nil(t, Payment{BonusUsed: 100}.RefundConsumptions())
}
