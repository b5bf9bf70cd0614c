package payments

import (
	"strings"
	"time"

	"club-manager/backend/internal/domain/awards"
)

// Status is the payment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Type identifies which club service a payment purchases.
type Type string

const (
	TypeAssociation  Type = "association"
	TypeTrial        Type = "trial"
	TypeSubscription Type = "subscription"
)

func IsValidType(t string) bool {
	switch Type(t) {
	case TypeAssociation, TypeTrial, TypeSubscription:
		return true
	}
	return false
}

// Payment methods.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
)

func IsValidMethod(m string) bool {
	return m == MethodCash || m == MethodCard || m == MethodTransfer
}

// SubscriptionSnapshot freezes the purchased offering on the payment; the
// catalog entry may change later, the snapshot never does.
type SubscriptionSnapshot struct {
	SubscriptionID string    `firestore:"subscriptionId" json:"subscriptionId"`
	Name           string    `firestore:"name" json:"name"`
	Type           string    `firestore:"type" json:"type"` // monthly | seasonal
	PurchasedAt    time.Time `firestore:"purchasedAt" json:"purchasedAt"`
	ExpiresAt      time.Time `firestore:"expiresAt" json:"expiresAt"`
}

// Payment lives at users/{uid}/payments/{id}. Amounts are euro cents.
type Payment struct {
	ID          string `firestore:"-" json:"id"`
	UID         string `firestore:"uid" json:"uid"`
	Amount      int64  `firestore:"amount" json:"amount"`       // gross price
	BonusUsed   int64  `firestore:"bonusUsed" json:"bonusUsed"` // total bonus applied
	AmountDue   int64  `firestore:"amountDue" json:"amountDue"` // amount - bonusUsed
	Description string `firestore:"description,omitempty" json:"description,omitempty"`
	Method      string `firestore:"method" json:"method"`
	Status      Status `firestore:"status" json:"status"`
	Type        Type   `firestore:"type" json:"type"`

	// Per-award consumption records; the refund path reverses exactly these.
	Consumptions []awards.Consumption `firestore:"bonusConsumptions,omitempty" json:"bonusConsumptions,omitempty"`
	// Legacy aggregate form: a list of award ids with only BonusUsed as the
	// total. Refunded with an even split when Consumptions is absent.
	AwardIDs []string `firestore:"awardIds,omitempty" json:"awardIds,omitempty"`

	Subscription *SubscriptionSnapshot `firestore:"subscription,omitempty" json:"subscription,omitempty"`

	// Outbound hosted checkout link for card payments, when configured.
	CheckoutURL string `firestore:"checkoutUrl,omitempty" json:"checkoutUrl,omitempty"`

	CreatedAt   time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt" json:"updatedAt"`
	ApprovedBy  string     `firestore:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	CompletedAt *time.Time `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
	FailedAt    *time.Time `firestore:"failedAt,omitempty" json:"failedAt,omitempty"`
	CancelledAt *time.Time `firestore:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelledBy string     `firestore:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
}

// RefundConsumptions returns what the ledger must restore for this payment.
// Payments written by this backend carry per-award records; legacy documents
// only carry the id list plus the aggregate, which is split evenly.
func (p Payment) RefundConsumptions() []awards.Consumption {
	if len(p.Consumptions) > 0 {
		return p.Consumptions
	}
	if p.BonusUsed <= 0 || len(p.AwardIDs) == 0 {
		return nil
	}
	amounts := awards.SplitEvenly(p.BonusUsed, len(p.AwardIDs))
	cons := make([]awards.Consumption, 0, len(p.AwardIDs))
	for i, id := range p.AwardIDs {
		if amounts[i] <= 0 {
			continue
		}
		cons = append(cons, awards.Consumption{UserAwardID: id, Amount: amounts[i]})
	}
	return cons
}

// CreatePurchaseInput is the member-facing purchase request.
type CreatePurchaseInput struct {
	Type        string `json:"type"`
	Method      string `json:"method"`
	Description string `json:"description,omitempty"`
	// UseBonus applies the spendable award balance to the price.
	UseBonus bool `json:"useBonus"`
}

func (in *CreatePurchaseInput) Trim() {
	in.Type = strings.TrimSpace(in.Type)
	in.Method = strings.TrimSpace(in.Method)
	in.Description = strings.TrimSpace(in.Description)
	if len(in.Description) > 300 {
		in.Description = in.Description[:300]
	}
}
