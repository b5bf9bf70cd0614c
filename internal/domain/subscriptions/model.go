package subscriptions

import (
	"strings"
	"time"
)

// Offering kinds.
const (
	TypeMonthly  = "monthly"
	TypeSeasonal = "seasonal"
)

func IsValidType(t string) bool {
	return t == TypeMonthly || t == TypeSeasonal
}

// Offering is a purchasable catalog entry. The purchase window bounds when
// it can be bought; the validity window bounds when it grants access. An
// offering is immutable once purchased: the buyer keeps a snapshot.
type Offering struct {
	ID           string    `firestore:"-" json:"id"`
	Name         string    `firestore:"name" json:"name"`
	Type         string    `firestore:"type" json:"type"`
	Price        int64     `firestore:"price" json:"price"` // euro cents
	PurchaseFrom time.Time `firestore:"purchaseFrom" json:"purchaseFrom"`
	PurchaseTo   time.Time `firestore:"purchaseTo" json:"purchaseTo"`
	ValidFrom    time.Time `firestore:"validFrom" json:"validFrom"`
	ValidTo      time.Time `firestore:"validTo" json:"validTo"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// PurchasableAt reports whether now falls inside the purchase window.
func (o Offering) PurchasableAt(now time.Time) bool {
	return !now.Before(o.PurchaseFrom) && !now.After(o.PurchaseTo)
}

// Expired reports whether the validity window is entirely in the past.
func (o Offering) Expired(now time.Time) bool {
	return o.ValidTo.Before(now)
}

// CreateOfferingInput is the admin input for a catalog offering. Times are
// RFC3339 or plain dates.
type CreateOfferingInput struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Price        int64  `json:"price"`
	PurchaseFrom string `json:"purchaseFrom"`
	PurchaseTo   string `json:"purchaseTo"`
	ValidFrom    string `json:"validFrom"`
	ValidTo      string `json:"validTo"`
}

func (in *CreateOfferingInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.PurchaseFrom = strings.TrimSpace(in.PurchaseFrom)
	in.PurchaseTo = strings.TrimSpace(in.PurchaseTo)
	in.ValidFrom = strings.TrimSpace(in.ValidFrom)
	in.ValidTo = strings.TrimSpace(in.ValidTo)
}

// PurchaseInput is the member purchase request; the offering itself is
// chosen by the selector.
type PurchaseInput struct {
	Method   string `json:"method"`
	UseBonus bool   `json:"useBonus"`
	// Type restricts the selection; defaults to seasonal.
	Type string `json:"type,omitempty"`
}

func (in *PurchaseInput) Trim() {
	in.Method = strings.TrimSpace(in.Method)
	in.Type = strings.TrimSpace(in.Type)
}
