package awards

import (
	"strings"
	"time"
)

// AttendancePrizeName is the award category that accumulates value but can
// never be redeemed against a purchase.
const AttendancePrizeName = "Premio Presenze"

// Award is a catalog entry an admin can grant to members.
type Award struct {
	ID        string    `firestore:"-" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	Value     int64     `firestore:"value" json:"value"` // euro cents
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// UserAward is one granted instance of a catalog award. Residuo is the
// remaining spendable value; the invariant residuo == max(0, value-usedValue)
// holds after every apply/refund.
type UserAward struct {
	ID        string    `firestore:"-" json:"id"`
	AwardID   string    `firestore:"awardId" json:"awardId"`
	Name      string    `firestore:"name" json:"name"`
	Value     int64     `firestore:"value" json:"value"`
	UsedValue int64     `firestore:"usedValue" json:"usedValue"`
	Residuo   int64     `firestore:"residuo" json:"residuo"`
	Used      bool      `firestore:"used" json:"used"`
	GrantedBy string    `firestore:"grantedBy,omitempty" json:"grantedBy,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Spendable reports whether this award instance may be redeemed at all.
// The attendance prize accumulates but is never spendable.
func (a UserAward) Spendable() bool {
	return !strings.EqualFold(strings.TrimSpace(a.Name), AttendancePrizeName)
}

// CreateAwardInput is the admin input for a catalog award.
type CreateAwardInput struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func (in *CreateAwardInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
}

// GrantInput grants a catalog award to a member.
type GrantInput struct {
	AwardID string `json:"awardId"`
	// Value overrides the catalog value when > 0 (e.g. a pro-rated prize).
	Value int64 `json:"value,omitempty"`
}

func (in *GrantInput) Trim() {
	in.AwardID = strings.TrimSpace(in.AwardID)
}
