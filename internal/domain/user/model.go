package user

import (
	"strings"
	"time"
)

// SubscriptionSnapshot mirrors the active subscription copied onto the user
// document when a subscription payment completes.
type SubscriptionSnapshot struct {
	SubscriptionID string    `firestore:"subscriptionId" json:"subscriptionId"`
	Name           string    `firestore:"name" json:"name"`
	Type           string    `firestore:"type" json:"type"`
	PurchasedAt    time.Time `firestore:"purchasedAt" json:"purchasedAt"`
	ExpiresAt      time.Time `firestore:"expiresAt" json:"expiresAt"`
}

// MedicalInfo tracks the member's medical certificate.
type MedicalInfo struct {
	CertificateURL string     `firestore:"certificateUrl,omitempty" json:"certificateUrl,omitempty"`
	ExpiresAt      *time.Time `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// BudoPassExtra holds the printable-card fields that are not part of the
// base profile.
type BudoPassExtra struct {
	PassNumber    string `firestore:"passNumber,omitempty" json:"passNumber,omitempty"`
	Federation    string `firestore:"federation,omitempty" json:"federation,omitempty"`
	Qualification string `firestore:"qualification,omitempty" json:"qualification,omitempty"`
	CurrentGrade  string `firestore:"currentGrade,omitempty" json:"currentGrade,omitempty"`
	IssuedAt      string `firestore:"issuedAt,omitempty" json:"issuedAt,omitempty"`
}

// Profile is the users/{uid} document.
type Profile struct {
	UID         string `firestore:"uid" json:"uid"`
	Email       string `firestore:"email,omitempty" json:"email,omitempty"`
	DisplayName string `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL    string `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	BirthDate   string `firestore:"birthDate,omitempty" json:"birthDate,omitempty"`
	BirthPlace  string `firestore:"birthPlace,omitempty" json:"birthPlace,omitempty"`
	TaxCode     string `firestore:"taxCode,omitempty" json:"taxCode,omitempty"`
	Address     string `firestore:"address,omitempty" json:"address,omitempty"`
	Phone       string `firestore:"phone,omitempty" json:"phone,omitempty"`

	// Role mirrors the auth custom claim for display; authorization reads
	// the verified claim, never this field.
	Role string `firestore:"role,omitempty" json:"role,omitempty"`

	AssociationStatus        string `firestore:"associationStatus,omitempty" json:"associationStatus,omitempty"`
	Insured                  bool   `firestore:"insured" json:"insured"`
	AssociationPaymentFailed bool   `firestore:"associationPaymentFailed" json:"associationPaymentFailed"`

	TrialStatus        string `firestore:"trialStatus,omitempty" json:"trialStatus,omitempty"`
	TrialPaymentFailed bool   `firestore:"trialPaymentFailed" json:"trialPaymentFailed"`

	SubscriptionAccessStatus  string                `firestore:"subscriptionAccessStatus,omitempty" json:"subscriptionAccessStatus,omitempty"`
	SubscriptionPaymentFailed bool                  `firestore:"subscriptionPaymentFailed" json:"subscriptionPaymentFailed"`
	SubscriptionActivatedAt   *time.Time            `firestore:"subscriptionActivatedAt,omitempty" json:"subscriptionActivatedAt,omitempty"`
	ActiveSubscription        *SubscriptionSnapshot `firestore:"activeSubscription,omitempty" json:"activeSubscription,omitempty"`

	MedicalInfo   *MedicalInfo   `firestore:"medicalInfo,omitempty" json:"medicalInfo,omitempty"`
	BudoPassExtra *BudoPassExtra `firestore:"budoPassExtra,omitempty" json:"budoPassExtra,omitempty"`

	SearchTokens []string  `firestore:"searchTokens,omitempty" json:"-"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UpdateProfileInput is the member-editable subset.
type UpdateProfileInput struct {
	DisplayName *string        `json:"displayName,omitempty"`
	PhotoURL    *string        `json:"photoURL,omitempty"`
	BirthDate   *string        `json:"birthDate,omitempty"`
	BirthPlace  *string        `json:"birthPlace,omitempty"`
	TaxCode     *string        `json:"taxCode,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	MedicalInfo *MedicalInfo   `json:"medicalInfo,omitempty"`
	BudoPass    *BudoPassExtra `json:"budoPassExtra,omitempty"`
}

func (in *UpdateProfileInput) Trim() {
	for _, p := range []*string{in.DisplayName, in.PhotoURL, in.BirthDate, in.BirthPlace, in.TaxCode, in.Address, in.Phone} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// ProtectedFields can never be written through profile updates.
var ProtectedFields = []string{
	"uid", "email", "role", "createdAt",
	"associationStatus", "insured", "associationPaymentFailed",
	"trialStatus", "trialPaymentFailed",
	"subscriptionAccessStatus", "subscriptionPaymentFailed",
	"subscriptionActivatedAt", "activeSubscription",
	"stripeCustomerId",
}

// UpdateStatusInput is the admin override for the club status flags.
type UpdateStatusInput struct {
	AssociationStatus        *string `json:"associationStatus,omitempty"`
	Insured                  *bool   `json:"insured,omitempty"`
	TrialStatus              *string `json:"trialStatus,omitempty"`
	SubscriptionAccessStatus *string `json:"subscriptionAccessStatus,omitempty"`
}
