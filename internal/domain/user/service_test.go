package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestBuildProfileUpdatesCarriesSearchTokensInOneWrite(t *testing.T) {
	current := &Profile{
		UID:         "u1",
		Email:       "mario.rossi@example.com",
		DisplayName: "Mario",
	}
	now := time.Now().UTC()

	updates := buildProfileUpdates(current, UpdateProfileInput{
		DisplayName: strptr("Mario Rossi"),
	}, now)

	assert.Equal(t, "Mario Rossi", updates["displayName"])
	tokens, ok := updates["searchTokens"].([]string)
	if assert.True(t, ok, "searchTokens must be in the same field map") {
		assert.Contains(t, tokens, "mario rossi")
		assert.Contains(t, tokens, "rossi")
	}
	assert.Equal(t, now, updates["updatedAt"])
}

func TestBuildProfileUpdatesTokensFromStoredNameWhenUnchanged(t *testing.T) {
	current := &Profile{
		UID:         "u1",
		Email:       "mario.rossi@example.com",
		DisplayName: "Mario Rossi",
	}

	updates := buildProfileUpdates(current, UpdateProfileInput{
		Phone: strptr("+39 333 1234567"),
	}, time.Now().UTC())

	_, hasName := updates["displayName"]
	assert.False(t, hasName)
	tokens, ok := updates["searchTokens"].([]string)
	if assert.True(t, ok) {
		assert.Contains(t, tokens, "mario rossi")
	}
}

func TestBuildProfileUpdatesNeverTouchesProtectedFields(t *testing.T) {
	updates := buildProfileUpdates(&Profile{UID: "u1"}, UpdateProfileInput{
		DisplayName: strptr("Mario"),
		TaxCode:     strptr("RSSMRA80A01H501U"),
	}, time.Now().UTC())

	for _, f := range []string{"role", "associationStatus", "insured", "trialStatus",
		"subscriptionAccessStatus", "activeSubscription", "email", "uid"} {
		_, present := updates[f]
		assert.False(t, present, "protected field %q must not be written", f)
	}
}

func TestValidateStatusInput(t *testing.T) {
	assert.NoError(t, validateStatusInput(UpdateStatusInput{}))
	assert.NoError(t, validateStatusInput(UpdateStatusInput{
		AssociationStatus:        strptr("active"),
		TrialStatus:              strptr("not_applicable"),
		SubscriptionAccessStatus: strptr("expired"),
	}))
	assert.NoError(t, validateStatusInput(UpdateStatusInput{
		AssociationStatus: strptr("requested"),
	}))

	err := validateStatusInput(UpdateStatusInput{AssociationStatus: strptr("banana")})
	assert.True(t, IsErrBadRequest(err))

	err = validateStatusInput(UpdateStatusInput{TrialStatus: strptr("expired")})
	assert.True(t, IsErrBadRequest(err))

	err = validateStatusInput(UpdateStatusInput{SubscriptionAccessStatus: strptr("requested")})
	assert.True(t, IsErrBadRequest(err))
}
