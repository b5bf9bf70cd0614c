package payments

import "time"

// Pure transition rules for the payment state machine and the user-document
// side effects of each transition. The service applies the returned field
// maps inside the same Firestore transaction that flips the payment status.

// CanTransition reports whether a status change is legal. Failed and
// cancelled are terminal; cancellation only undoes a completed payment.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusFailed
	case StatusCompleted:
		return to == StatusCancelled
	default:
		return false
	}
}

// User status values driven by payment transitions.
const (
	AssociationRequested     = "requested"
	AssociationActive        = "active"
	AssociationExpired       = "expired"
	AssociationNotAssociated = "not_associated"

	TrialActive        = "active"
	TrialNotApplicable = "not_applicable"

	SubscriptionAccessActive  = "active"
	SubscriptionAccessExpired = "expired"
)

// CompletionEffects returns the user-document updates for pending→completed:
// the purchased service activates and its payment-failed flag clears.
func CompletionEffects(p Payment, now time.Time) map[string]interface{} {
	switch p.Type {
	case TypeAssociation:
		return map[string]interface{}{
			"associationStatus":        AssociationActive,
			"insured":                  true,
			"associationPaymentFailed": false,
			"updatedAt":                now,
		}
	case TypeTrial:
		return map[string]interface{}{
			"trialStatus":        TrialActive,
			"trialPaymentFailed": false,
			"updatedAt":          now,
		}
	case TypeSubscription:
		eff := map[string]interface{}{
			"subscriptionAccessStatus":  SubscriptionAccessActive,
			"subscriptionPaymentFailed": false,
			"subscriptionActivatedAt":   now,
			"updatedAt":                 now,
		}
		if p.Subscription != nil {
			eff["activeSubscription"] = map[string]interface{}{
				"subscriptionId": p.Subscription.SubscriptionID,
				"name":           p.Subscription.Name,
				"type":           p.Subscription.Type,
				"purchasedAt":    p.Subscription.PurchasedAt,
				"expiresAt":      p.Subscription.ExpiresAt,
			}
		}
		return eff
	}
	return map[string]interface{}{"updatedAt": now}
}

// FailureEffects returns the updates for pending→failed: the service drops
// to its terminal non-active value and the failed flag raises.
func FailureEffects(p Payment, now time.Time) map[string]interface{} {
	switch p.Type {
	case TypeAssociation:
		return map[string]interface{}{
			"associationStatus":        AssociationNotAssociated,
			"associationPaymentFailed": true,
			"updatedAt":                now,
		}
	case TypeTrial:
		return map[string]interface{}{
			"trialStatus":        TrialNotApplicable,
			"trialPaymentFailed": true,
			"updatedAt":          now,
		}
	case TypeSubscription:
		return map[string]interface{}{
			"subscriptionAccessStatus":  SubscriptionAccessExpired,
			"subscriptionPaymentFailed": true,
			"updatedAt":                 now,
		}
	}
	return map[string]interface{}{"updatedAt": now}
}

// CancellationEffects returns the updates for completed→cancelled: the
// previously activated service reverts. A nil value means the field must be
// deleted from the user document.
func CancellationEffects(p Payment, now time.Time) map[string]interface{} {
	switch p.Type {
	case TypeAssociation:
		return map[string]interface{}{
			"associationStatus": AssociationNotAssociated,
			"insured":           false,
			"updatedAt":         now,
		}
	case TypeTrial:
		return map[string]interface{}{
			"trialStatus": TrialNotApplicable,
			"updatedAt":   now,
		}
	case TypeSubscription:
		return map[string]interface{}{
			"subscriptionAccessStatus": SubscriptionAccessExpired,
			"subscriptionActivatedAt":  nil,
			"activeSubscription":       nil,
			"updatedAt":                now,
		}
	}
	return map[string]interface{}{"updatedAt": now}
}
