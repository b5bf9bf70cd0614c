package payments

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"
	"go.uber.org/zap"
)

// PayLinks creates outbound hosted checkout links for card payments. There
// is no webhook receiver: completion is always recorded by an admin, the
// link only gives the member somewhere to pay.
type PayLinks struct {
	fs *firestore.Client
}

func NewPayLinks(fs *firestore.Client, secretKey string) *PayLinks {
	stripe.Key = secretKey
	return &PayLinks{fs: fs}
}

// CheckoutURL creates a one-off checkout session for the residual amount of
// a pending payment.
func (l *PayLinks) CheckoutURL(ctx context.Context, uid string, p Payment) (string, error) {
	if p.AmountDue <= 0 {
		return "", nil
	}

	customerID, err := l.ensureCustomer(ctx, uid)
	if err != nil {
		return "", err
	}

	name := p.Description
	if name == "" {
		name = string(p.Type)
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyEUR)),
					UnitAmount: stripe.Int64(p.AmountDue),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"uid":       uid,
			"paymentId": p.ID,
			"type":      string(p.Type),
		},
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}

// ensureCustomer reuses the member's Stripe customer, creating it on first
// card payment.
func (l *PayLinks) ensureCustomer(ctx context.Context, uid string) (string, error) {
	userDoc, err := l.fs.Collection("users").Doc(uid).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: user not found", ErrNotFound)
	}

	data := userDoc.Data()
	if id, _ := data["stripeCustomerId"].(string); id != "" {
		return id, nil
	}

	email, _ := data["email"].(string)
	displayName, _ := data["displayName"].(string)

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(displayName),
		Metadata: map[string]string{
			"uid": uid,
		},
	}
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	_, err = l.fs.Collection("users").Doc(uid).Set(ctx, map[string]interface{}{
		"stripeCustomerId": c.ID,
	}, firestore.MergeAll)
	if err != nil {
		zap.S().Warnw("failed to save stripe customer id", "uid", uid, "err", err)
	}

	return c.ID, nil
}
