package payments

import (
	"context"
	"fmt"
	"time"

	"club-manager/backend/internal/domain/awards"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	client     *firestore.Client
	repo       *Repo
	awardsRepo *awards.Repo
	payLinks   *PayLinks
}

func NewService(client *firestore.Client, repo *Repo, awardsRepo *awards.Repo) *Service {
	return &Service{client: client, repo: repo, awardsRepo: awardsRepo}
}

// SetPayLinks enables hosted checkout links for card payments.
func (s *Service) SetPayLinks(p *PayLinks) {
	s.payLinks = p
}

// Pricing holds the flat fees read from config/pricing. Subscription prices
// come from the subscription catalog instead.
type Pricing struct {
	AssociationFee int64 `firestore:"associationFee"`
	TrialFee       int64 `firestore:"trialFee"`
}

var defaultPricing = Pricing{
	AssociationFee: 3500, // 35.00 EUR
	TrialFee:       1000, // 10.00 EUR
}

func (s *Service) loadPricing(ctx context.Context) Pricing {
	doc, err := s.client.Collection("config").Doc("pricing").Get(ctx)
	if err != nil {
		return defaultPricing
	}
	var p Pricing
	if err := doc.DataTo(&p); err != nil {
		return defaultPricing
	}
	if p.AssociationFee <= 0 {
		p.AssociationFee = defaultPricing.AssociationFee
	}
	if p.TrialFee <= 0 {
		p.TrialFee = defaultPricing.TrialFee
	}
	return p
}

// Get returns one payment of a member.
func (s *Service) Get(ctx context.Context, uid, id string) (*Payment, error) {
	if uid == "" || id == "" {
		return nil, fmt.Errorf("%w: uid and id are required", ErrBadRequest)
	}
	return s.repo.Get(ctx, uid, id)
}

// List returns a member's payments, newest first.
func (s *Service) List(ctx context.Context, uid string, limit int) ([]Payment, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	return s.repo.List(ctx, uid, limit)
}

// OwnedSubscriptionIDs lists catalog ids with a pending or completed
// subscription payment.
func (s *Service) OwnedSubscriptionIDs(ctx context.Context, uid string) ([]string, error) {
	return s.repo.SubscriptionIDs(ctx, uid)
}

// PurchaseAssociation creates a pending association payment for the caller
// and marks the membership as requested.
func (s *Service) PurchaseAssociation(ctx context.Context, uid string, input CreatePurchaseInput) (*Payment, error) {
	input.Type = string(TypeAssociation)
	if input.Description == "" {
		input.Description = "Quota associativa"
	}
	pricing := s.loadPricing(ctx)
	p, err := s.createPurchase(ctx, uid, input, pricing.AssociationFee, nil, map[string]interface{}{
		"associationStatus": AssociationRequested,
	})
	return p, err
}

// PurchaseTrial creates a pending trial payment for the caller.
func (s *Service) PurchaseTrial(ctx context.Context, uid string, input CreatePurchaseInput) (*Payment, error) {
	input.Type = string(TypeTrial)
	if input.Description == "" {
		input.Description = "Lezione di prova"
	}
	pricing := s.loadPricing(ctx)
	return s.createPurchase(ctx, uid, input, pricing.TrialFee, nil, nil)
}

// CreateSubscriptionPurchase is called by the subscriptions service once the
// offering has been chosen and snapshotted.
func (s *Service) CreateSubscriptionPurchase(ctx context.Context, uid string, input CreatePurchaseInput, amount int64, snap *SubscriptionSnapshot) (*Payment, error) {
	input.Type = string(TypeSubscription)
	if snap == nil {
		return nil, fmt.Errorf("%w: subscription snapshot is required", ErrBadRequest)
	}
	return s.createPurchase(ctx, uid, input, amount, snap, nil)
}

// createPurchase applies the bonus ledger and writes the pending payment in
// one transaction, so a concurrent purchase cannot consume the same award
// residual twice. extraUserFields, when present, merge into the user doc in
// the same transaction.
func (s *Service) createPurchase(ctx context.Context, uid string, input CreatePurchaseInput, amount int64, snap *SubscriptionSnapshot, extraUserFields map[string]interface{}) (*Payment, error) {
	input.Trim()
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	if !IsValidMethod(input.Method) {
		return nil, fmt.Errorf("%w: method must be one of: cash, card, transfer", ErrBadRequest)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrBadRequest)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	var created Payment

	err := s.repo.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		p := Payment{
			UID:          uid,
			Amount:       amount,
			AmountDue:    amount,
			Description:  input.Description,
			Method:       input.Method,
			Status:       StatusPending,
			Type:         Type(input.Type),
			Subscription: snap,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if input.UseBonus {
			list, err := s.awardsRepo.ListTx(tx, uid)
			if err != nil {
				return err
			}
			cons, bonusUsed, finalPrice := awards.PlanApply(list, amount)
			if bonusUsed > 0 {
				loaded := make(map[string]awards.UserAward, len(list))
				for _, ua := range list {
					loaded[ua.ID] = ua
				}
				if err := s.awardsRepo.ApplyTx(tx, uid, loaded, cons, now); err != nil {
					return err
				}
				p.Consumptions = cons
				p.BonusUsed = bonusUsed
				p.AmountDue = finalPrice
			}
		}

		if err := s.repo.CreateTx(tx, uid, id, p); err != nil {
			return err
		}
		if len(extraUserFields) > 0 {
			fields := make(map[string]interface{}, len(extraUserFields)+1)
			for k, v := range extraUserFields {
				fields[k] = v
			}
			fields["updatedAt"] = now
			if err := s.repo.ApplyUserEffectsTx(tx, uid, fields); err != nil {
				return err
			}
		}
		created = p
		created.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The hosted checkout link is an external call; it cannot join the
	// transaction. A pending payment without a link is still payable in
	// person, so a link failure only logs.
	if s.payLinks != nil && input.Method == MethodCard && created.AmountDue > 0 {
		url, err := s.payLinks.CheckoutURL(ctx, uid, created)
		if err != nil {
			zap.S().Warnw("checkout link creation failed", "uid", uid, "paymentId", id, "err", err)
		} else if url != "" {
			if err := s.repo.SetCheckoutURL(ctx, uid, id, url); err == nil {
				created.CheckoutURL = url
			}
		}
	}

	zap.S().Infow("payment created",
		"uid", uid, "paymentId", id, "type", created.Type,
		"amount", created.Amount, "bonusUsed", created.BonusUsed)
	return &created, nil
}

// Approve flips pending→completed and activates the purchased service on the
// user document, atomically.
func (s *Service) Approve(ctx context.Context, adminUID, uid, paymentID string) (*Payment, error) {
	return s.transition(ctx, adminUID, uid, paymentID, StatusCompleted)
}

// Reject flips pending→failed, deactivates the service and refunds any bonus
// the payment consumed.
func (s *Service) Reject(ctx context.Context, adminUID, uid, paymentID string) (*Payment, error) {
	return s.transition(ctx, adminUID, uid, paymentID, StatusFailed)
}

// Cancel undoes a previously completed payment: completed→cancelled, service
// reverted, bonus refunded. Audited with actor and timestamp.
func (s *Service) Cancel(ctx context.Context, adminUID, uid, paymentID string) (*Payment, error) {
	return s.transition(ctx, adminUID, uid, paymentID, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, adminUID, uid, paymentID string, to Status) (*Payment, error) {
	if uid == "" || paymentID == "" {
		return nil, fmt.Errorf("%w: uid and paymentId are required", ErrBadRequest)
	}

	now := time.Now().UTC()
	var result *Payment

	err := s.repo.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		p, err := s.repo.GetTx(tx, uid, paymentID)
		if err != nil {
			return err
		}
		if !CanTransition(p.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrConflict, p.Status, to)
		}

		var refund []awards.Consumption
		var loaded map[string]awards.UserAward
		if to == StatusFailed || to == StatusCancelled {
			refund = p.RefundConsumptions()
			if len(refund) > 0 {
				ids := make([]string, 0, len(refund))
				for _, c := range refund {
					ids = append(ids, c.UserAwardID)
				}
				loaded, err = s.awardsRepo.GetManyTx(tx, uid, ids)
				if err != nil {
					return err
				}
			}
		}

		updates := map[string]interface{}{
			"status":    string(to),
			"updatedAt": now,
		}
		var effects map[string]interface{}
		switch to {
		case StatusCompleted:
			updates["approvedBy"] = adminUID
			updates["completedAt"] = now
			effects = CompletionEffects(*p, now)
		case StatusFailed:
			updates["failedAt"] = now
			effects = FailureEffects(*p, now)
		case StatusCancelled:
			updates["cancelledAt"] = now
			updates["cancelledBy"] = adminUID
			effects = CancellationEffects(*p, now)
		}

		if err := s.repo.UpdateTx(tx, uid, paymentID, updates); err != nil {
			return err
		}
		if err := s.repo.ApplyUserEffectsTx(tx, uid, effects); err != nil {
			return err
		}
		if len(refund) > 0 {
			if err := s.awardsRepo.RefundTx(tx, uid, loaded, refund, now); err != nil {
				return err
			}
		}

		result = p
		result.Status = to
		result.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("payment transition",
		"uid", uid, "paymentId", paymentID, "to", to, "by", adminUID)
	return result, nil
}
