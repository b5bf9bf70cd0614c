package subscriptions

import (
	"context"
	"fmt"
	"time"

	"club-manager/backend/internal/domain/payments"
	"club-manager/backend/internal/utils"

	"go.uber.org/zap"
)

type Service struct {
	repo        *Repo
	paymentsSvc *payments.Service
}

func NewService(repo *Repo, paymentsSvc *payments.Service) *Service {
	return &Service{repo: repo, paymentsSvc: paymentsSvc}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]Offering, error) {
	return s.repo.List(ctx)
}

// Current returns the offering the selector would present to this member
// right now, or ErrNonePurchasable.
func (s *Service) Current(ctx context.Context, uid, typ string) (*Offering, error) {
	if typ != "" && !IsValidType(typ) {
		return nil, fmt.Errorf("%w: type must be monthly or seasonal", ErrBadRequest)
	}

	offerings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var owned []string
	if typ == TypeMonthly {
		owned, err = s.paymentsSvc.OwnedSubscriptionIDs(ctx, uid)
		if err != nil {
			return nil, err
		}
	}

	chosen := Choose(offerings, typ, owned, time.Now().UTC())
	if chosen == nil {
		return nil, ErrNonePurchasable
	}
	return chosen, nil
}

// Purchase runs the selector for the member and creates the pending
// subscription payment with the offering snapshot.
func (s *Service) Purchase(ctx context.Context, uid string, input PurchaseInput) (*payments.Payment, error) {
	input.Trim()
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	offering, err := s.Current(ctx, uid, input.Type)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snap := &payments.SubscriptionSnapshot{
		SubscriptionID: offering.ID,
		Name:           offering.Name,
		Type:           offering.Type,
		PurchasedAt:    now,
		ExpiresAt:      offering.ValidTo,
	}

	p, err := s.paymentsSvc.CreateSubscriptionPurchase(ctx, uid, payments.CreatePurchaseInput{
		Method:      input.Method,
		UseBonus:    input.UseBonus,
		Description: offering.Name,
	}, offering.Price, snap)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("subscription purchase created",
		"uid", uid, "offering", offering.ID, "paymentId", p.ID)
	return p, nil
}

// CreateOffering adds a catalog entry (admin).
func (s *Service) CreateOffering(ctx context.Context, input CreateOfferingInput) (*Offering, error) {
	o, err := offeringFromInput(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	return s.repo.Create(ctx, *o)
}

// UpdateOffering rewrites a catalog entry (admin). Snapshots held by buyers
// are unaffected.
func (s *Service) UpdateOffering(ctx context.Context, id string, input CreateOfferingInput) (*Offering, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	o, err := offeringFromInput(input)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, map[string]interface{}{
		"name":         o.Name,
		"type":         o.Type,
		"price":        o.Price,
		"purchaseFrom": o.PurchaseFrom,
		"purchaseTo":   o.PurchaseTo,
		"validFrom":    o.ValidFrom,
		"validTo":      o.ValidTo,
		"updatedAt":    time.Now().UTC(),
	})
}

// DeleteOffering removes a catalog entry (admin).
func (s *Service) DeleteOffering(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrBadRequest)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func offeringFromInput(input CreateOfferingInput) (*Offering, error) {
	input.Trim()
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if !IsValidType(input.Type) {
		return nil, fmt.Errorf("%w: type must be monthly or seasonal", ErrBadRequest)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrBadRequest)
	}

	parse := func(field, s string) (time.Time, error) {
		t, err := utils.ParseTime(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid %s", ErrBadRequest, field)
		}
		return t, nil
	}

	pf, err := parse("purchaseFrom", input.PurchaseFrom)
	if err != nil {
		return nil, err
	}
	pt, err := parse("purchaseTo", input.PurchaseTo)
	if err != nil {
		return nil, err
	}
	vf, err := parse("validFrom", input.ValidFrom)
	if err != nil {
		return nil, err
	}
	vt, err := parse("validTo", input.ValidTo)
	if err != nil {
		return nil, err
	}

	if pt.Before(pf) || vt.Before(vf) {
		return nil, fmt.Errorf("%w: window end precedes its start", ErrBadRequest)
	}

	return &Offering{
		Name:         input.Name,
		Type:         input.Type,
		Price:        input.Price,
		PurchaseFrom: pf,
		PurchaseTo:   pt,
		ValidFrom:    vf,
		ValidTo:      vt,
	}, nil
}
