package awards

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// CreateCatalog adds an award to the catalog (admin).
func (s *Service) CreateCatalog(ctx context.Context, input CreateAwardInput) (*Award, error) {
	input.Trim()
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if input.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive", ErrBadRequest)
	}

	now := time.Now().UTC()
	return s.repo.CreateCatalog(ctx, Award{
		Name:      input.Name,
		Value:     input.Value,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// ListCatalog lists the award catalog.
func (s *Service) ListCatalog(ctx context.Context) ([]Award, error) {
	return s.repo.ListCatalog(ctx)
}

// Grant gives a member an instance of a catalog award (admin).
func (s *Service) Grant(ctx context.Context, adminUID, uid string, input GrantInput) (*UserAward, error) {
	input.Trim()
	if uid == "" || input.AwardID == "" {
		return nil, fmt.Errorf("%w: uid and awardId are required", ErrBadRequest)
	}

	catalog, err := s.repo.GetCatalog(ctx, input.AwardID)
	if err != nil {
		return nil, err
	}

	value := catalog.Value
	if input.Value > 0 {
		value = input.Value
	}

	now := time.Now().UTC()
	ua, err := s.repo.Grant(ctx, uid, UserAward{
		AwardID:   catalog.ID,
		Name:      catalog.Name,
		Value:     value,
		UsedValue: 0,
		Residuo:   value,
		Used:      false,
		GrantedBy: adminUID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("award granted", "uid", uid, "award", catalog.Name, "value", value, "by", adminUID)
	return ua, nil
}

// List returns a member's award instances in grant order.
func (s *Service) List(ctx context.Context, uid string) ([]UserAward, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	return s.repo.List(ctx, uid)
}

// Spendable returns the member's total redeemable bonus.
func (s *Service) Spendable(ctx context.Context, uid string) (int64, error) {
	list, err := s.List(ctx, uid)
	if err != nil {
		return 0, err
	}
	return SpendableTotal(list), nil
}

// Revoke removes an unspent award instance (admin). A partially consumed
// award cannot be revoked; cancel the consuming payment first.
func (s *Service) Revoke(ctx context.Context, adminUID, uid, id string) error {
	if uid == "" || id == "" {
		return fmt.Errorf("%w: uid and id are required", ErrBadRequest)
	}

	ua, err := s.repo.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	if ua.UsedValue > 0 {
		return fmt.Errorf("%w: %d cents already consumed", ErrSpent, ua.UsedValue)
	}

	if err := s.repo.Delete(ctx, uid, id); err != nil {
		return err
	}
	zap.S().Infow("award revoked", "uid", uid, "userAwardId", id, "by", adminUID)
	return nil
}
