package user

import (
	"context"
	"fmt"
	"time"

	"club-manager/backend/internal/domain/attendance"
	"club-manager/backend/internal/domain/awards"
	"club-manager/backend/internal/domain/payments"
	"club-manager/backend/internal/utils"

	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

type Service struct {
	repo          *Repo
	authClient    *auth.Client
	storageClient *storage.Client
	bucket        string

	awardsSvc     *awards.Service
	paymentsSvc   *payments.Service
	attendanceSvc *attendance.Service
}

func NewService(repo *Repo, authClient *auth.Client, storageClient *storage.Client, bucket string,
	awardsSvc *awards.Service, paymentsSvc *payments.Service, attendanceSvc *attendance.Service) *Service {
	return &Service{
		repo:          repo,
		authClient:    authClient,
		storageClient: storageClient,
		bucket:        bucket,
		awardsSvc:     awardsSvc,
		paymentsSvc:   paymentsSvc,
		attendanceSvc: attendanceSvc,
	}
}

// GetProfile returns a user's profile, seeding the document on first access.
func (s *Service) GetProfile(ctx context.Context, uid, email string) (*Profile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	p, err := s.repo.Get(ctx, uid)
	if IsErrNotFound(err) {
		if err := s.repo.UpsertMinimal(ctx, uid, email); err != nil {
			return nil, fmt.Errorf("failed to seed profile: %w", err)
		}
		return s.repo.Get(ctx, uid)
	}
	return p, err
}

// UpdateProfile applies the member-editable fields. Status flags and other
// protected fields only move through payment transitions or admin overrides.
func (s *Service) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*Profile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	input.Trim()

	current, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	updates := buildProfileUpdates(current, input, time.Now().UTC())
	if err := s.repo.Update(ctx, uid, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, uid)
}

// buildProfileUpdates folds the edited fields and the refreshed search
// tokens into one field map, so a single write carries both.
func buildProfileUpdates(current *Profile, input UpdateProfileInput, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"updatedAt": now,
	}
	name := current.DisplayName
	if input.DisplayName != nil {
		name = utils.TrimMax(*input.DisplayName, 120)
		updates["displayName"] = name
	}
	if input.PhotoURL != nil {
		updates["photoURL"] = *input.PhotoURL
	}
	if input.BirthDate != nil {
		updates["birthDate"] = *input.BirthDate
	}
	if input.BirthPlace != nil {
		updates["birthPlace"] = *input.BirthPlace
	}
	if input.TaxCode != nil {
		updates["taxCode"] = *input.TaxCode
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.MedicalInfo != nil {
		updates["medicalInfo"] = input.MedicalInfo
	}
	if input.BudoPass != nil {
		updates["budoPassExtra"] = input.BudoPass
	}
	if tokens := utils.SearchTokens(name, current.Email); len(tokens) > 0 {
		updates["searchTokens"] = tokens
	}
	return updates
}

// Overview is the denormalized member view: profile plus payments, awards
// (with the spendable total) and recent attendance.
type Overview struct {
	Profile          Profile             `json:"profile"`
	Payments         []payments.Payment  `json:"payments"`
	Awards           []awards.UserAward  `json:"awards"`
	SpendableBonus   int64               `json:"spendableBonus"`
	RecentAttendance []attendance.Record `json:"recentAttendance"`
}

// GetOverview assembles the overview in one call.
func (s *Service) GetOverview(ctx context.Context, uid string) (*Overview, error) {
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	pays, err := s.paymentsSvc.List(ctx, uid, 50)
	if err != nil {
		return nil, err
	}
	userAwards, err := s.awardsSvc.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	recent, err := s.attendanceSvc.List(ctx, uid, attendance.ListInput{Limit: 30})
	if err != nil {
		return nil, err
	}

	return &Overview{
		Profile:          *p,
		Payments:         pays,
		Awards:           userAwards,
		SpendableBonus:   awards.SpendableTotal(userAwards),
		RecentAttendance: recent,
	}, nil
}

// Search finds members by name or email prefix (admin).
func (s *Service) Search(ctx context.Context, q string, limit int) ([]Profile, error) {
	token := utils.FoldName(q)
	if token == "" {
		return s.repo.List(ctx, limit)
	}
	return s.repo.Search(ctx, token, limit)
}

// UpdateStatus is the admin override for club status flags, e.g. expiring an
// association at season end.
func (s *Service) UpdateStatus(ctx context.Context, adminUID, uid string, input UpdateStatusInput) (*Profile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	if err := validateStatusInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, uid); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updatedAt":       time.Now().UTC(),
		"statusUpdatedBy": adminUID,
	}
	if input.AssociationStatus != nil {
		updates["associationStatus"] = *input.AssociationStatus
	}
	if input.Insured != nil {
		updates["insured"] = *input.Insured
	}
	if input.TrialStatus != nil {
		updates["trialStatus"] = *input.TrialStatus
	}
	if input.SubscriptionAccessStatus != nil {
		updates["subscriptionAccessStatus"] = *input.SubscriptionAccessStatus
	}

	if err := s.repo.Update(ctx, uid, updates); err != nil {
		return nil, err
	}
	zap.S().Infow("user status updated", "uid", uid, "by", adminUID)
	return s.repo.Get(ctx, uid)
}

// validateStatusInput rejects status values outside the lifecycle the
// payment machine drives.
func validateStatusInput(input UpdateStatusInput) error {
	if input.AssociationStatus != nil {
		switch *input.AssociationStatus {
		case payments.AssociationRequested, payments.AssociationActive,
			payments.AssociationExpired, payments.AssociationNotAssociated:
		default:
			return fmt.Errorf("%w: invalid associationStatus %q", ErrBadRequest, *input.AssociationStatus)
		}
	}
	if input.TrialStatus != nil {
		switch *input.TrialStatus {
		case payments.TrialActive, payments.TrialNotApplicable:
		default:
			return fmt.Errorf("%w: invalid trialStatus %q", ErrBadRequest, *input.TrialStatus)
		}
	}
	if input.SubscriptionAccessStatus != nil {
		switch *input.SubscriptionAccessStatus {
		case payments.SubscriptionAccessActive, payments.SubscriptionAccessExpired:
		default:
			return fmt.Errorf("%w: invalid subscriptionAccessStatus %q", ErrBadRequest, *input.SubscriptionAccessStatus)
		}
	}
	return nil
}

// Delete removes the member entirely: auth record, user document with all
// subcollections, and stored files. SuperAdmin only; irreversible.
func (s *Service) Delete(ctx context.Context, actorUID, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	if uid == actorUID {
		return ErrCannotDeleteSelf
	}
	if _, err := s.repo.Get(ctx, uid); err != nil {
		return err
	}

	if err := s.repo.DeleteCascade(ctx, uid); err != nil {
		return err
	}
	if err := s.deleteStoredFiles(ctx, uid); err != nil {
		zap.S().Warnw("failed to delete stored files", "uid", uid, "err", err)
	}
	if err := s.authClient.DeleteUser(ctx, uid); err != nil {
		// The auth record may already be gone; the data cascade succeeded.
		zap.S().Warnw("failed to delete auth user", "uid", uid, "err", err)
	}

	zap.S().Infow("user deleted", "uid", uid, "by", actorUID)
	return nil
}

func (s *Service) deleteStoredFiles(ctx context.Context, uid string) error {
	if s.storageClient == nil || s.bucket == "" {
		return nil
	}
	bkt := s.storageClient.Bucket(s.bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: "users/" + uid + "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if err := bkt.Object(attrs.Name).Delete(ctx); err != nil {
			return err
		}
	}
}
