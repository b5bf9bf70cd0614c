package budopass

import (
	"context"
	"fmt"
	"time"

	"club-manager/backend/internal/domain/user"
	"club-manager/backend/internal/utils"

	"go.uber.org/zap"
)

type Service struct {
	repo     *Repo
	userRepo *user.Repo
	renderer *Renderer
}

func NewService(repo *Repo, userRepo *user.Repo, renderer *Renderer) *Service {
	return &Service{repo: repo, userRepo: userRepo, renderer: renderer}
}

// AddExam appends a passed exam to the member's history (admin).
func (s *Service) AddExam(ctx context.Context, adminUID, uid string, input AddExamInput) (*Exam, error) {
	input.Trim()
	if uid == "" || input.Grade == "" || input.Date == "" {
		return nil, fmt.Errorf("%w: uid, grade and date are required", ErrBadRequest)
	}
	t, err := utils.ParseTime(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrBadRequest)
	}

	return s.repo.AddExam(ctx, uid, Exam{
		Grade:     input.Grade,
		Date:      utils.DayKey(t),
		Examiner:  input.Examiner,
		Location:  input.Location,
		AddedBy:   adminUID,
		CreatedAt: time.Now().UTC(),
	})
}

// ListExams returns the member's exam history.
func (s *Service) ListExams(ctx context.Context, uid string) ([]Exam, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	return s.repo.ListExams(ctx, uid)
}

// GeneratePDF assembles and renders the printable pass for a member.
func (s *Service) GeneratePDF(ctx context.Context, uid string) ([]byte, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	profile, err := s.userRepo.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	exams, err := s.repo.ListExams(ctx, uid)
	if err != nil {
		return nil, err
	}
	cfg := s.repo.GradeConfig(ctx)

	data := PassData{
		DisplayName: profile.DisplayName,
		BirthDate:   profile.BirthDate,
		BirthPlace:  profile.BirthPlace,
		TaxCode:     profile.TaxCode,
		Address:     profile.Address,
		PhotoURL:    profile.PhotoURL,
		Insured:     profile.Insured,
		Association: profile.AssociationStatus,
		Exams:       exams,
	}
	if profile.BudoPassExtra != nil {
		data.PassNumber = profile.BudoPassExtra.PassNumber
		data.Federation = profile.BudoPassExtra.Federation
		data.Qualification = profile.BudoPassExtra.Qualification
		data.CurrentGrade = profile.BudoPassExtra.CurrentGrade
		data.IssuedAt = profile.BudoPassExtra.IssuedAt
	}
	if profile.ActiveSubscription != nil {
		data.Subscription = profile.ActiveSubscription.Name
	}

	pages := BuildPages(data, cfg)
	pdf, err := s.renderer.Render(pages)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("budo pass rendered", "uid", uid, "pages", len(pages), "bytes", len(pdf))
	return pdf, nil
}
