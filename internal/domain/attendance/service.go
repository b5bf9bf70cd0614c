package attendance

import (
	"context"
	"fmt"
	"time"

	"club-manager/backend/internal/utils"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// RecordSelf is the member's daily prompt: it marks the caller for today.
func (s *Service) RecordSelf(ctx context.Context, uid string, status, notes string) (*Record, error) {
	return s.Record(ctx, uid, RecordInput{
		UID:    uid,
		Date:   utils.DayKey(time.Now()),
		Status: status,
		Notes:  notes,
	})
}

// Record creates or updates the record for one member and lesson day.
func (s *Service) Record(ctx context.Context, recordedBy string, input RecordInput) (*Record, error) {
	input.Trim()
	if input.UID == "" || input.Status == "" {
		return nil, fmt.Errorf("%w: uid and status are required", ErrBadRequest)
	}
	if !IsValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: status must be present or absent", ErrBadRequest)
	}

	lessonDate := input.Date
	if lessonDate == "" {
		lessonDate = utils.DayKey(time.Now())
	} else {
		t, err := utils.ParseTime(lessonDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", ErrBadRequest)
		}
		lessonDate = utils.DayKey(t)
	}

	now := time.Now().UTC()
	existing, _ := s.repo.FindByDate(ctx, input.UID, lessonDate)
	if existing != nil {
		return s.repo.Update(ctx, input.UID, existing.ID, map[string]interface{}{
			"status":     input.Status,
			"notes":      input.Notes,
			"updatedAt":  now,
			"recordedBy": recordedBy,
		})
	}

	return s.repo.Create(ctx, input.UID, Record{
		UID:        input.UID,
		LessonDate: lessonDate,
		Status:     Status(input.Status),
		Notes:      input.Notes,
		RecordedBy: recordedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// BulkRecord takes a whole lesson's roll call (admin).
func (s *Service) BulkRecord(ctx context.Context, recordedBy string, input BulkInput) ([]map[string]interface{}, error) {
	if input.Date == "" || len(input.Entries) == 0 {
		return nil, fmt.Errorf("%w: date and entries[] are required", ErrBadRequest)
	}
	t, err := utils.ParseTime(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrBadRequest)
	}
	return s.repo.BulkUpsert(ctx, utils.DayKey(t), recordedBy, input.Entries)
}

// List returns a member's records, newest first.
func (s *Service) List(ctx context.Context, uid string, input ListInput) ([]Record, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	return s.repo.List(ctx, uid, input)
}

// YearSummary aggregates presence counts per month; the admin uses it when
// granting the attendance prize.
func (s *Service) YearSummary(ctx context.Context, uid string, year int) (*MonthlySummary, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	if year <= 0 {
		year = time.Now().UTC().Year()
	}

	records, err := s.repo.List(ctx, uid, ListInput{
		From:  fmt.Sprintf("%04d-01-01", year),
		To:    fmt.Sprintf("%04d-12-31", year),
		Limit: 500,
	})
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Year: year, ByMonth: make(map[int]int)}
	for _, rec := range records {
		t, err := time.Parse("2006-01-02", rec.LessonDate)
		if err != nil {
			continue
		}
		switch rec.Status {
		case StatusPresent:
			summary.Presents++
			summary.ByMonth[int(t.Month())]++
		case StatusAbsent:
			summary.Absents++
		}
	}
	return summary, nil
}
