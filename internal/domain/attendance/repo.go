package attendance

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) col(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("attendance")
}

func (r *Repo) Create(ctx context.Context, uid string, rec Record) (*Record, error) {
	ref, _, err := r.col(uid).Add(ctx, map[string]interface{}{
		"uid":        rec.UID,
		"lessonDate": rec.LessonDate,
		"status":     rec.Status,
		"notes":      rec.Notes,
		"recordedBy": rec.RecordedBy,
		"createdAt":  rec.CreatedAt,
		"updatedAt":  rec.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	rec.ID = ref.ID
	return &rec, nil
}

func (r *Repo) Update(ctx context.Context, uid, id string, updates map[string]interface{}) (*Record, error) {
	ref := r.col(uid).Doc(id)
	if _, err := ref.Set(ctx, updates, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: attendance not found", ErrNotFound)
	}
	return decodeRecord(doc)
}

// FindByDate returns the member's record for a lesson day, nil when absent.
// One record per member and day is the uniqueness rule; Record upserts
// through this lookup.
func (r *Repo) FindByDate(ctx context.Context, uid, lessonDate string) (*Record, error) {
	iter := r.col(uid).
		Where("lessonDate", "==", lessonDate).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}
	return decodeRecord(doc)
}

func (r *Repo) List(ctx context.Context, uid string, input ListInput) ([]Record, error) {
	query := r.col(uid).Query
	if input.From != "" {
		query = query.Where("lessonDate", ">=", input.From)
	}
	if input.To != "" {
		query = query.Where("lessonDate", "<=", input.To)
	}
	query = query.OrderBy("lessonDate", firestore.Desc)

	limit := input.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	iter := query.Limit(limit).Documents(ctx)

	var records []Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}
		rec, err := decodeRecord(doc)
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

// BulkUpsert records a whole lesson in one batched write; existing records
// for the day update in place.
func (r *Repo) BulkUpsert(ctx context.Context, lessonDate, recordedBy string, entries []BulkEntry) ([]map[string]interface{}, error) {
	batch := r.client.Batch()
	results := make([]map[string]interface{}, 0, len(entries))
	now := time.Now().UTC()

	for _, e := range entries {
		if e.UID == "" || !IsValidStatus(e.Status) {
			continue
		}

		existing, _ := r.FindByDate(ctx, e.UID, lessonDate)

		notes := e.Notes
		if len(notes) > 500 {
			notes = notes[:500]
		}

		if existing != nil {
			ref := r.col(e.UID).Doc(existing.ID)
			batch.Set(ref, map[string]interface{}{
				"status":     e.Status,
				"notes":      notes,
				"updatedAt":  now,
				"recordedBy": recordedBy,
			}, firestore.MergeAll)
			results = append(results, map[string]interface{}{
				"uid":    e.UID,
				"action": "updated",
			})
		} else {
			ref := r.col(e.UID).NewDoc()
			batch.Set(ref, map[string]interface{}{
				"uid":        e.UID,
				"lessonDate": lessonDate,
				"status":     e.Status,
				"notes":      notes,
				"recordedBy": recordedBy,
				"createdAt":  now,
				"updatedAt":  now,
			})
			results = append(results, map[string]interface{}{
				"uid":    e.UID,
				"action": "created",
			})
		}
	}

	if _, err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("batch commit failed: %w", err)
	}
	return results, nil
}

func decodeRecord(doc *firestore.DocumentSnapshot) (*Record, error) {
	var rec Record
	if err := doc.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode attendance: %w", err)
	}
	rec.ID = doc.Ref.ID
	return &rec, nil
}
