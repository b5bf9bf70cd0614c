package budopass

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) examsCol(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("exams")
}

func (r *Repo) AddExam(ctx context.Context, uid string, e Exam) (*Exam, error) {
	ref, _, err := r.examsCol(uid).Add(ctx, map[string]interface{}{
		"grade":     e.Grade,
		"date":      e.Date,
		"examiner":  e.Examiner,
		"location":  e.Location,
		"addedBy":   e.AddedBy,
		"createdAt": e.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add exam: %w", err)
	}
	e.ID = ref.ID
	return &e, nil
}

// ListExams returns the member's exam history in chronological order.
func (r *Repo) ListExams(ctx context.Context, uid string) ([]Exam, error) {
	iter := r.examsCol(uid).OrderBy("date", firestore.Asc).Documents(ctx)
	var out []Exam
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list exams: %w", err)
		}
		var e Exam
		if err := doc.DataTo(&e); err != nil {
			continue
		}
		e.ID = doc.Ref.ID
		out = append(out, e)
	}
	return out, nil
}

// GradeConfig reads config/budopass, falling back to the built-in ladder.
func (r *Repo) GradeConfig(ctx context.Context) GradeConfig {
	doc, err := r.client.Collection("config").Doc("budopass").Get(ctx)
	if err != nil {
		return defaultGradeConfig
	}
	var cfg GradeConfig
	if err := doc.DataTo(&cfg); err != nil {
		return defaultGradeConfig
	}
	if cfg.ClubName == "" {
		cfg.ClubName = defaultGradeConfig.ClubName
	}
	if len(cfg.Grades) == 0 {
		cfg.Grades = defaultGradeConfig.Grades
	}
	return cfg
}
