package attendance

import (
	"strings"
	"time"
)

// Status of a lesson record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

func IsValidStatus(s string) bool {
	return Status(s) == StatusPresent || Status(s) == StatusAbsent
}

// Record lives at users/{uid}/attendance/{id}. LessonDate is the day key;
// at most one record exists per member and day.
type Record struct {
	ID         string    `firestore:"-" json:"id"`
	UID        string    `firestore:"uid" json:"uid"`
	LessonDate string    `firestore:"lessonDate" json:"lessonDate"` // YYYY-MM-DD
	Status     Status    `firestore:"status" json:"status"`
	Notes      string    `firestore:"notes,omitempty" json:"notes,omitempty"`
	RecordedBy string    `firestore:"recordedBy" json:"recordedBy"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// RecordInput records one member for one lesson. Date defaults to today for
// the self-service prompt.
type RecordInput struct {
	UID    string `json:"uid"`
	Date   string `json:"date,omitempty"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (in *RecordInput) Trim() {
	in.UID = strings.TrimSpace(in.UID)
	in.Date = strings.TrimSpace(in.Date)
	in.Status = strings.TrimSpace(in.Status)
	if len(in.Notes) > 500 {
		in.Notes = in.Notes[:500]
	}
}

// BulkEntry is one member in a bulk roll call.
type BulkEntry struct {
	UID    string `json:"uid"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// BulkInput records a whole lesson in one call.
type BulkInput struct {
	Date    string      `json:"date"`
	Entries []BulkEntry `json:"entries"`
}

// ListInput filters a member's records.
type ListInput struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// MonthlySummary counts presences per month for one year; feeds the
// attendance prize.
type MonthlySummary struct {
	Year     int         `json:"year"`
	ByMonth  map[int]int `json:"byMonth"`
	Presents int         `json:"presents"`
	Absents  int         `json:"absents"`
}
