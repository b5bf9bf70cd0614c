package budopass

import (
	"strings"
	"time"
)

// Exam is one row of the pass's exam-history section, stored at
// users/{uid}/exams/{id}.
type Exam struct {
	ID        string    `firestore:"-" json:"id"`
	Grade     string    `firestore:"grade" json:"grade"`
	Date      string    `firestore:"date" json:"date"` // YYYY-MM-DD
	Examiner  string    `firestore:"examiner,omitempty" json:"examiner,omitempty"`
	Location  string    `firestore:"location,omitempty" json:"location,omitempty"`
	AddedBy   string    `firestore:"addedBy,omitempty" json:"addedBy,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

// AddExamInput records a passed exam (admin).
type AddExamInput struct {
	Grade    string `json:"grade"`
	Date     string `json:"date"`
	Examiner string `json:"examiner,omitempty"`
	Location string `json:"location,omitempty"`
}

func (in *AddExamInput) Trim() {
	in.Grade = strings.TrimSpace(in.Grade)
	in.Date = strings.TrimSpace(in.Date)
	in.Examiner = strings.TrimSpace(in.Examiner)
	in.Location = strings.TrimSpace(in.Location)
}

// GradeConfig is the club's grade ladder, read from config/budopass with a
// built-in default.
type GradeConfig struct {
	ClubName string   `firestore:"clubName" json:"clubName"`
	Grades   []string `firestore:"grades" json:"grades"`
}

var defaultGradeConfig = GradeConfig{
	ClubName: "Budo Club",
	Grades: []string{
		"6° Kyu", "5° Kyu", "4° Kyu", "3° Kyu", "2° Kyu", "1° Kyu",
		"1° Dan", "2° Dan", "3° Dan", "4° Dan", "5° Dan",
	},
}

// PassData is everything the layout needs, denormalized from the user
// document, the exam history and the grade config.
type PassData struct {
	DisplayName   string
	BirthDate     string
	BirthPlace    string
	TaxCode       string
	Address       string
	PhotoURL      string
	PassNumber    string
	Federation    string
	Qualification string
	CurrentGrade  string
	IssuedAt      string
	Insured       bool
	Association   string
	Subscription  string
	Exams         []Exam
}
