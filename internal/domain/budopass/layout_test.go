package budopass

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPagesStructure(t *testing.T) {
	pages := BuildPages(PassData{DisplayName: "Mario Rossi"}, GradeConfig{})

	if assert.Len(t, pages, TotalPages) {
		assert.Equal(t, "BUDO PASS", pages[0].Title)
		assert.Equal(t, "Dati tessera", pages[1].Title)
		assert.Equal(t, "Dati personali", pages[2].Title)
		assert.Equal(t, "Affiliazione", pages[3].Title)
		for i := 0; i < ExamPages; i++ {
			assert.Equal(t, fmt.Sprintf("Esami %d/%d", i+1, ExamPages), pages[4+i].Title)
		}
	}
}

func TestBuildPagesDefaultsClubName(t *testing.T) {
	pages := BuildPages(PassData{}, GradeConfig{})
	assert.Equal(t, defaultGradeConfig.ClubName, pages[0].Lines[0].Value)

	pages = BuildPages(PassData{}, GradeConfig{ClubName: "Dojo Sakura"})
	assert.Equal(t, "Dojo Sakura", pages[0].Lines[0].Value)
}

func TestBuildPagesBlanksMissingFields(t *testing.T) {
	pages := BuildPages(PassData{}, GradeConfig{})

	for _, l := range pages[1].Lines {
		assert.Equal(t, blank, l.Value, "card field %q", l.Label)
	}
}

func TestBuildPagesLadderDrivesExamRows(t *testing.T) {
	cfg := GradeConfig{Grades: []string{"6° Kyu", "5° Kyu", "4° Kyu"}}
	data := PassData{
		Exams: []Exam{
			{Grade: "5° Kyu", Date: "2024-06-10", Examiner: "M° Bianchi"},
		},
	}

	pages := BuildPages(data, cfg)
	first := pages[4]

	if assert.Len(t, first.Lines, ExamRowsPerPage) {
		// One row per ladder grade, in ladder order.
		assert.Equal(t, "6° Kyu", first.Lines[0].Label)
		assert.Equal(t, blank, first.Lines[0].Value)
		assert.Equal(t, "5° Kyu", first.Lines[1].Label)
		assert.Contains(t, first.Lines[1].Value, "2024-06-10")
		assert.Contains(t, first.Lines[1].Value, "M° Bianchi")
		assert.Equal(t, "4° Kyu", first.Lines[2].Label)
		assert.Equal(t, blank, first.Lines[2].Value)
		for _, l := range first.Lines[3:] {
			assert.Equal(t, blank, l.Label)
		}
	}
}

func TestBuildPagesGradeListChangesOutput(t *testing.T) {
	data := PassData{DisplayName: "Mario Rossi"}

	withLadder := BuildPages(data, GradeConfig{Grades: []string{"Cintura Bianca", "Cintura Nera"}})
	withDefault := BuildPages(data, GradeConfig{})

	assert.NotEqual(t, withDefault[4], withLadder[4])
	assert.Equal(t, "Cintura Bianca", withLadder[4].Lines[0].Label)
	assert.Equal(t, "Cintura Nera", withLadder[4].Lines[1].Label)
}

func TestBuildPagesDefaultLadderFillsGrid(t *testing.T) {
	pages := BuildPages(PassData{}, GradeConfig{})

	var labels []string
	for _, p := range pages[4:] {
		assert.Len(t, p.Lines, ExamRowsPerPage)
		for _, l := range p.Lines {
			labels = append(labels, l.Label)
		}
	}
	// Default ladder head, then blank padding to three full pages.
	assert.Equal(t, defaultGradeConfig.Grades, labels[:len(defaultGradeConfig.Grades)])
	for _, l := range labels[len(defaultGradeConfig.Grades):] {
		assert.Equal(t, blank, l)
	}
}

func TestBuildPagesOffLadderExamsAppended(t *testing.T) {
	cfg := GradeConfig{Grades: []string{"6° Kyu", "5° Kyu"}}
	data := PassData{
		Exams: []Exam{
			{Grade: "5° Kyu", Date: "2024-06-10"},
			{Grade: "Grado Onorario", Date: "2025-03-01", Examiner: "M° Verdi"},
		},
	}

	rows := examRows(data.Exams, cfg.Grades)

	assert.Equal(t, "6° Kyu", rows[0].Label)
	assert.Equal(t, "5° Kyu", rows[1].Label)
	assert.Equal(t, "Grado Onorario", rows[2].Label)
	assert.Contains(t, rows[2].Value, "2025-03-01")
	assert.Equal(t, blank, rows[3].Label)
}

func TestExamRowsTruncateAtGridSize(t *testing.T) {
	var grades []string
	for i := 0; i < ExamRowsPerPage*ExamPages+4; i++ {
		grades = append(grades, fmt.Sprintf("grado %d", i))
	}

	rows := examRows(nil, grades)

	assert.Len(t, rows, ExamRowsPerPage*ExamPages)
	assert.Equal(t, fmt.Sprintf("grado %d", ExamRowsPerPage*ExamPages-1), rows[len(rows)-1].Label)
}

func TestBuildPagesInsuredFlag(t *testing.T) {
	pages := BuildPages(PassData{Insured: true}, GradeConfig{})
	assert.Equal(t, "SI", pages[3].Lines[2].Value)

	pages = BuildPages(PassData{}, GradeConfig{})
	assert.Equal(t, "NO", pages[3].Lines[2].Value)
}
