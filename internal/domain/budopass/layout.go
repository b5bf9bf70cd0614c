package budopass

import (
	"fmt"
	"strings"
)

// Pure layout stage: PassData in, seven pages of label/value lines out. The
// renderer only draws what this produces, so the page structure is testable
// without touching fonts or PDF encoding.

const (
	// ExamRowsPerPage bounds how many exam rows fit one history page.
	ExamRowsPerPage = 5
	// ExamPages is the fixed number of history pages.
	ExamPages = 3
	// TotalPages of the printed pass.
	TotalPages = 7
)

// blank substitutes missing data on the printed card.
const blank = "____________________"

type Line struct {
	Label string
	Value string
}

type Page struct {
	Title string
	Lines []Line
}

func orBlank(s string) string {
	if s == "" {
		return blank
	}
	return s
}

// BuildPages lays out the full pass: cover, card data, personal data,
// affiliation, and three exam-history pages of five rows each.
func BuildPages(data PassData, cfg GradeConfig) []Page {
	if cfg.ClubName == "" {
		cfg.ClubName = defaultGradeConfig.ClubName
	}
	if len(cfg.Grades) == 0 {
		cfg.Grades = defaultGradeConfig.Grades
	}

	pages := make([]Page, 0, TotalPages)

	// Page 1: cover.
	pages = append(pages, Page{
		Title: "BUDO PASS",
		Lines: []Line{
			{Label: "", Value: cfg.ClubName},
			{Label: "Tesserato", Value: orBlank(data.DisplayName)},
			{Label: "N° tessera", Value: orBlank(data.PassNumber)},
		},
	})

	// Page 2: card data.
	pages = append(pages, Page{
		Title: "Dati tessera",
		Lines: []Line{
			{Label: "N° tessera", Value: orBlank(data.PassNumber)},
			{Label: "Federazione", Value: orBlank(data.Federation)},
			{Label: "Qualifica", Value: orBlank(data.Qualification)},
			{Label: "Grado attuale", Value: orBlank(data.CurrentGrade)},
			{Label: "Rilasciata il", Value: orBlank(data.IssuedAt)},
		},
	})

	// Page 3: photo and personal data.
	pages = append(pages, Page{
		Title: "Dati personali",
		Lines: []Line{
			{Label: "Foto", Value: orBlank(data.PhotoURL)},
			{Label: "Nome e cognome", Value: orBlank(data.DisplayName)},
			{Label: "Nato/a il", Value: orBlank(data.BirthDate)},
			{Label: "a", Value: orBlank(data.BirthPlace)},
			{Label: "Codice fiscale", Value: orBlank(data.TaxCode)},
			{Label: "Residenza", Value: orBlank(data.Address)},
		},
	})

	// Page 4: affiliation.
	insured := "NO"
	if data.Insured {
		insured = "SI"
	}
	pages = append(pages, Page{
		Title: "Affiliazione",
		Lines: []Line{
			{Label: "Società", Value: cfg.ClubName},
			{Label: "Associazione", Value: orBlank(data.Association)},
			{Label: "Assicurato", Value: insured},
			{Label: "Abbonamento", Value: orBlank(data.Subscription)},
		},
	})

	// Pages 5-7: exam history laid out against the club's grade ladder, one
	// row per grade with the exam data filled in where the grade was passed.
	// Exams recorded under a grade not on the ladder keep their own rows
	// after it; the grid is then padded with blanks to three full pages.
	rows := examRows(data.Exams, cfg.Grades)
	for page := 0; page < ExamPages; page++ {
		pages = append(pages, Page{
			Title: fmt.Sprintf("Esami %d/%d", page+1, ExamPages),
			Lines: rows[page*ExamRowsPerPage : (page+1)*ExamRowsPerPage],
		})
	}

	return pages
}

func examValue(e Exam) string {
	return fmt.Sprintf("%s  %s", orBlank(e.Date), orBlank(e.Examiner))
}

func examRows(exams []Exam, grades []string) []Line {
	rows := make([]Line, 0, ExamPages*ExamRowsPerPage)
	used := make([]bool, len(exams))

	for _, g := range grades {
		row := Line{Label: g, Value: blank}
		for i, e := range exams {
			if used[i] || !strings.EqualFold(strings.TrimSpace(e.Grade), strings.TrimSpace(g)) {
				continue
			}
			row.Value = examValue(e)
			used[i] = true
			break
		}
		rows = append(rows, row)
	}

	for i, e := range exams {
		if used[i] {
			continue
		}
		rows = append(rows, Line{Label: orBlank(e.Grade), Value: examValue(e)})
	}

	for len(rows) < ExamPages*ExamRowsPerPage {
		rows = append(rows, Line{Label: blank, Value: blank})
	}
	return rows[:ExamPages*ExamRowsPerPage]
}
