// Package export writes screening results and review records as XLSX workbooks.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/screening-diagnostic/internal/types"
)

// Sheet names.
const (
	ScreeningSheet = "Screening"
	ReviewsSheet   = "Reviews"
)

// ContentType is the media type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var screeningHeaders = []string{
	"Candidate",
	"File",
	"Job Type",
	"Decision",
	"Total Score",
	"Skills Score",
	"Experience Score",
	"Education Score",
	"Experience (years)",
	"Matched Skills",
	"Error",
}

var reviewHeaders = []string{
	"Candidate",
	"AI Decision",
	"AI Score",
	"Human Decision",
	"Agreement",
	"Confidence",
	"Reviewer Role",
	"Notes",
	"Reviewed At",
}

// Workbook returns an XLSX workbook with one sheet of candidates and one of reviews.
func Workbook(candidates []types.Candidate, reviews []types.ReviewRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScreeningSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ReviewsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	sw := sheetWriter{f: f, sheet: ScreeningSheet}
	sw.row(1, toAny(screeningHeaders)...)
	for i, c := range candidates {
		values := []any{c.Name, c.Filename, c.JobType}
		if r := c.Result; r != nil {
			values = append(values,
				string(r.Decision),
				r.TotalScore,
				r.SkillsScore,
				r.ExperienceScore,
				r.EducationScore,
				r.ExperienceYears,
				strings.Join(r.MatchedSkills, ", "),
				"",
			)
		} else {
			values = append(values, "", "", "", "", "", "", "", c.Error)
		}
		sw.row(i+2, values...)
	}

	rw := sheetWriter{f: f, sheet: ReviewsSheet}
	rw.row(1, toAny(reviewHeaders)...)
	for i, r := range reviews {
		rw.row(i+2,
			r.SubjectName,
			string(r.AIDecision),
			r.AIScore,
			string(r.HumanDecision),
			r.Agreement,
			r.Confidence,
			r.ReviewerRole,
			r.Notes,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	if sw.err != nil {
		return nil, sw.err
	}
	if rw.err != nil {
		return nil, rw.err
	}

	_ = f.SetColWidth(ScreeningSheet, "A", "C", 16)
	_ = f.SetColWidth(ScreeningSheet, "J", "J", 40)
	_ = f.SetColWidth(ReviewsSheet, "A", "A", 16)
	_ = f.SetColWidth(ReviewsSheet, "H", "H", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path.
func WriteFile(path string, candidates []types.Candidate, reviews []types.ReviewRecord) error {
	data, err := Workbook(candidates, reviews)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sheetWriter writes rows and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) row(row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", w.sheet, row, err)
	}
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
