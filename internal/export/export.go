// Package export writes assessment records to an Excel workbook shaped
// like the forms teachers file with the school reading coordinator: a
// class profile summary plus one row per oral-reading administration.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/roster"
)

const (
	profileSheet = "Class Reading Profile"
	oralSheet    = "Oral Reading Results"

	dateLayout = "2006-01-02"
)

// Exporter pulls records from the repositories and renders the workbook.
type Exporter struct {
	students    roster.Repository
	assessments assessment.Repository
	gstResults  gst.Repository
	results     passage.Repository
}

// New builds an exporter over the four repositories.
func New(students roster.Repository, assessments assessment.Repository, gstResults gst.Repository, results passage.Repository) *Exporter {
	return &Exporter{
		students:    students,
		assessments: assessments,
		gstResults:  gstResults,
		results:     results,
	}
}

// WriteFile renders every student's records and saves the workbook at
// path. Students without assessments still appear on the profile sheet.
func (e *Exporter) WriteFile(ctx context.Context, path string) error {
	f, err := e.build(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (e *Exporter) build(ctx context.Context) (*excelize.File, error) {
	f := excelize.NewFile()

	students, err := e.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	if err := e.writeProfile(ctx, f, students); err != nil {
		return nil, err
	}
	if err := e.writeOralReading(ctx, f, students); err != nil {
		return nil, err
	}

	// Drop the default sheet so the profile opens first.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(profileSheet)
	if err != nil {
		return nil, fmt.Errorf("find profile sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func (e *Exporter) writeProfile(ctx context.Context, f *excelize.File, students []roster.Student) error {
	if _, err := f.NewSheet(profileSheet); err != nil {
		return fmt.Errorf("create profile sheet: %w", err)
	}
	headers := []any{
		"LRN", "Last Name", "First Name", "Grade", "Section", "Stage",
		"GST Filipino", "GST English", "Final Level", "Completed",
	}
	if err := f.SetSheetRow(profileSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write profile header: %w", err)
	}
	if err := f.SetColWidth(profileSheet, "A", "A", 16); err != nil {
		return fmt.Errorf("size profile columns: %w", err)
	}
	if err := f.SetColWidth(profileSheet, "B", "J", 14); err != nil {
		return fmt.Errorf("size profile columns: %w", err)
	}

	row := 2
	for _, st := range students {
		all, err := e.assessments.ListForStudent(ctx, st.ID)
		if err != nil {
			return fmt.Errorf("list assessments for %s: %w", st.ID, err)
		}
		if len(all) == 0 {
			cells := []any{st.LRN, st.LastName, st.FirstName, st.GradeLevel, st.Section, "", "", "", "", ""}
			if err := f.SetSheetRow(profileSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return fmt.Errorf("write profile row: %w", err)
			}
			row++
			continue
		}
		for _, a := range all {
			scores := map[philiri.Language]string{}
			gsts, err := e.gstResults.ListForAssessment(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("list GST results for %s: %w", a.ID, err)
			}
			for _, g := range gsts {
				scores[g.Language] = fmt.Sprintf("%d/%d", g.Score, g.TotalItems)
			}
			completed := ""
			if a.CompletedAt != nil {
				completed = a.CompletedAt.Format(dateLayout)
			}
			cells := []any{
				st.LRN, st.LastName, st.FirstName, st.GradeLevel, st.Section,
				string(a.Stage), scores[philiri.Filipino], scores[philiri.English],
				string(a.FinalLevel), completed,
			}
			if err := f.SetSheetRow(profileSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return fmt.Errorf("write profile row: %w", err)
			}
			row++
		}
	}
	return nil
}

func (e *Exporter) writeOralReading(ctx context.Context, f *excelize.File, students []roster.Student) error {
	if _, err := f.NewSheet(oralSheet); err != nil {
		return fmt.Errorf("create oral reading sheet: %w", err)
	}
	headers := []any{
		"Student", "Stage", "Language", "Passage Grade", "Set",
		"Words", "Time (s)", "WPM", "Miscues", "Word Accuracy %",
		"Comprehension", "Comprehension %", "Word Reading Level",
		"Comprehension Level", "Reading Level", "Date",
	}
	if err := f.SetSheetRow(oralSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write oral reading header: %w", err)
	}
	if err := f.SetColWidth(oralSheet, "A", "A", 24); err != nil {
		return fmt.Errorf("size oral reading columns: %w", err)
	}
	if err := f.SetColWidth(oralSheet, "B", "P", 14); err != nil {
		return fmt.Errorf("size oral reading columns: %w", err)
	}

	row := 2
	for _, st := range students {
		all, err := e.assessments.ListForStudent(ctx, st.ID)
		if err != nil {
			return fmt.Errorf("list assessments for %s: %w", st.ID, err)
		}
		for _, a := range all {
			results, err := e.results.ListForAssessment(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("list passage results for %s: %w", a.ID, err)
			}
			for _, r := range results {
				cells := []any{
					st.FullName(), string(a.Stage), string(r.Language), r.GradeLevel, r.PassageSet,
					r.TotalWords, float64(r.ReadingTimeMs) / 1000, r.WPM, r.MiscueCount, r.WordAccuracyPct,
					fmt.Sprintf("%d/%d", r.CorrectCompCount, r.TotalQuestions), r.ComprehensionPct,
					string(r.WordAccuracyLevel), string(r.ComprehensionLevel), string(r.ReadingLevel),
					r.CompletedAt.Format(dateLayout),
				}
				if err := f.SetSheetRow(oralSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
					return fmt.Errorf("write oral reading row: %w", err)
				}
				row++
			}
		}
	}
	return nil
}
