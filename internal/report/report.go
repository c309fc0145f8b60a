// Package report renders assessment records as styled terminal text for
// the report command.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/roster"
)

// Color palette — muted, legible on light and dark terminals.
var (
	primary = lipgloss.Color("#8B5CF6")
	textDim = lipgloss.Color("#94A3B8")
	border  = lipgloss.Color("#334155")

	independent   = lipgloss.Color("#22C55E")
	instructional = lipgloss.Color("#F97316")
	frustration   = lipgloss.Color("#F43F5E")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	dimStyle   = lipgloss.NewStyle().Foreground(textDim)
	lineStyle  = lipgloss.NewStyle().Foreground(border)
)

func levelStyle(l philiri.ReadingLevel) lipgloss.Style {
	switch l {
	case philiri.Independent:
		return lipgloss.NewStyle().Foreground(independent).Bold(true)
	case philiri.Instructional:
		return lipgloss.NewStyle().Foreground(instructional).Bold(true)
	case philiri.Frustration:
		return lipgloss.NewStyle().Foreground(frustration).Bold(true)
	}
	return dimStyle
}

// StudentRecord bundles everything the report shows for one assessment.
type StudentRecord struct {
	Assessment assessment.Assessment
	GSTResults []gst.Result
	Passages   []passage.Result
}

// Student renders a full reading profile: the roster line, then each
// assessment with its GST scores and every oral-reading attempt.
func Student(st *roster.Student, records []StudentRecord) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(st.FullName()))
	b.WriteString("\n")
	meta := fmt.Sprintf("Grade %d", st.GradeLevel)
	if st.Section != "" {
		meta += " · " + st.Section
	}
	if st.LRN != "" {
		meta += " · LRN " + st.LRN
	}
	b.WriteString(dimStyle.Render(meta))
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString(dimStyle.Render("No assessments on record."))
		b.WriteString("\n")
		return b.String()
	}

	for _, rec := range records {
		b.WriteString("\n")
		b.WriteString(renderAssessment(rec))
	}
	return b.String()
}

func stageLabel(s philiri.Stage) string {
	if s == philiri.Posttest {
		return "Posttest"
	}
	return "Pretest"
}

func renderAssessment(rec StudentRecord) string {
	var b strings.Builder
	a := rec.Assessment

	head := stageLabel(a.Stage) + " · started " + a.CreatedAt.Format("Jan 2, 2006")
	if a.Completed() {
		head += " · completed " + a.CompletedAt.Format("Jan 2, 2006")
	} else {
		head += " · in progress"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(head))
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(strings.Repeat("─", 56)))
	b.WriteString("\n")

	if len(rec.GSTResults) == 0 {
		b.WriteString(dimStyle.Render("  No screening test administered."))
		b.WriteString("\n")
	}
	for _, g := range rec.GSTResults {
		verdict := "passed"
		if g.TriggersIndividual {
			verdict = "individual testing"
		}
		b.WriteString(fmt.Sprintf("  GST %-8s %2d/%d  %s\n",
			g.Language, g.Score, g.TotalItems, dimStyle.Render(verdict)))
	}

	for _, p := range rec.Passages {
		b.WriteString(fmt.Sprintf("  %s grade %d set %s  %s\n",
			p.Language, p.GradeLevel, p.PassageSet,
			levelStyle(p.ReadingLevel).Render(string(p.ReadingLevel))))
		detail := fmt.Sprintf("    %.1f%% accuracy (%d miscues) · %d/%d comprehension (%.0f%%) · %d wpm",
			p.WordAccuracyPct, p.MiscueCount,
			p.CorrectCompCount, p.TotalQuestions, p.ComprehensionPct, p.WPM)
		b.WriteString(dimStyle.Render(detail))
		b.WriteString("\n")
	}

	if a.FinalLevel != "" {
		b.WriteString("  Final level: ")
		b.WriteString(levelStyle(a.FinalLevel).Render(string(a.FinalLevel)))
		b.WriteString("\n")
	}
	return b.String()
}
