// Package gst implements the Group Screening Test session: a 20-item
// answer sheet the teacher marks per student, scored as a triage gate for
// individual graded-passage testing.
package gst

import (
	"context"
	"time"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

// Result is one submitted GST administration. Immutable once saved; a
// resubmission for the same assessment and language overwrites it.
type Result struct {
	ID                 string                              `json:"id" db:"id"`
	AssessmentID       string                              `json:"assessmentId" db:"assessment_id"`
	Language           philiri.Language                    `json:"language" db:"language"`
	Answers            [philiri.GSTTotalItems]philiri.Mark `json:"answers"`
	Score              int                                 `json:"score" db:"score"`
	TotalItems         int                                 `json:"totalItems" db:"total_items"`
	TriggersIndividual bool                                `json:"triggersIndividual" db:"triggers_individual"`
	SubmittedAt        time.Time                           `json:"submittedAt" db:"submitted_at"`
}

// Repository persists GST results, unique per (assessment, language).
type Repository interface {
	// Get returns the result for the pair, or nil if never submitted.
	Get(ctx context.Context, assessmentID string, lang philiri.Language) (*Result, error)

	// Save upserts the result keyed by (assessment, language).
	Save(ctx context.Context, r *Result) error

	// ListForAssessment returns all results for one assessment in
	// administration order.
	ListForAssessment(ctx context.Context, assessmentID string) ([]Result, error)
}
