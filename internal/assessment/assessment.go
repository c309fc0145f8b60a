// Package assessment owns the assessment header record and the routing
// logic that decides what a teacher does next after any GST or passage
// submission.
package assessment

import (
	"context"
	"time"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

// Assessment is the mutable header for one Phil-IRI administration of one
// student. GST and passage results hang off it by ID.
//
// FinalLevel is a last-write field: whenever a passage result is saved it
// takes that result's level. CompletedAt is set only by the routing layer
// once no GST-triggered passage remains outstanding.
type Assessment struct {
	ID          string               `json:"id" db:"id"`
	StudentID   string               `json:"studentId" db:"student_id"`
	Stage       philiri.Stage        `json:"stage" db:"stage"`
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt" db:"updated_at"`
	CompletedAt *time.Time           `json:"completedAt,omitempty" db:"completed_at"`
	FinalLevel  philiri.ReadingLevel `json:"finalLevel,omitempty" db:"final_level"`
	Languages   []philiri.Language   `json:"languages"`
}

// Completed reports whether the routing layer has closed this assessment.
func (a *Assessment) Completed() bool {
	return a.CompletedAt != nil
}

// HasLanguage reports whether a passage was administered in lang.
func (a *Assessment) HasLanguage(lang philiri.Language) bool {
	for _, l := range a.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Repository persists assessment headers.
type Repository interface {
	// Create stores a new assessment header.
	Create(ctx context.Context, a *Assessment) error

	// Get returns the assessment, or nil when absent.
	Get(ctx context.Context, id string) (*Assessment, error)

	// ListForStudent returns a student's assessments, newest first.
	ListForStudent(ctx context.Context, studentID string) ([]Assessment, error)

	// RecordPassageOutcome sets FinalLevel to level and adds lang to the
	// administered set. It never touches CompletedAt.
	RecordPassageOutcome(ctx context.Context, id string, lang philiri.Language, level philiri.ReadingLevel) error

	// MarkCompleted stamps CompletedAt. No-op if already stamped.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}
