package passage

import (
	"context"
	"time"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

// MiscueRecord is one marked word in a saved result. Type is empty when
// the word carries only a self-correction.
type MiscueRecord struct {
	WordIndex      int    `json:"wordIndex"`
	Word           string `json:"word"`
	Type           string `json:"type,omitempty"`
	SelfCorrection bool   `json:"selfCorrection"`
}

// Result is one submitted graded-passage administration. Immutable once
// saved. Several results may exist per (assessment, language) pair, one
// per grade attempt in the retry-lower loop; the latest one is
// authoritative for the assessment's final level.
type Result struct {
	ID                   string                  `json:"id" db:"id"`
	AssessmentID         string                  `json:"assessmentId" db:"assessment_id"`
	PassageID            string                  `json:"passageId" db:"passage_id"`
	Language             philiri.Language        `json:"language" db:"language"`
	GradeLevel           int                     `json:"gradeLevel" db:"grade_level"`
	PassageSet           string                  `json:"passageSet" db:"passage_set"`
	TotalWords           int                     `json:"totalWords" db:"total_words"`
	ReadingTimeMs        int64                   `json:"readingTimeMs" db:"reading_time_ms"`
	WPM                  int                     `json:"wpm" db:"wpm"`
	Miscues              []MiscueRecord          `json:"miscues"`
	MiscueCount          int                     `json:"miscueCount" db:"miscue_count"`
	WordAccuracyPct      float64                 `json:"wordAccuracyPct" db:"word_accuracy_pct"`
	ComprehensionAnswers map[string]philiri.Mark `json:"comprehensionAnswers"`
	CorrectCompCount     int                     `json:"correctCompCount" db:"correct_comp_count"`
	TotalQuestions       int                     `json:"totalQuestions" db:"total_questions"`
	ComprehensionPct     float64                 `json:"comprehensionPct" db:"comprehension_pct"`
	ReadingLevel         philiri.ReadingLevel    `json:"readingLevel" db:"reading_level"`
	WordAccuracyLevel    philiri.ReadingLevel    `json:"wordAccuracyLevel" db:"word_accuracy_level"`
	ComprehensionLevel   philiri.ReadingLevel    `json:"comprehensionLevel" db:"comprehension_level"`
	CompletedAt          time.Time               `json:"completedAt" db:"completed_at"`
}

// Repository persists passage results, append-only per (assessment,
// language).
type Repository interface {
	// Save inserts a new result. Never overwrites.
	Save(ctx context.Context, r *Result) error

	// ListForAssessment returns all results for one assessment in
	// completion order.
	ListForAssessment(ctx context.Context, assessmentID string) ([]Result, error)
}

// AssessmentRecorder receives the outcome of a submitted passage so the
// owning assessment header can track its running final level and the set
// of administered languages. It must not mark the assessment complete;
// completion belongs to the routing layer.
type AssessmentRecorder interface {
	RecordPassageOutcome(ctx context.Context, assessmentID string, lang philiri.Language, level philiri.ReadingLevel) error
}
