package gst

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

// Session drives one GST administration for a fixed (assessment, language)
// pair. The pair is part of the session's identity: testing a different
// language means constructing a new session, never reusing this one.
//
// Mutating calls are synchronous no-ops once the session is submitted or
// when given an out-of-range index; the caller is expected to disable the
// triggering control via CanSubmit and Submitted.
type Session struct {
	assessmentID string
	language     philiri.Language

	answers   [philiri.GSTTotalItems]philiri.Mark
	submitted bool

	repo Repository
	now  func() time.Time
}

// NewSession constructs a session for the pair. If a result was already
// submitted for it, the session resumes pre-populated and locked.
func NewSession(ctx context.Context, repo Repository, assessmentID string, lang philiri.Language) (*Session, error) {
	s := &Session{
		assessmentID: assessmentID,
		language:     lang,
		repo:         repo,
		now:          time.Now,
	}
	existing, err := repo.Get(ctx, assessmentID, lang)
	if err != nil {
		return nil, fmt.Errorf("load existing GST result: %w", err)
	}
	if existing != nil {
		s.answers = existing.Answers
		s.submitted = true
	}
	return s, nil
}

// AssessmentID returns the owning assessment.
func (s *Session) AssessmentID() string { return s.assessmentID }

// Language returns the administered language.
func (s *Session) Language() philiri.Language { return s.language }

// Answers returns a copy of the current answer sheet.
func (s *Session) Answers() [philiri.GSTTotalItems]philiri.Mark { return s.answers }

// ToggleAnswer cycles one item Unanswered -> Correct -> Incorrect ->
// Unanswered. No-op when locked or out of range.
func (s *Session) ToggleAnswer(index int) {
	if s.submitted || index < 0 || index >= philiri.GSTTotalItems {
		return
	}
	s.answers[index] = s.answers[index].Cycle()
}

// SetAnswer marks one item explicitly correct or incorrect. No-op when
// locked or out of range.
func (s *Session) SetAnswer(index int, correct bool) {
	if s.submitted || index < 0 || index >= philiri.GSTTotalItems {
		return
	}
	s.answers[index] = philiri.MarkFor(correct)
}

// AnsweredCount returns how many of the 20 items carry a mark.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, m := range s.answers {
		if m.Answered() {
			n++
		}
	}
	return n
}

// Score returns the count of items marked correct.
func (s *Session) Score() int {
	n := 0
	for _, m := range s.answers {
		if m == philiri.Correct {
			n++
		}
	}
	return n
}

// TriggersIndividual reports whether the current score sends the student
// to graded-passage testing.
func (s *Session) TriggersIndividual() bool {
	return philiri.GSTTriggersIndividual(s.Score())
}

// Submitted reports whether the session is locked.
func (s *Session) Submitted() bool { return s.submitted }

// CanSubmit is true once all items are answered and the session is not
// already locked.
func (s *Session) CanSubmit() bool {
	return s.AnsweredCount() == philiri.GSTTotalItems && !s.submitted
}

// Submit scores the sheet, persists the result (overwriting any earlier
// submission for this pair), and locks the session. Returns (nil, nil)
// when CanSubmit is false. On a store failure the session stays unlocked
// so the teacher can retry.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	if !s.CanSubmit() {
		return nil, nil
	}
	r := &Result{
		ID:                 uuid.New().String(),
		AssessmentID:       s.assessmentID,
		Language:           s.language,
		Answers:            s.answers,
		Score:              s.Score(),
		TotalItems:         philiri.GSTTotalItems,
		TriggersIndividual: s.TriggersIndividual(),
		SubmittedAt:        s.now(),
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save GST result: %w", err)
	}
	s.submitted = true
	return r, nil
}

// Reset clears the in-memory sheet and unlocks the session for a re-test.
// An already-persisted result is untouched until the next Submit
// overwrites it.
func (s *Session) Reset() {
	s.answers = [philiri.GSTTotalItems]philiri.Mark{}
	s.submitted = false
}
