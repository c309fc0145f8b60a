// Package memory provides map-backed repositories with the same
// semantics as the SQLite store. Tests use them to exercise session and
// routing logic without touching the filesystem.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/roster"
)

// Store bundles one in-memory repository per record type, sharing a
// single lock so cascade deletes stay atomic.
type Store struct {
	mu sync.Mutex

	students       map[string]roster.Student
	assessments    map[string]assessment.Assessment
	gstResults     map[string]gst.Result    // keyed assessmentID + "/" + language
	passageResults []passage.Result
}

func New() *Store {
	return &Store{
		students:    make(map[string]roster.Student),
		assessments: make(map[string]assessment.Assessment),
		gstResults:  make(map[string]gst.Result),
	}
}

func (s *Store) Students() roster.Repository        { return (*studentRepo)(s) }
func (s *Store) Assessments() assessment.Repository { return (*assessmentRepo)(s) }
func (s *Store) GSTResults() gst.Repository         { return (*gstResultRepo)(s) }
func (s *Store) PassageResults() passage.Repository { return (*passageResultRepo)(s) }

func gstKey(assessmentID string, lang philiri.Language) string {
	return assessmentID + "/" + string(lang)
}

type studentRepo Store

func (r *studentRepo) Create(_ context.Context, st *roster.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[st.ID] = *st
	return nil
}

func (r *studentRepo) Get(_ context.Context, id string) (*roster.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.students[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *studentRepo) List(_ context.Context) ([]roster.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]roster.Student, 0, len(r.students))
	for _, st := range r.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if al, bl := strings.ToLower(a.LastName), strings.ToLower(b.LastName); al != bl {
			return al < bl
		}
		return strings.ToLower(a.FirstName) < strings.ToLower(b.FirstName)
	})
	return out, nil
}

func (r *studentRepo) Update(_ context.Context, st *roster.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[st.ID] = *st
	return nil
}

// Delete removes the student and every record hanging off their
// assessments.
func (r *studentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for aid, a := range r.assessments {
		if a.StudentID != id {
			continue
		}
		delete(r.assessments, aid)
		for k, res := range r.gstResults {
			if res.AssessmentID == aid {
				delete(r.gstResults, k)
			}
		}
		kept := r.passageResults[:0]
		for _, res := range r.passageResults {
			if res.AssessmentID != aid {
				kept = append(kept, res)
			}
		}
		r.passageResults = kept
	}
	delete(r.students, id)
	return nil
}

type assessmentRepo Store

func (r *assessmentRepo) Create(_ context.Context, a *assessment.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments[a.ID] = cloneAssessment(*a)
	return nil
}

func (r *assessmentRepo) Get(_ context.Context, id string) (*assessment.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[id]
	if !ok {
		return nil, nil
	}
	a = cloneAssessment(a)
	return &a, nil
}

func (r *assessmentRepo) ListForStudent(_ context.Context, studentID string) ([]assessment.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []assessment.Assessment
	for _, a := range r.assessments {
		if a.StudentID == studentID {
			out = append(out, cloneAssessment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *assessmentRepo) RecordPassageOutcome(_ context.Context, id string, lang philiri.Language, level philiri.ReadingLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[id]
	if !ok {
		return nil
	}
	a.FinalLevel = level
	if !a.HasLanguage(lang) {
		a.Languages = append(a.Languages, lang)
	}
	a.UpdatedAt = time.Now()
	r.assessments[id] = a
	return nil
}

func (r *assessmentRepo) MarkCompleted(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[id]
	if !ok || a.CompletedAt != nil {
		return nil
	}
	a.CompletedAt = &at
	a.UpdatedAt = at
	r.assessments[id] = a
	return nil
}

func cloneAssessment(a assessment.Assessment) assessment.Assessment {
	a.Languages = append([]philiri.Language(nil), a.Languages...)
	if a.CompletedAt != nil {
		at := *a.CompletedAt
		a.CompletedAt = &at
	}
	return a
}

type gstResultRepo Store

func (r *gstResultRepo) Get(_ context.Context, assessmentID string, lang philiri.Language) (*gst.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.gstResults[gstKey(assessmentID, lang)]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *gstResultRepo) Save(_ context.Context, res *gst.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gstResults[gstKey(res.AssessmentID, res.Language)] = *res
	return nil
}

func (r *gstResultRepo) ListForAssessment(_ context.Context, assessmentID string) ([]gst.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]gst.Result, 0, len(philiri.Languages()))
	for _, lang := range philiri.Languages() {
		if res, ok := r.gstResults[gstKey(assessmentID, lang)]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

type passageResultRepo Store

func (r *passageResultRepo) Save(_ context.Context, res *passage.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passageResults = append(r.passageResults, clonePassageResult(*res))
	return nil
}

func (r *passageResultRepo) ListForAssessment(_ context.Context, assessmentID string) ([]passage.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []passage.Result
	for _, res := range r.passageResults {
		if res.AssessmentID == assessmentID {
			out = append(out, clonePassageResult(res))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out, nil
}

func clonePassageResult(res passage.Result) passage.Result {
	res.Miscues = append([]passage.MiscueRecord(nil), res.Miscues...)
	if res.ComprehensionAnswers != nil {
		answers := make(map[string]philiri.Mark, len(res.ComprehensionAnswers))
		for k, v := range res.ComprehensionAnswers {
			answers[k] = v
		}
		res.ComprehensionAnswers = answers
	}
	return res
}
