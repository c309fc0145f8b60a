package assessment

import (
	"context"
	"fmt"

	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

// RouteKind is the destination class of a resolved next step.
type RouteKind int

const (
	// RouteToPassage sends the teacher to graded-passage testing in
	// Route.Language.
	RouteToPassage RouteKind = iota

	// RouteToStudentHome means nothing remains for this assessment.
	RouteToStudentHome
)

// Route is the resolved next step for an assessment.
type Route struct {
	Kind     RouteKind
	Language philiri.Language // set only for RouteToPassage
}

// Resolver answers "what happens next?" from persisted results alone. It
// never mutates session state and must be re-evaluated, not cached, after
// every result write.
type Resolver struct {
	gstResults     gst.Repository
	passageResults passage.Repository
}

// NewResolver builds a resolver over the two result repositories.
func NewResolver(gstResults gst.Repository, passageResults passage.Repository) *Resolver {
	return &Resolver{gstResults: gstResults, passageResults: passageResults}
}

// NextStep walks the languages in fixed priority order, Filipino then
// English:
//
//   - no GST on record: the language was never administered, skip it
//   - GST passed (score at or above the cutoff): no passage needed
//   - passage already done for the language: skip
//   - otherwise the GST triggered testing that has not happened yet
//
// The first outstanding language wins; with none, the student is done.
// Marking the assessment complete is the caller's job.
func (r *Resolver) NextStep(ctx context.Context, assessmentID string) (Route, error) {
	passageResults, err := r.passageResults.ListForAssessment(ctx, assessmentID)
	if err != nil {
		return Route{}, fmt.Errorf("list passage results: %w", err)
	}
	languagesDone := map[philiri.Language]bool{}
	for _, pr := range passageResults {
		languagesDone[pr.Language] = true
	}

	for _, lang := range philiri.Languages() {
		res, err := r.gstResults.Get(ctx, assessmentID, lang)
		if err != nil {
			return Route{}, fmt.Errorf("load %s GST result: %w", lang, err)
		}
		if res == nil {
			continue
		}
		if res.Score >= philiri.IndividualTestingCutoff {
			continue
		}
		if languagesDone[lang] {
			continue
		}
		return Route{Kind: RouteToPassage, Language: lang}, nil
	}
	return Route{Kind: RouteToStudentHome}, nil
}
