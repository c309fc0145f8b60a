package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

// Service ties the assessment lifecycle together: starting a session,
// resolving the next step after each submission, and closing the
// assessment once nothing remains.
type Service struct {
	assessments Repository
	resolver    *Resolver
	now         func() time.Time
}

// NewService builds an assessment service.
func NewService(assessments Repository, resolver *Resolver) *Service {
	return &Service{assessments: assessments, resolver: resolver, now: time.Now}
}

// Start creates a new assessment header for a student at the GST step.
func (s *Service) Start(ctx context.Context, studentID string, stage philiri.Stage) (*Assessment, error) {
	a := &Assessment{
		ID:        uuid.New().String(),
		StudentID: studentID,
		Stage:     stage,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return a, nil
}

// Advance resolves the next step and, when nothing remains, stamps
// CompletedAt on the assessment. Call it after every GST or passage
// submission; the resolution is recomputed from persisted state each
// time.
func (s *Service) Advance(ctx context.Context, assessmentID string) (Route, error) {
	route, err := s.resolver.NextStep(ctx, assessmentID)
	if err != nil {
		return Route{}, err
	}
	if route.Kind != RouteToStudentHome {
		return route, nil
	}

	a, err := s.assessments.Get(ctx, assessmentID)
	if err != nil {
		return Route{}, fmt.Errorf("load assessment: %w", err)
	}
	if a == nil {
		return Route{}, fmt.Errorf("assessment %s not found", assessmentID)
	}
	if !a.Completed() {
		if err := s.assessments.MarkCompleted(ctx, assessmentID, s.now()); err != nil {
			return Route{}, fmt.Errorf("mark assessment complete: %w", err)
		}
	}
	return route, nil
}
