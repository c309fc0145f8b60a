// Package roster holds the student records that assessments attach to.
package roster

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Student is one learner on the class roster. LRN is the DepEd Learner
// Reference Number, a 12-digit string; it is optional because not every
// learner has one on file.
type Student struct {
	ID         string    `json:"id" db:"id"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	LRN        string    `json:"lrn,omitempty" db:"lrn"`
	GradeLevel int       `json:"gradeLevel" db:"grade_level"`
	Section    string    `json:"section,omitempty" db:"section"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns the display name.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Validate checks the fields a teacher can get wrong at entry time.
func (s *Student) Validate() error {
	if strings.TrimSpace(s.FirstName) == "" {
		return fmt.Errorf("first name is required")
	}
	if strings.TrimSpace(s.LastName) == "" {
		return fmt.Errorf("last name is required")
	}
	if s.GradeLevel < 1 || s.GradeLevel > 7 {
		return fmt.Errorf("grade level must be 1-7, got %d", s.GradeLevel)
	}
	if err := ValidateLRN(s.LRN); err != nil {
		return err
	}
	return nil
}

// ValidateLRN accepts an empty LRN or exactly 12 digits.
func ValidateLRN(lrn string) error {
	if lrn == "" {
		return nil
	}
	if len(lrn) != 12 {
		return fmt.Errorf("LRN must be 12 digits, got %d characters", len(lrn))
	}
	for _, r := range lrn {
		if r < '0' || r > '9' {
			return fmt.Errorf("LRN must contain only digits")
		}
	}
	return nil
}

// Repository persists students. Delete cascades: the student's
// assessments go with them, along with every GST and passage result
// scoped to those assessments.
type Repository interface {
	Create(ctx context.Context, s *Student) error

	// Get returns the student, or nil when absent.
	Get(ctx context.Context, id string) (*Student, error)

	// List returns all students ordered by last name then first name.
	List(ctx context.Context) ([]Student, error)

	Update(ctx context.Context, s *Student) error

	// Delete removes the student and cascades to owned records.
	Delete(ctx context.Context, id string) error
}
