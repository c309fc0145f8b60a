package assessment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

func TestNextRetryGrade(t *testing.T) {
	grades := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name      string
		grade     int
		level     philiri.ReadingLevel
		available []int
		wantGrade int
		wantOK    bool
	}{
		{"frustration offers grade below", 3, philiri.Frustration, grades, 2, true},
		{"instructional offers grade below", 4, philiri.Instructional, grades, 3, true},
		{"independent never retries", 3, philiri.Independent, grades, 0, false},
		{"grade 1 has no floor below", 1, philiri.Frustration, grades, 0, false},
		{"lower grade missing from library", 4, philiri.Frustration, []int{4, 5}, 0, false},
		{"empty library", 3, philiri.Frustration, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &passage.Result{GradeLevel: tt.grade, ReadingLevel: tt.level}
			got, ok := assessment.NextRetryGrade(r, tt.available)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantGrade, got)
		})
	}
}

func TestNextRetryGradeNilResult(t *testing.T) {
	_, ok := assessment.NextRetryGrade(nil, []int{1, 2, 3})
	assert.False(t, ok)
}

// The retry chain walks strictly downward and always ends: either a
// result reaches Independent or grade 1 is exhausted.
func TestRetryChainTerminates(t *testing.T) {
	grades := []int{1, 2, 3, 4, 5}
	r := &passage.Result{GradeLevel: 5, ReadingLevel: philiri.Frustration}

	var visited []int
	for {
		next, ok := assessment.NextRetryGrade(r, grades)
		if !ok {
			break
		}
		visited = append(visited, next)
		r = &passage.Result{GradeLevel: next, ReadingLevel: philiri.Frustration}
	}
	assert.Equal(t, []int{4, 3, 2, 1}, visited)
}
