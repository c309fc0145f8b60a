package assessment

import (
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

// NextRetryGrade decides whether the teacher may re-administer one grade
// lower after a passage result. A retry is offered when the level is not
// yet Independent, the grade below is at least 1, and the library holds a
// passage at that grade for the language. availableGrades is the
// library's grade list for the result's language.
//
// The loop this drives terminates on its own: each retry moves strictly
// downward, and once Independent is reached (or no lower passage exists)
// no further retry is offered. The last result stands as final.
func NextRetryGrade(r *passage.Result, availableGrades []int) (int, bool) {
	if r == nil || r.ReadingLevel == philiri.Independent {
		return 0, false
	}
	lower := r.GradeLevel - 1
	if lower < 1 {
		return 0, false
	}
	for _, g := range availableGrades {
		if g == lower {
			return lower, true
		}
	}
	return 0, false
}
