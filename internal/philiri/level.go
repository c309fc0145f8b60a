package philiri

// ReadingLevel is the tri-state Phil-IRI verdict. Levels are ordered
// Frustration < Instructional < Independent; the ordering is used for
// tie-breaking only, never for arithmetic.
type ReadingLevel string

const (
	Frustration   ReadingLevel = "Frustration"
	Instructional ReadingLevel = "Instructional"
	Independent   ReadingLevel = "Independent"
)

// rank returns the tie-break priority, lowest first.
func (l ReadingLevel) rank() int {
	switch l {
	case Frustration:
		return 0
	case Instructional:
		return 1
	case Independent:
		return 2
	}
	return -1
}

// LowerLevel returns the lower of two reading levels. A student is only
// Independent if both criteria qualify independently.
func LowerLevel(a, b ReadingLevel) ReadingLevel {
	if a.rank() <= b.rank() {
		return a
	}
	return b
}
