package philiri

import "encoding/json"

// Mark is the tri-state value of one scored slot: a GST item or a
// comprehension question. The zero value is Unanswered.
type Mark int8

const (
	Unanswered Mark = iota
	Correct
	Incorrect
)

// Answered reports whether the slot has been marked either way.
func (m Mark) Answered() bool {
	return m != Unanswered
}

// Cycle advances the mark through the one-tap sequence
// Unanswered -> Correct -> Incorrect -> Unanswered.
func (m Mark) Cycle() Mark {
	switch m {
	case Unanswered:
		return Correct
	case Correct:
		return Incorrect
	default:
		return Unanswered
	}
}

// MarkFor converts an explicit correct/incorrect choice to a Mark.
func MarkFor(correct bool) Mark {
	if correct {
		return Correct
	}
	return Incorrect
}

// Marks serialize as the paper form reads: true, false, or null.

func (m Mark) MarshalJSON() ([]byte, error) {
	switch m {
	case Correct:
		return []byte("true"), nil
	case Incorrect:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (m *Mark) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch {
	case v == nil:
		*m = Unanswered
	case *v:
		*m = Correct
	default:
		*m = Incorrect
	}
	return nil
}
