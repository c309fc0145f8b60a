package passage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nbwedev/phil-iri/internal/library"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/scoring"
)

// noActiveToken is the selector value when no word is selected.
const noActiveToken = -1

// Key identifies one passage administration. Any change in the key means
// a brand-new session; a Session never switches passages in place.
type Key struct {
	AssessmentID string
	Language     philiri.Language
	GradeLevel   int
	Set          string
}

// Session drives one graded-passage administration. Marking operations
// are silent no-ops after submission or without an active token; the UI
// layer gates its controls on the exposed readiness flags.
type Session struct {
	key     Key
	passage library.Passage

	tokens    []Token
	active    int
	comp      map[string]philiri.Mark
	timer     *Timer
	submitted bool

	results  Repository
	recorder AssessmentRecorder
	now      func() time.Time
}

// Options carries the session collaborators.
type Options struct {
	Results  Repository
	Recorder AssessmentRecorder

	// OnTick receives display samples from the running timer. Optional.
	OnTick func(time.Duration)

	// Now overrides the wall clock. Tests only.
	Now func() time.Time
}

// NewSession constructs a fresh session for the given passage and
// assessment. All state starts clean: tokens unmarked, questions
// unanswered, timer idle.
func NewSession(p library.Passage, assessmentID string, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		key: Key{
			AssessmentID: assessmentID,
			Language:     p.Language,
			GradeLevel:   p.GradeLevel,
			Set:          p.Set,
		},
		passage:  p,
		tokens:   Tokenize(p.Text),
		active:   noActiveToken,
		comp:     make(map[string]philiri.Mark, len(p.Questions)),
		results:  opts.Results,
		recorder: opts.Recorder,
		now:      now,
	}
	s.timer = NewTimer(opts.OnTick)
	if opts.Now != nil {
		s.timer.now = opts.Now
	}
	for _, q := range p.Questions {
		s.comp[q.ID] = philiri.Unanswered
	}
	return s
}

// Key returns the session identity.
func (s *Session) Key() Key { return s.key }

// Passage returns the passage under administration.
func (s *Session) Passage() library.Passage { return s.passage }

// Timer returns the reading timer.
func (s *Session) Timer() *Timer { return s.timer }

// Tokens returns a copy of the marked word list.
func (s *Session) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// ActiveIndex returns the selected token index, or -1 when none.
func (s *Session) ActiveIndex() int { return s.active }

// Submitted reports whether the session is locked.
func (s *Session) Submitted() bool { return s.submitted }

// TapWord toggles the active-token selector. Tapping the already-active
// token deselects it; at most one token is active at a time.
func (s *Session) TapWord(index int) {
	if s.submitted || index < 0 || index >= len(s.tokens) {
		return
	}
	if s.active == index {
		s.active = noActiveToken
		return
	}
	s.active = index
}

// Deselect clears the active-token selector.
func (s *Session) Deselect() {
	s.active = noActiveToken
}

// ApplyMiscue marks the active token with the given miscue type. Applying
// the token's current type clears it. A miscue displaces any
// self-correction on the token. No-op without an active token, after
// submission, or for an unknown type id.
func (s *Session) ApplyMiscue(typeID string) {
	if s.submitted || s.active == noActiveToken {
		return
	}
	if _, ok := philiri.MiscueTypeByID(typeID); !ok {
		return
	}
	tok := &s.tokens[s.active]
	if tok.Miscue == typeID {
		tok.Miscue = ""
		return
	}
	tok.Miscue = typeID
	tok.SelfCorrection = false
}

// MarkSelfCorrection toggles the self-correction flag on the active
// token, displacing any miscue. Self-corrections are noted but never
// counted as errors.
func (s *Session) MarkSelfCorrection() {
	if s.submitted || s.active == noActiveToken {
		return
	}
	tok := &s.tokens[s.active]
	tok.SelfCorrection = !tok.SelfCorrection
	tok.Miscue = ""
}

// ClearMiscue wipes both markings from the given token regardless of the
// active selection.
func (s *Session) ClearMiscue(index int) {
	if s.submitted || index < 0 || index >= len(s.tokens) {
		return
	}
	s.tokens[index].Miscue = ""
	s.tokens[index].SelfCorrection = false
}

// SetCompAnswer records one comprehension answer. Setting the same value
// twice clears the question back to unanswered.
func (s *Session) SetCompAnswer(questionID string, correct bool) {
	if s.submitted {
		return
	}
	cur, ok := s.comp[questionID]
	if !ok {
		return
	}
	next := philiri.MarkFor(correct)
	if cur == next {
		s.comp[questionID] = philiri.Unanswered
		return
	}
	s.comp[questionID] = next
}

// CompAnswers returns a copy of the comprehension sheet.
func (s *Session) CompAnswers() map[string]philiri.Mark {
	out := make(map[string]philiri.Mark, len(s.comp))
	for k, v := range s.comp {
		out[k] = v
	}
	return out
}

// MiscueCount counts tokens carrying a miscue. Self-corrections are
// excluded.
func (s *Session) MiscueCount() int {
	n := 0
	for _, tok := range s.tokens {
		if tok.Miscue != "" {
			n++
		}
	}
	return n
}

// WordAccuracyPct is the live word-accuracy percentage.
func (s *Session) WordAccuracyPct() float64 {
	return scoring.WordAccuracyPct(s.passage.TotalWords, s.MiscueCount())
}

// AnsweredCompCount counts answered comprehension questions.
func (s *Session) AnsweredCompCount() int {
	n := 0
	for _, m := range s.comp {
		if m.Answered() {
			n++
		}
	}
	return n
}

// CorrectCompCount counts comprehension questions marked correct.
func (s *Session) CorrectCompCount() int {
	n := 0
	for _, m := range s.comp {
		if m == philiri.Correct {
			n++
		}
	}
	return n
}

// ComprehensionPct is the live comprehension percentage.
func (s *Session) ComprehensionPct() float64 {
	return scoring.ComprehensionPct(s.CorrectCompCount(), len(s.passage.Questions))
}

// WPM returns words per minute, defined only once the timer has stopped.
// While idle or running it is always 0: a mid-reading rate would mislead.
func (s *Session) WPM() int {
	if s.timer.State() != TimerStopped {
		return 0
	}
	return scoring.WPM(s.passage.TotalWords, s.timer.ElapsedMs())
}

// CanCalculate is true once the reading is timed and every comprehension
// question carries an answer.
func (s *Session) CanCalculate() bool {
	return s.timer.State() == TimerStopped && s.AnsweredCompCount() == len(s.passage.Questions)
}

// LevelResult is the live reading-level preview. Nil until CanCalculate.
func (s *Session) LevelResult() *scoring.LevelResult {
	if !s.CanCalculate() {
		return nil
	}
	r := scoring.Classify(s.WordAccuracyPct(), s.ComprehensionPct())
	return &r
}

// Submit computes the final metrics, persists a new result record, and
// reports the outcome to the owning assessment. Returns (nil, nil) unless
// CanCalculate and not already submitted. The session locks only after a
// successful save, so a store failure leaves the teacher free to retry.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	if s.submitted || !s.CanCalculate() {
		return nil, nil
	}
	level := s.LevelResult()

	var miscues []MiscueRecord
	for _, tok := range s.tokens {
		if tok.Miscue == "" && !tok.SelfCorrection {
			continue
		}
		miscues = append(miscues, MiscueRecord{
			WordIndex:      tok.Index,
			Word:           tok.Word,
			Type:           tok.Miscue,
			SelfCorrection: tok.SelfCorrection,
		})
	}

	r := &Result{
		ID:                   uuid.New().String(),
		AssessmentID:         s.key.AssessmentID,
		PassageID:            s.passage.ID,
		Language:             s.passage.Language,
		GradeLevel:           s.passage.GradeLevel,
		PassageSet:           s.passage.Set,
		TotalWords:           s.passage.TotalWords,
		ReadingTimeMs:        s.timer.ElapsedMs(),
		WPM:                  s.WPM(),
		Miscues:              miscues,
		MiscueCount:          s.MiscueCount(),
		WordAccuracyPct:      s.WordAccuracyPct(),
		ComprehensionAnswers: s.CompAnswers(),
		CorrectCompCount:     s.CorrectCompCount(),
		TotalQuestions:       len(s.passage.Questions),
		ComprehensionPct:     s.ComprehensionPct(),
		ReadingLevel:         level.Level,
		WordAccuracyLevel:    level.WordAccuracyLevel,
		ComprehensionLevel:   level.ComprehensionLevel,
		CompletedAt:          s.now(),
	}

	if err := s.results.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save passage result: %w", err)
	}
	if s.recorder != nil {
		if err := s.recorder.RecordPassageOutcome(ctx, s.key.AssessmentID, r.Language, r.ReadingLevel); err != nil {
			return nil, fmt.Errorf("record passage outcome: %w", err)
		}
	}
	s.submitted = true
	return r, nil
}
