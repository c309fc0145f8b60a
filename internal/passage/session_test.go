package passage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/library"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/store/memory"
)

// testPassage has 20 words and 5 questions so the expected percentages
// come out to round numbers.
func testPassage() library.Passage {
	return library.Passage{
		ID:         "fil-gr3-x",
		Language:   philiri.Filipino,
		GradeLevel: 3,
		Set:        "A",
		Type:       "narrative",
		Title:      "Ang Puno",
		Text: "Isang umaga may nakita si Liza na maliit na puno sa tabi ng " +
			"kanilang bahay kaya dinilig niya ito araw-araw hanggang lumaki",
		Questions: []library.Question{
			{ID: "q1", Text: "Sino ang nakakita ng puno?", Type: "literal"},
			{ID: "q2", Text: "Saan nakita ang puno?", Type: "literal"},
			{ID: "q3", Text: "Ano ang ginawa ni Liza?", Type: "literal"},
			{ID: "q4", Text: "Bakit lumaki ang puno?", Type: "inferential"},
			{ID: "q5", Text: "Tama ba ang ginawa ni Liza?", Type: "critical"},
		},
		TotalWords: 20,
	}
}

type sessionEnv struct {
	store *memory.Store
	clock *fakeTime
}

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time          { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestSession(t *testing.T) (*passage.Session, *sessionEnv) {
	t.Helper()
	env := &sessionEnv{
		store: memory.New(),
		clock: &fakeTime{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)},
	}
	s := passage.NewSession(testPassage(), "a1", passage.Options{
		Results: env.store.PassageResults(),
		Now:     env.clock.now,
	})
	return s, env
}

func newAssessment(id string) *assessment.Assessment {
	now := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	return &assessment.Assessment{
		ID:        id,
		StudentID: "s1",
		Stage:     philiri.Pretest,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// finishReading times a one-minute reading and answers the first
// `correct` questions correct, the rest incorrect, so the session
// becomes calculable.
func finishReading(s *passage.Session, env *sessionEnv, correct int) {
	s.Timer().Start()
	env.clock.advance(time.Minute)
	s.Timer().Stop()
	for i, q := range s.Passage().Questions {
		s.SetCompAnswer(q.ID, i < correct)
	}
}

func TestTapWordSelection(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, -1, s.ActiveIndex())
	s.TapWord(3)
	assert.Equal(t, 3, s.ActiveIndex())
	s.TapWord(7)
	assert.Equal(t, 7, s.ActiveIndex())
	s.TapWord(7) // tapping the active word deselects
	assert.Equal(t, -1, s.ActiveIndex())

	s.TapWord(100)
	assert.Equal(t, -1, s.ActiveIndex())
}

func TestApplyMiscueToggles(t *testing.T) {
	s, _ := newTestSession(t)
	s.TapWord(2)

	s.ApplyMiscue("omission")
	assert.Equal(t, "omission", s.Tokens()[2].Miscue)
	assert.Equal(t, 1, s.MiscueCount())

	// Reapplying the same type clears it.
	s.ApplyMiscue("omission")
	assert.Equal(t, "", s.Tokens()[2].Miscue)
	assert.Equal(t, 0, s.MiscueCount())

	// A different type replaces, not stacks.
	s.ApplyMiscue("omission")
	s.ApplyMiscue("substitution")
	assert.Equal(t, "substitution", s.Tokens()[2].Miscue)
	assert.Equal(t, 1, s.MiscueCount())
}

func TestApplyMiscueUnknownType(t *testing.T) {
	s, _ := newTestSession(t)
	s.TapWord(0)
	s.ApplyMiscue("stutter")
	assert.Equal(t, "", s.Tokens()[0].Miscue)
}

func TestApplyMiscueNoActiveToken(t *testing.T) {
	s, _ := newTestSession(t)
	s.ApplyMiscue("omission")
	assert.Equal(t, 0, s.MiscueCount())
}

func TestMiscueAndSelfCorrectionExclusive(t *testing.T) {
	s, _ := newTestSession(t)
	s.TapWord(4)

	s.ApplyMiscue("mispronunciation")
	s.MarkSelfCorrection()
	tok := s.Tokens()[4]
	assert.Equal(t, "", tok.Miscue)
	assert.True(t, tok.SelfCorrection)
	assert.Equal(t, 0, s.MiscueCount(), "self-corrections are not errors")

	s.ApplyMiscue("insertion")
	tok = s.Tokens()[4]
	assert.Equal(t, "insertion", tok.Miscue)
	assert.False(t, tok.SelfCorrection)
	assert.Equal(t, 1, s.MiscueCount())
}

func TestClearMiscue(t *testing.T) {
	s, _ := newTestSession(t)
	s.TapWord(1)
	s.ApplyMiscue("repetition")
	s.Deselect()

	s.ClearMiscue(1)
	assert.Equal(t, "", s.Tokens()[1].Miscue)
}

func TestSetCompAnswerSameValueClears(t *testing.T) {
	s, _ := newTestSession(t)

	s.SetCompAnswer("q1", true)
	assert.Equal(t, philiri.Correct, s.CompAnswers()["q1"])
	s.SetCompAnswer("q1", true)
	assert.Equal(t, philiri.Unanswered, s.CompAnswers()["q1"])

	s.SetCompAnswer("q1", true)
	s.SetCompAnswer("q1", false)
	assert.Equal(t, philiri.Incorrect, s.CompAnswers()["q1"])

	// Unknown question ids are ignored.
	s.SetCompAnswer("q99", true)
	assert.Equal(t, 1, s.AnsweredCompCount())
}

func TestWPMOnlyWhenStopped(t *testing.T) {
	s, env := newTestSession(t)

	assert.Equal(t, 0, s.WPM())

	s.Timer().Start()
	env.clock.advance(30 * time.Second)
	assert.Equal(t, 0, s.WPM(), "no rate while still reading")

	s.Timer().Stop()
	// 20 words over 30s = 40 wpm.
	assert.Equal(t, 40, s.WPM())
}

func TestCanCalculateAndLevelResult(t *testing.T) {
	s, env := newTestSession(t)

	assert.False(t, s.CanCalculate())
	assert.Nil(t, s.LevelResult())

	finishReading(s, env, 4)
	assert.True(t, s.CanCalculate())

	// Clean reading, 4/5 comprehension: 100% accuracy (Independent) but
	// 80% comprehension (Independent) -> Independent overall.
	lr := s.LevelResult()
	require.NotNil(t, lr)
	assert.Equal(t, philiri.Independent, lr.Level)
}

func TestSubmitComputesResult(t *testing.T) {
	ctx := context.Background()
	s, env := newTestSession(t)

	// Two miscues on 20 words -> 90% accuracy (Instructional).
	s.TapWord(0)
	s.ApplyMiscue("omission")
	s.TapWord(1)
	s.ApplyMiscue("substitution")
	// One self-correction; must appear in the record but not the count.
	s.TapWord(2)
	s.MarkSelfCorrection()

	finishReading(s, env, 3) // 3/5 = 60% comprehension (Instructional)

	r, err := s.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "a1", r.AssessmentID)
	assert.Equal(t, 20, r.TotalWords)
	assert.Equal(t, int64(60000), r.ReadingTimeMs)
	assert.Equal(t, 20, r.WPM)
	assert.Equal(t, 2, r.MiscueCount)
	assert.Equal(t, 90.0, r.WordAccuracyPct)
	assert.Equal(t, 3, r.CorrectCompCount)
	assert.Equal(t, 60.0, r.ComprehensionPct)
	assert.Equal(t, philiri.Instructional, r.ReadingLevel)
	assert.Len(t, r.Miscues, 3, "two miscues plus one self-correction")
	assert.True(t, s.Submitted())

	saved, err := env.store.PassageResults().ListForAssessment(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, r.ID, saved[0].ID)
}

func TestSubmitBeforeReadyIsNoOp(t *testing.T) {
	s, _ := newTestSession(t)
	r, err := s.Submit(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, r)
	assert.False(t, s.Submitted())
}

func TestSubmittedSessionIsLocked(t *testing.T) {
	ctx := context.Background()
	s, env := newTestSession(t)
	finishReading(s, env, 5)

	_, err := s.Submit(ctx)
	require.NoError(t, err)

	s.TapWord(0)
	assert.Equal(t, -1, s.ActiveIndex())
	s.SetCompAnswer("q1", false)
	assert.Equal(t, philiri.Correct, s.CompAnswers()["q1"])

	// A second submit saves nothing new.
	r, err := s.Submit(ctx)
	assert.NoError(t, err)
	assert.Nil(t, r)
	saved, err := env.store.PassageResults().ListForAssessment(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestSubmitReportsOutcome(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeTime{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}

	require.NoError(t, store.Assessments().Create(ctx, newAssessment("a1")))

	s := passage.NewSession(testPassage(), "a1", passage.Options{
		Results:  store.PassageResults(),
		Recorder: store.Assessments(),
		Now:      clock.now,
	})
	s.Timer().Start()
	clock.advance(time.Minute)
	s.Timer().Stop()
	for _, q := range s.Passage().Questions {
		s.SetCompAnswer(q.ID, true)
	}

	_, err := s.Submit(ctx)
	require.NoError(t, err)

	a, err := store.Assessments().Get(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, philiri.Independent, a.FinalLevel)
	assert.True(t, a.HasLanguage(philiri.Filipino))
	assert.False(t, a.Completed(), "recording an outcome never completes the assessment")
}

func TestKeeperRebuildsOnKeyChange(t *testing.T) {
	store := memory.New()
	k := passage.NewKeeper(passage.Options{Results: store.PassageResults()})

	p := testPassage()
	s1 := k.For(p, "a1")
	s1.TapWord(0)
	s1.ApplyMiscue("omission")
	s1.Timer().Start()

	// Same key: same live session, markings intact.
	assert.Same(t, s1, k.For(p, "a1"))
	assert.Equal(t, 1, s1.MiscueCount())

	// Different grade: brand-new session, old timer reset.
	p2 := p
	p2.GradeLevel = 2
	s2 := k.For(p2, "a1")
	assert.NotSame(t, s1, s2)
	assert.Equal(t, 0, s2.MiscueCount())
	assert.Equal(t, passage.TimerIdle, s1.Timer().State())
	assert.Same(t, s2, k.Current())

	// Different assessment with the original passage: new again.
	s3 := k.For(p, "a2")
	assert.NotSame(t, s1, s3)
}
