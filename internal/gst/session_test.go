package gst_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/store/memory"
)

func newSession(t *testing.T, repo gst.Repository) *gst.Session {
	t.Helper()
	s, err := gst.NewSession(context.Background(), repo, "a1", philiri.Filipino)
	require.NoError(t, err)
	return s
}

func answerAll(s *gst.Session, correct int) {
	for i := 0; i < philiri.GSTTotalItems; i++ {
		s.SetAnswer(i, i < correct)
	}
}

func TestToggleAnswerCycles(t *testing.T) {
	s := newSession(t, memory.New().GSTResults())

	assert.Equal(t, 0, s.AnsweredCount())
	s.ToggleAnswer(0)
	assert.Equal(t, philiri.Correct, s.Answers()[0])
	s.ToggleAnswer(0)
	assert.Equal(t, philiri.Incorrect, s.Answers()[0])
	s.ToggleAnswer(0)
	assert.Equal(t, philiri.Unanswered, s.Answers()[0])
}

func TestToggleAnswerOutOfRange(t *testing.T) {
	s := newSession(t, memory.New().GSTResults())

	s.ToggleAnswer(-1)
	s.ToggleAnswer(philiri.GSTTotalItems)
	assert.Equal(t, 0, s.AnsweredCount())
}

func TestScoreAndTrigger(t *testing.T) {
	tests := []struct {
		correct  int
		triggers bool
	}{
		{0, true},
		{13, true},
		{14, false},
		{20, false},
	}
	for _, tt := range tests {
		s := newSession(t, memory.New().GSTResults())
		answerAll(s, tt.correct)

		assert.Equal(t, tt.correct, s.Score())
		assert.Equal(t, tt.triggers, s.TriggersIndividual(), "score %d", tt.correct)
	}
}

func TestCanSubmitRequiresAllAnswered(t *testing.T) {
	s := newSession(t, memory.New().GSTResults())

	for i := 0; i < philiri.GSTTotalItems-1; i++ {
		s.SetAnswer(i, true)
	}
	assert.False(t, s.CanSubmit())

	s.SetAnswer(philiri.GSTTotalItems-1, false)
	assert.True(t, s.CanSubmit())
}

func TestSubmitPersistsAndLocks(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().GSTResults()
	s := newSession(t, repo)
	answerAll(s, 12)

	r, err := s.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 12, r.Score)
	assert.Equal(t, philiri.GSTTotalItems, r.TotalItems)
	assert.True(t, r.TriggersIndividual)
	assert.True(t, s.Submitted())

	// Locked sheets ignore edits.
	s.ToggleAnswer(0)
	assert.Equal(t, 12, s.Score())

	saved, err := repo.Get(ctx, "a1", philiri.Filipino)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 12, saved.Score)
}

func TestSubmitIncompleteIsNoOp(t *testing.T) {
	s := newSession(t, memory.New().GSTResults())
	s.SetAnswer(0, true)

	r, err := s.Submit(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, r)
	assert.False(t, s.Submitted())
}

func TestResubmitOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().GSTResults()

	s := newSession(t, repo)
	answerAll(s, 10)
	_, err := s.Submit(ctx)
	require.NoError(t, err)

	s.Reset()
	assert.False(t, s.Submitted())
	answerAll(s, 15)
	r, err := s.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.False(t, r.TriggersIndividual)

	all, err := repo.ListForAssessment(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 15, all[0].Score)
}

func TestNewSessionResumesSubmitted(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().GSTResults()

	first := newSession(t, repo)
	answerAll(first, 14)
	_, err := first.Submit(ctx)
	require.NoError(t, err)

	resumed := newSession(t, repo)
	assert.True(t, resumed.Submitted())
	assert.Equal(t, 14, resumed.Score())
}
