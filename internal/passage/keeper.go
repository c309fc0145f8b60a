package passage

import "github.com/nbwedev/phil-iri/internal/library"

// Keeper hands out the session for the passage currently under
// administration. A session's identity is its Key; whenever the key
// changes the keeper discards the old session and constructs a fresh one,
// so stale tokens, answers, or timer state can never leak across a
// passage switch.
type Keeper struct {
	opts Options
	cur  *Session
}

// NewKeeper returns a keeper building sessions with the given options.
func NewKeeper(opts Options) *Keeper {
	return &Keeper{opts: opts}
}

// For returns the live session for (passage, assessment), constructing a
// new one when the identity differs from the current session's.
func (k *Keeper) For(p library.Passage, assessmentID string) *Session {
	key := Key{
		AssessmentID: assessmentID,
		Language:     p.Language,
		GradeLevel:   p.GradeLevel,
		Set:          p.Set,
	}
	if k.cur != nil && k.cur.Key() == key {
		return k.cur
	}
	if k.cur != nil {
		k.cur.Timer().Reset()
	}
	k.cur = NewSession(p, assessmentID, k.opts)
	return k.cur
}

// Current returns the live session, or nil before the first For call.
func (k *Keeper) Current() *Session { return k.cur }
