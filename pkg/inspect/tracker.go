package inspect

import (
	"context"
	"sync"

	"github.com/walteh/tmscope/pkg/position"
)

// Ticket identifies one trigger (cursor move, edit, grammar change).
type Ticket uint64

// Tracker keeps the result of the newest trigger. A result computed for a
// trigger that has since been superseded is dropped, never merged.
type Tracker struct {
	mu     sync.Mutex
	issued Ticket
	latest *Result
}

// Begin registers a new trigger, superseding every earlier one.
func (t *Tracker) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

// Commit stores r if ticket is still the newest trigger and reports whether
// it did.
func (t *Tracker) Commit(ticket Ticket, r *Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket != t.issued {
		return false
	}
	t.latest = r
	return true
}

func (t *Tracker) Latest() *Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// Session pairs a model with a tracker for a host that fires a trigger on
// every cursor move.
type Session struct {
	model   *Model
	tracker *Tracker
}

func NewSession(model *Model) *Session {
	return &Session{model: model, tracker: &Tracker{}}
}

// Trigger runs the model for p. The returned flag is false when another
// trigger started while this one was running.
func (s *Session) Trigger(ctx context.Context, doc Document, p position.Place) (*Result, bool) {
	ticket := s.tracker.Begin()
	res := s.model.Update(ctx, doc, p)
	return res, s.tracker.Commit(ticket, res)
}

func (s *Session) Latest() *Result {
	return s.tracker.Latest()
}
