package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/roach88/maskprime/internal/trial"
)

// ScriptedInput replays canned key presses, one script entry per poll.
//
// The nth PollKeys call (0-based) returns the presses scripted for n,
// filtered to the requested keys like a real source would.
type ScriptedInput struct {
	mu       sync.Mutex
	script   map[int][]trial.KeyPress
	polls    int
	since    []time.Time
	clears   int
	waits    int
	pollErr  error
	clearErr error
}

// NewScriptedInput creates an input with no presses scripted.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{script: make(map[int][]trial.KeyPress)}
}

// Script sets the presses returned by poll n.
func (s *ScriptedInput) Script(poll int, presses ...trial.KeyPress) *ScriptedInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script[poll] = presses
	return s
}

// FailPolls makes every PollKeys call return err.
func (s *ScriptedInput) FailPolls(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollErr = err
}

// FailClears makes every ClearPending call return err.
func (s *ScriptedInput) FailClears(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearErr = err
}

// PollKeys returns the presses scripted for this poll.
func (s *ScriptedInput) PollKeys(keys []string, since time.Time) ([]trial.KeyPress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pollErr != nil {
		return nil, s.pollErr
	}

	n := s.polls
	s.polls++
	s.since = append(s.since, since)

	var out []trial.KeyPress
	for _, p := range s.script[n] {
		if slices.Contains(keys, p.Key) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ClearPending counts the call.
func (s *ScriptedInput) ClearPending() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.clears++
	return nil
}

// WaitForAnyKey returns "space" immediately unless ctx is done.
func (s *ScriptedInput) WaitForAnyKey(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits++
	return "space", nil
}

// Polls returns the number of PollKeys calls.
func (s *ScriptedInput) Polls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

// Since returns the since argument of every poll.
func (s *ScriptedInput) Since() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.since)
}

// Clears returns the number of successful ClearPending calls.
func (s *ScriptedInput) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// Waits returns the number of WaitForAnyKey calls.
func (s *ScriptedInput) Waits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waits
}
