package form

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrSubmitInFlight is returned when the same browser submits a form while
// an earlier submission of that form is still running.
var ErrSubmitInFlight = errors.New("submission already in flight")

// State of a form submission.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateIdle, StateSubmitting},
	StateSubmitting: {StateSuccess, StateFailed},
	StateFailed:     {StateIdle},
}

// Submission tracks one form instance through its states.
type Submission struct {
	mu      sync.Mutex
	state   State
	history []State
}

func NewSubmission() *Submission {
	return &Submission{state: StateIdle, history: []State{StateIdle}}
}

// State returns the current state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns every state the submission went through.
func (s *Submission) History() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Submission) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, allowed := range transitions[s.state] {
		if allowed == to {
			s.state = to
			s.history = append(s.history, to)
			return nil
		}
	}
	return fmt.Errorf("invalid submission transition %s -> %s", s.state, to)
}

// Guard rejects concurrent submissions of the same form by the same
// browser. Entries expire after ttl so a crashed request cannot lock a
// form forever.
type Guard struct {
	inflight *cache.Cache
	ttl      time.Duration
}

func NewGuard(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Guard{
		inflight: cache.New(ttl, 2*ttl),
		ttl:      ttl,
	}
}

// Acquire marks form as submitting for clientKey. The returned release
// must be called when the submission ends.
func (g *Guard) Acquire(clientKey, form string) (release func(), err error) {
	if clientKey == "" {
		return func() {}, nil
	}

	k := clientKey + "|" + form
	if err := g.inflight.Add(k, struct{}{}, g.ttl); err != nil {
		return nil, ErrSubmitInFlight
	}
	return func() { g.inflight.Delete(k) }, nil
}
