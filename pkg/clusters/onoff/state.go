package onoff

import "sync"

// State is the on/off value shared between the cluster and a hardware
// task. The hardware task calls Update when the physical state changes;
// the cluster folds a fresh value into the stored attribute on the next
// read, and a command write discards any pending update.
type State struct {
	mu    sync.Mutex
	on    bool
	fresh bool
}

// NewState returns shared state with the given initial value. The
// initial value is not marked fresh.
func NewState(on bool) *State {
	return &State{on: on}
}

// Update records a hardware-reported state and marks it fresh.
func (s *State) Update(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = on
	s.fresh = true
}

// Peek returns the current value without consuming freshness.
func (s *State) Peek() (on bool, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on, s.fresh
}

// take returns the value and clears the fresh flag.
func (s *State) take() (on bool, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on, fresh = s.on, s.fresh
	s.fresh = false
	return on, fresh
}
