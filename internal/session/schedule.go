package session

import (
	"sync"
	"time"
)

// scheduler is the cooperative "schedule(task, delay), cancel-if-pending"
// primitive behind debounced commits and the status settle delay. At most
// one task is pending at a time: scheduling again replaces the previous
// pending task (trailing-edge debounce).
type scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arranges for task to run after delay, replacing any pending task.
func (s *scheduler) Schedule(delay time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, task)
}

// Cancel drops the pending task, if any.
func (s *scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
