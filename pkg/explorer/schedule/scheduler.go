// Package schedule runs delayed tasks keyed by name. Scheduling a key that
// already has a pending task cancels the older one, so a stale timer can
// never undo a newer update.
package schedule

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

type task struct {
	timer clock.Timer
	gen   uint64
}

type Scheduler struct {
	clock clock.WithDelayedExecution

	mu      sync.Mutex
	tasks   map[string]task
	gen     uint64
	stopped bool
	running sync.WaitGroup
}

func New(c clock.WithDelayedExecution) *Scheduler {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Scheduler{
		clock: c,
		tasks: make(map[string]task),
	}
}

// Schedule runs fn after d under key, replacing any pending task for key.
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
	}

	s.gen++
	gen := s.gen
	// fake clocks invoke the callback while holding their own lock
	timer := s.clock.AfterFunc(d, func() { go s.fire(key, gen, fn) })
	s.tasks[key] = task{timer: timer, gen: gen}
}

func (s *Scheduler) fire(key string, gen uint64, fn func()) {
	s.mu.Lock()
	current, ok := s.tasks[key]
	if !ok || current.gen != gen || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	fn()
}

// Cancel drops the pending task for key. It reports whether one existed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, key)
	return true
}

// Pending reports whether a task is waiting under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Stop cancels every pending task, rejects new ones and waits for tasks
// already running. It must not be called from a task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for key, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, key)
	}
	s.stopped = true
	s.mu.Unlock()

	s.running.Wait()
}
