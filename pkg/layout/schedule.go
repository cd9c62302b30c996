package layout

import (
	"sort"
	"sync"
	"time"
)

// Key identifies a scheduled callback. Scheduling a key that is already
// pending is a no-op.
//
// Group keeps callback families apart: card moves use the zero Group, so
// timers in another group never collide with a card id.
type Key struct {
	Group string
	ID    string
	Delay time.Duration
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// Schedule arranges for fn to run after key.Delay. It reports false if
	// key is already pending or the scheduler is stopped.
	Schedule(key Key, fn func()) bool
	// Cancel drops a pending callback.
	Cancel(key Key) bool
	// Pending returns the number of callbacks not yet run.
	Pending() int
	// Stop cancels every pending callback and rejects new ones.
	Stop()
}

// TimerScheduler runs callbacks on timer goroutines. When created with a
// non-nil lock, every callback runs while holding it, so callbacks
// serialize with the lock owner's other work.
type TimerScheduler struct {
	lock sync.Locker

	mu      sync.Mutex
	timers  map[Key]*time.Timer
	stopped bool
}

// NewTimerScheduler returns a scheduler backed by time.AfterFunc.
func NewTimerScheduler(lock sync.Locker) *TimerScheduler {
	return &TimerScheduler{lock: lock, timers: map[Key]*time.Timer{}}
}

func (s *TimerScheduler) Schedule(key Key, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if _, ok := s.timers[key]; ok {
		return false
	}

	var t *time.Timer
	t = time.AfterFunc(key.Delay, func() {
		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		if s.lock != nil {
			s.lock.Lock()
			defer s.lock.Unlock()
		}
		fn()
	})
	s.timers[key] = t
	return true
}

func (s *TimerScheduler) Cancel(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, key)
	return true
}

func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

// ManualScheduler is a virtual clock. Callbacks run only from Advance, on
// the caller's goroutine, in due-time order (ties in scheduling order).
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending map[Key]*manualEntry
	stopped bool
}

type manualEntry struct {
	due time.Duration
	seq int
	key Key
	fn  func()
}

// NewManualScheduler returns a virtual clock at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: map[Key]*manualEntry{}}
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) Schedule(key Key, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if _, ok := s.pending[key]; ok {
		return false
	}
	s.seq++
	s.pending[key] = &manualEntry{due: s.now + key.Delay, seq: s.seq, key: key, fn: fn}
	return true
}

func (s *ManualScheduler) Cancel(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; !ok {
		return false
	}
	delete(s.pending, key)
	return true
}

func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	clear(s.pending)
}

// Advance moves the clock forward by d, running every callback that falls
// due, including ones scheduled by callbacks during the advance.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		e := s.next(target)
		if e == nil {
			break
		}
		e.fn()
	}

	s.mu.Lock()
	if s.now < target {
		s.now = target
	}
	s.mu.Unlock()
}

// next pops the earliest entry due at or before target.
func (s *ManualScheduler) next(target time.Duration) *manualEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]*manualEntry, 0, len(s.pending))
	for _, e := range s.pending {
		if e.due <= target {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	e := due[0]
	delete(s.pending, e.key)
	s.now = e.due
	return e
}

var (
	_ Scheduler = (*TimerScheduler)(nil)
	_ Scheduler = (*ManualScheduler)(nil)
)
