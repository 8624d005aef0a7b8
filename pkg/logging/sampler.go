package logging

import (
	"log/slog"
	"sync"
)

// ErrorSampler keeps repeated remote failures from flooding the log.
// The first failure for a key is logged, then every Nth one; a success
// for the key resets its streak.
type ErrorSampler struct {
	mu       sync.Mutex
	streaks  map[string]int
	interval int
}

// NewErrorSampler creates a sampler that logs every interval-th repeat.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		streaks:  make(map[string]int),
		interval: interval,
	}
}

// ShouldLog records a failure for key and reports whether it should be logged.
func (s *ErrorSampler) ShouldLog(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streaks[key]++
	n := s.streaks[key]
	return n == 1 || n%s.interval == 0
}

// Error records a failure and logs it at error level when sampled, with the
// current streak length attached.
func (s *ErrorSampler) Error(key, msg string, args ...any) {
	if !s.ShouldLog(key) {
		return
	}
	args = append(args, "key", key, "occurrences", s.Streak(key))
	slog.Error(msg, args...)
}

// Recovered clears the streak for key, logging once if there was one.
func (s *ErrorSampler) Recovered(key string) {
	s.mu.Lock()
	n, ok := s.streaks[key]
	delete(s.streaks, key)
	s.mu.Unlock()

	if ok && n > 0 {
		slog.Info("Recovered after repeated failures", "key", key, "failures", n)
	}
}

// Streak returns the current consecutive failure count for key.
func (s *ErrorSampler) Streak(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaks[key]
}
