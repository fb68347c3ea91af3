package utils

import (
	"math/rand"
	"sync"
	"time"
)

// Pacer inserts a randomized pause between browser actions so request timing
// does not look machine-generated. The range is injected from configuration;
// tests use a zero range, which never sleeps.
type Pacer struct {
	min time.Duration
	max time.Duration
}

// NewPacer creates a Pacer for the given delay range.
func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		min, max = max, min
	}
	return &Pacer{min: min, max: max}
}

// Delay returns the next randomized delay without sleeping.
func (p *Pacer) Delay() time.Duration {
	if p.max <= 0 {
		return 0
	}
	if p.max == p.min {
		return p.min
	}
	return p.min + time.Duration(rand.Int63n(int64(p.max-p.min)))
}

// Pause sleeps for the next randomized delay.
func (p *Pacer) Pause() {
	if d := p.Delay(); d > 0 {
		time.Sleep(d)
	}
}

// URLSet is a thread-safe set for tracking already-seen URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been seen.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
