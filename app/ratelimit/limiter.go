package ratelimit

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 60 * time.Minute
	DefaultMaxKeys     = 10000
)

// Limiter counts accepted attempts per client key inside a trailing window.
// Keys beyond maxKeys evict the least recently checked key.
type Limiter struct {
	maxAttempts int
	window      time.Duration
	windows     *lru.Cache[string, []time.Time]
	now         func() time.Time
	mu          sync.Mutex
}

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func NewLimiter(maxAttempts int, window time.Duration, maxKeys int, opts ...Option) (*Limiter, error) {
	if maxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", maxAttempts)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}

	windows, err := lru.New[string, []time.Time](maxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create key store: %w", err)
	}

	l := &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		windows:     windows,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// IsLimited reports whether key has used up its attempts. When it has not,
// the current attempt is recorded. A limited attempt is not recorded.
func (l *Limiter) IsLimited(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	timestamps, _ := l.windows.Get(key)
	timestamps = l.prune(timestamps, now)

	if len(timestamps) >= l.maxAttempts {
		l.windows.Add(key, timestamps)
		return true
	}

	l.windows.Add(key, append(timestamps, now))
	return false
}

// Prune drops keys with no attempts left inside the window and returns how many were removed.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0

	for _, key := range l.windows.Keys() {
		timestamps, ok := l.windows.Peek(key)
		if !ok {
			continue
		}

		// Partially expired keys are trimmed on their next check.
		if len(l.prune(timestamps, now)) == 0 {
			l.windows.Remove(key)
			removed++
		}
	}

	return removed
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.windows.Len()
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

func (l *Limiter) prune(timestamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)

	i := 0
	for i < len(timestamps) && !timestamps[i].After(cutoff) {
		i++
	}

	if i == 0 {
		return timestamps
	}

	kept := make([]time.Time, len(timestamps)-i)
	copy(kept, timestamps[i:])
	return kept
}
