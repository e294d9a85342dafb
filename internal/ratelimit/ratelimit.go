// Package ratelimit caps how many crawls one chat user may start per window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

type Config struct {
	RequestsPerMinute int
	// Window переопределяет минутное окно, 0 - минута.
	Window time.Duration
}

// Limiter - sliding window на пользователя.
type Limiter struct {
	mu       sync.Mutex
	requests map[int64][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

func New(cfg Config) *Limiter {
	return NewWithContext(context.Background(), cfg)
}

// NewWithContext starts the background sweep; it ends with ctx or Stop.
func NewWithContext(ctx context.Context, cfg Config) *Limiter {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = DefaultLimit
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweepLoop(ctx)
	return l
}

func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.fresh(userID, now)

	if len(fresh) >= l.limit {
		l.requests[userID] = fresh
		return false
	}

	l.requests[userID] = append(fresh, now)
	return true
}

func (l *Limiter) RemainingRequests(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	cnt := 0
	for _, t := range l.requests[userID] {
		if t.After(cutoff) {
			cnt++
		}
	}

	if rem := l.limit - cnt; rem > 0 {
		return rem
	}
	return 0
}

// ResetTime - когда освободится ближайший слот.
func (l *Limiter) ResetTime(userID int64) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.fresh(userID, now)
	if len(fresh) == 0 {
		return now
	}

	oldest := fresh[0]
	for _, t := range fresh[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	return oldest.Add(l.window)
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// fresh drops timestamps outside the window; caller holds mu.
func (l *Limiter) fresh(userID int64, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	old := l.requests[userID]
	kept := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (l *Limiter) sweepLoop(ctx context.Context) {
	tick := time.NewTicker(5 * l.window)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case <-tick.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for uid := range l.requests {
		if fresh := l.fresh(uid, now); len(fresh) == 0 {
			delete(l.requests, uid)
		} else {
			l.requests[uid] = fresh
		}
	}
}

// users - для тестов
func (l *Limiter) users() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}
