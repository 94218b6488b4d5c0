// Package ratelimit provides a sliding-window request limiter keyed by
// client identity. It is injected as a collaborator rather than kept as
// process-wide mutable state.
package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow allows at most limit requests per key within the trailing
// window. A background loop drops buckets for idle keys once their window
// has drained, so the store stays bounded by the set of recently active
// clients. Close stops the loop.
type SlidingWindow struct {
	limit    int
	window   time.Duration
	mu       sync.Mutex
	buckets  map[string][]time.Time
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	l := &SlidingWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

func (l *SlidingWindow) sweepLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Close stops the background sweep.
func (l *SlidingWindow) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Allow reports whether a request from key may proceed, recording it if so.
func (l *SlidingWindow) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	times := l.buckets[key]
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.buckets[key] = kept
		return false
	}

	l.buckets[key] = append(kept, now)
	return true
}

// Sweep removes buckets with no requests inside the window. The sweep loop
// runs it once per window.
func (l *SlidingWindow) Sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, times := range l.buckets {
		live := false
		for _, t := range times {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.buckets, key)
		}
	}
}
