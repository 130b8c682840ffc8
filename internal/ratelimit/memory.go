package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Memory is a process-local request counter keyed by identifier. Each entry
// counts requests in a window that starts at the first request; a background
// sweep evicts expired entries so the map stays bounded. The owner starts
// the sweep on init and stops it on shutdown.
type Memory struct {
	limit  int
	window time.Duration
	sweep  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*memoryEntry

	now   func() time.Time
	done  chan struct{}
	start sync.Once
	stop  sync.Once
}

type memoryEntry struct {
	count int
	reset time.Time
}

type MemoryOption func(*Memory)

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// WithSweepInterval overrides how often expired entries are evicted.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(m *Memory) {
		if d > 0 {
			m.sweep = d
		}
	}
}

func NewMemory(limit int, window time.Duration, logger *slog.Logger, opts ...MemoryOption) *Memory {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Memory{
		limit:   limit,
		window:  window,
		sweep:   5 * time.Minute,
		logger:  logger,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start launches the eviction loop.
func (m *Memory) Start() {
	m.start.Do(func() {
		go m.loop()
	})
}

// Stop ends the eviction loop. Allow keeps working after Stop; only the
// background sweep halts.
func (m *Memory) Stop() {
	m.stop.Do(func() {
		close(m.done)
	})
}

func (m *Memory) Allow(_ context.Context, id string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.reset.Before(now) {
		reset := now.Add(m.window)
		m.entries[id] = &memoryEntry{count: 1, reset: reset}
		return Result{Allowed: true, Limit: m.limit, Remaining: m.limit - 1, Reset: reset.UnixMilli()}, nil
	}

	if e.count >= m.limit {
		return Result{Allowed: false, Limit: m.limit, Remaining: 0, Reset: e.reset.UnixMilli()}, nil
	}

	e.count++
	return Result{Allowed: true, Limit: m.limit, Remaining: m.limit - e.count, Reset: e.reset.UnixMilli()}, nil
}

func (m *Memory) loop() {
	ticker := time.NewTicker(m.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *Memory) evict() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, e := range m.entries {
		if e.reset.Before(now) {
			delete(m.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Debug("ratelimit.evicted", "entries", evicted, "remaining", len(m.entries))
	}
}
