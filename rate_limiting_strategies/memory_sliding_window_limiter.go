package rate_limiting_strategies

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fortunegram/fortunegram"
)

var (
	_ fortunegram.Strategy = &MemorySlidingWindowLimiter{}
)

// DefaultMaxClients bounds the number of tracked clients when MemoryOptions leaves it unset.
const DefaultMaxClients = 10000

// MemoryOptions configures the in-memory limiter.
type MemoryOptions struct {
	// MaxClients caps how many client keys are held at once.
	MaxClients int
}

type clientWindow struct {
	stamps []time.Time
	window time.Duration
}

func (c *clientWindow) prune(now time.Time) {
	windowStart := now.Add(-c.window)
	kept := c.stamps[:0]
	for _, ts := range c.stamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	c.stamps = kept
}

func (c *clientWindow) lastSeen() time.Time {
	if len(c.stamps) == 0 {
		return time.Time{}
	}
	return c.stamps[len(c.stamps)-1]
}

// MemorySlidingWindowLimiter keeps per-client request timestamps in process
// memory. A single mutex covers prune, count and append.
type MemorySlidingWindowLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientWindow
	now        func() time.Time
	maxClients int
}

// NewMemorySlidingWindowLimiter initializes an in-memory sliding window rate limiter.
func NewMemorySlidingWindowLimiter(now func() time.Time, opts MemoryOptions) *MemorySlidingWindowLimiter {
	if opts.MaxClients <= 0 {
		opts.MaxClients = DefaultMaxClients
	}
	return &MemorySlidingWindowLimiter{
		clients:    make(map[string]*clientWindow),
		now:        now,
		maxClients: opts.MaxClients,
	}
}

// Execute performs rate limiting using a sliding window strategy.
func (m *MemorySlidingWindowLimiter) Execute(_ context.Context, r *fortunegram.Request) (*fortunegram.Result, error) {
	if r.Limit == 0 || r.Duration <= 0 {
		return nil, fmt.Errorf("invalid rate limit request for key %v: limit and duration must be positive", r.Key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	cw, ok := m.clients[r.Key]
	if !ok {
		m.makeRoomLocked(now)
		cw = &clientWindow{}
		m.clients[r.Key] = cw
	}
	cw.window = r.Duration
	cw.prune(now)

	if uint64(len(cw.stamps)) >= r.Limit {
		return &fortunegram.Result{
			State:         fortunegram.Deny,
			TotalRequests: uint64(len(cw.stamps)),
			ExpiresAt:     cw.stamps[0].Add(r.Duration),
		}, nil
	}

	cw.stamps = append(cw.stamps, now)

	return &fortunegram.Result{
		State:         fortunegram.Allow,
		TotalRequests: uint64(len(cw.stamps)),
		ExpiresAt:     cw.stamps[0].Add(r.Duration),
	}, nil
}

// makeRoomLocked frees a slot for a new client: expired clients go first,
// then the least recently active one.
func (m *MemorySlidingWindowLimiter) makeRoomLocked(now time.Time) {
	if len(m.clients) < m.maxClients {
		return
	}
	m.sweepLocked(now)
	if len(m.clients) < m.maxClients {
		return
	}

	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, cw := range m.clients {
		seen := cw.lastSeen()
		if !found || seen.Before(oldest) {
			victim, oldest, found = key, seen, true
		}
	}
	if found {
		delete(m.clients, victim)
	}
}

// Sweep drops every client whose window holds no live requests and reports
// how many were removed.
func (m *MemorySlidingWindowLimiter) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(now)
}

func (m *MemorySlidingWindowLimiter) sweepLocked(now time.Time) int {
	removed := 0
	for key, cw := range m.clients {
		cw.prune(now)
		if len(cw.stamps) == 0 {
			delete(m.clients, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked clients.
func (m *MemorySlidingWindowLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Run sweeps every interval until ctx is done.
func (m *MemorySlidingWindowLimiter) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := m.Sweep(m.now())
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}
