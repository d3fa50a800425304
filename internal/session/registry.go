package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultIdleTimeout is how long an untouched session survives.
const DefaultIdleTimeout = 24 * time.Hour

// DefaultMaxSessions caps the number of live sessions.
const DefaultMaxSessions = 100_000

// Registry holds live sessions in memory. Once full, starting a session
// evicts the least recently seen one.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*list.Element
	recent      *list.List // front is most recently seen
	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewRegistry creates an empty registry. Non-positive limits fall back to
// the defaults.
func NewRegistry(idleTimeout time.Duration, maxSessions int, logger zerolog.Logger) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Registry{
		sessions:    make(map[string]*list.Element),
		recent:      list.New(),
		idleTimeout: idleTimeout,
		maxSessions: maxSessions,
		now:         time.Now,
		logger:      logger.With().Str("component", "session-registry").Logger(),
	}
}

// Lookup returns the live session for id and marks it as seen.
func (r *Registry) Lookup(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s := el.Value.(*Session)
	s.touch(now)
	r.recent.MoveToFront(el)
	return s, true
}

// Create registers a new session.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	for r.recent.Len() >= r.maxSessions {
		oldest := r.recent.Back()
		r.remove(oldest)
		r.logger.Debug().Int("max_sessions", r.maxSessions).Msg("session limit reached, evicted least recent")
	}
	r.sessions[s.ID] = r.recent.PushFront(s)
	return s
}

// Transient returns an empty session that is never registered. It serves
// reads from callers that have not started a session.
func (r *Registry) Transient() *Session {
	return newSession("", r.now())
}

// Resolve returns the session for id, creating a new one when id is empty,
// malformed or unknown. created reports whether a new session was made.
func (r *Registry) Resolve(id string) (s *Session, created bool) {
	if s, ok := r.Lookup(id); ok {
		return s, false
	}
	return r.Create(), true
}

// Get returns an existing session without creating one.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*Session), true
}

// Delete drops a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.sessions[id]; ok {
		r.remove(el)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle removes sessions idle longer than the idle timeout.
func (r *Registry) EvictIdle() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for el := r.recent.Back(); el != nil; {
		s := el.Value.(*Session)
		if s.idleSince(now) <= r.idleTimeout {
			break
		}
		prev := el.Prev()
		r.remove(el)
		el = prev
		n++
	}
	return n
}

func (r *Registry) remove(el *list.Element) {
	s := r.recent.Remove(el).(*Session)
	delete(r.sessions, s.ID)
}

// Run evicts idle sessions every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				r.logger.Debug().Int("evicted", n).Int("live", r.Len()).Msg("idle sessions evicted")
			}
		}
	}
}
