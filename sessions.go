package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"try-scout/tryplot"
)

// session is one analyst's plotting state. The controller is single-threaded,
// so every request holds mu while it touches ctrl.
type session struct {
	mu       sync.Mutex
	id       string
	matchID  string
	ctrl     *tryplot.Controller
	lastSeen time.Time
}

// sessionRegistry owns every live session and drops the ones that have been
// idle for longer than ttl.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

func newSessionRegistry(ttl time.Duration, now func() time.Time) *sessionRegistry {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &sessionRegistry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
		newID:    uuid.NewString,
	}
}

func (r *sessionRegistry) create(matchID string) *session {
	s := &session{
		id:       r.newID(),
		matchID:  matchID,
		ctrl:     tryplot.NewController(tryplot.NewStore(tryplot.WithClock(r.now))),
		lastSeen: r.now(),
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

// get returns a live session and marks it as used. Expired sessions are
// removed on the way.
func (r *sessionRegistry) get(id string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.ttl > 0 && now.Sub(s.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// sweep evicts every expired session and returns how many went.
func (r *sessionRegistry) sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// runSweeper evicts idle sessions every interval until ctx is done.
func (r *sessionRegistry) runSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.sweep(); n > 0 {
				logger.Info("evicted idle sessions", zap.Int("count", n), zap.Int("live", r.len()))
			}
		}
	}
}
