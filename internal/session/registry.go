package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sigco3111/relationship-visualizer/pkg/layout"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrNotFound = errors.New("session not found")

// Registry keeps the open sessions of the process.
type Registry struct {
	canvas layout.Canvas

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry whose sessions use canvas.
func NewRegistry(canvas layout.Canvas) *Registry {
	return &Registry{
		canvas:   canvas,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new empty session.
func (r *Registry) Create() (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := New(id, r.canvas)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	logger.Debug("[Registry] Session created", "session", id)
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete closes and removes the session with the given id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Close()
	logger.Debug("[Registry] Session deleted", "session", id)
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Expire closes sessions that have been inactive for longer than maxIdle and
// returns how many were removed.
func (r *Registry) Expire(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		logger.Info("[Registry] Expired idle sessions", "count", len(expired))
	}
	return len(expired)
}
