package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/abhisek/rubberduck/internal/dialogue"
)

const (
	idAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLen  = 7
	maxIDRetries = 5
)

// RegistryConfig configures session lifetimes.
type RegistryConfig struct {
	// IdleTimeout removes active sessions untouched for this long during a
	// sweep. Zero keeps idle sessions forever.
	IdleTimeout time.Duration

	// Retention is how long a completed session stays readable. Sweep uses
	// it as a backstop for evictions whose timer never fired.
	Retention time.Duration

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Registry owns every live session. Callers address sessions by id and
// only ever receive copies.
type Registry struct {
	cfg RegistryConfig

	mu      sync.Mutex
	entries map[string]*entry
}

// entry serializes operations on one session. removed is set under mu so a
// caller that fetched the entry before eviction sees it as gone.
type entry struct {
	mu         sync.Mutex
	session    TeachingSession
	lastActive time.Time
	removed    bool
	evict      *time.Timer
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{cfg: cfg, entries: make(map[string]*entry)}
}

func (r *Registry) now() time.Time {
	return r.cfg.Now()
}

// Retention is how long a completed session stays readable.
func (r *Registry) Retention() time.Duration {
	return r.cfg.Retention
}

// Create registers a new active session seeded with history and returns a
// copy of it.
func (r *Registry) Create(topic string, history []dialogue.Message) (TeachingSession, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for range maxIDRetries {
		candidate, err := newSessionID(now)
		if err != nil {
			return TeachingSession{}, err
		}
		if _, taken := r.entries[candidate]; !taken {
			id = candidate
			break
		}
	}
	if id == "" {
		return TeachingSession{}, fmt.Errorf("allocate session id: %d collisions", maxIDRetries)
	}

	e := &entry{
		session: TeachingSession{
			ID:        id,
			Topic:     topic,
			CreatedAt: now,
			History:   append([]dialogue.Message(nil), history...),
			Status:    StatusActive,
		},
		lastActive: now,
	}
	r.entries[id] = e
	return e.session.clone(), nil
}

// newSessionID formats session_<unix-ms>_<7 base36 chars>.
func newSessionID(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(idAlphabet, idSuffixLen)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), suffix), nil
}

// Get returns a copy of the session with the given id.
func (r *Registry) Get(id string) (TeachingSession, bool) {
	e := r.lookup(id)
	if e == nil {
		return TeachingSession{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return TeachingSession{}, false
	}
	return e.session.clone(), true
}

// Len returns the number of sessions held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) lookup(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

// update runs fn on the live session under its lock. Changes made by fn are
// kept only when it returns nil.
func (r *Registry) update(id string, fn func(s *TeachingSession) error) (TeachingSession, error) {
	e := r.lookup(id)
	if e == nil {
		return TeachingSession{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return TeachingSession{}, ErrNotFound
	}

	working := e.session.clone()
	if err := fn(&working); err != nil {
		return TeachingSession{}, err
	}
	e.session = working
	e.lastActive = r.now()
	return e.session.clone(), nil
}

// Remove deletes the session and cancels any pending eviction. It reports
// whether the session was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	e.removed = true
	if e.evict != nil {
		e.evict.Stop()
	}
	e.mu.Unlock()
	return true
}

// ScheduleEviction removes the session after d. A later call replaces the
// earlier schedule; d <= 0 removes it immediately.
func (r *Registry) ScheduleEviction(id string, d time.Duration) {
	if d <= 0 {
		r.Remove(id)
		return
	}

	e := r.lookup(id)
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return
	}
	if e.evict != nil {
		e.evict.Stop()
	}
	e.evict = time.AfterFunc(d, func() {
		if r.Remove(id) {
			slog.Debug("session evicted", "session_id", id)
		}
	})
}

// Sweep removes idle active sessions and completed sessions past their
// retention, returning copies of what it removed.
func (r *Registry) Sweep(now time.Time) []TeachingSession {
	r.mu.Lock()
	candidates := make(map[string]*entry, len(r.entries))
	for id, e := range r.entries {
		candidates[id] = e
	}
	r.mu.Unlock()

	var removed []TeachingSession
	for id, e := range candidates {
		e.mu.Lock()
		expired := !e.removed && r.expired(e, now)
		snapshot := e.session.clone()
		e.mu.Unlock()

		if expired && r.Remove(id) {
			removed = append(removed, snapshot)
		}
	}
	return removed
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	switch e.session.Status {
	case StatusActive:
		return r.cfg.IdleTimeout > 0 && now.Sub(e.lastActive) >= r.cfg.IdleTimeout
	case StatusCompleted:
		return e.session.EndedAt != nil && now.Sub(*e.session.EndedAt) >= r.cfg.Retention
	}
	return false
}

// StartJanitor sweeps the registry every interval until ctx is done.
// onRemove, when non-nil, is called for every session the janitor removes.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration, onRemove func(TeachingSession)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("session janitor started", "interval", interval, "idle_timeout", r.cfg.IdleTimeout)

		for {
			select {
			case <-ticker.C:
				removed := r.Sweep(r.now())
				for _, s := range removed {
					slog.Info("session expired", "session_id", s.ID, "status", s.Status)
					if onRemove != nil {
						onRemove(s)
					}
				}
			case <-ctx.Done():
				slog.Info("session janitor shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
