package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
)

// sessionEntry is one open editing session. mu serialises every request
// against the session.
type sessionEntry struct {
	mu       sync.Mutex
	id       uuid.UUID
	tenantID uuid.UUID
	userID   uuid.UUID
	session  *editor.Session
	invoice  *domain.Invoice
	warnings []string
	lastSeen time.Time
}

// sessionRegistry holds open sessions in memory. Idle sessions are dropped
// lazily whenever the registry is touched.
type sessionRegistry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

func newSessionRegistry(ttl time.Duration, now func() time.Time) *sessionRegistry {
	return &sessionRegistry{
		entries: make(map[uuid.UUID]*sessionEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (r *sessionRegistry) put(e *sessionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	e.lastSeen = r.now()
	r.entries[e.id] = e
}

// get returns the session id owned by tenantID and marks it as used.
// Sessions of other tenants are reported as missing.
func (r *sessionRegistry) get(tenantID, id uuid.UUID) (*sessionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	e, ok := r.entries[id]
	if !ok || e.tenantID != tenantID {
		return nil, domain.ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e, nil
}

func (r *sessionRegistry) remove(tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.tenantID != tenantID {
		return domain.ErrSessionNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *sessionRegistry) expiresAt(e *sessionEntry) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return e.lastSeen.Add(r.ttl)
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *sessionRegistry) sweepLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
		}
	}
}
