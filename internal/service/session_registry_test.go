package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
)

func TestSessionRegistry_SweepsIdleSessions(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	r := newSessionRegistry(time.Hour, func() time.Time { return now })
	tenantID := uuid.New()

	stale := &sessionEntry{id: uuid.New(), tenantID: tenantID, session: editor.NewSession(domain.Document{}, 18)}
	r.put(stale)
	now = now.Add(45 * time.Minute)
	fresh := &sessionEntry{id: uuid.New(), tenantID: tenantID, session: editor.NewSession(domain.Document{}, 18)}
	r.put(fresh)
	require.Equal(t, 2, r.len())

	now = now.Add(30 * time.Minute)
	_, err := r.get(tenantID, fresh.id)
	require.NoError(t, err)
	assert.Equal(t, 1, r.len())

	_, err = r.get(tenantID, stale.id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, now.Add(time.Hour), r.expiresAt(fresh))
}

func TestSessionRegistry_Remove(t *testing.T) {
	now := time.Now()
	r := newSessionRegistry(time.Hour, func() time.Time { return now })
	tenantID := uuid.New()
	e := &sessionEntry{id: uuid.New(), tenantID: tenantID}
	r.put(e)

	assert.ErrorIs(t, r.remove(uuid.New(), e.id), domain.ErrSessionNotFound)
	require.NoError(t, r.remove(tenantID, e.id))
	assert.ErrorIs(t, r.remove(tenantID, e.id), domain.ErrSessionNotFound)
	assert.Equal(t, 0, r.len())
}
