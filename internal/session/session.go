// Package session holds the pending OAuth state between /configure/ and /return/.
package session

import (
	"context"
	"sync"
	"time"

	"besttweets/internal/model"
)

// State is the per-request view of one browser session.
type State struct {
	Pending *model.PendingAuthorization
}

// Store persists pending authorizations by session id.
type Store interface {
	Load(ctx context.Context, id string) (*model.PendingAuthorization, error)
	// Take loads and deletes in one step; of concurrent callers at most one gets the value.
	Take(ctx context.Context, id string) (*model.PendingAuthorization, error)
	Save(ctx context.Context, id string, p *model.PendingAuthorization) error
	Delete(ctx context.Context, id string) error
}

type entry struct {
	p       model.PendingAuthorization
	expires time.Time
}

// Memory is an in-process Store. Entries expire after ttl.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: map[string]entry{}}
}

func (m *Memory) Load(_ context.Context, id string) (*model.PendingAuthorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, id)
		return nil, nil
	}
	p := e.p
	return &p, nil
}

func (m *Memory) Take(_ context.Context, id string) (*model.PendingAuthorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	delete(m.entries, id)
	if m.now().After(e.expires) {
		return nil, nil
	}
	p := e.p
	return &p, nil
}

func (m *Memory) Save(ctx context.Context, id string, p *model.PendingAuthorization) error {
	if p == nil {
		return m.Delete(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.entries[id] = entry{p: *p, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.entries)
}

func (m *Memory) sweepLocked() {
	now := m.now()
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
		}
	}
}
