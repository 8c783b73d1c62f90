package cart

import (
	"context"
	"log"
	"sync"

	"brassmart/internal/store"
)

// maxSessions caps the in-memory container map so a flood of anonymous
// sessions cannot grow it without bound. Eviction loses nothing: session
// state is persisted in the store and reloads on next touch.
const maxSessions = 10000

// Manager hands out one Container per session, so concurrent requests for
// the same session share a single mutex-guarded container.
type Manager struct {
	mu         sync.Mutex
	store      store.Store
	logger     *log.Logger
	containers map[string]*Container
	capacity   int
}

func NewManager(st store.Store, logger *log.Logger) *Manager {
	return &Manager{
		store:      st,
		logger:     logger,
		containers: make(map[string]*Container),
		capacity:   maxSessions,
	}
}

// Session returns the container for the session, loading persisted state on
// first use. At capacity an arbitrary idle container is evicted first.
func (m *Manager) Session(ctx context.Context, sessionID string) *Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.containers[sessionID]; ok {
		return c
	}
	if len(m.containers) >= m.capacity {
		for id := range m.containers {
			delete(m.containers, id)
			break
		}
	}
	c := New(ctx, sessionID, m.store, m.logger)
	m.containers[sessionID] = c
	return c
}

// Drop forgets the in-memory container for a session. Persisted state is
// untouched.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, sessionID)
}
