package server

import (
	"sync"

	"github.com/levalleyjack/slugtistics/pkg/types"
	"github.com/levalleyjack/slugtistics/pkg/uistate"
	"github.com/levalleyjack/slugtistics/pkg/viewport"
)

// Session bundles the per-browser pieces: the scroll coordinator and
// the persisted UI state view.
type Session struct {
	Coordinator *viewport.Coordinator
	State       types.KeyValueStore
}

// SessionRegistry hands out sessions by cookie id. With a durable
// store configured, UI state survives restarts; without one it falls
// back to session-scoped memory.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	durable  *uistate.RedisStore
}

func NewSessionRegistry(durable *uistate.RedisStore) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		durable:  durable,
	}
}

func (s *SessionRegistry) Get(sessionId string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sessionId]; ok {
		return existing
	}
	var state types.KeyValueStore
	if s.durable != nil {
		state = s.durable.ForSession(sessionId)
	} else {
		state = uistate.NewMemoryStore()
	}
	session := &Session{
		Coordinator: viewport.NewCoordinator(),
		State:       state,
	}
	s.sessions[sessionId] = session
	return session
}

// Close stops every coordinator's outstanding timer.
func (s *SessionRegistry) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		session.Coordinator.Close()
	}
}
