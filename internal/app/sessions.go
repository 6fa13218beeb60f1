package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/core"
	"github.com/openjamlab/bandroom/internal/domain"
)

// SessionTable maps connection identities to their live signal transport.
// The EventRouter fans out through it; adapters bind on upgrade and unbind
// exactly once on close.
type SessionTable struct {
	mu       sync.RWMutex
	sessions map[domain.ClientID]core.SignalConnection
}

func NewSessionTable() *SessionTable {
	return &SessionTable{sessions: make(map[domain.ClientID]core.SignalConnection)}
}

func (t *SessionTable) Bind(id domain.ClientID, conn core.SignalConnection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[id] = conn
	log.Info().Str("module", "app.sessions").Str("client", string(id)).Msg("bound signal")
}

func (t *SessionTable) Unbind(id domain.ClientID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, id)
	log.Info().Str("module", "app.sessions").Str("client", string(id)).Msg("unbind session")
}

func (t *SessionTable) Get(id domain.ClientID) (core.SignalConnection, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	conn, ok := t.sessions[id]
	return conn, ok
}
