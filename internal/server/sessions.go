package server

import "sync"

// ClientSession is the per-connection record, distinct from the scoreboard
// Player: a connection exists (and may hold admin) without ever joining as a
// player. The Admin flag is one-way — there is no deauthentication — and
// lives exactly as long as the connection.
type ClientSession struct {
	ConnectionID string
	Admin        bool
}

type SessionManager struct {
	sessions map[string]ClientSession // connectionID -> session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]ClientSession),
	}
}

// StartSession registers a fresh, unauthenticated session for a connection.
func (sm *SessionManager) StartSession(connectionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[connectionID] = ClientSession{ConnectionID: connectionID}
}

// Authorize flips the connection's admin flag. Unknown connections are
// ignored.
func (sm *SessionManager) Authorize(connectionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[connectionID]
	if !exists {
		return
	}
	session.Admin = true
	sm.sessions[connectionID] = session
}

func (sm *SessionManager) IsAdmin(connectionID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[connectionID].Admin
}

// EndSession drops the session on disconnect.
func (sm *SessionManager) EndSession(connectionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, connectionID)
}
