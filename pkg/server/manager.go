package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// SessionManager tracks live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int

	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64

	logger *slog.Logger
}

// ManagerStats is a snapshot of session counts.
type ManagerStats struct {
	Active       int
	TotalCreated uint64
	TotalClosed  uint64
}

// NewSessionManager creates a manager admitting at most max sessions.
// Zero means unlimited.
func NewSessionManager(max int, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		max:      max,
		logger:   logger.With("component", "session_manager"),
	}
}

// Full reports whether the manager is at capacity.
func (sm *SessionManager) Full() bool {
	if sm.max <= 0 {
		return false
	}
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions) >= sm.max
}

func (sm *SessionManager) add(s *Session) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.max > 0 && len(sm.sessions) >= sm.max {
		return ErrTooManySessions
	}
	sm.sessions[s.ID] = s
	sm.totalCreated.Add(1)
	return nil
}

func (sm *SessionManager) remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; ok {
		delete(sm.sessions, id)
		sm.totalClosed.Add(1)
	}
}

// Get returns the live session with id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for each live session until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	list := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		list = append(list, s)
	}
	sm.mu.RUnlock()

	for _, s := range list {
		if !fn(s) {
			return
		}
	}
}

// Stats returns session counts.
func (sm *SessionManager) Stats() ManagerStats {
	return ManagerStats{
		Active:       sm.Count(),
		TotalCreated: sm.totalCreated.Load(),
		TotalClosed:  sm.totalClosed.Load(),
	}
}

// Shutdown closes every live session.
func (sm *SessionManager) Shutdown() {
	var n int
	sm.ForEach(func(s *Session) bool {
		s.Close()
		n++
		return true
	})
	if n > 0 {
		sm.logger.Info("sessions closed", "count", n)
	}
}
