package server

import (
	"net/http"

	"github.com/google/uuid"
)

// handleWebSocket upgrades the request and starts a live session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Full() {
		s.logger.Warn("session rejected: at capacity", "sessions", s.sessions.Count())
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	// The page request normally issued the cookie; a socket opened without
	// one still gets a scope so typing persists for the rest of the visit.
	header := http.Header{}
	visitor := visitorID(r)
	if visitor == "" {
		visitor = uuid.NewString()
		header.Add("Set-Cookie", s.visitorCookie(visitor).String())
	}

	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		s.opts.Metrics.RecordWebSocketError("upgrade")
		return
	}

	session := s.newSession(conn, visitor)
	session.onClose = func(sess *Session) { s.sessions.remove(sess.ID) }
	if err := s.sessions.add(session); err != nil {
		s.logger.Warn("session rejected", "error", err)
		session.Close()
		return
	}

	session.logger.Info("session started", "visitor", visitor, "remote", r.RemoteAddr)
	session.Start()
}
