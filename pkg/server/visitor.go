package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// VisitorCookie names the cookie that scopes a visitor's stored fields.
const VisitorCookie = "folio_visitor"

const visitorMaxAge = 365 * 24 * time.Hour

// visitorID returns the visitor id from r, or "" if absent or malformed.
func visitorID(r *http.Request) string {
	c, err := r.Cookie(VisitorCookie)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// ensureVisitor returns the visitor id from r, issuing a new cookie when
// the request has none.
func (s *Server) ensureVisitor(w http.ResponseWriter, r *http.Request) string {
	if id := visitorID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, s.visitorCookie(id))
	return id
}

func (s *Server) visitorCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
