package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionAuthenticatedKey is the session entry set by the HR gate.
const SessionAuthenticatedKey = "hr_authenticated"

// Session mirrors a browser tab's session storage: a small string map that dies with the tab.
type Session struct {
	values map[string]string
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{values: make(map[string]string)}
}

// SessionFromValues rebuilds a session from previously issued values.
func SessionFromValues(values map[string]string) *Session {
	s := NewSession()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Get returns the stored value or "".
func (s *Session) Get(key string) string {
	if s == nil {
		return ""
	}
	return s.values[key]
}

// Set stores a value.
func (s *Session) Set(key, value string) {
	s.values[key] = value
}

// Values returns a copy of the stored entries.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Authenticated reports whether the HR gate was opened in this session.
func (s *Session) Authenticated() bool {
	return s.Get(SessionAuthenticatedKey) == "true"
}

// SessionClaims is the signed payload of the HR session cookie.
type SessionClaims struct {
	Values map[string]string `json:"values"`
	jwt.RegisteredClaims
}
