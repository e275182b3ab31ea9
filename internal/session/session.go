package session

import "github.com/nathanaelowenk/bookrental/internal/domain"

// Session is the authenticated identity and bearer token pair for the
// current user. The token is present iff the user is present; a record that
// violates this is treated as no session at all.
type Session struct {
	User  *domain.User `json:"user,omitempty"`
	Token string       `json:"token,omitempty"`
}

// Authenticated reports whether the session holds a complete identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil && s.Token != ""
}
