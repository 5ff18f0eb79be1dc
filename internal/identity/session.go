package identity

import "crypto/ed25519"

// Session is an immutable caller credential for one connected account. It is
// created at connect time, threaded explicitly into every outgoing call, and
// replaced wholesale on account change.
type Session struct {
	principal string
	key       ed25519.PrivateKey
}

// NewSession builds a session for the given principal and signing key.
func NewSession(principal string, key ed25519.PrivateKey) *Session {
	return &Session{principal: principal, key: key}
}

// Principal returns the opaque identifier this session authenticates as.
func (s *Session) Principal() string {
	return s.principal
}

// Sign signs a message with the session key.
func (s *Session) Sign(message []byte) []byte {
	return ed25519.Sign(s.key, message)
}
