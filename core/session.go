package core

import "time"

const (
	// NonceTTL is how long a page nonce stays valid before it can no longer
	// be exchanged for a session
	NonceTTL = 5 * time.Minute

	// SessionTTL is the fixed lifetime of an issued session token
	SessionTTL = time.Hour
)

// Session represents an issued session credential. Sessions are stateless:
// once signed into a token, nothing is kept server-side, and validity is
// determined purely by the signature and the embedded expiry.
type Session struct {
	ID        string    // Unique session identifier
	IssuedAt  time.Time // When the session was created
	ExpiresAt time.Time // When the session expires
}
