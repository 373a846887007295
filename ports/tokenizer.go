package ports

import "github.com/layer-3/gamelan/core"

// Tokenizer converts between sessions and their signed token representation
type Tokenizer interface {
	// SessionToToken signs a session into a serialized token
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession verifies a serialized token and returns the session it
	// carries. Returns core.ErrTokenExpired or core.ErrInvalidToken.
	TokenToSession(token string) (*core.Session, error)
}
