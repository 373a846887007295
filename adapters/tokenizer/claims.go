package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by a session token. Sessions carry no
// identity beyond "valid session", so the registered claims are all there is.
type SessionClaims struct {
	jwt.RegisteredClaims
}
