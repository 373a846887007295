package core

import "errors"

var (
	// ErrInvalidNonce is returned when a nonce is missing, already spent, or expired
	ErrInvalidNonce = errors.New("invalid or expired nonce")

	// ErrTokenExpired is returned when a session token has expired
	ErrTokenExpired = errors.New("session token has expired")

	// ErrInvalidToken is returned when a session token is malformed or its signature is invalid
	ErrInvalidToken = errors.New("invalid session token")

	// ErrInvalidRequest is returned for malformed or empty synthesis input
	ErrInvalidRequest = errors.New("invalid synthesis request")

	// ErrTextTooLong is returned when synthesis input exceeds MaxTextLength
	ErrTextTooLong = errors.New("text exceeds maximum length")

	// ErrSynthesisFailed is returned for any provider-side synthesis failure
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrInvalidMetadata is returned when the service metadata file is missing or malformed
	ErrInvalidMetadata = errors.New("invalid service metadata")
)
