package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/gamelan/core"
	"github.com/layer-3/gamelan/ports"
)

// AuthService handles the nonce/session protocol: page renders get a
// single-use nonce, the nonce is exchanged for a short-lived signed session
// token, and the token gates the synthesis endpoint.
type AuthService struct {
	nonces    ports.NonceStore
	tokenizer ports.Tokenizer
	events    ports.EventPublisher
	logger    *slog.Logger

	// requireNonce is on when an external session secret was configured.
	// Without one, tokens die on restart anyway, so nonce proof-of-page-load
	// adds nothing and local development stays zero-config.
	requireNonce bool

	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	nonces ports.NonceStore,
	tokenizer ports.Tokenizer,
	events ports.EventPublisher,
	logger *slog.Logger,
	requireNonce bool,
) *AuthService {
	return &AuthService{
		nonces:       nonces,
		tokenizer:    tokenizer,
		events:       events,
		logger:       logger,
		requireNonce: requireNonce,
		sessionTTL:   core.SessionTTL,
	}
}

// NonceRequired reports whether session issuance demands a valid nonce
func (s *AuthService) NonceRequired() bool {
	return s.requireNonce
}

// CreatePageNonce issues a fresh nonce for embedding into a page render.
// Expired nonces are swept opportunistically here to bound memory.
func (s *AuthService) CreatePageNonce(ctx context.Context) (string, error) {
	if err := s.nonces.Sweep(ctx); err != nil {
		s.logger.Warn("nonce sweep failed", "error", err)
	}

	nonce, err := s.nonces.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue nonce: %w", err)
	}

	return nonce, nil
}

// IssueSession mints a signed session token. When nonce mode is on, the
// provided nonce must consume successfully; failure is terminal for the
// request and the client must reload the page for a fresh nonce.
func (s *AuthService) IssueSession(ctx context.Context, nonce string) (string, error) {
	if s.requireNonce {
		if nonce == "" {
			return "", core.ErrInvalidNonce
		}

		ok, err := s.nonces.Consume(ctx, nonce)
		if err != nil {
			return "", fmt.Errorf("failed to consume nonce: %w", err)
		}
		if !ok {
			return "", core.ErrInvalidNonce
		}
	}

	now := time.Now()
	session := &core.Session{
		ID:        uuid.New().String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	// Audit event only; the session is already valid, so a publish failure
	// must not fail the request
	if err := s.events.PublishSessionIssued(ctx, session.ID, session.ExpiresAt); err != nil {
		s.logger.Warn("failed to publish session issued event", "session_id", session.ID, "error", err)
	}

	return token, nil
}

// VerifySession validates a session token and returns the session it carries
func (s *AuthService) VerifySession(_ context.Context, token string) (*core.Session, error) {
	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, core.ErrTokenExpired
	}

	return session, nil
}
