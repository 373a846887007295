package ports

import (
	"context"
	"time"
)

// EventPublisher publishes audit events to notify other instances
type EventPublisher interface {
	// PublishSessionIssued announces that a new session token was minted
	PublishSessionIssued(ctx context.Context, sessionID string, expiresAt time.Time) error
}
