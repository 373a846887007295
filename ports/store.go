package ports

import "context"

// NonceStore manages single-use, time-bounded nonces binding a page render
// to session issuance.
type NonceStore interface {
	// Issue creates a random nonce, records its expiry, and returns it
	Issue(ctx context.Context) (string, error)

	// Consume atomically removes the nonce and reports whether it existed
	// and was still valid. A spent, unknown, or expired nonce returns false.
	Consume(ctx context.Context, nonce string) (bool, error)

	// Sweep drops expired entries to bound memory. Opportunistic: Consume
	// rejects expired nonces on its own, so correctness never depends on it.
	Sweep(ctx context.Context) error
}
