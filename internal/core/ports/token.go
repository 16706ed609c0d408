package ports

import (
	"context"
	"time"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// Identity is the authenticated principal decoded from a bearer token.
type Identity struct {
	Username string
	Role     domain.Role
	// TokenID is the token's jti claim; the revocation store is keyed by it.
	TokenID string
	// ExpiresAt is the token's expiry instant.
	ExpiresAt time.Time
}

// TokenService issues, validates and revokes bearer tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Validate parses and verifies the token and rejects revoked ones
	// with domain.ErrUnauthorized.
	Validate(ctx context.Context, token string) (*Identity, error)
	// DecodeClaim extracts a single string claim without re-verifying the
	// signature. Only for tokens already validated upstream.
	DecodeClaim(token, claim string) (string, error)
	// Invalidate revokes the token for the remainder of its lifetime.
	// Revoking an already-revoked or expired token is a harmless no-op.
	Invalidate(ctx context.Context, token string) error
}

// TokenStore is the revocation list backing TokenService.Invalidate.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Purposes for one-time tokens held in the OneTimeTokenStore.
const (
	TokenPurposeVerify  = "verify"
	TokenPurposeRecover = "recover"
)

// OneTimeTokenStore holds short-lived single-use tokens (account
// verification, password recovery) mapped to a username.
type OneTimeTokenStore interface {
	Save(ctx context.Context, purpose, token, username string, ttl time.Duration) error
	// Consume atomically looks up and deletes the token. Returns
	// domain.ErrInvalidToken when the token is unknown or expired.
	Consume(ctx context.Context, purpose, token string) (username string, err error)
}
