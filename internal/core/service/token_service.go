package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

// TokenService issues and validates HS256 bearer tokens and keeps a
// revocation list so sign-out takes effect before token expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	store  ports.TokenStore
}

func NewTokenService(secret string, ttl time.Duration, store ports.TokenStore) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, store: store}
}

// Issue signs a new token for the user. Each token carries a unique jti
// so it can be revoked individually.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     string(user.Role),
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate parses and verifies the token, then checks the revocation
// list. Any failure surfaces as domain.ErrUnauthorized.
func (s *TokenService) Validate(ctx context.Context, token string) (*ports.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}

	id := identityFromClaims(claims)
	if id.Username == "" || id.TokenID == "" {
		return nil, domain.ErrUnauthorized
	}

	revoked, err := s.store.IsRevoked(ctx, id.TokenID)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}

	return id, nil
}

// DecodeClaim extracts a single string claim without verifying the
// signature. Only use on tokens already validated upstream.
func (s *TokenService) DecodeClaim(token, claim string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", domain.ErrUnauthorized
	}
	value, _ := claims[claim].(string)
	if value == "" {
		return "", domain.ErrUnauthorized
	}
	return value, nil
}

// Invalidate revokes the token for its remaining lifetime. Malformed and
// already-expired tokens are treated as a no-op rather than an error so
// sign-out stays idempotent.
func (s *TokenService) Invalidate(ctx context.Context, token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	id := identityFromClaims(claims)
	if id.TokenID == "" {
		return nil
	}

	remaining := time.Until(id.ExpiresAt)
	if remaining <= 0 {
		return nil
	}
	return s.store.Revoke(ctx, id.TokenID, remaining)
}

func identityFromClaims(claims jwt.MapClaims) *ports.Identity {
	id := &ports.Identity{}
	id.Username, _ = claims["username"].(string)
	if role, ok := claims["role"].(string); ok {
		id.Role = domain.Role(role)
	}
	id.TokenID, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		id.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return id
}
