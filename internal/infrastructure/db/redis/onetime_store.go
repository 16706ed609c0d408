package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// OneTimeTokenStore holds single-use tokens for account verification and
// password recovery. Key format: <purpose>:<token> -> username.
type OneTimeTokenStore struct {
	client *redis.Client
}

// NewOneTimeTokenStore creates an OneTimeTokenStore wrapping the given client.
func NewOneTimeTokenStore(client *redis.Client) *OneTimeTokenStore {
	return &OneTimeTokenStore{client: client}
}

// Save stores the token mapped to username until ttl elapses.
func (s *OneTimeTokenStore) Save(ctx context.Context, purpose, token, username string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(purpose, token), username, ttl).Err()
}

// Consume atomically fetches and deletes the token, so it cannot be
// redeemed twice even under concurrent requests.
func (s *OneTimeTokenStore) Consume(ctx context.Context, purpose, token string) (string, error) {
	username, err := s.client.GetDel(ctx, s.key(purpose, token)).Result()
	if err == redis.Nil {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("consume token: %w", err)
	}
	return username, nil
}

func (s *OneTimeTokenStore) key(purpose, token string) string {
	return fmt.Sprintf("%s:%s", purpose, token)
}
