package ports

import (
	"context"
	"time"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// TrendingCache holds the precomputed trending-categories ranking.
type TrendingCache interface {
	Get(ctx context.Context) ([]CategoryTrend, error)
	Set(ctx context.Context, trends []CategoryTrend, ttl time.Duration) error
}

// CategoryService defines use-case operations for categories.
type CategoryService interface {
	ListAll(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Tree(ctx context.Context) ([]*domain.CategoryNode, error)
	// Trending serves the cached ranking, falling back to a live
	// computation when the cache is cold.
	Trending(ctx context.Context) ([]CategoryTrend, error)
	// RefreshTrending recomputes the ranking and stores it in the cache.
	RefreshTrending(ctx context.Context) error
	Create(ctx context.Context, name, parentID string) (*domain.Category, error)
	Update(ctx context.Context, id, name string) (*domain.Category, error)
	// Delete refuses to remove a category that still has child categories
	// or titles referencing it.
	Delete(ctx context.Context, id string) error
}
