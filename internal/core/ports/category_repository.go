package ports

import (
	"context"
	"time"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// CategoryTrend is one row of the trending-categories ranking.
type CategoryTrend struct {
	Category   domain.Category `json:"category"`
	EntryCount int64           `json:"entry_count"`
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id string, name string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	HasChildren(ctx context.Context, id string) (bool, error)
	// TrendingSince ranks categories by the number of entries posted under
	// their titles since the given time, most active first.
	TrendingSince(ctx context.Context, since time.Time, limit int) ([]CategoryTrend, error)
}
