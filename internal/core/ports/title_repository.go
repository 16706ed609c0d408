package ports

import (
	"context"
	"time"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// Sort orders accepted by the title list endpoint.
const (
	SortHot = "hot"
	SortTop = "top"
)

// TitleListFilter carries all query parameters for listing titles.
type TitleListFilter struct {
	Author      string   // optional: filter by author username
	CategoryIDs []string // optional: one or more category ids
	SortBy      string   // "hot" (default) or "top"
	Skip        int
	Limit       int // capped at 100 by the service
}

// TitleUpdate carries the mutable title fields. Nil pointers leave the
// stored value untouched; setting Name also requires a matching Slug.
type TitleUpdate struct {
	Name        *string
	Slug        *string
	CategoryID  *string
	Description *string
}

// TitleRepository defines persistence operations for titles and ratings.
type TitleRepository interface {
	// Create inserts a new title. Returns domain.ErrSlugTaken when the
	// slug is already in use, so the service can retry with a
	// disambiguated slug.
	Create(ctx context.Context, t *domain.Title) (*domain.Title, error)
	FindByID(ctx context.Context, id string) (*domain.Title, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Title, error)
	// Search returns titles whose name matches the query, ordered by name.
	Search(ctx context.Context, query string) ([]*domain.Title, error)
	// List returns a page of titles matching filter and the total count.
	List(ctx context.Context, filter TitleListFilter) ([]*domain.Title, int64, error)
	Update(ctx context.Context, id string, upd TitleUpdate) (*domain.Title, error)
	// Delete removes the title only; cascading to entries, votes and
	// ratings is orchestrated by the service.
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)

	// IncEntryStats atomically adjusts entry_count by delta and, when
	// lastEntryAt is non-zero, advances last_entry_at.
	IncEntryStats(ctx context.Context, id string, delta int64, lastEntryAt time.Time) error

	// UpsertRating stores one rating per (title, user), returning the
	// previous value and whether one existed. The caller applies the
	// resulting sum/count delta via ApplyRatingDelta.
	UpsertRating(ctx context.Context, r *domain.Rating) (previous int, existed bool, err error)
	FindRating(ctx context.Context, titleID, username string) (*domain.Rating, error)
	// ApplyRatingDelta atomically adjusts the stored rating aggregate.
	ApplyRatingDelta(ctx context.Context, titleID string, sumDelta, countDelta int64) error
	DeleteRatingsByTitle(ctx context.Context, titleID string) error
}
