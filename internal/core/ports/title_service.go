package ports

import (
	"context"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// CreateTitleInput carries the fields of a new title.
type CreateTitleInput struct {
	Name        string
	CategoryID  string
	Description string
}

// UpdateTitleInput carries the mutable title fields; nil means unchanged.
type UpdateTitleInput struct {
	Name        *string
	CategoryID  *string
	Description *string
}

// TitleListResult is one page of the title list.
type TitleListResult struct {
	Titles []*domain.Title `json:"titles"`
	Count  int64           `json:"count"`
}

// TitleService defines use-case operations for titles.
type TitleService interface {
	// GetTitle resolves a title by id (byID true) or slug (byID false).
	GetTitle(ctx context.Context, idOrSlug string, byID bool) (*domain.Title, error)
	SearchTitles(ctx context.Context, searchValue string) ([]*domain.Title, error)
	ListTitles(ctx context.Context, filter TitleListFilter) (*TitleListResult, error)
	CreateTitle(ctx context.Context, author string, in CreateTitleInput) (*domain.Title, error)
	UpdateTitle(ctx context.Context, actor, titleID string, in UpdateTitleInput) (*domain.Title, error)
	// DeleteTitle cascade-deletes the title's entries, their votes and
	// the title's ratings.
	DeleteTitle(ctx context.Context, titleID string) error
	RateTitle(ctx context.Context, actor, titleID string, value int) error
	GetRateOfUser(ctx context.Context, actor, titleID string) (*domain.Rating, error)
	GetAverageRate(ctx context.Context, titleID string) (float64, error)
}
