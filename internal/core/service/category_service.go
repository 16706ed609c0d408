package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const (
	trendingWindow = 7 * 24 * time.Hour
	trendingLimit  = 10
	trendingTTL    = time.Hour
)

// CategoryService implements category listing, the tree view and the
// trending ranking.
type CategoryService struct {
	categories ports.CategoryRepository
	titles     ports.TitleRepository
	trending   ports.TrendingCache
	log        zerolog.Logger
}

func NewCategoryService(
	categories ports.CategoryRepository,
	titles ports.TitleRepository,
	trending ports.TrendingCache,
	log zerolog.Logger,
) *CategoryService {
	return &CategoryService{categories: categories, titles: titles, trending: trending, log: log}
}

func (s *CategoryService) ListAll(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// Tree returns the flat category list folded into root nodes with
// children, deterministically ordered by id.
func (s *CategoryService) Tree(ctx context.Context) ([]*domain.CategoryNode, error) {
	flat, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(flat), nil
}

// Trending serves the cached ranking; a cold cache falls back to a live
// computation and warms the cache on the way out.
func (s *CategoryService) Trending(ctx context.Context) ([]ports.CategoryTrend, error) {
	if trends, err := s.trending.Get(ctx); err == nil && len(trends) > 0 {
		return trends, nil
	} else if err != nil {
		s.log.Warn().Err(err).Msg("trending cache read failed, computing live")
	}

	trends, err := s.computeTrending(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.trending.Set(ctx, trends, trendingTTL); err != nil {
		s.log.Warn().Err(err).Msg("failed to warm trending cache")
	}
	return trends, nil
}

// RefreshTrending recomputes the ranking into the cache. Called on a
// schedule by the jobs runner.
func (s *CategoryService) RefreshTrending(ctx context.Context) error {
	trends, err := s.computeTrending(ctx)
	if err != nil {
		return err
	}
	return s.trending.Set(ctx, trends, trendingTTL)
}

func (s *CategoryService) computeTrending(ctx context.Context) ([]ports.CategoryTrend, error) {
	since := time.Now().UTC().Add(-trendingWindow)
	return s.categories.TrendingSince(ctx, since, trendingLimit)
}

// Create adds a category; a non-empty parent must exist and be a root,
// which keeps the hierarchy at two levels and free of cycles.
func (s *CategoryService) Create(ctx context.Context, name, parentID string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidation
	}
	if parentID != "" {
		parent, err := s.categories.FindByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != "" {
			return nil, domain.ErrValidation
		}
	}
	return s.categories.Create(ctx, &domain.Category{Name: name, ParentID: parentID})
}

func (s *CategoryService) Update(ctx context.Context, id, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrValidation
	}
	return s.categories.Update(ctx, id, name)
}

// Delete removes a category unless children or titles still reference it.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	hasChildren, err := s.categories.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return domain.ErrCategoryInUse
	}
	titleCount, err := s.titles.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if titleCount > 0 {
		return domain.ErrCategoryInUse
	}
	return s.categories.Delete(ctx, id)
}
