package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const (
	defaultTitlePageSize = 10
	maxPageSize          = 100
	maxSlugAttempts      = 20
)

// TitleService implements title CRUD, listing and rating.
type TitleService struct {
	titles     ports.TitleRepository
	entries    ports.EntryRepository
	votes      ports.VoteRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewTitleService(
	titles ports.TitleRepository,
	entries ports.EntryRepository,
	votes ports.VoteRepository,
	categories ports.CategoryRepository,
	log zerolog.Logger,
) *TitleService {
	return &TitleService{
		titles:     titles,
		entries:    entries,
		votes:      votes,
		categories: categories,
		log:        log,
	}
}

// GetTitle resolves a title by id or by slug.
func (s *TitleService) GetTitle(ctx context.Context, idOrSlug string, byID bool) (*domain.Title, error) {
	if byID {
		return s.titles.FindByID(ctx, idOrSlug)
	}
	return s.titles.FindBySlug(ctx, idOrSlug)
}

// SearchTitles returns titles whose name matches the search value.
func (s *TitleService) SearchTitles(ctx context.Context, searchValue string) ([]*domain.Title, error) {
	searchValue = strings.TrimSpace(searchValue)
	if searchValue == "" {
		return []*domain.Title{}, nil
	}
	return s.titles.Search(ctx, searchValue)
}

// ListTitles returns a page of titles. SortBy defaults to "hot".
func (s *TitleService) ListTitles(ctx context.Context, filter ports.TitleListFilter) (*ports.TitleListResult, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultTitlePageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.SortBy != ports.SortTop {
		filter.SortBy = ports.SortHot
	}

	titles, total, err := s.titles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.TitleListResult{Titles: titles, Count: total}, nil
}

// CreateTitle creates a title with a unique slug derived from its name.
// Slug collisions are resolved by appending a numeric disambiguator.
func (s *TitleService) CreateTitle(ctx context.Context, author string, in ports.CreateTitleInput) (*domain.Title, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" {
		return nil, domain.ErrValidation
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	base := domain.Slugify(name)
	if base == "" {
		base = "title"
	}

	now := time.Now().UTC()
	title := &domain.Title{
		Name:        name,
		CategoryID:  in.CategoryID,
		Author:      author,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		title.Slug = base
		if attempt > 1 {
			title.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}
		created, err := s.titles.Create(ctx, title)
		if err == nil {
			s.log.Info().Str("slug", created.Slug).Str("author", author).Msg("title created")
			return created, nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("create title: %w after %d attempts", domain.ErrSlugTaken, maxSlugAttempts)
}

// UpdateTitle mutates a title; a rename re-derives the slug with the same
// uniqueness rule, after which the old slug stops resolving.
func (s *TitleService) UpdateTitle(ctx context.Context, actor, titleID string, in ports.UpdateTitleInput) (*domain.Title, error) {
	current, err := s.titles.FindByID(ctx, titleID)
	if err != nil {
		return nil, err
	}

	upd := ports.TitleUpdate{
		CategoryID:  in.CategoryID,
		Description: in.Description,
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" && *in.Name != current.Name {
		name := strings.TrimSpace(*in.Name)
		base := domain.Slugify(name)
		if base == "" {
			base = "title"
		}
		upd.Name = &name

		for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
			slug := base
			if attempt > 1 {
				slug = fmt.Sprintf("%s-%d", base, attempt)
			}
			upd.Slug = &slug
			updated, err := s.titles.Update(ctx, titleID, upd)
			if err == nil {
				s.log.Info().Str("title_id", titleID).Str("actor", actor).Str("slug", slug).Msg("title renamed")
				return updated, nil
			}
			if !errors.Is(err, domain.ErrSlugTaken) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("update title: %w after %d attempts", domain.ErrSlugTaken, maxSlugAttempts)
	}

	updated, err := s.titles.Update(ctx, titleID, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("title_id", titleID).Str("actor", actor).Msg("title updated")
	return updated, nil
}

// DeleteTitle removes the title and cascades to its entries, the votes
// on those entries, and the title's ratings.
func (s *TitleService) DeleteTitle(ctx context.Context, titleID string) error {
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		return err
	}

	for skip := 0; ; skip += maxPageSize {
		entries, _, err := s.entries.ListByTitle(ctx, titleID, skip, maxPageSize)
		if err != nil {
			return fmt.Errorf("delete title cascade: %w", err)
		}
		for _, e := range entries {
			if verr := s.votes.DeleteByEntry(ctx, e.ID); verr != nil {
				s.log.Warn().Err(verr).Str("entry_id", e.ID).Msg("failed to delete entry votes during cascade")
			}
		}
		if len(entries) < maxPageSize {
			break
		}
	}

	if err := s.entries.DeleteByTitle(ctx, titleID); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if err := s.titles.DeleteRatingsByTitle(ctx, titleID); err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}
	if err := s.titles.Delete(ctx, titleID); err != nil {
		return err
	}

	s.log.Info().Str("title_id", titleID).Msg("title deleted with entries and ratings")
	return nil
}

// RateTitle upserts the actor's rating and adjusts the stored aggregate
// by the exact delta, so concurrent raters never lose updates.
func (s *TitleService) RateTitle(ctx context.Context, actor, titleID string, value int) error {
	if value < domain.MinRating || value > domain.MaxRating {
		return domain.ErrValidation
	}
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		return err
	}

	previous, existed, err := s.titles.UpsertRating(ctx, &domain.Rating{
		TitleID:   titleID,
		Username:  actor,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	sumDelta := int64(value)
	countDelta := int64(1)
	if existed {
		sumDelta = int64(value - previous)
		countDelta = 0
	}
	if sumDelta == 0 && countDelta == 0 {
		return nil
	}
	return s.titles.ApplyRatingDelta(ctx, titleID, sumDelta, countDelta)
}

// GetRateOfUser returns the actor's own rating of the title.
func (s *TitleService) GetRateOfUser(ctx context.Context, actor, titleID string) (*domain.Rating, error) {
	return s.titles.FindRating(ctx, titleID, actor)
}

// GetAverageRate returns the title's mean rating, 0 when unrated.
func (s *TitleService) GetAverageRate(ctx context.Context, titleID string) (float64, error) {
	title, err := s.titles.FindByID(ctx, titleID)
	if err != nil {
		return 0, err
	}
	return title.AverageRating(), nil
}
