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
	defaultEntryPageSize  = 7
	defaultAuthorPageSize = 10
	defaultVotesPageSize  = 10
)

// EntryService implements entry CRUD and the vote state machine.
type EntryService struct {
	entries ports.EntryRepository
	votes   ports.VoteRepository
	titles  ports.TitleRepository
	log     zerolog.Logger
}

func NewEntryService(
	entries ports.EntryRepository,
	votes ports.VoteRepository,
	titles ports.TitleRepository,
	log zerolog.Logger,
) *EntryService {
	return &EntryService{entries: entries, votes: votes, titles: titles, log: log}
}

// CreateEntry posts a new entry under an existing title and bumps the
// title's entry statistics used by hot ranking.
func (s *EntryService) CreateEntry(ctx context.Context, author string, in ports.CreateEntryInput) (*domain.Entry, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" || in.TitleID == "" {
		return nil, domain.ErrValidation
	}
	if _, err := s.titles.FindByID(ctx, in.TitleID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, err := s.entries.Create(ctx, &domain.Entry{
		TitleID:   in.TitleID,
		Author:    author,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.titles.IncEntryStats(ctx, in.TitleID, 1, now); err != nil {
		s.log.Warn().Err(err).Str("title_id", in.TitleID).Msg("failed to bump title entry stats")
	}

	s.log.Info().Str("entry_id", entry.ID).Str("author", author).Msg("entry created")
	return entry, nil
}

func (s *EntryService) GetEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	return s.entries.FindByID(ctx, entryID)
}

// UpdateEntry rewrites the entry text. Author only.
func (s *EntryService) UpdateEntry(ctx context.Context, actor, entryID, text string) (*domain.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrValidation
	}

	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Author != actor {
		return nil, domain.ErrForbidden
	}
	return s.entries.UpdateText(ctx, entryID, text)
}

// DeleteEntry removes an entry. Allowed for the author or a role of
// admin and above; the entry's votes go with it.
func (s *EntryService) DeleteEntry(ctx context.Context, actor string, actorRole domain.Role, entryID string) error {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Author != actor && !actorRole.AtLeast(domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return err
	}
	if err := s.votes.DeleteByEntry(ctx, entryID); err != nil {
		s.log.Warn().Err(err).Str("entry_id", entryID).Msg("failed to delete votes of removed entry")
	}
	if err := s.titles.IncEntryStats(ctx, entry.TitleID, -1, time.Time{}); err != nil {
		s.log.Warn().Err(err).Str("title_id", entry.TitleID).Msg("failed to decrement title entry count")
	}

	s.log.Info().Str("entry_id", entryID).Str("actor", actor).Msg("entry deleted")
	return nil
}

// ListByTitle returns a page of a title's entries, oldest first.
func (s *EntryService) ListByTitle(ctx context.Context, titleID string, skip, limit int) (*ports.EntryListResult, error) {
	skip, limit = clampPage(skip, limit, defaultEntryPageSize)
	entries, total, err := s.entries.ListByTitle(ctx, titleID, skip, limit)
	if err != nil {
		return nil, err
	}
	return &ports.EntryListResult{Entries: entries, Count: total}, nil
}

// ListByAuthor returns a page of a user's entries, newest first.
func (s *EntryService) ListByAuthor(ctx context.Context, author string, skip, limit int) (*ports.EntryListResult, error) {
	skip, limit = clampPage(skip, limit, defaultAuthorPageSize)
	entries, total, err := s.entries.ListByAuthor(ctx, author, skip, limit)
	if err != nil {
		return nil, err
	}
	return &ports.EntryListResult{Entries: entries, Count: total}, nil
}

// FeaturedByTitle returns the entry with the highest net vote count,
// ties broken by earliest creation.
func (s *EntryService) FeaturedByTitle(ctx context.Context, titleID string) (*domain.Entry, error) {
	return s.entries.FeaturedByTitle(ctx, titleID)
}

// Vote casts the actor's vote on an entry. The vote record is inserted
// first, since its uniqueness constraint is what makes double voting
// impossible, and only a successful insert increments the counter.
func (s *EntryService) Vote(ctx context.Context, entryID, actor string, direction domain.VoteDirection) error {
	if !direction.IsValid() {
		return domain.ErrValidation
	}
	if _, err := s.entries.FindByID(ctx, entryID); err != nil {
		return err
	}

	err := s.votes.Insert(ctx, &domain.Vote{
		EntryID:   entryID,
		Username:  actor,
		Direction: direction,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := s.entries.IncVotes(ctx, entryID, direction, 1); err != nil {
		// Roll the record back so the user can retry cleanly.
		if _, derr := s.votes.Delete(ctx, entryID, actor, direction); derr != nil {
			s.log.Error().Err(derr).Str("entry_id", entryID).Str("username", actor).Msg("vote rollback failed")
		}
		return fmt.Errorf("increment vote counter: %w", err)
	}

	s.log.Info().Str("entry_id", entryID).Str("username", actor).Str("direction", string(direction)).Msg("vote cast")
	return nil
}

// UndoVote removes the actor's stored vote and decrements the matching
// counter. The client's claimed direction is validated against stored
// state; a stale or dishonest hint must not corrupt the counters.
func (s *EntryService) UndoVote(ctx context.Context, entryID, actor string, claimedUp bool) error {
	stored, err := s.votes.Find(ctx, entryID, actor)
	if err != nil {
		if errors.Is(err, domain.ErrVoteNotFound) {
			return domain.ErrVoteNotFound
		}
		return err
	}

	claimed := domain.VoteDown
	if claimedUp {
		claimed = domain.VoteUp
	}
	if stored.Direction != claimed {
		return domain.ErrVoteConflict
	}

	deleted, err := s.votes.Delete(ctx, entryID, actor, stored.Direction)
	if err != nil {
		return err
	}
	if !deleted {
		// Lost a race with a concurrent undo; the winner already
		// decremented the counter.
		return domain.ErrVoteNotFound
	}

	if err := s.entries.IncVotes(ctx, entryID, stored.Direction, -1); err != nil {
		return fmt.Errorf("decrement vote counter: %w", err)
	}

	s.log.Info().Str("entry_id", entryID).Str("username", actor).Msg("vote undone")
	return nil
}

// VotesOfUser returns a page of the user's vote history with the voted
// entries attached.
func (s *EntryService) VotesOfUser(ctx context.Context, username string, direction domain.VoteDirection, skip, limit int) (*ports.UserVotesResult, error) {
	if !direction.IsValid() {
		return nil, domain.ErrValidation
	}
	skip, limit = clampPage(skip, limit, defaultVotesPageSize)

	votes, total, err := s.votes.ListByUser(ctx, username, direction, skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]ports.UserVoteItem, 0, len(votes))
	for _, v := range votes {
		item := ports.UserVoteItem{Vote: v}
		if entry, err := s.entries.FindByID(ctx, v.EntryID); err == nil {
			item.Entry = entry
		}
		items = append(items, item)
	}
	return &ports.UserVotesResult{Votes: items, Count: total}, nil
}

func clampPage(skip, limit, def int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
