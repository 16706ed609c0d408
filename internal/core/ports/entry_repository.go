package ports

import (
	"context"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// EntryRepository defines persistence operations for entries.
type EntryRepository interface {
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	FindByID(ctx context.Context, id string) (*domain.Entry, error)
	UpdateText(ctx context.Context, id, text string) (*domain.Entry, error)
	Delete(ctx context.Context, id string) error
	DeleteByTitle(ctx context.Context, titleID string) error
	// ListByTitle returns a page of entries under a title, oldest first,
	// and the total entry count for the title.
	ListByTitle(ctx context.Context, titleID string, skip, limit int) ([]*domain.Entry, int64, error)
	ListByAuthor(ctx context.Context, author string, skip, limit int) ([]*domain.Entry, int64, error)
	// FeaturedByTitle returns the entry with the highest net vote count,
	// ties broken by earliest creation. Returns domain.ErrEntryNotFound
	// when the title has no entries.
	FeaturedByTitle(ctx context.Context, titleID string) (*domain.Entry, error)
	// IncVotes atomically adjusts the entry's counter for direction.
	IncVotes(ctx context.Context, id string, direction domain.VoteDirection, delta int64) error
}

// VoteRepository defines persistence operations for per-user vote records.
type VoteRepository interface {
	// Insert stores a new vote. Returns domain.ErrAlreadyVoted when the
	// user already holds a vote on the entry, regardless of direction.
	Insert(ctx context.Context, v *domain.Vote) error
	Find(ctx context.Context, entryID, username string) (*domain.Vote, error)
	// Delete removes the user's vote on the entry if one exists with the
	// given direction; deleted reports whether a record was removed.
	Delete(ctx context.Context, entryID, username string, direction domain.VoteDirection) (deleted bool, err error)
	DeleteByEntry(ctx context.Context, entryID string) error
	ListByUser(ctx context.Context, username string, direction domain.VoteDirection, skip, limit int) ([]*domain.Vote, int64, error)
}
