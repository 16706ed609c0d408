package ports

import (
	"context"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// CreateEntryInput carries the fields of a new entry.
type CreateEntryInput struct {
	TitleID string
	Text    string
}

// EntryListResult is one page of an entry listing.
type EntryListResult struct {
	Entries []*domain.Entry `json:"entries"`
	Count   int64           `json:"count"`
}

// UserVoteItem is one row of a user's vote history: the vote together
// with the entry it was cast on (nil when the entry was deleted since).
type UserVoteItem struct {
	Vote  *domain.Vote  `json:"vote"`
	Entry *domain.Entry `json:"entry,omitempty"`
}

// UserVotesResult is one page of a user's vote history.
type UserVotesResult struct {
	Votes []UserVoteItem `json:"votes"`
	Count int64          `json:"count"`
}

// EntryService defines use-case operations for entries and votes.
type EntryService interface {
	CreateEntry(ctx context.Context, author string, in CreateEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, entryID string) (*domain.Entry, error)
	// UpdateEntry is allowed for the entry's author only.
	UpdateEntry(ctx context.Context, actor, entryID, text string) (*domain.Entry, error)
	// DeleteEntry is allowed for the author or a role of admin and above.
	DeleteEntry(ctx context.Context, actor string, actorRole domain.Role, entryID string) error
	ListByTitle(ctx context.Context, titleID string, skip, limit int) (*EntryListResult, error)
	ListByAuthor(ctx context.Context, author string, skip, limit int) (*EntryListResult, error)
	FeaturedByTitle(ctx context.Context, titleID string) (*domain.Entry, error)

	// Vote casts the actor's vote. A second vote on the same entry,
	// whatever its direction, fails with domain.ErrAlreadyVoted.
	Vote(ctx context.Context, entryID, actor string, direction domain.VoteDirection) error
	// UndoVote removes the actor's stored vote. claimedUp is the client's
	// view of the stored direction; it is validated against the stored
	// vote and a mismatch fails with domain.ErrVoteConflict.
	UndoVote(ctx context.Context, entryID, actor string, claimedUp bool) error
	VotesOfUser(ctx context.Context, username string, direction domain.VoteDirection, skip, limit int) (*UserVotesResult, error)
}
