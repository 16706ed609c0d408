package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type entryFixture struct {
	svc     *EntryService
	entries *stubEntryRepo
	votes   *stubVoteRepo
	titles  *stubTitleRepo
	titleID string
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()
	titles := newStubTitleRepo()
	entries := newStubEntryRepo()
	votes := newStubVoteRepo()
	title, err := titles.Create(context.Background(), &domain.Title{
		Name: "fixture", Slug: "fixture", CategoryID: "c1", Author: "alice",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed title: %v", err)
	}
	svc := NewEntryService(entries, votes, titles, zerolog.Nop())
	return &entryFixture{svc: svc, entries: entries, votes: votes, titles: titles, titleID: title.ID}
}

func (f *entryFixture) createEntry(t *testing.T, author, text string) *domain.Entry {
	t.Helper()
	entry, err := f.svc.CreateEntry(context.Background(), author, ports.CreateEntryInput{
		TitleID: f.titleID,
		Text:    text,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return entry
}

func (f *entryFixture) counts(t *testing.T, entryID string) (int64, int64) {
	t.Helper()
	entry, err := f.entries.FindByID(context.Background(), entryID)
	if err != nil {
		t.Fatalf("find entry: %v", err)
	}
	return entry.UpVotes, entry.DownVotes
}

func TestEntryService_CreateEntry_BumpsTitleStats(t *testing.T) {
	f := newEntryFixture(t)
	f.createEntry(t, "bob", "first post")

	title, _ := f.titles.FindByID(context.Background(), f.titleID)
	if title.EntryCount != 1 {
		t.Fatalf("entry_count = %d, want 1", title.EntryCount)
	}
	if title.LastEntryAt.IsZero() {
		t.Fatalf("last_entry_at not set")
	}
}

func TestEntryService_CreateEntry_UnknownTitle(t *testing.T) {
	f := newEntryFixture(t)
	_, err := f.svc.CreateEntry(context.Background(), "bob", ports.CreateEntryInput{TitleID: "nope", Text: "hi"})
	if !errors.Is(err, domain.ErrTitleNotFound) {
		t.Fatalf("expected ErrTitleNotFound, got %v", err)
	}
}

func TestEntryService_UpdateEntry_AuthorOnly(t *testing.T) {
	f := newEntryFixture(t)
	entry := f.createEntry(t, "bob", "original")

	if _, err := f.svc.UpdateEntry(context.Background(), "mallory", entry.ID, "defaced"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := f.svc.UpdateEntry(context.Background(), "bob", entry.ID, "edited")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Text != "edited" {
		t.Fatalf("text = %q", updated.Text)
	}
}

func TestEntryService_DeleteEntry_AuthorOrElevated(t *testing.T) {
	f := newEntryFixture(t)

	entry := f.createEntry(t, "bob", "mine")
	if err := f.svc.DeleteEntry(context.Background(), "mallory", domain.RoleUser, entry.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if err := f.svc.DeleteEntry(context.Background(), "bob", domain.RoleUser, entry.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	entry = f.createEntry(t, "bob", "moderated")
	if err := f.svc.DeleteEntry(context.Background(), "staff", domain.RoleAdmin, entry.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	title, _ := f.titles.FindByID(context.Background(), f.titleID)
	if title.EntryCount != 0 {
		t.Fatalf("entry_count = %d, want 0 after deletes", title.EntryCount)
	}
}

func TestEntryService_Vote_DoubleVoteRejected(t *testing.T) {
	f := newEntryFixture(t)
	entry := f.createEntry(t, "bob", "votable")

	if err := f.svc.Vote(context.Background(), entry.ID, "carol", domain.VoteUp); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := f.svc.Vote(context.Background(), entry.ID, "carol", domain.VoteUp); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on repeat, got %v", err)
	}
	// The opposite direction is also rejected until the vote is undone.
	if err := f.svc.Vote(context.Background(), entry.ID, "carol", domain.VoteDown); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on direction flip, got %v", err)
	}

	up, down := f.counts(t, entry.ID)
	if up != 1 || down != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", up, down)
	}
}

func TestEntryService_UndoVote_RestoresCounts(t *testing.T) {
	f := newEntryFixture(t)
	entry := f.createEntry(t, "bob", "votable")

	if err := f.svc.Vote(context.Background(), entry.ID, "carol", domain.VoteUp); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := f.svc.UndoVote(context.Background(), entry.ID, "carol", true); err != nil {
		t.Fatalf("undo: %v", err)
	}

	up, down := f.counts(t, entry.ID)
	if up != 0 || down != 0 {
		t.Fatalf("counts = %d/%d, want 0/0 after undo", up, down)
	}

	// A second undo has nothing to remove.
	if err := f.svc.UndoVote(context.Background(), entry.ID, "carol", true); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestEntryService_UndoVote_StaleClientHint(t *testing.T) {
	f := newEntryFixture(t)
	entry := f.createEntry(t, "bob", "votable")

	if err := f.svc.Vote(context.Background(), entry.ID, "carol", domain.VoteDown); err != nil {
		t.Fatalf("vote: %v", err)
	}

	// The client claims an upvote but the stored vote is a downvote; the
	// stored state wins and the counters stay untouched.
	if err := f.svc.UndoVote(context.Background(), entry.ID, "carol", true); !errors.Is(err, domain.ErrVoteConflict) {
		t.Fatalf("expected ErrVoteConflict, got %v", err)
	}

	up, down := f.counts(t, entry.ID)
	if up != 0 || down != 1 {
		t.Fatalf("counts = %d/%d, want 0/1 after rejected undo", up, down)
	}
}

func TestEntryService_UndoVote_NoVote(t *testing.T) {
	f := newEntryFixture(t)
	entry := f.createEntry(t, "bob", "votable")

	if err := f.svc.UndoVote(context.Background(), entry.ID, "carol", true); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestEntryService_Vote_ConcurrentActorsConverge(t *testing.T) {
	f := newEntryFixture(t)
	entry := f.createEntry(t, "bob", "contended")

	const actors = 30
	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := fmt.Sprintf("actor-%d", n)
			if err := f.svc.Vote(context.Background(), entry.ID, actor, domain.VoteUp); err != nil {
				t.Errorf("vote by %s: %v", actor, err)
				return
			}
			// Half the actors immediately undo their vote.
			if n%2 == 0 {
				if err := f.svc.UndoVote(context.Background(), entry.ID, actor, true); err != nil {
					t.Errorf("undo by %s: %v", actor, err)
				}
			}
		}(i)
	}
	wg.Wait()

	up, down := f.counts(t, entry.ID)
	if up != actors/2 || down != 0 {
		t.Fatalf("counts = %d/%d, want %d/0", up, down, actors/2)
	}
}

func TestEntryService_FeaturedByTitle_TieBreak(t *testing.T) {
	f := newEntryFixture(t)

	older := f.createEntry(t, "bob", "older")
	// Force distinct creation instants; map-backed stubs keep the value.
	f.entries.mu.Lock()
	f.entries.entries[older.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	f.entries.mu.Unlock()
	newer := f.createEntry(t, "carol", "newer")

	for i := 0; i < 2; i++ {
		_ = f.svc.Vote(context.Background(), older.ID, fmt.Sprintf("o%d", i), domain.VoteUp)
		_ = f.svc.Vote(context.Background(), newer.ID, fmt.Sprintf("n%d", i), domain.VoteUp)
	}

	featured, err := f.svc.FeaturedByTitle(context.Background(), f.titleID)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if featured.ID != older.ID {
		t.Fatalf("tie must go to the older entry, got %s", featured.ID)
	}

	_ = f.svc.Vote(context.Background(), newer.ID, "extra", domain.VoteUp)
	featured, _ = f.svc.FeaturedByTitle(context.Background(), f.titleID)
	if featured.ID != newer.ID {
		t.Fatalf("higher net must win, got %s", featured.ID)
	}
}

func TestEntryService_ListByTitle_DefaultPageSize(t *testing.T) {
	f := newEntryFixture(t)
	for i := 0; i < 9; i++ {
		f.createEntry(t, "bob", fmt.Sprintf("entry %d", i))
	}

	page, err := f.svc.ListByTitle(context.Background(), f.titleID, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Entries) != defaultEntryPageSize {
		t.Fatalf("default page size = %d, want %d", len(page.Entries), defaultEntryPageSize)
	}
	if page.Count != 9 {
		t.Fatalf("count = %d, want 9", page.Count)
	}
}

func TestEntryService_VotesOfUser(t *testing.T) {
	f := newEntryFixture(t)
	first := f.createEntry(t, "bob", "one")
	second := f.createEntry(t, "bob", "two")

	_ = f.svc.Vote(context.Background(), first.ID, "carol", domain.VoteUp)
	_ = f.svc.Vote(context.Background(), second.ID, "carol", domain.VoteDown)

	ups, err := f.svc.VotesOfUser(context.Background(), "carol", domain.VoteUp, 0, 10)
	if err != nil {
		t.Fatalf("votes of user: %v", err)
	}
	if ups.Count != 1 || len(ups.Votes) != 1 {
		t.Fatalf("expected one upvote, got %+v", ups)
	}
	if ups.Votes[0].Entry == nil || ups.Votes[0].Entry.ID != first.ID {
		t.Fatalf("vote history must carry the entry")
	}
}
