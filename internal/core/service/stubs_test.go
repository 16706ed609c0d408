package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

// Map-backed stand-ins for the mongo repositories. Guarded by mutexes so
// the vote concurrency tests exercise the same atomicity contract the
// real repositories provide.

// --- users ---

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", len(r.users)+1)
	r.users[clone.Username] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, username string, upd ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Biography != nil {
		u.Biography = *upd.Biography
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Verified = true
	return nil
}

func (r *stubUserRepo) SetPasswordHash(_ context.Context, username, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) SetRole(_ context.Context, username string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// --- titles and ratings ---

type stubTitleRepo struct {
	mu      sync.Mutex
	seq     int
	titles  map[string]*domain.Title
	ratings map[string]*domain.Rating // titleID|username
}

func newStubTitleRepo() *stubTitleRepo {
	return &stubTitleRepo{
		titles:  make(map[string]*domain.Title),
		ratings: make(map[string]*domain.Rating),
	}
}

func cloneTitle(t *domain.Title) *domain.Title {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func (r *stubTitleRepo) Create(_ context.Context, t *domain.Title) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.titles {
		if existing.Slug == t.Slug {
			return nil, domain.ErrSlugTaken
		}
	}
	r.seq++
	clone := cloneTitle(t)
	clone.ID = fmt.Sprintf("t%d", r.seq)
	r.titles[clone.ID] = clone
	return cloneTitle(clone), nil
}

func (r *stubTitleRepo) FindByID(_ context.Context, id string) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[id]
	if !ok {
		return nil, domain.ErrTitleNotFound
	}
	return cloneTitle(t), nil
}

func (r *stubTitleRepo) FindBySlug(_ context.Context, slug string) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.titles {
		if t.Slug == slug {
			return cloneTitle(t), nil
		}
	}
	return nil, domain.ErrTitleNotFound
}

func (r *stubTitleRepo) Search(_ context.Context, query string) ([]*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Title
	for _, t := range r.titles {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			out = append(out, cloneTitle(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubTitleRepo) List(_ context.Context, filter ports.TitleListFilter) ([]*domain.Title, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Title
	for _, t := range r.titles {
		if filter.Author != "" && t.Author != filter.Author {
			continue
		}
		if len(filter.CategoryIDs) > 0 {
			found := false
			for _, id := range filter.CategoryIDs {
				if t.CategoryID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		matched = append(matched, cloneTitle(t))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.SortBy == ports.SortTop {
			if a.AverageRating() != b.AverageRating() {
				return a.AverageRating() > b.AverageRating()
			}
		} else if a.EntryCount != b.EntryCount {
			return a.EntryCount > b.EntryCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	if filter.Skip >= len(matched) {
		return []*domain.Title{}, total, nil
	}
	end := filter.Skip + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Skip:end], total, nil
}

func (r *stubTitleRepo) Update(_ context.Context, id string, upd ports.TitleUpdate) (*domain.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[id]
	if !ok {
		return nil, domain.ErrTitleNotFound
	}
	if upd.Slug != nil {
		for otherID, other := range r.titles {
			if otherID != id && other.Slug == *upd.Slug {
				return nil, domain.ErrSlugTaken
			}
		}
		t.Slug = *upd.Slug
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.CategoryID != nil {
		t.CategoryID = *upd.CategoryID
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	t.UpdatedAt = time.Now().UTC()
	return cloneTitle(t), nil
}

func (r *stubTitleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.titles[id]; !ok {
		return domain.ErrTitleNotFound
	}
	delete(r.titles, id)
	return nil
}

func (r *stubTitleRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.titles {
		if t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *stubTitleRepo) IncEntryStats(_ context.Context, id string, delta int64, lastEntryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[id]
	if !ok {
		return domain.ErrTitleNotFound
	}
	t.EntryCount += delta
	if !lastEntryAt.IsZero() {
		t.LastEntryAt = lastEntryAt
	}
	return nil
}

func (r *stubTitleRepo) UpsertRating(_ context.Context, rating *domain.Rating) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rating.TitleID + "|" + rating.Username
	if prev, ok := r.ratings[key]; ok {
		old := prev.Value
		prev.Value = rating.Value
		prev.UpdatedAt = rating.UpdatedAt
		return old, true, nil
	}
	clone := *rating
	clone.ID = key
	r.ratings[key] = &clone
	return 0, false, nil
}

func (r *stubTitleRepo) FindRating(_ context.Context, titleID, username string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[titleID+"|"+username]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	clone := *rating
	return &clone, nil
}

func (r *stubTitleRepo) ApplyRatingDelta(_ context.Context, titleID string, sumDelta, countDelta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[titleID]
	if !ok {
		return domain.ErrTitleNotFound
	}
	t.RatingSum += sumDelta
	t.RatingCount += countDelta
	return nil
}

func (r *stubTitleRepo) DeleteRatingsByTitle(_ context.Context, titleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, rating := range r.ratings {
		if rating.TitleID == titleID {
			delete(r.ratings, key)
		}
	}
	return nil
}

// --- entries ---

type stubEntryRepo struct {
	mu      sync.Mutex
	seq     int
	entries map[string]*domain.Entry
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[string]*domain.Entry)}
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

func (r *stubEntryRepo) Create(_ context.Context, e *domain.Entry) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := cloneEntry(e)
	clone.ID = fmt.Sprintf("e%d", r.seq)
	r.entries[clone.ID] = clone
	return cloneEntry(clone), nil
}

func (r *stubEntryRepo) FindByID(_ context.Context, id string) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

func (r *stubEntryRepo) UpdateText(_ context.Context, id, text string) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	e.Text = text
	e.UpdatedAt = time.Now().UTC()
	return cloneEntry(e), nil
}

func (r *stubEntryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *stubEntryRepo) DeleteByTitle(_ context.Context, titleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if e.TitleID == titleID {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *stubEntryRepo) ListByTitle(_ context.Context, titleID string, skip, limit int) ([]*domain.Entry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Entry
	for _, e := range r.entries {
		if e.TitleID == titleID {
			matched = append(matched, cloneEntry(e))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return pageEntries(matched, skip, limit)
}

func (r *stubEntryRepo) ListByAuthor(_ context.Context, author string, skip, limit int) ([]*domain.Entry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Entry
	for _, e := range r.entries {
		if e.Author == author {
			matched = append(matched, cloneEntry(e))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return pageEntries(matched, skip, limit)
}

func pageEntries(matched []*domain.Entry, skip, limit int) ([]*domain.Entry, int64, error) {
	total := int64(len(matched))
	if skip >= len(matched) {
		return []*domain.Entry{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubEntryRepo) FeaturedByTitle(_ context.Context, titleID string) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *domain.Entry
	for _, e := range r.entries {
		if e.TitleID != titleID {
			continue
		}
		if best == nil ||
			e.NetVotes() > best.NetVotes() ||
			(e.NetVotes() == best.NetVotes() && e.CreatedAt.Before(best.CreatedAt)) {
			best = e
		}
	}
	if best == nil {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(best), nil
}

func (r *stubEntryRepo) IncVotes(_ context.Context, id string, direction domain.VoteDirection, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	if direction == domain.VoteUp {
		e.UpVotes += delta
	} else {
		e.DownVotes += delta
	}
	return nil
}

// --- votes ---

type stubVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*domain.Vote // entryID|username
}

func newStubVoteRepo() *stubVoteRepo {
	return &stubVoteRepo{votes: make(map[string]*domain.Vote)}
}

func (r *stubVoteRepo) Insert(_ context.Context, v *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := v.EntryID + "|" + v.Username
	if _, exists := r.votes[key]; exists {
		return domain.ErrAlreadyVoted
	}
	clone := *v
	clone.ID = key
	r.votes[key] = &clone
	return nil
}

func (r *stubVoteRepo) Find(_ context.Context, entryID, username string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[entryID+"|"+username]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVoteRepo) Delete(_ context.Context, entryID, username string, direction domain.VoteDirection) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entryID + "|" + username
	v, ok := r.votes[key]
	if !ok || v.Direction != direction {
		return false, nil
	}
	delete(r.votes, key)
	return true, nil
}

func (r *stubVoteRepo) DeleteByEntry(_ context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, v := range r.votes {
		if v.EntryID == entryID {
			delete(r.votes, key)
		}
	}
	return nil
}

func (r *stubVoteRepo) ListByUser(_ context.Context, username string, direction domain.VoteDirection, skip, limit int) ([]*domain.Vote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Vote
	for _, v := range r.votes {
		if v.Username == username && v.Direction == direction {
			clone := *v
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	if skip >= len(matched) {
		return []*domain.Vote{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

// --- categories ---

type stubCategoryRepo struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*domain.Category
	trends     []ports.CategoryTrend
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.categories[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) ListAll(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, id, name string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = name
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) HasChildren(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoryRepo) TrendingSince(_ context.Context, _ time.Time, limit int) ([]ports.CategoryTrend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.trends) > limit {
		return r.trends[:limit], nil
	}
	return r.trends, nil
}

// --- token and one-time stores ---

type stubTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{revoked: make(map[string]bool)}
}

func (s *stubTokenStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = true
	return nil
}

func (s *stubTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[tokenID], nil
}

type stubOneTimeStore struct {
	mu     sync.Mutex
	tokens map[string]string // purpose|token -> username
}

func newStubOneTimeStore() *stubOneTimeStore {
	return &stubOneTimeStore{tokens: make(map[string]string)}
}

func (s *stubOneTimeStore) Save(_ context.Context, purpose, token, username string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[purpose+"|"+token] = username
	return nil
}

func (s *stubOneTimeStore) Consume(_ context.Context, purpose, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := purpose + "|" + token
	username, ok := s.tokens[key]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.tokens, key)
	return username, nil
}

// --- mail queue ---

type stubMailQueue struct {
	mu   sync.Mutex
	sent []ports.MailMessage
}

func (q *stubMailQueue) Enqueue(msg ports.MailMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
}

func (q *stubMailQueue) messages() []ports.MailMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]ports.MailMessage, len(q.sent))
	copy(out, q.sent)
	return out
}

// --- trending cache ---

type stubTrendingCache struct {
	mu     sync.Mutex
	trends []ports.CategoryTrend
}

func (c *stubTrendingCache) Get(_ context.Context) ([]ports.CategoryTrend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trends, nil
}

func (c *stubTrendingCache) Set(_ context.Context, trends []ports.CategoryTrend, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trends = trends
	return nil
}

// --- picture store ---

type storedPicture struct {
	contentType string
	data        []byte
}

type stubPictureStore struct {
	mu       sync.Mutex
	pictures map[string]storedPicture
}

func newStubPictureStore() *stubPictureStore {
	return &stubPictureStore{pictures: make(map[string]storedPicture)}
}

func (s *stubPictureStore) Save(_ context.Context, username, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pictures[username] = storedPicture{contentType: contentType, data: data}
	return nil
}

func (s *stubPictureStore) Open(_ context.Context, username string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pic, ok := s.pictures[username]
	if !ok {
		return nil, "", domain.ErrPictureNotFound
	}
	return io.NopCloser(bytes.NewReader(pic.data)), pic.contentType, nil
}
