package domain

import (
	"strings"
	"time"
	"unicode"
)

// Title is a topic that entries are posted under. Slug is unique and
// derived from Name; it only changes on an explicit rename.
type Title struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Slug        string    `json:"slug" bson:"slug"`
	Name        string    `json:"name" bson:"name"`
	CategoryID  string    `json:"category_id" bson:"category_id"`
	Author      string    `json:"author" bson:"author"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	EntryCount  int64     `json:"entry_count" bson:"entry_count"`
	LastEntryAt time.Time `json:"last_entry_at,omitempty" bson:"last_entry_at,omitempty"`
	RatingSum   int64     `json:"-" bson:"rating_sum"`
	RatingCount int64     `json:"-" bson:"rating_count"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// AverageRating returns the mean of all ratings, or 0 when unrated.
func (t *Title) AverageRating() float64 {
	if t.RatingCount == 0 {
		return 0
	}
	return float64(t.RatingSum) / float64(t.RatingCount)
}

// Rating bounds for RateTitle.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating records one user's rating of one title. At most one rating per
// (title, user) pair exists; re-rating replaces the value.
type Rating struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TitleID   string    `json:"title_id" bson:"title_id"`
	Username  string    `json:"username" bson:"username"`
	Value     int       `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Slugify converts a title name to its URL-safe slug form: lowercase,
// ASCII letters and digits kept, every other run of characters collapsed
// to a single hyphen. The result carries no leading or trailing hyphen.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
