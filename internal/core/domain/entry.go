package domain

import "time"

// VoteDirection is the direction of a vote on an entry.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// IsValid reports whether d is "up" or "down".
func (d VoteDirection) IsValid() bool {
	return d == VoteUp || d == VoteDown
}

// Entry is a single post under a title.
type Entry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TitleID   string    `json:"title_id" bson:"title_id"`
	Author    string    `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	UpVotes   int64     `json:"up_votes" bson:"up_votes"`
	DownVotes int64     `json:"down_votes" bson:"down_votes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NetVotes returns up votes minus down votes.
func (e *Entry) NetVotes() int64 {
	return e.UpVotes - e.DownVotes
}

// Vote records one user's active vote on one entry. A user holds at most
// one vote per entry; switching direction requires an explicit undo first.
type Vote struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	EntryID   string        `json:"entry_id" bson:"entry_id"`
	Username  string        `json:"username" bson:"username"`
	Direction VoteDirection `json:"direction" bson:"direction"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}
