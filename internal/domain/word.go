package domain

import "time"

// Entry is one word/translation pair in a user's dictionary.
// (UserID, TopicID, Word) identifies it.
type Entry struct {
	UserID      int64
	TopicID     int64
	Word        string
	Translation string
	CreatedAt   time.Time
}

// Topic groups dictionary entries
type Topic struct {
	ID       int64
	AuthorID int64
	Content  string
	Visible  bool
}

// OwnedBy reports whether userID created the topic
func (t *Topic) OwnedBy(userID int64) bool {
	return t.AuthorID == userID
}

// VisibleTo reports whether userID may see the topic
func (t *Topic) VisibleTo(userID int64) bool {
	return t.Visible || t.AuthorID == userID
}
