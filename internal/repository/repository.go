package repository

import (
	"context"
	"errors"
	"time"

	"vocabbot/internal/domain"
)

var (
	// ErrDuplicate is returned when a uniqueness constraint rejects a write
	ErrDuplicate = errors.New("record already exists")
	// ErrNotFound is returned when a write targets a missing row
	ErrNotFound = errors.New("record not found")
)

// RemovedEntries counts the dictionary rows a cascade delete removed, per user
type RemovedEntries map[int64]int64

// Of returns how many of userID's rows were removed
func (r RemovedEntries) Of(userID int64) int64 {
	return r[userID]
}

// Total returns the number of removed rows of all users
func (r RemovedEntries) Total() int64 {
	var n int64
	for _, c := range r {
		n += c
	}
	return n
}

// UserRepository defines user data operations
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, userID int64) (*domain.User, error)
	UserIDByReferralCode(ctx context.Context, code string) (int64, error)
	SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error)
	SetLearnedWordsCount(ctx context.Context, userID int64, count int) error
	SetTopicsCount(ctx context.Context, userID int64, count int) error
	ExpireElite(ctx context.Context, userID int64, startedBefore time.Time) (bool, error)
	ExpireEliteBefore(ctx context.Context, startedBefore time.Time) (int64, error)
	TopByLearnedWords(ctx context.Context, limit int) ([]domain.User, error)
}

// TopicRepository defines topic data operations
type TopicRepository interface {
	Create(ctx context.Context, authorID int64, content string, visible bool) (*domain.Topic, error)
	Get(ctx context.Context, topicID int64) (*domain.Topic, error)
	Search(ctx context.Context, userID int64, query string) ([]domain.Topic, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
	SetVisible(ctx context.Context, topicID, authorID int64, visible bool) error
	DeleteCascade(ctx context.Context, topicID, authorID int64) (RemovedEntries, error)
}

// DictionaryRepository defines dictionary entry operations
type DictionaryRepository interface {
	Add(ctx context.Context, entry domain.Entry) error
	ListByTopic(ctx context.Context, userID, topicID int64) ([]domain.Entry, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountByTopic(ctx context.Context, userID, topicID int64) (int, error)
	Delete(ctx context.Context, userID, topicID int64, word string) (bool, error)
}

// ReferenceRepository reads static grammar reference data
type ReferenceRepository interface {
	FindVerb(ctx context.Context, form string) (*domain.IrregularVerb, error)
	RandomVerb(ctx context.Context) (*domain.IrregularVerb, error)
	Tenses(ctx context.Context) ([]domain.Tense, error)
	Tense(ctx context.Context, name string) (*domain.Tense, error)
}
