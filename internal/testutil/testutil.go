package testutil

import (
	"time"

	"go.uber.org/zap"

	"vocabbot/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, name string) *domain.User {
	return &domain.User{
		UserID:       userID,
		FullName:     name,
		ReferralCode: "code" + name,
		CreatedAt:    time.Now(),
	}
}

// NewTestTopic creates a test topic
func NewTestTopic(id, authorID int64, content string, visible bool) *domain.Topic {
	return &domain.Topic{
		ID:       id,
		AuthorID: authorID,
		Content:  content,
		Visible:  visible,
	}
}

// NewTestEntry creates a test dictionary entry
func NewTestEntry(userID, topicID int64, word, translation string) domain.Entry {
	return domain.Entry{
		UserID:      userID,
		TopicID:     topicID,
		Word:        word,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
}
