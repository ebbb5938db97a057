package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UserIDByReferralCode(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error) {
	args := m.Called(ctx, userID, referrerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetLearnedWordsCount(ctx context.Context, userID int64, count int) error {
	args := m.Called(ctx, userID, count)
	return args.Error(0)
}

func (m *MockUserRepository) SetTopicsCount(ctx context.Context, userID int64, count int) error {
	args := m.Called(ctx, userID, count)
	return args.Error(0)
}

func (m *MockUserRepository) ExpireElite(ctx context.Context, userID int64, startedBefore time.Time) (bool, error) {
	args := m.Called(ctx, userID, startedBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExpireEliteBefore(ctx context.Context, startedBefore time.Time) (int64, error) {
	args := m.Called(ctx, startedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) TopByLearnedWords(ctx context.Context, limit int) ([]domain.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockTopicRepository is a mock for TopicRepository
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) Create(ctx context.Context, authorID int64, content string, visible bool) (*domain.Topic, error) {
	args := m.Called(ctx, authorID, content, visible)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) Get(ctx context.Context, topicID int64) (*domain.Topic, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) Search(ctx context.Context, userID int64, query string) ([]domain.Topic, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

func (m *MockTopicRepository) SetVisible(ctx context.Context, topicID, authorID int64, visible bool) error {
	args := m.Called(ctx, topicID, authorID, visible)
	return args.Error(0)
}

func (m *MockTopicRepository) DeleteCascade(ctx context.Context, topicID, authorID int64) (repository.RemovedEntries, error) {
	args := m.Called(ctx, topicID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.RemovedEntries), args.Error(1)
}

// MockDictionaryRepository is a mock for DictionaryRepository
type MockDictionaryRepository struct {
	mock.Mock
}

func (m *MockDictionaryRepository) Add(ctx context.Context, entry domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDictionaryRepository) ListByTopic(ctx context.Context, userID, topicID int64) ([]domain.Entry, error) {
	args := m.Called(ctx, userID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockDictionaryRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockDictionaryRepository) CountByTopic(ctx context.Context, userID, topicID int64) (int, error) {
	args := m.Called(ctx, userID, topicID)
	return args.Int(0), args.Error(1)
}

func (m *MockDictionaryRepository) Delete(ctx context.Context, userID, topicID int64, word string) (bool, error) {
	args := m.Called(ctx, userID, topicID, word)
	return args.Bool(0), args.Error(1)
}

// MockReferenceRepository is a mock for ReferenceRepository
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) FindVerb(ctx context.Context, form string) (*domain.IrregularVerb, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IrregularVerb), args.Error(1)
}

func (m *MockReferenceRepository) RandomVerb(ctx context.Context) (*domain.IrregularVerb, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IrregularVerb), args.Error(1)
}

func (m *MockReferenceRepository) Tenses(ctx context.Context) ([]domain.Tense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tense), args.Error(1)
}

func (m *MockReferenceRepository) Tense(ctx context.Context, name string) (*domain.Tense, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tense), args.Error(1)
}
