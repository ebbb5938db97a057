package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// FakeStore is an in-memory store enforcing the same uniqueness rules as the
// database schema. It backs end-to-end dialogue tests.
type FakeStore struct {
	mu          sync.Mutex
	users       map[int64]*domain.User
	topics      map[int64]*domain.Topic
	nextTopicID int64
	entries     []domain.Entry
	verbs       []domain.IrregularVerb
	tenses      []domain.Tense

	// Fail, when set, is returned by every dictionary write
	Fail error
}

// NewFakeStore creates an empty fake store
func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:  make(map[int64]*domain.User),
		topics: make(map[int64]*domain.Topic),
	}
}

// Users returns the store as a repository.UserRepository
func (s *FakeStore) Users() *FakeUsers { return &FakeUsers{s} }

// Topics returns the store as a repository.TopicRepository
func (s *FakeStore) Topics() *FakeTopics { return &FakeTopics{s} }

// Dictionary returns the store as a repository.DictionaryRepository
func (s *FakeStore) Dictionary() *FakeDictionary { return &FakeDictionary{s} }

// Reference returns the store as a repository.ReferenceRepository
func (s *FakeStore) Reference() *FakeReference { return &FakeReference{s} }

// AddVerb seeds an irregular verb
func (s *FakeStore) AddVerb(v domain.IrregularVerb) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verbs = append(s.verbs, v)
}

// AddTense seeds a tense
func (s *FakeStore) AddTense(t domain.Tense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenses = append(s.tenses, t)
}

// TopicsNamed counts the author's topics with exactly this content
func (s *FakeStore) TopicsNamed(authorID int64, content string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.topics {
		if t.AuthorID == authorID && t.Content == content {
			n++
		}
	}
	return n
}

// EntriesIn counts the dictionary rows under the topic for all users
func (s *FakeStore) EntriesIn(topicID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.TopicID == topicID {
			n++
		}
	}
	return n
}

// User returns a copy of the stored user or nil
func (s *FakeStore) User(userID int64) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// SetElite grants elite status started at the given time
func (s *FakeStore) SetElite(userID int64, startedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Elite = true
		u.EliteStartedAt = &startedAt
	}
}

// FakeUsers implements repository.UserRepository
type FakeUsers struct{ s *FakeStore }

func (f *FakeUsers) Upsert(_ context.Context, user *domain.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if u, ok := f.s.users[user.UserID]; ok {
		u.Username = user.Username
		u.FullName = user.FullName
		return nil
	}
	for _, u := range f.s.users {
		if u.ReferralCode == user.ReferralCode {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	cp.CreatedAt = time.Now()
	f.s.users[user.UserID] = &cp
	return nil
}

func (f *FakeUsers) Get(_ context.Context, userID int64) (*domain.User, error) {
	return f.s.User(userID), nil
}

func (f *FakeUsers) UserIDByReferralCode(_ context.Context, code string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.ReferralCode == code {
			return u.UserID, nil
		}
	}
	return 0, nil
}

func (f *FakeUsers) SetReferrer(_ context.Context, userID, referrerID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[userID]
	if !ok || u.ReferredBy != nil || userID == referrerID {
		return false, nil
	}
	u.ReferredBy = &referrerID
	return true, nil
}

func (f *FakeUsers) SetLearnedWordsCount(_ context.Context, userID int64, count int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u, ok := f.s.users[userID]; ok {
		u.LearnedWordsCount = count
	}
	return nil
}

func (f *FakeUsers) SetTopicsCount(_ context.Context, userID int64, count int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u, ok := f.s.users[userID]; ok {
		u.TopicsCount = count
	}
	return nil
}

func expire(u *domain.User, startedBefore time.Time) bool {
	if !u.Elite || u.EliteStartedAt == nil || u.EliteStartedAt.After(startedBefore) {
		return false
	}
	u.Elite = false
	u.EliteStartedAt = nil
	return true
}

func (f *FakeUsers) ExpireElite(_ context.Context, userID int64, startedBefore time.Time) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[userID]
	if !ok {
		return false, nil
	}
	return expire(u, startedBefore), nil
}

func (f *FakeUsers) ExpireEliteBefore(_ context.Context, startedBefore time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, u := range f.s.users {
		if expire(u, startedBefore) {
			n++
		}
	}
	return n, nil
}

func (f *FakeUsers) TopByLearnedWords(_ context.Context, limit int) ([]domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	users := make([]domain.User, 0, len(f.s.users))
	for _, u := range f.s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LearnedWordsCount != users[j].LearnedWordsCount {
			return users[i].LearnedWordsCount > users[j].LearnedWordsCount
		}
		return users[i].UserID < users[j].UserID
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// FakeTopics implements repository.TopicRepository
type FakeTopics struct{ s *FakeStore }

func (f *FakeTopics) Create(_ context.Context, authorID int64, content string, visible bool) (*domain.Topic, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, t := range f.s.topics {
		if t.AuthorID == authorID && t.Content == content {
			return nil, repository.ErrDuplicate
		}
	}
	f.s.nextTopicID++
	t := &domain.Topic{ID: f.s.nextTopicID, AuthorID: authorID, Content: content, Visible: visible}
	f.s.topics[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *FakeTopics) Get(_ context.Context, topicID int64) (*domain.Topic, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.topics[topicID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *FakeTopics) Search(_ context.Context, userID int64, query string) ([]domain.Topic, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	query = strings.ToLower(query)
	var out []domain.Topic
	for _, t := range f.s.topics {
		if !t.VisibleTo(userID) || !strings.Contains(strings.ToLower(t.Content), query) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Content != out[j].Content {
			return out[i].Content < out[j].Content
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *FakeTopics) CountByAuthor(_ context.Context, authorID int64) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	n := 0
	for _, t := range f.s.topics {
		if t.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (f *FakeTopics) SetVisible(_ context.Context, topicID, authorID int64, visible bool) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.topics[topicID]
	if !ok || t.AuthorID != authorID {
		return repository.ErrNotFound
	}
	t.Visible = visible
	return nil
}

func (f *FakeTopics) DeleteCascade(_ context.Context, topicID, authorID int64) (repository.RemovedEntries, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.topics[topicID]
	if !ok || t.AuthorID != authorID {
		return nil, repository.ErrNotFound
	}

	kept := f.s.entries[:0]
	removed := repository.RemovedEntries{}
	for _, e := range f.s.entries {
		if e.TopicID == topicID {
			removed[e.UserID]++
			continue
		}
		kept = append(kept, e)
	}
	f.s.entries = kept
	delete(f.s.topics, topicID)
	return removed, nil
}

// FakeDictionary implements repository.DictionaryRepository
type FakeDictionary struct{ s *FakeStore }

func (f *FakeDictionary) Add(_ context.Context, entry domain.Entry) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.Fail != nil {
		return f.s.Fail
	}
	for _, e := range f.s.entries {
		if e.UserID == entry.UserID && e.TopicID == entry.TopicID && e.Word == entry.Word {
			return repository.ErrDuplicate
		}
	}
	entry.CreatedAt = time.Now()
	f.s.entries = append(f.s.entries, entry)
	return nil
}

func (f *FakeDictionary) ListByTopic(_ context.Context, userID, topicID int64) ([]domain.Entry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Entry
	for _, e := range f.s.entries {
		if e.UserID == userID && e.TopicID == topicID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *FakeDictionary) CountByUser(_ context.Context, userID int64) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	n := 0
	for _, e := range f.s.entries {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *FakeDictionary) CountByTopic(_ context.Context, userID, topicID int64) (int, error) {
	entries, err := f.ListByTopic(context.Background(), userID, topicID)
	return len(entries), err
}

func (f *FakeDictionary) Delete(_ context.Context, userID, topicID int64, word string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.Fail != nil {
		return false, f.s.Fail
	}
	for i, e := range f.s.entries {
		if e.UserID == userID && e.TopicID == topicID && e.Word == word {
			f.s.entries = append(f.s.entries[:i], f.s.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// FakeReference implements repository.ReferenceRepository
type FakeReference struct{ s *FakeStore }

func (f *FakeReference) FindVerb(_ context.Context, form string) (*domain.IrregularVerb, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, v := range f.s.verbs {
		if strings.EqualFold(v.V1, form) || (v.V1Second != "" && strings.EqualFold(v.V1Second, form)) {
			cp := v
			return &cp, nil
		}
	}
	return nil, nil
}

// RandomVerb returns the first seeded verb so tests stay deterministic
func (f *FakeReference) RandomVerb(_ context.Context) (*domain.IrregularVerb, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if len(f.s.verbs) == 0 {
		return nil, nil
	}
	cp := f.s.verbs[0]
	return &cp, nil
}

func (f *FakeReference) Tenses(_ context.Context) ([]domain.Tense, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return append([]domain.Tense(nil), f.s.tenses...), nil
}

func (f *FakeReference) Tense(_ context.Context, name string) (*domain.Tense, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, t := range f.s.tenses {
		if t.Name == name {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

// ErrFake is a generic store failure for tests
var ErrFake = errors.New("fake store failure")

var (
	_ repository.UserRepository       = (*FakeUsers)(nil)
	_ repository.TopicRepository      = (*FakeTopics)(nil)
	_ repository.DictionaryRepository = (*FakeDictionary)(nil)
	_ repository.ReferenceRepository  = (*FakeReference)(nil)
)
