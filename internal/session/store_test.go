package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabbot/internal/domain"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t, 0)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStore_DefaultsToIdle(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			state, err := s.State(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, domain.StateIdle, state)

			payload, err := s.Payload(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, domain.Payload{}, payload)
		})
	}
}

func TestStore_SetStateAndMergePayload(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := int64(123)

			require.NoError(t, s.SetState(ctx, userID, domain.StateAwaitingWord))
			require.NoError(t, s.MergePayload(ctx, userID, domain.Payload{
				Word: &domain.WordDraft{TopicID: 7, TopicName: "Animals"},
			}))
			require.NoError(t, s.MergePayload(ctx, userID, domain.Payload{
				Quiz: &domain.QuizItem{TopicID: 7, Direction: domain.DirectionEnRu, Prompt: "cat", Answers: []string{"кот"}},
			}))

			state, err := s.State(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, domain.StateAwaitingWord, state)

			payload, err := s.Payload(ctx, userID)
			require.NoError(t, err)
			require.NotNil(t, payload.Word)
			assert.Equal(t, "Animals", payload.Word.TopicName)
			require.NotNil(t, payload.Quiz)
			assert.Equal(t, []string{"кот"}, payload.Quiz.Answers)

			require.NoError(t, s.SetState(ctx, userID, domain.StateAwaitingTranslation))
			payload, err = s.Payload(ctx, userID)
			require.NoError(t, err)
			assert.NotNil(t, payload.Word, "state change keeps payload")
		})
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := int64(123)

			assert.NoError(t, s.Clear(ctx, userID))

			require.NoError(t, Transition(ctx, s, userID, domain.StateQuizRuEn, domain.Payload{
				Quiz: &domain.QuizItem{TopicID: 1},
			}))
			assert.NoError(t, s.Clear(ctx, userID))
			assert.NoError(t, s.Clear(ctx, userID))

			state, err := s.State(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, domain.StateIdle, state)

			payload, err := s.Payload(ctx, userID)
			require.NoError(t, err)
			assert.Nil(t, payload.Quiz)
		})
	}
}

func TestStore_UsersAreIsolated(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.SetState(ctx, 1, domain.StateAwaitingTopicName))
			require.NoError(t, s.SetState(ctx, 2, domain.StateQuizEnRu))
			require.NoError(t, s.Clear(ctx, 1))

			state, err := s.State(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, domain.StateQuizEnRu, state)
		})
	}
}

func TestStore_ConcurrentUsers(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup

			for i := int64(1); i <= 20; i++ {
				wg.Add(1)
				go func(userID int64) {
					defer wg.Done()
					name := fmt.Sprintf("topic-%d", userID)
					_ = Transition(ctx, s, userID, domain.StateAwaitingWord, domain.Payload{
						Word: &domain.WordDraft{TopicID: userID, TopicName: name},
					})
				}(i)
			}
			wg.Wait()

			for i := int64(1); i <= 20; i++ {
				payload, err := s.Payload(ctx, i)
				require.NoError(t, err)
				require.NotNil(t, payload.Word)
				assert.Equal(t, i, payload.Word.TopicID)
			}
		})
	}
}

func TestRedisStore_UnknownStateIsReturnedAsIs(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	mr.HSet(sessionKey(5), fieldState, "waiting_for_topic_name")

	state, err := s.State(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, domain.StateTag("waiting_for_topic_name"), state)
	assert.False(t, state.Valid())
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	mr.HSet(sessionKey(5), fieldPayload, "{not json")

	_, err := s.Payload(context.Background(), 5)

	assert.Error(t, err)
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.SetState(ctx, 5, domain.StateAwaitingTopicName))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey(5)))

	mr.FastForward(2 * time.Hour)

	state, err := s.State(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, state)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	mr.Close()

	_, err := s.State(context.Background(), 5)
	assert.Error(t, err)
	assert.Error(t, s.SetState(context.Background(), 5, domain.StateIdle))
}
