package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"vocabbot/internal/domain"
)

const (
	keyPrefix    = "session:"
	fieldState   = "state"
	fieldPayload = "payload"
)

// RedisStore keeps sessions in a Redis hash per user so they survive
// restarts and can be shared between bot instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on top of client. A positive ttl expires
// sessions that saw no writes for that long.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

// State returns the stored state tag, idle if none.
// Unknown tags are returned unchanged.
func (s *RedisStore) State(ctx context.Context, userID int64) (domain.StateTag, error) {
	val, err := s.client.HGet(ctx, sessionKey(userID), fieldState).Result()
	if errors.Is(err, redis.Nil) {
		return domain.StateIdle, nil
	}
	if err != nil {
		return "", fmt.Errorf("get session state: %w", err)
	}
	if val == "" {
		return domain.StateIdle, nil
	}
	return domain.StateTag(val), nil
}

// SetState stores the state tag and refreshes the TTL
func (s *RedisStore) SetState(ctx context.Context, userID int64, state domain.StateTag) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldState, string(state))
		s.touch(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set session state: %w", err)
	}
	return nil
}

// Payload decodes the stored payload
func (s *RedisStore) Payload(ctx context.Context, userID int64) (domain.Payload, error) {
	var p domain.Payload
	raw, err := s.client.HGet(ctx, sessionKey(userID), fieldPayload).Bytes()
	if errors.Is(err, redis.Nil) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("get session payload: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Payload{}, fmt.Errorf("decode session payload: %w", err)
	}
	return p, nil
}

// MergePayload reads, merges and writes back the payload. A user's events
// are handled one at a time, so the read-modify-write does not race.
func (s *RedisStore) MergePayload(ctx context.Context, userID int64, part domain.Payload) error {
	p, err := s.Payload(ctx, userID)
	if err != nil {
		return err
	}
	p.Merge(part)

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode session payload: %w", err)
	}

	key := sessionKey(userID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldPayload, raw)
		s.touch(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set session payload: %w", err)
	}
	return nil
}

// Clear deletes the session key
func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) touch(ctx context.Context, pipe redis.Pipeliner, key string) {
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}
