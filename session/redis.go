package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session slots in Redis.
const DefaultRedisPrefix = "osd:session"

// RedisStore is a Redis-backed [Store]. The whole session is written in a
// single transactional pipeline, so a login either lands completely or not
// at all.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore on the given client. An empty prefix
// falls back to [DefaultRedisPrefix].
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{redis: client, prefix: prefix}
}

func (s *RedisStore) key(slot string) string {
	return s.prefix + ":" + slot
}

// Save persists the session as an ordered batch inside one MULTI/EXEC.
// Empty slots are deleted so no residue from a prior login survives.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	slots := sess.Slots()
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, slot := range slotKeys() {
			if value := slots[slot]; value != "" {
				pipe.Set(ctx, s.key(slot), value, 0)
			} else {
				pipe.Del(ctx, s.key(slot))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Get returns the value of a single slot, or ErrNotFound when unset.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, nil
}

// Load reads every slot and rebuilds the persisted session.
func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	keys := slotKeys()

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, slot := range keys {
		cmds[i] = pipe.Get(ctx, s.key(slot))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	slots := make(map[string]string, len(keys))
	for i, cmd := range cmds {
		value, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		slots[keys[i]] = value
	}

	return fromSlots(slots)
}

// Clear removes every slot.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(slotKeys()))
	for _, slot := range slotKeys() {
		keys = append(keys, s.key(slot))
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
