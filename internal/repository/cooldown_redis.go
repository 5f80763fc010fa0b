package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// RedisCooldownStore keeps cooldown entries in Redis, leaning on native key
// expiry so entries disappear on schedule even if no sweep runs.
type RedisCooldownStore struct {
	cli    *redis.Client
	prefix string
}

func NewRedisCooldownStore(cli *redis.Client, prefix string) *RedisCooldownStore {
	if prefix == "" {
		prefix = "fdx:cooldown:"
	}
	return &RedisCooldownStore{cli: cli, prefix: prefix}
}

func (s *RedisCooldownStore) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisCooldownStore) Get(ctx context.Context, key string) (*models.CooldownEntry, error) {
	b, err := s.cli.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get cooldown %s: %w", key, err)
	}
	var e models.CooldownEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode cooldown %s: %w", key, err)
	}
	return &e, nil
}

func (s *RedisCooldownStore) Put(ctx context.Context, entry *models.CooldownEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cooldown %s: %w", entry.Key(), err)
	}
	if err := s.cli.Set(ctx, s.redisKey(entry.Key()), b, ttl).Err(); err != nil {
		return fmt.Errorf("put cooldown %s: %w", entry.Key(), err)
	}
	return nil
}

func (s *RedisCooldownStore) Delete(ctx context.Context, key string) error {
	if err := s.cli.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("delete cooldown %s: %w", key, err)
	}
	return nil
}

// All scans the prefix and returns every live entry, used to rebuild the
// memory mirror on startup.
func (s *RedisCooldownStore) All(ctx context.Context) ([]*models.CooldownEntry, error) {
	var out []*models.CooldownEntry
	iter := s.cli.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.cli.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("scan cooldowns: %w", err)
		}
		var e models.CooldownEntry
		if err := json.Unmarshal(b, &e); err != nil {
			continue
		}
		out = append(out, &e)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan cooldowns: %w", err)
	}
	return out, nil
}

func (s *RedisCooldownStore) Health(ctx context.Context) error {
	return s.cli.Ping(ctx).Err()
}
