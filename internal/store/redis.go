package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amishk599/skillsift/internal/model"
)

// RedisStore persists skill embeddings in Redis with an expiry.
type RedisStore struct {
	rdb   *redis.Client
	model string
	ttl   time.Duration
}

// NewRedisStore connects to redisURL and verifies the server answers.
func NewRedisStore(ctx context.Context, redisURL, embeddingModel string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", opts.Addr, err)
	}

	return &RedisStore{rdb: rdb, model: embeddingModel, ttl: ttl}, nil
}

func (s *RedisStore) key(skill string) string {
	return embeddingKey(s.model, skill)
}

func embeddingKey(embeddingModel, skill string) string {
	return "skillsift:emb:" + embeddingModel + ":" + skill
}

// Load returns the stored embedding for skill, if any.
func (s *RedisStore) Load(ctx context.Context, skill string) (model.Embedding, bool, error) {
	data, err := s.rdb.Get(ctx, s.key(skill)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", skill, err)
	}
	e, err := decodeEmbedding(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding embedding for %q: %w", skill, err)
	}
	return e, true, nil
}

// Save stores the embedding for skill. A zero ttl keeps it forever.
func (s *RedisStore) Save(ctx context.Context, skill string, e model.Embedding) error {
	if err := s.rdb.Set(ctx, s.key(skill), encodeEmbedding(e), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", skill, err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
