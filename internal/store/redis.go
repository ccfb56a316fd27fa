package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/jurybot/internal/festival"
)

const defaultRedisKey = "jurybot:" + DocumentID

// RedisStore mirrors the document under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore stores under key, or jurybot:bot_data when key is empty.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, doc festival.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving document to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (festival.Document, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return festival.Document{}, false, nil
	}
	if err != nil {
		return festival.Document{}, false, fmt.Errorf("loading document from redis: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return festival.Document{}, false, err
	}
	return doc, true, nil
}
