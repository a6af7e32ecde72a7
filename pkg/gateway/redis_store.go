package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "assistant:cache:"

// redisStore keeps each partition as one Redis hash, so partitions can be
// enumerated and dropped atomically across service instances.
type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore returns a Store backed by Redis hashes under
// "assistant:cache:<partition>".
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Open(name string) (Partition, error) {
	return &redisPartition{rdb: s.rdb, key: redisKeyPrefix + name}, nil
}

func (s *redisStore) Drop(name string) error {
	return s.rdb.Del(context.Background(), redisKeyPrefix+name).Err()
}

func (s *redisStore) Names() ([]string, error) {
	ctx := context.Background()
	var names []string
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan cache partitions: %w", err)
	}
	return names, nil
}

type redisPartition struct {
	rdb *redis.Client
	key string
}

func (p *redisPartition) Get(key string) (*Entry, bool) {
	raw, err := p.rdb.HGet(context.Background(), p.key, key).Bytes()
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

func (p *redisPartition) Put(key string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return p.rdb.HSet(context.Background(), p.key, key, raw).Err()
}

func (p *redisPartition) Delete(key string) error {
	return p.rdb.HDel(context.Background(), p.key, key).Err()
}

func (p *redisPartition) Count() (int, error) {
	n, err := p.rdb.HLen(context.Background(), p.key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
