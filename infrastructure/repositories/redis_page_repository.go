package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"todoblog/domain/contracts"
	"todoblog/domain/pages"
)

const (
	redisPageKeyPrefix = "todoblog:page:"
	redisPageIndexKey  = "todoblog:pages"
)

// RedisPageRepository stores each page as a JSON value and keeps a set of paths.
// A zero ttl keeps pages until they are deleted.
type RedisPageRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contracts.PageRepository = (*RedisPageRepository)(nil)

// NewRedisPageRepository creates a page repository over client.
func NewRedisPageRepository(client *redis.Client, ttl time.Duration) *RedisPageRepository {
	return &RedisPageRepository{client: client, ttl: ttl}
}

func (r *RedisPageRepository) Get(ctx context.Context, path string) (*pages.PageRecord, error) {
	raw, err := r.client.Get(ctx, redisPageKeyPrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contracts.ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", path, err)
	}

	var record pages.PageRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode page %s: %w", path, err)
	}
	return &record, nil
}

func (r *RedisPageRepository) Save(ctx context.Context, record *pages.PageRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", record.Path, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisPageKeyPrefix+record.Path, raw, r.ttl)
		pipe.SAdd(ctx, redisPageIndexKey, record.Path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save page %s: %w", record.Path, err)
	}
	return nil
}

func (r *RedisPageRepository) Delete(ctx context.Context, path string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisPageKeyPrefix+path)
		pipe.SRem(ctx, redisPageIndexKey, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete page %s: %w", path, err)
	}
	return nil
}

// ListPaths returns indexed paths whose page has not expired.
func (r *RedisPageRepository) ListPaths(ctx context.Context) ([]string, error) {
	paths, err := r.client.SMembers(ctx, redisPageIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	live := make([]string, 0, len(paths))
	for _, path := range paths {
		n, err := r.client.Exists(ctx, redisPageKeyPrefix+path).Result()
		if err != nil {
			return nil, fmt.Errorf("check page %s: %w", path, err)
		}
		if n > 0 {
			live = append(live, path)
		} else {
			r.client.SRem(ctx, redisPageIndexKey, path)
		}
	}
	sort.Strings(live)
	return live, nil
}
