package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogotex/docstore/internal/document"
	"github.com/redis/go-redis/v9"
)

// RedisRepo stores each document as JSON under "<prefix><id>". A sorted set
// "<prefix>index" scored by a monotonically increasing sequence keeps
// first-insertion order for Search.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisRepo creates a Redis-backed repository. Prefix may be empty.
func NewRedisRepo(client *redis.Client, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = "doc:"
	}
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) key(id string) string { return r.prefix + "item:" + id }
func (r *RedisRepo) indexKey() string     { return r.prefix + "index" }
func (r *RedisRepo) seqKey() string       { return r.prefix + "seq" }

func (r *RedisRepo) Save(ctx context.Context, d document.Document) (document.Document, error) {
	d = assignID(d)
	b, err := json.Marshal(d)
	if err != nil {
		return document.Document{}, fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: next sequence: %v", ErrBackend, err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(d.ID), b, 0)
		// NX keeps the original position when an existing id is overwritten
		pipe.ZAddNX(ctx, r.indexKey(), redis.Z{Score: float64(seq), Member: d.ID})
		return nil
	})
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: save %s: %v", ErrBackend, d.ID, err)
	}
	return d, nil
}

func (r *RedisRepo) FindByID(ctx context.Context, id string) (*document.Document, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrBackend, id, err)
	}
	var d document.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &d, nil
}

// Search loads every indexed document and filters it with req.Matches.
func (r *RedisRepo) Search(ctx context.Context, req document.SearchRequest) ([]document.Document, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list index: %v", ErrBackend, err)
	}
	out := []document.Document{}
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load documents: %v", ErrBackend, err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// index entry without a body; skip it
			continue
		}
		var d document.Document
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", ids[i], err)
		}
		if req.Matches(d) {
			out = append(out, d)
		}
	}
	return out, nil
}
