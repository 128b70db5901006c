package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DocumentCache is a JSON-backed Redis cache for whole documents of type T,
// keyed by prefix+id. A ttl of 0 means entries never expire on their own.
//
// Read failures are logged and treated as a miss. Set and Delete return their
// errors so a caller invalidating an entry can tell it is still there.
type DocumentCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewDocumentCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *DocumentCache[T] {
	return &DocumentCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *DocumentCache[T]) key(id string) string {
	return c.prefix + id
}

// Get returns the cached document for id and whether it was found.
func (c *DocumentCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("DocumentCache: read error for key %s: %v", c.key(id), err)
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("DocumentCache: dropping undecodable entry %s: %v", c.key(id), err)
		if err := c.Delete(ctx, id); err != nil {
			log.Printf("DocumentCache: %v", err)
		}
		return nil, false
	}
	return &v, true
}

func (c *DocumentCache[T]) Set(ctx context.Context, id string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error for key %s: %w", c.key(id), err)
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write error for key %s: %w", c.key(id), err)
	}
	return nil
}

func (c *DocumentCache[T]) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("delete error for key %s: %w", c.key(id), err)
	}
	return nil
}
