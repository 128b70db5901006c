package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eaglebank/client-service/internal/models"
	rediscache "github.com/eaglebank/client-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const clientDocKeyPrefix = "client:doc:"

// CachedClientStore serves GetByID from Redis and falls back to the wrapped
// store, warming the cache on every cold read.
//
// Writes never put a document into the cache. Replace and Delete drop the
// cached copy before writing and again afterwards, and refuse to write when
// the first drop fails, so a stale document cannot outlive a write made
// through this store.
type CachedClientStore struct {
	inner ClientStore
	cache *rediscache.DocumentCache[models.Client]
}

func NewCachedClientStore(inner ClientStore, redisClient *goredis.Client, ttl time.Duration) *CachedClientStore {
	return &CachedClientStore{
		inner: inner,
		cache: rediscache.NewDocumentCache[models.Client](redisClient, clientDocKeyPrefix, ttl),
	}
}

func (s *CachedClientStore) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	return s.inner.Create(ctx, client)
}

func (s *CachedClientStore) GetAll(ctx context.Context) ([]models.Client, error) {
	return s.inner.GetAll(ctx)
}

func (s *CachedClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		if cached.Accounts == nil {
			cached.Accounts = []models.Account{}
		}
		return cached, nil
	}
	client, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, id, client); err != nil {
		log.Printf("CachedClientStore: %v", err)
	}
	return client, nil
}

func (s *CachedClientStore) Replace(ctx context.Context, id string, client *models.Client) (*models.Client, error) {
	if err := s.cache.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to invalidate cached client %s: %w", id, err)
	}
	updated, err := s.inner.Replace(ctx, id, client)
	s.evict(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CachedClientStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.cache.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("failed to invalidate cached client %s: %w", id, err)
	}
	ok, err := s.inner.Delete(ctx, id)
	s.evict(ctx, id)
	return ok, err
}

// evict drops an entry a concurrent cold read may have put back while the
// write was in flight.
func (s *CachedClientStore) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Printf("CachedClientStore: %v", err)
	}
}
