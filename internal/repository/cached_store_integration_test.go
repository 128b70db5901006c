//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/eaglebank/client-service/internal/models"
)

type CachedClientStoreSuite struct {
	suite.Suite
	redis *goredis.Client
	inner *MemoryClientStore
	store *CachedClientStore
	ctx   context.Context
}

func TestCachedClientStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedClientStoreSuite))
}

func (s *CachedClientStoreSuite) SetupSuite() {
	s.redis = startRedis(s.T())
	s.ctx = context.Background()
}

func (s *CachedClientStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx).Err())
	s.inner = NewMemoryClientStore()
	s.store = NewCachedClientStore(s.inner, s.redis, 0)
}

func (s *CachedClientStoreSuite) TestReplaceDropsCachedDocument() {
	created, err := s.store.Create(s.ctx, &models.Client{Fname: "Harvey"})
	s.Require().NoError(err)
	_, err = s.store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), s.redis.Exists(s.ctx, clientDocKeyPrefix+created.ID).Val())

	doc := created.Clone()
	doc.Accounts = append(doc.Accounts, models.Account{AccName: "beerMoney", Balance: 400})
	_, err = s.store.Replace(s.ctx, created.ID, doc)
	s.Require().NoError(err)
	s.Equal(int64(0), s.redis.Exists(s.ctx, clientDocKeyPrefix+created.ID).Val())

	loaded, err := s.store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(doc.Accounts, loaded.Accounts)
}

func (s *CachedClientStoreSuite) TestFailedCacheWritesNeverServeStaleDocuments() {
	hook := &failingCommands{}
	flaky := goredis.NewClient(s.redis.Options())
	defer flaky.Close()
	flaky.AddHook(hook)
	store := NewCachedClientStore(s.inner, flaky, 0)

	created, err := store.Create(s.ctx, &models.Client{Fname: "Harvey"})
	s.Require().NoError(err)
	withBalance := func(balance float64) *models.Client {
		doc := created.Clone()
		doc.Accounts = []models.Account{{AccName: "moneyBag", Balance: balance}}
		return doc
	}

	_, err = store.Replace(s.ctx, created.ID, withBalance(10))
	s.Require().NoError(err)
	warm, err := store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(10.0, warm.Accounts[0].Balance)

	// Cache writes failing: the replace goes through and the next read is fresh.
	hook.fail("set")
	_, err = store.Replace(s.ctx, created.ID, withBalance(500))
	s.Require().NoError(err)
	loaded, err := store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(500.0, loaded.Accounts[0].Balance)

	// Cache invalidation failing: the replace is refused and store and cache agree.
	hook.fail()
	_, err = store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), s.redis.Exists(s.ctx, clientDocKeyPrefix+created.ID).Val())
	hook.fail("del")
	_, err = store.Replace(s.ctx, created.ID, withBalance(900))
	s.Require().Error(err)

	hook.fail()
	stored, err := s.inner.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	loaded, err = store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(500.0, stored.Accounts[0].Balance)
	s.Equal(stored.Accounts, loaded.Accounts)
}

func (s *CachedClientStoreSuite) TestColdReadWarmsCache() {
	created, err := s.inner.Create(s.ctx, &models.Client{Fname: "Harvey"})
	s.Require().NoError(err)
	s.Equal(int64(0), s.redis.Exists(s.ctx, clientDocKeyPrefix+created.ID).Val())

	_, err = s.store.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), s.redis.Exists(s.ctx, clientDocKeyPrefix+created.ID).Val())
}

func (s *CachedClientStoreSuite) TestDeleteEvictsDocument() {
	created, err := s.store.Create(s.ctx, &models.Client{Fname: "Harvey"})
	s.Require().NoError(err)

	_, err = s.store.Delete(s.ctx, created.ID)
	s.Require().NoError(err)

	_, err = s.store.GetByID(s.ctx, created.ID)
	s.Require().ErrorIs(err, apperr.ErrNotFound)
	s.Equal(int64(0), s.redis.Exists(s.ctx, clientDocKeyPrefix+created.ID).Val())
}

func (s *CachedClientStoreSuite) TestActivityCounters() {
	activity := NewActivityRepository(s.redis)

	s.Require().NoError(activity.Increment(s.ctx, "c1", ActivityDeposits))
	s.Require().NoError(activity.Increment(s.ctx, "c1", ActivityDeposits))
	s.Require().NoError(activity.Increment(s.ctx, "c1", ActivityAccountsCreated))

	got, err := activity.GetActivity(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(&models.ClientActivity{ClientID: "c1", Deposits: 2, AccountsCreated: 1}, got)

	s.Require().NoError(activity.Delete(s.ctx, "c1"))
	got, err = activity.GetActivity(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(&models.ClientActivity{ClientID: "c1"}, got)
}

// failingCommands makes the named Redis commands fail while leaving the rest
// untouched.
type failingCommands struct {
	mu    sync.Mutex
	names map[string]bool
}

func (h *failingCommands) fail(names ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = map[string]bool{}
	for _, name := range names {
		h.names[name] = true
	}
}

func (h *failingCommands) DialHook(next goredis.DialHook) goredis.DialHook {
	return next
}

func (h *failingCommands) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		h.mu.Lock()
		failing := h.names[cmd.Name()]
		h.mu.Unlock()
		if failing {
			err := errors.New("LOADING Redis is loading the dataset in memory")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h *failingCommands) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return next
}
