package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/client-service/internal/events"
	"github.com/eaglebank/client-service/internal/repository"
)

type fakeActivityStore struct {
	counts  map[string]map[string]int
	deleted []string
	err     error
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{counts: map[string]map[string]int{}}
}

func (f *fakeActivityStore) Increment(_ context.Context, clientID, field string) error {
	if f.err != nil {
		return f.err
	}
	if f.counts[clientID] == nil {
		f.counts[clientID] = map[string]int{}
	}
	f.counts[clientID][field]++
	return nil
}

func (f *fakeActivityStore) Delete(_ context.Context, clientID string) error {
	delete(f.counts, clientID)
	f.deleted = append(f.deleted, clientID)
	return nil
}

// event mimics what arrives off the stream: Data as a decoded JSON map.
func event(eventType string, data map[string]any) events.Event {
	return events.Event{Type: eventType, Timestamp: time.Now(), Data: data}
}

func TestHandleClientEventCountsActivity(t *testing.T) {
	store := newFakeActivityStore()
	p := NewActivityProjector(store)
	ctx := context.Background()

	stream := []events.Event{
		event(events.ClientCreated, map[string]any{"clientId": "c1", "fname": "Harvey"}),
		event(events.AccountCreated, map[string]any{"clientId": "c1", "accName": "beerMoney", "balance": 400.0}),
		event(events.FundsDeposited, map[string]any{"clientId": "c1", "accName": "beerMoney", "amount": 100.0}),
		event(events.FundsWithdrawn, map[string]any{"clientId": "c1", "accName": "beerMoney", "amount": 499.0}),
		event(events.FundsDeposited, map[string]any{"clientId": "c1", "accName": "beerMoney", "amount": 1.0}),
		event(events.ClientUpdated, map[string]any{"clientId": "c1", "fname": "Harv"}),
		event(events.AccountDeleted, map[string]any{"clientId": "c1", "accName": "beerMoney"}),
	}
	for _, e := range stream {
		require.NoError(t, p.HandleClientEvent(ctx, e))
	}

	assert.Equal(t, map[string]int{
		repository.ActivityAccountsCreated: 1,
		repository.ActivityDeposits:        2,
		repository.ActivityWithdrawals:     1,
		repository.ActivityUpdates:         1,
		repository.ActivityAccountsDeleted: 1,
	}, store.counts["c1"])
}

func TestHandleClientEventDropsActivityOnDelete(t *testing.T) {
	store := newFakeActivityStore()
	p := NewActivityProjector(store)
	ctx := context.Background()

	require.NoError(t, p.HandleClientEvent(ctx, event(events.FundsDeposited, map[string]any{"clientId": "c1"})))
	require.NoError(t, p.HandleClientEvent(ctx, event(events.ClientDeleted, map[string]any{"clientId": "c1"})))

	assert.NotContains(t, store.counts, "c1")
	assert.Equal(t, []string{"c1"}, store.deleted)
}

func TestHandleClientEventErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing client id", func(t *testing.T) {
		p := NewActivityProjector(newFakeActivityStore())
		assert.Error(t, p.HandleClientEvent(ctx, event(events.FundsDeposited, map[string]any{"amount": 1.0})))
	})

	t.Run("store failure is returned for redelivery", func(t *testing.T) {
		store := newFakeActivityStore()
		store.err = errors.New("redis down")
		p := NewActivityProjector(store)
		assert.ErrorIs(t, p.HandleClientEvent(ctx, event(events.FundsDeposited, map[string]any{"clientId": "c1"})), store.err)
	})
}
