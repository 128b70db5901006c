// Package projection keeps read-side views in step with the client event stream.
package projection

import (
	"context"
	"fmt"
	"log"

	"github.com/eaglebank/client-service/internal/events"
	"github.com/eaglebank/client-service/internal/repository"
)

// ActivityStore is the write side of the per-client activity counters.
type ActivityStore interface {
	Increment(ctx context.Context, clientID, field string) error
	Delete(ctx context.Context, clientID string) error
}

// ActivityProjector counts what happened to each client.
type ActivityProjector struct {
	store ActivityStore
}

func NewActivityProjector(store ActivityStore) *ActivityProjector {
	return &ActivityProjector{store: store}
}

var counterFor = map[string]string{
	events.ClientUpdated:  repository.ActivityUpdates,
	events.AccountCreated: repository.ActivityAccountsCreated,
	events.AccountDeleted: repository.ActivityAccountsDeleted,
	events.FundsDeposited: repository.ActivityDeposits,
	events.FundsWithdrawn: repository.ActivityWithdrawals,
}

// HandleClientEvent is the subscriber handler for events.ClientEventsStream.
// Returning an error leaves the message unacknowledged for redelivery.
func (p *ActivityProjector) HandleClientEvent(ctx context.Context, event events.Event) error {
	var ref struct {
		ClientID string `json:"clientId"`
	}
	if err := event.Decode(&ref); err != nil {
		return err
	}
	if ref.ClientID == "" {
		return fmt.Errorf("%s event without clientId", event.Type)
	}

	if event.Type == events.ClientDeleted {
		log.Printf("Client %s deleted, dropping activity", ref.ClientID)
		return p.store.Delete(ctx, ref.ClientID)
	}
	field, ok := counterFor[event.Type]
	if !ok {
		return nil
	}
	return p.store.Increment(ctx, ref.ClientID, field)
}
