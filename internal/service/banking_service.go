// Package service holds the banking rules layered over the client store.
//
// Accounts live only inside their client's document. Every account operation
// loads the client, changes an in-memory copy of its accounts, validates, and
// writes the whole document back with Replace. Nothing is cached between calls,
// and concurrent writers to the same client follow last-writer-wins.
package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/eaglebank/client-service/internal/events"
	"github.com/eaglebank/client-service/internal/metrics"
	"github.com/eaglebank/client-service/internal/models"
	"github.com/eaglebank/client-service/internal/repository"
)

// EventPublisher is satisfied by *events.Publisher and events.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// ErrNilClient is returned when CreateClient or UpdateClient gets no client.
var ErrNilClient = errors.New("client details are required")

type BankingService struct {
	store     repository.ClientStore
	publisher EventPublisher
	metrics   *metrics.Metrics
}

func NewBankingService(store repository.ClientStore, publisher EventPublisher, m *metrics.Metrics) *BankingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BankingService{store: store, publisher: publisher, metrics: m}
}

// ---------- Clients ----------

// CreateClient stores a new client. Only the names are taken from client; the
// store assigns the id and starts it with no accounts.
func (s *BankingService) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	created, err := s.store.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementClientsCreated()
	s.publish(ctx, events.ClientCreated, events.ClientCreatedEvent{
		ClientID: created.ID,
		Fname:    created.Fname,
		Lname:    created.Lname,
	})
	return created, nil
}

func (s *BankingService) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return s.store.GetAll(ctx)
}

func (s *BankingService) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	return s.store.GetByID(ctx, clientID)
}

// UpdateClient replaces a client's details. The stored id and accounts always
// win over whatever the caller sent, so this path can never change accounts.
func (s *BankingService) UpdateClient(ctx context.Context, clientID string, client *models.Client) (updated *models.Client, err error) {
	defer func() { s.metrics.ObserveAccountOperation(metrics.OpUpdateClient, err) }()

	if client == nil {
		return nil, ErrNilClient
	}
	existing, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	doc := client.Clone()
	doc.ID = existing.ID
	doc.Accounts = existing.Accounts

	updated, err = s.store.Replace(ctx, existing.ID, doc)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.ClientUpdated, events.ClientUpdatedEvent{
		ClientID: updated.ID,
		Fname:    updated.Fname,
		Lname:    updated.Lname,
	})
	return updated, nil
}

// DeleteClient removes the client document and, with it, every account.
func (s *BankingService) DeleteClient(ctx context.Context, clientID string) (bool, error) {
	ok, err := s.store.Delete(ctx, clientID)
	if err != nil {
		return false, err
	}
	s.publish(ctx, events.ClientDeleted, events.ClientDeletedEvent{ClientID: clientID})
	return ok, nil
}

// ---------- Accounts ----------

func (s *BankingService) CreateAccount(ctx context.Context, account models.Account, clientID string) (created *models.Account, err error) {
	defer func() { s.metrics.ObserveAccountOperation(metrics.OpCreateAccount, err) }()

	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.FindAccount(account.AccName) != -1 {
		return nil, apperr.DuplicateAccount(clientID, account.AccName)
	}
	if account.Balance < 0 || math.IsNaN(account.Balance) {
		return nil, apperr.NegativeBalance(clientID, account.AccName)
	}
	if math.IsInf(account.Balance, 1) {
		return nil, apperr.BalanceOverflow(clientID, account.AccName, 0, account.Balance)
	}

	client.Accounts = append(client.Accounts, account)
	updated, err := s.store.Replace(ctx, client.ID, client)
	if err != nil {
		return nil, err
	}
	created, err = persistedAccount(updated, account.AccName)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		ClientID: updated.ID,
		AccName:  created.AccName,
		Balance:  created.Balance,
	})
	return created, nil
}

// GetAllAccounts returns the client's accounts in stored order. A client with
// no accounts yields an empty, non-nil slice.
func (s *BankingService) GetAllAccounts(ctx context.Context, clientID string) ([]models.Account, error) {
	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.Accounts == nil {
		return []models.Account{}, nil
	}
	return client.Accounts, nil
}

// GetAccountRange returns the accounts whose balance is within the inclusive
// bounds. Both bounds are coerced with ParseBound; a bound that comes out as 0
// (including an explicit "0") is not enforced.
func (s *BankingService) GetAccountRange(ctx context.Context, amountGreaterThan, amountLessThan, clientID string) ([]models.Account, error) {
	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return NewBalanceRange(amountGreaterThan, amountLessThan).Filter(client.Accounts), nil
}

func (s *BankingService) GetAccount(ctx context.Context, clientID, name string) (*models.Account, error) {
	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	i := client.FindAccount(name)
	if i == -1 {
		return nil, apperr.AccountNotFound(clientID, name)
	}
	account := client.Accounts[i]
	return &account, nil
}

func (s *BankingService) Deposit(ctx context.Context, amount float64, clientID, name string) (account *models.Account, err error) {
	defer func() { s.metrics.ObserveAccountOperation(metrics.OpDeposit, err) }()

	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	i := client.FindAccount(name)
	if i == -1 {
		return nil, apperr.AccountNotFound(clientID, name)
	}
	if amount <= 0 || math.IsNaN(amount) {
		return nil, apperr.NonPositiveAmount(clientID, name)
	}
	balance := client.Accounts[i].Balance
	if math.IsInf(balance+amount, 0) {
		return nil, apperr.BalanceOverflow(clientID, name, balance, amount)
	}

	client.Accounts[i].Balance = balance + amount
	updated, err := s.store.Replace(ctx, client.ID, client)
	if err != nil {
		return nil, err
	}
	account, err = persistedAccount(updated, name)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.FundsDeposited, events.FundsMovedEvent{
		ClientID:   updated.ID,
		AccName:    name,
		Amount:     amount,
		NewBalance: account.Balance,
	})
	return account, nil
}

// Withdraw checks both the amount and the resulting balance before writing,
// so a negative balance never reaches the store.
func (s *BankingService) Withdraw(ctx context.Context, amount float64, clientID, name string) (account *models.Account, err error) {
	defer func() { s.metrics.ObserveAccountOperation(metrics.OpWithdraw, err) }()

	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	i := client.FindAccount(name)
	if i == -1 {
		return nil, apperr.AccountNotFound(clientID, name)
	}
	balance := client.Accounts[i].Balance
	remaining := balance - amount
	if amount <= 0 || math.IsNaN(amount) {
		return nil, apperr.NonPositiveAmount(clientID, name)
	}
	if remaining < 0 {
		return nil, apperr.Overdraw(clientID, name, balance, amount)
	}

	client.Accounts[i].Balance = remaining
	updated, err := s.store.Replace(ctx, client.ID, client)
	if err != nil {
		return nil, err
	}
	account, err = persistedAccount(updated, name)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.FundsWithdrawn, events.FundsMovedEvent{
		ClientID:   updated.ID,
		AccName:    name,
		Amount:     amount,
		NewBalance: account.Balance,
	})
	return account, nil
}

// DeleteAccount removes the named account and returns the updated client.
func (s *BankingService) DeleteAccount(ctx context.Context, clientID, name string) (updated *models.Client, err error) {
	defer func() { s.metrics.ObserveAccountOperation(metrics.OpDeleteAccount, err) }()

	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	i := client.FindAccount(name)
	if i == -1 {
		return nil, apperr.AccountNotFound(clientID, name)
	}

	client.Accounts = append(client.Accounts[:i], client.Accounts[i+1:]...)
	updated, err = s.store.Replace(ctx, client.ID, client)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AccountDeleted, events.AccountDeletedEvent{
		ClientID: updated.ID,
		AccName:  name,
	})
	return updated, nil
}

// persistedAccount reads the account back out of the document the store
// returned, so callers see what was actually written.
func persistedAccount(client *models.Client, name string) (*models.Account, error) {
	i := client.FindAccount(name)
	if i == -1 {
		return nil, apperr.AccountNotFound(client.ID, name)
	}
	account := client.Accounts[i]
	return &account, nil
}

// publish never fails the calling operation; the write has already happened.
func (s *BankingService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.ClientEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
