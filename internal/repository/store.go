package repository

import (
	"context"

	"github.com/eaglebank/client-service/internal/models"
)

//go:generate mockgen -destination=mocks/mock_client_store.go -package=mocks . ClientStore

// ClientStore persists whole client documents. There is no field-level update:
// every change goes through Replace of the entire document.
//
// GetByID, Replace and Delete return an apperr.KindNotFound error when no
// document exists for the id.
type ClientStore interface {
	// Create assigns a fresh id, starts the client with no accounts and
	// returns the stored representation. Any id or accounts on client are
	// ignored.
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	Replace(ctx context.Context, id string, client *models.Client) (*models.Client, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// newDocument builds the document Create persists.
func newDocument(id string, client *models.Client) *models.Client {
	return &models.Client{
		ID:       id,
		Fname:    client.Fname,
		Lname:    client.Lname,
		Accounts: []models.Account{},
	}
}

// replacementDocument pins the stored id to the key being replaced.
func replacementDocument(id string, client *models.Client) *models.Client {
	doc := client.Clone()
	doc.ID = id
	return doc
}
