package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/eaglebank/client-service/internal/models"
	"github.com/google/uuid"
)

// PostgresClientStore keeps each client as one JSONB document in the clients
// table. The row id mirrors the document's id.
type PostgresClientStore struct {
	db *sql.DB
}

func NewPostgresClientStore(db *sql.DB) *PostgresClientStore {
	return &PostgresClientStore{db: db}
}

func (s *PostgresClientStore) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	doc := newDocument(uuid.NewString(), client)
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode client: %w", err)
	}

	query := `
		INSERT INTO clients (id, document, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING document
	`
	var stored []byte
	if err := s.db.QueryRowContext(ctx, query, doc.ID, string(body)).Scan(&stored); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return decodeClient(stored)
}

func (s *PostgresClientStore) GetAll(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		client, err := decodeClient(body)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *PostgresClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM clients WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return decodeClient(body)
}

func (s *PostgresClientStore) Replace(ctx context.Context, id string, client *models.Client) (*models.Client, error) {
	body, err := json.Marshal(replacementDocument(id, client))
	if err != nil {
		return nil, fmt.Errorf("failed to encode client: %w", err)
	}

	query := `
		UPDATE clients
		SET document = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING document
	`
	var stored []byte
	err = s.db.QueryRowContext(ctx, query, id, string(body)).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to replace client: %w", err)
	}
	return decodeClient(stored)
}

func (s *PostgresClientStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return false, apperr.NotFound(id)
	}
	return true, nil
}

// decodeClient keeps only the document fields callers rely on and never
// returns a nil Accounts slice.
func decodeClient(body []byte) (*models.Client, error) {
	var client models.Client
	if err := json.Unmarshal(body, &client); err != nil {
		return nil, fmt.Errorf("failed to decode client document: %w", err)
	}
	if client.Accounts == nil {
		client.Accounts = []models.Account{}
	}
	return &client, nil
}
