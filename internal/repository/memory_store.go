package repository

import (
	"context"
	"sync"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/eaglebank/client-service/internal/models"
	"github.com/google/uuid"
)

// MemoryClientStore keeps documents in process memory. Every read and write
// copies, so callers can never mutate stored state without Replace.
type MemoryClientStore struct {
	mu      sync.RWMutex
	clients map[string]*models.Client
	order   []string
}

func NewMemoryClientStore() *MemoryClientStore {
	return &MemoryClientStore{clients: make(map[string]*models.Client)}
}

func (s *MemoryClientStore) Create(_ context.Context, client *models.Client) (*models.Client, error) {
	doc := newDocument(uuid.NewString(), client)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return doc.Clone(), nil
}

func (s *MemoryClientStore) GetAll(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Client, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.clients[id].Clone())
	}
	return out, nil
}

func (s *MemoryClientStore) GetByID(_ context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.clients[id]
	if !ok {
		return nil, apperr.NotFound(id)
	}
	return doc.Clone(), nil
}

func (s *MemoryClientStore) Replace(_ context.Context, id string, client *models.Client) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return nil, apperr.NotFound(id)
	}
	doc := replacementDocument(id, client)
	s.clients[id] = doc
	return doc.Clone(), nil
}

func (s *MemoryClientStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return false, apperr.NotFound(id)
	}
	delete(s.clients, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
