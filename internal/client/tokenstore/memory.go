package tokenstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
)

type MemoryStore struct {
	mu    sync.Mutex
	token *models.Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, t models.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = &t
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (*models.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil, nil
	}
	t := *m.token
	return &t, nil
}

func (m *MemoryStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return nil
}
