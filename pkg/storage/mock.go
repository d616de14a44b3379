package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// MockStorage is an in-memory Storage implementation for testing.
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[uuid.UUID]*state.GameState
	worlds     map[string]*world.World
	pingError  error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates: make(map[uuid.UUID]*state.GameState),
		worlds:     make(map[string]*world.World),
	}
}

// SetPingError configures the mock to fail pings with the given error.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("gamestate cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamestates[id] = gs
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, exists := m.gamestates[id]
	if !exists {
		return nil, nil // not found
	}
	return gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, id)
	return nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]string)
	for id, w := range m.worlds {
		result[w.Name] = id
	}
	return result, nil
}

func (m *MockStorage) GetWorld(ctx context.Context, id string) (*world.World, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, exists := m.worlds[id]
	if !exists {
		return nil, errors.New("world not found")
	}
	return w, nil
}

// AddWorld adds a world to the mock storage (for testing).
func (m *MockStorage) AddWorld(id string, w *world.World) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worlds[id] = w
}
