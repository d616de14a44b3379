package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// Storage is the unified interface for session persistence (Redis) and
// world loading (filesystem). Worlds are immutable once loaded; session
// state is saved after every processed action.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// Session state operations (Redis-backed)
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// World operations (filesystem-backed)
	ListWorlds(ctx context.Context) (map[string]string, error)
	GetWorld(ctx context.Context, id string) (*world.World, error)
}
