package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

func newTestRedisStorage(t *testing.T) *RedisStorage {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisStorage(mr.Addr(), t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisStoragePing(t *testing.T) {
	s := newTestRedisStorage(t)
	defer func() { _ = s.Close() }()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestRedisStorageGameStateRoundTrip(t *testing.T) {
	s := newTestRedisStorage(t)
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	gs.SetFlag("saw_portrait", true)
	gs.AddItem("lamp")
	gs.MoveTo("garden")
	gs.IncrementTurn()

	require.NoError(t, s.SaveGameState(ctx, gs.ID, gs))

	loaded, err := s.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, "manor", loaded.WorldID)
	assert.Equal(t, "garden", loaded.Location)
	assert.Equal(t, []string{"lamp"}, loaded.Inventory)
	assert.True(t, loaded.GetFlag("saw_portrait"))
	assert.True(t, loaded.HasVisited("hall"))
	assert.Equal(t, 1, loaded.TurnCount)
	assert.False(t, loaded.UpdatedAt.IsZero(), "save should stamp UpdatedAt")
}

func TestRedisStorageLoadMissing(t *testing.T) {
	s := newTestRedisStorage(t)
	defer func() { _ = s.Close() }()

	loaded, err := s.LoadGameState(context.Background(), uuid.New())
	assert.NoError(t, err, "a missing gamestate is not an error")
	assert.Nil(t, loaded)
}

func TestRedisStorageDelete(t *testing.T) {
	s := newTestRedisStorage(t)
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	require.NoError(t, s.SaveGameState(ctx, gs.ID, gs))
	require.NoError(t, s.DeleteGameState(ctx, gs.ID))

	loaded, err := s.LoadGameState(ctx, gs.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting an absent key is a no-op, not an error.
	assert.NoError(t, s.DeleteGameState(ctx, gs.ID))
}
