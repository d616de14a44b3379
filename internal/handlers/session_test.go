package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablesmith/scene-engine/internal/services"
	"github.com/fablesmith/scene-engine/pkg/engine"
	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/storage"
	"github.com/fablesmith/scene-engine/pkg/world"
)

func testWorld() *world.World {
	w := &world.World{
		ID:     "manor",
		Name:   "The Manor",
		Rating: "PG",
		Player: world.PlayerSetup{StartLocation: "hall"},
		Locations: map[string]*world.Location{
			"hall": {
				Name:       "Entrance Hall",
				Atmosphere: "Dust hangs in the lamplight.",
				Exits:      map[string]string{"north": "garden"},
			},
			"garden": {
				Name:  "Walled Garden",
				Exits: map[string]string{"south": "hall"},
			},
		},
	}
	w.Normalize()
	return w
}

func newSessionHandler() (*SessionHandler, *storage.MockStorage) {
	store := storage.NewMockStorage()
	store.AddWorld("manor", testWorld())
	h := NewSessionHandler(store, services.NewMockLLM(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return h, store
}

func TestCreateSession(t *testing.T) {
	h, store := newSessionHandler()

	body := bytes.NewBufferString(`{"world": "manor"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "manor", resp.World)
	assert.NotEmpty(t, resp.Narrative)
	assert.Equal(t, "hall", resp.State.LocationID)
	assert.Equal(t, 0, resp.State.TurnCount)

	id, err := uuid.Parse(resp.SessionID)
	require.NoError(t, err)

	gs, err := store.LoadGameState(req.Context(), id)
	require.NoError(t, err)
	require.NotNil(t, gs, "the created session should be persisted")
	assert.Equal(t, "manor", gs.WorldID)
}

func TestCreateSessionValidation(t *testing.T) {
	h, _ := newSessionHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing world", `{}`, http.StatusBadRequest},
		{"unknown world", `{"world": "atlantis"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestCreateSessionMethodNotAllowed(t *testing.T) {
	h, _ := newSessionHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetSession(t *testing.T) {
	h, store := newSessionHandler()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+gs.ID.String(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var loaded state.GameState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loaded))
	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, "hall", loaded.Location)
}

func TestGetSessionNotFound(t *testing.T) {
	h, _ := newSessionHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionInvalidID(t *testing.T) {
	h, _ := newSessionHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	h, store := newSessionHandler()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+gs.ID.String(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	loaded, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestActionProcessesAndPersists(t *testing.T) {
	h, store := newSessionHandler()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	body := bytes.NewBufferString(`{"input": "north"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+gs.ID.String()+"/action", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp engine.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "garden", resp.State.LocationID)
	assert.Equal(t, 1, resp.State.TurnCount)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, engine.EventLocationChanged, resp.Events[0].Type)

	persisted, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Equal(t, "garden", persisted.Location)
	assert.Equal(t, 1, persisted.TurnCount)
}

func TestActionValidation(t *testing.T) {
	h, store := newSessionHandler()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	tests := []struct {
		name       string
		sessionID  string
		body       string
		wantStatus int
	}{
		{"empty input", gs.ID.String(), `{"input": "  "}`, http.StatusBadRequest},
		{"invalid json", gs.ID.String(), `{`, http.StatusBadRequest},
		{"unknown session", uuid.NewString(), `{"input": "north"}`, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/v1/sessions/"+tc.sessionID+"/action",
				bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestActionRejectsOversizedInput(t *testing.T) {
	h, store := newSessionHandler()

	gs := state.NewGameState("manor", world.PlayerSetup{StartLocation: "hall"})
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	long := bytes.Repeat([]byte("a"), maxInputLength+1)
	body, err := json.Marshal(map[string]string{"input": string(long)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/sessions/"+gs.ID.String()+"/action",
		bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownSubroute(t *testing.T) {
	h, _ := newSessionHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString()+"/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
