package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fablesmith/scene-engine/internal/narrator"
	"github.com/fablesmith/scene-engine/internal/services"
	"github.com/fablesmith/scene-engine/pkg/engine"
	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/storage"
	"github.com/fablesmith/scene-engine/pkg/world"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionHandler handles session lifecycle and action processing.
// Routes:
// POST   /v1/sessions              - Create a session and narrate the opening
// GET    /v1/sessions/{id}         - Read session state
// DELETE /v1/sessions/{id}         - Delete a session
// POST   /v1/sessions/{id}/action  - Process one player action
type SessionHandler struct {
	storage storage.Storage
	llm     services.LLMService
	logger  *slog.Logger
}

func NewSessionHandler(storage storage.Storage, llm services.LLMService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage: storage,
		llm:     llm,
		logger:  logger,
	}
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	World string `json:"world"` // Required: world id
}

// SessionResponse is returned on session creation.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	World     string           `json:"world"`
	Narrative string           `json:"narrative"`
	State     engine.StateView `json:"state"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST to create a session.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if len(parts) == 2 && parts[1] == "action" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST to submit an action.")
			return
		}
		h.handleAction(w, r, sessionID)
		return
	}
	if len(parts) > 1 {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleRead(w, r, sessionID)
	case http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.World == "" {
		h.writeError(w, http.StatusBadRequest, "world field is required")
		return
	}

	wld, err := h.storage.GetWorld(r.Context(), req.World)
	if err != nil {
		h.logger.Warn("Failed to load world", "world", req.World, "error", err)
		h.writeError(w, http.StatusBadRequest, "Failed to load world: "+err.Error())
		return
	}

	gs := state.NewGameState(wld.ID, wld.Player)

	proc := h.processor(wld)
	opening, err := proc.OpeningNarrative(r.Context(), gs)
	if err != nil {
		h.logger.Error("Failed to generate opening narrative", "error", err, "id", gs.ID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to save new game state", "error", err, "id", gs.ID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Debug("Session created", "id", gs.ID.String(), "world", wld.ID)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SessionResponse{
		SessionID: gs.ID.String(),
		World:     wld.ID,
		Narrative: opening.Narrative,
		State:     opening.State,
	}); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	gs, err := h.storage.LoadGameState(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load game state", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if gs == nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(gs); err != nil {
		h.logger.Error("Failed to encode game state response", "error", err)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	if err := h.storage.DeleteGameState(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to delete game state", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.logger.Debug("Session deleted", "id", sessionID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) processor(wld *world.World) *engine.Processor {
	n := narrator.New(h.llm, wld.Rating, h.logger)
	return engine.NewProcessor(wld, n, h.logger, engine.Options{})
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
