package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ActionRequest is the request body for submitting a player action.
type ActionRequest struct {
	Input string `json:"input"` // Required: raw player input
}

const maxInputLength = 500

func (h *SessionHandler) handleAction(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	input := strings.TrimSpace(req.Input)
	if input == "" {
		h.writeError(w, http.StatusBadRequest, "input field is required")
		return
	}
	if len(input) > maxInputLength {
		h.writeError(w, http.StatusBadRequest, "input exceeds maximum length")
		return
	}

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

	wld, err := h.storage.GetWorld(r.Context(), gs.WorldID)
	if err != nil {
		h.logger.Error("Failed to load world for session", "error", err, "world", gs.WorldID)
		h.writeError(w, http.StatusInternalServerError, "Failed to load world")
		return
	}

	proc := h.processor(wld)
	resp, err := proc.Process(r.Context(), gs, input)
	if err != nil {
		h.logger.Error("Action processing failed", "error", err, "id", sessionID.String(), "input", input)
		h.writeError(w, http.StatusInternalServerError, "Failed to process action")
		return
	}

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to save game state", "error", err, "id", gs.ID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.logger.Debug("Action processed",
		"id", sessionID.String(),
		"turn", gs.TurnCount,
		"events", len(resp.Events))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode action response", "error", err)
	}
}
