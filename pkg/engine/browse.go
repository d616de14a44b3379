package engine

import (
	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// BrowseHandler re-describes the current scene. Surveying a room cannot
// fail, so validation always accepts and execute is a pure no-op.
type BrowseHandler struct{}

var _ Handler = (*BrowseHandler)(nil)

func (h *BrowseHandler) Validate(intent Intent, gs *state.GameState, w *world.World) ValidationResult {
	return Accept(nil)
}

func (h *BrowseHandler) Execute(intent Intent, result ValidationResult, gs *state.GameState) error {
	return nil
}

func (h *BrowseHandler) CreateEvent(intent Intent, result ValidationResult, gs *state.GameState, w *world.World, snap *PerceptionSnapshot) Event {
	// Manual browsing is definitionally not a first-visit reveal.
	eventCtx := map[string]any{
		"first_visit":      false,
		"is_manual_browse": true,
	}
	if snap != nil {
		eventCtx["visible_items"] = snap.VisibleItems
		eventCtx["visible_npcs"] = snap.VisibleNPCs
		eventCtx["visible_exits"] = snap.VisibleExits
	}
	return NewEvent(EventSceneBrowsed, "player", gs.Location, eventCtx)
}

func (h *BrowseHandler) ChecksVictory() bool { return false }

// FlavorHandler dramatizes atmospheric actions. Like browse, it has no
// rejection path and never touches state.
type FlavorHandler struct{}

var _ Handler = (*FlavorHandler)(nil)

func (h *FlavorHandler) Validate(intent Intent, gs *state.GameState, w *world.World) ValidationResult {
	return Accept(nil)
}

func (h *FlavorHandler) Execute(intent Intent, result ValidationResult, gs *state.GameState) error {
	return nil
}

func (h *FlavorHandler) CreateEvent(intent Intent, result ValidationResult, gs *state.GameState, w *world.World, snap *PerceptionSnapshot) Event {
	eventCtx := map[string]any{}
	if fi, ok := intent.(FlavorIntent); ok {
		eventCtx["verb"] = fi.Verb
		eventCtx["action_hint"] = fi.RawInput
		if fi.Target != "" {
			eventCtx["target"] = fi.Target
			eventCtx["target_id"] = fi.Target
		}
		if fi.Topic != "" {
			eventCtx["topic"] = fi.Topic
		}
		if fi.Manner != "" {
			eventCtx["manner"] = fi.Manner
		}
	}
	return NewEvent(EventFlavorAction, "player", "", eventCtx)
}

func (h *FlavorHandler) ChecksVictory() bool { return false }
