package engine

import (
	"fmt"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// TakeValidator validates take intents. The order of checks matters for
// message correctness: already-have, existence, location, visibility,
// portability.
type TakeValidator struct{}

var _ Validator = (*TakeValidator)(nil)

func (v *TakeValidator) Validate(intent Intent, gs *state.GameState, w *world.World) ValidationResult {
	ai, ok := intent.(ActionIntent)
	if !ok {
		return Reject(RejectInvalidState, "take requires an action intent")
	}
	itemID := ai.TargetID

	if gs.HasItem(itemID) {
		return Reject(RejectAlreadyHave, "you already have that")
	}

	item, ok := w.GetItem(itemID)
	if !ok {
		return Reject(RejectTargetNotFound, fmt.Sprintf("there is no %q here or anywhere", itemID))
	}

	loc, ok := w.GetLocation(gs.Location)
	if !ok {
		return Reject(RejectTargetNotFound, fmt.Sprintf("current location %q is not defined", gs.Location))
	}
	placement, placed := loc.Items[itemID]
	if !placed {
		return Reject(RejectItemNotHere, fmt.Sprintf("the %s is not here", item.Name))
	}

	visible, reason := AnalyzeItemVisibility(placement, itemID, gs)
	// "already taken" is the idempotency escape valve: a taken item may
	// still be referenced even though its placement no longer shows it.
	if !visible && reason != ReasonAlreadyTaken {
		return Reject(RejectItemNotVisible, "you don't see that here")
	}

	if !item.Portable {
		return Reject(RejectItemNotPortable, fmt.Sprintf("the %s cannot be carried", item.Name))
	}

	return Accept(TakeAccepted{
		ItemID:          itemID,
		ItemName:        item.Name,
		TakeDescription: item.TakeDescription,
		FromLocation:    gs.Location,
	})
}

// TakeHandler executes validated takes and builds their events.
type TakeHandler struct {
	TakeValidator
}

var _ Handler = (*TakeHandler)(nil)

func (h *TakeHandler) Execute(intent Intent, result ValidationResult, gs *state.GameState) error {
	ctx, ok := result.Context.(TakeAccepted)
	if !ok {
		return fmt.Errorf("take execute: unexpected context %T", result.Context)
	}
	// AddItem is a no-op if the item is somehow already held.
	gs.AddItem(ctx.ItemID)
	return nil
}

func (h *TakeHandler) CreateEvent(intent Intent, result ValidationResult, gs *state.GameState, w *world.World, snap *PerceptionSnapshot) Event {
	ctx := result.Context.(TakeAccepted)
	return NewEvent(EventItemTaken, "player", ctx.ItemID, map[string]any{
		"item_name":        ctx.ItemName,
		"take_description": ctx.TakeDescription,
		"from_location":    ctx.FromLocation,
	})
}

func (h *TakeHandler) ChecksVictory() bool { return true }
