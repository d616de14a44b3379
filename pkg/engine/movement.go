package engine

import (
	"fmt"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// MovementValidator validates movement intents against the location
// graph and destination access requirements.
type MovementValidator struct{}

var _ Validator = (*MovementValidator)(nil)

func (v *MovementValidator) Validate(intent Intent, gs *state.GameState, w *world.World) ValidationResult {
	ai, ok := intent.(ActionIntent)
	if !ok {
		return Reject(RejectInvalidState, "movement requires an action intent")
	}

	loc, ok := w.GetLocation(gs.Location)
	if !ok {
		return Reject(RejectTargetNotFound, fmt.Sprintf("current location %q is not defined", gs.Location))
	}

	direction := ai.TargetID
	if direction == DirectionBack {
		resolved, ok := resolveBack(loc)
		if !ok {
			return RejectWithHint(RejectNoExit,
				"there is no obvious way back from here",
				"try an explicit direction instead")
		}
		direction = resolved
	}

	dest, ok := loc.Exits[direction]
	if !ok {
		return Reject(RejectNoExit, fmt.Sprintf("there is no exit to the %s", direction))
	}

	destLoc, ok := w.GetLocation(dest)
	if !ok {
		// Content-authoring error: the exit points at nothing.
		return Reject(RejectTargetNotFound, fmt.Sprintf("the way %s leads nowhere", direction))
	}

	// Flag requirement is checked before the item requirement; the
	// first unmet requirement rejects.
	if destLoc.Requires != nil {
		if destLoc.Requires.Flag != "" && !gs.GetFlag(destLoc.Requires.Flag) {
			return Reject(RejectPreconditionFailed, fmt.Sprintf("the way to %s is not open to you yet", destLoc.Name))
		}
		if destLoc.Requires.Item != "" && !gs.HasItem(destLoc.Requires.Item) {
			hint := ""
			if item, ok := w.GetItem(destLoc.Requires.Item); ok {
				hint = fmt.Sprintf("you may need the %s", item.Name)
			}
			return RejectWithHint(RejectPreconditionFailed,
				fmt.Sprintf("something is needed to enter %s", destLoc.Name), hint)
		}
	}

	return Accept(MoveAccepted{
		Destination:     dest,
		DestinationName: destLoc.Name,
		FirstVisit:      !gs.HasVisited(dest),
		Direction:       direction,
		FromLocation:    gs.Location,
	})
}

// resolveBack maps the "back" pseudo-direction to a concrete exit: the
// only exit if there is exactly one, otherwise south, the conventional
// return direction.
func resolveBack(loc *world.Location) (string, bool) {
	if len(loc.Exits) == 1 {
		for dir := range loc.Exits {
			return dir, true
		}
	}
	if _, ok := loc.Exits["south"]; ok {
		return "south", true
	}
	return "", false
}

// MovementHandler executes validated movement and builds its event.
type MovementHandler struct {
	MovementValidator
}

var _ Handler = (*MovementHandler)(nil)

func (h *MovementHandler) Execute(intent Intent, result ValidationResult, gs *state.GameState) error {
	ctx, ok := result.Context.(MoveAccepted)
	if !ok {
		return fmt.Errorf("movement execute: unexpected context %T", result.Context)
	}
	gs.MoveTo(ctx.Destination)
	return nil
}

func (h *MovementHandler) CreateEvent(intent Intent, result ValidationResult, gs *state.GameState, w *world.World, snap *PerceptionSnapshot) Event {
	ctx := result.Context.(MoveAccepted)
	eventCtx := map[string]any{
		"from":             ctx.FromLocation,
		"direction":        ctx.Direction,
		"first_visit":      ctx.FirstVisit,
		"destination_name": ctx.DestinationName,
	}
	// First-visit narration is comprehensive; repeat visits stay terse.
	if ctx.FirstVisit && snap != nil {
		eventCtx["visible_items"] = snap.VisibleItems
		eventCtx["visible_npcs"] = snap.VisibleNPCs
		eventCtx["visible_exits"] = snap.VisibleExits
		eventCtx["atmosphere"] = snap.Atmosphere
	}
	return NewEvent(EventLocationChanged, "player", ctx.Destination, eventCtx)
}

func (h *MovementHandler) ChecksVictory() bool { return true }
