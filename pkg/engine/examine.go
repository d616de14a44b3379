package engine

import (
	"fmt"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// ExamineValidator resolves an examine target against location details,
// exits, items (including inventory) and NPCs, in that order. Entities
// that are not currently perceivable resolve as not found; the examine
// path must not leak what the player has not discovered.
type ExamineValidator struct{}

var _ Validator = (*ExamineValidator)(nil)

func (v *ExamineValidator) Validate(intent Intent, gs *state.GameState, w *world.World) ValidationResult {
	ai, ok := intent.(ActionIntent)
	if !ok {
		return Reject(RejectInvalidState, "examine requires an action intent")
	}
	target := ai.TargetID
	if target == "" {
		return Reject(RejectTargetNotFound, "there is nothing like that to examine")
	}

	loc, ok := w.GetLocation(gs.Location)
	if !ok {
		return Reject(RejectTargetNotFound, fmt.Sprintf("current location %q is not defined", gs.Location))
	}

	if d, ok := loc.Details[target]; ok && DetailPerceivable(d, gs) {
		return Accept(ExamineAccepted{
			EntityType:  ExamineDetail,
			EntityID:    target,
			EntityName:  target,
			Description: d.Text,
			OnExamine:   toExamineEffect(d.OnExamine),
		})
	}

	if dest, ok := loc.Exits[target]; ok {
		accepted := ExamineAccepted{
			EntityType:    ExamineExit,
			EntityID:      target,
			EntityName:    target,
			Direction:     target,
			DestinationID: dest,
		}
		if ExitDestinationKnown(gs, loc, target, dest) {
			accepted.DestinationKnown = true
			if destLoc, ok := w.GetLocation(dest); ok {
				accepted.DestinationName = destLoc.Name
			}
		}
		return Accept(accepted)
	}

	if item, ok := w.GetItem(target); ok {
		if gs.HasItem(target) {
			return Accept(ExamineAccepted{
				EntityType:  ExamineItem,
				EntityID:    target,
				EntityName:  item.Name,
				Description: item.Description,
				InInventory: true,
				OnExamine:   toExamineEffect(item.OnExamine),
			})
		}
		if p, placed := loc.Items[target]; placed {
			if visible, _ := AnalyzeItemVisibility(p, target, gs); visible {
				return Accept(ExamineAccepted{
					EntityType:     ExamineItem,
					EntityID:       target,
					EntityName:     item.Name,
					Description:    item.Description,
					OpensContainer: item.Container && !gs.IsContainerOpen(target),
					OnExamine:      toExamineEffect(item.OnExamine),
				})
			}
		}
	}

	if npc, ok := w.GetNPC(target); ok {
		if p, placed := loc.NPCs[target]; placed {
			if visible, _ := npcPerceivable(p, npc, gs); visible {
				return Accept(ExamineAccepted{
					EntityType:  ExamineNPC,
					EntityID:    target,
					EntityName:  npc.Name,
					Description: npc.Personality,
				})
			}
		}
	}

	return Reject(RejectTargetNotFound, "you don't see that here")
}

func toExamineEffect(oe *world.OnExamine) *ExamineEffect {
	if oe == nil {
		return nil
	}
	return &ExamineEffect{
		SetsFlag:          oe.SetsFlag,
		RevealDestination: oe.RevealDestination,
		Direction:         oe.Direction,
		NarrativeHint:     oe.NarrativeHint,
	}
}

// ExamineHandler applies on-examine side effects and builds the event
// discriminated by entity type.
type ExamineHandler struct {
	ExamineValidator
}

var _ Handler = (*ExamineHandler)(nil)

func (h *ExamineHandler) Execute(intent Intent, result ValidationResult, gs *state.GameState) error {
	ctx, ok := result.Context.(ExamineAccepted)
	if !ok {
		return fmt.Errorf("examine execute: unexpected context %T", result.Context)
	}
	// Looking inside a closed container opens it. Its contents become
	// perceivable in the snapshot built after this step, never before.
	if ctx.OpensContainer {
		gs.SetContainerState(ctx.EntityID, true)
	}
	if ctx.OnExamine == nil {
		return nil
	}
	if ctx.OnExamine.SetsFlag != "" {
		gs.SetFlag(ctx.OnExamine.SetsFlag, true)
	}
	if ctx.OnExamine.RevealDestination && ctx.OnExamine.Direction != "" {
		gs.RevealExitDestination(gs.Location, ctx.OnExamine.Direction)
	}
	return nil
}

func (h *ExamineHandler) CreateEvent(intent Intent, result ValidationResult, gs *state.GameState, w *world.World, snap *PerceptionSnapshot) Event {
	ctx := result.Context.(ExamineAccepted)
	eventCtx := map[string]any{
		"entity_name": ctx.EntityName,
		"description": ctx.Description,
	}
	if ctx.OnExamine != nil && ctx.OnExamine.NarrativeHint != "" {
		eventCtx["narrative_hint"] = ctx.OnExamine.NarrativeHint
	}

	switch ctx.EntityType {
	case ExamineDetail:
		return NewEvent(EventDetailExamined, "player", ctx.EntityID, eventCtx)
	case ExamineExit:
		eventCtx["direction"] = ctx.Direction
		if ctx.DestinationKnown || (ctx.OnExamine != nil && ctx.OnExamine.RevealDestination) {
			eventCtx["destination"] = ctx.DestinationID
			if destLoc, ok := w.GetLocation(ctx.DestinationID); ok {
				eventCtx["destination_name"] = destLoc.Name
			}
		}
		return NewEvent(EventExitExamined, "player", ctx.EntityID, eventCtx)
	case ExamineNPC:
		return NewEvent(EventNPCEncountered, "player", ctx.EntityID, eventCtx)
	default:
		if ctx.OpensContainer {
			eventCtx["revealed_items"] = revealedContents(ctx.EntityID, gs, w)
			return NewEvent(EventContainerOpened, "player", ctx.EntityID, eventCtx)
		}
		eventCtx["in_inventory"] = ctx.InInventory
		return NewEvent(EventItemExamined, "player", ctx.EntityID, eventCtx)
	}
}

// revealedContents lists the names of items that became perceivable
// when a container was opened.
func revealedContents(containerID string, gs *state.GameState, w *world.World) []string {
	names := make([]string, 0)
	loc, ok := w.GetLocation(gs.Location)
	if !ok {
		return names
	}
	for _, id := range sortedKeys(loc.Items) {
		p := loc.Items[id]
		if p.Visibility != world.VisibilityConcealed || p.Container != containerID {
			continue
		}
		if visible, _ := AnalyzeItemVisibility(p, id, gs); !visible {
			continue
		}
		if item, ok := w.GetItem(id); ok {
			names = append(names, item.Name)
		}
	}
	return names
}

func (h *ExamineHandler) ChecksVictory() bool { return false }
