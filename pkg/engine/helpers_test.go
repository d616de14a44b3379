package engine

import (
	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// testWorld builds a small world exercising every visibility state:
// a visible item, a hidden item behind a reveal flag, a concealed item
// in a container, a gated location, an exit with an unknown destination
// and an NPC behind an appears flag.
func testWorld() *world.World {
	w := &world.World{
		ID:     "manor",
		Name:   "The Manor",
		Rating: "PG",
		Player: world.PlayerSetup{
			StartLocation: "hall",
		},
		Locations: map[string]*world.Location{
			"hall": {
				Name:       "Entrance Hall",
				Atmosphere: "Dust hangs in the lamplight.",
				Exits: map[string]string{
					"north": "garden",
					"east":  "vault",
				},
				ExitReveals: map[string]string{
					"east": "vault_marked",
				},
				Items: map[string]world.Placement{
					"lamp": {Visibility: world.VisibilityVisible},
					"coin": {Visibility: world.VisibilityHidden, RevealFlag: "saw_portrait"},
					"chest": {Visibility: world.VisibilityVisible},
					"gem":  {Visibility: world.VisibilityConcealed, Container: "chest"},
				},
				NPCs: map[string]world.Placement{
					"butler": {Visibility: world.VisibilityVisible},
					"ghost":  {Visibility: world.VisibilityVisible},
				},
				Details: map[string]world.Detail{
					"portrait": {
						Text: "A stern ancestor watches from a gilt frame.",
						OnExamine: &world.OnExamine{
							SetsFlag:      "saw_portrait",
							NarrativeHint: "A coin glints behind the frame.",
						},
					},
					"inscription": {
						Text:       "Faded letters name the vault's builder.",
						Visibility: world.VisibilityHidden,
						RevealFlag: "saw_portrait",
					},
					"doorway": {
						Text: "The east door is banded with iron.",
						OnExamine: &world.OnExamine{
							RevealDestination: true,
							Direction:         "east",
						},
					},
				},
			},
			"garden": {
				Name:       "Walled Garden",
				Atmosphere: "Roses grow wild over the brick.",
				Exits: map[string]string{
					"south": "hall",
				},
			},
			"vault": {
				Name: "Family Vault",
				Exits: map[string]string{
					"west": "hall",
				},
				Requires: &world.Requirements{
					Item: "lamp",
				},
			},
		},
		Items: map[string]*world.Item{
			"lamp": {
				Name:            "oil lamp",
				Portable:        true,
				Description:     "A battered oil lamp, still warm.",
				TakeDescription: "You take the lamp by its handle.",
			},
			"coin": {
				Name:             "silver coin",
				Portable:         true,
				Description:      "A worn silver coin.",
				FoundDescription: "A silver coin glints behind the portrait.",
			},
			"chest": {
				Name:        "oak chest",
				Container:   true,
				Description: "A low oak chest, unlocked.",
			},
			"gem": {
				Name:        "green gem",
				Portable:    true,
				Description: "A gem the size of a thumbnail.",
			},
		},
		NPCs: map[string]*world.NPC{
			"butler": {
				Name:        "Pemberton",
				Personality: "Unflappable.",
			},
			"ghost": {
				Name:        "The Grey Lady",
				AppearsFlag: "seance_held",
			},
		},
		Victory: &world.VictoryCondition{
			Location: "vault",
			Item:     "gem",
			Ending:   "The gem is returned to its plinth and the manor settles at last.",
		},
	}
	w.Normalize()
	return w
}

func testState(w *world.World) *state.GameState {
	return state.NewGameState(w.ID, w.Player)
}

func moveIntent(direction string) ActionIntent {
	return ActionIntent{
		Action:     ActionMove,
		RawInput:   "go " + direction,
		Verb:       "go",
		TargetID:   direction,
		Confidence: 1.0,
	}
}

func takeIntent(itemID string) ActionIntent {
	return ActionIntent{
		Action:     ActionTake,
		RawInput:   "take " + itemID,
		Verb:       "take",
		TargetID:   itemID,
		Confidence: 0.9,
	}
}

func examineIntent(targetID string) ActionIntent {
	return ActionIntent{
		Action:     ActionExamine,
		RawInput:   "examine " + targetID,
		Verb:       "examine",
		TargetID:   targetID,
		Confidence: 0.9,
	}
}
