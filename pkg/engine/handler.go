package engine

import (
	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// Validator checks an intent against the world and current state.
// Implementations never mutate state and never return errors for
// expected rule violations; those become invalid results.
type Validator interface {
	Validate(intent Intent, gs *state.GameState, w *world.World) ValidationResult
}

// Handler pairs a validator with state mutation and event construction
// for one action category.
type Handler interface {
	Validator

	// Execute applies the validated intent's state mutation. It is only
	// called with a valid result.
	Execute(intent Intent, result ValidationResult, gs *state.GameState) error

	// CreateEvent builds the narration event for a successful action.
	// The snapshot may be nil when the caller has not built one yet.
	CreateEvent(intent Intent, result ValidationResult, gs *state.GameState, w *world.World, snap *PerceptionSnapshot) Event

	// ChecksVictory reports whether the processor should evaluate the
	// victory condition after this action. Only categories that can
	// change location or inventory qualify.
	ChecksVictory() bool
}
