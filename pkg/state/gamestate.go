package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fablesmith/scene-engine/pkg/world"
)

// Status is the lifecycle state of a session.
// Transitions are monotonic: once a game leaves "playing" it never returns.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// GameState is the mutable record of a session's progress.
// It is exclusively owned by its session; all mutation goes through
// the methods below, invoked from action handlers.
type GameState struct {
	ID              uuid.UUID           `json:"id"`
	WorldID         string              `json:"world_id"`
	Location        string              `json:"location"`
	Inventory       []string            `json:"inventory,omitempty"` // ordered, no duplicates
	Flags           map[string]bool     `json:"flags,omitempty"`
	Visited         map[string]bool     `json:"visited,omitempty"`
	ContainerStates map[string]bool     `json:"container_states,omitempty"` // container id → open
	RevealedExits   map[string][]string `json:"revealed_exits,omitempty"`   // location id → directions
	TurnCount       int                 `json:"turn_count"`
	Status          Status              `json:"status"`
	CreatedAt       time.Time           `json:"created_at,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at,omitempty"`
}

// NewGameState creates session state seeded from a world's player setup.
func NewGameState(worldID string, setup world.PlayerSetup) *GameState {
	gs := &GameState{
		ID:              uuid.New(),
		WorldID:         worldID,
		Location:        setup.StartLocation,
		Inventory:       make([]string, 0, len(setup.Inventory)),
		Flags:           make(map[string]bool),
		Visited:         map[string]bool{setup.StartLocation: true},
		ContainerStates: make(map[string]bool),
		RevealedExits:   make(map[string][]string),
		Status:          StatusPlaying,
		CreatedAt:       time.Now(),
	}
	for _, item := range setup.Inventory {
		gs.AddItem(item)
	}
	return gs
}

// MoveTo sets the current location and records the visit.
// It reports whether this was the first visit to the destination.
func (gs *GameState) MoveTo(locationID string) bool {
	first := !gs.Visited[locationID]
	gs.Location = locationID
	if gs.Visited == nil {
		gs.Visited = make(map[string]bool)
	}
	gs.Visited[locationID] = true
	return first
}

func (gs *GameState) HasVisited(locationID string) bool {
	return gs.Visited[locationID]
}

func (gs *GameState) SetFlag(name string, value bool) {
	if gs.Flags == nil {
		gs.Flags = make(map[string]bool)
	}
	gs.Flags[name] = value
}

// GetFlag returns the flag value, defaulting to false for unset flags.
func (gs *GameState) GetFlag(name string) bool {
	return gs.Flags[name]
}

// AddItem adds an item to the inventory. It reports false if the item
// was already present, in which case the state is unchanged.
func (gs *GameState) AddItem(itemID string) bool {
	if gs.HasItem(itemID) {
		return false
	}
	gs.Inventory = append(gs.Inventory, itemID)
	return true
}

// RemoveItem removes an item from the inventory. It reports false if
// the item was not present, in which case the state is unchanged.
func (gs *GameState) RemoveItem(itemID string) bool {
	for i, id := range gs.Inventory {
		if id == itemID {
			gs.Inventory = append(gs.Inventory[:i], gs.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

func (gs *GameState) HasItem(itemID string) bool {
	for _, id := range gs.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

func (gs *GameState) SetContainerState(containerID string, open bool) {
	if gs.ContainerStates == nil {
		gs.ContainerStates = make(map[string]bool)
	}
	gs.ContainerStates[containerID] = open
}

// IsContainerOpen returns whether a container is open. Containers
// default to closed.
func (gs *GameState) IsContainerOpen(containerID string) bool {
	return gs.ContainerStates[containerID]
}

// RevealExitDestination records that the destination of an exit has been
// discovered, independent of any flag-based reveal.
func (gs *GameState) RevealExitDestination(locationID, direction string) {
	if gs.IsExitDestinationRevealed(locationID, direction) {
		return
	}
	if gs.RevealedExits == nil {
		gs.RevealedExits = make(map[string][]string)
	}
	gs.RevealedExits[locationID] = append(gs.RevealedExits[locationID], direction)
}

func (gs *GameState) IsExitDestinationRevealed(locationID, direction string) bool {
	for _, dir := range gs.RevealedExits[locationID] {
		if dir == direction {
			return true
		}
	}
	return false
}

// IncrementTurn is called once per processed action, including rejected ones.
func (gs *GameState) IncrementTurn() {
	gs.TurnCount++
}

// SetStatus transitions the session status. Passing a value outside the
// three-state enum is a programming error and panics.
func (gs *GameState) SetStatus(s Status) {
	switch s {
	case StatusPlaying, StatusWon, StatusLost:
		gs.Status = s
	default:
		panic(fmt.Sprintf("state: invalid status %q", s))
	}
}

// CheckVictory evaluates the victory condition as a conjunction of its
// specified fields. On victory it transitions the status to won and
// returns the ending narrative.
func (gs *GameState) CheckVictory(vc *world.VictoryCondition) (bool, string) {
	if vc == nil || gs.Status != StatusPlaying {
		return false, ""
	}
	if vc.Location != "" && gs.Location != vc.Location {
		return false, ""
	}
	if vc.Flag != "" && !gs.GetFlag(vc.Flag) {
		return false, ""
	}
	if vc.Item != "" && !gs.HasItem(vc.Item) {
		return false, ""
	}
	gs.SetStatus(StatusWon)
	return true, vc.Ending
}
