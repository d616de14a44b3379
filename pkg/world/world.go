package world

import (
	"fmt"
	"sort"
)

// Visibility is the placement state of an item, NPC or detail at a location.
type Visibility string

const (
	VisibilityVisible   Visibility = "visible"
	VisibilityConcealed Visibility = "concealed" // inside a container; visible once the container is open
	VisibilityHidden    Visibility = "hidden"    // requires a discovery flag to be set
)

// Placement describes how an entity is positioned at a location.
type Placement struct {
	Visibility Visibility `json:"visibility" yaml:"visibility"`
	Container  string     `json:"container,omitempty" yaml:"container,omitempty"`   // containing item id, for concealed placements
	RevealFlag string     `json:"reveal_flag,omitempty" yaml:"reveal_flag,omitempty"` // discovery flag, for hidden placements
}

// Requirements gates entry to a location.
type Requirements struct {
	Flag string `json:"flag,omitempty" yaml:"flag,omitempty"`
	Item string `json:"item,omitempty" yaml:"item,omitempty"`
}

// OnExamine describes side effects applied when an entity is examined.
type OnExamine struct {
	SetsFlag          string `json:"sets_flag,omitempty" yaml:"sets_flag,omitempty"`
	RevealDestination bool   `json:"reveal_destination,omitempty" yaml:"reveal_destination,omitempty"` // reveals the destination of an exit
	Direction         string `json:"direction,omitempty" yaml:"direction,omitempty"`          // which exit is revealed
	NarrativeHint     string `json:"narrative_hint,omitempty" yaml:"narrative_hint,omitempty"`
}

// Detail is an examinable feature of a location that is not an item.
type Detail struct {
	Text       string     `json:"text" yaml:"text"`
	Visibility Visibility `json:"visibility,omitempty" yaml:"visibility,omitempty"` // defaults to visible
	RevealFlag string     `json:"reveal_flag,omitempty" yaml:"reveal_flag,omitempty"`
	OnExamine  *OnExamine `json:"on_examine,omitempty" yaml:"on_examine,omitempty"`
}

// Location is a node in the world graph.
type Location struct {
	ID           string               `json:"id" yaml:"id"`
	Name         string               `json:"name" yaml:"name"`
	Atmosphere   string               `json:"atmosphere,omitempty" yaml:"atmosphere,omitempty"`
	Exits        map[string]string    `json:"exits,omitempty" yaml:"exits,omitempty"`        // direction → location id
	ExitReveals  map[string]string    `json:"exit_reveals,omitempty" yaml:"exit_reveals,omitempty"` // direction → flag that makes the destination known
	Items        map[string]Placement `json:"items,omitempty" yaml:"items,omitempty"`        // item id → placement
	NPCs         map[string]Placement `json:"npcs,omitempty" yaml:"npcs,omitempty"`         // npc id → placement
	Details      map[string]Detail    `json:"details,omitempty" yaml:"details,omitempty"`
	Requires     *Requirements        `json:"requires,omitempty" yaml:"requires,omitempty"`
	Interactions map[string]string    `json:"interactions,omitempty" yaml:"interactions,omitempty"` // trigger → effect, consumed by scripted triggers
}

// Item is an object the player can examine and possibly carry.
type Item struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Portable        bool       `json:"portable,omitempty" yaml:"portable,omitempty"`
	Container       bool       `json:"container,omitempty" yaml:"container,omitempty"`
	Description     string     `json:"description,omitempty" yaml:"description,omitempty"`      // examine text
	FoundDescription string    `json:"found_description,omitempty" yaml:"found_description,omitempty"`
	TakeDescription string     `json:"take_description,omitempty" yaml:"take_description,omitempty"`
	Unlocks         string     `json:"unlocks,omitempty" yaml:"unlocks,omitempty"` // location or container id this item opens
	OnExamine       *OnExamine `json:"on_examine,omitempty" yaml:"on_examine,omitempty"`
}

// TrustParams tunes how readily an NPC opens up to the player.
type TrustParams struct {
	Initial  int `json:"initial,omitempty" yaml:"initial,omitempty"`
	OpenUpAt int `json:"open_up_at,omitempty" yaml:"open_up_at,omitempty"`
}

// NPC is a non-player character.
type NPC struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Locations    []string          `json:"locations,omitempty" yaml:"locations,omitempty"`
	Personality  string            `json:"personality,omitempty" yaml:"personality,omitempty"`
	Knowledge    []string          `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Trust        TrustParams       `json:"trust,omitempty" yaml:"trust,omitempty"`
	AppearsFlag  string            `json:"appears_flag,omitempty" yaml:"appears_flag,omitempty"`  // NPC appears only once this flag is set
	MoveTriggers map[string]string `json:"move_triggers,omitempty" yaml:"move_triggers,omitempty"` // flag → location the NPC relocates to
}

// VictoryCondition ends the game when every specified field holds.
// An unspecified field imposes no constraint.
type VictoryCondition struct {
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Flag     string `json:"flag,omitempty" yaml:"flag,omitempty"`
	Item     string `json:"item,omitempty" yaml:"item,omitempty"`
	Ending   string `json:"ending" yaml:"ending"`
}

// PlayerSetup seeds a new session.
type PlayerSetup struct {
	StartLocation string   `json:"start_location" yaml:"start_location"`
	Inventory     []string `json:"inventory,omitempty" yaml:"inventory,omitempty"`
}

// World is the immutable game world a session plays in.
// It is loaded once, validated, and never mutated during play.
type World struct {
	ID        string               `json:"id" yaml:"id"`
	Name      string               `json:"name" yaml:"name"`
	Rating    string               `json:"rating,omitempty" yaml:"rating,omitempty"` // e.g. "G", "PG", "PG-13"
	Player    PlayerSetup          `json:"player" yaml:"player"`
	Locations map[string]*Location `json:"locations" yaml:"locations"`
	Items     map[string]*Item     `json:"items,omitempty" yaml:"items,omitempty"`
	NPCs      map[string]*NPC      `json:"npcs,omitempty" yaml:"npcs,omitempty"`
	Victory   *VictoryCondition    `json:"victory,omitempty" yaml:"victory,omitempty"`
}

func (w *World) GetLocation(id string) (*Location, bool) {
	loc, ok := w.Locations[id]
	return loc, ok
}

func (w *World) GetItem(id string) (*Item, bool) {
	item, ok := w.Items[id]
	return item, ok
}

func (w *World) GetNPC(id string) (*NPC, bool) {
	npc, ok := w.NPCs[id]
	return npc, ok
}

// GetItemsAtLocation returns the items placed at a location, in stable order.
func (w *World) GetItemsAtLocation(locationID string) []*Item {
	loc, ok := w.Locations[locationID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(loc.Items))
	for id := range loc.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := w.Items[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

// GetNPCsAtLocation returns the NPCs placed at a location, in stable order.
func (w *World) GetNPCsAtLocation(locationID string) []*NPC {
	loc, ok := w.Locations[locationID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(loc.NPCs))
	for id := range loc.NPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	npcs := make([]*NPC, 0, len(ids))
	for _, id := range ids {
		if npc, ok := w.NPCs[id]; ok {
			npcs = append(npcs, npc)
		}
	}
	return npcs
}

// Normalize fills entity ID fields from their map keys, which are
// authoritative in world definition files.
func (w *World) Normalize() {
	for id, loc := range w.Locations {
		loc.ID = id
	}
	for id, item := range w.Items {
		item.ID = id
	}
	for id, npc := range w.NPCs {
		npc.ID = id
	}
}

// Validate checks referential integrity of the world graph.
// It is called by the loader and by the validate CLI.
func (w *World) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("world id is required")
	}
	if len(w.Locations) == 0 {
		return fmt.Errorf("world %q has no locations", w.ID)
	}
	if w.Player.StartLocation == "" {
		return fmt.Errorf("world %q has no start location", w.ID)
	}
	if _, ok := w.Locations[w.Player.StartLocation]; !ok {
		return fmt.Errorf("start location %q is not defined", w.Player.StartLocation)
	}
	for _, itemID := range w.Player.Inventory {
		if _, ok := w.Items[itemID]; !ok {
			return fmt.Errorf("starting inventory item %q is not defined", itemID)
		}
	}

	for locID, loc := range w.Locations {
		for dir, dest := range loc.Exits {
			if _, ok := w.Locations[dest]; !ok {
				return fmt.Errorf("location %q exit %q points to undefined location %q", locID, dir, dest)
			}
		}
		for dir := range loc.ExitReveals {
			if _, ok := loc.Exits[dir]; !ok {
				return fmt.Errorf("location %q has an exit reveal for %q but no such exit", locID, dir)
			}
		}
		for itemID, p := range loc.Items {
			if _, ok := w.Items[itemID]; !ok {
				return fmt.Errorf("location %q places undefined item %q", locID, itemID)
			}
			if err := validatePlacement(w, p); err != nil {
				return fmt.Errorf("location %q item %q: %w", locID, itemID, err)
			}
		}
		for npcID, p := range loc.NPCs {
			if _, ok := w.NPCs[npcID]; !ok {
				return fmt.Errorf("location %q places undefined npc %q", locID, npcID)
			}
			if err := validatePlacement(w, p); err != nil {
				return fmt.Errorf("location %q npc %q: %w", locID, npcID, err)
			}
		}
		if loc.Requires != nil && loc.Requires.Item != "" {
			if _, ok := w.Items[loc.Requires.Item]; !ok {
				return fmt.Errorf("location %q requires undefined item %q", locID, loc.Requires.Item)
			}
		}
	}

	if w.Victory != nil {
		if w.Victory.Location != "" {
			if _, ok := w.Locations[w.Victory.Location]; !ok {
				return fmt.Errorf("victory condition references undefined location %q", w.Victory.Location)
			}
		}
		if w.Victory.Item != "" {
			if _, ok := w.Items[w.Victory.Item]; !ok {
				return fmt.Errorf("victory condition references undefined item %q", w.Victory.Item)
			}
		}
		if w.Victory.Ending == "" {
			return fmt.Errorf("victory condition has no ending narrative")
		}
	}
	return nil
}

func validatePlacement(w *World, p Placement) error {
	switch p.Visibility {
	case VisibilityVisible, "":
	case VisibilityConcealed:
		if p.Container == "" {
			return fmt.Errorf("concealed placement has no container")
		}
		if _, ok := w.Items[p.Container]; !ok {
			return fmt.Errorf("concealed placement references undefined container %q", p.Container)
		}
	case VisibilityHidden:
		if p.RevealFlag == "" {
			return fmt.Errorf("hidden placement has no reveal flag")
		}
	default:
		return fmt.Errorf("unknown visibility %q", p.Visibility)
	}
	return nil
}
