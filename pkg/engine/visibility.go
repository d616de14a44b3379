package engine

import (
	"sort"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// Visibility reasons returned by AnalyzeItemVisibility.
const (
	ReasonVisible      = "visible"
	ReasonConcealed    = "concealed in closed container"
	ReasonHidden       = "hidden"
	ReasonAlreadyTaken = "already taken"
)

// SnapshotItem is a visible item as presented to the narrator.
type SnapshotItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SnapshotDetail is a visible location detail.
type SnapshotDetail struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SnapshotExit is an exit as presented to the narrator. When the
// destination is not known, the destination fields are withheld
// entirely rather than merely flagged.
type SnapshotExit struct {
	Direction        string `json:"direction"`
	DestinationKnown bool   `json:"destination_known"`
	DestinationID    string `json:"destination_id,omitempty"`
	DestinationName  string `json:"destination_name,omitempty"`
}

// SnapshotNPC is a visible NPC.
type SnapshotNPC struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Affordances are spoiler-safe contextual hints derived from visible
// entities, never stored in the world model.
type Affordances struct {
	OpenableContainers []string `json:"openable_containers,omitempty"`
	PortableItems      []string `json:"portable_items,omitempty"`
}

// PerceptionSnapshot is the filtered view of the world handed to the
// narrator. No entity whose current visibility state is hidden or
// concealed may appear in any of its lists; this is the security
// boundary between game logic and prose generation.
type PerceptionSnapshot struct {
	LocationID     string           `json:"location_id"`
	LocationName   string           `json:"location_name"`
	Atmosphere     string           `json:"atmosphere,omitempty"`
	VisibleItems   []SnapshotItem   `json:"visible_items"`
	VisibleDetails []SnapshotDetail `json:"visible_details"`
	VisibleExits   []SnapshotExit   `json:"visible_exits"`
	VisibleNPCs    []SnapshotNPC    `json:"visible_npcs"`
	Inventory      []string         `json:"inventory"`
	Affordances    Affordances      `json:"affordances"`
	KnownFacts     []string         `json:"known_facts,omitempty"`
	FirstVisit     bool             `json:"first_visit"`
}

// placementPerceivable is the single tri-state visibility predicate.
// It is shared by item, NPC and detail checks, and by the validators;
// duplicating this logic risks the two copies drifting and one of them
// leaking undiscovered entities.
func placementPerceivable(p world.Placement, gs *state.GameState) (bool, string) {
	switch p.Visibility {
	case world.VisibilityVisible, "":
		return true, ReasonVisible
	case world.VisibilityConcealed:
		if gs.IsContainerOpen(p.Container) {
			return true, ReasonVisible
		}
		return false, ReasonConcealed
	case world.VisibilityHidden:
		if p.RevealFlag != "" && gs.GetFlag(p.RevealFlag) {
			return true, ReasonVisible
		}
		return false, ReasonHidden
	default:
		return false, ReasonHidden
	}
}

// npcPerceivable layers the NPC appearance gate on top of the shared
// placement predicate. All NPC visibility checks go through here.
func npcPerceivable(p world.Placement, npc *world.NPC, gs *state.GameState) (bool, string) {
	visible, reason := placementPerceivable(p, gs)
	if !visible {
		return false, reason
	}
	if npc.AppearsFlag != "" && !gs.GetFlag(npc.AppearsFlag) {
		return false, ReasonHidden
	}
	return true, ReasonVisible
}

// AnalyzeItemVisibility reports whether an item placement is currently
// perceivable, and why not when it isn't. A taken item reports
// "already taken" so that callers can distinguish idempotent re-takes
// from genuine invisibility.
func AnalyzeItemVisibility(p world.Placement, itemID string, gs *state.GameState) (bool, string) {
	if gs.HasItem(itemID) {
		return false, ReasonAlreadyTaken
	}
	return placementPerceivable(p, gs)
}

// DetailPerceivable reports whether a location detail is currently
// perceivable.
func DetailPerceivable(d world.Detail, gs *state.GameState) bool {
	ok, _ := placementPerceivable(world.Placement{
		Visibility: d.Visibility,
		RevealFlag: d.RevealFlag,
	}, gs)
	return ok
}

// ExitDestinationKnown reports whether the player legitimately knows
// where an exit leads: a flag-based reveal is satisfied, the exit was
// revealed dynamically (examine or scripted trigger), or the
// destination has already been visited.
func ExitDestinationKnown(gs *state.GameState, loc *world.Location, direction, destinationID string) bool {
	if flag, ok := loc.ExitReveals[direction]; ok && gs.GetFlag(flag) {
		return true
	}
	if gs.IsExitDestinationRevealed(loc.ID, direction) {
		return true
	}
	return gs.HasVisited(destinationID)
}

// BuildSnapshot computes the perception snapshot for the current
// location. It must be called exactly once per turn, on the
// post-execution state.
func BuildSnapshot(gs *state.GameState, w *world.World) *PerceptionSnapshot {
	snap, _ := buildSnapshot(gs, w, false)
	return snap
}

// BuildDebugSnapshot is the diagnostic variant with identical
// visibility semantics, additionally reporting why each filtered
// entity was excluded. Exposed for tooling.
func BuildDebugSnapshot(gs *state.GameState, w *world.World) (*PerceptionSnapshot, map[string]any) {
	return buildSnapshot(gs, w, true)
}

func buildSnapshot(gs *state.GameState, w *world.World, debug bool) (*PerceptionSnapshot, map[string]any) {
	snap := &PerceptionSnapshot{
		VisibleItems:   make([]SnapshotItem, 0),
		VisibleDetails: make([]SnapshotDetail, 0),
		VisibleExits:   make([]SnapshotExit, 0),
		VisibleNPCs:    make([]SnapshotNPC, 0),
		Inventory:      make([]string, 0, len(gs.Inventory)),
	}
	var excluded map[string]any
	if debug {
		excluded = make(map[string]any)
	}

	loc, ok := w.GetLocation(gs.Location)
	if !ok {
		return snap, excluded
	}
	snap.LocationID = loc.ID
	snap.LocationName = loc.Name
	snap.Atmosphere = loc.Atmosphere

	for _, id := range sortedKeys(loc.Items) {
		p := loc.Items[id]
		visible, reason := AnalyzeItemVisibility(p, id, gs)
		if !visible {
			if debug {
				excluded["item:"+id] = reason
			}
			continue
		}
		item, ok := w.GetItem(id)
		if !ok {
			continue
		}
		snap.VisibleItems = append(snap.VisibleItems, SnapshotItem{
			ID:          id,
			Name:        item.Name,
			Description: item.FoundDescription,
		})
		if item.Container && !gs.IsContainerOpen(id) {
			snap.Affordances.OpenableContainers = append(snap.Affordances.OpenableContainers, item.Name)
		}
		if item.Portable {
			snap.Affordances.PortableItems = append(snap.Affordances.PortableItems, item.Name)
		}
	}

	for _, id := range sortedDetailKeys(loc.Details) {
		d := loc.Details[id]
		if !DetailPerceivable(d, gs) {
			if debug {
				excluded["detail:"+id] = ReasonHidden
			}
			continue
		}
		snap.VisibleDetails = append(snap.VisibleDetails, SnapshotDetail{ID: id, Text: d.Text})
	}

	for _, dir := range sortedStringKeys(loc.Exits) {
		dest := loc.Exits[dir]
		exit := SnapshotExit{Direction: dir}
		if ExitDestinationKnown(gs, loc, dir, dest) {
			exit.DestinationKnown = true
			exit.DestinationID = dest
			if destLoc, ok := w.GetLocation(dest); ok {
				exit.DestinationName = destLoc.Name
			}
		} else if debug {
			excluded["exit:"+dir] = "destination unknown"
		}
		snap.VisibleExits = append(snap.VisibleExits, exit)
	}

	for _, id := range sortedKeys(loc.NPCs) {
		npc, ok := w.GetNPC(id)
		if !ok {
			continue
		}
		visible, reason := npcPerceivable(loc.NPCs[id], npc, gs)
		if !visible {
			if debug {
				excluded["npc:"+id] = reason
			}
			continue
		}
		snap.VisibleNPCs = append(snap.VisibleNPCs, SnapshotNPC{ID: id, Name: npc.Name})
	}

	for _, id := range gs.Inventory {
		if item, ok := w.GetItem(id); ok {
			snap.Inventory = append(snap.Inventory, item.Name)
		} else {
			snap.Inventory = append(snap.Inventory, id)
		}
	}

	for _, flag := range sortedBoolKeys(gs.Flags) {
		if gs.Flags[flag] {
			snap.KnownFacts = append(snap.KnownFacts, flag)
		}
	}

	return snap, excluded
}

func sortedKeys(m map[string]world.Placement) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDetailKeys(m map[string]world.Detail) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBoolKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
