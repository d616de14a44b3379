package engine

import (
	"testing"
)

func snapshotItemIDs(snap *PerceptionSnapshot) []string {
	ids := make([]string, 0, len(snap.VisibleItems))
	for _, item := range snap.VisibleItems {
		ids = append(ids, item.ID)
	}
	return ids
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func TestSnapshotExcludesUndiscovered(t *testing.T) {
	w := testWorld()
	gs := testState(w)

	snap := BuildSnapshot(gs, w)

	ids := snapshotItemIDs(snap)
	if !containsString(ids, "lamp") {
		t.Error("visible item should appear in the snapshot")
	}
	if containsString(ids, "coin") {
		t.Error("hidden item must not appear before its reveal flag is set")
	}
	if containsString(ids, "gem") {
		t.Error("concealed item must not appear while its container is closed")
	}

	detailIDs := make([]string, 0)
	for _, d := range snap.VisibleDetails {
		detailIDs = append(detailIDs, d.ID)
	}
	if containsString(detailIDs, "inscription") {
		t.Error("hidden detail must not appear before its reveal flag is set")
	}

	npcIDs := make([]string, 0)
	for _, n := range snap.VisibleNPCs {
		npcIDs = append(npcIDs, n.ID)
	}
	if !containsString(npcIDs, "butler") {
		t.Error("visible NPC should appear in the snapshot")
	}
	if containsString(npcIDs, "ghost") {
		t.Error("NPC behind an appears flag must not appear before the flag is set")
	}
}

func TestSnapshotRevealsAfterDiscovery(t *testing.T) {
	w := testWorld()
	gs := testState(w)

	gs.SetFlag("saw_portrait", true)
	gs.SetContainerState("chest", true)
	gs.SetFlag("seance_held", true)

	snap := BuildSnapshot(gs, w)
	ids := snapshotItemIDs(snap)
	if !containsString(ids, "coin") {
		t.Error("revealed hidden item should appear")
	}
	if !containsString(ids, "gem") {
		t.Error("item in an open container should appear")
	}

	npcIDs := make([]string, 0)
	for _, n := range snap.VisibleNPCs {
		npcIDs = append(npcIDs, n.ID)
	}
	if !containsString(npcIDs, "ghost") {
		t.Error("gated NPC should appear once the appears flag is set")
	}
}

func TestSnapshotWithholdsUnknownDestinations(t *testing.T) {
	w := testWorld()
	gs := testState(w)

	snap := BuildSnapshot(gs, w)
	for _, exit := range snap.VisibleExits {
		if exit.Direction != "east" {
			continue
		}
		if exit.DestinationKnown {
			t.Error("unvisited, unrevealed destination must be unknown")
		}
		if exit.DestinationID != "" || exit.DestinationName != "" {
			t.Error("unknown destinations must be withheld entirely, not merely flagged")
		}
	}
}

func TestSnapshotExitKnownByEachPath(t *testing.T) {
	w := testWorld()

	eastKnown := func(snap *PerceptionSnapshot) bool {
		for _, exit := range snap.VisibleExits {
			if exit.Direction == "east" {
				return exit.DestinationKnown
			}
		}
		return false
	}

	// Path 1: the flag-based reveal.
	gs := testState(w)
	gs.SetFlag("vault_marked", true)
	if !eastKnown(BuildSnapshot(gs, w)) {
		t.Error("exit-reveal flag should make the destination known")
	}

	// Path 2: dynamic reveal.
	gs = testState(w)
	gs.RevealExitDestination("hall", "east")
	if !eastKnown(BuildSnapshot(gs, w)) {
		t.Error("dynamic reveal should make the destination known")
	}

	// Path 3: prior visit.
	gs = testState(w)
	gs.MoveTo("vault")
	gs.MoveTo("hall")
	if !eastKnown(BuildSnapshot(gs, w)) {
		t.Error("a visited destination should be known")
	}
}

func TestSnapshotAffordances(t *testing.T) {
	w := testWorld()
	gs := testState(w)

	snap := BuildSnapshot(gs, w)
	if !containsString(snap.Affordances.OpenableContainers, "oak chest") {
		t.Errorf("closed container should be listed as openable, got %v", snap.Affordances.OpenableContainers)
	}
	if !containsString(snap.Affordances.PortableItems, "oil lamp") {
		t.Errorf("portable visible item should be listed, got %v", snap.Affordances.PortableItems)
	}

	gs.SetContainerState("chest", true)
	snap = BuildSnapshot(gs, w)
	if containsString(snap.Affordances.OpenableContainers, "oak chest") {
		t.Error("an open container is no longer an openable affordance")
	}
}

func TestSnapshotDeterministicOrder(t *testing.T) {
	w := testWorld()
	gs := testState(w)
	gs.SetFlag("saw_portrait", true)
	gs.SetContainerState("chest", true)

	first := BuildSnapshot(gs, w)
	for i := 0; i < 10; i++ {
		snap := BuildSnapshot(gs, w)
		for j := range snap.VisibleItems {
			if snap.VisibleItems[j].ID != first.VisibleItems[j].ID {
				t.Fatal("item order must be deterministic across builds")
			}
		}
		for j := range snap.VisibleExits {
			if snap.VisibleExits[j].Direction != first.VisibleExits[j].Direction {
				t.Fatal("exit order must be deterministic across builds")
			}
		}
	}
}

func TestDebugSnapshotReportsExclusions(t *testing.T) {
	w := testWorld()
	gs := testState(w)

	snap, excluded := BuildDebugSnapshot(gs, w)
	if snap == nil {
		t.Fatal("debug snapshot should still be built")
	}
	if excluded["item:coin"] != ReasonHidden {
		t.Errorf("expected coin excluded as hidden, got %v", excluded["item:coin"])
	}
	if excluded["item:gem"] != ReasonConcealed {
		t.Errorf("expected gem excluded as concealed, got %v", excluded["item:gem"])
	}
	if excluded["exit:east"] != "destination unknown" {
		t.Errorf("expected east exit excluded as unknown, got %v", excluded["exit:east"])
	}
	if excluded["npc:ghost"] != ReasonHidden {
		t.Errorf("expected ghost excluded as hidden, got %v", excluded["npc:ghost"])
	}
}

func TestAnalyzeItemVisibilityAlreadyTaken(t *testing.T) {
	w := testWorld()
	gs := testState(w)
	gs.AddItem("lamp")

	loc, _ := w.GetLocation("hall")
	visible, reason := AnalyzeItemVisibility(loc.Items["lamp"], "lamp", gs)
	if visible {
		t.Error("a held item is no longer visible at its placement")
	}
	if reason != ReasonAlreadyTaken {
		t.Errorf("expected reason %q, got %q", ReasonAlreadyTaken, reason)
	}
}

func TestSnapshotKnownFacts(t *testing.T) {
	w := testWorld()
	gs := testState(w)
	gs.SetFlag("saw_portrait", true)
	gs.SetFlag("cleared", false)

	snap := BuildSnapshot(gs, w)
	if !containsString(snap.KnownFacts, "saw_portrait") {
		t.Error("set flags should surface as known facts")
	}
	if containsString(snap.KnownFacts, "cleared") {
		t.Error("false flags are not known facts")
	}
}
