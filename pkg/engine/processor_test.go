package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// stubNarrator records what it was asked to narrate and returns canned
// prose.
type stubNarrator struct {
	narrative string
	calls     int
	events    []Event
	snap      *PerceptionSnapshot
	err       error
}

func (s *stubNarrator) Narrate(ctx context.Context, events []Event, snap *PerceptionSnapshot) (string, map[string]any, error) {
	s.calls++
	s.events = events
	s.snap = snap
	if s.err != nil {
		return "", nil, s.err
	}
	return s.narrative, map[string]any{"model": "stub"}, nil
}

func newTestProcessor(opts Options) (*Processor, *stubNarrator) {
	n := &stubNarrator{narrative: "The scene unfolds."}
	w := testWorld()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProcessor(w, n, logger, opts), n
}

func TestProcessUnrecognizedInput(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)

	resp, err := p.Process(context.Background(), gs, "take lamp with gusto please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Narrative != notUnderstoodMessage {
		t.Errorf("expected the fixed not-understood message, got %q", resp.Narrative)
	}
	if gs.TurnCount != 0 {
		t.Error("an unparseable input must not cost a turn")
	}
	if n.calls != 0 {
		t.Error("the narrator must not be called for unparseable input")
	}
	if len(resp.Events) != 0 {
		t.Errorf("expected no events, got %d", len(resp.Events))
	}
}

func TestProcessSuccessfulMove(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)

	resp, err := p.Process(context.Background(), gs, "north")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Location != "garden" {
		t.Errorf("expected garden, got %q", gs.Location)
	}
	if gs.TurnCount != 1 {
		t.Errorf("a successful action costs one turn, got %d", gs.TurnCount)
	}
	if resp.Narrative != "The scene unfolds." {
		t.Errorf("unexpected narrative %q", resp.Narrative)
	}
	if len(resp.Events) != 1 || resp.Events[0].Type != EventLocationChanged {
		t.Fatalf("expected one LOCATION_CHANGED event, got %+v", resp.Events)
	}
	if n.snap == nil || n.snap.LocationID != "garden" {
		t.Error("the narrator snapshot must be built at the post-move location")
	}
	if !n.snap.FirstVisit {
		t.Error("first move to the garden should be narrated as a first visit")
	}
	if resp.State.LocationID != "garden" || resp.State.TurnCount != 1 {
		t.Errorf("state view out of sync: %+v", resp.State)
	}
}

func TestProcessRejectionCostsTurn(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)

	resp, err := p.Process(context.Background(), gs, "east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Location != "hall" {
		t.Error("a rejected move must not change location")
	}
	if gs.TurnCount != 1 {
		t.Errorf("a rejected action costs a turn by default, got %d", gs.TurnCount)
	}
	if len(resp.Events) != 1 || resp.Events[0].Type != EventActionRejected {
		t.Fatalf("expected one ACTION_REJECTED event, got %+v", resp.Events)
	}
	if resp.Events[0].Context["rejection_code"] != string(RejectPreconditionFailed) {
		t.Errorf("unexpected rejection code %v", resp.Events[0].Context["rejection_code"])
	}
	if n.calls != 1 {
		t.Error("rejections are narrated")
	}
	if n.snap.LocationID != "hall" {
		t.Error("the rejection snapshot is built at the unchanged location")
	}
}

func TestProcessFreeRejections(t *testing.T) {
	p, _ := newTestProcessor(Options{FreeRejections: true})
	gs := testState(p.world)

	if _, err := p.Process(context.Background(), gs, "east"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.TurnCount != 0 {
		t.Errorf("with FreeRejections, a rejection costs no turn, got %d", gs.TurnCount)
	}
}

func TestProcessVictory(t *testing.T) {
	p, _ := newTestProcessor(Options{})
	gs := testState(p.world)
	gs.AddItem("lamp")
	gs.AddItem("gem")

	resp, err := p.Process(context.Background(), gs, "east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.GameComplete {
		t.Fatal("reaching the vault with the gem should complete the game")
	}
	if gs.Status != state.StatusWon {
		t.Errorf("expected status won, got %q", gs.Status)
	}
	if resp.EndingNarrative == "" {
		t.Error("the ending narrative should be set")
	}
	if !strings.Contains(resp.Narrative, endingDelimiter) {
		t.Error("the ending should be appended after the delimiter")
	}

	last := resp.Events[len(resp.Events)-1]
	if last.Type != EventGameWon {
		t.Errorf("expected a trailing GAME_WON event, got %s", last.Type)
	}
	if last.Primary {
		t.Error("GAME_WON is a side effect, not the primary event")
	}
}

func TestProcessAfterGameEnded(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)
	gs.SetStatus(state.StatusWon)
	gs.TurnCount = 7

	resp, err := p.Process(context.Background(), gs, "north")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Narrative != gameEndedMessage {
		t.Errorf("expected the fixed game-ended message, got %q", resp.Narrative)
	}
	if !resp.GameComplete {
		t.Error("an ended game reports complete")
	}
	if gs.TurnCount != 7 {
		t.Error("actions after the end must not cost turns")
	}
	if n.calls != 0 {
		t.Error("the narrator must not be called after the game has ended")
	}
}

func TestProcessBrowse(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)

	resp, err := p.Process(context.Background(), gs, "look")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.TurnCount != 1 {
		t.Errorf("browsing costs a turn, got %d", gs.TurnCount)
	}
	if resp.Events[0].Type != EventSceneBrowsed {
		t.Errorf("expected SCENE_BROWSED, got %s", resp.Events[0].Type)
	}
	if resp.Events[0].Context["first_visit"] != false {
		t.Error("manual browse is never a first-visit reveal")
	}
	if n.snap.FirstVisit {
		t.Error("browse snapshot should not claim a first visit")
	}
}

func TestProcessFlavor(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)

	proc := p.WithParser(scriptedParser{intent: flavorIntent("dance", "", "", "wildly", "dance wildly")})
	resp, err := proc.Process(context.Background(), gs, "dance wildly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.TurnCount != 1 {
		t.Errorf("a flavor action costs a turn, got %d", gs.TurnCount)
	}
	if gs.Location != "hall" {
		t.Error("a flavor action must not move the player")
	}
	if len(resp.Events) != 1 || resp.Events[0].Type != EventFlavorAction {
		t.Fatalf("expected one FLAVOR_ACTION event, got %+v", resp.Events)
	}
	if resp.Events[0].Context["manner"] != "wildly" {
		t.Errorf("expected the manner to reach the narrator, got %v", resp.Events[0].Context["manner"])
	}
	if n.calls != 1 {
		t.Error("flavor actions are narrated")
	}
}

func TestProcessVictoryNotCheckedOnExamine(t *testing.T) {
	p, _ := newTestProcessor(Options{})
	gs := testState(p.world)
	// Put the state into a winning configuration, but at the wrong
	// moment: examine does not check victory.
	gs.AddItem("gem")
	gs.MoveTo("vault")

	proc := p.WithParser(scriptedParser{intent: examineIntent("west")})
	resp, err := proc.Process(context.Background(), gs, "examine west")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GameComplete {
		t.Error("examine must not trigger the victory check")
	}
	if gs.Status != state.StatusPlaying {
		t.Errorf("expected still playing, got %q", gs.Status)
	}
}

// scriptedParser returns a fixed intent, standing in for the AI parser.
type scriptedParser struct {
	intent Intent
}

func (s scriptedParser) Parse(raw string, gs *state.GameState, w *world.World) Intent {
	return s.intent
}

func TestOpeningNarrative(t *testing.T) {
	p, n := newTestProcessor(Options{})
	gs := testState(p.world)

	resp, err := p.OpeningNarrative(context.Background(), gs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.TurnCount != 0 {
		t.Error("the opening costs no turn")
	}
	if len(resp.Events) != 1 || resp.Events[0].Type != EventLocationChanged {
		t.Fatalf("expected a synthetic LOCATION_CHANGED, got %+v", resp.Events)
	}
	if resp.Events[0].Context["is_opening"] != true {
		t.Error("the opening event should be tagged as the opening")
	}
	if !n.snap.FirstVisit {
		t.Error("the opening is narrated as a first visit")
	}
}

func TestProcessNarratorFailurePropagates(t *testing.T) {
	p, n := newTestProcessor(Options{})
	n.err = context.DeadlineExceeded
	gs := testState(p.world)

	if _, err := p.Process(context.Background(), gs, "north"); err == nil {
		t.Fatal("narrator failure should surface as an error")
	}
}
