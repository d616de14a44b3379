package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// Narrator turns events and a perception snapshot into prose. The
// snapshot is the only permissible source of world facts; the narrator
// is never given raw game state.
type Narrator interface {
	Narrate(ctx context.Context, events []Event, snap *PerceptionSnapshot) (string, map[string]any, error)
}

// StateView is the redacted-safe state slice included in responses.
type StateView struct {
	SessionID    string   `json:"session_id"`
	LocationID   string   `json:"location_id"`
	LocationName string   `json:"location_name,omitempty"`
	Inventory    []string `json:"inventory"`
	TurnCount    int      `json:"turn_count"`
	Status       string   `json:"status"`
}

// Response is the assembled result of processing one action.
type Response struct {
	Narrative       string         `json:"narrative"`
	State           StateView      `json:"state"`
	Events          []Event        `json:"events"`
	GameComplete    bool           `json:"game_complete"`
	EndingNarrative string         `json:"ending_narrative,omitempty"`
	Debug           map[string]any `json:"debug,omitempty"`
}

// Options tunes processor policy.
type Options struct {
	// FreeRejections makes rule-violation rejections cost no turn.
	// The default policy is that a rejected action still costs a turn.
	FreeRejections bool
}

// Fixed responses for the two LLM-free paths.
const (
	gameEndedMessage     = "The game has ended. Start a new session to play again."
	notUnderstoodMessage = "You're not sure how to do that. Try a direction, or 'look'."

	endingDelimiter = "\n\n---\n\n"
)

// Processor orchestrates the two-phase pipeline: parse, validate,
// execute, narrate, victory check.
type Processor struct {
	world    *world.World
	parser   Parser
	registry *Registry
	narrator Narrator
	logger   *slog.Logger
	opts     Options
}

func NewProcessor(w *world.World, narrator Narrator, logger *slog.Logger, opts Options) *Processor {
	return &Processor{
		world:    w,
		parser:   NewRuleParser(),
		registry: NewRegistry(),
		narrator: narrator,
		logger:   logger,
		opts:     opts,
	}
}

// WithParser swaps the phase-one parser, e.g. for an AI-backed
// fallback chain implementing the same contract.
func (p *Processor) WithParser(parser Parser) *Processor {
	p.parser = parser
	return p
}

// Process runs one action through the pipeline and assembles the
// response. One action is processed start to finish before the next is
// accepted for a session.
func (p *Processor) Process(ctx context.Context, gs *state.GameState, raw string) (*Response, error) {
	if gs.Status != state.StatusPlaying {
		return &Response{
			Narrative:    gameEndedMessage,
			State:        p.stateView(gs),
			Events:       []Event{},
			GameComplete: true,
		}, nil
	}

	intent := p.parser.Parse(raw, gs, p.world)
	if intent == nil {
		// Fast, LLM-free path: no turn cost, no narrator call.
		p.logger.Debug("input not recognized", "session", gs.ID, "input", raw)
		return &Response{
			Narrative: notUnderstoodMessage,
			State:     p.stateView(gs),
			Events:    []Event{},
		}, nil
	}

	handler, ok := p.registry.Lookup(intent.Type())
	if !ok {
		// Unsupported action types are treated identically to parse failure.
		p.logger.Debug("no handler for action type", "session", gs.ID, "action", intent.Type())
		return &Response{
			Narrative: notUnderstoodMessage,
			State:     p.stateView(gs),
			Events:    []Event{},
		}, nil
	}

	result := handler.Validate(intent, gs, p.world)
	if !result.Valid {
		return p.processRejection(ctx, gs, intent, result)
	}

	if err := handler.Execute(intent, result, gs); err != nil {
		return nil, fmt.Errorf("failed to execute %s action: %w", intent.Type(), err)
	}

	snap := BuildSnapshot(gs, p.world)
	if ma, ok := result.Context.(MoveAccepted); ok {
		snap.FirstVisit = ma.FirstVisit
	}

	event := handler.CreateEvent(intent, result, gs, p.world, snap)
	events := []Event{event}

	narrative, debug, err := p.narrator.Narrate(ctx, events, snap)
	if err != nil {
		return nil, fmt.Errorf("narration failed: %w", err)
	}

	gs.IncrementTurn()

	resp := &Response{
		Narrative: narrative,
		Events:    events,
		Debug:     debug,
	}

	if handler.ChecksVictory() {
		if won, ending := gs.CheckVictory(p.world.Victory); won {
			p.logger.Info("victory condition met", "session", gs.ID, "turn", gs.TurnCount)
			resp.Events = append(resp.Events, NewSideEffectEvent(EventGameWon, "player", "", map[string]any{
				"ending_narrative": ending,
			}))
			resp.Narrative = narrative + endingDelimiter + ending
			resp.EndingNarrative = ending
			resp.GameComplete = true
		}
	}

	resp.State = p.stateView(gs)
	return resp, nil
}

// processRejection narrates a rule violation. The snapshot is built at
// the unchanged location and no victory check runs; a rejected action
// cannot fulfill a conjunction it never achieved.
func (p *Processor) processRejection(ctx context.Context, gs *state.GameState, intent Intent, result ValidationResult) (*Response, error) {
	event := result.ToRejectionEvent(intent)
	snap := BuildSnapshot(gs, p.world)

	narrative, debug, err := p.narrator.Narrate(ctx, []Event{event}, snap)
	if err != nil {
		return nil, fmt.Errorf("narration failed: %w", err)
	}

	if !p.opts.FreeRejections {
		gs.IncrementTurn()
	}

	return &Response{
		Narrative: narrative,
		State:     p.stateView(gs),
		Events:    []Event{event},
		Debug:     debug,
	}, nil
}

// OpeningNarrative generates the new-session opening: a synthetic
// LOCATION_CHANGED event tagged as the opening, narrated against a
// first-visit snapshot. No turn is consumed.
func (p *Processor) OpeningNarrative(ctx context.Context, gs *state.GameState) (*Response, error) {
	snap := BuildSnapshot(gs, p.world)
	snap.FirstVisit = true

	eventCtx := map[string]any{
		"is_opening":       true,
		"first_visit":      true,
		"destination_name": snap.LocationName,
		"atmosphere":       snap.Atmosphere,
		"visible_items":    snap.VisibleItems,
		"visible_npcs":     snap.VisibleNPCs,
		"visible_exits":    snap.VisibleExits,
	}
	events := []Event{NewEvent(EventLocationChanged, "player", gs.Location, eventCtx)}

	narrative, debug, err := p.narrator.Narrate(ctx, events, snap)
	if err != nil {
		return nil, fmt.Errorf("opening narration failed: %w", err)
	}

	return &Response{
		Narrative: narrative,
		State:     p.stateView(gs),
		Events:    events,
		Debug:     debug,
	}, nil
}

func (p *Processor) stateView(gs *state.GameState) StateView {
	view := StateView{
		SessionID:  gs.ID.String(),
		LocationID: gs.Location,
		Inventory:  make([]string, 0, len(gs.Inventory)),
		TurnCount:  gs.TurnCount,
		Status:     string(gs.Status),
	}
	if loc, ok := p.world.GetLocation(gs.Location); ok {
		view.LocationName = loc.Name
	}
	for _, id := range gs.Inventory {
		if item, ok := p.world.GetItem(id); ok {
			view.Inventory = append(view.Inventory, item.Name)
		} else {
			view.Inventory = append(view.Inventory, id)
		}
	}
	return view
}
