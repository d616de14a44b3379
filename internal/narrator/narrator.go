package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fablesmith/scene-engine/internal/services"
	"github.com/fablesmith/scene-engine/pkg/chat"
	"github.com/fablesmith/scene-engine/pkg/engine"
	"github.com/fablesmith/scene-engine/pkg/textfilter"
)

// LLMNarrator renders engine events into prose through an LLM backend.
// It sees only events and the perception snapshot, never raw game
// state; the snapshot is the no-spoiler boundary and the prompt is
// built exclusively from it.
type LLMNarrator struct {
	llm    services.LLMService
	filter *textfilter.Filter // non-nil when the world rating calls for filtering
	logger *slog.Logger
}

var _ engine.Narrator = (*LLMNarrator)(nil)

func New(llm services.LLMService, rating string, logger *slog.Logger) *LLMNarrator {
	n := &LLMNarrator{
		llm:    llm,
		logger: logger,
	}
	if textfilter.AppliesTo(rating) {
		n.filter = textfilter.New()
	}
	return n
}

func (n *LLMNarrator) Narrate(ctx context.Context, events []engine.Event, snap *engine.PerceptionSnapshot) (string, map[string]any, error) {
	system := buildSystemPrompt(snap)
	user, err := buildEventPrompt(events)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build event prompt: %w", err)
	}

	resp, err := n.llm.Chat(ctx, []chat.Message{
		{Role: chat.RoleSystem, Content: system},
		{Role: chat.RoleUser, Content: user},
	})
	if err != nil {
		return "", nil, fmt.Errorf("narration request failed: %w", err)
	}

	narrative := strings.TrimSpace(resp.Message)
	if n.filter != nil {
		narrative = n.filter.Apply(narrative)
	}

	debug := map[string]any{
		"model":       resp.Model,
		"event_count": len(events),
		"filtered":    n.filter != nil,
	}
	return narrative, debug, nil
}

// buildSystemPrompt describes the narrator role and the current scene,
// using only what the snapshot permits the player to know.
func buildSystemPrompt(snap *engine.PerceptionSnapshot) string {
	var b strings.Builder
	b.WriteString("You are the narrator of a text adventure game. ")
	b.WriteString("Describe outcomes in second person, present tense, in 2-4 sentences. ")
	b.WriteString("Mention only things listed below. Never invent rooms, items, characters or exits.\n\n")

	fmt.Fprintf(&b, "Current location: %s\n", snap.LocationName)
	if snap.Atmosphere != "" {
		fmt.Fprintf(&b, "Atmosphere: %s\n", snap.Atmosphere)
	}
	if snap.FirstVisit {
		b.WriteString("This is the player's first time here; describe the scene fully.\n")
	}

	if len(snap.VisibleItems) > 0 {
		b.WriteString("Visible items:\n")
		for _, item := range snap.VisibleItems {
			fmt.Fprintf(&b, "- %s", item.Name)
			if item.Description != "" {
				fmt.Fprintf(&b, ": %s", item.Description)
			}
			b.WriteString("\n")
		}
	}
	if len(snap.VisibleDetails) > 0 {
		b.WriteString("Notable features:\n")
		for _, d := range snap.VisibleDetails {
			fmt.Fprintf(&b, "- %s\n", d.Text)
		}
	}
	if len(snap.VisibleNPCs) > 0 {
		b.WriteString("Characters present:\n")
		for _, npc := range snap.VisibleNPCs {
			fmt.Fprintf(&b, "- %s\n", npc.Name)
		}
	}
	if len(snap.VisibleExits) > 0 {
		b.WriteString("Exits:\n")
		for _, exit := range snap.VisibleExits {
			if exit.DestinationKnown {
				fmt.Fprintf(&b, "- %s, toward %s\n", exit.Direction, exit.DestinationName)
			} else {
				fmt.Fprintf(&b, "- %s, destination unknown\n", exit.Direction)
			}
		}
	}
	if len(snap.Inventory) > 0 {
		fmt.Fprintf(&b, "Player inventory: %s\n", strings.Join(snap.Inventory, ", "))
	}
	if len(snap.Affordances.OpenableContainers) > 0 {
		fmt.Fprintf(&b, "Containers that could be opened: %s\n", strings.Join(snap.Affordances.OpenableContainers, ", "))
	}

	b.WriteString("\nIf the events describe a rejected action, weave the refusal into the fiction; never read like an error message.")
	return b.String()
}

// buildEventPrompt serializes the turn's events for the model.
func buildEventPrompt(events []engine.Event) (string, error) {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", err
	}
	return "Narrate the following events:\n" + string(data), nil
}
