package engine

// EventType enumerates the narration-facing event categories.
type EventType string

const (
	// Movement
	EventLocationChanged EventType = "LOCATION_CHANGED"
	EventMovementBlocked EventType = "MOVEMENT_BLOCKED"

	// Items
	EventItemTaken    EventType = "ITEM_TAKEN"
	EventItemDropped  EventType = "ITEM_DROPPED"
	EventItemExamined EventType = "ITEM_EXAMINED"
	EventItemUsed     EventType = "ITEM_USED"
	EventItemRevealed EventType = "ITEM_REVEALED"

	// Containers
	EventContainerOpened EventType = "CONTAINER_OPENED"
	EventContainerClosed EventType = "CONTAINER_CLOSED"

	// Discovery
	EventDetailExamined   EventType = "DETAIL_EXAMINED"
	EventExitExamined     EventType = "EXIT_EXAMINED"
	EventExitRevealed     EventType = "EXIT_REVEALED"
	EventSecretDiscovered EventType = "SECRET_DISCOVERED"
	EventFlagSet          EventType = "FLAG_SET"

	// NPCs
	EventNPCEncountered  EventType = "NPC_ENCOUNTERED"
	EventNPCSpoke        EventType = "NPC_SPOKE"
	EventNPCDeparted     EventType = "NPC_DEPARTED"
	EventNPCTrustChanged EventType = "NPC_TRUST_CHANGED"

	// Scene
	EventSceneBrowsed EventType = "SCENE_BROWSED"
	EventFlavorAction EventType = "FLAVOR_ACTION"

	// Game state
	EventGameStarted EventType = "GAME_STARTED"
	EventGameWon     EventType = "GAME_WON"
	EventGameLost    EventType = "GAME_LOST"

	// Meta
	EventActionRejected EventType = "ACTION_REJECTED"
	EventTurnElapsed    EventType = "TURN_ELAPSED"
)

// Event is the narration-facing record of something that happened,
// decoupled from raw game state. Events and the perception snapshot are
// the only inputs the narrator ever sees.
type Event struct {
	Type    EventType      `json:"type"`
	Subject string         `json:"subject,omitempty"`
	Target  string         `json:"target,omitempty"`
	Context map[string]any `json:"context,omitempty"`
	Primary bool           `json:"primary"`
}

// NewEvent builds a primary event.
func NewEvent(t EventType, subject, target string, context map[string]any) Event {
	if context == nil {
		context = make(map[string]any)
	}
	return Event{
		Type:    t,
		Subject: subject,
		Target:  target,
		Context: context,
		Primary: true,
	}
}

// NewSideEffectEvent builds a non-primary event for secondary outcomes.
func NewSideEffectEvent(t EventType, subject, target string, context map[string]any) Event {
	e := NewEvent(t, subject, target, context)
	e.Primary = false
	return e
}

// NewRejectionEvent builds the ACTION_REJECTED specialization. The
// wouldHave hint tells the narrator what the player was reaching for
// without revealing anything undiscovered.
func NewRejectionEvent(intent Intent, code RejectionCode, reason, wouldHave string) Event {
	ctx := map[string]any{
		"rejection_code":   string(code),
		"rejection_reason": reason,
		"raw_input":        intent.Raw(),
	}
	if wouldHave != "" {
		ctx["would_have"] = wouldHave
	}
	return NewEvent(EventActionRejected, "", "", ctx)
}
