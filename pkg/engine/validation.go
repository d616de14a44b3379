package engine

// RejectionCode is the closed enumeration of reasons an action can be
// disallowed. Codes are grouped by concern; the narrator turns the
// accompanying reason into in-world prose, so codes are never shown to
// the player directly.
type RejectionCode string

const (
	// Exits and movement
	RejectNoExit             RejectionCode = "NO_EXIT"
	RejectExitBlocked        RejectionCode = "EXIT_BLOCKED"
	RejectPreconditionFailed RejectionCode = "PRECONDITION_FAILED"

	// Items
	RejectAlreadyHave     RejectionCode = "ALREADY_HAVE"
	RejectItemNotHere     RejectionCode = "ITEM_NOT_HERE"
	RejectItemNotVisible  RejectionCode = "ITEM_NOT_VISIBLE"
	RejectItemNotPortable RejectionCode = "ITEM_NOT_PORTABLE"
	RejectItemNotHeld     RejectionCode = "ITEM_NOT_HELD"

	// Containers
	RejectContainerClosed RejectionCode = "CONTAINER_CLOSED"
	RejectContainerLocked RejectionCode = "CONTAINER_LOCKED"
	RejectAlreadyOpen     RejectionCode = "ALREADY_OPEN"
	RejectAlreadyClosed   RejectionCode = "ALREADY_CLOSED"
	RejectNotAContainer   RejectionCode = "NOT_A_CONTAINER"

	// NPCs
	RejectNPCNotHere      RejectionCode = "NPC_NOT_HERE"
	RejectNPCUnavailable  RejectionCode = "NPC_UNAVAILABLE"
	RejectTopicUnknown    RejectionCode = "TOPIC_UNKNOWN"

	// Combination and instruments
	RejectWrongInstrument RejectionCode = "WRONG_INSTRUMENT"
	RejectCannotCombine   RejectionCode = "CANNOT_COMBINE"

	// Parsing and logic
	RejectTargetNotFound  RejectionCode = "TARGET_NOT_FOUND"
	RejectAmbiguousTarget RejectionCode = "AMBIGUOUS_TARGET"
	RejectUnknownVerb     RejectionCode = "UNKNOWN_VERB"
	RejectInvalidState    RejectionCode = "INVALID_STATE"

	// Safety
	RejectUnsafeAction RejectionCode = "UNSAFE_ACTION"
)

// ValidationResult is the outcome of validating an intent. On accept,
// Context carries the per-action payload (MoveAccepted, TakeAccepted,
// ExamineAccepted). On reject, Code and Reason are both required.
type ValidationResult struct {
	Valid   bool
	Context any
	Code    RejectionCode
	Reason  string
	Hint    string
}

// MoveAccepted is the accept payload of the movement validator.
type MoveAccepted struct {
	Destination     string
	DestinationName string
	FirstVisit      bool
	Direction       string
	FromLocation    string
}

// TakeAccepted is the accept payload of the take validator.
type TakeAccepted struct {
	ItemID          string
	ItemName        string
	TakeDescription string
	FromLocation    string
}

// ExamineEntityType discriminates what an examine target resolved to.
type ExamineEntityType string

const (
	ExamineItem   ExamineEntityType = "item"
	ExamineDetail ExamineEntityType = "detail"
	ExamineExit   ExamineEntityType = "exit"
	ExamineNPC    ExamineEntityType = "npc"
)

// ExamineAccepted is the accept payload of the examine validator.
type ExamineAccepted struct {
	EntityType       ExamineEntityType
	EntityID         string
	EntityName       string
	Description      string
	InInventory      bool
	Direction        string // exits only
	DestinationID    string // exits only
	DestinationName  string // exits only, empty unless the destination is known
	DestinationKnown bool   // exits only
	OpensContainer   bool   // items only: examining a closed container opens it
	OnExamine        *ExamineEffect
}

// ExamineEffect is an on-examine side effect to be applied by the
// examine handler's execute step.
type ExamineEffect struct {
	SetsFlag          string
	RevealDestination bool
	Direction         string
	NarrativeHint     string
}

// Accept builds a valid result carrying an accept payload.
func Accept(context any) ValidationResult {
	return ValidationResult{Valid: true, Context: context}
}

// Reject builds an invalid result. Both code and reason are required;
// omitting either is a contract violation and panics.
func Reject(code RejectionCode, reason string) ValidationResult {
	return RejectWithHint(code, reason, "")
}

// RejectWithHint is Reject with a spoiler-safe hint for the narrator.
func RejectWithHint(code RejectionCode, reason, hint string) ValidationResult {
	if code == "" {
		panic("engine: rejection code is required for an invalid result")
	}
	if reason == "" {
		panic("engine: rejection reason is required for an invalid result")
	}
	return ValidationResult{Valid: false, Code: code, Reason: reason, Hint: hint}
}

// ToRejectionEvent converts an invalid result into its narration event.
// Calling it on a valid result is a programming error and panics.
func (vr ValidationResult) ToRejectionEvent(intent Intent) Event {
	if vr.Valid {
		panic("engine: ToRejectionEvent called on a valid result")
	}
	return NewRejectionEvent(intent, vr.Code, vr.Reason, vr.Hint)
}
