package engine

// ActionType discriminates the closed set of supported action categories.
type ActionType string

const (
	ActionMove    ActionType = "move"
	ActionExamine ActionType = "examine"
	ActionTake    ActionType = "take"
	ActionBrowse  ActionType = "browse"
	ActionFlavor  ActionType = "flavor"
)

// Intent is the structured representation of what the player is trying
// to do, produced by a parser and consumed once by the processor.
// It is a sealed union: ActionIntent for state-changing actions and
// FlavorIntent for atmospheric ones.
type Intent interface {
	Type() ActionType
	Raw() string

	sealed()
}

// ActionIntent is a parsed state-changing action.
type ActionIntent struct {
	Action       ActionType `json:"action"`
	RawInput     string     `json:"raw_input"`
	Verb         string     `json:"verb,omitempty"`
	TargetID     string     `json:"target_id,omitempty"` // direction for movement, entity id otherwise
	InstrumentID string     `json:"instrument_id,omitempty"`
	TopicID      string     `json:"topic_id,omitempty"`
	RecipientID  string     `json:"recipient_id,omitempty"`
	Confidence   float64    `json:"confidence"`
	Alternatives []string   `json:"alternatives,omitempty"`
}

func (a ActionIntent) Type() ActionType { return a.Action }
func (a ActionIntent) Raw() string      { return a.RawInput }
func (ActionIntent) sealed()            {}

// FlavorIntent is a parsed atmospheric action with no state implication.
type FlavorIntent struct {
	RawInput string `json:"raw_input"`
	Verb     string `json:"verb"`
	Target   string `json:"target,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Manner   string `json:"manner,omitempty"`
}

func (FlavorIntent) Type() ActionType { return ActionFlavor }
func (f FlavorIntent) Raw() string    { return f.RawInput }
func (FlavorIntent) sealed()          {}
