package engine

// Registry is the static capability table associating each action type
// with its handler. The set of supported actions is closed; dispatch is
// by enum variant, never by string or reflection.
type Registry struct {
	handlers map[ActionType]Handler
}

// NewRegistry builds the default handler table.
func NewRegistry() *Registry {
	return &Registry{
		handlers: map[ActionType]Handler{
			ActionMove:    &MovementHandler{},
			ActionTake:    &TakeHandler{},
			ActionExamine: &ExamineHandler{},
			ActionBrowse:  &BrowseHandler{},
			ActionFlavor:  &FlavorHandler{},
		},
	}
}

// Lookup returns the handler for an action type.
func (r *Registry) Lookup(t ActionType) (Handler, bool) {
	h, ok := r.handlers[t]
	return h, ok
}
