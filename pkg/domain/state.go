package domain

// WizardStatus indicates where a session is in the flow.
type WizardStatus string

const (
	// StatusActive means the session is on a step and accepting answers.
	StatusActive WizardStatus = "active"
	// StatusResults means the flow reached the implicit terminal state.
	StatusResults WizardStatus = "results"
)

// WizardState is the runtime snapshot of one visitor's wizard session.
// It is created fresh per page view, mutated only by transitions, and never
// persisted beyond the session store's TTL.
type WizardState struct {
	SessionID string       `json:"session_id"`
	Route     string       `json:"route"`
	BlockID   string       `json:"block_id"`
	StepIndex int          `json:"step_index"`
	Status    WizardStatus `json:"status"`

	// Answers is the Answer Map: field ID to scalar, string, or string list.
	Answers map[string]any `json:"answers"`

	// History holds visited step indices so Back needs no re-validation.
	History []int `json:"history"`
}

// NewWizardState creates a clean session positioned on the first step.
func NewWizardState(sessionID, route, blockID string) *WizardState {
	return &WizardState{
		SessionID: sessionID,
		Route:     route,
		BlockID:   blockID,
		StepIndex: 0,
		Status:    StatusActive,
		Answers:   make(map[string]any),
		History:   []int{},
	}
}

// Clone copies the state with a fresh answer map and history slice, so a
// failed transition can be discarded without touching the original.
func (s *WizardState) Clone() *WizardState {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.History = append([]int(nil), s.History...)
	return &next
}
