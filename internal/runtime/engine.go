// Package runtime implements the wizard state machine: ordered steps,
// condition-driven branching, history-based Back, and the implicit terminal
// Results state. The engine is stateless; all session data lives in the
// WizardState the caller passes in, so one engine serves every session.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/masonrylabs/masonry/internal/logging"
	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/expr"
)

// Engine drives wizard transitions. Safe for concurrent use across sessions;
// within one session the caller serializes (user-initiated actions only).
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// NewEngine creates a wizard engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Next merges the submitted answers, validates the current step's required
// fields, and resolves the transition: first true branch, else declared
// nextStep, else positional advance; past the last step means Results.
//
// On validation failure the returned error is a *domain.StepValidationError
// and the input state is untouched.
func (e *Engine) Next(ctx context.Context, spec *domain.WizardSpec, state *domain.WizardState, answers map[string]any) (*domain.WizardState, error) {
	if state.Status == domain.StatusResults || state.StepIndex >= len(spec.Steps) {
		return state, nil
	}
	step := spec.Steps[state.StepIndex]

	// Work on a clone so a blocked transition mutates nothing.
	next := state.Clone()
	for k, v := range answers {
		next.Answers[k] = v
	}

	if missing := missingRequired(step, next.Answers); len(missing) > 0 {
		e.logger.Debug("step validation failed",
			"session_id", state.SessionID, "step_id", step.ID, "missing", missing)
		return nil, &domain.StepValidationError{StepID: step.ID, Missing: missing}
	}

	e.emitStep(ctx, domain.EventStepLeave, next, step.ID)

	target := e.resolveTarget(spec, step, next.Answers, state.StepIndex)
	next.History = append(next.History, state.StepIndex)

	if target >= len(spec.Steps) {
		next.Status = domain.StatusResults
		next.StepIndex = len(spec.Steps)
		e.emitStep(ctx, domain.EventWizardDone, next, step.ID)
		return next, nil
	}

	next.StepIndex = target
	e.emitStep(ctx, domain.EventStepEnter, next, spec.Steps[target].ID)
	return next, nil
}

// resolveTarget applies the priority order: conditional branches first,
// declared nextStep second, positional advance last. A branch or nextStep
// naming an unknown step is skipped rather than trusted.
func (e *Engine) resolveTarget(spec *domain.WizardSpec, step domain.Step, answers map[string]any, current int) int {
	for _, br := range step.Branches {
		if br.Condition == "" {
			continue
		}
		if expr.Evaluate(br.Condition, expr.Vars(answers)) {
			if idx := spec.StepByID(br.GoTo); idx >= 0 {
				return idx
			}
			e.logger.Warn("branch targets unknown step", "step_id", step.ID, "go_to", br.GoTo)
		}
	}
	if step.NextStep != "" {
		if idx := spec.StepByID(step.NextStep); idx >= 0 {
			return idx
		}
		e.logger.Warn("next_step targets unknown step", "step_id", step.ID, "next_step", step.NextStep)
	}
	return current + 1
}

// Back pops the history stack. No re-validation; answers are preserved.
func (e *Engine) Back(ctx context.Context, spec *domain.WizardSpec, state *domain.WizardState) *domain.WizardState {
	if len(state.History) == 0 {
		return state
	}
	next := state.Clone()
	next.StepIndex = next.History[len(next.History)-1]
	next.History = next.History[:len(next.History)-1]
	next.Status = domain.StatusActive
	if next.StepIndex < len(spec.Steps) {
		e.emitStep(ctx, domain.EventStepEnter, next, spec.Steps[next.StepIndex].ID)
	}
	return next
}

// Restart clears answers and history and returns to the first step.
func (e *Engine) Restart(ctx context.Context, spec *domain.WizardSpec, state *domain.WizardState) *domain.WizardState {
	next := domain.NewWizardState(state.SessionID, state.Route, state.BlockID)
	if len(spec.Steps) > 0 {
		e.emitStep(ctx, domain.EventStepEnter, next, spec.Steps[0].ID)
	}
	return next
}

// missingRequired lists required fields of a step that are absent or empty
// in the answer map.
func missingRequired(step domain.Step, answers map[string]any) []string {
	var missing []string
	for _, f := range step.Fields {
		if !f.Required {
			continue
		}
		if !answered(answers[f.ID]) {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

func answered(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

func (e *Engine) emitStep(ctx context.Context, typ domain.EventType, state *domain.WizardState, stepID string) {
	var hook func(context.Context, *domain.StepEvent)
	switch typ {
	case domain.EventStepEnter:
		hook = e.hooks.OnStepEnter
	case domain.EventStepLeave:
		hook = e.hooks.OnStepLeave
	case domain.EventWizardDone:
		hook = e.hooks.OnWizardDone
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		Timestamp: time.Now(),
		Type:      typ,
		SessionID: state.SessionID,
		StepID:    stepID,
		StepIndex: state.StepIndex,
	})
}
