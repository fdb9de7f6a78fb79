package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonrylabs/masonry/internal/runtime"
	"github.com/masonrylabs/masonry/pkg/domain"
)

func linearSpec() *domain.WizardSpec {
	return &domain.WizardSpec{
		Steps: []domain.Step{
			{ID: "one", Fields: []domain.Field{{ID: "name", Required: true}}},
			{ID: "two", Fields: []domain.Field{{ID: "age", Required: true}}},
			{ID: "three", Fields: []domain.Field{{ID: "color"}}},
		},
	}
}

func TestNext_LinearFlowReachesResults(t *testing.T) {
	e := runtime.NewEngine()
	spec := linearSpec()
	ctx := context.Background()
	state := domain.NewWizardState("s1", "/quiz", "w1")

	state, err := e.Next(ctx, spec, state, map[string]any{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.StepIndex)

	state, err = e.Next(ctx, spec, state, map[string]any{"age": "34"})
	require.NoError(t, err)
	assert.Equal(t, 2, state.StepIndex)

	state, err = e.Next(ctx, spec, state, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResults, state.Status)
}

func TestNext_ValidationBlocksWithoutMutation(t *testing.T) {
	e := runtime.NewEngine()
	spec := linearSpec()
	state := domain.NewWizardState("s1", "/quiz", "w1")

	_, err := e.Next(context.Background(), spec, state, map[string]any{"name": ""})
	require.Error(t, err)
	var verr *domain.StepValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "one", verr.StepID)
	assert.Contains(t, verr.Missing, "name")

	// The original state is untouched: still on step 0, no answers recorded.
	assert.Equal(t, 0, state.StepIndex)
	assert.Empty(t, state.Answers)
	assert.Empty(t, state.History)
}

func TestBack_PreservesAnswers(t *testing.T) {
	e := runtime.NewEngine()
	spec := linearSpec()
	ctx := context.Background()
	state := domain.NewWizardState("s1", "/quiz", "w1")

	state, err := e.Next(ctx, spec, state, map[string]any{"name": "ada"})
	require.NoError(t, err)
	state, err = e.Next(ctx, spec, state, map[string]any{"age": "34"})
	require.NoError(t, err)
	require.Equal(t, 2, state.StepIndex)

	state = e.Back(ctx, spec, state)
	assert.Equal(t, 1, state.StepIndex)
	assert.Equal(t, "ada", state.Answers["name"])
	assert.Equal(t, "34", state.Answers["age"])

	// Back on an empty history is a no-op.
	state = e.Back(ctx, spec, state)
	state = e.Back(ctx, spec, state)
	assert.Equal(t, 0, state.StepIndex)
}

func TestRestart_ClearsEverything(t *testing.T) {
	e := runtime.NewEngine()
	spec := linearSpec()
	ctx := context.Background()
	state := domain.NewWizardState("s1", "/quiz", "w1")

	state, err := e.Next(ctx, spec, state, map[string]any{"name": "ada"})
	require.NoError(t, err)

	state = e.Restart(ctx, spec, state)
	assert.Equal(t, 0, state.StepIndex)
	assert.Empty(t, state.Answers)
	assert.Empty(t, state.History)
	assert.Equal(t, domain.StatusActive, state.Status)
}

func TestNext_BranchesFirstTrueWins(t *testing.T) {
	spec := &domain.WizardSpec{
		Steps: []domain.Step{
			{
				ID:     "intro",
				Fields: []domain.Field{{ID: "plan", Required: true}},
				Branches: []domain.Branch{
					{Condition: "plan == 'enterprise'", GoTo: "sales"},
					{Condition: "plan == 'pro'", GoTo: "checkout"},
					{Condition: "true", GoTo: "free"},
				},
			},
			{ID: "free"},
			{ID: "checkout"},
			{ID: "sales"},
		},
	}
	e := runtime.NewEngine()
	ctx := context.Background()

	state := domain.NewWizardState("s1", "/signup", "w1")
	state, err := e.Next(ctx, spec, state, map[string]any{"plan": "pro"})
	require.NoError(t, err)
	assert.Equal(t, "checkout", spec.Steps[state.StepIndex].ID)

	state = domain.NewWizardState("s2", "/signup", "w1")
	state, err = e.Next(ctx, spec, state, map[string]any{"plan": "basic"})
	require.NoError(t, err)
	assert.Equal(t, "free", spec.Steps[state.StepIndex].ID)
}

func TestNext_DeclaredNextStepBeatsPosition(t *testing.T) {
	spec := &domain.WizardSpec{
		Steps: []domain.Step{
			{ID: "a", NextStep: "c"},
			{ID: "b"},
			{ID: "c"},
		},
	}
	e := runtime.NewEngine()
	state := domain.NewWizardState("s1", "/x", "w")
	state, err := e.Next(context.Background(), spec, state, nil)
	require.NoError(t, err)
	assert.Equal(t, "c", spec.Steps[state.StepIndex].ID)
}

func TestNext_MalformedBranchConditionFailsClosed(t *testing.T) {
	spec := &domain.WizardSpec{
		Steps: []domain.Step{
			{ID: "a", Branches: []domain.Branch{{Condition: "plan == 'x", GoTo: "trap"}}},
			{ID: "b"},
			{ID: "trap"},
		},
	}
	e := runtime.NewEngine()
	state := domain.NewWizardState("s1", "/x", "w")
	state, err := e.Next(context.Background(), spec, state, map[string]any{"plan": "x"})
	require.NoError(t, err)
	assert.Equal(t, "b", spec.Steps[state.StepIndex].ID, "malformed condition must not branch")
}

func TestNext_UnknownBranchTargetSkipped(t *testing.T) {
	spec := &domain.WizardSpec{
		Steps: []domain.Step{
			{ID: "a", Branches: []domain.Branch{{Condition: "true", GoTo: "nowhere"}}},
			{ID: "b"},
		},
	}
	e := runtime.NewEngine()
	state := domain.NewWizardState("s1", "/x", "w")
	state, err := e.Next(context.Background(), spec, state, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", spec.Steps[state.StepIndex].ID)
}
