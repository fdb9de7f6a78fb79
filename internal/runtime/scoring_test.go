package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masonrylabs/masonry/internal/runtime"
	"github.com/masonrylabs/masonry/pkg/domain"
)

func TestScore_CompletionHalfAnswered(t *testing.T) {
	spec := &domain.WizardSpec{
		Steps: []domain.Step{
			{ID: "a", Fields: []domain.Field{
				{ID: "f1", Required: true},
				{ID: "f2", Required: true},
			}},
			{ID: "b", Fields: []domain.Field{
				{ID: "f3", Required: true},
				{ID: "f4", Required: true},
				{ID: "opt"},
			}},
		},
	}
	answers := map[string]any{"f1": "x", "f3": "y", "opt": "ignored"}
	assert.Equal(t, 50, runtime.Score(spec, answers))
}

func TestScore_CompletionNoRequiredFields(t *testing.T) {
	spec := &domain.WizardSpec{Steps: []domain.Step{{ID: "a"}}}
	assert.Equal(t, 100, runtime.Score(spec, nil))
}

func TestScore_WeightedMixedNumericAndMapped(t *testing.T) {
	spec := &domain.WizardSpec{
		Scoring: &domain.ScoringSpec{
			Method:  domain.ScoringWeighted,
			Weights: map[string]float64{"a": 1, "b": 1},
			ValueMap: map[string]map[string]float64{
				"b": {"low": 20},
			},
		},
	}
	answers := map[string]any{"a": 80.0, "b": "low"}
	assert.Equal(t, 50, runtime.Score(spec, answers))
}

func TestScore_WeightedArrayAveragesMembers(t *testing.T) {
	spec := &domain.WizardSpec{
		Scoring: &domain.ScoringSpec{
			Method:  domain.ScoringWeighted,
			Weights: map[string]float64{"tags": 1},
			ValueMap: map[string]map[string]float64{
				"tags": {"good": 100, "bad": 0},
			},
		},
	}
	answers := map[string]any{"tags": []string{"good", "bad"}}
	assert.Equal(t, 50, runtime.Score(spec, answers))
}

func TestScore_WeightedUnmappedDefaultsTo100(t *testing.T) {
	spec := &domain.WizardSpec{
		Scoring: &domain.ScoringSpec{
			Method:  domain.ScoringWeighted,
			Weights: map[string]float64{"a": 1},
			ValueMap: map[string]map[string]float64{
				"a": {"low": 20},
			},
		},
	}
	assert.Equal(t, 100, runtime.Score(spec, map[string]any{"a": "mystery"}))
}

func TestScore_WeightedUnansweredFieldsExcluded(t *testing.T) {
	spec := &domain.WizardSpec{
		Scoring: &domain.ScoringSpec{
			Method:  domain.ScoringWeighted,
			Weights: map[string]float64{"a": 1, "b": 3},
		},
	}
	// Only a answered: weight sum is 1, not 4.
	assert.Equal(t, 60, runtime.Score(spec, map[string]any{"a": 60.0}))
}

func TestResults_AllMatchingRulesRender(t *testing.T) {
	e := runtime.NewEngine()
	spec := &domain.WizardSpec{
		Results: []domain.ResultRule{
			{Condition: "score >= 1", Title: "first"},
			{Condition: "plan == 'pro'", Title: "second"},
			{Condition: "plan == 'basic'", Title: "never"},
		},
	}
	state := domain.NewWizardState("s", "/q", "w")
	state.Answers = map[string]any{"score": 5.0, "plan": "pro"}

	outcomes := e.Results(spec, state)
	assert.Len(t, outcomes, 2)
	assert.Equal(t, "first", outcomes[0].Title)
	assert.Equal(t, "second", outcomes[1].Title)
}

func TestResults_BandFallback(t *testing.T) {
	e := runtime.NewEngine()
	spec := &domain.WizardSpec{
		Steps: []domain.Step{
			{ID: "a", Fields: []domain.Field{
				{ID: "f1", Required: true},
				{ID: "f2", Required: true},
			}},
		},
		Results: []domain.ResultRule{
			{Condition: "plan == 'pro'", Title: "rule"},
		},
		Scoring: &domain.ScoringSpec{
			Method: domain.ScoringCompletion,
			Bands: []domain.ScoreBand{
				{Min: 0, Max: 49, Title: "low band"},
				{Min: 50, Max: 100, Title: "high band"},
			},
		},
	}
	state := domain.NewWizardState("s", "/q", "w")
	state.Answers = map[string]any{"f1": "x"} // 1 of 2 required => 50

	outcomes := e.Results(spec, state)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, "high band", outcomes[0].Title)
}

func TestResults_GenericNoMatch(t *testing.T) {
	e := runtime.NewEngine()
	spec := &domain.WizardSpec{
		Results: []domain.ResultRule{{Condition: "plan == 'pro'", Title: "rule"}},
	}
	state := domain.NewWizardState("s", "/q", "w")

	outcomes := e.Results(spec, state)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, "No matching result", outcomes[0].Title)
}
