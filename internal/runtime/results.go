package runtime

import (
	"fmt"

	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/expr"
)

// Results evaluates every result rule against the final answers. ALL matching
// rules become outcome cards, in declared order. When none match, the score
// bands are the fallback, then a generic no-match card.
func (e *Engine) Results(spec *domain.WizardSpec, state *domain.WizardState) []domain.Outcome {
	var outcomes []domain.Outcome
	for _, rule := range spec.Results {
		if expr.Evaluate(rule.Condition, expr.Vars(state.Answers)) {
			outcomes = append(outcomes, domain.Outcome{
				Title: rule.Title,
				Body:  rule.Body,
				CTA:   rule.CTA,
			})
		}
	}
	if len(outcomes) > 0 {
		return outcomes
	}

	if spec.Scoring != nil && len(spec.Scoring.Bands) > 0 {
		score := Score(spec, state.Answers)
		for _, band := range spec.Scoring.Bands {
			if float64(score) >= band.Min && float64(score) <= band.Max {
				return []domain.Outcome{{
					Title: band.Title,
					Body:  band.Body,
				}}
			}
		}
		return []domain.Outcome{{
			Title: "Your result",
			Body:  fmt.Sprintf("You scored %d out of 100.", score),
		}}
	}

	return []domain.Outcome{{
		Title: "No matching result",
		Body:  "We could not match your answers to an outcome.",
	}}
}
