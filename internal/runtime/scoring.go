package runtime

import (
	"math"

	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/expr"
)

// Score computes the 0-100 wizard score for final answers. An absent or
// unknown-method spec scores as completion.
func Score(spec *domain.WizardSpec, answers map[string]any) int {
	if spec.Scoring != nil && spec.Scoring.Method == domain.ScoringWeighted {
		return weightedScore(spec.Scoring, answers)
	}
	return completionScore(spec.Steps, answers)
}

// completionScore = round(100 * answered-required / total-required).
func completionScore(steps []domain.Step, answers map[string]any) int {
	total, got := 0, 0
	for _, step := range steps {
		for _, f := range step.Fields {
			if !f.Required {
				continue
			}
			total++
			if answered(answers[f.ID]) {
				got++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(got) / float64(total)))
}

// weightedScore = round(100 * sum(weight * normalized) / sum(weight)).
func weightedScore(s *domain.ScoringSpec, answers map[string]any) int {
	var sum, weightSum float64
	for field, weight := range s.Weights {
		v, ok := answers[field]
		if !ok || !answered(v) {
			continue
		}
		weightSum += weight
		sum += weight * normalize(v, s.ValueMap[field])
	}
	if weightSum == 0 {
		return 0
	}
	return int(math.Round(100 * sum / weightSum))
}

// normalize maps a raw answer to 0-100: the value map translates categories,
// numeric answers pass through, array answers average their members, and an
// answered-but-unmapped value defaults to 100.
func normalize(v any, valueMap map[string]float64) float64 {
	if items, listOK := asList(v); listOK {
		if len(items) == 0 {
			return 0
		}
		var total float64
		for _, item := range items {
			total += normalize(item, valueMap)
		}
		return total / float64(len(items))
	}
	if valueMap != nil {
		if mapped, ok := valueMap[expr.Stringify(v)]; ok {
			return mapped
		}
	}
	if n, ok := expr.AsNumber(v); ok {
		return n
	}
	return 100
}

func asList(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
