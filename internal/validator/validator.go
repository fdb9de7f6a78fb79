// Package validator checks a site definition for authoring errors: unknown
// block types, duplicate block IDs, malformed conditions, branch targets
// pointing at missing steps, and formula expressions the strict compiler
// rejects. It runs at authoring time; the serving path stays fail-closed and
// never depends on it.
package validator

import (
	"context"
	"fmt"

	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/expr"
	"github.com/masonrylabs/masonry/pkg/formula"
	"github.com/masonrylabs/masonry/pkg/ports"
)

// Issue is one authoring problem found during validation.
type Issue struct {
	Route   string
	BlockID string
	Detail  string
}

func (i Issue) String() string {
	if i.BlockID == "" {
		return fmt.Sprintf("%s: %s", i.Route, i.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", i.Route, i.BlockID, i.Detail)
}

// ValidateSite walks every page of the loader and collects issues. known
// reports whether a block type has a renderer; nil skips that check.
func ValidateSite(ctx context.Context, loader ports.PageLoader, known func(string) bool) ([]Issue, error) {
	routes, err := loader.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	var issues []Issue
	for _, route := range routes {
		page, err := loader.Page(ctx, route)
		if err != nil {
			return nil, fmt.Errorf("load page %s: %w", route, err)
		}
		issues = append(issues, validatePage(route, page, known)...)
	}
	return issues, nil
}

func validatePage(route string, page *domain.Page, known func(string) bool) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(page.Blocks))

	for _, b := range page.Blocks {
		if b.ID == "" {
			issues = append(issues, Issue{Route: route, Detail: fmt.Sprintf("block of type %q has no ID", b.Type)})
		} else if seen[b.ID] {
			issues = append(issues, Issue{Route: route, BlockID: b.ID, Detail: "duplicate block ID"})
		}
		seen[b.ID] = true

		if known != nil && !known(b.Type) {
			issues = append(issues, Issue{Route: route, BlockID: b.ID,
				Detail: fmt.Sprintf("unknown block type %q (renders as placeholder)", b.Type)})
		}

		switch b.Type {
		case domain.BlockWizard:
			issues = append(issues, validateWizard(route, b)...)
		case domain.BlockCalculator:
			issues = append(issues, validateCalculator(route, b)...)
		}
	}
	return issues
}

func validateWizard(route string, b domain.Block) []Issue {
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{Route: route, BlockID: b.ID, Detail: fmt.Sprintf(format, args...)})
	}

	spec, err := domain.DecodeWizardSpec(b.Content)
	if err != nil {
		report("invalid wizard content: %v", err)
		return issues
	}
	if len(spec.Steps) == 0 {
		report("wizard has no steps")
		return issues
	}

	stepIDs := make(map[string]bool, len(spec.Steps))
	for _, s := range spec.Steps {
		if s.ID == "" {
			report("step without ID")
			continue
		}
		if stepIDs[s.ID] {
			report("duplicate step ID %q", s.ID)
		}
		stepIDs[s.ID] = true
	}

	for _, s := range spec.Steps {
		for _, br := range s.Branches {
			if err := expr.Check(br.Condition); err != nil {
				report("step %q branch condition: %v", s.ID, err)
			}
			if br.GoTo != "" && !stepIDs[br.GoTo] {
				report("step %q branch targets unknown step %q", s.ID, br.GoTo)
			}
		}
		if s.NextStep != "" && !stepIDs[s.NextStep] {
			report("step %q next_step targets unknown step %q", s.ID, s.NextStep)
		}
	}

	for i, rule := range spec.Results {
		if err := expr.Check(rule.Condition); err != nil {
			report("result rule %d condition: %v", i, err)
		}
	}

	if sc := spec.Scoring; sc != nil {
		if sc.Method != domain.ScoringCompletion && sc.Method != domain.ScoringWeighted {
			report("unknown scoring method %q", sc.Method)
		}
		for i, band := range sc.Bands {
			if band.Min > band.Max {
				report("score band %d: min %v greater than max %v", i, band.Min, band.Max)
			}
		}
	}
	return issues
}

func validateCalculator(route string, b domain.Block) []Issue {
	var issues []Issue
	src, _ := b.Content["formula"].(string)
	if src == "" {
		return []Issue{{Route: route, BlockID: b.ID, Detail: "calculator has no formula"}}
	}

	outputs, multi := formula.ParseOutputs(src)
	if !multi {
		outputs = []formula.Output{{Key: "result", Expr: src}}
	}
	for _, out := range outputs {
		if _, err := formula.Compile(out.Expr); err != nil {
			issues = append(issues, Issue{Route: route, BlockID: b.ID,
				Detail: fmt.Sprintf("formula output %q: %v", out.Key, err)})
		}
	}
	return issues
}
