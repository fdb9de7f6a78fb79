package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Field is one input inside a wizard step. Answers land in the Answer Map
// under the field ID.
type Field struct {
	ID       string   `json:"id" yaml:"id" mapstructure:"id"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"` // text, number, select, multiselect
	Required bool     `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
}

// Branch routes a step transition through a condition expression.
type Branch struct {
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`
	GoTo      string `json:"go_to" yaml:"go_to" mapstructure:"go_to"`
}

// Step is one screen of a wizard flow.
type Step struct {
	ID       string   `json:"id" yaml:"id" mapstructure:"id"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Fields   []Field  `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`
	NextStep string   `json:"next_step,omitempty" yaml:"next_step,omitempty" mapstructure:"next_step"`
	Branches []Branch `json:"branches,omitempty" yaml:"branches,omitempty" mapstructure:"branches"`
}

// CTA is an optional call-to-action attached to an outcome card.
type CTA struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	URL   string `json:"url" yaml:"url" mapstructure:"url"`
}

// ResultRule matches final answers to an outcome card. All matching rules
// render, in declared order, not just the first.
type ResultRule struct {
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`
	Title     string `json:"title" yaml:"title" mapstructure:"title"`
	Body      string `json:"body,omitempty" yaml:"body,omitempty" mapstructure:"body"`
	CTA       *CTA   `json:"cta,omitempty" yaml:"cta,omitempty" mapstructure:"cta"`
}

// Scoring methods.
const (
	ScoringCompletion = "completion"
	ScoringWeighted   = "weighted"
)

// ScoreBand maps an inclusive score range to outcome content.
type ScoreBand struct {
	Min   float64 `json:"min" yaml:"min" mapstructure:"min"`
	Max   float64 `json:"max" yaml:"max" mapstructure:"max"`
	Title string  `json:"title" yaml:"title" mapstructure:"title"`
	Body  string  `json:"body,omitempty" yaml:"body,omitempty" mapstructure:"body"`
}

// ScoringSpec configures how a wizard turns answers into a 0-100 score.
type ScoringSpec struct {
	Method string `json:"method" yaml:"method" mapstructure:"method"`

	// Weights applies to the weighted method, keyed by field ID.
	Weights map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty" mapstructure:"weights"`

	// ValueMap normalizes categorical answers to 0-100 per field.
	ValueMap map[string]map[string]float64 `json:"value_map,omitempty" yaml:"value_map,omitempty" mapstructure:"value_map"`

	Bands []ScoreBand `json:"bands,omitempty" yaml:"bands,omitempty" mapstructure:"bands"`
}

// WizardSpec is the decoded content of a wizard block.
type WizardSpec struct {
	Steps   []Step       `json:"steps" yaml:"steps" mapstructure:"steps"`
	Results []ResultRule `json:"results,omitempty" yaml:"results,omitempty" mapstructure:"results"`
	Scoring *ScoringSpec `json:"scoring,omitempty" yaml:"scoring,omitempty" mapstructure:"scoring"`

	// Collect enables the optional lead-capture form on the results screen.
	Collect bool `json:"collect,omitempty" yaml:"collect,omitempty" mapstructure:"collect"`
}

// DecodeWizardSpec parses the content payload of a wizard block. Decoding is
// weakly typed: YAML and JSON sources produce interchangeable maps.
func DecodeWizardSpec(content map[string]any) (*WizardSpec, error) {
	var spec WizardSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(content); err != nil {
		return nil, fmt.Errorf("decode wizard spec: %w", err)
	}
	return &spec, nil
}

// StepByID returns the index of a step, or -1.
func (w *WizardSpec) StepByID(id string) int {
	for i, s := range w.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Outcome is one rendered result card.
type Outcome struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	CTA   *CTA   `json:"cta,omitempty"`
}
