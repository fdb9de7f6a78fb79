package render

import (
	"fmt"
	"strings"

	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/formula"
)

// renderWizard emits the shell for a wizard block: the first step's form.
// Subsequent steps, branching and results are driven through the wizard API;
// the renderer itself stays pure.
func renderWizard(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var spec domain.WizardSpec
	if err := decode(b.Content, &spec); err != nil {
		return Fragment{}, err
	}
	if len(spec.Steps) == 0 {
		return Fragment{}, fmt.Errorf("wizard block %q has no steps", b.ID)
	}
	first := spec.Steps[0]
	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--wizard" data-block-id="%s" data-route="%s" data-steps="%d">%s</section>`,
		Escape(b.ID), Escape(rc.Route), len(spec.Steps), stepMarkup(first, 0),
	)}, nil
}

// StepMarkup renders one wizard step as a form body. Exposed so the wizard
// API can return the next step's markup after a transition.
func StepMarkup(step domain.Step, index int) string { return stepMarkup(step, index) }

func stepMarkup(step domain.Step, index int) string {
	var fields strings.Builder
	for _, f := range step.Fields {
		fields.WriteString(fieldMarkup(f))
	}
	return fmt.Sprintf(
		`<form class="wizard-step" data-step-id="%s" data-step-index="%d"><h2>%s</h2>%s<button type="submit">Next</button></form>`,
		Escape(step.ID), index, Escape(step.Title), fields.String(),
	)
}

func fieldMarkup(f domain.Field) string {
	required := ""
	if f.Required {
		required = " required"
	}
	switch f.Type {
	case "select", "multiselect":
		var opts strings.Builder
		for _, o := range f.Options {
			fmt.Fprintf(&opts, `<option value="%s">%s</option>`, Escape(o), Escape(o))
		}
		multiple := ""
		if f.Type == "multiselect" {
			multiple = " multiple"
		}
		return fmt.Sprintf(
			`<label>%s<select name="%s"%s%s>%s</select></label>`,
			Escape(f.Label), Escape(f.ID), multiple, required, opts.String(),
		)
	case "number":
		return fmt.Sprintf(
			`<label>%s<input type="number" name="%s"%s></label>`,
			Escape(f.Label), Escape(f.ID), required,
		)
	default:
		return fmt.Sprintf(
			`<label>%s<input type="text" name="%s"%s></label>`,
			Escape(f.Label), Escape(f.ID), required,
		)
	}
}

// OutcomeMarkup renders result cards for the wizard's terminal state.
func OutcomeMarkup(outcomes []domain.Outcome) string {
	var out strings.Builder
	out.WriteString(`<div class="wizard-results">`)
	for _, o := range outcomes {
		out.WriteString(`<div class="outcome-card">`)
		fmt.Fprintf(&out, "<h3>%s</h3>", Escape(o.Title))
		if o.Body != "" {
			fmt.Fprintf(&out, "<p>%s</p>", Escape(o.Body))
		}
		if o.CTA != nil {
			fmt.Fprintf(&out, `<a class="button" href="%s">%s</a>`, Escape(o.CTA.URL), Escape(o.CTA.Label))
		}
		out.WriteString(`</div>`)
	}
	out.WriteString(`</div>`)
	return out.String()
}

// renderCalculator emits input fields plus one output slot per formula
// output. Formulas compile leniently here: an expression emptied by
// sanitization renders its slot as a dash instead of failing the block.
func renderCalculator(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Formula string `mapstructure:"formula"`
		Inputs  []struct {
			ID      string  `mapstructure:"id"`
			Label   string  `mapstructure:"label"`
			Default float64 `mapstructure:"default"`
		} `mapstructure:"inputs"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}

	defaults := make(map[string]float64, len(c.Inputs))
	var fields strings.Builder
	for _, in := range c.Inputs {
		defaults[in.ID] = in.Default
		fmt.Fprintf(&fields,
			`<label>%s<input type="number" name="%s" value="%s"></label>`,
			Escape(in.Label), Escape(in.ID), Escape(trimFloat(in.Default)))
	}

	outputs, multi := formula.ParseOutputs(c.Formula)
	if !multi {
		outputs = []formula.Output{{Key: "result", Expr: c.Formula}}
	}

	var slots strings.Builder
	for _, out := range outputs {
		slots.WriteString(outputSlot(out, defaults))
	}

	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--calculator" data-block-id="%s"><form>%s</form><div class="calc-outputs">%s</div></section>`,
		Escape(b.ID), fields.String(), slots.String(),
	)}, nil
}

func outputSlot(out formula.Output, defaults map[string]float64) string {
	display := "&ndash;"
	prog, err := formula.CompileLenient(out.Expr)
	if err == nil && prog != nil {
		if v, evalErr := prog.Eval(defaults); evalErr == nil {
			display = Escape(trimFloat(v))
		}
	}
	src := ""
	if prog != nil {
		src = prog.Source()
	}
	return fmt.Sprintf(
		`<div class="calc-output" data-key="%s" data-expr="%s"><span>%s</span>%s</div>`,
		Escape(out.Key), Escape(src), Escape(out.Key), "<output>"+display+"</output>",
	)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
