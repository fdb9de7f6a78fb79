// Package metrics defines the Prometheus collectors for the assembly and
// wizard cores. A Set is built against an explicit Registerer so tests can
// use their own registry instead of the process default.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the collectors the engine records into.
type Set struct {
	BlocksRendered    *prometheus.CounterVec
	RendererFaults    *prometheus.CounterVec
	ValidationIssues  prometheus.Counter
	WizardTransitions *prometheus.CounterVec
	AssembleDuration  prometheus.Histogram
}

// NewSet creates and registers the collector set.
func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		BlocksRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "masonry_blocks_rendered_total",
				Help: "Total number of blocks rendered, by type.",
			},
			[]string{"block_type"},
		),
		RendererFaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "masonry_renderer_faults_total",
				Help: "Renderer faults recovered as placeholders, by type.",
			},
			[]string{"block_type"},
		),
		ValidationIssues: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "masonry_validation_issues_total",
				Help: "Authoring issues found by site validation.",
			},
		),
		WizardTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "masonry_wizard_transitions_total",
				Help: "Wizard transitions, by action (next, back, restart, results).",
			},
			[]string{"action"},
		),
		AssembleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "masonry_assemble_duration_seconds",
				Help:    "Wall time to assemble one page.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			s.BlocksRendered,
			s.RendererFaults,
			s.ValidationIssues,
			s.WizardTransitions,
			s.AssembleDuration,
		)
	}
	return s
}
