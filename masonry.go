package masonry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/masonrylabs/masonry/internal/logging"
	"github.com/masonrylabs/masonry/internal/metrics"
	"github.com/masonrylabs/masonry/internal/runtime"
	"github.com/masonrylabs/masonry/internal/validator"
	"github.com/masonrylabs/masonry/pkg/adapters/file"
	"github.com/masonrylabs/masonry/pkg/adapters/memory"
	"github.com/masonrylabs/masonry/pkg/assemble"
	"github.com/masonrylabs/masonry/pkg/collect"
	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/ports"
	"github.com/masonrylabs/masonry/pkg/render"
	"github.com/masonrylabs/masonry/pkg/session"
)

// Engine is the high-level entry point for the Masonry library. It wires the
// page loader, renderer registry, assembler, wizard runtime and session
// manager behind a simplified API for consumers.
type Engine struct {
	loader    ports.PageLoader
	registry  *render.Registry
	assembler *assemble.Assembler
	wizard    *runtime.Engine
	sessions  *session.Manager
	store     ports.SessionStore
	submitter ports.LeadSubmitter

	met        *metrics.Set
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	collectURL string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom PageLoader, bypassing the default file loader.
func WithLoader(l ports.PageLoader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithStore sets the session store (default: in-memory).
func WithStore(s ports.SessionStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithRegistry injects a pre-built renderer registry. The caller owns its
// fault hook; the engine's metrics and lifecycle wiring only apply to the
// default registry.
func WithRegistry(r *render.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetricsRegistry enables Prometheus collectors on the given registerer.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.met = metrics.NewSet(reg) }
}

// WithCollectURL overrides the site's lead-capture endpoint.
func WithCollectURL(url string) Option {
	return func(e *Engine) { e.collectURL = url }
}

// WithLeadSubmitter injects a custom lead sink.
func WithLeadSubmitter(s ports.LeadSubmitter) Option {
	return func(e *Engine) { e.submitter = s }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// New initializes a Masonry Engine over a site directory. If WithLoader is
// provided, siteDir may be empty and the file loader is skipped.
func New(siteDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if siteDir == "" {
			return nil, fmt.Errorf("siteDir is required when no custom loader is provided")
		}
		loader, err := file.NewLoader(siteDir)
		if err != nil {
			return nil, fmt.Errorf("load site: %w", err)
		}
		eng.loader = loader
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	eng.sessions = session.NewManager(eng.store, session.WithLogger(eng.logger))

	if eng.registry == nil {
		eng.registry = render.NewRegistry(
			render.WithLogger(eng.logger),
			render.WithFaultHook(eng.onRendererFault),
		)
		render.RegisterBuiltins(eng.registry)
	}

	assembleOpts := []assemble.Option{assemble.WithLogger(eng.logger)}
	if eng.met != nil {
		assembleOpts = append(assembleOpts, assemble.WithDurationObserver(func(d time.Duration) {
			eng.met.AssembleDuration.Observe(d.Seconds())
		}))
	}
	eng.assembler = assemble.New(eng.registry, assembleOpts...)

	eng.wizard = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)

	return eng, nil
}

func (e *Engine) onRendererFault(b domain.Block, cause error) {
	if e.met != nil {
		e.met.RendererFaults.WithLabelValues(b.Type).Inc()
	}
	if e.hooks.OnBlockFault != nil {
		e.hooks.OnBlockFault(context.Background(), &domain.BlockEvent{
			Timestamp: time.Now(),
			Type:      domain.EventBlockFault,
			BlockID:   b.ID,
			BlockType: b.Type,
			Fault:     cause.Error(),
		})
	}
}

// Site returns the site-wide attributes.
func (e *Engine) Site(ctx context.Context) (*domain.Site, error) {
	return e.loader.Site(ctx)
}

// Routes lists every known page route.
func (e *Engine) Routes(ctx context.Context) ([]string, error) {
	return e.loader.Routes(ctx)
}

// Page assembles the page at a route into a full document.
func (e *Engine) Page(ctx context.Context, route string) (*assemble.Result, error) {
	site, err := e.loader.Site(ctx)
	if err != nil {
		return nil, fmt.Errorf("load site: %w", err)
	}
	page, err := e.loader.Page(ctx, route)
	if err != nil {
		return nil, err
	}

	res, err := e.assembler.Assemble(ctx, page.Blocks, e.renderContext(site, page))
	if err != nil {
		return nil, err
	}

	for _, f := range res.Fragments {
		if f.Placeholder {
			continue
		}
		if e.met != nil {
			e.met.BlocksRendered.WithLabelValues(f.Type).Inc()
		}
		if e.hooks.OnBlockRendered != nil {
			e.hooks.OnBlockRendered(ctx, &domain.BlockEvent{
				Timestamp: time.Now(),
				Type:      domain.EventBlockRendered,
				BlockID:   f.BlockID,
				BlockType: f.Type,
				Route:     route,
			})
		}
	}
	return res, nil
}

func (e *Engine) renderContext(site *domain.Site, page *domain.Page) domain.RenderContext {
	collectURL := e.collectURL
	if collectURL == "" {
		collectURL = site.CollectURL
	}
	return domain.RenderContext{
		Domain:          site.Domain,
		SiteTitle:       site.Title,
		Route:           page.Route,
		Theme:           site.Theme,
		Skin:            site.Skin,
		PageTitle:       page.Title,
		PageDescription: page.Description,
		CollectURL:      collectURL,
	}
}

// WizardView is one snapshot of a wizard session: the current step's markup
// while active, the outcome cards and score once the flow reaches results.
type WizardView struct {
	State    *domain.WizardState `json:"state"`
	Step     *domain.Step        `json:"step,omitempty"`
	StepHTML string              `json:"step_html"`
	Outcomes []domain.Outcome    `json:"outcomes,omitempty"`
	Score    int                 `json:"score,omitempty"`
}

// StartWizard opens a fresh session for the wizard block on a route and
// returns the first step.
func (e *Engine) StartWizard(ctx context.Context, route, blockID string) (*WizardView, error) {
	spec, err := e.wizardSpec(ctx, route, blockID)
	if err != nil {
		return nil, err
	}
	sessionID := uuid.NewString()
	state, err := e.sessions.LoadOrStart(ctx, sessionID, route, blockID)
	if err != nil {
		return nil, err
	}
	e.transition("start")
	return e.view(spec, state), nil
}

// Wizard returns the current view of an existing session without
// transitioning.
func (e *Engine) Wizard(ctx context.Context, sessionID string) (*WizardView, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	spec, err := e.wizardSpec(ctx, state.Route, state.BlockID)
	if err != nil {
		return nil, err
	}
	return e.view(spec, state), nil
}

// WizardNext submits answers for the current step and advances the session.
// A *domain.StepValidationError means required fields are missing and the
// session did not move.
func (e *Engine) WizardNext(ctx context.Context, sessionID string, answers map[string]any) (*WizardView, error) {
	var spec *domain.WizardSpec
	state, err := e.sessions.Update(ctx, sessionID, func(s *domain.WizardState) (*domain.WizardState, error) {
		var err error
		spec, err = e.wizardSpec(ctx, s.Route, s.BlockID)
		if err != nil {
			return nil, err
		}
		return e.wizard.Next(ctx, spec, s, answers)
	})
	if err != nil {
		return nil, err
	}
	if state.Status == domain.StatusResults {
		e.transition("results")
	} else {
		e.transition("next")
	}
	return e.view(spec, state), nil
}

// WizardBack returns the session to the previously visited step. Answers are
// preserved.
func (e *Engine) WizardBack(ctx context.Context, sessionID string) (*WizardView, error) {
	var spec *domain.WizardSpec
	state, err := e.sessions.Update(ctx, sessionID, func(s *domain.WizardState) (*domain.WizardState, error) {
		var err error
		spec, err = e.wizardSpec(ctx, s.Route, s.BlockID)
		if err != nil {
			return nil, err
		}
		return e.wizard.Back(ctx, spec, s), nil
	})
	if err != nil {
		return nil, err
	}
	e.transition("back")
	return e.view(spec, state), nil
}

// WizardRestart clears the session back to the first step.
func (e *Engine) WizardRestart(ctx context.Context, sessionID string) (*WizardView, error) {
	var spec *domain.WizardSpec
	state, err := e.sessions.Update(ctx, sessionID, func(s *domain.WizardState) (*domain.WizardState, error) {
		var err error
		spec, err = e.wizardSpec(ctx, s.Route, s.BlockID)
		if err != nil {
			return nil, err
		}
		return e.wizard.Restart(ctx, spec, s), nil
	})
	if err != nil {
		return nil, err
	}
	e.transition("restart")
	return e.view(spec, state), nil
}

// SubmitLead forwards a captured lead to the collect endpoint. The domain is
// filled from the site when the caller leaves it empty.
func (e *Engine) SubmitLead(ctx context.Context, lead ports.Lead) error {
	if lead.Domain == "" {
		site, err := e.loader.Site(ctx)
		if err != nil {
			return fmt.Errorf("load site: %w", err)
		}
		lead.Domain = site.Domain
	}

	submitter := e.submitter
	if submitter == nil {
		url := e.collectURL
		if url == "" {
			site, err := e.loader.Site(ctx)
			if err != nil {
				return fmt.Errorf("load site: %w", err)
			}
			url = site.CollectURL
		}
		if url == "" {
			return fmt.Errorf("no collect endpoint configured")
		}
		submitter = collect.NewClient(url)
	}
	return submitter.Submit(ctx, lead)
}

// Validate checks the loaded site for authoring errors: unknown block types,
// duplicate IDs, malformed conditions and rejected formulas. Each issue is
// one human-readable line.
func (e *Engine) Validate(ctx context.Context) ([]string, error) {
	issues, err := validator.ValidateSite(ctx, e.loader, e.registry.Known)
	if err != nil {
		return nil, err
	}
	if e.met != nil {
		e.met.ValidationIssues.Add(float64(len(issues)))
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return lines, nil
}

// Sessions exposes the session manager, mainly for adapters that need direct
// store access.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Loader returns the underlying PageLoader used by the engine.
func (e *Engine) Loader() ports.PageLoader {
	return e.loader
}

func (e *Engine) transition(action string) {
	if e.met != nil {
		e.met.WizardTransitions.WithLabelValues(action).Inc()
	}
}

// wizardSpec resolves and decodes the wizard block content for a session.
func (e *Engine) wizardSpec(ctx context.Context, route, blockID string) (*domain.WizardSpec, error) {
	page, err := e.loader.Page(ctx, route)
	if err != nil {
		return nil, err
	}
	for _, b := range page.Blocks {
		if b.ID != blockID || b.Type != domain.BlockWizard {
			continue
		}
		return domain.DecodeWizardSpec(b.Content)
	}
	return nil, domain.ErrBlockNotFound
}

func (e *Engine) view(spec *domain.WizardSpec, state *domain.WizardState) *WizardView {
	v := &WizardView{State: state}
	if state.Status == domain.StatusResults || state.StepIndex >= len(spec.Steps) {
		v.Outcomes = e.wizard.Results(spec, state)
		v.Score = runtime.Score(spec, state.Answers)
		v.StepHTML = render.OutcomeMarkup(v.Outcomes)
		return v
	}
	step := spec.Steps[state.StepIndex]
	v.Step = &step
	v.StepHTML = render.StepMarkup(step, state.StepIndex)
	return v
}
