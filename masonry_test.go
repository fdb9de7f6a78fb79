package masonry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonrylabs/masonry"
	"github.com/masonrylabs/masonry/pkg/adapters/memory"
	"github.com/masonrylabs/masonry/pkg/domain"
)

func demoLoader() *memory.Loader {
	return memory.NewLoader(
		domain.Site{Domain: "example.com", Title: "Example", Theme: "base", Skin: "soft"},
		domain.Page{
			Route:       "/",
			Title:       "Home",
			Description: "A demo site.",
			Blocks: []domain.Block{
				{ID: "h", Type: domain.BlockHeader},
				{ID: "t", Type: domain.BlockText, Content: map[string]any{"markdown": "Hello."}},
				{ID: "x", Type: "holo-deck"},
				{ID: "f", Type: domain.BlockFooter},
			},
		},
		domain.Page{
			Route: "/quiz",
			Title: "Quiz",
			Blocks: []domain.Block{
				{ID: "w1", Type: domain.BlockWizard, Content: map[string]any{
					"steps": []any{
						map[string]any{"id": "one", "fields": []any{
							map[string]any{"id": "age", "type": "number", "required": true},
						}},
					},
					"results": []any{
						map[string]any{"condition": "age >= 18", "title": "Adult"},
						map[string]any{"condition": "age >= 65", "title": "Senior"},
					},
				}},
			},
		},
	)
}

func TestNewRequiresSource(t *testing.T) {
	_, err := masonry.New("")
	require.Error(t, err)
}

func TestPageAssemblesWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng, err := masonry.New("",
		masonry.WithLoader(demoLoader()),
		masonry.WithMetricsRegistry(reg),
	)
	require.NoError(t, err)

	res, err := eng.Page(context.Background(), "/")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Document, `<div class="page" data-theme="base"`))
	assert.Contains(t, res.Document, "Hello.")
	// The unknown type degrades to a placeholder, never aborting the page.
	assert.Contains(t, res.Document, "block--unavailable")
	assert.Equal(t, "Home | Example", res.Meta.Title)

	faults, err := testutil.GatherAndCount(reg, "masonry_renderer_faults_total")
	require.NoError(t, err)
	assert.Equal(t, 1, faults)
	rendered, err := testutil.GatherAndCount(reg, "masonry_blocks_rendered_total")
	require.NoError(t, err)
	assert.Equal(t, 3, rendered)
}

func TestWizardLifecycle(t *testing.T) {
	eng, err := masonry.New("", masonry.WithLoader(demoLoader()))
	require.NoError(t, err)
	ctx := context.Background()

	view, err := eng.StartWizard(ctx, "/quiz", "w1")
	require.NoError(t, err)
	require.NotNil(t, view.Step)
	assert.Equal(t, "one", view.Step.ID)
	assert.Contains(t, view.StepHTML, `data-step-id="one"`)
	sessionID := view.State.SessionID
	require.NotEmpty(t, sessionID)

	// Required field missing: the transition is blocked and recoverable.
	_, err = eng.WizardNext(ctx, sessionID, map[string]any{})
	var verr *domain.StepValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Missing, "age")

	view, err = eng.WizardNext(ctx, sessionID, map[string]any{"age": 70})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResults, view.State.Status)
	// All matching rules become outcome cards, in declared order.
	require.Len(t, view.Outcomes, 2)
	assert.Equal(t, "Adult", view.Outcomes[0].Title)
	assert.Equal(t, "Senior", view.Outcomes[1].Title)
	assert.Contains(t, view.StepHTML, "outcome-card")

	view, err = eng.WizardRestart(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.State.StepIndex)
	assert.Empty(t, view.State.Answers)
}

func TestWizardUnknownBlock(t *testing.T) {
	eng, err := masonry.New("", masonry.WithLoader(demoLoader()))
	require.NoError(t, err)

	_, err = eng.StartWizard(context.Background(), "/quiz", "nope")
	assert.ErrorIs(t, err, domain.ErrBlockNotFound)
}

func TestValidateReportsUnknownType(t *testing.T) {
	eng, err := masonry.New("", masonry.WithLoader(demoLoader()))
	require.NoError(t, err)

	issues, err := eng.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], `unknown block type "holo-deck"`)
}
