// Package assemble orders rendered block fragments into one document. The
// classification pass is linear: one header always first, one footer always
// last, an optional sidebar makes a two-column layout, a small fixed set of
// types renders full-width outside the main column, and everything else keeps
// its original relative order inside it.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/masonrylabs/masonry/internal/logging"
	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/render"
)

// fullWidthTypes render outside the main column, before or after it
// depending on where they appear relative to the column content.
var fullWidthTypes = map[string]bool{
	domain.BlockHero:  true,
	domain.BlockCTA:   true,
	domain.BlockStats: true,
}

// Result is one assembled page: the composed document plus derived metadata
// and the per-block fragments for callers that compose their own shell.
type Result struct {
	Document  string
	Meta      PageMeta
	Fragments []render.Fragment
}

// Assembler renders a block list concurrently and composes the document.
type Assembler struct {
	registry *render.Registry
	logger   *slog.Logger

	// observe is called once per assembled page with the wall time taken.
	observe func(d time.Duration)
}

// Option configures the Assembler.
type Option func(*Assembler)

// WithLogger sets the assembler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDurationObserver registers a callback for assembly wall time.
func WithDurationObserver(fn func(d time.Duration)) Option {
	return func(a *Assembler) { a.observe = fn }
}

// New creates an Assembler over a renderer registry.
func New(registry *render.Registry, opts ...Option) *Assembler {
	a := &Assembler{
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders every block and composes the page. Individual block
// faults degrade to placeholders inside the registry; Assemble itself fails
// only on context cancellation.
func (a *Assembler) Assemble(ctx context.Context, blocks []domain.Block, rc domain.RenderContext) (*Result, error) {
	start := time.Now()

	frags := make([]render.Fragment, len(blocks))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range blocks {
		i, b := i, b
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			frags[i] = a.registry.Render(b, rc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble %s: %w", rc.Route, err)
	}

	doc := compose(blocks, frags, rc)
	res := &Result{
		Document:  doc,
		Meta:      deriveMeta(blocks, rc),
		Fragments: frags,
	}

	if a.observe != nil {
		a.observe(time.Since(start))
	}
	a.logger.Debug("page assembled", "route", rc.Route, "blocks", len(blocks))
	return res, nil
}

// compose runs the single classification pass over the rendered fragments.
func compose(blocks []domain.Block, frags []render.Fragment, rc domain.RenderContext) string {
	var header, footer, sidebar string
	var lead, column, tail []string
	seenColumn := false

	for i, b := range blocks {
		html := frags[i].HTML
		switch {
		case b.Type == domain.BlockHeader && header == "":
			header = html
		case b.Type == domain.BlockFooter && footer == "":
			footer = html
		case b.Type == domain.BlockSidebar && sidebar == "":
			sidebar = html
		case fullWidthTypes[b.Type]:
			if seenColumn {
				tail = append(tail, html)
			} else {
				lead = append(lead, html)
			}
		default:
			column = append(column, html)
			seenColumn = true
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, `<div class="page" data-theme="%s" data-skin="%s">`,
		render.Escape(rc.Theme), render.Escape(rc.Skin))
	out.WriteString(header)
	for _, h := range lead {
		out.WriteString(h)
	}
	if sidebar != "" {
		out.WriteString(`<div class="layout layout--two-column"><main class="main-column">`)
		for _, h := range column {
			out.WriteString(h)
		}
		out.WriteString(`</main>`)
		out.WriteString(sidebar)
		out.WriteString(`</div>`)
	} else {
		out.WriteString(`<main class="main-column">`)
		for _, h := range column {
			out.WriteString(h)
		}
		out.WriteString(`</main>`)
	}
	for _, h := range tail {
		out.WriteString(h)
	}
	out.WriteString(footer)
	out.WriteString(`</div>`)
	return out.String()
}
