/*
Package ports defines the driven ports (interfaces) for the Masonry engine.

These interfaces decouple the assembly and wizard cores from external
implementations, allowing the engine to work with various page sources,
session stores and lead sinks.

# Key Interfaces

  - PageLoader: loads Site and Page definitions (file directory or memory).
  - SessionStore: persists wizard session state for the session's lifetime.
  - LeadSubmitter: best-effort egress for captured leads.
*/
package ports

import (
	"context"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// PageLoader serves block-list page definitions. Implementations must be
// safe for concurrent reads.
type PageLoader interface {
	// Site returns the site-wide attributes.
	Site(ctx context.Context) (*domain.Site, error)

	// Page returns the page for a route.
	// Returns domain.ErrPageNotFound if the route has no page.
	Page(ctx context.Context, route string) (*domain.Page, error)

	// Routes lists every known route.
	Routes(ctx context.Context) ([]string, error)
}

// SessionStore persists wizard session state.
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.WizardState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.WizardState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error
}

// Lead is one captured submission bound for the collect endpoint.
type Lead struct {
	FormType string         `json:"formType"`
	Route    string         `json:"route"`
	Domain   string         `json:"domain"`
	Email    string         `json:"email,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// LeadSubmitter forwards a lead. Implementations apply their own bounded
// timeout; failures are reported to the caller but never block wizard
// progression.
type LeadSubmitter interface {
	Submit(ctx context.Context, lead Lead) error
}
