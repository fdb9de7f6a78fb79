package memory

import (
	"context"
	"sync"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// Loader implements ports.PageLoader over an in-memory page set.
type Loader struct {
	mu    sync.RWMutex
	site  domain.Site
	pages map[string]domain.Page
}

// NewLoader creates a loader for a site and its pages, keyed by route.
func NewLoader(site domain.Site, pages ...domain.Page) *Loader {
	l := &Loader{site: site, pages: make(map[string]domain.Page, len(pages))}
	for _, p := range pages {
		l.pages[p.Route] = p
	}
	return l
}

// SetPage adds or replaces a page. Handy for tests.
func (l *Loader) SetPage(p domain.Page) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages[p.Route] = p
}

// Site returns the site attributes.
func (l *Loader) Site(ctx context.Context) (*domain.Site, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	site := l.site
	return &site, nil
}

// Page returns the page for a route.
func (l *Loader) Page(ctx context.Context, route string) (*domain.Page, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.pages[route]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	return &p, nil
}

// Routes lists every known route.
func (l *Loader) Routes(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	routes := make([]string, 0, len(l.pages))
	for r := range l.pages {
		routes = append(routes, r)
	}
	return routes, nil
}
