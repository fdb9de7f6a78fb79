// Package file implements a PageLoader over a site directory:
//
//	site.yaml        site-wide attributes
//	pages/*.yaml     one page definition per file
//
// Definitions are parsed once at construction; serving reads only the
// in-memory snapshot.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// Loader implements ports.PageLoader from a parsed site directory.
type Loader struct {
	site  domain.Site
	pages map[string]domain.Page
}

// NewLoader reads and parses a site directory.
func NewLoader(dir string) (*Loader, error) {
	siteData, err := os.ReadFile(filepath.Join(dir, "site.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read site.yaml: %w", err)
	}
	var site domain.Site
	if err := yaml.Unmarshal(siteData, &site); err != nil {
		return nil, fmt.Errorf("parse site.yaml: %w", err)
	}

	pagesDir := filepath.Join(dir, "pages")
	entries, err := os.ReadDir(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("read pages dir: %w", err)
	}

	pages := make(map[string]domain.Page)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(pagesDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var page domain.Page
		if err := yaml.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if page.Route == "" {
			return nil, fmt.Errorf("page %s: missing route", entry.Name())
		}
		if _, dup := pages[page.Route]; dup {
			return nil, fmt.Errorf("page %s: duplicate route %q", entry.Name(), page.Route)
		}
		pages[page.Route] = page
	}

	return &Loader{site: site, pages: pages}, nil
}

// Site returns the site attributes.
func (l *Loader) Site(ctx context.Context) (*domain.Site, error) {
	site := l.site
	return &site, nil
}

// Page returns the page for a route.
func (l *Loader) Page(ctx context.Context, route string) (*domain.Page, error) {
	p, ok := l.pages[route]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	return &p, nil
}

// Routes lists every known route, sorted for stable output.
func (l *Loader) Routes(ctx context.Context) ([]string, error) {
	routes := make([]string, 0, len(l.pages))
	for r := range l.pages {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes, nil
}
