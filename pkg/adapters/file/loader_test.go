package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/masonrylabs/masonry/pkg/domain"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	site := `domain: example.com
title: Example
theme: midnight
skin: rounded
collect_url: https://collect.example.com/api/collect
`
	if err := os.WriteFile(filepath.Join(dir, "site.yaml"), []byte(site), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.Mkdir(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}

	home := `route: /
title: Home
description: The front page.
blocks:
  - id: b1
    type: header
    content:
      title: Example
  - id: b2
    type: hero
    variant: centered
    config:
      align: center
    content:
      title: Welcome
      subheading: Built from blocks.
`
	if err := os.WriteFile(filepath.Join(dir, "pages", "home.yaml"), []byte(home), 0o644); err != nil {
		t.Fatal(err)
	}

	about := `route: /about
title: About
blocks:
  - id: b1
    type: text
    content:
      markdown: "# About us"
`
	if err := os.WriteFile(filepath.Join(dir, "pages", "about.yaml"), []byte(about), 0o644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestLoaderSite(t *testing.T) {
	loader, err := NewLoader(writeSite(t))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	site, err := loader.Site(context.Background())
	if err != nil {
		t.Fatalf("Site: %v", err)
	}
	if site.Domain != "example.com" || site.Title != "Example" {
		t.Errorf("unexpected site: %+v", site)
	}
	if site.Theme != "midnight" || site.Skin != "rounded" {
		t.Errorf("unexpected theme/skin: %+v", site)
	}
	if site.CollectURL != "https://collect.example.com/api/collect" {
		t.Errorf("unexpected collect URL: %q", site.CollectURL)
	}
}

func TestLoaderPage(t *testing.T) {
	loader, err := NewLoader(writeSite(t))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	page, err := loader.Page(context.Background(), "/")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Title != "Home" || len(page.Blocks) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	hero := page.Blocks[1]
	if hero.Type != domain.BlockHero || hero.Variant != "centered" {
		t.Errorf("unexpected hero block: %+v", hero)
	}
	if got := hero.Content["subheading"]; got != "Built from blocks." {
		t.Errorf("content subheading = %v", got)
	}
	if got := hero.Config["align"]; got != "center" {
		t.Errorf("config align = %v", got)
	}
}

func TestLoaderPageNotFound(t *testing.T) {
	loader, err := NewLoader(writeSite(t))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	_, err = loader.Page(context.Background(), "/missing")
	if !errors.Is(err, domain.ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
}

func TestLoaderRoutes(t *testing.T) {
	loader, err := NewLoader(writeSite(t))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	routes, err := loader.Routes(context.Background())
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(routes) != 2 || routes[0] != "/" || routes[1] != "/about" {
		t.Errorf("unexpected routes: %v", routes)
	}
}

func TestLoaderRejectsDuplicateRoute(t *testing.T) {
	dir := writeSite(t)
	dup := "route: /\ntitle: Dup\nblocks: []\n"
	if err := os.WriteFile(filepath.Join(dir, "pages", "zz-dup.yaml"), []byte(dup), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir); err == nil {
		t.Error("expected duplicate route error")
	}
}

func TestLoaderRejectsMissingRoute(t *testing.T) {
	dir := writeSite(t)
	if err := os.WriteFile(filepath.Join(dir, "pages", "bad.yaml"), []byte("title: NoRoute\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir); err == nil {
		t.Error("expected missing route error")
	}
}

func TestLoaderMissingSiteFile(t *testing.T) {
	if _, err := NewLoader(t.TempDir()); err == nil {
		t.Error("expected error for missing site.yaml")
	}
}
