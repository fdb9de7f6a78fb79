package assemble

import (
	"strings"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// Crumb is one breadcrumb entry derived from the route.
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// PageMeta is the derived page metadata handed to the response-building
// layer. It is a pure function of the block list and context.
type PageMeta struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Canonical   string  `json:"canonical"`
	Breadcrumbs []Crumb `json:"breadcrumbs"`
}

func deriveMeta(blocks []domain.Block, rc domain.RenderContext) PageMeta {
	title := rc.PageTitle
	if title == "" {
		title = rc.SiteTitle
	} else if rc.SiteTitle != "" {
		title = title + " | " + rc.SiteTitle
	}

	meta := PageMeta{
		Title:       title,
		Description: rc.PageDescription,
		Canonical:   "https://" + rc.Domain + rc.Route,
		Breadcrumbs: breadcrumbs(rc),
	}
	if meta.Description == "" {
		meta.Description = firstTextExcerpt(blocks)
	}
	return meta
}

func breadcrumbs(rc domain.RenderContext) []Crumb {
	crumbs := []Crumb{{Label: rc.SiteTitle, Path: "/"}}
	path := ""
	for _, seg := range strings.Split(strings.Trim(rc.Route, "/"), "/") {
		if seg == "" {
			continue
		}
		path += "/" + seg
		crumbs = append(crumbs, Crumb{Label: humanize(seg), Path: path})
	}
	return crumbs
}

func humanize(seg string) string {
	seg = strings.ReplaceAll(seg, "-", " ")
	seg = strings.ReplaceAll(seg, "_", " ")
	return seg
}

// firstTextExcerpt pulls a short plain-text description from the first text
// or hero block when the page declares none.
func firstTextExcerpt(blocks []domain.Block) string {
	const maxLen = 160
	for _, b := range blocks {
		var raw string
		switch b.Type {
		case domain.BlockText:
			raw, _ = b.Content["markdown"].(string)
		case domain.BlockHero:
			raw, _ = b.Content["subheading"].(string)
		}
		raw = strings.TrimSpace(stripMarkdown(raw))
		if raw == "" {
			continue
		}
		if len(raw) > maxLen {
			raw = raw[:maxLen]
			if i := strings.LastIndexByte(raw, ' '); i > 0 {
				raw = raw[:i]
			}
		}
		return raw
	}
	return ""
}

// stripMarkdown flattens markdown to the first body paragraph: heading lines
// are dropped, inline emphasis markers removed.
func stripMarkdown(s string) string {
	replacer := strings.NewReplacer("*", "", "_", "", "`", "", ">", "")
	for _, para := range strings.Split(s, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") {
			continue
		}
		return strings.Join(strings.Fields(replacer.Replace(para)), " ")
	}
	return ""
}
