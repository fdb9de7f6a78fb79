package render

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// decode maps a block's loosely-typed content into a renderer's content
// struct. Weak typing mirrors what YAML and JSON authoring produces
// (numbers as strings, scalars for single-element lists).
func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}

// RegisterBuiltins installs the renderer for every known block type tag.
func RegisterBuiltins(r *Registry) {
	r.Register(domain.BlockHeader, renderHeader)
	r.Register(domain.BlockFooter, renderFooter)
	r.Register(domain.BlockSidebar, renderSidebar)
	r.Register(domain.BlockHero, renderHero)
	r.Register(domain.BlockText, renderText)
	r.Register(domain.BlockHeading, renderHeading)
	r.Register(domain.BlockImage, renderImage)
	r.Register(domain.BlockGallery, renderGallery)
	r.Register(domain.BlockVideo, renderVideo)
	r.Register(domain.BlockButton, renderButton)
	r.Register(domain.BlockCTA, renderCTA)
	r.Register(domain.BlockDivider, staticRenderer(`<hr class="block block--divider">`))
	r.Register(domain.BlockSpacer, renderSpacer)
	r.Register(domain.BlockQuote, renderQuote)
	r.Register(domain.BlockFAQ, renderFAQ)
	r.Register(domain.BlockFeatures, renderItemGrid("features"))
	r.Register(domain.BlockPricing, renderPricing)
	r.Register(domain.BlockStats, renderStats)
	r.Register(domain.BlockTeam, renderItemGrid("team"))
	r.Register(domain.BlockTestimonials, renderItemGrid("testimonials"))
	r.Register(domain.BlockLogos, renderLogos)
	r.Register(domain.BlockSteps, renderItemGrid("steps"))
	r.Register(domain.BlockTimeline, renderItemGrid("timeline"))
	r.Register(domain.BlockTable, renderTable)
	r.Register(domain.BlockCode, renderCode)
	r.Register(domain.BlockForm, renderForm)
	r.Register(domain.BlockNewsletter, renderNewsletter)
	r.Register(domain.BlockContact, renderForm)
	r.Register(domain.BlockMap, renderMap)
	r.Register(domain.BlockSocial, renderSocial)
	r.Register(domain.BlockBreadcrumbs, renderBreadcrumbs)
	r.Register(domain.BlockWizard, renderWizard)
	r.Register(domain.BlockCalculator, renderCalculator)
}

func staticRenderer(markup string) Func {
	return func(b domain.Block, rc domain.RenderContext) (Fragment, error) {
		return Fragment{HTML: markup}, nil
	}
}

func renderHeader(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Links []struct {
			Label string `mapstructure:"label"`
			URL   string `mapstructure:"url"`
		} `mapstructure:"links"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var nav strings.Builder
	for _, l := range c.Links {
		fmt.Fprintf(&nav, `<a href="%s">%s</a>`, Escape(l.URL), Escape(l.Label))
	}
	markup := fmt.Sprintf(
		`<header class="block block--header"><span class="site-title">%s</span><nav>%s</nav></header>`,
		Escape(rc.SiteTitle), nav.String(),
	)
	return Fragment{HTML: markup}, nil
}

func renderFooter(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Note string `mapstructure:"note"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	note := c.Note
	if note == "" {
		note = rc.SiteTitle
	}
	return Fragment{HTML: fmt.Sprintf(
		`<footer class="block block--footer"><small>%s</small></footer>`, Escape(note),
	)}, nil
}

func renderSidebar(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Title string   `mapstructure:"title"`
		Items []string `mapstructure:"items"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var items strings.Builder
	for _, it := range c.Items {
		fmt.Fprintf(&items, "<li>%s</li>", Escape(it))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<aside class="block block--sidebar"><h3>%s</h3><ul>%s</ul></aside>`,
		Escape(c.Title), items.String(),
	)}, nil
}

func renderHero(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Heading    string `mapstructure:"heading"`
		Subheading string `mapstructure:"subheading"`
		Image      string `mapstructure:"image"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	heading := c.Heading
	if heading == "" {
		heading = rc.PageTitle
	}
	var img string
	if c.Image != "" {
		img = fmt.Sprintf(`<img src="%s" alt="">`, Escape(c.Image))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--hero"><h1>%s</h1><p>%s</p>%s</section>`,
		Escape(heading), Escape(c.Subheading), img,
	)}, nil
}

func renderHeading(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Text  string `mapstructure:"text"`
		Level int    `mapstructure:"level"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	level := c.Level
	if level < 1 || level > 6 {
		level = 2
	}
	return Fragment{HTML: fmt.Sprintf(
		`<h%d class="block block--heading">%s</h%d>`, level, Escape(c.Text), level,
	)}, nil
}

func renderImage(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Src     string `mapstructure:"src"`
		Alt     string `mapstructure:"alt"`
		Caption string `mapstructure:"caption"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var caption string
	if c.Caption != "" {
		caption = fmt.Sprintf("<figcaption>%s</figcaption>", Escape(c.Caption))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<figure class="block block--image"><img src="%s" alt="%s">%s</figure>`,
		Escape(c.Src), Escape(c.Alt), caption,
	)}, nil
}

func renderGallery(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Images []struct {
			Src string `mapstructure:"src"`
			Alt string `mapstructure:"alt"`
		} `mapstructure:"images"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var imgs strings.Builder
	for _, img := range c.Images {
		fmt.Fprintf(&imgs, `<img src="%s" alt="%s">`, Escape(img.Src), Escape(img.Alt))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--gallery">%s</div>`, imgs.String(),
	)}, nil
}

func renderVideo(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		URL    string `mapstructure:"url"`
		Poster string `mapstructure:"poster"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--video"><video src="%s" poster="%s" controls></video></div>`,
		Escape(c.URL), Escape(c.Poster),
	)}, nil
}

func renderButton(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Label string `mapstructure:"label"`
		URL   string `mapstructure:"url"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<p class="block block--button"><a class="button" href="%s">%s</a></p>`,
		Escape(c.URL), Escape(c.Label),
	)}, nil
}

func renderCTA(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Heading string `mapstructure:"heading"`
		Body    string `mapstructure:"body"`
		Label   string `mapstructure:"label"`
		URL     string `mapstructure:"url"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--cta"><h2>%s</h2><p>%s</p><a class="button" href="%s">%s</a></section>`,
		Escape(c.Heading), Escape(c.Body), Escape(c.URL), Escape(c.Label),
	)}, nil
}

func renderSpacer(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Size int `mapstructure:"size"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	size := c.Size
	if size <= 0 {
		size = 24
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--spacer" style="height:%dpx"></div>`, size,
	)}, nil
}

func renderQuote(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Text   string `mapstructure:"text"`
		Author string `mapstructure:"author"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<blockquote class="block block--quote"><p>%s</p><cite>%s</cite></blockquote>`,
		Escape(c.Text), Escape(c.Author),
	)}, nil
}

func renderFAQ(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Items []struct {
			Question string `mapstructure:"question"`
			Answer   string `mapstructure:"answer"`
		} `mapstructure:"items"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var items strings.Builder
	for _, it := range c.Items {
		fmt.Fprintf(&items,
			"<details><summary>%s</summary><p>%s</p></details>",
			Escape(it.Question), Escape(it.Answer))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--faq">%s</section>`, items.String(),
	)}, nil
}

// renderItemGrid covers the family of title+body card grids (features, team,
// testimonials, steps, timeline). They share one content shape.
func renderItemGrid(kind string) Func {
	return func(b domain.Block, rc domain.RenderContext) (Fragment, error) {
		var c struct {
			Title string `mapstructure:"title"`
			Items []struct {
				Title string `mapstructure:"title"`
				Body  string `mapstructure:"body"`
			} `mapstructure:"items"`
		}
		if err := decode(b.Content, &c); err != nil {
			return Fragment{}, err
		}
		var cards strings.Builder
		for _, it := range c.Items {
			fmt.Fprintf(&cards,
				`<div class="card"><h3>%s</h3><p>%s</p></div>`,
				Escape(it.Title), Escape(it.Body))
		}
		var title string
		if c.Title != "" {
			title = fmt.Sprintf("<h2>%s</h2>", Escape(c.Title))
		}
		return Fragment{HTML: fmt.Sprintf(
			`<section class="block block--%s">%s<div class="grid">%s</div></section>`,
			kind, title, cards.String(),
		)}, nil
	}
}

func renderPricing(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Plans []struct {
			Name     string   `mapstructure:"name"`
			Price    string   `mapstructure:"price"`
			Features []string `mapstructure:"features"`
		} `mapstructure:"plans"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var plans strings.Builder
	for _, p := range c.Plans {
		var feats strings.Builder
		for _, f := range p.Features {
			fmt.Fprintf(&feats, "<li>%s</li>", Escape(f))
		}
		fmt.Fprintf(&plans,
			`<div class="plan"><h3>%s</h3><strong>%s</strong><ul>%s</ul></div>`,
			Escape(p.Name), Escape(p.Price), feats.String())
	}
	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--pricing">%s</section>`, plans.String(),
	)}, nil
}

func renderStats(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Items []struct {
			Value string `mapstructure:"value"`
			Label string `mapstructure:"label"`
		} `mapstructure:"items"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var items strings.Builder
	for _, it := range c.Items {
		fmt.Fprintf(&items,
			`<div class="stat"><strong>%s</strong><span>%s</span></div>`,
			Escape(it.Value), Escape(it.Label))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<section class="block block--stats">%s</section>`, items.String(),
	)}, nil
}

func renderLogos(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Images []string `mapstructure:"images"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var imgs strings.Builder
	for _, src := range c.Images {
		fmt.Fprintf(&imgs, `<img src="%s" alt="">`, Escape(src))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--logos">%s</div>`, imgs.String(),
	)}, nil
}

func renderTable(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Headers []string   `mapstructure:"headers"`
		Rows    [][]string `mapstructure:"rows"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var out strings.Builder
	out.WriteString(`<table class="block block--table"><thead><tr>`)
	for _, h := range c.Headers {
		fmt.Fprintf(&out, "<th>%s</th>", Escape(h))
	}
	out.WriteString("</tr></thead><tbody>")
	for _, row := range c.Rows {
		out.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&out, "<td>%s</td>", Escape(cell))
		}
		out.WriteString("</tr>")
	}
	out.WriteString("</tbody></table>")
	return Fragment{HTML: out.String()}, nil
}

func renderCode(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Language string `mapstructure:"language"`
		Source   string `mapstructure:"source"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<pre class="block block--code"><code class="language-%s">%s</code></pre>`,
		Escape(c.Language), Escape(c.Source),
	)}, nil
}

func renderForm(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Title  string `mapstructure:"title"`
		Fields []struct {
			ID    string `mapstructure:"id"`
			Label string `mapstructure:"label"`
			Type  string `mapstructure:"type"`
		} `mapstructure:"fields"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var fields strings.Builder
	for _, f := range c.Fields {
		typ := f.Type
		if typ == "" {
			typ = "text"
		}
		fmt.Fprintf(&fields,
			`<label>%s<input type="%s" name="%s"></label>`,
			Escape(f.Label), Escape(typ), Escape(f.ID))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<form class="block block--form" data-form-type="%s" data-collect="%s"><h2>%s</h2>%s<button type="submit">Send</button></form>`,
		Escape(b.Type), Escape(rc.CollectURL), Escape(c.Title), fields.String(),
	)}, nil
}

func renderNewsletter(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Title string `mapstructure:"title"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<form class="block block--newsletter" data-form-type="newsletter" data-collect="%s"><h2>%s</h2><input type="email" name="email" required><button type="submit">Subscribe</button></form>`,
		Escape(rc.CollectURL), Escape(c.Title),
	)}, nil
}

func renderMap(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Address string `mapstructure:"address"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--map" data-address="%s"></div>`, Escape(c.Address),
	)}, nil
}

func renderSocial(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Links []struct {
			Network string `mapstructure:"network"`
			URL     string `mapstructure:"url"`
		} `mapstructure:"links"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var links strings.Builder
	for _, l := range c.Links {
		fmt.Fprintf(&links, `<a href="%s" rel="me">%s</a>`, Escape(l.URL), Escape(l.Network))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--social">%s</div>`, links.String(),
	)}, nil
}

func renderBreadcrumbs(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var crumbs strings.Builder
	crumbs.WriteString(`<a href="/">` + Escape(rc.SiteTitle) + `</a>`)
	path := ""
	for _, seg := range strings.Split(strings.Trim(rc.Route, "/"), "/") {
		if seg == "" {
			continue
		}
		path += "/" + seg
		fmt.Fprintf(&crumbs, ` / <a href="%s">%s</a>`, Escape(path), Escape(seg))
	}
	return Fragment{HTML: fmt.Sprintf(
		`<nav class="block block--breadcrumbs">%s</nav>`, crumbs.String(),
	)}, nil
}
