package domain

// RenderContext is the read-only parameter bag passed to every renderer.
// Renderers must not mutate it; independent block renders share one instance
// concurrently.
type RenderContext struct {
	Domain          string
	SiteTitle       string
	Route           string
	Theme           string
	Skin            string
	PageTitle       string
	PageDescription string

	// CollectURL is the lead-capture egress endpoint, empty when capture
	// is disabled.
	CollectURL string
}
