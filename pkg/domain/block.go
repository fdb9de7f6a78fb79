package domain

// Block type tags form a closed set. Anything outside it still has to
// assemble into a page (the dispatcher substitutes a placeholder), so these
// constants are for authoring and registration, not for gatekeeping.
const (
	BlockHeader       = "header"
	BlockFooter       = "footer"
	BlockSidebar      = "sidebar"
	BlockHero         = "hero"
	BlockText         = "text"
	BlockHeading      = "heading"
	BlockImage        = "image"
	BlockGallery      = "gallery"
	BlockVideo        = "video"
	BlockButton       = "button"
	BlockCTA          = "cta"
	BlockDivider      = "divider"
	BlockSpacer       = "spacer"
	BlockQuote        = "quote"
	BlockFAQ          = "faq"
	BlockFeatures     = "features"
	BlockPricing      = "pricing"
	BlockStats        = "stats"
	BlockTeam         = "team"
	BlockTestimonials = "testimonials"
	BlockLogos        = "logos"
	BlockSteps        = "steps"
	BlockTimeline     = "timeline"
	BlockTable        = "table"
	BlockCode         = "code"
	BlockForm         = "form"
	BlockNewsletter   = "newsletter"
	BlockContact      = "contact"
	BlockMap          = "map"
	BlockSocial       = "social"
	BlockBreadcrumbs  = "breadcrumbs"
	BlockWizard       = "wizard"
	BlockCalculator   = "calculator"
)

// KnownBlockTypes lists every tag with a built-in renderer.
var KnownBlockTypes = []string{
	BlockHeader, BlockFooter, BlockSidebar, BlockHero, BlockText,
	BlockHeading, BlockImage, BlockGallery, BlockVideo, BlockButton,
	BlockCTA, BlockDivider, BlockSpacer, BlockQuote, BlockFAQ,
	BlockFeatures, BlockPricing, BlockStats, BlockTeam, BlockTestimonials,
	BlockLogos, BlockSteps, BlockTimeline, BlockTable, BlockCode,
	BlockForm, BlockNewsletter, BlockContact, BlockMap, BlockSocial,
	BlockBreadcrumbs, BlockWizard, BlockCalculator,
}

// Block is the persisted envelope for one unit of page content.
// It is authored and validated upstream; the assembly core treats it as
// read-only.
type Block struct {
	ID      string         `json:"id" yaml:"id" mapstructure:"id"`
	Type    string         `json:"type" yaml:"type" mapstructure:"type"`
	Variant string         `json:"variant,omitempty" yaml:"variant,omitempty" mapstructure:"variant"`
	Config  map[string]any `json:"config,omitempty" yaml:"config,omitempty" mapstructure:"config"`
	Content map[string]any `json:"content,omitempty" yaml:"content,omitempty" mapstructure:"content"`
}

// Page is an ordered block list plus its routing metadata.
type Page struct {
	Route       string  `json:"route" yaml:"route"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Blocks      []Block `json:"blocks" yaml:"blocks"`
}

// Site holds the site-wide attributes the render context is seeded from.
type Site struct {
	Domain     string `json:"domain" yaml:"domain"`
	Title      string `json:"title" yaml:"title"`
	Theme      string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Skin       string `json:"skin,omitempty" yaml:"skin,omitempty"`
	CollectURL string `json:"collect_url,omitempty" yaml:"collect_url,omitempty"`
}
