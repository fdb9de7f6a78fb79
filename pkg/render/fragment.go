package render

import (
	"fmt"
	"html"
)

// Fragment is the rendered markup of one block, ready for page assembly.
type Fragment struct {
	BlockID string
	Type    string
	HTML    string

	// Placeholder marks fragments substituted for unknown types or
	// renderer faults.
	Placeholder bool
}

// Escape HTML-escapes untrusted text for embedding in markup.
func Escape(s string) string { return html.EscapeString(s) }

// Placeholder builds the degraded fragment used when a block cannot render.
// It carries the escaped type tag and never the raw content payload.
func Placeholder(blockID, blockType string) Fragment {
	tag := Escape(blockType)
	return Fragment{
		BlockID:     blockID,
		Type:        blockType,
		Placeholder: true,
		HTML: fmt.Sprintf(
			`<div class="block block--unavailable" data-block-type="%s"><!-- block %s unavailable --></div>`,
			tag, tag,
		),
	}
}
