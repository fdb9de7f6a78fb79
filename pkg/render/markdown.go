package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/masonrylabs/masonry/pkg/domain"
)

// One shared converter: goldmark.Markdown is safe for concurrent Convert
// calls, which keeps the text renderer pure under parallel assembly.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderText(b domain.Block, rc domain.RenderContext) (Fragment, error) {
	var c struct {
		Markdown string `mapstructure:"markdown"`
	}
	if err := decode(b.Content, &c); err != nil {
		return Fragment{}, err
	}
	var body strings.Builder
	if err := markdown.Convert([]byte(c.Markdown), &body); err != nil {
		return Fragment{}, fmt.Errorf("markdown convert: %w", err)
	}
	return Fragment{HTML: fmt.Sprintf(
		`<div class="block block--text">%s</div>`, body.String(),
	)}, nil
}
