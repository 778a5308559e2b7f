// Package convert defines the seam between rendered markup and binary
// document output. Engines receive the expanded HTML, the stylesheet paths,
// and a base URL for relative asset resolution, and return PDF bytes.
package convert

import (
	"context"
	"fmt"
	"strings"
)

// Document is the input to a conversion engine.
type Document struct {
	// HTML is the fully rendered markup.
	HTML string

	// BaseURL is the absolute, slash-terminated locator of the template
	// directory. Relative references in the markup (images, fonts) resolve
	// against it.
	BaseURL string

	// Stylesheets holds absolute paths of the CSS files to apply.
	Stylesheets []string
}

// Engine converts a composed document into PDF bytes. Implementations must
// be safe for concurrent use; each Convert call is an independent unit of
// work.
type Engine interface {
	Name() string
	Convert(ctx context.Context, doc Document) ([]byte, error)
}

// Compose injects the document's base URL and stylesheet links into the
// markup so any engine resolves assets the same way. The tags land right
// after <head> when the markup has one and are prepended otherwise.
func Compose(doc Document) string {
	var sb strings.Builder
	if doc.BaseURL != "" {
		fmt.Fprintf(&sb, "<base href=%q>", doc.BaseURL)
	}
	for _, stylesheet := range doc.Stylesheets {
		if strings.TrimSpace(stylesheet) == "" {
			continue
		}
		fmt.Fprintf(&sb, "<link rel=\"stylesheet\" href=\"file://%s\">", stylesheet)
	}

	injected := sb.String()
	if injected == "" {
		return doc.HTML
	}

	html := doc.HTML
	lowered := strings.ToLower(html)
	if idx := strings.Index(lowered, "<head>"); idx >= 0 {
		insertAt := idx + len("<head>")
		return html[:insertAt] + injected + html[insertAt:]
	}
	return injected + html
}
