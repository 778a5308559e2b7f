// Package chromium converts composed HTML to PDF by printing it from a
// headless Chromium instance via the DevTools protocol. Use it where modern
// CSS support matters more than wkhtmltopdf's lighter footprint.
package chromium

import (
	"context"
	"os"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-docgen/pkg/convert"
	"github.com/goliatone/go-docgen/pkg/docerr"
)

// Name identifies the engine in the conversion registry.
const Name = "chromium"

// Option customises the engine configuration.
type Option func(*Engine)

// WithPrintBackground toggles background graphics in the printed output.
// Backgrounds print by default.
func WithPrintBackground(enabled bool) Option {
	return func(e *Engine) {
		e.printBackground = enabled
	}
}

// Engine prints documents from headless Chromium. Each conversion spawns an
// isolated browser context; the engine holds only configuration and is safe
// for concurrent use.
type Engine struct {
	printBackground bool
}

// New constructs an Engine applying any provided options.
func New(options ...Option) *Engine {
	e := &Engine{printBackground: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Name implements convert.Engine.
func (e *Engine) Name() string {
	return Name
}

// Convert implements convert.Engine. The composed markup is staged to a
// temporary file so Chromium loads it over file://; the injected <base>
// tag keeps relative assets resolving against the template directory.
func (e *Engine) Convert(ctx context.Context, doc convert.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	staged, err := os.CreateTemp("", "docgen-*.html")
	if err != nil {
		return nil, docerr.Conversionf("chromium: stage document: %v", err)
	}
	defer os.Remove(staged.Name())

	if _, err := staged.WriteString(convert.Compose(doc)); err != nil {
		staged.Close()
		return nil, docerr.Conversionf("chromium: stage document: %v", err)
	}
	if err := staged.Close(); err != nil {
		return nil, docerr.Conversionf("chromium: stage document: %v", err)
	}

	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+staged.Name()),
		chromedp.ActionFunc(func(ctx context.Context) error {
			out, _, err := page.PrintToPDF().
				WithPrintBackground(e.printBackground).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	)
	if err != nil {
		return nil, docerr.Conversionf("chromium: print pdf: %v", err)
	}
	return pdf, nil
}
