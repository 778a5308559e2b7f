// Package wkhtml converts composed HTML to PDF through the wkhtmltopdf
// binary. It is the default engine: predictable print output and no browser
// dependency beyond the wkhtmltopdf install itself.
package wkhtml

import (
	"context"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/goliatone/go-docgen/pkg/convert"
	"github.com/goliatone/go-docgen/pkg/docerr"
)

// Name identifies the engine in the conversion registry.
const Name = "wkhtmltopdf"

// Option customises the engine configuration.
type Option func(*Engine)

// WithDPI overrides the rendering DPI.
func WithDPI(dpi uint) Option {
	return func(e *Engine) {
		e.dpi = dpi
	}
}

// WithGrayscale renders documents without color.
func WithGrayscale() Option {
	return func(e *Engine) {
		e.grayscale = true
	}
}

// Engine drives wkhtmltopdf. A fresh generator is created per conversion;
// the engine itself carries only immutable configuration and is safe for
// concurrent use.
type Engine struct {
	dpi       uint
	grayscale bool
}

// New constructs an Engine applying any provided options.
func New(options ...Option) *Engine {
	e := &Engine{dpi: 96}
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

// Convert implements convert.Engine.
func (e *Engine) Convert(ctx context.Context, doc convert.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generator, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, docerr.Conversionf("wkhtml: init generator: %v", err)
	}
	generator.Dpi.Set(e.dpi)
	if e.grayscale {
		generator.Grayscale.Set(true)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(convert.Compose(doc)))
	page.EnableLocalFileAccess.Set(true)
	generator.AddPage(page)

	if err := generator.CreateContext(ctx); err != nil {
		return nil, docerr.Conversionf("wkhtml: create pdf: %v", err)
	}
	return generator.Bytes(), nil
}
