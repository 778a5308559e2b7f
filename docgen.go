// Package docgen generates PDF documents from directory-backed templates.
// Clients submit a template name and a JSON payload; the pipeline validates
// the payload against the template's schema, renders HTML with pongo2, and
// converts it to PDF through a pluggable engine.
//
// The root package re-exports the pipeline types so most callers only need
// one import:
//
//	gen := docgen.New(docgen.WithTemplateRoot("templates"))
//	result, err := gen.Generate(ctx, docgen.Request{
//		Template: "example_template",
//		Payload:  data,
//	})
package docgen

import (
	"github.com/goliatone/go-docgen/pkg/orchestrator"
	"github.com/goliatone/go-docgen/pkg/stylesheet"
)

// Orchestrator coordinates the validate, render, and convert stages.
type Orchestrator = orchestrator.Orchestrator

// Option customises the orchestrator configuration.
type Option = orchestrator.Option

// Request describes one document-generation unit of work.
type Request = orchestrator.Request

// Result holds the converted artifact.
type Result = orchestrator.Result

// SchemaInfo is the self-documentation answer for one template.
type SchemaInfo = orchestrator.SchemaInfo

// Re-exported configuration options. See pkg/orchestrator for details.
var (
	WithTemplateRoot      = orchestrator.WithTemplateRoot
	WithTemplates         = orchestrator.WithTemplates
	WithLoader            = orchestrator.WithLoader
	WithNativeContracts   = orchestrator.WithNativeContracts
	WithContractCache     = orchestrator.WithContractCache
	WithRenderer          = orchestrator.WithRenderer
	WithStylesheets       = orchestrator.WithStylesheets
	WithDefaultStylesheet = orchestrator.WithDefaultStylesheet
	WithConverters        = orchestrator.WithConverters
	WithEngine            = orchestrator.WithEngine
	WithDefaultEngine     = orchestrator.WithDefaultEngine
)

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	return orchestrator.New(options...)
}

// DefaultStylesheet exposes the embedded system stylesheet so deployments
// can write it to disk and customise it.
func DefaultStylesheet() []byte {
	return stylesheet.DefaultCSS()
}
