package contract

import (
	"context"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/payload"
	"github.com/goliatone/go-docgen/pkg/registry"
	"github.com/goliatone/go-docgen/pkg/schema"
)

// Option customises the loader configuration.
type Option func(*Loader)

// WithNativeContracts injects a registry of build-time contracts that shadow
// on-disk validation units.
func WithNativeContracts(native *Registry) Option {
	return func(l *Loader) {
		l.native = native
	}
}

// WithCache switches the loader from reload-per-call to process-lifetime
// caching. Reload-per-call is the default: it keeps validator edits live
// without a restart at the cost of recompiling the schema each request.
func WithCache(cache Cache) Option {
	return func(l *Loader) {
		l.cache = cache
	}
}

// Loader resolves template names to validation contracts, using the template
// registry for path resolution.
type Loader struct {
	templates *registry.Registry
	native    *Registry
	cache     Cache
}

// NewLoader constructs a Loader over a template registry.
func NewLoader(templates *registry.Registry, options ...Option) (*Loader, error) {
	if templates == nil {
		return nil, fmt.Errorf("contract: template registry is required")
	}

	l := &Loader{templates: templates}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l, nil
}

// Load returns the validation contract for a template. Native contracts win;
// otherwise the template's schema.json is read and compiled. Fails with a
// NotFound kind when the template directory or its validation unit is
// missing, and a LoadError kind when the unit cannot be parsed or compiled.
func (l *Loader) Load(ctx context.Context, template string) (Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.native != nil {
		if c, ok := l.native.Get(template); ok {
			return c, nil
		}
	}

	key := ModuleKey(template)
	if l.cache != nil {
		if c, ok := l.cache.Get(key); ok {
			return c, nil
		}
	}

	dir, err := l.templates.Resolve(ctx, template)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(registry.ValidationPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docerr.NotFoundf("contract: validator not found for template %q", template)
		}
		return nil, docerr.Loadf("contract: read validator for template %q", template)
	}

	doc, err := schema.NewDocument(raw)
	if err != nil {
		return nil, docerr.Loadf("contract: parse validator for template %q: %v", template, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, docerr.Loadf("contract: compile validator for template %q: %v", template, err)
	}

	c := &schemaContract{template: template, doc: doc, compiled: compiled}
	if l.cache != nil {
		l.cache.Put(key, c)
	}
	return c, nil
}

// schemaContract is the standard Contract implementation backed by a
// template's schema.json.
type schemaContract struct {
	template string
	doc      schema.Document
	compiled *gojsonschema.Schema
}

// Validate evaluates the compiled schema against the payload. Every violated
// constraint is reported; validation never stops at the first bad field.
func (c *schemaContract) Validate(ctx context.Context, data payload.Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	document := gojsonschema.NewGoLoader(map[string]any(data))
	result, err := c.compiled.Validate(document)
	if err != nil {
		return docerr.Loadf("contract: validate payload for template %q: %v", c.template, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]docerr.Violation, 0, len(result.Errors()))
	for _, issue := range result.Errors() {
		violations = append(violations, docerr.Violation{
			Field:   issue.Field(),
			Message: issue.Description(),
		})
	}
	return docerr.NewValidationError(c.template, violations...)
}

// Schema returns the parsed validation unit.
func (c *schemaContract) Schema(context.Context) (schema.Document, error) {
	return c.doc, nil
}
