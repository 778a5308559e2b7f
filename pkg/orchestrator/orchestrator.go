// Package orchestrator sequences the document-generation pipeline:
// validate, render, resolve stylesheets, convert. Each stage short-circuits
// on the first failure and surfaces the originating error kind untouched;
// there are no retries and no partial output.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-docgen/pkg/contract"
	"github.com/goliatone/go-docgen/pkg/convert"
	"github.com/goliatone/go-docgen/pkg/convert/wkhtml"
	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/payload"
	"github.com/goliatone/go-docgen/pkg/registry"
	"github.com/goliatone/go-docgen/pkg/render"
	"github.com/goliatone/go-docgen/pkg/schema"
	"github.com/goliatone/go-docgen/pkg/stylesheet"
)

// PDF media type for generated artifacts.
const contentTypePDF = "application/pdf"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithTemplateRoot points the default component stack at a template
// directory on disk.
func WithTemplateRoot(dir string) Option {
	return func(o *Orchestrator) {
		o.templateRoot = dir
	}
}

// WithTemplates injects a pre-built template registry.
func WithTemplates(templates *registry.Registry) Option {
	return func(o *Orchestrator) {
		o.templates = templates
	}
}

// WithLoader injects a custom contract loader.
func WithLoader(loader *contract.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithNativeContracts registers build-time validation contracts consulted
// before on-disk validation units.
func WithNativeContracts(native *contract.Registry) Option {
	return func(o *Orchestrator) {
		o.native = native
	}
}

// WithContractCache switches contract loading from reload-per-call to
// process-lifetime caching.
func WithContractCache(cache contract.Cache) Option {
	return func(o *Orchestrator) {
		o.contractCache = cache
	}
}

// WithRenderer injects a custom markup renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithStylesheets injects a custom stylesheet resolver.
func WithStylesheets(resolver *stylesheet.Resolver) Option {
	return func(o *Orchestrator) {
		o.stylesheets = resolver
	}
}

// WithDefaultStylesheet points the default stylesheet resolver at a system
// stylesheet on disk.
func WithDefaultStylesheet(path string) Option {
	return func(o *Orchestrator) {
		o.defaultStylesheet = path
	}
}

// WithConverters injects a conversion engine registry.
func WithConverters(converters *convert.Registry) Option {
	return func(o *Orchestrator) {
		o.converters = converters
	}
}

// WithEngine registers a conversion engine and makes it the default when no
// default was set yet.
func WithEngine(engine convert.Engine) Option {
	return func(o *Orchestrator) {
		o.pendingEngines = append(o.pendingEngines, engine)
	}
}

// WithDefaultEngine overrides the engine used when a request omits an
// explicit Engine field.
func WithDefaultEngine(name string) Option {
	return func(o *Orchestrator) {
		o.defaultEngine = name
	}
}

// Orchestrator coordinates the full pipeline from template name and payload
// to converted PDF. It applies sensible defaults (schema.json contracts,
// pongo2 rendering, embedded default stylesheet, wkhtmltopdf engine) while
// remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	templateRoot      string
	templates         *registry.Registry
	loader            *contract.Loader
	native            *contract.Registry
	contractCache     contract.Cache
	renderer          *render.Renderer
	stylesheets       *stylesheet.Resolver
	converters        *convert.Registry
	pendingEngines    []convert.Engine
	defaultEngine     string
	defaultStylesheet string

	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one document-generation unit of work. Requests are
// independent and stateless; any number may run concurrently.
type Request struct {
	// Template names the template to generate from.
	Template string

	// Payload carries the request data bound into the markup.
	Payload payload.Map

	// Engine names the conversion engine to use. If empty, the orchestrator
	// falls back to the configured default engine.
	Engine string
}

// Result holds the converted artifact.
type Result struct {
	PDF         []byte
	Filename    string
	ContentType string
}

// SchemaInfo is the self-documentation answer for one template: the
// required-field list plus a synthesized example payload.
type SchemaInfo struct {
	Template string         `json:"template"`
	Required []string       `json:"required"`
	Payload  map[string]any `json:"payload"`
}

// Generate runs validate, render, stylesheet resolution, and conversion in
// that fixed order, short-circuiting on the first failure.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.ready(); err != nil {
		return Result{}, err
	}
	if req.Template == "" {
		return Result{}, errors.New("orchestrator: template name is required")
	}

	c, err := o.loader.Load(ctx, req.Template)
	if err != nil {
		return Result{}, err
	}
	if err := c.Validate(ctx, req.Payload); err != nil {
		return Result{}, err
	}

	rendered, err := o.renderer.Render(ctx, req.Template, req.Payload)
	if err != nil {
		return Result{}, err
	}

	stylesheets, err := o.stylesheets.Resolve(ctx, req.Template)
	if err != nil {
		return Result{}, err
	}

	engine, err := o.engineFor(req.Engine)
	if err != nil {
		return Result{}, err
	}

	pdf, err := engine.Convert(ctx, convert.Document{
		HTML:        rendered.HTML,
		BaseURL:     rendered.BaseURL,
		Stylesheets: stylesheets,
	})
	if err != nil {
		if _, ok := docerr.IsValidation(err); !ok && !docerr.IsConversion(err) && !docerr.IsNotFound(err) {
			err = docerr.Conversionf("orchestrator: convert document: %v", err)
		}
		return Result{}, err
	}

	return Result{
		PDF:         pdf,
		Filename:    req.Template + ".pdf",
		ContentType: contentTypePDF,
	}, nil
}

// ListTemplates enumerates the functional templates in lexicographic order.
func (o *Orchestrator) ListTemplates(ctx context.Context) ([]string, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return nil, err
	}
	return o.templates.List(ctx)
}

// Schema returns the required fields and a synthesized example payload for a
// template. Synthesis is recomputed per call; nothing is cached.
func (o *Orchestrator) Schema(ctx context.Context, template string) (SchemaInfo, error) {
	if ctx == nil {
		return SchemaInfo{}, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return SchemaInfo{}, err
	}

	c, err := o.loader.Load(ctx, template)
	if err != nil {
		return SchemaInfo{}, err
	}
	doc, err := c.Schema(ctx)
	if err != nil {
		return SchemaInfo{}, docerr.NotFoundf("orchestrator: schema for template %q", template)
	}

	example := schema.Synthesize(doc)
	return SchemaInfo{
		Template: template,
		Required: example.Required,
		Payload:  example.Payload,
	}, nil
}

// Engines lists the registered conversion engine names.
func (o *Orchestrator) Engines() []string {
	if o.converters == nil {
		return nil
	}
	return o.converters.List()
}

func (o *Orchestrator) ready() error {
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) engineFor(name string) (convert.Engine, error) {
	if o.converters == nil {
		return nil, errors.New("orchestrator: converter registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultEngine
	}
	if target != "" {
		engine, err := o.converters.Get(target)
		if err == nil {
			return engine, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: engine %q: %w", name, err)
		}
	}

	names := o.converters.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no conversion engines registered")
	}
	engine, err := o.converters.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: engine %q: %w", names[0], err)
	}
	return engine, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.templates == nil {
		if o.templateRoot == "" {
			o.initialiseErr = errors.New("orchestrator: template root or registry is required")
			o.defaultsApplied = true
			return
		}
		templates, err := registry.New(o.templateRoot)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: template registry: %w", err)
			o.defaultsApplied = true
			return
		}
		o.templates = templates
	}

	if o.loader == nil {
		var opts []contract.Option
		if o.native != nil {
			opts = append(opts, contract.WithNativeContracts(o.native))
		}
		if o.contractCache != nil {
			opts = append(opts, contract.WithCache(o.contractCache))
		}
		loader, err := contract.NewLoader(o.templates, opts...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: contract loader: %w", err)
			o.defaultsApplied = true
			return
		}
		o.loader = loader
	}

	if o.renderer == nil {
		renderer, err := render.New(o.templates)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: renderer: %w", err)
			o.defaultsApplied = true
			return
		}
		o.renderer = renderer
	}

	if o.stylesheets == nil {
		var opts []stylesheet.Option
		if o.defaultStylesheet != "" {
			opts = append(opts, stylesheet.WithDefault(o.defaultStylesheet))
		}
		resolver, err := stylesheet.New(o.templates, opts...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: stylesheet resolver: %w", err)
			o.defaultsApplied = true
			return
		}
		o.stylesheets = resolver
	}

	if o.converters == nil {
		o.converters = convert.NewRegistry()
	}
	for _, engine := range o.pendingEngines {
		if engine == nil {
			continue
		}
		if o.converters.Has(engine.Name()) {
			continue
		}
		o.converters.MustRegister(engine)
		if o.defaultEngine == "" {
			o.defaultEngine = engine.Name()
		}
	}
	o.pendingEngines = nil

	if len(o.converters.List()) == 0 {
		o.converters.MustRegister(wkhtml.New())
	}
	if o.defaultEngine == "" {
		o.defaultEngine = wkhtml.Name
	}

	o.defaultsApplied = true
}
