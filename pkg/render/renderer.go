// Package render binds a validated payload to a template's markup unit,
// producing the HTML handed to the conversion engine.
package render

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/payload"
	"github.com/goliatone/go-docgen/pkg/registry"
)

// Rendered is the output of the render pipeline: expanded markup plus the
// base URL the conversion engine uses to resolve relative asset references.
// BaseURL is always an absolute file locator with a trailing slash.
type Rendered struct {
	HTML    string
	BaseURL string
}

// Option customises the renderer configuration.
type Option func(*Renderer)

// WithFilter registers a template filter available to every markup unit.
func WithFilter(name string, fn func(input any, param any) (any, error)) Option {
	return func(r *Renderer) {
		r.filters[name] = fn
	}
}

// WithGlobals seeds context values available to every markup unit alongside
// the payload bindings.
func WithGlobals(data map[string]any) Option {
	return func(r *Renderer) {
		for key, value := range data {
			r.globals[key] = value
		}
	}
}

// Renderer expands template markup with payload bindings using a pongo2
// template set rooted at the registry's template directory. Markup is parsed
// per call rather than cached, so template edits are live without a restart.
// String bindings are auto-escaped by the engine.
type Renderer struct {
	templates *registry.Registry
	set       *pongo2.TemplateSet
	filters   map[string]func(input any, param any) (any, error)
	globals   map[string]any
}

var filterMu sync.Mutex

// New constructs a Renderer over a template registry.
func New(templates *registry.Registry, options ...Option) (*Renderer, error) {
	if templates == nil {
		return nil, fmt.Errorf("render: template registry is required")
	}

	loader, err := pongo2.NewLocalFileSystemLoader(templates.Root())
	if err != nil {
		return nil, fmt.Errorf("render: create template loader: %w", err)
	}

	r := &Renderer{
		templates: templates,
		set:       pongo2.NewSet("docgen", loader),
		filters:   make(map[string]func(input any, param any) (any, error)),
		globals:   make(map[string]any),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if err := r.registerFilters(); err != nil {
		return nil, err
	}
	if len(r.globals) > 0 {
		r.set.Globals = pongo2.Context(r.globals)
	}

	return r, nil
}

// Render expands a template's markup unit with the payload fields bound as
// top-level variables. The payload passes through unmodified; bindings the
// markup references but the payload omits are the template engine's concern.
func (r *Renderer) Render(ctx context.Context, template string, data payload.Map) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}

	dir, err := r.templates.Resolve(ctx, template)
	if err != nil {
		return Rendered{}, err
	}
	if _, err := os.Stat(registry.MarkupPath(dir)); err != nil {
		return Rendered{}, docerr.NotFoundf("render: markup unit not found for template %q", template)
	}

	// FromFile re-parses the markup on every call. FromCache would be
	// cheaper but would pin the first version seen until restart.
	tmpl, err := r.set.FromFile(path.Join(template, registry.MarkupUnit))
	if err != nil {
		return Rendered{}, docerr.Conversionf("render: parse markup for template %q: %v", template, err)
	}

	bindings := pongo2.Context(payload.Normalize(data))
	html, err := tmpl.Execute(bindings)
	if err != nil {
		return Rendered{}, docerr.Conversionf("render: execute markup for template %q: %v", template, err)
	}

	return Rendered{HTML: html, BaseURL: BaseURL(dir)}, nil
}

// BaseURL converts an absolute template directory into the slash-terminated
// file locator the conversion engine expects.
func BaseURL(templateDir string) string {
	cleaned := strings.TrimRight(templateDir, "/")
	return "file://" + cleaned + "/"
}

func (r *Renderer) registerFilters() error {
	filterMu.Lock()
	defer filterMu.Unlock()

	for name, fn := range r.filters {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			continue
		}
		if pongo2.FilterExists(name) {
			continue
		}
		wrapped := wrapFilter(fn)
		if err := pongo2.RegisterFilter(name, wrapped); err != nil {
			return fmt.Errorf("render: register filter %q: %w", name, err)
		}
	}
	return nil
}

func wrapFilter(fn func(input any, param any) (any, error)) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
}
