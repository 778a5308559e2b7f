// Package contract defines the per-template validation contract: a schema
// describing the payload shape plus an executable predicate that accepts a
// payload or reports every violated constraint at once.
//
// Contracts load from the template's on-disk validation unit (schema.json)
// by default. Build-time Go implementations can be registered through a
// Registry and take precedence, preserving the plugin seam without dynamic
// code loading.
package contract

import (
	"context"

	"github.com/goliatone/go-docgen/pkg/payload"
	"github.com/goliatone/go-docgen/pkg/schema"
)

// Contract pairs a template's schema with its validation predicate. The
// predicate is the authoritative check; the schema is a structural shadow
// used for documentation and example synthesis.
//
// Implementations must be side-effect-free and safe for concurrent use:
// loads of the same template may race to populate the module cache.
type Contract interface {
	// Validate accepts the payload silently or returns a
	// *docerr.ValidationError carrying every violated constraint.
	Validate(ctx context.Context, data payload.Map) error

	// Schema returns the schema document describing accepted payloads.
	Schema(ctx context.Context) (schema.Document, error)
}

// ModuleKey namespaces a template's validation unit so two templates never
// collide in the module cache, even with identically named internal symbols.
func ModuleKey(template string) string {
	return template + ".validator"
}

// Func adapts a plain function and a schema document into a Contract. Handy
// for build-time plugins and tests.
type Func struct {
	Doc       schema.Document
	ValidateF func(ctx context.Context, data payload.Map) error
}

// Validate delegates to the wrapped function. A nil function accepts
// everything.
func (f Func) Validate(ctx context.Context, data payload.Map) error {
	if f.ValidateF == nil {
		return nil
	}
	return f.ValidateF(ctx, data)
}

// Schema returns the wrapped schema document.
func (f Func) Schema(context.Context) (schema.Document, error) {
	return f.Doc, nil
}
