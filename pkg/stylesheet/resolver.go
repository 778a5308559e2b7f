// Package stylesheet decides which CSS applies to a template: a
// template-local styles.css override when present, otherwise the system
// default. Resolution always yields exactly one absolute path.
package stylesheet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-docgen/pkg/registry"
)

// Option customises the resolver configuration.
type Option func(*Resolver)

// WithDefault points the resolver at a system default stylesheet on disk.
// Without it the embedded default is materialized to a temporary file on
// first use.
func WithDefault(path string) Option {
	return func(r *Resolver) {
		r.defaultPath = strings.TrimSpace(path)
	}
}

// Resolver maps template names to stylesheet paths.
type Resolver struct {
	templates   *registry.Registry
	defaultPath string

	once            sync.Once
	materializedCSS string
	materializeErr  error
}

// New constructs a Resolver over a template registry.
func New(templates *registry.Registry, options ...Option) (*Resolver, error) {
	if templates == nil {
		return nil, fmt.Errorf("stylesheet: template registry is required")
	}

	r := &Resolver{templates: templates}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Resolve returns the stylesheet paths for a template: the template-local
// override when it exists, otherwise the system default. The slice always
// holds exactly one absolute path.
func (r *Resolver) Resolve(ctx context.Context, template string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := r.templates.Resolve(ctx, template)
	if err != nil {
		return nil, err
	}

	custom := registry.StylesheetPath(dir)
	if info, err := os.Stat(custom); err == nil && info.Mode().IsRegular() {
		return []string{custom}, nil
	}

	fallback, err := r.systemDefault()
	if err != nil {
		return nil, err
	}
	return []string{fallback}, nil
}

func (r *Resolver) systemDefault() (string, error) {
	if r.defaultPath != "" {
		abs, err := filepath.Abs(r.defaultPath)
		if err != nil {
			return "", fmt.Errorf("stylesheet: resolve default stylesheet: %w", err)
		}
		return abs, nil
	}

	r.once.Do(func() {
		file, err := os.CreateTemp("", "docgen-default-*.css")
		if err != nil {
			r.materializeErr = fmt.Errorf("stylesheet: materialize default stylesheet: %w", err)
			return
		}
		defer file.Close()

		if _, err := file.Write(DefaultCSS()); err != nil {
			r.materializeErr = fmt.Errorf("stylesheet: write default stylesheet: %w", err)
			return
		}
		r.materializedCSS = file.Name()
	})

	return r.materializedCSS, r.materializeErr
}
