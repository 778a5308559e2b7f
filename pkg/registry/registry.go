// Package registry discovers installed document templates on disk.
//
// A template is a directory under the configured root holding a markup unit
// (template.html) and a validation unit (schema.json); an optional styles.css
// overrides the system stylesheet. The registry never caches existence:
// every call re-checks the filesystem, so templates can be added or removed
// between requests without a restart.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-docgen/pkg/docerr"
)

// Unit file names forming the on-disk template contract.
const (
	MarkupUnit         = "template.html"
	ValidationUnit     = "schema.json"
	StylesheetOverride = "styles.css"
)

// Registry enumerates and resolves template directories under a root.
type Registry struct {
	root string
}

// New constructs a Registry rooted at dir. The path is made absolute so
// downstream consumers (the conversion engine in particular) receive stable
// base paths.
func New(dir string) (*Registry, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("registry: template root is required")
	}

	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("registry: resolve template root: %w", err)
	}

	return &Registry{root: abs}, nil
}

// Root returns the absolute template root directory.
func (r *Registry) Root() string {
	return r.root
}

// List returns the names of every functional template, in lexicographic
// order. A directory counts only when both the markup unit and the
// validation unit exist; incomplete directories are skipped silently.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("registry: read template root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.root, entry.Name())
		if !fileExists(filepath.Join(dir, ValidationUnit)) {
			continue
		}
		if !fileExists(filepath.Join(dir, MarkupUnit)) {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// Resolve returns the absolute directory for a template name. Only directory
// existence is checked: a directory can resolve here and still fail later
// when a required unit is missing. The weaker check keeps "unknown template"
// distinguishable from "broken template" for callers.
func (r *Registry) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	dir := filepath.Join(r.root, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", docerr.NotFoundf("registry: template %q", name)
	}
	return dir, nil
}

// MarkupPath returns the markup unit path for a resolved template directory.
func MarkupPath(templateDir string) string {
	return filepath.Join(templateDir, MarkupUnit)
}

// ValidationPath returns the validation unit path for a resolved template
// directory.
func ValidationPath(templateDir string) string {
	return filepath.Join(templateDir, ValidationUnit)
}

// StylesheetPath returns the stylesheet override path for a resolved
// template directory.
func StylesheetPath(templateDir string) string {
	return filepath.Join(templateDir, StylesheetOverride)
}

// validateName rejects names that could escape the template root. Template
// names are single path segments by contract.
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return docerr.NotFoundf("registry: template name is empty")
	}
	if trimmed != name {
		return docerr.NotFoundf("registry: template %q", name)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return docerr.NotFoundf("registry: template %q", name)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
