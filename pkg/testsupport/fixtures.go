// Package testsupport holds fixture and golden-file helpers shared by the
// package test suites.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docgen/pkg/convert"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteTemplate materializes a template directory under root with the given
// units. Empty unit contents are skipped, letting tests build incomplete
// templates.
func WriteTemplate(t *testing.T, root, name, markup, schemaJSON string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir template dir: %v", err)
	}
	if markup != "" {
		if err := os.WriteFile(filepath.Join(dir, "template.html"), []byte(markup), 0o644); err != nil {
			t.Fatalf("write markup unit: %v", err)
		}
	}
	if schemaJSON != "" {
		if err := os.WriteFile(filepath.Join(dir, "schema.json"), []byte(schemaJSON), 0o644); err != nil {
			t.Fatalf("write validation unit: %v", err)
		}
	}
	return dir
}

// WriteStylesheet adds a styles.css override to a template directory.
func WriteStylesheet(t *testing.T, templateDir, css string) string {
	t.Helper()

	path := filepath.Join(templateDir, "styles.css")
	if err := os.WriteFile(path, []byte(css), 0o644); err != nil {
		t.Fatalf("write stylesheet override: %v", err)
	}
	return path
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// StubEngine is a deterministic conversion engine for tests: it returns the
// composed HTML bytes instead of invoking a real PDF backend.
type StubEngine struct {
	// Err, when set, is returned by every Convert call.
	Err error
}

// Name implements convert.Engine.
func (e *StubEngine) Name() string {
	return "stub"
}

// Convert implements convert.Engine.
func (e *StubEngine) Convert(_ context.Context, doc convert.Document) ([]byte, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return []byte(convert.Compose(doc)), nil
}
