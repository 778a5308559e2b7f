package stylesheet_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/registry"
	"github.com/goliatone/go-docgen/pkg/stylesheet"
	"github.com/goliatone/go-docgen/pkg/testsupport"
)

const minimalSchema = `{"type": "object"}`

func newResolver(t *testing.T, root string, options ...stylesheet.Option) *stylesheet.Resolver {
	t.Helper()

	templates, err := registry.New(root)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	resolver, err := stylesheet.New(templates, options...)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func TestResolveTemplateOverrideWins(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteTemplate(t, root, "event", "<html></html>", minimalSchema)
	override := testsupport.WriteStylesheet(t, dir, "body { color: red; }")

	resolver := newResolver(t, root)
	paths, err := resolver.Resolve(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(paths) != 1 || paths[0] != override {
		t.Fatalf("expected [%q], got %v", override, paths)
	}
}

func TestResolveFallsBackToEmbeddedDefault(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "event", "<html></html>", minimalSchema)

	resolver := newResolver(t, root)
	paths, err := resolver.Resolve(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected exactly one stylesheet, got %v", paths)
	}
	if !filepath.IsAbs(paths[0]) {
		t.Fatalf("default stylesheet path is not absolute: %q", paths[0])
	}

	materialized, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read materialized default: %v", err)
	}
	if string(materialized) != string(stylesheet.DefaultCSS()) {
		t.Fatal("materialized default diverges from the embedded stylesheet")
	}

	// The temporary file is reused across calls.
	again, err := resolver.Resolve(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again[0] != paths[0] {
		t.Fatalf("default stylesheet re-materialized: %q vs %q", again[0], paths[0])
	}
}

func TestResolveConfiguredDefault(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "event", "<html></html>", minimalSchema)

	custom := filepath.Join(t.TempDir(), "corporate.css")
	if err := os.WriteFile(custom, []byte("body { margin: 0; }"), 0o644); err != nil {
		t.Fatalf("write custom default: %v", err)
	}

	resolver := newResolver(t, root, stylesheet.WithDefault(custom))
	paths, err := resolver.Resolve(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(paths) != 1 || paths[0] != custom {
		t.Fatalf("expected [%q], got %v", custom, paths)
	}
}

func TestResolveUnknownTemplateIsNotFound(t *testing.T) {
	resolver := newResolver(t, t.TempDir())

	_, err := resolver.Resolve(testsupport.Context(), "missing")
	if !docerr.IsNotFound(err) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestDefaultCSSReturnsPrintableStylesheet(t *testing.T) {
	css := string(stylesheet.DefaultCSS())
	if !strings.Contains(css, "@page") {
		t.Fatalf("embedded default lacks print setup:\n%s", css)
	}

	// Mutating the returned copy must not corrupt the embedded asset.
	first := stylesheet.DefaultCSS()
	first[0] = 'X'
	if string(stylesheet.DefaultCSS()) != css {
		t.Fatal("DefaultCSS returned a shared slice")
	}
}
