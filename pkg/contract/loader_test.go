package contract_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docgen/pkg/contract"
	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/payload"
	"github.com/goliatone/go-docgen/pkg/registry"
	"github.com/goliatone/go-docgen/pkg/schema"
	"github.com/goliatone/go-docgen/pkg/testsupport"
)

const eventSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["event_name", "event_date"],
	"properties": {
		"event_name": {"type": "string", "minLength": 1},
		"event_date": {"type": "string"},
		"attendees":  {"type": "integer"}
	}
}`

func newLoader(t *testing.T, root string, options ...contract.Option) *contract.Loader {
	t.Helper()

	templates, err := registry.New(root)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	loader, err := contract.NewLoader(templates, options...)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	return loader
}

func TestLoadValidatesAgainstSchemaUnit(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "event", "<html></html>", eventSchema)
	loader := newLoader(t, root)

	c, err := loader.Load(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	good, err := payload.Decode([]byte(`{"event_name": "GopherCon", "event_date": "2026-09-01", "attendees": 500}`))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if err := c.Validate(testsupport.Context(), good); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "event", "<html></html>", eventSchema)
	loader := newLoader(t, root)

	c, err := loader.Load(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	err = c.Validate(testsupport.Context(), payload.Map{"attendees": "lots"})
	verr, ok := docerr.IsValidation(err)
	if !ok {
		t.Fatalf("expected validation failure, got %v", err)
	}

	// Both missing required fields plus the type violation must surface in
	// one pass.
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(verr.Violations), verr.Messages())
	}

	fields := make([]string, 0, len(verr.Violations))
	for _, violation := range verr.Violations {
		fields = append(fields, violation.Field)
	}
	sort.Strings(fields)
	if diff := cmp.Diff([]string{"(root)", "(root)", "attendees"}, fields); diff != "" {
		t.Fatalf("violation fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingTemplateIsNotFound(t *testing.T) {
	loader := newLoader(t, t.TempDir())

	_, err := loader.Load(testsupport.Context(), "missing")
	if !docerr.IsNotFound(err) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestLoadMissingValidationUnitIsNotFound(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "markup_only", "<html></html>", "")
	loader := newLoader(t, root)

	_, err := loader.Load(testsupport.Context(), "markup_only")
	if !docerr.IsNotFound(err) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestLoadBrokenValidationUnitIsLoadError(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "broken", "<html></html>", `{"type": "object", "prop`)
	loader := newLoader(t, root)

	_, err := loader.Load(testsupport.Context(), "broken")
	if !docerr.IsLoad(err) {
		t.Fatalf("expected LoadError kind, got %v", err)
	}
}

func TestLoadReloadsUnitPerCall(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteTemplate(t, root, "event", "<html></html>", eventSchema)
	loader := newLoader(t, root)

	if _, err := loader.Load(testsupport.Context(), "event"); err != nil {
		t.Fatalf("first load: %v", err)
	}

	// Relax the unit on disk; without a cache the next load must see it.
	relaxed := `{"type": "object"}`
	if err := os.WriteFile(filepath.Join(dir, registry.ValidationUnit), []byte(relaxed), 0o644); err != nil {
		t.Fatalf("rewrite validation unit: %v", err)
	}

	c, err := loader.Load(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if err := c.Validate(testsupport.Context(), payload.Map{}); err != nil {
		t.Fatalf("relaxed unit still enforcing old constraints: %v", err)
	}
}

func TestLoadWithCachePinsFirstVersion(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteTemplate(t, root, "event", "<html></html>", eventSchema)
	cache := contract.NewCache()
	loader := newLoader(t, root, contract.WithCache(cache))

	if _, err := loader.Load(testsupport.Context(), "event"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 cached contract, got %d", cache.Len())
	}

	if err := os.WriteFile(filepath.Join(dir, registry.ValidationUnit), []byte(`{"type": "object"}`), 0o644); err != nil {
		t.Fatalf("rewrite validation unit: %v", err)
	}

	c, err := loader.Load(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	err = c.Validate(testsupport.Context(), payload.Map{})
	if _, ok := docerr.IsValidation(err); !ok {
		t.Fatalf("cached contract should still enforce the original unit, got %v", err)
	}
}

func TestNativeContractShadowsDiskUnit(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "event", "<html></html>", eventSchema)

	native := contract.NewRegistry()
	native.MustRegister("event", contract.Func{
		Doc: schema.MustNewDocument([]byte(`{"type": "object"}`)),
		ValidateF: func(context.Context, payload.Map) error {
			return nil
		},
	})
	loader := newLoader(t, root, contract.WithNativeContracts(native))

	c, err := loader.Load(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Validate(testsupport.Context(), payload.Map{}); err != nil {
		t.Fatalf("native contract not consulted, got %v", err)
	}
}

func TestModuleKeyNamespacesTemplates(t *testing.T) {
	if got := contract.ModuleKey("event"); got != "event.validator" {
		t.Fatalf("module key mismatch: %q", got)
	}
	if contract.ModuleKey("a") == contract.ModuleKey("b") {
		t.Fatal("distinct templates share a module key")
	}
}

func TestSynthesizedExamplePassesValidation(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "event", "<html></html>", `{
		"type": "object",
		"required": ["event_name", "speakers"],
		"properties": {
			"event_name": {"type": "string", "minLength": 1},
			"attendees":  {"type": "integer"},
			"speakers": {
				"type": "array",
				"minItems": 1,
				"items": {"$ref": "#/definitions/Speaker"}
			}
		},
		"definitions": {
			"Speaker": {
				"type": "object",
				"required": ["name"],
				"properties": {"name": {"type": "string", "minLength": 1}}
			}
		}
	}`)
	loader := newLoader(t, root)

	c, err := loader.Load(testsupport.Context(), "event")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	doc, err := c.Schema(testsupport.Context())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	example := schema.Synthesize(doc)
	if err := c.Validate(testsupport.Context(), payload.Map(example.Payload)); err != nil {
		t.Fatalf("synthesized example rejected by its own contract: %v", err)
	}
}
