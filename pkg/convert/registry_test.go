package convert_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docgen/pkg/convert"
)

type namedEngine string

func (e namedEngine) Name() string { return string(e) }

func (e namedEngine) Convert(context.Context, convert.Document) ([]byte, error) {
	return []byte(e), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := convert.NewRegistry()
	reg.MustRegister(namedEngine("wkhtmltopdf"))
	reg.MustRegister(namedEngine("chromium"))

	engine, err := reg.Get("chromium")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if engine.Name() != "chromium" {
		t.Fatalf("wrong engine: %q", engine.Name())
	}

	if diff := cmp.Diff([]string{"chromium", "wkhtmltopdf"}, reg.List()); diff != "" {
		t.Fatalf("engine list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("wkhtmltopdf") || reg.Has("ghost") {
		t.Fatal("Has reports wrong membership")
	}
}

func TestRegistryRejectsDuplicatesAndNil(t *testing.T) {
	reg := convert.NewRegistry()
	reg.MustRegister(namedEngine("wkhtmltopdf"))

	if err := reg.Register(namedEngine("wkhtmltopdf")); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("nil engine accepted")
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatal("unknown engine lookup succeeded")
	}
}
