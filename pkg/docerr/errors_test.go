package docerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docgen/pkg/docerr"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	notFound := fmt.Errorf("outer: %w", docerr.NotFoundf("template %q", "invoice"))
	if !docerr.IsNotFound(notFound) {
		t.Fatalf("expected NotFound kind, got %v", notFound)
	}
	if docerr.IsLoad(notFound) || docerr.IsConversion(notFound) {
		t.Fatalf("NotFound error matched an unrelated kind: %v", notFound)
	}

	load := fmt.Errorf("outer: %w", docerr.Loadf("parse validator"))
	if !docerr.IsLoad(load) {
		t.Fatalf("expected LoadError kind, got %v", load)
	}

	conversion := fmt.Errorf("outer: %w", docerr.Conversionf("engine exited"))
	if !docerr.IsConversion(conversion) {
		t.Fatalf("expected ConversionError kind, got %v", conversion)
	}
}

func TestValidationErrorAggregatesViolations(t *testing.T) {
	err := docerr.NewValidationError("invoice",
		docerr.Violation{Field: "(root)", Message: "event_name is required"},
		docerr.Violation{Field: "sessions.0.time", Message: "Invalid type"},
	)

	verr, ok := docerr.IsValidation(fmt.Errorf("outer: %w", err))
	if !ok {
		t.Fatal("expected ValidationError kind")
	}

	want := []string{
		"event_name is required",
		"sessions.0.time: Invalid type",
	}
	if diff := cmp.Diff(want, verr.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	wantText := `validation failed for "invoice": event_name is required; sessions.0.time: Invalid type`
	if got := verr.Error(); got != wantText {
		t.Fatalf("error text mismatch:\nwant %q\ngot  %q", wantText, got)
	}
}

func TestValidationErrorIsNotAnotherKind(t *testing.T) {
	err := docerr.NewValidationError("invoice", docerr.Violation{Message: "bad"})
	if docerr.IsNotFound(err) || docerr.IsLoad(err) || docerr.IsConversion(err) {
		t.Fatalf("validation error matched an unrelated kind: %v", err)
	}
	if _, ok := docerr.IsValidation(errors.New("plain")); ok {
		t.Fatal("plain error reported as validation failure")
	}
}
