package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundWrapsSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load job: %w", NotFound("job"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain, got %v", err)
	}
	if err.Error() != "load job: job not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestValidationErrorDetection(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("save: %w", Validation("weights", "must sum to 1.0, got %.2f", 0.9))
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var v *ValidationError
	if !errors.As(err, &v) || v.Field != "weights" {
		t.Fatalf("expected field weights, got %+v", v)
	}
	if IsValidation(ErrNotFound) {
		t.Fatalf("ErrNotFound must not be a validation error")
	}
}

func TestInvalidState(t *testing.T) {
	t.Parallel()

	err := InvalidState("interview is %s", "completed")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
