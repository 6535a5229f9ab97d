package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"reelcheck/internal/services"
)

type kindedErr struct{ kind string }

func (e kindedErr) Error() string     { return "kinded" }
func (e kindedErr) ErrorKind() string { return e.kind }

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "classification", "extract", "no json object", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"classification", "extract", "no json object"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation marker", services.Wrap(services.ErrValidation, "x", "y", "z", nil), services.KindValidation},
		{"configuration marker", services.Wrap(services.ErrConfiguration, "x", "y", "z", nil), services.KindConfiguration},
		{"not found marker", services.Wrap(services.ErrNotFound, "x", "y", "z", nil), services.KindNotFound},
		{"self classifying", fmt.Errorf("outer: %w", kindedErr{kind: "configuration"}), services.KindConfiguration},
		{"plain", errors.New("io"), services.KindTransient},
		{"marker wins", services.Wrap(services.ErrValidation, "x", "y", "z", kindedErr{kind: "transient"}), services.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Kind(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if services.Retryable(services.Wrap(services.ErrValidation, "a", "b", "c", nil)) {
		t.Fatal("validation errors are not retryable")
	}
	if !services.Retryable(context.DeadlineExceeded) {
		t.Fatal("unclassified errors are treated as transient")
	}
}
