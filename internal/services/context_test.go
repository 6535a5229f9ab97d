package services_test

import (
	"context"
	"testing"

	"reelcheck/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideoID(ctx, "vid-42")
	ctx = services.WithJurisdiction(ctx, "India")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.VideoIDFromContext(ctx); !ok || id != "vid-42" {
		t.Fatalf("unexpected video id: %v %v", id, ok)
	}
	if name, ok := services.JurisdictionFromContext(ctx); !ok || name != "India" {
		t.Fatalf("unexpected jurisdiction: %v %v", name, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideoID(ctx, "")
	ctx = services.WithJurisdiction(ctx, "")
	if _, ok := services.VideoIDFromContext(ctx); ok {
		t.Fatal("expected no video id value")
	}
	if _, ok := services.JurisdictionFromContext(ctx); ok {
		t.Fatal("expected no jurisdiction value")
	}
}
