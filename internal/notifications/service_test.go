package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"reelcheck/internal/classification"
	"reelcheck/internal/compliance"
	"reelcheck/internal/config"
	"reelcheck/internal/notifications"
)

type captured struct {
	title    string
	body     string
	tags     string
	priority string
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, func() []captured) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			body:     string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), requests...)
	}
}

func serviceFor(url string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).NotifyError(context.Background(), errors.New("x"), ""); err != nil {
		t.Fatalf("nil config should yield noop, got %v", err)
	}
}

func TestNotifyViolations(t *testing.T) {
	srv, requests := newCaptureServer(t, http.StatusOK)
	svc := serviceFor(srv.URL)

	verdict := compliance.Verdict{Jurisdictions: []compliance.JurisdictionResult{
		{Name: "USA"},
		{Name: "China", Violations: []classification.Category{classification.Gambling, classification.Violence}},
	}}
	if err := svc.NotifyViolations(context.Background(), "vid-7", verdict); err != nil {
		t.Fatalf("NotifyViolations: %v", err)
	}
	if len(requests()) != 1 {
		t.Fatalf("expected one request, got %d", len(requests()))
	}
	got := requests()[0]
	if got.title != "reelcheck - Violations" || got.priority != "high" {
		t.Fatalf("unexpected headers: %+v", got)
	}
	if !strings.Contains(got.body, "vid-7 flagged in 1 of 2") || !strings.Contains(got.body, "China: Gambling, Violence") {
		t.Fatalf("unexpected body %q", got.body)
	}

	if err := svc.NotifyViolations(context.Background(), "vid-8", compliance.Verdict{}); err != nil {
		t.Fatalf("safe verdict: %v", err)
	}
	if len(requests()) != 1 {
		t.Fatal("safe verdicts must not notify")
	}
}

func TestNotifyBatchCompleted(t *testing.T) {
	srv, requests := newCaptureServer(t, http.StatusOK)
	svc := serviceFor(srv.URL)

	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchStats{Checked: 5, Violations: 2, Duration: 90 * time.Second}); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchStats{Checked: 5, Undetermined: 1}); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	sent := requests()
	if len(sent) != 2 {
		t.Fatalf("expected two requests, got %d", len(sent))
	}
	first, second := sent[0], sent[1]
	if first.body != "Checked 5 videos in 1m30s: 2 flagged" || first.tags != "reelcheck,batch,completed" {
		t.Fatalf("unexpected first notification: %+v", first)
	}
	if !strings.Contains(second.title, "with errors") || !strings.Contains(second.body, "1 undetermined") {
		t.Fatalf("unexpected second notification: %+v", second)
	}
}

func TestSendReportsHTTPErrors(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusForbidden)
	err := serviceFor(srv.URL).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestNotifyError(t *testing.T) {
	srv, requests := newCaptureServer(t, http.StatusOK)
	if err := serviceFor(srv.URL).NotifyError(context.Background(), errors.New("quota exceeded"), "batch check"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if got := requests()[0].body; got != "Error during batch check: quota exceeded" {
		t.Fatalf("unexpected body %q", got)
	}
}
