package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelcheck/internal/compliance"
	"reelcheck/internal/config"
)

const userAgent = "reelcheck/0.1.0"

// Service defines the notification surface exposed to the CLI.
type Service interface {
	NotifyViolations(ctx context.Context, videoID string, verdict compliance.Verdict) error
	NotifyBatchCompleted(ctx context.Context, stats BatchStats) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// BatchStats summarizes a finished batch check.
type BatchStats struct {
	Checked      int
	Violations   int
	Undetermined int
	Duration     time.Duration
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyViolations(ctx context.Context, videoID string, verdict compliance.Verdict) error {
	flagged := verdict.Violations()
	if len(flagged) == 0 {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Video %s flagged in %d of %d jurisdictions", strings.TrimSpace(videoID), len(flagged), len(verdict.Jurisdictions))
	for _, jurisdiction := range flagged {
		names := make([]string, 0, len(jurisdiction.Violations))
		for _, category := range jurisdiction.Violations {
			names = append(names, category.String())
		}
		fmt.Fprintf(&builder, "\n%s: %s", jurisdiction.Name, strings.Join(names, ", "))
	}
	data := payload{
		title:    "reelcheck - Violations",
		message:  builder.String(),
		tags:     []string{"reelcheck", "violations", "warning"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, stats BatchStats) error {
	duration := stats.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	title := "reelcheck - Batch Complete"
	message := fmt.Sprintf("Checked %d videos in %s: %d flagged", stats.Checked, duration, stats.Violations)
	if stats.Undetermined > 0 {
		title = "reelcheck - Batch Complete (with errors)"
		message += fmt.Sprintf(", %d undetermined", stats.Undetermined)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"reelcheck", "batch", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "reelcheck - Error",
		message:  builder.String(),
		tags:     []string{"reelcheck", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "reelcheck - Test",
		message:  "Notification system test",
		tags:     []string{"reelcheck", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyViolations(context.Context, string, compliance.Verdict) error { return nil }
func (noopService) NotifyBatchCompleted(context.Context, BatchStats) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error { return nil }
