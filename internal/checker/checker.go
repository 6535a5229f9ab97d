package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reelcheck/internal/classification"
	"reelcheck/internal/compliance"
	"reelcheck/internal/history"
	"reelcheck/internal/logging"
	"reelcheck/internal/services"
	"reelcheck/internal/textutil"
)

const (
	// SourceProvider marks results classified by the provider.
	SourceProvider     = "provider"
	defaultConcurrency = 4
)

// Provider returns free-text classification output for a video.
type Provider interface {
	GenerateText(ctx context.Context, videoID, prompt string) (string, error)
}

// Recorder persists check results.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Result describes one completed check.
type Result struct {
	ID       string
	VideoID  string
	Source   string
	Outcome  history.Outcome
	Verdict  compliance.Verdict
	Record   classification.Record
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Entry converts the result into a history row.
func (r Result) Entry() history.Entry {
	entry := history.Entry{
		ID:          r.ID,
		VideoID:     r.VideoID,
		Source:      r.Source,
		Outcome:     r.Outcome,
		Verdict:     r.Verdict,
		Annotations: r.Record.Annotations,
		CreatedAt:   r.Started,
	}
	if r.Err != nil {
		entry.ErrorKind = services.Kind(r.Err)
		entry.Error = r.Err.Error()
	}
	return entry
}

// Option configures a Checker.
type Option func(*Checker)

// WithRecorder stores every result through recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Checker) {
		c.recorder = recorder
	}
}

// WithPrompt overrides the classification prompt. Blank values are ignored.
func WithPrompt(prompt string) Option {
	return func(c *Checker) {
		if strings.TrimSpace(prompt) != "" {
			c.prompt = prompt
		}
	}
}

// WithConcurrency bounds the number of checks CheckAll runs at once.
func WithConcurrency(limit int) Option {
	return func(c *Checker) {
		if limit > 0 {
			c.concurrency = limit
		}
	}
}

// WithLogger sets the logger used for check events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides check ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(c *Checker) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(c *Checker) {
		if fn != nil {
			c.now = fn
		}
	}
}

// Checker classifies videos and evaluates them against a jurisdiction table.
type Checker struct {
	provider    Provider
	engine      *compliance.Engine
	recorder    Recorder
	prompt      string
	concurrency int
	logger      *slog.Logger
	newID       func() string
	now         func() time.Time
}

// New constructs a Checker. provider may be nil when only EvaluateText is used.
func New(provider Provider, engine *compliance.Engine, opts ...Option) *Checker {
	if engine == nil {
		engine = compliance.NewEngine(compliance.DefaultTable())
	}
	c := &Checker{
		provider:    provider,
		engine:      engine,
		prompt:      classification.Prompt,
		concurrency: defaultConcurrency,
		logger:      logging.NewNop(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "checker")
	return c
}

// Engine returns the evaluation engine.
func (c *Checker) Engine() *compliance.Engine {
	return c.engine
}

// Check classifies one video and evaluates it. Provider and extraction
// failures yield an undetermined result together with the error.
func (c *Checker) Check(ctx context.Context, videoID string) (Result, error) {
	result := c.begin(strings.TrimSpace(videoID), SourceProvider)
	ctx = services.WithRequestID(services.WithVideoID(ctx, result.VideoID), result.ID)
	logger := logging.WithContext(ctx, c.logger)

	switch {
	case result.VideoID == "":
		result.Err = services.Wrap(services.ErrValidation, "checker", "check", "video id is required", nil)
	case c.provider == nil:
		result.Err = services.Wrap(services.ErrConfiguration, "checker", "check", "no provider configured", nil)
	default:
		logger.Debug("requesting classification")
		raw, err := c.provider.GenerateText(ctx, result.VideoID, c.prompt)
		if err != nil {
			result.Err = fmt.Errorf("classify video %s: %w", result.VideoID, err)
			break
		}
		c.evaluate(&result, raw)
	}
	return c.finish(ctx, logger, result)
}

// EvaluateText runs extraction and evaluation over provider text obtained
// elsewhere, such as a saved response. source labels the origin in history.
func (c *Checker) EvaluateText(ctx context.Context, source, raw string) (Result, error) {
	result := c.begin("", textutil.FirstNonEmpty(source, "text"))
	ctx = services.WithRequestID(ctx, result.ID)
	logger := logging.WithContext(ctx, c.logger)
	c.evaluate(&result, raw)
	return c.finish(ctx, logger, result)
}

// CheckAll checks every video in set, at most the configured number at a
// time. Results are returned in set order; a failing video does not stop the
// others. The returned error is non-nil only when ctx ends the batch early.
func (c *Checker) CheckAll(ctx context.Context, set *VideoSet) ([]Result, error) {
	ids := set.IDs()
	results := make([]Result, len(ids))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency)
	for i, id := range ids {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[i] = c.cancelled(id, err)
				return err
			}
			results[i], _ = c.Check(groupCtx, id)
			return nil
		})
	}
	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}

	summary := Summarize(results)
	c.logger.Info("batch complete",
		logging.Int("videos", len(results)),
		logging.Int("safe", summary.Safe),
		logging.Int("violations", summary.Violations),
		logging.Int("undetermined", summary.Undetermined),
	)
	return results, err
}

func (c *Checker) begin(videoID, source string) Result {
	return Result{
		ID:      c.newID(),
		VideoID: videoID,
		Source:  source,
		Started: c.now(),
	}
}

func (c *Checker) cancelled(videoID string, err error) Result {
	result := c.begin(videoID, SourceProvider)
	result.Outcome = history.OutcomeUndetermined
	result.Err = err
	return result
}

func (c *Checker) evaluate(result *Result, raw string) {
	record, err := classification.Extract(raw)
	if err != nil {
		result.Err = err
		return
	}
	result.Record = record
	result.Verdict = c.engine.Evaluate(record)
}

func (c *Checker) finish(ctx context.Context, logger *slog.Logger, result Result) (Result, error) {
	result.Duration = c.now().Sub(result.Started)
	if result.Err != nil {
		result.Outcome = history.OutcomeUndetermined
		result.Verdict = compliance.Verdict{}
		c.logFailure(logger, result)
	} else {
		result.Outcome = history.OutcomeFor(result.Verdict)
		logger.Info("check complete",
			logging.String("outcome", string(result.Outcome)),
			logging.Int("flagged_jurisdictions", len(result.Verdict.Violations())),
			logging.Duration("duration", result.Duration),
		)
	}

	if c.recorder != nil {
		if err := c.recorder.Record(context.WithoutCancel(ctx), result.Entry()); err != nil {
			logging.WarnWithContext(logger, "history record failed", "history_record_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check data_dir permissions"),
				logging.String(logging.FieldImpact, "check result not kept in history"),
			)
		}
	}
	return result, result.Err
}

func (c *Checker) logFailure(logger *slog.Logger, result Result) {
	kind := services.Kind(result.Err)
	var extraction *classification.ExtractionError
	if errors.As(result.Err, &extraction) {
		logging.WarnWithContext(logger, "classification unusable", "classification_invalid",
			logging.String(logging.FieldErrorKind, kind),
			logging.String("reason", string(extraction.Kind)),
			logging.String("snippet", extraction.Snippet),
			logging.String(logging.FieldErrorHint, "re-run the check or inspect the provider response"),
		)
		return
	}
	logging.WarnWithContext(logger, "check failed", "check_failed",
		logging.Error(result.Err),
		logging.String(logging.FieldErrorKind, kind),
		logging.String(logging.FieldErrorHint, hintFor(kind)),
	)
}

func hintFor(kind string) string {
	switch kind {
	case services.KindConfiguration:
		return "verify provider.api_key with 'reelcheck doctor'"
	case services.KindNotFound:
		return "confirm the video id with 'reelcheck videos'"
	case services.KindValidation:
		return "check the request parameters"
	default:
		return "retry later"
	}
}
