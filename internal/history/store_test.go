package history_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"reelcheck/internal/classification"
	"reelcheck/internal/compliance"
	"reelcheck/internal/history"
	"reelcheck/internal/testsupport"
)

func violationVerdict() compliance.Verdict {
	return compliance.Verdict{Jurisdictions: []compliance.JurisdictionResult{
		{Name: "USA"},
		{Name: "China", Violations: []classification.Category{classification.Gambling}},
	}}
}

func TestRecordAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := history.Entry{
		ID:          "chk-1",
		VideoID:     "vid-1",
		Source:      "provider",
		Outcome:     history.OutcomeViolations,
		Verdict:     violationVerdict(),
		Annotations: classification.Annotations{"Gambling": {"00:12 card table"}},
		CreatedAt:   created,
	}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	fetched, err := store.Get(ctx, "chk-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected entry")
	}
	if fetched.VideoID != "vid-1" || fetched.Outcome != history.OutcomeViolations {
		t.Fatalf("unexpected entry: %#v", fetched)
	}
	if !fetched.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, fetched.CreatedAt)
	}
	if fetched.Verdict.String() != `{"USA":"Safe","China":["Gambling"]}` {
		t.Fatalf("verdict did not round trip: %s", fetched.Verdict)
	}
	if !reflect.DeepEqual(fetched.Annotations, entry.Annotations) {
		t.Fatalf("annotations did not round trip: %#v", fetched.Annotations)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	entry, err := store.Get(context.Background(), "nope")
	if err != nil || entry != nil {
		t.Fatalf("expected nil, nil; got %#v, %v", entry, err)
	}
}

func TestRecordUndeterminedOmitsVerdict(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	err := store.Record(ctx, history.Entry{
		ID:        "chk-u",
		VideoID:   "vid-2",
		Outcome:   history.OutcomeUndetermined,
		ErrorKind: "validation",
		Error:     "no json object in response",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	fetched, err := store.Get(ctx, "chk-u")
	if err != nil || fetched == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(fetched.Verdict.Jurisdictions) != 0 {
		t.Fatalf("undetermined check should carry no verdict, got %s", fetched.Verdict)
	}
	if fetched.ErrorKind != "validation" || fetched.Error == "" {
		t.Fatalf("expected error details, got %#v", fetched)
	}
	if fetched.CreatedAt.IsZero() {
		t.Fatal("expected created_at default")
	}
}

func TestRecordValidatesEntry(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := store.Record(ctx, history.Entry{Outcome: history.OutcomeSafe}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := store.Record(ctx, history.Entry{ID: "x", Outcome: "maybe"}); err == nil {
		t.Fatal("expected error for invalid outcome")
	}
	if err := store.Record(ctx, history.Entry{ID: "dup", Outcome: history.OutcomeSafe}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, history.Entry{ID: "dup", Outcome: history.OutcomeSafe}); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestListForVideoAndStats(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []history.Entry{
		{ID: "a", VideoID: "v1", Outcome: history.OutcomeSafe, Verdict: compliance.Verdict{}, CreatedAt: base},
		{ID: "b", VideoID: "v2", Outcome: history.OutcomeViolations, Verdict: violationVerdict(), CreatedAt: base.Add(time.Second)},
		{ID: "c", VideoID: "v1", Outcome: history.OutcomeUndetermined, CreatedAt: base.Add(1500 * time.Millisecond)},
		{ID: "d", VideoID: "v1", Outcome: history.OutcomeSafe, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record %s failed: %v", entry.ID, err)
		}
	}

	latest, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "d" || latest[1].ID != "c" {
		t.Fatalf("unexpected list order: %v", ids(latest))
	}
	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected all entries, got %d (%v)", len(all), err)
	}

	forVideo, err := store.ForVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("ForVideo failed: %v", err)
	}
	if got := ids(forVideo); !reflect.DeepEqual(got, []string{"d", "c", "a"}) {
		t.Fatalf("unexpected video history: %v", got)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 4 || stats.Videos != 2 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if stats.ByKind[history.OutcomeSafe] != 2 || stats.ByKind[history.OutcomeViolations] != 1 || stats.ByKind[history.OutcomeUndetermined] != 1 {
		t.Fatalf("unexpected outcome counts: %#v", stats.ByKind)
	}
	if !stats.Latest.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("unexpected latest: %v", stats.Latest)
	}

	removed, err := store.Clear(ctx)
	if err != nil || removed != 4 {
		t.Fatalf("Clear: removed=%d err=%v", removed, err)
	}
	stats, err = store.Stats(ctx)
	if err != nil || stats.Total != 0 || !stats.Latest.IsZero() {
		t.Fatalf("expected empty stats after clear, got %#v (%v)", stats, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	path := store.Path()
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestRecordConcurrentWriters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	primary := testsupport.MustOpenStore(t, cfg)
	// A second handle on the same file stands in for another reelcheck process.
	secondary := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	const (
		writers   = 8
		perWriter = 50
	)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	for w := range writers {
		store := primary
		if w%2 == 1 {
			store = secondary
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				err := store.Record(ctx, history.Entry{
					ID:      fmt.Sprintf("chk-%d-%d", w, i),
					VideoID: fmt.Sprintf("vid-%d", i),
					Outcome: history.OutcomeSafe,
				})
				if err != nil {
					mu.Lock()
					failures = append(failures, err)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("%d of %d concurrent records failed; first: %v", len(failures), writers*perWriter, failures[0])
	}
	stats, err := primary.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != writers*perWriter {
		t.Fatalf("expected %d rows, got %d", writers*perWriter, stats.Total)
	}
}

func TestOutcomeFor(t *testing.T) {
	if history.OutcomeFor(compliance.Verdict{}) != history.OutcomeSafe {
		t.Fatal("empty verdict should be safe")
	}
	if history.OutcomeFor(violationVerdict()) != history.OutcomeViolations {
		t.Fatal("verdict with violations should map to violations")
	}
}

func ids(entries []*history.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.ID)
	}
	return out
}
