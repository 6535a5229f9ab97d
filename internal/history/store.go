package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelcheck/internal/classification"
	"reelcheck/internal/compliance"
	"reelcheck/internal/config"
)

const entryColumns = "id, video_id, source, outcome, verdict_json, annotations_json, error_kind, error_message, created_at"

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages check history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the history database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Concurrent recorders share one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// dataSourceName attaches the pragmas to the DSN so every pooled connection
// gets them, not only the first.
func dataSourceName(dbPath string) string {
	pragmas := []string{
		"journal_mode(WAL)",
		"busy_timeout(5000)",
	}
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(dbPath)
	for i, pragma := range pragmas {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString("_pragma=")
		b.WriteString(pragma)
	}
	return b.String()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a check entry. The entry must carry an ID and an outcome;
// CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("record check: entry id is required")
	}
	if _, ok := ParseOutcome(string(entry.Outcome)); !ok {
		return fmt.Errorf("record check: invalid outcome %q", entry.Outcome)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var verdictJSON any
	if entry.Outcome != OutcomeUndetermined {
		data, err := json.Marshal(entry.Verdict)
		if err != nil {
			return fmt.Errorf("marshal verdict: %w", err)
		}
		verdictJSON = string(data)
	}
	var annotationsJSON any
	if len(entry.Annotations) > 0 {
		data, err := json.Marshal(entry.Annotations)
		if err != nil {
			return fmt.Errorf("marshal annotations: %w", err)
		}
		annotationsJSON = string(data)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO checks (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullableString(entry.VideoID),
		nullableString(entry.Source),
		string(entry.Outcome),
		verdictJSON,
		annotationsJSON,
		nullableString(entry.ErrorKind),
		nullableString(entry.Error),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

// Get fetches a check by ID. It returns nil when no such check exists.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM checks WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get check: %w", err)
	}
	return entry, nil
}

// List returns the most recent checks, newest first. A non-positive limit
// returns every check.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM checks ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, "list checks", query, args...)
}

// ForVideo returns every check recorded for a video, newest first.
func (s *Store) ForVideo(ctx context.Context, videoID string) ([]*Entry, error) {
	return s.query(ctx, "list checks for video",
		`SELECT `+entryColumns+` FROM checks WHERE video_id = ? ORDER BY created_at DESC, rowid DESC`,
		videoID,
	)
}

// Stats summarizes recorded checks by outcome.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByKind: make(map[Outcome]int)}
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM checks GROUP BY outcome`)
	if err != nil {
		return stats, fmt.Errorf("check stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return stats, fmt.Errorf("scan stats: %w", err)
		}
		stats.ByKind[Outcome(outcome)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate stats: %w", err)
	}

	var latest sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT video_id), MAX(created_at) FROM checks`,
	).Scan(&stats.Videos, &latest)
	if err != nil {
		return stats, fmt.Errorf("check stats: %w", err)
	}
	stats.Latest = parseTime(latest)
	return stats, nil
}

// Clear removes every recorded check and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM checks`)
	if err != nil {
		return 0, fmt.Errorf("clear checks: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, op, query string, args ...any) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id          string
		videoID     sql.NullString
		source      sql.NullString
		outcome     string
		verdict     sql.NullString
		annotations sql.NullString
		errorKind   sql.NullString
		errorMsg    sql.NullString
		createdRaw  sql.NullString
	)
	if err := scanner.Scan(&id, &videoID, &source, &outcome, &verdict, &annotations, &errorKind, &errorMsg, &createdRaw); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        id,
		VideoID:   videoID.String,
		Source:    source.String,
		Outcome:   Outcome(outcome),
		ErrorKind: errorKind.String,
		Error:     errorMsg.String,
		CreatedAt: parseTime(createdRaw),
	}
	if verdict.Valid && verdict.String != "" {
		var v compliance.Verdict
		if err := json.Unmarshal([]byte(verdict.String), &v); err != nil {
			return nil, fmt.Errorf("decode verdict for %s: %w", id, err)
		}
		entry.Verdict = v
	}
	if annotations.Valid && annotations.String != "" {
		var a classification.Annotations
		if err := json.Unmarshal([]byte(annotations.String), &a); err != nil {
			return nil, fmt.Errorf("decode annotations for %s: %w", id, err)
		}
		entry.Annotations = a
	}
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTime(raw sql.NullString) time.Time {
	if !raw.Valid || raw.String == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw.String)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
