package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cinedex/internal/collection"
	"cinedex/internal/logging"
)

// Store manages collection persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the collection database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlitestore: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers inside the process.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "sqlitestore"),
		now:    time.Now,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FindAll returns every record in insertion order.
func (s *Store) FindAll(ctx context.Context) ([]collection.Record, error) {
	return s.queryRecords(ctx, "SELECT "+recordColumns+" FROM records ORDER BY seq")
}

// FindByID returns the record or nil when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*collection.Record, error) {
	return s.queryOne(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id)
}

// FindByExternalID returns the earliest record carrying imdbID, or nil.
func (s *Store) FindByExternalID(ctx context.Context, imdbID string) (*collection.Record, error) {
	if imdbID == "" {
		return nil, nil
	}
	return s.queryOne(ctx, "SELECT "+recordColumns+" FROM records WHERE imdb_id = ? ORDER BY seq LIMIT 1", imdbID)
}

// Create assigns an id and timestamp and inserts the record.
func (s *Store) Create(ctx context.Context, draft collection.Draft) (collection.Record, error) {
	rec := draft.Record(uuid.NewString(), s.now().UTC())
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	args, err := recordArgs(rec)
	if err != nil {
		return collection.Record{}, err
	}
	if _, err := s.execWithRetry(ctx, insertRecordSQL, args...); err != nil {
		return collection.Record{}, fmt.Errorf("insert record: %w", err)
	}
	s.logger.Debug("record created",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.String("title", rec.Title))
	return rec, nil
}

// Update merges patch into the stored record. Returns nil when absent.
func (s *Store) Update(ctx context.Context, id string, patch collection.Patch) (*collection.Record, error) {
	ctx = ensureContext(ctx)
	var updated *collection.Record
	err := retryOnBusy(ctx, func() error {
		updated = nil
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		existing, err := scanRecord(tx.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		merged := patch.Apply(existing)
		args, err := recordArgs(merged)
		if err != nil {
			return err
		}
		// recordArgs leads with id; UPDATE binds it last.
		args = append(args[1:], merged.ID)
		if _, err := tx.ExecContext(ctx, updateRecordSQL, args...); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return updated, nil
}

// Delete removes the record and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return n > 0, nil
}

// Search filters records in insertion order with case-insensitive substring
// matching. SQLite LIKE only folds ASCII, so matching happens in Go.
func (s *Store) Search(ctx context.Context, query string) ([]collection.Record, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matcher := collection.NewMatcher(query)
	out := make([]collection.Record, 0)
	for _, rec := range all {
		if matcher.Match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
