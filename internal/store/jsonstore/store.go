package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cinedex/internal/collection"
	"cinedex/internal/logging"
)

// ErrLocked indicates another process already holds the collection file.
var ErrLocked = errors.New("collection file is locked by another process")

// Store provides thread-safe access to a JSON-file backed collection.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
	now    func() time.Time

	mu      sync.RWMutex
	order   []string
	records map[string]collection.Record
}

// Open loads the collection at path, creating parent directories as needed,
// and takes the single-writer lock.
func Open(path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("jsonstore: path required")
	}
	logger = logging.NewComponentLogger(logger, "jsonstore")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	s := &Store{
		path:    path,
		logger:  logger,
		lock:    lock,
		now:     time.Now,
		records: make(map[string]collection.Record),
	}

	if err := s.load(); err != nil {
		corruptPath := path + ".corrupt"
		if renameErr := os.Rename(path, corruptPath); renameErr != nil {
			corruptPath = ""
		}
		logging.WarnWithContext(logger, "failed to load collection file", "store_load_failed",
			logging.Error(err),
			logging.String("path", path),
			logging.String("preserved_as", corruptPath),
			logging.String(logging.FieldErrorHint, "inspect or restore the preserved file"),
			logging.String(logging.FieldImpact, "collection starts empty"),
		)
		s.order = nil
		s.records = make(map[string]collection.Record)
	}

	return s, nil
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the single-writer lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// FindAll returns every record in insertion order.
func (s *Store) FindAll(ctx context.Context) ([]collection.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]collection.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out, nil
}

// FindByID returns the record or nil when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*collection.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	clone := rec.Clone()
	return &clone, nil
}

// FindByExternalID returns the first record carrying imdbID, or nil.
func (s *Store) FindByExternalID(ctx context.Context, imdbID string) (*collection.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if imdbID == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if rec := s.records[id]; rec.IMDBID == imdbID {
			clone := rec.Clone()
			return &clone, nil
		}
	}
	return nil, nil
}

// Create assigns an id and timestamp, appends the record, and persists.
func (s *Store) Create(ctx context.Context, draft collection.Draft) (collection.Record, error) {
	if err := ctx.Err(); err != nil {
		return collection.Record{}, err
	}
	rec := draft.Record(uuid.NewString(), s.now().UTC())
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	if err := s.save(); err != nil {
		delete(s.records, rec.ID)
		s.order = s.order[:len(s.order)-1]
		return collection.Record{}, fmt.Errorf("persist collection: %w", err)
	}

	s.logger.Debug("record created",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.String("title", rec.Title))
	return rec.Clone(), nil
}

// Update merges patch into the record and persists. Returns nil when absent.
func (s *Store) Update(ctx context.Context, id string, patch collection.Patch) (*collection.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	updated := patch.Apply(existing)
	s.records[id] = updated
	if err := s.save(); err != nil {
		s.records[id] = existing
		return nil, fmt.Errorf("persist collection: %w", err)
	}
	clone := updated.Clone()
	return &clone, nil
}

// Delete removes the record and persists. The file is only rewritten when a
// record was actually removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[id]
	if !ok {
		return false, nil
	}
	prevOrder := append([]string(nil), s.order...)
	delete(s.records, id)
	s.order = removeID(s.order, id)
	if err := s.save(); err != nil {
		s.records[id] = existing
		s.order = prevOrder
		return false, fmt.Errorf("persist collection: %w", err)
	}
	return true, nil
}

// Search returns records whose title, director, genres, or tags contain
// query, ignoring case.
func (s *Store) Search(ctx context.Context, query string) ([]collection.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matcher := collection.NewMatcher(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]collection.Record, 0)
	for _, id := range s.order {
		if rec := s.records[id]; matcher.Match(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read collection file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var records []collection.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse collection file: %w", err)
	}

	for _, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			continue
		}
		if _, dup := s.records[rec.ID]; dup {
			continue
		}
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		s.records[rec.ID] = rec
		s.order = append(s.order, rec.ID)
	}

	s.logger.Debug("loaded collection",
		logging.Int("record_count", len(s.order)),
		logging.String("path", s.path))
	return nil
}

// save writes the collection to disk atomically. Callers hold s.mu.
func (s *Store) save() error {
	records := make([]collection.Record, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func removeID(order []string, id string) []string {
	out := order[:0]
	for _, existing := range order {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
