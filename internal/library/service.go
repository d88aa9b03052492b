package library

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"cinedex/internal/collection"
	"cinedex/internal/logging"
	"cinedex/internal/omdb"
	"cinedex/internal/services"
	"cinedex/internal/store"
)

// Service orchestrates the local store and the external catalog.
type Service struct {
	store   store.Store
	catalog omdb.Catalog
	logger  *slog.Logger

	// writeMu orders dedup check, fetch, and insert.
	writeMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wires a Service around its store and catalog.
func New(st store.Store, catalog omdb.Catalog, opts ...Option) *Service {
	s := &Service{
		store:   st,
		catalog: catalog,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "library")
	return s
}

// GetAll lists the collection in insertion order.
func (s *Service) GetAll(ctx context.Context) ([]collection.Record, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storageError("getAll", err)
	}
	return records, nil
}

// GetByID returns the record or nil when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*collection.Record, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("getById", err)
	}
	return rec, nil
}

// Search filters the local collection by a case-insensitive substring.
func (s *Service) Search(ctx context.Context, query string) ([]collection.Record, error) {
	records, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, storageError("search", err)
	}
	return records, nil
}

// Count reports the collection size.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, storageError("count", err)
	}
	return n, nil
}

// Add stores a manually entered record. The era is derived from the year
// unless draft.Era is already set; an explicit era is stored as given.
func (s *Service) Add(ctx context.Context, draft collection.Draft) (collection.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.add(ctx, draft)
}

func (s *Service) add(ctx context.Context, draft collection.Draft) (collection.Record, error) {
	draft.CollectionType = collection.TypeMovie
	if draft.Era == "" {
		draft.Era = collection.ClassifyEra(draft.Year)
	}
	if draft.Tags == nil {
		draft.Tags = []string{}
	}
	if draft.Genre == nil {
		draft.Genre = []string{}
	}
	if strings.TrimSpace(draft.Director) == "" {
		draft.Director = collection.DefaultDirector
	}

	rec, err := s.store.Create(ctx, draft)
	if err != nil {
		return collection.Record{}, storageError("add", err)
	}
	attrs := []logging.Attr{
		logging.String("title", rec.Title),
		logging.Int("year", rec.Year),
		logging.String("era", string(rec.Era)),
		logging.String(logging.FieldIMDBID, rec.IMDBID),
	}
	if rec.Rating != nil {
		attrs = append(attrs, logging.Float64("rating", *rec.Rating))
	}
	logging.WithContext(services.WithRecordID(ctx, rec.ID), s.logger).LogAttrs(ctx, slog.LevelInfo, "record added", attrs...)
	return rec, nil
}

// Update applies a partial update. Returns nil when the record is absent.
func (s *Service) Update(ctx context.Context, id string, patch collection.Patch) (*collection.Record, error) {
	rec, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storageError("update", err)
	}
	return rec, nil
}

// Remove deletes a record and reports whether it existed.
func (s *Service) Remove(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, storageError("remove", err)
	}
	if deleted {
		logging.WithContext(services.WithRecordID(ctx, id), s.logger).Info("record removed")
	}
	return deleted, nil
}

// Lookup searches the external catalog without touching the collection.
// Catalog errors are returned unchanged.
func (s *Service) Lookup(ctx context.Context, query string) ([]omdb.Summary, error) {
	page, err := s.catalog.Search(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if page == nil || page.Results == nil {
		return []omdb.Summary{}, nil
	}
	return page.Results, nil
}

// LookupByTitle fetches catalog details for an exact title. A zero year lets
// the catalog choose among same-titled films. Returns nil when nothing matches.
func (s *Service) LookupByTitle(ctx context.Context, title string, year int) (*omdb.Detail, error) {
	return s.catalog.GetByTitle(ctx, title, year)
}

func storageError(op string, err error) error {
	return services.Wrap(services.ErrStorage, "library", op, "store operation failed", err)
}
