package library

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cinedex/internal/collection"
	"cinedex/internal/logging"
	"cinedex/internal/omdb"
	"cinedex/internal/services"
)

// AddFromExternal adds the catalog movie identified by imdbID.
//
// When a record with that IMDb id already exists it is returned unchanged and
// the catalog is not called. When the catalog answers with a different
// canonical id that is already stored, that record is returned instead. When the catalog has no such movie the result is
// nil. Catalog failures are returned unchanged and leave the store untouched.
func (s *Service) AddFromExternal(ctx context.Context, imdbID string, meta *collection.UserMeta) (*collection.Record, error) {
	imdbID = strings.TrimSpace(imdbID)
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldIMDBID, imdbID))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.store.FindByExternalID(ctx, imdbID)
	if err != nil {
		return nil, storageError("addFromExternal", err)
	}
	if existing != nil {
		logger.Debug("already in collection", logging.String(logging.FieldRecordID, existing.ID))
		return existing, nil
	}

	detail, err := s.catalog.GetByID(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		logger.Info("catalog has no match")
		return nil, nil
	}

	draft, err := draftFromDetail(imdbID, detail)
	if err != nil {
		return nil, err
	}
	if draft.IMDBID != imdbID {
		canonical, err := s.store.FindByExternalID(ctx, draft.IMDBID)
		if err != nil {
			return nil, storageError("addFromExternal", err)
		}
		if canonical != nil {
			logger.Debug("already in collection under catalog id",
				logging.String("catalog_imdb_id", draft.IMDBID),
				logging.String(logging.FieldRecordID, canonical.ID))
			return canonical, nil
		}
	}
	applyUserMeta(&draft, meta)

	rec, err := s.add(ctx, draft)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func draftFromDetail(requestedID string, detail *omdb.Detail) (collection.Draft, error) {
	year, err := parseYear(detail.Year)
	if err != nil {
		return collection.Draft{}, services.Wrap(services.ErrParse, "library", "addFromExternal",
			fmt.Sprintf("catalog year %q for %s", detail.Year, requestedID), err)
	}

	imdbID := strings.TrimSpace(detail.IMDBID)
	if imdbID == "" {
		imdbID = requestedID
	}

	poster := strings.TrimSpace(detail.Poster)
	if poster == omdb.NotAvailable {
		poster = ""
	}

	return collection.Draft{
		IMDBID:     imdbID,
		Title:      detail.Title,
		Year:       year,
		Director:   detail.Director,
		Genre:      splitGenre(detail.Genre),
		Plot:       detail.Plot,
		Runtime:    detail.Runtime,
		IMDBRating: detail.IMDBRating,
		Poster:     poster,
		ImageURL:   poster,
	}, nil
}

func applyUserMeta(draft *collection.Draft, meta *collection.UserMeta) {
	draft.Tags = []string{}
	if meta == nil {
		return
	}
	if meta.Rating != nil {
		rating := *meta.Rating
		draft.Rating = &rating
	}
	if meta.Tags != nil {
		draft.Tags = append([]string{}, meta.Tags...)
	}
	draft.Notes = meta.Notes
}

// splitGenre turns "Action, Sci-Fi, Thriller" into its trimmed parts,
// dropping empty entries.
func splitGenre(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseYear reads the leading integer of a catalog year such as "1999" or
// "2010–2014".
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("no leading digits in %q", raw)
	}
	return strconv.Atoi(raw[:end])
}
