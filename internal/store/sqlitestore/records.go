package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cinedex/internal/collection"
)

const recordColumns = `id, imdb_id, title, year, era, director, genre_json, rating, tags_json,
	notes, date_added, collection_type, plot, runtime, poster, image_url, imdb_rating`

const insertRecordSQL = `INSERT INTO records (` + recordColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateRecordSQL = `UPDATE records SET
	imdb_id = ?, title = ?, year = ?, era = ?, director = ?, genre_json = ?, rating = ?,
	tags_json = ?, notes = ?, date_added = ?, collection_type = ?, plot = ?, runtime = ?,
	poster = ?, image_url = ?, imdb_rating = ?
	WHERE id = ?`

type rowScanner interface {
	Scan(dest ...any) error
}

func recordArgs(rec collection.Record) ([]any, error) {
	genre, err := encodeStrings(rec.Genre)
	if err != nil {
		return nil, fmt.Errorf("encode genre: %w", err)
	}
	tags, err := encodeStrings(rec.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	var rating sql.NullFloat64
	if rec.Rating != nil {
		rating = sql.NullFloat64{Float64: *rec.Rating, Valid: true}
	}
	return []any{
		rec.ID,
		rec.IMDBID,
		rec.Title,
		rec.Year,
		string(rec.Era),
		rec.Director,
		genre,
		rating,
		tags,
		rec.Notes,
		rec.DateAdded.UTC().Format(time.RFC3339Nano),
		rec.CollectionType,
		rec.Plot,
		rec.Runtime,
		rec.Poster,
		rec.ImageURL,
		rec.IMDBRating,
	}, nil
}

func scanRecord(row rowScanner) (collection.Record, error) {
	var (
		rec       collection.Record
		era       string
		genreJSON string
		tagsJSON  string
		rating    sql.NullFloat64
		dateAdded string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.IMDBID,
		&rec.Title,
		&rec.Year,
		&era,
		&rec.Director,
		&genreJSON,
		&rating,
		&tagsJSON,
		&rec.Notes,
		&dateAdded,
		&rec.CollectionType,
		&rec.Plot,
		&rec.Runtime,
		&rec.Poster,
		&rec.ImageURL,
		&rec.IMDBRating,
	); err != nil {
		return collection.Record{}, err
	}
	rec.Era = collection.Era(era)
	if rating.Valid {
		v := rating.Float64
		rec.Rating = &v
	}
	var err error
	if rec.Genre, err = decodeStrings(genreJSON); err != nil {
		return collection.Record{}, fmt.Errorf("decode genre for %s: %w", rec.ID, err)
	}
	if rec.Tags, err = decodeStrings(tagsJSON); err != nil {
		return collection.Record{}, fmt.Errorf("decode tags for %s: %w", rec.ID, err)
	}
	if rec.DateAdded, err = time.Parse(time.RFC3339Nano, dateAdded); err != nil {
		return collection.Record{}, fmt.Errorf("parse date_added for %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (*collection.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ensureContext(ctx), query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	return &rec, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]collection.Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := make([]collection.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
