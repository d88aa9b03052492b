package jsonstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cinedex/internal/collection"
	"cinedex/internal/logging"
	"cinedex/internal/store/jsonstore"
)

func openStore(t *testing.T, path string) *jsonstore.Store {
	t.Helper()
	s, err := jsonstore.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func draft(title string, year int, imdbID string) collection.Draft {
	return collection.Draft{
		IMDBID:         imdbID,
		Title:          title,
		Year:           year,
		Era:            collection.ClassifyEra(year),
		Director:       "Someone",
		Genre:          []string{"Drama"},
		CollectionType: collection.TypeMovie,
	}
}

func TestCreatePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "movies.json")
	ctx := context.Background()

	s := openStore(t, path)
	first, err := s.Create(ctx, draft("Metropolis", 1927, "tt0017136"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := s.Create(ctx, draft("Vertigo", 1958, ""))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}
	if first.Tags == nil {
		t.Fatal("expected tags to default to empty slice")
	}
	if time.Since(first.DateAdded) > time.Minute || first.DateAdded.Location() != time.UTC {
		t.Fatalf("unexpected dateAdded: %v", first.DateAdded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	var onDisk []map[string]any
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("data file is not a JSON array: %v", err)
	}
	if len(onDisk) != 2 || onDisk[0]["title"] != "Metropolis" {
		t.Fatalf("unexpected persisted layout: %v", onDisk)
	}
	if _, ok := onDisk[1]["imdbId"]; ok {
		t.Fatal("expected empty imdbId to be omitted")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened := openStore(t, path)
	all, err := reopened.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("expected insertion order to survive reload, got %#v", all)
	}
	if !all[0].DateAdded.Equal(first.DateAdded) {
		t.Fatalf("dateAdded changed across reload: %v vs %v", all[0].DateAdded, first.DateAdded)
	}
}

func TestFindByExternalID(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "movies.json"))

	created, err := s.Create(ctx, draft("Heat", 1995, "tt0113277"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	found, err := s.FindByExternalID(ctx, "tt0113277")
	if err != nil || found == nil || found.ID != created.ID {
		t.Fatalf("expected record, got %#v err=%v", found, err)
	}
	missing, err := s.FindByExternalID(ctx, "tt9999999")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown id, got %#v err=%v", missing, err)
	}
	if blank, _ := s.FindByExternalID(ctx, ""); blank != nil {
		t.Fatal("blank external id must never match")
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "movies.json"))

	created, err := s.Create(ctx, draft("Ran", 1985, ""))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	notes := "rewatch"
	updated, err := s.Update(ctx, created.ID, collection.Patch{Notes: &notes})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated == nil || updated.Notes != "rewatch" {
		t.Fatalf("unexpected update result: %#v", updated)
	}
	if updated.ID != created.ID || !updated.DateAdded.Equal(created.DateAdded) {
		t.Fatalf("identity changed: %#v", updated)
	}

	missing, err := s.Update(ctx, "nope", collection.Patch{Notes: &notes})
	if err != nil || missing != nil {
		t.Fatalf("expected nil for absent id, got %#v err=%v", missing, err)
	}
}

func TestDeleteTwice(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "movies.json"))

	created, err := s.Create(ctx, draft("Stalker", 1979, ""))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	deleted, err := s.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("expected first delete to succeed, got %v err=%v", deleted, err)
	}
	if rec, _ := s.FindByID(ctx, created.ID); rec != nil {
		t.Fatal("expected record to be gone")
	}
	deleted, err = s.Delete(ctx, created.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, got %v err=%v", deleted, err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "movies.json"))

	d := draft("The Matrix", 1999, "")
	d.Tags = []string{"cyberpunk"}
	if _, err := s.Create(ctx, d); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := s.Create(ctx, draft("Casablanca", 1942, "")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for _, q := range []string{"matrix", "MATRIX", "Cyber"} {
		got, err := s.Search(ctx, q)
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if len(got) != 1 || got[0].Title != "The Matrix" {
			t.Fatalf("Search(%q) = %#v", q, got)
		}
	}
	none, err := s.Search(ctx, "western")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v err=%v", none, err)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s := openStore(t, path)
	if n, _ := s.Count(context.Background()); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Fatalf("expected corrupt file to be preserved: %v", err)
	}
}

func TestSecondOpenIsLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	_ = openStore(t, path)

	_, err := jsonstore.Open(path, logging.NewNop())
	if !errors.Is(err, jsonstore.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "movies.json"))

	created, err := s.Create(ctx, draft("Ikiru", 1952, ""))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	created.Genre[0] = "mutated"

	again, err := s.FindByID(ctx, created.ID)
	if err != nil || again == nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if again.Genre[0] != "Drama" {
		t.Fatalf("store state leaked through returned record: %v", again.Genre)
	}
}

func TestCanceledContext(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "movies.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.FindAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
