package library_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cinedex/internal/collection"
	"cinedex/internal/library"
	"cinedex/internal/omdb"
	"cinedex/internal/services"
	"cinedex/internal/testsupport"
)

func newService(t *testing.T, catalog *testsupport.FakeCatalog, opts ...testsupport.ConfigOption) *library.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	return library.New(st, catalog)
}

func TestAddDerivesEraAndDefaults(t *testing.T) {
	svc := newService(t, testsupport.NewFakeCatalog())
	ctx := context.Background()

	rec, err := svc.Add(ctx, collection.Draft{Title: "Test", Year: 1965, Genre: []string{"Drama"}})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if rec.Era != collection.EraClassic {
		t.Fatalf("expected classic era, got %q", rec.Era)
	}
	if rec.Tags == nil || len(rec.Tags) != 0 {
		t.Fatalf("expected empty tags, got %#v", rec.Tags)
	}
	if rec.Director != collection.DefaultDirector {
		t.Fatalf("expected default director, got %q", rec.Director)
	}
	if rec.CollectionType != collection.TypeMovie {
		t.Fatalf("unexpected collection type %q", rec.CollectionType)
	}
	if rec.ID == "" || rec.DateAdded.IsZero() {
		t.Fatalf("expected store-assigned identity, got %#v", rec)
	}
}

func TestAddHonoursExplicitEra(t *testing.T) {
	svc := newService(t, testsupport.NewFakeCatalog())

	rec, err := svc.Add(context.Background(), collection.Draft{Title: "Restoration", Year: 2005, Era: collection.EraSilent})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if rec.Era != collection.EraSilent {
		t.Fatalf("expected explicit era to win, got %q", rec.Era)
	}
}

func TestAddFromExternalInception(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []testsupport.ConfigOption
	}{
		{"json", nil},
		{"sqlite", []testsupport.ConfigOption{testsupport.WithSQLiteStore()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			catalog := testsupport.NewFakeCatalog(testsupport.InceptionDetail())
			svc := newService(t, catalog, tc.opts...)
			ctx := context.Background()

			rating := 9.0
			rec, err := svc.AddFromExternal(ctx, "tt1375666", &collection.UserMeta{Rating: &rating, Tags: []string{"favorite"}})
			if err != nil {
				t.Fatalf("AddFromExternal returned error: %v", err)
			}
			if rec == nil {
				t.Fatal("expected record")
			}
			if rec.Title != "Inception" || rec.Year != 2010 || rec.Era != collection.EraContemporary {
				t.Fatalf("unexpected mapping: %#v", rec)
			}
			want := []string{"Action", "Sci-Fi", "Thriller"}
			if len(rec.Genre) != len(want) {
				t.Fatalf("unexpected genre: %#v", rec.Genre)
			}
			for i := range want {
				if rec.Genre[i] != want[i] {
					t.Fatalf("unexpected genre: %#v", rec.Genre)
				}
			}
			if rec.Poster != "" || rec.ImageURL != "" {
				t.Fatalf("expected N/A poster to be dropped, got %q / %q", rec.Poster, rec.ImageURL)
			}
			if rec.Director != "Christopher Nolan" || rec.Runtime != "148 min" || rec.IMDBRating != "8.8" {
				t.Fatalf("unexpected detail fields: %#v", rec)
			}
			if rec.Rating == nil || *rec.Rating != 9 || len(rec.Tags) != 1 || rec.Tags[0] != "favorite" {
				t.Fatalf("user meta not applied: %#v", rec)
			}
			if rec.IMDBID != "tt1375666" {
				t.Fatalf("unexpected imdb id %q", rec.IMDBID)
			}
		})
	}
}

func TestAddFromExternalIsIdempotent(t *testing.T) {
	catalog := testsupport.NewFakeCatalog(testsupport.InceptionDetail())
	svc := newService(t, catalog)
	ctx := context.Background()

	before, _ := svc.Count(ctx)
	first, err := svc.AddFromExternal(ctx, "tt1375666", nil)
	if err != nil || first == nil {
		t.Fatalf("first add failed: %#v err=%v", first, err)
	}
	second, err := svc.AddFromExternal(ctx, "tt1375666", &collection.UserMeta{Notes: "ignored"})
	if err != nil || second == nil {
		t.Fatalf("second add failed: %#v err=%v", second, err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same record, got %q and %q", first.ID, second.ID)
	}
	if second.Notes != "" {
		t.Fatalf("existing record should be returned unchanged, got notes %q", second.Notes)
	}
	after, _ := svc.Count(ctx)
	if after != before+1 {
		t.Fatalf("expected count to grow by one, got %d -> %d", before, after)
	}
	if _, byID, _ := catalog.Calls(); byID != 1 {
		t.Fatalf("expected catalog to be consulted once, got %d", byID)
	}
}

func TestAddFromExternalConcurrentSameID(t *testing.T) {
	catalog := testsupport.NewFakeCatalog(testsupport.InceptionDetail())
	svc := newService(t, catalog)
	ctx := context.Background()

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := svc.AddFromExternal(ctx, "tt1375666", nil)
			if err != nil || rec == nil {
				t.Errorf("AddFromExternal failed: %#v err=%v", rec, err)
				return
			}
			ids[i] = rec.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("expected every caller to see one record, got %v", ids)
		}
	}
	if n, _ := svc.Count(ctx); n != 1 {
		t.Fatalf("expected exactly one record, got %d", n)
	}
}

func TestAddFromExternalAbsent(t *testing.T) {
	svc := newService(t, testsupport.NewFakeCatalog())
	ctx := context.Background()

	rec, err := svc.AddFromExternal(ctx, "tt0000000", nil)
	if err != nil {
		t.Fatalf("AddFromExternal returned error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil, got %#v", rec)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("expected store untouched, got %d records", n)
	}
}

func TestAddFromExternalCatalogErrorPropagates(t *testing.T) {
	catalog := testsupport.NewFakeCatalog()
	boom := services.Wrap(services.ErrNetwork, "omdb", omdb.OpGetByID, "HTTP 503", nil)
	catalog.SetErr(boom)
	svc := newService(t, catalog)
	ctx := context.Background()

	_, err := svc.AddFromExternal(ctx, "tt1375666", nil)
	if !errors.Is(err, boom) || !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected catalog error unchanged, got %v", err)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("expected store untouched, got %d records", n)
	}

	if _, err := svc.Lookup(ctx, "anything"); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error unchanged, got %v", err)
	}
}

func TestAddFromExternalAliasResolvesToCanonicalRecord(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []testsupport.ConfigOption
	}{
		{"json", nil},
		{"sqlite", []testsupport.ConfigOption{testsupport.WithSQLiteStore()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			catalog := testsupport.NewFakeCatalog(testsupport.InceptionDetail())
			catalog.Alias("tt9999999", "tt1375666")
			svc := newService(t, catalog, tc.opts...)
			ctx := context.Background()

			first, err := svc.AddFromExternal(ctx, "tt9999999", nil)
			if err != nil || first == nil {
				t.Fatalf("first add failed: %#v err=%v", first, err)
			}
			if first.IMDBID != "tt1375666" {
				t.Fatalf("expected catalog id to be stored, got %q", first.IMDBID)
			}
			second, err := svc.AddFromExternal(ctx, "tt9999999", nil)
			if err != nil || second == nil {
				t.Fatalf("second add failed: %#v err=%v", second, err)
			}
			direct, err := svc.AddFromExternal(ctx, "tt1375666", nil)
			if err != nil || direct == nil {
				t.Fatalf("canonical add failed: %#v err=%v", direct, err)
			}
			if second.ID != first.ID || direct.ID != first.ID {
				t.Fatalf("expected one record, got %q, %q, %q", first.ID, second.ID, direct.ID)
			}
			if n, _ := svc.Count(ctx); n != 1 {
				t.Fatalf("expected a single record, got %d", n)
			}
		})
	}
}

func TestAddDefaultsMissingGenreToEmpty(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []testsupport.ConfigOption
	}{
		{"json", nil},
		{"sqlite", []testsupport.ConfigOption{testsupport.WithSQLiteStore()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(t, testsupport.NewFakeCatalog(), tc.opts...)
			ctx := context.Background()

			rec, err := svc.Add(ctx, collection.Draft{Title: "Untitled", Year: 2001})
			if err != nil {
				t.Fatalf("Add returned error: %v", err)
			}
			if rec.Genre == nil || len(rec.Genre) != 0 {
				t.Fatalf("expected empty genre, got %#v", rec.Genre)
			}
			stored, err := svc.GetByID(ctx, rec.ID)
			if err != nil || stored == nil {
				t.Fatalf("GetByID failed: %#v err=%v", stored, err)
			}
			if stored.Genre == nil || len(stored.Genre) != 0 {
				t.Fatalf("expected stored genre to be empty, got %#v", stored.Genre)
			}
		})
	}
}

func TestAddFromExternalYearRanges(t *testing.T) {
	detail := testsupport.InceptionDetail()
	detail.IMDBID = "tt1475582"
	detail.Title = "Sherlock"
	detail.Year = "2010–2017"
	detail.Poster = "https://example.com/poster.jpg"
	svc := newService(t, testsupport.NewFakeCatalog(detail))

	rec, err := svc.AddFromExternal(context.Background(), "tt1475582", nil)
	if err != nil || rec == nil {
		t.Fatalf("AddFromExternal failed: %#v err=%v", rec, err)
	}
	if rec.Year != 2010 {
		t.Fatalf("expected leading year, got %d", rec.Year)
	}
	if rec.Poster != detail.Poster || rec.ImageURL != detail.Poster {
		t.Fatalf("expected poster mirrored into image url, got %#v", rec)
	}
}

func TestAddFromExternalRejectsUnparseableYear(t *testing.T) {
	detail := testsupport.InceptionDetail()
	detail.Year = "N/A"
	svc := newService(t, testsupport.NewFakeCatalog(detail))
	ctx := context.Background()

	_, err := svc.AddFromExternal(ctx, "tt1375666", nil)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestUpdatePreservesDateAdded(t *testing.T) {
	svc := newService(t, testsupport.NewFakeCatalog())
	ctx := context.Background()

	rec, err := svc.Add(ctx, collection.Draft{Title: "Old", Year: 1950})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	title := "New"
	updated, err := svc.Update(ctx, rec.ID, collection.Patch{Title: &title})
	if err != nil || updated == nil {
		t.Fatalf("Update failed: %#v err=%v", updated, err)
	}
	if updated.Title != "New" || !updated.DateAdded.Equal(rec.DateAdded) || updated.ID != rec.ID {
		t.Fatalf("unexpected update: %#v", updated)
	}

	missing, err := svc.Update(ctx, "missing", collection.Patch{Title: &title})
	if err != nil || missing != nil {
		t.Fatalf("expected nil for absent id, got %#v err=%v", missing, err)
	}
}

func TestRemoveThenFind(t *testing.T) {
	svc := newService(t, testsupport.NewFakeCatalog())
	ctx := context.Background()

	rec, err := svc.Add(ctx, collection.Draft{Title: "Gone", Year: 1990})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if ok, err := svc.Remove(ctx, rec.ID); err != nil || !ok {
		t.Fatalf("expected remove to succeed, got %v err=%v", ok, err)
	}
	if got, err := svc.GetByID(ctx, rec.ID); err != nil || got != nil {
		t.Fatalf("expected absent after remove, got %#v err=%v", got, err)
	}
	if ok, err := svc.Remove(ctx, rec.ID); err != nil || ok {
		t.Fatalf("expected second remove to report false, got %v err=%v", ok, err)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc := newService(t, testsupport.NewFakeCatalog())
	ctx := context.Background()

	if _, err := svc.Add(ctx, collection.Draft{Title: "The Matrix", Year: 1999}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	for _, q := range []string{"matrix", "MATRIX"} {
		got, err := svc.Search(ctx, q)
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Search(%q) returned %d records", q, len(got))
		}
	}
}

func TestLookupDoesNotTouchStore(t *testing.T) {
	catalog := testsupport.NewFakeCatalog(testsupport.InceptionDetail())
	svc := newService(t, catalog)
	ctx := context.Background()

	results, err := svc.Lookup(ctx, "inception")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(results) != 1 || results[0].IMDBID != "tt1375666" {
		t.Fatalf("unexpected results: %#v", results)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("lookup must not add records, got %d", n)
	}

	detail, err := svc.LookupByTitle(ctx, "Inception", 0)
	if err != nil || detail == nil || detail.IMDBID != "tt1375666" {
		t.Fatalf("unexpected title lookup: %#v err=%v", detail, err)
	}
	none, err := svc.LookupByTitle(ctx, "Nonexistent", 2001)
	if err != nil || none != nil {
		t.Fatalf("expected nil for unknown title, got %#v err=%v", none, err)
	}
}
