package main

import (
	"encoding/json"
	"strings"
	"testing"

	"cinedex/internal/collection"
	"cinedex/internal/logging"
	"cinedex/internal/store/jsonstore"
)

func addManual(t *testing.T, env *cliTestEnv, args ...string) collection.Record {
	t.Helper()
	out, _, err := runCLI(t, append([]string{"--json", "add-manual"}, args...), env.configPath)
	if err != nil {
		t.Fatalf("add-manual: %v", err)
	}
	var rec collection.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode add-manual output: %v (%q)", err, out)
	}
	return rec
}

func TestListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Collection is empty")
}

func TestAddFromOMDBThenList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"add", "tt1375666", "--rating", "9", "--tag", "favorite,nolan"}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Inception")
	requireContains(t, out, "contemporary")
	requireContains(t, out, "favorite, nolan")

	out, _, err = runCLI(t, []string{"--json", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var records []collection.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(records) != 1 || records[0].IMDBID != "tt1375666" || records[0].Poster != "" {
		t.Fatalf("unexpected records %+v", records)
	}
	if len(records[0].Genre) != 3 || records[0].Genre[1] != "Sci-Fi" {
		t.Fatalf("genre not split: %+v", records[0].Genre)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"add", "1375666"}, env.configPath); err == nil {
		t.Fatal("expected error for malformed imdb id")
	}
	if _, _, err := runCLI(t, []string{"add", "tt1375666", "--rating", "11"}, env.configPath); err == nil {
		t.Fatal("expected error for out-of-range rating")
	}
	_, _, err := runCLI(t, []string{"add", "tt0000001"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "could not find") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAddManualDefaultsAndEraFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	silent := addManual(t, env, "--title", "Nosferatu", "--year", "1922", "--genre", "Horror")
	if silent.Era != collection.EraSilent || silent.Director != collection.DefaultDirector {
		t.Fatalf("unexpected defaults %+v", silent)
	}
	addManual(t, env, "--title", "Heat", "--year", "1995", "--genre", "Crime", "--director", "Michael Mann")

	out, _, err := runCLI(t, []string{"list", "--era", "silent"}, env.configPath)
	if err != nil {
		t.Fatalf("list --era: %v", err)
	}
	requireContains(t, out, "Nosferatu")
	if strings.Contains(out, "Heat") {
		t.Fatalf("era filter leaked other records: %q", out)
	}

	if _, _, err := runCLI(t, []string{"list", "--era", "futuristic"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown era")
	}
}

func TestAddManualValidation(t *testing.T) {
	env := setupCLITestEnv(t)
	cases := [][]string{
		{"--title", "X", "--year", "1800", "--genre", "Drama"},
		{"--title", "X", "--year", "2000", "--genre", "Drama", "--poster", "not a url"},
		{"--title", "X", "--year", "2000"},
		{"--title", " ", "--year", "2000", "--genre", "Drama"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, append([]string{"add-manual"}, args...), env.configPath); err == nil {
			t.Fatalf("expected validation error for %v", args)
		}
	}
}

func TestSearchShowUpdateRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	rec := addManual(t, env, "--title", "The Matrix", "--year", "1999", "--genre", "Action")

	out, _, err := runCLI(t, []string{"search", "MATRIX"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, rec.ID)

	out, _, err = runCLI(t, []string{"update", rec.ID, "--notes", "bullet time", "--rating", "8"}, env.configPath)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	requireContains(t, out, "bullet time")

	out, _, err = runCLI(t, []string{"--json", "show", rec.ID}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var shown collection.Record
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if shown.Rating == nil || *shown.Rating != 8 || !shown.DateAdded.Equal(rec.DateAdded) {
		t.Fatalf("unexpected record after update %+v", shown)
	}

	if _, _, err := runCLI(t, []string{"update", rec.ID}, env.configPath); err == nil {
		t.Fatal("expected error for update without fields")
	}

	out, _, err = runCLI(t, []string{"remove", rec.ID}, env.configPath)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "Removed")
	if _, _, err := runCLI(t, []string{"remove", rec.ID}, env.configPath); err == nil {
		t.Fatal("expected error removing an absent record")
	}
	if _, _, err := runCLI(t, []string{"show", rec.ID}, env.configPath); err == nil {
		t.Fatal("expected error showing an absent record")
	}
}

func TestLookup(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"lookup", "inception"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "tt1375666")

	out, _, err = runCLI(t, []string{"lookup", "zzz"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup no results: %v", err)
	}
	requireContains(t, out, "No OMDB matches")

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Collection is empty")
}

func TestCollectionLockedByServer(t *testing.T) {
	env := setupCLITestEnv(t)
	held, err := jsonstore.Open(env.storePath, logging.NewNop())
	if err != nil {
		t.Fatalf("jsonstore.Open: %v", err)
	}
	defer held.Close()

	_, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err == nil {
		t.Fatal("expected lock error while another handle holds the collection")
	}
	requireContains(t, err.Error(), "in use by another cinedex process")
}
