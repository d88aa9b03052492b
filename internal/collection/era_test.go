package collection_test

import (
	"testing"

	"cinedex/internal/collection"
)

func TestClassifyEraBoundaries(t *testing.T) {
	tests := []struct {
		year int
		want collection.Era
	}{
		{1895, collection.EraSilent},
		{1929, collection.EraSilent},
		{1930, collection.EraGolden},
		{1959, collection.EraGolden},
		{1960, collection.EraClassic},
		{1979, collection.EraClassic},
		{1980, collection.EraModern},
		{1999, collection.EraModern},
		{2000, collection.EraContemporary},
		{2024, collection.EraContemporary},
	}
	for _, tc := range tests {
		if got := collection.ClassifyEra(tc.year); got != tc.want {
			t.Fatalf("ClassifyEra(%d) = %q, want %q", tc.year, got, tc.want)
		}
	}
}

func TestParseEra(t *testing.T) {
	era, err := collection.ParseEra(" Golden ")
	if err != nil {
		t.Fatalf("ParseEra returned error: %v", err)
	}
	if era != collection.EraGolden {
		t.Fatalf("unexpected era %q", era)
	}
	if _, err := collection.ParseEra("baroque"); err == nil {
		t.Fatal("expected error for unknown era")
	}
	if collection.Era("Golden").Valid() {
		t.Fatal("expected mixed-case era to be invalid until parsed")
	}
	for _, era := range collection.Eras() {
		if !era.Valid() {
			t.Fatalf("expected %q to be valid", era)
		}
	}
}
