package testsupport

import (
	"context"
	"sync"

	"cinedex/internal/omdb"
)

// FakeCatalog is an in-memory omdb.Catalog for tests.
type FakeCatalog struct {
	mu      sync.Mutex
	details map[string]omdb.Detail
	aliases map[string]string
	results []omdb.Summary
	err     error

	searchCalls int
	idCalls     int
	titleCalls  int
}

var _ omdb.Catalog = (*FakeCatalog)(nil)

// NewFakeCatalog seeds a catalog with the supplied details, keyed by IMDBID.
func NewFakeCatalog(details ...omdb.Detail) *FakeCatalog {
	c := &FakeCatalog{
		details: make(map[string]omdb.Detail),
		aliases: make(map[string]string),
	}
	for _, d := range details {
		c.Add(d)
	}
	return c
}

// Add registers a detail and a matching search summary.
func (c *FakeCatalog) Add(d omdb.Detail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[d.IMDBID] = d
	c.results = append(c.results, omdb.Summary{
		Title:  d.Title,
		Year:   d.Year,
		IMDBID: d.IMDBID,
		Type:   d.Type,
		Poster: d.Poster,
	})
}

// Search returns every registered summary regardless of query or page.
func (c *FakeCatalog) Search(_ context.Context, _ string, _ int) (*omdb.SearchPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchCalls++
	if c.err != nil {
		return nil, c.err
	}
	results := append([]omdb.Summary{}, c.results...)
	return &omdb.SearchPage{Results: results, TotalResults: len(results)}, nil
}

// GetByID returns the detail registered under imdbID, following aliases, or
// nil when nothing matches.
func (c *FakeCatalog) GetByID(_ context.Context, imdbID string) (*omdb.Detail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idCalls++
	if c.err != nil {
		return nil, c.err
	}
	if canonical, ok := c.aliases[imdbID]; ok {
		imdbID = canonical
	}
	d, ok := c.details[imdbID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// GetByTitle returns the first detail with an exactly matching title. The
// year is ignored.
func (c *FakeCatalog) GetByTitle(_ context.Context, title string, _ int) (*omdb.Detail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titleCalls++
	if c.err != nil {
		return nil, c.err
	}
	for _, d := range c.details {
		if d.Title == title {
			found := d
			return &found, nil
		}
	}
	return nil, nil
}

// Alias makes GetByID(alias) answer with the detail stored under canonical,
// the way OMDB resolves merged IMDb ids.
func (c *FakeCatalog) Alias(alias, canonical string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = canonical
}

// SetErr makes every subsequent call fail with err. Pass nil to clear.
func (c *FakeCatalog) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Calls reports how many times each lookup ran.
func (c *FakeCatalog) Calls() (search, byID, byTitle int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchCalls, c.idCalls, c.titleCalls
}

// InceptionDetail is a representative OMDB payload with no poster.
func InceptionDetail() omdb.Detail {
	return omdb.Detail{
		Title:      "Inception",
		Year:       "2010",
		Rated:      "PG-13",
		Runtime:    "148 min",
		Genre:      "Action, Sci-Fi, Thriller",
		Director:   "Christopher Nolan",
		Plot:       "A thief who steals corporate secrets through the use of dream-sharing technology.",
		Poster:     omdb.NotAvailable,
		IMDBRating: "8.8",
		IMDBID:     "tt1375666",
		Type:       "movie",
		Response:   "True",
	}
}
