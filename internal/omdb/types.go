package omdb

import "context"

// Summary is a single OMDB search hit.
type Summary struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results      []Summary `json:"results"`
	TotalResults int       `json:"totalResults"`
}

// Rating is a third-party score attached to a detail payload.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Detail is the full OMDB movie payload. Year is kept as the raw string since
// series report ranges such as "2010–2014".
type Detail struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings"`
	Metascore  string   `json:"Metascore"`
	IMDBRating string   `json:"imdbRating"`
	IMDBVotes  string   `json:"imdbVotes"`
	IMDBID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	BoxOffice  string   `json:"BoxOffice,omitempty"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error,omitempty"`
}

// NotAvailable is the placeholder OMDB uses for missing values.
const NotAvailable = "N/A"

// Catalog defines the OMDB lookups used by the collection service.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (*SearchPage, error)
	GetByID(ctx context.Context, imdbID string) (*Detail, error)
	GetByTitle(ctx context.Context, title string, year int) (*Detail, error)
}
