package collection

import "time"

// TypeMovie is the only collection type currently stored.
const TypeMovie = "movie"

// DefaultDirector is recorded when neither the user nor the catalog names one.
const DefaultDirector = "Unknown"

// Record is a single entry in the local collection.
type Record struct {
	ID             string    `json:"id"`
	IMDBID         string    `json:"imdbId,omitempty"`
	Title          string    `json:"title"`
	Year           int       `json:"year"`
	Era            Era       `json:"era"`
	Director       string    `json:"director"`
	Genre          []string  `json:"genre"`
	Rating         *float64  `json:"rating,omitempty"`
	Tags           []string  `json:"tags"`
	Notes          string    `json:"notes,omitempty"`
	DateAdded      time.Time `json:"dateAdded"`
	CollectionType string    `json:"collectionType"`
	Plot           string    `json:"plot,omitempty"`
	Runtime        string    `json:"runtime,omitempty"`
	Poster         string    `json:"poster,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	IMDBRating     string    `json:"imdbRating,omitempty"`
}

// Draft carries every record field except the ones a store assigns.
type Draft struct {
	IMDBID         string
	Title          string
	Year           int
	Era            Era
	Director       string
	Genre          []string
	Rating         *float64
	Tags           []string
	Notes          string
	CollectionType string
	Plot           string
	Runtime        string
	Poster         string
	ImageURL       string
	IMDBRating     string
}

// Record materializes the draft with the supplied identity.
func (d Draft) Record(id string, added time.Time) Record {
	return Record{
		ID:             id,
		IMDBID:         d.IMDBID,
		Title:          d.Title,
		Year:           d.Year,
		Era:            d.Era,
		Director:       d.Director,
		Genre:          cloneStrings(d.Genre),
		Rating:         cloneFloat(d.Rating),
		Tags:           cloneStrings(d.Tags),
		Notes:          d.Notes,
		DateAdded:      added,
		CollectionType: d.CollectionType,
		Plot:           d.Plot,
		Runtime:        d.Runtime,
		Poster:         d.Poster,
		ImageURL:       d.ImageURL,
		IMDBRating:     d.IMDBRating,
	}
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	IMDBID     *string   `json:"imdbId,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Year       *int      `json:"year,omitempty"`
	Era        *Era      `json:"era,omitempty"`
	Director   *string   `json:"director,omitempty"`
	Genre      *[]string `json:"genre,omitempty"`
	Rating     *float64  `json:"rating,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Plot       *string   `json:"plot,omitempty"`
	Runtime    *string   `json:"runtime,omitempty"`
	Poster     *string   `json:"poster,omitempty"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	IMDBRating *string   `json:"imdbRating,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply merges the patch over rec. ID, DateAdded, and CollectionType always
// keep their stored values.
func (p Patch) Apply(rec Record) Record {
	out := rec
	out.Genre = cloneStrings(rec.Genre)
	out.Tags = cloneStrings(rec.Tags)
	out.Rating = cloneFloat(rec.Rating)

	if p.IMDBID != nil {
		out.IMDBID = *p.IMDBID
	}
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.Era != nil {
		out.Era = *p.Era
	}
	if p.Director != nil {
		out.Director = *p.Director
	}
	if p.Genre != nil {
		out.Genre = cloneStrings(*p.Genre)
	}
	if p.Rating != nil {
		out.Rating = cloneFloat(p.Rating)
	}
	if p.Tags != nil {
		out.Tags = cloneStrings(*p.Tags)
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	if p.Plot != nil {
		out.Plot = *p.Plot
	}
	if p.Runtime != nil {
		out.Runtime = *p.Runtime
	}
	if p.Poster != nil {
		out.Poster = *p.Poster
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	if p.IMDBRating != nil {
		out.IMDBRating = *p.IMDBRating
	}

	out.ID = rec.ID
	out.DateAdded = rec.DateAdded
	out.CollectionType = rec.CollectionType
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// UserMeta is the optional user-owned data attached when adding from the
// external catalog.
type UserMeta struct {
	Rating *float64
	Tags   []string
	Notes  string
}

// Clone returns a deep copy of rec.
func (r Record) Clone() Record {
	out := r
	out.Genre = cloneStrings(r.Genre)
	out.Tags = cloneStrings(r.Tags)
	out.Rating = cloneFloat(r.Rating)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFloat(in *float64) *float64 {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
