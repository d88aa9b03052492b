package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"cinedex/internal/collection"
	"cinedex/internal/services"
)

const maxBodyBytes = 1 << 20

// AddExternalRequest is the body of POST /add.
type AddExternalRequest struct {
	IMDBID string   `json:"imdbId"`
	Rating *float64 `json:"rating,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// MovieRequest is the body of a manual add (all of Title, Year, and Genre
// required) and of an update (every field optional).
type MovieRequest struct {
	Title    *string   `json:"title,omitempty"`
	Year     *int      `json:"year,omitempty"`
	Director *string   `json:"director,omitempty"`
	Genre    *[]string `json:"genre,omitempty"`
	Plot     *string   `json:"plot,omitempty"`
	Runtime  *string   `json:"runtime,omitempty"`
	Poster   *string   `json:"poster,omitempty"`
	Rating   *float64  `json:"rating,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

type problems []string

func (p *problems) add(field, format string, args ...any) {
	*p = append(*p, field+": "+fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return services.Wrap(services.ErrValidation, "", "", strings.Join(p, "; "), nil)
}

func validationMessage(err error) string {
	msg := err.Error()
	prefix := services.ErrValidation.Error() + ": "
	return strings.TrimPrefix(msg, prefix)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return services.Wrap(services.ErrValidation, "", "", "request body required", nil)
		}
		return services.Wrap(services.ErrValidation, "", "", "invalid JSON body", err)
	}
	return nil
}

func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func validateRating(p *problems, rating *float64) {
	if rating != nil && !collection.ValidRating(*rating) {
		p.add("rating", "must be between %d and %d", collection.MinRating, collection.MaxRating)
	}
}

func (req AddExternalRequest) validate() error {
	var p problems
	if !collection.ValidIMDBID(req.IMDBID) {
		p.add("imdbId", `must match format "tt1234567"`)
	}
	validateRating(&p, req.Rating)
	return p.err()
}

func (req AddExternalRequest) userMeta() *collection.UserMeta {
	meta := &collection.UserMeta{Rating: req.Rating, Tags: req.Tags}
	if req.Notes != nil {
		meta.Notes = *req.Notes
	}
	return meta
}

// validate checks the fields that are present. When full is set, title,
// year, and genre must also be present.
func (req MovieRequest) validate(full bool) error {
	var p problems
	switch {
	case req.Title != nil && strings.TrimSpace(*req.Title) == "":
		p.add("title", "must not be empty")
	case req.Title == nil && full:
		p.add("title", "required")
	}
	switch {
	case req.Year != nil && !collection.ValidYear(*req.Year):
		p.add("year", "must be between %d and %d", collection.MinYear, collection.MaxYear)
	case req.Year == nil && full:
		p.add("year", "required")
	}
	if req.Director != nil && strings.TrimSpace(*req.Director) == "" {
		p.add("director", "must not be empty")
	}
	switch {
	case req.Genre != nil && len(*req.Genre) == 0:
		p.add("genre", "at least one genre required")
	case req.Genre == nil && full:
		p.add("genre", "at least one genre required")
	}
	if req.Poster != nil && !isURL(*req.Poster) {
		p.add("poster", "must be a URL")
	}
	validateRating(&p, req.Rating)
	return p.err()
}

func (req MovieRequest) draft() collection.Draft {
	d := collection.Draft{
		Title:    deref(req.Title),
		Year:     derefInt(req.Year),
		Director: deref(req.Director),
		Plot:     deref(req.Plot),
		Runtime:  deref(req.Runtime),
		Poster:   deref(req.Poster),
		ImageURL: deref(req.Poster),
		Rating:   req.Rating,
		Notes:    deref(req.Notes),
	}
	if req.Genre != nil {
		d.Genre = *req.Genre
	}
	if req.Tags != nil {
		d.Tags = *req.Tags
	}
	return d
}

func (req MovieRequest) patch() collection.Patch {
	p := collection.Patch{
		Title:    req.Title,
		Year:     req.Year,
		Director: req.Director,
		Genre:    req.Genre,
		Plot:     req.Plot,
		Runtime:  req.Runtime,
		Poster:   req.Poster,
		Rating:   req.Rating,
		Tags:     req.Tags,
		Notes:    req.Notes,
	}
	if req.Poster != nil {
		p.ImageURL = req.Poster
	}
	return p
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
