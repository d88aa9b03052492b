package collection

import "regexp"

// Bounds for user-supplied values.
const (
	MinYear   = 1888
	MaxYear   = 2100
	MinRating = 0
	MaxRating = 10
)

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// ValidIMDBID reports whether id looks like "tt1234567".
func ValidIMDBID(id string) bool {
	return imdbIDPattern.MatchString(id)
}

// ValidYear reports whether year falls inside [MinYear, MaxYear].
func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// ValidRating reports whether rating falls inside [MinRating, MaxRating].
func ValidRating(rating float64) bool {
	return rating >= MinRating && rating <= MaxRating
}
