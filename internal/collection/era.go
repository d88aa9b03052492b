package collection

import (
	"fmt"
	"strings"
)

// Era buckets a record by release year.
type Era string

const (
	EraSilent       Era = "silent"
	EraGolden       Era = "golden"
	EraClassic      Era = "classic"
	EraModern       Era = "modern"
	EraContemporary Era = "contemporary"
)

// Eras returns every era in chronological order.
func Eras() []Era {
	return []Era{EraSilent, EraGolden, EraClassic, EraModern, EraContemporary}
}

// ClassifyEra maps a release year to its era. Lower bounds are inclusive:
// 1930 is golden, 1960 classic, 1980 modern, 2000 contemporary.
func ClassifyEra(year int) Era {
	switch {
	case year < 1930:
		return EraSilent
	case year < 1960:
		return EraGolden
	case year < 1980:
		return EraClassic
	case year < 2000:
		return EraModern
	default:
		return EraContemporary
	}
}

// ParseEra validates a user-supplied era name.
func ParseEra(value string) (Era, error) {
	candidate := Era(strings.ToLower(strings.TrimSpace(value)))
	for _, era := range Eras() {
		if candidate == era {
			return era, nil
		}
	}
	return "", fmt.Errorf("unknown era %q", value)
}

// Valid reports whether e is one of the five known eras.
func (e Era) Valid() bool {
	for _, era := range Eras() {
		if e == era {
			return true
		}
	}
	return false
}
