package omdb

import (
	"fmt"

	"cinedex/internal/services"
)

// Operation names attached to every client error.
const (
	OpSearch     = "searchMovies"
	OpGetByID    = "getMovieById"
	OpGetByTitle = "getMovieByTitle"
)

// Error describes a failed catalog call. Kind is services.ErrNetwork or
// services.ErrParse.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, op, message string, cause error) *Error {
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  services.Wrap(kind, "omdb", op, message, cause),
	}
}

func networkError(op string, cause error, format string, args ...any) *Error {
	return newError(services.ErrNetwork, op, fmt.Sprintf(format, args...), cause)
}

func parseError(op string, cause error) *Error {
	return newError(services.ErrParse, op, "invalid JSON", cause)
}
