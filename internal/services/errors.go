package services

import (
	"errors"
	"fmt"
	"strings"
)

// Failure markers for errors.Is classification. Absent records are reported
// as nil/false values, never as errors.
var (
	ErrNetwork    = errors.New("network error")
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
)

// Wrap builds an error message that includes component and operation context
// while tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStorage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsExternal reports whether err originated from the external catalog
// boundary (transport or payload failure).
func IsExternal(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrParse)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
