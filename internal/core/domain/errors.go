package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyDocument     = errors.New("empty document")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrModelUnavailable  = errors.New("scoring model unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
