package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrValidation        = errors.New("validation failed")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// SourceError reports a data source that could not be read or parsed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrSourceUnavailable for any SourceError.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
