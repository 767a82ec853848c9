package amazonia

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPlatform is returned when the metadata names a
// satellite/instrument pair outside the supported table.
var ErrUnsupportedPlatform = errors.New("amazonia: unsupported satellite/instrument")

// ParseError reports source metadata that could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("amazonia: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a required metadata attribute that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("amazonia: required metadata field %q is missing", e.Field)
}
