package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrUnknownField     = errors.New("unknown field")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrNotSupported     = errors.New("not supported by this tag format")
)

// OpenError is returned when a file cannot be opened or read.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: open: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned for files with no known tag container.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptContainerError is returned when a tag container cannot be decoded.
type CorruptContainerError struct {
	Path   string
	Format string
	Err    error
}

func (e *CorruptContainerError) Error() string {
	return fmt.Sprintf("%s: malformed %s: %v", e.Path, e.Format, e.Err)
}

func (e *CorruptContainerError) Unwrap() error {
	return e.Err
}

// FieldError rejects a single field. It never aborts a whole read or write.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Warning is a non-fatal problem met while reading or writing a file.
type Warning struct {
	Path  string
	Field string
	Err   error
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("%s: %v", w.Path, w.Err)
	}
	return fmt.Sprintf("%s: %s: %v", w.Path, w.Field, w.Err)
}
