package epub

import (
	"errors"
	"fmt"
)

var (
	// ErrPackageNotFound means neither a conventional location nor a scan of
	// the book directory produced a package document.
	ErrPackageNotFound = errors.New("epub: package document not found")

	// ErrNoReadableContent means no section survived validation and the
	// directory scans found no markup or text files either.
	ErrNoReadableContent = errors.New("epub: no readable content")

	// ErrFileTooLarge is returned when a resource exceeds the read limit.
	ErrFileTooLarge = errors.New("epub: file too large")
)

// ManifestParseError wraps a failure to decode the package document.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("epub: parse package document %s: %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// FileReadError wraps a failure to read a resource from the book.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("epub: read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
