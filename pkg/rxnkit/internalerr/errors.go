package internalerr

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidPath   = errors.New("invalid classification path")
	ErrMissingKey    = errors.New("missing key")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError reports a malformed line in a flat input file.
type ParseError struct {
	Path    string // empty when parsing from a reader
	Line    int    // 1-based
	Content string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s line %d: %s: %q", e.Path, e.Line, e.Reason, e.Content)
	}
	return fmt.Sprintf("parse line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// MissingFileError reports an expected input file or directory that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing file or directory: %s", e.Path)
}

// Unwrap lets errors.Is(err, fs.ErrNotExist) match.
func (e *MissingFileError) Unwrap() error { return fs.ErrNotExist }

// FromOpen converts a not-exist error from os.Open/os.ReadFile into a
// MissingFileError and wraps anything else with the path.
func FromOpen(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingFileError{Path: path}
	}
	return fmt.Errorf("open %s: %w", path, err)
}

// WithPath stamps a path onto a ParseError produced by a reader-based parser.
func WithPath(path string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Path == "" {
		cp := *pe
		cp.Path = path
		return &cp
	}
	return err
}
