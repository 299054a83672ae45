package source

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes source failures.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no table exists at the resolved location.
	ErrCodeNotFound ErrorCode = "TABLE_NOT_FOUND"

	// ErrCodeFetch indicates the table text could not be downloaded.
	ErrCodeFetch ErrorCode = "FETCH_FAILED"

	// ErrCodeWrite indicates the table text could not be uploaded.
	ErrCodeWrite ErrorCode = "WRITE_FAILED"
)

// SourceError reports a failure to read or write table text at a URL.
// Parse failures are not SourceErrors; they surface as table errors.
type SourceError struct {
	Code ErrorCode
	URL  string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.URL)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is, or wraps, a SourceError for a missing
// table.
func IsNotFound(err error) bool {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNotFound
	}
	return false
}
