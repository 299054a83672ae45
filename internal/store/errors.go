package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the catalog has no matching table.
var ErrNotFound = errors.New("table not found in catalog")

// ChecksumError reports a stored body whose checksum no longer matches.
type ChecksumError struct {
	Identity string
	Want     string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: stored %s, computed %s", e.Identity, e.Want, e.Got)
}

// IsChecksumError returns true if err is, or wraps, a *ChecksumError.
func IsChecksumError(err error) bool {
	var ce *ChecksumError
	return errors.As(err, &ce)
}
