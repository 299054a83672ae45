package table

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes table parse and consistency errors.
type ErrorCode string

const (
	// ErrCodeMalformedOperation indicates a symmetry-operation line with the
	// wrong number or kind of tokens.
	ErrCodeMalformedOperation ErrorCode = "MALFORMED_OPERATION_LINE"

	// ErrCodeMalformedKPoint indicates a k-point line without the "kpoint"
	// marker or with unreadable fields.
	ErrCodeMalformedKPoint ErrorCode = "MALFORMED_KPOINT_LINE"

	// ErrCodeMalformedIrrep indicates an irrep record that cannot be read.
	ErrCodeMalformedIrrep ErrorCode = "MALFORMED_IRREP_RECORD"

	// ErrCodeUnexpectedSeparator indicates the legacy "#" separator is missing.
	ErrCodeUnexpectedSeparator ErrorCode = "UNEXPECTED_SEPARATOR"

	// ErrCodeInconsistentHeader indicates header fields that are missing or
	// disagree with the requested space group.
	ErrCodeInconsistentHeader ErrorCode = "INCONSISTENT_HEADER"

	// ErrCodeIrrepCountMismatch indicates an irrep whose retained character
	// count differs from its declared nsym.
	ErrCodeIrrepCountMismatch ErrorCode = "IRREP_COUNT_MISMATCH"

	// ErrCodeTruncatedSymmetries indicates the input ended inside the
	// symmetry block.
	ErrCodeTruncatedSymmetries ErrorCode = "TRUNCATED_SYMMETRIES"

	// ErrCodeInconsistentKPoint indicates two k-points sharing a name but not
	// coordinates or little group, or indices outside 1..nsym.
	ErrCodeInconsistentKPoint ErrorCode = "INCONSISTENT_KPOINT"
)

// TableError reports a structural problem in a table. Numeric failures are
// carried in Err as a *numeric.ParseError.
type TableError struct {
	Code    ErrorCode
	Message string
	Line    int // 1-based input line, 0 when not tied to the input
	Err     error
}

func (e *TableError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Code, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// IsCode returns true if err is, or wraps, a *TableError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var te *TableError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func newError(code ErrorCode, format string, args ...any) *TableError {
	return &TableError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, err error, format string, args ...any) *TableError {
	return &TableError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// atLine stamps a line number on err if it is a *TableError without one.
func atLine(err error, line int) error {
	var te *TableError
	if errors.As(err, &te) && te.Line == 0 {
		cp := *te
		cp.Line = line
		return &cp
	}
	return err
}
