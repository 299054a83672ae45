package numeric

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes numeric parse failures.
type ErrorCode string

const (
	// ErrCodeMalformedNumericToken indicates a token that is not a valid number.
	ErrCodeMalformedNumericToken ErrorCode = "MALFORMED_NUMERIC_TOKEN"
)

// ParseError reports a token that could not be read as a number.
type ParseError struct {
	Code  ErrorCode
	Token string // offending token, verbatim
	Field string // logical field being parsed, e.g. "translation[1]"
	Line  int    // 1-based input line, 0 when unknown
	Err   error  // underlying strconv error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: field %s: invalid number %q", e.Code, e.Line, e.Field, e.Token)
	}
	return fmt.Sprintf("%s: field %s: invalid number %q", e.Code, e.Field, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WithLine returns a copy of the error annotated with an input line.
func (e *ParseError) WithLine(line int) *ParseError {
	cp := *e
	cp.Line = line
	return &cp
}

// IsParseError returns true if err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func newParseError(token, field string, err error) *ParseError {
	return &ParseError{
		Code:  ErrCodeMalformedNumericToken,
		Token: token,
		Field: field,
		Err:   err,
	}
}
