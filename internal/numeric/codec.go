package numeric

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// Precision is the number of fractional digits written by FormatReal.
const Precision = 12

// zeroThreshold is half a unit in the last written digit; anything smaller
// is written as a plain 0 so that rounding noise never yields "-0".
const zeroThreshold = 5e-13

// FormatReal renders x in the table convention: fixed-point, Precision
// fractional digits, trailing zeros removed.
func FormatReal(x float64) string {
	if math.Abs(x) < zeroThreshold {
		return "0"
	}
	s := strconv.FormatFloat(x, 'f', Precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// ParseReal parses a real-valued token. field names the value for error
// reporting.
func ParseReal(token, field string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, newParseError(token, field, err)
	}
	return v, nil
}

// ParseInt parses an integer-valued token.
func ParseInt(token, field string) (int, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, newParseError(token, field, err)
	}
	return v, nil
}

// FromMagPhase returns mag·exp(iπ·phase).
func FromMagPhase(mag, phase float64) complex128 {
	return complex(mag, 0) * cmplx.Exp(complex(0, math.Pi*phase))
}

// ToMagPhase splits c into its magnitude and its phase in units of π.
// The phase lies in (-1, 1].
func ToMagPhase(c complex128) (mag, phase float64) {
	return cmplx.Abs(c), cmplx.Phase(c) / math.Pi
}

// ParseComplex reads a complex number from a magnitude token and a phase
// token.
func ParseComplex(magToken, phaseToken, field string) (complex128, error) {
	mag, err := ParseReal(magToken, field+".mag")
	if err != nil {
		return 0, err
	}
	phase, err := ParseReal(phaseToken, field+".phase")
	if err != nil {
		return 0, err
	}
	return FromMagPhase(mag, phase), nil
}

// FormatMagPhase renders c as two tokens, magnitude then phase.
func FormatMagPhase(c complex128) (string, string) {
	mag, phase := ToMagPhase(c)
	return FormatReal(mag), FormatReal(phase)
}
