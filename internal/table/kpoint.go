package table

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/irreptables/internal/numeric"
)

// KPointTolerance is the largest Euclidean distance between two k vectors
// that are still considered the same point.
const KPointTolerance = 1e-8

// ReservedCoordinates are fractional values used by the wider toolchain to
// mark auxiliary, non-maximal points. K-points carrying any of them are
// never written to a table.
var ReservedCoordinates = []float64{0.123, 0.313, 1.123, 0.877, 0.427, 0.246, 0.687}

const kpointMarker = "kpoint"

// KPoint is a maximal k-point: its label, its direct coordinates and the
// 1-based indices of the operations in its little group.
type KPoint struct {
	Name string
	K    [3]float64
	Isym []int
}

// ParseKPoint reads a k-point header line of the form
//
//	kpoint GM : 0 0 0 : 1 2 3
//
// A line whose first field does not start with the "kpoint" marker is
// rejected with ErrCodeMalformedKPoint; scanners use this to tell k-point
// headers from irrep lines.
func ParseKPoint(line string) (KPoint, error) {
	head, rest, ok := strings.Cut(line, ":")
	if !ok {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "missing ':' separators")
	}
	fields := strings.Fields(head)
	if len(fields) != 2 || fields[0] != kpointMarker {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "first field must be %q followed by a name", kpointMarker)
	}
	return parseKPointFields(fields[1], rest)
}

// ParseKPointBody reads the serialized form produced by Format, which has no
// "kpoint" marker:
//
//	GM : 0 0 0 : 1 2
func ParseKPointBody(line string) (KPoint, error) {
	head, rest, ok := strings.Cut(line, ":")
	if !ok {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "missing ':' separators")
	}
	fields := strings.Fields(head)
	if len(fields) != 1 {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "expected a single name, got %q", strings.TrimSpace(head))
	}
	return parseKPointFields(fields[0], rest)
}

func parseKPointFields(name, rest string) (KPoint, error) {
	coords, isymField, ok := strings.Cut(rest, ":")
	if !ok {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "k-point %s: missing little-group field", name)
	}
	kp := KPoint{Name: name}

	ks := strings.Fields(coords)
	if len(ks) != 3 {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "k-point %s: expected 3 coordinates, got %d", name, len(ks))
	}
	for i, tok := range ks {
		v, err := numeric.ParseReal(tok, fmt.Sprintf("k[%d]", i))
		if err != nil {
			return KPoint{}, wrapError(ErrCodeMalformedKPoint, err, "k-point %s", name)
		}
		kp.K[i] = v
	}

	for _, tok := range strings.Fields(isymField) {
		v, err := numeric.ParseInt(tok, "isym")
		if err != nil {
			return KPoint{}, wrapError(ErrCodeMalformedKPoint, err, "k-point %s", name)
		}
		if slices.Contains(kp.Isym, v) {
			return KPoint{}, newError(ErrCodeMalformedKPoint, "k-point %s: operation index %d listed twice", name, v)
		}
		kp.Isym = append(kp.Isym, v)
	}
	if len(kp.Isym) == 0 {
		return KPoint{}, newError(ErrCodeMalformedKPoint, "k-point %s: empty little group", name)
	}
	return kp, nil
}

// Equal reports whether two k-points have the same name, coordinates within
// KPointTolerance and the same set of little-group indices.
func (k KPoint) Equal(other KPoint) bool {
	if k.Name != other.Name {
		return false
	}
	if distance(k.K, other.K) > KPointTolerance {
		return false
	}
	return slices.Equal(k.sortedIsym(), other.sortedIsym())
}

// Format renders the k-point as "<name> : <k> : <sorted isym>".
func (k KPoint) Format() string {
	isym := k.sortedIsym()
	parts := make([]string, len(isym))
	for i, v := range isym {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s : %s  : %s", k.Name, joinReals(k.K[:], " "), strings.Join(parts, " "))
}

// HasReservedCoordinate reports whether any coordinate equals one of
// ReservedCoordinates.
func (k KPoint) HasReservedCoordinate() bool {
	for _, x := range k.K {
		for _, r := range ReservedCoordinates {
			if math.Abs(x-r) < 1e-9 {
				return true
			}
		}
	}
	return false
}

// hasKPointMarker reports whether line starts with the "kpoint" marker.
func hasKPointMarker(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == kpointMarker
}

// checkRange verifies that every little-group index lies in 1..nsym.
func (k KPoint) checkRange(nsym int) error {
	for _, i := range k.Isym {
		if i < 1 || i > nsym {
			return newError(ErrCodeInconsistentKPoint, "k-point %s: operation index %d outside 1..%d", k.Name, i, nsym)
		}
	}
	return nil
}

func (k KPoint) sortedIsym() []int {
	s := slices.Clone(k.Isym)
	slices.Sort(s)
	return slices.Compact(s)
}

func distance(a, b [3]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
