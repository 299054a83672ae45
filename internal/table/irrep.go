package table

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/roach88/irreptables/internal/numeric"
)

// SpinorMarker prefixes the labels of double-group (spinor) irreps.
const SpinorMarker = "-"

// RealityTolerance is the largest imaginary part a character may have and
// still be written as real.
const RealityTolerance = 1e-6

// ErrEndOfRecords signals that a record scan reached the end of its input,
// either because the input was exhausted or because the trailing record was
// incomplete. Scanners treat it as normal termination.
var ErrEndOfRecords = errors.New("end of records")

// Irrep is one irreducible representation of the little group of a
// k-point.
type Irrep struct {
	Label      string
	Dim        int
	Nsym       int
	Reality    bool
	HasUVW     bool // at least one character depends on u, v or w
	KPointName string
	K          [3]float64

	characters map[int]Character
}

// Character returns the character of the little-group operation isym.
func (r Irrep) Character(isym int) (Character, bool) {
	c, ok := r.characters[isym]
	return c, ok
}

// Characters returns a copy of the index → character mapping.
func (r Irrep) Characters() map[int]Character {
	return maps.Clone(r.characters)
}

// Indices returns the little-group indices with a character, ascending.
func (r Irrep) Indices() []int {
	return slices.Sorted(maps.Keys(r.characters))
}

// Values returns every character as a complex number; parameterized
// characters are evaluated at u = v = w = 0.
func (r Irrep) Values() map[int]complex128 {
	out := make(map[int]complex128, len(r.characters))
	for i, c := range r.characters {
		out[i] = c.Value()
	}
	return out
}

// IsSpinor reports whether the irrep belongs to the double group.
func (r Irrep) IsSpinor() bool {
	return strings.HasPrefix(r.Label, SpinorMarker)
}

// KPoint rebuilds the k-point this irrep is attached to, using the indices
// of its characters as the little group.
func (r Irrep) KPoint() KPoint {
	return KPoint{Name: r.KPointName, K: r.K, Isym: r.Indices()}
}

// Format renders the irrep in the user encoding. Characters with a
// significant imaginary part are written as a magnitude block followed by a
// phase block; otherwise only the real parts are written.
func (r Irrep) Format() string {
	idx := r.Indices()
	vals := make([]complex128, len(idx))
	maxImag := 0.0
	for i, isym := range idx {
		vals[i] = r.characters[isym].Value()
		maxImag = math.Max(maxImag, math.Abs(imag(vals[i])))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d    ", r.Label, r.Dim)
	if maxImag > RealityTolerance {
		mags := make([]float64, len(vals))
		phases := make([]float64, len(vals))
		for i, c := range vals {
			mags[i], phases[i] = numeric.ToMagPhase(c)
		}
		sb.WriteString(joinReals(mags, "  "))
		sb.WriteString("   ")
		sb.WriteString(joinReals(phases, "  "))
		return sb.String()
	}
	reals := make([]float64, len(vals))
	for i, c := range vals {
		reals[i] = real(c)
	}
	sb.WriteString(joinReals(reals, "  "))
	return sb.String()
}

// ParseUserIrrep reads an irrep line of the user encoding for the given
// k-point:
//
//	<label> <dim> <chi_1 … chi_n> [<phase_1 … phase_n>]
//
// n is the size of the k-point's little group. The irrep is real when
// exactly n character fields follow the dimension and complex when 2n do.
// The token count is the only reality marker the format has.
// Characters are assigned to indices in the k-point's isym order.
func ParseUserIrrep(line string, kp KPoint) (Irrep, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Irrep{}, newError(ErrCodeMalformedIrrep, "irrep line needs a label and a dimension")
	}
	dim, err := numeric.ParseInt(fields[1], "dim")
	if err != nil {
		return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep %s", fields[0])
	}
	if dim < 1 {
		return Irrep{}, newError(ErrCodeMalformedIrrep, "irrep %s: dimension %d", fields[0], dim)
	}

	n := len(kp.Isym)
	values := fields[2:]
	var reality bool
	switch len(values) {
	case n:
		reality = true
	case 2 * n:
		reality = false
	default:
		return Irrep{}, newError(ErrCodeMalformedIrrep,
			"irrep %s: expected %d or %d character fields for k-point %s, got %d",
			fields[0], n, 2*n, kp.Name, len(values))
	}

	irr := Irrep{
		Label:      fields[0],
		Dim:        dim,
		Nsym:       n,
		Reality:    reality,
		KPointName: kp.Name,
		K:          kp.K,
		characters: make(map[int]Character, n),
	}
	for i, isym := range kp.Isym {
		field := fmt.Sprintf("chi[%d]", isym)
		var c complex128
		if reality {
			v, err := numeric.ParseReal(values[i], field)
			if err != nil {
				return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep %s", irr.Label)
			}
			c = complex(v, 0)
		} else {
			c, err = numeric.ParseComplex(values[i], values[n+i], field)
			if err != nil {
				return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep %s", irr.Label)
			}
		}
		irr.characters[isym] = ConstantCharacter(c)
	}
	if len(irr.characters) != n {
		return Irrep{}, newError(ErrCodeIrrepCountMismatch,
			"irrep %s: %d characters for %d little-group indices of k-point %s",
			irr.Label, len(irr.characters), n, kp.Name)
	}
	return irr, nil
}

// machineHeaderFields is the field count of a legacy irrep header line.
const machineHeaderFields = 9

// ReadMachineIrrep reads one irrep record of the legacy encoding from c.
// nsymGroup is the operation count of the table header, which lists every
// operation together with its time-reversal partner; only the first half of
// the slots is kept.
//
// A record starts with a header line
//
//	k1 k2 k3 rkmk label dim nsym kpname reality
//
// followed, for each of the nsymGroup slots, by "<isym> <0|1>" and, when
// the operation belongs to the little group, dim×dim pairs of lines: the
// kind ("1" constant, "2" depends on u, v, w) and the term coefficients.
// Only diagonal entries contribute to the character. The separator line
// that follows a record is consumed with it.
//
// It returns an error wrapping ErrEndOfRecords when no complete record is
// left.
func ReadMachineIrrep(c *LineCursor, nsymGroup int) (Irrep, error) {
	c.SkipBlank()
	line, ok := c.Next()
	if !ok {
		return Irrep{}, ErrEndOfRecords
	}
	header := strings.Fields(line)
	if len(header) < machineHeaderFields {
		return Irrep{}, fmt.Errorf("%w: line %d: short irrep header %q", ErrEndOfRecords, c.Line(), strings.TrimSpace(line))
	}
	headerLine := c.Line()

	irr, err := parseMachineHeader(header)
	if err != nil {
		return Irrep{}, atLine(err, headerLine)
	}

	chars := make(map[int]Character)
	for isym := 1; isym <= nsymGroup; isym++ {
		slot, ok := c.Next()
		if !ok {
			return Irrep{}, fmt.Errorf("%w: irrep %s truncated at slot %d", ErrEndOfRecords, irr.Label, isym)
		}
		present, err := parseSlot(slot, isym)
		if err != nil {
			return Irrep{}, atLine(err, c.Line())
		}
		if !present {
			continue
		}

		var terms []Term
		for i := 0; i < irr.Dim; i++ {
			for j := 0; j < irr.Dim; j++ {
				kind, ok1 := c.Next()
				coeffs, ok2 := c.Next()
				if !ok1 || !ok2 {
					return Irrep{}, fmt.Errorf("%w: irrep %s truncated in slot %d", ErrEndOfRecords, irr.Label, isym)
				}
				if i != j {
					continue
				}
				param, err := parseTermKind(kind)
				if err != nil {
					return Irrep{}, atLine(err, c.Line()-1)
				}
				if param {
					irr.HasUVW = true
				}
				term, err := parseTerm(coeffs)
				if err != nil {
					return Irrep{}, atLine(err, c.Line())
				}
				terms = append(terms, term)
			}
		}
		if 2*isym <= nsymGroup {
			chars[isym] = ParameterizedCharacter(NewCharacterFunction(terms))
		}
	}

	if !irr.HasUVW {
		for isym, ch := range chars {
			chars[isym] = ch.reduce()
		}
	}
	irr.characters = chars

	// One line separates a record from the next. It is skipped whatever it
	// holds, unless it already is the next record's header.
	if next, ok := c.Peek(); ok && len(strings.Fields(next)) < machineHeaderFields {
		c.Next()
	}

	if len(chars) != irr.Nsym {
		return Irrep{}, &TableError{
			Code:    ErrCodeIrrepCountMismatch,
			Message: fmt.Sprintf("irrep %s: %d characters retained, header declares %d", irr.Label, len(chars), irr.Nsym),
			Line:    headerLine,
		}
	}
	return irr, nil
}

func parseMachineHeader(header []string) (Irrep, error) {
	var irr Irrep
	for i := 0; i < 3; i++ {
		v, err := numeric.ParseReal(header[i], fmt.Sprintf("k[%d]", i))
		if err != nil {
			return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep header")
		}
		irr.K[i] = v
	}
	irr.Label = header[4]
	dim, err := numeric.ParseInt(header[5], "dim")
	if err != nil {
		return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep %s", irr.Label)
	}
	if dim < 1 {
		return Irrep{}, newError(ErrCodeMalformedIrrep, "irrep %s: dimension %d", irr.Label, dim)
	}
	irr.Dim = dim
	nsym, err := numeric.ParseInt(header[6], "nsym")
	if err != nil {
		return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep %s", irr.Label)
	}
	irr.Nsym = nsym / 2
	irr.KPointName = header[7]
	reality, err := numeric.ParseInt(header[8], "reality")
	if err != nil {
		return Irrep{}, wrapError(ErrCodeMalformedIrrep, err, "irrep %s", irr.Label)
	}
	irr.Reality = reality != 0
	return irr, nil
}

func parseSlot(line string, isym int) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return false, newError(ErrCodeMalformedIrrep, "slot %d: expected \"<isym> <flag>\", got %q", isym, strings.TrimSpace(line))
	}
	idx, err := numeric.ParseInt(fields[0], "isym")
	if err != nil {
		return false, wrapError(ErrCodeMalformedIrrep, err, "slot %d", isym)
	}
	if idx != isym {
		return false, newError(ErrCodeMalformedIrrep, "slot %d: found index %d", isym, idx)
	}
	flag, err := numeric.ParseInt(fields[1], "presence")
	if err != nil {
		return false, wrapError(ErrCodeMalformedIrrep, err, "slot %d", isym)
	}
	switch flag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newError(ErrCodeMalformedIrrep, "slot %d: presence flag must be 0 or 1, got %d", isym, flag)
	}
}

func parseTermKind(line string) (bool, error) {
	switch strings.TrimSpace(line) {
	case "1":
		return false, nil
	case "2":
		return true, nil
	default:
		return false, newError(ErrCodeMalformedIrrep, "term kind must be 1 or 2, got %q", strings.TrimSpace(line))
	}
}

// parseTerm reads "coefficient [e0 [e1 [e2 [e3]]]]"; missing exponents are 0.
func parseTerm(line string) (Term, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || len(fields) > 5 {
		return Term{}, newError(ErrCodeMalformedIrrep, "term needs 1 to 5 numbers, got %d", len(fields))
	}
	var t Term
	coef, err := numeric.ParseReal(fields[0], "coefficient")
	if err != nil {
		return Term{}, wrapError(ErrCodeMalformedIrrep, err, "term")
	}
	t.Coefficient = coef
	for i, tok := range fields[1:] {
		v, err := numeric.ParseReal(tok, fmt.Sprintf("exponent[%d]", i))
		if err != nil {
			return Term{}, wrapError(ErrCodeMalformedIrrep, err, "term")
		}
		t.Exponents[i] = v
	}
	return t, nil
}
