package table

import (
	"fmt"
	"strings"

	"github.com/roach88/irreptables/internal/numeric"
)

const (
	rotationTokens    = 9
	translationTokens = 3
	baseOpTokens      = rotationTokens + translationTokens
	spinorTokens      = 8
	fullOpTokens      = baseOpTokens + spinorTokens
)

// IdentitySpinor is the spinor part of an operation without recorded
// spin-orbit data.
var IdentitySpinor = [2][2]complex128{{1, 0}, {0, 1}}

// SymmetryOperation is one space-group element. Rotation acts on the lattice
// basis vectors, Translation is in direct coordinates and Spinor is the SU(2)
// matrix acting on spinor components.
type SymmetryOperation struct {
	Rotation    [3][3]int
	Translation [3]float64
	Spinor      [2][2]complex128
}

// ParseMachineSymmetry reads a symmetry operation in the legacy encoding:
// nine rotation entries, three translation components, then the four spinor
// entries as interleaved magnitude/phase pairs.
func ParseMachineSymmetry(line string) (SymmetryOperation, error) {
	fields := strings.Fields(line)
	if len(fields) < fullOpTokens {
		return SymmetryOperation{}, newError(ErrCodeMalformedOperation,
			"legacy operation needs %d tokens, got %d", fullOpTokens, len(fields))
	}
	op, err := parseRotationTranslation(fields)
	if err != nil {
		return SymmetryOperation{}, err
	}
	for i := 0; i < 4; i++ {
		c, err := numeric.ParseComplex(fields[baseOpTokens+2*i], fields[baseOpTokens+2*i+1], spinorField(i))
		if err != nil {
			return SymmetryOperation{}, wrapError(ErrCodeMalformedOperation, err, "spinor")
		}
		op.Spinor[i/2][i%2] = c
	}
	return op, nil
}

// ParseUserSymmetry reads a symmetry operation in the user encoding. When
// spinor data is present the four magnitudes come first as a block, followed
// by the four phases. Without spinor data the spinor part is the identity.
func ParseUserSymmetry(line string) (SymmetryOperation, error) {
	fields := strings.Fields(line)
	switch {
	case len(fields) == baseOpTokens:
	case len(fields) >= fullOpTokens:
	default:
		return SymmetryOperation{}, newError(ErrCodeMalformedOperation,
			"operation needs %d or %d tokens, got %d", baseOpTokens, fullOpTokens, len(fields))
	}
	op, err := parseRotationTranslation(fields)
	if err != nil {
		return SymmetryOperation{}, err
	}
	if len(fields) == baseOpTokens {
		op.Spinor = IdentitySpinor
		return op, nil
	}
	for i := 0; i < 4; i++ {
		c, err := numeric.ParseComplex(fields[baseOpTokens+i], fields[baseOpTokens+4+i], spinorField(i))
		if err != nil {
			return SymmetryOperation{}, wrapError(ErrCodeMalformedOperation, err, "spinor")
		}
		op.Spinor[i/2][i%2] = c
	}
	return op, nil
}

func parseRotationTranslation(fields []string) (SymmetryOperation, error) {
	var op SymmetryOperation
	for i := 0; i < rotationTokens; i++ {
		v, err := numeric.ParseInt(fields[i], fmt.Sprintf("rotation[%d][%d]", i/3, i%3))
		if err != nil {
			return SymmetryOperation{}, wrapError(ErrCodeMalformedOperation, err, "rotation")
		}
		op.Rotation[i/3][i%3] = v
	}
	for i := 0; i < translationTokens; i++ {
		v, err := numeric.ParseReal(fields[rotationTokens+i], fmt.Sprintf("translation[%d]", i))
		if err != nil {
			return SymmetryOperation{}, wrapError(ErrCodeMalformedOperation, err, "translation")
		}
		op.Translation[i] = v
	}
	return op, nil
}

func spinorField(i int) string {
	return fmt.Sprintf("spinor[%d][%d]", i/2, i%2)
}

// Format writes the operation in the user encoding: rotation row by row,
// translation, then, if includeSpinor, the magnitude block and the phase
// block of the flattened spinor matrix.
func (s SymmetryOperation) Format(includeSpinor bool) string {
	var sb strings.Builder
	for i, row := range s.Rotation {
		if i > 0 {
			sb.WriteString("   ")
		}
		fmt.Fprintf(&sb, "%d %d %d", row[0], row[1], row[2])
	}
	sb.WriteString("     ")
	sb.WriteString(joinReals(s.Translation[:], " "))
	if !includeSpinor {
		return sb.String()
	}

	mags := make([]float64, 0, 4)
	phases := make([]float64, 0, 4)
	for _, row := range s.Spinor {
		for _, c := range row {
			m, p := numeric.ToMagPhase(c)
			mags = append(mags, m)
			phases = append(phases, p)
		}
	}
	sb.WriteString("      ")
	sb.WriteString(joinReals(mags, "  "))
	sb.WriteString("    ")
	sb.WriteString(joinReals(phases, "  "))
	return sb.String()
}

func joinReals(xs []float64, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = numeric.FormatReal(x)
	}
	return strings.Join(parts, sep)
}
