package harness

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/roach88/irreptables/internal/schema"
	"github.com/roach88/irreptables/internal/store"
	"github.com/roach88/irreptables/internal/table"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Labels   []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Labels) > 0 {
		fmt.Fprintf(&buf, "\nIrreps: %s\n", strings.Join(e.Labels, " "))
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against a loaded table.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides the catalog for catalog assertions.
func EvaluateAssertions(t *table.Table, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertNsym:
			err = assertNsym(t, assertion)
		case AssertIrrepCount:
			err = assertIrrepCount(t, assertion)
		case AssertLabels:
			err = assertLabels(t, assertion)
		case AssertCharacter:
			err = assertCharacter(t, assertion)
		case AssertKPoint:
			err = assertKPoint(t, assertion)
		case AssertSpinorPartition:
			err = assertSpinorPartition(t)
		case AssertRoundTrip:
			err = CheckRoundTrip(t)
		case AssertSchema:
			err = schema.Check(t)
		case AssertCatalog:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: catalog requires a store", i)
			} else {
				err = assertCatalog(actx.Ctx, actx.Store, t)
			}
		case AssertError:
			err = &AssertionError{
				Type:     AssertError,
				Expected: fmt.Sprintf("load error %s", assertion.Code),
				Actual:   "table loaded",
				Labels:   t.Labels(),
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertNsym(t *table.Table, a Assertion) error {
	if t.Nsym == *a.Count && len(t.Symmetries()) == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertNsym,
		Expected: fmt.Sprintf("%d operations", *a.Count),
		Actual:   fmt.Sprintf("nsym=%d with %d operations", t.Nsym, len(t.Symmetries())),
	}
}

func assertIrrepCount(t *table.Table, a Assertion) error {
	n := len(t.Irreps())
	if n == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertIrrepCount,
		Expected: fmt.Sprintf("%d irreps", *a.Count),
		Actual:   fmt.Sprintf("%d irreps", n),
		Labels:   t.Labels(),
	}
}

func assertLabels(t *table.Table, a Assertion) error {
	got := t.Labels()
	if slices.Equal(got, a.Labels) {
		return nil
	}
	return &AssertionError{
		Type:     AssertLabels,
		Expected: strings.Join(a.Labels, " "),
		Actual:   strings.Join(got, " "),
	}
}

// assertCharacter finds the irrep by label, restricted to a k-point name
// when one is given, and compares its character at isym.
func assertCharacter(t *table.Table, a Assertion) error {
	var (
		irr   table.Irrep
		found bool
	)
	for _, candidate := range t.Irreps() {
		if candidate.Label != a.Irrep {
			continue
		}
		if a.KPoint != "" && candidate.KPointName != a.KPoint {
			continue
		}
		irr, found = candidate, true
		break
	}
	if !found {
		return &AssertionError{
			Type:     AssertCharacter,
			Expected: fmt.Sprintf("irrep %s", a.Irrep),
			Actual:   "not found",
			Labels:   t.Labels(),
		}
	}

	ch, ok := irr.Character(a.Isym)
	if !ok {
		return &AssertionError{
			Type:     AssertCharacter,
			Expected: fmt.Sprintf("%s has a character at isym %d", a.Irrep, a.Isym),
			Actual:   fmt.Sprintf("little group is %v", irr.Indices()),
		}
	}

	var u, v, w float64
	if len(a.UVW) == 3 {
		u, v, w = a.UVW[0], a.UVW[1], a.UVW[2]
	}
	got := ch.Evaluate(u, v, w)
	want := complex(a.Value[0], a.Value[1])

	tol := a.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if cmplx.Abs(got-want) <= tol {
		return nil
	}
	return &AssertionError{
		Type:     AssertCharacter,
		Expected: fmt.Sprintf("%s[%d] = %v", a.Irrep, a.Isym, want),
		Actual:   fmt.Sprintf("%v", got),
	}
}

func assertKPoint(t *table.Table, a Assertion) error {
	want, err := table.ParseKPointBody(a.KPoint)
	if err != nil {
		return fmt.Errorf("assertion kpoint: %w", err)
	}
	var names []string
	for _, kp := range t.KPoints() {
		if kp.Equal(want) {
			return nil
		}
		names = append(names, kp.Format())
	}
	return &AssertionError{
		Type:     AssertKPoint,
		Expected: want.Format(),
		Actual:   fmt.Sprintf("k-points [%s]", strings.Join(names, "; ")),
	}
}

func assertSpinorPartition(t *table.Table) error {
	var wrong []string
	for _, irr := range t.Irreps() {
		if irr.IsSpinor() != t.Spinor {
			wrong = append(wrong, irr.Label)
		}
	}
	if len(wrong) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertSpinorPartition,
		Expected: fmt.Sprintf("only %s irreps", t.SpinLabel()),
		Actual:   fmt.Sprintf("foreign irreps %s", strings.Join(wrong, " ")),
	}
}

// assertCatalog stores the table in the catalog and checks that the stored
// text reads back to the same serialization.
func assertCatalog(ctx context.Context, st *store.Store, t *table.Table) error {
	batch, err := st.NewBatch(ctx, "scenario")
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if _, _, err := st.PutTable(ctx, t, batch); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	back, _, err := st.GetTable(ctx, t.Number, t.Spinor)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if want, got := t.String(), back.String(); want != got {
		return &AssertionError{
			Type:     AssertCatalog,
			Expected: fmt.Sprintf("%d bytes as stored", len(want)),
			Actual:   fmt.Sprintf("%d bytes read back", len(got)),
		}
	}
	return nil
}

// assertError matches a load error against an error assertion.
func assertError(loadErr error, a Assertion) error {
	if loadErr == nil {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("load error %s", a.Code),
			Actual:   "table loaded",
		}
	}
	if code := ErrorCode(loadErr); code != a.Code {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("load error %s", a.Code),
			Actual:   fmt.Sprintf("%s (%v)", code, loadErr),
		}
	}
	return nil
}

// closeEnough compares two complex numbers componentwise.
func closeEnough(a, b complex128, tol float64) bool {
	return math.Abs(real(a)-real(b)) <= tol && math.Abs(imag(a)-imag(b)) <= tol
}
