package harness

import (
	"bytes"
	"fmt"
	"math"

	"github.com/roach88/irreptables/internal/table"
)

// Round-trip tolerances. Characters and translations pass through the
// 12-decimal user encoding; spinor matrices are rebuilt from magnitude and
// phase.
const (
	CharacterTolerance   = 1e-6
	TranslationTolerance = 1e-6
	SpinorTolerance      = 1e-10
)

// CheckRoundTrip saves t in the user encoding, reads it back and checks
// that the header, the operations and every saved irrep survive. Irreps
// that WriteTo filters out are not compared.
func CheckRoundTrip(t *table.Table) error {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return fmt.Errorf("roundtrip: save: %w", err)
	}
	back, err := table.ReadUser(&buf, t.Number, t.Spinor)
	if err != nil {
		return fmt.Errorf("roundtrip: reload: %w", err)
	}

	mismatch := func(expected, actual string) error {
		return &AssertionError{Type: AssertRoundTrip, Expected: expected, Actual: actual}
	}

	if back.Name != t.Name || back.Nsym != t.Nsym {
		return mismatch(fmt.Sprintf("%s nsym=%d", t.Name, t.Nsym), fmt.Sprintf("%s nsym=%d", back.Name, back.Nsym))
	}

	want, got := t.Symmetries(), back.Symmetries()
	if len(want) != len(got) {
		return mismatch(fmt.Sprintf("%d operations", len(want)), fmt.Sprintf("%d operations", len(got)))
	}
	for i := range want {
		if want[i].Rotation != got[i].Rotation || !sameTranslation(want[i].Translation, got[i].Translation) {
			return mismatch(want[i].Format(false), got[i].Format(false))
		}
		if !t.Spinor {
			continue
		}
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				if !closeEnough(want[i].Spinor[r][c], got[i].Spinor[r][c], SpinorTolerance) {
					return mismatch(want[i].Format(true), got[i].Format(true))
				}
			}
		}
	}

	saved, err := t.SavedKPoints()
	if err != nil {
		return fmt.Errorf("roundtrip: %w", err)
	}
	for _, kp := range saved {
		if err := compareIrreps(t.IrrepsAt(kp.Name), back.IrrepsAt(kp.Name)); err != nil {
			return err
		}
	}
	return nil
}

// sameTranslation compares translations component by component within
// TranslationTolerance.
func sameTranslation(a, b [3]float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > TranslationTolerance {
			return false
		}
	}
	return true
}

func compareIrreps(want, got []table.Irrep) error {
	if len(want) != len(got) {
		return &AssertionError{
			Type:     AssertRoundTrip,
			Expected: fmt.Sprintf("%d irreps", len(want)),
			Actual:   fmt.Sprintf("%d irreps", len(got)),
		}
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.Label != g.Label || w.Dim != g.Dim || !w.KPoint().Equal(g.KPoint()) {
			return &AssertionError{
				Type:     AssertRoundTrip,
				Expected: fmt.Sprintf("%s dim %d at %s", w.Label, w.Dim, w.KPoint().Format()),
				Actual:   fmt.Sprintf("%s dim %d at %s", g.Label, g.Dim, g.KPoint().Format()),
			}
		}
		wantVals, gotVals := w.Values(), g.Values()
		for isym, wv := range wantVals {
			gv, ok := gotVals[isym]
			if !ok || !closeEnough(wv, gv, CharacterTolerance) {
				return &AssertionError{
					Type:     AssertRoundTrip,
					Expected: fmt.Sprintf("%s[%d] = %v", w.Label, isym, wv),
					Actual:   fmt.Sprintf("%v (present: %t)", gv, ok),
				}
			}
		}
	}
	return nil
}
