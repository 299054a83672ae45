package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreptables/internal/testutil"
)

func loadSample(t *testing.T, spinor bool) *Table {
	t.Helper()
	tbl, err := ReadLegacy(strings.NewReader(testutil.SampleLegacy().String()), 77, spinor)
	require.NoError(t, err)
	return tbl
}

func TestWriteTo_Scalar(t *testing.T) {
	tbl := loadSample(t, false)

	var buf bytes.Buffer
	n, err := tbl.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, testutil.SampleUserScalar, buf.String())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sg77_scal", buf.Bytes())
}

func TestWriteTo_Spinor(t *testing.T) {
	tbl := loadSample(t, true)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sg77_spin", []byte(tbl.String()))
}

func TestSavedKPoints_Filters(t *testing.T) {
	tbl := loadSample(t, false)

	kps, err := tbl.SavedKPoints()
	require.NoError(t, err)

	var names []string
	for _, kp := range kps {
		names = append(names, kp.Name)
	}
	// DT sits on a reserved coordinate and LD depends on u, v, w.
	assert.Equal(t, []string{"GM", "Z", "X"}, names)
}

func TestSavedKPoints_InconsistentName(t *testing.T) {
	text := "SG=1\nname=P1\nnsym=2\nspinor=False\nsymmetries=\n" +
		"1 0 0 0 1 0 0 0 1 0 0 0\n1 0 0 0 1 0 0 0 1 0 0 0\n" +
		"kpoint GM : 0 0 0 : 1 2\nGM1 1 1 1\n" +
		"kpoint GM : 0 0 0.5 : 1 2\nGM2 1 1 1\n"
	tbl, err := ReadUser(strings.NewReader(text), 1, false)
	require.NoError(t, err)

	_, err = tbl.WriteTo(&bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeInconsistentKPoint))
	assert.Empty(t, tbl.String())
}

func TestRoundTrip_LegacyToUser(t *testing.T) {
	for _, spinor := range []bool{false, true} {
		t.Run(SpinLabel(spinor), func(t *testing.T) {
			orig := loadSample(t, spinor)

			var buf bytes.Buffer
			_, err := orig.WriteTo(&buf)
			require.NoError(t, err)

			back, err := ReadUser(&buf, 77, spinor)
			require.NoError(t, err)

			assert.Equal(t, orig.Name, back.Name)
			assert.Equal(t, orig.Nsym, back.Nsym)
			assertSymmetriesClose(t, orig.Symmetries(), back.Symmetries(), spinor)

			saved, err := orig.SavedKPoints()
			require.NoError(t, err)
			for _, kp := range saved {
				want := orig.IrrepsAt(kp.Name)
				got := back.IrrepsAt(kp.Name)
				require.Len(t, got, len(want), kp.Name)
				for i := range want {
					assert.Equal(t, want[i].Label, got[i].Label)
					assert.Equal(t, want[i].Dim, got[i].Dim)
					assert.True(t, want[i].KPoint().Equal(got[i].KPoint()))
					wantVals, gotVals := want[i].Values(), got[i].Values()
					require.Len(t, gotVals, len(wantVals))
					for isym, w := range wantVals {
						assert.InDelta(t, real(w), real(gotVals[isym]), 1e-6, "%s[%d]", want[i].Label, isym)
						assert.InDelta(t, imag(w), imag(gotVals[isym]), 1e-6, "%s[%d]", want[i].Label, isym)
					}
				}
			}
		})
	}
}

func TestRoundTrip_UserIsStable(t *testing.T) {
	tbl, err := ReadUser(strings.NewReader(testutil.SampleUserSpinor), 77, true)
	require.NoError(t, err)

	first := tbl.String()
	again, err := ReadUser(strings.NewReader(first), 77, true)
	require.NoError(t, err)
	assert.Equal(t, first, again.String())
}

func TestTable_Summary(t *testing.T) {
	tbl := loadSample(t, true)

	summary := tbl.Summary()
	assert.True(t, strings.HasPrefix(summary, "SG 77 P4_2 (spin), 2 operations, 2 irreps\n"))
	assert.Contains(t, summary, "GM -GM5 2 false")
	assert.Contains(t, summary, "Z -Z3 1 false")
}

func assertSymmetriesClose(t *testing.T, want, got []SymmetryOperation, spinor bool) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Rotation, got[i].Rotation)
		assert.Equal(t, want[i].Translation, got[i].Translation)
		if !spinor {
			continue
		}
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				assert.InDelta(t, real(want[i].Spinor[r][c]), real(got[i].Spinor[r][c]), 1e-10)
				assert.InDelta(t, imag(want[i].Spinor[r][c]), imag(got[i].Spinor[r][c]), 1e-10)
			}
		}
	}
}
