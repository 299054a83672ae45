package table

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreptables/internal/testutil"
)

func TestLegacyFileName(t *testing.T) {
	assert.Equal(t, "TabIrrepLittle_225.txt", LegacyFileName(225))
}

func TestReadLegacy_Minimal(t *testing.T) {
	tbl, err := ReadLegacy(strings.NewReader(testutil.MinimalLegacy().String()), 225, false)
	require.NoError(t, err)

	assert.Equal(t, 225, tbl.Number)
	assert.Equal(t, "Fm-3m", tbl.Name)
	assert.Equal(t, 2, tbl.Nsym)
	assert.Equal(t, 1, tbl.NK)
	assert.Len(t, tbl.Symmetries(), 2)

	irreps := tbl.Irreps()
	require.Len(t, irreps, 1)
	assert.Equal(t, "GM1", irreps[0].Label)
	vals := irreps[0].Values()
	assert.Len(t, vals, 2)
	assert.InDelta(t, 1, real(vals[1]), 1e-12)
	assert.InDelta(t, 1, real(vals[2]), 1e-12)
}

func TestReadLegacy_SpinorPartition(t *testing.T) {
	text := testutil.SampleLegacy().String()

	scalar, err := ReadLegacy(strings.NewReader(text), 77, false)
	require.NoError(t, err)
	spinor, err := ReadLegacy(strings.NewReader(text), 77, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"GM1", "GM2", "Z1", "DT1", "LD1", "X1"}, scalar.Labels())
	assert.Equal(t, []string{"-GM5", "-Z3"}, spinor.Labels())
	for _, irr := range scalar.Irreps() {
		assert.False(t, irr.IsSpinor())
	}
	for _, irr := range spinor.Irreps() {
		assert.True(t, irr.IsSpinor())
	}
	assert.Equal(t, 5, scalar.NK)
	assert.Equal(t, scalar.Symmetries(), spinor.Symmetries())
}

func TestReadLegacy_HalvesOperations(t *testing.T) {
	tbl, err := ReadLegacy(strings.NewReader(testutil.SampleLegacy().String()), 77, true)
	require.NoError(t, err)

	ops := tbl.Symmetries()
	require.Len(t, ops, 2)
	assert.Equal(t, [3]float64{0, 0, 0.5}, ops[1].Translation)
	assert.InDelta(t, -1, imag(ops[1].Spinor[0][0]), 1e-12)

	for _, irr := range tbl.Irreps() {
		for _, isym := range irr.Indices() {
			assert.LessOrEqual(t, isym, tbl.Nsym)
		}
	}

	gm5 := tbl.IrrepsAt("GM")
	require.Len(t, gm5, 1)
	assert.Equal(t, 2, gm5[0].Dim)
	assert.InDelta(t, 2, real(gm5[0].Values()[1]), 1e-12)
	assert.InDelta(t, 0, real(gm5[0].Values()[2]), 1e-12)
}

func TestReadLegacy_ParameterizedIrrepKeepsFunction(t *testing.T) {
	tbl, err := ReadLegacy(strings.NewReader(testutil.SampleLegacy().String()), 77, false)
	require.NoError(t, err)

	ld := tbl.IrrepsAt("LD")
	require.Len(t, ld, 1)
	assert.True(t, ld[0].HasUVW)
	c, ok := ld[0].Character(2)
	require.True(t, ok)
	assert.True(t, c.IsParameterized())
	assert.InDelta(t, -1, real(c.Evaluate(0, 0, 1)), 1e-12)
}

func TestReadLegacy_KPoints(t *testing.T) {
	tbl, err := ReadLegacy(strings.NewReader(testutil.SampleLegacy().String()), 77, false)
	require.NoError(t, err)

	var names []string
	for _, kp := range tbl.KPoints() {
		names = append(names, kp.Name)
	}
	assert.Equal(t, []string{"GM", "Z", "DT", "LD", "X"}, names)
}

func TestReadLegacy_TrailingGarbageEndsScan(t *testing.T) {
	lt := testutil.MinimalLegacy()
	lt.Trailer = "0 0 0.5 0 Z1 1\n"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl, err := ReadLegacy(strings.NewReader(lt.String()), 225, false, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, []string{"GM1"}, tbl.Labels())
	assert.Contains(t, logs.String(), "legacy scan finished")
}

func TestReadLegacy_NonBlankSeparator(t *testing.T) {
	want, err := ReadLegacy(strings.NewReader(testutil.SampleLegacy().String()), 77, false)
	require.NoError(t, err)

	lt := testutil.SampleLegacy()
	lt.Separator = "---"
	tbl, err := ReadLegacy(strings.NewReader(lt.String()), 77, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"GM1", "GM2", "Z1", "DT1", "LD1", "X1"}, tbl.Labels())
	assert.Equal(t, want.Labels(), tbl.Labels())
}

func TestReadLegacy_Errors(t *testing.T) {
	minimal := testutil.MinimalLegacy().String()
	lines := strings.Split(minimal, "\n")

	tests := []struct {
		name string
		text string
		code ErrorCode
	}{
		{"empty input", "", ErrCodeInconsistentHeader},
		{"header without name", "4\n", ErrCodeInconsistentHeader},
		{"non-numeric nsym", "four Fm-3m\n", ErrCodeInconsistentHeader},
		{"truncated symmetries", strings.Join(lines[:3], "\n"), ErrCodeTruncatedSymmetries},
		{"short operation", "1 P1\n1 0 0 0 1 0 0 0 1 0 0 0\n#\n1\n", ErrCodeMalformedOperation},
		{"missing separator", strings.Replace(minimal, "\n#\n", "\n%\n", 1), ErrCodeUnexpectedSeparator},
		{"missing NK", strings.Join(lines[:6], "\n"), ErrCodeInconsistentHeader},
		{"bad NK", strings.Replace(minimal, "#\n1\n", "#\nmany\n", 1), ErrCodeInconsistentHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLegacy(strings.NewReader(tt.text), 225, false)
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestReadLegacy_NKWithKey(t *testing.T) {
	text := strings.Replace(testutil.MinimalLegacy().String(), "#\n1\n", "#\nNK=3\n", 1)

	tbl, err := ReadLegacy(strings.NewReader(text), 225, false)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NK)
}

func TestReadLegacy_MalformedRecordIsFatal(t *testing.T) {
	lt := testutil.MinimalLegacy()
	lt.Records[0].NsymField = 6

	_, err := ReadLegacy(strings.NewReader(lt.String()), 225, false)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeIrrepCountMismatch))
}
