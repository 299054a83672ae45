package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreptables/internal/numeric"
	"github.com/roach88/irreptables/internal/testutil"
)

func cursorOf(text string) *LineCursor {
	lines, _ := ReadLines(strings.NewReader(text))
	return NewLineCursor(lines)
}

func TestReadMachineIrrep_KeepsFirstHalf(t *testing.T) {
	rec := testutil.LegacyIrrep{
		Label: "GM2", Dim: 1, KPoint: "GM", Real: true,
		Slots: testutil.Reals(1, -1, 1, -1),
	}

	irr, err := ReadMachineIrrep(cursorOf(rec.String()), 4)
	require.NoError(t, err)

	assert.Equal(t, "GM2", irr.Label)
	assert.Equal(t, 2, irr.Nsym)
	assert.Equal(t, []int{1, 2}, irr.Indices())
	assert.False(t, irr.HasUVW)
	assert.True(t, irr.Reality)
	assert.False(t, irr.IsSpinor())

	vals := irr.Values()
	assert.InDelta(t, 1, real(vals[1]), 1e-12)
	assert.InDelta(t, -1, real(vals[2]), 1e-12)
	for _, isym := range irr.Indices() {
		c, _ := irr.Character(isym)
		assert.False(t, c.IsParameterized())
	}
}

func TestReadMachineIrrep_DiagonalOnly(t *testing.T) {
	slot := testutil.LegacySlot{Present: true, Entries: []testutil.LegacyEntry{
		testutil.Constant(1, 0), testutil.Constant(7, 0),
		testutil.Constant(7, 0), testutil.Constant(1, 0),
	}}
	rec := testutil.LegacyIrrep{
		Label: "-GM5", Dim: 2, KPoint: "GM",
		Slots: []testutil.LegacySlot{slot, slot},
	}

	irr, err := ReadMachineIrrep(cursorOf(rec.String()), 2)
	require.NoError(t, err)

	assert.True(t, irr.IsSpinor())
	assert.Equal(t, []int{1}, irr.Indices())
	assert.InDelta(t, 2, real(irr.Values()[1]), 1e-12)
}

func TestReadMachineIrrep_Parameterized(t *testing.T) {
	rec := testutil.LegacyIrrep{
		K: [3]float64{0, 0, 0.25}, Label: "LD1", Dim: 1, KPoint: "LD", Real: true,
		Slots: []testutil.LegacySlot{
			testutil.Diagonal(testutil.Param(1, 0, 0, 0, 1)),
			testutil.Diagonal(testutil.Constant(1, 0)),
		},
	}

	irr, err := ReadMachineIrrep(cursorOf(rec.String()), 2)
	require.NoError(t, err)

	assert.True(t, irr.HasUVW)
	c, ok := irr.Character(1)
	require.True(t, ok)
	assert.True(t, c.IsParameterized())
	assert.InDelta(t, 1, real(c.Evaluate(0, 0, 0)), 1e-12)
	assert.InDelta(t, -1, real(c.Evaluate(0, 0, 1)), 1e-12)
}

func TestReadMachineIrrep_AbsentSlots(t *testing.T) {
	rec := testutil.LegacyIrrep{
		K: [3]float64{0.5, 0, 0}, Label: "X1", Dim: 1, KPoint: "X", Real: true,
		Slots: []testutil.LegacySlot{
			testutil.Diagonal(testutil.Constant(1, 0)), testutil.Absent(),
			testutil.Diagonal(testutil.Constant(1, 0)), testutil.Absent(),
		},
	}

	irr, err := ReadMachineIrrep(cursorOf(rec.String()), 4)
	require.NoError(t, err)
	assert.Equal(t, 1, irr.Nsym)
	assert.Equal(t, []int{1}, irr.Indices())
	assert.Equal(t, KPoint{Name: "X", K: [3]float64{0.5, 0, 0}, Isym: []int{1}}, irr.KPoint())
}

func TestReadMachineIrrep_CountMismatch(t *testing.T) {
	rec := testutil.LegacyIrrep{
		Label: "GM1", Dim: 1, KPoint: "GM", Real: true,
		Slots:     testutil.Reals(1, 1, 1, 1),
		NsymField: 2,
	}

	_, err := ReadMachineIrrep(cursorOf(rec.String()), 4)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeIrrepCountMismatch))
	assert.False(t, errors.Is(err, ErrEndOfRecords))
}

func TestReadMachineIrrep_EndOfRecords(t *testing.T) {
	full := testutil.LegacyIrrep{
		Label: "GM1", Dim: 1, KPoint: "GM", Real: true,
		Slots: testutil.Reals(1, 1),
	}.String()
	lines := strings.Split(strings.TrimRight(full, "\n"), "\n")

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n"},
		{"short header", "0 0 0 0 GM1 1 2\n"},
		{"truncated slot list", strings.Join(lines[:3], "\n")},
		{"truncated matrix", strings.Join(lines[:len(lines)-1], "\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMachineIrrep(cursorOf(tt.text), 2)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEndOfRecords))
		})
	}
}

func TestReadMachineIrrep_MalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bad dimension", "0 0 0 0 GM1 one 2 GM 1\n1 1\n1\n1 0\n"},
		{"slot index out of order", "0 0 0 0 GM1 1 2 GM 1\n2 1\n1\n1 0\n"},
		{"bad presence flag", "0 0 0 0 GM1 1 2 GM 1\n1 3\n1\n1 0\n"},
		{"bad term kind", "0 0 0 0 GM1 1 2 GM 1\n1 1\n3\n1 0\n"},
		{"bad coefficient", "0 0 0 0 GM1 1 2 GM 1\n1 1\n1\none 0\n"},
		{"too many numbers", "0 0 0 0 GM1 1 2 GM 1\n1 1\n1\n1 0 0 0 0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMachineIrrep(cursorOf(tt.text), 1)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrEndOfRecords))
			assert.True(t, IsCode(err, ErrCodeMalformedIrrep))

			var te *TableError
			require.True(t, errors.As(err, &te))
			assert.Positive(t, te.Line)
		})
	}
}

func TestReadMachineIrrep_NumericErrorIsWrapped(t *testing.T) {
	_, err := ReadMachineIrrep(cursorOf("0 0 0 0 GM1 1 2 GM 1\n1 1\n1\n1 zero\n"), 1)
	require.Error(t, err)
	assert.True(t, numeric.IsParseError(err))
}

func TestParseUserIrrep_Real(t *testing.T) {
	kp := KPoint{Name: "GM", Isym: []int{1, 2, 4}}

	irr, err := ParseUserIrrep("GM2 1    1  -1  1", kp)
	require.NoError(t, err)

	assert.True(t, irr.Reality)
	assert.Equal(t, 3, irr.Nsym)
	assert.Equal(t, []int{1, 2, 4}, irr.Indices())
	assert.InDelta(t, -1, real(irr.Values()[2]), 1e-12)
	assert.Equal(t, kp.Name, irr.KPointName)
}

func TestParseUserIrrep_Complex(t *testing.T) {
	kp := KPoint{Name: "Z", K: [3]float64{0, 0, 0.5}, Isym: []int{1, 2}}

	irr, err := ParseUserIrrep("Z1 1    1  1   0  0.5", kp)
	require.NoError(t, err)

	assert.False(t, irr.Reality)
	v := irr.Values()[2]
	assert.InDelta(t, 0, real(v), 1e-12)
	assert.InDelta(t, 1, imag(v), 1e-12)
	assert.Equal(t, "Z1 1    1  1   0  0.5", irr.Format())
}

func TestParseUserIrrep_WrongFieldCount(t *testing.T) {
	kp := KPoint{Name: "GM", Isym: []int{1, 2}}

	for _, line := range []string{"GM1", "GM1 1 1", "GM1 1 1 1 1", "GM1 x 1 1", "GM1 0 1 1"} {
		_, err := ParseUserIrrep(line, kp)
		require.Error(t, err, line)
		assert.True(t, IsCode(err, ErrCodeMalformedIrrep), line)
	}
}

func TestParseUserIrrep_RepeatedIndex(t *testing.T) {
	kp := KPoint{Name: "GM", Isym: []int{1, 1, 2}}

	_, err := ParseUserIrrep("GM1 1 1 5 1", kp)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeIrrepCountMismatch), "got %v", err)
}

func TestReadMachineIrrep_ConsumesSeparator(t *testing.T) {
	first := testutil.LegacyIrrep{Label: "GM1", Dim: 1, KPoint: "GM", Real: true, Slots: testutil.Reals(1, 1)}
	second := testutil.LegacyIrrep{Label: "GM2", Dim: 1, KPoint: "GM", Real: true, Slots: testutil.Reals(1, -1)}

	tests := []struct {
		name string
		text string
	}{
		{"blank", first.String() + "\n" + second.String()},
		{"dashes", first.String() + "---\n" + second.String()},
		{"comment", first.String() + "# next record\n" + second.String()},
		{"none", first.String() + second.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursorOf(tt.text)
			irr, err := ReadMachineIrrep(c, 2)
			require.NoError(t, err)
			assert.Equal(t, "GM1", irr.Label)

			irr, err = ReadMachineIrrep(c, 2)
			require.NoError(t, err)
			assert.Equal(t, "GM2", irr.Label)
			assert.True(t, c.Done())
		})
	}
}

func TestIrrep_FormatReal(t *testing.T) {
	kp := KPoint{Name: "GM", Isym: []int{1, 2}}
	irr, err := ParseUserIrrep("-GM5 2 2.0 0.0000000000001", kp)
	require.NoError(t, err)

	assert.Equal(t, "-GM5 2    2  0", irr.Format())
}
