package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreptables/internal/testutil"
)

func TestRunWithGolden_InlineUserTable(t *testing.T) {
	// Rewriting a user table must reproduce the snapshot of the legacy
	// scenario it was converted from.
	count := 6
	scenario := &Scenario{
		Name:        "sg77_legacy_scalar",
		Description: "Inline user table for P4_2",
		Text:        testutil.SampleUserScalar,
		Number:      77,
		Assertions: []Assertion{
			{Type: AssertIrrepCount, Count: &count},
		},
	}

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestResult_Snapshot(t *testing.T) {
	r := NewResult()
	r.Text = "SG=1\n"
	assert.Equal(t, []byte("SG=1\n"), r.Snapshot())

	r.LoadError = "INCONSISTENT_HEADER"
	assert.Equal(t, []byte("error: INCONSISTENT_HEADER\n"), r.Snapshot())
}
