package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where scenario golden files live, relative to the test's
// package directory.
const GoldenDir = "testdata/golden"

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file named after the scenario.
//
// The snapshot is the user-format serialization of the loaded table, or
// "error: <CODE>" when loading failed. Regenerate with:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, result.Snapshot())
}
