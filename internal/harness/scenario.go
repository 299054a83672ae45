package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario loads one table, either from a file or from inline text, and
// asserts on the parsed result or on the error the parse produced.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table is the path of the table file to load.
	// Relative paths are resolved against the scenario file location.
	Table string `yaml:"table,omitempty"`

	// Text is an inline table, used instead of Table.
	Text string `yaml:"text,omitempty"`

	// Number is the space-group number the table is read as.
	Number int `yaml:"number"`

	// Spinor selects the double-group irreps.
	Spinor bool `yaml:"spinor"`

	// Legacy reads the machine-generated encoding instead of the user one.
	Legacy bool `yaml:"legacy"`

	// Assertions validate the loaded table.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a loaded table.
type Assertion struct {
	// Type specifies the assertion type:
	// - "nsym": the table holds Count operations
	// - "irrep_count": the table holds Count irreps
	// - "labels": the irrep labels equal Labels, in order
	// - "character": irrep Irrep has character Value at operation Isym
	// - "kpoint": the table has a k-point equal to KPoint
	// - "spinor_partition": every label carries the spinor marker iff the table is spinor
	// - "roundtrip": saving and reloading preserves the saved irreps
	// - "schema": the table satisfies the table schema
	// - "catalog": the table survives a catalog store and fetch unchanged
	// - "error": loading fails with error code Code
	Type string `yaml:"type"`

	// Count is the expected number (used by nsym, irrep_count).
	Count *int `yaml:"count,omitempty"`

	// Labels is the expected label order (used by labels).
	Labels []string `yaml:"labels,omitempty"`

	// Irrep is the irrep label (used by character).
	// KPoint narrows the lookup when a label repeats across k-points.
	Irrep string `yaml:"irrep,omitempty"`

	// Isym is the 1-based operation index (used by character).
	Isym int `yaml:"isym,omitempty"`

	// Value is the expected character as [real, imag] (used by character).
	Value []float64 `yaml:"value,omitempty"`

	// UVW are the parameters a parameterized character is evaluated at.
	UVW []float64 `yaml:"uvw,omitempty"`

	// Tolerance bounds the character comparison. Defaults to DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// KPoint is a k-point body such as "GM : 0 0 0 : 1 2" (used by kpoint),
	// or a k-point name (used by character).
	KPoint string `yaml:"kpoint,omitempty"`

	// Code is the expected error code (used by error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertNsym            = "nsym"
	AssertIrrepCount      = "irrep_count"
	AssertLabels          = "labels"
	AssertCharacter       = "character"
	AssertKPoint          = "kpoint"
	AssertSpinorPartition = "spinor_partition"
	AssertRoundTrip       = "roundtrip"
	AssertSchema          = "schema"
	AssertCatalog         = "catalog"
	AssertError           = "error"
)

// DefaultTolerance is the character comparison tolerance when an assertion
// does not set one.
const DefaultTolerance = 1e-6

// LoadScenario reads and parses a scenario YAML file.
// Table paths are resolved relative to the directory of the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the table path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the table path BEFORE validation
	if scenario.Table != "" && !filepath.IsAbs(scenario.Table) && basePath != "" {
		scenario.Table = filepath.Join(basePath, scenario.Table)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Number < 1 || s.Number > 230 {
		return fmt.Errorf("number must be in 1..230, got %d", s.Number)
	}

	switch {
	case s.Table == "" && s.Text == "":
		return fmt.Errorf("one of table or text is required")
	case s.Table != "" && s.Text != "":
		return fmt.Errorf("table and text are mutually exclusive")
	}

	if s.Table != "" {
		if _, err := os.Stat(s.Table); os.IsNotExist(err) {
			return fmt.Errorf("table file not found: %s", s.Table)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	expectsError := false
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
		if assertion.Type == AssertError {
			expectsError = true
		}
	}

	if expectsError && len(s.Assertions) > 1 {
		return fmt.Errorf("an error assertion must be the only assertion")
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertNsym, AssertIrrepCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertLabels:
		if a.Labels == nil {
			return fmt.Errorf("assertions[%d]: labels is required for labels", index)
		}
	case AssertCharacter:
		if a.Irrep == "" {
			return fmt.Errorf("assertions[%d]: irrep is required for character", index)
		}
		if a.Isym < 1 {
			return fmt.Errorf("assertions[%d]: isym must be positive for character", index)
		}
		if len(a.Value) != 2 {
			return fmt.Errorf("assertions[%d]: value must be [real, imag] for character", index)
		}
		if len(a.UVW) != 0 && len(a.UVW) != 3 {
			return fmt.Errorf("assertions[%d]: uvw must hold three values", index)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertKPoint:
		if a.KPoint == "" {
			return fmt.Errorf("assertions[%d]: kpoint is required for kpoint", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	case AssertSpinorPartition, AssertRoundTrip, AssertSchema, AssertCatalog:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
