package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/irreptables/internal/numeric"
	"github.com/roach88/irreptables/internal/source"
	"github.com/roach88/irreptables/internal/store"
	"github.com/roach88/irreptables/internal/table"
	"github.com/roach88/irreptables/internal/testutil"
)

// scenarioBatch is the batch ID the catalog assertion stores tables under.
const scenarioBatch = "scenario-batch"

// Harness is the test execution engine.
// It loads the scenario table and evaluates assertions against it, with a
// fresh in-memory catalog for catalog assertions.
type Harness struct {
	store  *store.Store
	loader *source.Loader
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory catalog for isolation.
//
// Execution flow:
// 1. Create fresh in-memory catalog
// 2. Load the table from its file or inline text
// 3. Evaluate assertions, or match the load error against an error assertion
// 4. Return result with pass/fail, serialized table, and errors
//
// A failed load is a scenario failure, not a Run error. Run only returns an
// error when the harness itself cannot be set up.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewFixedIDGenerator(scenarioBatch)),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		loader: source.NewLoader("", source.WithLogger(logger)),
		logger: logger,
	}

	result := NewResult()
	tbl, loadErr := h.load(ctx, scenario)

	if expected, ok := expectedError(scenario); ok {
		if err := assertError(loadErr, expected); err != nil {
			result.AddError(err.Error())
		}
		if loadErr != nil {
			result.LoadError = ErrorCode(loadErr)
		} else {
			result.Table = tbl
			result.setText(tbl)
		}
		return result, nil
	}

	if loadErr != nil {
		result.LoadError = ErrorCode(loadErr)
		result.AddError(fmt.Sprintf("load failed: %v", loadErr))
		return result, nil
	}

	result.Table = tbl
	result.setText(tbl)

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(tbl, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// load reads the scenario table from inline text or through the loader.
func (h *Harness) load(ctx context.Context, scenario *Scenario) (*table.Table, error) {
	if scenario.Text != "" {
		r := strings.NewReader(scenario.Text)
		if scenario.Legacy {
			return table.ReadLegacy(r, scenario.Number, scenario.Spinor, table.WithLogger(h.logger))
		}
		return table.ReadUser(r, scenario.Number, scenario.Spinor, table.WithLogger(h.logger))
	}
	return h.loader.Load(ctx, scenario.Number, scenario.Spinor, source.LoadOptions{
		Path:   scenario.Table,
		Legacy: scenario.Legacy,
	})
}

// setText stores the user serialization of tbl. A table that cannot be
// written fails the scenario.
func (r *Result) setText(tbl *table.Table) {
	var sb strings.Builder
	if _, err := tbl.WriteTo(&sb); err != nil {
		r.AddError(fmt.Sprintf("save failed: %v", err))
		return
	}
	r.Text = sb.String()
}

// expectedError returns the error assertion of a scenario, if any.
func expectedError(scenario *Scenario) (Assertion, bool) {
	for _, a := range scenario.Assertions {
		if a.Type == AssertError {
			return a, true
		}
	}
	return Assertion{}, false
}

// ErrorCode returns the code carried by a table, numeric or source error,
// or "UNKNOWN" for any other error.
func ErrorCode(err error) string {
	var te *table.TableError
	if errors.As(err, &te) {
		return string(te.Code)
	}
	var pe *numeric.ParseError
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	var se *source.SourceError
	if errors.As(err, &se) {
		return string(se.Code)
	}
	return "UNKNOWN"
}
