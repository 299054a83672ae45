package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/irreptables/internal/harness"
	"github.com/roach88/irreptables/internal/schema"
	"github.com/roach88/irreptables/internal/table"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	TableFlags
}

// CheckResult holds the check command output.
type CheckResult struct {
	Number     int                `json:"sg"`
	Spinor     bool               `json:"spinor"`
	Valid      bool               `json:"valid"`
	Violations []schema.Violation `json:"violations,omitempty"`
	RoundTrip  string             `json:"roundtrip,omitempty"` // failure message, empty on success
}

func (r CheckResult) String() string {
	var sb strings.Builder
	status := "ok"
	if !r.Valid {
		status = "FAILED"
	}
	fmt.Fprintf(&sb, "SG %d (%s): %s", r.Number, table.SpinLabel(r.Spinor), status)
	for _, v := range r.Violations {
		fmt.Fprintf(&sb, "\n  schema: %s: %s", v.Path, v.Message)
	}
	if r.RoundTrip != "" {
		fmt.Fprintf(&sb, "\n  roundtrip: %s", strings.TrimSpace(r.RoundTrip))
	}
	return sb.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <sg>",
		Short: "Check a table against the schema and the round trip",
		Long: `Load a table, validate it against the structural schema, then save it in
the user format, read it back and compare the saved irreps.

Exit codes:
  0 - Table is valid
  1 - Schema violation or lossy round trip
  2 - Command error (table not found, etc.)

Examples:
  irreptables check 77
  irreptables check 77 --legacy --spinor --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	addTableFlags(cmd, &opts.TableFlags)

	return cmd
}

func runCheck(opts *CheckOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	number, err := parseNumber(arg)
	if err != nil {
		return err
	}

	t, err := opts.loadTable(cmd.Context(), number, opts.TableFlags)
	if err != nil {
		return formatter.fail(loadExitCode(err), "failed to load table", err)
	}

	result := checkTable(t)
	if result.Valid {
		return formatter.Success(result)
	}

	code := ErrCodeSchema
	if len(result.Violations) == 0 {
		code = ErrCodeRoundTrip
	}
	if formatter.Format == "json" {
		if err := formatter.Error(code, "table check failed", result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, result)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("table %d (%s) failed its check", number, table.SpinLabel(t.Spinor)))
}

// checkTable runs the schema and round-trip checks on t.
func checkTable(t *table.Table) CheckResult {
	result := CheckResult{Number: t.Number, Spinor: t.Spinor, Valid: true}

	if err := schema.Check(t); err != nil {
		result.Valid = false
		var se *schema.SchemaError
		if errors.As(err, &se) {
			result.Violations = se.Violations
		} else {
			result.Violations = []schema.Violation{{Path: "", Message: err.Error()}}
		}
	}
	if err := harness.CheckRoundTrip(t); err != nil {
		result.Valid = false
		result.RoundTrip = err.Error()
	}
	return result
}
