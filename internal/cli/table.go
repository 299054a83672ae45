package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/irreptables/internal/source"
	"github.com/roach88/irreptables/internal/table"
)

// TableFlags selects a table for the commands that read one.
type TableFlags struct {
	Spinor bool   // double-group irreps
	Legacy bool   // read the legacy encoding
	Path   string // explicit table location, overriding the root default
}

// addTableFlags registers the table selection flags on cmd.
func addTableFlags(cmd *cobra.Command, flags *TableFlags) {
	cmd.Flags().BoolVar(&flags.Spinor, "spinor", false, "read double-group (spinor) irreps")
	cmd.Flags().BoolVar(&flags.Legacy, "legacy", false, "read the legacy TabIrrepLittle encoding")
	cmd.Flags().StringVar(&flags.Path, "path", "", "table file or URL (default: resolved under --root)")
}

// parseNumber reads a space-group number argument.
func parseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid space-group number %q", arg))
	}
	if n < 1 || n > 230 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("space-group number %d out of range 1..230", n))
	}
	return n, nil
}

// loader builds the table loader for the configured root.
func (o *RootOptions) loader() *source.Loader {
	return source.NewLoader(o.Root, source.WithLogger(o.Logger()))
}

// loadTable reads the selected table of space group number.
func (o *RootOptions) loadTable(ctx context.Context, number int, flags TableFlags) (*table.Table, error) {
	return o.loader().Load(ctx, number, flags.Spinor, source.LoadOptions{
		Path:   flags.Path,
		Legacy: flags.Legacy,
	})
}

// loadExitCode is the exit code for a failed load: a missing table is a
// command error, an unreadable one a failure.
func loadExitCode(err error) int {
	if source.IsNotFound(err) {
		return ExitCommandError
	}
	return ExitFailure
}
