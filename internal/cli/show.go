package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/irreptables/internal/table"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	TableFlags
}

// IrrepInfo is one irrep in the show output.
type IrrepInfo struct {
	KPoint        string `json:"kpoint"`
	Label         string `json:"label"`
	Dim           int    `json:"dim"`
	Real          bool   `json:"real"`
	Parameterized bool   `json:"parameterized,omitempty"`
}

// ShowResult holds the show command output.
type ShowResult struct {
	Number     int         `json:"sg"`
	Name       string      `json:"name"`
	Spinor     bool        `json:"spinor"`
	Nsym       int         `json:"nsym"`
	Operations []string    `json:"operations"`
	KPoints    []string    `json:"kpoints"`
	Irreps     []IrrepInfo `json:"irreps"`

	summary string
}

func (r ShowResult) String() string {
	return strings.TrimSuffix(r.summary, "\n")
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <sg>",
		Short: "Describe a table",
		Long: `Print the symmetry operations of a space group and, for every irrep,
its k-point, label, dimension and reality.

Examples:
  irreptables show 77
  irreptables show 77 --spinor --legacy --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	addTableFlags(cmd, &opts.TableFlags)

	return cmd
}

func runShow(opts *ShowOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	number, err := parseNumber(arg)
	if err != nil {
		return err
	}

	t, err := opts.loadTable(cmd.Context(), number, opts.TableFlags)
	if err != nil {
		return formatter.fail(loadExitCode(err), "failed to load table", err)
	}

	return formatter.Success(describeTable(t))
}

// describeTable builds the show output of t.
func describeTable(t *table.Table) ShowResult {
	ops := t.Symmetries()
	result := ShowResult{
		Number:     t.Number,
		Name:       t.Name,
		Spinor:     t.Spinor,
		Nsym:       t.Nsym,
		Operations: make([]string, len(ops)),
		KPoints:    []string{},
		Irreps:     []IrrepInfo{},
		summary:    t.Summary(),
	}
	for i, op := range ops {
		result.Operations[i] = op.Format(t.Spinor)
	}
	for _, kp := range t.KPoints() {
		result.KPoints = append(result.KPoints, kp.Format())
	}
	for _, irr := range t.Irreps() {
		result.Irreps = append(result.Irreps, IrrepInfo{
			KPoint:        irr.KPointName,
			Label:         irr.Label,
			Dim:           irr.Dim,
			Real:          irr.Reality,
			Parameterized: irr.HasUVW,
		})
	}
	return result
}
