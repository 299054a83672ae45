package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/irreptables/internal/source"
	"github.com/roach88/irreptables/internal/table"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Input  string // legacy table location
	Output string // user table location
	Spinor bool
	Both   bool // write the scalar and the spinor table
}

// ConvertedTable describes one written table.
type ConvertedTable struct {
	Number int    `json:"sg"`
	Spinor bool   `json:"spinor"`
	Name   string `json:"name"`
	Irreps int    `json:"irreps"`
	URL    string `json:"url"`
}

// ConvertResult holds the convert command output.
type ConvertResult struct {
	Tables []ConvertedTable `json:"tables"`
}

func (r ConvertResult) String() string {
	var sb strings.Builder
	for i, t := range r.Tables {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "SG %d %s (%s): %d irreps -> %s", t.Number, t.Name, table.SpinLabel(t.Spinor), t.Irreps, t.URL)
	}
	return sb.String()
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <sg>",
		Short: "Convert a legacy table to the user format",
		Long: `Read the legacy TabIrrepLittle_<sg>.txt table and write the user-format
table irreps-SG=<sg>-<spin|scal>.dat.

Irreps that depend on u, v, w and k-points at reserved coordinates are not
written.

Examples:
  irreptables convert 77 --root ./tables
  irreptables convert 77 --both
  irreptables convert 77 --spinor --input legacy/77.txt -o out/sg77.dat`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "legacy table file or URL (default: resolved under --root)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file or URL (default: resolved under --root)")
	cmd.Flags().BoolVar(&opts.Spinor, "spinor", false, "convert double-group (spinor) irreps")
	cmd.Flags().BoolVar(&opts.Both, "both", false, "convert scalar and spinor irreps")

	return cmd
}

func runConvert(opts *ConvertOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	number, err := parseNumber(arg)
	if err != nil {
		return err
	}
	if opts.Both && opts.Output != "" {
		return NewExitError(ExitCommandError, "--output cannot be combined with --both")
	}

	spins := []bool{opts.Spinor}
	if opts.Both {
		spins = []bool{false, true}
	}

	ctx := cmd.Context()
	loader := opts.loader()
	result := ConvertResult{Tables: make([]ConvertedTable, 0, len(spins))}

	for _, spinor := range spins {
		formatter.VerboseLog("Reading legacy table %d (%s)", number, table.SpinLabel(spinor))
		t, err := loader.Load(ctx, number, spinor, source.LoadOptions{Path: opts.Input, Legacy: true})
		if err != nil {
			return formatter.fail(loadExitCode(err), "failed to read legacy table", err)
		}

		url, err := loader.Save(ctx, t, opts.Output)
		if err != nil {
			return formatter.fail(ExitFailure, "failed to write table", err)
		}
		opts.Logger().Info("table converted", "sg", number, "spinor", spinor, "url", url)

		result.Tables = append(result.Tables, ConvertedTable{
			Number: number,
			Spinor: spinor,
			Name:   t.Name,
			Irreps: len(t.Irreps()),
			URL:    url,
		})
	}

	return formatter.Success(result)
}
