package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/irreptables/internal/source"
	"github.com/roach88/irreptables/internal/store"
	"github.com/roach88/irreptables/internal/table"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the table catalog",
		Long: `Import tables into a SQLite catalog and read them back.

The catalog keeps every distinct version of a table, keyed by the content
identity of its user-format text. The latest imported version wins.`,
	}

	cmd.AddCommand(newCatalogImportCommand(rootOpts))
	cmd.AddCommand(newCatalogGetCommand(rootOpts))
	cmd.AddCommand(newCatalogListCommand(rootOpts))

	return cmd
}

// openCatalog opens the configured catalog database.
func (o *RootOptions) openCatalog() (*store.Store, error) {
	st, err := store.Open(o.Catalog, store.WithLogger(o.Logger()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open catalog %s", o.Catalog), err)
	}
	return st, nil
}

// ImportedTable is one table stored by an import.
type ImportedTable struct {
	Number   int    `json:"sg"`
	Spinor   bool   `json:"spinor"`
	URL      string `json:"url"`
	Identity string `json:"identity"`
	Created  bool   `json:"created"`
}

// ImportFailure is one table an import could not store.
type ImportFailure struct {
	URL    string `json:"url"`
	Spinor bool   `json:"spinor"`
	Error  string `json:"error"`
}

// ImportResult holds the catalog import output.
type ImportResult struct {
	Batch    store.Batch     `json:"batch"`
	Imported []ImportedTable `json:"imported"`
	Failed   []ImportFailure `json:"failed,omitempty"`
}

func (r ImportResult) String() string {
	created := 0
	for _, t := range r.Imported {
		if t.Created {
			created++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch %d (%s): %d tables, %d new, %d failed",
		r.Batch.Seq, r.Batch.Source, len(r.Imported), created, len(r.Failed))
	for _, f := range r.Failed {
		fmt.Fprintf(&sb, "\n  ✗ %s (%s): %s", f.URL, table.SpinLabel(f.Spinor), f.Error)
	}
	return sb.String()
}

func newCatalogImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import every table found under a directory",
		Long: `Walk a directory (default: --root) for irreps-SG=<N>-<spin|scal>.dat and
TabIrrepLittle_<N>.txt files and store them in the catalog as one batch.

A legacy table is imported as its scalar and its spinor table, unless a
user table for the same space group and spinor flag was found as well.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootOpts.Root
			if len(args) == 1 {
				root = args[0]
			}
			return runCatalogImport(rootOpts, root, cmd)
		},
	}
}

// importJob is one table to load during an import.
type importJob struct {
	entry  source.Entry
	spinor bool
}

// planImport expands discovered entries into tables to load. User tables
// shadow the legacy table of the same group.
func planImport(entries []source.Entry) []importJob {
	type key struct {
		number int
		spinor bool
	}
	user := make(map[key]bool)
	for _, e := range entries {
		if !e.Legacy {
			user[key{e.Number, e.Spinor}] = true
		}
	}

	var jobs []importJob
	for _, e := range entries {
		if !e.Legacy {
			jobs = append(jobs, importJob{entry: e, spinor: e.Spinor})
			continue
		}
		for _, spinor := range []bool{false, true} {
			if !user[key{e.Number, spinor}] {
				jobs = append(jobs, importJob{entry: e, spinor: spinor})
			}
		}
	}
	return jobs
}

func runCatalogImport(opts *RootOptions, root string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	loader := source.NewLoader(root, source.WithLogger(opts.Logger()))
	entries, err := loader.Discover(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, "failed to scan tables", err)
	}
	formatter.VerboseLog("Found %d table file(s) under %s", len(entries), loader.Root())

	st, err := opts.openCatalog()
	if err != nil {
		return err
	}
	defer st.Close()

	batch, err := st.NewBatch(ctx, loader.Root())
	if err != nil {
		return formatter.fail(ExitCommandError, "failed to start import", err)
	}

	result := ImportResult{Batch: batch, Imported: []ImportedTable{}}
	for _, job := range planImport(entries) {
		t, err := loader.Load(ctx, job.entry.Number, job.spinor, source.LoadOptions{
			Path:   job.entry.URL,
			Legacy: job.entry.Legacy,
		})
		if err == nil {
			var rec store.Record
			var created bool
			rec, created, err = st.PutTable(ctx, t, batch)
			if err == nil {
				result.Imported = append(result.Imported, ImportedTable{
					Number:   rec.Number,
					Spinor:   rec.Spinor,
					URL:      job.entry.URL,
					Identity: rec.Identity,
					Created:  created,
				})
				continue
			}
		}
		opts.Logger().Warn("table not imported", "url", job.entry.URL, "spinor", job.spinor, "error", err)
		result.Failed = append(result.Failed, ImportFailure{
			URL:    job.entry.URL,
			Spinor: job.spinor,
			Error:  err.Error(),
		})
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d table(s) failed to import", len(result.Failed)))
	}
	return nil
}

// CatalogGetOptions holds flags for catalog get.
type CatalogGetOptions struct {
	*RootOptions
	Spinor bool
	Output string
}

// CatalogGetResult holds the catalog get output.
type CatalogGetResult struct {
	Record store.Record `json:"record"`
	Text   string       `json:"text,omitempty"`
	URL    string       `json:"url,omitempty"` // where the table was written
}

func (r CatalogGetResult) String() string {
	if r.URL != "" {
		return fmt.Sprintf("SG %d (%s) -> %s", r.Record.Number, table.SpinLabel(r.Record.Spinor), r.URL)
	}
	return strings.TrimSuffix(r.Text, "\n")
}

func newCatalogGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogGetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <sg>",
		Short: "Print or export the latest version of a table",
		Args:  cobra.ExactArgs(1),
		Example: `  irreptables catalog get 77
  irreptables catalog get 77 --spinor -o irreps-SG=77-spin.dat`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogGet(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Spinor, "spinor", false, "get the double-group (spinor) table")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the table to this file or URL instead of printing it")

	return cmd
}

func runCatalogGet(opts *CatalogGetOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	number, err := parseNumber(arg)
	if err != nil {
		return err
	}

	st, err := opts.openCatalog()
	if err != nil {
		return err
	}
	defer st.Close()

	t, rec, err := st.GetTable(ctx, number, opts.Spinor)
	if errors.Is(err, store.ErrNotFound) {
		if outErr := formatter.Error(ErrCodeNotFound, fmt.Sprintf("table %d (%s) is not in the catalog", number, table.SpinLabel(opts.Spinor)), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "table not in catalog", err)
	}
	if err != nil {
		if outErr := formatter.Error(ErrCodeCatalog, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "failed to read catalog", err)
	}

	result := CatalogGetResult{Record: rec}
	if opts.Output != "" {
		url, err := opts.loader().Save(ctx, t, opts.Output)
		if err != nil {
			return formatter.fail(ExitFailure, "failed to write table", err)
		}
		result.URL = url
	} else {
		result.Text = t.String()
	}
	return formatter.Success(result)
}

// CatalogListResult holds the catalog list output.
type CatalogListResult struct {
	Tables []store.Record `json:"tables"`
}

func (r CatalogListResult) String() string {
	if len(r.Tables) == 0 {
		return "Catalog is empty."
	}
	var sb strings.Builder
	for i, rec := range r.Tables {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%3d %-12s %s nsym=%-3d irreps=%-3d seq=%d %s",
			rec.Number, rec.Name, table.SpinLabel(rec.Spinor), rec.Nsym, rec.Irreps, rec.Seq, rec.Identity[:12])
	}
	return sb.String()
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every stored table version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(rootOpts, cmd)
		},
	}
}

func runCatalogList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openCatalog()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListTables(cmd.Context())
	if err != nil {
		if outErr := formatter.Error(ErrCodeCatalog, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "failed to list catalog", err)
	}
	return formatter.Success(CatalogListResult{Tables: records})
}
