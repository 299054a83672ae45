package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override flags, e.g.
// IRREPTABLES_ROOT for --root.
const EnvPrefix = "IRREPTABLES"

// Configuration keys shared by flags, environment and config file.
const (
	keyVerbose = "verbose"
	keyFormat  = "format"
	keyRoot    = "root"
	keyCatalog = "catalog"
)

// DefaultCatalog is the catalog database path when none is configured.
const DefaultCatalog = "irreptables.db"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Root       string // directory or URL holding table files
	Catalog    string // catalog database path
	ConfigFile string

	config *viper.Viper
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the irreptables CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{config: viper.New()}

	cmd := &cobra.Command{
		Use:   "irreptables",
		Short: "irreptables - irrep tables of the 230 space groups",
		Long: `Read, convert and catalog tables of irreducible representations of the
little groups of maximal k-points, for scalar and double space groups.

Settings come from flags, then IRREPTABLES_* environment variables, then an
optional YAML config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, keyVerbose, "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, keyFormat, "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Root, keyRoot, "", "directory or URL holding table files (default: current directory)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, keyCatalog, DefaultCatalog, "catalog database path")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")

	// Add subcommands
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// load merges flags, environment and the config file into opts. Flags set
// on the command line win over the environment, which wins over the file.
func (o *RootOptions) load(cmd *cobra.Command) error {
	v := o.config
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{keyVerbose, keyFormat, keyRoot, keyCatalog} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("config file not found: %s", o.ConfigFile)
			}
			return fmt.Errorf("read config %s: %w", o.ConfigFile, err)
		}
	}

	o.Verbose = v.GetBool(keyVerbose)
	o.Format = v.GetString(keyFormat)
	o.Root = v.GetString(keyRoot)
	o.Catalog = v.GetString(keyCatalog)
	return nil
}

// Logger returns the logger configured for this invocation. Before the
// root pre-run it discards everything.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// newLogger writes text records to w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
