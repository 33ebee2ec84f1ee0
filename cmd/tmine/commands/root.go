package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/solvaholic/teamsmine/internal/config"
	"github.com/solvaholic/teamsmine/internal/export"
	"github.com/solvaholic/teamsmine/internal/record"
	"github.com/solvaholic/teamsmine/internal/store"
)

var (
	// Global flags
	outputFormat string
	storePath    string
	verbose      bool

	cfg    *config.Config
	logger *log.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tmine",
	Short: "Reconstruct Teams conversations and read state from local record stores",
	Long: `teamsmine (tmine) rebuilds conversations, messages and unread counts from
a local Teams record store.

The tool works in two directions:
  - read: conversations, messages, export, validate and stats read a store
  - write: generate builds a synthetic store, anonymize copies a real one

A store is a directory written by tmine (records.db plus a CURRENT marker).
Commands that read a store also accept a JSON dump written by 'export --raw'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Output format (json, jsonl, table)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Store directory or dump file (default: ~/.teamsmine/store)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setup loads the config file and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	if outputFormat == "" {
		outputFormat = cfg.GetStringWithFallback("output.format", "json")
	}
	switch outputFormat {
	case "json", "jsonl", "table":
	default:
		return fmt.Errorf("unknown format: %s", outputFormat)
	}

	level := log.InfoLevel
	if name := cfg.GetString("log.level"); name != "" {
		if level, err = log.ParseLevel(name); err != nil {
			return fmt.Errorf("invalid log.level in %s: %w", cfg.FilePath(), err)
		}
	}
	if verbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:  level,
		Prefix: "tmine",
	})
	return nil
}

// resolveStorePath picks the --store flag, then store.path, then the default.
func resolveStorePath() string {
	if storePath != "" {
		return storePath
	}
	if cfg != nil {
		if p := cfg.GetString("store.path"); p != "" {
			return p
		}
	}
	return store.DefaultPath()
}

// openSource opens the configured store, or loads it as a dump when the path
// names a .json file. The returned close function is always non-nil.
func openSource(ctx context.Context) (record.Source, func() error, error) {
	path := resolveStorePath()
	logger.Debug("opening record source", "path", path)

	if strings.HasSuffix(path, ".json") {
		src, err := export.LoadDump(path)
		if err != nil {
			return nil, func() error { return nil }, err
		}
		return src, func() error { return nil }, nil
	}

	r, err := store.Open(ctx, path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return r, r.Close, nil
}

// OutputJSON writes JSON to stdout with optional pretty printing
func OutputJSON(w io.Writer, data interface{}) error {
	var output []byte
	var err error

	if outputFormat == "json" || outputFormat == "table" {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(output))
	return nil
}

// OutputError writes error message to stderr
func OutputError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
