package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solvaholic/teamsmine/internal/export"
)

var (
	exportOutput string
	exportRaw    bool
	exportLimit  int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations or a raw store dump to a file",
	Long: `Write reconstructed conversations to a JSON (or JSONL, with -f jsonl) file.

With --raw, write the raw records instead, up to --limit per store. A raw
dump can be passed back to other commands with --store dump.json.

Conversation filters (--unread, --since, --type, --exclude-hidden) apply
to the conversation export.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file")
	exportCmd.Flags().BoolVar(&exportRaw, "raw", false, "Dump raw store records instead of conversations")
	exportCmd.Flags().IntVar(&exportLimit, "limit", export.DefaultDumpLimit, "Records per store in a raw dump (0 = all)")
	exportCmd.Flags().BoolVar(&convUnread, "unread", false, "Only conversations with unread messages")
	exportCmd.Flags().StringVarP(&convSince, "since", "s", "", "Only conversations active since (e.g., '24h', '7d', '2025-12-15')")
	exportCmd.Flags().StringVarP(&convType, "type", "t", "", "Filter by thread type (chat, topic, meeting)")
	exportCmd.Flags().BoolVar(&convExcludeHidden, "exclude-hidden", false, "Skip hidden (archived) conversations")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportOutput == "" {
		return errors.New("--output required")
	}
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	if exportRaw {
		src, closeSrc, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer closeSrc()

		dump, err := export.DumpStores(ctx, src, resolveStorePath(), exportLimit)
		if err != nil {
			return err
		}
		if err := export.WriteDump(exportOutput, dump); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Exported %d stores to: %s\n", len(dump.Stores), exportOutput)
		return OutputJSON(cmd.OutOrStdout(), map[string]interface{}{
			"status": "success",
			"output": exportOutput,
			"stores": len(dump.Stores),
		})
	}

	filter, err := buildFilter()
	if err != nil {
		return err
	}
	convs, err := loadConversations(ctx)
	if err != nil {
		return err
	}
	convs = filter.Apply(convs)

	format := export.FormatJSON
	if outputFormat == "jsonl" {
		format = export.FormatJSONL
	}
	if err := export.WriteConversations(exportOutput, convs, format); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Exported %d conversations to: %s\n", len(convs), exportOutput)

	return OutputJSON(cmd.OutOrStdout(), map[string]interface{}{
		"status":             "success",
		"output":             exportOutput,
		"conversation_count": len(convs),
	})
}
