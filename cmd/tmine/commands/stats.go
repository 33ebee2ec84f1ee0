package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/solvaholic/teamsmine/internal/store"
	"github.com/solvaholic/teamsmine/internal/teams"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long:  `Display record counts per store, database size, and a summary of the reconstructed conversations.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := resolveStorePath()
	if strings.HasSuffix(path, ".json") {
		return fmt.Errorf("stats needs a store directory, not a dump: %s", path)
	}

	r, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer r.Close()

	stats, err := r.Stats(ctx)
	if err != nil {
		return err
	}

	summary := map[string]interface{}{}
	if e, err := teams.Open(ctx, r, teams.WithLogger(logger)); err != nil {
		logger.Warn("could not open store for extraction", "err", err)
	} else if convs, err := e.Conversations(ctx); err != nil {
		logger.Warn("could not reconstruct conversations", "err", err)
	} else {
		summary = conversationSummary(convs)
		summary["profiles"] = len(e.Profiles())
		summary["read_horizons"] = len(e.Horizons())
		logger.Debug("extractor stores", "stores", e.Stores())
	}

	if outputFormat == "table" {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintf(tw, "Store:\t%s\n", stats.Path)
		fmt.Fprintf(tw, "Ready:\t%v\n", stats.Ready)
		fmt.Fprintf(tw, "Size:\t%s\n", humanize.Bytes(uint64(stats.DatabaseSize)))
		fmt.Fprintf(tw, "Records:\t%s\n", humanize.Comma(stats.TotalRecords))
		for _, s := range stats.Stores {
			fmt.Fprintf(tw, "  %s\t%s\n", s.Name, humanize.Comma(s.Records))
		}
		for _, key := range []string{"conversations", "unread", "messages", "profiles", "read_horizons", "latest"} {
			if v, ok := summary[key]; ok {
				label := strings.ReplaceAll(key, "_", " ")
				fmt.Fprintf(tw, "%s:\t%v\n", strings.ToUpper(label[:1])+label[1:], v)
			}
		}
		return nil
	}

	return OutputJSON(cmd.OutOrStdout(), map[string]interface{}{
		"status":        "success",
		"store":         stats.Path,
		"ready":         stats.Ready,
		"total_size":    humanize.Bytes(uint64(stats.DatabaseSize)),
		"total_records": stats.TotalRecords,
		"stores":        stats.Stores,
		"conversations": summary,
	})
}

func conversationSummary(convs []teams.Conversation) map[string]interface{} {
	var chats, channels, meetings, unread, messages int
	var earliest, latest time.Time
	for i := range convs {
		c := &convs[i]
		switch {
		case c.IsChat():
			chats++
		case c.IsChannel():
			channels++
		case c.IsMeeting():
			meetings++
		}
		if c.HasUnread() {
			unread++
		}
		messages += len(c.Messages)
		for _, m := range c.Messages {
			if earliest.IsZero() || m.Timestamp.Before(earliest) {
				earliest = m.Timestamp
			}
			if latest.IsZero() || m.Timestamp.After(latest) {
				latest = m.Timestamp
			}
		}
	}

	summary := map[string]interface{}{
		"conversations": len(convs),
		"unread":        unread,
		"messages":      messages,
		"by_type": map[string]int{
			"chat":    chats,
			"channel": channels,
			"meeting": meetings,
		},
	}
	if !latest.IsZero() {
		summary["date_range"] = map[string]string{
			"earliest": earliest.Format(time.RFC3339),
			"latest":   latest.Format(time.RFC3339),
		}
		summary["latest"] = humanize.Time(latest)
	}
	return summary
}
