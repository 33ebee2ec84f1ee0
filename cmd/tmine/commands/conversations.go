package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solvaholic/teamsmine/internal/export"
	"github.com/solvaholic/teamsmine/internal/teams"
	"github.com/solvaholic/teamsmine/internal/utils"
)

var (
	convUnread        bool
	convSince         string
	convType          string
	convExcludeHidden bool
	convLimit         int
	convMessages      int
	convInput         string
)

// conversationsCmd represents the conversations command
var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"convs"},
	Short:   "List reconstructed conversations",
	Long: `List conversations rebuilt from the record store, newest first.

Unread counts combine per-message read horizons with the server's read flag,
so a conversation may show as unread even when its cached messages do not.

Examples:
  tmine conversations --unread --since 24h
  tmine conversations --type topic --exclude-hidden -f table
  tmine conversations --messages 3 --limit 10
  tmine conversations --input ./export.json --unread`,
	RunE: runConversations,
}

func init() {
	rootCmd.AddCommand(conversationsCmd)

	conversationsCmd.Flags().BoolVar(&convUnread, "unread", false, "Only conversations with unread messages")
	conversationsCmd.Flags().StringVarP(&convSince, "since", "s", "", "Only conversations active since (e.g., '24h', '7d', '2025-12-15')")
	conversationsCmd.Flags().StringVarP(&convType, "type", "t", "", "Filter by thread type (chat, topic, meeting)")
	conversationsCmd.Flags().BoolVar(&convExcludeHidden, "exclude-hidden", false, "Skip hidden (archived) conversations")
	conversationsCmd.Flags().IntVarP(&convLimit, "limit", "l", 0, "Maximum number of conversations (0 = all)")
	conversationsCmd.Flags().IntVar(&convMessages, "messages", -1, "Keep only the last N messages of each conversation (-1 = all)")
	conversationsCmd.Flags().StringVar(&convInput, "input", "", "Read conversations from a file written by 'export' instead of the store")
}

func buildFilter() (teams.Filter, error) {
	filter := teams.Filter{
		UnreadOnly:    convUnread,
		ExcludeHidden: convExcludeHidden,
	}
	if convSince != "" {
		since, err := utils.ParseSinceDate(convSince)
		if err != nil {
			return filter, fmt.Errorf("invalid since date format: %w", err)
		}
		filter.Since = since
	}
	if convType != "" {
		filter.Type = teams.ParseThreadType(convType)
		if filter.Type == teams.ThreadUnknown {
			return filter, fmt.Errorf("unknown thread type: %s", convType)
		}
	}
	return filter, nil
}

// loadConversations reads a previous export when --input is set, otherwise it
// opens the configured source and reconstructs every conversation.
func loadConversations(ctx context.Context) ([]teams.Conversation, error) {
	if convInput != "" {
		logger.Debug("reading exported conversations", "path", convInput)
		return export.LoadConversations(convInput)
	}

	src, closeSrc, err := openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	convs, err := teams.Extract(ctx, src, teams.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted conversations", "count", len(convs))
	return convs, nil
}

func runConversations(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter()
	if err != nil {
		return err
	}

	convs, err := loadConversations(cmd.Context())
	if err != nil {
		return err
	}

	convs = filter.Apply(convs)
	if convLimit > 0 && len(convs) > convLimit {
		convs = convs[:convLimit]
	}
	if convMessages >= 0 {
		for i := range convs {
			if n := len(convs[i].Messages); n > convMessages {
				convs[i].Messages = convs[i].Messages[n-convMessages:]
			}
		}
	}

	w := cmd.OutOrStdout()
	switch outputFormat {
	case "table":
		return outputConversationTable(w, convs)
	case "jsonl":
		return outputJSONL(w, convs)
	default:
		unread := 0
		for i := range convs {
			if convs[i].HasUnread() {
				unread++
			}
		}
		return OutputJSON(w, map[string]interface{}{
			"status":             "success",
			"conversation_count": len(convs),
			"unread_count":       unread,
			"filters": map[string]interface{}{
				"unread":         convUnread,
				"since":          convSince,
				"type":           convType,
				"exclude_hidden": convExcludeHidden,
				"limit":          convLimit,
			},
			"conversations": convs,
		})
	}
}
