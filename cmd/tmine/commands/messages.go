package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solvaholic/teamsmine/internal/teams"
)

var msgUnread bool

// messagesCmd represents the messages command
var messagesCmd = &cobra.Command{
	Use:   "messages <conversation-id>",
	Short: "Show the messages of one conversation",
	Long:  `Show the messages of one conversation, oldest first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMessages,
}

func init() {
	rootCmd.AddCommand(messagesCmd)

	messagesCmd.Flags().BoolVar(&msgUnread, "unread", false, "Only unread messages")
	messagesCmd.Flags().StringVar(&convInput, "input", "", "Read conversations from a file written by 'export' instead of the store")
}

func runMessages(cmd *cobra.Command, args []string) error {
	convs, err := loadConversations(cmd.Context())
	if err != nil {
		return err
	}

	conv, ok := teams.Find(convs, args[0])
	if !ok {
		return fmt.Errorf("conversation not found: %s", args[0])
	}

	msgs := conv.Messages
	if msgUnread {
		msgs = conv.UnreadMessages()
	}
	if msgs == nil {
		msgs = []teams.Message{}
	}

	w := cmd.OutOrStdout()
	switch outputFormat {
	case "table":
		return outputMessageTable(w, msgs)
	case "jsonl":
		return outputJSONL(w, msgs)
	default:
		return OutputJSON(w, map[string]interface{}{
			"status":          "success",
			"conversation_id": conv.ID,
			"title":           conv.Title,
			"unread_count":    conv.UnreadCount,
			"message_count":   len(msgs),
			"messages":        msgs,
		})
	}
}
