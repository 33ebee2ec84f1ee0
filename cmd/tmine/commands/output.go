package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/solvaholic/teamsmine/internal/teams"
)

func outputJSONL[T any](w io.Writer, items []T) error {
	for i := range items {
		data, err := json.Marshal(&items[i])
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func outputConversationTable(w io.Writer, convs []teams.Conversation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "LAST ACTIVE\tTYPE\tUNREAD\tTITLE\tID\n")
	fmt.Fprintf(tw, "-----------\t----\t------\t-----\t--\n")
	for _, c := range convs {
		title := c.Title
		if c.Hidden {
			title += " (hidden)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			humanize.Time(c.LastMessageTime),
			c.ThreadType,
			c.UnreadCount,
			truncate(title, 50),
			c.ID,
		)
	}
	return nil
}

func outputMessageTable(w io.Writer, msgs []teams.Message) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "TIMESTAMP\tSENDER\tUNREAD\tCONTENT\n")
	fmt.Fprintf(tw, "---------\t------\t------\t-------\n")
	for _, m := range msgs {
		unread := ""
		if m.Unread {
			unread = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			m.Timestamp.Local().Format("2006-01-02 15:04"),
			m.SenderName,
			unread,
			truncate(m.Content, 60),
		)
	}
	return nil
}

// truncate shortens s for display and flattens newlines.
func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}
	return s
}
