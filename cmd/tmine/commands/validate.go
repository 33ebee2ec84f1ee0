package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solvaholic/teamsmine/internal/store"
	"github.com/solvaholic/teamsmine/internal/teams"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a store has the expected logical stores",
	Long: `Report which of the four logical stores (profiles, conversations,
reply chains, metadata) the store contains and how many records each holds.

Exits with an error when the conversation or reply chain store is missing,
since conversations cannot be rebuilt without them.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	src, closeSrc, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	checks, err := store.Validate(ctx, src)
	if err != nil {
		return err
	}

	var missing []string
	for _, c := range checks {
		required := c.Snippet == teams.ConversationStore || c.Snippet == teams.ReplyChainStore
		if !c.Found && required {
			missing = append(missing, c.Snippet)
		}
	}

	w := cmd.OutOrStdout()
	if outputFormat == "table" {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "STATUS\tSTORE\tNAME\tRECORDS\n")
		for _, c := range checks {
			status, name := "ok", c.Name
			if !c.Found {
				status, name = "MISSING", "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", status, c.Description, name, c.Records)
		}
		tw.Flush()
	} else {
		valid := len(missing) == 0
		if err := OutputJSON(w, map[string]interface{}{
			"status": "success",
			"valid":  valid,
			"path":   resolveStorePath(),
			"stores": checks,
		}); err != nil {
			return err
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("store is missing required stores: %v", missing)
	}
	return nil
}
