package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shouni/vibe-ui-kit/pkg/domain"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in vibe presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLABEL\tPROMPT")
		for _, p := range domain.Presets {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Label, p.Prompt)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
