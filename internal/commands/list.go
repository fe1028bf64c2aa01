package promptdeck

import (
	"github.com/spf13/cobra"
)

// listCmd groups listing subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List promptdeck resources",
}

// listCLICmd implements 'list cli', which prints every command and subcommand
// in a hierarchical, indented, two-column format.
var listCLICmd = &cobra.Command{
	Use:   "cli",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		ListCommands(cmd.OutOrStdout(), collectCommandData(cmd.Root(), "", ""))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listCLICmd)
}
