package promptdeck

import (
	"github.com/mwiater/promptdeck/internal/notify"
	"github.com/spf13/cobra"
)

// setCmd groups the subcommands that change top-level settings.
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the server URL or default model",
}

// setServerCmd implements 'set server <url>'. The URL is stored verbatim.
var setServerCmd = &cobra.Command{
	Use:   "server <url>",
	Short: "Set the model server base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		if err := store.SetServerURL(args[0]); err != nil {
			return err
		}
		notify.Success(cmd.OutOrStdout(), "Server URL set to %s", args[0])
		return nil
	},
}

// setDefaultModelCmd implements 'set default-model <name>'.
var setDefaultModelCmd = &cobra.Command{
	Use:   "default-model <name>",
	Short: "Set the model used by commands without their own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		if err := store.SetDefaultModel(args[0]); err != nil {
			return err
		}
		notify.Success(cmd.OutOrStdout(), "Default model set to %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setServerCmd)
	setCmd.AddCommand(setDefaultModelCmd)
}
