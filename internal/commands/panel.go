package promptdeck

import (
	"context"

	"github.com/mwiater/promptdeck/internal/settings"
	"github.com/mwiater/promptdeck/internal/tui"
	"github.com/spf13/cobra"
)

// panelCmd implements 'panel', the interactive settings panel.
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive settings panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return tui.Run(ctx, tui.Options{
			Store:    store,
			Fetcher:  newFetcher(),
			Defaults: settings.DefaultCommands,
			CopyText: copyToClipboard,
		})
	},
}

func init() {
	rootCmd.AddCommand(panelCmd)
}
