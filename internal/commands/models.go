package promptdeck

import (
	"context"
	"fmt"

	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/spf13/cobra"
)

// modelsCmd groups the subcommands that talk to the model server.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Query the model server",
}

// modelsListCmd implements 'models list', printing the names reported by
// {serverUrl}/api/tags in server order.
var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the models the server offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		names, err := newFetcher().FetchModelNames(ctx, store.Settings().ServerURL)
		if err != nil {
			return err
		}
		if selectable, _ := cmd.Flags().GetBool("selectable"); selectable {
			names = catalog.BuildSelectableList(names)
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsListCmd.Flags().Bool("selectable", false, "include the Default entry, as offered in model pickers")
}
