package promptdeck

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/mwiater/promptdeck/internal/appconfig"
	"github.com/mwiater/promptdeck/internal/settings"
	"github.com/mwiater/promptdeck/internal/snippet"
	"github.com/mwiater/promptdeck/internal/util"
	"github.com/spf13/cobra"
)

// showCmd groups the read-only inspection subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration and settings",
}

// showConfigCmd implements 'show config', which prints the resolved application
// configuration after the config file, environment and flags are layered.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved application configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		appconfig.ShowConfig(cmd.OutOrStdout(), cfg.ConfigPath, *cfg)
		if cfg.Debug {
			fmt.Fprintln(cmd.OutOrStdout())
			pp.Fprintln(cmd.OutOrStdout(), *cfg)
		}
	},
}

// showSettingsCmd implements 'show settings', which prints the server, default
// model and every command from the settings document.
var showSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the server, default model and commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, file, err := openStore()
		if err != nil {
			return err
		}
		printSettings(cmd.OutOrStdout(), file.Path(), store.Settings())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
	showCmd.AddCommand(showSettingsCmd)
}

func printSettings(out io.Writer, path string, s settings.Settings) {
	fmt.Fprintf(out, "Settings file: %s\n\n", path)
	fmt.Fprintf(out, "  Server URL:    %s\n", s.ServerURL)
	fmt.Fprintf(out, "  Default Model: %s\n", s.DefaultModel)
	fmt.Fprintf(out, "  Commands:      %d\n", len(s.Commands))
	for _, c := range s.Commands {
		fmt.Fprintf(out, "\n  %s (%s)\n", c.Name, snippet.CommandID(c.Name))
		fmt.Fprintf(out, "    model:       %s\n", describeModel(s, c))
		if c.Temperature != nil {
			fmt.Fprintf(out, "    temperature: %.2f\n", *c.Temperature)
		}
		fmt.Fprintf(out, "    prompt:      %s\n", util.PromptPreview(c.Prompt, 60))
	}
}

// describeModel shows which model a command runs with and whether that comes
// from the default.
func describeModel(s settings.Settings, c settings.Command) string {
	if c.Model == "" {
		return fmt.Sprintf("%s (default)", s.ResolveModel(c))
	}
	return c.Model
}
