package promptdeck

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/mwiater/promptdeck/internal/notify"
	"github.com/mwiater/promptdeck/internal/settings"
	"github.com/mwiater/promptdeck/internal/snippet"
	"github.com/spf13/cobra"
)

// commandsCmd groups the subcommands that manage prompt commands.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Manage prompt commands",
}

var commandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List commands in order with their model and id",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		s := store.Settings()
		out := cmd.OutOrStdout()

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODEL\tTEMPERATURE\tID")
		names := make([]string, len(s.Commands))
		for i, c := range s.Commands {
			names[i] = c.Name
			temp := "-"
			if c.Temperature != nil {
				temp = fmt.Sprintf("%.2f", *c.Temperature)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, describeModel(s, c), temp, snippet.CommandID(c.Name))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		for _, line := range snippet.CollisionWarnings(names) {
			notify.Warning(out, "warning: %s", line)
		}
		return nil
	},
}

var commandsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := draftFromFlags(cmd)
		if err != nil {
			return err
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		if err := store.AddCommand(draft); err != nil {
			return err
		}

		name := strings.TrimSpace(draft.Name)
		notify.Success(cmd.OutOrStdout(), "Added %s as %s", name, snippet.CommandID(name))
		warnCollisions(cmd, store)
		return nil
	},
}

var commandsUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Change the prompt, model or temperature of a command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		current, ok := store.Command(args[0])
		if !ok {
			return &settings.NotFoundError{Name: args[0]}
		}
		fields, err := fieldsFromFlags(cmd, current)
		if err != nil {
			return err
		}
		if err := store.UpdateCommand(args[0], fields); err != nil {
			return err
		}
		notify.Success(cmd.OutOrStdout(), "Updated %s", args[0])
		return nil
	},
}

var commandsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		_, existed := store.Command(args[0])
		if err := store.RemoveCommand(args[0]); err != nil {
			return err
		}
		if !existed {
			notify.Warning(cmd.OutOrStdout(), "No command named %q; nothing removed", args[0])
			return nil
		}
		notify.Success(cmd.OutOrStdout(), "Removed %s", args[0])
		return nil
	},
}

var commandsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace all commands with the built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset discards every custom command; rerun with --yes to confirm")
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defaults := settings.DefaultCommands()
		if err := store.ResetToDefaults(defaults); err != nil {
			return err
		}
		notify.Success(cmd.OutOrStdout(), "Reset to %d default commands", len(defaults))
		return nil
	},
}

var commandsMergeCmd = &cobra.Command{
	Use:   "merge-defaults",
	Short: "Restore or refresh the built-in commands, keeping custom ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		before := len(store.Commands())
		if err := store.MergeDefaults(settings.DefaultCommands()); err != nil {
			return err
		}
		notify.Success(cmd.OutOrStdout(), "Merged defaults: %d added", len(store.Commands())-before)
		return nil
	},
}

var commandsSnippetCmd = &cobra.Command{
	Use:   "snippet <name>",
	Short: "Print the snippet that invokes a command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		c, ok := store.Command(args[0])
		if !ok {
			return &settings.NotFoundError{Name: args[0]}
		}
		text := snippet.Render(c.Name)
		fmt.Fprint(cmd.OutOrStdout(), text)

		if copyIt, _ := cmd.Flags().GetBool("copy"); copyIt {
			if err := copyToClipboard(text); err != nil {
				return fmt.Errorf("copy snippet to clipboard: %w", err)
			}
			notify.Success(cmd.ErrOrStderr(), "Copied to clipboard")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	commandsCmd.AddCommand(commandsListCmd, commandsAddCmd, commandsUpdateCmd, commandsRemoveCmd, commandsResetCmd, commandsMergeCmd, commandsSnippetCmd)

	commandsAddCmd.Flags().String("name", "", "command name (unique)")
	commandsAddCmd.Flags().String("prompt", "", "prompt text sent with the selection")
	commandsAddCmd.Flags().String("model", "", "model name, or Default to use the default model")
	commandsAddCmd.Flags().String("temperature", "", "sampling temperature between 0 and 1")

	commandsUpdateCmd.Flags().String("prompt", "", "new prompt text")
	commandsUpdateCmd.Flags().String("model", "", "new model name, or Default to use the default model")
	commandsUpdateCmd.Flags().String("temperature", "", "new sampling temperature between 0 and 1")
	commandsUpdateCmd.Flags().Bool("clear-model", false, "use the default model")
	commandsUpdateCmd.Flags().Bool("clear-temperature", false, "drop the temperature")

	commandsResetCmd.Flags().Bool("yes", false, "confirm replacing all commands")
	commandsSnippetCmd.Flags().Bool("copy", false, "also copy the snippet to the clipboard")
}

// draftFromFlags fills a CommandDraft from the add flags. Validation is left
// to the store so the CLI and the panel report the same errors.
func draftFromFlags(cmd *cobra.Command) (*settings.CommandDraft, error) {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	prompt, _ := flags.GetString("prompt")
	model, _ := flags.GetString("model")
	tempText, _ := flags.GetString("temperature")

	temp, err := settings.ParseTemperature(tempText)
	if err != nil {
		return nil, err
	}
	return &settings.CommandDraft{
		Name:        name,
		Prompt:      prompt,
		Model:       catalog.SelectionToField(model),
		Temperature: temp,
	}, nil
}

// fieldsFromFlags starts from the current command and applies only the flags
// that were given.
func fieldsFromFlags(cmd *cobra.Command, current settings.Command) (settings.CommandFields, error) {
	flags := cmd.Flags()
	fields := settings.CommandFields{
		Prompt:      current.Prompt,
		Model:       current.Model,
		Temperature: current.Temperature,
	}
	if flags.Changed("prompt") {
		fields.Prompt, _ = flags.GetString("prompt")
	}
	if flags.Changed("model") {
		model, _ := flags.GetString("model")
		fields.Model = catalog.SelectionToField(model)
	}
	if unset, _ := flags.GetBool("clear-model"); unset {
		fields.Model = ""
	}
	if flags.Changed("temperature") {
		text, _ := flags.GetString("temperature")
		temp, err := settings.ParseTemperature(text)
		if err != nil {
			return settings.CommandFields{}, err
		}
		fields.Temperature = temp
	}
	if unset, _ := flags.GetBool("clear-temperature"); unset {
		fields.Temperature = nil
	}
	return fields, nil
}

// warnCollisions prints a warning for every command id shared by several names.
func warnCollisions(cmd *cobra.Command, store *settings.Store) {
	commands := store.Commands()
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	for _, line := range snippet.CollisionWarnings(names) {
		notify.Warning(cmd.ErrOrStderr(), "warning: %s", line)
	}
}
