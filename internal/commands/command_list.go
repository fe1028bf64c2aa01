package promptdeck

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

// ListCommands prints the command tree in a two-column layout.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, data := range commands {
		width = max(width, len(data.Path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commands {
		fmt.Fprintf(out, "  %-*s  %s\n", width, data.Path, data.Description)
	}
}

// collectCommandData walks the command tree depth first and returns one
// indented entry per command. Shell completion commands are left out.
func collectCommandData(cmd *cobra.Command, parentPath, indent string) []CommandInfo {
	fullPath := strings.TrimSpace(parentPath + " " + cmd.Name())
	if strings.Contains(fullPath, "completion") {
		return nil
	}

	all := []CommandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}
