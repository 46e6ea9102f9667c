// internal/commands/list_commands.go
package alpreval

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	Path        string
	Description string
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		commandData := collectCommandData(rootCmd, "", "")
		filtered := make([]commandInfo, 0, len(commandData))
		for _, data := range commandData {
			if strings.Contains(data.Path, "completion") || strings.Contains(data.Path, " help") {
				continue
			}
			filtered = append(filtered, data)
		}
		printCommands(cmd.OutOrStdout(), filtered)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// collectCommandData walks the command tree and returns a flattened slice of
// path/description pairs, indenting each level by two spaces.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	all := []commandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}

func printCommands(out io.Writer, commands []commandInfo) {
	width := 0
	for _, data := range commands {
		width = max(width, len(data.Path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commands {
		fmt.Fprintf(out, "  %s%s%s\n", data.Path, strings.Repeat(" ", width-len(data.Path)+2), data.Description)
	}
}
