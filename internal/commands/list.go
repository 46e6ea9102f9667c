// internal/commands/list.go
package alpreval

import (
	"github.com/spf13/cobra"
)

// listCmd represents the 'list' command group for listing resources.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
	Long:  `The 'list' command groups subcommands that list information related to alpreval.`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
