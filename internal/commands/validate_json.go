// internal/commands/validate_json.go
package alpreval

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mwiater/alpreval/internal/alprjson"
	"github.com/mwiater/alpreval/internal/logging"
	"github.com/spf13/cobra"
)

// validateJSONCmd checks that a recognizer output file is usable JSON.
var validateJSONCmd = &cobra.Command{
	Use:           "validate-json <file>",
	Short:         "Check that a recognizer JSON file is well formed and non-empty",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateJSONFile(args[0]); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "[validate_json][error] %v\n", err)
			logging.LogEvent("validate-json %s failed: %v", args[0], err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "[validate_json] OK")
		return nil
	},
}

func validateJSONFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file not found: %s", path)
		}
		return err
	}
	return alprjson.ValidateDocument(raw)
}

func init() {
	rootCmd.AddCommand(validateJSONCmd)
}
