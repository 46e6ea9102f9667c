// internal/commands/accuracy.go
package alpreval

import (
	"github.com/mwiater/alpreval/internal/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	accuracyCSV string
	accuracyOut string
)

// accuracyCmd runs the recognizer over a labeled dataset and writes the reports.
var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Measure top-1 plate accuracy against a labeled CSV",
	Long: `Runs the recognizer once per row of the ground-truth CSV (path,expected),
compares its top candidate with the expected plate after normalization and
writes a JSON report plus a plain-text summary next to it.`,
	Example:      `  alpreval accuracy --csv data/gt.csv --out reports/accuracy.json --bin ./build/src/alpr --jobs 4`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		_, err = runner.Run(cmd.Context(), *cfg, runner.Options{
			DatasetPath: accuracyCSV,
			OutputPath:  accuracyOut,
		}, cmd.OutOrStdout())
		return err
	},
}

func init() {
	accuracyCmd.Flags().StringVar(&accuracyCSV, "csv", "", "ground-truth CSV (path,expected)")
	accuracyCmd.Flags().StringVar(&accuracyOut, "out", "", "JSON report path; the summary lands beside it")
	accuracyCmd.Flags().String("bin", "", "recognizer binary (default ./build/src/alpr)")
	accuracyCmd.Flags().Int("jobs", 1, "concurrent recognizer processes")
	accuracyCmd.Flags().Bool("progress", false, "show the interactive progress view")
	_ = accuracyCmd.MarkFlagRequired("csv")
	_ = accuracyCmd.MarkFlagRequired("out")

	_ = viper.BindPFlag("recognizerBinary", accuracyCmd.Flags().Lookup("bin"))
	_ = viper.BindPFlag("jobs", accuracyCmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("progress", accuracyCmd.Flags().Lookup("progress"))

	rootCmd.AddCommand(accuracyCmd)
}
