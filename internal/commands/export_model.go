// internal/commands/export_model.go
package alpreval

import (
	"context"
	"fmt"

	"github.com/mwiater/alpreval/internal/modelexport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportOpts modelexport.Options

// exportModelCmd converts PyTorch detector weights to ONNX via the exporter CLI.
var exportModelCmd = &cobra.Command{
	Use:          "export-model",
	Short:        "Export detector weights (.pt) to ONNX with the Ultralytics CLI",
	Example:      `  alpreval export-model --pt weights/best.pt --out models/plate.onnx --imgsz 640`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		opts := exportOpts
		opts.Exporter = cfg.ExporterBinaryPath()

		ctx := cmd.Context()
		if timeout := cfg.InvocationTimeout(); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		target, err := modelexport.Export(ctx, opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[export] ONNX generated: %s\n", target)
		return nil
	},
}

func init() {
	exportModelCmd.Flags().StringVar(&exportOpts.ModelPath, "pt", "", "path to the .pt weights")
	exportModelCmd.Flags().StringVar(&exportOpts.OutPath, "out", "", "destination .onnx path")
	exportModelCmd.Flags().IntVar(&exportOpts.ImageSize, "imgsz", modelexport.DefaultImageSize, "square input size")
	exportModelCmd.Flags().String("exporter", "", "exporter executable (default yolo)")
	_ = exportModelCmd.MarkFlagRequired("pt")
	_ = exportModelCmd.MarkFlagRequired("out")

	_ = viper.BindPFlag("exporterBinary", exportModelCmd.Flags().Lookup("exporter"))

	rootCmd.AddCommand(exportModelCmd)
}
