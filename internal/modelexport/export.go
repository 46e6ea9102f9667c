// Package modelexport converts a trained plate detector to ONNX by handing
// off to an external exporter (the Ultralytics "yolo" CLI by default).
package modelexport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwiater/alpreval/internal/logging"
	"github.com/mwiater/alpreval/internal/util"
)

const (
	// DefaultImageSize is the square input size baked into the exported graph.
	DefaultImageSize = 640
	opset            = 12
)

var (
	// ErrModelNotFound is returned when the source weights are missing.
	ErrModelNotFound = errors.New("model file not found")
	// ErrExporterNotFound is returned when the exporter executable cannot be located.
	ErrExporterNotFound = errors.New("exporter not found")
)

// Options describes one export.
type Options struct {
	ModelPath string
	OutPath   string
	ImageSize int
	Exporter  string
}

// Args returns the exporter arguments for opts.
func (o Options) Args() []string {
	size := o.ImageSize
	if size <= 0 {
		size = DefaultImageSize
	}
	return []string{
		"export",
		"model=" + o.ModelPath,
		"format=onnx",
		"imgsz=" + strconv.Itoa(size),
		"opset=" + strconv.Itoa(opset),
		"dynamic=False",
		"simplify=False",
		"half=False",
	}
}

// Export runs the exporter and moves its output to opts.OutPath. Exporter
// output is streamed to out. The absolute output path is returned.
func Export(ctx context.Context, opts Options, out io.Writer) (string, error) {
	if info, err := os.Stat(opts.ModelPath); err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, opts.ModelPath)
	}
	if strings.TrimSpace(opts.OutPath) == "" {
		return "", fmt.Errorf("output path is required")
	}
	target, err := filepath.Abs(opts.OutPath)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := util.EnsureParentDir(target); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	exporter, err := exec.LookPath(opts.Exporter)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrExporterNotFound, opts.Exporter, err)
	}

	args := opts.Args()
	logging.LogEvent("Exporting %s to ONNX via %s %s", opts.ModelPath, exporter, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, exporter, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("exporter failed: %w", err)
	}

	produced, err := locateOutput(opts.ModelPath)
	if err != nil {
		return "", err
	}
	if produced != target {
		if err := moveFile(produced, target); err != nil {
			return "", fmt.Errorf("move %s to %s: %w", produced, target, err)
		}
	}

	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		return "", fmt.Errorf("ONNX output missing or empty: %s", target)
	}
	logging.LogEvent("ONNX generated at %s", target)
	return target, nil
}

// locateOutput finds the exporter's file: next to the weights, or model.onnx
// in the working directory.
func locateOutput(modelPath string) (string, error) {
	candidates := []string{
		strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".onnx",
		"model.onnx",
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", fmt.Errorf("export did not produce an ONNX file")
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := util.WriteFile(dst, data); err != nil {
		return err
	}
	return os.Remove(src)
}
