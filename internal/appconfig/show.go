package appconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary. With raw set, the
// struct is also dumped as-is for debugging flag/config precedence.
func ShowConfig(out io.Writer, file string, cfg Config, raw bool) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:          %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Recognizer Binary: %s\n", cfg.RecognizerBinaryPath())
	fmt.Fprintf(out, "  Recognizer Flag:   %s\n", cfg.JSONFlag())
	if len(cfg.RecognizerArgs) > 0 {
		fmt.Fprintf(out, "  Recognizer Args:   %s\n", strings.Join(cfg.RecognizerArgs, " "))
	}
	if timeout := cfg.InvocationTimeout(); timeout > 0 {
		fmt.Fprintf(out, "  Timeout:           %s\n", timeout)
	} else {
		fmt.Fprintln(out, "  Timeout:           none")
	}
	fmt.Fprintf(out, "  Jobs:              %d\n", cfg.Workers())
	fmt.Fprintf(out, "  Progress View:     %v\n", cfg.Progress)
	fmt.Fprintf(out, "  Exporter Binary:   %s\n", cfg.ExporterBinaryPath())

	if raw {
		fmt.Fprintln(out)
		pp.ColoringEnabled = false
		_, _ = pp.Fprintln(out, cfg)
	}
}
