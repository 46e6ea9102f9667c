// Package report writes an accuracy report as structured JSON, as a
// condensed text summary, and as a colored console digest.
package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mwiater/alpreval/internal/accuracy"
	"github.com/mwiater/alpreval/internal/util"
)

const (
	// SummaryExt replaces the primary report's extension for the text summary.
	SummaryExt = ".txt"
	// WorstCasesLimit caps the incorrect cases listed in the text summary.
	WorstCasesLimit = 10
)

// Paths names the files written by Emit.
type Paths struct {
	JSON    string
	Summary string
}

// SummaryPath derives the text summary location from the primary report path.
func SummaryPath(primary string) string {
	return util.ReplaceExt(primary, SummaryExt)
}

// Emit writes the full JSON report to primary and the text summary next to
// it. Failing to create the destination directory aborts before either
// write; otherwise both writes are attempted and their errors joined.
func Emit(r accuracy.Report, primary string) (Paths, error) {
	paths := Paths{JSON: primary, Summary: SummaryPath(primary)}
	if err := util.EnsureParentDir(primary); err != nil {
		return paths, fmt.Errorf("create report directory: %w", err)
	}

	var errs []error
	if err := writeFile(paths.JSON, func(w io.Writer) error { return WriteJSON(w, r) }); err != nil {
		errs = append(errs, fmt.Errorf("write report %s: %w", paths.JSON, err))
	}
	if err := writeFile(paths.Summary, func(w io.Writer) error { return WriteSummary(w, r) }); err != nil {
		errs = append(errs, fmt.Errorf("write summary %s: %w", paths.Summary, err))
	}
	return paths, errors.Join(errs...)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(file)
	if err := write(buf); err != nil {
		_ = file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteJSON serializes the whole report, keys in declaration order.
func WriteJSON(w io.Writer, r accuracy.Report) error {
	if r.Cases == nil {
		r.Cases = []accuracy.CaseRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(r)
}

// WriteSummary writes the counters line followed by at most
// WorstCasesLimit incorrect cases.
func WriteSummary(w io.Writer, r accuracy.Report) error {
	if _, err := fmt.Fprintf(w, "total=%d labeled=%d needs_label=%d correct=%d incorrect=%d no_plate=%d accuracy_top1=%.3f\n",
		r.TotalSamples, r.LabeledSamples, r.NeedsLabel, r.Correct, r.Incorrect, r.NoPlate, r.AccuracyTop1); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "worst_cases (pred!=expected):"); err != nil {
		return err
	}
	for _, c := range r.WorstCases(WorstCasesLimit) {
		if _, err := fmt.Fprintf(w, "%s expected=%s predicted=%s\n", c.Path, c.Expected, c.Predicted); err != nil {
			return err
		}
	}
	return nil
}

var statusColors = map[accuracy.Status]*color.Color{
	accuracy.StatusCorrect:    color.New(color.FgGreen),
	accuracy.StatusIncorrect:  color.New(color.FgRed),
	accuracy.StatusNoPlate:    color.New(color.FgYellow),
	accuracy.StatusNeedsLabel: color.New(color.FgCyan),
}

// StatusString renders status in its console color.
func StatusString(status accuracy.Status) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}

// PrintConsole writes a short colored digest of r for the operator.
func PrintConsole(w io.Writer, r accuracy.Report) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Top-1 accuracy: %.3f", r.AccuracyTop1)
	fmt.Fprintf(w, " (%d/%d labeled, %d total)\n", r.Correct, r.LabeledSamples, r.TotalSamples)
	for _, status := range accuracy.Statuses {
		fmt.Fprintf(w, "  %-22s %d\n", StatusString(status)+":", r.Count(status))
	}
	worst := r.WorstCases(WorstCasesLimit)
	if len(worst) == 0 {
		return
	}
	fmt.Fprintln(w, "Worst cases:")
	for _, c := range worst {
		fmt.Fprintf(w, "  %s expected=%s predicted=%s\n", c.Path, c.Expected, statusColors[accuracy.StatusIncorrect].Sprint(c.Predicted))
	}
}
