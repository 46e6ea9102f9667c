// Package runner drives a full accuracy run: precondition checks, dataset
// loading, recognizer invocation, aggregation and report emission.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mwiater/alpreval/internal/accuracy"
	"github.com/mwiater/alpreval/internal/appconfig"
	"github.com/mwiater/alpreval/internal/dataset"
	"github.com/mwiater/alpreval/internal/logging"
	"github.com/mwiater/alpreval/internal/recognizer"
	"github.com/mwiater/alpreval/internal/report"
	"github.com/mwiater/alpreval/internal/tui"
	"github.com/mwiater/alpreval/internal/util"
)

// Options selects the dataset and report destination for a run.
type Options struct {
	DatasetPath string
	OutputPath  string
	// Recognizer overrides the subprocess recognizer built from the config.
	Recognizer recognizer.Recognizer
	// Input feeds key presses to the progress view; nil means stdin.
	Input io.Reader
}

// Outcome is what a completed run produced.
type Outcome struct {
	RunID  string
	Report accuracy.Report
	Paths  report.Paths
}

// Run executes one evaluation and writes both reports. Only precondition
// failures (missing recognizer, missing dataset, undeliverable report
// destination) and report write failures are returned as errors; per-sample
// problems end up in the report.
func Run(ctx context.Context, cfg appconfig.Config, opts Options, out io.Writer) (Outcome, error) {
	if strings.TrimSpace(opts.DatasetPath) == "" {
		return Outcome{}, errors.New("dataset path is required")
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		return Outcome{}, errors.New("output path is required")
	}

	rec := opts.Recognizer
	if rec == nil {
		process, err := recognizer.NewProcess(cfg.RecognizerBinaryPath(),
			recognizer.WithJSONFlag(cfg.JSONFlag()),
			recognizer.WithArgs(cfg.RecognizerArgs...),
			recognizer.WithTimeout(cfg.InvocationTimeout()),
		)
		if err != nil {
			return Outcome{}, err
		}
		rec = process
	}
	if err := dataset.Check(opts.DatasetPath); err != nil {
		return Outcome{}, err
	}
	if err := util.EnsureParentDir(opts.OutputPath); err != nil {
		return Outcome{}, fmt.Errorf("report destination %s not writable: %w", opts.OutputPath, err)
	}

	samples, err := dataset.Load(opts.DatasetPath)
	if err != nil {
		return Outcome{}, err
	}

	runID := uuid.NewString()
	logging.SetRunID(runID)
	defer logging.SetRunID("")
	logging.LogEvent("Evaluating %d samples from %s with %d job(s)", len(samples), opts.DatasetPath, cfg.Workers())

	cases := evaluate(ctx, cfg, samples, rec, opts.Input, out)
	rep := accuracy.Aggregate(cases)

	paths, err := report.Emit(rep, opts.OutputPath)
	if err != nil {
		return Outcome{RunID: runID, Report: rep, Paths: paths}, err
	}
	logging.LogEvent("Run complete: accuracy_top1=%.3f labeled=%d total=%d", rep.AccuracyTop1, rep.LabeledSamples, rep.TotalSamples)

	report.PrintConsole(out, rep)
	fmt.Fprintf(out, "Wrote %s and %s\n", paths.JSON, paths.Summary)
	return Outcome{RunID: runID, Report: rep, Paths: paths}, nil
}

func evaluate(ctx context.Context, cfg appconfig.Config, samples []dataset.Sample, rec recognizer.Recognizer, in io.Reader, out io.Writer) []accuracy.CaseRecord {
	evalOpts := accuracy.EvaluateOptions{Jobs: cfg.Workers()}

	if cfg.Progress {
		// The view owns the console until it closes; logs go to the file only.
		consoleOn := logging.SetConsole(false)
		defer logging.SetConsole(consoleOn)

		var cases []accuracy.CaseRecord
		err := tui.Run(ctx, len(samples), in, out, func(progress accuracy.Progress) {
			evalOpts.OnProgress = progress
			cases = accuracy.Evaluate(ctx, samples, rec, evalOpts)
		})
		if err != nil {
			logging.LogEvent("progress view stopped: %v", err)
		}
		return cases
	}

	evalOpts.OnProgress = func(done, total int, c accuracy.CaseRecord) {
		fmt.Fprintf(out, "[%d/%d] %s status=%s expected=%q predicted=%q\n",
			done, total, c.Path, report.StatusString(c.Status), c.Expected, c.Predicted)
	}
	return accuracy.Evaluate(ctx, samples, rec, evalOpts)
}
