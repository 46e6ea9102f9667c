// internal/accuracy/evaluate.go
package accuracy

import (
	"context"
	"sync"

	"github.com/mwiater/alpreval/internal/dataset"
	"github.com/mwiater/alpreval/internal/recognizer"
	"golang.org/x/sync/errgroup"
)

// Progress is told about each finished case. done counts finished cases,
// not dataset positions. Calls never overlap.
type Progress func(done, total int, c CaseRecord)

// EvaluateOptions tunes Evaluate.
type EvaluateOptions struct {
	// Jobs is the number of concurrent recognizer invocations; <= 1 runs sequentially.
	Jobs       int
	OnProgress Progress
}

// Evaluate runs rec against every sample and returns one CaseRecord per
// sample in input order, regardless of how many invocations ran at once.
func Evaluate(ctx context.Context, samples []dataset.Sample, rec recognizer.Recognizer, opts EvaluateOptions) []CaseRecord {
	cases := make([]CaseRecord, len(samples))
	total := len(samples)

	if opts.Jobs <= 1 {
		for i, sample := range samples {
			cases[i] = NewCase(sample, rec.Recognize(ctx, sample.Path))
			if opts.OnProgress != nil {
				opts.OnProgress(i+1, total, cases[i])
			}
		}
		return cases
	}

	var (
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)
	g.SetLimit(opts.Jobs)
	for i, sample := range samples {
		g.Go(func() error {
			c := NewCase(sample, rec.Recognize(ctx, sample.Path))
			cases[i] = c

			mu.Lock()
			defer mu.Unlock()
			done++
			if opts.OnProgress != nil {
				opts.OnProgress(done, total, c)
			}
			return nil
		})
	}
	_ = g.Wait()
	return cases
}
