// internal/accuracy/classify.go
package accuracy

import (
	"github.com/mwiater/alpreval/internal/dataset"
	"github.com/mwiater/alpreval/internal/recognizer"
)

// Classify assigns a status using a fixed precedence: unlabeled first, then
// missing candidate, then normalized equality. An unlabeled sample is
// needs_label even when the recognizer also failed.
func Classify(sample dataset.Sample, result recognizer.Result) Status {
	switch {
	case !sample.Labeled():
		return StatusNeedsLabel
	case result.InvocationFailed || result.TopCandidate == "":
		return StatusNoPlate
	case Normalize(result.TopCandidate) == Normalize(sample.Expected):
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

// NewCase builds the report row for sample. The raw, un-normalized texts are kept for display.
func NewCase(sample dataset.Sample, result recognizer.Result) CaseRecord {
	predicted := result.TopCandidate
	if result.InvocationFailed {
		predicted = ""
	}
	return CaseRecord{
		Path:      sample.Path,
		Expected:  sample.Expected,
		Predicted: predicted,
		Status:    Classify(sample, result),
	}
}
