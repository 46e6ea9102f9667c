// internal/accuracy/types.go
package accuracy

import (
	"bytes"
	"encoding/json"
)

// Status is the outcome assigned to exactly one sample.
type Status string

const (
	// StatusNeedsLabel marks a sample with no ground truth; it is excluded from accuracy.
	StatusNeedsLabel Status = "needs_label"
	// StatusNoPlate marks a labeled sample for which the recognizer produced no usable candidate.
	StatusNoPlate Status = "no_plate"
	// StatusCorrect marks a labeled sample whose normalized top candidate equals the normalized expectation.
	StatusCorrect Status = "correct"
	// StatusIncorrect marks a labeled sample whose top candidate differs from the expectation.
	StatusIncorrect Status = "incorrect"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusCorrect, StatusIncorrect, StatusNoPlate, StatusNeedsLabel}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNeedsLabel, StatusNoPlate, StatusCorrect, StatusIncorrect:
		return true
	}
	return false
}

// CaseRecord is one row of the report, in dataset order.
type CaseRecord struct {
	Path      string `json:"path"`
	Expected  string `json:"expected"`
	Predicted string `json:"predicted"`
	Status    Status `json:"status"`
}

// Ratio is a fraction in [0, 1]. It always serializes with a fractional
// part, so 0 and 1 are written as 0.0 and 1.0.
type Ratio float64

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(float64(r))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(data, ".eE") {
		data = append(data, ".0"...)
	}
	return data, nil
}

// Report is the aggregate over a whole dataset. Field order is the
// serialized key order.
type Report struct {
	TotalSamples   int          `json:"total_samples"`
	LabeledSamples int          `json:"labeled_samples"`
	NeedsLabel     int          `json:"needs_label"`
	Correct        int          `json:"correct"`
	Incorrect      int          `json:"incorrect"`
	NoPlate        int          `json:"no_plate"`
	AccuracyTop1   Ratio        `json:"accuracy_top1"`
	Cases          []CaseRecord `json:"cases"`
}
