// internal/accuracy/aggregate.go
package accuracy

// Aggregate folds cases into a Report. Each case lands in exactly one
// bucket; the ratio is computed once the fold is complete. The returned
// Report owns a copy of cases in the same order.
func Aggregate(cases []CaseRecord) Report {
	report := Report{Cases: make([]CaseRecord, len(cases))}
	copy(report.Cases, cases)

	for _, c := range cases {
		report.TotalSamples++
		switch c.Status {
		case StatusNeedsLabel:
			report.NeedsLabel++
			continue
		case StatusCorrect:
			report.Correct++
		case StatusIncorrect:
			report.Incorrect++
		default:
			report.NoPlate++
		}
		report.LabeledSamples++
	}

	if report.LabeledSamples > 0 {
		report.AccuracyTop1 = Ratio(float64(report.Correct) / float64(report.LabeledSamples))
	}
	return report
}

// WorstCases returns up to limit incorrect cases in report order.
func (r Report) WorstCases(limit int) []CaseRecord {
	var worst []CaseRecord
	for _, c := range r.Cases {
		if limit >= 0 && len(worst) >= limit {
			break
		}
		if c.Status == StatusIncorrect {
			worst = append(worst, c)
		}
	}
	return worst
}

// Count returns the counter that corresponds to status.
func (r Report) Count(status Status) int {
	switch status {
	case StatusCorrect:
		return r.Correct
	case StatusIncorrect:
		return r.Incorrect
	case StatusNoPlate:
		return r.NoPlate
	case StatusNeedsLabel:
		return r.NeedsLabel
	}
	return 0
}
