package display

import "github.com/ayusman/handsign/internal/gesture"

// DefaultAcceptThreshold is the minimum confidence for a gesture to be shown.
const DefaultAcceptThreshold = 0.85

// Select returns the highest-confidence estimate. Ties keep the earliest
// estimate. It reports false when there are no estimates or the best one is
// below threshold; a confidence equal to threshold is accepted.
func Select(estimates []gesture.Estimate, threshold float64) (gesture.Estimate, bool) {
	if len(estimates) == 0 {
		return gesture.Estimate{}, false
	}
	best := estimates[0]
	for _, e := range estimates[1:] {
		if e.Confidence > best.Confidence {
			best = e
		}
	}
	if !(best.Confidence >= threshold) {
		return best, false
	}
	return best, true
}
