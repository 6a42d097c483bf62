package analysis

import "math"

// ControversyScore measures how evenly split a for/against tally was.
// 1.0 is an exact split, 0.0 is unanimous or no recorded ballots.
// The result is symmetric in swapping the two counts.
func ControversyScore(forCount, againstCount int) float64 {
	total := forCount + againstCount
	if total <= 0 {
		return 0
	}
	return 1 - math.Abs(float64(forCount-againstCount))/float64(total)
}
