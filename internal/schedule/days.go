package schedule

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// daysBetween returns the whole days from a to b, rounded up.
// Negative when b is before a.
func daysBetween(a, b time.Time) int {
	return int(math.Ceil(float64(b.Sub(a)) / float64(day)))
}

func roundedMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
