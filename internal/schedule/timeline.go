package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

// Timeline is the elapsed/remaining view of a project's dates
type Timeline struct {
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	TotalDays      int       `json:"totalDays"`
	DaysCompleted  int       `json:"daysCompleted"`
	DaysRemaining  int       `json:"daysRemaining"`
	PercentElapsed int       `json:"percentElapsed"`
}

// ComputeTimeline resolves the project dates and measures them against now.
// A stored end date before the stored start date is rejected with
// ErrInvalidDateRange. An inversion produced by a fallback date yields a
// zero-length timeline instead.
func ComputeTimeline(p models.Project, now time.Time, fb Fallbacks) (Timeline, error) {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return Timeline{}, fmt.Errorf("project %s: %w", p.ID, models.ErrInvalidDateRange)
	}
	start := fb.ProjectStart(p, now)
	end := fb.ProjectEnd(p, now)

	total := max(0, daysBetween(start, end))
	completed := max(0, daysBetween(start, now))

	tl := Timeline{
		StartDate:     start,
		EndDate:       end,
		TotalDays:     total,
		DaysCompleted: completed,
		DaysRemaining: max(0, total-completed),
	}
	if total > 0 {
		pct := math.Round(float64(completed) / float64(total) * 100)
		tl.PercentElapsed = int(min(100, pct))
	}
	return tl, nil
}
