package schedule

import (
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

// Fallbacks lists every optional input the analytics read and what is used
// when it is absent.
//
//	project.startDate  -> now
//	project.endDate    -> now + ProjectSpanMonths
//	task.endDate       -> now (slippage only; see Analyze)
//
// Tasks without a category or description simply match no phase, and tasks
// without resources carry none. Nothing is synthesized.
type Fallbacks struct {
	ProjectSpanMonths int
}

// DefaultFallbacks returns the standard fallbacks
func DefaultFallbacks() Fallbacks {
	return Fallbacks{ProjectSpanMonths: 6}
}

// ProjectStart resolves the project start date
func (f Fallbacks) ProjectStart(p models.Project, now time.Time) time.Time {
	if p.StartDate != nil {
		return *p.StartDate
	}
	return now
}

// ProjectEnd resolves the project end date
func (f Fallbacks) ProjectEnd(p models.Project, now time.Time) time.Time {
	if p.EndDate != nil {
		return *p.EndDate
	}
	return now.AddDate(0, f.ProjectSpanMonths, 0)
}

// PlannedEnd resolves the planned end of a task
func (f Fallbacks) PlannedEnd(t models.Task, now time.Time) time.Time {
	if t.EndDate != nil {
		return *t.EndDate
	}
	return now
}
