package schedule

import (
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

// Deviation is the slippage of one task against its planned end
type Deviation struct {
	IsDelayed bool `json:"isDelayed"`
	DelayDays int  `json:"delayDays"`
}

// Analyze compares a task's planned end with now.
//
// A task at 100% progress is never delayed, whatever its status or dates.
// This takes precedence over a Delayed status: finished work reports no
// slippage even if the status was not updated.
// A task without an end date uses now as its planned end, so it can only be
// delayed through its status. A task marked Delayed whose end is still ahead
// reports zero delay days.
func Analyze(t models.Task, now time.Time) Deviation {
	if t.Progress >= 100 {
		return Deviation{}
	}

	plannedEnd := DefaultFallbacks().PlannedEnd(t, now)
	delayed := t.Status == models.TaskDelayed || plannedEnd.Before(now)
	if !delayed {
		return Deviation{}
	}

	return Deviation{
		IsDelayed: true,
		DelayDays: max(0, daysBetween(plannedEnd, now)),
	}
}
