package schedule

import (
	"testing"
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

func TestAnalyze(t *testing.T) {
	now := date(2026, 6, 1)

	tests := []struct {
		name      string
		status    models.TaskStatus
		progress  int
		endDate   *time.Time
		delayed   bool
		delayDays int
	}{
		{"complete despite past end", models.TaskCompleted, 100, datePtr(2026, 1, 1), false, 0},
		{"complete but marked delayed", models.TaskDelayed, 100, datePtr(2026, 1, 1), false, 0},
		{"overdue", models.TaskInProgress, 60, datePtr(2026, 5, 20), true, 12},
		{"not yet due", models.TaskInProgress, 60, datePtr(2026, 6, 20), false, 0},
		{"due today", models.TaskInProgress, 60, datePtr(2026, 6, 1), false, 0},
		{"no end date", models.TaskInProgress, 10, nil, false, 0},
		{"delayed status no end date", models.TaskDelayed, 10, nil, true, 0},
		{"delayed status future end", models.TaskDelayed, 10, datePtr(2026, 7, 1), true, 0},
		{"delayed status past end", models.TaskDelayed, 10, datePtr(2026, 5, 1), true, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := task("t1", "Slab", models.CategoryStructural, tt.progress, tt.status)
			tk.EndDate = tt.endDate

			got := Analyze(tk, now)
			if got.IsDelayed != tt.delayed {
				t.Errorf("IsDelayed = %v, want %v", got.IsDelayed, tt.delayed)
			}
			if got.DelayDays != tt.delayDays {
				t.Errorf("DelayDays = %d, want %d", got.DelayDays, tt.delayDays)
			}
		})
	}
}

func TestAnalyzeDependsOnNow(t *testing.T) {
	tk := task("t1", "Slab", models.CategoryStructural, 50, models.TaskInProgress)
	tk.EndDate = datePtr(2026, 3, 1)

	early := Analyze(tk, date(2026, 2, 1))
	late := Analyze(tk, date(2026, 3, 11))
	if early.IsDelayed {
		t.Error("expected no delay before the planned end")
	}
	if !late.IsDelayed || late.DelayDays != 10 {
		t.Errorf("expected 10 delay days, got %+v", late)
	}
}

func TestAnalyzePartialDayRoundsUp(t *testing.T) {
	tk := task("t1", "Slab", models.CategoryStructural, 50, models.TaskInProgress)
	tk.EndDate = datePtr(2026, 3, 1)

	got := Analyze(tk, date(2026, 3, 2).Add(6*time.Hour))
	if got.DelayDays != 2 {
		t.Errorf("expected 2 delay days, got %d", got.DelayDays)
	}
}
