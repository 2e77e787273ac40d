package schedule

import (
	"testing"
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

func TestEnrichCriticalPath(t *testing.T) {
	now := date(2026, 6, 1)

	tests := []struct {
		name     string
		mutate   func(*models.Task)
		expected bool
	}{
		{"plain task", func(*models.Task) {}, false},
		{"raw flag", func(tk *models.Task) { tk.CriticalPath = true }, true},
		{"critical priority", func(tk *models.Task) { tk.Priority = models.PriorityCritical }, true},
		{"delayed status", func(tk *models.Task) { tk.Status = models.TaskDelayed }, true},
		{"high priority only", func(tk *models.Task) { tk.Priority = models.PriorityHigh }, false},
		{"blocked status only", func(tk *models.Task) { tk.Status = models.TaskBlocked }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := task("t1", "Pour slab", models.CategoryStructural, 50, models.TaskInProgress)
			tt.mutate(&tk)
			if got := Enrich(tk, now).IsCriticalPath; got != tt.expected {
				t.Errorf("IsCriticalPath = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnrichCriticalPathIsMonotonic(t *testing.T) {
	now := date(2026, 6, 1)
	statuses := []models.TaskStatus{
		models.TaskPending, models.TaskInProgress, models.TaskCompleted, models.TaskDelayed, models.TaskBlocked,
	}

	for _, status := range statuses {
		for _, progress := range []int{0, 19, 50, 100} {
			tk := task("t1", "Wiring", models.CategoryElectrical, progress, status)
			tk.Priority = models.PriorityCritical
			tk.EndDate = datePtr(2026, 1, 1)
			if !Enrich(tk, now).IsCriticalPath {
				t.Errorf("critical priority task with status %q progress %d lost critical path flag", status, progress)
			}
		}
	}

	for _, prio := range []models.Priority{models.PriorityNormal, models.PriorityHigh, models.PriorityCritical} {
		tk := task("t2", "Wiring", models.CategoryElectrical, 100, models.TaskDelayed)
		tk.Priority = prio
		if !Enrich(tk, now).IsCriticalPath {
			t.Errorf("delayed task with priority %q lost critical path flag", prio)
		}
	}
}

func TestEnrichRiskLevel(t *testing.T) {
	now := date(2026, 6, 1)

	tests := []struct {
		name     string
		status   models.TaskStatus
		progress int
		endDate  *time.Time
		expected RiskLevel
	}{
		{"delayed", models.TaskDelayed, 90, nil, RiskHigh},
		{"blocked", models.TaskBlocked, 0, nil, RiskHigh},
		{"overdue low progress", models.TaskInProgress, 10, datePtr(2026, 5, 1), RiskMedium},
		{"overdue at threshold", models.TaskInProgress, 20, datePtr(2026, 5, 1), RiskLow},
		{"low progress not due", models.TaskInProgress, 10, datePtr(2026, 7, 1), RiskLow},
		{"low progress no end date", models.TaskPending, 0, nil, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := task("t1", "Plastering", models.CategoryFinishing, tt.progress, tt.status)
			tk.EndDate = tt.endDate
			if got := Enrich(tk, now).RiskLevel; got != tt.expected {
				t.Errorf("RiskLevel = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	now := date(2026, 6, 1)
	tasks := []models.Task{
		task("a", "Column casting", models.CategoryStructural, 45, models.TaskDelayed),
		task("b", "Roof slab", models.CategoryStructural, 5, models.TaskInProgress),
		task("c", "Snag list", models.CategoryInspection, 100, models.TaskCompleted),
	}
	tasks[1].EndDate = datePtr(2026, 2, 1)
	tasks[2].Priority = models.PriorityCritical

	for _, tk := range tasks {
		first := Enrich(tk, now)
		second := Enrich(first.Raw(), now)
		if first.IsCriticalPath != second.IsCriticalPath || first.RiskLevel != second.RiskLevel {
			t.Errorf("task %s: re-enrichment changed derived fields: %+v -> %+v", tk.ID, first, second)
		}
	}
}

func TestEnrichDoesNotSynthesizeResources(t *testing.T) {
	tk := task("t1", "Brick masonry", models.CategoryStructural, 30, models.TaskInProgress)
	if e := Enrich(tk, date(2026, 6, 1)); e.Resources != nil {
		t.Errorf("expected nil resources, got %+v", e.Resources)
	}
}
